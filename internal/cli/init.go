package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

func initCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("init", flag.ContinueOnError),
		Usage: "init",
		Short: "Create an empty notes repository",
		Long: `Create an empty notes repository in the working directory.

The repository is a single JSON file (.notes unless configured otherwise).
An existing repository is never overwritten.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(args, " "))
			}

			path, err := a.repo.Init()
			if err != nil {
				return err
			}

			io.Println("Initialized empty notes repository in", path)

			return nil
		},
	}
}
