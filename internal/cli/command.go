package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one "note <name>" subcommand.
type Command struct {
	// Flags holds the command's own flags. Global flags are parsed before
	// the command is looked up and never reach this set.
	Flags *flag.FlagSet

	// Usage follows "note" in help output and starts with the command
	// name, e.g. "add <content> [flags]".
	Usage string

	// Short is the line shown in the command list of "note --help".
	Short string

	// Long is shown by "note <name> --help". Short is used when empty.
	Long string

	// Exec runs with the arguments left after flag parsing. A returned
	// error is rendered by [report].
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the command's row in the global command list.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-22s %s", c.Usage, c.Short)
}

// PrintHelp writes the command help to stdout.
func (c *Command) PrintHelp(o *IO) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Printf("Usage: note %s\n\n%s\n", c.Usage, desc)

	if c.Flags.HasFlags() {
		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		c.Flags.SetOutput(&strings.Builder{})

		o.Printf("\nFlags:\n%s", buf.String())
	}

	o.Println()
	o.Println("Global flags are listed by 'note --help'.")
}

// Run parses args into the command's flags and executes it. Returns the
// exit code.
//
// A flag error prints the error, then the command help, and skips Exec.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		c.PrintHelp(o)

		return 0
	}

	if err != nil {
		code := report(o, err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return code
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		return report(o, err)
	}

	return o.Finish()
}
