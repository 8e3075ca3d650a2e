package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/calvinalkan/note/internal/note"

	flag "github.com/spf13/pflag"
)

// Version is the released version, overridden at build time with
// -ldflags "-X github.com/calvinalkan/note/internal/cli.Version=...".
var Version = "0.1.0"

// app is the state shared by all commands of one invocation. It is filled
// in after configuration is loaded, before any command executes.
type app struct {
	cfg   note.Config
	repo  *note.Repository
	style styler
}

// session opens a repository session unless the invocation was cancelled.
func (a *app) session(ctx context.Context, fn func(s *note.Session) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	return a.repo.WithSession(fn)
}

func commands(a *app) []*Command {
	return []*Command{
		initCmd(a),
		addCmd(a),
		listCmd(a),
		deleteCmd(a),
		statusCmd(a),
		printConfigCmd(a),
	}
}

// Run is the main entry point. Returns exit code.
//
// args includes the program name. sigCh may be nil; a signal received on it
// cancels the context passed to the command.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globalFlags := flag.NewFlagSet("note", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagVersion := globalFlags.Bool("version", false, "Show version and exit")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagRepository := globalFlags.String("repository", "", "Use repository `file` (default .notes)")
	flagColor := globalFlags.String("color", "", "Colorize output: auto, always or never")
	flagVerbose := globalFlags.BoolP("verbose", "v", false, "Log debug output to stderr")

	a := &app{}
	cmds := commands(a)

	if len(args) > 0 {
		args = args[1:]
	}

	err := globalFlags.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globalFlags, cmds)

		return 1
	}

	if *flagHelp {
		printUsage(out, globalFlags, cmds)

		return 0
	}

	if *flagVersion {
		fprintln(out, "note v"+Version)

		return 0
	}

	if globalFlags.Changed("repository") && *flagRepository == "" {
		fprintln(errOut, "error:", note.ErrRepositoryPathEmpty)
		printUsage(errOut, globalFlags, cmds)

		return 1
	}

	rest := globalFlags.Args()
	if len(rest) == 0 {
		if len(args) == 0 {
			printUsage(out, globalFlags, cmds)

			return 0
		}

		fprintln(errOut, "error:", errNoCommand)
		printUsage(errOut, globalFlags, cmds)

		return 1
	}

	cmd := findCommand(cmds, rest[0])
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, rest[0]))
		printUsage(errOut, globalFlags, cmds)

		return 1
	}

	cfg, err := note.LoadConfig(note.LoadConfigInput{
		WorkDirOverride:    *flagCwd,
		ConfigPath:         *flagConfig,
		RepositoryOverride: *flagRepository,
		ColorOverride:      *flagColor,
		Env:                env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger := newLogger(errOut, *flagVerbose || env["NOTE_DEBUG"] == "1")
	logger.Debug("config loaded",
		"cwd", cfg.EffectiveCwd,
		"repository", cfg.RepositoryPath,
		"color", cfg.Color,
		"global", cfg.Sources.Global,
		"project", cfg.Sources.Project,
	)

	a.cfg = cfg
	a.repo = note.New(cfg.RepositoryPath, note.WithLogger(logger))
	a.style = styler{enabled: colorEnabled(cfg.Color, out, env)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				logger.Debug("signal received", "signal", sig.String())
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(stdin, out, errOut), rest[1:])
}

func findCommand(cmds []*Command, name string) *Command {
	for _, cmd := range cmds {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

// newLogger returns a debug logger on errOut, or one that discards
// everything when debug output is off.
func newLogger(errOut io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globalFlags *flag.FlagSet, cmds []*Command) {
	fprintln(w, `note - take notes from the command line

Usage: note [global flags] <command> [args]

Commands:`)

	for _, cmd := range cmds {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder
	globalFlags.SetOutput(&buf)
	globalFlags.PrintDefaults()
	globalFlags.SetOutput(&strings.Builder{})

	_, _ = fmt.Fprint(w, buf.String())

	fprintln(w)
	fprintln(w, "Run 'note <command> --help' for more information on a command.")
}
