package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

// Program metadata.
const (
	Name        = "handybars"
	Description = "Simple template expansion."
)

// CLI is the top-level command-line interface for handybars.
type CLI struct {
	Log logConfig `embed:"" group:"log" prefix:"log-"`

	Config kong.ConfigFlag `help:"Load flag defaults from a YAML or JSON file." placeholder:"FILE"`
	Store  string          `help:"SQLite database of saved contexts and templates." type:"path" default:"${store_path}" placeholder:"DB"`

	Render       renderCmd       `cmd:"" default:"withargs" help:"Render a template (default)."`
	Check        checkCmd        `cmd:"" help:"Validate a template and print the variables it uses."`
	Save         saveCmd         `cmd:"" help:"Save the assembled variables as a named context."`
	SaveTemplate saveTemplateCmd `cmd:"" name:"save-template" help:"Save a template under a name."`
	List         listCmd         `cmd:"" help:"List saved contexts and templates."`
	Delete       deleteCmd       `cmd:"" help:"Delete a saved context or template."`
}

// Streams are the standard streams used by commands.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// app carries parsed global state into command Run methods.
type app struct {
	streams   Streams
	logger    *slog.Logger
	storePath string
}

// Run executes the handybars CLI with the process's standard streams.
// The exit function is called with the appropriate exit code when kong
// terminates early (help, usage errors).
func Run(ctx context.Context, exit func(code int), args ...string) error {
	return Execute(ctx, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, exit, args...)
}

// Execute is Run with explicit streams. Errors are logged to streams.Err
// with the logger selected by the log flags before being returned.
func Execute(ctx context.Context, streams Streams, exit func(code int), args ...string) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(Name),
		kong.Description(Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(streams.Out, streams.Err),
		kong.ExplicitGroups([]kong.Group{cli.Log.group()}),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Configuration(loadConfig),
		kong.Vars{"store_path": defaultStorePath()},
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	logger := cli.Log.logger(streams.Err)
	if err != nil {
		logger.Error("run failed", slog.Any("error", err))
		return err
	}

	a := &app{
		streams:   streams,
		logger:    logger,
		storePath: cli.Store,
	}
	logger.Debug("command starting",
		slog.String("command", ktx.Command()),
		slog.String("store", cli.Store),
	)
	if err := ktx.Run(a); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		return err
	}
	return nil
}

// defaultStorePath places the database in the user config directory,
// falling back to the working directory.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Name + ".db"
	}
	return filepath.Join(dir, Name, Name+".db")
}
