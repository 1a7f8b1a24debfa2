package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/docs"
	"github.com/fwojciec/devdocs/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Types is the built-in registry. Set before calling Run().
	Types []devdocs.DocType
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Types: docs.Builtin()}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("devdocs"),
		kong.Description("Scrape documentation sites into an offline corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'devdocs --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Verbose = cli.Verbose
	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Types = m.Types
	if cli.Config != "" {
		overlay, err := yaml.LoadFile(cli.Config)
		if err != nil {
			return fmt.Errorf("failed to load config %q: %w", cli.Config, err)
		}
		deps.Types = docs.Merge(deps.Types, overlay)
	}

	return kongCtx.Run(deps)
}

// newLogger returns a slog logger writing human-readable lines to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return slog.New(handler)
}
