// Package cli implements the dpvgen command-line interface.
//
// This package provides the commands that turn KiCad footprint position
// exports into Charmhigh DPV pick-and-place files. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - convert: Generate a DPV file from a position file and a stack file
//   - filter: Select a subset of footprints from a position file
//   - profile: Print the effective machine profile as TOML
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and read back with loggerFromContext.
//
// # Example
//
//	os.Exit(cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dpvgen/pkg/buildinfo"
	"github.com/matzehuels/dpvgen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dpvgen"

	// profileFile is the machine profile looked up in the config directory.
	profileFile = "machine.toml"
)

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by Run.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130 // shell convention for SIGINT
)

// Run executes the command line args and returns the process exit code.
// Command output goes to stdout; logs and errors go to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := New(stderr, LogInfo)
	c.Out = stdout
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(stderr)
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	fmt.Fprintln(stderr, "Error:", err)
	return ExitError
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output (DPV summaries, filtered files, profiles).
	// Logs go to the logger's writer.
	Out io.Writer
}

// New creates a new CLI instance with a default logger writing to w.
// Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// --verbose raises the logger to debug level before any command runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "dpvgen generates Charmhigh pick-and-place files from KiCad",
		Long: `dpvgen converts KiCad footprint position exports into DPV job files for
Charmhigh CHM-T36/T48 pick-and-place machines.

A stack file tells dpvgen which feeder stack holds each part:

  # part name, stack, [feed mm], [head], [rotation offset]
  100nF,1
  TPS65400,27,8,2,90`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.profileCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
