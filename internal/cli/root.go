// Package cli implements the cobra-based CLI commands for subnet-splitter.
//
// Each subcommand (split, plan, inspect) is defined in its own file within
// this package. This file defines the root command that serves as the
// parent for all subcommands and handles global flags, logging, and the
// mapping of errors to exit codes.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/report"
	"github.com/shinji-kodama/subnet-splitter/internal/subnet"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// yamlOutput controls whether command output is formatted as YAML.
	yamlOutput bool

	// verbose enables debug logging to stderr.
	verbose bool
)

// logger receives VerboseLog output. It is a no-op logger until the root
// command's PersistentPreRunE installs a real one for --verbose.
var logger = zap.NewNop().Sugar()

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; the work is done by the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subnet-splitter",
		Short: "Split an IPv4 network into equally sized subnets",
		Long: `subnet-splitter divides an IPv4 network into a requested number of
equally sized, contiguous subnets.

The subnets are the largest power-of-two blocks of which the requested
number still fit in the parent network. They are laid out back to back
from the parent's first address; any space left over is reported as a
single unused range.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them (text, JSON or YAML).
		SilenceErrors: true,

		Version: Version + " (commit: " + Commit + ", built: " + Date + ")",

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), verbose).Sugar()
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	// Malformed flag values (a bad --cidr, a non-numeric --available-bits)
	// are input errors, not general failures.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid flag", err)
	})

	rootCmd.AddCommand(NewSplitCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewInspectCommand())

	return rootCmd
}

// newLogger builds the verbose logger: a development console encoder
// writing to w at debug level, or a no-op logger when verbose is false.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
func Execute(ctx context.Context, rootCmd *cobra.Command) {
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err == nil {
		return
	}

	printError(os.Stderr, err)
	os.Exit(int(ExitCodeFor(err)))
}

// ExitCodeFor translates a command error into the process exit code.
//
// CLIError values carry their own code. Partition errors map by kind:
// rejected input exits with ExitInvalidInput and a violated internal
// invariant with ExitInternalError. Anything else exits with 1.
func ExitCodeFor(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}

	switch kind := subnet.KindOf(err); {
	case kind == subnet.PrefixOverflow:
		return model.ExitInternalError
	case kind.IsInputError():
		return model.ExitInvalidInput
	default:
		return model.ExitGeneralError
	}
}

// errorJSON is the machine-readable error object written with --json or
// --yaml.
type errorJSON struct {
	Error errorDetailJSON `json:"error" yaml:"error"`
}

type errorDetailJSON struct {
	Message  string `json:"message" yaml:"message"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"`
	ExitCode int    `json:"exitCode" yaml:"exitCode"`
}

// printError writes err to w in the format selected by the global flags.
func printError(w io.Writer, err error) {
	switch {
	case jsonOutput || yamlOutput:
		obj := errorJSON{Error: errorDetailJSON{
			Message:  err.Error(),
			ExitCode: int(ExitCodeFor(err)),
		}}
		if kind := subnet.KindOf(err); kind != subnet.KindUnknown {
			obj.Error.Kind = kind.String()
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		if jsonOutput {
			_ = report.JSON(w, obj)
		} else {
			_ = report.YAML(w, obj)
		}
	default:
		report.NewPrinterWithWriters(w, w).Errorf("%s", err)
	}
}

// VerboseLog writes a debug line when verbose mode is enabled.
// It is used throughout the CLI for trace output that helps users
// understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
