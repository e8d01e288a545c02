package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/subnet-splitter/internal/report"
)

// output bundles the writers a command reports to. Results go to out;
// warnings and errors go through printer to the command's stderr.
type output struct {
	out     io.Writer
	printer *report.Printer
}

// newOutput returns the output of cmd, honoring cmd.SetOut and cmd.SetErr.
func newOutput(cmd *cobra.Command) *output {
	return &output{
		out:     cmd.OutOrStdout(),
		printer: report.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}
}

// structured reports whether --json or --yaml was given.
func (o *output) structured() bool {
	return jsonOutput || yamlOutput
}

// encode writes v in the format selected by --json or --yaml.
func (o *output) encode(v interface{}) error {
	if yamlOutput {
		return report.YAML(o.out, v)
	}
	return report.JSON(o.out, v)
}
