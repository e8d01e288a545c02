// Package cli - split.go implements the "subnet-splitter split" command.
//
// The split command partitions one parent network. The parent is given
// either as a CIDR (--cidr) or as a number of available host bits
// (--available-bits, anchored at 0.0.0.0). With neither, the default
// 0.0.0.0/16 is used and a warning is printed.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/report"
	"github.com/shinji-kodama/subnet-splitter/internal/subnet"
)

// splitFlags holds the flag values for the split command.
// These are bound to cobra flags in NewSplitCommand.
type splitFlags struct {
	// neededSubnets is kept as the raw string so that the partitioner's
	// own count parsing decides what a valid count is.
	neededSubnets string

	// cidr is the parent network, parsed when the flag is set.
	cidr cidrValue

	// availableBits sizes a parent network anchored at 0.0.0.0.
	availableBits int

	// cidrSet and bitsSet record which parent flag was given.
	cidrSet bool
	bitsSet bool

	// countSet records whether --needed-subnets (or its alias) was given.
	countSet bool
}

// NewSplitCommand creates the "split" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSplitCommand() *cobra.Command {
	flags := &splitFlags{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a network into equally sized subnets",
		Long: `Split a parent network into the requested number of equally sized,
contiguous subnets and report their CIDR blocks and address usage.

The parent is given as a CIDR or as a number of available bits. Without
either, ` + subnet.DefaultParentCIDR + ` is used.

Examples:
  subnet-splitter split -c 10.113.0.0/16 -n 9
  subnet-splitter split -a 16 -n 4
  subnet-splitter split -c 192.168.0.0/24 -n 3 --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.cidrSet = cmd.Flags().Changed("cidr")
			flags.bitsSet = cmd.Flags().Changed("available-bits")
			flags.countSet = cmd.Flags().Changed("needed-subnets") || cmd.Flags().Changed("needed-blocks")
			return runSplit(newOutput(cmd), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.neededSubnets, "needed-subnets", "n", "",
		"Number of subnets to create (required)")
	// --needed-blocks is the historical name of --needed-subnets.
	cmd.Flags().StringVar(&flags.neededSubnets, "needed-blocks", "",
		"Alias for --needed-subnets")
	_ = cmd.Flags().MarkHidden("needed-blocks")
	cmd.MarkFlagsMutuallyExclusive("needed-subnets", "needed-blocks")

	cmd.Flags().VarP(&flags.cidr, "cidr", "c",
		"Parent network in CIDR notation (default "+subnet.DefaultParentCIDR+")")
	cmd.Flags().IntVarP(&flags.availableBits, "available-bits", "a", 0,
		"Size of the parent network in host bits (0-32), anchored at 0.0.0.0")
	cmd.MarkFlagsMutuallyExclusive("cidr", "available-bits")

	return cmd
}

// runSplit is the main logic function for the split command.
// It builds the partition request, runs it, and prints the report.
func runSplit(o *output, flags *splitFlags) error {
	build := func(n int) subnet.Request {
		switch {
		case flags.bitsSet:
			return subnet.FromAvailableBits(flags.availableBits, n)
		case flags.cidrSet:
			return subnet.FromCIDR(flags.cidr.block.String(), n)
		default:
			return subnet.FromCIDR(subnet.DefaultParentCIDR, n)
		}
	}

	if !flags.cidrSet && !flags.bitsSet {
		o.printer.Warnf("No CIDR provided, defaulting to %s", subnet.DefaultParentCIDR)
	}

	n, countErr := subnet.ParseSubnetCount(flags.neededSubnets)
	if countErr != nil {
		// A bad parent network is reported ahead of a bad count. One
		// subnet always fits, so this only fails on the parent.
		if _, err := subnet.Validate(build(1)); err != nil {
			return err
		}
		if !flags.countSet {
			return model.WrapCLIError(model.ExitInvalidInput,
				"missing argument: --needed-subnets (or -n for short)", countErr)
		}
		return countErr
	}

	req := build(n)
	VerboseLog("Partitioning %s", req)

	result, err := subnet.Partition(req)
	if err != nil {
		return err
	}
	usage := subnet.Summarize(result)
	VerboseLog("Computed %d subnets of /%d (%s addresses each)",
		len(result.Subnets), result.SubnetPrefix, model.FormatCount(result.MaxIPsPerSubnet))

	if o.structured() {
		return o.encode(report.NewDocument("", result, usage))
	}
	return report.Text(o.out, result, usage)
}

// cidrValue implements the pflag.Value interface for a parent network in
// the form "x.x.x.x/y". Malformed and misaligned values are rejected when
// the flag is parsed.
type cidrValue struct {
	raw   string
	block model.CIDR
}

var _ pflag.Value = (*cidrValue)(nil)

// String returns the network as it was given on the command line.
func (c *cidrValue) String() string {
	return c.raw
}

// Set parses the provided string as a parent network.
func (c *cidrValue) Set(str string) error {
	block, err := subnet.ParseCIDR(str)
	if err != nil {
		return err
	}
	c.raw = str
	c.block = block
	return nil
}

// Type returns the cidr type.
func (c *cidrValue) Type() string {
	return "cidr"
}
