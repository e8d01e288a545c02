// Package cli - inspect.go implements the "subnet-splitter inspect" command.
//
// The inspect command describes a single block: its address range, size,
// netmask, and whether the address given is the block's network address.
// Unlike split, it accepts an address with host bits set (an interface
// address such as 10.113.5.7/16) and reports the containing network.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/report"
	"github.com/shinji-kodama/subnet-splitter/internal/subnet"
)

// NewInspectCommand creates the "inspect" cobra command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <cidr>",
		Short: "Describe an IPv4 block",
		Long: `Describe the IPv4 block written in CIDR notation: its address range,
number of addresses, netmask, and alignment.

Examples:
  subnet-splitter inspect 10.113.0.0/16
  subnet-splitter inspect 10.113.5.7/16 --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(newOutput(cmd), args[0])
		},
	}
}

// inspectJSON is the machine-readable output of the inspect command.
type inspectJSON struct {
	Address       model.IPv4    `json:"address" yaml:"address"`
	Network       model.CIDR    `json:"network" yaml:"network"`
	Range         model.IPRange `json:"range" yaml:"range"`
	TotalIPs      uint64        `json:"totalIps" yaml:"totalIps"`
	AvailableBits int           `json:"availableBits" yaml:"availableBits"`
	Netmask       model.IPv4    `json:"netmask" yaml:"netmask"`
	Aligned       bool          `json:"aligned" yaml:"aligned"`
}

// runInspect is the main logic function for the inspect command.
func runInspect(o *output, input string) error {
	ip, block, err := subnet.ParseInterface(input)
	if err != nil {
		return err
	}

	// NewCIDR refuses a base with host bits set, which is exactly the
	// alignment question.
	_, alignErr := model.NewCIDR(ip, block.Prefix)
	if alignErr != nil {
		VerboseLog("%s is not a network address: %v", input, alignErr)
	}

	info := inspectJSON{
		Address:       ip,
		Network:       block,
		Range:         block.Range(),
		TotalIPs:      block.Size(),
		AvailableBits: model.MaxPrefix - block.Prefix,
		Netmask:       block.Mask(),
		Aligned:       alignErr == nil,
	}

	if o.structured() {
		return o.encode(info)
	}

	p := report.NewLineWriter(o.out)
	p.Linef("Network: %s", report.DataStyle.Sprint(info.Network))
	p.Linef("IP range: %s", info.Range)
	p.Linef("Total IPs: %s (2^%d)", model.FormatCount(info.TotalIPs), info.AvailableBits)
	p.Linef("Netmask: %s", info.Netmask)
	if info.Aligned {
		p.Linef("Aligned: yes")
	} else {
		p.Linef("Aligned: no (%s has host bits set, network address is %s)", ip, block.First())
	}
	return p.Err()
}
