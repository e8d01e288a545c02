package subnet

import "github.com/shinji-kodama/subnet-splitter/internal/model"

// Usage summarizes how much of the parent network a Result allocates.
type Usage struct {
	// TotalIPs is the number of addresses in the parent, 2^AvailableBits.
	TotalIPs uint64 `json:"totalIps" yaml:"totalIps"`

	// TheoreticalMaxPerSubnet is floor(TotalIPs / NeededSubnets): what each
	// subnet could hold if sizes did not have to be powers of two.
	TheoreticalMaxPerSubnet uint64 `json:"theoreticalMaxIpsPerSubnet" yaml:"theoreticalMaxIpsPerSubnet"`

	// UsedIPs is MaxIPsPerSubnet * NeededSubnets.
	UsedIPs uint64 `json:"usedIps" yaml:"usedIps"`

	// UnusedIPs is TotalIPs - UsedIPs.
	UnusedIPs uint64 `json:"unusedIps" yaml:"unusedIps"`

	// PercentUsed is UsedIPs / TotalIPs * 100.
	PercentUsed float64 `json:"percentUsed" yaml:"percentUsed"`

	// UnusedRange is the trailing space after the last subnet, or nil
	// when the subnets cover the whole parent.
	UnusedRange *model.IPRange `json:"unusedRange,omitempty" yaml:"unusedRange,omitempty"`
}

// Summarize derives the utilization figures of a partition.
func Summarize(r *Result) Usage {
	total := r.Parent.Size()
	used := r.MaxIPsPerSubnet * uint64(r.NeededSubnets)

	u := Usage{
		TotalIPs:                total,
		TheoreticalMaxPerSubnet: total / uint64(r.NeededSubnets),
		UsedIPs:                 used,
		UnusedIPs:               total - used,
		PercentUsed:             float64(used) / float64(total) * 100,
	}

	if u.UnusedIPs > 0 && len(r.Subnets) > 0 {
		// The parent does not end inside the last subnet, so Next cannot wrap.
		start, _ := r.Subnets[len(r.Subnets)-1].Last().Next()
		u.UnusedRange = &model.IPRange{Start: start, End: r.Parent.Last()}
	}
	return u
}
