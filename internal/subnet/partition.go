package subnet

import (
	"math/bits"
	"strconv"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
)

// Result is a computed partition. It is built fresh for every call and
// shares no state with other results.
type Result struct {
	// Parent is the network that was partitioned.
	Parent model.CIDR `json:"parentNetwork" yaml:"parentNetwork"`

	// AvailableBits is 32 minus the parent prefix length.
	AvailableBits int `json:"availableBits" yaml:"availableBits"`

	// NeededSubnets is the requested subnet count.
	NeededSubnets int `json:"neededSubnets" yaml:"neededSubnets"`

	// SubnetPrefix is the prefix length shared by every subnet.
	SubnetPrefix int `json:"subnetPrefixLength" yaml:"subnetPrefixLength"`

	// MaxIPsPerSubnet is the number of addresses in each subnet, 2^(32-SubnetPrefix).
	MaxIPsPerSubnet uint64 `json:"maxIpsPerSubnet" yaml:"maxIpsPerSubnet"`

	// Subnets holds exactly NeededSubnets blocks in address order, packed
	// back to back from the parent's first address.
	Subnets []model.CIDR `json:"subnets" yaml:"subnets"`
}

// MaxSubnets is the largest subnet count Partition enumerates. Every
// subnet is held in memory, and 2^24 blocks already take a few hundred
// MiB; a /0 split into 2^32 single addresses would need about 64 GiB.
const MaxSubnets = 1 << 24

// Partition validates req and splits its parent network into
// req.NeededSubnets() equally sized, contiguous subnets.
//
// The subnets are the largest power-of-two blocks of which the requested
// number still fit in the parent. When the count is not a power of two,
// the space after the last subnet is left unused.
//
// A count above MaxSubnets fails with SubnetCountTooLarge before anything
// is allocated, even when the parent could hold it.
func Partition(req Request) (*Result, error) {
	v, err := Validate(req)
	if err != nil {
		return nil, err
	}
	if v.NeededSubnets > MaxSubnets {
		return nil, newError(SubnetCountTooLarge, strconv.Itoa(v.NeededSubnets),
			"cannot enumerate %s subnets of %s: at most %s (2^24) subnets are listed per partition",
			model.FormatCount(uint64(v.NeededSubnets)), v.Parent, model.FormatCount(MaxSubnets))
	}
	return partition(v)
}

// SubnetPrefix returns the smallest prefix length P such that n blocks of
// /P fit in a /parentPrefix, i.e. parentPrefix + ceil(log2(n)). n must be
// at least 1.
//
// This is ceil(log2(2^parentPrefix * n)) evaluated in integers, so no
// floating-point rounding can push an exact power of two up a bit.
func SubnetPrefix(parentPrefix, n int) int {
	return parentPrefix + bits.Len(uint(n-1))
}

func partition(v Validated) (*Result, error) {
	prefix := SubnetPrefix(v.Parent.Prefix, v.NeededSubnets)
	if prefix > model.MaxPrefix {
		return nil, newError(PrefixOverflow, v.Parent.String(),
			"internal error: computed subnet prefix /%d for %d subnets of %s exceeds /%d",
			prefix, v.NeededSubnets, v.Parent, model.MaxPrefix)
	}

	subnets := make([]model.CIDR, 0, v.NeededSubnets)
	cursor := v.Parent.First()
	for i := 0; i < v.NeededSubnets; i++ {
		// cursor starts at the parent base and moves in whole blocks of
		// size 2^(32-prefix), so every base is aligned to prefix.
		block := model.CIDR{Base: cursor, Prefix: prefix}
		subnets = append(subnets, block)

		// Next wraps only after 255.255.255.255, which can be the end of
		// the final block but never of an earlier one.
		cursor, _ = block.Last().Next()
	}

	return &Result{
		Parent:          v.Parent,
		AvailableBits:   v.AvailableBits,
		NeededSubnets:   v.NeededSubnets,
		SubnetPrefix:    prefix,
		MaxIPsPerSubnet: uint64(1) << (model.MaxPrefix - prefix),
		Subnets:         subnets,
	}, nil
}
