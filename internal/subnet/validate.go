package subnet

import (
	"strconv"
	"strings"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
)

// DefaultParentCIDR is the parent network callers fall back to when the
// operator gives none.
const DefaultParentCIDR = "0.0.0.0/16"

// requestMode records which parent descriptor a Request carries.
type requestMode int

const (
	modeUnset requestMode = iota
	modeCIDR
	modeAvailableBits
)

// Request is a partition request: a parent network, given either as a
// CIDR string or as a count of available address bits, and the number of
// subnets wanted. Build one with FromCIDR or FromAvailableBits.
type Request struct {
	cidr          string
	availableBits int
	neededSubnets int
	mode          requestMode
}

// FromCIDR builds a request for a parent network written as "a.b.c.d/n".
func FromCIDR(cidr string, neededSubnets int) Request {
	return Request{cidr: cidr, neededSubnets: neededSubnets, mode: modeCIDR}
}

// FromAvailableBits builds a request for a parent network of 2^bits
// addresses. The network is anchored at 0.0.0.0.
func FromAvailableBits(bits, neededSubnets int) Request {
	return Request{availableBits: bits, neededSubnets: neededSubnets, mode: modeAvailableBits}
}

// NeededSubnets returns the requested subnet count.
func (r Request) NeededSubnets() int {
	return r.neededSubnets
}

// String describes the parent network of the request for log output.
func (r Request) String() string {
	switch r.mode {
	case modeCIDR:
		return r.cidr
	case modeAvailableBits:
		return strconv.Itoa(r.availableBits) + " available bits"
	default:
		return "<empty request>"
	}
}

// Validated is a request that passed every check in Validate.
type Validated struct {
	// Parent is the normalized parent network.
	Parent model.CIDR

	// AvailableBits is 32 minus the parent prefix length.
	AvailableBits int

	// NeededSubnets is the requested subnet count, at least 1.
	NeededSubnets int
}

// Capacity returns the number of addresses in the parent network.
func (v Validated) Capacity() uint64 {
	return uint64(1) << v.AvailableBits
}

// ParseCIDR parses "a.b.c.d/n" into a block.
//
// A string that does not split into a dotted-quad address and an integer
// prefix fails with InvalidCIDRFormat. A prefix outside [0, 32] fails with
// InvalidAvailableSpace. An address with host bits set for its prefix
// fails with MisalignedNetwork rather than being masked silently.
func ParseCIDR(s string) (model.CIDR, error) {
	ip, block, err := ParseInterface(s)
	if err != nil {
		return model.CIDR{}, err
	}
	if ip != block.Base {
		return model.CIDR{}, newError(MisalignedNetwork, s,
			"invalid CIDR %q: %s has host bits set for a /%d network; did you mean %s?",
			s, ip, block.Prefix, block)
	}
	return block, nil
}

// ParseInterface parses "a.b.c.d/n" the way ParseCIDR does but accepts an
// address with host bits set. It returns the address as written and the
// block that contains it.
func ParseInterface(s string) (model.IPv4, model.CIDR, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, model.CIDR{}, invalidCIDR(s)
	}

	ip, err := model.ParseIPv4(parts[0])
	if err != nil {
		return 0, model.CIDR{}, invalidCIDR(s)
	}
	prefix, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, model.CIDR{}, invalidCIDR(s)
	}

	if prefix < 0 || prefix > model.MaxPrefix {
		return 0, model.CIDR{}, newError(InvalidAvailableSpace, s,
			"invalid CIDR %q: prefix length must be an integer between 0 and %d, got %d",
			s, model.MaxPrefix, prefix)
	}

	return ip, model.CIDR{Base: ip & maskOf(prefix), Prefix: prefix}, nil
}

// maskOf returns the network mask for a prefix already known to be in [0, 32].
func maskOf(prefix int) model.IPv4 {
	return model.CIDR{Prefix: prefix}.Mask()
}

func invalidCIDR(s string) *Error {
	return newError(InvalidCIDRFormat, s,
		"invalid CIDR provided: %q (expected \"a.b.c.d/n\", e.g. \"10.113.0.0/16\")", s)
}

// ParseSubnetCount parses a raw subnet-count argument. Anything that is
// not a positive base-10 integer fails with InvalidSubnetCount; a blank
// argument gets its own message.
func ParseSubnetCount(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, newError(InvalidSubnetCount, raw, "no needed subnets count given")
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, newError(InvalidSubnetCount, raw,
			"expected needed subnets to be a positive integer, got %q", raw)
	}
	if err := checkSubnetCount(n); err != nil {
		return 0, err
	}
	return n, nil
}

func checkSubnetCount(n int) error {
	if n < 1 {
		return newError(InvalidSubnetCount, strconv.Itoa(n),
			"expected needed subnets to be a positive integer, got %d", n)
	}
	return nil
}

// Validate checks a request and normalizes its parent network.
//
// Checks run in a fixed order, each with its own error kind:
//  1. the parent descriptor parses and its available bits are in [0, 32]
//  2. the subnet count is at least 1
//  3. the subnet count does not exceed 2^availableBits
func Validate(req Request) (Validated, error) {
	var parent model.CIDR

	switch req.mode {
	case modeCIDR:
		block, err := ParseCIDR(req.cidr)
		if err != nil {
			return Validated{}, err
		}
		parent = block
	case modeAvailableBits:
		bits := req.availableBits
		if bits < 0 || bits > model.MaxPrefix {
			return Validated{}, newError(InvalidAvailableSpace, strconv.Itoa(bits),
				"expected available bits to be an integer between 0 and %d, got %d", model.MaxPrefix, bits)
		}
		// 0.0.0.0 is the base of a block of every size.
		parent = model.CIDR{Base: 0, Prefix: model.MaxPrefix - bits}
	default:
		return Validated{}, newError(InvalidAvailableSpace, "",
			"no parent network given: provide a CIDR or a number of available bits")
	}

	v := Validated{
		Parent:        parent,
		AvailableBits: model.MaxPrefix - parent.Prefix,
		NeededSubnets: req.neededSubnets,
	}

	if err := checkSubnetCount(req.neededSubnets); err != nil {
		return Validated{}, err
	}

	if uint64(req.neededSubnets) > v.Capacity() {
		return Validated{}, newError(SubnetCountExceedsCapacity, strconv.Itoa(req.neededSubnets),
			"expected needed subnets to be a positive integer between 1 and %s (2^%d, the number of addresses in %s), got %s",
			model.FormatCount(v.Capacity()), v.AvailableBits, parent, model.FormatCount(uint64(req.neededSubnets)))
	}

	return v, nil
}
