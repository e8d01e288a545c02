package subnet

import (
	"errors"
	"fmt"
)

// Kind classifies why a partition request was rejected.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not produced by this package.
	KindUnknown Kind = iota

	// InvalidCIDRFormat means the network descriptor could not be parsed
	// into an address and a prefix length.
	InvalidCIDRFormat

	// InvalidAvailableSpace means the prefix length (or available bit
	// count) is outside [0, 32].
	InvalidAvailableSpace

	// InvalidSubnetCount means the requested subnet count is not a
	// positive integer.
	InvalidSubnetCount

	// SubnetCountExceedsCapacity means the parent network cannot hold the
	// requested count even at one address per subnet.
	SubnetCountExceedsCapacity

	// MisalignedNetwork means the parent base address has host bits set
	// for its prefix length (e.g. 10.113.5.0/16).
	MisalignedNetwork

	// PrefixOverflow means the computed subnet prefix exceeded /32. Input
	// validation makes this unreachable; seeing it is a bug.
	PrefixOverflow

	// SubnetCountTooLarge means the request is valid but asks for more
	// subnets than Partition will enumerate (see MaxSubnets).
	SubnetCountTooLarge
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	InvalidCIDRFormat:          "InvalidCidrFormat",
	InvalidAvailableSpace:      "InvalidAvailableSpace",
	InvalidSubnetCount:         "InvalidSubnetCount",
	SubnetCountExceedsCapacity: "SubnetCountExceedsCapacity",
	MisalignedNetwork:          "MisalignedNetwork",
	PrefixOverflow:             "PrefixOverflow",
	SubnetCountTooLarge:        "SubnetCountTooLarge",
}

// String returns the name of the kind, e.g. "InvalidSubnetCount".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsInputError reports whether the kind describes bad user input, as
// opposed to an internal defect.
func (k Kind) IsInputError() bool {
	switch k {
	case InvalidCIDRFormat, InvalidAvailableSpace, InvalidSubnetCount,
		SubnetCountExceedsCapacity, MisalignedNetwork, SubnetCountTooLarge:
		return true
	default:
		return false
	}
}

// Error is returned for every rejected partition request.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Input is the offending value as supplied by the caller.
	Input string

	// Message is the human-readable, actionable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error of the same Kind, so that
// errors.Is(err, subnet.ErrInvalidSubnetCount) works on any wrapped error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	ErrInvalidCIDRFormat          = &Error{Kind: InvalidCIDRFormat, Message: "invalid CIDR format"}
	ErrInvalidAvailableSpace      = &Error{Kind: InvalidAvailableSpace, Message: "invalid available space"}
	ErrInvalidSubnetCount         = &Error{Kind: InvalidSubnetCount, Message: "invalid subnet count"}
	ErrSubnetCountExceedsCapacity = &Error{Kind: SubnetCountExceedsCapacity, Message: "subnet count exceeds capacity"}
	ErrMisalignedNetwork          = &Error{Kind: MisalignedNetwork, Message: "misaligned network"}
	ErrPrefixOverflow             = &Error{Kind: PrefixOverflow, Message: "subnet prefix overflow"}
	ErrSubnetCountTooLarge        = &Error{Kind: SubnetCountTooLarge, Message: "subnet count too large to enumerate"}
)

// KindOf returns the Kind of the first *Error in err's chain, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, input string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Input: input, Message: fmt.Sprintf(format, args...)}
}
