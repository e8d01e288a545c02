package model

import (
	"fmt"
	"net/netip"
)

// MaxPrefix is the number of bits in an IPv4 address, and therefore the
// longest valid prefix length.
const MaxPrefix = 32

// IPv4 is an IPv4 address held as a 32-bit unsigned integer in network
// (big-endian) order: 10.113.0.1 is 0x0A710001.
//
// The integer form makes block arithmetic (first/last address, "next
// address") plain integer math instead of byte slice manipulation.
type IPv4 uint32

// ParseIPv4 parses a dotted-quad IPv4 address such as "10.113.0.0".
// IPv6 and IPv4-mapped IPv6 forms are rejected.
func ParseIPv4(s string) (IPv4, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("invalid IPv4 address %q: %w", s, err)
	}
	if !addr.Is4() {
		return 0, fmt.Errorf("invalid IPv4 address %q: not a dotted-quad IPv4 address", s)
	}
	b := addr.As4()
	return IPv4(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
}

// String returns the dotted-quad form of the address.
func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip))
}

// Next returns the address immediately after ip. ok is false when ip is
// 255.255.255.255, in which case the returned address has wrapped to 0.0.0.0.
func (ip IPv4) Next() (next IPv4, ok bool) {
	return ip + 1, ip != IPv4(^uint32(0))
}

// Compare returns -1, 0 or +1 depending on whether ip sorts before, equal
// to, or after other.
func (ip IPv4) Compare(other IPv4) int {
	switch {
	case ip < other:
		return -1
	case ip > other:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler so addresses render as
// dotted quads in JSON and YAML output.
func (ip IPv4) MarshalText() ([]byte, error) {
	return []byte(ip.String()), nil
}

// CIDR is an IPv4 block: the 2^(32-Prefix) addresses sharing the Prefix
// high-order bits of Base. Base is always the first address of the block.
type CIDR struct {
	// Base is the first (network) address of the block.
	Base IPv4

	// Prefix is the number of fixed high-order bits, in [0, 32].
	Prefix int
}

// NewCIDR builds a block from its base address and prefix length.
// It returns an error if prefix is outside [0, 32] or if base has any of
// the low-order (host) bits set.
func NewCIDR(base IPv4, prefix int) (CIDR, error) {
	if prefix < 0 || prefix > MaxPrefix {
		return CIDR{}, fmt.Errorf("prefix length %d out of range (0-%d)", prefix, MaxPrefix)
	}
	if base&^maskFor(prefix) != 0 {
		return CIDR{}, fmt.Errorf("address %s is not the first address of a /%d block (expected %s)",
			base, prefix, base&maskFor(prefix))
	}
	return CIDR{Base: base, Prefix: prefix}, nil
}

// maskFor returns the network mask for a prefix length in [0, 32].
// A shift by 32 would be a no-op on uint32, so /0 is special-cased.
func maskFor(prefix int) IPv4 {
	if prefix == 0 {
		return 0
	}
	return IPv4(^uint32(0) << (MaxPrefix - prefix))
}

// Mask returns the network mask of the block, e.g. 255.255.0.0 for a /16.
func (c CIDR) Mask() IPv4 {
	return maskFor(c.Prefix)
}

// Size returns the number of addresses in the block, 2^(32-Prefix).
// The result is a uint64 because a /0 holds 2^32 addresses.
func (c CIDR) Size() uint64 {
	return uint64(1) << (MaxPrefix - c.Prefix)
}

// First returns the first address of the block.
func (c CIDR) First() IPv4 {
	return c.Base
}

// Last returns the last address of the block.
func (c CIDR) Last() IPv4 {
	return c.Base | ^c.Mask()
}

// Range returns the inclusive address range covered by the block.
func (c CIDR) Range() IPRange {
	return IPRange{Start: c.First(), End: c.Last()}
}

// Contains reports whether ip lies inside the block.
func (c CIDR) Contains(ip IPv4) bool {
	return ip&c.Mask() == c.Base
}

// String returns the block in CIDR notation, e.g. "10.113.0.0/16".
func (c CIDR) String() string {
	return fmt.Sprintf("%s/%d", c.Base, c.Prefix)
}

// MarshalText implements encoding.TextMarshaler, so blocks render in CIDR
// notation in JSON and YAML output.
func (c CIDR) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IPRange is an inclusive range of IPv4 addresses.
type IPRange struct {
	Start IPv4 `json:"start" yaml:"start"`
	End   IPv4 `json:"end" yaml:"end"`
}

// Size returns the number of addresses in the range, or 0 if End < Start.
func (r IPRange) Size() uint64 {
	if r.End < r.Start {
		return 0
	}
	return uint64(r.End-r.Start) + 1
}

// Overlaps reports whether r and other share at least one address.
func (r IPRange) Overlaps(other IPRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// String returns the range as "start - end".
func (r IPRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// ExitCode defines the process exit codes of the CLI. Scripts can use them
// to tell bad input apart from internal failures.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidInput indicates the arguments were rejected before any
	// partition was computed (bad CIDR, bad subnet count, ...).
	ExitInvalidInput ExitCode = 2

	// ExitPlanFileError indicates a plan file could not be read or was
	// structurally invalid.
	ExitPlanFileError ExitCode = 3

	// ExitInternalError indicates an internal invariant was violated.
	// This is always a bug.
	ExitInternalError ExitCode = 4
)

// CLIError is an error that carries the exit code the process should
// terminate with.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
