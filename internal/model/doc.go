// Package model defines the value types shared across subnet-splitter.
//
// IPv4, CIDR and IPRange are immutable values: an address is a uint32, a
// block is a base address plus a prefix length, and a range is an
// inclusive pair of addresses. FormatCount renders address counts the way
// the reports print them.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
