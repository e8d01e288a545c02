// Package subnet splits an IPv4 network into a requested number of equally
// sized, contiguous subnets.
//
// The work happens in two steps:
//
//	Validate  parse the parent network, check the subnet count
//	Partition choose the subnet prefix, lay the blocks out back to back
//
// For a parent /p and n subnets the subnet prefix is p + ceil(log2(n)):
// the largest power-of-two block of which n still fit. Blocks start at the
// parent's first address, so any unused space is a single trailing range.
//
// Every function here is pure. Results share nothing, so callers may run
// partitions concurrently without coordination.
package subnet
