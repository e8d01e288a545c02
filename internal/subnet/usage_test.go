package subnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummarize_Uneven checks the utilization figures and the trailing
// unused range for a count that is not a power of two.
func TestSummarize_Uneven(t *testing.T) {
	result, err := Partition(FromCIDR("10.113.0.0/16", 9))
	require.NoError(t, err)

	u := Summarize(result)
	assert.Equal(t, uint64(65536), u.TotalIPs)
	assert.Equal(t, uint64(7281), u.TheoreticalMaxPerSubnet)
	assert.Equal(t, uint64(36864), u.UsedIPs)
	assert.Equal(t, uint64(28672), u.UnusedIPs)
	assert.InDelta(t, 56.25, u.PercentUsed, 1e-9)

	require.NotNil(t, u.UnusedRange)
	assert.Equal(t, "10.113.144.0 - 10.113.255.255", u.UnusedRange.String())
	assert.Equal(t, u.UnusedIPs, u.UnusedRange.Size())
}

// TestSummarize_Full checks that a partition covering the whole parent
// reports no unused range.
func TestSummarize_Full(t *testing.T) {
	result, err := Partition(FromAvailableBits(16, 4))
	require.NoError(t, err)

	u := Summarize(result)
	assert.Equal(t, uint64(0), u.UnusedIPs)
	assert.Equal(t, uint64(65536), u.UsedIPs)
	assert.InDelta(t, 100.0, u.PercentUsed, 1e-9)
	assert.Nil(t, u.UnusedRange)
}

// TestSummarize_WholeSpace checks the /0 case where counts exceed uint32.
func TestSummarize_WholeSpace(t *testing.T) {
	result, err := Partition(FromAvailableBits(32, 3))
	require.NoError(t, err)

	u := Summarize(result)
	assert.Equal(t, uint64(1)<<32, u.TotalIPs)
	assert.Equal(t, uint64(3)<<30, u.UsedIPs)
	require.NotNil(t, u.UnusedRange)
	assert.Equal(t, "192.0.0.0 - 255.255.255.255", u.UnusedRange.String())
}
