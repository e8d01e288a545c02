// Package cli - cli_test.go runs the commands end to end through the root
// command, capturing stdout and stderr in buffers.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/subnet"
)

// runCLI executes the root command with args and returns what it wrote to
// stdout and stderr.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile writes content to name inside a temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSplit_CIDR(t *testing.T) {
	stdout, stderr, err := runCLI(t, "split", "-c", "10.113.0.0/16", "-n", "9")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Subnets' CIDR number: /20")
	assert.Contains(t, stdout, "10.113.128.0/20")
	assert.Contains(t, stdout, "Unused IP range: 10.113.144.0 - 10.113.255.255")
	assert.NotContains(t, stderr, "WARN")
}

func TestSplit_DefaultNetworkWarns(t *testing.T) {
	stdout, stderr, err := runCLI(t, "split", "-n", "4")
	require.NoError(t, err)

	assert.Contains(t, stderr, "No CIDR provided, defaulting to 0.0.0.0/16")
	assert.Contains(t, stdout, "0.0.192.0/18")
	assert.NotContains(t, stdout, "No CIDR provided")
}

func TestSplit_NeededBlocksAlias(t *testing.T) {
	stdout, _, err := runCLI(t, "split", "-c", "192.168.0.0/24", "--needed-blocks", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "192.168.0.128/26")
}

func TestSplit_JSON(t *testing.T) {
	stdout, stderr, err := runCLI(t, "split", "-a", "16", "-n", "4", "--json")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var doc struct {
		Partition struct {
			ParentNetwork      string   `json:"parentNetwork"`
			SubnetPrefixLength int      `json:"subnetPrefixLength"`
			Subnets            []string `json:"subnets"`
		} `json:"partition"`
		Usage struct {
			PercentUsed float64 `json:"percentUsed"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "0.0.0.0/16", doc.Partition.ParentNetwork)
	assert.Equal(t, 18, doc.Partition.SubnetPrefixLength)
	assert.Equal(t, []string{"0.0.0.0/18", "0.0.64.0/18", "0.0.128.0/18", "0.0.192.0/18"}, doc.Partition.Subnets)
	assert.Equal(t, 100.0, doc.Usage.PercentUsed)
}

func TestSplit_YAML(t *testing.T) {
	stdout, _, err := runCLI(t, "split", "-c", "10.0.0.0/30", "-n", "3", "--yaml")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	partition := doc["partition"].(map[string]interface{})
	assert.Equal(t, []interface{}{"10.0.0.0/32", "10.0.0.1/32", "10.0.0.2/32"}, partition["subnets"])
	usage := doc["usage"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"start": "10.0.0.3", "end": "10.0.0.3"}, usage["unusedRange"])
}

func TestSplit_Verbose(t *testing.T) {
	_, stderr, err := runCLI(t, "split", "-c", "10.0.0.0/8", "-n", "2", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Partitioning")
	assert.Contains(t, stderr, "Computed 2 subnets of /9")

	_, stderr, err = runCLI(t, "split", "-c", "10.0.0.0/8", "-n", "2")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Partitioning")
}

// TestSplit_Rejected checks the error and exit code of rejected input.
func TestSplit_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		target   error  // expected subnet sentinel, nil for flag errors
		contains string // expected substring of the error message
		code     model.ExitCode
	}{
		{
			name:     "malformed cidr",
			args:     []string{"split", "-c", "10.113.0.0", "-n", "2"},
			contains: "invalid CIDR provided",
			code:     model.ExitInvalidInput,
		},
		{
			name:     "misaligned cidr",
			args:     []string{"split", "-c", "10.113.5.0/16", "-n", "2"},
			contains: "did you mean 10.113.0.0/16?",
			code:     model.ExitInvalidInput,
		},
		{
			name:     "non-numeric available bits",
			args:     []string{"split", "-a", "many", "-n", "2"},
			contains: "available-bits",
			code:     model.ExitInvalidInput,
		},
		{
			name:   "available bits out of range",
			args:   []string{"split", "-a", "33", "-n", "2"},
			target: subnet.ErrInvalidAvailableSpace,
			code:   model.ExitInvalidInput,
		},
		{
			name:   "parent problem reported before count problem",
			args:   []string{"split", "-a", "33", "-n", "zero"},
			target: subnet.ErrInvalidAvailableSpace,
			code:   model.ExitInvalidInput,
		},
		{
			name:     "missing count",
			args:     []string{"split", "-c", "10.0.0.0/16"},
			target:   subnet.ErrInvalidSubnetCount,
			contains: "missing argument: --needed-subnets (or -n for short)",
			code:     model.ExitInvalidInput,
		},
		{
			name:     "empty count is malformed, not missing",
			args:     []string{"split", "-c", "10.0.0.0/16", "-n", ""},
			target:   subnet.ErrInvalidSubnetCount,
			contains: "no needed subnets count given",
			code:     model.ExitInvalidInput,
		},
		{
			name:     "needed-subnets and needed-blocks together",
			args:     []string{"split", "-c", "10.0.0.0/16", "-n", "9", "--needed-blocks", "3"},
			contains: "needed-blocks",
			code:     model.ExitGeneralError,
		},
		{
			name:   "non-numeric count",
			args:   []string{"split", "-c", "10.0.0.0/16", "-n", "nine"},
			target: subnet.ErrInvalidSubnetCount,
			code:   model.ExitInvalidInput,
		},
		{
			name:   "zero count",
			args:   []string{"split", "-c", "10.0.0.0/16", "-n", "0"},
			target: subnet.ErrInvalidSubnetCount,
			code:   model.ExitInvalidInput,
		},
		{
			name:     "count exceeds capacity",
			args:     []string{"split", "-c", "10.0.0.0/16", "-n", "70000"},
			target:   subnet.ErrSubnetCountExceedsCapacity,
			contains: "between 1 and 65,536",
			code:     model.ExitInvalidInput,
		},
		{
			name: "cidr and available bits together",
			args: []string{"split", "-c", "10.0.0.0/16", "-a", "8", "-n", "2"},
			code: model.ExitGeneralError,
		},
		{
			name: "json and yaml together",
			args: []string{"split", "-n", "2", "--json", "--yaml"},
			code: model.ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Empty(t, stdout)

			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
			assert.Equal(t, tt.code, ExitCodeFor(err))
		})
	}
}

const planFile = `{
  // shared by entries without a network
  "defaultCidr": "172.16.0.0/12",
  "partitions": [
    {"name": "prod", "cidr": "10.113.0.0/16", "neededSubnets": 9},
    {"name": "lab", "availableBits": 16, "neededSubnets": 4},
    {"name": "dev", "neededSubnets": 2},
  ],
}`

func TestPlan_Text(t *testing.T) {
	path := writeFile(t, "network.jsonc", planFile)

	stdout, stderr, err := runCLI(t, "plan", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	for _, want := range []string{
		"== prod ==",
		"10.113.128.0/20",
		"== lab ==",
		"0.0.192.0/18",
		"== dev ==",
		`INFO`,
		`Partition "dev" has no network of its own, using the plan default 172.16.0.0/12`,
		"172.24.0.0/13",
	} {
		assert.Contains(t, stdout, want)
	}
	assert.NotContains(t, stdout, `Partition "prod" has no network`)
}

func TestPlan_JSONWithRejectedEntry(t *testing.T) {
	path := writeFile(t, "network.yaml", `
partitions:
  - name: prod
    cidr: 10.113.0.0/16
    neededSubnets: 9
  - name: tiny
    cidr: 10.0.0.0/30
    neededSubnets: 5
  - name: core
    cidr: 10.0.0.0/8
    neededSubnets: 2
`)

	stdout, stderr, err := runCLI(t, "plan", path, "--json")
	require.Error(t, err)
	assert.Equal(t, model.ExitInvalidInput, ExitCodeFor(err))
	assert.Contains(t, err.Error(), "1 of 3 partitions were rejected")

	var doc struct {
		Partitions []struct {
			Name      string `json:"name"`
			Error     string `json:"error"`
			ErrorKind string `json:"errorKind"`
		} `json:"partitions"`
		Overlaps []struct {
			Partitions []string `json:"partitions"`
		} `json:"overlaps"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Partitions, 3)
	assert.Empty(t, doc.Partitions[0].Error)
	assert.Equal(t, "tiny", doc.Partitions[1].Name)
	assert.Equal(t, "SubnetCountExceedsCapacity", doc.Partitions[1].ErrorKind)

	require.Len(t, doc.Overlaps, 1)
	assert.Equal(t, []string{"core", "prod"}, doc.Overlaps[0].Partitions)
	assert.Contains(t, stderr, `Partitions "core" and "prod" share addresses 10.113.0.0 - 10.113.255.255`)
}

func TestPlan_FileErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		contains string
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.json") },
			contains: "plan file not found",
		},
		{
			name:     "unsupported extension",
			path:     func(t *testing.T) string { return writeFile(t, "plan.toml", "") },
			contains: "unsupported plan file extension",
		},
		{
			name:     "unknown field",
			path:     func(t *testing.T) string { return writeFile(t, "plan.json", `{"partitions": [{"name": "a", "neededSubnet": 2}]}`) },
			contains: "failed to parse plan file",
		},
		{
			name:     "structural problems",
			path:     func(t *testing.T) string { return writeFile(t, "plan.json", `{"partitions": []}`) },
			contains: "has 1 problem(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "plan", tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, model.ExitPlanFileError, ExitCodeFor(err))
		})
	}
}

func TestPlan_ValidationProblemsPrinted(t *testing.T) {
	path := writeFile(t, "plan.json", `{"partitions": [
  {"name": "a", "cidr": "10.0.0.0/8", "availableBits": 8, "neededSubnets": 2},
  {"name": "a", "neededSubnets": 2}
]}`)

	stdout, stderr, err := runCLI(t, "plan", path)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "mutually exclusive")
	assert.Contains(t, stderr, `duplicate name "a"`)
}

func TestInspect(t *testing.T) {
	stdout, _, err := runCLI(t, "inspect", "10.113.0.0/16")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Network: 10.113.0.0/16")
	assert.Contains(t, stdout, "IP range: 10.113.0.0 - 10.113.255.255")
	assert.Contains(t, stdout, "Total IPs: 65,536 (2^16)")
	assert.Contains(t, stdout, "Netmask: 255.255.0.0")
	assert.Contains(t, stdout, "Aligned: yes")
}

func TestInspect_HostBits(t *testing.T) {
	stdout, _, err := runCLI(t, "inspect", "10.113.5.7/16", "--json")
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "10.113.5.7", info["address"])
	assert.Equal(t, "10.113.0.0/16", info["network"])
	assert.Equal(t, false, info["aligned"])
	assert.EqualValues(t, 65536, info["totalIps"])
}

func TestInspect_Rejected(t *testing.T) {
	_, _, err := runCLI(t, "inspect", "10.113.0.0/40")
	require.Error(t, err)
	assert.True(t, errors.Is(err, subnet.ErrInvalidAvailableSpace))
	assert.Equal(t, model.ExitInvalidInput, ExitCodeFor(err))
}
