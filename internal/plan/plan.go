package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/subnet"
)

// Format identifies the encoding of a plan file.
type Format string

const (
	// FormatJSONC is JSON with comments and trailing commas (.json, .jsonc).
	FormatJSONC Format = "jsonc"

	// FormatYAML is YAML (.yaml, .yml).
	FormatYAML Format = "yaml"
)

// Plan is a batch of partition requests read from a file.
type Plan struct {
	// DefaultCIDR is the parent network for entries that give neither
	// cidr nor availableBits. Empty means subnet.DefaultParentCIDR.
	DefaultCIDR string `json:"defaultCidr,omitempty" yaml:"defaultCidr,omitempty"`

	// Partitions lists the requests in the order they are evaluated.
	Partitions []Entry `json:"partitions" yaml:"partitions"`
}

// Entry is one partition request inside a plan.
type Entry struct {
	// Name identifies the entry in reports. Must be unique within the plan.
	Name string `json:"name" yaml:"name"`

	// CIDR is the parent network, e.g. "10.113.0.0/16".
	CIDR string `json:"cidr,omitempty" yaml:"cidr,omitempty"`

	// AvailableBits is the size of the parent network in bits, used
	// instead of CIDR. A pointer so that 0 can be told apart from unset.
	AvailableBits *int `json:"availableBits,omitempty" yaml:"availableBits,omitempty"`

	// NeededSubnets is the number of subnets to carve out.
	NeededSubnets int `json:"neededSubnets" yaml:"neededSubnets"`
}

// FormatFromPath picks the plan format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported plan file extension %q (valid: .json, .jsonc, .yaml, .yml)", filepath.Ext(path))
	}
}

// Load reads and decodes a plan file. The format is chosen from the file
// extension.
//
// Returns a CLIError with ExitPlanFileError if the file does not exist.
func Load(path string) (*Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitPlanFileError,
				fmt.Sprintf("plan file not found: %s", path), err)
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan file at %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes plan data. Unknown fields are rejected in both formats so
// that a typo such as "neededSubnet" does not silently become a zero.
func Parse(data []byte, format Format) (*Plan, error) {
	var p Plan

	switch format {
	case FormatJSONC:
		// Plans are hand-written, so comments and trailing commas are
		// allowed; jsonc strips them before the strict decode.
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown plan format %q", format)
	}

	return &p, nil
}

// Request converts the entry into a partition request. Entries with
// neither CIDR nor AvailableBits use defaultCIDR.
func (e Entry) Request(defaultCIDR string) subnet.Request {
	switch {
	case e.AvailableBits != nil:
		return subnet.FromAvailableBits(*e.AvailableBits, e.NeededSubnets)
	case e.CIDR != "":
		return subnet.FromCIDR(e.CIDR, e.NeededSubnets)
	default:
		return subnet.FromCIDR(defaultCIDR, e.NeededSubnets)
	}
}

// parentCIDR returns the network used for entries without their own.
func (p *Plan) parentCIDR() string {
	if p.DefaultCIDR != "" {
		return p.DefaultCIDR
	}
	return subnet.DefaultParentCIDR
}

// Outcome is the evaluation of one plan entry: either Result and Usage
// are set, or Err is.
type Outcome struct {
	Entry  Entry
	Result *subnet.Result
	Usage  *subnet.Usage
	Err    error

	// Defaulted is true when the entry had no parent network of its own.
	Defaulted bool
}

// Evaluate partitions every entry of the plan in order. A failing entry
// records its error and does not stop the remaining entries.
//
// Evaluate stops between entries once ctx is done and returns ctx.Err()
// together with the outcomes computed so far.
func Evaluate(ctx context.Context, p *Plan) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(p.Partitions))
	for _, e := range p.Partitions {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		o := Outcome{
			Entry:     e,
			Defaulted: e.CIDR == "" && e.AvailableBits == nil,
		}

		result, err := subnet.Partition(e.Request(p.parentCIDR()))
		if err != nil {
			o.Err = fmt.Errorf("partition %q: %w", e.Name, err)
		} else {
			usage := subnet.Summarize(result)
			o.Result = result
			o.Usage = &usage
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// Failed returns the number of outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
