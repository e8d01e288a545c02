package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/subnet"
)

// Text writes the human-readable report of a partition to w.
//
// The report lists, in order: the parent range and size, the theoretical
// per-subnet maximum, the chosen prefix and per-subnet capacity, one table
// row per subnet, the trailing unused range (only when there is one), and
// the unused/used counts with the percentage used.
//
//	Network IP range: 10.113.0.0 - 10.113.255.255
//	Total IPs in network: 65,536
//	...
//	Subnet 1 | 10.113.0.0/20 | 10.113.0.0 - 10.113.15.255
func Text(w io.Writer, r *subnet.Result, u subnet.Usage) error {
	p := NewLineWriter(w)

	p.Linef("Network IP range: %s", r.Parent.Range())
	p.Linef("Total IPs in network: %s", model.FormatCount(u.TotalIPs))
	p.Linef("Theoretical max IPs per subnet: %s", model.FormatCount(u.TheoreticalMaxPerSubnet))
	p.Linef("")
	p.Linef("Subnets' CIDR number: %s", DataStyle.Sprint("/"+strconv.Itoa(r.SubnetPrefix)))
	p.Linef("Max IPs per subnet: %s", DataStyle.Sprint(model.FormatCount(r.MaxIPsPerSubnet)))
	p.Linef("")
	p.Linef("%s", SectionStyle.Sprint("CIDR blocks:"))

	table, err := pterm.DefaultTable.WithHasHeader().WithData(SubnetTable(r)).Srender()
	if err != nil {
		return fmt.Errorf("failed to render subnet table: %w", err)
	}
	p.Linef("%s", table)
	p.Linef("")

	if u.UnusedRange != nil {
		p.Linef("Unused IP range: %s", u.UnusedRange)
	}
	p.Linef("Number of unused IPs: %s", model.FormatCount(u.UnusedIPs))
	p.Linef("Number of used IPs:   %s (%s)", model.FormatCount(u.UsedIPs), FormatPercent(u.PercentUsed))

	return p.Err()
}

// SubnetTable builds the table rows for the subnets of a partition, with
// a header row first.
func SubnetTable(r *subnet.Result) pterm.TableData {
	td := pterm.TableData{{"Subnet", "CIDR", "IP range"}}
	for i, s := range r.Subnets {
		td = append(td, []string{
			"Subnet " + strconv.Itoa(i+1),
			s.String(),
			s.Range().String(),
		})
	}
	return td
}

// FormatPercent renders a percentage with two decimals, e.g. "56.25%".
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}

// LineWriter writes formatted lines and keeps the first write error, so
// a report can be emitted line after line and checked once at the end.
type LineWriter struct {
	w   io.Writer
	err error
}

// NewLineWriter returns a LineWriter writing to w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// Linef writes one formatted line. It does nothing after a failed write.
func (l *LineWriter) Linef(format string, args ...interface{}) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format+"\n", args...)
}

// Err returns the first write error, if any.
func (l *LineWriter) Err() error {
	return l.err
}

// Document is the machine-readable form of one partition, used by the
// JSON and YAML outputs. Exactly one of Partition or Error is set.
type Document struct {
	// Name identifies the partition inside a plan. Empty for single runs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Partition *subnet.Result `json:"partition,omitempty" yaml:"partition,omitempty"`
	Usage     *subnet.Usage  `json:"usage,omitempty" yaml:"usage,omitempty"`

	// Error and ErrorKind describe a rejected request.
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string `json:"errorKind,omitempty" yaml:"errorKind,omitempty"`
}

// NewDocument builds the document for a successful partition.
func NewDocument(name string, r *subnet.Result, u subnet.Usage) Document {
	return Document{Name: name, Partition: r, Usage: &u}
}

// NewErrorDocument builds the document for a rejected request.
func NewErrorDocument(name string, err error) Document {
	return Document{Name: name, Error: err.Error(), ErrorKind: subnet.KindOf(err).String()}
}

// JSON writes v to w as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	// MarshalIndent produces human-readable JSON with 2-space indentation.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// YAML writes v to w as a YAML document.
func YAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}
