// Package cli - plan.go implements the "subnet-splitter plan" command.
//
// The plan command reads a plan file listing several partition requests,
// evaluates each one, and prints one report per entry. Entries are
// independent: a rejected entry is reported and the others still run.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
	"github.com/shinji-kodama/subnet-splitter/internal/plan"
	"github.com/shinji-kodama/subnet-splitter/internal/report"
)

// NewPlanCommand creates the "plan" cobra command.
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Evaluate a plan file of partition requests",
		Long: `Evaluate every partition request listed in a plan file.

Plan files are JSON (comments and trailing commas allowed) or YAML,
chosen by extension (.json, .jsonc, .yaml, .yml):

  {
    "defaultCidr": "10.0.0.0/8",
    "partitions": [
      {"name": "prod", "cidr": "10.113.0.0/16", "neededSubnets": 9},
      {"name": "lab", "availableBits": 16, "neededSubnets": 4},
    ],
  }

The command exits with status 2 when any entry is rejected and with
status 3 when the file itself cannot be read or is malformed.

Examples:
  subnet-splitter plan network.jsonc
  subnet-splitter plan network.yaml --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), newOutput(cmd), args[0])
		},
	}

	return cmd
}

// planJSON is the machine-readable output of the plan command.
type planJSON struct {
	Partitions []report.Document `json:"partitions" yaml:"partitions"`
	Overlaps   []overlapJSON     `json:"overlaps,omitempty" yaml:"overlaps,omitempty"`
}

type overlapJSON struct {
	Partitions []string      `json:"partitions" yaml:"partitions"`
	Shared     model.IPRange `json:"shared" yaml:"shared"`
}

// runPlan is the main logic function for the plan command.
func runPlan(ctx context.Context, o *output, path string) error {
	// Step 1: Read and decode the plan file.
	p, err := plan.Load(path)
	if err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			return err
		}
		return model.WrapCLIError(model.ExitPlanFileError, "failed to load plan", err)
	}
	VerboseLog("Loaded plan %s with %d partitions", path, len(p.Partitions))

	// Step 2: Check the plan structure before evaluating anything.
	if problems := plan.Validate(p); len(problems) > 0 {
		for _, problem := range problems {
			o.printer.Errorf("%s", problem.Error())
		}
		return model.NewCLIError(model.ExitPlanFileError,
			fmt.Sprintf("plan file %s has %d problem(s)", path, len(problems)))
	}

	// Step 3: Partition every entry.
	outcomes, err := plan.Evaluate(ctx, p)
	if err != nil {
		return err
	}
	overlaps := plan.FindOverlaps(outcomes)
	for _, ov := range overlaps {
		o.printer.Warnf("Partitions %q and %q share addresses %s", ov.First, ov.Second, ov.Shared)
	}

	// Step 4: Output results in the appropriate format.
	if o.structured() {
		if err := o.encode(planDocument(outcomes, overlaps)); err != nil {
			return err
		}
	} else if err := printPlanText(o, outcomes); err != nil {
		return err
	}

	if failed := plan.Failed(outcomes); failed > 0 {
		return model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("%d of %d partitions were rejected", failed, len(outcomes)))
	}
	return nil
}

// planDocument builds the JSON/YAML document for a set of outcomes.
func planDocument(outcomes []plan.Outcome, overlaps []plan.Overlap) planJSON {
	doc := planJSON{Partitions: make([]report.Document, 0, len(outcomes))}
	for _, oc := range outcomes {
		if oc.Err != nil {
			doc.Partitions = append(doc.Partitions, report.NewErrorDocument(oc.Entry.Name, oc.Err))
			continue
		}
		doc.Partitions = append(doc.Partitions, report.NewDocument(oc.Entry.Name, oc.Result, *oc.Usage))
	}
	for _, ov := range overlaps {
		doc.Overlaps = append(doc.Overlaps, overlapJSON{
			Partitions: []string{ov.First, ov.Second},
			Shared:     ov.Shared,
		})
	}
	return doc
}

// printPlanText prints one text report per outcome, each under a heading
// with the entry name.
func printPlanText(o *output, outcomes []plan.Outcome) error {
	for i, oc := range outcomes {
		if i > 0 {
			if _, err := fmt.Fprintln(o.out); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(o.out, report.SectionStyle.Sprint("== "+oc.Entry.Name+" ==")); err != nil {
			return err
		}

		if oc.Err != nil {
			o.printer.Errorf("%s", oc.Err)
			continue
		}
		if oc.Defaulted {
			o.printer.Infof("Partition %q has no network of its own, using the plan default %s", oc.Entry.Name, oc.Result.Parent)
		}
		if err := report.Text(o.out, oc.Result, *oc.Usage); err != nil {
			return err
		}
	}
	return nil
}
