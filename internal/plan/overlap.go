package plan

import (
	"slices"

	"github.com/shinji-kodama/subnet-splitter/internal/model"
)

// Overlap reports two plan entries whose parent networks share addresses.
type Overlap struct {
	First  string
	Second string

	// Shared is the address range both parents cover.
	Shared model.IPRange
}

// FindOverlaps returns every pair of successful outcomes whose parent
// networks intersect, ordered by the first entry's parent address.
//
// Entries given in available-bits mode describe a size rather than a
// placement, so they are left out.
func FindOverlaps(outcomes []Outcome) []Overlap {
	var placed []Outcome
	for _, o := range outcomes {
		if o.Err == nil && o.Entry.AvailableBits == nil {
			placed = append(placed, o)
		}
	}
	slices.SortStableFunc(placed, func(a, b Outcome) int {
		return a.Result.Parent.First().Compare(b.Result.Parent.First())
	})

	var overlaps []Overlap
	for i, a := range placed {
		ra := a.Result.Parent.Range()
		for _, b := range placed[i+1:] {
			rb := b.Result.Parent.Range()
			if !ra.Overlaps(rb) {
				// Sorted by start, so no later parent can reach back into a.
				if rb.Start > ra.End {
					break
				}
				continue
			}
			overlaps = append(overlaps, Overlap{
				First:  a.Entry.Name,
				Second: b.Entry.Name,
				Shared: model.IPRange{Start: max(ra.Start, rb.Start), End: min(ra.End, rb.End)},
			})
		}
	}
	return overlaps
}
