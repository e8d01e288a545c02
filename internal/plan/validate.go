package plan

import (
	"fmt"
	"regexp"
)

// ValidationError represents a structural problem in a plan file.
type ValidationError struct {
	// Field is the path of the offending field, e.g. "partitions[2].name".
	Field string

	// Message describes what's wrong with the field value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("plan validation error: %s: %s", e.Field, e.Message)
}

// nameRegex validates entry names: alphanumeric first character, then
// alphanumerics, dots, underscores and hyphens.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Validate checks the structure of a plan and returns every problem found
// (an empty list means the plan is well-formed).
//
// Only structure is checked here: the networks and counts themselves are
// checked per entry by the partitioner when the plan is evaluated, so one
// bad entry does not hide the results of the others.
//
// Checks performed:
//   - at least one partition
//   - every entry has a valid, unique name
//   - no entry sets both cidr and availableBits
func Validate(p *Plan) []ValidationError {
	var errs []ValidationError

	if len(p.Partitions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "partitions",
			Message: "plan must contain at least one partition",
		})
	}

	seen := make(map[string]int)
	for i, e := range p.Partitions {
		field := fmt.Sprintf("partitions[%d]", i)

		switch {
		case e.Name == "":
			errs = append(errs, ValidationError{Field: field + ".name", Message: "name must not be empty"})
		case !nameRegex.MatchString(e.Name):
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("invalid name %q: must start with an alphanumeric character and contain only alphanumerics, '.', '_' and '-'", e.Name),
			})
		default:
			if first, dup := seen[e.Name]; dup {
				errs = append(errs, ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("duplicate name %q (first used by partitions[%d])", e.Name, first),
				})
			} else {
				seen[e.Name] = i
			}
		}

		if e.CIDR != "" && e.AvailableBits != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "cidr and availableBits are mutually exclusive",
			})
		}
	}

	return errs
}
