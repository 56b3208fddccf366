// Package material contains the pure validation logic for material
// identifiers. Functions here evaluate input without side effects.
package material

import (
	"fmt"

	"github.com/example/jbatch/internal/models"
)

// IDLength is the fixed width of a JobBOSS material identifier.
const IDLength = 8

// ValidID reports whether s is a well-formed material identifier
// (fixed-width numeric code). It does not check that the material exists;
// existence is the ERP's business, not ours.
func ValidID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Line is one non-blank line of a generator input file, with its original
// line number preserved for error reporting.
type Line struct {
	Number int
	ID     string
}

// ValidateBatch checks a parsed input list: every identifier well-formed,
// no duplicates, list non-empty. Returns the identifiers in input order.
func ValidateBatch(lines []Line) ([]string, error) {
	if len(lines) == 0 {
		return nil, &models.ValidationError{Subject: "input", Reason: "no material identifiers found"}
	}

	seen := make(map[string]int, len(lines))
	ids := make([]string, 0, len(lines))
	for _, ln := range lines {
		if !ValidID(ln.ID) {
			return nil, &models.ValidationError{
				Subject: fmt.Sprintf("line %d", ln.Number),
				Reason:  fmt.Sprintf("malformed material identifier %q (want %d digits)", ln.ID, IDLength),
			}
		}
		if first, dup := seen[ln.ID]; dup {
			return nil, &models.ValidationError{
				Subject: fmt.Sprintf("line %d", ln.Number),
				Reason:  fmt.Sprintf("duplicate material identifier %s (first seen on line %d)", ln.ID, first),
			}
		}
		seen[ln.ID] = ln.Number
		ids = append(ids, ln.ID)
	}
	return ids, nil
}
