package changelog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents an invalid input argument or document state
// with context. No mutation is performed when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Issue describes one structural conformance violation found by Validate.
type Issue struct {
	Section string // label of the offending section, empty for document-level issues
	Message string
}

// String formats the issue as a single report line.
func (i Issue) String() string {
	if i.Section != "" {
		return fmt.Sprintf("section [%s]: %s", i.Section, i.Message)
	}
	return i.Message
}

// Validate checks the document's structural conformance and returns all
// violations found. An empty result means the document is valid.
//
// Checks: at most one Unreleased section, placed first; released version
// labels unique, semver shaped, and dated with YYYY-MM-DD; category
// headings within every section in standard order without duplicates;
// no entry empty after trimming.
func Validate(doc *Document) []Issue {
	var issues []Issue

	issues = append(issues, validateUnreleasedPlacement(doc)...)
	issues = append(issues, validateLabels(doc)...)
	for i := range doc.Sections {
		issues = append(issues, validateSection(&doc.Sections[i])...)
	}

	return issues
}

// validateUnreleasedPlacement checks the single-Unreleased invariant.
func validateUnreleasedPlacement(doc *Document) []Issue {
	var issues []Issue

	count := 0
	firstIdx := -1
	for i := range doc.Sections {
		if doc.Sections[i].IsUnreleased() {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}

	if count > 1 {
		issues = append(issues, Issue{Message: fmt.Sprintf("only one Unreleased section is allowed (found %d)", count)})
	}
	if count >= 1 && firstIdx != 0 {
		issues = append(issues, Issue{Message: "the Unreleased section must be the first section"})
	}

	return issues
}

// validateLabels checks version label and date well-formedness plus
// released version uniqueness.
func validateLabels(doc *Document) []Issue {
	var issues []Issue

	seen := make(map[string]bool)
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		if sec.IsUnreleased() {
			if sec.Date != "" {
				issues = append(issues, Issue{Section: sec.Label, Message: "the Unreleased section must not have a date"})
			}
			continue
		}

		if !semverPattern.MatchString(sec.Label) {
			issues = append(issues, Issue{Section: sec.Label, Message: fmt.Sprintf("invalid semver format %q (expected: X.Y.Z)", sec.Label)})
		}
		switch {
		case sec.Date == "":
			issues = append(issues, Issue{Section: sec.Label, Message: "date is required for released versions"})
		case !datePattern.MatchString(sec.Date):
			issues = append(issues, Issue{Section: sec.Label, Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", sec.Date)})
		}

		normalized := NormalizeVersion(sec.Label)
		if seen[normalized] {
			issues = append(issues, Issue{Section: sec.Label, Message: fmt.Sprintf("duplicate version %q", sec.Label)})
		}
		seen[normalized] = true
	}

	return issues
}

// validateSection checks category ordering, category uniqueness, and
// entry text within a single section.
func validateSection(s *Section) []Issue {
	var issues []Issue

	seen := make(map[Category]bool)
	maxSeen := Category(-1)
	for _, cc := range s.Categories {
		switch {
		case seen[cc.Category]:
			issues = append(issues, Issue{Section: s.Label, Message: fmt.Sprintf("duplicate category heading %q", cc.Category.String())})
		case cc.Category < maxSeen:
			issues = append(issues, Issue{Section: s.Label, Message: fmt.Sprintf("category %q out of order (standard order: %s)", cc.Category.String(), strings.Join(categoryNames(), ", "))})
		default:
			maxSeen = cc.Category
		}
		seen[cc.Category] = true

		for _, entry := range cc.Entries {
			if strings.TrimSpace(entry) == "" {
				issues = append(issues, Issue{Section: s.Label, Message: fmt.Sprintf("empty change entry under %q", cc.Category.String())})
			}
		}
	}

	return issues
}
