package changelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReleaseError reports a violated precondition while cutting a release.
// The document is left unmodified when one is returned.
type ReleaseError struct {
	Version string
	Message string
}

func (e *ReleaseError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("cannot release %s: %s", e.Version, e.Message)
	}
	return e.Message
}

// IsReleaseError returns true if the error is a ReleaseError.
func IsReleaseError(err error) bool {
	var re *ReleaseError
	return errors.As(err, &re)
}

// EnsureUnreleased returns the document's unreleased section, creating
// an empty one ahead of all other sections when absent.
func EnsureUnreleased(doc *Document) *Section {
	for i := range doc.Sections {
		if doc.Sections[i].IsUnreleased() {
			return &doc.Sections[i]
		}
	}

	doc.Sections = append([]Section{{Label: UnreleasedLabel}}, doc.Sections...)
	return &doc.Sections[0]
}

// AppendEntry records a change entry under the given category of the
// unreleased section, creating that section when absent. The entry text
// must be non-empty after trimming, else a ValidationError is returned.
//
// When dedupe is set, an entry whose trimmed text already exists
// verbatim in the target category is skipped and AppendEntry reports
// false with no error. Without dedupe, duplicate text is recorded again;
// automation running repeatedly over the same commits should request
// dedupe or track processed commits itself.
func AppendEntry(doc *Document, category Category, text string, dedupe bool) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, &ValidationError{Field: "text", Message: "entry text cannot be empty"}
	}

	unreleased := EnsureUnreleased(doc)

	if dedupe {
		for _, existing := range unreleased.EntriesFor(category) {
			if existing == text {
				return false, nil
			}
		}
	}

	cc := ensureCategory(unreleased, category)
	cc.Entries = append(cc.Entries, text)
	return true, nil
}

// ensureCategory returns the section's block for the category, inserting
// an empty one at its standard-order position when absent so mutation
// never produces an out-of-order section.
func ensureCategory(s *Section, cat Category) *CategoryChanges {
	for i := range s.Categories {
		if s.Categories[i].Category == cat {
			return &s.Categories[i]
		}
	}

	pos := len(s.Categories)
	for i := range s.Categories {
		if s.Categories[i].Category > cat {
			pos = i
			break
		}
	}

	s.Categories = append(s.Categories, CategoryChanges{})
	copy(s.Categories[pos+1:], s.Categories[pos:])
	s.Categories[pos] = CategoryChanges{Category: cat}
	return &s.Categories[pos]
}

// CutRelease converts the unreleased section into a released section
// labeled with version and date, and starts a fresh empty unreleased
// section directly above it. Released sections are never touched.
//
// The unreleased section must contain at least one entry and the version
// must not collide with an already released version, else a ReleaseError
// is returned. A malformed version or date is a ValidationError. An
// empty date defaults to the current calendar date.
func CutRelease(doc *Document, version, date string) error {
	version = NormalizeVersion(version)
	if !semverPattern.MatchString(version) {
		return &ValidationError{Field: "version", Message: fmt.Sprintf("invalid semver format %q (expected: X.Y.Z)", version)}
	}

	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if !datePattern.MatchString(date) {
		return &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", date)}
	}

	idx := -1
	for i := range doc.Sections {
		if doc.Sections[i].IsUnreleased() {
			idx = i
			break
		}
	}
	if idx == -1 || doc.Sections[idx].IsEmpty() {
		return &ReleaseError{Version: version, Message: "nothing to release (no unreleased entries)"}
	}

	for i := range doc.Sections {
		sec := &doc.Sections[i]
		if !sec.IsUnreleased() && NormalizeVersion(sec.Label) == version {
			return &ReleaseError{Version: version, Message: fmt.Sprintf("version already released on %s", sec.Date)}
		}
	}

	doc.Sections[idx].Label = version
	doc.Sections[idx].Date = date

	doc.Sections = append(doc.Sections, Section{})
	copy(doc.Sections[idx+1:], doc.Sections[idx:])
	doc.Sections[idx] = Section{Label: UnreleasedLabel}

	return nil
}
