package changelog

import (
	"fmt"
	"strings"
)

// UnreleasedLabel is the normalized label of the unreleased section.
// The CLI and parser accept any capitalization; rendering always emits
// the Keep a Changelog spelling "Unreleased".
const UnreleasedLabel = "unreleased"

// Category identifies one of the six Keep a Changelog change kinds.
// The declaration order is significant: it is the required on-disk
// section order within any release block.
type Category int

const (
	Added Category = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security
)

// String returns the canonical display name of the category as it
// appears in section headings (e.g. "Added").
func (c Category) String() string {
	switch c {
	case Added:
		return "Added"
	case Changed:
		return "Changed"
	case Deprecated:
		return "Deprecated"
	case Removed:
		return "Removed"
	case Fixed:
		return "Fixed"
	case Security:
		return "Security"
	default:
		return "Unknown"
	}
}

// Categories returns all categories in their standard rendering order.
func Categories() []Category {
	return []Category{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// ParseCategory resolves a category name to its Category value.
// Matching is case-insensitive ("fixed", "Fixed", and "FIXED" are equivalent).
// Returns a ValidationError for unrecognized names.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}
	return 0, &ValidationError{
		Field:   "category",
		Message: fmt.Sprintf("unknown category %q (expected one of: %s)", name, strings.Join(categoryNames(), ", ")),
	}
}

// categoryNames returns the lowercase names of all categories in order.
func categoryNames() []string {
	cats := Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = strings.ToLower(c.String())
	}
	return names
}

// CategoryChanges holds the entries recorded under one category heading
// of a release section. Entries preserve insertion order.
type CategoryChanges struct {
	Category Category
	Entries  []string
}

// Section represents one release block of the changelog: either the
// unreleased block or a released version. The Label is stored normalized
// (lowercase "unreleased" sentinel, or a bare semantic version without a
// "v" prefix). Date is set for released versions (format: YYYY-MM-DD)
// and empty for unreleased.
//
// Categories preserve the order found in the source document so the
// validator can detect out-of-order and duplicated category headings;
// rendering always emits the fixed category order.
type Section struct {
	Label      string
	Date       string
	Categories []CategoryChanges
}

// Document is the in-memory representation of a whole changelog file.
// Preamble is the free-form header text preceding the first release
// section and Footer is the trailing link-reference block; both are
// opaque and round-tripped verbatim.
type Document struct {
	Preamble string
	Sections []Section
	Footer   string
}

// Entry is a flattened view of a single changelog entry, used for
// querying and display where version and category context is needed
// alongside the text.
type Entry struct {
	Text     string
	Category Category
	Version  string
}

// IsUnreleased returns true if this section holds unreleased changes.
func (s *Section) IsUnreleased() bool {
	return s.Label == UnreleasedLabel
}

// IsEmpty returns true if the section has no entries in any category.
func (s *Section) IsEmpty() bool {
	return s.Count() == 0
}

// Count returns the total number of entries across all categories.
func (s *Section) Count() int {
	count := 0
	for _, cc := range s.Categories {
		count += len(cc.Entries)
	}
	return count
}

// EntriesFor returns the entries recorded under the given category.
// Duplicate category blocks (possible in hand-edited documents) are
// concatenated in document order.
func (s *Section) EntriesFor(cat Category) []string {
	var entries []string
	for _, cc := range s.Categories {
		if cc.Category == cat {
			entries = append(entries, cc.Entries...)
		}
	}
	return entries
}

// Entries returns a flattened list of all entries in this section,
// in standard category order.
func (s *Section) Entries() []Entry {
	entries := make([]Entry, 0, s.Count())
	for _, cat := range Categories() {
		for _, text := range s.EntriesFor(cat) {
			entries = append(entries, Entry{Text: text, Category: cat, Version: s.Label})
		}
	}
	return entries
}

// Heading returns the section heading as it appears on disk,
// e.g. "## [Unreleased]" or "## [1.2.0] - 2024-05-01".
func (s *Section) Heading() string {
	if s.IsUnreleased() {
		return "## [Unreleased]"
	}
	return fmt.Sprintf("## [%s] - %s", s.Label, s.Date)
}

// NormalizeVersion normalizes a version label by lowercasing it and
// removing the "v" prefix. This allows accepting both "v1.2.0" and
// "1.2.0" as input, and "Unreleased" in any capitalization.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(version), "v")
}

// DefaultPreamble is the standard Keep a Changelog header used when
// initializing a fresh document.
const DefaultPreamble = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

`

// NewDocument returns a fresh document with the standard preamble and
// an empty unreleased section.
func NewDocument() *Document {
	return &Document{
		Preamble: DefaultPreamble,
		Sections: []Section{{Label: UnreleasedLabel}},
	}
}
