package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// section returns the first section satisfying match, or nil.
func (d *Document) section(match func(*Section) bool) *Section {
	for i := range d.Sections {
		if match(&d.Sections[i]) {
			return &d.Sections[i]
		}
	}
	return nil
}

// GetSection retrieves a specific section from the document.
// Accepts both "v1.2.0" and "1.2.0" formats, plus "unreleased" in any
// capitalization (normalizes the input).
// Returns VersionNotFoundError if the version doesn't exist.
func (d *Document) GetSection(version string) (*Section, error) {
	normalized := NormalizeVersion(version)
	s := d.section(func(s *Section) bool {
		return NormalizeVersion(s.Label) == normalized
	})
	if s == nil {
		return nil, &VersionNotFoundError{
			Version:           version,
			AvailableVersions: d.ListVersions(),
		}
	}
	return s, nil
}

// GetUnreleased retrieves the unreleased section of the document.
// Returns nil if there is no unreleased section.
func (d *Document) GetUnreleased() *Section {
	return d.section((*Section).IsUnreleased)
}

// GetLatestRelease returns the most recent released section.
// Returns nil if there are no released sections.
func (d *Document) GetLatestRelease() *Section {
	return d.section(func(s *Section) bool { return !s.IsUnreleased() })
}

// ListVersions returns the labels of all sections in the document.
// Labels are returned in the order they appear (newest first).
func (d *Document) ListVersions() []string {
	versions := make([]string, len(d.Sections))
	for i := range d.Sections {
		versions[i] = d.Sections[i].Label
	}
	return versions
}

// GetLastN retrieves the N most recent entries across all sections.
// Entries are returned in document order (newest first). Asking for
// more entries than exist returns them all; n <= 0 returns none.
func (d *Document) GetLastN(n int) []Entry {
	if n <= 0 {
		return nil
	}

	entries := d.AllEntries()
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// AllEntries returns all entries from all sections, newest first.
// Entries within each section follow the standard category order.
func (d *Document) AllEntries() []Entry {
	var entries []Entry
	for i := range d.Sections {
		entries = append(entries, d.Sections[i].Entries()...)
	}
	return entries
}

// GetSectionCount returns the number of sections in the document.
func (d *Document) GetSectionCount() int {
	return len(d.Sections)
}

// GetEntryCount returns the total number of entries across all sections.
func (d *Document) GetEntryCount() int {
	count := 0
	for i := range d.Sections {
		count += d.Sections[i].Count()
	}
	return count
}

// HasUnreleased returns true if the document has an unreleased section.
func (d *Document) HasUnreleased() bool {
	return d.GetUnreleased() != nil
}
