package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleChangelog is a canonical document exercising preamble, multiple
// sections, multiple categories, and a link reference footer.
const sampleChangelog = `# Changelog

All notable changes to this project will be documented in this file.

## [Unreleased]

### Added

- New widget preview

## [1.1.0] - 2024-06-01

### Added

- VM status checking

### Fixed

- Workflow overwriting existing changelog entries

## [1.0.0] - 2024-05-01

### Added

- Initial release

[Unreleased]: https://example.com/compare/v1.1.0...HEAD
[1.1.0]: https://example.com/compare/v1.0.0...v1.1.0
[1.0.0]: https://example.com/releases/tag/v1.0.0
`

// sampleDocument is the expected parse of sampleChangelog.
func sampleDocument() *Document {
	return &Document{
		Preamble: "# Changelog\n\nAll notable changes to this project will be documented in this file.\n\n",
		Sections: []Section{
			{
				Label: "unreleased",
				Categories: []CategoryChanges{
					{Category: Added, Entries: []string{"New widget preview"}},
				},
			},
			{
				Label: "1.1.0",
				Date:  "2024-06-01",
				Categories: []CategoryChanges{
					{Category: Added, Entries: []string{"VM status checking"}},
					{Category: Fixed, Entries: []string{"Workflow overwriting existing changelog entries"}},
				},
			},
			{
				Label: "1.0.0",
				Date:  "2024-05-01",
				Categories: []CategoryChanges{
					{Category: Added, Entries: []string{"Initial release"}},
				},
			},
		},
		Footer: "[Unreleased]: https://example.com/compare/v1.1.0...HEAD\n" +
			"[1.1.0]: https://example.com/compare/v1.0.0...v1.1.0\n" +
			"[1.0.0]: https://example.com/releases/tag/v1.0.0\n",
	}
}

func TestParse_ValidDocuments(t *testing.T) {
	tests := map[string]struct {
		text     string
		expected *Document
	}{
		"canonical document": {
			text:     sampleChangelog,
			expected: sampleDocument(),
		},
		"empty unreleased only": {
			text: "## [Unreleased]\n",
			expected: &Document{
				Sections: []Section{{Label: "unreleased"}},
			},
		},
		"all six categories": {
			text: `## [2.0.0] - 2024-02-20

### Added

- New feature A

### Changed

- Modified behavior

### Deprecated

- Old API

### Removed

- Legacy function

### Fixed

- Critical bug

### Security

- CVE-2024-1234
`,
			expected: &Document{
				Sections: []Section{
					{
						Label: "2.0.0",
						Date:  "2024-02-20",
						Categories: []CategoryChanges{
							{Category: Added, Entries: []string{"New feature A"}},
							{Category: Changed, Entries: []string{"Modified behavior"}},
							{Category: Deprecated, Entries: []string{"Old API"}},
							{Category: Removed, Entries: []string{"Legacy function"}},
							{Category: Fixed, Entries: []string{"Critical bug"}},
							{Category: Security, Entries: []string{"CVE-2024-1234"}},
						},
					},
				},
			},
		},
		"semver with prerelease": {
			text: "## [1.0.0-beta.1] - 2024-01-10\n\n### Added\n\n- Beta feature\n",
			expected: &Document{
				Sections: []Section{
					{
						Label:      "1.0.0-beta.1",
						Date:       "2024-01-10",
						Categories: []CategoryChanges{{Category: Added, Entries: []string{"Beta feature"}}},
					},
				},
			},
		},
		"v-prefixed label is normalized": {
			text: "## [v1.2.0] - 2024-03-05\n\n### Fixed\n\n- Crash on start\n",
			expected: &Document{
				Sections: []Section{
					{
						Label:      "1.2.0",
						Date:       "2024-03-05",
						Categories: []CategoryChanges{{Category: Fixed, Entries: []string{"Crash on start"}}},
					},
				},
			},
		},
		"category heading is case-insensitive": {
			text: "## [Unreleased]\n\n### fixed\n\n- Lowercase heading\n",
			expected: &Document{
				Sections: []Section{
					{
						Label:      "unreleased",
						Categories: []CategoryChanges{{Category: Fixed, Entries: []string{"Lowercase heading"}}},
					},
				},
			},
		},
		"unreleased label in any capitalization": {
			text: "## [unreleased]\n\n### Added\n\n- Entry\n",
			expected: &Document{
				Sections: []Section{
					{
						Label:      "unreleased",
						Categories: []CategoryChanges{{Category: Added, Entries: []string{"Entry"}}},
					},
				},
			},
		},
		"preamble only": {
			text: "# Changelog\n\nNothing released yet.\n",
			expected: &Document{
				Preamble: "# Changelog\n\nNothing released yet.\n",
			},
		},
		"empty input": {
			text:     "",
			expected: &Document{},
		},
		"preamble keeps non-section headings verbatim": {
			text: "# Title\n\n## Notes\n\nSome intro prose.\n\n## [Unreleased]\n",
			expected: &Document{
				Preamble: "# Title\n\n## Notes\n\nSome intro prose.\n\n",
				Sections: []Section{{Label: "unreleased"}},
			},
		},
		"category disorder is preserved for validation": {
			text: "## [Unreleased]\n\n### Fixed\n\n- B\n\n### Added\n\n- A\n",
			expected: &Document{
				Sections: []Section{
					{
						Label: "unreleased",
						Categories: []CategoryChanges{
							{Category: Fixed, Entries: []string{"B"}},
							{Category: Added, Entries: []string{"A"}},
						},
					},
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParse_ParseErrors(t *testing.T) {
	tests := map[string]struct {
		text        string
		errContains string
	}{
		"heading without date": {
			text:        "## [1.0.0]\n",
			errContains: "missing date",
		},
		"heading with malformed date": {
			text:        "## [1.0.0] - yesterday\n",
			errContains: "invalid date",
		},
		"unreleased with date": {
			text:        "## [Unreleased] - 2024-01-01\n",
			errContains: "must not have a date",
		},
		"duplicate unreleased section": {
			text:        "## [Unreleased]\n\n### Added\n\n- A\n\n## [Unreleased]\n",
			errContains: "more than one Unreleased",
		},
		"unknown category heading": {
			text:        "## [Unreleased]\n\n### Improved\n\n- Something\n",
			errContains: "unrecognized category",
		},
		"entry outside category": {
			text:        "## [Unreleased]\n\n- Floating entry\n",
			errContains: "outside of a category",
		},
		"plain h2 inside sections": {
			text:        "## [Unreleased]\n\n## Notes\n",
			errContains: "malformed section heading",
		},
		"unclosed label bracket": {
			text:        "## [1.0.0 - 2024-01-01\n",
			errContains: "malformed section heading",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParse_ErrorReportsLine(t *testing.T) {
	text := "# Changelog\n\n## [Unreleased]\n\n### Improved\n"

	_, err := Parse(text)
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 5, pe.Line)
	assert.Contains(t, pe.Error(), "line 5")
}

func TestParse_DiscardsBodyProse(t *testing.T) {
	// Free prose inside a section is outside the recognized grammar and
	// is not modeled.
	text := "## [1.0.0] - 2024-01-15\n\nSome narrative paragraph.\n\n### Added\n\n- Feature\n"

	doc, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []string{"Feature"}, doc.Sections[0].EntriesFor(Added))
}

func TestParse_FooterStopsGrammar(t *testing.T) {
	// Everything from the first link reference on is footer, verbatim,
	// including blank lines.
	text := "## [1.0.0] - 2024-01-15\n\n### Added\n\n- Feature\n\n[1.0.0]: https://example.com/releases/tag/v1.0.0\n\n[other]: https://example.com\n"

	doc, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "[1.0.0]: https://example.com/releases/tag/v1.0.0\n\n[other]: https://example.com\n", doc.Footer)
}

func TestIsParseError(t *testing.T) {
	tests := map[string]struct {
		err  error
		want bool
	}{
		"parse error":      {err: &ParseError{Line: 3, Message: "bad"}, want: true},
		"validation error": {err: &ValidationError{Message: "bad"}, want: false},
		"nil error":        {err: nil, want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsParseError(tt.err))
		})
	}
}

func TestLoadFromReader(t *testing.T) {
	doc, err := LoadFromReader(strings.NewReader(sampleChangelog))
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), doc)
}
