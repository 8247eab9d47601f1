package changelog

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports a malformed changelog document. Parsing stops at
// the first violation; the current run cannot continue and nothing is
// written back to disk.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

var (
	// sectionHeadingPattern matches "## [<label>]" with an optional " - <date>" tail.
	sectionHeadingPattern = regexp.MustCompile(`^## \[([^\]]+)\](?:\s*-\s*(\S.*?))?\s*$`)

	// linkRefPattern matches Markdown link reference definitions such as
	// "[Unreleased]: https://example.com/compare/v1.0.0...HEAD".
	linkRefPattern = regexp.MustCompile(`^\[[^\]]+\]:\s*\S`)
)

// Parse builds a Document from Keep a Changelog formatted text.
//
// Lines before the first "## [" heading form the verbatim preamble. Each
// "## [" heading opens a release section, each "### <Category>" heading
// opens that category's entry list, and each "- " bullet appends an entry
// to the open category. Blank lines are structural separators. A trailing
// block of link reference definitions is kept verbatim as the footer so
// rewrites never destroy version comparison links.
//
// Returns a ParseError when a section heading violates the expected
// grammar, a category heading is unrecognized, an entry appears outside
// a category, or more than one Unreleased section is found.
func Parse(text string) (*Document, error) {
	p := &parser{catIdx: -1}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		p.line++
		if err := p.consume(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning changelog text: %w", err)
	}

	return p.finish(), nil
}

// parser holds line-scanning state while building a Document.
type parser struct {
	doc      Document
	preamble []string
	footer   []string
	inFooter bool
	started  bool // a section heading has been seen
	catIdx   int  // index of the open category in the current section, -1 when none
	line     int
}

func (p *parser) consume(line string) error {
	if p.inFooter {
		p.footer = append(p.footer, line)
		return nil
	}

	switch {
	case strings.HasPrefix(line, "## ["):
		return p.openSection(line)
	case !p.started:
		p.preamble = append(p.preamble, line)
		return nil
	case linkRefPattern.MatchString(line):
		p.inFooter = true
		p.footer = append(p.footer, line)
		return nil
	case strings.TrimSpace(line) == "":
		return nil // structural separator
	case strings.HasPrefix(line, "## "):
		return &ParseError{Line: p.line, Message: fmt.Sprintf("malformed section heading %q (expected \"## [Unreleased]\" or \"## [<version>] - <date>\")", line)}
	case strings.HasPrefix(line, "### "):
		return p.openCategory(line)
	case strings.HasPrefix(line, "- "):
		return p.appendEntry(line)
	default:
		return nil // body text outside the recognized grammar is not modeled
	}
}

// openSection starts a new release section from a "## [" heading line.
func (p *parser) openSection(line string) error {
	m := sectionHeadingPattern.FindStringSubmatch(line)
	if m == nil {
		return &ParseError{Line: p.line, Message: fmt.Sprintf("malformed section heading %q (expected \"## [Unreleased]\" or \"## [<version>] - <date>\")", line)}
	}
	label, date := m[1], m[2]

	var sec Section
	if NormalizeVersion(label) == UnreleasedLabel {
		if date != "" {
			return &ParseError{Line: p.line, Message: "the Unreleased section must not have a date"}
		}
		if p.hasUnreleased() {
			return &ParseError{Line: p.line, Message: "more than one Unreleased section"}
		}
		sec.Label = UnreleasedLabel
	} else {
		if date == "" {
			return &ParseError{Line: p.line, Message: fmt.Sprintf("missing date in section heading %q (expected \"## [<version>] - <date>\")", line)}
		}
		if !datePattern.MatchString(date) {
			return &ParseError{Line: p.line, Message: fmt.Sprintf("invalid date %q in section heading (expected YYYY-MM-DD)", date)}
		}
		sec.Label = NormalizeVersion(label)
		sec.Date = date
	}

	p.doc.Sections = append(p.doc.Sections, sec)
	p.started = true
	p.catIdx = -1
	return nil
}

// openCategory starts a category entry list from a "### " heading line.
func (p *parser) openCategory(line string) error {
	name := strings.TrimSpace(strings.TrimPrefix(line, "### "))
	cat, err := ParseCategory(name)
	if err != nil {
		return &ParseError{Line: p.line, Message: fmt.Sprintf("unrecognized category heading %q (expected one of: %s)", name, strings.Join(categoryNames(), ", "))}
	}

	sec := p.currentSection()
	sec.Categories = append(sec.Categories, CategoryChanges{Category: cat})
	p.catIdx = len(sec.Categories) - 1
	return nil
}

// appendEntry records a "- " bullet line under the open category.
func (p *parser) appendEntry(line string) error {
	if p.catIdx < 0 {
		return &ParseError{Line: p.line, Message: "change entry outside of a category heading"}
	}

	text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
	sec := p.currentSection()
	sec.Categories[p.catIdx].Entries = append(sec.Categories[p.catIdx].Entries, text)
	return nil
}

func (p *parser) currentSection() *Section {
	return &p.doc.Sections[len(p.doc.Sections)-1]
}

func (p *parser) hasUnreleased() bool {
	for i := range p.doc.Sections {
		if p.doc.Sections[i].IsUnreleased() {
			return true
		}
	}
	return false
}

func (p *parser) finish() *Document {
	doc := p.doc
	if len(p.preamble) > 0 {
		doc.Preamble = strings.Join(p.preamble, "\n") + "\n"
	}
	if len(p.footer) > 0 {
		doc.Footer = strings.Join(p.footer, "\n") + "\n"
	}
	return &doc
}
