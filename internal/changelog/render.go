package changelog

import (
	"io"
	"strings"
)

// errWriter remembers the first write error so the render path stays
// free of per-write checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) writeString(s string) {
	if ew.err == nil {
		_, ew.err = io.WriteString(ew.w, s)
	}
}

// RenderMarkdown writes the document as Keep a Changelog formatted
// Markdown. The preamble and footer are emitted verbatim; sections are
// emitted in document order with categories in the standard order,
// omitting empty categories.
//
// The function is idempotent, and for any document this tool writes it
// is a left inverse of Parse: Parse(RenderMarkdown(doc)) reproduces doc.
func RenderMarkdown(doc *Document, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.writeString(doc.Preamble)

	for i := range doc.Sections {
		if i > 0 {
			ew.writeString("\n")
		}
		renderSection(ew, &doc.Sections[i])
	}

	// A footer is only meaningful below at least one section.
	if doc.Footer != "" && len(doc.Sections) > 0 {
		ew.writeString("\n")
		ew.writeString(doc.Footer)
	}

	return ew.err
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(doc *Document) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(doc, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderSection writes one release heading followed by its non-empty
// categories, each a blank-line separated block of dash bullets.
func renderSection(ew *errWriter, s *Section) {
	ew.writeString(s.Heading() + "\n")

	for _, cat := range Categories() {
		entries := s.EntriesFor(cat)
		if len(entries) == 0 {
			continue
		}
		ew.writeString("\n### " + cat.String() + "\n\n")
		for _, entry := range entries {
			ew.writeString("- " + entry + "\n")
		}
	}
}
