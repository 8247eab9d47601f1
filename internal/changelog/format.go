package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle pairs a category's accent color with its icon.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

var categoryStyles = map[Category]CategoryStyle{
	Added:      {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:    {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated: {Color: color.New(color.FgRed), Icon: "⚠"},
	Removed:    {Color: color.New(color.FgRed), Icon: "✗"},
	Fixed:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	Security:   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// termFormatter renders changelog entries for a terminal. The width is
// fixed at construction: an explicit MaxWidth wins, otherwise the width
// of stdout, otherwise 80 columns.
type termFormatter struct {
	w     io.Writer
	opts  FormatOptions
	width int
}

func newTermFormatter(w io.Writer, opts FormatOptions) *termFormatter {
	width := opts.MaxWidth
	if width <= 0 {
		width = 80
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}
	return &termFormatter{w: w, opts: opts, width: width}
}

// FormatTerminal writes changelog entries to the writer with terminal
// styling. Consecutive entries sharing a version form one block with
// color-coded category headers; blocks after the first are preceded by
// a blank line.
func FormatTerminal(entries []Entry, w io.Writer, opts FormatOptions) error {
	f := newTermFormatter(w, opts)

	for start := 0; start < len(entries); {
		end := start
		for end < len(entries) && entries[end].Version == entries[start].Version {
			end++
		}

		if start > 0 {
			fmt.Fprintln(w)
		}
		if err := f.versionBlock(entries[start].Version, entries[start:end]); err != nil {
			return fmt.Errorf("formatting version %s: %w", entries[start].Version, err)
		}
		start = end
	}

	return nil
}

// FormatSection writes a single section's entries to the writer.
func FormatSection(s *Section, w io.Writer, opts FormatOptions) error {
	f := newTermFormatter(w, opts)

	if err := f.heading(s.Label, s.Date); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, cat := range Categories() {
		if err := f.categoryBlock(cat, s.EntriesFor(cat)); err != nil {
			return err
		}
	}

	return nil
}

func (f *termFormatter) versionBlock(version string, entries []Entry) error {
	if err := f.heading(version, ""); err != nil {
		return err
	}

	byCategory := make(map[Category][]string, len(entries))
	for _, e := range entries {
		byCategory[e.Category] = append(byCategory[e.Category], e.Text)
	}

	for _, cat := range Categories() {
		if err := f.categoryBlock(cat, byCategory[cat]); err != nil {
			return err
		}
	}

	return nil
}

// heading writes the version heading. Released versions get a v prefix
// and, when known, the release date in parentheses.
func (f *termFormatter) heading(label, date string) error {
	var text string
	switch {
	case label == UnreleasedLabel:
		text = "Unreleased"
	case date != "":
		text = fmt.Sprintf("v%s (%s)", label, date)
	default:
		text = "v" + label
	}

	if !f.opts.Plain {
		text = color.New(color.Bold).Sprint(text)
	}

	_, err := fmt.Fprintf(f.w, "## %s\n", text)
	return err
}

// categoryBlock writes one category header followed by its entries.
// Empty categories produce no output.
func (f *termFormatter) categoryBlock(cat Category, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	style := categoryStyles[cat]
	if f.opts.Plain {
		if _, err := fmt.Fprintf(f.w, "\n### %s\n", cat); err != nil {
			return err
		}
	} else {
		paint := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(f.w, "\n%s %s\n", paint(style.Icon), paint(cat.String())); err != nil {
			return err
		}
	}

	for _, text := range texts {
		if err := f.entryLine(text, style); err != nil {
			return err
		}
	}

	return nil
}

func (f *termFormatter) entryLine(text string, style CategoryStyle) error {
	if f.opts.Plain {
		_, err := fmt.Fprintf(f.w, "  - %s\n", text)
		return err
	}

	wrapped := wrapText(text, f.width-4, "    ")
	_, err := fmt.Fprintf(f.w, "  - %s\n", style.Color.Sprint(wrapped))
	return err
}

// wrapText wraps text to fit within maxWidth, using indent for
// continuation lines. Breaks fall on the last space inside the limit;
// a run with no space gets a hard break at the limit.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	rest := text
	for len(rest) > maxWidth {
		cut := strings.LastIndexByte(rest[:maxWidth], ' ')
		if cut <= 0 {
			cut = maxWidth
		}
		lines = append(lines, rest[:cut])
		rest = strings.TrimLeft(rest[cut:], " ")
	}
	if rest != "" {
		lines = append(lines, rest)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatEntrySummary returns a brief one-line summary of an entry,
// truncated to fit a status line.
func FormatEntrySummary(entry Entry, opts FormatOptions) string {
	text := entry.Text
	if len(text) > 60 {
		text = text[:57] + "..."
	}

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", strings.ToLower(entry.Category.String()), text)
	}

	style := categoryStyles[entry.Category]
	return style.Color.Sprint(style.Icon) + " " + text
}
