// Package progress provides terminal capability detection and symbol
// selection for chlog's interactive output (show, watch, validation
// reporting).
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal can render.
type TerminalCapabilities struct {
	// IsTTY is true when stdout is an interactive terminal.
	IsTTY bool
	// SupportsColor is true when colored output should be produced.
	SupportsColor bool
	// SupportsUnicode is true when unicode symbols render safely.
	SupportsUnicode bool
	// Width is the terminal width in columns, 0 when unknown.
	Width int
}

// ProgressSymbols is the symbol set used for status output.
type ProgressSymbols struct {
	// Checkmark marks a passing check.
	Checkmark string
	// Failure marks a failing check.
	Failure string
	// SpinnerSet selects the briandowns/spinner character set index.
	SpinnerSet int
}

// unicodeSymbols uses ✓/✗ and the braille-dots spinner charset.
var unicodeSymbols = ProgressSymbols{
	Checkmark:  "✓",
	Failure:    "✗",
	SpinnerSet: 14,
}

// asciiSymbols degrades to bracketed words and the |/-\ spinner charset
// for terminals that cannot render unicode.
var asciiSymbols = ProgressSymbols{
	Checkmark:  "[OK]",
	Failure:    "[FAIL]",
	SpinnerSet: 9,
}

// DetectTerminalCapabilities inspects stdout and the environment.
// NO_COLOR disables color; CHLOG_ASCII=1 disables unicode. Width is
// queried only on a real terminal.
func DetectTerminalCapabilities() TerminalCapabilities {
	return detect(int(os.Stdout.Fd()))
}

func detect(fd int) TerminalCapabilities {
	caps := TerminalCapabilities{IsTTY: term.IsTerminal(fd)}
	if !caps.IsTTY {
		return caps
	}

	caps.SupportsColor = os.Getenv("NO_COLOR") == ""
	caps.SupportsUnicode = os.Getenv("CHLOG_ASCII") != "1"
	if w, _, err := term.GetSize(fd); err == nil {
		caps.Width = w
	}

	return caps
}

// SelectSymbols picks the symbol set the terminal can render.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
