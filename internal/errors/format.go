package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette is the set of styling functions one render pass applies. The
// colored and plain renderers share a single code path and differ only
// in the palette handed to it.
type palette struct {
	errLabel func(a ...interface{}) string
	category func(a ...interface{}) string
	message  func(a ...interface{}) string
	usage    func(a ...interface{}) string
	usageVal func(a ...interface{}) string
	fix      func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

var coloredPalette = palette{
	errLabel: color.New(color.FgRed, color.Bold).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	usage:    color.New(color.FgCyan, color.Bold).SprintFunc(),
	usageVal: color.New(color.FgCyan).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

var plainPalette = palette{
	errLabel: fmt.Sprint,
	category: fmt.Sprint,
	message:  fmt.Sprint,
	usage:    fmt.Sprint,
	usageVal: fmt.Sprint,
	fix:      fmt.Sprint,
	bullet:   fmt.Sprint,
}

// FormatError renders err for the terminal. The color package handles
// NO_COLOR and non-TTY degradation on its own.
func FormatError(err *CLIError) string {
	return render(err, coloredPalette)
}

// FormatErrorPlain renders err without any styling, for --plain mode.
func FormatErrorPlain(err *CLIError) string {
	return render(err, plainPalette)
}

// FprintError writes the formatted error to w. A nil error writes nothing.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

func render(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s]: %s\n",
		p.errLabel("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s%s\n", p.usage("Usage: "), p.usageVal(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return b.String()
}
