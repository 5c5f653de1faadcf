// Package diagnostic renders structured errors.Report values as
// colored, span-aware terminal output.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/llamalang/llamac/internal/errors"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Print writes a human-readable rendering of err to w. If err carries
// a *errors.Report (via errors.As), its code, message, phase, span and
// data fields are printed (no caret line; see Caret); otherwise the
// bare error message is printed.
func Print(w io.Writer, err error) {
	rep, ok := errors.As(err)
	if !ok {
		fmt.Fprintf(w, "%s %s\n", red("error:"), err)
		return
	}

	fmt.Fprintf(w, "%s %s %s\n", red(fmt.Sprintf("error[%s]:", rep.Code)), rep.Message, dim("("+rep.Phase+")"))
	if rep.Span != nil {
		fmt.Fprintf(w, "  %s %s\n", dim("-->"), cyan(rep.Span.String()))
	}
	for k, v := range rep.Data {
		fmt.Fprintf(w, "  %s %s = %v\n", dim("note:"), yellow(k), v)
	}
}

// Caret renders a single caret line pointing at column (1-based)
// within line, widening for full-width runes so the caret still lands
// under the right glyph in a terminal.
func Caret(line string, column int) string {
	var b strings.Builder
	runes := []rune(line)
	for i := 0; i < column-1 && i < len(runes); i++ {
		if width.LookupRune(runes[i]).Kind() == width.EastAsianWide {
			b.WriteString("  ")
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString(red("^"))
	return b.String()
}
