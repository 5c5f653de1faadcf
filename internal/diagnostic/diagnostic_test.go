package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llamalang/llamac/internal/errors"
	"github.com/llamalang/llamac/internal/token"
)

func TestPrintPlainError(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, require.AnError)
	require.Contains(t, buf.String(), require.AnError.Error())
}

func TestPrintReportIncludesCodeAndSpan(t *testing.T) {
	span := token.Span{
		Start: token.Pos{File: "t.llama", Line: 3, Column: 5},
		End:   token.Pos{File: "t.llama", Line: 3, Column: 6},
	}
	err := errors.NewLookupError(span, "foo")

	var buf bytes.Buffer
	Print(&buf, err)

	out := buf.String()
	require.Contains(t, out, errors.CodeLookup)
	require.Contains(t, out, "foo")
	require.Contains(t, out, "t.llama")
}

func TestCaretPlacementForAsciiLine(t *testing.T) {
	c := Caret("let x = 1", 5)
	stripped := strings.TrimRight(strings.Map(func(r rune) rune {
		if r == ' ' {
			return r
		}
		return -1
	}, c), "")
	// 4 leading spaces before the caret glyph at column 5.
	require.Equal(t, 4, len(stripped))
}

func TestCaretWidensForEastAsianWideRunes(t *testing.T) {
	narrow := Caret("abc", 2)
	wide := Caret("全角", 2)
	// A single East-Asian-wide rune occupies two caret columns, so the
	// wide-rune caret string has more leading padding than the
	// equivalent-index narrow one.
	require.Greater(t, len(wide), len(narrow))
}
