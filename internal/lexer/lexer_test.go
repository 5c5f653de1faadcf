package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llamalang/llamac/internal/scanner"
	"github.com/llamalang/llamac/internal/token"
)

// fakeSource feeds a canned sequence of events, letting lexer tests
// avoid touching the filesystem via scanner.Scanner.
type fakeSource struct {
	events []scanner.Event
	i      int
}

func (f *fakeSource) Next() (scanner.Event, bool, error) {
	if f.i >= len(f.events) {
		return scanner.Event{}, false, nil
	}
	ev := f.events[f.i]
	f.i++
	return ev, true, nil
}

func linesOf(file string, lines ...string) *fakeSource {
	events := []scanner.Event{{Kind: scanner.FileChange, File: file}}
	for i, text := range lines {
		events = append(events, scanner.Event{Kind: scanner.Line, Text: text, LineNo: i + 1, File: file})
	}
	return &fakeSource{events: events}
}

func collectKinds(t *testing.T, l *Lexer) []token.Kind {
	t.Helper()
	var kinds []token.Kind
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	return kinds
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	l := New(linesOf("t.llama", "let rec fact n = if n == 0 then 1 else n"))
	kinds := collectKinds(t, l)
	require.Equal(t, []token.Kind{
		token.Let, token.Rec, token.IdLower, token.IdLower, token.Eq,
		token.If, token.IdLower, token.DblEq, token.IntLiteral, token.Then,
		token.IntLiteral, token.Else, token.IdLower, token.EOF,
	}, kinds)
}

func TestLexerUpperIdentifierIsConstructor(t *testing.T) {
	l := New(linesOf("t.llama", "Circle r"))
	tok, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, token.IdUpper, tok.Kind)
	require.Equal(t, "Circle", tok.AsString())
}

func TestLexerMultiCharSymbols(t *testing.T) {
	l := New(linesOf("t.llama", "a <= b >= c <> d := e -> f"))
	kinds := collectKinds(t, l)
	require.Contains(t, kinds, token.LEq)
	require.Contains(t, kinds, token.GEq)
	require.Contains(t, kinds, token.LtGt)
	require.Contains(t, kinds, token.ColonEq)
	require.Contains(t, kinds, token.Arrow)
}

func TestLexerLineComment(t *testing.T) {
	l := New(linesOf("t.llama", "let x = 1 -- this is ignored", "let y = 2"))
	kinds := collectKinds(t, l)
	require.NotContains(t, kinds, token.UNMATCHED)
	// two lets, two idents, two eqs, two ints, eof
	count := 0
	for _, k := range kinds {
		if k == token.Let {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestLexerNestedBlockComment(t *testing.T) {
	l := New(linesOf("t.llama", "let x (* outer (* inner *) still outer *) = 1"))
	kinds := collectKinds(t, l)
	require.Equal(t, []token.Kind{token.Let, token.IdLower, token.Eq, token.IntLiteral, token.EOF}, kinds)
}

func TestLexerBlockCommentSpansLines(t *testing.T) {
	l := New(linesOf("t.llama", "let x (* starts here", "  still a comment", "  ends *) = 1"))
	kinds := collectKinds(t, l)
	require.Equal(t, []token.Kind{token.Let, token.IdLower, token.Eq, token.IntLiteral, token.EOF}, kinds)
}

func TestLexerIntAndFloatLiterals(t *testing.T) {
	l := New(linesOf("t.llama", "42 3.14 2.5e10"))
	tok1, _ := l.NextToken()
	require.Equal(t, token.IntLiteral, tok1.Kind)
	require.Equal(t, int32(42), tok1.AsInt())
	tok2, _ := l.NextToken()
	require.Equal(t, token.FloatLiteral, tok2.Kind)
	require.InDelta(t, 3.14, tok2.AsFloat(), 1e-9)
	tok3, _ := l.NextToken()
	require.Equal(t, token.FloatLiteral, tok3.Kind)
	require.InDelta(t, 2.5e10, tok3.AsFloat(), 1.0)
}

func TestLexerCharLiteralEscapes(t *testing.T) {
	l := New(linesOf("t.llama", `'a' '\n' '\x41'`))
	tok1, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, byte('a'), tok1.AsChar())
	tok2, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, byte('\n'), tok2.AsChar())
	tok3, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, byte('A'), tok3.AsChar())
}

func TestLexerStringLiteralEscapes(t *testing.T) {
	l := New(linesOf("t.llama", `"hello\tworld\n"`))
	tok, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, "hello\tworld\n", tok.AsString())
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	l := New(linesOf("t.llama", `"unterminated`))
	_, err := l.NextToken()
	require.Error(t, err)
}

func TestLexerEOFIsSticky(t *testing.T) {
	l := New(linesOf("t.llama", "1"))
	_, err := l.NextToken()
	require.NoError(t, err)
	tok, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, token.EOF, tok.Kind)
	tok2, err := l.NextToken()
	require.NoError(t, err)
	require.Equal(t, token.EOF, tok2.Kind)
}
