// Package token defines the lexical token vocabulary shared by the
// scanner, lexer and parser.
package token

import "fmt"

// Kind identifies the category of a Token. The set is closed: every
// keyword, literal and symbol the language recognizes has exactly one
// Kind.
type Kind int

const (
	EOF Kind = iota
	UNMATCHED
	COMMENT

	// Identifiers, split by initial case because the grammar uses case to
	// distinguish bindings (IdLower) from constructors (IdUpper).
	IdLower
	IdUpper

	// Literals
	IntLiteral
	FloatLiteral
	CharLiteral
	StringLiteral

	// Keywords (34, matching the closed set of reserved words)
	And
	Array
	Begin
	Bool
	Char
	Delete
	Dim
	Do
	Done
	Downto
	Else
	End
	False
	Float
	For
	If
	In
	Int
	Let
	Match
	Mod
	Mutable
	New
	Not
	Of
	Rec
	Ref
	Then
	To
	True
	Type
	Unit
	While
	With

	// Multi-char symbols
	Arrow    // ->
	DblStar  // **
	DblAmp   // &&
	DblBar   // ||
	LtGt     // <>
	LEq      // <=
	GEq      // >=
	DblEq    // ==
	ExclEq   // !=
	ColonEq  // :=

	// Single-char symbols
	Semicolon // ;
	Eq        // =
	Gt        // >
	Lt        // <
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Colon     // :
	Comma     // ,
	LBracket  // [
	RBracket  // ]
	LParen    // (
	RParen    // )
	Bar       // |
	Exclam    // !
)

var names = map[Kind]string{
	EOF:       "EOF",
	UNMATCHED: "UNMATCHED",
	COMMENT:   "COMMENT",

	IdLower: "IdLower",
	IdUpper: "IdUpper",

	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	CharLiteral:   "CharLiteral",
	StringLiteral: "StringLiteral",

	And: "and", Array: "array", Begin: "begin", Bool: "bool", Char: "char",
	Delete: "delete", Dim: "dim", Do: "do", Done: "done", Downto: "downto",
	Else: "else", End: "end", False: "false", Float: "float", For: "for",
	If: "if", In: "in", Int: "int", Let: "let", Match: "match",
	Mod: "mod", Mutable: "mutable", New: "new", Not: "not", Of: "of",
	Rec: "rec", Ref: "ref", Then: "then", To: "to", True: "true",
	Type: "type", Unit: "unit", While: "while", With: "with",

	Arrow: "->", DblStar: "**", DblAmp: "&&", DblBar: "||", LtGt: "<>",
	LEq: "<=", GEq: ">=", DblEq: "==", ExclEq: "!=", ColonEq: ":=",

	Semicolon: ";", Eq: "=", Gt: ">", Lt: "<", Plus: "+", Minus: "-",
	Star: "*", Slash: "/", Colon: ":", Comma: ",", LBracket: "[",
	RBracket: "]", LParen: "(", RParen: ")", Bar: "|", Exclam: "!",
}

// Keywords maps every reserved word's spelling back to its Kind. The
// lexer looks identifiers up here *after* scanning them as IdLower, so
// an identifier only becomes a keyword by exact spelling match.
var Keywords = map[string]Kind{
	"and": And, "array": Array, "begin": Begin, "bool": Bool, "char": Char,
	"delete": Delete, "dim": Dim, "do": Do, "done": Done, "downto": Downto,
	"else": Else, "end": End, "false": False, "float": Float, "for": For,
	"if": If, "in": In, "int": Int, "let": Let, "match": Match,
	"mod": Mod, "mutable": Mutable, "new": New, "not": Not, "of": Of,
	"rec": Rec, "ref": Ref, "then": Then, "to": To, "true": True,
	"type": Type, "unit": Unit, "while": While, "with": With,
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open source range [Start, End) used for diagnostics.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start.File == s.End.File && s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Value carries the decoded payload of a literal or identifier token.
// Exactly one field is meaningful, selected by the owning Token's Kind.
type Value struct {
	Int    int32
	Float  float64
	Char   byte
	String string
}

// Token is one lexeme together with its source span and decoded value.
type Token struct {
	Kind     Kind
	Original string // the exact source bytes that produced this token
	Value    Value
	Span     Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Original, t.Span)
}

// AsInt projects the token's value as a decoded integer literal. It
// panics if called on a token whose Kind is not IntLiteral, mirroring
// the teacher's typed-projector pattern for tagged token payloads.
func (t Token) AsInt() int32 {
	if t.Kind != IntLiteral {
		panic(fmt.Sprintf("AsInt called on %s token", t.Kind))
	}
	return t.Value.Int
}

// AsFloat projects the token's value as a decoded float literal.
func (t Token) AsFloat() float64 {
	if t.Kind != FloatLiteral {
		panic(fmt.Sprintf("AsFloat called on %s token", t.Kind))
	}
	return t.Value.Float
}

// AsChar projects the token's value as a decoded character literal.
func (t Token) AsChar() byte {
	if t.Kind != CharLiteral {
		panic(fmt.Sprintf("AsChar called on %s token", t.Kind))
	}
	return t.Value.Char
}

// AsString projects the token's value as a decoded string literal or
// an identifier's spelling.
func (t Token) AsString() string {
	switch t.Kind {
	case StringLiteral, IdLower, IdUpper:
		return t.Value.String
	}
	panic(fmt.Sprintf("AsString called on %s token", t.Kind))
}
