package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/token"
)

// fakeTokens feeds a canned token sequence, letting parser tests
// avoid driving a real lexer.
type fakeTokens struct {
	toks []token.Token
	i    int
}

func (f *fakeTokens) NextToken() (token.Token, error) {
	if f.i >= len(f.toks) {
		return token.Token{Kind: token.EOF}, nil
	}
	t := f.toks[f.i]
	f.i++
	return t, nil
}

func tk(kind token.Kind) token.Token { return token.Token{Kind: kind} }

func tid(s string) token.Token {
	return token.Token{Kind: token.IdLower, Value: token.Value{String: s}}
}

func tup(s string) token.Token {
	return token.Token{Kind: token.IdUpper, Value: token.Value{String: s}}
}

func tint(v int32) token.Token {
	return token.Token{Kind: token.IntLiteral, Value: token.Value{Int: v}}
}

func tfloat(v float64) token.Token {
	return token.Token{Kind: token.FloatLiteral, Value: token.Value{Float: v}}
}

func newParser(t *testing.T, toks ...token.Token) *Parser {
	t.Helper()
	toks = append(toks, tk(token.EOF))
	p, err := New(&fakeTokens{toks: toks})
	require.NoError(t, err)
	return p
}

func TestProgramSingleConstDef(t *testing.T) {
	p := newParser(t, tk(token.Let), tid("x"), tk(token.Eq), tint(1))
	prog, err := p.Program()
	require.NoError(t, err)
	require.Len(t, prog.Definitions, 1)
	ld := prog.Definitions[0].(*ast.LetDef)
	require.False(t, ld.Rec)
	require.Len(t, ld.Defs, 1)
	require.Equal(t, "x", ld.Defs[0].ID)
	cd, ok := ld.Defs[0].Kind.(*ast.ConstDef)
	require.True(t, ok)
	lit, ok := cd.Expr.(*ast.IntLiteral)
	require.True(t, ok)
	require.EqualValues(t, 1, lit.Value)
}

func TestLetRecAndGroup(t *testing.T) {
	// let rec f x = x and g y = y
	p := newParser(t,
		tk(token.Let), tk(token.Rec),
		tid("f"), tid("x"), tk(token.Eq), tid("x"),
		tk(token.And),
		tid("g"), tid("y"), tk(token.Eq), tid("y"),
	)
	prog, err := p.Program()
	require.NoError(t, err)
	ld := prog.Definitions[0].(*ast.LetDef)
	require.True(t, ld.Rec)
	require.Len(t, ld.Defs, 2)
	require.Equal(t, "f", ld.Defs[0].ID)
	require.Equal(t, "g", ld.Defs[1].ID)
	fd, ok := ld.Defs[0].Kind.(*ast.FunctionDef)
	require.True(t, ok)
	require.Len(t, fd.Pars, 1)
	require.Equal(t, "x", fd.Pars[0].ID)
}

func TestFunctionDefWithAnnotatedParam(t *testing.T) {
	// let f (x : int) y = x
	p := newParser(t,
		tid("f"),
		tk(token.LParen), tid("x"), tk(token.Colon), tk(token.Int), tk(token.RParen),
		tid("y"), tk(token.Eq), tid("x"),
	)
	def, err := p.def()
	require.NoError(t, err)
	fd, ok := def.Kind.(*ast.FunctionDef)
	require.True(t, ok)
	require.Len(t, fd.Pars, 2)
	require.Equal(t, "x", fd.Pars[0].ID)
	require.NotNil(t, fd.Pars[0].Annotation)
	require.Equal(t, "y", fd.Pars[1].ID)
	require.Nil(t, fd.Pars[1].Annotation)
}

func TestMutableArrayDefHasNoInitializer(t *testing.T) {
	// mutable a[10, 20]
	p := newParser(t,
		tk(token.Mutable), tid("a"),
		tk(token.LBracket), tint(10), tk(token.Comma), tint(20), tk(token.RBracket),
	)
	def, err := p.def()
	require.NoError(t, err)
	ad, ok := def.Kind.(*ast.ArrayDef)
	require.True(t, ok)
	require.Len(t, ad.Dims, 2)
}

func TestTypeDefWithConstructors(t *testing.T) {
	// type shape = Circle of float | Square of float float | Nothing
	p := newParser(t,
		tk(token.Type), tid("shape"), tk(token.Eq),
		tup("Circle"), tk(token.Of), tk(token.Float),
		tk(token.Bar),
		tup("Square"), tk(token.Of), tk(token.Float), tk(token.Float),
		tk(token.Bar),
		tup("Nothing"),
	)
	prog, err := p.Program()
	require.NoError(t, err)
	td := prog.Definitions[0].(*ast.TypeDef)
	require.Len(t, td.TDefs, 1)
	require.Equal(t, "shape", td.TDefs[0].ID)
	require.Len(t, td.TDefs[0].Constrs, 3)
	require.Equal(t, "Circle", td.TDefs[0].Constrs[0].ID)
	require.Len(t, td.TDefs[0].Constrs[0].Types, 1)
	require.Equal(t, "Square", td.TDefs[0].Constrs[1].ID)
	require.Len(t, td.TDefs[0].Constrs[1].Types, 2)
	require.Equal(t, "Nothing", td.TDefs[0].Constrs[2].ID)
	require.Empty(t, td.TDefs[0].Constrs[2].Types)
}

func TestArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3
	p := newParser(t, tint(1), tk(token.Plus), tint(2), tk(token.Star), tint(3))
	e, err := p.expr()
	require.NoError(t, err)
	add, ok := e.(*ast.Binop)
	require.True(t, ok)
	require.Equal(t, ast.BinopAdd, add.Op)
	_, ok = add.Lhs.(*ast.IntLiteral)
	require.True(t, ok)
	mul, ok := add.Rhs.(*ast.Binop)
	require.True(t, ok)
	require.Equal(t, ast.BinopMul, mul.Op)
}

func TestPowerIsRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2  ==  2 ** (3 ** 2)
	p := newParser(t, tint(2), tk(token.DblStar), tint(3), tk(token.DblStar), tint(2))
	e, err := p.expr()
	require.NoError(t, err)
	outer, ok := e.(*ast.Binop)
	require.True(t, ok)
	require.Equal(t, ast.BinopPow, outer.Op)
	_, ok = outer.Lhs.(*ast.IntLiteral)
	require.True(t, ok)
	inner, ok := outer.Rhs.(*ast.Binop)
	require.True(t, ok)
	require.Equal(t, ast.BinopPow, inner.Op)
}

func TestUnaryBindsLooserThanCall(t *testing.T) {
	// -f(x)  ==  Unop(Minus, Call(f, [x]))
	p := newParser(t, tk(token.Minus), tid("f"), tk(token.LParen), tid("x"), tk(token.RParen))
	e, err := p.expr()
	require.NoError(t, err)
	un, ok := e.(*ast.Unop)
	require.True(t, ok)
	require.Equal(t, ast.UnopMinus, un.Op)
	call, ok := un.Operand.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "f", call.ID)
	require.Len(t, call.Args, 1)
}

func TestBareIdentifierParsesAsZeroArgCall(t *testing.T) {
	p := newParser(t, tid("x"))
	e, err := p.expr()
	require.NoError(t, err)
	call, ok := e.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "x", call.ID)
	require.Empty(t, call.Args)
}

func TestArrayAccess(t *testing.T) {
	// a[1, 2]
	p := newParser(t, tid("a"), tk(token.LBracket), tint(1), tk(token.Comma), tint(2), tk(token.RBracket))
	e, err := p.expr()
	require.NoError(t, err)
	acc, ok := e.(*ast.ArrayAccess)
	require.True(t, ok)
	require.Equal(t, "a", acc.ID)
	require.Len(t, acc.Indexes, 2)
}

func TestIfWithoutElseDanglesToNearest(t *testing.T) {
	// if a then if b then 1 else 2
	p := newParser(t,
		tk(token.If), tid("a"), tk(token.Then),
		tk(token.If), tid("b"), tk(token.Then), tint(1), tk(token.Else), tint(2),
	)
	e, err := p.expr()
	require.NoError(t, err)
	outer, ok := e.(*ast.If)
	require.True(t, ok)
	require.Nil(t, outer.Else)
	inner, ok := outer.Then.(*ast.If)
	require.True(t, ok)
	require.NotNil(t, inner.Else)
}

func TestSemicolonIsLeftAssociativeAndLooserThanIf(t *testing.T) {
	// (if a then 1); 2
	p := newParser(t,
		tk(token.If), tid("a"), tk(token.Then), tint(1),
		tk(token.Semicolon), tint(2),
	)
	e, err := p.expr()
	require.NoError(t, err)
	seq, ok := e.(*ast.Binop)
	require.True(t, ok)
	require.Equal(t, ast.BinopSemicolon, seq.Op)
	_, ok = seq.Lhs.(*ast.If)
	require.True(t, ok)
}

func TestLetInRightAssociative(t *testing.T) {
	// let x = 1 in let y = 2 in x
	p := newParser(t,
		tk(token.Let), tid("x"), tk(token.Eq), tint(1), tk(token.In),
		tk(token.Let), tid("y"), tk(token.Eq), tint(2), tk(token.In),
		tid("x"),
	)
	e, err := p.expr()
	require.NoError(t, err)
	outer, ok := e.(*ast.LetIn)
	require.True(t, ok)
	require.Equal(t, "x", outer.LetDef.Defs[0].ID)
	inner, ok := outer.Expr.(*ast.LetIn)
	require.True(t, ok)
	require.Equal(t, "y", inner.LetDef.Defs[0].ID)
}

func TestForLoopAscendingAndDescending(t *testing.T) {
	// for i = 1 to 10 do x done
	p := newParser(t,
		tk(token.For), tid("i"), tk(token.Eq), tint(1), tk(token.To), tint(10),
		tk(token.Do), tid("x"), tk(token.Done),
	)
	e, err := p.expr()
	require.NoError(t, err)
	f, ok := e.(*ast.For)
	require.True(t, ok)
	require.True(t, f.Ascending)

	// for i = 10 downto 1 do x done
	p2 := newParser(t,
		tk(token.For), tid("i"), tk(token.Eq), tint(10), tk(token.Downto), tint(1),
		tk(token.Do), tid("x"), tk(token.Done),
	)
	e2, err := p2.expr()
	require.NoError(t, err)
	f2, ok := e2.(*ast.For)
	require.True(t, ok)
	require.False(t, f2.Ascending)
}

func TestMatchWithConstructorPatterns(t *testing.T) {
	// match e with Circle(r) -> r | Nothing -> 0
	p := newParser(t,
		tk(token.Match), tid("e"), tk(token.With),
		tup("Circle"), tk(token.LParen), tid("r"), tk(token.RParen), tk(token.Arrow), tid("r"),
		tk(token.Bar),
		tup("Nothing"), tk(token.Arrow), tint(0),
	)
	e, err := p.expr()
	require.NoError(t, err)
	m, ok := e.(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Clauses, 2)
	pat0, ok := m.Clauses[0].Pattern.(*ast.IdUpperPattern)
	require.True(t, ok)
	require.Equal(t, "Circle", pat0.ID)
	require.Len(t, pat0.Args, 1)
	pat1, ok := m.Clauses[1].Pattern.(*ast.IdUpperPattern)
	require.True(t, ok)
	require.Empty(t, pat1.Args)
}

func TestDimWithExplicitDimension(t *testing.T) {
	// dim 2 a
	p := newParser(t, tk(token.Dim), tint(2), tid("a"))
	e, err := p.expr()
	require.NoError(t, err)
	d, ok := e.(*ast.Dim)
	require.True(t, ok)
	require.Equal(t, "a", d.ID)
	require.Equal(t, 2, d.Dim)
}

func TestDimDefaultsToFirstDimension(t *testing.T) {
	p := newParser(t, tk(token.Dim), tid("a"))
	e, err := p.expr()
	require.NoError(t, err)
	d, ok := e.(*ast.Dim)
	require.True(t, ok)
	require.Equal(t, 1, d.Dim)
}

func TestNewAllocatesRef(t *testing.T) {
	p := newParser(t, tk(token.New), tk(token.Int))
	e, err := p.expr()
	require.NoError(t, err)
	n, ok := e.(*ast.New)
	require.True(t, ok)
	_, ok = n.Type.(*ast.NamedTypeExpr)
	require.True(t, ok)
}

func TestTupleExpressionAndUnit(t *testing.T) {
	p := newParser(t, tk(token.LParen), tint(1), tk(token.Comma), tint(2), tk(token.RParen))
	e, err := p.expr()
	require.NoError(t, err)
	tuple, ok := e.(*ast.Tuple)
	require.True(t, ok)
	require.Len(t, tuple.Elems, 2)

	p2 := newParser(t, tk(token.LParen), tk(token.RParen))
	e2, err := p2.expr()
	require.NoError(t, err)
	_, ok = e2.(*ast.UnitLiteral)
	require.True(t, ok)
}

func TestArrowTypeIsRightAssociative(t *testing.T) {
	// int -> int -> bool
	p := newParser(t, tk(token.Int), tk(token.Arrow), tk(token.Int), tk(token.Arrow), tk(token.Bool))
	ty, err := p.typeExpr()
	require.NoError(t, err)
	outer, ok := ty.(*ast.FuncTypeExpr)
	require.True(t, ok)
	_, ok = outer.Lhs.(*ast.NamedTypeExpr)
	require.True(t, ok)
	inner, ok := outer.Rhs.(*ast.FuncTypeExpr)
	require.True(t, ok)
	_, ok = inner.Lhs.(*ast.NamedTypeExpr)
	require.True(t, ok)
}

func TestArrayTypeWithExplicitDimensions(t *testing.T) {
	// array[*, *] of int
	p := newParser(t,
		tk(token.Array), tk(token.LBracket), tk(token.Star), tk(token.Comma), tk(token.Star), tk(token.RBracket),
		tk(token.Of), tk(token.Int),
	)
	ty, err := p.typeAtom()
	require.NoError(t, err)
	at, ok := ty.(*ast.ArrayTypeExpr)
	require.True(t, ok)
	require.Equal(t, 2, at.Dim)
}

func TestUnexpectedTokenIsAnError(t *testing.T) {
	p := newParser(t, tk(token.Eq))
	_, err := p.expr()
	require.Error(t, err)
}

func TestMissingClosingParenIsAnError(t *testing.T) {
	p := newParser(t, tk(token.LParen), tint(1))
	_, err := p.expr()
	require.Error(t, err)
}
