package parser

import (
	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/token"
)

// expr is the parser's entry point for expressions: the full
// precedence ladder of §4.6/§6, from `let...in` (lowest) down through
// calls and array access (highest).
func (p *Parser) expr() (ast.Expr, error) {
	return p.parseLetIn()
}

// parseLetIn handles `let[ rec] defs in expr`, right-associative so
// `let x = 1 in let y = 2 in x` nests as expected.
func (p *Parser) parseLetIn() (ast.Expr, error) {
	if p.tok.Kind == token.Let {
		start := p.tok.Span
		ld, err := p.letDef()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.In); err != nil {
			return nil, err
		}
		body, err := p.parseLetIn()
		if err != nil {
			return nil, err
		}
		return &ast.LetIn{LetDef: ld, Expr: body, Sp: spanBetween(start, body.Span())}, nil
	}
	return p.parseSemi()
}

// parseSemi handles `;` (sequencing), left-associative.
func (p *Parser) parseSemi() (ast.Expr, error) {
	lhs, err := p.parseIf()
	if err != nil {
		return nil, err
	}
	for {
		_, ok, err := p.accept(token.Semicolon)
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binop{Lhs: lhs, Op: ast.BinopSemicolon, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}
	}
}

// parseIf handles `if cond then e1 [else e2]`, right-associative so
// an `else` binds to the nearest unmatched `if`.
func (p *Parser) parseIf() (ast.Expr, error) {
	if p.tok.Kind != token.If {
		return p.parseAssign()
	}
	start := p.tok.Span
	if err := p.fill(); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Then); err != nil {
		return nil, err
	}
	thenE, err := p.parseIf()
	if err != nil {
		return nil, err
	}
	end := thenE.Span()
	var elseE ast.Expr
	if _, ok, err := p.accept(token.Else); err != nil {
		return nil, err
	} else if ok {
		elseE, err = p.parseIf()
		if err != nil {
			return nil, err
		}
		end = elseE.Span()
	}
	return &ast.If{Cond: cond, Then: thenE, Else: elseE, Sp: spanBetween(start, end)}, nil
}

// parseAssign handles `:=`, right-associative.
func (p *Parser) parseAssign() (ast.Expr, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, ok, err := p.accept(token.ColonEq); err != nil {
		return nil, err
	} else if ok {
		rhs, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.Binop{Lhs: lhs, Op: ast.BinopAssign, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}, nil
	}
	return lhs, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		_, ok, err := p.accept(token.DblBar)
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binop{Lhs: lhs, Op: ast.BinopOr, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}
	}
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		_, ok, err := p.accept(token.DblAmp)
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binop{Lhs: lhs, Op: ast.BinopAnd, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}
	}
}

func comparisonOp(k token.Kind) (ast.BinopKind, bool) {
	switch k {
	case token.Eq:
		return ast.BinopStrEq, true
	case token.LtGt:
		return ast.BinopStrNotEq, true
	case token.DblEq:
		return ast.BinopNatEq, true
	case token.ExclEq:
		return ast.BinopNatNotEq, true
	case token.Lt:
		return ast.BinopLt, true
	case token.Gt:
		return ast.BinopGt, true
	case token.LEq:
		return ast.BinopLEq, true
	case token.GEq:
		return ast.BinopGEq, true
	default:
		return 0, false
	}
}

// parseComparison handles the eight (non-transitive, value and
// structural) equality and ordering operators. They are
// non-associative: at most one appears per expression at this level.
func (p *Parser) parseComparison() (ast.Expr, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOp(p.tok.Kind)
	if !ok {
		return lhs, nil
	}
	if err := p.fill(); err != nil {
		return nil, err
	}
	rhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &ast.Binop{Lhs: lhs, Op: op, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinopKind
		switch p.tok.Kind {
		case token.Plus:
			op = ast.BinopAdd
		case token.Minus:
			op = ast.BinopSub
		default:
			return lhs, nil
		}
		if err := p.fill(); err != nil {
			return nil, err
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binop{Lhs: lhs, Op: op, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	lhs, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinopKind
		switch p.tok.Kind {
		case token.Star:
			op = ast.BinopMul
		case token.Slash:
			op = ast.BinopDiv
		case token.Mod:
			op = ast.BinopMod
		default:
			return lhs, nil
		}
		if err := p.fill(); err != nil {
			return nil, err
		}
		rhs, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binop{Lhs: lhs, Op: op, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}
	}
}

// parsePow handles `**`, right-associative.
func (p *Parser) parsePow() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if _, ok, err := p.accept(token.DblStar); err != nil {
		return nil, err
	} else if ok {
		rhs, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		return &ast.Binop{Lhs: lhs, Op: ast.BinopPow, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}, nil
	}
	return lhs, nil
}

func unaryOp(k token.Kind) (ast.UnopKind, bool) {
	switch k {
	case token.Plus:
		return ast.UnopPlus, true
	case token.Minus:
		return ast.UnopMinus, true
	case token.Exclam:
		return ast.UnopDeref, true
	case token.Not:
		return ast.UnopNot, true
	case token.Delete:
		return ast.UnopDelete, true
	default:
		return 0, false
	}
}

// parseUnary handles the prefix operators. Calls and array access
// bind tighter than these, so `-f(x)` is Unop(Minus, Call(f, [x])).
func (p *Parser) parseUnary() (ast.Expr, error) {
	if op, ok := unaryOp(p.tok.Kind); ok {
		start := p.tok.Span
		if err := p.fill(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unop{Op: op, Operand: operand, Sp: spanBetween(start, operand.Span())}, nil
	}
	return p.parseAtom()
}
