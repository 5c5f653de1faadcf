package parser

import (
	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/token"
)

// parseAtom is the tightest-binding level: literals, parenthesized
// and tuple expressions, identifier/constructor references (which
// absorb a trailing call or array-access greedily), and the
// keyword-delimited special forms (new, dim, while, for, match).
func (p *Parser) parseAtom() (ast.Expr, error) {
	switch p.tok.Kind {
	case token.IntLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.IntLiteral{Value: t.AsInt(), Sp: t.Span}, nil

	case token.FloatLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.FloatLiteral{Value: t.AsFloat(), Sp: t.Span}, nil

	case token.CharLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.CharLiteral{Value: t.AsChar(), Sp: t.Span}, nil

	case token.StringLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Value: t.AsString(), Sp: t.Span}, nil

	case token.True, token.False:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.BoolLiteral{Value: t.Kind == token.True, Sp: t.Span}, nil

	case token.LParen:
		return p.parseParenExpr()

	case token.Begin:
		if err := p.fill(); err != nil {
			return nil, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.End); err != nil {
			return nil, err
		}
		return e, nil

	case token.IdLower:
		return p.parseIdentOrCall()

	case token.IdUpper:
		return p.parseConstrCall()

	case token.Dim:
		return p.parseDim()

	case token.New:
		start := p.tok.Span
		if err := p.fill(); err != nil {
			return nil, err
		}
		t, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		return &ast.New{Type: t, Sp: spanBetween(start, t.Span())}, nil

	case token.While:
		return p.parseWhile()

	case token.For:
		return p.parseFor()

	case token.Match:
		return p.parseMatch()

	default:
		return nil, p.unexpected()
	}
}

// parseParenExpr handles `()` (unit), a single parenthesized
// expression, and tuples `(e1, e2, ...)`.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	lp := p.tok
	if err := p.fill(); err != nil {
		return nil, err
	}
	if rp, ok, err := p.accept(token.RParen); err != nil {
		return nil, err
	} else if ok {
		return &ast.UnitLiteral{Sp: spanBetween(lp.Span, rp.Span)}, nil
	}
	elems, err := matchAtLeastOne(p, (*Parser).expr, token.Comma)
	if err != nil {
		return nil, err
	}
	rp, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	sp := spanBetween(lp.Span, rp.Span)
	if len(elems) == 1 {
		return elems[0], nil
	}
	return &ast.Tuple{Elems: elems, Sp: sp}, nil
}

// parseCallArgs parses a `(arg1, ..., argn)` list, possibly empty,
// whose opening paren has already been consumed by the caller via
// accept.
func (p *Parser) parseCallArgs() ([]ast.Expr, token.Span, error) {
	if rp, ok, err := p.accept(token.RParen); err != nil {
		return nil, token.Span{}, err
	} else if ok {
		return nil, rp.Span, nil
	}
	args, err := matchAtLeastOne(p, (*Parser).expr, token.Comma)
	if err != nil {
		return nil, token.Span{}, err
	}
	rp, err := p.expect(token.RParen)
	if err != nil {
		return nil, token.Span{}, err
	}
	return args, rp.Span, nil
}

// parseIdentOrCall parses a lowercase-identifier atom: a bare
// reference (a zero-arg Call, there is no separate identifier node),
// a call `id(args)`, or an array access `id[indexes]`.
func (p *Parser) parseIdentOrCall() (ast.Expr, error) {
	id := p.tok
	if err := p.fill(); err != nil {
		return nil, err
	}
	if _, ok, err := p.accept(token.LParen); err != nil {
		return nil, err
	} else if ok {
		args, end, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Call{ID: id.AsString(), Args: args, Sp: spanBetween(id.Span, end)}, nil
	}
	if _, ok, err := p.accept(token.LBracket); err != nil {
		return nil, err
	} else if ok {
		indexes, err := matchAtLeastOne(p, (*Parser).expr, token.Comma)
		if err != nil {
			return nil, err
		}
		rb, err := p.expect(token.RBracket)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayAccess{ID: id.AsString(), Indexes: indexes, Sp: spanBetween(id.Span, rb.Span)}, nil
	}
	return &ast.Call{ID: id.AsString(), Sp: id.Span}, nil
}

// parseConstrCall parses an uppercase-identifier atom: a nullary
// constructor reference or a constructor application.
func (p *Parser) parseConstrCall() (ast.Expr, error) {
	id := p.tok
	if err := p.fill(); err != nil {
		return nil, err
	}
	if _, ok, err := p.accept(token.LParen); err != nil {
		return nil, err
	} else if ok {
		args, end, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.ConstrCall{ID: id.AsString(), Args: args, Sp: spanBetween(id.Span, end)}, nil
	}
	return &ast.ConstrCall{ID: id.AsString(), Sp: id.Span}, nil
}

// parseDim parses `dim id` (dimension 1) or `dim n id` (dimension n).
func (p *Parser) parseDim() (ast.Expr, error) {
	start := p.tok.Span
	if err := p.fill(); err != nil {
		return nil, err
	}
	n := 1
	if p.tok.Kind == token.IntLiteral {
		n = int(p.tok.AsInt())
		if err := p.fill(); err != nil {
			return nil, err
		}
	}
	id, err := p.expect(token.IdLower)
	if err != nil {
		return nil, err
	}
	return &ast.Dim{ID: id.AsString(), Dim: n, Sp: spanBetween(start, id.Span)}, nil
}

func (p *Parser) parseWhile() (ast.Expr, error) {
	start := p.tok.Span
	if err := p.fill(); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.Done)
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Sp: spanBetween(start, end.Span)}, nil
}

func (p *Parser) parseFor() (ast.Expr, error) {
	start := p.tok.Span
	if err := p.fill(); err != nil {
		return nil, err
	}
	id, err := p.expect(token.IdLower)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Eq); err != nil {
		return nil, err
	}
	from, err := p.expr()
	if err != nil {
		return nil, err
	}
	ascending := true
	if _, ok, err := p.accept(token.To); err != nil {
		return nil, err
	} else if !ok {
		if _, err := p.expect(token.Downto); err != nil {
			return nil, err
		}
		ascending = false
	}
	to, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.Done)
	if err != nil {
		return nil, err
	}
	return &ast.For{ID: id.AsString(), From: from, Ascending: ascending, To: to, Body: body, Sp: spanBetween(start, end.Span)}, nil
}

func (p *Parser) parseMatch() (ast.Expr, error) {
	start := p.tok.Span
	if err := p.fill(); err != nil {
		return nil, err
	}
	subject, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.With); err != nil {
		return nil, err
	}
	if _, _, err := p.accept(token.Bar); err != nil {
		return nil, err
	}
	clauses, err := matchAtLeastOne(p, (*Parser).clause, token.Bar)
	if err != nil {
		return nil, err
	}
	return &ast.Match{Subject: subject, Clauses: clauses, Sp: spanBetween(start, clauses[len(clauses)-1].Span())}, nil
}

func (p *Parser) clause() (*ast.Clause, error) {
	pat, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Arrow); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.Clause{Pattern: pat, Expr: body, Sp: spanBetween(pat.Span(), body.Span())}, nil
}
