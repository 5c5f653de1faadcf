package parser

import (
	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/token"
)

// typeExpr parses a full type expression: a ladder of one typeAtom,
// optionally followed by a right-associative arrow chain.
func (p *Parser) typeExpr() (ast.TypeExpr, error) {
	lhs, err := p.typeAtom()
	if err != nil {
		return nil, err
	}
	if _, ok, err := p.accept(token.Arrow); err != nil {
		return nil, err
	} else if ok {
		rhs, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		return &ast.FuncTypeExpr{Lhs: lhs, Rhs: rhs, Sp: spanBetween(lhs.Span(), rhs.Span())}, nil
	}
	return lhs, nil
}

// typeAtom parses everything tighter than the arrow: primitives,
// parenthesized/tuple types, array types, and nominal (Custom)
// references, followed by zero or more postfix `ref`.
func (p *Parser) typeAtom() (ast.TypeExpr, error) {
	var t ast.TypeExpr

	switch p.tok.Kind {
	case token.Unit, token.Int, token.Char, token.Bool, token.Float:
		tok := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		t = &ast.NamedTypeExpr{Name: tok.Kind.String(), Sp: tok.Span}

	case token.LParen:
		lp := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		elems, err := matchAtLeastOne(p, (*Parser).typeExpr, token.Comma)
		if err != nil {
			return nil, err
		}
		rp, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		sp := spanBetween(lp.Span, rp.Span)
		if len(elems) == 1 {
			t = elems[0]
		} else {
			t = &ast.TupleTypeExpr{Elems: elems, Sp: sp}
		}

	case token.Array:
		start := p.tok.Span
		if err := p.fill(); err != nil {
			return nil, err
		}
		dim := 1
		if _, ok, err := p.accept(token.LBracket); err != nil {
			return nil, err
		} else if ok {
			if _, err := p.expect(token.Star); err != nil {
				return nil, err
			}
			dim = 1
			for {
				if _, ok, err := p.accept(token.Comma); err != nil {
					return nil, err
				} else if !ok {
					break
				}
				if _, err := p.expect(token.Star); err != nil {
					return nil, err
				}
				dim++
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.Of); err != nil {
			return nil, err
		}
		inner, err := p.typeAtom()
		if err != nil {
			return nil, err
		}
		t = &ast.ArrayTypeExpr{Inner: inner, Dim: dim, Sp: spanBetween(start, inner.Span())}

	case token.IdLower:
		tok := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		t = &ast.NamedTypeExpr{Name: tok.AsString(), Sp: tok.Span}

	default:
		return nil, p.unexpected()
	}

	for {
		refTok, ok, err := p.accept(token.Ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t = &ast.RefTypeExpr{Inner: t, Sp: spanBetween(t.Span(), refTok.Span)}
	}
	return t, nil
}
