package parser

import (
	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/token"
)

// pattern parses one match-clause pattern. Tuple patterns require
// parentheses, matching how tuple expressions and tuple types are
// written.
func (p *Parser) pattern() (ast.Pattern, error) {
	switch p.tok.Kind {
	case token.IntLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.IntPattern{Value: t.AsInt(), Sp: t.Span}, nil

	case token.FloatLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.FloatPattern{Value: t.AsFloat(), Sp: t.Span}, nil

	case token.CharLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.CharPattern{Value: t.AsChar(), Sp: t.Span}, nil

	case token.StringLiteral:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.StringPattern{Value: t.AsString(), Sp: t.Span}, nil

	case token.True, token.False:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.BoolPattern{Value: t.Kind == token.True, Sp: t.Span}, nil

	case token.LParen:
		lp := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		elems, err := matchAtLeastOne(p, (*Parser).pattern, token.Comma)
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
		return &ast.TuplePattern{Elems: elems, Sp: sp}, nil

	case token.IdLower:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		return &ast.IdLowerPattern{ID: t.AsString(), Sp: t.Span}, nil

	case token.IdUpper:
		t := p.tok
		if err := p.fill(); err != nil {
			return nil, err
		}
		sp := t.Span
		var args []ast.Pattern
		if _, ok, err := p.accept(token.LParen); err != nil {
			return nil, err
		} else if ok {
			args, err = matchAtLeastOne(p, (*Parser).pattern, token.Comma)
			if err != nil {
				return nil, err
			}
			rp, err := p.expect(token.RParen)
			if err != nil {
				return nil, err
			}
			sp = spanBetween(t.Span, rp.Span)
		}
		return &ast.IdUpperPattern{ID: t.AsString(), Args: args, Sp: sp}, nil

	default:
		return nil, p.unexpected()
	}
}
