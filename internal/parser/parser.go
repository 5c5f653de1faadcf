// Package parser is a recursive-descent parser that turns the
// lexer's token stream into an ast.Program. It is LL(1): every
// production is resolved by the current token alone, so the parser
// keeps only one token of unconsumed lookahead at a time.
package parser

import (
	"fmt"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/errors"
	"github.com/llamalang/llamac/internal/token"
)

// TokenSource is the minimal lexer surface the parser depends on,
// letting tests feed canned token sequences.
type TokenSource interface {
	NextToken() (token.Token, error)
}

// Parser consumes a TokenSource and builds an ast.Program. It halts
// and returns an error at the first malformed construct; there is no
// error recovery, matching the pipeline's no-partial-output contract.
type Parser struct {
	src TokenSource
	tok token.Token // the one token of unconsumed lookahead
}

// New creates a Parser over src and primes its lookahead token.
func New(src TokenSource) (*Parser, error) {
	p := &Parser{src: src}
	if err := p.fill(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) fill() error {
	t, err := p.src.NextToken()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// accept consumes the lookahead token if it has kind, reporting
// whether it matched.
func (p *Parser) accept(kind token.Kind) (token.Token, bool, error) {
	if p.tok.Kind != kind {
		return token.Token{}, false, nil
	}
	t := p.tok
	if err := p.fill(); err != nil {
		return token.Token{}, false, err
	}
	return t, true, nil
}

// expect consumes the lookahead token, requiring it to have kind.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	t, ok, err := p.accept(kind)
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return token.Token{}, p.unexpected(kind)
	}
	return t, nil
}

func (p *Parser) unexpected(expected ...token.Kind) error {
	if len(expected) == 0 {
		return errors.NewParseError(p.tok.Span, fmt.Sprintf("unexpected token %s", p.tok.Kind))
	}
	return errors.NewParseError(p.tok.Span, fmt.Sprintf("unexpected token %s, expected %s", p.tok.Kind, expected[0]))
}

func spanBetween(a, b token.Span) token.Span {
	return token.Span{Start: a.Start, End: b.End}
}

// matchAtLeastOne parses one or more items separated by sep,
// consuming sep between items and stopping as soon as it is absent.
func matchAtLeastOne[T any](p *Parser, matcher func(*Parser) (T, error), sep token.Kind) ([]T, error) {
	var out []T
	for {
		v, err := matcher(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if _, ok, err := p.accept(sep); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	return out, nil
}

// matchUntil parses one or more items with no separator token between
// them, stopping as soon as the lookahead token is one of stop.
func matchUntil[T any](p *Parser, matcher func(*Parser) (T, error), stop ...token.Kind) ([]T, error) {
	var out []T
	for {
		v, err := matcher(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		for _, k := range stop {
			if p.tok.Kind == k {
				return out, nil
			}
		}
	}
}

// Program parses a whole compilation unit: a sequence of let and type
// top-level definitions, terminated by EOF.
func (p *Parser) Program() (*ast.Program, error) {
	var defs []ast.Definition
	for p.tok.Kind != token.EOF {
		switch p.tok.Kind {
		case token.Let:
			ld, err := p.letDef()
			if err != nil {
				return nil, err
			}
			defs = append(defs, ld)
		case token.Type:
			td, err := p.typeDef()
			if err != nil {
				return nil, err
			}
			defs = append(defs, td)
		default:
			return nil, p.unexpected(token.Let, token.Type)
		}
	}
	return &ast.Program{Definitions: defs}, nil
}

func (p *Parser) letDef() (*ast.LetDef, error) {
	start, err := p.expect(token.Let)
	if err != nil {
		return nil, err
	}
	rec := false
	if _, ok, err := p.accept(token.Rec); err != nil {
		return nil, err
	} else if ok {
		rec = true
	}
	defs, err := matchAtLeastOne(p, (*Parser).def, token.And)
	if err != nil {
		return nil, err
	}
	end := defs[len(defs)-1].Span()
	return &ast.LetDef{Rec: rec, Defs: defs, Sp: spanBetween(start.Span, end)}, nil
}

func (p *Parser) typeDef() (*ast.TypeDef, error) {
	start, err := p.expect(token.Type)
	if err != nil {
		return nil, err
	}
	tdefs, err := matchAtLeastOne(p, (*Parser).tdef, token.And)
	if err != nil {
		return nil, err
	}
	end := tdefs[len(tdefs)-1].Span()
	return &ast.TypeDef{TDefs: tdefs, Sp: spanBetween(start.Span, end)}, nil
}

func (p *Parser) tdef() (*ast.TDef, error) {
	id, err := p.expect(token.IdLower)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Eq); err != nil {
		return nil, err
	}
	// a leading bar before the first constructor is permitted
	if _, _, err := p.accept(token.Bar); err != nil {
		return nil, err
	}
	constrs, err := matchAtLeastOne(p, (*Parser).constr, token.Bar)
	if err != nil {
		return nil, err
	}
	end := constrs[len(constrs)-1].Span()
	return &ast.TDef{ID: id.AsString(), Constrs: constrs, Sp: spanBetween(id.Span, end)}, nil
}

func (p *Parser) constr() (*ast.Constr, error) {
	id, err := p.expect(token.IdUpper)
	if err != nil {
		return nil, err
	}
	sp := id.Span
	var types []ast.TypeExpr
	if _, ok, err := p.accept(token.Of); err != nil {
		return nil, err
	} else if ok {
		types, err = matchUntil(p, (*Parser).typeAtom, token.Bar, token.And, token.EOF)
		if err != nil {
			return nil, err
		}
		sp = spanBetween(id.Span, types[len(types)-1].Span())
	}
	return &ast.Constr{ID: id.AsString(), Types: types, Sp: sp}, nil
}

// def parses one binding of a letdef group: a mutable variable/array
// declaration, or a const/function value binding.
func (p *Parser) def() (*ast.Def, error) {
	if mutTok, ok, err := p.accept(token.Mutable); err != nil {
		return nil, err
	} else if ok {
		return p.mutableDef(mutTok.Span)
	}

	id, err := p.expect(token.IdLower)
	if err != nil {
		return nil, err
	}
	var pars []*ast.Par
	for p.tok.Kind == token.IdLower || p.tok.Kind == token.LParen {
		par, err := p.par()
		if err != nil {
			return nil, err
		}
		pars = append(pars, par)
	}
	var annotation ast.TypeExpr
	if _, ok, err := p.accept(token.Colon); err != nil {
		return nil, err
	} else if ok {
		annotation, err = p.typeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Eq); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	var kind ast.DefKind
	if len(pars) == 0 {
		kind = &ast.ConstDef{Expr: body}
	} else {
		kind = &ast.FunctionDef{Pars: pars, Expr: body}
	}
	return &ast.Def{ID: id.AsString(), Annotation: annotation, Kind: kind, Sp: spanBetween(id.Span, body.Span())}, nil
}

func (p *Parser) mutableDef(start token.Span) (*ast.Def, error) {
	id, err := p.expect(token.IdLower)
	if err != nil {
		return nil, err
	}
	end := id.Span
	var dims []ast.Expr
	if _, ok, err := p.accept(token.LBracket); err != nil {
		return nil, err
	} else if ok {
		dims, err = matchAtLeastOne(p, (*Parser).expr, token.Comma)
		if err != nil {
			return nil, err
		}
		rbrack, err := p.expect(token.RBracket)
		if err != nil {
			return nil, err
		}
		end = rbrack.Span
	}
	var annotation ast.TypeExpr
	if _, ok, err := p.accept(token.Colon); err != nil {
		return nil, err
	} else if ok {
		annotation, err = p.typeExpr()
		if err != nil {
			return nil, err
		}
		end = annotation.Span()
	}
	var kind ast.DefKind
	if dims != nil {
		kind = &ast.ArrayDef{Dims: dims}
	} else {
		kind = &ast.VariableDef{}
	}
	return &ast.Def{ID: id.AsString(), Annotation: annotation, Kind: kind, Sp: spanBetween(start, end)}, nil
}

func (p *Parser) par() (*ast.Par, error) {
	if lp, ok, err := p.accept(token.LParen); err != nil {
		return nil, err
	} else if ok {
		id, err := p.expect(token.IdLower)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		t, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		rp, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		return &ast.Par{ID: id.AsString(), Annotation: t, Sp: spanBetween(lp.Span, rp.Span)}, nil
	}
	id, err := p.expect(token.IdLower)
	if err != nil {
		return nil, err
	}
	return &ast.Par{ID: id.AsString(), Sp: id.Span}, nil
}
