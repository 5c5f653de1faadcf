// Package sema implements the semantic analyzer: the Hindley-Milner
// flavored type inferencer that is the core of this front-end (spec
// §4). It walks a parsed ast.Program once, builds the scope stack,
// the node-to-type map and the node-to-instantiations map, and drives
// unification through per-definition inference groups.
package sema

import (
	"fmt"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/errors"
	"github.com/llamalang/llamac/internal/token"
	"github.com/llamalang/llamac/internal/types"
)

// Result is everything Analyze produces: the type registry and
// unifier (needed to resolve types after the fact), and the two
// node-keyed side tables from spec §3.
type Result struct {
	Reg            *types.Registry
	Uni            *types.Unifier
	NodeTypes      map[ast.Node]types.Type
	Instantiations map[ast.Node][]types.Type
}

// ResolvedType returns node's fully-resolved type, walking the
// unification table all the way down (spec §4.9).
func (r *Result) ResolvedType(node ast.Node) (types.Type, bool) {
	ty, ok := r.NodeTypes[node]
	if !ok {
		return nil, false
	}
	return r.Uni.DeepResolve(ty), true
}

// IsGeneric reports whether node is a generalized (scheme-holding)
// definition.
func (r *Result) IsGeneric(node ast.Node) bool {
	_, ok := r.Instantiations[node]
	return ok
}

// analyzer carries the mutable state of one analysis run. Per spec
// §5 it is single-threaded and owned exclusively by the run that
// created it.
type analyzer struct {
	reg   *types.Registry
	uni   *types.Unifier
	scope *scopeManager

	nodeType       map[ast.Node]types.Type
	instantiations map[ast.Node][]types.Type
}

func newAnalyzer() *analyzer {
	return &analyzer{
		reg:            types.NewRegistry(),
		uni:            types.NewUnifier(),
		scope:          newScopeManager(),
		nodeType:       map[ast.Node]types.Type{},
		instantiations: map[ast.Node][]types.Type{},
	}
}

// Analyze type-checks an entire program and returns the resulting side
// tables, or the first semantic error encountered (analysis stops at
// the first failure; spec §4.9).
func Analyze(prog *ast.Program) (*Result, error) {
	a := newAnalyzer()
	for _, d := range prog.Definitions {
		switch def := d.(type) {
		case *ast.LetDef:
			if err := a.semLetDef(def); err != nil {
				return nil, err
			}
		case *ast.TypeDef:
			if err := a.semTypeDef(def); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("sema: unhandled definition %T", d)
		}
	}
	return &Result{
		Reg:            a.reg,
		Uni:            a.uni,
		NodeTypes:      a.nodeType,
		Instantiations: a.instantiations,
	}, nil
}

// markGeneric records node as a scheme-holding definition. An empty
// instantiations entry is itself the "is generic" marker, matching
// the source implementation's DataMap presence check.
func (a *analyzer) markGeneric(node ast.Node) {
	if _, ok := a.instantiations[node]; !ok {
		a.instantiations[node] = []types.Type{}
	}
}

// getTypeOrInstantiate returns node's stored type directly if it is
// not generic, or a fresh independent instantiation if it is (spec
// §4.7). Each call that instantiates appends the fresh copy to node's
// instantiation list.
func (a *analyzer) getTypeOrInstantiate(node ast.Node) (types.Type, error) {
	ty, ok := a.nodeType[node]
	if !ok {
		return nil, fmt.Errorf("sema: internal error: %T has no recorded type", node)
	}
	insts, isGeneric := a.instantiations[node]
	if !isGeneric {
		return ty, nil
	}
	fresh := a.instantiate(ty, map[uint32]*types.Unknown{})
	a.instantiations[node] = append(insts, fresh)
	return fresh, nil
}

// instantiate produces a structurally independent copy of ty, mapping
// every distinct Unknown it contains to a fresh Unknown with the same
// constraint set. memo ensures two occurrences of the same scheme
// variable within one instantiation map to the same fresh variable
// (shared identity preserved within the instance, independent across
// instances).
func (a *analyzer) instantiate(ty types.Type, memo map[uint32]*types.Unknown) types.Type {
	ty = a.uni.ResolveType(ty)
	switch t := ty.(type) {
	case *types.Unknown:
		if fresh, ok := memo[t.ID]; ok {
			return fresh
		}
		fresh := a.reg.NewUnknown(copyConstraints(t.Constraints))
		memo[t.ID] = fresh
		return fresh
	case *types.Func:
		return a.reg.NewFunc(a.instantiate(t.Lhs, memo), a.instantiate(t.Rhs, memo))
	case *types.Ref:
		return a.reg.NewRef(a.instantiate(t.Inner, memo))
	case *types.Array:
		return &types.Array{
			Inner: a.instantiate(t.Inner, memo),
			Dim:   &types.DimCell{K: t.Dim.K, N: t.Dim.N},
		}
	case *types.Tuple:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = a.instantiate(e, memo)
		}
		return a.reg.NewTuple(elems)
	default:
		return ty
	}
}

func copyConstraints(c *types.ConstraintSet) *types.ConstraintSet {
	cs := types.NewConstraintSet()
	if c == nil {
		return cs
	}
	for k := range c.Allow {
		cs.Allow[k] = true
	}
	for k := range c.Disallow {
		cs.Disallow[k] = true
	}
	return cs
}

// decomposeArrow walks ty's resolved Func chain, collecting argument
// types until it reaches a non-Func representative (the return type).
// A ty that is never a Func returns a nil argument list and ty itself
// as the return type.
func (a *analyzer) decomposeArrow(ty types.Type) ([]types.Type, types.Type) {
	resolved := a.uni.ResolveType(ty)
	var args []types.Type
	for {
		f, ok := resolved.(*types.Func)
		if !ok {
			return args, resolved
		}
		args = append(args, f.Lhs)
		resolved = a.uni.ResolveType(f.Rhs)
	}
}

// lookup resolves id against the scope stack, reporting a structured
// lookup error blamed on span if it is not bound.
func (a *analyzer) lookup(id string, span token.Span) (ast.Node, error) {
	node, ok := a.scope.lookup(id)
	if !ok {
		return nil, errors.NewLookupError(span, id)
	}
	return node, nil
}
