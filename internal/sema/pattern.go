package sema

import (
	"fmt"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/errors"
	"github.com/llamalang/llamac/internal/types"
)

// semPattern type-checks pat against target, queuing unifications into
// group and binding any identifiers it introduces into the current
// (innermost) scope (spec §4.8).
func (a *analyzer) semPattern(pat ast.Pattern, target types.Type, group *types.InferenceGroup) error {
	switch p := pat.(type) {
	case *ast.IntPattern:
		group.Insert(a.reg.Int(), target, "int pattern", p.Sp)
		a.nodeType[p] = target
		return nil

	case *ast.FloatPattern:
		group.Insert(a.reg.Float(), target, "float pattern", p.Sp)
		a.nodeType[p] = target
		return nil

	case *ast.CharPattern:
		group.Insert(a.reg.Char(), target, "char pattern", p.Sp)
		a.nodeType[p] = target
		return nil

	case *ast.StringPattern:
		group.Insert(a.reg.NewKnownArray(a.reg.Char(), 1), target, "string pattern", p.Sp)
		a.nodeType[p] = target
		return nil

	case *ast.BoolPattern:
		group.Insert(a.reg.Bool(), target, "bool pattern", p.Sp)
		a.nodeType[p] = target
		return nil

	case *ast.IdLowerPattern:
		a.scope.insert(p.ID, p)
		a.nodeType[p] = target
		return nil

	case *ast.IdUpperPattern:
		return a.semIdUpperPattern(p, target, group)

	case *ast.TuplePattern:
		elemTypes := make([]types.Type, len(p.Elems))
		for i := range p.Elems {
			elemTypes[i] = a.reg.NewUnknown(nil)
		}
		for i, sub := range p.Elems {
			if err := a.semPattern(sub, elemTypes[i], group); err != nil {
				return err
			}
		}
		group.Insert(target, a.reg.NewTuple(elemTypes), "tuple pattern", p.Sp)
		a.nodeType[p] = target
		return nil

	default:
		return fmt.Errorf("sema: unhandled pattern kind %T", pat)
	}
}

func (a *analyzer) semIdUpperPattern(p *ast.IdUpperPattern, target types.Type, group *types.InferenceGroup) error {
	node, err := a.lookup(p.ID, p.Sp)
	if err != nil {
		return err
	}
	constrTy, ok := a.nodeType[node]
	if !ok {
		return fmt.Errorf("sema: internal error: constructor %s has no recorded type", p.ID)
	}

	argTypes, retTy := a.decomposeArrow(constrTy)
	switch resolved := a.uni.ResolveType(constrTy).(type) {
	case *types.Func:
		if len(p.Args) != len(argTypes) {
			return errors.NewArityMismatchError(p.Sp, p.ID, len(argTypes), len(p.Args))
		}
		for i, sub := range p.Args {
			if err := a.semPattern(sub, argTypes[i], group); err != nil {
				return err
			}
		}
		group.Insert(target, retTy, "constructor pattern result", p.Sp)
	case *types.Custom:
		if len(p.Args) != 0 {
			return errors.NewArityMismatchError(p.Sp, p.ID, 0, len(p.Args))
		}
		group.Insert(target, resolved, "constructor pattern result", p.Sp)
	default:
		return errors.NewGeneralError(p.Sp, fmt.Sprintf("%s is not a constructor", p.ID))
	}
	a.nodeType[p] = target
	return nil
}
