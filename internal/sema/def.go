package sema

import (
	"fmt"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/errors"
	"github.com/llamalang/llamac/internal/types"
)

// semLetDef types one `let`/`let rec` group (spec §4.5).
func (a *analyzer) semLetDef(ld *ast.LetDef) error {
	if ld.Rec {
		// Pre-bind every sibling (and self) to a fresh Unknown so
		// bodies can reference each other before any of them is typed.
		for _, def := range ld.Defs {
			a.scope.insert(def.ID, def)
			a.nodeType[def] = a.reg.NewUnknown(nil)
		}
	}

	for _, def := range ld.Defs {
		if err := a.semDef(def, ld.Rec); err != nil {
			return err
		}
	}

	if ld.Rec {
		// Recursive bindings are never generic (value-restricted in
		// effect); they must instead be fully ground once solved.
		for _, def := range ld.Defs {
			if !types.IsFullyKnown(a.uni.DeepResolve(a.nodeType[def])) {
				return errors.NewRecursivePolymorphismError(def.Sp, def.ID)
			}
		}
	} else {
		// Non-recursive siblings become visible to each other only
		// after the whole group has been typed.
		for _, def := range ld.Defs {
			a.scope.insert(def.ID, def)
		}
	}
	return nil
}

// semDef types one binding within a letdef group. recGroup suppresses
// generalization: members of a `let rec` group are never marked
// generic, regardless of groundness (that is semLetDef's job, after
// the whole group has solved).
func (a *analyzer) semDef(def *ast.Def, recGroup bool) error {
	group := types.NewInferenceGroup()

	var annotationType types.Type
	if def.Annotation != nil {
		var err error
		annotationType, err = a.reg.LiftAnnotation(def.Annotation)
		if err != nil {
			return err
		}
	}

	var nodeTy types.Type
	switch k := def.Kind.(type) {
	case *ast.ArrayDef:
		if err := a.semArrayDims(group, k.Dims); err != nil {
			return err
		}
		if annotationType != nil {
			nodeTy = annotationType
		} else {
			inner := a.reg.NewUnknown(nil)
			nodeTy = a.reg.NewRef(a.reg.NewLowerBoundedArray(inner, len(k.Dims)))
		}

	case *ast.ConstDef:
		exprTy, err := a.semExpr(group, k.Expr)
		if err != nil {
			return err
		}
		if annotationType != nil {
			group.Insert(annotationType, exprTy, "expression type and annotation must match", def.Sp)
			nodeTy = annotationType
		} else {
			nodeTy = exprTy
		}

	case *ast.FunctionDef:
		funcTy, err := a.semFuncDef(group, k.Pars, k.Expr)
		if err != nil {
			return err
		}
		if annotationType != nil {
			bodyTy := a.nodeType[k.Expr]
			group.Insert(annotationType, bodyTy, "function expression type and annotation must match", def.Sp)
		}
		nodeTy = funcTy

	case *ast.VariableDef:
		if annotationType != nil {
			nodeTy = annotationType
		} else {
			nodeTy = a.reg.NewUnknown(nil)
		}

	default:
		return fmt.Errorf("sema: unhandled def kind %T", def.Kind)
	}

	// If def already has a type (the rec pre-binding), queue a
	// unification instead of overwriting it; otherwise this is the
	// first (and only) assignment.
	if existing, ok := a.nodeType[def]; ok {
		group.Insert(existing, nodeTy, "recursive definition's type", def.Sp)
	} else {
		a.nodeType[def] = nodeTy
	}

	if err := a.uni.SolveGroup(group); err != nil {
		return err
	}

	if !recGroup {
		_, isVar := def.Kind.(*ast.VariableDef)
		_, isArr := def.Kind.(*ast.ArrayDef)
		if !isVar && !isArr {
			if !types.IsFullyKnown(a.uni.DeepResolve(a.nodeType[def])) {
				a.markGeneric(def)
			}
		}
	}
	return nil
}

func (a *analyzer) semArrayDims(group *types.InferenceGroup, dims []ast.Expr) error {
	for _, d := range dims {
		dt, err := a.semExpr(group, d)
		if err != nil {
			return err
		}
		group.Insert(a.reg.Int(), dt, "array definition dimensions must be integers", d.Span())
	}
	return nil
}

func (a *analyzer) semFuncDef(group *types.InferenceGroup, pars []*ast.Par, expr ast.Expr) (types.Type, error) {
	a.scope.push()
	defer a.scope.pop()

	parTypes := make([]types.Type, len(pars))
	for i, par := range pars {
		var pt types.Type
		if par.Annotation != nil {
			var err error
			pt, err = a.reg.LiftAnnotation(par.Annotation)
			if err != nil {
				return nil, err
			}
		} else {
			pt = a.reg.NewUnknown(nil)
		}
		a.scope.insert(par.ID, par)
		a.nodeType[par] = pt
		parTypes[i] = pt
	}

	exprTy, err := a.semExpr(group, expr)
	if err != nil {
		return nil, err
	}
	return a.reg.NewMultiArgFunc(parTypes, exprTy), nil
}

// semTypeDef types one `type` group: every TDef introduces a Custom
// nominal type, and every Constr inside it a (possibly curried
// arrow-typed) constructor binding (spec §4.5, "type definition").
func (a *analyzer) semTypeDef(td *ast.TypeDef) error {
	for _, tdef := range td.TDefs {
		customTy := a.reg.NewCustom(tdef.ID)
		a.scope.insert(tdef.ID, tdef)
		a.nodeType[tdef] = customTy

		for _, constr := range tdef.Constrs {
			argTypes := make([]types.Type, len(constr.Types))
			for i, te := range constr.Types {
				at, err := a.reg.LiftAnnotation(te)
				if err != nil {
					return err
				}
				argTypes[i] = at
			}
			var constrTy types.Type
			if len(argTypes) == 0 {
				constrTy = customTy
			} else {
				constrTy = a.reg.NewMultiArgFunc(argTypes, customTy)
			}
			a.scope.insert(constr.ID, constr)
			a.nodeType[constr] = constrTy
		}
	}
	return nil
}
