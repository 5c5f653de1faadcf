package sema

import (
	"fmt"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/types"
)

// semExpr types expr within group, recording its type in the node→type
// map and returning it (spec §4.6).
func (a *analyzer) semExpr(group *types.InferenceGroup, expr ast.Expr) (types.Type, error) {
	ty, err := a.semExprKind(group, expr)
	if err != nil {
		return nil, err
	}
	a.nodeType[expr] = ty
	return ty, nil
}

func (a *analyzer) semExprKind(group *types.InferenceGroup, expr ast.Expr) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.UnitLiteral:
		return a.reg.Unit(), nil
	case *ast.IntLiteral:
		return a.reg.Int(), nil
	case *ast.FloatLiteral:
		return a.reg.Float(), nil
	case *ast.CharLiteral:
		return a.reg.Char(), nil
	case *ast.BoolLiteral:
		return a.reg.Bool(), nil
	case *ast.StringLiteral:
		return a.reg.NewKnownArray(a.reg.Char(), 1), nil

	case *ast.Tuple:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, err := a.semExpr(group, el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return a.reg.NewTuple(elems), nil

	case *ast.Unop:
		return a.semUnop(group, e)

	case *ast.Binop:
		return a.semBinop(group, e)

	case *ast.Call:
		return a.semCall(group, e)

	case *ast.ConstrCall:
		return a.semConstrCall(group, e)

	case *ast.ArrayAccess:
		return a.semArrayAccess(group, e)

	case *ast.Dim:
		return a.semDim(group, e)

	case *ast.New:
		inner, err := a.reg.LiftAnnotation(e.Type)
		if err != nil {
			return nil, err
		}
		return a.reg.NewRef(inner), nil

	case *ast.LetIn:
		a.scope.push()
		defer a.scope.pop()
		if err := a.semLetDef(e.LetDef); err != nil {
			return nil, err
		}
		return a.semExpr(group, e.Expr)

	case *ast.If:
		condTy, err := a.semExpr(group, e.Cond)
		if err != nil {
			return nil, err
		}
		group.Insert(a.reg.Bool(), condTy, "if condition must be a bool", e.Cond.Span())

		thenTy, err := a.semExpr(group, e.Then)
		if err != nil {
			return nil, err
		}
		var elseTy types.Type
		if e.Else != nil {
			elseTy, err = a.semExpr(group, e.Else)
			if err != nil {
				return nil, err
			}
		} else {
			elseTy = a.reg.Unit()
		}
		group.Insert(thenTy, elseTy, "if branches must have the same type", e.Sp)
		return thenTy, nil

	case *ast.While:
		condTy, err := a.semExpr(group, e.Cond)
		if err != nil {
			return nil, err
		}
		group.Insert(a.reg.Bool(), condTy, "while condition must be a bool", e.Cond.Span())
		bodyTy, err := a.semExpr(group, e.Body)
		if err != nil {
			return nil, err
		}
		group.Insert(a.reg.Unit(), bodyTy, "while body must have type unit", e.Body.Span())
		return a.reg.Unit(), nil

	case *ast.For:
		return a.semFor(group, e)

	case *ast.Match:
		return a.semMatch(group, e)

	default:
		return nil, fmt.Errorf("sema: unhandled expr kind %T", expr)
	}
}

func (a *analyzer) semUnop(group *types.InferenceGroup, e *ast.Unop) (types.Type, error) {
	operandTy, err := a.semExpr(group, e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.UnopPlus, ast.UnopMinus:
		n := a.reg.NewUnknown(types.NumericConstraints())
		group.Insert(n, operandTy, "unary +/- requires a numeric operand", e.Sp)
		return operandTy, nil
	case ast.UnopNot:
		group.Insert(a.reg.Bool(), operandTy, "! requires a bool operand", e.Sp)
		return a.reg.Bool(), nil
	case ast.UnopDeref:
		alpha := a.reg.NewUnknown(nil)
		group.Insert(a.reg.NewRef(alpha), operandTy, "dereference requires a ref", e.Sp)
		return alpha, nil
	case ast.UnopDelete:
		group.Insert(a.reg.NewRef(a.reg.NewUnknown(nil)), operandTy, "delete requires a ref", e.Sp)
		return a.reg.Unit(), nil
	default:
		return nil, fmt.Errorf("sema: unhandled unop kind %d", e.Op)
	}
}

func (a *analyzer) semBinop(group *types.InferenceGroup, e *ast.Binop) (types.Type, error) {
	lhsTy, err := a.semExpr(group, e.Lhs)
	if err != nil {
		return nil, err
	}

	// `;` discards lhs's type; everything else needs both sides typed.
	if e.Op == ast.BinopSemicolon {
		rhsTy, err := a.semExpr(group, e.Rhs)
		if err != nil {
			return nil, err
		}
		return rhsTy, nil
	}

	rhsTy, err := a.semExpr(group, e.Rhs)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.BinopAdd, ast.BinopSub, ast.BinopMul, ast.BinopDiv, ast.BinopPow:
		n := a.reg.NewUnknown(types.NumericConstraints())
		group.Insert(n, lhsTy, "arithmetic operand must be numeric", e.Sp)
		group.Insert(n, rhsTy, "arithmetic operand must be numeric", e.Sp)
		return n, nil

	case ast.BinopMod:
		group.Insert(a.reg.Int(), lhsTy, "%% requires int operands", e.Sp)
		group.Insert(a.reg.Int(), rhsTy, "%% requires int operands", e.Sp)
		return a.reg.Int(), nil

	case ast.BinopStrEq, ast.BinopStrNotEq, ast.BinopNatEq, ast.BinopNatNotEq:
		n := a.reg.NewUnknown(types.EqualityConstraints())
		group.Insert(n, lhsTy, "equality operand not comparable", e.Sp)
		group.Insert(n, rhsTy, "equality operand not comparable", e.Sp)
		return a.reg.Bool(), nil

	case ast.BinopLt, ast.BinopGt, ast.BinopLEq, ast.BinopGEq:
		n := a.reg.NewUnknown(types.OrderedConstraints())
		group.Insert(n, lhsTy, "comparison operand not ordered", e.Sp)
		group.Insert(n, rhsTy, "comparison operand not ordered", e.Sp)
		return a.reg.Bool(), nil

	case ast.BinopAnd, ast.BinopOr:
		group.Insert(a.reg.Bool(), lhsTy, "&&/|| requires bool operands", e.Sp)
		group.Insert(a.reg.Bool(), rhsTy, "&&/|| requires bool operands", e.Sp)
		return a.reg.Bool(), nil

	case ast.BinopAssign:
		alpha := a.reg.NewUnknown(nil)
		group.Insert(a.reg.NewRef(alpha), lhsTy, ":= left side must be a ref", e.Sp)
		group.Insert(alpha, rhsTy, ":= right side must match the ref's contents", e.Sp)
		return a.reg.Unit(), nil

	default:
		return nil, fmt.Errorf("sema: unhandled binop kind %d", e.Op)
	}
}

// semCall types a lowercase-identifier application. A zero-arg call is
// the "named use" case of spec §4.7 and always goes through
// getTypeOrInstantiate; a call with arguments also resolves through
// getTypeOrInstantiate (rather than the stored type directly) so that
// applying a generic function at two different call sites still yields
// two independent instantiations.
func (a *analyzer) semCall(group *types.InferenceGroup, e *ast.Call) (types.Type, error) {
	node, err := a.lookup(e.ID, e.Sp)
	if err != nil {
		return nil, err
	}
	calleeTy, err := a.getTypeOrInstantiate(node)
	if err != nil {
		return nil, err
	}
	if len(e.Args) == 0 {
		return calleeTy, nil
	}

	argTypes := make([]types.Type, len(e.Args))
	for i, argExpr := range e.Args {
		t, err := a.semExpr(group, argExpr)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}
	result := a.reg.NewUnknown(nil)
	group.Insert(calleeTy, a.reg.NewMultiArgFunc(argTypes, result), fmt.Sprintf("call to %s", e.ID), e.Sp)
	return result, nil
}

// semConstrCall types a constructor application. Constructors are not
// schemes, so this uses the stored type directly, never instantiating
// (spec §4.6/§4.7). Partial application yields a curried arrow.
func (a *analyzer) semConstrCall(group *types.InferenceGroup, e *ast.ConstrCall) (types.Type, error) {
	node, err := a.lookup(e.ID, e.Sp)
	if err != nil {
		return nil, err
	}
	calleeTy, ok := a.nodeType[node]
	if !ok {
		return nil, fmt.Errorf("sema: internal error: constructor %s has no recorded type", e.ID)
	}
	if len(e.Args) == 0 {
		return calleeTy, nil
	}

	argTypes := make([]types.Type, len(e.Args))
	for i, argExpr := range e.Args {
		t, err := a.semExpr(group, argExpr)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}
	result := a.reg.NewUnknown(nil)
	group.Insert(calleeTy, a.reg.NewMultiArgFunc(argTypes, result), fmt.Sprintf("constructor %s application", e.ID), e.Sp)
	return result, nil
}

func (a *analyzer) semArrayAccess(group *types.InferenceGroup, e *ast.ArrayAccess) (types.Type, error) {
	for _, idx := range e.Indexes {
		idxTy, err := a.semExpr(group, idx)
		if err != nil {
			return nil, err
		}
		group.Insert(a.reg.Int(), idxTy, "array index must be an int", idx.Span())
	}

	node, err := a.lookup(e.ID, e.Sp)
	if err != nil {
		return nil, err
	}
	idTy, err := a.getTypeOrInstantiate(node)
	if err != nil {
		return nil, err
	}
	alpha := a.reg.NewUnknown(nil)
	want := a.reg.NewRef(a.reg.NewKnownArray(alpha, len(e.Indexes)))
	group.Insert(want, idTy, fmt.Sprintf("%s is not an array of the right rank", e.ID), e.Sp)
	return a.reg.NewRef(alpha), nil
}

func (a *analyzer) semDim(group *types.InferenceGroup, e *ast.Dim) (types.Type, error) {
	node, err := a.lookup(e.ID, e.Sp)
	if err != nil {
		return nil, err
	}
	idTy, err := a.getTypeOrInstantiate(node)
	if err != nil {
		return nil, err
	}
	inner := a.reg.NewUnknown(nil)
	want := a.reg.NewRef(a.reg.NewLowerBoundedArray(inner, e.Dim))
	group.Insert(want, idTy, fmt.Sprintf("%s is not an array of at least %d dimensions", e.ID, e.Dim), e.Sp)
	return a.reg.Int(), nil
}

func (a *analyzer) semFor(group *types.InferenceGroup, e *ast.For) (types.Type, error) {
	fromTy, err := a.semExpr(group, e.From)
	if err != nil {
		return nil, err
	}
	group.Insert(a.reg.Int(), fromTy, "for loop bound must be an int", e.From.Span())

	toTy, err := a.semExpr(group, e.To)
	if err != nil {
		return nil, err
	}
	group.Insert(a.reg.Int(), toTy, "for loop bound must be an int", e.To.Span())

	a.scope.push()
	defer a.scope.pop()

	// The loop variable has no AST node of its own; synthesize a Par so
	// it gets its own node-identity key distinct from the For node.
	loopVar := &ast.Par{ID: e.ID, Sp: e.Sp}
	a.scope.insert(e.ID, loopVar)
	a.nodeType[loopVar] = a.reg.Int()

	bodyTy, err := a.semExpr(group, e.Body)
	if err != nil {
		return nil, err
	}
	group.Insert(a.reg.Unit(), bodyTy, "for loop body must have type unit", e.Body.Span())
	return a.reg.Unit(), nil
}

func (a *analyzer) semMatch(group *types.InferenceGroup, e *ast.Match) (types.Type, error) {
	subjectTy, err := a.semExpr(group, e.Subject)
	if err != nil {
		return nil, err
	}
	result := a.reg.NewUnknown(nil)

	for _, clause := range e.Clauses {
		a.scope.push()
		if err := a.semPattern(clause.Pattern, subjectTy, group); err != nil {
			a.scope.pop()
			return nil, err
		}
		bodyTy, err := a.semExpr(group, clause.Expr)
		if err != nil {
			a.scope.pop()
			return nil, err
		}
		group.Insert(result, bodyTy, "match clauses must all have the same type", clause.Sp)
		a.scope.pop()
	}
	return result, nil
}
