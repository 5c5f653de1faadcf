// Package ast defines the sum-typed abstract syntax tree produced by
// the parser and consumed by the semantic analyzer. Every node carries
// a Span; identity for the node-keyed maps in internal/sema is the
// node's own pointer, not any field of it.
package ast

import "github.com/llamalang/llamac/internal/token"

// Node is the common interface implemented by every AST node.
type Node interface {
	Span() token.Span
}

// Program is the root of a compilation unit: a flat sequence of
// top-level definitions in source order.
type Program struct {
	Definitions []Definition
}

// Definition is either a (possibly mutually recursive) group of value
// definitions or a group of type definitions.
type Definition interface {
	Node
	definitionNode()
}

// LetDef is a `let` or `let rec` group. Non-recursive siblings within
// Defs become visible to each other only after the whole group has
// been typed; recursive siblings are visible to each other and to
// themselves from the start.
type LetDef struct {
	Rec  bool
	Defs []*Def
	Sp   token.Span
}

func (d *LetDef) Span() token.Span { return d.Sp }
func (*LetDef) definitionNode()    {}

// TypeDef is a `type` group introducing one or more nominal types.
type TypeDef struct {
	TDefs []*TDef
	Sp    token.Span
}

func (d *TypeDef) Span() token.Span { return d.Sp }
func (*TypeDef) definitionNode()    {}

// Def is one binding inside a LetDef. Kind discriminates const,
// mutable variable, array and function bindings.
type Def struct {
	ID         string
	Annotation TypeExpr // nil if unannotated
	Kind       DefKind
	Sp         token.Span
}

func (d *Def) Span() token.Span { return d.Sp }

// DefKind is the per-binding payload, one of *ConstDef, *VariableDef,
// *ArrayDef or *FunctionDef.
type DefKind interface {
	defKindNode()
}

// ConstDef binds ID to the value of Expr.
type ConstDef struct {
	Expr Expr
}

func (*ConstDef) defKindNode() {}

// VariableDef declares a mutable reference cell with no initializer;
// the language zero-initializes it.
type VariableDef struct{}

func (*VariableDef) defKindNode() {}

// ArrayDef declares a mutable array, one Expr per dimension giving
// that dimension's extent.
type ArrayDef struct {
	Dims []Expr
}

func (*ArrayDef) defKindNode() {}

// FunctionDef binds ID to a function of Pars evaluating Expr.
type FunctionDef struct {
	Pars []*Par
	Expr Expr
}

func (*FunctionDef) defKindNode() {}

// Par is one formal parameter of a FunctionDef.
type Par struct {
	ID         string
	Annotation TypeExpr // nil if unannotated
	Sp         token.Span
}

func (p *Par) Span() token.Span { return p.Sp }

// TDef is one nominal type introduced by a TypeDef: `ID = Constr1 of
// T1 T2 | Constr2 | ...`.
type TDef struct {
	ID      string
	Constrs []*Constr
	Sp      token.Span
}

func (d *TDef) Span() token.Span { return d.Sp }

// Constr is one constructor alternative of a TDef.
type Constr struct {
	ID    string
	Types []TypeExpr
	Sp    token.Span
}

func (c *Constr) Span() token.Span { return c.Sp }

// TypeExpr is a type annotation as written in source, before
// inference resolves it against the internal Type representation.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedTypeExpr is one of the primitive keywords (unit, int, char,
// bool, float) or a nominal Custom{name} reference.
type NamedTypeExpr struct {
	Name string
	Sp   token.Span
}

func (t *NamedTypeExpr) Span() token.Span { return t.Sp }
func (*NamedTypeExpr) typeExprNode()       {}

// FuncTypeExpr is a `Lhs -> Rhs` arrow; multi-argument function types
// are written as a right-nested chain of these.
type FuncTypeExpr struct {
	Lhs, Rhs TypeExpr
	Sp       token.Span
}

func (t *FuncTypeExpr) Span() token.Span { return t.Sp }
func (*FuncTypeExpr) typeExprNode()       {}

// RefTypeExpr is `Inner ref`.
type RefTypeExpr struct {
	Inner TypeExpr
	Sp    token.Span
}

func (t *RefTypeExpr) Span() token.Span { return t.Sp }
func (*RefTypeExpr) typeExprNode()       {}

// ArrayTypeExpr is `array [*, ..., *] of Inner`; Dim is the number of
// stars, or 1 when the bracketed part is omitted (`array of Inner`).
type ArrayTypeExpr struct {
	Inner TypeExpr
	Dim   int
	Sp    token.Span
}

func (t *ArrayTypeExpr) Span() token.Span { return t.Sp }
func (*ArrayTypeExpr) typeExprNode()       {}

// TupleTypeExpr is `(T1, T2, ..., Tn)`, n >= 2.
type TupleTypeExpr struct {
	Elems []TypeExpr
	Sp    token.Span
}

func (t *TupleTypeExpr) Span() token.Span { return t.Sp }
func (*TupleTypeExpr) typeExprNode()       {}

// Expr is any expression node. Kind is distinguished by the concrete
// Go type, matching the closed ExprKind tag family of the data model.
type Expr interface {
	Node
	exprNode()
}

type UnitLiteral struct{ Sp token.Span }

func (e *UnitLiteral) Span() token.Span { return e.Sp }
func (*UnitLiteral) exprNode()          {}

type IntLiteral struct {
	Value int32
	Sp    token.Span
}

func (e *IntLiteral) Span() token.Span { return e.Sp }
func (*IntLiteral) exprNode()          {}

type FloatLiteral struct {
	Value float64
	Sp    token.Span
}

func (e *FloatLiteral) Span() token.Span { return e.Sp }
func (*FloatLiteral) exprNode()          {}

type CharLiteral struct {
	Value byte
	Sp    token.Span
}

func (e *CharLiteral) Span() token.Span { return e.Sp }
func (*CharLiteral) exprNode()          {}

type StringLiteral struct {
	Value string
	Sp    token.Span
}

func (e *StringLiteral) Span() token.Span { return e.Sp }
func (*StringLiteral) exprNode()          {}

type BoolLiteral struct {
	Value bool
	Sp    token.Span
}

func (e *BoolLiteral) Span() token.Span { return e.Sp }
func (*BoolLiteral) exprNode()          {}

// Tuple is `(e1, e2, ..., en)`, n >= 2. A single parenthesized
// expression is never wrapped in a Tuple; callers collapsing a
// one-element list should return that element directly.
type Tuple struct {
	Elems []Expr
	Sp    token.Span
}

func (e *Tuple) Span() token.Span { return e.Sp }
func (*Tuple) exprNode()          {}

type UnopKind int

const (
	UnopPlus UnopKind = iota
	UnopMinus
	UnopDeref // !e
	UnopNot
	UnopDelete
)

type Unop struct {
	Op      UnopKind
	Operand Expr
	Sp      token.Span
}

func (e *Unop) Span() token.Span { return e.Sp }
func (*Unop) exprNode()          {}

type BinopKind int

const (
	BinopAdd BinopKind = iota
	BinopSub
	BinopMul
	BinopDiv
	BinopMod
	BinopPow
	BinopStrEq // =
	BinopStrNotEq // <>
	BinopNatEq // ==
	BinopNatNotEq // !=
	BinopLt
	BinopGt
	BinopLEq
	BinopGEq
	BinopAnd
	BinopOr
	BinopSemicolon
	BinopAssign // :=
)

type Binop struct {
	Lhs Expr
	Op  BinopKind
	Rhs Expr
	Sp  token.Span
}

func (e *Binop) Span() token.Span { return e.Sp }
func (*Binop) exprNode()          {}

// Call is a function application `id(arg1, ..., argn)`. A bare
// lowercase identifier reference with no parentheses parses as a Call
// with an empty Args slice; there is no separate "identifier
// expression" node.
type Call struct {
	ID   string
	Args []Expr
	Sp   token.Span
}

func (e *Call) Span() token.Span { return e.Sp }
func (*Call) exprNode()          {}

// ConstrCall is a constructor application `Id(arg1, ..., argn)`;
// shares Call's shape but is kept distinct because a constructor's
// type is used as stored, never instantiated.
type ConstrCall struct {
	ID   string
	Args []Expr
	Sp   token.Span
}

func (e *ConstrCall) Span() token.Span { return e.Sp }
func (*ConstrCall) exprNode()          {}

// ArrayAccess is `id[idx1, ..., idxn]`.
type ArrayAccess struct {
	ID      string
	Indexes []Expr
	Sp      token.Span
}

func (e *ArrayAccess) Span() token.Span { return e.Sp }
func (*ArrayAccess) exprNode()          {}

// Dim is `dim id` or `dim n id`, reporting the extent of the n'th
// dimension (1-based) of array id.
type Dim struct {
	ID  string
	Dim int
	Sp  token.Span
}

func (e *Dim) Span() token.Span { return e.Sp }
func (*Dim) exprNode()          {}

// New is `new T`, allocating a fresh Ref cell of type T.
type New struct {
	Type TypeExpr
	Sp   token.Span
}

func (e *New) Span() token.Span { return e.Sp }
func (*New) exprNode()          {}

// LetIn is `let(rec) defs in expr`.
type LetIn struct {
	LetDef *LetDef
	Expr   Expr
	Sp     token.Span
}

func (e *LetIn) Span() token.Span { return e.Sp }
func (*LetIn) exprNode()          {}

type If struct {
	Cond Expr
	Then Expr
	Else Expr // nil if there is no else branch
	Sp   token.Span
}

func (e *If) Span() token.Span { return e.Sp }
func (*If) exprNode()          {}

type While struct {
	Cond Expr
	Body Expr
	Sp   token.Span
}

func (e *While) Span() token.Span { return e.Sp }
func (*While) exprNode()          {}

// For is `for id = from (to|downto) to do body done`.
type For struct {
	ID        string
	From      Expr
	Ascending bool
	To        Expr
	Body      Expr
	Sp        token.Span
}

func (e *For) Span() token.Span { return e.Sp }
func (*For) exprNode()          {}

type Match struct {
	Subject Expr
	Clauses []*Clause
	Sp      token.Span
}

func (e *Match) Span() token.Span { return e.Sp }
func (*Match) exprNode()          {}

// Clause is one `pattern -> expr` arm of a Match.
type Clause struct {
	Pattern Pattern
	Expr    Expr
	Sp      token.Span
}

func (c *Clause) Span() token.Span { return c.Sp }

// Pattern is any match pattern. Kind is distinguished by the concrete
// Go type.
type Pattern interface {
	Node
	patternNode()
}

type IntPattern struct {
	Value int32
	Sp    token.Span
}

func (p *IntPattern) Span() token.Span { return p.Sp }
func (*IntPattern) patternNode()       {}

type FloatPattern struct {
	Value float64
	Sp    token.Span
}

func (p *FloatPattern) Span() token.Span { return p.Sp }
func (*FloatPattern) patternNode()       {}

type CharPattern struct {
	Value byte
	Sp    token.Span
}

func (p *CharPattern) Span() token.Span { return p.Sp }
func (*CharPattern) patternNode()       {}

type StringPattern struct {
	Value string
	Sp    token.Span
}

func (p *StringPattern) Span() token.Span { return p.Sp }
func (*StringPattern) patternNode()       {}

type BoolPattern struct {
	Value bool
	Sp    token.Span
}

func (p *BoolPattern) Span() token.Span { return p.Sp }
func (*BoolPattern) patternNode()       {}

// IdLowerPattern binds ID to whatever it matches. "_" is a regular
// lowercase identifier here; the scope manager simply never looks it
// up again.
type IdLowerPattern struct {
	ID string
	Sp token.Span
}

func (p *IdLowerPattern) Span() token.Span { return p.Sp }
func (*IdLowerPattern) patternNode()       {}

// IdUpperPattern matches a constructor application, recursively
// matching Args against the constructor's field patterns.
type IdUpperPattern struct {
	ID   string
	Args []Pattern
	Sp   token.Span
}

func (p *IdUpperPattern) Span() token.Span { return p.Sp }
func (*IdUpperPattern) patternNode()       {}

// TuplePattern matches `(p1, ..., pn)`, n >= 2.
type TuplePattern struct {
	Elems []Pattern
	Sp    token.Span
}

func (p *TuplePattern) Span() token.Span { return p.Sp }
func (*TuplePattern) patternNode()       {}

// MaybeTuple collapses a one-element expression list to that single
// element, otherwise wraps the list in a Tuple spanning from the
// first element's start to the last element's end.
func MaybeTuple(exprs []Expr) Expr {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &Tuple{
		Elems: exprs,
		Sp:    token.Span{Start: exprs[0].Span().Start, End: exprs[len(exprs)-1].Span().End},
	}
}

// MaybeTuplePattern is Pattern's analogue of MaybeTuple.
func MaybeTuplePattern(pats []Pattern) Pattern {
	if len(pats) == 1 {
		return pats[0]
	}
	return &TuplePattern{
		Elems: pats,
		Sp:    token.Span{Start: pats[0].Span().Start, End: pats[len(pats)-1].Span().End},
	}
}
