// Package types implements the inference-time type representation for
// the semantic analyzer: the closed sum of type kinds from spec §3,
// constraint sets over that family, and a registry that owns the
// canonical primitive instances and the monotonic Unknown-id counter.
//
// Types are shared by reference: two Expr nodes typed as the same
// Array share the same *Array value (and therefore the same *DimCell),
// so refining one refines every other reference to it. This mirrors
// the source implementation's Rc<RefCell<_>> sharing, but needs no
// extra machinery because Go values living behind pointers already
// have stable identity.
package types

import (
	"fmt"
	"strings"

	"github.com/llamalang/llamac/internal/ast"
)

// Kind is the closed family of type constructors a constraint set can
// allow or disallow.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnit
	KindInt
	KindChar
	KindBool
	KindFloat
	KindFunc
	KindRef
	KindArray
	KindTuple
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindInt:
		return "int"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindFunc:
		return "func"
	case KindRef:
		return "ref"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindCustom:
		return "custom"
	default:
		return "?"
	}
}

// Type is the inference-time representation of a Llama type. Every
// concrete variant below implements it.
type Type interface {
	Kind() Kind
	String() string
}

// Prim is a canonical primitive: Unit, Int, Char, Bool or Float. The
// registry hands out one shared instance per primitive kind.
type Prim struct {
	K Kind
}

func (p *Prim) Kind() Kind { return p.K }
func (p *Prim) String() string {
	return p.K.String()
}

// Unknown is a unification variable awaiting resolution. Constraints
// is consolidated (never replaced) whenever this variable unifies
// with another Unknown.
type Unknown struct {
	ID          uint32
	Constraints *ConstraintSet
}

func (u *Unknown) Kind() Kind { return KindUnknown }
func (u *Unknown) String() string {
	name := unknownIDToName(u.ID)
	if u.Constraints == nil || u.Constraints.IsEmpty() {
		return "'" + name
	}
	return "'" + name + " " + u.Constraints.String()
}

// unknownIDToName renders an id as a short letter name ('a, 'b, ...,
// 'z, 'aa, ...), matching the source implementation's base-26 scheme.
func unknownIDToName(id uint32) string {
	var acc []byte
	first := true
	for {
		c := byte(id%26) + 'a'
		if !first {
			c--
		}
		acc = append(acc, c)
		first = false
		if id < 26 {
			break
		}
		id = id / 26
	}
	for i, j := 0, len(acc)-1; i < j; i, j = i+1, j-1 {
		acc[i], acc[j] = acc[j], acc[i]
	}
	return string(acc)
}

// Func is a single-argument arrow. Multi-argument functions are
// right-nested Funcs, built by NewMultiArgFunc.
type Func struct {
	Lhs, Rhs Type
}

func (f *Func) Kind() Kind { return KindFunc }
func (f *Func) String() string {
	return fmt.Sprintf("%s -> (%s)", f.Lhs, f.Rhs)
}

// Ref is a mutable cell holding a value of Inner.
type Ref struct {
	Inner Type
}

func (r *Ref) Kind() Kind { return KindRef }
func (r *Ref) String() string {
	return fmt.Sprintf("(%s ref)", r.Inner)
}

// DimKind distinguishes a fully-known array rank from a rank known
// only as a lower bound.
type DimKind int

const (
	DimKnown DimKind = iota
	DimLowerBounded
)

// DimCell is the mutable, shared dimensionality of an Array. Two Array
// values that must be refined together (aliases of the same variable
// or array definition) share the same *DimCell; unifying one updates
// every alias. It is never loosened, only refined (Invariant 5 /
// Testable property 5).
type DimCell struct {
	K DimKind
	N int
}

func (d *DimCell) String() string {
	if d.K == DimKnown {
		return fmt.Sprintf("%d", d.N)
	}
	return fmt.Sprintf(">=%d", d.N)
}

// Array is an N-dimensional rectangular array of Inner.
type Array struct {
	Inner Type
	Dim   *DimCell
}

func (a *Array) Kind() Kind { return KindArray }
func (a *Array) String() string {
	return fmt.Sprintf("%s[%s]", a.Inner, a.Dim)
}

// Tuple is a heterogeneous fixed-length product type.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) Kind() Kind { return KindTuple }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Custom is a nominal type introduced by a `type` definition.
// Equality is by name.
type Custom struct {
	Name string
}

func (c *Custom) Kind() Kind { return KindCustom }
func (c *Custom) String() string {
	return c.Name
}

// ConstraintSet is an allow/disallow filter over Kind, attached to an
// Unknown. An empty allow set means "no restriction"; disallow always
// applies. Satisfies checks a resolved (non-Unknown) type's kind
// against both sets.
type ConstraintSet struct {
	Allow    map[Kind]bool
	Disallow map[Kind]bool
}

// NewConstraintSet returns an unconstrained set.
func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{Allow: map[Kind]bool{}, Disallow: map[Kind]bool{}}
}

// NumericConstraints allows only Int and Float.
func NumericConstraints() *ConstraintSet {
	return &ConstraintSet{
		Allow:    map[Kind]bool{KindInt: true, KindFloat: true},
		Disallow: map[Kind]bool{},
	}
}

// OrderedConstraints allows Int, Float and Char.
func OrderedConstraints() *ConstraintSet {
	return &ConstraintSet{
		Allow:    map[Kind]bool{KindInt: true, KindFloat: true, KindChar: true},
		Disallow: map[Kind]bool{},
	}
}

// EqualityConstraints disallows Array and Func (everything else is
// structurally or value comparable).
func EqualityConstraints() *ConstraintSet {
	return &ConstraintSet{
		Allow:    map[Kind]bool{},
		Disallow: map[Kind]bool{KindArray: true, KindFunc: true},
	}
}

func (c *ConstraintSet) IsEmpty() bool {
	return c == nil || (len(c.Allow) == 0 && len(c.Disallow) == 0)
}

// Satisfies reports whether ty's kind passes this constraint set. ty
// must already be resolved (not an Unknown).
func (c *ConstraintSet) Satisfies(ty Type) bool {
	if c == nil {
		return true
	}
	k := ty.Kind()
	if len(c.Allow) > 0 && !c.Allow[k] {
		return false
	}
	if c.Disallow[k] {
		return false
	}
	return true
}

// Consolidate unions other's allow/disallow sets into c, in place.
func (c *ConstraintSet) Consolidate(other *ConstraintSet) {
	if other == nil {
		return
	}
	for k := range other.Allow {
		c.Allow[k] = true
	}
	for k := range other.Disallow {
		c.Disallow[k] = true
	}
}

func (c *ConstraintSet) String() string {
	if c.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	if len(c.Allow) > 0 {
		sb.WriteString("allow{")
		sb.WriteString(joinKinds(c.Allow))
		sb.WriteString("}")
	}
	if len(c.Disallow) > 0 {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("disallow{")
		sb.WriteString(joinKinds(c.Disallow))
		sb.WriteString("}")
	}
	return sb.String()
}

func joinKinds(m map[Kind]bool) string {
	parts := make([]string, 0, len(m))
	for k := range m {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, ",")
}

// Registry owns the canonical primitive singletons and the
// monotonically increasing Unknown-id counter. One Registry is shared
// by an entire analysis run.
type Registry struct {
	nextUnknownID uint32

	unitType  *Prim
	intType   *Prim
	charType  *Prim
	boolType  *Prim
	floatType *Prim
}

func NewRegistry() *Registry {
	return &Registry{
		unitType:  &Prim{K: KindUnit},
		intType:   &Prim{K: KindInt},
		charType:  &Prim{K: KindChar},
		boolType:  &Prim{K: KindBool},
		floatType: &Prim{K: KindFloat},
	}
}

func (r *Registry) Unit() Type  { return r.unitType }
func (r *Registry) Int() Type   { return r.intType }
func (r *Registry) Char() Type  { return r.charType }
func (r *Registry) Bool() Type  { return r.boolType }
func (r *Registry) Float() Type { return r.floatType }

// NewUnknown returns a fresh unification variable. constraints may be
// nil for an unconstrained variable.
func (r *Registry) NewUnknown(constraints *ConstraintSet) *Unknown {
	id := r.nextUnknownID
	r.nextUnknownID++
	if constraints == nil {
		constraints = NewConstraintSet()
	}
	return &Unknown{ID: id, Constraints: constraints}
}

func (r *Registry) NewRef(inner Type) *Ref { return &Ref{Inner: inner} }

func (r *Registry) NewFunc(lhs, rhs Type) *Func { return &Func{Lhs: lhs, Rhs: rhs} }

// NewMultiArgFunc right-nests a function over pars, e.g.
// [A, B] -> C becomes A -> (B -> C).
func (r *Registry) NewMultiArgFunc(pars []Type, ret Type) Type {
	result := ret
	for i := len(pars) - 1; i >= 0; i-- {
		result = r.NewFunc(pars[i], result)
	}
	return result
}

func (r *Registry) NewTuple(elems []Type) *Tuple { return &Tuple{Elems: elems} }

func (r *Registry) NewCustom(name string) *Custom { return &Custom{Name: name} }

func (r *Registry) NewKnownArray(inner Type, n int) *Array {
	return &Array{Inner: inner, Dim: &DimCell{K: DimKnown, N: n}}
}

func (r *Registry) NewLowerBoundedArray(inner Type, n int) *Array {
	return &Array{Inner: inner, Dim: &DimCell{K: DimLowerBounded, N: n}}
}

// LiftAnnotation converts a parsed type annotation into a runtime
// Type. Array annotations always lift to a Known dimensionality since
// the surface syntax spells out an exact rank.
func (r *Registry) LiftAnnotation(t ast.TypeExpr) (Type, error) {
	switch te := t.(type) {
	case *ast.NamedTypeExpr:
		switch te.Name {
		case "unit":
			return r.Unit(), nil
		case "int":
			return r.Int(), nil
		case "char":
			return r.Char(), nil
		case "bool":
			return r.Bool(), nil
		case "float":
			return r.Float(), nil
		default:
			return r.NewCustom(te.Name), nil
		}
	case *ast.FuncTypeExpr:
		lhs, err := r.LiftAnnotation(te.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := r.LiftAnnotation(te.Rhs)
		if err != nil {
			return nil, err
		}
		return r.NewFunc(lhs, rhs), nil
	case *ast.RefTypeExpr:
		inner, err := r.LiftAnnotation(te.Inner)
		if err != nil {
			return nil, err
		}
		return r.NewRef(inner), nil
	case *ast.ArrayTypeExpr:
		inner, err := r.LiftAnnotation(te.Inner)
		if err != nil {
			return nil, err
		}
		return r.NewKnownArray(inner, te.Dim), nil
	case *ast.TupleTypeExpr:
		elems := make([]Type, len(te.Elems))
		for i, e := range te.Elems {
			el, err := r.LiftAnnotation(e)
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return r.NewTuple(elems), nil
	default:
		return nil, fmt.Errorf("types: unhandled type annotation %T", t)
	}
}

// IsFullyKnown reports whether ty, and everything reachable inside it,
// is free of Unknown variables and of LowerBounded array dimensions.
// Used to decide whether a recursive let-binding is ground.
func IsFullyKnown(ty Type) bool {
	switch t := ty.(type) {
	case *Unknown:
		return false
	case *Func:
		return IsFullyKnown(t.Lhs) && IsFullyKnown(t.Rhs)
	case *Ref:
		return IsFullyKnown(t.Inner)
	case *Array:
		return IsFullyKnown(t.Inner) && t.Dim.K == DimKnown
	case *Tuple:
		for _, e := range t.Elems {
			if !IsFullyKnown(e) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
