package types

import (
	"fmt"

	"github.com/llamalang/llamac/internal/errors"
	"github.com/llamalang/llamac/internal/token"
)

// Pair is one queued unification: lhs must unify with rhs, for the
// given reason, blamed on span if it fails.
type Pair struct {
	Lhs, Rhs Type
	Reason   string
	Span     token.Span
}

// InferenceGroup is the per-definition queue of unification pairs
// described in spec §4.3. Pairs are appended in program order and
// drained in that same order by Unifier.SolveGroup.
type InferenceGroup struct {
	pairs []Pair
}

func NewInferenceGroup() *InferenceGroup {
	return &InferenceGroup{}
}

func (g *InferenceGroup) Insert(lhs, rhs Type, reason string, span token.Span) {
	g.pairs = append(g.pairs, Pair{Lhs: lhs, Rhs: rhs, Reason: reason, Span: span})
}

// Unifier owns the unification table (Unknown id -> resolved Type)
// and drives the per-pair unification algorithm of spec §4.4. One
// Unifier is shared by an entire analysis run; it is never accessed
// concurrently (§5).
type Unifier struct {
	table map[uint32]Type
}

func NewUnifier() *Unifier {
	return &Unifier{table: map[uint32]Type{}}
}

// SolveGroup drains g in insertion order, stopping at the first
// failure.
func (u *Unifier) SolveGroup(g *InferenceGroup) error {
	for _, p := range g.pairs {
		if err := u.unify(p); err != nil {
			return err
		}
	}
	return nil
}

// ResolveType follows the chain of Unknown -> target bindings to its
// representative, compressing the path: every intermediate id except
// the first and the final representative is repointed directly at the
// representative, so repeated resolution of the same chain is O(1)
// after the first walk.
func (u *Unifier) ResolveType(ty Type) Type {
	var chain []uint32
	cur := ty
	for {
		unk, ok := cur.(*Unknown)
		if !ok {
			break
		}
		chain = append(chain, unk.ID)
		next, bound := u.table[unk.ID]
		if !bound {
			break
		}
		cur = next
	}
	if len(chain) > 1 {
		for _, id := range chain[1 : len(chain)-1] {
			u.table[id] = cur
		}
	}
	return cur
}

// DeepResolve resolves ty and then resolves every type nested inside
// it, recursively.
func (u *Unifier) DeepResolve(ty Type) Type {
	r := u.ResolveType(ty)
	switch t := r.(type) {
	case *Func:
		return &Func{Lhs: u.DeepResolve(t.Lhs), Rhs: u.DeepResolve(t.Rhs)}
	case *Ref:
		return &Ref{Inner: u.DeepResolve(t.Inner)}
	case *Array:
		return &Array{Inner: u.DeepResolve(t.Inner), Dim: t.Dim}
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = u.DeepResolve(e)
		}
		return &Tuple{Elems: elems}
	default:
		return r
	}
}

// unify is the recursive worker. p.Lhs/p.Rhs are the types as queued
// (possibly unresolved); failures report those originals alongside
// their resolved forms at the point of failure, matching whichever
// recursion depth actually disagreed.
func (u *Unifier) unify(p Pair) error {
	lhs := u.ResolveType(p.Lhs)
	rhs := u.ResolveType(p.Rhs)

	if lu, ok := lhs.(*Unknown); ok {
		if ru, ok := rhs.(*Unknown); ok && lu.ID == ru.ID {
			return nil
		}
	}

	if lu, ok := lhs.(*Unknown); ok {
		return u.bind(lu, rhs, p)
	}
	if ru, ok := rhs.(*Unknown); ok {
		return u.bind(ru, lhs, p)
	}

	switch l := lhs.(type) {
	case *Prim:
		r, ok := rhs.(*Prim)
		if !ok || r.K != l.K {
			return u.failure(p, lhs, rhs, "kinds don't match")
		}
		return nil

	case *Func:
		r, ok := rhs.(*Func)
		if !ok {
			return u.failure(p, lhs, rhs, "kinds don't match")
		}
		if err := u.unify(Pair{Lhs: l.Lhs, Rhs: r.Lhs, Reason: p.Reason, Span: p.Span}); err != nil {
			return err
		}
		return u.unify(Pair{Lhs: l.Rhs, Rhs: r.Rhs, Reason: p.Reason, Span: p.Span})

	case *Ref:
		r, ok := rhs.(*Ref)
		if !ok {
			return u.failure(p, lhs, rhs, "kinds don't match")
		}
		return u.unify(Pair{Lhs: l.Inner, Rhs: r.Inner, Reason: p.Reason, Span: p.Span})

	case *Array:
		r, ok := rhs.(*Array)
		if !ok {
			return u.failure(p, lhs, rhs, "kinds don't match")
		}
		if !dimsCompatible(l.Dim, r.Dim) {
			return u.failure(p, lhs, rhs, fmt.Sprintf("can't match dims %s with %s", l.Dim, r.Dim))
		}
		if err := u.unify(Pair{Lhs: l.Inner, Rhs: r.Inner, Reason: p.Reason, Span: p.Span}); err != nil {
			return err
		}
		refineDims(l.Dim, r.Dim)
		return nil

	case *Tuple:
		r, ok := rhs.(*Tuple)
		if !ok || len(l.Elems) != len(r.Elems) {
			return u.failure(p, lhs, rhs, "tuple sizes don't match")
		}
		for i := range l.Elems {
			if err := u.unify(Pair{Lhs: l.Elems[i], Rhs: r.Elems[i], Reason: p.Reason, Span: p.Span}); err != nil {
				return err
			}
		}
		return nil

	case *Custom:
		r, ok := rhs.(*Custom)
		if !ok || r.Name != l.Name {
			return u.failure(p, lhs, rhs, "kinds don't match")
		}
		return nil

	default:
		return u.failure(p, lhs, rhs, "kinds don't match")
	}
}

// bind binds unknown to resolved: checks the constraint set, runs the
// occurs check, consolidates constraints if resolved is itself still
// an Unknown, and records the binding.
func (u *Unifier) bind(unknown *Unknown, resolved Type, p Pair) error {
	ru, resolvedIsUnknown := resolved.(*Unknown)
	if !resolvedIsUnknown && !unknown.Constraints.Satisfies(resolved) {
		return errors.NewConstraintViolationError(p.Span, unknown.String(), resolved.String())
	}
	if u.occurs(unknown.ID, resolved) {
		return errors.NewOccursCheckError(p.Span, unknown.String(), resolved.String())
	}
	if resolvedIsUnknown {
		ru.Constraints.Consolidate(unknown.Constraints)
	}
	u.table[unknown.ID] = resolved
	return nil
}

// occurs reports whether ty, after resolving every nested Unknown,
// contains id.
func (u *Unifier) occurs(id uint32, ty Type) bool {
	r := u.ResolveType(ty)
	switch t := r.(type) {
	case *Unknown:
		return t.ID == id
	case *Func:
		return u.occurs(id, t.Lhs) || u.occurs(id, t.Rhs)
	case *Ref:
		return u.occurs(id, t.Inner)
	case *Array:
		return u.occurs(id, t.Inner)
	case *Tuple:
		for _, e := range t.Elems {
			if u.occurs(id, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (u *Unifier) failure(p Pair, lhsResolved, rhsResolved Type, reason string) error {
	return errors.NewInferenceError(p.Span, reason,
		p.Lhs.String(), p.Rhs.String(), lhsResolved.String(), rhsResolved.String())
}

// dimsCompatible mirrors ArrayDims::are_compatible: two Known
// dimensions must be equal; a Known and a LowerBounded are compatible
// iff the bound doesn't exceed the known rank; two LowerBounded are
// always compatible.
func dimsCompatible(a, b *DimCell) bool {
	switch {
	case a.K == DimKnown && b.K == DimKnown:
		return a.N == b.N
	case a.K == DimKnown && b.K == DimLowerBounded:
		return b.N <= a.N
	case a.K == DimLowerBounded && b.K == DimKnown:
		return a.N <= b.N
	default: // both LowerBounded
		return true
	}
}

// refineDims tightens a and b in place to their more specific common
// value, per spec §4.4 item 7. dimsCompatible must already have been
// checked. Both cells are mutated (not just one) so that whichever
// the caller keeps a reference to reflects the refined bound.
func refineDims(a, b *DimCell) {
	switch {
	case a.K == DimKnown && b.K == DimKnown:
		// equal, checked by dimsCompatible; nothing to refine.
	case a.K == DimKnown && b.K == DimLowerBounded:
		b.K, b.N = DimKnown, a.N
	case a.K == DimLowerBounded && b.K == DimKnown:
		a.K, a.N = DimKnown, b.N
	default: // both LowerBounded
		m := a.N
		if b.N > m {
			m = b.N
		}
		a.N, b.N = m, m
	}
}
