package types

import (
	"testing"

	"github.com/llamalang/llamac/internal/token"
	"github.com/stretchr/testify/require"
)

func TestUnifyPrimitivesSucceed(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	g := NewInferenceGroup()
	g.Insert(reg.Int(), reg.Int(), "test", token.Span{})
	require.NoError(t, uni.SolveGroup(g))
}

func TestUnifyPrimitivesMismatch(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	g := NewInferenceGroup()
	g.Insert(reg.Int(), reg.Bool(), "test", token.Span{})
	err := uni.SolveGroup(g)
	require.Error(t, err)
}

func TestUnifyBindsUnknown(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	u := reg.NewUnknown(nil)
	g := NewInferenceGroup()
	g.Insert(u, reg.Int(), "test", token.Span{})
	require.NoError(t, uni.SolveGroup(g))
	require.Equal(t, reg.Int(), uni.ResolveType(u))
}

func TestUnifyConstraintViolation(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	u := reg.NewUnknown(NumericConstraints())
	g := NewInferenceGroup()
	g.Insert(u, reg.Bool(), "test", token.Span{})
	require.Error(t, uni.SolveGroup(g))
}

func TestOccursCheck(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	u := reg.NewUnknown(nil)
	g := NewInferenceGroup()
	// u unified with Ref(u) should fail the occurs check.
	g.Insert(u, reg.NewRef(u), "test", token.Span{})
	require.Error(t, uni.SolveGroup(g))
}

func TestUnifyFuncRecurses(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	a := reg.NewUnknown(nil)
	b := reg.NewUnknown(nil)
	f1 := reg.NewFunc(a, reg.Int())
	f2 := reg.NewFunc(reg.Bool(), b)
	g := NewInferenceGroup()
	g.Insert(f1, f2, "test", token.Span{})
	require.NoError(t, uni.SolveGroup(g))
	require.Equal(t, reg.Bool(), uni.ResolveType(a))
	require.Equal(t, reg.Int(), uni.ResolveType(b))
}

func TestArrayDimsKnownVsKnownMismatch(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	g := NewInferenceGroup()
	g.Insert(reg.NewKnownArray(reg.Int(), 1), reg.NewKnownArray(reg.Int(), 2), "test", token.Span{})
	require.Error(t, uni.SolveGroup(g))
}

func TestArrayDimsKnownRefinesLowerBounded(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	lb := reg.NewLowerBoundedArray(reg.Int(), 1)
	known := reg.NewKnownArray(reg.Int(), 3)
	g := NewInferenceGroup()
	g.Insert(lb, known, "test", token.Span{})
	require.NoError(t, uni.SolveGroup(g))
	require.Equal(t, DimKnown, lb.Dim.K)
	require.Equal(t, 3, lb.Dim.N)
}

func TestArrayDimsKnownVsLowerBoundedTooTight(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	lb := reg.NewLowerBoundedArray(reg.Int(), 3)
	known := reg.NewKnownArray(reg.Int(), 1)
	g := NewInferenceGroup()
	g.Insert(lb, known, "test", token.Span{})
	require.Error(t, uni.SolveGroup(g))
}

func TestArrayDimsBothLowerBoundedTakeMax(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	lb1 := reg.NewLowerBoundedArray(reg.Int(), 1)
	lb2 := reg.NewLowerBoundedArray(reg.Int(), 4)
	g := NewInferenceGroup()
	g.Insert(lb1, lb2, "test", token.Span{})
	require.NoError(t, uni.SolveGroup(g))
	require.Equal(t, DimLowerBounded, lb1.Dim.K)
	require.Equal(t, 4, lb1.Dim.N)
	require.Equal(t, 4, lb2.Dim.N)
}

func TestResolveTypeIdempotent(t *testing.T) {
	reg := NewRegistry()
	uni := NewUnifier()
	a := reg.NewUnknown(nil)
	b := reg.NewUnknown(nil)
	c := reg.NewUnknown(nil)
	g := NewInferenceGroup()
	g.Insert(a, b, "chain", token.Span{})
	g.Insert(b, c, "chain", token.Span{})
	g.Insert(c, reg.Int(), "chain", token.Span{})
	require.NoError(t, uni.SolveGroup(g))

	first := uni.ResolveType(a)
	second := uni.ResolveType(a)
	require.Equal(t, reg.Int(), first)
	require.Equal(t, first, second)
}
