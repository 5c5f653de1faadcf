package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstraintSetSatisfies(t *testing.T) {
	num := NumericConstraints()
	require.True(t, num.Satisfies(&Prim{K: KindInt}))
	require.True(t, num.Satisfies(&Prim{K: KindFloat}))
	require.False(t, num.Satisfies(&Prim{K: KindChar}))

	eq := EqualityConstraints()
	require.False(t, eq.Satisfies(&Array{Inner: &Prim{K: KindInt}, Dim: &DimCell{K: DimKnown, N: 1}}))
	require.True(t, eq.Satisfies(&Prim{K: KindInt}))
}

func TestConstraintSetConsolidate(t *testing.T) {
	a := NumericConstraints()
	b := OrderedConstraints()
	a.Consolidate(b)
	require.True(t, a.Allow[KindInt])
	require.True(t, a.Allow[KindFloat])
	require.True(t, a.Allow[KindChar])
}

func TestIsFullyKnown(t *testing.T) {
	reg := NewRegistry()
	ground := reg.NewFunc(reg.Int(), reg.Bool())
	require.True(t, IsFullyKnown(ground))

	withUnknown := reg.NewFunc(reg.Int(), reg.NewUnknown(nil))
	require.False(t, IsFullyKnown(withUnknown))

	lowerBoundedArr := reg.NewLowerBoundedArray(reg.Int(), 2)
	require.False(t, IsFullyKnown(lowerBoundedArr))

	knownArr := reg.NewKnownArray(reg.Int(), 2)
	require.True(t, IsFullyKnown(knownArr))
}

func TestUnknownIDToNameBase26(t *testing.T) {
	reg := NewRegistry()
	u0 := reg.NewUnknown(nil)
	u25 := u0
	for i := 0; i < 25; i++ {
		u25 = reg.NewUnknown(nil)
	}
	require.Equal(t, "'a", u0.String())
	require.Equal(t, "'z", u25.String())
	u26 := reg.NewUnknown(nil)
	require.Equal(t, "'aa", u26.String())
}
