package sema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/llamalang/llamac/internal/types"
	"github.com/llamalang/llamac/testutil"
)

// resolvedEntry is the JSON-friendly projection of a resolved type used
// for golden comparisons below.
type resolvedEntry struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// TestIdentityFunctionInstantiationsMatchExpectedTypeTree diffs the
// fully-resolved Type values of the two identity-function call sites
// against hand-built expected trees, structurally rather than by
// string, catching a divergence in shape (e.g. a stray Ref wrapper)
// that a mere Kind() or String() check could miss.
func TestIdentityFunctionInstantiationsMatchExpectedTypeTree(t *testing.T) {
	_, callInt, callBool, prog := identityProgram()

	result, err := Analyze(prog)
	require.NoError(t, err)

	gotInt, ok := result.ResolvedType(callInt)
	require.True(t, ok)
	if diff := cmp.Diff(&types.Prim{K: types.KindInt}, gotInt); diff != "" {
		t.Errorf("callInt resolved type mismatch (-want +got):\n%s", diff)
	}

	gotBool, ok := result.ResolvedType(callBool)
	require.True(t, ok)
	if diff := cmp.Diff(&types.Prim{K: types.KindBool}, gotBool); diff != "" {
		t.Errorf("callBool resolved type mismatch (-want +got):\n%s", diff)
	}
}

// TestGoldenIdentityFunctionResolvedTypes pins the resolved types of
// the two identity-function call sites against a checked-in golden
// file, so an unintended change in inference output (not just its
// shape) is caught even if no other test's hand-written expectation
// happens to cover it.
func TestGoldenIdentityFunctionResolvedTypes(t *testing.T) {
	_, callInt, callBool, prog := identityProgram()

	result, err := Analyze(prog)
	require.NoError(t, err)

	intTy, ok := result.ResolvedType(callInt)
	require.True(t, ok)
	boolTy, ok := result.ResolvedType(callBool)
	require.True(t, ok)

	got := []resolvedEntry{
		{ID: "a", Type: intTy.String()},
		{ID: "b", Type: boolTy.String()},
	}

	testutil.CompareWithGolden(t, "sema", "identity_function_resolved_types", got)
}
