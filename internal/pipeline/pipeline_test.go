package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseStage(t *testing.T) {
	cases := map[string]Stage{
		"scan":  StageScan,
		"lex":   StageLex,
		"parse": StageParse,
		"sema":  StageSema,
		"":      StageSema,
	}
	for s, want := range cases {
		got, err := ParseStage(s)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseStage("bogus")
	require.Error(t, err)
}

func TestRunStopsAtScan(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.llama", "let x = 1\nlet y = 2\n")

	result, err := Run(path, StageScan)
	require.NoError(t, err)
	require.NotEmpty(t, result.Events)
	require.Nil(t, result.Program)
	require.Nil(t, result.Sema)
}

func TestRunStopsAtLex(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.llama", "let x = 1\n")

	result, err := Run(path, StageLex)
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens)
	require.Nil(t, result.Program)
}

func TestRunStopsAtParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.llama", "let x = 1\n")

	result, err := Run(path, StageParse)
	require.NoError(t, err)
	require.NotNil(t, result.Program)
	require.Len(t, result.Program.Definitions, 1)
	require.Nil(t, result.Sema)
}

func TestRunFullSemaPipeline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.llama", "let x = 1\nlet f(y) = y\n")

	result, err := Run(path, StageSema)
	require.NoError(t, err)
	require.NotNil(t, result.Sema)
	require.NotNil(t, result.Program)
}

func TestRunReportsSemanticErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.llama", "let x = undefined\n")

	_, err := Run(path, StageSema)
	require.Error(t, err)
}

func TestRunPropagatesIncludeErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.llama", "#include \"missing.llama\"\n")

	_, err := Run(path, StageSema)
	require.Error(t, err)
}
