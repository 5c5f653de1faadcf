// Package repl implements `llamac repl`: an interactive line editor
// that feeds accumulated top-level definitions through the pipeline
// and reports each new definition's resolved type.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/diagnostic"
	"github.com/llamalang/llamac/internal/pipeline"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// REPL accumulates the raw text of every accepted definition and
// re-runs the full pipeline over it on each new entry. There is no
// incremental analyzer state to carry across entries; re-analyzing
// the accumulated source each time is simpler and keeps the REPL a
// thin driver over internal/pipeline rather than a second core.
type REPL struct {
	source  strings.Builder
	history []string
}

func New() *REPL {
	return &REPL{}
}

// Start runs the read-eval-print loop until EOF or :quit.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".llamac_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s\n", bold("llamac repl"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))

	for {
		input, err := line.Prompt("λ> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.evalDefinition(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleCommand returns true if the REPL should exit.
func (r *REPL) handleCommand(cmd string, out io.Writer) bool {
	switch {
	case cmd == ":quit" || cmd == ":q":
		fmt.Fprintln(out, green("goodbye"))
		return true
	case cmd == ":help":
		fmt.Fprintln(out, "enter a let/let rec/type definition; :history lists entries; :reset clears the session; :quit exits")
	case cmd == ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
	case cmd == ":reset":
		r.source.Reset()
		r.history = nil
		fmt.Fprintln(out, dim("session cleared"))
	default:
		fmt.Fprintf(out, "unknown command %q\n", cmd)
	}
	return false
}

// evalDefinition appends input to the accumulated source, re-runs the
// pipeline over a scratch file, and reports the type of the last
// top-level definition on success. On failure the appended text is
// rolled back so one bad entry doesn't poison the session.
func (r *REPL) evalDefinition(input string, out io.Writer) {
	before := r.source.String()
	r.source.WriteString(input)
	r.source.WriteString("\n")

	path, cleanup, err := writeScratch(r.source.String())
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		r.source.Reset()
		r.source.WriteString(before)
		return
	}
	defer cleanup()

	result, err := pipeline.Run(path, pipeline.StageSema)
	if err != nil {
		diagnostic.Print(out, err)
		r.source.Reset()
		r.source.WriteString(before)
		return
	}

	last := lastDefinition(result.Program)
	if last == nil {
		return
	}
	printDefType(out, result, last)
}

func lastDefinition(prog *ast.Program) ast.Definition {
	if prog == nil || len(prog.Definitions) == 0 {
		return nil
	}
	return prog.Definitions[len(prog.Definitions)-1]
}

func printDefType(out io.Writer, result *pipeline.Result, def ast.Definition) {
	switch d := def.(type) {
	case *ast.LetDef:
		for _, one := range d.Defs {
			ty, ok := result.Sema.ResolvedType(one)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%s : %s\n", green(one.ID), ty.String())
		}
	case *ast.TypeDef:
		for _, tdef := range d.TDefs {
			fmt.Fprintf(out, "%s : type\n", green(tdef.ID))
		}
	}
}

func writeScratch(src string) (string, func(), error) {
	f, err := os.CreateTemp("", "llamac-repl-*.llama")
	if err != nil {
		return "", nil, err
	}
	if _, err := f.WriteString(src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	f.Close()
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
