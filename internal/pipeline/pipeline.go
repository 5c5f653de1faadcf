// Package pipeline wires the scanner, lexer, parser and semantic
// analyzer into the stages the CLI exposes through --stop-after.
package pipeline

import (
	"fmt"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/lexer"
	"github.com/llamalang/llamac/internal/parser"
	"github.com/llamalang/llamac/internal/scanner"
	"github.com/llamalang/llamac/internal/sema"
)

// Stage names the point at which Run should stop.
type Stage int

const (
	StageScan Stage = iota
	StageLex
	StageParse
	StageSema
)

// ParseStage maps a --stop-after flag value to a Stage.
func ParseStage(s string) (Stage, error) {
	switch s {
	case "scan":
		return StageScan, nil
	case "lex":
		return StageLex, nil
	case "parse":
		return StageParse, nil
	case "sema", "":
		return StageSema, nil
	default:
		return 0, fmt.Errorf("unknown stage %q", s)
	}
}

// Result is whatever the pipeline managed to produce before stopping,
// at whichever stage the caller asked for.
type Result struct {
	Stage   Stage
	Events  []scanner.Event
	Tokens  []interface{ String() string }
	Program *ast.Program
	Sema    *sema.Result
}

// Run scans, lexes, parses and (unless stage stops it earlier)
// type-checks path, returning the first error encountered.
func Run(path string, stage Stage) (*Result, error) {
	sc, err := scanner.New(path)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	if stage == StageScan {
		var events []scanner.Event
		for {
			ev, ok, err := sc.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			events = append(events, ev)
		}
		return &Result{Stage: stage, Events: events}, nil
	}

	lx := lexer.New(sc)

	if stage == StageLex {
		var toks []interface{ String() string }
		for {
			tok, err := lx.NextToken()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			if tok.Kind == 0 { // token.EOF
				break
			}
		}
		return &Result{Stage: stage, Tokens: toks}, nil
	}

	p, err := parser.New(lx)
	if err != nil {
		return nil, err
	}
	prog, err := p.Program()
	if err != nil {
		return nil, err
	}
	if stage == StageParse {
		return &Result{Stage: stage, Program: prog}, nil
	}

	result, err := sema.Analyze(prog)
	if err != nil {
		return nil, err
	}
	return &Result{Stage: stage, Program: prog, Sema: result}, nil
}
