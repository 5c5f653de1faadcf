// Package scanner turns one or more source files into a lazy sequence
// of line events, resolving `#include "path"` directives as it goes.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EventKind distinguishes the two kinds of events the Scanner emits.
type EventKind int

const (
	// Line carries one logical line of source text.
	Line EventKind = iota
	// FileChange reports that subsequent Line events belong to a new
	// current file (pushed by an #include, or popped back to the includer).
	FileChange
)

// Event is one item of the scanner's output sequence.
type Event struct {
	Kind     EventKind
	Text     string // meaningful when Kind == Line
	LineNo   int    // 1-based line number within File
	File     string // current file after this event
}

// IncludeCycleError reports a #include cycle, carrying the chain of
// files from the outermost include down to the file that would close
// the cycle.
type IncludeCycleError struct {
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("include cycle detected: %s", strings.Join(e.Chain, " -> "))
}

// Scanner reads a stack of files, flattening #include directives into
// a single ordered stream of line events.
type Scanner struct {
	stack   []*frame
	openSet map[string]bool // canonical paths currently open, for cycle detection
	done    bool
}

type frame struct {
	path    string
	reader  *bufio.Reader
	file    *os.File
	lineNo  int
	pending string // a synthetic empty line to emit in place of a consumed #include
	hasPending bool
}

// New creates a Scanner whose root file is path.
func New(path string) (*Scanner, error) {
	s := &Scanner{openSet: make(map[string]bool)}
	if err := s.push(path); err != nil {
		return nil, err
	}
	return s, nil
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func (s *Scanner) push(path string) error {
	canon := canonical(path)
	if s.openSet[canon] {
		chain := make([]string, 0, len(s.stack)+1)
		for _, f := range s.stack {
			chain = append(chain, f.path)
		}
		chain = append(chain, path)
		return &IncludeCycleError{Chain: chain}
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scanner: cannot open %q: %w", path, err)
	}
	s.openSet[canon] = true
	s.stack = append(s.stack, &frame{
		path:   path,
		reader: bufio.NewReader(f),
		file:   f,
	})
	return nil
}

func (s *Scanner) popCurrent() {
	top := s.stack[len(s.stack)-1]
	delete(s.openSet, canonical(top.path))
	top.file.Close()
	s.stack = s.stack[:len(s.stack)-1]
}

// Next returns the next event, or (Event{}, false, nil) at end of
// input. It returns an error if an #include target cannot be opened or
// would form a cycle.
func (s *Scanner) Next() (Event, bool, error) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]

		if top.hasPending {
			top.hasPending = false
			// The #include line already consumed its own line number when
			// it was read below; this blank event replaces its text without
			// advancing the counter again.
			return Event{Kind: Line, Text: "", LineNo: top.lineNo, File: top.path}, true, nil
		}

		raw, err := top.reader.ReadString('\n')
		if len(raw) == 0 && err != nil {
			s.popCurrent()
			if len(s.stack) == 0 {
				break
			}
			resumed := s.stack[len(s.stack)-1]
			return Event{Kind: FileChange, File: resumed.path}, true, nil
		}
		line := strings.TrimRight(raw, "\r\n")
		top.lineNo++

		if path, ok := includeDirective(line); ok {
			includePath := resolveInclude(top.path, path)
			if err := s.push(includePath); err != nil {
				return Event{}, false, err
			}
			// The #include line itself is replaced by an empty line so
			// downstream line numbers in the includer stay exact; it is
			// emitted lazily once the included file is fully drained.
			top.hasPending = true
			pushed := s.stack[len(s.stack)-1]
			return Event{Kind: FileChange, File: pushed.path}, true, nil
		}

		return Event{Kind: Line, Text: line, LineNo: top.lineNo, File: top.path}, true, nil
	}
	return Event{}, false, nil
}

// includeDirective recognizes `#include "path"` at the start of a
// logical line (leading whitespace permitted, nothing else on the line).
func includeDirective(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#include") {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[len("#include"):])
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

func resolveInclude(fromFile, includePath string) string {
	if filepath.IsAbs(includePath) {
		return includePath
	}
	return filepath.Join(filepath.Dir(fromFile), includePath)
}

// Close releases all open file handles, in case the caller abandons
// the scanner before draining it.
func (s *Scanner) Close() {
	for len(s.stack) > 0 {
		s.popCurrent()
	}
}
