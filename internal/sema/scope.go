package sema

import "github.com/llamalang/llamac/internal/ast"

// scopeManager is a stack of lexical scopes mapping identifier names to
// the AST node that bound them (spec §4.1). The root scope always
// exists and is never popped.
type scopeManager struct {
	scopes []map[string]ast.Node
}

func newScopeManager() *scopeManager {
	return &scopeManager{scopes: []map[string]ast.Node{{}}}
}

func (s *scopeManager) push() {
	s.scopes = append(s.scopes, map[string]ast.Node{})
}

func (s *scopeManager) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// insert binds name to node in the current (innermost) scope. It
// returns the node previously bound to name in that same scope, if
// any; the core does not itself complain about shadowing.
func (s *scopeManager) insert(name string, node ast.Node) (ast.Node, bool) {
	top := s.scopes[len(s.scopes)-1]
	prev, had := top[name]
	top[name] = node
	return prev, had
}

// lookup walks scopes from innermost to outermost (the root scope
// last).
func (s *scopeManager) lookup(name string) (ast.Node, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if node, ok := s.scopes[i][name]; ok {
			return node, true
		}
	}
	return nil, false
}
