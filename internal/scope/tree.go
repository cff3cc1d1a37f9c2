// Package scope indexes function-like nodes of a file by their source spans, so the innermost function
// enclosing any position can be found. The generator and the linter use it to tell whether a propagation marker
// belongs to a rewritten function.
package scope

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/sirkon/rbtree"

	"github.com/sirkon/throws/internal/astx"
)

// Scope is a function-like node: a function, a method or a function literal.
type Scope struct {
	Node ast.Node
	Name string

	// Claimed is set for scopes rewritten by throws.
	Claimed bool

	start token.Pos
	end   token.Pos

	// inner keeps scopes nested into this one, disjoint with each other.
	inner *rbtree.Tree[*Scope]
}

// Cmp orders scopes of the same nesting level. Overlapping scopes compare equal: in Go sources they always nest.
func (s *Scope) Cmp(other *Scope) int {
	switch {
	case s.end < other.start:
		return -1
	case s.start > other.end:
		return 1
	default:
		return 0
	}
}

func (s *Scope) encloses(other *Scope) bool {
	return s.start <= other.start && other.end <= s.end
}

func (s *Scope) covers(pos token.Pos) bool {
	return s.start <= pos && pos <= s.end
}

// Tree holds scopes of a single file.
type Tree struct {
	top *rbtree.Tree[*Scope]
}

func New() *Tree {
	return &Tree{top: rbtree.New[*Scope]()}
}

// Add registers a scope with its [start,end] token span. Scopes can be added in any order.
func (t *Tree) Add(s *Scope, start, end token.Pos) {
	s.start = start
	s.end = end
	place(t.top, s)
}

// place puts s into the level. An overlapping scope of the level either takes s in or moves into s itself,
// which is repeated until s fits among the rest.
func place(level *rbtree.Tree[*Scope], s *Scope) {
	for {
		r := level.InsertReturn(s)
		switch {
		case r == s:
			return

		case r.encloses(s):
			if r.inner == nil {
				r.inner = rbtree.New[*Scope]()
			}
			level = r.inner

		case s.encloses(r):
			level.Delete(r)
			if s.inner == nil {
				s.inner = rbtree.New[*Scope]()
			}
			place(s.inner, r)

		default:
			panic(fmt.Sprintf("scope %s partially overlaps %s", s.Name, r.Name))
		}
	}
}

// Innermost returns the most specific scope covering pos. It is nil for positions outside any function.
func (t *Tree) Innermost(pos token.Pos) *Scope {
	var res *Scope
	for level := t.top; level != nil; {
		s := covering(level, pos)
		if s == nil {
			break
		}

		res = s
		level = s.inner
	}

	return res
}

func covering(level *rbtree.Tree[*Scope], pos token.Pos) *Scope {
	for s := range level.Iter() {
		if s.covers(pos) {
			return s
		}
	}

	return nil
}

// FromFile registers every function declaration with a body and every function literal of the file.
// claimed tells which of them are rewritten.
func FromFile(fset *token.FileSet, file *ast.File, claimed func(n ast.Node) bool) *Tree {
	t := New()
	ast.Inspect(file, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.FuncDecl:
			if v.Body == nil {
				return false
			}
		case *ast.FuncLit:
		default:
			return true
		}

		t.Add(&Scope{
			Node:    n,
			Name:    astx.FuncName(fset, n),
			Claimed: claimed(n),
		}, n.Pos(), n.End())
		return true
	})

	return t
}
