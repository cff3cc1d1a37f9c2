package expand

import (
	"fmt"
	"go/ast"
	"slices"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/sirkon/throws/internal/diag"
	"github.com/sirkon/throws/internal/rewrite"
	"github.com/sirkon/throws/internal/scope"
)

// findRuntime looks for the runtime import. Without one, generated code refers to the first runtime path by its
// default name and the import is added when needed.
func (x *expansion) findRuntime() {
	for _, spec := range x.file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || !slices.Contains(x.e.opts.Runtime, p) {
			continue
		}

		name := rewrite.DefaultImportName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" {
			continue
		}
		if name == "." {
			name = ""
		}

		x.runtime = name
		x.path = p
		x.spec = spec
		return
	}

	x.path = x.e.opts.Runtime[0]
	x.runtime = rewrite.DefaultImportName(x.path)
}

// fixImports adds the runtime import when generated code refers to it and drops it when nothing does anymore.
func (x *expansion) fixImports() {
	if !x.changed {
		return
	}

	if x.spec == nil {
		if usesQualifier(x.file, x.runtime) {
			astutil.AddImport(x.fset, x.file, x.path)
		}
		return
	}

	// Dot imports cannot be checked for uses.
	if x.runtime == "" || usesQualifier(x.file, x.runtime) {
		return
	}

	var name string
	if x.spec.Name != nil {
		name = x.spec.Name.Name
	}
	astutil.DeleteNamedImport(x.fset, x.file, name, x.path)
}

func usesQualifier(file *ast.File, name string) bool {
	var used bool
	ast.Inspect(file, func(n ast.Node) bool {
		if used {
			return false
		}

		sel, ok := n.(*ast.SelectorExpr)
		if ok {
			if id, ok := sel.X.(*ast.Ident); ok && id.Name == name {
				used = true
			}
		}
		return true
	})

	return used
}

// unexpanded warns about propagation markers left in the file. Nothing rewrites them, they panic when reached.
func (x *expansion) unexpanded() {
	if x.spec == nil {
		return
	}

	var tree *scope.Tree
	ast.Inspect(x.file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		m := rewrite.MarkerOf(x.runtime, call)
		if !m.IsPropagation() {
			return true
		}

		if tree == nil {
			tree = scope.FromFile(x.fset, x.file, func(n ast.Node) bool {
				return x.claimed[n]
			})
		}

		where := "package scope"
		if s := tree.Innermost(call.Pos()); s != nil {
			where = s.Name
		}
		x.report(
			diag.PhaseExpand,
			diag.MarkerOutsideScope(),
			fmt.Sprintf("throws.%s in %s is not in a rewritten function and will panic at runtime", m, where),
			call.Pos(),
		)
		return true
	})
}
