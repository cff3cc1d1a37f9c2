package rewrite

import (
	"go/ast"
	"maps"
	"path"
	"strconv"
	"strings"
)

// PackagedFunc is a package level function.
type PackagedFunc struct {
	PkgPath string
	Name    string
}

// AbandonFuncs are known for stopping current func execution or even stopping the whole program.
// Calls of them end a function the same way return does, so no return is appended after them.
type AbandonFuncs struct {
	known map[PackagedFunc]struct{}
}

// NewAbandonFuncs merges custom functions with predefined ones.
func NewAbandonFuncs(custom ...PackagedFunc) *AbandonFuncs {
	predefined := map[PackagedFunc]struct{}{
		// Stdlib.
		{PkgPath: "builtin", Name: "panic"}: {},
		{PkgPath: "os", Name: "Exit"}:       {},
		{PkgPath: "log", Name: "Fatal"}:     {},
		{PkgPath: "log", Name: "Fatalf"}:    {},
		{PkgPath: "log", Name: "Fatalln"}:   {},
		{PkgPath: "log", Name: "Panic"}:     {},
		{PkgPath: "log", Name: "Panicf"}:    {},
		{PkgPath: "log", Name: "Panicln"}:   {},
		{PkgPath: "runtime", Name: "Goexit"}: {},
	}

	known := make(map[PackagedFunc]struct{}, len(predefined)+len(custom))
	for _, f := range custom {
		known[f] = struct{}{}
	}
	maps.Insert(known, maps.All(predefined))

	return &AbandonFuncs{known: known}
}

// Is checks if the call is a call of a known abandon function. Package references are resolved with the
// imports of the file: local name to import path.
func (a *AbandonFuncs) Is(call *ast.CallExpr, imports map[string]string) bool {
	var f PackagedFunc
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		f = PackagedFunc{PkgPath: "builtin", Name: fun.Name}
	case *ast.SelectorExpr:
		x, ok := fun.X.(*ast.Ident)
		if !ok {
			return false
		}
		p, ok := imports[x.Name]
		if !ok {
			return false
		}
		f = PackagedFunc{PkgPath: p, Name: fun.Sel.Name}
	default:
		return false
	}

	_, ok := a.known[f]
	return ok
}

// FileImports maps local names of imported packages to their paths. Blank imports are skipped and
// dot imports are not resolvable by name, so they are skipped too.
func FileImports(file *ast.File) map[string]string {
	res := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := DefaultImportName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}

		res[name] = p
	}

	return res
}

// DefaultImportName guesses the package name of an import path: the last element, skipping major version
// suffixes and the gopkg.in style ones.
func DefaultImportName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		if dir := path.Dir(importPath); dir != "." {
			base = path.Base(dir)
		}
	}

	if i := strings.Index(base, ".v"); i > 0 && isDigits(base[i+2:]) {
		base = base[:i]
	}

	return strings.TrimPrefix(strings.ReplaceAll(base, "-", "_"), "go_")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
