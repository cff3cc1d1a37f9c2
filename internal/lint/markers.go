package lint

import (
	"go/ast"
	"go/types"
	"maps"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/sirkon/throws/internal/rewrite"
)

// knownMarkers resolves calls of marker functions of runtime packages.
type knownMarkers struct {
	known map[rewrite.PackagedFunc]rewrite.Marker
}

func newKnownMarkers(custom []string) *knownMarkers {
	predefined := markersOf(rewrite.RuntimePath)

	known := make(map[rewrite.PackagedFunc]rewrite.Marker, len(predefined)*(len(custom)+1))
	for _, pkgPath := range custom {
		maps.Insert(known, maps.All(markersOf(pkgPath)))
	}

	// Merge custom and predefined defs.
	maps.Insert(known, maps.All(predefined))

	return &knownMarkers{known: known}
}

func markersOf(pkgPath string) map[rewrite.PackagedFunc]rewrite.Marker {
	res := map[rewrite.PackagedFunc]rewrite.Marker{}
	for _, m := range rewrite.Markers() {
		res[rewrite.PackagedFunc{PkgPath: pkgPath, Name: m.String()}] = m
	}

	return res
}

// markerOf returns the marker the call refers to.
func (k *knownMarkers) markerOf(info *types.Info, call *ast.CallExpr) rewrite.Marker {
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	if !ok {
		// Builtins, variables and dynamic calls.
		return rewrite.MarkerNone
	}

	pkg := fn.Pkg()
	if pkg == nil {
		return rewrite.MarkerNone
	}

	m, ok := k.known[rewrite.PackagedFunc{
		PkgPath: pkg.Path(),
		Name:    fn.Name(),
	}]
	if !ok {
		return rewrite.MarkerNone
	}

	return m
}
