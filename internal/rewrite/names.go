package rewrite

import (
	"go/ast"
	"strconv"
)

// Names hands out identifiers not used anywhere in a file. Temporaries of marker expansions get them.
type Names struct {
	used map[string]struct{}
}

// NewNames collects identifiers of the given nodes.
func NewNames(nodes ...ast.Node) *Names {
	n := &Names{used: map[string]struct{}{}}
	for _, node := range nodes {
		if node == nil {
			continue
		}

		ast.Inspect(node, func(x ast.Node) bool {
			if id, ok := x.(*ast.Ident); ok {
				n.used[id.Name] = struct{}{}
			}
			return true
		})
	}

	return n
}

// Fresh returns base or base with the smallest numeric suffix not used yet and reserves it.
func (n *Names) Fresh(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, ok := n.used[name]; !ok {
			break
		}
		name = base + strconv.Itoa(i)
	}

	n.used[name] = struct{}{}
	return name
}
