package rewrite

import (
	"go/ast"
	"go/token"
)

// isTerminatingList reports whether the statement list ends with a terminating statement in terms of the
// language, with calls of abandon functions counted as terminating too.
func isTerminatingList(list []ast.Stmt, a *AbandonFuncs, imports map[string]string) bool {
	t := terminator{abandon: a, imports: imports}
	return t.list(list)
}

type terminator struct {
	abandon *AbandonFuncs
	imports map[string]string
}

func (t terminator) list(list []ast.Stmt) bool {
	// Trailing empty statements do not count.
	for len(list) > 0 {
		if _, ok := list[len(list)-1].(*ast.EmptyStmt); !ok {
			break
		}
		list = list[:len(list)-1]
	}
	if len(list) == 0 {
		return false
	}

	return t.stmt(list[len(list)-1], "")
}

func (t terminator) stmt(s ast.Stmt, label string) bool {
	switch s := s.(type) {
	case *ast.ReturnStmt:
		return true

	case *ast.BranchStmt:
		return s.Tok == token.GOTO || s.Tok == token.FALLTHROUGH

	case *ast.ExprStmt:
		call, ok := s.X.(*ast.CallExpr)
		return ok && t.abandon.Is(call, t.imports)

	case *ast.BlockStmt:
		return t.list(s.List)

	case *ast.IfStmt:
		if s.Else == nil {
			return false
		}
		return t.list(s.Body.List) && t.stmt(s.Else, "")

	case *ast.ForStmt:
		return s.Cond == nil && !hasBreak(s.Body, label, true)

	case *ast.LabeledStmt:
		return t.stmt(s.Stmt, s.Label.Name)

	case *ast.SwitchStmt:
		return t.clauses(s.Body, label)

	case *ast.TypeSwitchStmt:
		return t.clauses(s.Body, label)

	case *ast.SelectStmt:
		for _, cc := range s.Body.List {
			cc := cc.(*ast.CommClause)
			if !t.list(cc.Body) || hasBreakList(cc.Body, label, true) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// clauses checks switch bodies: a default is required and every clause must terminate without breaking out.
func (t terminator) clauses(body *ast.BlockStmt, label string) bool {
	var hasDefault bool
	for _, c := range body.List {
		cc := c.(*ast.CaseClause)
		if cc.List == nil {
			hasDefault = true
		}

		if !t.list(cc.Body) || hasBreakList(cc.Body, label, true) {
			return false
		}
	}

	return hasDefault
}

// hasBreak checks if s has a break leaving the statement of the given label. Unlabeled breaks count only when
// implicit is set, i.e. when they are not nested into another breakable statement.
func hasBreak(s ast.Stmt, label string, implicit bool) bool {
	switch s := s.(type) {
	case *ast.BranchStmt:
		if s.Tok != token.BREAK {
			return false
		}
		if s.Label == nil {
			return implicit
		}
		return s.Label.Name == label

	case *ast.BlockStmt:
		return hasBreakList(s.List, label, implicit)

	case *ast.IfStmt:
		if hasBreak(s.Body, label, implicit) {
			return true
		}
		return s.Else != nil && hasBreak(s.Else, label, implicit)

	case *ast.LabeledStmt:
		return hasBreak(s.Stmt, label, implicit)

	case *ast.CaseClause:
		return hasBreakList(s.Body, label, implicit)

	case *ast.CommClause:
		return hasBreakList(s.Body, label, implicit)

	case *ast.ForStmt:
		return label != "" && hasBreak(s.Body, label, false)

	case *ast.RangeStmt:
		return label != "" && hasBreak(s.Body, label, false)

	case *ast.SwitchStmt:
		return label != "" && hasBreak(s.Body, label, false)

	case *ast.TypeSwitchStmt:
		return label != "" && hasBreak(s.Body, label, false)

	case *ast.SelectStmt:
		return label != "" && hasBreak(s.Body, label, false)

	default:
		return false
	}
}

func hasBreakList(list []ast.Stmt, label string, implicit bool) bool {
	for _, s := range list {
		if hasBreak(s, label, implicit) {
			return true
		}
	}
	return false
}
