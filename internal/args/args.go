// Package args interprets the arguments of throws directives and expression markers and resolves what the
// rewritten function returns.
package args

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
	"unicode"

	"github.com/sirkon/throws/internal/astx"
)

// Args is the interpreted argument of a single invocation.
type Args struct {
	Mode Mode

	// Type is the error type for ModeErrorType and the container name for alias modes.
	Type ast.Expr
}

// SyntaxError points to the offending part of the argument text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// Parse interprets the argument text. Grammars are tried in order and the first match wins:
//
//	""  or  "_"                  ModeErrorOmitted
//	"as Option"                  ModeOption
//	"as P", "P[_]"               ModeAliasResult
//	"as option P", "option P[_]" ModeAliasOption
//	any other type expression    ModeErrorType
func Parse(src string) (*Args, error) {
	s, off := trim(src, 0)
	if s == "" || s == "_" {
		return &Args{Mode: ModeErrorOmitted}, nil
	}

	if rest, roff, ok := keyword(s, off, "as"); ok {
		return parseAs(rest, roff)
	}

	if rest, roff, ok := keyword(s, off, "option"); ok {
		p, err := parseGenericParam(rest, roff)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, &SyntaxError{Offset: roff, Msg: "expected P[_] after option"}
		}

		return &Args{Mode: ModeAliasOption, Type: p}, nil
	}

	e, err := parseExpr(s, off)
	if err != nil {
		return nil, err
	}

	if p := genericParam(e); p != nil {
		return &Args{Mode: ModeAliasResult, Type: p}, nil
	}

	if bad := nonType(e); bad != nil {
		return nil, &SyntaxError{
			Offset: off + int(badPos(bad)-e.Pos()),
			Msg:    fmt.Sprintf("expected an error type, found %s", describe(bad)),
		}
	}

	return &Args{Mode: ModeErrorType, Type: astx.Clone(e)}, nil
}

func parseAs(s string, off int) (*Args, error) {
	if s == "" {
		return nil, &SyntaxError{Offset: off, Msg: "expected Option or a container name after as"}
	}

	if s == "Option" {
		return &Args{Mode: ModeOption}, nil
	}

	mode := ModeAliasResult
	if rest, roff, ok := keyword(s, off, "option"); ok {
		mode = ModeAliasOption
		s, off = rest, roff
	}

	p, err := parsePath(s, off)
	if err != nil {
		return nil, err
	}

	return &Args{Mode: mode, Type: p}, nil
}

// parseGenericParam parses P[_]. It returns nil without an error for well-formed expressions of other kinds.
func parseGenericParam(s string, off int) (ast.Expr, error) {
	if s == "" {
		return nil, &SyntaxError{Offset: off, Msg: "expected P[_]"}
	}

	e, err := parseExpr(s, off)
	if err != nil {
		return nil, err
	}

	return genericParam(e), nil
}

func genericParam(e ast.Expr) ast.Expr {
	ie, ok := e.(*ast.IndexExpr)
	if !ok || !astx.IsIdent(ie.Index, "_") || !isPath(ie.X) {
		return nil
	}

	return astx.Clone(ie.X)
}

func parsePath(s string, off int) (ast.Expr, error) {
	if s == "" {
		return nil, &SyntaxError{Offset: off, Msg: "expected a container name"}
	}

	e, err := parseExpr(s, off)
	if err != nil {
		return nil, err
	}

	if !isPath(e) {
		return nil, &SyntaxError{
			Offset: off,
			Msg:    fmt.Sprintf("expected a container name or pkg.Name, found %s", describe(e)),
		}
	}

	return astx.Clone(e), nil
}

func parseExpr(s string, off int) (ast.Expr, error) {
	e, err := parser.ParseExprFrom(token.NewFileSet(), "", s, 0)
	if err == nil {
		return e, nil
	}

	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return nil, &SyntaxError{Offset: off + list[0].Pos.Offset, Msg: list[0].Msg}
	}

	return nil, &SyntaxError{Offset: off, Msg: err.Error()}
}

func isPath(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Name != "_"
	case *ast.SelectorExpr:
		_, ok := v.X.(*ast.Ident)
		return ok
	default:
		return false
	}
}

// nonType returns the first subexpression that cannot be a part of a type.
func nonType(e ast.Expr) ast.Node {
	var bad ast.Node
	ast.Inspect(e, func(n ast.Node) bool {
		if bad != nil {
			return false
		}

		switch v := n.(type) {
		case *ast.Ident:
			if v.Name == "_" {
				bad = v
			}
		case *ast.BasicLit:
			// Array lengths.
			if v.Kind != token.INT {
				bad = v
			}
		case *ast.ArrayType:
			if v.Len != nil {
				if _, ok := v.Len.(*ast.BasicLit); !ok {
					if !isPath(v.Len) {
						bad = v.Len
					}
				}
			}
		case *ast.CallExpr, *ast.BinaryExpr, *ast.UnaryExpr, *ast.CompositeLit, *ast.FuncLit,
			*ast.SliceExpr, *ast.TypeAssertExpr, *ast.KeyValueExpr, *ast.Ellipsis:
			bad = n
		}

		return bad == nil
	})

	if lit, ok := e.(*ast.BasicLit); ok {
		return lit
	}

	return bad
}

// badPos points conversions and calls at their argument list: the part before it is a valid type.
func badPos(n ast.Node) token.Pos {
	if call, ok := n.(*ast.CallExpr); ok {
		return call.Lparen
	}
	return n.Pos()
}

func describe(n ast.Node) string {
	switch v := n.(type) {
	case *ast.BasicLit:
		return "literal " + v.Value
	case *ast.Ident:
		return "identifier " + v.Name
	case *ast.CallExpr:
		return "call expression"
	case *ast.BinaryExpr:
		return "binary expression " + v.Op.String()
	case *ast.UnaryExpr:
		return "unary expression " + v.Op.String()
	case *ast.CompositeLit:
		return "composite literal"
	case *ast.FuncLit:
		return "function literal"
	default:
		return fmt.Sprintf("%T", n)
	}
}

func trim(s string, off int) (string, int) {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	off += len(s) - len(trimmed)
	return strings.TrimRightFunc(trimmed, unicode.IsSpace), off
}

// keyword matches a leading word followed by a space or the end of the text.
func keyword(s string, off int, word string) (string, int, bool) {
	if !strings.HasPrefix(s, word) {
		return "", 0, false
	}

	rest := s[len(word):]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return "", 0, false
	}

	rest, roff := trim(rest, off+len(word))
	return rest, roff, true
}
