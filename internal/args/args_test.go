package args

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/types"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		mode Mode
		typ  string
	}{
		{
			name: "empty",
			src:  "",
			mode: ModeErrorOmitted,
		},
		{
			name: "spaces only",
			src:  "   ",
			mode: ModeErrorOmitted,
		},
		{
			name: "underscore",
			src:  " _ ",
			mode: ModeErrorOmitted,
		},
		{
			name: "option",
			src:  "as Option",
			mode: ModeOption,
		},
		{
			name: "alias keyword style",
			src:  "as throws.Fallible",
			mode: ModeAliasResult,
			typ:  "throws.Fallible",
		},
		{
			name: "alias option keyword style",
			src:  "as option Maybe",
			mode: ModeAliasOption,
			typ:  "Maybe",
		},
		{
			name: "alias generic param style",
			src:  "iox.Result[_]",
			mode: ModeAliasResult,
			typ:  "iox.Result",
		},
		{
			name: "alias option generic param style",
			src:  "option throws.Maybe[_]",
			mode: ModeAliasOption,
			typ:  "throws.Maybe",
		},
		{
			name: "builtin error",
			src:  "error",
			mode: ModeErrorType,
			typ:  "error",
		},
		{
			name: "pointer error",
			src:  "*fs.PathError",
			mode: ModeErrorType,
			typ:  "*fs.PathError",
		},
		{
			name: "generic error",
			src:  "Failure[int, string]",
			mode: ModeErrorType,
			typ:  "Failure[int, string]",
		},
		{
			name: "array error",
			src:  "[4]byte",
			mode: ModeErrorType,
			typ:  "[4]byte",
		},
		{
			name: "word prefixed by a keyword",
			src:  "assert.Failure",
			mode: ModeErrorType,
			typ:  "assert.Failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("parse %q: %s", tt.src, err)
			}

			if a.Mode != tt.mode {
				t.Errorf("mode mismatch: got %s, want %s", a.Mode, tt.mode)
			}

			var got string
			if a.Type != nil {
				got = types.ExprString(a.Type)
			}
			if got != tt.typ {
				t.Errorf("type mismatch: got %q, want %q", got, tt.typ)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
	}{
		{
			name:   "as without name",
			src:    "as",
			offset: 2,
		},
		{
			name:   "as with call",
			src:    "as  foo()",
			offset: 4,
		},
		{
			name:   "option without generic parameter",
			src:    "option Maybe",
			offset: 7,
		},
		{
			name:   "literal",
			src:    `"error"`,
			offset: 0,
		},
		{
			name:   "binary expression",
			src:    " a + b",
			offset: 1,
		},
		{
			name:   "call inside a type",
			src:    "[]f()",
			offset: 3,
		},
		{
			name:   "conversion of a qualified type",
			src:    "io.Reader(nil)",
			offset: 9,
		},
		{
			name:   "syntax error",
			src:    "map[string",
			offset: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("error was expected for %q", tt.src)
			}

			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("syntax error was expected, got %T: %s", err, err)
			}

			if serr.Offset != tt.offset {
				t.Errorf("offset mismatch: got %d, want %d (%s)", serr.Offset, tt.offset, serr.Msg)
			}
		})
	}
}

func TestModeText(t *testing.T) {
	for m := range modeValueMap {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %s", m, err)
		}

		var got Mode
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %s", text, err)
		}
		if got != m {
			t.Errorf("got %s, want %s", got, m)
		}
	}

	var m Mode
	if err := m.UnmarshalText([]byte("result")); err == nil {
		t.Error("error was expected for an unknown mode")
	}
}

func TestRet(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		results string
		single  bool
		want    string
		family  Family
	}{
		{
			name:   "omitted unit",
			args:   "",
			want:   "func() Error",
			family: FamilyResult,
		},
		{
			name:    "explicit value",
			args:    "error",
			results: "int",
			want:    "func() (int, error)",
			family:  FamilyResult,
		},
		{
			name:    "named value",
			args:    "error",
			results: "(n int)",
			want:    "func() (n int, _ error)",
			family:  FamilyResult,
		},
		{
			name:    "option",
			args:    "as Option",
			results: "string",
			want:    "func() (string, bool)",
			family:  FamilyOption,
		},
		{
			name:   "option unit",
			args:   "as Option",
			want:   "func() bool",
			family: FamilyOption,
		},
		{
			name:    "alias",
			args:    "as iox.Result",
			results: "[]byte",
			want:    "func() iox.Result[[]byte]",
			family:  FamilyContainer,
		},
		{
			name:   "alias unit",
			args:   "as option Maybe",
			want:   "func() Maybe[struct{}]",
			family: FamilyContainer,
		},
		{
			name:    "async result",
			args:    "error",
			results: "int",
			single:  true,
			want:    "func() throws.Result[int, error]",
			family:  FamilyContainer,
		},
		{
			name:   "async option unit",
			args:   "as Option",
			single: true,
			want:   "func() throws.Option[struct{}]",
			family: FamilyContainer,
		},
		{
			name:    "capability set",
			args:    "error",
			results: "interface{ Close() error }",
			want:    "func() (interface{Close() error}, error)",
			family:  FamilyResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.args)
			if err != nil {
				t.Fatalf("parse args: %s", err)
			}

			ft := funcType(t, tt.results)
			res, err := a.Ret(ft.Results, Options{Runtime: "throws", Single: tt.single})
			if err != nil {
				t.Fatalf("resolve results: %s", err)
			}

			ft.Results = res.Results
			if got := types.ExprString(ft); got != tt.want {
				t.Errorf("signature mismatch: got %q, want %q", got, tt.want)
			}
			if res.Target.Family != tt.family {
				t.Errorf("family mismatch: got %s, want %s", res.Target.Family, tt.family)
			}
		})
	}
}

func TestRetErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		results string
		err     error
	}{
		{
			name:    "multiple results",
			args:    "error",
			results: "(int, string)",
			err:     ErrMultipleResults,
		},
		{
			name:    "multiple names",
			args:    "error",
			results: "(a, b int)",
			err:     ErrMultipleResults,
		},
		{
			name:    "named container",
			args:    "as throws.Fallible",
			results: "(n int)",
			err:     ErrNamedContainer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.args)
			if err != nil {
				t.Fatalf("parse args: %s", err)
			}

			_, err = a.Ret(funcType(t, tt.results).Results, Options{Runtime: "throws"})
			if !errors.Is(err, tt.err) {
				t.Fatalf("got %v, want %v", err, tt.err)
			}
		})
	}
}

func TestDeclared(t *testing.T) {
	tests := []struct {
		name     string
		results  string
		single   bool
		family   Family
		unit     bool
		keepBare bool
		presence bool
		err      error
	}{
		{
			name:    "error only",
			results: "error",
			family:  FamilyResult,
			unit:    true,
		},
		{
			name:    "value and error",
			results: "(int, error)",
			family:  FamilyResult,
		},
		{
			name:     "comma ok",
			results:  "(string, bool)",
			family:   FamilyOption,
			presence: true,
		},
		{
			name:     "bool only",
			results:  "bool",
			family:   FamilyOption,
			unit:     true,
			presence: true,
		},
		{
			name:    "generic container",
			results: "throws.Fallible[int]",
			family:  FamilyContainer,
			unit:    true,
		},
		{
			name:     "runtime option",
			results:  "throws.Option[int]",
			family:   FamilyContainer,
			unit:     true,
			presence: true,
		},
		{
			name:     "runtime option alias in a single value shape",
			results:  "throws.Maybe[string]",
			single:   true,
			family:   FamilyContainer,
			unit:     true,
			presence: true,
		},
		{
			name:    "option of another package",
			results: "other.Option[int]",
			family:  FamilyContainer,
			unit:    true,
		},
		{
			name:    "single value shape",
			results: "Custom",
			single:  true,
			family:  FamilyContainer,
			unit:    true,
		},
		{
			name:     "named",
			results:  "(n int, err error)",
			family:   FamilyResult,
			keepBare: true,
		},
		{
			name: "no results",
			err:  ErrNoResults,
		},
		{
			name:    "too many results",
			results: "(int, int, error)",
			err:     ErrMultipleResults,
		},
		{
			name:    "tuple for a single value shape",
			results: "(int, error)",
			single:  true,
			err:     ErrMultipleResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Declared(funcType(t, tt.results).Results, Options{Runtime: "throws", Single: tt.single})
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("got %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("classify results: %s", err)
			}

			if target.Family != tt.family {
				t.Errorf("family mismatch: got %s, want %s", target.Family, tt.family)
			}
			if target.Unit() != tt.unit {
				t.Errorf("unit mismatch: got %v, want %v", target.Unit(), tt.unit)
			}
			if target.KeepBare != tt.keepBare {
				t.Errorf("keep bare mismatch: got %v, want %v", target.KeepBare, tt.keepBare)
			}
			if target.Presence != tt.presence {
				t.Errorf("presence mismatch: got %v, want %v", target.Presence, tt.presence)
			}
		})
	}
}

func funcType(t *testing.T, results string) *ast.FuncType {
	t.Helper()

	e, err := parser.ParseExpr("func() " + results)
	if err != nil {
		t.Fatalf("parse results %q: %s", results, err)
	}

	return e.(*ast.FuncType)
}
