package config

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirkon/throws/internal/rewrite"
)

// Reference is a package level function in the "pkg/path".Name text form.
type Reference struct {
	Package string
	Name    string
}

// Func converts the reference into the form the rewriter matches calls with.
func (r Reference) Func() rewrite.PackagedFunc {
	return rewrite.PackagedFunc{
		PkgPath: r.Package,
		Name:    r.Name,
	}
}

var (
	_ encoding.TextUnmarshaler = (*Reference)(nil)
	_ encoding.TextMarshaler   = Reference{}
)

func (r *Reference) UnmarshalText(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "" {
		return errors.New("empty reference")
	}

	if !strings.HasPrefix(s, `"`) {
		return fmt.Errorf("reference must start with quoted package: %q", s)
	}
	end := strings.Index(s[1:], `"`)
	if end < 0 {
		return fmt.Errorf("unterminated quoted package in reference: %q", s)
	}
	end++

	pkg := s[1:end]
	if pkg == "" {
		return fmt.Errorf("package cannot be empty in reference: %q", s)
	}

	rest, ok := strings.CutPrefix(s[end+1:], ".")
	if !ok || rest == "" {
		return fmt.Errorf("reference must contain a name: %q", s)
	}
	if !isIdent(rest) {
		return fmt.Errorf("invalid identifier %q in reference %q", rest, s)
	}

	r.Package = pkg
	r.Name = rest
	return nil
}

func (r Reference) MarshalText() ([]byte, error) {
	if r.Package == "" {
		return nil, fmt.Errorf("cannot marshal Reference: empty Package")
	}
	if r.Name == "" {
		return nil, fmt.Errorf("cannot marshal Reference: empty Name")
	}

	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(r.Package)
	b.WriteString(`".`)
	b.WriteString(r.Name)
	return []byte(b.String()), nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
