package args

import (
	"errors"
	"go/ast"

	"github.com/sirkon/throws/internal/astx"
)

var (
	// ErrMultipleResults is returned for functions declaring more results than a single value (or a value and
	// its failure slot in the propagation form).
	ErrMultipleResults = errors.New("fallible functions may declare at most one success result")

	// ErrNoResults is returned for propagation form functions without results.
	ErrNoResults = errors.New("propagation form requires a declared container result")

	// ErrNamedContainer is returned for named results of single-type containers.
	ErrNamedContainer = errors.New("results of single-type containers cannot be named")
)

// Options of return type resolution.
type Options struct {
	// Runtime qualifies references to the runtime package. Empty for dot imports.
	Runtime string

	// Single requests a single-type container, what async blocks need.
	Single bool
}

// Target is the resolved container of a rewritten function. It is computed once and only read after that.
type Target struct {
	Family Family

	// Value is the declared success type. Nil for no success value.
	Value ast.Expr

	// Name of the named success result.
	Name *ast.Ident

	// Error is the failure type of FamilyResult.
	Error ast.Expr

	// Container is the whole type of FamilyContainer.
	Container ast.Expr

	// Presence is set for containers without a failure value: Throw can only make them absent.
	Presence bool

	// KeepBare keeps bare returns as they are. Propagation form functions with named results use Go's own
	// semantics for them.
	KeepBare bool
}

// Unit checks if there is no success value.
func (t *Target) Unit() bool {
	return t.Value == nil
}

// Resolution is the final signature of a rewritten function.
type Resolution struct {
	Results *ast.FieldList
	Target  *Target
}

// Ret resolves the final results of a function declaring the given ones.
func (a *Args) Ret(results *ast.FieldList, opts Options) (*Resolution, error) {
	value, name, err := declaredValue(results)
	if err != nil {
		return nil, err
	}

	t := &Target{
		Value: value,
		Name:  name,
	}

	switch a.Mode {
	case ModeErrorType, ModeErrorOmitted:
		errType := astx.Clone(a.Type)
		if a.Mode == ModeErrorOmitted {
			errType = ast.NewIdent("Error")
		}

		if opts.Single {
			t.Family = FamilyContainer
			t.Container = astx.Index(astx.Sel(opts.Runtime, "Result"), valueOrUnit(value), astx.Clone(errType))
			break
		}

		t.Family = FamilyResult
		t.Error = errType

	case ModeOption:
		t.Presence = true
		if opts.Single {
			t.Family = FamilyContainer
			t.Container = astx.Index(astx.Sel(opts.Runtime, "Option"), valueOrUnit(value))
			break
		}

		t.Family = FamilyOption
		t.Error = ast.NewIdent("bool")

	case ModeAliasResult, ModeAliasOption:
		t.Presence = a.Mode == ModeAliasOption
		t.Family = FamilyContainer
		t.Container = astx.Index(astx.Clone(a.Type), valueOrUnit(value))

	default:
		return nil, errors.New("invalid mode " + a.Mode.String())
	}

	if t.Family == FamilyContainer && name != nil {
		return nil, ErrNamedContainer
	}

	return &Resolution{
		Results: finalResults(t),
		Target:  t,
	}, nil
}

// Declared classifies results of propagation form functions. These keep their signature.
func Declared(results *ast.FieldList, opts Options) (*Target, error) {
	type result struct {
		name *ast.Ident
		typ  ast.Expr
	}

	var list []result
	if results != nil {
		for _, f := range results.List {
			if len(f.Names) == 0 {
				list = append(list, result{typ: f.Type})
				continue
			}
			for _, n := range f.Names {
				list = append(list, result{name: n, typ: f.Type})
			}
		}
	}

	switch {
	case len(list) == 0:
		return nil, ErrNoResults
	case len(list) > 2, opts.Single && len(list) > 1:
		return nil, ErrMultipleResults
	}

	t := &Target{
		KeepBare: list[0].name != nil,
	}

	if len(list) == 1 {
		typ := list[0].typ
		switch {
		case opts.Single:
			t.Family = FamilyContainer
			t.Container = astx.Clone(typ)
			t.Presence = isPresenceContainer(typ, opts.Runtime)
		case astx.IsIdent(typ, "bool"):
			t.Family = FamilyOption
			t.Presence = true
			t.Error = typ
		case isInstantiation(typ):
			t.Family = FamilyContainer
			t.Container = astx.Clone(typ)
			t.Presence = isPresenceContainer(typ, opts.Runtime)
		default:
			t.Family = FamilyResult
			t.Error = astx.Clone(typ)
		}

		return t, nil
	}

	t.Value = astx.Clone(list[0].typ)
	t.Error = astx.Clone(list[1].typ)
	if astx.IsIdent(list[1].typ, "bool") {
		t.Family = FamilyOption
		t.Presence = true
	} else {
		t.Family = FamilyResult
	}

	return t, nil
}

func declaredValue(results *ast.FieldList) (ast.Expr, *ast.Ident, error) {
	if results == nil || len(results.List) == 0 {
		return nil, nil, nil
	}

	if len(results.List) > 1 || len(results.List[0].Names) > 1 {
		return nil, nil, ErrMultipleResults
	}

	f := results.List[0]
	var name *ast.Ident
	if len(f.Names) == 1 && f.Names[0].Name != "_" {
		name = f.Names[0]
	}

	return f.Type, name, nil
}

func finalResults(t *Target) *ast.FieldList {
	if t.Family == FamilyContainer {
		return &ast.FieldList{List: []*ast.Field{{Type: t.Container}}}
	}

	if t.Value == nil {
		return &ast.FieldList{List: []*ast.Field{{Type: t.Error}}}
	}

	if t.Name == nil {
		return &ast.FieldList{
			List: []*ast.Field{
				{Type: t.Value},
				{Type: t.Error},
			},
		}
	}

	return &ast.FieldList{
		List: []*ast.Field{
			{Names: []*ast.Ident{t.Name}, Type: t.Value},
			{Names: []*ast.Ident{ast.NewIdent("_")}, Type: t.Error},
		},
	}
}

func valueOrUnit(value ast.Expr) ast.Expr {
	if value == nil {
		return astx.Unit()
	}

	return astx.Clone(value)
}

func isInstantiation(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IndexExpr, *ast.IndexListExpr:
		return true
	default:
		return false
	}
}

// isPresenceContainer checks if the type is an instantiation of the runtime's Option or Maybe. Presence containers
// of other packages are only known through the as option directive argument.
func isPresenceContainer(e ast.Expr, runtime string) bool {
	var name string
	switch v := astx.Unindex(e).(type) {
	case *ast.Ident:
		if runtime != "" {
			return false
		}
		name = v.Name
	case *ast.SelectorExpr:
		if runtime == "" || !astx.IsIdent(v.X, runtime) {
			return false
		}
		name = v.Sel.Name
	default:
		return false
	}

	return name == "Option" || name == "Maybe"
}
