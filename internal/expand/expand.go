// Package expand finds throws invocation sites of a Go file and rewrites them.
//
// Sites are functions, methods and interface methods with a //throws directive in their doc comment, and
// throws.Expr, throws.ExprAs and throws.TryExpr expression markers. Expression sites are expanded innermost first,
// declaration sites follow. Directive comments are dropped from the output and the runtime import is kept in sync
// with what the generated code references.
package expand

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log/slog"

	"github.com/sirkon/throws/internal/diag"
	"github.com/sirkon/throws/internal/rewrite"
)

// ErrUsage is returned for files with usage errors of directives or markers. The reports are joined to it.
var ErrUsage = errors.New("throws usage errors")

// DefaultDirective is the default directive name: //throws, //throws:try.
const DefaultDirective = "throws"

// Options of the expander.
type Options struct {
	// Runtime lists import paths of runtime packages. The first one is imported when generated code needs it
	// and the file imports none of them.
	Runtime []string

	// Directive name.
	Directive string

	// Abandon functions end functions like return does.
	Abandon *rewrite.AbandonFuncs

	// Reporter receives every diagnostic, warnings included. Optional.
	Reporter *diag.Reporter

	Logger *slog.Logger
}

// Expander rewrites files. It keeps no per file state and can be used concurrently.
type Expander struct {
	opts Options
}

// New creates an expander.
func New(opts Options) *Expander {
	if len(opts.Runtime) == 0 {
		opts.Runtime = []string{rewrite.RuntimePath}
	}
	if opts.Directive == "" {
		opts.Directive = DefaultDirective
	}
	if opts.Abandon == nil {
		opts.Abandon = rewrite.NewAbandonFuncs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Expander{opts: opts}
}

// Source expands the source of a file. Unchanged sources are returned as is.
func (e *Expander) Source(filename string, src []byte) (out []byte, changed bool, err error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", filename, err)
	}

	changed, err = e.File(fset, file)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return src, false, nil
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, false, fmt.Errorf("format %s: %w", filename, err)
	}

	return buf.Bytes(), true, nil
}

// File expands the parsed file in place. It reports whether anything was rewritten.
func (e *Expander) File(fset *token.FileSet, file *ast.File) (bool, error) {
	x := &expansion{
		e:        e,
		fset:     fset,
		file:     file,
		rep:      &diag.Reporter{},
		names:    rewrite.NewNames(file),
		imports:  rewrite.FileImports(file),
		claimed:  map[ast.Node]bool{},
		consumed: map[*ast.Comment]bool{},
	}

	x.findRuntime()
	x.exprSites()
	x.declSites()
	x.strayDirectives()
	x.stripDirectives()
	x.fixImports()
	x.unexpanded()

	reps := x.rep.Reports()
	if e.opts.Reporter != nil {
		for _, rep := range reps {
			e.opts.Reporter.Report(rep)
		}
	}

	filename := fset.Position(file.Package).Filename
	if x.rep.HasErrors() {
		e.opts.Logger.Debug("expansion failed", slog.String("file", filename), slog.Int("reports", len(reps)))
		return false, errors.Join(ErrUsage, x.rep.Err())
	}

	e.opts.Logger.Debug(
		"expanded",
		slog.String("file", filename),
		slog.Int("sites", x.sites),
		slog.Bool("changed", x.changed),
	)
	return x.changed, nil
}

// expansion is the state of a single file expansion.
type expansion struct {
	e    *Expander
	fset *token.FileSet
	file *ast.File
	rep  *diag.Reporter

	names   *rewrite.Names
	imports map[string]string

	// runtime is the local name of the runtime import. Empty for dot imports.
	runtime string
	path    string
	spec    *ast.ImportSpec

	claimed  map[ast.Node]bool
	consumed map[*ast.Comment]bool
	sites    int
	changed  bool
}

func (x *expansion) report(phase diag.ReportPhase, code diag.Code, msg string, pos token.Pos) {
	x.rep.Phase(phase).Report(code, msg, x.fset.Position(pos))
}

// fail reports an error of a rewrite.
func (x *expansion) fail(err error) {
	var derr *diag.Error
	if !errors.As(err, &derr) {
		x.report(diag.PhaseRewrite, diag.UnsupportedTarget(), err.Error(), x.file.Package)
		return
	}

	x.report(phaseOf(derr.Code), derr.Code, derr.Msg, derr.Pos)
}

func phaseOf(code diag.Code) diag.ReportPhase {
	switch code {
	case diag.THR001UnsupportedTarget:
		return diag.PhaseShape
	case diag.THR002UnexpectedArguments, diag.THR003MalformedArguments, diag.THR012NonLiteralArguments,
		diag.THR004MultipleResults, diag.THR005NoDeclaredResult, diag.THR006NamedContainerResult:
		return diag.PhaseArgs
	case diag.THR007UnknownDirective, diag.THR010MarkerOutsideScope:
		return diag.PhaseExpand
	default:
		return diag.PhaseRewrite
	}
}
