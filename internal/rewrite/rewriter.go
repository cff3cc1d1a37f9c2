// Package rewrite turns a function-like node written as if it could not fail into a fallible one.
//
// The rewriter resolves the final results once, installs them into the signature and then walks the body
// exactly once. Exit points of the outer function are wrapped into container constructors, propagation markers
// are expanded into early returns. Nested function literals are a boundary: they are visited as already claimed
// and left completely untouched, including their own returns and markers.
package rewrite

import (
	"errors"
	"go/ast"
	"log/slog"

	"github.com/sirkon/throws/internal/args"
	"github.com/sirkon/throws/internal/diag"
)

// RuntimePath is the import path of the runtime package.
const RuntimePath = "github.com/sirkon/throws"

// Options of the rewriter.
type Options struct {
	// Runtime is the local name of the runtime package import. Empty for dot imports.
	Runtime string

	// Imports of the file, local name to import path. Used to recognize abandon functions.
	Imports map[string]string

	// Abandon functions. Predefined ones are used when nil.
	Abandon *AbandonFuncs

	// Names issues temporary names. Must be shared between rewriters of the same file.
	Names *Names

	Logger *slog.Logger
}

// Rewriter handles a single invocation. Do not reuse it.
type Rewriter struct {
	args *args.Args
	opts Options
}

// New creates a rewriter. Nil args selects the propagation form: results are kept as declared.
func New(a *args.Args, opts Options) *Rewriter {
	if opts.Abandon == nil {
		opts.Abandon = NewAbandonFuncs()
	}
	if opts.Names == nil {
		opts.Names = NewNames()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Rewriter{args: a, opts: opts}
}

// Rewrite rewrites the node in place and returns it. Usage errors are *diag.Error.
func (r *Rewriter) Rewrite(n ast.Node) (ast.Node, error) {
	s, ok := r.shapeOf(n)
	if !ok {
		return nil, diag.Errorf(diag.UnsupportedTarget(), n.Pos(), "")
	}

	return r.fold(s, false)
}

// fold rewrites an entry shape unless it was already claimed.
func (r *Rewriter) fold(s shape, claimed bool) (ast.Node, error) {
	if claimed {
		return s.node(), nil
	}

	target, err := r.resolve(s)
	if err != nil {
		return nil, err
	}

	r.opts.Logger.Debug(
		"rewrite",
		slog.String("shape", s.kind().String()),
		slog.String("family", target.Family.String()),
		slog.Bool("unit", target.Unit()),
	)

	body := s.body()
	if body == nil {
		return s.node(), nil
	}

	w := &walker{
		r:      r,
		target: target,
	}
	list, err := w.block(body)
	if err != nil {
		return nil, err
	}

	if target.Unit() && !isTerminatingList(list, r.opts.Abandon, r.opts.Imports) {
		list = append(list, w.tail())
	}

	s.setBody(&ast.BlockStmt{
		Lbrace: body.Lbrace,
		List:   list,
		Rbrace: body.Rbrace,
	})

	return s.node(), nil
}

// resolve computes the final results of the shape and installs them.
func (r *Rewriter) resolve(s shape) (*args.Target, error) {
	sig := s.signature()
	opts := args.Options{
		Runtime: r.opts.Runtime,
		Single:  s.kind() == shapeAsync,
	}

	if r.args == nil {
		target, err := args.Declared(sig.Results, opts)
		if err != nil {
			return nil, resultsError(err, sig)
		}

		return target, nil
	}

	res, err := r.args.Ret(sig.Results, opts)
	if err != nil {
		return nil, resultsError(err, sig)
	}

	sig.Results = res.Results
	return res.Target, nil
}

func resultsError(err error, sig *ast.FuncType) error {
	pos := sig.Pos()
	if sig.Results != nil {
		pos = sig.Results.Pos()
	}

	switch {
	case errors.Is(err, args.ErrMultipleResults):
		return diag.Errorf(diag.MultipleResults(), pos, "")
	case errors.Is(err, args.ErrNoResults):
		return diag.Errorf(diag.NoDeclaredResult(), pos, "")
	case errors.Is(err, args.ErrNamedContainer):
		return diag.Errorf(diag.NamedContainerResult(), pos, "")
	default:
		return err
	}
}
