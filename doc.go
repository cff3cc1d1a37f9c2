// Package throws is the runtime half of the throws generator.
//
// Functions are marked fallible with a directive comment and written as if they could not fail:
//
//	//throws
//	func load(path string) Config {
//		data, err := os.ReadFile(path)
//		if err != nil {
//			throws.Throw(err)
//		}
//		return parse(data)
//	}
//
// The generator (cmd/throwsgen) rewrites the signature into func load(path string) (Config, Error) and
// every exit point into a container construction:
//
//	return throws.Ok[Error, Config](parse(data))
//	return throws.Err[Config, Error](err)
//
// Directive forms:
//
//	//throws               error type is the bare name Error, resolved at the use site
//	//throws error         explicit error type
//	//throws as Option     presence container: (T, bool)
//	//throws as P          single-type container P[T], P[struct{}] for no success value
//	//throws as option P   same as above, for presence-like containers
//	//throws P[_]          generic-parameter spelling of "as P"
//	//throws:try           propagation only: the signature already is the container
//
// Closures and async blocks use expression markers instead of directives:
//
//	f := throws.Expr(func() int { ... })
//	g := throws.ExprAs("as Option", func() int { ... })
//	h := throws.TryExpr(func() (int, error) { ... })
//	fut := throws.Expr(throws.Async(func() int { ... }))
//
// Everything in this package that is called from generated code is a plain generic function, so the rewritten
// source keeps compiling with the regular toolchain. Markers left un-rewritten panic with *UnexpandedError.
package throws
