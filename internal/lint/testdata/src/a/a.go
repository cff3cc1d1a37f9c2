package a

import (
	"errors"
	"strconv"

	"github.com/sirkon/throws"
)

var errBad = errors.New("bad")

//throws error
func Parse(s string) int {
	n := throws.Try(strconv.Atoi(s))
	if n < 0 {
		throws.Throw() // want `THR011: .*`
	}
	return n
}

//throws as Option
func Lookup(m map[string]int, k string) int {
	v, ok := m[k]
	if !ok {
		throws.Throw()
	}
	return v
}

//throws:try
func Close(c interface{ Close() error }) error {
	throws.Check(c.Close())
	return nil
}

//throws:try
func Find(m map[string]int, k string) throws.Option[int] {
	v, ok := m[k]
	if !ok {
		throws.Throw()
	}
	return throws.Option[int]{}.FromOk(v)
}

func Plain(s string) int {
	return throws.Try(strconv.Atoi(s)) // want `THR010: throws.Try in Plain is not in a rewritten function`
}

//throws error
func Outer() int {
	f := func() int {
		throws.Throw(errBad) // want `THR010: throws.Throw in func literal at .*`
		return 1
	}
	return f()
}

func Closures(spec string) {
	g := throws.Expr(func() int {
		return throws.Try(strconv.Atoi("1"))
	})
	a := throws.Expr(throws.Async(func() int {
		if false {
			throws.Throw() // want `THR011: .*`
		}
		return 1
	}))
	o := throws.ExprAs("as Option", func() int {
		throws.Throw()
		return 1
	})
	h := throws.ExprAs(spec, func() int { return 1 }) // want `THR012: .*`
	_, _, _, _ = g, a, o, h
}

//throws // want `THR001: .*`
var x = 1

//throws:catch // want `THR007: unknown directive //throws:catch`
func Unknown() {}
