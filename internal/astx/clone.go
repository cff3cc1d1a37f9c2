// Package astx keeps small go/ast helpers shared by the generator packages.
package astx

import (
	"go/ast"
	"go/token"
	"reflect"
)

var (
	posType     = reflect.TypeOf(token.NoPos)
	objectType  = reflect.TypeOf((*ast.Object)(nil))
	scopeType   = reflect.TypeOf((*ast.Scope)(nil))
	commentType = reflect.TypeOf((*ast.CommentGroup)(nil))
)

// Clone returns a deep copy of n with every position zeroed, and no comments or objects attached.
//
// Nodes without positions are laid out by the printer on their own, so a cloned type can be put anywhere in
// the output file, including files parsed with another token.FileSet.
func Clone[N ast.Node](n N) N {
	v := reflect.ValueOf(n)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return n
	}

	return cloneValue(v).Interface().(N)
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}

		switch v.Type() {
		case objectType, scopeType, commentType:
			return reflect.Zero(v.Type())
		}

		c := reflect.New(v.Type().Elem())
		c.Elem().Set(cloneValue(v.Elem()))
		return c

	case reflect.Interface:
		if v.IsNil() {
			return v
		}

		c := reflect.New(v.Type()).Elem()
		c.Set(cloneValue(v.Elem()))
		return c

	case reflect.Slice:
		if v.IsNil() {
			return v
		}

		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			c.Index(i).Set(cloneValue(v.Index(i)))
		}
		return c

	case reflect.Struct:
		c := reflect.New(v.Type()).Elem()
		for i := range v.NumField() {
			f := c.Field(i)
			if !f.CanSet() || v.Type().Field(i).Type == posType {
				continue
			}

			f.Set(cloneValue(v.Field(i)))
		}
		return c

	default:
		return v
	}
}
