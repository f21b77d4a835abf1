package schema

import (
	"sync"

	"github.com/gqlkit/sdlschema/language"
)

// TypeRef is a deferred, memoized lookup of a type expression. Definitions
// are all registered before any reference is forced, so forward references
// and self references resolve regardless of declaration order.
//
// The first force caches its result; every later call returns the identical
// *Type instance, wrappers included. Downstream consumers compare type
// instances, so the memoization is identity-stable, not just value-stable.
// Concurrent first forces observe a single result.
type TypeRef struct {
	expr *language.Type
	reg  *registry

	once sync.Once
	t    *Type
	err  error
}

// Resolve forces the reference against the registry contents.
func (r *TypeRef) Resolve() (*Type, error) {
	r.once.Do(func() {
		r.t, r.err = resolveExpr(r.reg, r.expr)
	})
	return r.t, r.err
}

// String renders the referenced type expression without forcing it.
func (r *TypeRef) String() string { return r.expr.String() }

// resolveExpr walks a type expression, recursing through list and non-null
// wrappers down to the named type.
func resolveExpr(reg *registry, expr *language.Type) (*Type, error) {
	var t *Type
	if expr.NamedType != "" {
		named, ok := reg.lookup(expr.NamedType)
		if !ok {
			return nil, &UnresolvedTypeError{Name: expr.NamedType}
		}
		t = named
	} else {
		elem, err := resolveExpr(reg, expr.Elem)
		if err != nil {
			return nil, err
		}
		t = &Type{Kind: KindList, OfType: elem}
	}
	if expr.NonNull {
		t = &Type{Kind: KindNonNull, OfType: t}
	}
	return t, nil
}
