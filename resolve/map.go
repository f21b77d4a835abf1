package resolve

import (
	"context"

	"github.com/gqlkit/sdlschema/schema"
)

// ResolveTypeFunc maps a runtime value to the name of its concrete type.
type ResolveTypeFunc func(ctx context.Context, value any) (string, error)

// Map is a resolver strategy built from explicit per-type entries: field
// resolvers, abstract-type hooks, and scalar coercions. Anything not
// overridden falls back to an embedded Convention. Entries are created with
// explicit get-or-insert via Type, never as a side effect of resolution.
//
// Configure a Map fully before handing it to Build; it must not be mutated
// afterwards.
type Map struct {
	types       map[string]*TypeMap
	resolveType ResolveTypeFunc
	fallback    *Convention
}

// NewMap returns an empty Map backed by a fresh Convention fallback.
func NewMap() *Map {
	return &Map{
		types:    make(map[string]*TypeMap),
		fallback: NewConvention(),
	}
}

// Type returns the entry for a type name, inserting it if absent.
func (m *Map) Type(name string) *TypeMap {
	t, ok := m.types[name]
	if !ok {
		t = &TypeMap{fields: make(map[string]schema.FieldResolveFunc)}
		m.types[name] = t
	}
	return t
}

// SetResolveType installs the schema-wide abstract-type hook, used when a
// type has no hook of its own.
func (m *Map) SetResolveType(fn ResolveTypeFunc) *Map {
	m.resolveType = fn
	return m
}

// TypeMap holds the overrides for a single type.
type TypeMap struct {
	fields       map[string]schema.FieldResolveFunc
	resolveType  ResolveTypeFunc
	coerceInput  schema.CoerceFunc
	coerceResult schema.CoerceFunc
}

// SetField installs an explicit resolver for one field. It is used verbatim;
// the convention strategy is never consulted for that field.
func (t *TypeMap) SetField(name string, fn schema.FieldResolveFunc) *TypeMap {
	t.fields[name] = fn
	return t
}

// SetResolveType installs the abstract-type hook for this interface or union.
func (t *TypeMap) SetResolveType(fn ResolveTypeFunc) *TypeMap {
	t.resolveType = fn
	return t
}

// SetCoerceInput installs the input coercion for this scalar.
func (t *TypeMap) SetCoerceInput(fn schema.CoerceFunc) *TypeMap {
	t.coerceInput = fn
	return t
}

// SetCoerceResult installs the result coercion for this scalar.
func (t *TypeMap) SetCoerceResult(fn schema.CoerceFunc) *TypeMap {
	t.coerceResult = fn
	return t
}

// ResolveField implements schema.Resolver.
func (m *Map) ResolveField(ctx context.Context, objectType *schema.Type, field *schema.Field, source any, args map[string]any) (any, error) {
	if t := m.types[objectType.Name]; t != nil {
		if fn := t.fields[field.Name]; fn != nil {
			return fn(ctx, source, args)
		}
	}
	return m.fallback.ResolveField(ctx, objectType, field, source, args)
}

// ResolveType implements schema.TypeResolver. The per-type hook wins over the
// schema-wide one; with neither installed the abstract type cannot be
// resolved at runtime.
func (m *Map) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if t := m.types[abstractType]; t != nil && t.resolveType != nil {
		return t.resolveType(ctx, value)
	}
	if m.resolveType != nil {
		return m.resolveType(ctx, value)
	}
	return "", &schema.UnimplementedResolveTypeError{TypeName: abstractType}
}

// CoerceInput implements schema.ScalarResolver. Scalars without an entry pass
// values through unchanged.
func (m *Map) CoerceInput(scalar string, value any) (any, error) {
	if t := m.types[scalar]; t != nil && t.coerceInput != nil {
		return t.coerceInput(value)
	}
	return value, nil
}

// CoerceResult implements schema.ScalarResolver.
func (m *Map) CoerceResult(scalar string, value any) (any, error) {
	if t := m.types[scalar]; t != nil && t.coerceResult != nil {
		return t.coerceResult(value)
	}
	return value, nil
}
