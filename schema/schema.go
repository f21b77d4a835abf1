package schema

import (
	"context"
	"fmt"
	"sort"
)

// TypeKind identifies the variant of a type node.
type TypeKind string

const (
	KindScalar      TypeKind = "SCALAR"
	KindObject      TypeKind = "OBJECT"
	KindInterface   TypeKind = "INTERFACE"
	KindUnion       TypeKind = "UNION"
	KindEnum        TypeKind = "ENUM"
	KindInputObject TypeKind = "INPUT_OBJECT"
	KindList        TypeKind = "LIST"
	KindNonNull     TypeKind = "NON_NULL"
)

// CoerceFunc converts a scalar value between its external and internal forms.
type CoerceFunc func(value any) (any, error)

// FieldResolveFunc produces a field's runtime value from a backing source
// value and the already-coerced argument map.
type FieldResolveFunc func(ctx context.Context, source any, args map[string]any) (any, error)

// Resolver is the strategy consulted by every field built without an explicit
// resolver. Build binds one closure per field that delegates here, passing the
// enclosing type and the field's own definition so the strategy can make
// dispatch decisions.
type Resolver interface {
	ResolveField(ctx context.Context, objectType *Type, field *Field, source any, args map[string]any) (any, error)
}

// ScalarResolver is an optional capability of a Resolver. When implemented,
// every scalar in the built schema coerces through it, looked up by the
// scalar's type name at call time.
type ScalarResolver interface {
	CoerceInput(scalar string, value any) (any, error)
	CoerceResult(scalar string, value any) (any, error)
}

// TypeResolver is an optional capability of a Resolver. It maps a runtime
// value of an abstract type (interface or union) to the name of its concrete
// type.
type TypeResolver interface {
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)
}

// Type is a node in the assembled type graph. Named kinds carry their
// kind-specific members; KindList and KindNonNull wrap another node via
// OfType. Field sets and member sets are fixed once Build returns.
type Type struct {
	Name        string
	Kind        TypeKind
	Description string

	Fields        []*Field      // OBJECT, INTERFACE
	Interfaces    []*TypeRef    // OBJECT, INTERFACE: declared interfaces
	PossibleTypes []*TypeRef    // UNION: member types
	EnumValues    []*EnumValue  // ENUM
	InputFields   []*InputValue // INPUT_OBJECT

	// Scalar coercion, nil means passthrough.
	CoerceInput  CoerceFunc
	CoerceResult CoerceFunc

	OfType *Type // LIST, NON_NULL
}

// IsAbstract reports whether runtime type resolution applies to the type.
func (t *Type) IsAbstract() bool { return t.Kind == KindInterface || t.Kind == KindUnion }

// IsWrapper reports whether the node is a List or Non-Null wrapper.
func (t *Type) IsWrapper() bool { return t.Kind == KindList || t.Kind == KindNonNull }

// Unwrap removes one wrapper layer, or returns the type unchanged.
func (t *Type) Unwrap() *Type {
	if t.IsWrapper() {
		return t.OfType
	}
	return t
}

// NamedType returns the innermost named type.
func (t *Type) NamedType() *Type {
	cur := t
	for cur.IsWrapper() {
		cur = cur.OfType
	}
	return cur
}

// Field returns the named field, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *Type) String() string {
	switch t.Kind {
	case KindNonNull:
		return t.OfType.String() + "!"
	case KindList:
		return "[" + t.OfType.String() + "]"
	default:
		return t.Name
	}
}

// Field is a single field of an object or interface type.
type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Args              []*InputValue
	IsDeprecated      bool
	DeprecationReason string

	// Resolve is bound during Build for object fields and delegates to the
	// build's Resolver. Interface fields carry no binding.
	Resolve FieldResolveFunc
}

// Arg returns the named argument definition, or nil.
func (f *Field) Arg(name string) *InputValue {
	for _, a := range f.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// EnumValue is a single member of an enum type.
type EnumValue struct {
	Name              string
	Description       string
	IsDeprecated      bool
	DeprecationReason string
}

// InputValue is a field argument, input-object field, or directive argument.
// DefaultValue is nil when no default applies; SDL defaults are coerced from
// their literals, so an enum literal yields its name and an explicit null
// yields absence.
type InputValue struct {
	Name         string
	Description  string
	Type         *TypeRef
	DefaultValue any
}

// Directive is a directive definition available to the schema.
type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Args         []*InputValue
	IsRepeatable bool
}

// Schema is the immutable result of Build: the full type graph, the merged
// directive set, and the resolution hooks contributed by the build's Resolver.
// It is safe for concurrent use.
type Schema struct {
	query        *Type
	mutation     *Type
	subscription *Type

	types      map[string]*Type
	directives map[string]*Directive

	// Names of built-in directives that were merged in (not user-defined).
	builtinDirectives map[string]bool

	resolver     Resolver
	typeResolver TypeResolver
	description  string
}

// Query returns the query root type.
func (s *Schema) Query() *Type { return s.query }

// Resolver returns the strategy the schema was built with.
func (s *Schema) Resolver() Resolver { return s.resolver }

// Mutation returns the mutation root type, or nil.
func (s *Schema) Mutation() *Type { return s.mutation }

// Subscription returns the subscription root type, or nil.
func (s *Schema) Subscription() *Type { return s.subscription }

// Description returns the schema block's description, if any.
func (s *Schema) Description() string { return s.description }

// Type returns the registered type with the given name, or nil. Every type
// registered during the build is retained, including ones not reachable from
// a root type.
func (s *Schema) Type(name string) *Type { return s.types[name] }

// Types returns all registered types sorted by name.
func (s *Schema) Types() []*Type {
	out := make([]*Type, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Directive returns the named directive, or nil.
func (s *Schema) Directive(name string) *Directive { return s.directives[name] }

// Directives returns the merged directive set sorted by name.
func (s *Schema) Directives() []*Directive {
	out := make([]*Directive, 0, len(s.directives))
	for _, d := range s.directives {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve produces the value of objectType.field from source. Resolution
// errors are scoped to this single field; the schema itself is unaffected.
func (s *Schema) Resolve(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	t := s.types[objectType]
	if t == nil {
		return nil, fmt.Errorf("unknown type %q", objectType)
	}
	f := t.Field(field)
	if f == nil || f.Resolve == nil {
		return nil, fmt.Errorf("type %q has no resolvable field %q", objectType, field)
	}
	return f.Resolve(ctx, source, args)
}

// CoerceInput applies the named scalar's input coercion. Scalars without a
// custom coercion pass the value through unchanged.
func (s *Schema) CoerceInput(scalar string, value any) (any, error) {
	return s.coerce(scalar, value, func(t *Type) CoerceFunc { return t.CoerceInput })
}

// CoerceResult applies the named scalar's result coercion.
func (s *Schema) CoerceResult(scalar string, value any) (any, error) {
	return s.coerce(scalar, value, func(t *Type) CoerceFunc { return t.CoerceResult })
}

func (s *Schema) coerce(scalar string, value any, pick func(*Type) CoerceFunc) (any, error) {
	t := s.types[scalar]
	if t == nil || t.Kind != KindScalar {
		return nil, fmt.Errorf("%q is not a scalar type", scalar)
	}
	fn := pick(t)
	if fn == nil {
		return value, nil
	}
	return fn(value)
}

// ResolveType maps a runtime value of an abstract type to its concrete type
// using the hook installed by the build's Resolver. Without a hook it fails
// with UnimplementedResolveTypeError.
func (s *Schema) ResolveType(ctx context.Context, abstract *Type, value any) (*Type, error) {
	if abstract == nil || !abstract.IsAbstract() {
		return nil, fmt.Errorf("type %v is not an interface or union", abstract)
	}
	if s.typeResolver == nil {
		return nil, &UnimplementedResolveTypeError{TypeName: abstract.Name}
	}
	name, err := s.typeResolver.ResolveType(ctx, abstract.Name, value)
	if err != nil {
		return nil, err
	}
	t := s.types[name]
	if t == nil {
		return nil, fmt.Errorf("abstract type %q resolved to unknown type %q", abstract.Name, name)
	}
	if !possibleType(abstract, t) {
		return nil, fmt.Errorf("type %q is not a possible type of %q", name, abstract.Name)
	}
	return t, nil
}

// possibleType reports whether concrete is a member of the union or an
// implementor of the interface. References here were forced during Build, so
// the resolve errors are ignored.
func possibleType(abstract, concrete *Type) bool {
	switch abstract.Kind {
	case KindUnion:
		for _, r := range abstract.PossibleTypes {
			if t, err := r.Resolve(); err == nil && t == concrete {
				return true
			}
		}
	case KindInterface:
		for _, r := range concrete.Interfaces {
			if t, err := r.Resolve(); err == nil && t == abstract {
				return true
			}
		}
	}
	return false
}
