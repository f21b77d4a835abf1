package schema

import "github.com/gqlkit/sdlschema/language"

// defaultDeprecationReason is used when @deprecated carries no reason
// argument.
const defaultDeprecationReason = "No longer supported"

// newBuiltinScalars returns fresh built-in scalar nodes. Each build gets its
// own copies so a resolver strategy can bind custom coercions without
// touching other schemas.
func newBuiltinScalars() []*Type {
	return []*Type{
		{
			Name:        "String",
			Kind:        KindScalar,
			Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
		},
		{
			Name:        "Int",
			Kind:        KindScalar,
			Description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
		},
		{
			Name:        "Float",
			Kind:        KindScalar,
			Description: "The `Float` scalar type represents signed double-precision fractional values.",
		},
		{
			Name:        "Boolean",
			Kind:        KindScalar,
			Description: "The `Boolean` scalar type represents `true` or `false`.",
		},
		{
			Name:        "ID",
			Kind:        KindScalar,
			Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
		},
	}
}

func isBuiltinScalarName(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

// builtinDirectives returns the built-in directive definitions bound to the
// given registry. They are merged into the schema only for names the document
// did not define itself.
func builtinDirectives(reg *registry) []*Directive {
	nonNullBoolean := reg.ref(&language.Type{NamedType: "Boolean", NonNull: true})
	str := reg.namedRef("String")
	return []*Directive{
		{
			Name:        "include",
			Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
			Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
			Args: []*InputValue{
				{Name: "if", Description: "Included when true.", Type: nonNullBoolean},
			},
		},
		{
			Name:        "skip",
			Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
			Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
			Args: []*InputValue{
				{Name: "if", Description: "Skipped when true.", Type: reg.ref(&language.Type{NamedType: "Boolean", NonNull: true})},
			},
		},
		{
			Name:        "deprecated",
			Description: "Marks an element of a GraphQL schema as no longer supported.",
			Locations:   []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
			Args: []*InputValue{
				{
					Name:         "reason",
					Description:  "Explains why this element was deprecated, usually also including a suggestion for how to access supported similar data.",
					Type:         str,
					DefaultValue: defaultDeprecationReason,
				},
			},
		},
	}
}
