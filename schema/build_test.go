package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/gqlkit/sdlschema/language"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, objectType *Type, field *Field, source any, args map[string]any) (any, error)

func (fn resolverFunc) ResolveField(ctx context.Context, objectType *Type, field *Field, source any, args map[string]any) (any, error) {
	return fn(ctx, objectType, field, source, args)
}

var nopResolver = resolverFunc(func(context.Context, *Type, *Field, any, map[string]any) (any, error) {
	return nil, nil
})

func mustParse(t *testing.T, sdl string) *language.SchemaDocument {
	t.Helper()
	doc, err := language.ParseSchema(t.Name(), sdl)
	require.NoError(t, err)
	return doc
}

func buildSDL(t *testing.T, sdl string) (*Schema, error) {
	t.Helper()
	return Build(context.Background(), mustParse(t, sdl), nopResolver)
}

func mustBuildSDL(t *testing.T, sdl string) *Schema {
	t.Helper()
	s, err := buildSDL(t, sdl)
	require.NoError(t, err)
	return s
}

func TestBuildDefaultQueryRoot(t *testing.T) {
	s := mustBuildSDL(t, `type Query { a: String }`)

	require.NotNil(t, s.Query())
	require.Equal(t, "Query", s.Query().Name)
	require.Nil(t, s.Mutation())
	require.Nil(t, s.Subscription())

	require.Len(t, s.Query().Fields, 1)
	f := s.Query().Field("a")
	require.NotNil(t, f)
	ft, err := f.Type.Resolve()
	require.NoError(t, err)
	require.Same(t, s.Type("String"), ft)
	require.Equal(t, KindScalar, ft.Kind)
}

func TestForwardReference(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { post: Post }
		type Post { title: String }
	`)

	ft, err := s.Query().Field("post").Type.Resolve()
	require.NoError(t, err)
	require.Same(t, s.Type("Post"), ft)
}

func TestSelfReference(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { node: Node }
		type Node { self: Node }
	`)

	node := s.Type("Node")
	ref := node.Field("self").Type
	ft, err := ref.Resolve()
	require.NoError(t, err)
	require.Same(t, node, ft)

	again, err := ref.Resolve()
	require.NoError(t, err)
	require.Same(t, ft, again)
}

func TestDuplicateSchemaDefinition(t *testing.T) {
	s, err := buildSDL(t, `
		schema { query: Query }
		schema { query: Query }
		type Query { a: String }
	`)
	require.Nil(t, s)
	var dup *DuplicateSchemaDefinitionError
	require.ErrorAs(t, err, &dup)
}

func TestDeclaredRootNotDefined(t *testing.T) {
	s, err := buildSDL(t, `
		schema { query: Query mutation: Mut }
		type Query { a: String }
	`)
	require.Nil(t, s)
	var missing *MissingRootTypeError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "mutation", missing.Operation)
	require.Equal(t, "Mut", missing.TypeName)
}

func TestQueryRootRequired(t *testing.T) {
	s, err := buildSDL(t, `type Foo { a: String }`)
	require.Nil(t, s)
	var missing *MissingRootTypeError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "query", missing.Operation)
	require.Equal(t, "Query", missing.TypeName)
}

func TestRootMustBeObject(t *testing.T) {
	s, err := buildSDL(t, `
		schema { query: Q }
		enum Q { A }
	`)
	require.Nil(t, s)
	var missing *MissingRootTypeError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, KindEnum, missing.Kind)
}

func TestConventionalMutationRoot(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { a: String }
		type Mutation { rename(name: String): String }
	`)
	require.NotNil(t, s.Mutation())
	require.Same(t, s.Type("Mutation"), s.Mutation())
}

func TestSchemaBlockIsSoleRootAuthority(t *testing.T) {
	// Conventionally named types are ordinary types when a schema block
	// declares the roots.
	s := mustBuildSDL(t, `
		schema { query: Root }
		type Root { a: String }
		type Mutation { rename(name: String): String }
	`)
	require.Same(t, s.Type("Root"), s.Query())
	require.Nil(t, s.Mutation())
	require.Nil(t, s.Subscription())
	require.NotNil(t, s.Type("Mutation"))
}

func TestSchemaBlockMustDeclareQuery(t *testing.T) {
	// A coincidental Query type is not adopted when the schema block omits
	// the query operation.
	s, err := buildSDL(t, `
		schema { mutation: Mutation }
		type Query { a: String }
		type Mutation { rename(name: String): String }
	`)
	require.Nil(t, s)
	var missing *MissingRootTypeError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "query", missing.Operation)
	require.Empty(t, missing.TypeName)
}

func TestUnresolvedReferenceFailsBuild(t *testing.T) {
	s, err := buildSDL(t, `type Query { a: Missing }`)
	require.Nil(t, s)
	var unresolved *UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
	require.Equal(t, "Missing", unresolved.Name)
}

func TestUnresolvedReferencesAreCollected(t *testing.T) {
	_, err := buildSDL(t, `
		type Query { a: MissingA, b: MissingB }
	`)
	require.ErrorContains(t, err, "MissingA")
	require.ErrorContains(t, err, "MissingB")
}

func TestDuplicateTypeName(t *testing.T) {
	s, err := buildSDL(t, `
		type Query { a: A }
		type A { x: String }
		type A { y: String }
	`)
	require.Nil(t, s)
	var dup *DuplicateTypeNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "A", dup.Name)
}

func TestRedefiningBuiltinScalarFails(t *testing.T) {
	_, err := buildSDL(t, `
		scalar String
		type Query { a: String }
	`)
	var dup *DuplicateTypeNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "String", dup.Name)
}

func TestBuiltinDirectivesMerged(t *testing.T) {
	s := mustBuildSDL(t, `type Query { a: String }`)
	for _, name := range []string{"include", "skip", "deprecated"} {
		require.NotNil(t, s.Directive(name), "missing built-in @%s", name)
	}
}

func TestDocumentDirectiveWinsOverBuiltin(t *testing.T) {
	s := mustBuildSDL(t, `
		directive @deprecated(note: String) on OBJECT
		type Query { a: String }
	`)
	d := s.Directive("deprecated")
	require.NotNil(t, d)
	require.Equal(t, []string{"OBJECT"}, d.Locations)
	require.Equal(t, "note", d.Args[0].Name)
}

func TestDuplicateDirectiveDefinition(t *testing.T) {
	_, err := buildSDL(t, `
		directive @cache(ttl: Int) on FIELD_DEFINITION
		directive @cache(ttl: Int) on FIELD_DEFINITION
		type Query { a: String }
	`)
	var dup *DuplicateDirectiveError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "cache", dup.Name)
}

func TestInputDefaults(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { search(filter: Filter, limit: Int = 10): String }
		enum Color { RED GREEN }
		input Filter { color: Color = RED, name: String = null, tag: String }
	`)

	filter := s.Type("Filter")
	require.Equal(t, KindInputObject, filter.Kind)
	require.Len(t, filter.InputFields, 3)

	// Enum literal defaults coerce to the enum value's name.
	require.Equal(t, "RED", filter.InputFields[0].DefaultValue)
	// Explicit null yields an absent default, not a null value.
	require.Nil(t, filter.InputFields[1].DefaultValue)
	require.Nil(t, filter.InputFields[2].DefaultValue)

	limit := s.Query().Field("search").Arg("limit")
	require.NotNil(t, limit)
	require.Equal(t, int64(10), limit.DefaultValue)
}

func TestDeprecationExtraction(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query {
			a: String @deprecated(reason: "use b")
			b: String
		}
		enum Color { RED @deprecated GREEN }
	`)

	a := s.Query().Field("a")
	require.True(t, a.IsDeprecated)
	require.Equal(t, "use b", a.DeprecationReason)
	require.False(t, s.Query().Field("b").IsDeprecated)

	red := s.Type("Color").EnumValues[0]
	require.True(t, red.IsDeprecated)
	require.Equal(t, "No longer supported", red.DeprecationReason)
}

func TestOrphanTypesRetained(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { a: String }
		type Orphan { b: Int }
	`)
	require.NotNil(t, s.Type("Orphan"))

	names := make([]string, 0)
	for _, typ := range s.Types() {
		names = append(names, typ.Name)
	}
	require.Contains(t, names, "Orphan")
}

func TestInterfaceAndUnionMembers(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { search: SearchResult }
		interface Character { name: String }
		type Human implements Character { name: String, height: Float }
		type Droid implements Character { name: String }
		union SearchResult = Human | Droid
	`)

	human := s.Type("Human")
	require.Len(t, human.Interfaces, 1)
	iface, err := human.Interfaces[0].Resolve()
	require.NoError(t, err)
	require.Same(t, s.Type("Character"), iface)

	// Interface fields carry no resolver binding.
	require.Nil(t, s.Type("Character").Field("name").Resolve)
	require.NotNil(t, human.Field("name").Resolve)

	union := s.Type("SearchResult")
	require.Equal(t, KindUnion, union.Kind)
	require.Len(t, union.PossibleTypes, 2)
	first, err := union.PossibleTypes[0].Resolve()
	require.NoError(t, err)
	require.Same(t, human, first)
}

func TestExtensionsAreRejected(t *testing.T) {
	for _, sdl := range []string{
		`type Query { a: String }
		 extend type Query { b: String }`,
		`schema { query: Query }
		 type Query { a: String }
		 extend schema { mutation: Mutation }`,
	} {
		s, err := buildSDL(t, sdl)
		require.Nil(t, s)
		var docErr *DocumentError
		require.ErrorAs(t, err, &docErr)
		require.ErrorContains(t, err, "extensions are not supported")
	}
}

func TestNilDocument(t *testing.T) {
	s, err := Build(context.Background(), nil, nopResolver)
	require.Nil(t, s)
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
}

func TestEmptyDocument(t *testing.T) {
	_, err := Build(context.Background(), &language.SchemaDocument{}, nopResolver)
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
}

func TestNilResolver(t *testing.T) {
	_, err := Build(context.Background(), mustParse(t, `type Query { a: String }`), nil)
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
}

func TestFieldResolveDelegatesToStrategy(t *testing.T) {
	var gotType, gotField string
	r := resolverFunc(func(ctx context.Context, objectType *Type, field *Field, source any, args map[string]any) (any, error) {
		gotType, gotField = objectType.Name, field.Name
		return "resolved", nil
	})
	doc := mustParse(t, `type Query { greeting(name: String): String }`)
	s, err := Build(context.Background(), doc, r)
	require.NoError(t, err)

	v, err := s.Resolve(context.Background(), "Query", "greeting", nil, map[string]any{"name": "x"})
	require.NoError(t, err)
	require.Equal(t, "resolved", v)
	require.Equal(t, "Query", gotType)
	require.Equal(t, "greeting", gotField)
}

func TestResolveUnknownField(t *testing.T) {
	s := mustBuildSDL(t, `type Query { a: String }`)
	_, err := s.Resolve(context.Background(), "Query", "nope", nil, nil)
	require.Error(t, err)
	_, err = s.Resolve(context.Background(), "Nope", "a", nil, nil)
	require.Error(t, err)
}

func TestResolveTypeWithoutHook(t *testing.T) {
	s := mustBuildSDL(t, `
		type Query { search: SearchResult }
		type Human { name: String }
		union SearchResult = Human
	`)
	_, err := s.ResolveType(context.Background(), s.Type("SearchResult"), struct{}{})
	var unimpl *UnimplementedResolveTypeError
	require.ErrorAs(t, err, &unimpl)
	require.Equal(t, "SearchResult", unimpl.TypeName)
}

func TestNoPartialSchemaOnFailure(t *testing.T) {
	for _, sdl := range []string{
		`schema { query: Q } type Query { a: String }`,
		`type Query { a: Missing }`,
		`type Query { a: String } type Query { b: String }`,
	} {
		s, err := buildSDL(t, sdl)
		require.Error(t, err)
		require.Nil(t, s)
	}
}

func TestSchemaDescription(t *testing.T) {
	s := mustBuildSDL(t, `
		"""Root schema."""
		schema { query: Root }
		type Root { a: String }
	`)
	require.Equal(t, "Root schema.", s.Description())
	require.Same(t, s.Type("Root"), s.Query())
}

func TestErrorsAreJoined(t *testing.T) {
	_, err := buildSDL(t, `type Query { a: MissingA }`)
	require.True(t, errors.As(err, new(*UnresolvedTypeError)))
}
