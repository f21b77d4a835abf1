package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gqlkit/sdlschema/internal/eventbus"
	"github.com/gqlkit/sdlschema/internal/events"
	"github.com/gqlkit/sdlschema/internal/reqid"
	"github.com/gqlkit/sdlschema/language"
)

// Build assembles an executable schema from a parsed SDL document. The
// resolver supplies the default field-resolution strategy; its optional
// ScalarResolver and TypeResolver capabilities are bound into the schema when
// implemented.
//
// Build never returns a partial schema: every structural problem, including
// type references that never resolve, fails the whole call.
func Build(ctx context.Context, doc *language.SchemaDocument, resolver Resolver) (*Schema, error) {
	if _, ok := reqid.FromContext(ctx); !ok {
		ctx, _ = reqid.NewContext(ctx)
	}
	start := time.Now()
	eventbus.Publish(ctx, events.BuildStart{
		Definitions: docDefinitions(doc),
		Directives:  docDirectives(doc),
	})
	s, err := build(doc, resolver)
	finish := events.BuildFinish{Err: err, Duration: time.Since(start)}
	if s != nil {
		finish.Types = len(s.types)
	}
	eventbus.Publish(ctx, finish)
	return s, err
}

func docDefinitions(doc *language.SchemaDocument) int {
	if doc == nil {
		return 0
	}
	return len(doc.Definitions)
}

func docDirectives(doc *language.SchemaDocument) int {
	if doc == nil {
		return 0
	}
	return len(doc.Directives)
}

// builder carries the per-build state. It lives for exactly one Build call;
// ownership of the registry contents transfers into the returned Schema.
type builder struct {
	reg        *registry
	resolver   Resolver
	scalars    ScalarResolver // nil unless the resolver supplies coercions
	directives map[string]*Directive
	builtin    map[string]bool
}

func build(doc *language.SchemaDocument, resolver Resolver) (*Schema, error) {
	if doc == nil {
		return nil, &DocumentError{Reason: "document is nil"}
	}
	if len(doc.Definitions) == 0 && len(doc.Schema) == 0 && len(doc.Directives) == 0 {
		return nil, &DocumentError{Reason: "document is empty"}
	}
	if resolver == nil {
		return nil, &DocumentError{Reason: "a default resolver is required"}
	}
	if len(doc.Schema) > 1 {
		return nil, &DuplicateSchemaDefinitionError{}
	}
	if len(doc.SchemaExtension) > 0 || len(doc.Extensions) > 0 {
		return nil, &DocumentError{Reason: "schema and type extensions are not supported"}
	}
	for _, node := range doc.Definitions {
		switch node.Kind {
		case language.Scalar, language.Enum, language.Object, language.Interface, language.Union, language.InputObject:
		default:
			return nil, &DocumentError{Reason: fmt.Sprintf("unsupported definition kind %q", node.Kind)}
		}
	}

	b := &builder{
		reg:        newRegistry(),
		resolver:   resolver,
		directives: make(map[string]*Directive),
		builtin:    make(map[string]bool),
	}
	b.scalars, _ = resolver.(ScalarResolver)

	// Built-in scalars pick up strategy coercions the same way user scalars do.
	if b.scalars != nil {
		for _, t := range b.reg.types {
			b.bindScalarCoercion(t)
		}
	}

	// Definition order does not affect correctness, because type references
	// are deferred. Building kind by kind only fixes the order in which
	// errors surface.
	kinds := []language.DefinitionKind{
		language.Enum, language.Object, language.Interface,
		language.Union, language.Scalar, language.InputObject,
	}
	for _, kind := range kinds {
		for _, node := range doc.Definitions {
			if node.Kind != kind {
				continue
			}
			t, err := b.buildDefinition(node)
			if err != nil {
				return nil, err
			}
			if err := b.reg.register(t); err != nil {
				return nil, err
			}
		}
	}

	for _, node := range doc.Directives {
		if _, ok := b.directives[node.Name]; ok {
			return nil, &DuplicateDirectiveError{Name: node.Name}
		}
		d, err := b.buildDirective(node)
		if err != nil {
			return nil, err
		}
		b.directives[node.Name] = d
	}
	// Merge built-ins only for names absent from the document: a
	// document-defined directive with a built-in's name wins.
	for _, d := range builtinDirectives(b.reg) {
		if _, ok := b.directives[d.Name]; !ok {
			b.directives[d.Name] = d
			b.builtin[d.Name] = true
		}
	}

	roots, err := b.resolveRoots(doc.Schema)
	if err != nil {
		return nil, err
	}

	if err := b.validateReferences(); err != nil {
		return nil, err
	}

	s := &Schema{
		query:             roots.query,
		mutation:          roots.mutation,
		subscription:      roots.subscription,
		types:             b.reg.types,
		directives:        b.directives,
		builtinDirectives: b.builtin,
		resolver:          resolver,
	}
	s.typeResolver, _ = resolver.(TypeResolver)
	if len(doc.Schema) == 1 {
		s.description = doc.Schema[0].Description
	}
	return s, nil
}

type rootTypes struct {
	query, mutation, subscription *Type
}

// resolveRoots maps operation kinds to root types. A schema block, when
// present, is the sole authority: only its declared operations get roots, and
// conventionally named types play no part. Without one, the conventional
// Query/Mutation/Subscription names apply. The query root is mandatory either
// way.
func (b *builder) resolveRoots(defs []*language.SchemaDefinition) (rootTypes, error) {
	names := make(map[language.Operation]string)
	if len(defs) == 1 {
		for _, op := range defs[0].OperationTypes {
			names[op.Operation] = op.Type
		}
	} else {
		names[language.Query] = "Query"
		names[language.Mutation] = "Mutation"
		names[language.Subscription] = "Subscription"
	}

	var roots rootTypes
	for _, op := range []language.Operation{language.Query, language.Mutation, language.Subscription} {
		name, wanted := names[op]
		if !wanted {
			if op == language.Query {
				return rootTypes{}, &MissingRootTypeError{Operation: string(op)}
			}
			continue
		}
		t, ok := b.reg.lookup(name)
		if !ok {
			// A declared root must exist; a conventional name is optional
			// except for query.
			if op == language.Query || len(defs) == 1 {
				return rootTypes{}, &MissingRootTypeError{Operation: string(op), TypeName: name}
			}
			continue
		}
		if t.Kind != KindObject {
			return rootTypes{}, &MissingRootTypeError{Operation: string(op), TypeName: t.Name, Kind: t.Kind}
		}
		switch op {
		case language.Query:
			roots.query = t
		case language.Mutation:
			roots.mutation = t
		case language.Subscription:
			roots.subscription = t
		}
	}
	return roots, nil
}

// validateReferences forces every deferred reference so that unresolved names
// fail the build instead of surfacing mid-execution. Lazy resolution remains
// purely an internal technique for forward and cyclic references.
func (b *builder) validateReferences() error {
	var errs []error
	force := func(r *TypeRef) {
		if _, err := r.Resolve(); err != nil {
			errs = append(errs, err)
		}
	}

	names := make([]string, 0, len(b.reg.types))
	for name := range b.reg.types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := b.reg.types[name]
		for _, r := range t.Interfaces {
			force(r)
		}
		for _, r := range t.PossibleTypes {
			force(r)
		}
		for _, f := range t.Fields {
			force(f.Type)
			for _, a := range f.Args {
				force(a.Type)
			}
		}
		for _, in := range t.InputFields {
			force(in.Type)
		}
	}

	dnames := make([]string, 0, len(b.directives))
	for name := range b.directives {
		dnames = append(dnames, name)
	}
	sort.Strings(dnames)
	for _, name := range dnames {
		for _, a := range b.directives[name].Args {
			force(a.Type)
		}
	}
	return errors.Join(errs...)
}
