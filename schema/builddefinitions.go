package schema

import (
	"context"
	"fmt"

	"github.com/gqlkit/sdlschema/language"
)

func (b *builder) buildDefinition(node *language.Definition) (*Type, error) {
	switch node.Kind {
	case language.Scalar:
		return b.buildScalar(node), nil
	case language.Enum:
		return b.buildEnum(node), nil
	case language.Object:
		return b.buildObject(node)
	case language.Interface:
		return b.buildInterface(node)
	case language.Union:
		return b.buildUnion(node), nil
	case language.InputObject:
		return b.buildInputObject(node)
	}
	panic("unreachable")
}

func (b *builder) buildScalar(node *language.Definition) *Type {
	t := &Type{Name: node.Name, Kind: KindScalar, Description: node.Description}
	b.bindScalarCoercion(t)
	return t
}

// bindScalarCoercion attaches the strategy's coercions through thunks that
// capture the scalar's own name. The strategy is consulted by name at call
// time, not at definition time, so late per-scalar registrations still apply.
// Without a ScalarResolver the coercions stay nil, which means passthrough.
func (b *builder) bindScalarCoercion(t *Type) {
	if b.scalars == nil {
		return
	}
	scalars, name := b.scalars, t.Name
	t.CoerceInput = func(value any) (any, error) { return scalars.CoerceInput(name, value) }
	t.CoerceResult = func(value any) (any, error) { return scalars.CoerceResult(name, value) }
}

func (b *builder) buildEnum(node *language.Definition) *Type {
	t := &Type{Name: node.Name, Kind: KindEnum, Description: node.Description}
	for _, v := range node.EnumValues {
		ev := &EnumValue{Name: v.Name, Description: v.Description}
		ev.IsDeprecated, ev.DeprecationReason = deprecation(v.Directives)
		t.EnumValues = append(t.EnumValues, ev)
	}
	return t
}

func (b *builder) buildObject(node *language.Definition) (*Type, error) {
	t, err := b.buildComposite(node, KindObject)
	if err != nil {
		return nil, err
	}
	// Bind resolution only for objects; interfaces are never resolved
	// directly, their implementors are.
	resolver := b.resolver
	for _, f := range t.Fields {
		f.Resolve = boundFieldResolver(resolver, t, f)
	}
	return t, nil
}

func (b *builder) buildInterface(node *language.Definition) (*Type, error) {
	return b.buildComposite(node, KindInterface)
}

func (b *builder) buildComposite(node *language.Definition, kind TypeKind) (*Type, error) {
	t := &Type{Name: node.Name, Kind: kind, Description: node.Description}
	for _, name := range node.Interfaces {
		t.Interfaces = append(t.Interfaces, b.reg.namedRef(name))
	}
	for _, fnode := range node.Fields {
		f, err := b.buildField(fnode)
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
	}
	return t, nil
}

// boundFieldResolver is the second step of the field's two-step construction:
// the closure needs the finished field it resolves, so it is assigned after
// the field exists. It hands the strategy the enclosing type and the field's
// own definition.
func boundFieldResolver(r Resolver, t *Type, f *Field) FieldResolveFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return r.ResolveField(ctx, t, f, source, args)
	}
}

func (b *builder) buildField(node *language.FieldDefinition) (*Field, error) {
	f := &Field{
		Name:        node.Name,
		Description: node.Description,
		Type:        b.reg.ref(node.Type),
	}
	f.IsDeprecated, f.DeprecationReason = deprecation(node.Directives)
	for _, argNode := range node.Arguments {
		arg, err := b.buildInputValue(argNode.Name, argNode.Description, argNode.Type, argNode.DefaultValue)
		if err != nil {
			return nil, err
		}
		f.Args = append(f.Args, arg)
	}
	return f, nil
}

func (b *builder) buildUnion(node *language.Definition) *Type {
	t := &Type{Name: node.Name, Kind: KindUnion, Description: node.Description}
	for _, name := range node.Types {
		t.PossibleTypes = append(t.PossibleTypes, b.reg.namedRef(name))
	}
	return t
}

func (b *builder) buildInputObject(node *language.Definition) (*Type, error) {
	t := &Type{Name: node.Name, Kind: KindInputObject, Description: node.Description}
	for _, fnode := range node.Fields {
		in, err := b.buildInputValue(fnode.Name, fnode.Description, fnode.Type, fnode.DefaultValue)
		if err != nil {
			return nil, err
		}
		t.InputFields = append(t.InputFields, in)
	}
	return t, nil
}

// buildInputValue is shared by field arguments, input-object fields, and
// directive arguments. Defaults are coerced from their AST literal: an enum
// literal yields its name, an explicit null yields absence.
func (b *builder) buildInputValue(name, description string, typ *language.Type, defaultValue *language.Value) (*InputValue, error) {
	in := &InputValue{Name: name, Description: description, Type: b.reg.ref(typ)}
	if defaultValue != nil {
		v, err := defaultValue.Value(nil)
		if err != nil {
			return nil, &DocumentError{Reason: fmt.Sprintf("invalid default value for %q: %v", name, err)}
		}
		in.DefaultValue = v
	}
	return in, nil
}

func (b *builder) buildDirective(node *language.DirectiveDefinition) (*Directive, error) {
	d := &Directive{
		Name:         node.Name,
		Description:  node.Description,
		IsRepeatable: node.IsRepeatable,
	}
	for _, loc := range node.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, argNode := range node.Arguments {
		arg, err := b.buildInputValue(argNode.Name, argNode.Description, argNode.Type, argNode.DefaultValue)
		if err != nil {
			return nil, err
		}
		d.Args = append(d.Args, arg)
	}
	return d, nil
}

// deprecation extracts a @deprecated use. A bare @deprecated yields the fixed
// default reason.
func deprecation(dirs language.DirectiveList) (bool, string) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	reason := defaultDeprecationReason
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return true, reason
}
