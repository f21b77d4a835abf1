package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the schema. Output is deterministic: type and
// directive names are sorted lexicographically, built-ins are omitted, and a
// schema block is emitted only when a root type deviates from its
// conventional name.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	renderSchemaBlock(&b, s)

	typeNames := make([]string, 0, len(s.types))
	for name := range s.types {
		if isBuiltinScalarName(name) {
			continue
		}
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, name := range typeNames {
		typ := s.types[name]
		switch typ.Kind {
		case KindScalar:
			renderScalar(&b, typ)
		case KindEnum:
			renderEnum(&b, typ)
		case KindInputObject:
			renderInputObject(&b, typ)
		case KindObject:
			renderComposite(&b, "type", typ)
		case KindInterface:
			renderComposite(&b, "interface", typ)
		case KindUnion:
			renderUnion(&b, typ)
		}
	}

	directiveNames := make([]string, 0, len(s.directives))
	for name := range s.directives {
		if s.builtinDirectives[name] {
			continue
		}
		directiveNames = append(directiveNames, name)
	}
	sort.Strings(directiveNames)
	for _, name := range directiveNames {
		renderDirective(&b, s.directives[name])
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderSchemaBlock(b *strings.Builder, s *Schema) {
	conventional := s.query.Name == "Query" &&
		(s.mutation == nil || s.mutation.Name == "Mutation") &&
		(s.subscription == nil || s.subscription.Name == "Subscription")
	if conventional {
		return
	}
	renderDescription(b, s.description)
	b.WriteString("schema {\n")
	b.WriteString("  query: " + s.query.Name + "\n")
	if s.mutation != nil {
		b.WriteString("  mutation: " + s.mutation.Name + "\n")
	}
	if s.subscription != nil {
		b.WriteString("  subscription: " + s.subscription.Name + "\n")
	}
	b.WriteString("}\n\n")
}

func renderDescription(b *strings.Builder, desc string) {
	if desc == "" {
		return
	}
	// `\"""` is the only escape sequence block strings recognize.
	b.WriteString("\"\"\"\n")
	b.WriteString(strings.ReplaceAll(desc, `"""`, `\"""`))
	b.WriteString("\n\"\"\"\n")
}

func renderScalar(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("scalar ")
	b.WriteString(typ.Name)
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("enum ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues {
		renderDescription(b, val.Description)
		b.WriteString("  ")
		b.WriteString(val.Name)
		renderDeprecated(b, val.IsDeprecated, val.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderInputObject(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("input ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, field := range typ.InputFields {
		renderDescription(b, field.Description)
		b.WriteString("  ")
		renderInputValue(b, field)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderComposite(b *strings.Builder, keyword string, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(typ.Name)
	if len(typ.Interfaces) > 0 {
		names := make([]string, len(typ.Interfaces))
		for i, r := range typ.Interfaces {
			names[i] = r.String()
		}
		b.WriteString(" implements ")
		b.WriteString(strings.Join(names, " & "))
	}
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		renderDescription(b, field.Description)
		b.WriteString("  ")
		b.WriteString(field.Name)
		renderArgs(b, field.Args)
		b.WriteString(": ")
		b.WriteString(field.Type.String())
		renderDeprecated(b, field.IsDeprecated, field.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	names := make([]string, len(typ.PossibleTypes))
	for i, r := range typ.PossibleTypes {
		names[i] = r.String()
	}
	b.WriteString("union ")
	b.WriteString(typ.Name)
	b.WriteString(" = ")
	b.WriteString(strings.Join(names, " | "))
	b.WriteString("\n\n")
}

func renderDirective(b *strings.Builder, d *Directive) {
	renderDescription(b, d.Description)
	b.WriteString("directive @")
	b.WriteString(d.Name)
	renderArgs(b, d.Args)
	if d.IsRepeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	b.WriteString(strings.Join(d.Locations, " | "))
	b.WriteString("\n\n")
}

func renderDeprecated(b *strings.Builder, deprecated bool, reason string) {
	if !deprecated {
		return
	}
	b.WriteString(" @deprecated")
	if reason != "" {
		b.WriteString("(reason: " + strconv.Quote(reason) + ")")
	}
}

func renderArgs(b *strings.Builder, args []*InputValue) {
	if len(args) == 0 {
		return
	}
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		renderInputValue(b, arg)
	}
	b.WriteString(")")
}

func renderInputValue(b *strings.Builder, in *InputValue) {
	b.WriteString(in.Name)
	b.WriteString(": ")
	b.WriteString(in.Type.String())
	if in.DefaultValue != nil {
		b.WriteString(" = ")
		b.WriteString(renderDefault(in))
	}
}

// renderDefault prints a coerced default back as an SDL literal. String
// defaults of enum-typed inputs were coerced from enum literals, so they are
// printed bare.
func renderDefault(in *InputValue) string {
	if s, ok := in.DefaultValue.(string); ok {
		if t, err := in.Type.Resolve(); err == nil && t.NamedType().Kind == KindEnum {
			return s
		}
	}
	return renderValue(in.DefaultValue)
}

func renderValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + renderValue(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
