// Package resolve provides the field-resolution strategies bound into a
// schema at build time: Convention probes backing Go values for accessors and
// memoizes the calling convention per field, Map carries explicit per-type
// overrides and falls back to Convention for everything else.
package resolve

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/gqlkit/sdlschema/internal/eventbus"
	"github.com/gqlkit/sdlschema/internal/events"
	"github.com/gqlkit/sdlschema/schema"
)

// Convention resolves a field by probing the backing value for an accessor
// named after the field: an exported method, an exported struct field (name
// or `graphql` tag), or a string-keyed map entry. Each (type, field) pair
// owns a slot; the first successful probe publishes a specialized resolver
// into it and later resolutions skip introspection entirely.
//
// A Convention value is safe for concurrent use. Concurrent first
// resolutions of the same slot may probe redundantly; the probe is
// deterministic and side-effect-free, so the racing installs converge and
// losers are discarded.
type Convention struct {
	slots  sync.Map // slotKey -> *slot
	probes atomic.Int64
}

// NewConvention returns a convention resolver with empty slots.
func NewConvention() *Convention { return &Convention{} }

type slotKey struct {
	objectType string
	field      string
}

type slot struct {
	fn atomic.Pointer[schema.FieldResolveFunc]
}

// ResolveField implements schema.Resolver.
func (c *Convention) ResolveField(ctx context.Context, objectType *schema.Type, field *schema.Field, source any, args map[string]any) (any, error) {
	v, _ := c.slots.LoadOrStore(slotKey{objectType.Name, field.Name}, &slot{})
	s := v.(*slot)
	if fn := s.fn.Load(); fn != nil {
		return (*fn)(ctx, source, args)
	}
	fn, err := c.probe(ctx, objectType, field, source)
	if err != nil {
		// Probe failures are returned, never installed: the field simply
		// cannot be resolved against this source.
		return nil, err
	}
	s.fn.CompareAndSwap(nil, &fn)
	installed := s.fn.Load()
	return (*installed)(ctx, source, args)
}

// probe inspects the source once and returns the specialized resolver for the
// accessor it finds.
func (c *Convention) probe(ctx context.Context, objectType *schema.Type, field *schema.Field, source any) (schema.FieldResolveFunc, error) {
	c.probes.Add(1)

	v := reflect.ValueOf(source)
	if !v.IsValid() {
		return nil, unresolvable(objectType, field, source)
	}

	name := accessorName(field.Name)
	if m := v.MethodByName(name); m.IsValid() {
		fn, err := methodResolver(objectType, field, name, m.Type())
		if err != nil {
			return nil, err
		}
		c.publishProbe(ctx, objectType, field, name, conventionName(m.Type().NumIn()))
		return fn, nil
	}

	elem := v
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, unresolvable(objectType, field, source)
		}
		elem = elem.Elem()
	}
	switch elem.Kind() {
	case reflect.Struct:
		if goName, ok := structFieldName(elem.Type(), field.Name); ok {
			c.publishProbe(ctx, objectType, field, goName, "struct-field")
			return structResolver(objectType, field, goName), nil
		}
	case reflect.Map:
		if elem.Type().Key().Kind() == reflect.String {
			if elem.MapIndex(reflect.ValueOf(field.Name)).IsValid() {
				c.publishProbe(ctx, objectType, field, field.Name, "map-key")
				return mapResolver(objectType, field), nil
			}
		}
	}
	return nil, unresolvable(objectType, field, source)
}

func (c *Convention) publishProbe(ctx context.Context, objectType *schema.Type, field *schema.Field, accessor, convention string) {
	eventbus.Publish(ctx, events.FieldProbe{
		ObjectType: objectType.Name,
		Field:      field.Name,
		Accessor:   accessor,
		Convention: convention,
	})
}

func conventionName(numIn int) string {
	switch numIn {
	case 0:
		return "no-args"
	case 1:
		return "args"
	default:
		return "args-context"
	}
}

var (
	argsType = reflect.TypeOf(map[string]any(nil))
	ctxType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType  = reflect.TypeOf((*error)(nil)).Elem()
)

// methodResolver maps the accessor's parameter count to a calling convention:
// 0 parameters, (args), or (ctx, args). Anything else is a configuration
// error. The accessor may return a value or a (value, error) pair.
func methodResolver(objectType *schema.Type, field *schema.Field, name string, mt reflect.Type) (schema.FieldResolveFunc, error) {
	numIn := mt.NumIn()
	switch numIn {
	case 0:
	case 1:
		if !argsType.AssignableTo(mt.In(0)) {
			return nil, invalidArity(objectType, field, name, mt)
		}
	case 2:
		if mt.In(0) != ctxType || !argsType.AssignableTo(mt.In(1)) {
			return nil, invalidArity(objectType, field, name, mt)
		}
	default:
		return nil, invalidArity(objectType, field, name, mt)
	}
	hasErr := false
	switch mt.NumOut() {
	case 1:
	case 2:
		if !mt.Out(1).Implements(errType) {
			return nil, invalidArity(objectType, field, name, mt)
		}
		hasErr = true
	default:
		return nil, invalidArity(objectType, field, name, mt)
	}

	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		m := reflect.ValueOf(source).MethodByName(name)
		if !m.IsValid() {
			return nil, unresolvable(objectType, field, source)
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if args == nil {
			args = map[string]any{}
		}
		var in []reflect.Value
		switch numIn {
		case 1:
			in = []reflect.Value{reflect.ValueOf(args)}
		case 2:
			in = []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(args)}
		}
		out := m.Call(in)
		if hasErr && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}, nil
}

func structResolver(objectType *schema.Type, field *schema.Field, goName string) schema.FieldResolveFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		v := reflect.ValueOf(source)
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, unresolvable(objectType, field, source)
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, unresolvable(objectType, field, source)
		}
		fv := v.FieldByName(goName)
		if !fv.IsValid() {
			return nil, unresolvable(objectType, field, source)
		}
		return fv.Interface(), nil
	}
}

func mapResolver(objectType *schema.Type, field *schema.Field) schema.FieldResolveFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		v := reflect.ValueOf(source)
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, unresolvable(objectType, field, source)
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Map {
			return nil, unresolvable(objectType, field, source)
		}
		mv := v.MapIndex(reflect.ValueOf(field.Name))
		if !mv.IsValid() {
			return nil, unresolvable(objectType, field, source)
		}
		return mv.Interface(), nil
	}
}

// accessorName converts a field name to the exported Go name probed for:
// "fullName" and "full_name" both map to "FullName".
func accessorName(field string) string {
	parts := strings.Split(field, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// structFieldName finds the Go struct field backing a schema field. A
// `graphql` tag takes priority over the derived exported name.
func structFieldName(t reflect.Type, field string) (string, bool) {
	goName := accessorName(field)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag, ok := f.Tag.Lookup("graphql"); ok {
			name := strings.Split(tag, ",")[0]
			if name == field {
				return f.Name, true
			}
			continue
		}
		if f.IsExported() && f.Name == goName {
			return f.Name, true
		}
	}
	return "", false
}
