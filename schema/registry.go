package schema

import "github.com/gqlkit/sdlschema/language"

// registry owns the name-to-type mapping for a single build. It is populated
// once, before any reference is forced, then its contents transfer into the
// returned Schema.
type registry struct {
	types map[string]*Type
}

func newRegistry() *registry {
	reg := &registry{types: make(map[string]*Type)}
	for _, t := range newBuiltinScalars() {
		reg.types[t.Name] = t
	}
	return reg
}

func (reg *registry) register(t *Type) error {
	if _, ok := reg.types[t.Name]; ok {
		return &DuplicateTypeNameError{Name: t.Name}
	}
	reg.types[t.Name] = t
	return nil
}

func (reg *registry) lookup(name string) (*Type, bool) {
	t, ok := reg.types[name]
	return t, ok
}

// ref creates a deferred reference to the given type expression. References
// may be created before their target registers; they resolve against the
// fully populated registry.
func (reg *registry) ref(expr *language.Type) *TypeRef {
	return &TypeRef{expr: expr, reg: reg}
}

func (reg *registry) namedRef(name string) *TypeRef {
	return reg.ref(&language.Type{NamedType: name})
}
