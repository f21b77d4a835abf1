package schema

import "fmt"

// Build-time errors are structural: the whole build fails and no partial
// schema is returned. UnimplementedResolveTypeError is the one member of this
// file scoped to a single resolution instead.

// DocumentError reports a missing or structurally invalid input document.
type DocumentError struct {
	Reason string
}

func (e *DocumentError) Error() string {
	return "invalid schema document: " + e.Reason
}

// DuplicateSchemaDefinitionError reports more than one schema block in a
// document.
type DuplicateSchemaDefinitionError struct{}

func (e *DuplicateSchemaDefinitionError) Error() string {
	return "document contains more than one schema definition"
}

// DuplicateTypeNameError reports a definition that redefines an already
// registered type name, including the built-in scalars.
type DuplicateTypeNameError struct {
	Name string
}

func (e *DuplicateTypeNameError) Error() string {
	return fmt.Sprintf("type %q is defined more than once", e.Name)
}

// DuplicateDirectiveError reports a directive defined more than once in the
// document.
type DuplicateDirectiveError struct {
	Name string
}

func (e *DuplicateDirectiveError) Error() string {
	return fmt.Sprintf("directive @%s is defined more than once", e.Name)
}

// MissingRootTypeError reports a root operation type that does not resolve to
// an object type. The query root is mandatory; mutation and subscription are
// only checked when declared or, without a schema block, when their
// conventional name is present.
type MissingRootTypeError struct {
	Operation string
	TypeName  string   // empty when a schema block never declares the operation
	Kind      TypeKind // set when the name resolved to a non-object type
}

func (e *MissingRootTypeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s root type %q must be an object type, not %s", e.Operation, e.TypeName, e.Kind)
	}
	if e.TypeName == "" {
		return fmt.Sprintf("schema definition declares no %s root type", e.Operation)
	}
	return fmt.Sprintf("%s root type %q is not defined", e.Operation, e.TypeName)
}

// UnresolvedTypeError reports a type reference whose name never registers.
// The validation pass at the end of Build forces every reference, so these
// surface at build time.
type UnresolvedTypeError struct {
	Name string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("type %q is referenced but never defined", e.Name)
}

// UnimplementedResolveTypeError reports an interface or union that needed
// runtime type resolution while no resolve-type hook was installed.
type UnimplementedResolveTypeError struct {
	TypeName string
}

func (e *UnimplementedResolveTypeError) Error() string {
	return fmt.Sprintf("no resolve-type hook installed for abstract type %q", e.TypeName)
}
