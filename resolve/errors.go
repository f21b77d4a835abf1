package resolve

import (
	"fmt"
	"reflect"

	"github.com/gqlkit/sdlschema/schema"
)

// Resolution errors are scoped to the single field being resolved; the
// surrounding execution engine decides how to surface them.

// UnresolvableAccessorError reports a backing value with no accessor for the
// requested field.
type UnresolvableAccessorError struct {
	TypeName   string
	Field      string
	SourceType string
}

func (e *UnresolvableAccessorError) Error() string {
	return fmt.Sprintf("cannot resolve %s.%s: %s has no accessor named %q",
		e.TypeName, e.Field, e.SourceType, e.Field)
}

// InvalidAccessorArityError reports an accessor whose signature fits none of
// the supported calling conventions: (), (args), or (ctx, args), returning a
// value or a (value, error) pair.
type InvalidAccessorArityError struct {
	TypeName  string
	Field     string
	Accessor  string
	Signature string
}

func (e *InvalidAccessorArityError) Error() string {
	return fmt.Sprintf("accessor %s for %s.%s has unsupported signature %s: want (), (args), or (ctx, args) returning a value or (value, error)",
		e.Accessor, e.TypeName, e.Field, e.Signature)
}

func unresolvable(objectType *schema.Type, field *schema.Field, source any) error {
	sourceType := "<nil>"
	if t := reflect.TypeOf(source); t != nil {
		sourceType = t.String()
	}
	return &UnresolvableAccessorError{
		TypeName:   objectType.Name,
		Field:      field.Name,
		SourceType: sourceType,
	}
}

func invalidArity(objectType *schema.Type, field *schema.Field, accessor string, mt reflect.Type) error {
	return &InvalidAccessorArityError{
		TypeName:  objectType.Name,
		Field:     field.Name,
		Accessor:  accessor,
		Signature: mt.String(),
	}
}
