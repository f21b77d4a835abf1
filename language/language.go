package language

import (
	"fmt"
	"os"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseSchema parses a single SDL source into a schema document.
func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseSchemaFiles parses every named SDL file and merges the results into a
// single document, preserving file order.
func ParseSchemaFiles(filenames ...string) (*SchemaDocument, error) {
	merged := &SchemaDocument{}
	for _, filename := range filenames {
		src, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}
		doc, err := ParseSchema(filename, string(src))
		if err != nil {
			return nil, err
		}
		merged.Schema = append(merged.Schema, doc.Schema...)
		merged.SchemaExtension = append(merged.SchemaExtension, doc.SchemaExtension...)
		merged.Definitions = append(merged.Definitions, doc.Definitions...)
		merged.Extensions = append(merged.Extensions, doc.Extensions...)
		merged.Directives = append(merged.Directives, doc.Directives...)
	}
	return merged, nil
}
