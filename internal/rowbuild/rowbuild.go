// Package rowbuild implements the shared "| id, field, ..." row semantics
// from §4.6: schema-count validation, id-column rules, and ditto
// resolution against the previous row of the same population. Both the
// body parser (internal/parser) and the streaming decoder (pkg/stream)
// need identical behavior here but build different downstream
// representations (a full *ast.Node tree vs. a one-shot event), so the
// row-level logic is factored out, mirroring the teacher's shared
// buildNodeFromBase helper reused by both its full and incremental tree
// builders.
package rowbuild

import (
	"fmt"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// Row validates fields against schema and resolves ditto markers against
// prevFields (the non-id fields of the previous row in this population,
// or nil if there is none). It returns the row's id and its resolved
// non-id field values in schema order.
func Row(typeName string, schema []string, fields []string, prevFields []ast.Value, maxDepth int, lineNo int) (id string, values []ast.Value, err *hedltype.Error) {
	if len(fields) != len(schema) {
		return "", nil, hedltype.NewError(hedltype.ErrShape, lineNo, fmt.Sprintf("row has %d fields, schema %s has %d columns", len(fields), typeName, len(schema)))
	}
	if fields[0] == lex.DittoToken {
		return "", nil, hedltype.NewError(hedltype.ErrSemantic, lineNo, "ditto marker not allowed in id column")
	}
	if fields[0] == lex.NullToken {
		return "", nil, hedltype.NewError(hedltype.ErrSemantic, lineNo, "null not allowed in id column")
	}
	if !lex.IsIDToken(fields[0]) {
		return "", nil, hedltype.NewError(hedltype.ErrSemantic, lineNo, fmt.Sprintf("invalid id %q", fields[0]))
	}
	values = make([]ast.Value, len(fields)-1)
	for i, raw := range fields[1:] {
		if raw == lex.DittoToken {
			if prevFields == nil || i >= len(prevFields) {
				return "", nil, hedltype.NewError(hedltype.ErrSemantic, lineNo, "ditto marker with no preceding row")
			}
			values[i] = prevFields[i]
			continue
		}
		v, verr := lex.InferValue(raw, maxDepth)
		if verr != nil {
			return "", nil, hedltype.NewError(hedltype.ErrSemantic, lineNo, verr.Error())
		}
		values[i] = v
	}
	return fields[0], values, nil
}
