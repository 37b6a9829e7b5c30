// Package canon implements the canonicalizer (§4.8): a deterministic
// pretty-printer that turns a Document back into the unique byte
// representation used for content hashing and diffing. Canonicalize is a
// fixed point: canonicalizing the result of parsing canonical output
// reproduces that same output byte-for-byte.
//
// Grounded on the teacher's hive/printer.Printer: a small struct wrapping
// a strings.Builder, a per-value-kind switch emitting deterministic text,
// and pure string-building helpers with no formatting library involved.
package canon

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

// printer accumulates canonical output. Unexported: callers only ever see
// the Canonicalize entry point and its result string.
type printer struct {
	b strings.Builder
}

// Canonicalize renders doc as the canonical byte representation described
// in §4.8: LF line endings, 2-space indent, sorted header directives,
// sorted object keys, ditto-compacted matrix rows, and a trailing newline.
func Canonicalize(doc *ast.Document) string {
	p := &printer{}
	p.writeHeader(doc)
	p.writeObjectBody(doc.Root, 0)
	return p.b.String()
}

func (p *printer) writeHeader(doc *ast.Document) {
	p.b.WriteString("%VERSION: ")
	p.b.WriteString(strconv.Itoa(doc.Version.Major))
	p.b.WriteByte('.')
	p.b.WriteString(strconv.Itoa(doc.Version.Minor))
	p.b.WriteByte('\n')

	for _, typeName := range sortedKeys(doc.Structs) {
		p.b.WriteString("%STRUCT: ")
		p.b.WriteString(typeName)
		p.b.WriteString(": [")
		p.b.WriteString(strings.Join(doc.Structs[typeName], ", "))
		p.b.WriteString("]\n")
	}

	for _, name := range sortedKeys(doc.Aliases) {
		p.b.WriteString("%ALIAS: ")
		p.b.WriteString(name)
		p.b.WriteString(`: "`)
		p.b.WriteString(escapeBlockless(doc.Aliases[name]))
		p.b.WriteString("\"\n")
	}

	for _, parent := range sortedNestParents(doc.Nests) {
		p.b.WriteString("%NEST: ")
		p.b.WriteString(parent)
		p.b.WriteString(" > ")
		p.b.WriteString(doc.Nests[parent])
		p.b.WriteByte('\n')
	}

	p.b.WriteByte('\n')
	p.b.WriteString("---\n")
}

// sortedKeys returns the keys of a string-valued map in code-point order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedNestParents orders %NEST directives by parent then child, per
// §4.8 ("sorted by parent then child").
func sortedNestParents(nests map[string]string) []string {
	parents := sortedKeys(nests)
	sort.Slice(parents, func(i, j int) bool {
		if parents[i] == parents[j] {
			return nests[parents[i]] < nests[parents[j]]
		}
		return parents[i] < parents[j]
	})
	return parents
}

func (p *printer) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		p.b.WriteString("  ")
	}
}

// writeObjectBody writes every key of obj, sorted, at the given depth.
func (p *printer) writeObjectBody(obj *ast.ObjectItem, depth int) {
	for _, key := range obj.SortedKeys() {
		p.writeItem(key, obj.Fields[key], depth)
	}
}

func (p *printer) writeItem(key string, item ast.Item, depth int) {
	p.writeIndent(depth)
	switch v := item.(type) {
	case ast.ScalarItem:
		p.b.WriteString(key)
		p.b.WriteString(": ")
		p.writeValue(v.Value)
		p.b.WriteByte('\n')
	case *ast.ObjectItem:
		p.b.WriteString(key)
		p.b.WriteString(":\n")
		p.writeObjectBody(v, depth+1)
	case ast.ListItem:
		p.writeList(key, v.List, depth)
	}
}

func (p *printer) writeList(key string, l *ast.MatrixList, depth int) {
	p.b.WriteString(key)
	p.b.WriteString(": @")
	p.b.WriteString(l.TypeName)
	if l.CountHint != nil && *l.CountHint == len(l.Rows) {
		p.b.WriteByte('(')
		p.b.WriteString(strconv.Itoa(*l.CountHint))
		p.b.WriteByte(')')
	}
	p.b.WriteByte('\n')

	var prev *ast.Node
	for _, row := range l.Rows {
		p.writeRow(row, prev, depth+1)
		prev = row
	}
}

// writeRow writes one "| id, field, field, ..." line, compacting any
// field equal to prev's corresponding field into a ditto marker, then
// recurses into the row's own children: their rows are written one level
// deeper, grouped by child type in sorted order for determinism, with no
// separate marker line per child type.
func (p *printer) writeRow(n *ast.Node, prev *ast.Node, depth int) {
	p.writeIndent(depth)
	p.b.WriteString("| ")
	p.b.WriteString(n.ID)
	for i, f := range n.Fields {
		p.b.WriteString(", ")
		if prev != nil && i < len(prev.Fields) && f.Equal(prev.Fields[i]) {
			p.b.WriteByte('^')
			continue
		}
		p.writeValue(f)
	}
	p.b.WriteByte('\n')

	for _, childType := range sortedKeys(n.Children) {
		p.writeChildBlock(childType, n.Children[childType], depth+1)
	}
}

func (p *printer) writeChildBlock(childType string, rows []*ast.Node, depth int) {
	var prev *ast.Node
	for _, row := range rows {
		p.writeRow(row, prev, depth)
		prev = row
	}
}
