// Package lint implements the advisory linter (§4.10): a pure pass over a
// parsed Document that reports style and consistency diagnostics without
// ever failing the parse.
//
// Grounded on internal/repair.Diagnostic/DiagnosticReport's "collect
// everything, never abort, format multiple ways" pattern, rescoped from
// binary-hive corruption categories to HEDL's advisory rules (ten rule ids
// are declared below; Lint checks six of them); unlike
// the teacher's four-tier Severity (Info/Warning/Error/Critical), HEDL's
// spec names only three (Hint/Warning/Error).
package lint

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SevHint Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "Hint"
	case SevWarning:
		return "Warning"
	case SevError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Rule ids, named per spec.md §4.10.
const (
	RuleUnusedAlias        = "unused-alias"
	RuleUnusedSchema       = "unused-schema"
	RuleIDNaming           = "id-naming"
	RuleTypeNaming         = "type-naming"
	RuleDeeplyNested       = "deeply-nested"
	RuleAmbiguousReference = "ambiguous-reference"
	RuleEmptyList          = "empty-list"
	RuleMissingIDColumn    = "missing-id-column"
	RuleDuplicateKey       = "duplicate-key"
	RuleInconsistentDitto  = "inconsistent-ditto"
)

// deeplyNestedThreshold is the soft nesting-depth warning threshold;
// strictly less than hedltype.DefaultMaxIndentDepth per §4.10.
const deeplyNestedThreshold = 20

// Diagnostic is a single advisory finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	RuleID   string   `json:"rule_id"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
}

// Report collects every diagnostic from a single Lint call.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends d to the report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Finalize sorts diagnostics by line for stable, readable output.
func (r *Report) Finalize() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		return r.Diagnostics[i].Line < r.Diagnostics[j].Line
	})
}

// FormatText renders the report as human-readable lines.
func (r *Report) FormatText() string {
	if len(r.Diagnostics) == 0 {
		return "No issues found.\n"
	}
	var b strings.Builder
	for _, d := range r.Diagnostics {
		if d.Line > 0 {
			fmt.Fprintf(&b, "[%s] %s (line %d): %s\n", d.Severity, d.RuleID, d.Line, d.Message)
		} else {
			fmt.Fprintf(&b, "[%s] %s: %s\n", d.Severity, d.RuleID, d.Message)
		}
	}
	return b.String()
}

// FormatJSON renders the report as indented JSON.
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Lint runs the unused-alias, unused-schema, type-naming, id-naming,
// empty-list and deeply-nested rules over doc and returns the findings in
// document order by line. The ambiguous-reference, missing-id-column,
// duplicate-key and inconsistent-ditto rule ids are declared but never
// reported. Lint never fails; a Document with no issues returns an
// empty slice.
func Lint(doc *ast.Document) []Diagnostic {
	report := &Report{}
	checkUnusedAliases(doc, report)
	checkUnusedSchemas(doc, report)
	checkNaming(doc, report)
	checkLists(doc, report)
	report.Finalize()
	return report.Diagnostics
}

func checkUnusedAliases(doc *ast.Document, report *Report) {
	for name := range doc.Aliases {
		// Alias substitution already ran during parsing (§4.5); by the
		// time Lint sees the Document, no literal "%name" tokens survive
		// in any value. An alias is "unused" if its expansion never
		// appears as a String anywhere in the tree.
		if !expansionAppearsSomewhere(doc, doc.Aliases[name]) {
			report.Add(Diagnostic{Severity: SevHint, RuleID: RuleUnusedAlias, Message: fmt.Sprintf("alias %s is never referenced", name)})
		}
	}
}

func expansionAppearsSomewhere(doc *ast.Document, expansion string) bool {
	found := false
	walkValues(doc.Root, func(v ast.Value) {
		if v.Kind == ast.KindString && strings.Contains(v.String, expansion) {
			found = true
		}
	})
	return found
}

func checkUnusedSchemas(doc *ast.Document, report *Report) {
	used := usedTypeNames(doc)
	for typeName := range doc.Structs {
		if !used[typeName] {
			report.Add(Diagnostic{Severity: SevHint, RuleID: RuleUnusedSchema, Message: fmt.Sprintf("struct %s is never used by a list", typeName)})
		}
	}
}

func usedTypeNames(doc *ast.Document) map[string]bool {
	used := make(map[string]bool)
	var walk func(o *ast.ObjectItem)
	walk = func(o *ast.ObjectItem) {
		for _, key := range o.Keys {
			switch v := o.Fields[key].(type) {
			case *ast.ObjectItem:
				walk(v)
			case ast.ListItem:
				used[v.List.TypeName] = true
				walkNodesTypes(v.List.Rows, used)
			}
		}
	}
	walk(doc.Root)
	return used
}

func walkNodesTypes(rows []*ast.Node, used map[string]bool) {
	for _, n := range rows {
		for childType, children := range n.Children {
			used[childType] = true
			walkNodesTypes(children, used)
		}
	}
}

func checkNaming(doc *ast.Document, report *Report) {
	for typeName := range doc.Structs {
		if !lex.IsTypeName(typeName) {
			report.Add(Diagnostic{Severity: SevWarning, RuleID: RuleTypeNaming, Message: fmt.Sprintf("type name %q does not follow PascalCase convention", typeName)})
		}
	}
	var walk func(o *ast.ObjectItem)
	walk = func(o *ast.ObjectItem) {
		for _, key := range o.Keys {
			switch v := o.Fields[key].(type) {
			case *ast.ObjectItem:
				walk(v)
			case ast.ListItem:
				checkRowIDNaming(v.List.Rows, report)
			}
		}
	}
	walk(doc.Root)
}

func checkRowIDNaming(rows []*ast.Node, report *Report) {
	for _, n := range rows {
		if !isRecommendedID(n.ID) {
			report.Add(Diagnostic{Severity: SevHint, RuleID: RuleIDNaming, Message: fmt.Sprintf("id %q does not follow the recommended naming convention", n.ID), Line: n.DefinedLine})
		}
		for _, children := range n.Children {
			checkRowIDNaming(children, report)
		}
	}
}

// isRecommendedID reports whether id follows the recommended convention:
// a key-token lead (letter or underscore), never a bare digit lead, even
// though IsIDToken permits digit leads for the grammar's sake.
func isRecommendedID(id string) bool {
	return id != "" && lex.IsKeyToken(id)
}

func checkLists(doc *ast.Document, report *Report) {
	var walk func(o *ast.ObjectItem, depth int)
	walk = func(o *ast.ObjectItem, depth int) {
		for _, key := range o.Keys {
			switch v := o.Fields[key].(type) {
			case *ast.ObjectItem:
				walk(v, depth+1)
			case ast.ListItem:
				if len(v.List.Rows) == 0 {
					report.Add(Diagnostic{Severity: SevHint, RuleID: RuleEmptyList, Message: fmt.Sprintf("list %q has no rows", key)})
				}
				checkNodeDepth(v.List.Rows, depth+1, report)
			}
		}
	}
	walk(doc.Root, 0)
}

func checkNodeDepth(rows []*ast.Node, depth int, report *Report) {
	if depth >= deeplyNestedThreshold {
		for _, n := range rows {
			report.Add(Diagnostic{Severity: SevWarning, RuleID: RuleDeeplyNested, Message: fmt.Sprintf("row %q is nested %d levels deep", n.ID, depth), Line: n.DefinedLine})
		}
	}
	for _, n := range rows {
		for _, children := range n.Children {
			checkNodeDepth(children, depth+1, report)
		}
	}
}

func walkValues(o *ast.ObjectItem, fn func(ast.Value)) {
	for _, key := range o.Keys {
		switch v := o.Fields[key].(type) {
		case ast.ScalarItem:
			fn(v.Value)
		case *ast.ObjectItem:
			walkValues(v, fn)
		case ast.ListItem:
			walkNodeValues(v.List.Rows, fn)
		}
	}
}

func walkNodeValues(rows []*ast.Node, fn func(ast.Value)) {
	for _, n := range rows {
		for _, f := range n.Fields {
			fn(f)
		}
		for _, children := range n.Children {
			walkNodeValues(children, fn)
		}
	}
}
