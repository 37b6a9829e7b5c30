// Package header parses the %VERSION/%STRUCT/%ALIAS/%NEST directive block
// that precedes the "---" separator, and performs the textual alias
// substitution pass over the body that follows.
package header

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// maxAliasExpansionDepth bounds recursive %name substitution to prevent
// exponential blow-up (spec fixes this at 8).
const maxAliasExpansionDepth = 8

// Result is everything the body parser needs after the header is consumed:
// the populated document header fields and the source line index at which
// the body begins (the line after the "---" separator, or len(src.Lines)
// if the document has no body).
type Result struct {
	Doc       *ast.Document
	BodyStart int
}

// Parse consumes header lines from src starting at line 0 and returns the
// populated document header plus the body start index. opts bounds alias
// and column counts.
func Parse(src *lex.Source, opts hedltype.Options) (*Result, *hedltype.Error) {
	doc := ast.NewDocument()
	doc.Version = ast.Version{Major: 1, Minor: 0}
	versionSeen := false
	sawContent := false
	lastContentLine := 0

	i := 0
	for ; i < len(src.Lines); i++ {
		line := src.Lines[i]
		if src.IsBlank(line) || src.IsComment(line) {
			continue
		}
		text := src.Text(line)
		if strings.TrimSpace(text) == lex.HeaderSeparator {
			return &Result{Doc: doc, BodyStart: i + 1}, nil
		}
		sawContent = true
		lastContentLine = line.Number
		if err := parseDirective(doc, text, line.Number, opts, &versionSeen); err != nil {
			return nil, err
		}
	}
	// No separator found: only acceptable if the prelude had no actual
	// directive content (a wholly blank/empty input has no body either).
	if sawContent {
		return nil, hedltype.NewError(hedltype.ErrSyntax, lastContentLine, `missing "---" separator after header`)
	}
	return &Result{Doc: doc, BodyStart: i}, nil
}

func parseDirective(doc *ast.Document, text string, lineNo int, opts hedltype.Options, versionSeen *bool) *hedltype.Error {
	switch {
	case strings.HasPrefix(text, "%VERSION:"):
		return parseVersion(doc, text, lineNo, versionSeen)
	case strings.HasPrefix(text, "%STRUCT:"):
		return parseStruct(doc, text, lineNo, opts)
	case strings.HasPrefix(text, "%ALIAS:"):
		return parseAlias(doc, text, lineNo, opts)
	case strings.HasPrefix(text, "%NEST:"):
		return parseNest(doc, text, lineNo, opts)
	default:
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed header directive: %q", text))
	}
}

func parseVersion(doc *ast.Document, text string, lineNo int, versionSeen *bool) *hedltype.Error {
	if *versionSeen {
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, "%VERSION declared more than once")
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, "%VERSION:"))
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed %%VERSION value: %q", rest))
	}
	major, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	minor, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || major < 0 || minor < 0 {
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed %%VERSION value: %q", rest))
	}
	if major != 1 {
		return hedltype.NewError(hedltype.ErrVersion, lineNo, fmt.Sprintf("unsupported version major %d", major))
	}
	doc.Version = ast.Version{Major: major, Minor: minor}
	*versionSeen = true
	return nil
}

func parseStruct(doc *ast.Document, text string, lineNo int, opts hedltype.Options) *hedltype.Error {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "%STRUCT:"))
	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed %%STRUCT directive: %q", text))
	}
	typeName := strings.TrimSpace(rest[:colonIdx])
	if !lex.IsTypeName(typeName) {
		return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("invalid struct type name %q", typeName))
	}
	if _, exists := doc.Structs[typeName]; exists {
		return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("duplicate %%STRUCT: %s", typeName))
	}
	colsPart := strings.TrimSpace(rest[colonIdx+1:])
	if !strings.HasPrefix(colsPart, "[") || !strings.HasSuffix(colsPart, "]") {
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed %%STRUCT column list: %q", colsPart))
	}
	inner := colsPart[1 : len(colsPart)-1]
	var cols []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(inner, ",") {
		col := strings.TrimSpace(raw)
		if !lex.IsKeyToken(col) {
			return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("invalid column name %q in struct %s", col, typeName))
		}
		if seen[col] {
			return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("duplicate column %q in struct %s", col, typeName))
		}
		seen[col] = true
		cols = append(cols, col)
	}
	if len(cols) > opts.MaxColumns {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("struct %s exceeds max_columns (%d)", typeName, opts.MaxColumns))
	}
	doc.Structs[typeName] = cols
	return nil
}

func parseAlias(doc *ast.Document, text string, lineNo int, opts hedltype.Options) *hedltype.Error {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "%ALIAS:"))
	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return hedltype.NewError(hedltype.ErrAlias, lineNo, fmt.Sprintf("malformed %%ALIAS directive: %q", text))
	}
	name := strings.TrimSpace(rest[:colonIdx])
	if !strings.HasPrefix(name, "%") || !lex.IsKeyToken(name[1:]) {
		return hedltype.NewError(hedltype.ErrAlias, lineNo, fmt.Sprintf("invalid alias name %q", name))
	}
	if _, exists := doc.Aliases[name]; exists {
		return hedltype.NewError(hedltype.ErrAlias, lineNo, fmt.Sprintf("duplicate %%ALIAS: %s", name))
	}
	expansionPart := strings.TrimSpace(rest[colonIdx+1:])
	expansion, err := lex.DecodeQuotedString(expansionPart)
	if err != nil {
		return hedltype.NewError(hedltype.ErrAlias, lineNo, fmt.Sprintf("malformed %%ALIAS expansion: %q", expansionPart))
	}
	if len(doc.Aliases)+1 > opts.MaxAliases {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_aliases (%d)", opts.MaxAliases))
	}
	doc.Aliases[name] = expansion
	if err := checkAliasAcyclic(doc.Aliases, name); err != nil {
		return hedltype.NewError(hedltype.ErrAlias, lineNo, err.Error())
	}
	return nil
}

func parseNest(doc *ast.Document, text string, lineNo int, opts hedltype.Options) *hedltype.Error {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "%NEST:"))
	parts := strings.SplitN(rest, ">", 2)
	if len(parts) != 2 {
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed %%NEST directive: %q", text))
	}
	parent := strings.TrimSpace(parts[0])
	child := strings.TrimSpace(parts[1])
	if _, ok := doc.Structs[parent]; !ok {
		return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("%%NEST parent %q is not a declared struct", parent))
	}
	if _, ok := doc.Structs[child]; !ok {
		return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("%%NEST child %q is not a declared struct", child))
	}
	doc.Nests[parent] = child
	if len(doc.Nests) > opts.MaxNestDepth {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_nest_depth (%d)", opts.MaxNestDepth))
	}
	return nil
}

// checkAliasAcyclic scans newAlias's expansion (and transitively, any
// %name tokens it references) for a cycle back to newAlias, using a
// straightforward depth-first walk bounded by maxAliasExpansionDepth.
func checkAliasAcyclic(aliases map[string]string, newAlias string) error {
	visited := make(map[string]bool)
	var walk func(name string, depth int) error
	walk = func(name string, depth int) error {
		if depth > maxAliasExpansionDepth {
			return fmt.Errorf("alias expansion exceeds maximum depth of %d", maxAliasExpansionDepth)
		}
		if visited[name] {
			return fmt.Errorf("alias cycle detected at %s", name)
		}
		visited[name] = true
		defer delete(visited, name)
		expansion, ok := aliases[name]
		if !ok {
			return nil
		}
		for _, ref := range referencedAliases(expansion, aliases) {
			if ref == newAlias {
				return fmt.Errorf("alias cycle detected: %s references %s", name, newAlias)
			}
			if err := walk(ref, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(newAlias, 0)
}

// referencedAliases scans s for %name tokens that are registered aliases.
func referencedAliases(s string, aliases map[string]string) []string {
	var found []string
	for name := range aliases {
		if strings.Contains(s, name) {
			found = append(found, name)
		}
	}
	return found
}
