package parser

import (
	"fmt"
	"strings"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// splitKeyValue and listMarker/parseListMarker are shared with the
// streaming decoder; see internal/lex.SplitKeyValue / lex.ParseListMarker.
func splitKeyValue(content string) (key, value string, ok bool) {
	return lex.SplitKeyValue(content)
}

type listMarker = lex.ListMarker

func parseListMarker(value string) listMarker {
	return lex.ParseListMarker(value)
}

// handleKeyValueLine processes a "key: value" line belonging to the
// current object (or root) frame. It may consume additional lines: a
// peek-ahead for the empty-value object/list disambiguation, or a run of
// lines for a block string.
func (p *parser) handleKeyValueLine(top *frame, content string, lineNo, indentLevel int, i int) (next int, herr *hedltype.Error) {
	key, value, ok := splitKeyValue(content)
	if !ok {
		return i, hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed line, expected \"key: value\": %q", content))
	}
	if !lex.IsKeyToken(key) {
		return i, hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("invalid key %q", key))
	}

	if value == "" {
		return p.openEmptyValue(top, key, indentLevel, i, lineNo)
	}
	if strings.HasPrefix(value, "@") {
		if marker := parseListMarker(value); marker.OK {
			return i + 1, p.openList(top, key, marker, indentLevel+1, lineNo)
		}
		// Not a valid @TypeName/@TypeName(N) list marker: falls through to
		// scalar inference below, covering a bare Reference binding like
		// "owner: @User:u1" or "owner: @u1" (§4.6).
	}
	if value == `"""` {
		return p.readBlockStringValue(top, key, indentLevel, i, lineNo)
	}
	if value == lex.DittoToken {
		return i, hedltype.NewError(hedltype.ErrSemantic, lineNo, "ditto marker is only valid inside a matrix row")
	}
	v, err := lex.InferValue(value, p.opts.MaxIndentDepth)
	if err != nil {
		return i, hedltype.NewError(hedltype.ErrSemantic, lineNo, err.Error())
	}
	if kerr := p.setScalar(top, key, v, lineNo); kerr != nil {
		return i, kerr
	}
	return i + 1, nil
}

// openEmptyValue handles a "key:" line with no inline value: it peeks the
// next non-blank, non-comment line to decide whether an object or a list
// is being opened.
func (p *parser) openEmptyValue(top *frame, key string, indentLevel, i, lineNo int) (int, *hedltype.Error) {
	next := p.nextContentLine(i + 1)
	if next < len(p.src.Lines) {
		line := p.src.Lines[next]
		text := p.src.Text(line)
		level, start, ierr := lex.ComputeIndent(text)
		if ierr == nil && level == indentLevel+1 {
			peekContent := text[start:]
			if marker := parseListMarker(peekContent); marker.OK {
				return next + 1, p.openList(top, key, marker, indentLevel+1, line.Number)
			}
		}
	}
	obj := ast.NewObjectItem()
	if kerr := p.setItem(top, key, obj, lineNo); kerr != nil {
		return i, kerr
	}
	p.push(newObjectFrame(indentLevel+1, obj))
	return i + 1, nil
}

func (p *parser) openList(top *frame, key string, marker listMarker, childIndent, lineNo int) *hedltype.Error {
	schema, ok := p.doc.Structs[marker.TypeName]
	if !ok {
		return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("unknown type %q referenced by list marker", marker.TypeName))
	}
	list := &ast.MatrixList{TypeName: marker.TypeName, Schema: schema, CountHint: marker.Count}
	if kerr := p.setItem(top, key, ast.ListItem{List: list}, lineNo); kerr != nil {
		return kerr
	}
	p.push(newListFrame(childIndent, list))
	return nil
}

func (p *parser) readBlockStringValue(top *frame, key string, indentLevel, i, lineNo int) (int, *hedltype.Error) {
	rawLines := make([]string, len(p.src.Lines))
	for idx, l := range p.src.Lines {
		rawLines[idx] = p.src.Text(l)
	}
	blockIndent := (indentLevel + 1) * lex.IndentWidth
	body, next, err := lex.ParseBlockString(rawLines, i+1, blockIndent, p.opts.MaxBlockStringSize)
	if err != nil {
		return i, hedltype.NewError(hedltype.ErrSyntax, p.src.Lines[i].Number, err.Error())
	}
	if kerr := p.setScalar(top, key, ast.StringValue(body), lineNo); kerr != nil {
		return i, kerr
	}
	return next, nil
}

// setItem attaches item under key in the current object/root frame,
// enforcing the per-object and whole-document key ceilings (§4.1, §7)
// before the key is recorded. Overwriting an existing key never counts
// against either budget.
func (p *parser) setItem(top *frame, key string, item ast.Item, lineNo int) *hedltype.Error {
	if kerr := p.checkKeyBudget(top.obj, key, lineNo); kerr != nil {
		return kerr
	}
	top.obj.Set(key, item)
	return nil
}

func (p *parser) setScalar(top *frame, key string, v ast.Value, lineNo int) *hedltype.Error {
	return p.setItem(top, key, ast.ScalarItem{Value: v}, lineNo)
}

// checkKeyBudget raises ErrSecurity if adding key to obj would cross
// MaxObjectKeys (this object's own ceiling) or MaxTotalKeys (the ceiling
// across every Object in the document). Existing keys are free to
// overwrite.
func (p *parser) checkKeyBudget(obj *ast.ObjectItem, key string, lineNo int) *hedltype.Error {
	if _, exists := obj.Fields[key]; exists {
		return nil
	}
	if len(obj.Keys) >= p.opts.MaxObjectKeys {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_object_keys (%d)", p.opts.MaxObjectKeys))
	}
	if p.totalKeys >= p.opts.MaxTotalKeys {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_total_keys (%d)", p.opts.MaxTotalKeys))
	}
	p.totalKeys++
	return nil
}

// nextContentLine returns the index of the next non-blank, non-comment
// line at or after i, or len(p.src.Lines) if none remains.
func (p *parser) nextContentLine(i int) int {
	for i < len(p.src.Lines) {
		l := p.src.Lines[i]
		if !p.src.IsBlank(l) && !p.src.IsComment(l) {
			return i
		}
		i++
	}
	return i
}
