package stream

import (
	"fmt"
	"strings"
	"time"

	"github.com/dweve-ai/hedl-sub002/internal/header"
	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/internal/rowbuild"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// frameKind tags the three frame shapes the streaming decoder's descent
// stack holds. Unlike internal/parser, there is no tree to build: each
// frame carries only what is needed to keep producing events and to
// resolve ditto markers against the right predecessor row.
type frameKind int

const (
	frameObject frameKind = iota
	frameList
	frameNode
)

type streamFrame struct {
	kind    frameKind
	indent  int
	keyPath []string

	// frameObject: count of keys bound directly under this frame, toward
	// MaxObjectKeys. The streaming decoder never retains a seen-keys set
	// (that would make memory usage depend on keys seen, not just depth),
	// so a key that overwrites an earlier one in the same object is
	// counted again here — a conservative over-count rather than the
	// exact dedup internal/parser can afford with its full tree.
	keyCount int

	// frameList
	typeName string
	schema   []string
	lastRow  *ast.Node
	rowCount int

	// frameNode
	parentID         string
	currentChildType string
	lastChildRow     map[string]*ast.Node
}

// Decoder drives an incremental, memory-bounded pass over a HEDL document,
// yielding one Event per call to Next. It never builds the document's full
// tree and never resolves references: callers that need resolved
// references must collect Row/ChildRow nodes themselves and run them
// through a type registry once the stream is exhausted.
//
// Grounded on the teacher's pkg/types.NodeIter/ValueIter/Scanner shape: a
// three-method pull iterator (Next/Err/<Value>) the host drives one step
// at a time, here reduced to Next (Event, bool) and Err.
type Decoder struct {
	src     *lex.Source
	doc     *ast.Document
	opts    Options
	stack   []*streamFrame
	lineIdx int

	pending []Event
	err     *hedltype.Error

	headerEmitted bool
	totalRows     int
	totalKeys     int
	deadline      time.Time
	hasDeadline   bool
}

// NewDecoder preprocesses data, parses its header, expands any declared
// aliases over the body (§4.5 — applied here exactly once, before the
// first line is scanned, matching how the body parser must run alias
// substitution before further lexical processing), and returns a Decoder
// positioned at the start of the body.
func NewDecoder(data []byte, opts Options) (*Decoder, *hedltype.Error) {
	src, perr := lex.Preprocess(data, opts.MaxFileSize, opts.MaxLineLength)
	if perr != nil {
		serr := hedltype.NewError(hedltype.ErrSyntax, 0, perr.Error())
		if pe, ok := perr.(interface {
			Line() int
			Column() int
		}); ok {
			serr.Line, serr.Column = pe.Line(), pe.Column()
		}
		return nil, serr
	}
	hres, herr := header.Parse(src, opts.Options)
	if herr != nil {
		return nil, herr
	}
	if len(hres.Doc.Aliases) > 0 {
		bodyLines := lex.BodyLineTexts(src, hres.BodyStart)
		expanded := header.ExpandAliases(bodyLines, hres.Doc.Aliases)
		src = lex.RebuildWithBody(src, hres.BodyStart, expanded)
	}

	d := &Decoder{src: src, doc: hres.Doc, opts: opts, lineIdx: hres.BodyStart}
	d.stack = []*streamFrame{{kind: frameObject, indent: 0}}
	if opts.Timeout > 0 {
		d.deadline = time.Now().Add(opts.Timeout)
		d.hasDeadline = true
	}
	return d, nil
}

// NewFailedDecoder returns a Decoder that immediately reports err from
// Err with no events, for callers (like pkg/hedl.ParseStreaming) whose
// signature has no room for a separate construction error.
func NewFailedDecoder(err *hedltype.Error) *Decoder {
	return &Decoder{err: err, headerEmitted: true}
}

// Err returns the error that stopped iteration, or nil if the stream
// ended cleanly (or has not ended yet).
func (d *Decoder) Err() *hedltype.Error {
	return d.err
}

// Next returns the next event and true, or (nil, false) once the stream
// is exhausted or an error occurred; check Err to distinguish the two.
func (d *Decoder) Next() (Event, bool) {
	if d.err != nil {
		return nil, false
	}
	if !d.headerEmitted {
		d.headerEmitted = true
		return HeaderComplete{
			Version: d.doc.Version,
			Structs: d.doc.Structs,
			Aliases: d.doc.Aliases,
			Nests:   d.doc.Nests,
		}, true
	}
	for len(d.pending) == 0 {
		if d.hasDeadline && time.Now().After(d.deadline) {
			d.err = hedltype.NewError(hedltype.ErrSecurity, d.currentLine(), "streaming parse exceeded its configured timeout")
			return nil, false
		}
		if !d.step() {
			break
		}
	}
	if len(d.pending) == 0 {
		return nil, false
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	return ev, true
}

func (d *Decoder) currentLine() int {
	if d.lineIdx < len(d.src.Lines) {
		return d.src.Lines[d.lineIdx].Number
	}
	if len(d.src.Lines) > 0 {
		return d.src.Lines[len(d.src.Lines)-1].Number
	}
	return 0
}

func (d *Decoder) top() *streamFrame {
	return d.stack[len(d.stack)-1]
}

func (d *Decoder) push(f *streamFrame) {
	d.stack = append(d.stack, f)
}

func (d *Decoder) pop() *streamFrame {
	f := d.top()
	d.stack = d.stack[:len(d.stack)-1]
	return f
}

// step advances the scan by (at least) one source line, queuing whatever
// events that line produces into d.pending, and reports whether it made
// progress. It returns false once input is exhausted and every open list
// has been closed.
func (d *Decoder) step() bool {
	for d.lineIdx < len(d.src.Lines) {
		line := d.src.Lines[d.lineIdx]
		if d.src.IsBlank(line) || d.src.IsComment(line) {
			d.lineIdx++
			continue
		}
		text := d.src.Text(line)
		indentLevel, contentStart, ierr := lex.ComputeIndent(text)
		if ierr != nil {
			d.err = hedltype.NewError(hedltype.ErrSyntax, line.Number, ierr.Error())
			return false
		}
		if indentLevel > d.opts.MaxIndentDepth {
			d.err = hedltype.NewError(hedltype.ErrSecurity, line.Number, "exceeds max_indent_depth")
			return false
		}
		content := text[contentStart:]

		d.closeFramesAbove(indentLevel)
		top := d.top()
		if indentLevel != top.indent {
			d.err = hedltype.NewError(hedltype.ErrSyntax, line.Number, "unexpected indentation")
			return false
		}

		if strings.HasPrefix(content, string(lex.RowPrefix)) {
			if !d.handleRowLine(top, content, line.Number) {
				return false
			}
			d.lineIdx++
			return true
		}

		if !d.handleKeyValueLine(top, content, indentLevel, line.Number) {
			return false
		}
		return true
	}
	// End of input: close every still-open list so its ListEnd is emitted.
	if len(d.stack) > 1 {
		d.closeFramesAbove(-1)
		return len(d.pending) > 0
	}
	return false
}

// closeFramesAbove pops every frame whose indent is > the target indent
// (or all non-root frames if target is -1), emitting a ListEnd for each
// popped list frame. It returns whether anything was popped.
func (d *Decoder) closeFramesAbove(indentLevel int) bool {
	popped := false
	for len(d.stack) > 1 && (indentLevel < 0 || indentLevel < d.top().indent) {
		f := d.pop()
		if f.kind == frameList {
			d.pending = append(d.pending, ListEnd{KeyPath: f.keyPath, RowCount: f.rowCount})
		}
		popped = true
	}
	return popped
}

func (d *Decoder) handleRowLine(top *streamFrame, content string, lineNo int) bool {
	rowContent := strings.TrimPrefix(content, string(lex.RowPrefix))
	rowContent = strings.TrimPrefix(rowContent, " ")
	fields := lex.SplitCSVRow(rowContent)

	switch top.kind {
	case frameList:
		return d.handleListRow(top, fields, lineNo)
	case frameNode:
		return d.handleChildRow(top, fields, lineNo)
	default:
		d.err = hedltype.NewError(hedltype.ErrSyntax, lineNo, "row marker outside a matrix list")
		return false
	}
}

func (d *Decoder) handleListRow(top *streamFrame, fields []string, lineNo int) bool {
	var prevFields []ast.Value
	if top.lastRow != nil {
		prevFields = top.lastRow.Fields
	}
	id, values, rerr := rowbuild.Row(top.typeName, top.schema, fields, prevFields, d.opts.MaxIndentDepth, lineNo)
	if rerr != nil {
		d.err = rerr
		return false
	}
	node := &ast.Node{TypeName: top.typeName, ID: id, Fields: values, DefinedLine: lineNo}
	top.lastRow = node
	top.rowCount++
	d.totalRows++
	if d.totalRows > d.opts.MaxNodes {
		d.err = hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_nodes (%d)", d.opts.MaxNodes))
		return false
	}
	d.pending = append(d.pending, Row{KeyPath: top.keyPath, Node: node})
	d.push(&streamFrame{kind: frameNode, indent: top.indent + 1, keyPath: top.keyPath, typeName: top.typeName, parentID: id, lastChildRow: make(map[string]*ast.Node)})
	return true
}

func (d *Decoder) handleChildRow(top *streamFrame, fields []string, lineNo int) bool {
	childType := top.currentChildType
	if childType == "" {
		nested, ok := d.doc.Nests[top.typeName]
		if !ok {
			d.err = hedltype.NewError(hedltype.ErrOrphanRow, lineNo, fmt.Sprintf("type %s has no declared %%NEST child", top.typeName))
			return false
		}
		childType = nested
		top.currentChildType = childType
	}
	schema, ok := d.doc.Structs[childType]
	if !ok {
		d.err = hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("unknown nested type %q", childType))
		return false
	}
	var prevFields []ast.Value
	if prev := top.lastChildRow[childType]; prev != nil {
		prevFields = prev.Fields
	}
	id, values, rerr := rowbuild.Row(childType, schema, fields, prevFields, d.opts.MaxIndentDepth, lineNo)
	if rerr != nil {
		d.err = rerr
		return false
	}
	node := &ast.Node{TypeName: childType, ID: id, Fields: values, DefinedLine: lineNo}
	top.lastChildRow[childType] = node
	d.totalRows++
	if d.totalRows > d.opts.MaxNodes {
		d.err = hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_nodes (%d)", d.opts.MaxNodes))
		return false
	}
	d.pending = append(d.pending, ChildRow{ParentKeyPath: top.keyPath, ParentID: top.parentID, ChildType: childType, Node: node})
	d.push(&streamFrame{kind: frameNode, indent: top.indent + 1, keyPath: top.keyPath, typeName: childType, parentID: id, lastChildRow: make(map[string]*ast.Node)})
	return true
}

// checkKeyBudget raises ErrSecurity if binding one more key under top
// would cross MaxObjectKeys or MaxTotalKeys (§4.1, §7).
func (d *Decoder) checkKeyBudget(top *streamFrame, lineNo int) bool {
	top.keyCount++
	if top.keyCount > d.opts.MaxObjectKeys {
		d.err = hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_object_keys (%d)", d.opts.MaxObjectKeys))
		return false
	}
	d.totalKeys++
	if d.totalKeys > d.opts.MaxTotalKeys {
		d.err = hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_total_keys (%d)", d.opts.MaxTotalKeys))
		return false
	}
	return true
}

func (d *Decoder) handleKeyValueLine(top *streamFrame, content string, indentLevel, lineNo int) bool {
	key, value, ok := lex.SplitKeyValue(content)
	if !ok {
		d.err = hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("malformed line, expected \"key: value\": %q", content))
		return false
	}
	if !lex.IsKeyToken(key) {
		d.err = hedltype.NewError(hedltype.ErrSyntax, lineNo, fmt.Sprintf("invalid key %q", key))
		return false
	}
	if !d.checkKeyBudget(top, lineNo) {
		return false
	}
	path := append(append([]string{}, top.keyPath...), key)

	if value == "" {
		return d.openEmptyValue(top, path, indentLevel)
	}
	if strings.HasPrefix(value, "@") {
		if marker := lex.ParseListMarker(value); marker.OK {
			return d.openList(top, path, marker, indentLevel+1, lineNo)
		}
		// Not a valid @TypeName/@TypeName(N) list marker: falls through to
		// scalar inference below, covering a bare Reference binding like
		// "owner: @User:u1" or "owner: @u1" (§4.6).
	}
	if value == `"""` {
		return d.readBlockString(top, path, indentLevel)
	}
	if value == lex.DittoToken {
		d.err = hedltype.NewError(hedltype.ErrSemantic, lineNo, "ditto marker is only valid inside a matrix row")
		return false
	}
	v, verr := lex.InferValue(value, d.opts.MaxIndentDepth)
	if verr != nil {
		d.err = hedltype.NewError(hedltype.ErrSemantic, lineNo, verr.Error())
		return false
	}
	d.pending = append(d.pending, Scalar{KeyPath: path, Value: v})
	d.lineIdx++
	return true
}

// openEmptyValue peeks the next content line to decide whether key opens
// a nested object or a matrix list, mirroring internal/parser.openEmptyValue.
func (d *Decoder) openEmptyValue(top *streamFrame, path []string, indentLevel int) bool {
	next := d.nextContentLine(d.lineIdx + 1)
	if next < len(d.src.Lines) {
		line := d.src.Lines[next]
		text := d.src.Text(line)
		level, start, ierr := lex.ComputeIndent(text)
		if ierr == nil && level == indentLevel+1 {
			peekContent := text[start:]
			if marker := lex.ParseListMarker(peekContent); marker.OK {
				d.lineIdx = next
				return d.openList(top, path, marker, indentLevel+1, line.Number)
			}
		}
	}
	d.push(&streamFrame{kind: frameObject, indent: indentLevel + 1, keyPath: path})
	d.lineIdx++
	return true
}

func (d *Decoder) openList(top *streamFrame, path []string, marker lex.ListMarker, childIndent, lineNo int) bool {
	schema, ok := d.doc.Structs[marker.TypeName]
	if !ok {
		d.err = hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("unknown type %q referenced by list marker", marker.TypeName))
		return false
	}
	d.pending = append(d.pending, ListStart{KeyPath: path, TypeName: marker.TypeName, Schema: schema})
	d.push(&streamFrame{kind: frameList, indent: childIndent, keyPath: path, typeName: marker.TypeName, schema: schema})
	d.lineIdx++
	return true
}

func (d *Decoder) readBlockString(top *streamFrame, path []string, indentLevel int) bool {
	rawLines := make([]string, len(d.src.Lines))
	for i, l := range d.src.Lines {
		rawLines[i] = d.src.Text(l)
	}
	blockIndent := (indentLevel + 1) * lex.IndentWidth
	body, next, err := lex.ParseBlockString(rawLines, d.lineIdx+1, blockIndent, d.opts.MaxBlockStringSize)
	if err != nil {
		d.err = hedltype.NewError(hedltype.ErrSyntax, d.src.Lines[d.lineIdx].Number, err.Error())
		return false
	}
	d.pending = append(d.pending, Scalar{KeyPath: path, Value: ast.StringValue(body)})
	d.lineIdx = next
	return true
}

func (d *Decoder) nextContentLine(i int) int {
	for i < len(d.src.Lines) {
		l := d.src.Lines[i]
		if !d.src.IsBlank(l) && !d.src.IsComment(l) {
			return i
		}
		i++
	}
	return i
}
