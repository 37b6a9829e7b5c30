package parser

import (
	"fmt"
	"strings"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/internal/rowbuild"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// handleRowLine processes a "| ..." line. top must be a frameList (a
// top-level matrix row) or a frameNode (a nested child row).
func (p *parser) handleRowLine(top *frame, content string, lineNo int) *hedltype.Error {
	rowContent := strings.TrimPrefix(content, string(lex.RowPrefix))
	rowContent = strings.TrimPrefix(rowContent, " ")
	fields := lex.SplitCSVRow(rowContent)

	switch top.kind {
	case frameList:
		return p.handleListRow(top, fields, lineNo)
	case frameNode:
		return p.handleChildRow(top, fields, lineNo)
	default:
		return hedltype.NewError(hedltype.ErrSyntax, lineNo, "row marker outside a matrix list")
	}
}

func (p *parser) handleListRow(top *frame, fields []string, lineNo int) *hedltype.Error {
	node, err := p.buildRow(top.list.TypeName, top.list.Schema, fields, top.lastRow, lineNo)
	if err != nil {
		return err
	}
	if err := p.reg.Register(node.TypeName, node.ID, lineNo); err != nil {
		return err
	}
	top.list.Rows = append(top.list.Rows, node)
	top.lastRow = node
	p.rowCount++
	if p.rowCount > p.opts.MaxNodes {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_nodes (%d)", p.opts.MaxNodes))
	}
	p.push(newNodeFrame(top.indent+1, node))
	return nil
}

func (p *parser) handleChildRow(top *frame, fields []string, lineNo int) *hedltype.Error {
	parent := top.node
	childType := top.currentChildType
	if childType == "" {
		nested, ok := p.doc.Nests[parent.TypeName]
		if !ok {
			return hedltype.NewError(hedltype.ErrOrphanRow, lineNo, fmt.Sprintf("type %s has no declared %%NEST child", parent.TypeName))
		}
		childType = nested
		top.currentChildType = childType
	}
	schema, ok := p.doc.Structs[childType]
	if !ok {
		return hedltype.NewError(hedltype.ErrSchema, lineNo, fmt.Sprintf("unknown nested type %q", childType))
	}
	node, err := p.buildRow(childType, schema, fields, top.lastChildRow[childType], lineNo)
	if err != nil {
		return err
	}
	if err := p.reg.Register(node.TypeName, node.ID, lineNo); err != nil {
		return err
	}
	node.DefinedLine = lineNo
	parent.AddChild(childType, node)
	top.lastChildRow[childType] = node
	p.rowCount++
	if p.rowCount > p.opts.MaxNodes {
		return hedltype.NewError(hedltype.ErrSecurity, lineNo, fmt.Sprintf("exceeds max_nodes (%d)", p.opts.MaxNodes))
	}
	p.push(newNodeFrame(top.indent+1, node))
	return nil
}

// buildRow parses fields against schema, resolving any ditto markers
// against prev (the previous row of the same population, or nil), and
// returns the new Node. The row-level grammar is shared with the
// streaming decoder via internal/rowbuild.
func (p *parser) buildRow(typeName string, schema []string, fields []string, prev *ast.Node, lineNo int) (*ast.Node, *hedltype.Error) {
	var prevFields []ast.Value
	if prev != nil {
		prevFields = prev.Fields
	}
	id, values, err := rowbuild.Row(typeName, schema, fields, prevFields, p.opts.MaxIndentDepth, lineNo)
	if err != nil {
		return nil, err
	}
	return &ast.Node{TypeName: typeName, ID: id, Fields: values, DefinedLine: lineNo}, nil
}
