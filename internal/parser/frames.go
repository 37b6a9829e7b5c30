package parser

import "github.com/dweve-ai/hedl-sub002/pkg/ast"

// frameKind tags the four frame shapes the body parser's stack holds.
type frameKind int

const (
	frameRoot frameKind = iota
	frameObject
	frameList
	frameNode
)

// frame is one level of the parser's descent stack. Not every field is
// meaningful for every kind; see the frameKind constants.
type frame struct {
	kind frameKind
	// indent is the expected indentation level of lines that are direct
	// content of this frame (its children, in the indentation sense).
	indent int

	// frameObject / frameRoot
	obj *ast.ObjectItem

	// frameList
	list    *ast.MatrixList
	lastRow *ast.Node

	// frameNode
	node             *ast.Node
	currentChildType string
	lastChildRow     map[string]*ast.Node
}

func newRootFrame(root *ast.ObjectItem) *frame {
	return &frame{kind: frameRoot, indent: 0, obj: root}
}

func newObjectFrame(indent int, obj *ast.ObjectItem) *frame {
	return &frame{kind: frameObject, indent: indent, obj: obj}
}

func newListFrame(indent int, list *ast.MatrixList) *frame {
	return &frame{kind: frameList, indent: indent, list: list}
}

func newNodeFrame(indent int, node *ast.Node) *frame {
	return &frame{kind: frameNode, indent: indent, node: node, lastChildRow: make(map[string]*ast.Node)}
}
