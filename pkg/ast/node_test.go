package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

func makeNode(id string, fields ...ast.Value) *ast.Node {
	return &ast.Node{TypeName: "User", ID: id, Fields: fields}
}

func TestNode_Equal(t *testing.T) {
	a := makeNode("u1", ast.StringValue("Ada"), ast.IntValue(30))
	b := makeNode("u1", ast.StringValue("Ada"), ast.IntValue(30))
	assert.True(t, a.Equal(b))

	c := makeNode("u1", ast.StringValue("Ada"), ast.IntValue(31))
	assert.False(t, a.Equal(c))

	// ChildCount and DefinedLine are decorative and excluded from equality.
	hint := 3
	a.ChildCount = &hint
	a.DefinedLine = 10
	assert.True(t, a.Equal(b))
}

func TestNode_AddChild(t *testing.T) {
	parent := makeNode("u1")
	child := makeNode("p1")
	parent.AddChild("Post", child)
	assert.Len(t, parent.Children["Post"], 1)
	assert.Same(t, child, parent.Children["Post"][0])

	parent.AddChild("Post", makeNode("p2"))
	assert.Len(t, parent.Children["Post"], 2)
}

func TestMatrixList_Equal(t *testing.T) {
	l1 := &ast.MatrixList{
		TypeName: "User",
		Schema:   []string{"id", "name"},
		Rows:     []*ast.Node{makeNode("u1", ast.StringValue("Ada"))},
	}
	l2 := &ast.MatrixList{
		TypeName: "User",
		Schema:   []string{"id", "name"},
		Rows:     []*ast.Node{makeNode("u1", ast.StringValue("Ada"))},
	}
	assert.True(t, l1.Equal(l2))

	hint := 1
	l1.CountHint = &hint
	assert.True(t, l1.Equal(l2))

	l3 := &ast.MatrixList{
		TypeName: "User",
		Schema:   []string{"id", "name"},
		Rows:     []*ast.Node{makeNode("u2", ast.StringValue("Grace"))},
	}
	assert.False(t, l1.Equal(l3))
}
