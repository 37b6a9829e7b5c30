package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

func TestNewDocument_Empty(t *testing.T) {
	d := ast.NewDocument()
	assert.NotNil(t, d.Aliases)
	assert.NotNil(t, d.Structs)
	assert.NotNil(t, d.Nests)
	assert.NotNil(t, d.Root)
	assert.Empty(t, d.Root.Keys)
}

func TestDocument_Equal(t *testing.T) {
	d1 := ast.NewDocument()
	d1.Version = ast.Version{Major: 1, Minor: 0}
	d1.Structs["User"] = []string{"id", "name"}
	d1.Root.Set("greeting", ast.ScalarItem{Value: ast.StringValue("hi")})

	d2 := ast.NewDocument()
	d2.Version = ast.Version{Major: 1, Minor: 0}
	d2.Structs["User"] = []string{"id", "name"}
	d2.Root.Set("greeting", ast.ScalarItem{Value: ast.StringValue("hi")})

	assert.True(t, d1.Equal(d2))

	d2.Version = ast.Version{Major: 1, Minor: 1}
	assert.False(t, d1.Equal(d2))

	d2.Version = d1.Version
	d2.Nests["User"] = "Post"
	assert.False(t, d1.Equal(d2))
}
