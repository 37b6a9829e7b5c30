package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

func TestValue_Equal(t *testing.T) {
	cases := []struct {
		name     string
		a, b     ast.Value
		wantSame bool
	}{
		{"null-null", ast.Null(), ast.Null(), true},
		{"null-int", ast.Null(), ast.IntValue(0), false},
		{"int-same", ast.IntValue(42), ast.IntValue(42), true},
		{"int-diff", ast.IntValue(42), ast.IntValue(43), false},
		{"float-same", ast.FloatValue(1.5), ast.FloatValue(1.5), true},
		{"string-same", ast.StringValue("x"), ast.StringValue("x"), true},
		{"string-diff", ast.StringValue("x"), ast.StringValue("y"), false},
		{
			"reference-same",
			ast.ReferenceValue(ast.Reference{TypeName: "User", ID: "u1"}),
			ast.ReferenceValue(ast.Reference{TypeName: "User", ID: "u1"}),
			true,
		},
		{
			"reference-diff-type",
			ast.ReferenceValue(ast.Reference{TypeName: "User", ID: "u1"}),
			ast.ReferenceValue(ast.Reference{TypeName: "Org", ID: "u1"}),
			false,
		},
		{
			"expression-same",
			ast.ExpressionValue("a + b"),
			ast.ExpressionValue("a + b"),
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantSame, tc.a.Equal(tc.b))
		})
	}
}

func TestTensor_Equal(t *testing.T) {
	scalar := ast.Tensor{Scalar: 3.0}
	sameScalar := ast.Tensor{Scalar: 3.0}
	diffScalar := ast.Tensor{Scalar: 4.0}
	arr := ast.Tensor{IsArray: true, Elements: []ast.Tensor{scalar, diffScalar}}
	sameArr := ast.Tensor{IsArray: true, Elements: []ast.Tensor{sameScalar, diffScalar}}
	shortArr := ast.Tensor{IsArray: true, Elements: []ast.Tensor{scalar}}

	assert.True(t, scalar.Equal(sameScalar))
	assert.False(t, scalar.Equal(diffScalar))
	assert.True(t, arr.Equal(sameArr))
	assert.False(t, arr.Equal(shortArr))
	assert.False(t, scalar.Equal(arr))
}

func TestDittoSentinel(t *testing.T) {
	d := ast.DittoSentinel()
	assert.True(t, ast.IsDittoSentinel(d))
	assert.False(t, ast.IsDittoSentinel(ast.StringValue("\x00hedl-ditto")))
	assert.False(t, ast.IsDittoSentinel(ast.IntValue(0)))
}
