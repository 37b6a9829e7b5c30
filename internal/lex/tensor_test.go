package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
)

func TestParseTensor_Scalar(t *testing.T) {
	tn, err := lex.ParseTensor("[1, 2, 3]", 10)
	require.NoError(t, err)
	assert.True(t, tn.IsArray)
	require.Len(t, tn.Elements, 3)
	assert.Equal(t, 1.0, tn.Elements[0].Scalar)
	assert.Equal(t, 3.0, tn.Elements[2].Scalar)
}

func TestParseTensor_Nested(t *testing.T) {
	tn, err := lex.ParseTensor("[[1, 2], [3, 4]]", 10)
	require.NoError(t, err)
	assert.True(t, tn.IsArray)
	require.Len(t, tn.Elements, 2)
	assert.True(t, tn.Elements[0].IsArray)
	assert.Equal(t, 2.0, tn.Elements[0].Elements[1].Scalar)
}

func TestParseTensor_Ragged(t *testing.T) {
	_, err := lex.ParseTensor("[[1, 2], [3]]", 10)
	assert.Error(t, err)
}

func TestParseTensor_MixedShape(t *testing.T) {
	_, err := lex.ParseTensor("[1, [2, 3]]", 10)
	assert.Error(t, err)
}

func TestParseTensor_DepthLimit(t *testing.T) {
	_, err := lex.ParseTensor("[[1]]", 1)
	assert.Error(t, err)
}

func TestParseTensor_Unclosed(t *testing.T) {
	_, err := lex.ParseTensor("[1, 2", 10)
	assert.Error(t, err)
}

func TestParseTensor_Equal(t *testing.T) {
	a, err := lex.ParseTensor("[1, 2]", 10)
	require.NoError(t, err)
	b, err := lex.ParseTensor("[1, 2]", 10)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
