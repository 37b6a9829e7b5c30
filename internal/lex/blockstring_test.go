package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
)

func TestParseBlockString(t *testing.T) {
	lines := []string{
		`  first line`,
		`  second line`,
		`  """`,
		`  next: value`,
	}
	body, next, err := lex.ParseBlockString(lines, 0, 2, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", body)
	assert.Equal(t, 3, next)
}

func TestParseBlockString_Unclosed(t *testing.T) {
	lines := []string{`  first line`}
	_, _, err := lex.ParseBlockString(lines, 0, 2, 1<<20)
	assert.Error(t, err)
}

func TestParseBlockString_TooLarge(t *testing.T) {
	lines := []string{`  aaaaaaaaaa`, `  """`}
	_, _, err := lex.ParseBlockString(lines, 0, 2, 3)
	assert.Error(t, err)
}
