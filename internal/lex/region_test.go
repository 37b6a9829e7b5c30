package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
)

func TestScanProtectedRegions_Quote(t *testing.T) {
	line := `a, "b, c", d`
	regions := lex.ScanProtectedRegions(line)
	assert.Len(t, regions, 1)
	idx := 3
	assert.True(t, lex.InProtectedRegion(regions, idx))
	// the comma inside the quoted field is protected
	commaIdx := 5
	assert.True(t, lex.InProtectedRegion(regions, commaIdx))
	// the comma after the closing quote is not
	lastComma := len(`a, "b, c"`)
	assert.False(t, lex.InProtectedRegion(regions, lastComma))
}

func TestScanProtectedRegions_Expression(t *testing.T) {
	line := `x, $(a + (b, c)), y`
	regions := lex.ScanProtectedRegions(line)
	assert.Len(t, regions, 1)
	innerComma := 11
	assert.True(t, lex.InProtectedRegion(regions, innerComma))
}

func TestScanProtectedRegions_Escape(t *testing.T) {
	line := `"a\"b"`
	regions := lex.ScanProtectedRegions(line)
	assert.Len(t, regions, 1)
	assert.Equal(t, 0, regions[0].Start)
	assert.Equal(t, len(line), regions[0].End)
}
