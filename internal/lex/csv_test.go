package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
)

func TestSplitCSVRow(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "u1, Alice, admin", []string{"u1", "Alice", "admin"}},
		{"trailing-comma", "u1, Alice,", []string{"u1", "Alice", ""}},
		{"quoted-comma", `u1, "Alice, Jones", admin`, []string{"u1", `"Alice, Jones"`, "admin"}},
		{"empty-field", "u1,,admin", []string{"u1", "", "admin"}},
		{"expression-comma", `u1, $(a, b), x`, []string{"u1", "$(a, b)", "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lex.SplitCSVRow(tc.input))
		})
	}
}
