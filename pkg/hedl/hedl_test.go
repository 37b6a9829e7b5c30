package hedl_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedl"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
	"github.com/dweve-ai/hedl-sub002/pkg/stream"
)

func TestParse_ScenarioA_Minimal(t *testing.T) {
	doc, err := hedl.Parse([]byte("%VERSION: 1.0\n---\nkey: value\n"), hedltype.DefaultOptions())
	require.Nil(t, err)
	got, ok := doc.Root.Fields["key"].(ast.ScalarItem)
	require.True(t, ok)
	assert.Equal(t, ast.StringValue("value"), got.Value)
}

func TestParse_ScenarioB_DittoCompaction(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name, role]\n---\nusers: @User\n  | u1, Alice, admin\n  | u2, Bob, admin\n"
	doc, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.Nil(t, err)
	out := hedl.Canonicalize(doc)
	assert.Contains(t, out, "| u1, Alice, admin\n")
	assert.Contains(t, out, "| u2, Bob, ^\n")
}

func TestParse_ScenarioC_ReferenceResolution(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n%STRUCT: Post: [id, author]\n---\nusers: @User\n  | u1, Alice\nposts: @Post\n  | p1, @User:u1\n"
	doc, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.Nil(t, err)
	postsList := doc.Root.Fields["posts"].(ast.ListItem).List
	ref := postsList.Rows[0].Fields[0]
	assert.Equal(t, ast.KindReference, ref.Kind)
	assert.Equal(t, "User", ref.Ref.TypeName)
	assert.Equal(t, "u1", ref.Ref.ID)
}

func TestParse_ScenarioD_OrphanRowRejection(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n%STRUCT: Post: [id, title]\n---\nusers: @User\n  | u1, Alice\n    | p1, Hello\n"
	_, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrOrphanRow, err.Kind)
	assert.Equal(t, 7, err.Line)
}

func TestParse_ScenarioE_Collision(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n---\nusers: @User\n  | u1, Alice\n  | u1, Bob\n"
	_, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrCollision, err.Kind)
	assert.Equal(t, 6, err.Line)
}

func TestValidate_ValidDocument(t *testing.T) {
	err := hedl.Validate([]byte("%VERSION: 1.0\n---\nkey: value\n"), hedltype.DefaultOptions())
	assert.Nil(t, err)
}

func TestValidate_InvalidDocument(t *testing.T) {
	err := hedl.Validate([]byte("%VERSION: 1.0\n---\nkey value\n"), hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSyntax, err.Kind)
}

func TestParseStreaming_MatchesParse(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n---\nusers: @User\n  | u1, Alice\n"
	doc, perr := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.Nil(t, perr)

	dec := hedl.ParseStreaming(strings.NewReader(text), hedltype.DefaultOptions())
	var streamedIDs []string
	for {
		ev, ok := dec.Next()
		if !ok {
			break
		}
		if r, ok := ev.(stream.Row); ok {
			streamedIDs = append(streamedIDs, r.Node.ID)
		}
	}
	require.Nil(t, dec.Err())

	list := doc.Root.Fields["users"].(ast.ListItem).List
	require.Len(t, list.Rows, 1)
	assert.Equal(t, []string{list.Rows[0].ID}, streamedIDs)
}

func TestAliasExpansionAppliesBeforeParsing(t *testing.T) {
	text := "%VERSION: 1.0\n%ALIAS: %greeting: \"hello\"\n---\nkey: %greeting\n"
	doc, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.Nil(t, err)
	got := doc.Root.Fields["key"].(ast.ScalarItem).Value
	assert.Equal(t, "hello", got.String)
}

func TestParse_QualifiedScalarReferenceBinding(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n---\nusers: @User\n  | u1, Alice\nowner: @User:u1\n"
	doc, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.Nil(t, err)
	got := doc.Root.Fields["owner"].(ast.ScalarItem).Value
	assert.Equal(t, ast.KindReference, got.Kind)
	assert.Equal(t, "User", got.Ref.TypeName)
	assert.Equal(t, "u1", got.Ref.ID)
}

func TestParse_UnqualifiedScalarReferenceBinding(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n---\nusers: @User\n  | u1, Alice\nowner: @u1\n"
	doc, err := hedl.Parse([]byte(text), hedltype.DefaultOptions())
	require.Nil(t, err)
	got := doc.Root.Fields["owner"].(ast.ScalarItem).Value
	assert.Equal(t, ast.KindReference, got.Kind)
	assert.Equal(t, "User", got.Ref.TypeName)
	assert.Equal(t, "u1", got.Ref.ID)
}

func TestParse_MaxObjectKeysExceeded(t *testing.T) {
	opts := hedltype.DefaultOptions()
	opts.MaxObjectKeys = 2
	text := "%VERSION: 1.0\n---\na: 1\nb: 2\nc: 3\n"
	_, err := hedl.Parse([]byte(text), opts)
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSecurity, err.Kind)
}

func TestParse_MaxObjectKeysNotExceededByOverwrite(t *testing.T) {
	opts := hedltype.DefaultOptions()
	opts.MaxObjectKeys = 1
	text := "%VERSION: 1.0\n---\na: 1\na: 2\n"
	doc, err := hedl.Parse([]byte(text), opts)
	require.Nil(t, err)
	got := doc.Root.Fields["a"].(ast.ScalarItem).Value
	assert.Equal(t, int64(2), got.Int)
}

func TestParse_MaxTotalKeysExceeded(t *testing.T) {
	opts := hedltype.DefaultOptions()
	opts.MaxObjectKeys = 10
	opts.MaxTotalKeys = 2
	text := "%VERSION: 1.0\n---\na:\n  x: 1\n  y: 2\nb: 3\n"
	_, err := hedl.Parse([]byte(text), opts)
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSecurity, err.Kind)
}
