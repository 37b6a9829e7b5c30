package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweve-ai/hedl-sub002/internal/header"
	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

func mustPreprocess(t *testing.T, text string) *lex.Source {
	t.Helper()
	src, err := lex.Preprocess([]byte(text), hedltype.DefaultOptions().MaxFileSize, hedltype.DefaultOptions().MaxLineLength)
	require.NoError(t, err)
	return src
}

func TestParse_VersionDefault(t *testing.T) {
	src := mustPreprocess(t, "---\nkey: value\n")
	res, err := header.Parse(src, hedltype.DefaultOptions())
	require.Nil(t, err)
	assert.Equal(t, 1, res.Doc.Version.Major)
	assert.Equal(t, 0, res.Doc.Version.Minor)
}

func TestParse_ExplicitVersion(t *testing.T) {
	src := mustPreprocess(t, "%VERSION: 1.0\n---\n")
	res, err := header.Parse(src, hedltype.DefaultOptions())
	require.Nil(t, err)
	assert.Equal(t, 1, res.Doc.Version.Major)
}

func TestParse_UnsupportedVersionMajor(t *testing.T) {
	src := mustPreprocess(t, "%VERSION: 2.0\n---\n")
	_, err := header.Parse(src, hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrVersion, err.Kind)
}

func TestParse_Struct(t *testing.T) {
	src := mustPreprocess(t, "%STRUCT: User: [id, name, role]\n---\n")
	res, err := header.Parse(src, hedltype.DefaultOptions())
	require.Nil(t, err)
	assert.Equal(t, []string{"id", "name", "role"}, res.Doc.Structs["User"])
}

func TestParse_DuplicateStruct(t *testing.T) {
	src := mustPreprocess(t, "%STRUCT: User: [id]\n%STRUCT: User: [id, name]\n---\n")
	_, err := header.Parse(src, hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSchema, err.Kind)
}

func TestParse_DuplicateColumn(t *testing.T) {
	src := mustPreprocess(t, "%STRUCT: User: [id, id]\n---\n")
	_, err := header.Parse(src, hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSchema, err.Kind)
}

func TestParse_Alias(t *testing.T) {
	src := mustPreprocess(t, `%ALIAS: %greeting: "hello"`+"\n---\n")
	res, err := header.Parse(src, hedltype.DefaultOptions())
	require.Nil(t, err)
	assert.Equal(t, "hello", res.Doc.Aliases["%greeting"])
}

func TestParse_DuplicateAlias(t *testing.T) {
	src := mustPreprocess(t, `%ALIAS: %g: "a"`+"\n"+`%ALIAS: %g: "b"`+"\n---\n")
	_, err := header.Parse(src, hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrAlias, err.Kind)
}

func TestParse_Nest(t *testing.T) {
	src := mustPreprocess(t, "%STRUCT: User: [id]\n%STRUCT: Post: [id]\n%NEST: User > Post\n---\n")
	res, err := header.Parse(src, hedltype.DefaultOptions())
	require.Nil(t, err)
	assert.Equal(t, "Post", res.Doc.Nests["User"])
}

func TestParse_NestUnknownType(t *testing.T) {
	src := mustPreprocess(t, "%STRUCT: User: [id]\n%NEST: User > Post\n---\n")
	_, err := header.Parse(src, hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSchema, err.Kind)
}

func TestParse_MissingSeparatorWithNonEmptyPrelude(t *testing.T) {
	src := mustPreprocess(t, "%VERSION: 1.0\nkey: value\n")
	_, err := header.Parse(src, hedltype.DefaultOptions())
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrSyntax, err.Kind)
}

func TestParse_EmptyDocumentNoSeparatorRequired(t *testing.T) {
	src := mustPreprocess(t, "")
	res, err := header.Parse(src, hedltype.DefaultOptions())
	require.Nil(t, err)
	assert.Equal(t, len(src.Lines), res.BodyStart)
}

func TestExpandAliases(t *testing.T) {
	aliases := map[string]string{"%g": "hello"}
	lines := []string{"key: %g"}
	out := header.ExpandAliases(lines, aliases)
	assert.Equal(t, "key: hello", out[0])
}
