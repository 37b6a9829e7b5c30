package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
	"github.com/dweve-ai/hedl-sub002/pkg/stream"
)

func collect(t *testing.T, text string) ([]stream.Event, *hedltype.Error) {
	t.Helper()
	dec, err := stream.NewDecoder([]byte(text), stream.DefaultOptions())
	require.Nil(t, err)
	var events []stream.Event
	for {
		ev, ok := dec.Next()
		if !ok {
			break
		}
		events = append(events, ev)
	}
	return events, dec.Err()
}

func TestDecoder_HeaderFirst(t *testing.T) {
	events, err := collect(t, "%VERSION: 1.0\n---\nkey: value\n")
	require.Nil(t, err)
	require.NotEmpty(t, events)
	hc, ok := events[0].(stream.HeaderComplete)
	require.True(t, ok)
	assert.Equal(t, 1, hc.Version.Major)
}

func TestDecoder_ScalarEvent(t *testing.T) {
	events, err := collect(t, "%VERSION: 1.0\n---\nkey: value\n")
	require.Nil(t, err)
	var scalars []stream.Scalar
	for _, ev := range events {
		if s, ok := ev.(stream.Scalar); ok {
			scalars = append(scalars, s)
		}
	}
	require.Len(t, scalars, 1)
	assert.Equal(t, []string{"key"}, scalars[0].KeyPath)
	assert.Equal(t, "value", scalars[0].Value.String)
}

func TestDecoder_ListStartRowListEnd(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name, role]\n---\nusers: @User\n  | u1, Alice, admin\n  | u2, Bob, ^\n"
	events, err := collect(t, text)
	require.Nil(t, err)

	var start *stream.ListStart
	var rows []stream.Row
	var end *stream.ListEnd
	for _, ev := range events {
		switch v := ev.(type) {
		case stream.ListStart:
			start = &v
		case stream.Row:
			rows = append(rows, v)
		case stream.ListEnd:
			end = &v
		}
	}
	require.NotNil(t, start)
	assert.Equal(t, "User", start.TypeName)
	require.Len(t, rows, 2)
	assert.Equal(t, "u1", rows[0].Node.ID)
	assert.Equal(t, "u2", rows[1].Node.ID)
	// ditto is resolved even though references aren't.
	assert.Equal(t, "admin", rows[1].Node.Fields[1].String)
	require.NotNil(t, end)
	assert.Equal(t, 2, end.RowCount)
}

func TestDecoder_ChildRow(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n%STRUCT: Post: [id, title]\n%NEST: User > Post\n---\nusers: @User\n  | u1, Alice\n    | p1, Hello\n"
	events, err := collect(t, text)
	require.Nil(t, err)

	var child *stream.ChildRow
	for _, ev := range events {
		if v, ok := ev.(stream.ChildRow); ok {
			child = &v
		}
	}
	require.NotNil(t, child)
	assert.Equal(t, "u1", child.ParentID)
	assert.Equal(t, "Post", child.ChildType)
	assert.Equal(t, "p1", child.Node.ID)
}

func TestDecoder_OrphanRow(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n%STRUCT: Post: [id, title]\n---\nusers: @User\n  | u1, Alice\n    | p1, Hello\n"
	_, err := collect(t, text)
	require.NotNil(t, err)
	assert.Equal(t, hedltype.ErrOrphanRow, err.Kind)
}

func TestDecoder_ReferencesNotResolved(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n%STRUCT: Post: [id, author]\n---\nusers: @User\n  | u1, Alice\nposts: @Post\n  | p1, @User:u1\n"
	events, err := collect(t, text)
	require.Nil(t, err)
	var postRow *stream.Row
	for _, ev := range events {
		if r, ok := ev.(stream.Row); ok && r.Node.TypeName == "Post" {
			postRow = &r
		}
	}
	require.NotNil(t, postRow)
	assert.Equal(t, ast.KindReference, postRow.Node.Fields[0].Kind)
	assert.Equal(t, "User", postRow.Node.Fields[0].Ref.TypeName)
}

func TestDecoder_ScalarReferenceBinding(t *testing.T) {
	text := "%VERSION: 1.0\n%STRUCT: User: [id, name]\n---\nowner: @User:u1\n"
	events, err := collect(t, text)
	require.Nil(t, err)
	var scalar *stream.Scalar
	for _, ev := range events {
		if s, ok := ev.(stream.Scalar); ok {
			scalar = &s
		}
	}
	require.NotNil(t, scalar)
	assert.Equal(t, ast.KindReference, scalar.Value.Kind)
	assert.Equal(t, "User", scalar.Value.Ref.TypeName)
	assert.Equal(t, "u1", scalar.Value.Ref.ID)
}

func TestDecoder_MaxObjectKeysExceeded(t *testing.T) {
	opts := stream.DefaultOptions()
	opts.MaxObjectKeys = 2
	dec, err := stream.NewDecoder([]byte("%VERSION: 1.0\n---\na: 1\nb: 2\nc: 3\n"), opts)
	require.Nil(t, err)
	for {
		if _, ok := dec.Next(); !ok {
			break
		}
	}
	require.NotNil(t, dec.Err())
	assert.Equal(t, hedltype.ErrSecurity, dec.Err().Kind)
}

func TestDecoder_MaxTotalKeysExceeded(t *testing.T) {
	opts := stream.DefaultOptions()
	opts.MaxObjectKeys = 10
	opts.MaxTotalKeys = 2
	dec, err := stream.NewDecoder([]byte("%VERSION: 1.0\n---\na:\n  x: 1\n  y: 2\nb: 3\n"), opts)
	require.Nil(t, err)
	for {
		if _, ok := dec.Next(); !ok {
			break
		}
	}
	require.NotNil(t, dec.Err())
	assert.Equal(t, hedltype.ErrSecurity, dec.Err().Kind)
}

func TestDecoder_AliasExpansionAppliesToBody(t *testing.T) {
	text := "%VERSION: 1.0\n%ALIAS: %GREETING: \"hello\"\n---\nkey: %GREETING\n"
	events, err := collect(t, text)
	require.Nil(t, err)
	var scalar *stream.Scalar
	for _, ev := range events {
		if s, ok := ev.(stream.Scalar); ok {
			scalar = &s
		}
	}
	require.NotNil(t, scalar)
	assert.Equal(t, "hello", scalar.Value.String)
}
