// Package lex provides the pure lexical building blocks shared by the
// header and body parsers and the streaming decoder: token validators, a
// protected-region scanner, a CSV row splitter, scalar value inference, a
// tensor literal parser, an indentation calculator, and a block-string
// reader. Nothing in this package allocates a Document; every function
// returns a token, a value, or an error.
package lex

const (
	// IndentWidth is the fixed number of spaces per nesting level.
	IndentWidth = 2

	// NullToken is the literal Null scalar.
	NullToken = "~"
	// DittoToken is the literal ditto-copy marker in a CSV row.
	DittoToken = "^"
	// TrueToken and FalseToken are the recognized boolean keywords.
	TrueToken  = "true"
	FalseToken = "false"

	// HeaderSeparator is the line that ends the header section.
	HeaderSeparator = "---"

	// CommentPrefix marks a comment line once outside protected regions.
	CommentPrefix = '#'
	// RowPrefix marks a matrix row line.
	RowPrefix = '|'
	// FieldSeparator splits CSV fields outside protected regions.
	FieldSeparator = ','
	// ReferenceSigil opens a reference field.
	ReferenceSigil = '@'
	// ExpressionOpen and ExpressionClose delimit an opaque expression body.
	ExpressionOpen  = '('
	ExpressionClose = ')'
	// ExpressionSigilPrefix precedes ExpressionOpen for a valid expression.
	ExpressionSigilPrefix = '$'
	// TensorOpen and TensorClose delimit a tensor literal.
	TensorOpen  = '['
	TensorClose = ']'
	// QuoteChar delimits a quoted string.
	QuoteChar = '"'
	// EscapeChar introduces a backslash escape inside a quoted string.
	EscapeChar = '\\'
	// BlockStringMarker opens and closes a block string.
	BlockStringMarker = `"""`
)
