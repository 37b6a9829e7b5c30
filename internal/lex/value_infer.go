package lex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

// MaxTensorDepth is a standalone tensor recursion bound. InferValue does
// not read it: its depth budget is always the maxDepth argument (the body
// parser passes Options.MaxIndentDepth).
const MaxTensorDepth = 50

// InferValue infers the Value held by a trimmed CSV field. field must
// already have leading/trailing ASCII whitespace removed by the caller
// (SplitCSVRow does this). maxDepth bounds tensor nesting.
func InferValue(field string, maxDepth int) (ast.Value, error) {
	switch {
	case field == NullToken:
		return ast.Null(), nil
	case field == DittoToken:
		return ast.DittoSentinel(), nil
	case field == TrueToken:
		return ast.BoolValue(true), nil
	case field == FalseToken:
		return ast.BoolValue(false), nil
	case field == "":
		return ast.StringValue(""), nil
	case strings.HasPrefix(field, string(TensorOpen)):
		t, err := ParseTensor(field, maxDepth)
		if err != nil {
			return ast.Value{}, err
		}
		return ast.TensorValue(t), nil
	case strings.HasPrefix(field, string(ReferenceSigil)):
		ref, err := parseReference(field)
		if err != nil {
			return ast.Value{}, err
		}
		return ast.ReferenceValue(ref), nil
	case len(field) >= 2 && field[0] == ExpressionSigilPrefix && field[1] == ExpressionOpen:
		body, err := parseExpressionBody(field)
		if err != nil {
			return ast.Value{}, err
		}
		return ast.ExpressionValue(body), nil
	case len(field) >= 1 && field[0] == QuoteChar:
		s, err := DecodeQuotedString(field)
		if err != nil {
			return ast.Value{}, err
		}
		return ast.StringValue(s), nil
	}
	if v, ok := inferNumber(field); ok {
		return v, nil
	}
	return ast.StringValue(field), nil
}

// inferNumber attempts to parse field as an Int, falling back to Float on
// overflow, per the numeric grammar: optional sign, digits, and for Float
// an optional '.' and/or exponent.
func inferNumber(field string) (ast.Value, bool) {
	if field == "" {
		return ast.Value{}, false
	}
	i := 0
	if field[i] == '+' || field[i] == '-' {
		i++
	}
	if i == len(field) {
		return ast.Value{}, false
	}
	hasDigit := false
	isFloat := false
	for ; i < len(field); i++ {
		c := field[i]
		switch {
		case isDigit(c):
			hasDigit = true
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
		case (c == '+' || c == '-') && i > 0 && (field[i-1] == 'e' || field[i-1] == 'E'):
			// exponent sign, valid
		default:
			return ast.Value{}, false
		}
	}
	if !hasDigit {
		return ast.Value{}, false
	}
	if !isFloat {
		if n, err := strconv.ParseInt(field, 10, 64); err == nil {
			return ast.IntValue(n), true
		}
		// overflow: fall back to Float
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return ast.FloatValue(f), true
	}
	return ast.Value{}, false
}

// parseReference parses a "@Type:id" or "@id" field into an ast.Reference.
// TypeName is left empty for the unqualified form; the registry fills it
// in during resolution.
func parseReference(field string) (ast.Reference, error) {
	body := field[1:]
	if body == "" {
		return ast.Reference{}, fmt.Errorf("empty reference")
	}
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		typeName := body[:idx]
		id := body[idx+1:]
		if !IsTypeName(typeName) {
			return ast.Reference{}, fmt.Errorf("invalid reference type name %q", typeName)
		}
		if !IsIDToken(id) {
			return ast.Reference{}, fmt.Errorf("invalid reference id %q", id)
		}
		return ast.Reference{TypeName: typeName, ID: id}, nil
	}
	if !IsIDToken(body) {
		return ast.Reference{}, fmt.Errorf("invalid reference id %q", body)
	}
	return ast.Reference{ID: body}, nil
}

// parseExpressionBody strips the outer "$(" and ")" from an expression
// field, preserving inner whitespace verbatim.
func parseExpressionBody(field string) (string, error) {
	end := scanExpression(field, 0)
	if end != len(field) {
		return "", fmt.Errorf("unexpected trailing content after expression")
	}
	if field[end-1] != ExpressionClose {
		return "", fmt.Errorf("unclosed expression %q", field)
	}
	return field[2 : end-1], nil
}

// DecodeQuotedString decodes a double-quoted field (including its
// delimiting quotes) into its unescaped string value, supporting \n, \t,
// \r, \\, \", and \uXXXX.
func DecodeQuotedString(field string) (string, error) {
	if len(field) < 2 || field[0] != QuoteChar || field[len(field)-1] != QuoteChar {
		return "", fmt.Errorf("malformed quoted string %q", field)
	}
	inner := field[1 : len(field)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != EscapeChar {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(inner) {
			return "", fmt.Errorf("unterminated escape in quoted string")
		}
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'u':
			if i+4 >= len(inner) {
				return "", fmt.Errorf("truncated \\u escape in quoted string")
			}
			code, err := strconv.ParseUint(inner[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape %q: %w", inner[i+1:i+5], err)
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			return "", fmt.Errorf("unknown escape \\%c", inner[i])
		}
	}
	return b.String(), nil
}
