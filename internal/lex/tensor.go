package lex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

// ParseTensor parses a bracketed, comma-separated numeric literal such as
// "[1, 2, 3]" or "[[1, 2], [3, 4]]" into an ast.Tensor. maxDepth bounds
// recursion (typically Options.MaxIndentDepth). Every Array's children must
// share the same shape; a ragged shape is reported as an error so the
// caller can raise a Semantic error.
func ParseTensor(s string, maxDepth int) (ast.Tensor, error) {
	s = strings.TrimSpace(s)
	t, rest, err := parseTensorValue(s, maxDepth)
	if err != nil {
		return ast.Tensor{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return ast.Tensor{}, fmt.Errorf("unexpected trailing content in tensor literal: %q", rest)
	}
	return t, nil
}

func parseTensorValue(s string, depth int) (ast.Tensor, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return ast.Tensor{}, s, fmt.Errorf("unexpected end of tensor literal")
	}
	if s[0] == TensorOpen {
		if depth <= 0 {
			return ast.Tensor{}, s, fmt.Errorf("tensor literal exceeds maximum nesting depth")
		}
		return parseTensorArray(s, depth)
	}
	return parseTensorScalar(s)
}

func parseTensorArray(s string, depth int) (ast.Tensor, string, error) {
	rest := s[1:] // consume '['
	var elems []ast.Tensor
	rest = strings.TrimLeft(rest, " \t")
	if len(rest) > 0 && rest[0] == TensorClose {
		return ast.Tensor{IsArray: true, Elements: elems}, rest[1:], nil
	}
	for {
		var elem ast.Tensor
		var err error
		elem, rest, err = parseTensorValue(rest, depth-1)
		if err != nil {
			return ast.Tensor{}, s, err
		}
		elems = append(elems, elem)
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return ast.Tensor{}, s, fmt.Errorf("unclosed tensor literal")
		}
		if rest[0] == FieldSeparator {
			rest = strings.TrimLeft(rest[1:], " \t")
			continue
		}
		if rest[0] == TensorClose {
			rest = rest[1:]
			break
		}
		return ast.Tensor{}, s, fmt.Errorf("unexpected character %q in tensor literal", rest[0])
	}
	if err := checkRectangular(elems); err != nil {
		return ast.Tensor{}, s, err
	}
	return ast.Tensor{IsArray: true, Elements: elems}, rest, nil
}

func parseTensorScalar(s string) (ast.Tensor, string, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && (isDigit(s[i]) || s[i] == '.' || s[i] == 'e' || s[i] == 'E' || s[i] == '+' || s[i] == '-') {
		i++
	}
	if i == start {
		return ast.Tensor{}, s, fmt.Errorf("expected numeric literal in tensor, got %q", s)
	}
	numStr := s[:i]
	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return ast.Tensor{}, s, fmt.Errorf("invalid tensor element %q: %w", numStr, err)
	}
	return ast.Tensor{Scalar: f}, s[i:], nil
}

// checkRectangular verifies all sibling elements share the same shape:
// either all are scalars, or all are arrays of equal length with
// recursively matching shapes.
func checkRectangular(elems []ast.Tensor) error {
	if len(elems) == 0 {
		return nil
	}
	first := elems[0]
	for _, e := range elems[1:] {
		// Each nested array was already checked when it was parsed, so
		// comparing along the first element at every level is enough.
		a, b := first, e
		for {
			if a.IsArray != b.IsArray {
				return fmt.Errorf("ragged tensor shape: mixed scalar and array elements")
			}
			if !a.IsArray || len(a.Elements) == 0 || len(b.Elements) == 0 {
				if len(a.Elements) != len(b.Elements) {
					return fmt.Errorf("ragged tensor shape: mismatched array lengths")
				}
				break
			}
			if len(a.Elements) != len(b.Elements) {
				return fmt.Errorf("ragged tensor shape: mismatched array lengths")
			}
			a, b = a.Elements[0], b.Elements[0]
		}
	}
	return nil
}
