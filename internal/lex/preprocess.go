package lex

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Line is a borrowed (zero-copy) slice of the preprocessed buffer: the
// 1-based line number and the byte range [Start, End) within Buf that
// holds the line's content, line terminators excluded.
type Line struct {
	Number     int
	Start, End int
}

// Source is the result of preprocessing: a normalized UTF-8 buffer plus
// its line index. Text returns a copy of a Line's content as a string.
type Source struct {
	Buf   []byte
	Lines []Line
}

// Text returns the line's content as a string.
func (s *Source) Text(l Line) string {
	return string(s.Buf[l.Start:l.End])
}

// IsBlank reports whether a line is empty or whitespace-only.
func (s *Source) IsBlank(l Line) bool {
	for i := l.Start; i < l.End; i++ {
		c := s.Buf[i]
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// IsComment reports whether a line's first non-whitespace byte is '#'.
// Protected-region awareness (a '#' inside a quoted string or expression)
// is the caller's responsibility; this only tests the line-leading case.
func (s *Source) IsComment(l Line) bool {
	for i := l.Start; i < l.End; i++ {
		c := s.Buf[i]
		if c == ' ' || c == '\t' {
			continue
		}
		return c == CommentPrefix
	}
	return false
}

// Preprocess validates and normalizes raw input bytes: enforces
// maxFileSize, verifies UTF-8, strips a leading UTF-8 BOM, normalizes line
// endings (accepting "\n" and "\r\n", rejecting a bare "\r"), rejects
// disallowed control characters, and builds the line index. maxLineLength
// bounds any single line's byte length.
func Preprocess(data []byte, maxFileSize int64, maxLineLength int) (*Source, error) {
	if int64(len(data)) > maxFileSize {
		return nil, fmt.Errorf("input size %d exceeds maximum file size %d", len(data), maxFileSize)
	}
	if err := validateUTF8(data); err != nil {
		return nil, err
	}
	data = stripBOM(data)
	normalized, err := normalizeLineEndings(data)
	if err != nil {
		return nil, err
	}
	if err := validateControlChars(normalized); err != nil {
		return nil, err
	}
	lines, err := indexLines(normalized, maxLineLength)
	if err != nil {
		return nil, err
	}
	return &Source{Buf: normalized, Lines: lines}, nil
}

// stripBOM removes a leading UTF-8 byte-order mark, if present, using the
// same transform-based decoding idiom as the teacher's Windows-1252
// ingestion path.
func stripBOM(data []byte) []byte {
	bomAwareUTF8 := unicode.UTF8BOM
	e := unicode.BOMOverride(bomAwareUTF8.NewDecoder())
	out, _, err := transform.Bytes(e, data)
	if err != nil {
		// Fall back to the raw bytes; Preprocess has already validated
		// them as UTF-8.
		return data
	}
	return out
}

func validateUTF8(data []byte) error {
	if utf8.Valid(data) {
		return nil
	}
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			line, col := lineColOf(data, offset)
			return &positionedError{line: line, col: col, msg: "invalid UTF-8"}
		}
		offset += size
	}
	return nil
}

func lineColOf(data []byte, offset int) (int, int) {
	line := 1
	col := 1
	for i := 0; i < offset && i < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// positionedError is an internal carrier for preprocessor failures; the
// callers (pkg/hedl.Parse and pkg/stream.NewDecoder) map it onto a
// hedltype.Error of kind ErrSyntax, keeping its line and column.
type positionedError struct {
	line, col int
	msg       string
}

func (e *positionedError) Error() string {
	return fmt.Sprintf("line %d column %d: %s", e.line, e.col, e.msg)
}

// Line and Column expose the position for callers that type-assert.
func (e *positionedError) Line() int   { return e.line }
func (e *positionedError) Column() int { return e.col }

func normalizeLineEndings(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\r' {
			if i+1 < len(data) && data[i+1] == '\n' {
				out = append(out, '\n')
				i++
				continue
			}
			line, col := lineColOf(data, i)
			return nil, &positionedError{line: line, col: col, msg: "bare carriage return"}
		}
		out = append(out, c)
	}
	return out, nil
}

func validateControlChars(data []byte) error {
	for i, c := range data {
		if c < 0x20 && c != '\t' && c != '\n' {
			line, col := lineColOf(data, i)
			return &positionedError{line: line, col: col, msg: fmt.Sprintf("forbidden control character 0x%02x", c)}
		}
	}
	return nil
}

func indexLines(data []byte, maxLineLength int) ([]Line, error) {
	var lines []Line
	start := 0
	number := 1
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			if i-start > maxLineLength {
				return nil, &positionedError{line: number, col: 1, msg: fmt.Sprintf("line exceeds maximum length of %d bytes", maxLineLength)}
			}
			lines = append(lines, Line{Number: number, Start: start, End: i})
			start = i + 1
			number++
		}
	}
	return lines, nil
}
