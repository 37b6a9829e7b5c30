package lex

import (
	"fmt"
	"strings"
)

// ParseBlockString consumes body lines starting at index i (the line
// following the opening """ marker) until a line whose trimmed content is
// exactly """, joining the intervening lines with "\n" after stripping
// blockIndent leading spaces from each. It returns the decoded string and
// the index of the line following the closing marker.
//
// maxBytes bounds the joined body size (Options.MaxBlockStringSize);
// exceeding it is reported as an error so the caller can raise a Security
// failure.
func ParseBlockString(lines []string, i int, blockIndent int, maxBytes int) (string, int, error) {
	var b strings.Builder
	total := 0
	first := true
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == BlockStringMarker {
			return b.String(), i + 1, nil
		}
		content := stripIndent(lines[i], blockIndent)
		total += len(content)
		if total > maxBytes {
			return "", i, fmt.Errorf("block string exceeds maximum size of %d bytes", maxBytes)
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(content)
		first = false
	}
	return "", i, fmt.Errorf("unclosed block string")
}

// stripIndent removes up to n leading spaces from line.
func stripIndent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}
