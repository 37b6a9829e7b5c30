package lex

import (
	"strconv"
	"strings"
)

// SplitKeyValue finds the first ':' in content that is not inside a
// protected region (a quoted string or a $(...) expression) and returns
// the key and value portions, trimmed of surrounding ASCII whitespace.
// Shared by the body parser and the streaming decoder, which both parse
// the same "key: value" line grammar over different frame-stack shapes.
func SplitKeyValue(content string) (key, value string, ok bool) {
	regions := ScanProtectedRegions(content)
	for i := 0; i < len(content); i++ {
		if content[i] == ':' && !InProtectedRegion(regions, i) {
			return strings.TrimSpace(content[:i]), strings.TrimSpace(content[i+1:]), true
		}
	}
	return "", "", false
}

// ListMarker is a parsed "@TypeName" or "@TypeName(N)" value.
type ListMarker struct {
	TypeName string
	Count    *int
	OK       bool
}

// ParseListMarker parses a list-opening value. OK is false if value is not
// a well-formed list marker.
func ParseListMarker(value string) ListMarker {
	if !strings.HasPrefix(value, "@") {
		return ListMarker{}
	}
	body := value[1:]
	if idx := strings.IndexByte(body, '('); idx >= 0 && strings.HasSuffix(body, ")") {
		typeName := body[:idx]
		countStr := body[idx+1 : len(body)-1]
		n, err := strconv.Atoi(countStr)
		if err != nil || !IsTypeName(typeName) {
			return ListMarker{}
		}
		return ListMarker{TypeName: typeName, Count: &n, OK: true}
	}
	if !IsTypeName(body) {
		return ListMarker{}
	}
	return ListMarker{TypeName: body, OK: true}
}
