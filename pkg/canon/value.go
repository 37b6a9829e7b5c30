package canon

import (
	"strconv"
	"strings"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
)

// writeValue renders a single Value using the canonical per-kind encoding
// from §4.8, mirroring the teacher's printValueReg per-RegType switch.
func (p *printer) writeValue(v ast.Value) {
	switch v.Kind {
	case ast.KindNull:
		p.b.WriteByte('~')
	case ast.KindBool:
		if v.Bool {
			p.b.WriteString("true")
		} else {
			p.b.WriteString("false")
		}
	case ast.KindInt:
		p.b.WriteString(strconv.FormatInt(v.Int, 10))
	case ast.KindFloat:
		p.b.WriteString(formatFloat(v.Float))
	case ast.KindString:
		p.writeString(v.String)
	case ast.KindTensor:
		p.writeTensor(v.Tensor)
	case ast.KindReference:
		p.writeReference(v.Ref)
	case ast.KindExpression:
		p.b.WriteString("$(")
		p.b.WriteString(v.Expr.Body)
		p.b.WriteByte(')')
	}
}

// formatFloat renders f with the shortest decimal representation that
// round-trips, per §4.8's "minimal-digit algorithm".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (p *printer) writeReference(ref ast.Reference) {
	p.b.WriteByte('@')
	if ref.TypeName != "" {
		p.b.WriteString(ref.TypeName)
		p.b.WriteByte(':')
	}
	p.b.WriteString(ref.ID)
}

func (p *printer) writeTensor(t ast.Tensor) {
	if !t.IsArray {
		p.b.WriteString(formatFloat(t.Scalar))
		return
	}
	p.b.WriteByte('[')
	for i, e := range t.Elements {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.writeTensor(e)
	}
	p.b.WriteByte(']')
}

// writeString emits s bare if it needs no quoting, or double-quoted with
// escapes otherwise, per §4.8's quoting strategy.
func (p *printer) writeString(s string) {
	if !needsQuoting(s) {
		p.b.WriteString(s)
		return
	}
	p.b.WriteByte('"')
	p.b.WriteString(escapeQuoted(s))
	p.b.WriteByte('"')
}

// needsQuoting reports whether s must be double-quoted to round-trip
// through the grammar: it contains a structural character, has
// leading/trailing whitespace, collides with a keyword, or parses as a
// number.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s, ",|#\"") {
		return true
	}
	if s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t' {
		return true
	}
	switch s {
	case "true", "false", "~", "^":
		return true
	}
	if s[0] == '@' || s[0] == '[' || (len(s) >= 2 && s[0] == '$' && s[1] == '(') {
		return true
	}
	if looksNumeric(s) {
		return true
	}
	return false
}

func looksNumeric(s string) bool {
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	hasDigit := false
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
			// permitted numeric punctuation; validated loosely since a
			// false positive only causes harmless over-quoting.
		default:
			return false
		}
	}
	return hasDigit
}

// escapeQuoted escapes backslashes, double quotes, newlines, tabs and
// carriage returns as backslash sequences for a quoted field, to be read
// back by internal/lex.DecodeQuotedString.
func escapeQuoted(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

// escapeBlockless escapes a string destined for a %ALIAS expansion, which
// is always a single quoted token (never bare).
func escapeBlockless(s string) string {
	return escapeQuoted(s)
}
