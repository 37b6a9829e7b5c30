package header

import "strings"

// ExpandAliases performs the verbatim textual substitution pass over body
// lines described in §4.5: every occurrence of a registered alias name is
// replaced with its expansion, recursively up to maxAliasExpansionDepth,
// before any further lexical processing of the body. Every line passed in
// is expanded; callers pass only the body lines.
func ExpandAliases(lines []string, aliases map[string]string) []string {
	if len(aliases) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = expandLine(line, aliases, maxAliasExpansionDepth)
	}
	return out
}

func expandLine(line string, aliases map[string]string, depth int) string {
	if depth <= 0 {
		return line
	}
	replaced := false
	for name, expansion := range aliases {
		if strings.Contains(line, name) {
			line = strings.ReplaceAll(line, name, expansion)
			replaced = true
		}
	}
	if replaced {
		return expandLine(line, aliases, depth-1)
	}
	return line
}
