package lex

// RebuildWithBody returns a new Source whose header lines (indices
// [0, bodyStart)) are copied verbatim from src and whose body lines are
// replaced with bodyLines, preserving each line's original Number. This
// backs the %ALIAS substitution pass (§4.5): alias expansion is a
// verbatim textual rewrite of the body that must happen before any
// further lexical processing, so the rewritten text needs its own line
// index before the body parser or streaming decoder can run over it.
func RebuildWithBody(src *Source, bodyStart int, bodyLines []string) *Source {
	buf := make([]byte, 0, len(src.Buf))
	lines := make([]Line, 0, len(src.Lines))

	for i := 0; i < bodyStart && i < len(src.Lines); i++ {
		l := src.Lines[i]
		text := src.Text(l)
		start := len(buf)
		buf = append(buf, text...)
		lines = append(lines, Line{Number: l.Number, Start: start, End: len(buf)})
		buf = append(buf, '\n')
	}
	for i, text := range bodyLines {
		srcIdx := bodyStart + i
		number := srcIdx + 1
		if srcIdx < len(src.Lines) {
			number = src.Lines[srcIdx].Number
		}
		start := len(buf)
		buf = append(buf, text...)
		lines = append(lines, Line{Number: number, Start: start, End: len(buf)})
		buf = append(buf, '\n')
	}
	return &Source{Buf: buf, Lines: lines}
}

// BodyLineTexts returns the text of every line in src starting at
// bodyStart, in order, for feeding into header.ExpandAliases.
func BodyLineTexts(src *Source, bodyStart int) []string {
	if bodyStart >= len(src.Lines) {
		return nil
	}
	out := make([]string, len(src.Lines)-bodyStart)
	for i, l := range src.Lines[bodyStart:] {
		out[i] = src.Text(l)
	}
	return out
}
