package lex

import "strings"

// SplitCSVRow splits the portion of a row line after the leading "| "
// marker into ordered fields, splitting on FieldSeparator outside any
// protected region and trimming ASCII whitespace from each field. A
// trailing comma yields one extra empty trailing field.
func SplitCSVRow(content string) []string {
	regions := ScanProtectedRegions(content)
	var fields []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == FieldSeparator && !InProtectedRegion(regions, i) {
			fields = append(fields, trimASCIISpace(content[start:i]))
			start = i + 1
		}
	}
	fields = append(fields, trimASCIISpace(content[start:]))
	return fields
}

func trimASCIISpace(s string) string {
	return strings.Trim(s, " \t")
}
