package statement

import "strings"

// SplitLine splits one CSV line into fields. Commas inside a double-quoted
// span do not split, and "" inside a quoted span is a literal quote. An
// unterminated quote closes at end of line. Fields are not trimmed.
func SplitLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	return append(fields, field.String())
}
