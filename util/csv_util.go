// api/util/csv_util.go
package util

import "strings"

// EscapeCSVField quotes a field only when it contains a comma, a double
// quote, or a line break, doubling any inner quotes. This matches the
// escaping our export consumers already depend on.
func EscapeCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}

// WriteCSVRow appends one comma-joined row with a trailing \r\n. No
// trailing delimiter is emitted after the last field.
func WriteCSVRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSVField(field))
	}
	b.WriteString("\r\n")
}
