// Package flatfile keeps entity collections in memory and persists them as
// ";"-delimited lines through a LineStore.
package flatfile

import "strings"

const (
	// Separator delimits fields within a line.
	Separator = ";"

	// separatorReplacement substitutes Separator inside field values.
	separatorReplacement = ","

	// HeaderPrefix marks a header line. Only the first line is checked.
	HeaderPrefix = "id" + Separator
)

// Encode joins fields into one line. A separator inside a value is replaced
// with a comma, so values containing ";" do not round-trip.
func Encode(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = strings.ReplaceAll(f, Separator, separatorReplacement)
	}
	return strings.Join(escaped, Separator)
}

// Decode splits a line into fields. Empty trailing fields are kept;
// checking the field count is up to the caller.
func Decode(line string) []string {
	return strings.Split(line, Separator)
}
