package log

import (
	"strings"
)

// Sanitize replaces line breaks, so a value can be logged on a single line.
func Sanitize(in string) string {
	out := strings.ReplaceAll(in, "\r\n", `\n`)
	out = strings.ReplaceAll(out, "\n", `\n`)
	return strings.ReplaceAll(out, "\r", `\n`)
}
