package handlers

import (
	"strings"
	"unicode"
)

// splitArgs splits a command line on whitespace, keeping double-quoted
// sections together so labels may contain spaces.
func splitArgs(s string) []string {
	var args []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			if inQuotes {
				args = append(args, cur.String())
				cur.Reset()
			}
			inQuotes = !inQuotes
		case unicode.IsSpace(r) && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}
