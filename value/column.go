package value

import (
	"strconv"
	"strings"
)

const edgeQuotes = "\"`[]"

// NormalizeColumn turns a server column label into a plain key:
//
//	"  (\"groups\".\"name\")  " -> "name"
//	"(a.b)"                     -> "b"
//	"col"                       -> "col"
//
// Whitespace is trimmed, balanced enclosing parentheses are removed layer
// by layer, quote/backtick/bracket characters are stripped from the edges,
// and a dotted path keeps only its last segment.
func NormalizeColumn(label string) string {
	s := strings.TrimSpace(label)
	for enclosedInParens(s) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.Trim(s, edgeQuotes)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Trim(strings.TrimSpace(s), edgeQuotes)
	// stray parens left over from a split such as "(t.col"
	if strings.Count(s, "(") != strings.Count(s, ")") {
		s = strings.Trim(s, "()")
	}
	return strings.TrimSpace(s)
}

// enclosedInParens reports whether the first '(' of s is closed by its
// last byte, as in "(a + b)" but not "(a) + (b)".
func enclosedInParens(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// SyntheticColumn is the 1-based positional label used when the server
// supplies none.
func SyntheticColumn(pos int) string {
	return "col" + strconv.Itoa(pos)
}
