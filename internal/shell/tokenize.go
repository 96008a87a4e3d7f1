package shell

import "strings"

// ArgumentVector is a program name followed by its arguments. Its length marks
// the end of the vector.
type ArgumentVector []string

// Tokenize splits input on runs of whitespace. No quoting, escaping or
// expansion is applied, so metacharacters pass through as ordinary text.
func Tokenize(input string) ArgumentVector {
	return strings.FieldsFunc(input, isSeparator)
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\n', '\t', '\r':
		return true
	}
	return false
}
