package casing

import (
	"regexp"
	"strings"
)

// wordPattern splits camelCase, PascalCase, snake_case and SCREAMING_SNAKE_CASE
// identifiers into words. A word is either an optional capital followed by
// lowercase letters or digits, or a run of capitals. Go regexps match
// leftmost-first, so the optional capital never gives back its letter to the
// second alternative in a way that would change the split.
var wordPattern = regexp.MustCompile(`[A-Z]?[a-z0-9]+|[A-Z]+`)

// Words returns the words of `s`. Characters that don't belong to any word,
// such as `_`, `.` or `#`, are dropped.
func Words(s string) []string {
	return wordPattern.FindAllString(s, -1)
}

// ToSnake converts `s` from any supported casing to snake_case.
func ToSnake(s string) string {
	return strings.ToLower(strings.Join(Words(s), "_"))
}

// ToPascal converts `s` from any supported casing to PascalCase.
func ToPascal(s string) string {
	var b strings.Builder

	for _, w := range Words(s) {
		b.WriteString(strings.ToUpper(w[0:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}

	return b.String()
}
