package sanitizer

import "strings"

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeWhitespace collapses internal runs of whitespace into single spaces
// and trims the ends. Applied to names and addresses before they are stored.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// KeepDigits drops every non-digit character.
func KeepDigits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// utf16Len counts UTF-16 code units, matching browser string length.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
