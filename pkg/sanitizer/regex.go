package sanitizer

import "regexp"

// Pre-compiled regular expressions for performance
var (
	// Email local part dot consolidation
	dotRegex = regexp.MustCompile(`\.+`)

	// Phone, SSN and numeric extraction
	nonDigitRegex = regexp.MustCompile(`\D`)

	// Punctuation a user may type between SSN groups
	ssnPunctuationRegex = regexp.MustCompile(`[()\-\s]`)

	// First complete SSN digit run for display formatting
	ssnGroupsRegex = regexp.MustCompile(`(\d{3})(\d{2})(\d{4})`)

	// Whitespace normalization
	whitespaceRegex = regexp.MustCompile(`\s+`)
)
