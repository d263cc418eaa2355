// Package sanitizer cleans user input for the sign-up forms.
//
// Two groups of helpers live here:
//
//   - Keystroke formatters with the signature func(prev, raw string) string.
//     They run on every edit before the value is committed: the phone
//     formatter caps length at ten characters, the SSN formatter keeps at most
//     nine digits and re-inserts hyphens, everything else passes through.
//
//   - Storage normalizers (NormalizeEmail, NormalizeWhitespace, NormalizeSSN)
//     and masking helpers (MaskSSN, MaskPhone) for logs and API responses.
//
// All helpers are pure and never return an error. Apply and Compose build
// pipelines out of single-argument transforms:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.NormalizeWhitespace)
//	clean("  Jane    Doe ") // "Jane Doe"
//
// Formatting a keystroke:
//
//	sanitizer.FormatInput("ssn", "", "123456") // "123-45-6"
package sanitizer
