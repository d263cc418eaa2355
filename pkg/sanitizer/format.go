package sanitizer

import "strings"

// NormalizeEmail prevents common email input errors but preserves original for invalid formats.
// Consolidates consecutive dots which can cause delivery issues with some email providers.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := dotRegex.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// NormalizePhone strips formatting to enable consistent database storage and comparison.
func NormalizePhone(phone string) string {
	return KeepDigits(phone)
}

// MaskPhone follows PCI compliance pattern of showing last 4 digits for user recognition.
func MaskPhone(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) < 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// NormalizeSSN reduces an SSN to its digits.
func NormalizeSSN(ssn string) string {
	return KeepDigits(ssn)
}

// DisplaySSN renders a complete 9-digit SSN as DDD-DD-DDDD.
// Anything else is returned unchanged to avoid data loss.
func DisplaySSN(ssn string) string {
	digits := NormalizeSSN(ssn)
	if len(digits) != 9 {
		return ssn
	}
	return ssnGroupsRegex.ReplaceAllString(digits, "$1-$2-$3")
}

// MaskSSN keeps the last four digits, the only part safe to show in logs and API responses.
func MaskSSN(ssn string) string {
	digits := NormalizeSSN(ssn)
	if len(digits) != 9 {
		return strings.Repeat("*", len(digits))
	}
	return "***-**-" + digits[5:]
}
