package sanitizer

// PhoneDisplayPrefix is rendered next to the phone input. It is never part of
// the stored value.
const PhoneDisplayPrefix = "+1"

// PhoneMaxLength is the longest raw phone value accepted while typing.
const PhoneMaxLength = 10

const (
	ssnMaxDigits  = 9
	ssnFirstGroup = 3
	ssnSecondEnd  = 5
)

// InputFormatter transforms a raw keystroke value given the previously
// committed value. It must be pure.
type InputFormatter func(prev, raw string) string

// FormatPhoneInput rejects an edit that would make the value longer than
// PhoneMaxLength and keeps the previous value instead. Shorter input is
// accepted verbatim; the phone pattern rule reports non-digits.
func FormatPhoneInput(prev, raw string) string {
	if utf16Len(raw) > PhoneMaxLength {
		return prev
	}
	return raw
}

var ssnDigits = Compose(NormalizeSSN, stripSSNPunctuation, truncateSSN)

// FormatSSNInput reduces raw to at most nine digits and re-inserts the group
// separators for however many digits are present: DDD, DDD-DD, DDD-DD-DDDD.
// The result is a fixed point: formatting it again yields the same string.
func FormatSSNInput(_, raw string) string {
	d := ssnDigits(raw)
	switch {
	case len(d) <= ssnFirstGroup:
		return d
	case len(d) <= ssnSecondEnd:
		return d[:ssnFirstGroup] + "-" + d[ssnFirstGroup:]
	default:
		return d[:ssnFirstGroup] + "-" + d[ssnFirstGroup:ssnSecondEnd] + "-" + d[ssnSecondEnd:]
	}
}

// FormatExperienceInput commits the raw value unchanged. Numeric checks are
// left to the schema.
func FormatExperienceInput(_, raw string) string {
	return raw
}

// Passthrough is the formatter for fields without special input handling.
func Passthrough(_, raw string) string {
	return raw
}

// formatters maps sign-up field names to their keystroke formatters.
var formatters = map[string]InputFormatter{
	"phoneNumber": FormatPhoneInput,
	"ssn":         FormatSSNInput,
	"experience":  FormatExperienceInput,
}

// FormatterFor returns the formatter registered for field, or Passthrough.
func FormatterFor(field string) InputFormatter {
	if f, ok := formatters[field]; ok {
		return f
	}
	return Passthrough
}

// FormatInput applies the formatter for field.
func FormatInput(field, prev, raw string) string {
	return FormatterFor(field)(prev, raw)
}

func stripSSNPunctuation(s string) string {
	return ssnPunctuationRegex.ReplaceAllString(s, "")
}

func truncateSSN(s string) string {
	if len(s) > ssnMaxDigits {
		return s[:ssnMaxDigits]
	}
	return s
}
