package validator

// Kind tags a FieldRule with the check it performs.
type Kind string

const (
	KindRequired    Kind = "required"
	KindNotBlank    Kind = "not_blank"
	KindPattern     Kind = "pattern"
	KindMinLength   Kind = "min_length"
	KindMaxLength   Kind = "max_length"
	KindRange       Kind = "range"
	KindEqualsField Kind = "equals_field"
	KindCustom      Kind = "custom"
)

// EmailPattern accepts the same addresses as the browser's type=email input.
const EmailPattern = "^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$"

// Record holds the current value of every form field by name.
type Record map[string]string

// Get returns the value of field, or the empty string when it is missing.
func (r Record) Get(field string) string {
	if r == nil {
		return ""
	}
	return r[field]
}

// Predicate is a custom check. It receives the whole record so it can look
// at other fields at evaluation time.
type Predicate func(value string, record Record) bool

// Params carries the parameters of a FieldRule. Only the fields relevant to
// the rule's Kind are read.
type Params struct {
	Min       int       // min_length bound
	Max       int       // max_length bound
	Lower     float64   // range lower bound, inclusive
	Upper     float64   // range upper bound, inclusive
	Patterns  []string  // pattern: every expression must match
	Field     string    // equals_field: name of the other field
	Predicate Predicate // custom
	SkipEmpty bool      // the empty string passes this rule
}

// FieldRule is a single tagged validation rule with a fixed failure message.
// Rules are plain values; a schema keeps its own copy.
type FieldRule struct {
	Kind    Kind
	Message string
	Params  Params
}

// AllowEmpty returns a copy of the rule that passes for the empty string.
// Emptiness is then reported only by a required rule.
func (r FieldRule) AllowEmpty() FieldRule {
	r.Params.SkipEmpty = true
	return r
}

func (r FieldRule) clone() FieldRule {
	if r.Params.Patterns != nil {
		r.Params.Patterns = append([]string(nil), r.Params.Patterns...)
	}
	return r
}

// IsRequired fails when the value is missing or empty. Whitespace counts as a value.
func IsRequired(message string) FieldRule {
	return FieldRule{Kind: KindRequired, Message: message}
}

// NotBlank fails when the value consists only of whitespace.
func NotBlank(message string) FieldRule {
	return FieldRule{Kind: KindNotBlank, Message: message}
}

// Matches fails when the value does not match pattern.
func Matches(pattern, message string) FieldRule {
	return FieldRule{Kind: KindPattern, Message: message, Params: Params{Patterns: []string{pattern}}}
}

// MatchesAll fails unless the value matches every pattern.
// It replaces lookahead-based composite expressions.
func MatchesAll(message string, patterns ...string) FieldRule {
	return FieldRule{Kind: KindPattern, Message: message, Params: Params{Patterns: patterns}}
}

// ValidEmail fails for malformed email addresses. The empty string passes.
func ValidEmail(message string) FieldRule {
	return Matches(EmailPattern, message).AllowEmpty()
}

// MinLength fails when the value is shorter than min characters.
func MinLength(min int, message string) FieldRule {
	return FieldRule{Kind: KindMinLength, Message: message, Params: Params{Min: min}}
}

// MaxLength fails when the value is longer than max characters.
func MaxLength(max int, message string) FieldRule {
	return FieldRule{Kind: KindMaxLength, Message: message, Params: Params{Max: max}}
}

// InRange parses the value as a float and fails when parsing fails or the
// number is outside [lower, upper].
func InRange(lower, upper float64, message string) FieldRule {
	return FieldRule{Kind: KindRange, Message: message, Params: Params{Lower: lower, Upper: upper}}
}

// EqualsField fails when the value differs from the current value of other.
func EqualsField(other, message string) FieldRule {
	return FieldRule{Kind: KindEqualsField, Message: message, Params: Params{Field: other}}
}

// Custom wraps an arbitrary predicate.
func Custom(message string, fn Predicate) FieldRule {
	return FieldRule{Kind: KindCustom, Message: message, Params: Params{Predicate: fn}}
}

// Field declares the ordered rules of one field.
type Field struct {
	Name  string
	Rules []FieldRule
}

// NewField declares a field with rules evaluated in the given order.
func NewField(name string, rules ...FieldRule) Field {
	return Field{Name: name, Rules: rules}
}
