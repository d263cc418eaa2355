package validator

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RecordSchema maps field names to ordered rule lists and evaluates records
// against them. Every field reports only the message of its first failing
// rule. A RecordSchema is immutable and safe for concurrent use.
type RecordSchema struct {
	order  []string
	fields map[string][]compiledRule
}

type compiledRule struct {
	FieldRule
	patterns []*regexp.Regexp
}

// NewRecordSchema builds a schema from field declarations. Malformed
// declarations are reported here as *ConfigurationError, so evaluation
// itself never fails.
func NewRecordSchema(fields ...Field) (*RecordSchema, error) {
	s := &RecordSchema{
		order:  make([]string, 0, len(fields)),
		fields: make(map[string][]compiledRule, len(fields)),
	}

	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fieldConfigError(f.Name, "field name is empty")
		}
		if _, dup := s.fields[f.Name]; dup {
			return nil, fieldConfigError(f.Name, "field declared more than once")
		}

		rules := make([]compiledRule, 0, len(f.Rules))
		for i, r := range f.Rules {
			cr, err := compileRule(f.Name, i, r.clone())
			if err != nil {
				return nil, err
			}
			rules = append(rules, cr)
		}

		s.order = append(s.order, f.Name)
		s.fields[f.Name] = rules
	}

	// Cross-field references can point at fields declared later.
	for _, name := range s.order {
		for i, r := range s.fields[name] {
			if r.Kind != KindEqualsField {
				continue
			}
			if _, ok := s.fields[r.Params.Field]; !ok {
				return nil, ruleConfigError(name, i, r.Kind, "references unknown field "+strconv.Quote(r.Params.Field))
			}
		}
	}

	return s, nil
}

// MustRecordSchema works like NewRecordSchema but panics on a malformed schema.
// Use it for package-level schema declarations.
func MustRecordSchema(fields ...Field) *RecordSchema {
	s, err := NewRecordSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Extend returns a new schema holding the fields of s followed by fields.
// Redeclaring an existing field is a configuration error.
func (s *RecordSchema) Extend(fields ...Field) (*RecordSchema, error) {
	all := make([]Field, 0, len(s.order)+len(fields))
	for _, name := range s.order {
		all = append(all, Field{Name: name, Rules: s.Rules(name)})
	}
	all = append(all, fields...)
	return NewRecordSchema(all...)
}

// Fields returns the field names in declaration order.
func (s *RecordSchema) Fields() []string {
	return append([]string(nil), s.order...)
}

// Has reports whether the schema declares field.
func (s *RecordSchema) Has(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Rules returns a copy of the rules declared for field.
func (s *RecordSchema) Rules(field string) []FieldRule {
	compiled := s.fields[field]
	if compiled == nil {
		return nil
	}
	out := make([]FieldRule, 0, len(compiled))
	for _, r := range compiled {
		out = append(out, r.FieldRule.clone())
	}
	return out
}

// ValidateField runs the rule chain of one field against the record.
// It returns the first failing message and false, or "" and true.
// Fields unknown to the schema are valid.
func (s *RecordSchema) ValidateField(field string, record Record) (string, bool) {
	compiled := s.fields[field]
	if len(compiled) == 0 {
		return "", true
	}

	value := record.Get(field)
	rules := make([]Rule, len(compiled))
	for i := range compiled {
		rules[i] = compiled[i].bind(field, value, record)
	}

	if verr, ok := First(rules...); !ok {
		return verr.Message, false
	}
	return "", true
}

// Validate evaluates every declared field and returns a fresh Result.
func (s *RecordSchema) Validate(record Record) Result {
	res := make(Result)
	for _, field := range s.order {
		if msg, ok := s.ValidateField(field, record); !ok {
			res[field] = msg
		}
	}
	return res
}

// ValidateTouched evaluates the full record but reports only touched fields.
func (s *RecordSchema) ValidateTouched(record Record, touched map[string]bool) Result {
	return s.Validate(record).Visible(touched)
}

func compileRule(field string, index int, r FieldRule) (compiledRule, error) {
	cr := compiledRule{FieldRule: r}

	if r.Message == "" {
		return cr, ruleConfigError(field, index, r.Kind, "message is empty")
	}

	switch r.Kind {
	case KindRequired, KindNotBlank:
	case KindPattern:
		if len(r.Params.Patterns) == 0 {
			return cr, ruleConfigError(field, index, r.Kind, "no pattern given")
		}
		cr.patterns = make([]*regexp.Regexp, 0, len(r.Params.Patterns))
		for _, expr := range r.Params.Patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return cr, ruleConfigError(field, index, r.Kind, err.Error())
			}
			cr.patterns = append(cr.patterns, re)
		}
	case KindMinLength:
		if r.Params.Min < 0 {
			return cr, ruleConfigError(field, index, r.Kind, "negative length bound")
		}
	case KindMaxLength:
		if r.Params.Max < 0 {
			return cr, ruleConfigError(field, index, r.Kind, "negative length bound")
		}
	case KindRange:
		if math.IsNaN(r.Params.Lower) || math.IsNaN(r.Params.Upper) || r.Params.Lower > r.Params.Upper {
			return cr, ruleConfigError(field, index, r.Kind, "lower bound exceeds upper bound")
		}
	case KindEqualsField:
		if r.Params.Field == "" {
			return cr, ruleConfigError(field, index, r.Kind, "no field to compare with")
		}
		if r.Params.Field == field {
			return cr, ruleConfigError(field, index, r.Kind, "field compared with itself")
		}
	case KindCustom:
		if r.Params.Predicate == nil {
			return cr, ruleConfigError(field, index, r.Kind, "predicate is nil")
		}
	default:
		return cr, ruleConfigError(field, index, r.Kind, "unknown rule kind")
	}

	return cr, nil
}

func (r compiledRule) bind(field, value string, record Record) Rule {
	return Rule{
		Check: func() bool {
			if r.Kind != KindRequired && r.Params.SkipEmpty && value == "" {
				return true
			}
			return r.check(value, record)
		},
		Error: ValidationError{
			Field:             field,
			Message:           r.Message,
			TranslationKey:    "validation." + string(r.Kind),
			TranslationValues: r.translationValues(field),
		},
	}
}

func (r compiledRule) check(value string, record Record) bool {
	switch r.Kind {
	case KindRequired:
		return value != ""
	case KindNotBlank:
		return strings.TrimSpace(value) != ""
	case KindPattern:
		for _, re := range r.patterns {
			if !re.MatchString(value) {
				return false
			}
		}
		return true
	case KindMinLength:
		return textLength(value) >= r.Params.Min
	case KindMaxLength:
		return textLength(value) <= r.Params.Max
	case KindRange:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(n) {
			return false
		}
		return n >= r.Params.Lower && n <= r.Params.Upper
	case KindEqualsField:
		return value == record.Get(r.Params.Field)
	case KindCustom:
		return r.Params.Predicate(value, record)
	}
	return false
}

func (r compiledRule) translationValues(field string) map[string]any {
	values := map[string]any{"field": field}
	switch r.Kind {
	case KindMinLength:
		values["min"] = r.Params.Min
	case KindMaxLength:
		values["max"] = r.Params.Max
	case KindRange:
		values["min"] = r.Params.Lower
		values["max"] = r.Params.Upper
	case KindEqualsField:
		values["other"] = r.Params.Field
	}
	return values
}

// textLength counts UTF-16 code units, the unit browsers report as a
// string's length.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
			continue
		}
		n++
	}
	return n
}
