package validator

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// schemaDocument is the YAML form of a RecordSchema.
//
//	fields:
//	  - name: pincode
//	    rules:
//	      - kind: required
//	        message: Zip code is required
//	      - kind: min_length
//	        min: 4
//	        message: Zip code must be between 4-16 characters
type schemaDocument struct {
	Fields []fieldDocument `yaml:"fields"`
}

type fieldDocument struct {
	Name  string         `yaml:"name"`
	Rules []ruleDocument `yaml:"rules"`
}

type ruleDocument struct {
	Kind      Kind     `yaml:"kind"`
	Message   string   `yaml:"message"`
	Min       int      `yaml:"min"`
	Max       int      `yaml:"max"`
	Lower     *float64 `yaml:"lower"`
	Upper     *float64 `yaml:"upper"`
	Pattern   string   `yaml:"pattern"`
	Patterns  []string `yaml:"patterns"`
	Field     string   `yaml:"field"`
	SkipEmpty bool     `yaml:"skip_empty"`
}

// ParseSchemaYAML builds a RecordSchema from a YAML document. The document
// goes through the same checks as NewRecordSchema. Custom predicates cannot
// be declared in YAML.
func ParseSchemaYAML(data []byte) (*RecordSchema, error) {
	var doc schemaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidSchemaDocument, err)
	}
	if len(doc.Fields) == 0 {
		return nil, errors.Join(ErrInvalidSchemaDocument, errors.New("no fields declared"))
	}

	fields := make([]Field, 0, len(doc.Fields))
	for _, fd := range doc.Fields {
		rules := make([]FieldRule, 0, len(fd.Rules))
		for i, rd := range fd.Rules {
			rule, err := rd.toRule(fd.Name, i)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
		fields = append(fields, NewField(fd.Name, rules...))
	}

	return NewRecordSchema(fields...)
}

func (rd ruleDocument) toRule(field string, index int) (FieldRule, error) {
	rule := FieldRule{
		Kind:    rd.Kind,
		Message: rd.Message,
		Params: Params{
			Min:       rd.Min,
			Max:       rd.Max,
			Field:     rd.Field,
			SkipEmpty: rd.SkipEmpty,
		},
	}

	if rd.Pattern != "" {
		rule.Params.Patterns = append(rule.Params.Patterns, rd.Pattern)
	}
	rule.Params.Patterns = append(rule.Params.Patterns, rd.Patterns...)

	switch rd.Kind {
	case KindRange:
		if rd.Lower == nil || rd.Upper == nil {
			return rule, ruleConfigError(field, index, rd.Kind, "range needs lower and upper bounds")
		}
		rule.Params.Lower = *rd.Lower
		rule.Params.Upper = *rd.Upper
	case KindCustom:
		return rule, ruleConfigError(field, index, rd.Kind, "custom rules cannot be declared in YAML")
	}

	return rule, nil
}
