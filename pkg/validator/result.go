package validator

import (
	"maps"
	"slices"
)

// Result maps a field name to the message of its first failing rule.
// A field without a key is valid.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

func (r Result) Has(field string) bool {
	_, ok := r[field]
	return ok
}

func (r Result) Get(field string) string {
	return r[field]
}

// Visible keeps only the messages of touched fields. Validity is unaffected;
// untouched invalid fields are just not shown.
func (r Result) Visible(touched map[string]bool) Result {
	out := make(Result, len(r))
	for field, msg := range r {
		if touched[field] {
			out[field] = msg
		}
	}
	return out
}

// Clone returns an independent copy of the result.
func (r Result) Clone() Result {
	if r == nil {
		return Result{}
	}
	return maps.Clone(r)
}

// Err converts the result into ValidationErrors ordered by field name.
// It returns nil for a valid result.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}

	fields := slices.Sorted(maps.Keys(r))
	errs := make(ValidationErrors, 0, len(fields))
	for _, field := range fields {
		errs.Add(ValidationError{
			Field:          field,
			Message:        r[field],
			TranslationKey: "validation.field",
			TranslationValues: map[string]any{
				"field": field,
			},
		})
	}
	return errs
}
