package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carematch/pkg/validator"
)

func TestParseSchemaYAML(t *testing.T) {
	doc := []byte(`
fields:
  - name: pincode
    rules:
      - kind: required
        message: Zip code is required
      - kind: min_length
        min: 4
        message: Zip code must be between 4-16 characters
      - kind: max_length
        max: 16
        message: Zip code must be between 4-16 characters
      - kind: pattern
        pattern: '^\d+$'
        message: Pincode must be a number
  - name: experience
    rules:
      - kind: range
        lower: 0
        upper: 100
        skip_empty: true
        message: Invalid Experience
`)

	s, err := validator.ParseSchemaYAML(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"pincode", "experience"}, s.Fields())

	res := s.Validate(validator.Record{"pincode": "12a45", "experience": ""})
	assert.Equal(t, validator.Result{"pincode": "Pincode must be a number"}, res)

	res = s.Validate(validator.Record{"pincode": "123", "experience": "101"})
	assert.Equal(t, validator.Result{
		"pincode":    "Zip code must be between 4-16 characters",
		"experience": "Invalid Experience",
	}, res)
}

func TestParseSchemaYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not yaml", "fields: [", validator.ErrInvalidSchemaDocument},
		{"no fields", "fields: []", validator.ErrInvalidSchemaDocument},
		{"range without bounds", `
fields:
  - name: experience
    rules:
      - kind: range
        message: x
`, validator.ErrInvalidSchema},
		{"custom rule", `
fields:
  - name: a
    rules:
      - kind: custom
        message: x
`, validator.ErrInvalidSchema},
		{"unknown kind", `
fields:
  - name: a
    rules:
      - kind: telepathy
        message: x
`, validator.ErrInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := validator.ParseSchemaYAML([]byte(tt.doc))
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
