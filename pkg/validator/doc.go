// Package validator evaluates form records against declarative rule schemas.
//
// A schema is data: every field carries an ordered list of tagged FieldRule
// values (required, not_blank, pattern, min_length, max_length, range,
// equals_field, custom). A single interpreter walks that list and stops at the
// first failing rule, so each field reports at most one message and the rule
// order is an explicit, testable contract.
//
// # Architecture
//
// Building blocks:
//   - FieldRule         – kind + message + parameters, a plain value
//   - RecordSchema      – field name -> ordered rules, built once, immutable
//   - Result            – field -> first failing message, replaced on every pass
//   - Rule              – a check bound to a concrete value, used by the interpreter
//   - ValidationErrors  – slice type that implements the error interface
//
// Malformed schemas (unknown kinds, broken regular expressions, inverted
// bounds, references to unknown fields) are rejected by NewRecordSchema with a
// *ConfigurationError. Evaluation never fails.
//
// # Usage
//
//	schema := validator.MustRecordSchema(
//	    validator.NewField("pincode",
//	        validator.IsRequired("Zip code is required"),
//	        validator.MinLength(4, "Zip code must be between 4-16 characters"),
//	        validator.MaxLength(16, "Zip code must be between 4-16 characters"),
//	        validator.Matches(`^\d+$`, "Pincode must be a number"),
//	    ),
//	)
//
//	res := schema.Validate(validator.Record{"pincode": "12a45"})
//	res.Get("pincode") // "Pincode must be a number"
//
// Form layers typically show only touched fields:
//
//	visible := res.Visible(map[string]bool{"pincode": true})
//
// # Error Handling
//
// Result.Err converts a failed result into ValidationErrors, which works with
// errors.As and ExtractValidationErrors at HTTP boundaries.
//
// Schemas can also be loaded from YAML with ParseSchemaYAML.
package validator
