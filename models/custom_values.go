// ABOUTME: Tagged value variant for user-defined custom fields
// ABOUTME: Validates values against the CustomField registry at write time
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CustomValue kind constants. Kind "choice" pairs with field type "select".
const (
	ValueText   = "text"
	ValueNumber = "number"
	ValueDate   = "date"
	ValueChoice = "choice"
)

// CustomValue is a tagged variant: exactly one payload field is meaningful,
// selected by Kind.
type CustomValue struct {
	Kind   string  `json:"kind"`
	Text   string  `json:"text,omitempty"`
	Number float64 `json:"number,omitempty"`
	Date   string  `json:"date,omitempty"`
	Choice string  `json:"choice,omitempty"`
}

// CustomValues maps custom field IDs to their values for one record.
type CustomValues map[uuid.UUID]CustomValue

func TextValue(s string) CustomValue { return CustomValue{Kind: ValueText, Text: s} }

func NumberValue(f float64) CustomValue { return CustomValue{Kind: ValueNumber, Number: f} }

func DateValue(s string) CustomValue { return CustomValue{Kind: ValueDate, Date: s} }

func ChoiceValue(s string) CustomValue { return CustomValue{Kind: ValueChoice, Choice: s} }

// String returns the display form of the value.
func (v CustomValue) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return fmt.Sprintf("%g", v.Number)
	case ValueDate:
		return v.Date
	case ValueChoice:
		return v.Choice
	}
	return ""
}

// kindForFieldType maps a declared field type to the value kind it accepts.
func kindForFieldType(fieldType string) string {
	if fieldType == FieldTypeSelect {
		return ValueChoice
	}
	return fieldType
}

// Validate checks the value against the field's declared type: the kind
// must match, dates must be ISO YYYY-MM-DD, and choices must be one of the
// field's options.
func (v CustomValue) Validate(field CustomField) error {
	want := kindForFieldType(field.Type)
	if v.Kind != want {
		return fmt.Errorf("field %q expects a %s value, got %s", field.Label, want, v.Kind)
	}

	switch v.Kind {
	case ValueDate:
		if _, err := time.Parse(DateFormat, v.Date); err != nil {
			return fmt.Errorf("field %q: invalid date %q (use YYYY-MM-DD)", field.Label, v.Date)
		}
	case ValueChoice:
		for _, opt := range field.Options {
			if opt == v.Choice {
				return nil
			}
		}
		return fmt.Errorf("field %q: %q is not one of the declared options", field.Label, v.Choice)
	}

	return nil
}

// ValidateCustomValues checks every value in the bag against the field
// registry: the field must exist, target the given entity type, and accept
// the value.
func ValidateCustomValues(values CustomValues, fields []CustomField, target string) error {
	byID := make(map[uuid.UUID]CustomField, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	for id, value := range values {
		field, ok := byID[id]
		if !ok {
			return fmt.Errorf("unknown custom field %s", id)
		}
		if field.Target != target {
			return fmt.Errorf("field %q targets %s records, not %s", field.Label, field.Target, target)
		}
		if err := value.Validate(field); err != nil {
			return err
		}
	}

	return nil
}
