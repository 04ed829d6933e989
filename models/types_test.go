// ABOUTME: Tests for entity model helpers
// ABOUTME: Covers stage lookup, name formatting, and custom value validation
package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestPipelineStageIndex(t *testing.T) {
	p := &Pipeline{Stages: DefaultStages()}

	if idx := p.StageIndex(StageNew); idx != 0 {
		t.Errorf("Expected index 0 for %s, got %d", StageNew, idx)
	}
	if idx := p.StageIndex(StageLost); idx != 5 {
		t.Errorf("Expected index 5 for %s, got %d", StageLost, idx)
	}
	if idx := p.StageIndex("Nieznany"); idx != -1 {
		t.Errorf("Expected -1 for unknown stage, got %d", idx)
	}
	if !p.HasStage(StageWon) {
		t.Error("Expected pipeline to contain the won stage")
	}
}

func TestContactFullName(t *testing.T) {
	c := &Contact{FirstName: "Adam", LastName: "Nowak"}
	if got := c.FullName(); got != "Adam Nowak" {
		t.Errorf("Expected 'Adam Nowak', got %q", got)
	}

	c = &Contact{LastName: "Nowak"}
	if got := c.FullName(); got != "Nowak" {
		t.Errorf("Expected 'Nowak', got %q", got)
	}
}

func TestCustomValueValidate(t *testing.T) {
	dateField := CustomField{ID: uuid.New(), Label: "Data startu", Type: FieldTypeDate, Target: TargetCompany}
	selectField := CustomField{ID: uuid.New(), Label: "Rozmiar", Type: FieldTypeSelect, Target: TargetCompany, Options: []string{"Mała", "Duża"}}

	if err := DateValue("2024-06-30").Validate(dateField); err != nil {
		t.Errorf("Valid date rejected: %v", err)
	}
	if err := DateValue("30.06.2024").Validate(dateField); err == nil {
		t.Error("Expected error for non-ISO date")
	}
	if err := TextValue("abc").Validate(dateField); err == nil {
		t.Error("Expected kind mismatch error")
	}
	if err := ChoiceValue("Duża").Validate(selectField); err != nil {
		t.Errorf("Valid choice rejected: %v", err)
	}
	if err := ChoiceValue("Średnia").Validate(selectField); err == nil {
		t.Error("Expected error for choice outside declared options")
	}
}

func TestValidateCustomValues(t *testing.T) {
	companyField := CustomField{ID: uuid.New(), Label: "Wielkość zatrudnienia", Type: FieldTypeNumber, Target: TargetCompany}
	contactField := CustomField{ID: uuid.New(), Label: "LinkedIn URL", Type: FieldTypeText, Target: TargetContact}
	fields := []CustomField{companyField, contactField}

	values := CustomValues{companyField.ID: NumberValue(120)}
	if err := ValidateCustomValues(values, fields, TargetCompany); err != nil {
		t.Errorf("Valid values rejected: %v", err)
	}

	// Value for a field that targets the other entity type
	values = CustomValues{contactField.ID: TextValue("linkedin.com/in/nowak")}
	if err := ValidateCustomValues(values, fields, TargetCompany); err == nil {
		t.Error("Expected target mismatch error")
	}

	// Unknown field id
	values = CustomValues{uuid.New(): TextValue("x")}
	if err := ValidateCustomValues(values, fields, TargetCompany); err == nil {
		t.Error("Expected unknown field error")
	}
}
