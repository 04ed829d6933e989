// ABOUTME: Tests for custom field persistence
// ABOUTME: Covers option round-trip and display order rewriting
package db

import (
	"testing"

	"github.com/mkarcz/prospekt/models"
)

func TestCreateAndListCustomFields(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fields := []*models.CustomField{
		{Label: "Wielkość zatrudnienia", Type: models.FieldTypeNumber, Target: models.TargetCompany, Position: 0},
		{Label: "LinkedIn URL", Type: models.FieldTypeText, Target: models.TargetContact, Position: 1},
		{Label: "Rozmiar firmy", Type: models.FieldTypeSelect, Target: models.TargetCompany, Options: []string{"Mała", "Średnia", "Duża"}, Position: 2},
	}
	for _, f := range fields {
		if err := CreateCustomField(db, f); err != nil {
			t.Fatalf("CreateCustomField failed: %v", err)
		}
	}

	found, err := ListCustomFields(db)
	if err != nil {
		t.Fatalf("ListCustomFields failed: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(found))
	}

	if found[2].Label != "Rozmiar firmy" {
		t.Errorf("Expected position order, got %s last", found[2].Label)
	}
	if len(found[2].Options) != 3 {
		t.Errorf("Expected 3 options, got %d", len(found[2].Options))
	}
}

func TestSaveFieldPositions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	a := &models.CustomField{Label: "A", Type: models.FieldTypeText, Target: models.TargetCompany, Position: 0}
	b := &models.CustomField{Label: "B", Type: models.FieldTypeText, Target: models.TargetCompany, Position: 1}
	for _, f := range []*models.CustomField{a, b} {
		if err := CreateCustomField(db, f); err != nil {
			t.Fatalf("CreateCustomField failed: %v", err)
		}
	}

	// Swap and persist
	if err := SaveFieldPositions(db, []models.CustomField{*b, *a}); err != nil {
		t.Fatalf("SaveFieldPositions failed: %v", err)
	}

	found, err := ListCustomFields(db)
	if err != nil {
		t.Fatalf("ListCustomFields failed: %v", err)
	}
	if found[0].Label != "B" || found[1].Label != "A" {
		t.Errorf("Expected order [B A], got [%s %s]", found[0].Label, found[1].Label)
	}
}

func TestDeleteCustomField(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	field := &models.CustomField{Label: "A", Type: models.FieldTypeText, Target: models.TargetCompany}
	if err := CreateCustomField(db, field); err != nil {
		t.Fatalf("CreateCustomField failed: %v", err)
	}

	if err := DeleteCustomField(db, field.ID); err != nil {
		t.Fatalf("DeleteCustomField failed: %v", err)
	}

	found, err := ListCustomFields(db)
	if err != nil {
		t.Fatalf("ListCustomFields failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Expected no fields, got %d", len(found))
	}
}
