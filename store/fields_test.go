// ABOUTME: Tests for the custom field registry, including reorder boundary no-ops
package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarcz/prospekt/models"
)

func fieldLabels(s *Store) []string {
	fields := s.CustomFields()
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	return labels
}

func TestAddField(t *testing.T) {
	s := newTestStore(t)
	before := len(s.CustomFields())

	f, err := s.AddField(models.CustomField{
		Label:  "NIP",
		Type:   models.FieldTypeText,
		Target: models.TargetCompany,
	})
	require.NoError(t, err)
	assert.Equal(t, before, f.Position, "new fields append at the end")
	assert.NotEqual(t, uuid.Nil, f.ID)
}

func TestAddFieldValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddField(models.CustomField{Type: models.FieldTypeText, Target: models.TargetCompany})
	assert.Error(t, err, "label is required")

	_, err = s.AddField(models.CustomField{Label: "Źródło", Type: models.FieldTypeSelect, Target: models.TargetCompany})
	assert.Error(t, err, "select fields need options")

	_, err = s.AddField(models.CustomField{Label: "X", Type: "checkbox", Target: models.TargetCompany})
	assert.Error(t, err, "unknown type")

	_, err = s.AddField(models.CustomField{Label: "X", Type: models.FieldTypeText, Target: "deal"})
	assert.Error(t, err, "unknown target")
}

func TestRemoveFieldRenumbersPositions(t *testing.T) {
	s := newTestStore(t)
	first, err := s.AddField(models.CustomField{Label: "A", Type: models.FieldTypeText, Target: models.TargetCompany})
	require.NoError(t, err)
	_, err = s.AddField(models.CustomField{Label: "B", Type: models.FieldTypeText, Target: models.TargetCompany})
	require.NoError(t, err)

	require.NoError(t, s.RemoveField(first.ID))
	for i, f := range s.CustomFields() {
		assert.Equal(t, i, f.Position, "positions stay dense after removal")
	}

	err = s.RemoveField(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderField(t *testing.T) {
	s := newTestStore(t)
	labels := fieldLabels(s)
	require.GreaterOrEqual(t, len(labels), 2, "demo dataset carries at least two fields")

	require.NoError(t, s.ReorderField(0, 1))
	got := fieldLabels(s)
	assert.Equal(t, labels[1], got[0])
	assert.Equal(t, labels[0], got[1])

	require.NoError(t, s.ReorderField(1, -1))
	assert.Equal(t, labels, fieldLabels(s), "moving back restores the order")
}

func TestReorderFieldBoundariesAreNoops(t *testing.T) {
	s := newTestStore(t)
	labels := fieldLabels(s)
	last := len(labels) - 1

	require.NoError(t, s.ReorderField(0, -1), "moving the first field up does nothing")
	require.NoError(t, s.ReorderField(last, 1), "moving the last field down does nothing")
	assert.Equal(t, labels, fieldLabels(s))
}

func TestReorderFieldInvalidInput(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.ReorderField(-1, 1), ErrOutOfRange)
	assert.ErrorIs(t, s.ReorderField(len(s.CustomFields()), 1), ErrOutOfRange)
	assert.Error(t, s.ReorderField(0, 2), "direction must be a single step")
}

func TestFieldsForTarget(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddField(models.CustomField{
		Label:   "Ulubiony kanał",
		Type:    models.FieldTypeSelect,
		Target:  models.TargetContact,
		Options: []string{"Telefon", "E-mail"},
	})
	require.NoError(t, err)

	for _, f := range s.FieldsFor(models.TargetContact) {
		assert.Equal(t, models.TargetContact, f.Target)
	}
	assert.NotEmpty(t, s.FieldsFor(models.TargetContact))
}

func TestCustomValuesValidatedOnCreate(t *testing.T) {
	s := newTestStore(t)
	f, err := s.AddField(models.CustomField{
		Label:   "Źródło",
		Type:    models.FieldTypeSelect,
		Target:  models.TargetCompany,
		Options: []string{"Polecenie", "Strona WWW"},
	})
	require.NoError(t, err)

	_, err = s.AddCompany(models.Company{
		Name:         "Zła wartość",
		CustomValues: models.CustomValues{f.ID: models.ChoiceValue("LinkedIn")},
	})
	assert.Error(t, err, "choice outside the options list is rejected")

	_, err = s.AddCompany(models.Company{
		Name:         "Dobra wartość",
		CustomValues: models.CustomValues{f.ID: models.ChoiceValue("Polecenie")},
	})
	assert.NoError(t, err)
}
