// ABOUTME: Custom field registry: schema extension for companies and contacts
// ABOUTME: Field order is a persisted position column; reordering past the ends is a no-op
package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
)

// AddField registers a custom field at the end of the display order.
// Select fields must carry at least one option.
func (s *Store) AddField(field models.CustomField) (*models.CustomField, error) {
	if field.Label == "" {
		return nil, fmt.Errorf("field label is required")
	}
	switch field.Type {
	case models.FieldTypeText, models.FieldTypeNumber, models.FieldTypeDate:
	case models.FieldTypeSelect:
		if len(field.Options) == 0 {
			return nil, fmt.Errorf("select field needs at least one option")
		}
	default:
		return nil, fmt.Errorf("invalid field type %q", field.Type)
	}
	if field.Target != models.TargetCompany && field.Target != models.TargetContact {
		return nil, fmt.Errorf("invalid field target %q", field.Target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}
	field.Position = len(s.fields)
	s.fields = append(s.fields, field)

	if s.sqlDB != nil {
		if err := db.CreateCustomField(s.sqlDB, &field); err != nil {
			s.fields = s.fields[:len(s.fields)-1]
			return nil, fmt.Errorf("persisting custom field: %w", err)
		}
	}
	s.mirrorInsert("custom_fields", field, field.ID)

	result := field
	return &result, nil
}

// RemoveField deletes a field definition. Values already stored under it
// remain in each record's value map and are simply no longer rendered.
func (s *Store) RemoveField(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.fields {
		if s.fields[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("custom field %s: %w", id, ErrNotFound)
	}

	undo := append([]models.CustomField(nil), s.fields...)
	s.fields = append(s.fields[:idx], s.fields[idx+1:]...)
	for i := range s.fields {
		s.fields[i].Position = i
	}

	if s.sqlDB != nil {
		if err := db.DeleteCustomField(s.sqlDB, id); err != nil {
			s.fields = undo
			return fmt.Errorf("deleting custom field: %w", err)
		}
		if err := db.SaveFieldPositions(s.sqlDB, s.fields); err != nil {
			s.fields = undo
			return fmt.Errorf("renumbering custom fields: %w", err)
		}
	}
	s.markSyncing()
	return nil
}

// ReorderField moves the field at index one step in the given direction
// (-1 up, +1 down). Moves past either end do nothing.
func (s *Store) ReorderField(index, direction int) error {
	if direction != -1 && direction != 1 {
		return fmt.Errorf("direction must be -1 or 1, got %d", direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.fields) {
		return fmt.Errorf("field index %d of %d: %w", index, len(s.fields), ErrOutOfRange)
	}
	target := index + direction
	if target < 0 || target >= len(s.fields) {
		return nil
	}

	s.fields[index], s.fields[target] = s.fields[target], s.fields[index]
	s.fields[index].Position = index
	s.fields[target].Position = target

	if s.sqlDB != nil {
		if err := db.SaveFieldPositions(s.sqlDB, s.fields); err != nil {
			s.fields[index], s.fields[target] = s.fields[target], s.fields[index]
			s.fields[index].Position = index
			s.fields[target].Position = target
			return fmt.Errorf("persisting field order: %w", err)
		}
	}
	s.markSyncing()
	return nil
}
