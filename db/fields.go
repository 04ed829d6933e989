// ABOUTME: Custom field registry database operations
// ABOUTME: Persists field definitions with explicit display order
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func CreateCustomField(db *sql.DB, field *models.CustomField) error {
	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}
	if field.CreatedAt.IsZero() {
		field.CreatedAt = time.Now()
	}

	options, err := marshalStrings(field.Options)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO custom_fields (id, label, type, target, options, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, field.ID.String(), field.Label, field.Type, field.Target, options, field.Position, field.CreatedAt)

	return err
}

func ListCustomFields(db *sql.DB) ([]models.CustomField, error) {
	rows, err := db.Query(`
		SELECT id, label, type, target, options, position, created_at
		FROM custom_fields
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []models.CustomField
	for rows.Next() {
		var f models.CustomField
		var options sql.NullString

		if err := rows.Scan(&f.ID, &f.Label, &f.Type, &f.Target, &options, &f.Position, &f.CreatedAt); err != nil {
			return nil, err
		}

		f.Options, err = scanStrings(options)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	return fields, rows.Err()
}

func DeleteCustomField(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM custom_fields WHERE id = ?`, id.String())
	return err
}

// SaveFieldPositions rewrites the position column for an already-reordered
// field list in one transaction.
func SaveFieldPositions(db *sql.DB, fields []models.CustomField) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, field := range fields {
		if _, err := tx.Exec(`UPDATE custom_fields SET position = ? WHERE id = ?`, i, field.ID.String()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
