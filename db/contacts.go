// ABOUTME: Contact database operations
// ABOUTME: Handles contact CRUD and name/email search
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func CreateContact(db *sql.DB, contact *models.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	now := time.Now()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	var companyID *string
	if contact.CompanyID != nil {
		s := contact.CompanyID.String()
		companyID = &s
	}

	values, err := marshalCustomValues(contact.CustomValues)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO contacts (id, company_id, first_name, last_name, email, phone, role, owner, custom_values, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), companyID, contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.Role, contact.Owner, values, contact.CreatedAt, contact.UpdatedAt)

	return err
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	contact := &models.Contact{}
	var companyID sql.NullString
	var values sql.NullString

	err := db.QueryRow(`
		SELECT id, company_id, first_name, last_name, email, phone, role, owner, custom_values, created_at, updated_at
		FROM contacts WHERE id = ?
	`, id.String()).Scan(
		&contact.ID,
		&companyID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.Role,
		&contact.Owner,
		&values,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if companyID.Valid {
		cid, err := uuid.Parse(companyID.String)
		if err == nil {
			contact.CompanyID = &cid
		}
	}

	contact.CustomValues, err = scanCustomValues(values)
	if err != nil {
		return nil, err
	}

	return contact, nil
}

func UpdateContact(db *sql.DB, contact *models.Contact) error {
	contact.UpdatedAt = time.Now()

	var companyID *string
	if contact.CompanyID != nil {
		s := contact.CompanyID.String()
		companyID = &s
	}

	values, err := marshalCustomValues(contact.CustomValues)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE contacts
		SET company_id = ?, first_name = ?, last_name = ?, email = ?, phone = ?, role = ?, owner = ?, custom_values = ?, updated_at = ?
		WHERE id = ?
	`, companyID, contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.Role, contact.Owner, values, contact.UpdatedAt, contact.ID.String())

	return err
}

// FindContacts searches by name or email substring, optionally scoped to a
// company.
func FindContacts(db *sql.DB, query string, companyID *uuid.UUID, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	pattern := "%" + query + "%"

	if companyID != nil && query != "" {
		rows, err = db.Query(`
			SELECT id, company_id, first_name, last_name, email, phone, role, owner, custom_values, created_at, updated_at
			FROM contacts
			WHERE company_id = ? AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)
			ORDER BY created_at DESC
			LIMIT ?
		`, companyID.String(), pattern, pattern, pattern, limit)
	} else if companyID != nil {
		rows, err = db.Query(`
			SELECT id, company_id, first_name, last_name, email, phone, role, owner, custom_values, created_at, updated_at
			FROM contacts
			WHERE company_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		`, companyID.String(), limit)
	} else if query != "" {
		rows, err = db.Query(`
			SELECT id, company_id, first_name, last_name, email, phone, role, owner, custom_values, created_at, updated_at
			FROM contacts
			WHERE first_name LIKE ? OR last_name LIKE ? OR email LIKE ?
			ORDER BY created_at DESC
			LIMIT ?
		`, pattern, pattern, pattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, company_id, first_name, last_name, email, phone, role, owner, custom_values, created_at, updated_at
			FROM contacts
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		var cid sql.NullString
		var values sql.NullString

		if err := rows.Scan(&c.ID, &cid, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Role, &c.Owner, &values, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}

		if cid.Valid {
			parsed, err := uuid.Parse(cid.String)
			if err == nil {
				c.CompanyID = &parsed
			}
		}

		c.CustomValues, err = scanCustomValues(values)
		if err != nil {
			return nil, err
		}

		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}
