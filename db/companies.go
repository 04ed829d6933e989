// ABOUTME: Company database operations
// ABOUTME: Handles company CRUD and name/industry search
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func CreateCompany(db *sql.DB, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	now := time.Now()
	if company.CreatedAt.IsZero() {
		company.CreatedAt = now
	}
	company.UpdatedAt = now

	if company.Status == "" {
		company.Status = models.CompanyStatusProspect
	}

	values, err := marshalCustomValues(company.CustomValues)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO companies (id, name, industry, website, status, owner, custom_values, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, company.ID.String(), company.Name, company.Industry, company.Website, company.Status, company.Owner, values, company.CreatedAt, company.UpdatedAt)

	return err
}

func GetCompany(db *sql.DB, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	var values sql.NullString

	err := db.QueryRow(`
		SELECT id, name, industry, website, status, owner, custom_values, created_at, updated_at
		FROM companies WHERE id = ?
	`, id.String()).Scan(
		&company.ID,
		&company.Name,
		&company.Industry,
		&company.Website,
		&company.Status,
		&company.Owner,
		&values,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	company.CustomValues, err = scanCustomValues(values)
	if err != nil {
		return nil, err
	}

	return company, nil
}

func UpdateCompany(db *sql.DB, company *models.Company) error {
	company.UpdatedAt = time.Now()

	values, err := marshalCustomValues(company.CustomValues)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE companies
		SET name = ?, industry = ?, website = ?, status = ?, owner = ?, custom_values = ?, updated_at = ?
		WHERE id = ?
	`, company.Name, company.Industry, company.Website, company.Status, company.Owner, values, company.UpdatedAt, company.ID.String())

	return err
}

// FindCompanies searches by name or industry substring; an empty query
// returns everything, newest first.
func FindCompanies(db *sql.DB, query string, limit int) ([]models.Company, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error

	if query != "" {
		pattern := "%" + query + "%"
		rows, err = db.Query(`
			SELECT id, name, industry, website, status, owner, custom_values, created_at, updated_at
			FROM companies
			WHERE name LIKE ? OR industry LIKE ?
			ORDER BY created_at DESC
			LIMIT ?
		`, pattern, pattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, name, industry, website, status, owner, custom_values, created_at, updated_at
			FROM companies
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		var values sql.NullString

		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.Status, &c.Owner, &values, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}

		c.CustomValues, err = scanCustomValues(values)
		if err != nil {
			return nil, err
		}

		companies = append(companies, c)
	}

	return companies, rows.Err()
}

func FindCompanyByName(db *sql.DB, name string) (*models.Company, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM companies WHERE name = ? LIMIT 1`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	return GetCompany(db, companyID)
}
