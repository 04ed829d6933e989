// ABOUTME: Deal database operations
// ABOUTME: Handles deal lifecycle and stage persistence
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func CreateDeal(db *sql.DB, deal *models.Deal) error {
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	now := time.Now()
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = now
	}
	deal.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO deals (id, company_id, pipeline_id, title, value, stage, expected_close_date, owner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, deal.ID.String(), deal.CompanyID.String(), deal.PipelineID.String(), deal.Title, deal.Value, deal.Stage, deal.ExpectedCloseDate, deal.Owner, deal.CreatedAt, deal.UpdatedAt)

	return err
}

func GetDeal(db *sql.DB, id uuid.UUID) (*models.Deal, error) {
	deal := &models.Deal{}
	var closeDate sql.NullString

	err := db.QueryRow(`
		SELECT id, company_id, pipeline_id, title, value, stage, expected_close_date, owner, created_at, updated_at
		FROM deals WHERE id = ?
	`, id.String()).Scan(
		&deal.ID,
		&deal.CompanyID,
		&deal.PipelineID,
		&deal.Title,
		&deal.Value,
		&deal.Stage,
		&closeDate,
		&deal.Owner,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if closeDate.Valid {
		deal.ExpectedCloseDate = closeDate.String
	}

	return deal, nil
}

func UpdateDeal(db *sql.DB, deal *models.Deal) error {
	deal.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE deals
		SET company_id = ?, pipeline_id = ?, title = ?, value = ?, stage = ?, expected_close_date = ?, owner = ?, updated_at = ?
		WHERE id = ?
	`, deal.CompanyID.String(), deal.PipelineID.String(), deal.Title, deal.Value, deal.Stage, deal.ExpectedCloseDate, deal.Owner, deal.UpdatedAt, deal.ID.String())

	return err
}

// UpdateDealStage persists only a stage transition.
func UpdateDealStage(db *sql.DB, id uuid.UUID, stage string) error {
	_, err := db.Exec(`
		UPDATE deals SET stage = ?, updated_at = ? WHERE id = ?
	`, stage, time.Now(), id.String())
	return err
}

func FindDeals(db *sql.DB, stage string, companyID *uuid.UUID, limit int) ([]models.Deal, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error

	if companyID != nil && stage != "" {
		rows, err = db.Query(`
			SELECT id, company_id, pipeline_id, title, value, stage, expected_close_date, owner, created_at, updated_at
			FROM deals
			WHERE company_id = ? AND stage = ?
			ORDER BY created_at ASC
			LIMIT ?
		`, companyID.String(), stage, limit)
	} else if companyID != nil {
		rows, err = db.Query(`
			SELECT id, company_id, pipeline_id, title, value, stage, expected_close_date, owner, created_at, updated_at
			FROM deals
			WHERE company_id = ?
			ORDER BY created_at ASC
			LIMIT ?
		`, companyID.String(), limit)
	} else if stage != "" {
		rows, err = db.Query(`
			SELECT id, company_id, pipeline_id, title, value, stage, expected_close_date, owner, created_at, updated_at
			FROM deals
			WHERE stage = ?
			ORDER BY created_at ASC
			LIMIT ?
		`, stage, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, company_id, pipeline_id, title, value, stage, expected_close_date, owner, created_at, updated_at
			FROM deals
			ORDER BY created_at ASC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var d models.Deal
		var closeDate sql.NullString

		if err := rows.Scan(&d.ID, &d.CompanyID, &d.PipelineID, &d.Title, &d.Value, &d.Stage, &closeDate, &d.Owner, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}

		if closeDate.Valid {
			d.ExpectedCloseDate = closeDate.String
		}

		deals = append(deals, d)
	}

	return deals, rows.Err()
}

func DeleteDeal(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM deals WHERE id = ?`, id.String())
	return err
}
