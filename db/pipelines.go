// ABOUTME: Pipeline database operations
// ABOUTME: Persists stage order and per-stage automation templates as JSON
package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func CreatePipeline(db *sql.DB, pipeline *models.Pipeline) error {
	if pipeline.ID == uuid.Nil {
		pipeline.ID = uuid.New()
	}
	now := time.Now()
	if pipeline.CreatedAt.IsZero() {
		pipeline.CreatedAt = now
	}
	pipeline.UpdatedAt = now

	stages, err := json.Marshal(pipeline.Stages)
	if err != nil {
		return err
	}

	automation, err := marshalAutomation(pipeline.Automation)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO pipelines (id, name, stages, automation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, pipeline.ID.String(), pipeline.Name, string(stages), automation, pipeline.CreatedAt, pipeline.UpdatedAt)

	return err
}

func GetPipeline(db *sql.DB, id uuid.UUID) (*models.Pipeline, error) {
	pipeline := &models.Pipeline{}
	var stages string
	var automation sql.NullString

	err := db.QueryRow(`
		SELECT id, name, stages, automation, created_at, updated_at
		FROM pipelines WHERE id = ?
	`, id.String()).Scan(
		&pipeline.ID,
		&pipeline.Name,
		&stages,
		&automation,
		&pipeline.CreatedAt,
		&pipeline.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stages), &pipeline.Stages); err != nil {
		return nil, err
	}
	pipeline.Automation, err = scanAutomation(automation)
	if err != nil {
		return nil, err
	}

	return pipeline, nil
}

// UpdatePipeline rewrites the full pipeline row: name, stage order, and
// automation mapping.
func UpdatePipeline(db *sql.DB, pipeline *models.Pipeline) error {
	pipeline.UpdatedAt = time.Now()

	stages, err := json.Marshal(pipeline.Stages)
	if err != nil {
		return err
	}

	automation, err := marshalAutomation(pipeline.Automation)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE pipelines
		SET name = ?, stages = ?, automation = ?, updated_at = ?
		WHERE id = ?
	`, pipeline.Name, string(stages), automation, pipeline.UpdatedAt, pipeline.ID.String())

	return err
}

func ListPipelines(db *sql.DB) ([]models.Pipeline, error) {
	rows, err := db.Query(`
		SELECT id, name, stages, automation, created_at, updated_at
		FROM pipelines
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pipelines []models.Pipeline
	for rows.Next() {
		var p models.Pipeline
		var stages string
		var automation sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &stages, &automation, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(stages), &p.Stages); err != nil {
			return nil, err
		}
		p.Automation, err = scanAutomation(automation)
		if err != nil {
			return nil, err
		}

		pipelines = append(pipelines, p)
	}

	return pipelines, rows.Err()
}

func DeletePipeline(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM pipelines WHERE id = ?`, id.String())
	return err
}

func marshalAutomation(automation map[string][]models.AutomatedTaskTemplate) (*string, error) {
	if len(automation) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(automation)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func scanAutomation(col sql.NullString) (map[string][]models.AutomatedTaskTemplate, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var automation map[string][]models.AutomatedTaskTemplate
	if err := json.Unmarshal([]byte(col.String), &automation); err != nil {
		return nil, err
	}
	return automation, nil
}
