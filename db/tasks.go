// ABOUTME: Task database operations
// ABOUTME: Handles task CRUD, batch inserts, and completion toggling
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func CreateTask(db *sql.DB, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.RelatedType == "" {
		task.RelatedType = models.RelatedNone
	}

	var relatedID *string
	if task.RelatedID != nil {
		s := task.RelatedID.String()
		relatedID = &s
	}

	_, err := db.Exec(`
		INSERT INTO tasks (id, related_id, related_type, title, description, due_date, is_completed, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID.String(), relatedID, task.RelatedType, task.Title, task.Description, task.DueDate, task.IsCompleted, task.Priority, task.CreatedAt, task.UpdatedAt)

	return err
}

// CreateTasks inserts a batch of tasks in one transaction. Used by the
// stage automation engine so a transition either records all its follow-up
// tasks or none.
func CreateTasks(db *sql.DB, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = now
		}
		task.UpdatedAt = now
		if task.Priority == "" {
			task.Priority = models.PriorityMedium
		}
		if task.RelatedType == "" {
			task.RelatedType = models.RelatedNone
		}

		var relatedID *string
		if task.RelatedID != nil {
			s := task.RelatedID.String()
			relatedID = &s
		}

		_, err = tx.Exec(`
			INSERT INTO tasks (id, related_id, related_type, title, description, due_date, is_completed, priority, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, task.ID.String(), relatedID, task.RelatedType, task.Title, task.Description, task.DueDate, task.IsCompleted, task.Priority, task.CreatedAt, task.UpdatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func GetTask(db *sql.DB, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	var relatedID sql.NullString
	var dueDate sql.NullString

	err := db.QueryRow(`
		SELECT id, related_id, related_type, title, description, due_date, is_completed, priority, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id.String()).Scan(
		&task.ID,
		&relatedID,
		&task.RelatedType,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.IsCompleted,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if relatedID.Valid {
		rid, err := uuid.Parse(relatedID.String)
		if err == nil {
			task.RelatedID = &rid
		}
	}
	if dueDate.Valid {
		task.DueDate = dueDate.String
	}

	return task, nil
}

func UpdateTask(db *sql.DB, task *models.Task) error {
	task.UpdatedAt = time.Now()

	var relatedID *string
	if task.RelatedID != nil {
		s := task.RelatedID.String()
		relatedID = &s
	}

	_, err := db.Exec(`
		UPDATE tasks
		SET related_id = ?, related_type = ?, title = ?, description = ?, due_date = ?, is_completed = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, relatedID, task.RelatedType, task.Title, task.Description, task.DueDate, task.IsCompleted, task.Priority, task.UpdatedAt, task.ID.String())

	return err
}

func FindTasks(db *sql.DB, includeCompleted bool, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, related_id, related_type, title, description, due_date, is_completed, priority, created_at, updated_at
		FROM tasks
	`
	if !includeCompleted {
		query += ` WHERE is_completed = 0`
	}
	query += ` ORDER BY created_at ASC LIMIT ?`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var relatedID sql.NullString
		var dueDate sql.NullString

		if err := rows.Scan(&t.ID, &relatedID, &t.RelatedType, &t.Title, &t.Description, &dueDate, &t.IsCompleted, &t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}

		if relatedID.Valid {
			rid, err := uuid.Parse(relatedID.String)
			if err == nil {
				t.RelatedID = &rid
			}
		}
		if dueDate.Valid {
			t.DueDate = dueDate.String
		}

		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
