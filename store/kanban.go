// ABOUTME: Kanban transition engine: moving deals between stages
// ABOUTME: Stage entry fires the pipeline's automation rules and synthesizes follow-up tasks
package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
)

// MoveDeal transitions a deal to a new stage within its pipeline and
// returns the tasks synthesized by the destination stage's automation
// rules. Moving a deal to the stage it is already in does nothing.
func (s *Store) MoveDeal(dealID uuid.UUID, newStage string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dealIdx := s.dealIndex(dealID)
	if dealIdx < 0 {
		return nil, fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	}
	deal := &s.deals[dealIdx]

	pipeIdx := s.pipelineIndex(deal.PipelineID)
	if pipeIdx < 0 {
		return nil, fmt.Errorf("pipeline %s: %w", deal.PipelineID, ErrNotFound)
	}
	pipeline := &s.pipelines[pipeIdx]
	if !pipeline.HasStage(newStage) {
		return nil, fmt.Errorf("stage %q in pipeline %q: %w", newStage, pipeline.Name, ErrUnknownStage)
	}
	if deal.Stage == newStage {
		return nil, nil
	}

	oldStage := deal.Stage
	deal.Stage = newStage

	created := s.synthesizeTasks(*deal, newStage, pipeline.Automation[newStage])
	s.tasks = append(s.tasks, created...)

	if s.sqlDB != nil {
		if err := db.UpdateDealStage(s.sqlDB, deal.ID, newStage); err != nil {
			deal.Stage = oldStage
			s.tasks = s.tasks[:len(s.tasks)-len(created)]
			return nil, fmt.Errorf("persisting stage move: %w", err)
		}
		if len(created) > 0 {
			refs := make([]*models.Task, len(created))
			for i := range created {
				refs[i] = &created[i]
			}
			if err := db.CreateTasks(s.sqlDB, refs); err != nil {
				deal.Stage = oldStage
				s.tasks = s.tasks[:len(s.tasks)-len(created)]
				if rerr := db.UpdateDealStage(s.sqlDB, deal.ID, oldStage); rerr != nil {
					s.logger.Error("restoring deal stage after task insert failure", zap.Error(rerr))
				}
				return nil, fmt.Errorf("persisting automated tasks: %w", err)
			}
		}
	}

	s.mirrorUpdate("deals", map[string]interface{}{"stage": newStage}, deal.ID)
	if len(created) > 0 {
		s.mirrorInsert("tasks", created, created[0].ID)
	}

	s.logger.Info("deal moved",
		zap.String("deal", deal.Title),
		zap.String("from", oldStage),
		zap.String("to", newStage),
		zap.Int("tasks_created", len(created)))

	return append([]models.Task(nil), created...), nil
}

// synthesizeTasks instantiates a stage's automation templates for one
// deal. Due dates are offset in whole days from today; the "{deal}"
// placeholder in a template title expands to the deal's title. The
// description records which stage triggered the task. Each task is
// linked to the deal's company so it shows up on the company card.
func (s *Store) synthesizeTasks(deal models.Deal, stage string, templates []models.AutomatedTaskTemplate) []models.Task {
	if len(templates) == 0 {
		return nil
	}
	today := s.now()
	tasks := make([]models.Task, 0, len(templates))
	for _, tpl := range templates {
		companyID := deal.CompanyID
		task := models.Task{
			ID:          uuid.New(),
			Title:       strings.ReplaceAll(tpl.Title, "{deal}", deal.Title),
			Description: fmt.Sprintf("Zadanie utworzone automatycznie dla szansy %q po wejściu na etap %q.", deal.Title, stage),
			DueDate:     today.AddDate(0, 0, tpl.DaysOffset).Format(models.DateFormat),
			Priority:    tpl.Priority,
			RelatedID:   &companyID,
			RelatedType: models.RelatedCompany,
		}
		if !models.IsValidPriority(task.Priority) {
			task.Priority = models.PriorityMedium
		}
		tasks = append(tasks, task)
	}
	return tasks
}
