// ABOUTME: Pipeline and stage registry: add, rename, remove, reorder stages
// ABOUTME: Stage renames cascade to deals so kanban columns never strand cards silently
package store

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
)

// AddPipeline creates a pipeline with the starter stage list.
func (s *Store) AddPipeline(name string) (*models.Pipeline, error) {
	if name == "" {
		return nil, fmt.Errorf("pipeline name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pipeline := models.Pipeline{
		ID:         uuid.New(),
		Name:       name,
		Stages:     models.NewPipelineStages(),
		Automation: map[string][]models.AutomatedTaskTemplate{},
	}
	s.pipelines = append(s.pipelines, pipeline)

	if s.sqlDB != nil {
		if err := db.CreatePipeline(s.sqlDB, &pipeline); err != nil {
			s.pipelines = s.pipelines[:len(s.pipelines)-1]
			return nil, fmt.Errorf("persisting pipeline: %w", err)
		}
	}
	s.mirrorInsert("pipelines", pipeline, pipeline.ID)

	result := copyPipeline(pipeline)
	return &result, nil
}

// RemovePipeline deletes a pipeline. Deals pointing at it are left in
// place; the kanban view simply has nowhere to show them.
func (s *Store) RemovePipeline(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pipelineIndex(id)
	if idx < 0 {
		return fmt.Errorf("pipeline %s: %w", id, ErrNotFound)
	}
	removed := s.pipelines[idx]
	s.pipelines = append(s.pipelines[:idx], s.pipelines[idx+1:]...)

	if s.sqlDB != nil {
		if err := db.DeletePipeline(s.sqlDB, id); err != nil {
			s.pipelines = append(s.pipelines[:idx], append([]models.Pipeline{removed}, s.pipelines[idx:]...)...)
			return fmt.Errorf("deleting pipeline: %w", err)
		}
	}
	s.markSyncing()
	return nil
}

// AddStage appends a stage to the end of a pipeline's sequence. Stage
// names are unique within a pipeline; a duplicate is rejected rather
// than silently creating a second column with the same automation key.
func (s *Store) AddStage(pipelineID uuid.UUID, name string) error {
	if name == "" {
		return fmt.Errorf("stage name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pipelineIndex(pipelineID)
	if idx < 0 {
		return fmt.Errorf("pipeline %s: %w", pipelineID, ErrNotFound)
	}
	p := &s.pipelines[idx]
	if p.HasStage(name) {
		return fmt.Errorf("stage %q: %w", name, ErrDuplicateStage)
	}

	p.Stages = append(p.Stages, name)
	if err := s.persistPipeline(p); err != nil {
		p.Stages = p.Stages[:len(p.Stages)-1]
		return err
	}
	return nil
}

// EditStage renames a stage and cascades the rename to every deal sitting
// in it, along with the stage's automation rules.
func (s *Store) EditStage(pipelineID uuid.UUID, oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("stage name is required")
	}
	if oldName == newName {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pipelineIndex(pipelineID)
	if idx < 0 {
		return fmt.Errorf("pipeline %s: %w", pipelineID, ErrNotFound)
	}
	p := &s.pipelines[idx]
	stageIdx := p.StageIndex(oldName)
	if stageIdx < 0 {
		return fmt.Errorf("stage %q: %w", oldName, ErrUnknownStage)
	}
	if p.HasStage(newName) {
		return fmt.Errorf("stage %q: %w", newName, ErrDuplicateStage)
	}

	undo := copyPipeline(*p)
	p.Stages[stageIdx] = newName
	if templates, ok := p.Automation[oldName]; ok {
		delete(p.Automation, oldName)
		p.Automation[newName] = templates
	}

	var moved []int
	for i := range s.deals {
		if s.deals[i].PipelineID == pipelineID && s.deals[i].Stage == oldName {
			s.deals[i].Stage = newName
			moved = append(moved, i)
		}
	}

	revert := func() {
		s.pipelines[idx] = undo
		for _, i := range moved {
			s.deals[i].Stage = oldName
		}
	}

	if s.sqlDB != nil {
		if err := db.UpdatePipeline(s.sqlDB, p); err != nil {
			revert()
			return fmt.Errorf("persisting pipeline: %w", err)
		}
		for _, i := range moved {
			if err := db.UpdateDealStage(s.sqlDB, s.deals[i].ID, newName); err != nil {
				revert()
				return fmt.Errorf("cascading stage rename: %w", err)
			}
		}
	}

	s.mirrorUpdate("pipelines", map[string]interface{}{"stages": p.Stages, "automation": p.Automation}, p.ID)
	for _, i := range moved {
		s.mirrorUpdate("deals", map[string]interface{}{"stage": newName}, s.deals[i].ID)
	}
	s.logger.Info("stage renamed",
		zap.String("pipeline", p.Name),
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int("deals_moved", len(moved)))
	return nil
}

// RemoveStage drops a stage from the sequence. Deals in the removed
// stage are not reassigned; they keep the dangling stage name until
// someone moves them.
func (s *Store) RemoveStage(pipelineID uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pipelineIndex(pipelineID)
	if idx < 0 {
		return fmt.Errorf("pipeline %s: %w", pipelineID, ErrNotFound)
	}
	p := &s.pipelines[idx]
	stageIdx := p.StageIndex(name)
	if stageIdx < 0 {
		return fmt.Errorf("stage %q: %w", name, ErrUnknownStage)
	}

	undo := copyPipeline(*p)
	p.Stages = append(p.Stages[:stageIdx], p.Stages[stageIdx+1:]...)
	delete(p.Automation, name)

	if err := s.persistPipelineRevert(p, func() { s.pipelines[idx] = undo }); err != nil {
		return err
	}
	return nil
}

// MoveStage reorders the stage sequence by removing the stage at
// fromIndex and reinserting it at toIndex.
func (s *Store) MoveStage(pipelineID uuid.UUID, fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pipelineIndex(pipelineID)
	if idx < 0 {
		return fmt.Errorf("pipeline %s: %w", pipelineID, ErrNotFound)
	}
	p := &s.pipelines[idx]
	n := len(p.Stages)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return fmt.Errorf("moving stage %d to %d of %d: %w", fromIndex, toIndex, n, ErrOutOfRange)
	}
	if fromIndex == toIndex {
		return nil
	}

	undo := append([]string(nil), p.Stages...)
	stage := p.Stages[fromIndex]
	rest := append(append([]string(nil), p.Stages[:fromIndex]...), p.Stages[fromIndex+1:]...)
	p.Stages = append(append(append([]string(nil), rest[:toIndex]...), stage), rest[toIndex:]...)

	if err := s.persistPipelineRevert(p, func() { p.Stages = undo }); err != nil {
		return err
	}
	return nil
}

// UpdateAutomation replaces the automated-task templates for one stage.
// Passing an empty list clears the stage's automation.
func (s *Store) UpdateAutomation(pipelineID uuid.UUID, stage string, templates []models.AutomatedTaskTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pipelineIndex(pipelineID)
	if idx < 0 {
		return fmt.Errorf("pipeline %s: %w", pipelineID, ErrNotFound)
	}
	p := &s.pipelines[idx]
	if !p.HasStage(stage) {
		return fmt.Errorf("stage %q: %w", stage, ErrUnknownStage)
	}
	for i := range templates {
		if templates[i].ID == uuid.Nil {
			templates[i].ID = uuid.New()
		}
		if !models.IsValidPriority(templates[i].Priority) {
			return fmt.Errorf("invalid priority %q", templates[i].Priority)
		}
	}

	undo := copyPipeline(*p)
	if p.Automation == nil {
		p.Automation = map[string][]models.AutomatedTaskTemplate{}
	}
	if len(templates) == 0 {
		delete(p.Automation, stage)
	} else {
		p.Automation[stage] = templates
	}

	if err := s.persistPipelineRevert(p, func() { s.pipelines[idx] = undo }); err != nil {
		return err
	}
	return nil
}

func (s *Store) persistPipeline(p *models.Pipeline) error {
	return s.persistPipelineRevert(p, nil)
}

func (s *Store) persistPipelineRevert(p *models.Pipeline, revert func()) error {
	if s.sqlDB != nil {
		if err := db.UpdatePipeline(s.sqlDB, p); err != nil {
			if revert != nil {
				revert()
			}
			return fmt.Errorf("persisting pipeline: %w", err)
		}
	}
	s.mirrorUpdate("pipelines", map[string]interface{}{"stages": p.Stages, "automation": p.Automation}, p.ID)
	return nil
}

// mirrorInsert and mirrorUpdate are called with s.mu held. The remote
// call itself runs on its own goroutine so readers never wait on the
// network; the goroutine re-locks only to record the outcome.
func (s *Store) mirrorInsert(table string, record interface{}, id uuid.UUID) {
	s.markSyncing()
	if s.mirror == nil {
		return
	}
	s.syncWG.Add(1)
	go func() {
		defer s.syncWG.Done()
		err := s.mirror.Insert(table, record)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.markUnsynced(id, err)
			return
		}
		delete(s.unsynced, id)
	}()
}

func (s *Store) mirrorUpdate(table string, patch map[string]interface{}, id uuid.UUID) {
	s.markSyncing()
	if s.mirror == nil {
		return
	}
	s.syncWG.Add(1)
	go func() {
		defer s.syncWG.Done()
		err := s.mirror.Update(table, patch, id)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.markUnsynced(id, err)
			return
		}
		delete(s.unsynced, id)
	}()
}
