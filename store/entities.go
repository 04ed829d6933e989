// ABOUTME: Entity CRUD: companies, contacts, deals and follow-up tasks
// ABOUTME: Custom values are validated against the field registry before a record is accepted
package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
)

// AddCompany creates a company. Custom values must match the registered
// company fields.
func (s *Store) AddCompany(company models.Company) (*models.Company, error) {
	if company.Name == "" {
		return nil, fmt.Errorf("company name is required")
	}
	if company.Status == "" {
		company.Status = models.CompanyStatusProspect
	}
	if !models.IsValidCompanyStatus(company.Status) {
		return nil, fmt.Errorf("invalid company status %q", company.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateCustomValues(company.CustomValues, s.fields, models.TargetCompany); err != nil {
		return nil, err
	}
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	s.companies = append(s.companies, company)

	if s.sqlDB != nil {
		if err := db.CreateCompany(s.sqlDB, &company); err != nil {
			s.companies = s.companies[:len(s.companies)-1]
			return nil, fmt.Errorf("persisting company: %w", err)
		}
		s.companies[len(s.companies)-1] = company
	}
	s.mirrorInsert("companies", company, company.ID)

	result := company
	return &result, nil
}

// UpdateCompany replaces a company's editable fields.
func (s *Store) UpdateCompany(company models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.companyIndex(company.ID)
	if idx < 0 {
		return fmt.Errorf("company %s: %w", company.ID, ErrNotFound)
	}
	if err := models.ValidateCustomValues(company.CustomValues, s.fields, models.TargetCompany); err != nil {
		return err
	}

	undo := s.companies[idx]
	s.companies[idx] = company

	if s.sqlDB != nil {
		if err := db.UpdateCompany(s.sqlDB, &company); err != nil {
			s.companies[idx] = undo
			return fmt.Errorf("persisting company: %w", err)
		}
	}
	s.mirrorUpdate("companies", map[string]interface{}{
		"name": company.Name, "industry": company.Industry, "website": company.Website,
		"status": company.Status, "owner": company.Owner, "custom_values": company.CustomValues,
	}, company.ID)
	return nil
}

// Company returns a company by id.
func (s *Store) Company(id uuid.UUID) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.companyIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	c := s.companies[idx]
	return &c, nil
}

// AddContact creates a contact, optionally linked to a company.
func (s *Store) AddContact(contact models.Contact) (*models.Contact, error) {
	if contact.FirstName == "" && contact.LastName == "" {
		return nil, fmt.Errorf("contact name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if contact.CompanyID != nil && s.companyIndex(*contact.CompanyID) < 0 {
		return nil, fmt.Errorf("company %s: %w", *contact.CompanyID, ErrNotFound)
	}
	if err := models.ValidateCustomValues(contact.CustomValues, s.fields, models.TargetContact); err != nil {
		return nil, err
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	s.contacts = append(s.contacts, contact)

	if s.sqlDB != nil {
		if err := db.CreateContact(s.sqlDB, &contact); err != nil {
			s.contacts = s.contacts[:len(s.contacts)-1]
			return nil, fmt.Errorf("persisting contact: %w", err)
		}
		s.contacts[len(s.contacts)-1] = contact
	}
	s.mirrorInsert("contacts", contact, contact.ID)

	result := contact
	return &result, nil
}

// AddDeal creates a deal in a pipeline. An empty stage defaults to the
// pipeline's first stage; any other stage must exist in the pipeline.
func (s *Store) AddDeal(deal models.Deal) (*models.Deal, error) {
	if deal.Title == "" {
		return nil, fmt.Errorf("deal title is required")
	}
	if deal.Value < 0 {
		return nil, fmt.Errorf("deal value must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.companyIndex(deal.CompanyID) < 0 {
		return nil, fmt.Errorf("company %s: %w", deal.CompanyID, ErrNotFound)
	}
	pipeIdx := s.pipelineIndex(deal.PipelineID)
	if pipeIdx < 0 {
		return nil, fmt.Errorf("pipeline %s: %w", deal.PipelineID, ErrNotFound)
	}
	pipeline := &s.pipelines[pipeIdx]
	if deal.Stage == "" {
		if len(pipeline.Stages) == 0 {
			return nil, fmt.Errorf("pipeline %q has no stages", pipeline.Name)
		}
		deal.Stage = pipeline.Stages[0]
	} else if !pipeline.HasStage(deal.Stage) {
		return nil, fmt.Errorf("stage %q in pipeline %q: %w", deal.Stage, pipeline.Name, ErrUnknownStage)
	}
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	s.deals = append(s.deals, deal)

	if s.sqlDB != nil {
		if err := db.CreateDeal(s.sqlDB, &deal); err != nil {
			s.deals = s.deals[:len(s.deals)-1]
			return nil, fmt.Errorf("persisting deal: %w", err)
		}
		s.deals[len(s.deals)-1] = deal
	}
	s.mirrorInsert("deals", deal, deal.ID)

	result := deal
	return &result, nil
}

// Deal returns a deal by id.
func (s *Store) Deal(id uuid.UUID) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.dealIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	d := s.deals[idx]
	return &d, nil
}

// DealsForPipeline returns the pipeline's deals grouped per stage, in
// insertion order within each stage.
func (s *Store) DealsForPipeline(pipelineID uuid.UUID) map[string][]models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]models.Deal)
	for _, d := range s.deals {
		if d.PipelineID == pipelineID {
			grouped[d.Stage] = append(grouped[d.Stage], d)
		}
	}
	return grouped
}

// AddTask creates a follow-up task.
func (s *Store) AddTask(task models.Task) (*models.Task, error) {
	if task.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(task.Priority) {
		return nil, fmt.Errorf("invalid priority %q", task.Priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.RelatedType == "" {
		task.RelatedType = models.RelatedNone
	}
	s.tasks = append(s.tasks, task)

	if s.sqlDB != nil {
		if err := db.CreateTask(s.sqlDB, &task); err != nil {
			s.tasks = s.tasks[:len(s.tasks)-1]
			return nil, fmt.Errorf("persisting task: %w", err)
		}
		s.tasks[len(s.tasks)-1] = task
	}
	s.mirrorInsert("tasks", task, task.ID)

	result := task
	return &result, nil
}

// ToggleTask flips a task's completion flag and returns the new state.
func (s *Store) ToggleTask(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return false, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	task := &s.tasks[idx]
	task.IsCompleted = !task.IsCompleted

	if s.sqlDB != nil {
		if err := db.UpdateTask(s.sqlDB, task); err != nil {
			task.IsCompleted = !task.IsCompleted
			return false, fmt.Errorf("persisting task: %w", err)
		}
	}
	s.mirrorUpdate("tasks", map[string]interface{}{"is_completed": task.IsCompleted}, task.ID)
	return task.IsCompleted, nil
}

// PendingTasks returns incomplete tasks sorted the way they were added.
func (s *Store) PendingTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// TasksForCompany returns tasks linked to one company.
func (s *Store) TasksForCompany(companyID uuid.UUID) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.RelatedType == models.RelatedCompany && t.RelatedID != nil && *t.RelatedID == companyID {
			out = append(out, t)
		}
	}
	return out
}
