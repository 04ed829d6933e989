// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Company, Contact, Deal, Task, Pipeline, and CustomField structs
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the layout for user-facing date fields (due dates, close
// dates). They are kept as zero-padded ISO strings so range filters can
// compare them lexicographically.
const DateFormat = "2006-01-02"

type Company struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Industry     string       `json:"industry,omitempty"`
	Website      string       `json:"website,omitempty"`
	Status       string       `json:"status"`
	Owner        string       `json:"owner,omitempty"`
	CustomValues CustomValues `json:"custom_values,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Contact struct {
	ID           uuid.UUID    `json:"id"`
	CompanyID    *uuid.UUID   `json:"company_id,omitempty"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Role         string       `json:"role,omitempty"`
	Owner        string       `json:"owner,omitempty"`
	CustomValues CustomValues `json:"custom_values,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// FullName returns the display name for listings.
func (c *Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Deal struct {
	ID                uuid.UUID `json:"id"`
	CompanyID         uuid.UUID `json:"company_id"`
	PipelineID        uuid.UUID `json:"pipeline_id"`
	Title             string    `json:"title"`
	Value             int64     `json:"value"` // in PLN
	Stage             string    `json:"stage"`
	ExpectedCloseDate string    `json:"expected_close_date,omitempty"`
	Owner             string    `json:"owner,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	RelatedID   *uuid.UUID `json:"related_id,omitempty"`
	RelatedType string     `json:"related_type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AutomatedTaskTemplate generates a follow-up task when a deal enters the
// stage it is attached to. Title may embed a literal {deal} placeholder
// which is replaced with the deal title. DaysOffset is signed: negative
// means due before the transition day.
type AutomatedTaskTemplate struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	DaysOffset int       `json:"days_offset"`
	Priority   string    `json:"priority"`
}

type Pipeline struct {
	ID         uuid.UUID                          `json:"id"`
	Name       string                             `json:"name"`
	Stages     []string                           `json:"stages"`
	Automation map[string][]AutomatedTaskTemplate `json:"automation,omitempty"`
	CreatedAt  time.Time                          `json:"created_at"`
	UpdatedAt  time.Time                          `json:"updated_at"`
}

// StageIndex returns the position of a stage in the pipeline, or -1.
func (p *Pipeline) StageIndex(stage string) int {
	for i, s := range p.Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// HasStage reports whether the pipeline contains the named stage.
func (p *Pipeline) HasStage(stage string) bool {
	return p.StageIndex(stage) >= 0
}

type CustomField struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	Options   []string  `json:"options,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Company status constants.
const (
	CompanyStatusActive   = "Active"
	CompanyStatusProspect = "Prospect"
	CompanyStatusInactive = "Inactive"
)

// Task priority constants.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Stage names of the default pipeline. The board is user-configurable, so
// these are seeds and reporting anchors, not a closed set.
const (
	StageNew         = "Nowy"
	StageQualified   = "Kwalifikacja"
	StageProposal    = "Propozycja"
	StageNegotiation = "Negocjacje"
	StageWon         = "Pozyskany"
	StageLost        = "Utracony"
)

// DefaultStages returns the stage order of the pre-seeded pipeline.
func DefaultStages() []string {
	return []string{StageNew, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost}
}

// NewPipelineStages returns the stage set a freshly added pipeline starts
// with.
func NewPipelineStages() []string {
	return []string{"Nowy", "W kontakcie", "Zamknięty"}
}

// Custom field type constants.
const (
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
	FieldTypeSelect = "select"
)

// Custom field target constants.
const (
	TargetCompany = "company"
	TargetContact = "contact"
)

// Task related-record type constants.
const (
	RelatedCompany = "company"
	RelatedContact = "contact"
	RelatedDeal    = "deal"
	RelatedNone    = "none"
)

// IsValidPriority reports whether p is one of Low, Medium, High.
func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// IsValidCompanyStatus reports whether s is a known company status.
func IsValidCompanyStatus(s string) bool {
	return s == CompanyStatusActive || s == CompanyStatusProspect || s == CompanyStatusInactive
}
