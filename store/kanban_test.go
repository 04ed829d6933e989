// ABOUTME: Tests for deal stage transitions and automated task synthesis
package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarcz/prospekt/models"
)

func seedDealForKanban(t *testing.T, s *Store) (*models.Deal, models.Pipeline) {
	t.Helper()
	pipeline := s.Pipelines()[0]
	company, err := s.AddCompany(models.Company{Name: "Testowa Firma"})
	require.NoError(t, err)
	deal, err := s.AddDeal(models.Deal{
		CompanyID:  company.ID,
		PipelineID: pipeline.ID,
		Title:      "Wdrożenie systemu",
		Value:      50000,
	})
	require.NoError(t, err)
	require.Equal(t, pipeline.Stages[0], deal.Stage, "new deal lands in the first stage")
	return deal, pipeline
}

func TestMoveDeal(t *testing.T) {
	s := newTestStore(t)
	deal, pipeline := seedDealForKanban(t, s)

	created, err := s.MoveDeal(deal.ID, pipeline.Stages[1])
	require.NoError(t, err)
	assert.Empty(t, created, "stage without automation creates no tasks")

	moved, err := s.Deal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Stages[1], moved.Stage)
}

func TestMoveDealSameStageIsNoop(t *testing.T) {
	s := newTestStore(t)
	deal, _ := seedDealForKanban(t, s)

	before := len(s.Tasks())
	created, err := s.MoveDeal(deal.ID, deal.Stage)
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Len(t, s.Tasks(), before, "a no-op move must not fire automation")
}

func TestMoveDealUnknownStage(t *testing.T) {
	s := newTestStore(t)
	deal, _ := seedDealForKanban(t, s)

	_, err := s.MoveDeal(deal.ID, "Nie ma takiego etapu")
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestMoveDealNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.MoveDeal(uuid.New(), models.StageWon)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveDealFiresAutomation(t *testing.T) {
	s := newTestStore(t)
	deal, pipeline := seedDealForKanban(t, s)

	target := pipeline.Stages[2]
	templates := []models.AutomatedTaskTemplate{
		{Title: "Przygotuj ofertę dla {deal}", DaysOffset: 3, Priority: models.PriorityHigh},
		{Title: "Telefon kontrolny", DaysOffset: -1, Priority: models.PriorityLow},
	}
	require.NoError(t, s.UpdateAutomation(pipeline.ID, target, templates))

	created, err := s.MoveDeal(deal.ID, target)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, "Przygotuj ofertę dla Wdrożenie systemu", created[0].Title,
		"{deal} expands to the deal title")
	assert.Contains(t, created[0].Description, `"Wdrożenie systemu"`)
	assert.Contains(t, created[0].Description, fmt.Sprintf("%q", target),
		"description says which stage the deal entered")
	assert.Equal(t, testNow.AddDate(0, 0, 3).Format(models.DateFormat), created[0].DueDate)
	assert.Equal(t, models.PriorityHigh, created[0].Priority)

	assert.Equal(t, "Telefon kontrolny", created[1].Title)
	assert.Equal(t, testNow.AddDate(0, 0, -1).Format(models.DateFormat), created[1].DueDate,
		"negative offsets land before today")

	for _, task := range created {
		require.NotNil(t, task.RelatedID)
		assert.Equal(t, deal.CompanyID, *task.RelatedID, "tasks link to the deal's company")
		assert.Equal(t, models.RelatedCompany, task.RelatedType)
		assert.False(t, task.IsCompleted)
	}

	// Tasks are visible on the company card afterwards.
	assert.Len(t, s.TasksForCompany(deal.CompanyID), 2)
}

func TestMoveDealAutomationOnlyOnEntry(t *testing.T) {
	s := newTestStore(t)
	deal, pipeline := seedDealForKanban(t, s)

	target := pipeline.Stages[1]
	require.NoError(t, s.UpdateAutomation(pipeline.ID, target, []models.AutomatedTaskTemplate{
		{Title: "Kwalifikacja {deal}", DaysOffset: 0, Priority: models.PriorityMedium},
	}))

	first, err := s.MoveDeal(deal.ID, target)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Leaving and re-entering fires the rules again; each entry is an event.
	_, err = s.MoveDeal(deal.ID, pipeline.Stages[0])
	require.NoError(t, err)
	second, err := s.MoveDeal(deal.ID, target)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestMoveDealDueDateUsesClock(t *testing.T) {
	now := time.Date(2026, 12, 30, 23, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return now }))
	deal, pipeline := seedDealForKanban(t, s)

	target := pipeline.Stages[1]
	require.NoError(t, s.UpdateAutomation(pipeline.ID, target, []models.AutomatedTaskTemplate{
		{Title: "Za tydzień", DaysOffset: 7, Priority: models.PriorityMedium},
	}))

	created, err := s.MoveDeal(deal.ID, target)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "2027-01-06", created[0].DueDate, "offset crosses the year boundary")
}
