// ABOUTME: Tests for the MCP tool handlers over a seeded store
package handlers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/insights"
	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	st := store.New(database)
	require.NoError(t, st.Load())
	return st
}

func TestAddCompany(t *testing.T) {
	st := setupTestStore(t)
	h := NewCompanyHandlers(st, nil)

	_, out, err := h.AddCompany(context.Background(), nil, AddCompanyInput{
		Name:     "Drukarnia Kolor",
		Industry: "Poligrafia",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, models.CompanyStatusProspect, out.Status, "status defaults to Prospect")

	_, _, err = h.AddCompany(context.Background(), nil, AddCompanyInput{})
	assert.Error(t, err, "name is required")
}

func TestFindCompanies(t *testing.T) {
	st := setupTestStore(t)
	h := NewCompanyHandlers(st, nil)

	_, out, err := h.FindCompanies(context.Background(), nil, FindCompaniesInput{Query: "tech"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)

	_, all, err := h.FindCompanies(context.Background(), nil, FindCompaniesInput{})
	require.NoError(t, err)
	assert.Equal(t, len(st.Companies()), all.Count)
}

func TestCreateDealAutoCreatesCompany(t *testing.T) {
	st := setupTestStore(t)
	h := NewDealHandlers(st)

	before := len(st.Companies())
	_, out, err := h.CreateDeal(context.Background(), nil, CreateDealInput{
		Title:       "Nowy kontrakt",
		Value:       30000,
		CompanyName: "Zupełnie Nowa Firma",
	})
	require.NoError(t, err)
	assert.Len(t, st.Companies(), before+1)
	assert.Equal(t, st.Pipelines()[0].Stages[0], out.Stage, "defaults to the first stage")
}

func TestMoveDealTool(t *testing.T) {
	st := setupTestStore(t)
	pipeline := st.Pipelines()[0]
	require.NoError(t, st.UpdateAutomation(pipeline.ID, models.StageWon, []models.AutomatedTaskTemplate{
		{Title: "Umowa dla {deal}", DaysOffset: 1, Priority: models.PriorityHigh},
	}))

	h := NewDealHandlers(st)
	deal := st.Deals()[0]

	_, out, err := h.MoveDeal(context.Background(), nil, MoveDealInput{
		DealID: deal.ID.String(),
		Stage:  models.StageWon,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageWon, out.Deal.Stage)
	require.Len(t, out.TasksCreated, 1)
	assert.Equal(t, "Umowa dla "+deal.Title, out.TasksCreated[0])

	_, _, err = h.MoveDeal(context.Background(), nil, MoveDealInput{
		DealID: deal.ID.String(),
		Stage:  "Nie istnieje",
	})
	assert.Error(t, err)
}

func TestConfigureStageAutomation(t *testing.T) {
	st := setupTestStore(t)
	h := NewPipelineHandlers(st)
	pipeline := st.Pipelines()[0]

	_, out, err := h.ConfigureStageAutomation(context.Background(), nil, ConfigureAutomationInput{
		PipelineID: pipeline.ID.String(),
		Stage:      pipeline.Stages[1],
		Templates: []AutomationTemplateInput{
			{Title: "Follow up po {deal}", DaysOffset: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TemplateCount)

	got := st.Pipelines()[0].Automation[pipeline.Stages[1]]
	require.Len(t, got, 1)
	assert.Equal(t, models.PriorityMedium, got[0].Priority, "priority defaults to Medium")
}

func TestListPipelines(t *testing.T) {
	st := setupTestStore(t)
	h := NewPipelineHandlers(st)

	_, out, err := h.ListPipelines(context.Background(), nil, ListPipelinesInput{})
	require.NoError(t, err)
	require.Len(t, out.Pipelines, 1)
	assert.Equal(t, models.DefaultStages(), out.Pipelines[0].Stages)
}

func TestCompleteTask(t *testing.T) {
	st := setupTestStore(t)
	h := NewTaskHandlers(st)
	task := st.Tasks()[0]

	_, out, err := h.CompleteTask(context.Background(), nil, CompleteTaskInput{TaskID: task.ID.String()})
	require.NoError(t, err)
	assert.NotEqual(t, task.IsCompleted, out.IsCompleted)
}

func TestListTasksFiltersCompleted(t *testing.T) {
	st := setupTestStore(t)
	h := NewTaskHandlers(st)
	task := st.Tasks()[0]
	_, err := st.ToggleTask(task.ID)
	require.NoError(t, err)

	_, open, err := h.ListTasks(context.Background(), nil, ListTasksInput{})
	require.NoError(t, err)
	_, all, err := h.ListTasks(context.Background(), nil, ListTasksInput{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Less(t, open.Count, all.Count)
}

func TestAddCustomFieldTool(t *testing.T) {
	st := setupTestStore(t)
	h := NewTaskHandlers(st)

	_, out, err := h.AddCustomField(context.Background(), nil, AddCustomFieldInput{
		Label:  "NIP",
		Type:   models.FieldTypeText,
		Target: models.TargetCompany,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)

	_, _, err = h.AddCustomField(context.Background(), nil, AddCustomFieldInput{
		Label:  "Źródło",
		Type:   models.FieldTypeSelect,
		Target: models.TargetCompany,
	})
	assert.Error(t, err, "select without options is rejected")
}

func TestCRMReport(t *testing.T) {
	st := setupTestStore(t)
	h := NewReportHandlers(st)

	_, out, err := h.CRMReport(context.Background(), nil, CRMReportInput{})
	require.NoError(t, err)
	assert.Equal(t, len(st.Deals()), out.DealCount)
	assert.Len(t, out.Distribution, len(st.Pipelines()[0].Stages))

	_, filtered, err := h.CRMReport(context.Background(), nil, CRMReportInput{Owner: "Anna"})
	require.NoError(t, err)
	assert.Less(t, filtered.DealCount, out.DealCount)
}

func TestCompanyInsightsWithoutAdvisor(t *testing.T) {
	st := setupTestStore(t)
	h := NewCompanyHandlers(st, insights.NewAdvisor(nil, nil))
	company := st.Companies()[0]

	_, out, err := h.CompanyInsights(context.Background(), nil, CompanyInsightsInput{CompanyID: company.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, insights.NoticeNoKey, out.Insight)
}
