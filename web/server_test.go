// ABOUTME: HTTP-level tests for the web UI routes over a seeded store
package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	st := store.New(database)
	require.NoError(t, st.Load())

	srv, err := NewServer(st, nil, nil)
	require.NoError(t, err)
	return srv, st
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPagesRender(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	for _, path := range []string{"/", "/companies", "/contacts", "/kanban", "/tasks", "/reports", "/settings"} {
		rec := get(t, router, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Prospekt", path)
	}
}

func TestCompanyCreateAndDetail(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	rec := postForm(t, router, "/companies", url.Values{
		"name":     {"Nowa Firma"},
		"industry": {"Handel"},
		"status":   {"Active"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	companies := st.SearchCompanies("Nowa Firma")
	require.Len(t, companies, 1)

	rec = get(t, router, "/companies/"+companies[0].ID.String())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nowa Firma")
}

func TestCompanyUpdate(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	company := st.Companies()[0]
	rec := postForm(t, router, "/companies/"+company.ID.String(), url.Values{
		"name":     {"Zmieniona Nazwa"},
		"industry": {"Logistyka"},
		"status":   {"Inactive"},
		"owner":    {"Anna"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	updated, err := st.Company(company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zmieniona Nazwa", updated.Name)
	assert.Equal(t, "Logistyka", updated.Industry)
	assert.Equal(t, models.CompanyStatusInactive, updated.Status)
}

func TestKanbanMoveEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	deal := st.Deals()[0]
	pipeline := st.Pipelines()[0]
	target := pipeline.Stages[len(pipeline.Stages)-1]

	rec := postForm(t, router, "/kanban/move", url.Values{
		"deal_id": {deal.ID.String()},
		"stage":   {target},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	moved, err := st.Deal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, target, moved.Stage)
}

func TestKanbanMoveRejectsUnknownStage(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	deal := st.Deals()[0]
	rec := postForm(t, router, "/kanban/move", url.Values{
		"deal_id": {deal.ID.String()},
		"stage":   {"Nie istnieje"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskToggleEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	task := st.Tasks()[0]
	rec := postForm(t, router, "/tasks/"+task.ID.String()+"/toggle", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, got := range st.Tasks() {
		if got.ID == task.ID {
			assert.NotEqual(t, task.IsCompleted, got.IsCompleted)
		}
	}
}

func TestReportsJSON(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	rec := get(t, router, "/reports.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var data reportData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, len(st.Deals()), data.DealCount)
	assert.Len(t, data.Distribution, len(st.Pipelines()[0].Stages))
}

func TestReportsJSONOwnerFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := get(t, router, "/reports.json?owner=Marek")
	require.Equal(t, http.StatusOK, rec.Code)

	var data reportData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Greater(t, data.DealCount, 0)
}

func TestSettingsStageAdd(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	pipeline := st.Pipelines()[0]
	rec := postForm(t, router, "/settings/pipelines/"+pipeline.ID.String()+"/stages", url.Values{
		"name": {"Demo"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, st.Pipelines()[0].Stages, "Demo")

	// Duplicates are rejected with a client error.
	rec = postForm(t, router, "/settings/pipelines/"+pipeline.ID.String()+"/stages", url.Values{
		"name": {"Demo"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsFieldLifecycle(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	rec := postForm(t, router, "/settings/fields", url.Values{
		"label":   {"Źródło"},
		"type":    {models.FieldTypeSelect},
		"target":  {models.TargetCompany},
		"options": {"Polecenie, Strona WWW"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	fields := st.CustomFields()
	added := fields[len(fields)-1]
	assert.Equal(t, "Źródło", added.Label)
	assert.Equal(t, []string{"Polecenie", "Strona WWW"}, added.Options)

	rec = postForm(t, router, "/settings/fields/reorder", url.Values{
		"index":     {"0"},
		"direction": {"-1"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code, "boundary reorder is a silent no-op")

	rec = postForm(t, router, "/settings/fields/"+added.ID.String()+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, st.CustomFields(), len(fields)-1)
}

func TestInsightPanelShown(t *testing.T) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()
	st := store.New(database)
	require.NoError(t, st.Load())

	srv, err := NewServer(st, nil, func(r *http.Request, c models.Company, d []models.Deal, tasks []models.Task) string {
		return "Umów spotkanie w tym tygodniu."
	})
	require.NoError(t, err)

	company := st.Companies()[0]
	rec := get(t, srv.Router(), "/companies/"+company.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Umów spotkanie w tym tygodniu.")
}

func TestNotificationBell(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	today := time.Now().Format(models.DateFormat)
	_, err := st.AddTask(models.Task{Title: "Oddzwonić do księgowej", DueDate: today})
	require.NoError(t, err)

	rec := get(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Powiadomienia")
	assert.Contains(t, body, "Oddzwonić do księgowej")

	rec = get(t, router, "/partials/notifications")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dzisiaj")
	assert.Contains(t, rec.Body.String(), "Oddzwonić do księgowej")
}
