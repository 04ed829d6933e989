// ABOUTME: Kanban board page and the stage-move endpoint, plus quick deal add
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

func (s *Server) handleKanban(w http.ResponseWriter, r *http.Request) {
	pipelines := s.store.Pipelines()
	if len(pipelines) == 0 {
		s.page(w, "kanban-content", "Tablica", map[string]interface{}{})
		return
	}

	active := pipelines[0]
	if raw := r.URL.Query().Get("pipeline"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid pipeline", http.StatusBadRequest)
			return
		}
		for _, p := range pipelines {
			if p.ID == id {
				active = p
				break
			}
		}
	}

	grouped := s.store.DealsForPipeline(active.ID)
	companyNames := make(map[uuid.UUID]string)
	for _, c := range s.store.Companies() {
		companyNames[c.ID] = c.Name
	}

	type cardView struct {
		ID          string
		Title       string
		Value       int64
		Owner       string
		CompanyName string
	}
	type columnView struct {
		Stage  string
		Cards  []cardView
		Stages []string
	}

	columns := make([]columnView, 0, len(active.Stages))
	for _, stage := range active.Stages {
		col := columnView{Stage: stage, Stages: active.Stages}
		for _, d := range grouped[stage] {
			col.Cards = append(col.Cards, cardView{
				ID:          d.ID.String(),
				Title:       d.Title,
				Value:       d.Value,
				Owner:       d.Owner,
				CompanyName: companyNames[d.CompanyID],
			})
		}
		columns = append(columns, col)
	}

	s.page(w, "kanban-content", "Tablica", map[string]interface{}{
		"Pipelines": pipelines,
		"Active":    active,
		"Columns":   columns,
		"Companies": s.store.Companies(),
	})
}

func (s *Server) handleKanbanMove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	dealID, ok := s.parseID(w, r.FormValue("deal_id"))
	if !ok {
		return
	}
	stage := r.FormValue("stage")

	if _, err := s.store.MoveDeal(dealID, stage); err != nil {
		status := http.StatusBadRequest
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.redirectBack(w, r, "/kanban")
}

func (s *Server) handleDealCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	companyID, ok := s.parseID(w, r.FormValue("company_id"))
	if !ok {
		return
	}
	pipelineID, ok := s.parseID(w, r.FormValue("pipeline_id"))
	if !ok {
		return
	}
	value, err := strconv.ParseInt(r.FormValue("value"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}

	deal := models.Deal{
		CompanyID:         companyID,
		PipelineID:        pipelineID,
		Title:             r.FormValue("title"),
		Value:             value,
		Stage:             r.FormValue("stage"),
		ExpectedCloseDate: r.FormValue("expected_close_date"),
		Owner:             r.FormValue("owner"),
	}
	if _, err := s.store.AddDeal(deal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.redirectBack(w, r, "/kanban")
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
