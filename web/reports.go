// ABOUTME: Reports page and JSON endpoint: KPIs, stage distribution, filters
package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/reports"
)

type reportData struct {
	KPI          reports.KPI           `json:"kpi"`
	Distribution []reports.StageMetric `json:"distribution"`
	DealCount    int                   `json:"deal_count"`
}

// buildReport assembles the filtered aggregates. The distribution always
// follows the active pipeline's stage order; when no pipeline filter is
// set the first pipeline is the active one.
func (s *Server) buildReport(r *http.Request) (reportData, reports.Filter, error) {
	q := r.URL.Query()
	filter := reports.Filter{
		Owner:    q.Get("owner"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Industry: q.Get("industry"),
	}
	if raw := q.Get("pipeline"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return reportData{}, filter, err
		}
		filter.PipelineID = id
	}

	deals := s.store.Deals()
	companies := s.store.Companies()
	filtered := filter.Apply(deals, companies)

	var active *models.Pipeline
	pipelines := s.store.Pipelines()
	for i := range pipelines {
		if pipelines[i].ID == filter.PipelineID {
			active = &pipelines[i]
			break
		}
	}
	if active == nil && len(pipelines) > 0 {
		active = &pipelines[0]
	}

	data := reportData{
		KPI:       reports.ComputeKPI(filtered),
		DealCount: len(filtered),
	}
	if active != nil {
		data.Distribution = reports.StageDistribution(*active, filtered)
	}
	return data, filter, nil
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	data, filter, err := s.buildReport(r)
	if err != nil {
		http.Error(w, "Invalid pipeline", http.StatusBadRequest)
		return
	}

	s.page(w, "reports-content", "Raporty", map[string]interface{}{
		"Report":     data,
		"Filter":     filter,
		"Pipelines":  s.store.Pipelines(),
		"Owners":     reports.Owners(s.store.Deals()),
		"Industries": reports.Industries(s.store.Companies()),
	})
}

func (s *Server) handleReportsJSON(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.buildReport(r)
	if err != nil {
		http.Error(w, "Invalid pipeline", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding report", zap.Error(err))
	}
}
