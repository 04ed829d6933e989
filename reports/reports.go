// ABOUTME: Derived sales reporting: KPIs, per-stage distribution, AND-composed filters
// ABOUTME: Pure functions over deal snapshots, recomputed per request, no caching
package reports

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
)

// KPI is the headline numbers block. Won and lost stages are recognized
// by name, matching the labels the default pipeline ships with; deals in
// any other stage count toward the active pipeline value.
type KPI struct {
	TotalSales     int64 `json:"total_sales"`
	WonCount       int   `json:"won_count"`
	AvgValue       int64 `json:"avg_value"`
	ActivePipeline int64 `json:"active_pipeline"`
}

// StageMetric is one column of the per-stage distribution.
type StageMetric struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
	Value int64  `json:"value"`
}

// Filter narrows the deal set. Zero values mean no restriction; set
// filters compose with AND. From and To compare lexicographically
// against the deal's expected close date, which is stored as zero-padded
// ISO YYYY-MM-DD, and both bounds are inclusive.
type Filter struct {
	PipelineID uuid.UUID
	Owner      string
	From       string
	To         string
	Industry   string
}

// Apply returns the deals passing every set filter clause. The industry
// clause joins through the deal's company, so it needs the company list.
func (f Filter) Apply(deals []models.Deal, companies []models.Company) []models.Deal {
	var industryByCompany map[uuid.UUID]string
	if f.Industry != "" {
		industryByCompany = make(map[uuid.UUID]string, len(companies))
		for _, c := range companies {
			industryByCompany[c.ID] = c.Industry
		}
	}

	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if f.PipelineID != uuid.Nil && d.PipelineID != f.PipelineID {
			continue
		}
		if f.Owner != "" && d.Owner != f.Owner {
			continue
		}
		if f.From != "" && d.ExpectedCloseDate < f.From {
			continue
		}
		if f.To != "" && (d.ExpectedCloseDate == "" || d.ExpectedCloseDate > f.To) {
			continue
		}
		if f.Industry != "" && !strings.EqualFold(industryByCompany[d.CompanyID], f.Industry) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ComputeKPI aggregates the headline numbers over a deal set.
func ComputeKPI(deals []models.Deal) KPI {
	var kpi KPI
	for _, d := range deals {
		switch d.Stage {
		case models.StageWon:
			kpi.TotalSales += d.Value
			kpi.WonCount++
		case models.StageLost:
			// excluded from every aggregate
		default:
			kpi.ActivePipeline += d.Value
		}
	}
	if kpi.WonCount > 0 {
		kpi.AvgValue = kpi.TotalSales / int64(kpi.WonCount)
	}
	return kpi
}

// StageDistribution returns count and summed value per stage, in the
// pipeline's stage order. Stages with no deals appear with zeros; deals
// whose stage is no longer in the pipeline are skipped.
func StageDistribution(pipeline models.Pipeline, deals []models.Deal) []StageMetric {
	metrics := make([]StageMetric, len(pipeline.Stages))
	index := make(map[string]int, len(pipeline.Stages))
	for i, stage := range pipeline.Stages {
		metrics[i] = StageMetric{Stage: stage}
		index[stage] = i
	}
	for _, d := range deals {
		if d.PipelineID != pipeline.ID {
			continue
		}
		i, ok := index[d.Stage]
		if !ok {
			continue
		}
		metrics[i].Count++
		metrics[i].Value += d.Value
	}
	return metrics
}

// Owners returns the distinct deal owners, for filter dropdowns.
func Owners(deals []models.Deal) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range deals {
		if d.Owner == "" {
			continue
		}
		if _, ok := seen[d.Owner]; ok {
			continue
		}
		seen[d.Owner] = struct{}{}
		out = append(out, d.Owner)
	}
	return out
}

// Industries returns the distinct company industries, for filter dropdowns.
func Industries(companies []models.Company) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range companies {
		if c.Industry == "" {
			continue
		}
		if _, ok := seen[c.Industry]; ok {
			continue
		}
		seen[c.Industry] = struct{}{}
		out = append(out, c.Industry)
	}
	return out
}
