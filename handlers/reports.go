// ABOUTME: Reporting MCP tool handler
// ABOUTME: Implements crm_report with the same filters the web reports page uses
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/reports"
	"github.com/mkarcz/prospekt/store"
)

type ReportHandlers struct {
	store *store.Store
}

func NewReportHandlers(st *store.Store) *ReportHandlers {
	return &ReportHandlers{store: st}
}

type CRMReportInput struct {
	PipelineID string `json:"pipeline_id,omitempty" jsonschema:"Restrict to one pipeline"`
	Owner      string `json:"owner,omitempty" jsonschema:"Restrict to one owner (exact match)"`
	From       string `json:"from,omitempty" jsonschema:"Expected close date lower bound, YYYY-MM-DD inclusive"`
	To         string `json:"to,omitempty" jsonschema:"Expected close date upper bound, YYYY-MM-DD inclusive"`
	Industry   string `json:"industry,omitempty" jsonschema:"Restrict to companies in one industry"`
}

type CRMReportOutput struct {
	TotalSales     int64                 `json:"total_sales"`
	WonCount       int                   `json:"won_count"`
	AvgValue       int64                 `json:"avg_value"`
	ActivePipeline int64                 `json:"active_pipeline"`
	DealCount      int                   `json:"deal_count"`
	Distribution   []reports.StageMetric `json:"distribution,omitempty"`
}

func (h *ReportHandlers) CRMReport(_ context.Context, request *mcp.CallToolRequest, input CRMReportInput) (*mcp.CallToolResult, CRMReportOutput, error) {
	filter := reports.Filter{
		Owner:    input.Owner,
		From:     input.From,
		To:       input.To,
		Industry: input.Industry,
	}
	if input.PipelineID != "" {
		id, err := uuid.Parse(input.PipelineID)
		if err != nil {
			return nil, CRMReportOutput{}, fmt.Errorf("invalid pipeline_id: %w", err)
		}
		filter.PipelineID = id
	}

	filtered := filter.Apply(h.store.Deals(), h.store.Companies())
	kpi := reports.ComputeKPI(filtered)

	out := CRMReportOutput{
		TotalSales:     kpi.TotalSales,
		WonCount:       kpi.WonCount,
		AvgValue:       kpi.AvgValue,
		ActivePipeline: kpi.ActivePipeline,
		DealCount:      len(filtered),
	}

	pipelines := h.store.Pipelines()
	for _, p := range pipelines {
		if p.ID == filter.PipelineID {
			out.Distribution = reports.StageDistribution(p, filtered)
			break
		}
	}
	if out.Distribution == nil && filter.PipelineID == uuid.Nil && len(pipelines) > 0 {
		out.Distribution = reports.StageDistribution(pipelines[0], filtered)
	}
	return nil, out, nil
}
