// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal and move_deal, the kanban surface for agents
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

type DealHandlers struct {
	store *store.Store
}

func NewDealHandlers(st *store.Store) *DealHandlers {
	return &DealHandlers{store: st}
}

type CreateDealInput struct {
	Title             string `json:"title" jsonschema:"Deal title (required)"`
	Value             int64  `json:"value,omitempty" jsonschema:"Deal value in PLN"`
	CompanyName       string `json:"company_name" jsonschema:"Company name (required, created if not found)"`
	PipelineID        string `json:"pipeline_id,omitempty" jsonschema:"Pipeline ID; defaults to the first pipeline"`
	Stage             string `json:"stage,omitempty" jsonschema:"Initial stage; defaults to the pipeline's first stage"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" jsonschema:"Expected close date as YYYY-MM-DD"`
	Owner             string `json:"owner,omitempty" jsonschema:"Deal owner name"`
}

type DealOutput struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Value             int64  `json:"value"`
	Stage             string `json:"stage"`
	CompanyID         string `json:"company_id"`
	PipelineID        string `json:"pipeline_id"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty"`
	Owner             string `json:"owner,omitempty"`
}

func dealToOutput(d *models.Deal) DealOutput {
	return DealOutput{
		ID:                d.ID.String(),
		Title:             d.Title,
		Value:             d.Value,
		Stage:             d.Stage,
		CompanyID:         d.CompanyID.String(),
		PipelineID:        d.PipelineID.String(),
		ExpectedCloseDate: d.ExpectedCloseDate,
		Owner:             d.Owner,
	}
}

func (h *DealHandlers) CreateDeal(_ context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Title == "" {
		return nil, DealOutput{}, fmt.Errorf("title is required")
	}
	if input.CompanyName == "" {
		return nil, DealOutput{}, fmt.Errorf("company_name is required")
	}

	// Company lookup, created when absent.
	var companyID uuid.UUID
	found := false
	for _, c := range h.store.SearchCompanies(input.CompanyName) {
		if c.Name == input.CompanyName {
			companyID = c.ID
			found = true
			break
		}
	}
	if !found {
		company, err := h.store.AddCompany(models.Company{Name: input.CompanyName})
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("failed to create company: %w", err)
		}
		companyID = company.ID
	}

	var pipelineID uuid.UUID
	if input.PipelineID != "" {
		id, err := uuid.Parse(input.PipelineID)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid pipeline_id: %w", err)
		}
		pipelineID = id
	} else {
		pipelines := h.store.Pipelines()
		if len(pipelines) == 0 {
			return nil, DealOutput{}, fmt.Errorf("no pipelines configured")
		}
		pipelineID = pipelines[0].ID
	}

	deal, err := h.store.AddDeal(models.Deal{
		CompanyID:         companyID,
		PipelineID:        pipelineID,
		Title:             input.Title,
		Value:             input.Value,
		Stage:             input.Stage,
		ExpectedCloseDate: input.ExpectedCloseDate,
		Owner:             input.Owner,
	})
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

type MoveDealInput struct {
	DealID string `json:"deal_id" jsonschema:"Deal ID (required)"`
	Stage  string `json:"stage" jsonschema:"Destination stage name (required)"`
}

type MoveDealOutput struct {
	Deal         DealOutput `json:"deal"`
	TasksCreated []string   `json:"tasks_created,omitempty"`
}

func (h *DealHandlers) MoveDeal(_ context.Context, request *mcp.CallToolRequest, input MoveDealInput) (*mcp.CallToolResult, MoveDealOutput, error) {
	if input.DealID == "" {
		return nil, MoveDealOutput{}, fmt.Errorf("deal_id is required")
	}
	if input.Stage == "" {
		return nil, MoveDealOutput{}, fmt.Errorf("stage is required")
	}
	dealID, err := uuid.Parse(input.DealID)
	if err != nil {
		return nil, MoveDealOutput{}, fmt.Errorf("invalid deal_id: %w", err)
	}

	created, err := h.store.MoveDeal(dealID, input.Stage)
	if err != nil {
		return nil, MoveDealOutput{}, fmt.Errorf("failed to move deal: %w", err)
	}
	deal, err := h.store.Deal(dealID)
	if err != nil {
		return nil, MoveDealOutput{}, fmt.Errorf("failed to reload deal: %w", err)
	}

	out := MoveDealOutput{Deal: dealToOutput(deal)}
	for _, t := range created {
		out.TasksCreated = append(out.TasksCreated, t.Title)
	}
	return nil, out, nil
}
