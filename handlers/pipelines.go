// ABOUTME: Pipeline MCP tool handlers
// ABOUTME: Implements list_pipelines and configure_stage_automation tools
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

type PipelineHandlers struct {
	store *store.Store
}

func NewPipelineHandlers(st *store.Store) *PipelineHandlers {
	return &PipelineHandlers{store: st}
}

type PipelineOutput struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Stages []string `json:"stages"`
}

type ListPipelinesInput struct{}

type ListPipelinesOutput struct {
	Pipelines []PipelineOutput `json:"pipelines"`
}

func (h *PipelineHandlers) ListPipelines(_ context.Context, request *mcp.CallToolRequest, input ListPipelinesInput) (*mcp.CallToolResult, ListPipelinesOutput, error) {
	var out ListPipelinesOutput
	for _, p := range h.store.Pipelines() {
		out.Pipelines = append(out.Pipelines, PipelineOutput{
			ID:     p.ID.String(),
			Name:   p.Name,
			Stages: p.Stages,
		})
	}
	return nil, out, nil
}

type AutomationTemplateInput struct {
	Title      string `json:"title" jsonschema:"Task title; {deal} expands to the deal title"`
	DaysOffset int    `json:"days_offset" jsonschema:"Due date offset in days from the move; may be negative"`
	Priority   string `json:"priority,omitempty" jsonschema:"Task priority: Low, Medium, High (default Medium)"`
}

type ConfigureAutomationInput struct {
	PipelineID string                    `json:"pipeline_id" jsonschema:"Pipeline ID (required)"`
	Stage      string                    `json:"stage" jsonschema:"Stage name (required)"`
	Templates  []AutomationTemplateInput `json:"templates" jsonschema:"Replacement template list; empty clears automation"`
}

type ConfigureAutomationOutput struct {
	Stage         string `json:"stage"`
	TemplateCount int    `json:"template_count"`
}

func (h *PipelineHandlers) ConfigureStageAutomation(_ context.Context, request *mcp.CallToolRequest, input ConfigureAutomationInput) (*mcp.CallToolResult, ConfigureAutomationOutput, error) {
	if input.PipelineID == "" {
		return nil, ConfigureAutomationOutput{}, fmt.Errorf("pipeline_id is required")
	}
	if input.Stage == "" {
		return nil, ConfigureAutomationOutput{}, fmt.Errorf("stage is required")
	}
	pipelineID, err := uuid.Parse(input.PipelineID)
	if err != nil {
		return nil, ConfigureAutomationOutput{}, fmt.Errorf("invalid pipeline_id: %w", err)
	}

	var templates []models.AutomatedTaskTemplate
	for _, t := range input.Templates {
		priority := t.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		templates = append(templates, models.AutomatedTaskTemplate{
			Title:      t.Title,
			DaysOffset: t.DaysOffset,
			Priority:   priority,
		})
	}

	if err := h.store.UpdateAutomation(pipelineID, input.Stage, templates); err != nil {
		return nil, ConfigureAutomationOutput{}, fmt.Errorf("failed to configure automation: %w", err)
	}
	return nil, ConfigureAutomationOutput{Stage: input.Stage, TemplateCount: len(templates)}, nil
}
