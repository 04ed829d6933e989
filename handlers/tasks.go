// ABOUTME: Task and custom field MCP tool handlers
// ABOUTME: Implements list_tasks, complete_task, and add_custom_field tools
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

type TaskHandlers struct {
	store *store.Store
}

func NewTaskHandlers(st *store.Store) *TaskHandlers {
	return &TaskHandlers{store: st}
}

type ListTasksInput struct {
	IncludeCompleted bool `json:"include_completed,omitempty" jsonschema:"Include completed tasks"`
}

type TaskOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority"`
	IsCompleted bool   `json:"is_completed"`
	RelatedID   string `json:"related_id,omitempty"`
}

type ListTasksOutput struct {
	Tasks []TaskOutput `json:"tasks"`
	Count int          `json:"count"`
}

func (h *TaskHandlers) ListTasks(_ context.Context, request *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, ListTasksOutput, error) {
	var out ListTasksOutput
	for _, t := range h.store.Tasks() {
		if !input.IncludeCompleted && t.IsCompleted {
			continue
		}
		task := TaskOutput{
			ID:          t.ID.String(),
			Title:       t.Title,
			DueDate:     t.DueDate,
			Priority:    t.Priority,
			IsCompleted: t.IsCompleted,
		}
		if t.RelatedID != nil {
			task.RelatedID = t.RelatedID.String()
		}
		out.Tasks = append(out.Tasks, task)
	}
	out.Count = len(out.Tasks)
	return nil, out, nil
}

type CompleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"Task ID (required)"`
}

type CompleteTaskOutput struct {
	TaskID      string `json:"task_id"`
	IsCompleted bool   `json:"is_completed"`
}

func (h *TaskHandlers) CompleteTask(_ context.Context, request *mcp.CallToolRequest, input CompleteTaskInput) (*mcp.CallToolResult, CompleteTaskOutput, error) {
	if input.TaskID == "" {
		return nil, CompleteTaskOutput{}, fmt.Errorf("task_id is required")
	}
	taskID, err := uuid.Parse(input.TaskID)
	if err != nil {
		return nil, CompleteTaskOutput{}, fmt.Errorf("invalid task_id: %w", err)
	}

	done, err := h.store.ToggleTask(taskID)
	if err != nil {
		return nil, CompleteTaskOutput{}, fmt.Errorf("failed to toggle task: %w", err)
	}
	return nil, CompleteTaskOutput{TaskID: input.TaskID, IsCompleted: done}, nil
}

type AddCustomFieldInput struct {
	Label   string   `json:"label" jsonschema:"Field label (required)"`
	Type    string   `json:"type" jsonschema:"Field type: text, number, date, select"`
	Target  string   `json:"target" jsonschema:"Entity the field extends: company or contact"`
	Options []string `json:"options,omitempty" jsonschema:"Options for select fields"`
}

type AddCustomFieldOutput struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Position int    `json:"position"`
}

func (h *TaskHandlers) AddCustomField(_ context.Context, request *mcp.CallToolRequest, input AddCustomFieldInput) (*mcp.CallToolResult, AddCustomFieldOutput, error) {
	field, err := h.store.AddField(models.CustomField{
		Label:   input.Label,
		Type:    input.Type,
		Target:  input.Target,
		Options: input.Options,
	})
	if err != nil {
		return nil, AddCustomFieldOutput{}, fmt.Errorf("failed to add custom field: %w", err)
	}
	return nil, AddCustomFieldOutput{ID: field.ID.String(), Label: field.Label, Position: field.Position}, nil
}
