// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements add_company, find_companies, and company_insights tools
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/insights"
	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

type CompanyHandlers struct {
	store   *store.Store
	advisor *insights.Advisor
}

func NewCompanyHandlers(st *store.Store, advisor *insights.Advisor) *CompanyHandlers {
	return &CompanyHandlers{store: st, advisor: advisor}
}

type AddCompanyInput struct {
	Name     string `json:"name" jsonschema:"Company name (required)"`
	Industry string `json:"industry,omitempty" jsonschema:"Industry, e.g. IT or Budownictwo"`
	Website  string `json:"website,omitempty" jsonschema:"Company website"`
	Status   string `json:"status,omitempty" jsonschema:"Company status: Active, Prospect, Inactive (default Prospect)"`
	Owner    string `json:"owner,omitempty" jsonschema:"Account owner name"`
}

type CompanyOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
	Status   string `json:"status"`
	Owner    string `json:"owner,omitempty"`
}

func companyToOutput(c *models.Company) CompanyOutput {
	return CompanyOutput{
		ID:       c.ID.String(),
		Name:     c.Name,
		Industry: c.Industry,
		Website:  c.Website,
		Status:   c.Status,
		Owner:    c.Owner,
	}
}

func (h *CompanyHandlers) AddCompany(_ context.Context, request *mcp.CallToolRequest, input AddCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	if input.Name == "" {
		return nil, CompanyOutput{}, fmt.Errorf("name is required")
	}

	company, err := h.store.AddCompany(models.Company{
		Name:     input.Name,
		Industry: input.Industry,
		Website:  input.Website,
		Status:   input.Status,
		Owner:    input.Owner,
	})
	if err != nil {
		return nil, CompanyOutput{}, fmt.Errorf("failed to add company: %w", err)
	}
	return nil, companyToOutput(company), nil
}

type FindCompaniesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name or industry substring; empty returns all"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
	Count     int             `json:"count"`
}

func (h *CompanyHandlers) FindCompanies(_ context.Context, request *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	companies := h.store.SearchCompanies(input.Query)
	out := FindCompaniesOutput{Count: len(companies)}
	for i := range companies {
		out.Companies = append(out.Companies, companyToOutput(&companies[i]))
	}
	return nil, out, nil
}

type CompanyInsightsInput struct {
	CompanyID string `json:"company_id" jsonschema:"Company ID (required)"`
}

type CompanyInsightsOutput struct {
	Company string `json:"company"`
	Insight string `json:"insight"`
}

func (h *CompanyHandlers) CompanyInsights(ctx context.Context, request *mcp.CallToolRequest, input CompanyInsightsInput) (*mcp.CallToolResult, CompanyInsightsOutput, error) {
	if input.CompanyID == "" {
		return nil, CompanyInsightsOutput{}, fmt.Errorf("company_id is required")
	}
	id, err := uuid.Parse(input.CompanyID)
	if err != nil {
		return nil, CompanyInsightsOutput{}, fmt.Errorf("invalid company_id: %w", err)
	}
	company, err := h.store.Company(id)
	if err != nil {
		return nil, CompanyInsightsOutput{}, fmt.Errorf("failed to get company: %w", err)
	}

	var deals []models.Deal
	for _, d := range h.store.Deals() {
		if d.CompanyID == id {
			deals = append(deals, d)
		}
	}

	insight := insights.NoticeNoKey
	if h.advisor != nil {
		insight = h.advisor.CompanyBriefing(ctx, *company, deals, h.store.TasksForCompany(id))
	}

	return nil, CompanyInsightsOutput{Company: company.Name, Insight: insight}, nil
}
