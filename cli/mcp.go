// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the CRM over stdio for assistant integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/handlers"
	"github.com/mkarcz/prospekt/insights"
	"github.com/mkarcz/prospekt/store"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(st *store.Store, advisor *insights.Advisor) error {
	log.Println("Starting Prospekt MCP server...")

	// Create handlers
	companyHandlers := handlers.NewCompanyHandlers(st, advisor)
	contactHandlers := handlers.NewContactHandlers(st)
	dealHandlers := handlers.NewDealHandlers(st)
	pipelineHandlers := handlers.NewPipelineHandlers(st)
	taskHandlers := handlers.NewTaskHandlers(st)
	reportHandlers := handlers.NewReportHandlers(st)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "prospekt",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_company",
		Description: "Add a new company to the CRM",
	}, companyHandlers.AddCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_companies",
		Description: "Search for companies by name, industry, or city",
	}, companyHandlers.FindCompanies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "company_insights",
		Description: "Generate an AI briefing for a company from its deals and open tasks",
	}, companyHandlers.CompanyInsights)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or position",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a new deal, creating the company first when it does not exist",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal",
		Description: "Move a deal to another stage, firing configured stage automations",
	}, dealHandlers.MoveDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pipelines",
		Description: "List pipelines with their stage sequences and automations",
	}, pipelineHandlers.ListPipelines)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "configure_stage_automation",
		Description: "Replace the automated task templates fired when a deal enters a stage",
	}, pipelineHandlers.ConfigureStageAutomation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List follow-up tasks, pending by default",
	}, taskHandlers.ListTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a follow-up task as completed",
	}, taskHandlers.CompleteTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_custom_field",
		Description: "Add a custom field definition for companies or contacts",
	}, taskHandlers.AddCustomField)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "crm_report",
		Description: "Compute sales KPIs and stage distribution over a filtered deal set",
	}, reportHandlers.CRMReport)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
