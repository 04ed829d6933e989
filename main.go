// ABOUTME: Entry point for the Prospekt CRM: web UI, MCP server and CLI
// ABOUTME: Routes to subcommands based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mkarcz/prospekt/auth"
	"github.com/mkarcz/prospekt/cli"
	"github.com/mkarcz/prospekt/config"
	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/insights"
	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/remote"
	"github.com/mkarcz/prospekt/store"
	"github.com/mkarcz/prospekt/web"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file path (default: ~/.config/prospekt/config.yaml)")
	dbPath := flag.String("db-path", "", "Database path (overrides config)")
	httpAddr := flag.String("addr", "", "HTTP listen address (overrides config)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("prospekt version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	if *initOnly {
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		database.Close()
		log.Printf("Database initialized: %s", cfg.DBPath)
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		logger := newLogger(cfg.LogLevel)
		defer logger.Sync()

		st, closeDB := openStore(cfg, logger)
		defer closeDB()

		advisor := newAdvisor(cfg, logger)
		briefing := func(r *http.Request, company models.Company, deals []models.Deal, tasks []models.Task) string {
			return advisor.CompanyBriefing(r.Context(), company, deals, tasks)
		}

		server, err := web.NewServer(st, logger, briefing)
		if err != nil {
			log.Fatalf("Failed to create web server: %v", err)
		}
		if err := server.Start(cfg.HTTPAddr); err != nil {
			log.Fatalf("Web server failed: %v", err)
		}

	case "mcp":
		// Stdout belongs to the MCP transport; keep logs quiet
		st, closeDB := openStore(cfg, zap.NewNop())
		defer closeDB()

		if err := cli.MCPCommand(st, newAdvisor(cfg, zap.NewNop())); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "login":
		if cfg.Remote.URL == "" {
			log.Fatalf("Error: no remote backend configured (set PROSPEKT_REMOTE_URL)")
		}
		runAuth(cli.LoginCommand, cfg, commandArgs)

	case "register":
		if cfg.Remote.URL == "" {
			log.Fatalf("Error: no remote backend configured (set PROSPEKT_REMOTE_URL)")
		}
		runAuth(cli.RegisterCommand, cfg, commandArgs)

	case "logout":
		if cfg.Remote.URL == "" {
			log.Fatalf("Error: no remote backend configured (set PROSPEKT_REMOTE_URL)")
		}
		runAuth(cli.LogoutCommand, cfg, commandArgs)

	case "crm":
		logger := newLogger(cfg.LogLevel)
		defer logger.Sync()

		st, closeDB := openStore(cfg, logger)
		defer closeDB()

		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		if crmCommand == "insights" {
			if err := cli.InsightsCommand(st, newAdvisor(cfg, logger), crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
			return
		}

		commands := map[string]func(*store.Store, []string) error{
			"add-company":    cli.AddCompanyCommand,
			"list-companies": cli.ListCompaniesCommand,
			"add-contact":    cli.AddContactCommand,
			"list-contacts":  cli.ListContactsCommand,
			"add-deal":       cli.AddDealCommand,
			"list-deals":     cli.ListDealsCommand,
			"move-deal":      cli.MoveDealCommand,
			"list-pipelines": cli.ListPipelinesCommand,
			"add-pipeline":   cli.AddPipelineCommand,
			"add-stage":      cli.AddStageCommand,
			"rename-stage":   cli.RenameStageCommand,
			"remove-stage":   cli.RemoveStageCommand,
			"move-stage":     cli.MoveStageCommand,
			"set-automation": cli.SetAutomationCommand,
			"add-field":      cli.AddFieldCommand,
			"list-fields":    cli.ListFieldsCommand,
			"remove-field":   cli.RemoveFieldCommand,
			"reorder-field":  cli.ReorderFieldCommand,
			"list-tasks":     cli.ListTasksCommand,
			"complete-task":  cli.CompleteTaskCommand,
			"report":         cli.ReportCommand,
		}
		run, ok := commands[crmCommand]
		if !ok {
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}
		if err := run(st, crmArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openStore opens the database, attaches the remote mirror when one is
// configured and loads the working set. The returned func drains
// pending mirror writes and closes the database.
func openStore(cfg config.Config, logger *zap.Logger) (*store.Store, func()) {
	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	opts := []store.Option{store.WithLogger(logger)}
	if cfg.Remote.URL != "" {
		opts = append(opts, store.WithMirror(remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey, logger)))
	}

	st := store.New(database, opts...)
	if err := st.Load(); err != nil {
		database.Close()
		log.Fatalf("Failed to load data: %v", err)
	}
	return st, func() {
		st.WaitSync()
		database.Close()
	}
}

func newAdvisor(cfg config.Config, logger *zap.Logger) *insights.Advisor {
	gen, err := insights.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, "")
	if err != nil {
		logger.Warn("Gemini client unavailable", zap.Error(err))
		return insights.NewAdvisor(nil, logger)
	}
	if gen == nil {
		// no API key configured
		return insights.NewAdvisor(nil, logger)
	}
	return insights.NewAdvisor(gen, logger)
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func runAuth(command func(auth.Provider, string, []string) error, cfg config.Config, args []string) {
	sessionPath, err := auth.DefaultSessionPath()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	provider := auth.NewHTTPProvider(cfg.Remote.URL, cfg.Remote.APIKey)
	if err := command(provider, sessionPath, args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`prospekt v%s - CRM for small sales teams

USAGE:
  prospekt [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file path (default: ~/.config/prospekt/config.yaml)
  --db-path <path>       Database path (default: ~/.local/share/prospekt/prospekt.db)
  --addr <addr>          HTTP listen address for serve (default: :8080)
  --init                 Initialize database and exit

COMMANDS:
  serve                  Start the web UI
  mcp                    Start MCP server on stdio
  crm                    CRM management commands
  login                  Sign in to the remote backend
  register               Create an account on the remote backend
  logout                 Sign out and drop the stored session

CRM COMMANDS:
  prospekt crm add-company      Add a company
    --name <name>                 Company name (required)
    --industry <industry>         Industry
    --website <url>               Company website
    --status <status>             Active, Prospect or Inactive
    --owner <owner>               Account owner

  prospekt crm list-companies   List companies
    --query <text>                Search by name or industry

  prospekt crm add-contact      Add a contact
    --first-name <name>           First name
    --last-name <name>            Last name
    --company-id <id>             Linked company ID
    --email <email>               Email address
    --phone <phone>               Phone number
    --role <role>                 Role at the company

  prospekt crm list-contacts    List contacts
    --query <text>                Search by name or email

  prospekt crm add-deal         Add a deal
    --title <title>               Deal title (required)
    --company-id <id>             Company ID (required)
    --value <pln>                 Deal value in PLN
    --stage <stage>               Initial stage (default: first stage)
    --close-date <date>           Expected close date (YYYY-MM-DD)
    --owner <owner>               Deal owner

  prospekt crm list-deals       List deals grouped by stage
    --pipeline-id <id>            Pipeline (default: first)

  prospekt crm move-deal        Move a deal to another stage
    --deal-id <id>                Deal ID (required)
    --stage <stage>               Destination stage (required)

  prospekt crm list-pipelines   List pipelines and their stages
  prospekt crm add-pipeline     Create a pipeline (--name required)
  prospekt crm add-stage        Append a stage (--pipeline-id, --name)
  prospekt crm rename-stage     Rename a stage (--pipeline-id, --from, --to)
  prospekt crm remove-stage     Remove a stage (--pipeline-id, --name)
  prospekt crm move-stage       Reposition a stage (--pipeline-id, --from, --to)
  prospekt crm set-automation   Configure stage automation (--pipeline-id, --stage, --templates JSON)

  prospekt crm add-field        Define a custom field (--label, --type, --target, --options)
  prospekt crm list-fields      List custom fields in display order
  prospekt crm remove-field     Remove a custom field (--field-id)
  prospekt crm reorder-field    Move a field up or down (--index, --direction)

  prospekt crm list-tasks       List tasks (--all includes completed)
  prospekt crm complete-task    Toggle task completion (--task-id)

  prospekt crm insights         AI briefing for a company (--company-id)

  prospekt crm report           Sales KPIs
    --pipeline-id <id>            Restrict to one pipeline
    --owner <owner>               Restrict to one owner
    --from <date> --to <date>     Expected close date range
    --industry <industry>         Restrict to an industry

EXAMPLES:
  # Start the web UI on port 8080
  prospekt serve

  # Start MCP server for assistant integration
  prospekt mcp

  # Add a company and a deal
  prospekt crm add-company --name "Nowak Consulting" --industry "IT"
  prospekt crm add-deal --title "Wdrożenie CRM" --company-id <id> --value 12000

  # Move a deal and fire its stage automations
  prospekt crm move-deal --deal-id <id> --stage "Negocjacje"

  # Monthly report for one owner
  prospekt crm report --owner "Anna" --from 2026-08-01 --to 2026-08-31

`, version)
}
