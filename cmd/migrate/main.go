// ABOUTME: Push utility copying a local CRM database to the remote backend.
// ABOUTME: Supports dry-run to preview what would be uploaded.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/remote"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (required)")
	remoteURL := flag.String("remote-url", os.Getenv("PROSPEKT_REMOTE_URL"), "Remote backend URL")
	apiKey := flag.String("api-key", os.Getenv("PROSPEKT_REMOTE_API_KEY"), "Remote backend API key")
	dryRun := flag.Bool("dry-run", false, "Show what would be uploaded without uploading")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("Error: -db flag is required")
	}
	if !*dryRun && *remoteURL == "" {
		log.Fatal("Error: -remote-url (or PROSPEKT_REMOTE_URL) is required")
	}

	if err := push(*dbPath, *remoteURL, *apiKey, *dryRun); err != nil {
		log.Fatalf("Push failed: %v", err)
	}
}

// The db finders cap unspecified limits at 50; a push must see
// everything.
const pushLimit = 1_000_000

func push(dbPath, remoteURL, apiKey string, dryRun bool) error {
	database, err := db.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	companies, err := db.FindCompanies(database, "", pushLimit)
	if err != nil {
		return fmt.Errorf("reading companies: %w", err)
	}
	contacts, err := db.FindContacts(database, "", nil, pushLimit)
	if err != nil {
		return fmt.Errorf("reading contacts: %w", err)
	}
	deals, err := db.FindDeals(database, "", nil, pushLimit)
	if err != nil {
		return fmt.Errorf("reading deals: %w", err)
	}
	tasks, err := db.FindTasks(database, true, pushLimit)
	if err != nil {
		return fmt.Errorf("reading tasks: %w", err)
	}
	pipelines, err := db.ListPipelines(database)
	if err != nil {
		return fmt.Errorf("reading pipelines: %w", err)
	}
	fields, err := db.ListCustomFields(database)
	if err != nil {
		return fmt.Errorf("reading custom fields: %w", err)
	}

	fmt.Printf("Local database: %s\n", dbPath)
	fmt.Printf("  companies:     %d\n", len(companies))
	fmt.Printf("  contacts:      %d\n", len(contacts))
	fmt.Printf("  deals:         %d\n", len(deals))
	fmt.Printf("  tasks:         %d\n", len(tasks))
	fmt.Printf("  pipelines:     %d\n", len(pipelines))
	fmt.Printf("  custom fields: %d\n", len(fields))

	if dryRun {
		fmt.Println("\nDry run: nothing uploaded")
		return nil
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	client := remote.NewClient(remoteURL, apiKey, logger)

	// Pipelines and companies first so deals reference existing rows.
	uploads := []struct {
		table   string
		records interface{}
		count   int
	}{
		{"pipelines", pipelines, len(pipelines)},
		{"companies", companies, len(companies)},
		{"contacts", contacts, len(contacts)},
		{"deals", deals, len(deals)},
		{"tasks", tasks, len(tasks)},
		{"custom_fields", fields, len(fields)},
	}
	for _, u := range uploads {
		if u.count == 0 {
			continue
		}
		if err := client.Insert(u.table, u.records); err != nil {
			return fmt.Errorf("uploading %s: %w", u.table, err)
		}
		fmt.Printf("✓ Uploaded %d %s\n", u.count, u.table)
	}

	fmt.Println("\nPush complete")
	return nil
}
