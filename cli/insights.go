// ABOUTME: AI briefing CLI command for a single company
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/insights"
	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

// InsightsCommand prints the AI briefing for one company
func InsightsCommand(st *store.Store, advisor *insights.Advisor, args []string) error {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	companyID := fs.String("company-id", "", "Company ID (required)")
	fs.Parse(args)

	if *companyID == "" {
		return fmt.Errorf("--company-id is required")
	}
	id, err := uuid.Parse(*companyID)
	if err != nil {
		return fmt.Errorf("invalid --company-id: %w", err)
	}

	company, err := st.Company(id)
	if err != nil {
		return err
	}

	var deals []models.Deal
	for _, d := range st.Deals() {
		if d.CompanyID == id {
			deals = append(deals, d)
		}
	}
	tasks := st.TasksForCompany(id)

	fmt.Printf("%s — analiza AI\n\n", company.Name)
	fmt.Println(advisor.CompanyBriefing(context.Background(), *company, deals, tasks))
	return nil
}
