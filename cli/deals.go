// ABOUTME: Deal CLI commands: add, list, and move through the kanban
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

// AddDealCommand creates a deal in a pipeline
func AddDealCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	title := fs.String("title", "", "Deal title (required)")
	value := fs.Int64("value", 0, "Deal value in PLN")
	companyID := fs.String("company-id", "", "Company ID (required)")
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (default: first pipeline)")
	stage := fs.String("stage", "", "Initial stage (default: first stage)")
	closeDate := fs.String("close-date", "", "Expected close date (YYYY-MM-DD)")
	owner := fs.String("owner", "", "Deal owner")
	fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if *companyID == "" {
		return fmt.Errorf("--company-id is required")
	}
	cid, err := uuid.Parse(*companyID)
	if err != nil {
		return fmt.Errorf("invalid --company-id: %w", err)
	}

	var pid uuid.UUID
	if *pipelineID != "" {
		pid, err = uuid.Parse(*pipelineID)
		if err != nil {
			return fmt.Errorf("invalid --pipeline-id: %w", err)
		}
	} else {
		pipelines := st.Pipelines()
		if len(pipelines) == 0 {
			return fmt.Errorf("no pipelines configured")
		}
		pid = pipelines[0].ID
	}

	deal, err := st.AddDeal(models.Deal{
		CompanyID:         cid,
		PipelineID:        pid,
		Title:             *title,
		Value:             *value,
		Stage:             *stage,
		ExpectedCloseDate: *closeDate,
		Owner:             *owner,
	})
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	fmt.Printf("✓ Deal created: %s (%d PLN, stage: %s, ID: %s)\n",
		deal.Title, deal.Value, deal.Stage, deal.ID)
	return nil
}

// ListDealsCommand lists deals grouped by stage for one pipeline
func ListDealsCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (default: first pipeline)")
	fs.Parse(args)

	pipelines := st.Pipelines()
	if len(pipelines) == 0 {
		fmt.Println("No pipelines configured")
		return nil
	}
	pipeline := pipelines[0]
	if *pipelineID != "" {
		id, err := uuid.Parse(*pipelineID)
		if err != nil {
			return fmt.Errorf("invalid --pipeline-id: %w", err)
		}
		found := false
		for _, p := range pipelines {
			if p.ID == id {
				pipeline = p
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("pipeline %s not found", id)
		}
	}

	grouped := st.DealsForPipeline(pipeline.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Pipeline: %s\n\n", pipeline.Name)
	fmt.Fprintln(w, "STAGE\tTITLE\tVALUE\tOWNER\tID")
	fmt.Fprintln(w, "-----\t-----\t-----\t-----\t--")

	total := 0
	for _, stage := range pipeline.Stages {
		for _, deal := range grouped[stage] {
			owner := deal.Owner
			if owner == "" {
				owner = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%d PLN\t%s\t%s\n",
				stage, deal.Title, deal.Value, owner, deal.ID.String()[:8])
			total++
		}
	}
	w.Flush()

	fmt.Printf("\nTotal: %d deal(s)\n", total)
	return nil
}

// MoveDealCommand moves a deal to another stage
func MoveDealCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	dealID := fs.String("deal-id", "", "Deal ID (required)")
	stage := fs.String("stage", "", "Destination stage (required)")
	fs.Parse(args)

	if *dealID == "" {
		return fmt.Errorf("--deal-id is required")
	}
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}
	id, err := uuid.Parse(*dealID)
	if err != nil {
		return fmt.Errorf("invalid --deal-id: %w", err)
	}

	created, err := st.MoveDeal(id, *stage)
	if err != nil {
		return fmt.Errorf("failed to move deal: %w", err)
	}

	fmt.Printf("✓ Deal moved to %s\n", *stage)
	for _, task := range created {
		fmt.Printf("  + Task: %s (due %s, %s)\n", task.Title, task.DueDate, task.Priority)
	}
	return nil
}
