// ABOUTME: Sales report CLI command: KPIs and stage distribution with filters
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/reports"
	"github.com/mkarcz/prospekt/store"
)

// ReportCommand prints sales KPIs for the filtered deal set
func ReportCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Restrict to one pipeline")
	owner := fs.String("owner", "", "Restrict to one owner")
	from := fs.String("from", "", "Expected close date from (YYYY-MM-DD)")
	to := fs.String("to", "", "Expected close date to (YYYY-MM-DD)")
	industry := fs.String("industry", "", "Restrict to companies in an industry")
	fs.Parse(args)

	filter := reports.Filter{
		Owner:    *owner,
		From:     *from,
		To:       *to,
		Industry: *industry,
	}
	if *pipelineID != "" {
		id, err := uuid.Parse(*pipelineID)
		if err != nil {
			return fmt.Errorf("invalid --pipeline-id: %w", err)
		}
		filter.PipelineID = id
	}

	deals := filter.Apply(st.Deals(), st.Companies())
	kpi := reports.ComputeKPI(deals)

	fmt.Println("Sales Report")
	fmt.Println("============")
	fmt.Printf("Deals matched:   %d\n", len(deals))
	fmt.Printf("Total sales:     %d PLN\n", kpi.TotalSales)
	fmt.Printf("Won deals:       %d\n", kpi.WonCount)
	fmt.Printf("Average value:   %d PLN\n", kpi.AvgValue)
	fmt.Printf("Active pipeline: %d PLN\n", kpi.ActivePipeline)

	pipelines := st.Pipelines()
	for _, p := range pipelines {
		if filter.PipelineID != uuid.Nil && p.ID != filter.PipelineID {
			continue
		}
		fmt.Printf("\nStage distribution: %s\n", p.Name)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STAGE\tDEALS\tVALUE")
		fmt.Fprintln(w, "-----\t-----\t-----")
		for _, m := range reports.StageDistribution(p, deals) {
			fmt.Fprintf(w, "%s\t%d\t%d PLN\n", m.Stage, m.Count, m.Value)
		}
		w.Flush()
	}
	return nil
}
