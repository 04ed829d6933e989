// ABOUTME: Pipeline CLI commands: list pipelines and manage their stages
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

// ListPipelinesCommand prints every pipeline with its stage sequence
func ListPipelinesCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-pipelines", flag.ExitOnError)
	fs.Parse(args)

	pipelines := st.Pipelines()
	if len(pipelines) == 0 {
		fmt.Println("No pipelines configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTAGES\tAUTOMATIONS\tID")
	fmt.Fprintln(w, "----\t------\t-----------\t--")

	for _, p := range pipelines {
		automated := 0
		for _, templates := range p.Automation {
			if len(templates) > 0 {
				automated++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			p.Name, strings.Join(p.Stages, " → "), automated, p.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d pipeline(s)\n", len(pipelines))
	return nil
}

// AddPipelineCommand creates a pipeline with the starter stage set
func AddPipelineCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-pipeline", flag.ExitOnError)
	name := fs.String("name", "", "Pipeline name (required)")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	pipeline, err := st.AddPipeline(*name)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	fmt.Printf("✓ Pipeline created: %s (ID: %s)\n", pipeline.Name, pipeline.ID)
	fmt.Printf("  Stages: %s\n", strings.Join(pipeline.Stages, " → "))
	return nil
}

// AddStageCommand appends a stage to a pipeline
func AddStageCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-stage", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (required)")
	name := fs.String("name", "", "Stage name (required)")
	fs.Parse(args)

	if *pipelineID == "" {
		return fmt.Errorf("--pipeline-id is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	id, err := uuid.Parse(*pipelineID)
	if err != nil {
		return fmt.Errorf("invalid --pipeline-id: %w", err)
	}

	if err := st.AddStage(id, *name); err != nil {
		return fmt.Errorf("failed to add stage: %w", err)
	}

	fmt.Printf("✓ Stage added: %s\n", *name)
	return nil
}

// RenameStageCommand renames a stage, cascading to deals on it
func RenameStageCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("rename-stage", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (required)")
	from := fs.String("from", "", "Current stage name (required)")
	to := fs.String("to", "", "New stage name (required)")
	fs.Parse(args)

	if *pipelineID == "" || *from == "" || *to == "" {
		return fmt.Errorf("--pipeline-id, --from and --to are required")
	}
	id, err := uuid.Parse(*pipelineID)
	if err != nil {
		return fmt.Errorf("invalid --pipeline-id: %w", err)
	}

	if err := st.EditStage(id, *from, *to); err != nil {
		return fmt.Errorf("failed to rename stage: %w", err)
	}

	fmt.Printf("✓ Stage renamed: %s → %s\n", *from, *to)
	return nil
}

// RemoveStageCommand deletes a stage from a pipeline
func RemoveStageCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("remove-stage", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (required)")
	name := fs.String("name", "", "Stage name (required)")
	fs.Parse(args)

	if *pipelineID == "" || *name == "" {
		return fmt.Errorf("--pipeline-id and --name are required")
	}
	id, err := uuid.Parse(*pipelineID)
	if err != nil {
		return fmt.Errorf("invalid --pipeline-id: %w", err)
	}

	if err := st.RemoveStage(id, *name); err != nil {
		return fmt.Errorf("failed to remove stage: %w", err)
	}

	fmt.Printf("✓ Stage removed: %s\n", *name)
	return nil
}

// MoveStageCommand changes a stage's position within its pipeline
func MoveStageCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("move-stage", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (required)")
	from := fs.Int("from", -1, "Current position, zero-based (required)")
	to := fs.Int("to", -1, "Target position, zero-based (required)")
	fs.Parse(args)

	if *pipelineID == "" || *from < 0 || *to < 0 {
		return fmt.Errorf("--pipeline-id, --from and --to are required")
	}
	id, err := uuid.Parse(*pipelineID)
	if err != nil {
		return fmt.Errorf("invalid --pipeline-id: %w", err)
	}

	if err := st.MoveStage(id, *from, *to); err != nil {
		return fmt.Errorf("failed to move stage: %w", err)
	}

	fmt.Printf("✓ Stage moved: %d → %d\n", *from, *to)
	return nil
}

// SetAutomationCommand replaces the automated task templates for a
// stage. Templates come in as a JSON array; an empty array clears them.
func SetAutomationCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("set-automation", flag.ExitOnError)
	pipelineID := fs.String("pipeline-id", "", "Pipeline ID (required)")
	stage := fs.String("stage", "", "Stage name (required)")
	templatesJSON := fs.String("templates", "[]", `Templates as JSON, e.g. [{"title":"Zadzwoń do {deal}","days_offset":2,"priority":"High"}]`)
	fs.Parse(args)

	if *pipelineID == "" || *stage == "" {
		return fmt.Errorf("--pipeline-id and --stage are required")
	}
	id, err := uuid.Parse(*pipelineID)
	if err != nil {
		return fmt.Errorf("invalid --pipeline-id: %w", err)
	}

	var templates []models.AutomatedTaskTemplate
	if err := json.Unmarshal([]byte(*templatesJSON), &templates); err != nil {
		return fmt.Errorf("invalid --templates: %w", err)
	}

	if err := st.UpdateAutomation(id, *stage, templates); err != nil {
		return fmt.Errorf("failed to configure automation: %w", err)
	}

	if len(templates) == 0 {
		fmt.Printf("✓ Automation cleared for stage %s\n", *stage)
	} else {
		fmt.Printf("✓ Automation configured: %d template(s) on stage %s\n", len(templates), *stage)
	}
	return nil
}
