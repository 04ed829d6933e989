// ABOUTME: Task CLI commands: list pending work and mark it done
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

// ListTasksCommand lists tasks, pending by default
func ListTasksCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-tasks", flag.ExitOnError)
	all := fs.Bool("all", false, "Include completed tasks")
	fs.Parse(args)

	var tasks []models.Task
	if *all {
		tasks = st.Tasks()
	} else {
		tasks = st.PendingTasks()
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	companies := make(map[uuid.UUID]string)
	for _, c := range st.Companies() {
		companies[c.ID] = c.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tTITLE\tDUE\tPRIORITY\tCOMPANY\tID")
	fmt.Fprintln(w, "------\t-----\t---\t--------\t-------\t--")

	for _, task := range tasks {
		status := " "
		if task.IsCompleted {
			status = "✓"
		}
		due := task.DueDate
		if due == "" {
			due = "-"
		}
		company := "-"
		if task.RelatedID != nil && task.RelatedType == models.RelatedCompany {
			if name, ok := companies[*task.RelatedID]; ok {
				company = name
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			status, task.Title, due, task.Priority, company, task.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d task(s)\n", len(tasks))
	return nil
}

// CompleteTaskCommand toggles a task's completion flag
func CompleteTaskCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("complete-task", flag.ExitOnError)
	taskID := fs.String("task-id", "", "Task ID (required)")
	fs.Parse(args)

	if *taskID == "" {
		return fmt.Errorf("--task-id is required")
	}
	id, err := uuid.Parse(*taskID)
	if err != nil {
		return fmt.Errorf("invalid --task-id: %w", err)
	}

	completed, err := st.ToggleTask(id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if completed {
		fmt.Println("✓ Task completed")
	} else {
		fmt.Println("✓ Task reopened")
	}
	return nil
}
