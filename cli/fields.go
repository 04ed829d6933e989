// ABOUTME: Custom field CLI commands: define, list, reorder and remove fields
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

// AddFieldCommand defines a custom field for companies or contacts
func AddFieldCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-field", flag.ExitOnError)
	label := fs.String("label", "", "Field label (required)")
	fieldType := fs.String("type", models.FieldTypeText, "Field type: text, number, date, select")
	target := fs.String("target", models.TargetCompany, "Target: company or contact")
	options := fs.String("options", "", "Comma-separated options (select fields only)")
	fs.Parse(args)

	if *label == "" {
		return fmt.Errorf("--label is required")
	}

	field := models.CustomField{
		Label:  *label,
		Type:   *fieldType,
		Target: *target,
	}
	if *options != "" {
		for _, opt := range strings.Split(*options, ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				field.Options = append(field.Options, opt)
			}
		}
	}

	created, err := st.AddField(field)
	if err != nil {
		return fmt.Errorf("failed to add field: %w", err)
	}

	fmt.Printf("✓ Field created: %s (%s on %s, ID: %s)\n",
		created.Label, created.Type, created.Target, created.ID)
	return nil
}

// ListFieldsCommand lists custom fields in display order
func ListFieldsCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-fields", flag.ExitOnError)
	fs.Parse(args)

	fields := st.CustomFields()
	if len(fields) == 0 {
		fmt.Println("No custom fields defined")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tLABEL\tTYPE\tTARGET\tOPTIONS\tID")
	fmt.Fprintln(w, "---\t-----\t----\t------\t-------\t--")

	for _, f := range fields {
		options := "-"
		if len(f.Options) > 0 {
			options = strings.Join(f.Options, ", ")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			f.Position, f.Label, f.Type, f.Target, options, f.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d field(s)\n", len(fields))
	return nil
}

// RemoveFieldCommand deletes a custom field definition
func RemoveFieldCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("remove-field", flag.ExitOnError)
	fieldID := fs.String("field-id", "", "Field ID (required)")
	fs.Parse(args)

	if *fieldID == "" {
		return fmt.Errorf("--field-id is required")
	}
	id, err := uuid.Parse(*fieldID)
	if err != nil {
		return fmt.Errorf("invalid --field-id: %w", err)
	}

	if err := st.RemoveField(id); err != nil {
		return fmt.Errorf("failed to remove field: %w", err)
	}

	fmt.Println("✓ Field removed")
	return nil
}

// ReorderFieldCommand swaps a field with its neighbor. Moving past
// either end does nothing.
func ReorderFieldCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("reorder-field", flag.ExitOnError)
	index := fs.Int("index", -1, "Field position, zero-based (required)")
	direction := fs.String("direction", "", "up or down (required)")
	fs.Parse(args)

	if *index < 0 {
		return fmt.Errorf("--index is required")
	}
	var dir int
	switch *direction {
	case "up":
		dir = -1
	case "down":
		dir = 1
	default:
		return fmt.Errorf("--direction must be up or down")
	}

	if err := st.ReorderField(*index, dir); err != nil {
		return fmt.Errorf("failed to reorder field: %w", err)
	}

	fmt.Println("✓ Field order updated")
	return nil
}
