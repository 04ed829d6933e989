// ABOUTME: Company and contact CLI commands
// ABOUTME: Human-friendly commands for managing companies and contacts
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

// AddCompanyCommand adds a new company
func AddCompanyCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	industry := fs.String("industry", "", "Industry")
	website := fs.String("website", "", "Company website")
	status := fs.String("status", "", "Status: Active, Prospect, Inactive (default Prospect)")
	owner := fs.String("owner", "", "Account owner")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	company, err := st.AddCompany(models.Company{
		Name:     *name,
		Industry: *industry,
		Website:  *website,
		Status:   *status,
		Owner:    *owner,
	})
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	fmt.Printf("✓ Company created: %s (ID: %s)\n", company.Name, company.ID)
	if company.Industry != "" {
		fmt.Printf("  Industry: %s\n", company.Industry)
	}

	return nil
}

// ListCompaniesCommand lists companies, optionally filtered by a query
func ListCompaniesCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or industry")
	fs.Parse(args)

	companies := st.SearchCompanies(*query)
	if len(companies) == 0 {
		fmt.Println("No companies found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINDUSTRY\tSTATUS\tOWNER\tID")
	fmt.Fprintln(w, "----\t--------\t------\t-----\t--")

	for _, company := range companies {
		industry := company.Industry
		if industry == "" {
			industry = "-"
		}
		owner := company.Owner
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			company.Name, industry, company.Status, owner, company.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d company(ies)\n", len(companies))
	return nil
}

// AddContactCommand adds a new contact
func AddContactCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	firstName := fs.String("first-name", "", "First name")
	lastName := fs.String("last-name", "", "Last name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	role := fs.String("role", "", "Role at the company")
	companyID := fs.String("company-id", "", "Linked company ID")
	fs.Parse(args)

	contact := models.Contact{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Phone:     *phone,
		Role:      *role,
	}
	if *companyID != "" {
		id, err := uuid.Parse(*companyID)
		if err != nil {
			return fmt.Errorf("invalid --company-id: %w", err)
		}
		contact.CompanyID = &id
	}

	created, err := st.AddContact(contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", created.FullName(), created.ID)
	return nil
}

// ListContactsCommand lists contacts, optionally filtered by a query
func ListContactsCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or email")
	fs.Parse(args)

	contacts := st.SearchContacts(*query)
	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	companyNames := make(map[uuid.UUID]string)
	for _, c := range st.Companies() {
		companyNames[c.ID] = c.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tCOMPANY\tID")
	fmt.Fprintln(w, "----\t-----\t-------\t--")

	for _, contact := range contacts {
		email := contact.Email
		if email == "" {
			email = "-"
		}
		company := "-"
		if contact.CompanyID != nil {
			if name, ok := companyNames[*contact.CompanyID]; ok {
				company = name
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			contact.FullName(), email, company, contact.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}
