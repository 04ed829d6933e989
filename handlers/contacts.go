// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact and find_contacts tools
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/store"
)

type ContactHandlers struct {
	store *store.Store
}

func NewContactHandlers(st *store.Store) *ContactHandlers {
	return &ContactHandlers{store: st}
}

type AddContactInput struct {
	FirstName string `json:"first_name" jsonschema:"First name"`
	LastName  string `json:"last_name" jsonschema:"Last name"`
	Email     string `json:"email,omitempty" jsonschema:"Email address"`
	Phone     string `json:"phone,omitempty" jsonschema:"Phone number"`
	Role      string `json:"role,omitempty" jsonschema:"Role at the company"`
	CompanyID string `json:"company_id,omitempty" jsonschema:"Linked company ID"`
	Owner     string `json:"owner,omitempty" jsonschema:"Account owner name"`
}

type ContactOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

func contactToOutput(c *models.Contact) ContactOutput {
	out := ContactOutput{
		ID:    c.ID.String(),
		Name:  c.FullName(),
		Email: c.Email,
		Phone: c.Phone,
		Role:  c.Role,
	}
	if c.CompanyID != nil {
		out.CompanyID = c.CompanyID.String()
	}
	return out
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.FirstName == "" && input.LastName == "" {
		return nil, ContactOutput{}, fmt.Errorf("first_name or last_name is required")
	}

	contact := models.Contact{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      input.Role,
		Owner:     input.Owner,
	}
	if input.CompanyID != "" {
		companyID, err := uuid.Parse(input.CompanyID)
		if err != nil {
			return nil, ContactOutput{}, fmt.Errorf("invalid company_id: %w", err)
		}
		contact.CompanyID = &companyID
	}

	created, err := h.store.AddContact(contact)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to add contact: %w", err)
	}
	return nil, contactToOutput(created), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name or email substring; empty returns all"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	contacts := h.store.SearchContacts(input.Query)
	out := FindContactsOutput{Count: len(contacts)}
	for i := range contacts {
		out.Contacts = append(out.Contacts, contactToOutput(&contacts[i]))
	}
	return nil, out, nil
}
