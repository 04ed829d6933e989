// ABOUTME: Company and contact pages: listings, create forms, company card
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
)

// fieldValue pairs a custom field with one record's value for rendering.
type fieldValue struct {
	Label string
	Value string
}

func customValueRows(fields []models.CustomField, values models.CustomValues) []fieldValue {
	var rows []fieldValue
	for _, f := range fields {
		if v, ok := values[f.ID]; ok {
			rows = append(rows, fieldValue{Label: f.Label, Value: v.String()})
		}
	}
	return rows
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	companies := s.store.SearchCompanies(query)
	fields := s.store.FieldsFor(models.TargetCompany)

	type companyView struct {
		ID       string
		Name     string
		Industry string
		Status   string
		Owner    string
		Custom   []fieldValue
	}
	var views []companyView
	for _, c := range companies {
		views = append(views, companyView{
			ID:       c.ID.String(),
			Name:     c.Name,
			Industry: c.Industry,
			Status:   c.Status,
			Owner:    c.Owner,
			Custom:   customValueRows(fields, c.CustomValues),
		})
	}

	s.page(w, "companies-content", "Firmy", map[string]interface{}{
		"Companies": views,
		"Fields":    fields,
		"Query":     query,
	})
}

func (s *Server) handleCompanyCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	company := models.Company{
		Name:     r.FormValue("name"),
		Industry: r.FormValue("industry"),
		Website:  r.FormValue("website"),
		Status:   r.FormValue("status"),
		Owner:    r.FormValue("owner"),
	}
	company.CustomValues = formCustomValues(r, s.store.FieldsFor(models.TargetCompany))

	if _, err := s.store.AddCompany(company); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/companies", http.StatusSeeOther)
}

func (s *Server) handleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	existing, err := s.store.Company(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	updated := *existing
	updated.Name = r.FormValue("name")
	updated.Industry = r.FormValue("industry")
	updated.Website = r.FormValue("website")
	updated.Status = r.FormValue("status")
	updated.Owner = r.FormValue("owner")
	updated.CustomValues = formCustomValues(r, s.store.FieldsFor(models.TargetCompany))

	if err := s.store.UpdateCompany(updated); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/companies/"+id.String(), http.StatusSeeOther)
}

// formCustomValues reads cf_<field-id> form inputs into typed values.
// Blank inputs are skipped.
func formCustomValues(r *http.Request, fields []models.CustomField) models.CustomValues {
	values := models.CustomValues{}
	for _, f := range fields {
		raw := r.FormValue("cf_" + f.ID.String())
		if raw == "" {
			continue
		}
		switch f.Type {
		case models.FieldTypeNumber:
			if n, err := parseFloat(raw); err == nil {
				values[f.ID] = models.NumberValue(n)
			}
		case models.FieldTypeDate:
			values[f.ID] = models.DateValue(raw)
		case models.FieldTypeSelect:
			values[f.ID] = models.ChoiceValue(raw)
		default:
			values[f.ID] = models.TextValue(raw)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func (s *Server) handleCompanyDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	company, err := s.store.Company(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var deals []models.Deal
	for _, d := range s.store.Deals() {
		if d.CompanyID == id {
			deals = append(deals, d)
		}
	}
	tasks := s.store.TasksForCompany(id)

	insight := ""
	if s.insight != nil {
		insight = s.insight(r, *company, deals, tasks)
	}

	fields := s.store.FieldsFor(models.TargetCompany)
	type fieldInput struct {
		Field models.CustomField
		Value string
	}
	var inputs []fieldInput
	for _, f := range fields {
		value := ""
		if v, ok := company.CustomValues[f.ID]; ok {
			value = v.String()
		}
		inputs = append(inputs, fieldInput{Field: f, Value: value})
	}

	s.page(w, "company-detail-content", company.Name, map[string]interface{}{
		"Company":     company,
		"Custom":      customValueRows(fields, company.CustomValues),
		"FieldInputs": inputs,
		"Deals":       deals,
		"Tasks":       tasks,
		"Insight":     insight,
	})
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	contacts := s.store.SearchContacts(query)
	fields := s.store.FieldsFor(models.TargetContact)

	companyNames := make(map[uuid.UUID]string)
	for _, c := range s.store.Companies() {
		companyNames[c.ID] = c.Name
	}

	type contactView struct {
		ID          string
		Name        string
		Email       string
		Phone       string
		Role        string
		CompanyName string
		Custom      []fieldValue
	}
	var views []contactView
	for _, c := range contacts {
		companyName := ""
		if c.CompanyID != nil {
			companyName = companyNames[*c.CompanyID]
		}
		views = append(views, contactView{
			ID:          c.ID.String(),
			Name:        c.FullName(),
			Email:       c.Email,
			Phone:       c.Phone,
			Role:        c.Role,
			CompanyName: companyName,
			Custom:      customValueRows(fields, c.CustomValues),
		})
	}

	s.page(w, "contacts-content", "Kontakty", map[string]interface{}{
		"Contacts":  views,
		"Fields":    fields,
		"Companies": s.store.Companies(),
		"Query":     query,
	})
}

func (s *Server) handleContactCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	contact := models.Contact{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Role:      r.FormValue("role"),
		Owner:     r.FormValue("owner"),
	}
	if raw := r.FormValue("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid company", http.StatusBadRequest)
			return
		}
		contact.CompanyID = &companyID
	}
	contact.CustomValues = formCustomValues(r, s.store.FieldsFor(models.TargetContact))

	if _, err := s.store.AddContact(contact); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}
