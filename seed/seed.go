// ABOUTME: Built-in demo dataset used when no data can be loaded
// ABOUTME: Sample Polish companies, contacts, deals, and tasks for demo mode
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

// Dataset is a fully cross-referenced demo data set: every deal, contact,
// and task points at a company in Companies, and every deal stage is a
// member of the default pipeline.
type Dataset struct {
	Companies    []models.Company
	Contacts     []models.Contact
	Deals        []models.Deal
	Tasks        []models.Task
	Pipelines    []models.Pipeline
	CustomFields []models.CustomField
}

func date(s string) time.Time {
	t, _ := time.Parse(models.DateFormat, s)
	return t
}

// Demo builds the demo dataset with fresh IDs.
func Demo() *Dataset {
	now := time.Now()

	pipeline := models.Pipeline{
		ID:        uuid.New(),
		Name:      "Sprzedaż standardowa",
		Stages:    models.DefaultStages(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	techSolutions := models.Company{ID: uuid.New(), Name: "Tech Solutions Sp. z o.o.", Industry: "IT", Website: "techsolutions.pl", Status: models.CompanyStatusActive, Owner: "Marek", CreatedAt: date("2023-10-01"), UpdatedAt: now}
	budopol := models.Company{ID: uuid.New(), Name: "Budopol S.A.", Industry: "Budownictwo", Website: "budopol.com", Status: models.CompanyStatusProspect, Owner: "Anna", CreatedAt: date("2023-11-15"), UpdatedAt: now}
	greenEnergy := models.Company{ID: uuid.New(), Name: "Green Energy Group", Industry: "OZE", Website: "greenenergy.eu", Status: models.CompanyStatusActive, Owner: "Marek", CreatedAt: date("2023-09-20"), UpdatedAt: now}
	logistyka := models.Company{ID: uuid.New(), Name: "Logistyka 24", Industry: "Logistyka", Website: "l24.pl", Status: models.CompanyStatusProspect, Owner: "Anna", CreatedAt: date("2024-01-10"), UpdatedAt: now}

	contacts := []models.Contact{
		{ID: uuid.New(), CompanyID: &techSolutions.ID, FirstName: "Adam", LastName: "Nowak", Email: "adam.nowak@techsolutions.pl", Phone: "+48 123 456 789", Role: "CTO", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), CompanyID: &budopol.ID, FirstName: "Marta", LastName: "Kowalska", Email: "m.kowalska@budopol.com", Phone: "+48 987 654 321", Role: "Project Manager", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), CompanyID: &greenEnergy.ID, FirstName: "Jan", LastName: "Zieliński", Email: "j.zielinski@greenenergy.eu", Phone: "+48 555 111 222", Role: "CEO", CreatedAt: now, UpdatedAt: now},
	}

	deals := []models.Deal{
		{ID: uuid.New(), CompanyID: techSolutions.ID, PipelineID: pipeline.ID, Title: "Wdrożenie ERP", Value: 150000, Stage: models.StageNegotiation, ExpectedCloseDate: "2024-06-30", Owner: "Marek", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), CompanyID: budopol.ID, PipelineID: pipeline.ID, Title: "Zakup licencji cloud", Value: 45000, Stage: models.StageQualified, ExpectedCloseDate: "2024-05-15", Owner: "Anna", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), CompanyID: greenEnergy.ID, PipelineID: pipeline.ID, Title: "Audyt infrastruktury", Value: 12000, Stage: models.StageNew, ExpectedCloseDate: "2024-04-10", Owner: "Marek", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), CompanyID: logistyka.ID, PipelineID: pipeline.ID, Title: "Optymalizacja tras", Value: 85000, Stage: models.StageProposal, ExpectedCloseDate: "2024-08-20", Owner: "Anna", CreatedAt: now, UpdatedAt: now},
	}

	tasks := []models.Task{
		{ID: uuid.New(), RelatedID: &techSolutions.ID, RelatedType: models.RelatedCompany, Title: "Telefon do Adama", Description: "Omówienie szczegółów umowy ERP", DueDate: "2024-04-12", Priority: models.PriorityHigh, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), RelatedID: &budopol.ID, RelatedType: models.RelatedCompany, Title: "Wysłanie oferty", Description: "Przygotować PDF z ofertą chmurową", DueDate: "2024-04-15", IsCompleted: true, Priority: models.PriorityMedium, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), RelatedID: &greenEnergy.ID, RelatedType: models.RelatedCompany, Title: "Spotkanie zapoznawcze", Description: "Pierwsza kawa w biurze klienta", DueDate: "2024-04-20", Priority: models.PriorityLow, CreatedAt: now, UpdatedAt: now},
	}

	fields := []models.CustomField{
		{ID: uuid.New(), Label: "Wielkość zatrudnienia", Type: models.FieldTypeNumber, Target: models.TargetCompany, Position: 0, CreatedAt: now},
		{ID: uuid.New(), Label: "LinkedIn URL", Type: models.FieldTypeText, Target: models.TargetContact, Position: 1, CreatedAt: now},
	}

	return &Dataset{
		Companies:    []models.Company{techSolutions, budopol, greenEnergy, logistyka},
		Contacts:     contacts,
		Deals:        deals,
		Tasks:        tasks,
		Pipelines:    []models.Pipeline{pipeline},
		CustomFields: fields,
	}
}
