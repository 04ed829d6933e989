// ABOUTME: Tests for pipeline persistence
// ABOUTME: Covers JSON round-trip of stage order and automation templates
package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mkarcz/prospekt/models"
)

func TestCreateAndGetPipeline(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pipeline := &models.Pipeline{
		Name:   "Sprzedaż standardowa",
		Stages: models.DefaultStages(),
		Automation: map[string][]models.AutomatedTaskTemplate{
			models.StageNegotiation: {
				{ID: uuid.New(), Title: "Follow up on {deal}", DaysOffset: 3, Priority: models.PriorityHigh},
			},
		},
	}

	if err := CreatePipeline(db, pipeline); err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}
	if pipeline.ID == uuid.Nil {
		t.Error("Pipeline ID was not set")
	}

	found, err := GetPipeline(db, pipeline.ID)
	if err != nil {
		t.Fatalf("GetPipeline failed: %v", err)
	}
	if found == nil {
		t.Fatal("Pipeline not found")
	}

	if len(found.Stages) != 6 {
		t.Errorf("Expected 6 stages, got %d", len(found.Stages))
	}
	if found.Stages[0] != models.StageNew {
		t.Errorf("Expected first stage %s, got %s", models.StageNew, found.Stages[0])
	}

	templates := found.Automation[models.StageNegotiation]
	if len(templates) != 1 {
		t.Fatalf("Expected 1 automation template, got %d", len(templates))
	}
	if templates[0].DaysOffset != 3 {
		t.Errorf("Expected days offset 3, got %d", templates[0].DaysOffset)
	}
}

func TestUpdatePipelineStages(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pipeline := &models.Pipeline{Name: "Upsell", Stages: models.NewPipelineStages()}
	if err := CreatePipeline(db, pipeline); err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}

	pipeline.Stages = append(pipeline.Stages, "Negocjacje")
	if err := UpdatePipeline(db, pipeline); err != nil {
		t.Fatalf("UpdatePipeline failed: %v", err)
	}

	found, err := GetPipeline(db, pipeline.ID)
	if err != nil {
		t.Fatalf("GetPipeline failed: %v", err)
	}
	if len(found.Stages) != 4 {
		t.Errorf("Expected 4 stages, got %d", len(found.Stages))
	}
	if found.Stages[3] != "Negocjacje" {
		t.Errorf("Expected appended stage, got %s", found.Stages[3])
	}
}

func TestListPipelines(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, name := range []string{"Sprzedaż standardowa", "Upsell"} {
		p := &models.Pipeline{Name: name, Stages: models.NewPipelineStages()}
		if err := CreatePipeline(db, p); err != nil {
			t.Fatalf("CreatePipeline failed: %v", err)
		}
	}

	pipelines, err := ListPipelines(db)
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	if len(pipelines) != 2 {
		t.Fatalf("Expected 2 pipelines, got %d", len(pipelines))
	}
}

func TestDeletePipeline(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pipeline := &models.Pipeline{Name: "Upsell", Stages: models.NewPipelineStages()}
	if err := CreatePipeline(db, pipeline); err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}

	if err := DeletePipeline(db, pipeline.ID); err != nil {
		t.Fatalf("DeletePipeline failed: %v", err)
	}

	found, err := GetPipeline(db, pipeline.ID)
	if err != nil {
		t.Fatalf("GetPipeline failed: %v", err)
	}
	if found != nil {
		t.Error("Expected pipeline to be gone after delete")
	}
}
