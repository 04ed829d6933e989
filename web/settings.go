// ABOUTME: Settings page: pipeline, stage, automation and custom field admin
package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkarcz/prospekt/models"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.page(w, "settings-content", "Ustawienia", map[string]interface{}{
		"Pipelines":  s.store.Pipelines(),
		"Fields":     s.store.CustomFields(),
		"FieldTypes": []string{models.FieldTypeText, models.FieldTypeNumber, models.FieldTypeDate, models.FieldTypeSelect},
		"Priorities": []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh},
	})
}

func (s *Server) settingsAction(w http.ResponseWriter, r *http.Request, run func() error) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if err := run(); err != nil {
		status := http.StatusBadRequest
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.redirectBack(w, r, "/settings")
}

func (s *Server) handlePipelineCreate(w http.ResponseWriter, r *http.Request) {
	s.settingsAction(w, r, func() error {
		_, err := s.store.AddPipeline(r.FormValue("name"))
		return err
	})
}

func (s *Server) handlePipelineDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		return s.store.RemovePipeline(id)
	})
}

func (s *Server) handleStageAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		return s.store.AddStage(id, r.FormValue("name"))
	})
}

func (s *Server) handleStageEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		return s.store.EditStage(id, r.FormValue("old_name"), r.FormValue("new_name"))
	})
}

func (s *Server) handleStageRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		return s.store.RemoveStage(id, r.FormValue("name"))
	})
}

func (s *Server) handleStageMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		from := parseIntDefault(r.FormValue("from"), -1)
		to := parseIntDefault(r.FormValue("to"), -1)
		return s.store.MoveStage(id, from, to)
	})
}

// handleAutomation replaces one stage's template list. Templates arrive
// as a JSON array in the "templates" form value, mirroring the shape the
// settings page edits.
func (s *Server) handleAutomation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		var templates []models.AutomatedTaskTemplate
		if raw := r.FormValue("templates"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &templates); err != nil {
				return err
			}
		}
		return s.store.UpdateAutomation(id, r.FormValue("stage"), templates)
	})
}

func (s *Server) handleFieldAdd(w http.ResponseWriter, r *http.Request) {
	s.settingsAction(w, r, func() error {
		field := models.CustomField{
			Label:  r.FormValue("label"),
			Type:   r.FormValue("type"),
			Target: r.FormValue("target"),
		}
		if raw := r.FormValue("options"); raw != "" {
			for _, opt := range strings.Split(raw, ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					field.Options = append(field.Options, opt)
				}
			}
		}
		_, err := s.store.AddField(field)
		return err
	})
}

func (s *Server) handleFieldRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.settingsAction(w, r, func() error {
		return s.store.RemoveField(id)
	})
}

func (s *Server) handleFieldReorder(w http.ResponseWriter, r *http.Request) {
	s.settingsAction(w, r, func() error {
		index := parseIntDefault(r.FormValue("index"), -1)
		direction := parseIntDefault(r.FormValue("direction"), 0)
		return s.store.ReorderField(index, direction)
	})
}
