// ABOUTME: Task list page, quick add and completion toggling
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkarcz/prospekt/models"
)

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	showAll := r.URL.Query().Get("all") == "1"

	companyNames := make(map[uuid.UUID]string)
	for _, c := range s.store.Companies() {
		companyNames[c.ID] = c.Name
	}

	type taskView struct {
		ID          string
		Title       string
		DueDate     string
		Priority    string
		IsCompleted bool
		RelatedName string
	}
	var views []taskView
	for _, t := range s.store.Tasks() {
		if !showAll && t.IsCompleted {
			continue
		}
		related := ""
		if t.RelatedType == models.RelatedCompany && t.RelatedID != nil {
			related = companyNames[*t.RelatedID]
		}
		views = append(views, taskView{
			ID:          t.ID.String(),
			Title:       t.Title,
			DueDate:     t.DueDate,
			Priority:    t.Priority,
			IsCompleted: t.IsCompleted,
			RelatedName: related,
		})
	}

	s.page(w, "tasks-content", "Zadania", map[string]interface{}{
		"Tasks":     views,
		"ShowAll":   showAll,
		"Companies": s.store.Companies(),
	})
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	task := models.Task{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DueDate:     r.FormValue("due_date"),
		Priority:    r.FormValue("priority"),
	}
	if raw := r.FormValue("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid company", http.StatusBadRequest)
			return
		}
		task.RelatedID = &companyID
		task.RelatedType = models.RelatedCompany
	}

	if _, err := s.store.AddTask(task); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if _, err := s.store.ToggleTask(id); err != nil {
		status := http.StatusBadRequest
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.redirectBack(w, r, "/tasks")
}
