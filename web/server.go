// ABOUTME: Web UI server with embedded templates over the application store
// ABOUTME: Server-rendered pages plus small POST endpoints for kanban and settings
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/reports"
	"github.com/mkarcz/prospekt/store"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	store     *store.Store
	templates *template.Template
	logger    *zap.Logger
	insight   BriefingFunc
}

// BriefingFunc returns advisory text for one company. Nil disables the
// insight panel.
type BriefingFunc func(r *http.Request, company models.Company, deals []models.Deal, tasks []models.Task) string

func NewServer(st *store.Store, logger *zap.Logger, insight BriefingFunc) (*Server, error) {
	funcMap := template.FuncMap{
		"pln": func(v int64) string {
			return fmt.Sprintf("%d PLN", v)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{store: st, templates: tmpl, logger: logger, insight: insight}, nil
}

// Router builds the HTTP routes. Exposed separately so tests can drive
// the mux without a listening socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleDashboard)

	r.Get("/companies", s.handleCompanies)
	r.Post("/companies", s.handleCompanyCreate)
	r.Get("/companies/{id}", s.handleCompanyDetail)
	r.Post("/companies/{id}", s.handleCompanyUpdate)

	r.Get("/contacts", s.handleContacts)
	r.Post("/contacts", s.handleContactCreate)

	r.Get("/kanban", s.handleKanban)
	r.Post("/kanban/move", s.handleKanbanMove)
	r.Post("/deals", s.handleDealCreate)

	r.Get("/tasks", s.handleTasks)
	r.Post("/tasks", s.handleTaskCreate)
	r.Post("/tasks/{id}/toggle", s.handleTaskToggle)

	r.Get("/reports", s.handleReports)
	r.Get("/reports.json", s.handleReportsJSON)

	r.Get("/settings", s.handleSettings)
	r.Post("/settings/pipelines", s.handlePipelineCreate)
	r.Post("/settings/pipelines/{id}/delete", s.handlePipelineDelete)
	r.Post("/settings/pipelines/{id}/stages", s.handleStageAdd)
	r.Post("/settings/pipelines/{id}/stages/edit", s.handleStageEdit)
	r.Post("/settings/pipelines/{id}/stages/remove", s.handleStageRemove)
	r.Post("/settings/pipelines/{id}/stages/move", s.handleStageMove)
	r.Post("/settings/pipelines/{id}/automation", s.handleAutomation)
	r.Post("/settings/fields", s.handleFieldAdd)
	r.Post("/settings/fields/{id}/delete", s.handleFieldRemove)
	r.Post("/settings/fields/reorder", s.handleFieldReorder)

	r.Get("/partials/syncing", s.handleSyncing)
	r.Get("/partials/notifications", s.handleNotifications)

	return r
}

// Start runs the server until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting web server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) page(w http.ResponseWriter, content, title string, extra map[string]interface{}) {
	data := map[string]interface{}{
		"Title":           title,
		"ContentTemplate": content,
		"Syncing":         s.store.Syncing(),
		"UnsyncedCount":   s.store.UnsyncedCount(),
		"Alerts":          s.store.PendingTasksByUrgency(),
	}
	for k, v := range extra {
		data[k] = v
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	deals := s.store.Deals()
	kpi := reports.ComputeKPI(deals)

	s.page(w, "dashboard-content", "Pulpit", map[string]interface{}{
		"KPI":          kpi,
		"CompanyCount": len(s.store.Companies()),
		"DealCount":    len(deals),
		"PendingTasks": s.store.PendingTasks(),
	})
}

func (s *Server) handleSyncing(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "partials/syncing.html", map[string]interface{}{
		"Syncing":       s.store.Syncing(),
		"UnsyncedCount": s.store.UnsyncedCount(),
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "partials/notifications.html", map[string]interface{}{
		"Alerts": s.store.PendingTasksByUrgency(),
	})
}

func (s *Server) redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.Header.Get("Referer")
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func parseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
