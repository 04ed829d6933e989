// ABOUTME: In-memory application store backed by SQLite with optional remote mirror
// ABOUTME: All mutations are two-phase: apply locally, persist, roll back on failure
package store

import (
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
	"github.com/mkarcz/prospekt/seed"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateStage = errors.New("stage already exists in pipeline")
	ErrUnknownStage   = errors.New("stage does not exist in pipeline")
	ErrOutOfRange     = errors.New("index out of range")
)

// syncHold is the minimum time the syncing indicator stays lit after a
// remote-backed mutation, so it doesn't flicker on fast links.
const syncHold = 400 * time.Millisecond

// Mirror is the remote table store: best-effort durability alongside the
// local database. All calls may fail without affecting local state.
type Mirror interface {
	Insert(table string, records interface{}) error
	Update(table string, patch map[string]interface{}, id uuid.UUID) error
}

// Store owns the session's working copy of every collection in a single
// struct; every mutation is a method.
type Store struct {
	mu     sync.Mutex
	sqlDB  *sql.DB
	mirror Mirror
	logger *zap.Logger
	now    func() time.Time

	companies []models.Company
	contacts  []models.Contact
	deals     []models.Deal
	tasks     []models.Task
	pipelines []models.Pipeline
	fields    []models.CustomField

	// Records whose last remote write failed. Local state is kept; the
	// IDs are surfaced so the UI can flag them.
	unsynced map[uuid.UUID]struct{}

	syncUntil time.Time
	syncWG    sync.WaitGroup
}

type Option func(*Store)

// WithMirror attaches a remote table store mirror.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// WithLogger replaces the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store over an open database. A nil database is allowed and
// keeps the store memory-only (demo mode).
func New(database *sql.DB, opts ...Option) *Store {
	s := &Store{
		sqlDB:    database,
		logger:   zap.NewNop(),
		now:      time.Now,
		unsynced: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load pulls every collection from the local database. If the database is
// unavailable or empty it installs the built-in demo dataset instead.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sqlDB == nil {
		s.installSeed()
		s.logger.Info("no database configured, running in demo mode")
		return nil
	}

	pipelines, err := db.ListPipelines(s.sqlDB)
	if err != nil {
		return s.loadFallback("pipelines", err)
	}

	if len(pipelines) == 0 {
		// First run: seed the default pipeline and sample data.
		s.installSeed()
		s.persistSeed()
		return nil
	}

	companies, err := db.FindCompanies(s.sqlDB, "", 10000)
	if err != nil {
		return s.loadFallback("companies", err)
	}
	contacts, err := db.FindContacts(s.sqlDB, "", nil, 10000)
	if err != nil {
		return s.loadFallback("contacts", err)
	}
	deals, err := db.FindDeals(s.sqlDB, "", nil, 10000)
	if err != nil {
		return s.loadFallback("deals", err)
	}
	tasks, err := db.FindTasks(s.sqlDB, true, 10000)
	if err != nil {
		return s.loadFallback("tasks", err)
	}
	fields, err := db.ListCustomFields(s.sqlDB)
	if err != nil {
		return s.loadFallback("custom fields", err)
	}

	s.pipelines = pipelines
	s.companies = companies
	s.contacts = contacts
	s.deals = deals
	s.tasks = tasks
	s.fields = fields

	return nil
}

// loadFallback swaps in the demo dataset when any part of the local
// database cannot be read, mirroring the nil-database path. The app
// stays usable; nothing is persisted over the broken tables.
func (s *Store) loadFallback(what string, err error) error {
	s.installSeed()
	s.logger.Warn("loading "+what+" failed, falling back to demo dataset", zap.Error(err))
	return nil
}

func (s *Store) installSeed() {
	data := seed.Demo()
	s.companies = data.Companies
	s.contacts = data.Contacts
	s.deals = data.Deals
	s.tasks = data.Tasks
	s.pipelines = data.Pipelines
	s.fields = data.CustomFields
}

func (s *Store) persistSeed() {
	for i := range s.pipelines {
		if err := db.CreatePipeline(s.sqlDB, &s.pipelines[i]); err != nil {
			s.logger.Warn("seeding pipeline failed", zap.Error(err))
		}
	}
	for i := range s.companies {
		if err := db.CreateCompany(s.sqlDB, &s.companies[i]); err != nil {
			s.logger.Warn("seeding company failed", zap.Error(err))
		}
	}
	for i := range s.contacts {
		if err := db.CreateContact(s.sqlDB, &s.contacts[i]); err != nil {
			s.logger.Warn("seeding contact failed", zap.Error(err))
		}
	}
	for i := range s.deals {
		if err := db.CreateDeal(s.sqlDB, &s.deals[i]); err != nil {
			s.logger.Warn("seeding deal failed", zap.Error(err))
		}
	}
	for i := range s.tasks {
		if err := db.CreateTask(s.sqlDB, &s.tasks[i]); err != nil {
			s.logger.Warn("seeding task failed", zap.Error(err))
		}
	}
	for i := range s.fields {
		if err := db.CreateCustomField(s.sqlDB, &s.fields[i]); err != nil {
			s.logger.Warn("seeding custom field failed", zap.Error(err))
		}
	}
}

// markSyncing lights the syncing indicator for at least syncHold.
func (s *Store) markSyncing() {
	s.syncUntil = s.now().Add(syncHold)
}

// Syncing reports whether the UI should show the sync indicator.
func (s *Store) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.syncUntil)
}

// markUnsynced records a failed remote write for a record.
func (s *Store) markUnsynced(id uuid.UUID, err error) {
	s.unsynced[id] = struct{}{}
	s.logger.Warn("remote write failed, record kept locally", zap.String("id", id.String()), zap.Error(err))
}

// WaitSync blocks until every in-flight remote mirror write has
// finished. Called before shutdown so a one-shot CLI command does not
// exit with a write still on the wire.
func (s *Store) WaitSync() {
	s.syncWG.Wait()
}

// Unsynced reports whether the record's last remote write failed.
func (s *Store) Unsynced(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unsynced[id]
	return ok
}

// UnsyncedCount returns the number of records with failed remote writes.
func (s *Store) UnsyncedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unsynced)
}

// Snapshot accessors return copies so callers can iterate without holding
// the store lock.

func (s *Store) Companies() []models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Company(nil), s.companies...)
}

func (s *Store) Contacts() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Contact(nil), s.contacts...)
}

func (s *Store) Deals() []models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Deal(nil), s.deals...)
}

func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task(nil), s.tasks...)
}

func (s *Store) Pipelines() []models.Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Pipeline, len(s.pipelines))
	for i, p := range s.pipelines {
		out[i] = copyPipeline(p)
	}
	return out
}

func (s *Store) CustomFields() []models.CustomField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CustomField(nil), s.fields...)
}

// FieldsFor returns the custom fields targeting one entity type, in
// display order.
func (s *Store) FieldsFor(target string) []models.CustomField {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CustomField
	for _, f := range s.fields {
		if f.Target == target {
			out = append(out, f)
		}
	}
	return out
}

// SearchCompanies filters by name or industry substring, case-insensitive.
// An empty query returns everything.
func (s *Store) SearchCompanies(query string) []models.Company {
	companies := s.Companies()
	if query == "" {
		return companies
	}
	q := strings.ToLower(query)
	var out []models.Company
	for _, c := range companies {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Industry), q) {
			out = append(out, c)
		}
	}
	return out
}

// SearchContacts filters by first name, last name, or email substring.
func (s *Store) SearchContacts(query string) []models.Contact {
	contacts := s.Contacts()
	if query == "" {
		return contacts
	}
	q := strings.ToLower(query)
	var out []models.Contact
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out
}

func copyPipeline(p models.Pipeline) models.Pipeline {
	out := p
	out.Stages = append([]string(nil), p.Stages...)
	if p.Automation != nil {
		out.Automation = make(map[string][]models.AutomatedTaskTemplate, len(p.Automation))
		for stage, templates := range p.Automation {
			out.Automation[stage] = append([]models.AutomatedTaskTemplate(nil), templates...)
		}
	}
	return out
}

// locked lookups, callers hold s.mu

func (s *Store) pipelineIndex(id uuid.UUID) int {
	for i := range s.pipelines {
		if s.pipelines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) dealIndex(id uuid.UUID) int {
	for i := range s.deals {
		if s.deals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) companyIndex(id uuid.UUID) int {
	for i := range s.companies {
		if s.companies[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id uuid.UUID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
