// ABOUTME: Shared store test fixtures: temp database, pinned clock, flaky mirror
// ABOUTME: Also covers loading, seeding and the syncing indicator hold window
package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarcz/prospekt/db"
	"github.com/mkarcz/prospekt/models"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	s := New(database, opts...)
	require.NoError(t, s.Load())
	return s
}

// failingMirror rejects every write, simulating an unreachable remote.
type failingMirror struct{}

func (failingMirror) Insert(table string, records interface{}) error {
	return errors.New("remote unavailable")
}

func (failingMirror) Update(table string, patch map[string]interface{}, id uuid.UUID) error {
	return errors.New("remote unavailable")
}

// recordingMirror accepts every write and remembers the tables touched.
// Mirror writes run on their own goroutines, hence the lock.
type recordingMirror struct {
	mu      sync.Mutex
	inserts []string
	updates []string
}

func (m *recordingMirror) Insert(table string, records interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts = append(m.inserts, table)
	return nil
}

func (m *recordingMirror) Update(table string, patch map[string]interface{}, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, table)
	return nil
}

func (m *recordingMirror) insertedTables() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inserts...)
}

// stalledMirror holds every Insert until release is closed, standing in
// for a remote on a slow link.
type stalledMirror struct {
	release chan struct{}
}

func (m stalledMirror) Insert(table string, records interface{}) error {
	<-m.release
	return nil
}

func (m stalledMirror) Update(table string, patch map[string]interface{}, id uuid.UUID) error {
	<-m.release
	return nil
}

func TestLoadSeedsEmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	pipelines := s.Pipelines()
	require.Len(t, pipelines, 1, "fresh database should get exactly one pipeline")
	assert.Equal(t, models.DefaultStages(), pipelines[0].Stages)
	assert.NotEmpty(t, s.Companies())
	assert.NotEmpty(t, s.Deals())
}

func TestLoadSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crm.db")

	database, err := db.OpenDatabase(path)
	require.NoError(t, err)
	s := New(database)
	require.NoError(t, s.Load())

	company, err := s.AddCompany(models.Company{Name: "Stal-Hut"})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	database, err = db.OpenDatabase(path)
	require.NoError(t, err)
	defer database.Close()
	s2 := New(database)
	require.NoError(t, s2.Load())

	found, err := s2.Company(company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stal-Hut", found.Name)
}

func TestNilDatabaseRunsDemoMode(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load())
	assert.NotEmpty(t, s.Pipelines())

	// Mutations still work, they just stay in memory.
	_, err := s.AddCompany(models.Company{Name: "Offline sp. z o.o."})
	require.NoError(t, err)
	assert.NotEmpty(t, s.SearchCompanies("Offline"))
}

func TestSyncingIndicatorHold(t *testing.T) {
	now := testNow
	s := newTestStore(t, WithClock(func() time.Time { return now }))
	assert.False(t, s.Syncing())

	_, err := s.AddCompany(models.Company{Name: "Chwilowa"})
	require.NoError(t, err)
	assert.True(t, s.Syncing(), "indicator should stay lit right after a write")

	now = now.Add(100 * time.Millisecond)
	assert.True(t, s.Syncing(), "indicator must hold for the minimum window")

	now = now.Add(time.Second)
	assert.False(t, s.Syncing())
}

func TestRemoteFailureKeepsLocalState(t *testing.T) {
	s := newTestStore(t, WithMirror(failingMirror{}))

	company, err := s.AddCompany(models.Company{Name: "Bez sieci"})
	require.NoError(t, err, "local write must succeed even when the remote is down")
	s.WaitSync()
	assert.True(t, s.Unsynced(company.ID))
	assert.Equal(t, 1, s.UnsyncedCount())

	// The record is still fully usable locally.
	found, err := s.Company(company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bez sieci", found.Name)
}

func TestRemoteSuccessClearsUnsynced(t *testing.T) {
	mirror := &recordingMirror{}
	s := newTestStore(t, WithMirror(mirror))

	company, err := s.AddCompany(models.Company{Name: "Online"})
	require.NoError(t, err)
	s.WaitSync()
	assert.False(t, s.Unsynced(company.ID))
	assert.Contains(t, mirror.insertedTables(), "companies")
}

func TestMirrorNeverBlocksReaders(t *testing.T) {
	release := make(chan struct{})
	s := newTestStore(t, WithMirror(stalledMirror{release: release}))

	_, err := s.AddCompany(models.Company{Name: "Wolne łącze"})
	require.NoError(t, err, "the local write must return before the remote does")

	done := make(chan struct{})
	go func() {
		s.Companies()
		s.Syncing()
		s.UnsyncedCount()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reads blocked while a mirror write was in flight")
	}

	close(release)
	s.WaitSync()
}

func TestLoadFallsBackWhenTableBroken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crm.db")

	database, err := db.OpenDatabase(path)
	require.NoError(t, err)
	s := New(database)
	require.NoError(t, s.Load())
	require.NoError(t, database.Close())

	// Reopen and break one table after the schema check has passed.
	database, err = db.OpenDatabase(path)
	require.NoError(t, err)
	defer database.Close()
	_, err = database.Exec("DROP TABLE companies")
	require.NoError(t, err)

	s2 := New(database)
	require.NoError(t, s2.Load(), "a damaged database degrades to demo mode instead of failing")
	assert.NotEmpty(t, s2.Companies())
	assert.NotEmpty(t, s2.Pipelines())
}

func TestSearchCompanies(t *testing.T) {
	s := newTestStore(t)

	assert.NotEmpty(t, s.SearchCompanies("tech"), "search is case-insensitive")
	assert.Empty(t, s.SearchCompanies("niematakiejfirmy"))
	assert.Len(t, s.SearchCompanies(""), len(s.Companies()))
}
