package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bossbooker/portal/internal/kv"
)

func newTestStore(t *testing.T) *DataStore {
	t.Helper()
	s := New(kv.NewMemory())
	clock := int64(1_700_000_000_000)
	s.now = func() int64 {
		clock += 1000
		return clock
	}
	return s
}

// brokenStore fails every operation, for exercising fail-soft paths.
type brokenStore struct{}

func (brokenStore) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenStore) Set(string, []byte) error   { return errors.New("disk on fire") }
func (brokenStore) Delete(string) error        { return errors.New("disk on fire") }
func (brokenStore) Keys() ([]string, error)    { return nil, errors.New("disk on fire") }

func TestSaveVisitorPreservesFirstSeen(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.SaveVisitor(Visitor{
		ID:        "v_1",
		FirstSeen: 100,
		LastSeen:  100,
		Referrer:  "https://google.com",
	}))

	// Later upsert without first_seen must not reset it.
	require.True(t, s.SaveVisitor(Visitor{
		ID:       "v_1",
		LastSeen: 500,
	}))

	v := s.GetVisitor("v_1")
	require.NotNil(t, v)
	assert.Equal(t, int64(100), v.FirstSeen)
	assert.Equal(t, int64(500), v.LastSeen)
	assert.Equal(t, "https://google.com", v.Referrer)
	assert.NotZero(t, v.UpdatedAt)
}

func TestSaveVisitorRejectsMissingID(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.SaveVisitor(Visitor{LastSeen: 1}))
	assert.Empty(t, s.ListVisitors(VisitorQuery{}))
}

func TestListVisitorsSortsByLastSeenDesc(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.SaveVisitor(Visitor{ID: "old", FirstSeen: 1, LastSeen: 10}))
	require.True(t, s.SaveVisitor(Visitor{ID: "new", FirstSeen: 5, LastSeen: 99}))
	require.True(t, s.SaveVisitor(Visitor{ID: "mid", FirstSeen: 2, LastSeen: 50}))

	visitors := s.ListVisitors(VisitorQuery{})
	require.Len(t, visitors, 3)
	assert.Equal(t, "new", visitors[0].ID)
	assert.Equal(t, "mid", visitors[1].ID)
	assert.Equal(t, "old", visitors[2].ID)

	limited := s.ListVisitors(VisitorQuery{Limit: 2})
	require.Len(t, limited, 2)
	assert.Equal(t, "new", limited[0].ID)
}

func TestCountVisitorsFallsBackToFirstSeen(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.SaveVisitor(Visitor{ID: "a", FirstSeen: 100}))
	require.True(t, s.SaveVisitor(Visitor{ID: "b", FirstSeen: 100, LastSeen: 900}))

	assert.Equal(t, 1, s.CountVisitors(50, 150))
	assert.Equal(t, 2, s.CountVisitors(0, 1000))
	assert.Equal(t, 0, s.CountVisitors(1001, 2000))
}

func TestClearAllRequiresConfirmation(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.SaveVisitor(Visitor{ID: "v_1", LastSeen: 1}))
	require.True(t, s.LogEvent(Event{Type: "page_view"}))
	require.NotNil(t, s.SaveLead(Lead{Name: "Jane"}))

	assert.False(t, s.ClearAll(false))
	assert.NotNil(t, s.GetVisitor("v_1"))
	assert.Len(t, s.ListLeads(RecordQuery{}), 1)

	assert.True(t, s.ClearAll(true))
	assert.Nil(t, s.GetVisitor("v_1"))
	assert.Empty(t, s.ListEvents(EventQuery{}))
	assert.Empty(t, s.ListLeads(RecordQuery{}))
}

func TestClearAllKeepsClients(t *testing.T) {
	s := newTestStore(t)
	require.NotNil(t, s.SaveClient(Client{Name: "Acme"}))
	require.True(t, s.ClearAll(true))
	assert.Len(t, s.ListClients(), 1)
}

func TestExportAllIncludesEveryCollection(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.SaveVisitor(Visitor{ID: "v_1", LastSeen: 1}))
	require.True(t, s.LogEvent(Event{Type: "click", Label: "CTA"}))
	require.NotNil(t, s.SaveLead(Lead{Name: "Jane"}))
	require.NotNil(t, s.SavePlanRequest(PlanRequest{Name: "Bob"}))

	snap := s.ExportAll()
	assert.Len(t, snap.Visitors, 1)
	assert.Len(t, snap.Events, 1)
	assert.Len(t, snap.Leads, 1)
	assert.Len(t, snap.PlanRequests, 1)
	assert.NotEmpty(t, snap.ExportedAt)
}

func TestFailSoftOnBrokenBackend(t *testing.T) {
	s := New(brokenStore{})
	s.now = func() int64 { return 42 }

	assert.False(t, s.SaveVisitor(Visitor{ID: "v_1"}))
	assert.Nil(t, s.GetVisitor("v_1"))
	assert.Empty(t, s.ListVisitors(VisitorQuery{}))
	assert.False(t, s.LogEvent(Event{Type: "page_view"}))
	assert.Empty(t, s.ListEvents(EventQuery{}))
	assert.Nil(t, s.SaveLead(Lead{Name: "Jane"}))
	assert.Nil(t, s.UpdateLead("lead_1", RecordUpdate{}))
	assert.Nil(t, s.SavePlanRequest(PlanRequest{Name: "Bob"}))
	assert.False(t, s.ClearAll(true))

	stats := s.GetDashboardStats(7)
	assert.Zero(t, stats.Visitors.Total)
	assert.Zero(t, stats.TotalEvents)
}

func TestCorruptBlobReadsAsEmpty(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(KeyLeads, []byte("not json")))

	s := New(backend)
	assert.Empty(t, s.ListLeads(RecordQuery{}))

	// A fresh write replaces the corrupt blob.
	require.NotNil(t, s.SaveLead(Lead{Name: "Jane"}))
	assert.Len(t, s.ListLeads(RecordQuery{}), 1)
}

func TestGenerateIDUsesPrefix(t *testing.T) {
	id := GenerateID("evt")
	assert.Regexp(t, `^evt_\d+_[0-9a-f]{9}$`, id)
	assert.NotEqual(t, id, GenerateID("evt"))
}
