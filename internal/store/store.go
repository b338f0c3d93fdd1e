// Package store implements the datastore behind the portal: four JSON
// collection blobs (visitors, events, leads, plan requests) plus accepted
// clients, layered over a key-value backend.
//
// Every operation is fail-soft: a backend read error yields the collection's
// zero value and a write error yields ok=false. Callers never see storage
// errors directly, they see empty data and a warning in the log.
package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/logging"
)

// DataStore provides collection-level operations over a kv.Store.
// All read-modify-write cycles are serialized by an internal mutex, so a
// single DataStore is safe for concurrent use.
type DataStore struct {
	kv  kv.Store
	mu  sync.Mutex
	log *slog.Logger

	// now is stubbed in tests
	now func() int64
}

// New returns a DataStore backed by the given key-value store.
func New(backend kv.Store) *DataStore {
	return &DataStore{
		kv:  backend,
		log: logging.With("component", "store"),
		now: func() int64 { return time.Now().UnixMilli() },
	}
}

func safeGet[T any](s *DataStore, key string, def T) T {
	raw, err := s.kv.Get(key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("read failed", "key", key, "error", err)
		}
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn("corrupt collection blob", "key", key, "error", err)
		return def
	}
	return out
}

func safeSet(s *DataStore, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("marshal failed", "key", key, "error", err)
		return false
	}
	if err := s.kv.Set(key, raw); err != nil {
		s.log.Warn("write failed", "key", key, "error", err)
		return false
	}
	return true
}

// GetVisitor returns the visitor profile for id, or nil when unknown.
func (s *DataStore) GetVisitor(id string) *Visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	visitors := safeGet(s, KeyVisitors, map[string]Visitor{})
	if v, ok := visitors[id]; ok {
		return &v
	}
	return nil
}

// SaveVisitor upserts a visitor profile. Fields left at their zero value are
// carried over from the existing profile, so first_seen survives every
// subsequent upsert.
func (s *DataStore) SaveVisitor(v Visitor) bool {
	if v.ID == "" {
		s.log.Warn("invalid visitor object")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	visitors := safeGet(s, KeyVisitors, map[string]Visitor{})
	if existing, ok := visitors[v.ID]; ok {
		if v.FirstSeen == 0 {
			v.FirstSeen = existing.FirstSeen
		}
		if v.LastSeen == 0 {
			v.LastSeen = existing.LastSeen
		}
		if v.SessionCount == 0 {
			v.SessionCount = existing.SessionCount
		}
		if v.PageViews < existing.PageViews {
			v.PageViews = existing.PageViews
		}
		if v.UserAgent == "" {
			v.UserAgent = existing.UserAgent
		}
		if v.PagesVisited == nil {
			v.PagesVisited = existing.PagesVisited
		}
		if v.Referrer == "" {
			v.Referrer = existing.Referrer
		}
		if v.UTM == nil {
			v.UTM = existing.UTM
		}
		if v.DeviceHints == nil {
			v.DeviceHints = existing.DeviceHints
		}
		if v.Geo == nil {
			v.Geo = existing.Geo
		}
	}
	v.UpdatedAt = s.now()

	visitors[v.ID] = v
	return safeSet(s, KeyVisitors, visitors)
}

// VisitorQuery narrows ListVisitors output.
type VisitorQuery struct {
	Limit int
}

// ListVisitors returns visitor profiles sorted by last_seen descending.
func (s *DataStore) ListVisitors(q VisitorQuery) []Visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	visitors := safeGet(s, KeyVisitors, map[string]Visitor{})
	result := make([]Visitor, 0, len(visitors))
	for _, v := range visitors {
		result = append(result, v)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastSeen > result[j].LastSeen
	})

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

// CountVisitors counts visitors whose most recent activity falls inside the
// inclusive [start, end] window.
func (s *DataStore) CountVisitors(start, end int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	visitors := safeGet(s, KeyVisitors, map[string]Visitor{})
	count := 0
	for _, v := range visitors {
		seen := v.LastSeen
		if seen == 0 {
			seen = v.FirstSeen
		}
		if seen >= start && seen <= end {
			count++
		}
	}
	return count
}

// Snapshot is the full-database export payload.
type Snapshot struct {
	Visitors     map[string]Visitor `json:"visitors"`
	Events       []Event            `json:"events"`
	Leads        []Lead             `json:"leads"`
	PlanRequests []PlanRequest      `json:"plan_requests"`
	Clients      []Client           `json:"clients"`
	ExportedAt   string             `json:"exported_at"`
}

// ExportAll returns every collection in one document.
func (s *DataStore) ExportAll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Visitors:     safeGet(s, KeyVisitors, map[string]Visitor{}),
		Events:       safeGet(s, KeyEvents, []Event{}),
		Leads:        safeGet(s, KeyLeads, []Lead{}),
		PlanRequests: safeGet(s, KeyPlanRequests, []PlanRequest{}),
		Clients:      safeGet(s, KeyClients, []Client{}),
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// ClearAll wipes the visitor, event, lead, and plan request collections.
// It refuses to do anything unless confirmed is exactly true.
func (s *DataStore) ClearAll(confirmed bool) bool {
	if !confirmed {
		s.log.Warn("clear operation not confirmed")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok := true
	for _, key := range []string{KeyVisitors, KeyEvents, KeyLeads, KeyPlanRequests} {
		if err := s.kv.Delete(key); err != nil {
			s.log.Error("clear failed", "key", key, "error", err)
			ok = false
		}
	}
	return ok
}
