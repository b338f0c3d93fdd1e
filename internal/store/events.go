package store

import (
	"slices"
	"strings"
)

// LogEvent appends an analytics event. The id and timestamp are filled in
// when absent. Events are kept newest-first and capped at MaxEvents.
func (s *DataStore) LogEvent(e Event) bool {
	if e.Type == "" {
		s.log.Warn("invalid event data")
		return false
	}

	if e.ID == "" {
		e.ID = GenerateID("evt")
	}
	if e.Timestamp == 0 {
		e.Timestamp = s.now()
	}
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := safeGet(s, KeyEvents, []Event{})
	events = append([]Event{e}, events...)
	if len(events) > MaxEvents {
		events = events[:MaxEvents]
	}
	return safeSet(s, KeyEvents, events)
}

// EventQuery narrows ListEvents output. All set fields must match
// simultaneously. Page matches exactly or by substring.
type EventQuery struct {
	Type      string
	Types     []string
	VisitorID string
	StartTime int64
	EndTime   int64
	Page      string
	Limit     int
}

// ListEvents returns events newest-first, filtered by q.
func (s *DataStore) ListEvents(q EventQuery) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listEventsLocked(q)
}

func (s *DataStore) listEventsLocked(q EventQuery) []Event {
	events := safeGet(s, KeyEvents, []Event{})

	result := make([]Event, 0, len(events))
	for _, e := range events {
		if q.Type != "" && e.Type != q.Type {
			continue
		}
		if len(q.Types) > 0 && !slices.Contains(q.Types, e.Type) {
			continue
		}
		if q.VisitorID != "" && e.VisitorID != q.VisitorID {
			continue
		}
		if q.StartTime > 0 && e.Timestamp < q.StartTime {
			continue
		}
		if q.EndTime > 0 && e.Timestamp > q.EndTime {
			continue
		}
		if q.Page != "" && e.Page != q.Page && !strings.Contains(e.Page, q.Page) {
			continue
		}
		result = append(result, e)
	}

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

// CountEvents counts events of the given type inside the inclusive
// [start, end] window. An empty type matches every event.
func (s *DataStore) CountEvents(eventType string, start, end int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := safeGet(s, KeyEvents, []Event{})
	count := 0
	for _, e := range events {
		if eventType != "" && e.Type != eventType {
			continue
		}
		if e.Timestamp < start || e.Timestamp > end {
			continue
		}
		count++
	}
	return count
}
