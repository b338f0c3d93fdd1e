package store

import (
	"fmt"
	"sort"
)

// PageCount is one row of the top-pages breakdown.
type PageCount struct {
	Page  string `json:"page"`
	Count int    `json:"count"`
}

// LabelCount is one row of the top-clicks breakdown. The label embeds the
// page the click happened on, e.g. "Book Now (/pricing.html)".
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Conversions counts the funnel event types inside a window.
type Conversions struct {
	LeadSubmit   int `json:"lead_submit"`
	PlanRequest  int `json:"plan_request"`
	QuizComplete int `json:"quiz_complete"`
	QuizStart    int `json:"quiz_start"`
}

// Aggregations summarizes event activity inside a window.
type Aggregations struct {
	TopPages    []PageCount  `json:"topPages"`
	TopClicks   []LabelCount `json:"topClicks"`
	Conversions Conversions  `json:"conversions"`
	TotalEvents int          `json:"totalEvents"`
}

// counter tallies keys while remembering the order they first appeared,
// so tied counts rank by first encounter instead of map iteration order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type countRow struct {
	key   string
	count int
}

func (c *counter) top(n int) []countRow {
	rows := make([]countRow, 0, len(c.order))
	for _, key := range c.order {
		rows = append(rows, countRow{key: key, count: c.counts[key]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].count > rows[j].count
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// EventAggregations computes top pages, top clicks, and conversion counts for
// the inclusive [start, end] window. A zero end means "now".
func (s *DataStore) EventAggregations(start, end int64) Aggregations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventAggregationsLocked(start, end)
}

func (s *DataStore) eventAggregationsLocked(start, end int64) Aggregations {
	if end == 0 {
		end = s.now()
	}
	events := s.listEventsLocked(EventQuery{StartTime: start, EndTime: end})

	pages := newCounter()
	clicks := newCounter()
	var conv Conversions

	for _, e := range events {
		switch e.Type {
		case "page_view":
			page := e.Page
			if page == "" {
				page = "unknown"
			}
			pages.add(page)
		case "click":
			label := e.Label
			if label == "" {
				label = "unknown"
			}
			clicks.add(fmt.Sprintf("%s (%s)", label, e.Page))
		case "lead_submit":
			conv.LeadSubmit++
		case "plan_request":
			conv.PlanRequest++
		case "quiz_complete":
			conv.QuizComplete++
		case "quiz_start":
			conv.QuizStart++
		}
	}

	topPages := make([]PageCount, 0, 10)
	for _, row := range pages.top(10) {
		topPages = append(topPages, PageCount{Page: row.key, Count: row.count})
	}
	topClicks := make([]LabelCount, 0, 10)
	for _, row := range clicks.top(10) {
		topClicks = append(topClicks, LabelCount{Label: row.key, Count: row.count})
	}

	return Aggregations{
		TopPages:    topPages,
		TopClicks:   topClicks,
		Conversions: conv,
		TotalEvents: len(events),
	}
}

// Period describes the lookback window of a stats payload.
type Period struct {
	Days      int   `json:"days"`
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

// TotalRecent pairs an all-time total with a windowed count.
type TotalRecent struct {
	Total  int `json:"total"`
	Recent int `json:"recent"`
}

// TotalNew pairs a windowed total with its still-untouched subset.
type TotalNew struct {
	Total int `json:"total"`
	New   int `json:"new"`
}

// DashboardStats is the admin dashboard summary payload.
type DashboardStats struct {
	Period       Period       `json:"period"`
	Visitors     TotalRecent  `json:"visitors"`
	Sessions     int          `json:"sessions"`
	PageViews    int          `json:"pageViews"`
	TopPages     []PageCount  `json:"topPages"`
	TopClicks    []LabelCount `json:"topClicks"`
	Conversions  Conversions  `json:"conversions"`
	TotalEvents  int          `json:"totalEvents"`
	Leads        TotalNew     `json:"leads"`
	PlanRequests TotalNew     `json:"planRequests"`
}

// GetDashboardStats summarizes the last `days` days of activity.
func (s *DataStore) GetDashboardStats(days int) DashboardStats {
	if days <= 0 {
		days = 7
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.now()
	start := end - int64(days)*24*60*60*1000

	visitors := safeGet(s, KeyVisitors, map[string]Visitor{})
	recent := 0
	for _, v := range visitors {
		seen := v.LastSeen
		if seen == 0 {
			seen = v.FirstSeen
		}
		if seen >= start {
			recent++
		}
	}

	events := s.listEventsLocked(EventQuery{StartTime: start, EndTime: end})
	pageViews := 0
	sessions := map[string]struct{}{}
	for _, e := range events {
		if e.Type == "page_view" {
			pageViews++
		}
		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}
	}

	agg := s.eventAggregationsLocked(start, end)

	leads := s.listLeadsLocked(RecordQuery{StartTime: start, EndTime: end})
	newLeads := 0
	for _, l := range leads {
		if l.Status == StatusNew {
			newLeads++
		}
	}

	requests := s.listPlanRequestsLocked(RecordQuery{StartTime: start, EndTime: end})
	newRequests := 0
	for _, r := range requests {
		if r.Status == StatusNew {
			newRequests++
		}
	}

	return DashboardStats{
		Period:       Period{Days: days, StartTime: start, EndTime: end},
		Visitors:     TotalRecent{Total: len(visitors), Recent: recent},
		Sessions:     len(sessions),
		PageViews:    pageViews,
		TopPages:     agg.TopPages,
		TopClicks:    agg.TopClicks,
		Conversions:  agg.Conversions,
		TotalEvents:  agg.TotalEvents,
		Leads:        TotalNew{Total: len(leads), New: newLeads},
		PlanRequests: TotalNew{Total: len(requests), New: newRequests},
	}
}
