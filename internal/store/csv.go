package store

import (
	"fmt"
	"strings"
)

// ExportCSV renders one collection as CSV. Recognized collections are
// "leads", "plan_requests", "events", and "visitors"; anything else, or an
// empty collection, yields an empty string.
//
// Fields are quoted only when they contain a comma, quote, or newline, with
// embedded quotes doubled.
func (s *DataStore) ExportCSV(collection string) string {
	var headers []string
	var rows [][]string

	switch collection {
	case "leads":
		headers = []string{"id", "created_at", "name", "email", "phone", "company", "subject", "message", "source_page", "referrer", "status", "notes"}
		for _, l := range s.ListLeads(RecordQuery{}) {
			rows = append(rows, []string{
				l.ID, fmt.Sprint(l.CreatedAt), l.Name, l.Email, l.Phone, l.Company,
				l.Subject, l.Message, l.SourcePage, l.Referrer, l.Status, l.Notes,
			})
		}
	case "plan_requests":
		headers = []string{"id", "created_at", "name", "email", "phone", "company", "plan_name", "monthly", "setup", "company_size", "status", "notes"}
		for _, r := range s.ListPlanRequests(RecordQuery{}) {
			rows = append(rows, []string{
				r.ID, fmt.Sprint(r.CreatedAt), r.Name, r.Email, r.Phone, r.Company,
				r.PlanName, r.PlanDetails.Monthly, r.PlanDetails.Setup, r.CompanySize, r.Status, r.Notes,
			})
		}
	case "events":
		headers = []string{"id", "timestamp", "type", "label", "page", "visitor_id", "session_id"}
		for _, e := range s.ListEvents(EventQuery{Limit: MaxEvents}) {
			rows = append(rows, []string{
				e.ID, fmt.Sprint(e.Timestamp), e.Type, e.Label, e.Page, e.VisitorID, e.SessionID,
			})
		}
	case "visitors":
		headers = []string{"id", "first_seen", "last_seen", "page_count", "referrer", "device", "screen_size", "timezone"}
		for _, v := range s.ListVisitors(VisitorQuery{}) {
			var device, screen, timezone string
			if v.DeviceHints != nil {
				device = v.DeviceHints.Device
				screen = v.DeviceHints.Screen
				timezone = v.DeviceHints.Timezone
			}
			rows = append(rows, []string{
				v.ID, fmt.Sprint(v.FirstSeen), fmt.Sprint(v.LastSeen),
				fmt.Sprint(len(v.PagesVisited)), v.Referrer, device, screen, timezone,
			})
		}
	default:
		return ""
	}

	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteString("\n")
		for i, field := range row {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(escapeCSV(field))
		}
	}
	return b.String()
}

func escapeCSV(val string) string {
	if strings.ContainsAny(val, ",\"\n") {
		return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
	}
	return val
}
