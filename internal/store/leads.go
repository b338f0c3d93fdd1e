package store

import "strings"

// SaveLead stores a new contact submission and returns the persisted record.
// Returns nil when the write fails.
func (s *DataStore) SaveLead(data Lead) *Lead {
	lead := data
	lead.ID = GenerateID("lead")
	lead.CreatedAt = s.now()
	lead.Status = StatusNew
	lead.Notes = ""
	lead.UpdatedAt = 0
	if lead.UTM == nil {
		lead.UTM = map[string]string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads := safeGet(s, KeyLeads, []Lead{})
	leads = append([]Lead{lead}, leads...)
	if !safeSet(s, KeyLeads, leads) {
		return nil
	}
	return &lead
}

// RecordQuery narrows lead and plan request listings. Search matches
// case-insensitively against name, email and company.
type RecordQuery struct {
	Status    string
	Search    string
	StartTime int64
	EndTime   int64
	Limit     int
}

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// ListLeads returns leads newest-first, filtered by q.
func (s *DataStore) ListLeads(q RecordQuery) []Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLeadsLocked(q)
}

func (s *DataStore) listLeadsLocked(q RecordQuery) []Lead {
	leads := safeGet(s, KeyLeads, []Lead{})

	result := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if q.Status != "" && l.Status != q.Status {
			continue
		}
		if q.StartTime > 0 && l.CreatedAt < q.StartTime {
			continue
		}
		if q.EndTime > 0 && l.CreatedAt > q.EndTime {
			continue
		}
		if !matchesSearch(q.Search, l.Name, l.Email, l.Company) {
			continue
		}
		result = append(result, l)
	}

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

// GetLead returns a lead by id, or nil.
func (s *DataStore) GetLead(id string) *Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range safeGet(s, KeyLeads, []Lead{}) {
		if l.ID == id {
			return &l
		}
	}
	return nil
}

// RecordUpdate carries the only fields an admin may change on a stored
// submission. Nil pointers leave the field untouched.
type RecordUpdate struct {
	Status *string
	Notes  *string
}

// UpdateLead applies a status or notes change and returns the updated lead,
// or nil when the lead does not exist or the write fails.
func (s *DataStore) UpdateLead(id string, updates RecordUpdate) *Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads := safeGet(s, KeyLeads, []Lead{})
	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		if updates.Status != nil {
			leads[i].Status = *updates.Status
		}
		if updates.Notes != nil {
			leads[i].Notes = *updates.Notes
		}
		leads[i].UpdatedAt = s.now()
		if !safeSet(s, KeyLeads, leads) {
			return nil
		}
		return &leads[i]
	}

	s.log.Warn("lead not found", "id", id)
	return nil
}

// DeleteLead removes a lead by id. Returns false when no such lead exists.
func (s *DataStore) DeleteLead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads := safeGet(s, KeyLeads, []Lead{})
	for i := range leads {
		if leads[i].ID == id {
			leads = append(leads[:i], leads[i+1:]...)
			return safeSet(s, KeyLeads, leads)
		}
	}
	return false
}

// SavePlanRequest stores a new plan request and returns the persisted record.
// Returns nil when the write fails.
func (s *DataStore) SavePlanRequest(data PlanRequest) *PlanRequest {
	req := data
	req.ID = GenerateID("req")
	req.CreatedAt = s.now()
	req.Status = StatusNew
	req.Notes = ""
	req.UpdatedAt = 0
	if req.PlanDetails.Addons == nil {
		req.PlanDetails.Addons = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	requests := safeGet(s, KeyPlanRequests, []PlanRequest{})
	requests = append([]PlanRequest{req}, requests...)
	if !safeSet(s, KeyPlanRequests, requests) {
		return nil
	}
	return &req
}

// ListPlanRequests returns plan requests newest-first, filtered by q.
func (s *DataStore) ListPlanRequests(q RecordQuery) []PlanRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPlanRequestsLocked(q)
}

func (s *DataStore) listPlanRequestsLocked(q RecordQuery) []PlanRequest {
	requests := safeGet(s, KeyPlanRequests, []PlanRequest{})

	result := make([]PlanRequest, 0, len(requests))
	for _, r := range requests {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if q.StartTime > 0 && r.CreatedAt < q.StartTime {
			continue
		}
		if q.EndTime > 0 && r.CreatedAt > q.EndTime {
			continue
		}
		if !matchesSearch(q.Search, r.Name, r.Email, r.Company) {
			continue
		}
		result = append(result, r)
	}

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

// GetPlanRequest returns a plan request by id, or nil.
func (s *DataStore) GetPlanRequest(id string) *PlanRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range safeGet(s, KeyPlanRequests, []PlanRequest{}) {
		if r.ID == id {
			return &r
		}
	}
	return nil
}

// UpdatePlanRequest applies a status or notes change and returns the updated
// request, or nil when it does not exist or the write fails.
func (s *DataStore) UpdatePlanRequest(id string, updates RecordUpdate) *PlanRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := safeGet(s, KeyPlanRequests, []PlanRequest{})
	for i := range requests {
		if requests[i].ID != id {
			continue
		}
		if updates.Status != nil {
			requests[i].Status = *updates.Status
		}
		if updates.Notes != nil {
			requests[i].Notes = *updates.Notes
		}
		requests[i].UpdatedAt = s.now()
		if !safeSet(s, KeyPlanRequests, requests) {
			return nil
		}
		return &requests[i]
	}

	s.log.Warn("plan request not found", "id", id)
	return nil
}

// DeletePlanRequest removes a plan request by id. Returns false when no such
// request exists.
func (s *DataStore) DeletePlanRequest(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := safeGet(s, KeyPlanRequests, []PlanRequest{})
	for i := range requests {
		if requests[i].ID == id {
			requests = append(requests[:i], requests[i+1:]...)
			return safeSet(s, KeyPlanRequests, requests)
		}
	}
	return false
}

// SaveClient stores an accepted submission as a client record.
// Returns nil when the write fails.
func (s *DataStore) SaveClient(data Client) *Client {
	client := data
	if client.ID == "" {
		client.ID = GenerateID("client")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients := safeGet(s, KeyClients, []Client{})
	clients = append([]Client{client}, clients...)
	if !safeSet(s, KeyClients, clients) {
		return nil
	}
	return &client
}

// ListClients returns accepted clients newest-first.
func (s *DataStore) ListClients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return safeGet(s, KeyClients, []Client{})
}

// DeleteClient removes a client by id. Returns false when no such client
// exists.
func (s *DataStore) DeleteClient(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := safeGet(s, KeyClients, []Client{})
	for i := range clients {
		if clients[i].ID == id {
			clients = append(clients[:i], clients[i+1:]...)
			return safeSet(s, KeyClients, clients)
		}
	}
	return false
}

// AcceptLead promotes a contact submission to a client record. The source
// lead is kept and marked accepted. Returns nil when the lead does not exist
// or a write fails.
func (s *DataStore) AcceptLead(id string) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads := safeGet(s, KeyLeads, []Lead{})
	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		leads[i].Status = StatusAccepted
		leads[i].UpdatedAt = s.now()
		if !safeSet(s, KeyLeads, leads) {
			return nil
		}
		client := Client{
			ID:                 GenerateID("client"),
			Name:               leads[i].Name,
			Company:            leads[i].Company,
			Email:              leads[i].Email,
			Phone:              leads[i].Phone,
			AcceptedDate:       s.now(),
			Source:             "contact_form",
			OriginalSubmission: leads[i].CreatedAt,
		}
		clients := safeGet(s, KeyClients, []Client{})
		clients = append([]Client{client}, clients...)
		if !safeSet(s, KeyClients, clients) {
			return nil
		}
		return &client
	}
	return nil
}

// AcceptPlanRequest promotes a plan request to a client record, carrying the
// chosen plan and its monthly value. The source request is kept and marked
// accepted. Returns nil when the request does not exist or a write fails.
func (s *DataStore) AcceptPlanRequest(id string) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := safeGet(s, KeyPlanRequests, []PlanRequest{})
	for i := range requests {
		if requests[i].ID != id {
			continue
		}
		requests[i].Status = StatusAccepted
		requests[i].UpdatedAt = s.now()
		if !safeSet(s, KeyPlanRequests, requests) {
			return nil
		}
		client := Client{
			ID:                 GenerateID("client"),
			Name:               requests[i].Name,
			Company:            requests[i].Company,
			Email:              requests[i].Email,
			Phone:              requests[i].Phone,
			Address:            requests[i].Address,
			Plan:               requests[i].PlanName,
			MonthlyValue:       requests[i].PlanDetails.Monthly,
			AcceptedDate:       s.now(),
			Source:             "service_request",
			OriginalSubmission: requests[i].CreatedAt,
		}
		clients := safeGet(s, KeyClients, []Client{})
		clients = append([]Client{client}, clients...)
		if !safeSet(s, KeyClients, clients) {
			return nil
		}
		return &client
	}
	return nil
}
