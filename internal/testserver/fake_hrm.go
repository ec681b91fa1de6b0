package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

// FakeHRM is an in-memory HRM API.
type FakeHRM struct {
	Server *httptest.Server

	mu            sync.Mutex
	cases         map[int64]*casework.Case
	contacts      []contact.Contact
	nextContactID int64
	failures      map[string]int
	calls         []string
}

// NewFakeHRM starts a fake HRM API closed at test cleanup.
func NewFakeHRM(t *testing.T) *FakeHRM {
	t.Helper()
	f := &FakeHRM{
		cases:         map[int64]*casework.Case{},
		nextContactID: 100,
		failures:      map[string]int{},
	}

	r := chi.NewRouter()
	r.Post("/cases/search", f.searchCases)
	r.Get("/cases/{id}", f.getCase)
	r.Put("/cases/{id}", f.updateCase)
	r.Delete("/cases/{id}", f.deleteCase)
	r.Post("/contacts", f.saveContact)
	r.Put("/contacts/{id}/connectToCase", f.connectToCase)
	r.Post("/contacts/search", f.searchContacts)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// AddCase stores a case.
func (f *FakeHRM) AddCase(c casework.Case) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cases[c.ID] = c.Clone()
}

// Case returns the stored case.
func (f *FakeHRM) Case(id int64) (*casework.Case, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[id]
	return c.Clone(), ok
}

// AddContact stores a contact returned by searches.
func (f *FakeHRM) AddContact(c contact.Contact) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, c)
}

// FailNext makes the next n requests to route pattern answer 500.
func (f *FakeHRM) FailNext(pattern string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[pattern] = n
}

// Calls lists "METHOD pattern" of every request served.
func (f *FakeHRM) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// fail records the call and reports whether it was made to fail.
func (f *FakeHRM) fail(w http.ResponseWriter, r *http.Request) bool {
	pattern := chi.RouteContext(r.Context()).RoutePattern()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+pattern)
	if f.failures[pattern] > 0 {
		f.failures[pattern]--
		http.Error(w, "unavailable", http.StatusInternalServerError)
		return true
	}
	return false
}

func (f *FakeHRM) getCase(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	c, ok := f.Case(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, c)
}

func (f *FakeHRM) updateCase(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	var c casework.Case
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	stored, ok := f.cases[c.ID]
	if ok {
		c.ConnectedContacts = stored.ConnectedContacts
		c.UpdatedAt = time.Now().UTC()
		f.cases[c.ID] = c.Clone()
	}
	f.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, c)
}

func (f *FakeHRM) deleteCase(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	f.mu.Lock()
	delete(f.cases, id)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeHRM) searchCases(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	var req caselist.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	page := caselist.Page{Cases: []casework.Case{}}
	for _, c := range f.cases {
		if req.Helpline != "" && c.Helpline != req.Helpline {
			continue
		}
		if caselist.Match(req.Filter, c) {
			page.Cases = append(page.Cases, *c.Clone())
		}
	}
	f.mu.Unlock()
	slices.SortFunc(page.Cases, func(a, b casework.Case) int { return int(b.ID - a.ID) })
	page.Count = len(page.Cases)
	writeJSON(w, page)
}

func (f *FakeHRM) saveContact(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	var req contact.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	f.mu.Lock()
	f.nextContactID++
	c := contact.Contact{
		ID:             f.nextContactID,
		TimeOfContact:  now,
		CreatedAt:      now,
		Number:         req.Number,
		Channel:        req.Channel,
		TwilioWorkerID: req.TwilioWorkerID,
		Helpline:       req.Helpline,
		RawJSON:        req.Form,
	}
	f.contacts = append(f.contacts, c)
	f.mu.Unlock()
	writeJSON(w, c)
}

func (f *FakeHRM) connectToCase(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var body struct {
		CaseID int64 `json:"caseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[body.CaseID]
	if !ok {
		http.Error(w, "case not found", http.StatusNotFound)
		return
	}
	for _, ct := range f.contacts {
		if ct.ID == id {
			c.ConnectedContacts = append(c.ConnectedContacts, ct)
			writeJSON(w, ct)
			return
		}
	}
	http.Error(w, "contact not found", http.StatusNotFound)
}

func (f *FakeHRM) searchContacts(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	var params contact.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	f.mu.Lock()
	var hits []contact.Contact
	for _, c := range f.contacts {
		if params.Helpline != "" && c.Helpline != params.Helpline {
			continue
		}
		if params.Counselor != "" && c.TwilioWorkerID != params.Counselor {
			continue
		}
		hits = append(hits, c)
	}
	f.mu.Unlock()

	result := contact.SearchResult{Count: len(hits), Contacts: []contact.Contact{}}
	if offset < len(hits) {
		end := len(hits)
		if limit > 0 {
			end = min(offset+limit, len(hits))
		}
		result.Contacts = hits[offset:end]
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
