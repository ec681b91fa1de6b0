package hrm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/hrm"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	auth  string
	query map[string]string
	body  map[string]any
}

func fakeHRM(t *testing.T, rec *recorded) *httptest.Server {
	t.Helper()
	capture := func(r *http.Request) {
		rec.auth = r.Header.Get("Authorization")
		rec.query = map[string]string{}
		for k := range r.URL.Query() {
			rec.query[k] = r.URL.Query().Get(k)
		}
		rec.body = nil
		if r.ContentLength > 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec.body))
		}
	}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	r := chi.NewRouter()
	r.Get("/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		if chi.URLParam(r, "id") == "404" {
			http.Error(w, "case not found", http.StatusNotFound)
			return
		}
		writeJSON(w, casework.Case{ID: 7, Status: "open"})
	})
	r.Put("/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		writeJSON(w, casework.Case{ID: 7, Status: rec.body["status"].(string)})
	})
	r.Delete("/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/cases/search", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		writeJSON(w, map[string]any{"count": 0})
	})
	r.Post("/contacts", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		writeJSON(w, contact.Contact{ID: 99})
	})
	r.Put("/contacts/{id}/connectToCase", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		writeJSON(w, contact.Contact{ID: 99})
	})
	r.Post("/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		writeJSON(w, contact.SearchResult{Count: 1, Contacts: []contact.Contact{{ID: 3}}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Cases(t *testing.T) {
	ctx := context.Background()
	rec := &recorded{}
	srv := fakeHRM(t, rec)
	client := hrm.New(hrm.Config{BaseURL: srv.URL + "/", Secret: "secret"}, nil)

	c, err := client.GetCase(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), c.ID)
	require.Equal(t, "Basic c2VjcmV0", rec.auth)

	updated, err := client.UpdateCase(ctx, &casework.Case{ID: 7, Status: "closed"})
	require.NoError(t, err)
	require.Equal(t, "closed", updated.Status)

	require.NoError(t, client.CancelCase(ctx, 7))

	page, err := client.SearchCases(ctx, caselist.SearchRequest{
		Helpline: "Line A",
		Filter:   caselist.EmptyFilter(),
		Query:    caselist.PageQuery(1, caselist.SortByID, caselist.SortASC),
	})
	require.NoError(t, err)
	require.NotNil(t, page.Cases)
	require.Equal(t, map[string]string{"limit": "5", "offset": "5", "sortBy": "id", "sortDirection": "ASC"}, rec.query)
	require.Equal(t, "Line A", rec.body["helpline"])
	require.Contains(t, rec.body, "filter")
	require.NotContains(t, rec.body, "Query")
}

func TestClient_StatusError(t *testing.T) {
	srv := fakeHRM(t, &recorded{})
	client := hrm.New(hrm.Config{BaseURL: srv.URL}, nil)

	_, err := client.GetCase(context.Background(), 404)
	var statusErr *hrm.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	require.Equal(t, "case not found", statusErr.Body)
	require.Contains(t, err.Error(), "GET /cases/404")
}

func TestClient_Contacts(t *testing.T) {
	ctx := context.Background()
	rec := &recorded{}
	srv := fakeHRM(t, rec)
	client := hrm.New(hrm.Config{BaseURL: srv.URL, Token: "tok"}, nil)

	saved, err := client.SaveContact(ctx, contact.SaveRequest{TwilioWorkerID: "WK1", Channel: "voice"})
	require.NoError(t, err)
	require.Equal(t, int64(99), saved.ID)
	require.Equal(t, "Bearer tok", rec.auth)
	require.Equal(t, "WK1", rec.body["twilioWorkerId"])

	_, err = client.ConnectToCase(ctx, 99, 7)
	require.NoError(t, err)
	require.Equal(t, float64(7), rec.body["caseId"])

	result, err := client.SearchContacts(ctx, contact.SearchParams{FirstName: "Zoe"}, 20, 40)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, map[string]string{"limit": "20", "offset": "40"}, rec.query)
	require.Equal(t, "Zoe", rec.body["firstName"])
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := fakeHRM(t, &recorded{})
	client := hrm.New(hrm.Config{BaseURL: srv.URL}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetCase(ctx, 7)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_EmptyBodyIsAnError(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null\n"))
	})
	r.Delete("/cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	client := hrm.New(hrm.Config{BaseURL: srv.URL}, nil)
	ctx := context.Background()

	updated, err := client.UpdateCase(ctx, &casework.Case{ID: 7})
	require.ErrorIs(t, err, hrm.ErrEmptyResponse)
	require.Nil(t, updated)

	_, err = client.GetCase(ctx, 7)
	require.ErrorIs(t, err, hrm.ErrEmptyResponse)

	require.NoError(t, client.CancelCase(ctx, 7))
}
