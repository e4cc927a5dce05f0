package flights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skylane/mixmatch"
	"skylane/models"

	"github.com/julienschmidt/httprouter"
)

// memSessions is an in-memory sessionStore; loadErr simulates the store
// being unreachable.
type memSessions struct {
	sessions map[string]mixmatch.Session
	loadErr  error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]mixmatch.Session{}}
}

func (m *memSessions) Save(_ context.Context, s mixmatch.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) Load(_ context.Context, id string) (mixmatch.Session, bool, error) {
	if m.loadErr != nil {
		return mixmatch.Session{}, false, m.loadErr
	}
	s, ok := m.sessions[id]
	return s, ok, nil
}

func newTestHandlers(fn func(models.SearchRequest) ([]models.ItineraryOffer, error)) (*Handlers, *memSessions) {
	sessions := newMemSessions()
	h := &Handlers{
		service:  NewService(&fakeProvider{fn: fn}, newMemCache()),
		sessions: sessions,
	}
	return h, sessions
}

func sessionParams(id string) httprouter.Params {
	return httprouter.Params{{Key: "sessionid", Value: id}}
}

func TestHandleSearchRejectsBadJSON(t *testing.T) {
	h, _ := newTestHandlers(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flights/search", strings.NewReader("{not json"))
	h.HandleSearch(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSearchHappyPath(t *testing.T) {
	h, sessions := newTestHandlers(func(models.SearchRequest) ([]models.ItineraryOffer, error) {
		return []models.ItineraryOffer{fixtureOffer("a", 600), fixtureOffer("b", 400)}, nil
	})

	rec := httptest.NewRecorder()
	body := `{"origin":"LHR","destination":"SIN","departureDate":"2026-04-02","adults":1}`
	req := httptest.NewRequest("POST", "/api/flights/search", strings.NewReader(body))
	h.HandleSearch(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID  string          `json:"sessionId"`
		Results    json.RawMessage `json:"results"`
		TotalCount int             `json:"totalCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("a session id must be issued")
	}
	if resp.TotalCount != 2 {
		t.Errorf("expected 2 offers, got %d", resp.TotalCount)
	}
	if _, ok := sessions.sessions[resp.SessionID]; !ok {
		t.Error("search must open a mix-and-match session")
	}
}

func TestHandleResultsUnknownSession(t *testing.T) {
	h, _ := newTestHandlers(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/flights/results/nope", nil)
	h.HandleResults(rec, req, sessionParams("nope"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown session, got %d", rec.Code)
	}
}

func TestHandleResultsAfterSearch(t *testing.T) {
	h, _ := newTestHandlers(func(models.SearchRequest) ([]models.ItineraryOffer, error) {
		return []models.ItineraryOffer{fixtureOffer("a", 600)}, nil
	})
	if _, err := h.service.Search(context.Background(), "s1", models.SearchRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/flights/results/s1?sort=price", nil)
	h.HandleResults(rec, req, sessionParams("s1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionStoreFailureIsNotNotFound(t *testing.T) {
	h, sessions := newTestHandlers(nil)

	// Absent session: 404.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/mixmatch/s1/toggle", nil)
	h.HandleToggleMixMatch(rec, req, sessionParams("s1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an absent session, got %d", rec.Code)
	}

	// Store failure: 500, not a claim the session does not exist.
	sessions.loadErr = errors.New("connection refused")
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/mixmatch/s1/toggle", nil)
	h.HandleToggleMixMatch(rec, req, sessionParams("s1"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a store failure, got %d", rec.Code)
	}
}

func TestHandleToggleMixMatch(t *testing.T) {
	h, sessions := newTestHandlers(nil)
	sessions.sessions["s1"] = mixmatch.NewSession("s1", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/mixmatch/s1/toggle", nil)
	h.HandleToggleMixMatch(rec, req, sessionParams("s1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !sessions.sessions["s1"].Enabled {
		t.Error("toggle must be persisted")
	}
}
