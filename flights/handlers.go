package flights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"skylane/checkout"
	"skylane/mixmatch"
	"skylane/models"
	"skylane/provider"
	"skylane/rdx"
	"skylane/scoring"
	"skylane/utils"

	"github.com/julienschmidt/httprouter"
)

const mixmatchTTL = 30 * time.Minute

func mixmatchKey(sessionID string) string { return fmt.Sprintf("mixmatch:%s", sessionID) }

// sessionStore keeps mix-and-match sessions between requests.
type sessionStore interface {
	Save(ctx context.Context, session mixmatch.Session) error
	Load(ctx context.Context, sessionID string) (mixmatch.Session, bool, error)
}

// redisSessions is the production sessionStore on the shared connection.
type redisSessions struct{}

func (redisSessions) Save(ctx context.Context, session mixmatch.Session) error {
	return rdx.SetJSON(ctx, mixmatchKey(session.ID), session, mixmatchTTL)
}

func (redisSessions) Load(ctx context.Context, sessionID string) (mixmatch.Session, bool, error) {
	var session mixmatch.Session
	ok, err := rdx.GetJSON(ctx, mixmatchKey(sessionID), &session)
	return session, ok, err
}

// Handlers carries the search service and session store behind the HTTP
// surface.
type Handlers struct {
	service  *Service
	sessions sessionStore
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service, sessions: redisSessions{}}
}

// NewDefaultHandlers wires the env-selected provider and the Redis cache.
func NewDefaultHandlers() *Handlers {
	return NewHandlers(NewService(provider.FromEnv(), NewRedisResultCache()))
}

type searchBody struct {
	SessionID string `json:"sessionId,omitempty"`
	models.SearchRequest
}

// HandleSearch runs a search for a session. A fresh session id is issued
// when the caller has none. A new search always resets the session's
// mix-and-match selections; they refer to offers that no longer exist.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = utils.GetUUID()
	}

	rs, err := h.service.Search(r.Context(), sessionID, body.SearchRequest)
	if errors.Is(err, ErrSuperseded) {
		utils.RespondWithError(w, http.StatusConflict, "Search superseded by a newer one")
		return
	}
	if err != nil {
		log.Printf("search failed for session %s: %v", sessionID, err)
		utils.RespondWithError(w, http.StatusBadGateway, "Flight search failed, please retry")
		return
	}

	session := mixmatch.NewSession(sessionID, body.SearchRequest.OneWay())
	if err := h.sessions.Save(r.Context(), session); err != nil {
		log.Printf("failed to store mixmatch session %s: %v", sessionID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}

	ranked := scoring.Rank(rs.Offers, scoring.SortByScore)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sessionId":  sessionID,
		"metadata":   rs.Metadata,
		"dataIssues": rs.DataIssues,
		"results":    scoring.Preview(ranked),
		"totalCount": len(ranked),
	})
}

// HandleResults serves the session's current set, re-ranked by the
// requested key over the full set, cut to a preview unless view=all.
func (h *Handlers) HandleResults(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	rs, ok, err := h.service.Results(r.Context(), sessionID)
	if err != nil {
		log.Printf("failed to load results for session %s: %v", sessionID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "No search results for this session")
		return
	}

	opts := utils.ParseResultViewOptions(r)
	ranked := scoring.Rank(rs.Offers, scoring.ParseSortKey(opts.SortBy))
	view := ranked
	if !opts.ShowAll {
		view = scoring.Preview(ranked)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sessionId":  sessionID,
		"metadata":   rs.Metadata,
		"dataIssues": rs.DataIssues,
		"results":    view,
		"totalCount": len(ranked),
	})
}

// sessionFor loads the session named in the path, answering the request
// itself when it cannot: store failures are 500, absent sessions 404.
func (h *Handlers) sessionFor(w http.ResponseWriter, r *http.Request, sessionID string) (mixmatch.Session, bool) {
	session, ok, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		log.Printf("failed to load mixmatch session %s: %v", sessionID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load session")
		return mixmatch.Session{}, false
	}
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown session")
		return mixmatch.Session{}, false
	}
	return session, true
}

// HandleToggleMixMatch flips mix-and-match mode for the session. Both
// selections are cleared with it.
func (h *Handlers) HandleToggleMixMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	session, ok := h.sessionFor(w, r, sessionID)
	if !ok {
		return
	}
	session = session.Toggle()
	if err := h.sessions.Save(r.Context(), session); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, session)
}

type selectBody struct {
	OfferID string `json:"offerId"`
}

// HandleSelectOutbound records an outbound choice. For one-way trips, or
// with mix-and-match off, the choice is final and a checkout is opened
// immediately.
func (h *Handlers) HandleSelectOutbound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	var body selectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OfferID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "offerId is required")
		return
	}

	session, ok := h.sessionFor(w, r, sessionID)
	if !ok {
		return
	}
	offer, err := h.service.FindOffer(r.Context(), sessionID, body.OfferID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	session, final := session.SelectOutbound(*offer)
	if err := h.sessions.Save(r.Context(), session); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}

	if final != nil {
		h.respondWithCheckout(w, r, *final, session)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, session)
}

// HandleSelectInbound records an inbound choice. It never finalizes;
// Combine does.
func (h *Handlers) HandleSelectInbound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	var body selectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OfferID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "offerId is required")
		return
	}

	session, ok := h.sessionFor(w, r, sessionID)
	if !ok {
		return
	}
	if !session.Enabled {
		utils.RespondWithError(w, http.StatusConflict, "Mix-and-match is not enabled for this session")
		return
	}
	offer, err := h.service.FindOffer(r.Context(), sessionID, body.OfferID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	session = session.SelectInbound(*offer)
	if err := h.sessions.Save(r.Context(), session); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, session)
}

// HandleCombine fuses the two selections and opens a checkout on the
// combined offer. Selections must both be present; the error names what is
// missing.
func (h *Handlers) HandleCombine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	session, ok := h.sessionFor(w, r, sessionID)
	if !ok {
		return
	}

	combined, err := session.Combine()
	var missing *mixmatch.MissingSelectionError
	if errors.As(err, &missing) {
		utils.RespondWithValidationError(w, err.Error(), missing.Missing)
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to combine selections")
		return
	}
	h.respondWithCheckout(w, r, combined, session)
}

// respondWithCheckout hands a finalized offer to the booking state machine
// and returns the opened checkout plus its session token.
func (h *Handlers) respondWithCheckout(w http.ResponseWriter, r *http.Request, offer models.ItineraryOffer, session mixmatch.Session) {
	c := checkout.Start(offer)
	if err := checkout.Save(r.Context(), c); err != nil {
		log.Printf("failed to store checkout %s: %v", c.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to open checkout")
		return
	}
	token, err := checkout.SessionToken(c.ID)
	if err != nil {
		log.Printf("failed to sign checkout token for %s: %v", c.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to open checkout")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"session":  session,
		"offer":    offer,
		"checkout": c,
		"token":    token,
	})
}
