package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skylane/layover"
	"skylane/models"
	"skylane/provider"
	"skylane/scoring"
)

// ErrSuperseded means a newer search for the same session took over while
// this one was in flight; its results were discarded, not applied.
var ErrSuperseded = errors.New("search superseded by a newer one")

// Service runs searches against the offer provider and keeps the session's
// current result set in the cache.
type Service struct {
	provider provider.SearchProvider
	cache    ResultCache
}

func NewService(p provider.SearchProvider, cache ResultCache) *Service {
	return &Service{provider: p, cache: cache}
}

// Search fetches offers, derives layovers, scores everything and publishes
// the set for the session. A provider failure is returned as-is (retryable,
// distinct from zero results); a superseded fetch returns ErrSuperseded.
func (s *Service) Search(ctx context.Context, sessionID string, req models.SearchRequest) (*ResultSet, error) {
	generation, err := s.cache.Begin(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("begin search: %w", err)
	}

	start := time.Now()
	offers, err := s.provider.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.ItineraryOffer, 0, len(offers))
	var dataIssues []string
	flagged := make(map[string]bool)
	for _, offer := range offers {
		e, enrichErr := layover.Enrich(offer)
		if enrichErr != nil {
			// Bad timestamps: keep the offer, flag the quality problem.
			dataIssues = append(dataIssues, offer.ID)
			flagged[offer.ID] = true
		}
		enriched = append(enriched, e)
	}

	scored := scoring.ScoreAll(enriched)
	for i := range scored {
		if flagged[scored[i].Offer.ID] {
			scored[i].DataComplete = false
		}
	}

	rs := ResultSet{
		SessionID:  sessionID,
		Request:    req,
		Offers:     scored,
		DataIssues: dataIssues,
		Metadata: models.SearchMetadata{
			TotalResults: len(scored),
			SearchTimeMs: time.Since(start).Milliseconds(),
			Generation:   generation,
		},
	}

	published, err := s.cache.Publish(ctx, sessionID, generation, rs)
	if err != nil {
		return nil, fmt.Errorf("publish results: %w", err)
	}
	if !published {
		return nil, ErrSuperseded
	}
	return &rs, nil
}

// Results loads the session's current set. The bool is false when no
// search has completed for the session (different from an empty set).
func (s *Service) Results(ctx context.Context, sessionID string) (*ResultSet, bool, error) {
	return s.cache.Load(ctx, sessionID)
}

// FindOffer resolves an offer id within the session's current results.
func (s *Service) FindOffer(ctx context.Context, sessionID, offerID string) (*models.ItineraryOffer, error) {
	rs, ok, err := s.cache.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no search results for session %s", sessionID)
	}
	for _, so := range rs.Offers {
		if so.Offer.ID == offerID {
			offer := so.Offer
			return &offer, nil
		}
	}
	return nil, fmt.Errorf("offer %s not in the current results", offerID)
}
