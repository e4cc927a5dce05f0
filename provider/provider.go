package provider

import (
	"context"
	"errors"

	"skylane/models"
)

// ErrSearchFailed marks a boundary failure (network, bad response body).
// It is retryable and must never be conflated with an empty result list.
var ErrSearchFailed = errors.New("offer search failed")

// SearchProvider is the external offer source. It has already applied the
// request's constraints (max price, max connections); callers do not
// re-filter. Three outcomes: offers, an empty slice, or an error.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest) ([]models.ItineraryOffer, error)
}

// FromEnv picks the HTTP provider when OFFER_API_URL is configured and
// falls back to the deterministic stub otherwise.
func FromEnv() SearchProvider {
	if p := NewHTTPProvider(); p != nil {
		return p
	}
	return NewStubProvider()
}
