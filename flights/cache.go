package flights

import (
	"context"
	"fmt"
	"time"

	"skylane/models"
	"skylane/rdx"
	"skylane/scoring"
)

// ResultSet is everything one search produced for a session. It is
// replaced wholesale by the next search; ranking always works on the full
// set stored here.
type ResultSet struct {
	SessionID  string                `json:"sessionId"`
	Request    models.SearchRequest  `json:"request"`
	Offers     []scoring.ScoredOffer `json:"offers"`
	DataIssues []string              `json:"dataIssues,omitempty"` // offer ids with quality problems
	Metadata   models.SearchMetadata `json:"metadata"`
}

// ResultCache stores at most one result set per session and enforces
// last-write-wins across overlapping searches: Begin hands out a new
// generation and discards the previous set up front; Publish refuses
// results whose generation has been superseded.
type ResultCache interface {
	Begin(ctx context.Context, sessionID string) (int64, error)
	Publish(ctx context.Context, sessionID string, generation int64, rs ResultSet) (bool, error)
	Load(ctx context.Context, sessionID string) (*ResultSet, bool, error)
}

const resultTTL = 30 * time.Minute

func genKey(sessionID string) string { return fmt.Sprintf("search:%s:gen", sessionID) }

// resultsKey is scoped to one generation. A stale publish writes under its
// own (dead) generation and can never shadow a newer set, regardless of
// arrival order; dead keys just expire.
func resultsKey(sessionID string, generation int64) string {
	return fmt.Sprintf("search:%s:results:%d", sessionID, generation)
}

// redisCache is the production ResultCache on the shared Redis connection.
type redisCache struct{}

// NewRedisResultCache returns the Redis-backed cache.
func NewRedisResultCache() ResultCache { return redisCache{} }

func (redisCache) Begin(ctx context.Context, sessionID string) (int64, error) {
	gen, err := rdx.Incr(ctx, genKey(sessionID))
	if err != nil {
		return 0, err
	}
	// Drop the previous set now so a slow fetch never shows stale results.
	if err := rdx.Del(ctx, resultsKey(sessionID, gen-1)); err != nil {
		return 0, err
	}
	return gen, nil
}

func (redisCache) Publish(ctx context.Context, sessionID string, generation int64, rs ResultSet) (bool, error) {
	if err := rdx.SetJSON(ctx, resultsKey(sessionID, generation), rs, resultTTL); err != nil {
		return false, err
	}
	// Checked after the write: if a newer search began in between, its
	// generation differs and Load will never see what we just stored.
	current, err := rdx.GetInt64(ctx, genKey(sessionID))
	if err != nil {
		return false, err
	}
	return current == generation, nil
}

func (redisCache) Load(ctx context.Context, sessionID string) (*ResultSet, bool, error) {
	gen, err := rdx.GetInt64(ctx, genKey(sessionID))
	if err != nil || gen == 0 {
		return nil, false, err
	}
	var rs ResultSet
	ok, err := rdx.GetJSON(ctx, resultsKey(sessionID, gen), &rs)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rs, true, nil
}
