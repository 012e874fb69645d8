package jira

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/jtl/internal/core/kv"
)

// DefaultSummaryTTL is how long a looked-up summary is reused.
const DefaultSummaryTTL = 10 * time.Minute

// SummaryLookup fetches issue summaries.
type SummaryLookup interface {
	IssueSummary(ctx context.Context, key string) (string, error)
}

// CachedLookup serves summaries from the KV store before asking JIRA.
// Misses are not cached so a newly created issue resolves immediately.
type CachedLookup struct {
	next   SummaryLookup
	cache  *kv.TypedKV[string]
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedLookup wraps next with a KV cache under the "summary" namespace.
func NewCachedLookup(next SummaryLookup, store kv.KV, ttl time.Duration, logger zerolog.Logger) *CachedLookup {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &CachedLookup{
		next:   next,
		cache:  kv.Scoped[string](store, "summary"),
		ttl:    ttl,
		logger: logger.With().Str("cmp", "jira-cache").Logger(),
	}
}

// IssueSummary implements SummaryLookup.
func (c *CachedLookup) IssueSummary(ctx context.Context, key string) (string, error) {
	summary, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		return summary, nil
	case !errors.Is(err, kv.ErrNotFound):
		c.logger.Warn().Err(err).Str("issue_key", key).Msg("summary cache read failed")
	}

	summary, err = c.next.IssueSummary(ctx, key)
	if err != nil {
		return "", err
	}

	if err := c.cache.SetTTL(ctx, key, summary, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("issue_key", key).Msg("summary cache write failed")
	}
	return summary, nil
}

// Forget drops a cached summary.
func (c *CachedLookup) Forget(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}
