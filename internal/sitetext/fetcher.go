// Package sitetext retrieves a best-effort plain-text excerpt of a business
// website for prompt personalization. Retrieval is chained: a direct HTTP
// fetch first, then a reader-proxy fallback. Both paths are filtered for
// leaked markup and length before the text is accepted.
package sitetext

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/frontdesk-ai/reception-cli/internal/intake"
)

// Fetcher retrieves the plain text of a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Name() string
}

// Chain tries fetchers in priority order and returns the first result that
// survives the quality filter.
type Chain struct {
	fetchers  []Fetcher
	minLength int
	maxLength int
}

// NewChain creates a Chain. Fetchers are tried in order; text shorter than
// minLength after filtering is rejected, accepted text is truncated to
// maxLength.
func NewChain(minLength, maxLength int, fetchers ...Fetcher) *Chain {
	return &Chain{
		fetchers:  fetchers,
		minLength: minLength,
		maxLength: maxLength,
	}
}

// Fetch returns a website excerpt and true, or ("", false) when no usable
// text could be retrieved. It never returns an error: missing context is an
// expected outcome, not a failure.
func (c *Chain) Fetch(ctx context.Context, url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" || url == intake.Sentinel {
		return "", false
	}

	for _, f := range c.fetchers {
		text, err := f.Fetch(ctx, url)
		if err != nil {
			zap.L().Debug("sitetext: fetch failed, trying next",
				zap.String("fetcher", f.Name()),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}

		text = strings.TrimSpace(text)
		if LooksLikeCode(text) {
			zap.L().Debug("sitetext: rejected code-like content",
				zap.String("fetcher", f.Name()),
				zap.String("url", url),
			)
			continue
		}
		if len(text) < c.minLength {
			zap.L().Debug("sitetext: content too short",
				zap.String("fetcher", f.Name()),
				zap.String("url", url),
				zap.Int("length", len(text)),
			)
			continue
		}

		if len(text) > c.maxLength {
			text = text[:c.maxLength]
		}
		return text, true
	}

	return "", false
}
