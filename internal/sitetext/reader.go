package sitetext

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/frontdesk-ai/reception-cli/pkg/jina"
)

// ReaderFetcher retrieves a URL through the Jina Reader proxy. It is the
// fallback when the direct fetch fails or returns junk.
type ReaderFetcher struct {
	client  jina.Client
	timeout time.Duration
}

// NewReaderFetcher creates a ReaderFetcher with its own per-request timeout.
func NewReaderFetcher(client jina.Client, timeout time.Duration) *ReaderFetcher {
	return &ReaderFetcher{client: client, timeout: timeout}
}

func (r *ReaderFetcher) Name() string { return "reader_proxy" }

// Fetch retrieves the URL via the reader proxy and returns its text content.
func (r *ReaderFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Read(ctx, targetURL)
	if err != nil {
		return "", err
	}
	if resp.Code != 0 && resp.Code != 200 {
		return "", eris.Errorf("reader_proxy: code %d", resp.Code)
	}
	return resp.Data.Content, nil
}
