package sitetext

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/frontdesk-ai/reception-cli/internal/intake"
)

// browserUA is sent on direct fetches; plenty of small-business sites serve
// an empty shell to unknown agents.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// LocalFetcher fetches HTML via net/http and converts it to plaintext.
type LocalFetcher struct {
	client *http.Client
}

// NewLocalFetcher creates a LocalFetcher with the given request timeout.
// Redirects are followed.
func NewLocalFetcher(timeout time.Duration) *LocalFetcher {
	return &LocalFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (l *LocalFetcher) Name() string { return "local_http" }

// Fetch retrieves a URL and strips it to plaintext.
func (l *LocalFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("local_http: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", eris.Wrap(err, "local_http: read body")
	}

	return StripHTML(string(body)), nil
}

var (
	blockTagRes = buildBlockTagRes()
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`[ \t]+`)
	newlineRe   = regexp.MustCompile(`\n{3,}`)
)

func buildBlockTagRes() []*regexp.Regexp {
	tags := []string{"script", "style", "header", "nav", "footer", "form"}
	res := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		res[i] = regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
	}
	return res
}

// StripHTML removes script/style/header/nav/footer/form blocks, strips the
// remaining tags, decodes entities, and collapses whitespace.
func StripHTML(html string) string {
	for _, re := range blockTagRes {
		html = re.ReplaceAllString(html, "")
	}

	html = tagRe.ReplaceAllString(html, " ")
	html = intake.DecodeEntities(html)

	html = spaceRe.ReplaceAllString(html, " ")
	html = newlineRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
