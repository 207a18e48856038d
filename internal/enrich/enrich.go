package enrich

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"signalscout/internal/signals"
	"signalscout/internal/sources"
)

const excerptMaxLen = 500

// PageExcerpt is readable page context fetched for one pain snippet.
type PageExcerpt struct {
	Source  sources.Source `json:"source"`
	URL     string         `json:"url"`
	Excerpt string         `json:"excerpt"`
}

// Fetcher retrieves the pages behind pain snippets and extracts their
// readable text. Fetch or extraction failures skip the page silently;
// enrichment is best-effort context, never a reason to fail a run.
type Fetcher struct {
	client *http.Client
	log    *logrus.Logger
}

// NewFetcher creates a page fetcher.
func NewFetcher(timeout time.Duration, log *logrus.Logger) *Fetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		log: log,
	}
}

// FetchExcerpts fetches up to max snippet pages and returns the readable
// excerpts it could extract.
func (f *Fetcher) FetchExcerpts(ctx context.Context, snippets []signals.PainSnippet, max int) []PageExcerpt {
	var excerpts []PageExcerpt
	for _, snippet := range snippets {
		if len(excerpts) >= max {
			break
		}
		if snippet.URL == "" {
			continue
		}

		text, err := f.fetchPageText(ctx, snippet.URL)
		if err != nil || text == "" {
			f.log.WithField("url", snippet.URL).Debug("no extractable page context")
			continue
		}

		excerpts = append(excerpts, PageExcerpt{
			Source:  snippet.Source,
			URL:     snippet.URL,
			Excerpt: sources.Snippet(text, excerptMaxLen),
		})
	}
	return excerpts
}

func (f *Fetcher) fetchPageText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "signalscout/1.0 (pmf research)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", nil
	}

	return strings.TrimSpace(article.TextContent), nil
}
