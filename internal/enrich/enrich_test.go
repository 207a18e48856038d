package enrich

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"signalscout/internal/signals"
	"signalscout/internal/sources"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Why invoicing still hurts</title></head>
<body>
<article>
<h1>Why invoicing still hurts</h1>
<p>Every freelancer I have talked to this year tells some version of the same
story: the work itself is fine, but getting paid for it is a slow grind of
copied spreadsheets, mismatched line items, and chasing clients over email
for weeks at a time. The tools that exist were built for accountants, not
for the people actually sending the invoices.</p>
<p>The pattern repeats across industries. Designers, contractors, and
consultants all end up duct-taping together templates and reminders because
nothing fits the shape of their billing. By the time a payment lands, the
cost of collecting it has already eaten a real slice of the margin.</p>
<p>That gap between how invoicing should work and how it actually works is
exactly the kind of pain that keeps showing up in community threads, and it
is why so many people say they would pay for something better.</p>
</article>
</body>
</html>`

func snippet(url string) signals.PainSnippet {
	return signals.PainSnippet{
		Source:      sources.SourceReddit,
		URL:         url,
		Snippet:     "invoicing is a slow grind",
		SignalScore: 0.5,
	}
}

func TestFetchExcerptsExtractsReadableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	fetcher := NewFetcher(5*time.Second, testLogger())
	excerpts := fetcher.FetchExcerpts(context.Background(), []signals.PainSnippet{snippet(srv.URL)}, 3)

	if len(excerpts) != 1 {
		t.Fatalf("expected 1 excerpt, got %d", len(excerpts))
	}
	e := excerpts[0]
	if e.URL != srv.URL {
		t.Errorf("unexpected URL: %q", e.URL)
	}
	if e.Source != sources.SourceReddit {
		t.Errorf("unexpected source: %q", e.Source)
	}
	if !strings.Contains(e.Excerpt, "slow grind") {
		t.Errorf("expected article text in excerpt, got %q", e.Excerpt)
	}
	if len([]rune(e.Excerpt)) > 500 {
		t.Errorf("excerpt too long: %d runes", len([]rune(e.Excerpt)))
	}
}

func TestFetchExcerptsSkipsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fetcher := NewFetcher(5*time.Second, testLogger())
	snippets := []signals.PainSnippet{
		snippet(srv.URL),
		snippet(""), // no URL at all
	}

	excerpts := fetcher.FetchExcerpts(context.Background(), snippets, 3)
	if len(excerpts) != 0 {
		t.Errorf("expected failures skipped, got %d excerpts", len(excerpts))
	}
}

func TestFetchExcerptsRespectsMax(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	fetcher := NewFetcher(5*time.Second, testLogger())
	snippets := []signals.PainSnippet{snippet(srv.URL), snippet(srv.URL), snippet(srv.URL)}

	excerpts := fetcher.FetchExcerpts(context.Background(), snippets, 2)
	if len(excerpts) != 2 {
		t.Errorf("expected 2 excerpts, got %d", len(excerpts))
	}
	if calls != 2 {
		t.Errorf("expected fetching to stop at max, got %d calls", calls)
	}
}
