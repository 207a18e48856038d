package report

import (
	"strings"
	"testing"

	"signalscout/internal/collect"
	"signalscout/internal/enrich"
	"signalscout/internal/signals"
	"signalscout/internal/sources"
)

func sampleResult() *collect.Result {
	return &collect.Result{
		SpaceQuery: "invoicing for freelancers",
		Insights: signals.PmfInsights{
			PmfSignalScore: 58,
			SignalLevel:    signals.LevelModerate,
			Summary:        "Collected 12 posts with 4 pain mentions, 3 solution-intent mentions, and 2 buying signals.",
			Counts: signals.Counts{
				TotalPosts:  12,
				PainPosts:   4,
				IntentPosts: 3,
				BuyingPosts: 2,
				SwitchPosts: 1,
			},
			SourceStatus: map[sources.Source]signals.SourceStatus{
				sources.SourceReddit:     signals.StatusCompleted,
				sources.SourceX:          signals.StatusDisabled,
				sources.SourceHackerNews: signals.StatusError,
			},
			TopPainSnippets: []signals.PainSnippet{
				{
					Source:      sources.SourceReddit,
					URL:         "https://www.reddit.com/r/freelance/comments/abc/",
					Snippet:     "invoicing takes me hours every month and it is so frustrating",
					SignalScore: 0.6123,
				},
				{
					Source:      sources.SourceHackerNews,
					Snippet:     "manual invoicing is broken",
					SignalScore: 0.35,
				},
			},
		},
		Errors: map[sources.Source]string{
			sources.SourceHackerNews: "hackernews: unexpected status 500",
		},
	}
}

func TestMarkdownReport(t *testing.T) {
	out := Markdown(sampleResult(), nil)

	for _, want := range []string{
		"# Customer Voice Report: invoicing for freelancers",
		"## PMF Signal",
		"- Score: **58/100** (moderate)",
		"- Posts analyzed: 12",
		"- Pain mentions: 4",
		"## Sources",
		"- reddit: completed",
		"- x: disabled",
		"- hackernews: error (hackernews: unexpected status 500)",
		"## Top Pain Snippets",
		"1. [reddit, 0.6123] invoicing takes me hours every month and it is so frustrating ([link](https://www.reddit.com/r/freelance/comments/abc/))",
		"2. [hackernews, 0.3500] manual invoicing is broken",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q in:\n%s", want, out)
		}
	}

	// Sources are listed in fixed order regardless of map iteration.
	reddit := strings.Index(out, "- reddit:")
	x := strings.Index(out, "- x:")
	hn := strings.Index(out, "- hackernews:")
	if !(reddit < x && x < hn) {
		t.Errorf("unexpected source ordering: reddit=%d x=%d hn=%d", reddit, x, hn)
	}

	if strings.Contains(out, "## Page Context") {
		t.Error("expected no page context section without excerpts")
	}
}

func TestMarkdownReportWithExcerpts(t *testing.T) {
	excerpts := []enrich.PageExcerpt{
		{
			Source:  sources.SourceReddit,
			URL:     "https://example.com/post",
			Excerpt: "The full thread discusses how much time invoicing consumes.",
		},
	}

	out := Markdown(sampleResult(), excerpts)
	if !strings.Contains(out, "## Page Context") {
		t.Errorf("expected page context section in:\n%s", out)
	}
	if !strings.Contains(out, "### https://example.com/post") {
		t.Errorf("expected excerpt heading in:\n%s", out)
	}
	if !strings.Contains(out, "time invoicing consumes") {
		t.Errorf("expected excerpt body in:\n%s", out)
	}
}

func TestMarkdownReportOmitsSnippetSectionWhenEmpty(t *testing.T) {
	res := sampleResult()
	res.Insights.TopPainSnippets = nil

	out := Markdown(res, nil)
	if strings.Contains(out, "## Top Pain Snippets") {
		t.Error("expected snippet section omitted when there are none")
	}
}

func TestRenderHTML(t *testing.T) {
	page, err := RenderHTML(Markdown(sampleResult(), nil))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	html := string(page)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>Customer Voice Report: invoicing for freelancers</h1>",
		"<h2>PMF Signal</h2>",
		"<strong>58/100</strong>",
		`<a href="https://www.reddit.com/r/freelance/comments/abc/">link</a>`,
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q in:\n%s", want, html)
		}
	}
}
