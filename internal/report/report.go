package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"signalscout/internal/collect"
	"signalscout/internal/enrich"
	"signalscout/internal/sources"
)

var md = goldmark.New()

// statusOrder fixes the source listing order in reports.
var statusOrder = []sources.Source{sources.SourceReddit, sources.SourceX, sources.SourceHackerNews}

// Markdown renders a collection result as a markdown report. Page
// excerpts are optional enrichment context and may be nil.
func Markdown(res *collect.Result, excerpts []enrich.PageExcerpt) string {
	insights := res.Insights
	var b strings.Builder

	fmt.Fprintf(&b, "# Customer Voice Report: %s\n\n", res.SpaceQuery)
	fmt.Fprintf(&b, "%s\n\n", insights.Summary)

	b.WriteString("## PMF Signal\n\n")
	fmt.Fprintf(&b, "- Score: **%d/100** (%s)\n", insights.PmfSignalScore, insights.SignalLevel)
	fmt.Fprintf(&b, "- Posts analyzed: %d\n", insights.Counts.TotalPosts)
	fmt.Fprintf(&b, "- Pain mentions: %d\n", insights.Counts.PainPosts)
	fmt.Fprintf(&b, "- Solution-intent mentions: %d\n", insights.Counts.IntentPosts)
	fmt.Fprintf(&b, "- Buying signals: %d\n", insights.Counts.BuyingPosts)
	fmt.Fprintf(&b, "- Switching mentions: %d\n", insights.Counts.SwitchPosts)
	b.WriteString("\n")

	b.WriteString("## Sources\n\n")
	for _, source := range statusOrder {
		status, ok := insights.SourceStatus[source]
		if !ok {
			continue
		}
		line := fmt.Sprintf("- %s: %s", source, status)
		if msg, failed := res.Errors[source]; failed {
			line += " (" + msg + ")"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if len(insights.TopPainSnippets) > 0 {
		b.WriteString("## Top Pain Snippets\n\n")
		for i, snippet := range insights.TopPainSnippets {
			fmt.Fprintf(&b, "%d. [%s, %.4f] %s", i+1, snippet.Source, snippet.SignalScore, snippet.Snippet)
			if snippet.URL != "" {
				fmt.Fprintf(&b, " ([link](%s))", snippet.URL)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(excerpts) > 0 {
		b.WriteString("## Page Context\n\n")
		for _, excerpt := range excerpts {
			fmt.Fprintf(&b, "### %s\n\n", excerpt.URL)
			fmt.Fprintf(&b, "%s\n\n", excerpt.Excerpt)
		}
	}

	return b.String()
}

// RenderHTML converts a markdown report into a standalone HTML page.
func RenderHTML(markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>signalscout report</title>\n")
	page.WriteString("<style>body{max-width:48rem;margin:2rem auto;padding:0 1rem;font-family:sans-serif;line-height:1.5}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("\n</body>\n</html>\n")
	return page.Bytes(), nil
}
