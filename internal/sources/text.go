package sources

import (
	"strings"

	"golang.org/x/net/html"
)

// Compact collapses all internal whitespace to single spaces and trims
// the ends.
func Compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML removes markup from a fragment and returns its visible text
// with entities decoded and whitespace compacted. Script and style
// contents are dropped.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return Compact(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return Compact(b.String())
}

// Snippet compacts text and truncates it to maxLen characters, replacing
// the tail with an ellipsis. Truncation counts runes so multi-byte text
// is never split mid-character.
func Snippet(s string, maxLen int) string {
	clean := Compact(s)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	return string(runes[:maxLen-3]) + "..."
}
