package sources

import "fmt"

// Source identifies which social platform a post came from.
type Source string

const (
	SourceReddit     Source = "reddit"
	SourceX          Source = "x"
	SourceHackerNews Source = "hackernews"
)

// Counters keeps the raw per-source reaction counts that Engagement is
// summed from. Only the fields the originating source reports are set.
type Counters struct {
	Upvotes  *int `json:"upvotes,omitempty"`
	Comments *int `json:"comments,omitempty"`
	Likes    *int `json:"likes,omitempty"`
	Replies  *int `json:"replies,omitempty"`
	Reposts  *int `json:"reposts,omitempty"`
	Quotes   *int `json:"quotes,omitempty"`
	Points   *int `json:"points,omitempty"`
}

// Post is the normalized shape every source client produces. Text has
// HTML stripped, entities decoded, and whitespace collapsed. Engagement
// is the sum of the source's raw counters and is never negative.
type Post struct {
	Source     Source   `json:"source"`
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	Text       string   `json:"text"`
	URL        string   `json:"url,omitempty"`
	Author     string   `json:"author,omitempty"`
	Community  string   `json:"community,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	Engagement int      `json:"engagement"`
	Counters   Counters `json:"counters"`
}

// SourceError reports a failed fetch from one source. Per-source failures
// are isolated by the collector and never abort the overall collection.
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func intPtr(n int) *int { return &n }

// sumEngagement adds raw counters, flooring at zero.
func sumEngagement(counts ...int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total < 0 {
		return 0
	}
	return total
}

// clampLimit bounds a per-source result limit to 1..100, substituting
// fallback when the requested limit is unset.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
