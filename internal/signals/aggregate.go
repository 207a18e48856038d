package signals

import (
	"fmt"
	"math"
	"sort"

	"signalscout/internal/sources"
)

// SourceStatus records the per-source outcome of a collection call.
type SourceStatus string

const (
	StatusCompleted SourceStatus = "completed"
	StatusDisabled  SourceStatus = "disabled"
	StatusError     SourceStatus = "error"
)

// SignalLevel is the categorical reading of the aggregate PMF score.
type SignalLevel string

const (
	LevelInsufficientData SignalLevel = "insufficient_data"
	LevelWeak             SignalLevel = "weak"
	LevelModerate         SignalLevel = "moderate"
	LevelStrong           SignalLevel = "strong"
)

const (
	// Volume alone saturates confidence at this many posts.
	confidenceSaturationPosts = 40

	signalWeight     = 0.7
	confidenceWeight = 0.3

	strongThreshold   = 70
	moderateThreshold = 45

	maxPainSnippets  = 8
	snippetMaxLen    = 180
	emptyDataSummary = "No social signal posts were collected."
)

// Counts tallies posts per signal category across the whole collection.
type Counts struct {
	TotalPosts  int `json:"total_posts"`
	PainPosts   int `json:"pain_posts"`
	IntentPosts int `json:"intent_posts"`
	BuyingPosts int `json:"buying_posts"`
	SwitchPosts int `json:"switch_posts"`
}

// PainSnippet is one ranked piece of pain evidence.
type PainSnippet struct {
	Source      sources.Source `json:"source"`
	URL         string         `json:"url,omitempty"`
	Snippet     string         `json:"snippet"`
	SignalScore float64        `json:"signal_score"`
}

// PmfInsights is the aggregate product-market-fit reading for one query.
type PmfInsights struct {
	PmfSignalScore  int                             `json:"pmf_signal_score"`
	SignalLevel     SignalLevel                     `json:"signal_level"`
	Summary         string                          `json:"summary"`
	Counts          Counts                          `json:"counts"`
	SourceStatus    map[sources.Source]SourceStatus `json:"source_status"`
	TopPainSnippets []PainSnippet                   `json:"top_pain_snippets"`
}

// Aggregate folds scored posts and per-source statuses into a PMF
// reading. It is pure and, aside from snippet tie-breaks, insensitive to
// input order. An empty post list always yields insufficient_data no
// matter what the statuses say: all-sources-down and all-sources-empty
// are deliberately indistinguishable here.
func Aggregate(posts []ScoredPost, statuses map[sources.Source]SourceStatus) PmfInsights {
	if len(posts) == 0 {
		return PmfInsights{
			PmfSignalScore:  0,
			SignalLevel:     LevelInsufficientData,
			Summary:         emptyDataSummary,
			Counts:          Counts{},
			SourceStatus:    statuses,
			TopPainSnippets: []PainSnippet{},
		}
	}

	counts := Counts{TotalPosts: len(posts)}
	scoreSum := 0.0
	for _, p := range posts {
		if p.PainHits > 0 {
			counts.PainPosts++
		}
		if p.IntentHits > 0 {
			counts.IntentPosts++
		}
		if p.BuyingHits > 0 {
			counts.BuyingPosts++
		}
		if p.SwitchHits > 0 {
			counts.SwitchPosts++
		}
		scoreSum += p.SignalScore
	}
	avgSignal := scoreSum / float64(counts.TotalPosts)

	completed := 0
	for _, status := range statuses {
		if status == StatusCompleted {
			completed++
		}
	}
	coverage := 0.0
	if len(statuses) > 0 {
		coverage = float64(completed) / float64(len(statuses))
	}

	confidence := math.Min(1.0, float64(counts.TotalPosts)/confidenceSaturationPosts) * coverage
	pmfScore := int(math.Round(100 * (signalWeight*avgSignal + confidenceWeight*confidence)))

	level := LevelWeak
	switch {
	case pmfScore >= strongThreshold:
		level = LevelStrong
	case pmfScore >= moderateThreshold:
		level = LevelModerate
	}

	summary := fmt.Sprintf(
		"Collected %d posts with %d pain mentions, %d solution-intent mentions, and %d buying signals.",
		counts.TotalPosts, counts.PainPosts, counts.IntentPosts, counts.BuyingPosts,
	)

	return PmfInsights{
		PmfSignalScore:  pmfScore,
		SignalLevel:     level,
		Summary:         summary,
		Counts:          counts,
		SourceStatus:    statuses,
		TopPainSnippets: topPainSnippets(posts),
	}
}

// topPainSnippets ranks posts with pain evidence and non-empty text by
// descending (signal score, engagement) and renders the best eight as
// truncated single-line snippets.
func topPainSnippets(posts []ScoredPost) []PainSnippet {
	painPosts := make([]ScoredPost, 0, len(posts))
	for _, p := range posts {
		if p.PainHits > 0 && p.Text != "" {
			painPosts = append(painPosts, p)
		}
	}
	stableSortDesc(painPosts)

	if len(painPosts) > maxPainSnippets {
		painPosts = painPosts[:maxPainSnippets]
	}

	snippets := make([]PainSnippet, 0, len(painPosts))
	for _, p := range painPosts {
		snippets = append(snippets, PainSnippet{
			Source:      p.Source,
			URL:         p.URL,
			Snippet:     sources.Snippet(p.Text, snippetMaxLen),
			SignalScore: p.SignalScore,
		})
	}
	return snippets
}

// stableSortDesc sorts by descending signal score, ties broken by higher
// engagement.
func stableSortDesc(posts []ScoredPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].SignalScore != posts[j].SignalScore {
			return posts[i].SignalScore > posts[j].SignalScore
		}
		return posts[i].Engagement > posts[j].Engagement
	})
}
