package signals

import (
	"math"
	"strings"

	"signalscout/internal/sources"
)

// Category weights and saturation thresholds. Explicit pain statements
// carry the most evidentiary weight; pain and intent saturate at two
// distinct phrase hits, buying and switch at one.
const (
	painWeight   = 0.35
	intentWeight = 0.25
	buyingWeight = 0.25
	switchWeight = 0.15

	painSaturation   = 2
	intentSaturation = 2
	buyingSaturation = 1
	switchSaturation = 1

	// Engagement adds a log-scaled bonus so high-reaction posts are
	// weighted up without a single viral post dominating.
	engagementBoostCap     = 0.25
	engagementBoostDivisor = 18
)

// ScoredPost is a Post with its signal assessment attached.
type ScoredPost struct {
	sources.Post
	SignalScore  float64  `json:"signal_score"`
	SignalLabels []string `json:"signal_labels"`
	PainHits     int      `json:"pain_hits"`
	IntentHits   int      `json:"intent_hits"`
	BuyingHits   int      `json:"buying_hits"`
	SwitchHits   int      `json:"switch_hits"`
}

// Score assesses one post for PMF evidence. It is pure: no I/O, and the
// same post always produces the same result. The score lands in [0, 1]
// and is rounded to four decimal places.
func Score(post sources.Post) ScoredPost {
	text := strings.TrimSpace(post.Title + " " + post.Text)
	lower := strings.ToLower(text)

	painHits := countPhraseHits(lower, painKeywords)
	intentHits := countPhraseHits(lower, intentKeywords)
	buyingHits := countPhraseHits(lower, buyingKeywords)
	switchHits := countPhraseHits(lower, switchKeywords)

	boost := engagementBoost(post.Engagement)

	raw := painWeight*saturate(painHits, painSaturation) +
		intentWeight*saturate(intentHits, intentSaturation) +
		buyingWeight*saturate(buyingHits, buyingSaturation) +
		switchWeight*saturate(switchHits, switchSaturation) +
		boost

	score := math.Min(1.0, raw)

	labels := make([]string, 0, 4)
	if painHits > 0 {
		labels = append(labels, "pain")
	}
	if intentHits > 0 {
		labels = append(labels, "intent")
	}
	if buyingHits > 0 {
		labels = append(labels, "buying")
	}
	if switchHits > 0 {
		labels = append(labels, "switch")
	}

	return ScoredPost{
		Post:         post,
		SignalScore:  round4(score),
		SignalLabels: labels,
		PainHits:     painHits,
		IntentHits:   intentHits,
		BuyingHits:   buyingHits,
		SwitchHits:   switchHits,
	}
}

// countPhraseHits counts how many distinct phrases occur in the text.
func countPhraseHits(lower string, phrases []string) int {
	hits := 0
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			hits++
		}
	}
	return hits
}

// engagementBoost maps engagement to a diminishing-returns bonus capped
// at engagementBoostCap.
func engagementBoost(engagement int) float64 {
	if engagement < 0 {
		engagement = 0
	}
	return math.Min(engagementBoostCap, math.Log1p(float64(engagement))/engagementBoostDivisor)
}

// saturate normalizes a hit count to [0, 1] against its threshold.
func saturate(hits, threshold int) float64 {
	return math.Min(1.0, float64(hits)/float64(threshold))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// SortByScore orders posts by descending (signal score, engagement).
// The sort is stable, so equal posts keep their arrival order.
func SortByScore(posts []ScoredPost) {
	stableSortDesc(posts)
}
