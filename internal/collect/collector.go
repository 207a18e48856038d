package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"signalscout/internal/config"
	"signalscout/internal/signals"
	"signalscout/internal/sources"
)

// sourceOrder fixes the reporting order for statuses and errors.
var sourceOrder = []sources.Source{sources.SourceReddit, sources.SourceX, sources.SourceHackerNews}

// searcher is the contract every source client satisfies.
type searcher interface {
	Search(ctx context.Context, query string, limit int) ([]sources.Post, error)
}

// credentialedSearcher is a searcher that may be disabled by a missing
// credential.
type credentialedSearcher interface {
	searcher
	Enabled() bool
}

// Options tune a single collection call.
type Options struct {
	// LimitPerSource overrides the configured per-source result cap
	// when positive.
	LimitPerSource int
	// IncludeHackerNews overrides the configured HN toggle when set.
	IncludeHackerNews *bool
}

// Result is the full outcome of one collection call.
type Result struct {
	SpaceQuery string                    `json:"space_query"`
	Posts      []signals.ScoredPost      `json:"posts"`
	Insights   signals.PmfInsights       `json:"insights"`
	Errors     map[sources.Source]string `json:"errors,omitempty"`
}

// Collector fans out over the social sources, scores what comes back,
// and aggregates a PMF reading. It holds only immutable configuration;
// every Collect call is an independent computation.
type Collector struct {
	reddit       searcher
	x            credentialedSearcher
	hackernews   searcher
	defaultLimit int
	includeHN    bool
	log          *logrus.Logger
}

// New creates a collector from configuration.
func New(cfg *config.Config, log *logrus.Logger) *Collector {
	timeout := cfg.Timeout()
	limit := cfg.Collection.LimitPerSource
	return &Collector{
		reddit:       sources.NewRedditClient(cfg.Sources.Reddit.UserAgent, limit, timeout, log),
		x:            sources.NewXClient(cfg.XBearerToken(), limit, timeout, log),
		hackernews:   sources.NewHackerNewsClient(limit, timeout, log),
		defaultLimit: limit,
		includeHN:    cfg.Sources.HackerNews.Enabled,
		log:          log,
	}
}

type fetchOutcome struct {
	source sources.Source
	posts  []sources.Post
	err    error
}

// Collect runs all enabled source fetchers concurrently and folds their
// results into scored posts and aggregate insights. One source failing
// neither cancels nor blocks the others; its status is recorded as
// "error" and it contributes zero posts.
func (c *Collector) Collect(ctx context.Context, query string, opts Options) *Result {
	take := opts.LimitPerSource
	if take <= 0 {
		take = c.defaultLimit
	}
	if take < 1 {
		take = 1
	}
	if take > 100 {
		take = 100
	}

	useHN := c.includeHN
	if opts.IncludeHackerNews != nil {
		useHN = *opts.IncludeHackerNews
	}

	c.log.WithFields(logrus.Fields{
		"limit_per_source": take,
		"include_hn":       useHN,
	}).Info("starting signal collection")

	type task struct {
		source sources.Source
		run    searcher
	}
	tasks := []task{
		{sources.SourceReddit, c.reddit},
		{sources.SourceX, c.x},
	}
	if useHN {
		tasks = append(tasks, task{sources.SourceHackerNews, c.hackernews})
	}

	// Each task writes only its own slot; errors are captured in the
	// outcome rather than returned, so no sibling gets cancelled.
	outcomes := make([]fetchOutcome, len(tasks))
	var g errgroup.Group
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			posts, err := t.run.Search(ctx, query, take)
			outcomes[i] = fetchOutcome{source: t.source, posts: posts, err: err}
			return nil
		})
	}
	g.Wait()

	statuses := make(map[sources.Source]signals.SourceStatus, len(tasks))
	errs := make(map[sources.Source]string)
	var all []sources.Post
	for _, o := range outcomes {
		if o.err != nil {
			statuses[o.source] = signals.StatusError
			errs[o.source] = o.err.Error()
			c.log.WithField("source", o.source).WithError(o.err).Error("source collection failed")
			continue
		}
		if o.source == sources.SourceX && !c.x.Enabled() {
			statuses[o.source] = signals.StatusDisabled
		} else {
			statuses[o.source] = signals.StatusCompleted
		}
		all = append(all, o.posts...)
	}

	scored := make([]signals.ScoredPost, 0, len(all))
	for _, post := range all {
		scored = append(scored, signals.Score(post))
	}
	signals.SortByScore(scored)

	insights := signals.Aggregate(scored, statuses)

	c.log.WithFields(logrus.Fields{
		"posts": len(scored),
		"score": insights.PmfSignalScore,
		"level": insights.SignalLevel,
	}).Info("signal collection done")

	result := &Result{
		SpaceQuery: query,
		Posts:      scored,
		Insights:   insights,
	}
	if len(errs) > 0 {
		result.Errors = errs
	}
	return result
}

// Summarize renders a collection result as one human-readable paragraph.
func Summarize(res *Result) string {
	insights := res.Insights

	var statusParts []string
	for _, source := range sourceOrder {
		if status, ok := insights.SourceStatus[source]; ok {
			statusParts = append(statusParts, fmt.Sprintf("%s:%s", source, status))
		}
	}
	statusSummary := strings.Join(statusParts, ", ")
	if statusSummary == "" {
		statusSummary = "no_sources"
	}

	if insights.SignalLevel == signals.LevelInsufficientData {
		return fmt.Sprintf(
			"Customer-voice PMF signal is insufficient because social data collection returned too few results; source status: %s.",
			statusSummary,
		)
	}

	var refs []string
	for i, item := range insights.TopPainSnippets {
		if i == 3 {
			break
		}
		if snippet := sources.Snippet(item.Snippet, 120); snippet != "" {
			refs = append(refs, snippet)
		}
	}
	references := "No clear high-confidence pain snippets captured."
	if len(refs) > 0 {
		references = strings.Join(refs, " | ")
	}

	base := fmt.Sprintf(
		"Customer-voice PMF signal is %s (%d/100) from %d posts, with %d pain mentions, %d solution-intent mentions, and %d buying signals; source status: %s.",
		insights.SignalLevel,
		insights.PmfSignalScore,
		insights.Counts.TotalPosts,
		insights.Counts.PainPosts,
		insights.Counts.IntentPosts,
		insights.Counts.BuyingPosts,
		statusSummary,
	)

	if len(res.Errors) > 0 {
		var errParts []string
		for _, source := range sourceOrder {
			if msg, ok := res.Errors[source]; ok {
				errParts = append(errParts, fmt.Sprintf("%s: %s", source, msg))
			}
		}
		return fmt.Sprintf("%s Source errors: %s. Top pain references: %s", base, strings.Join(errParts, "; "), references)
	}

	return fmt.Sprintf("%s Top pain references: %s", base, references)
}
