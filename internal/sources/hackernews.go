package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultHackerNewsBaseURL = "https://hn.algolia.com"

// HackerNewsClient searches stories and comments via the Algolia HN API.
type HackerNewsClient struct {
	// BaseURL can be overridden in tests.
	BaseURL string

	defaultLimit int
	client       *http.Client
	log          *logrus.Logger
}

// NewHackerNewsClient creates a Hacker News search client.
func NewHackerNewsClient(defaultLimit int, timeout time.Duration, log *logrus.Logger) *HackerNewsClient {
	return &HackerNewsClient{
		BaseURL:      defaultHackerNewsBaseURL,
		defaultLimit: defaultLimit,
		client:       &http.Client{Timeout: timeout},
		log:          log,
	}
}

type hnPayload struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		StoryTitle  string `json:"story_title"`
		CommentText string `json:"comment_text"`
		StoryText   string `json:"story_text"`
		Author      string `json:"author"`
		CreatedAt   string `json:"created_at"`
		Points      int    `json:"points"`
		NumComments int    `json:"num_comments"`
		URL         string `json:"url"`
		StoryURL    string `json:"story_url"`
	} `json:"hits"`
}

// Search queries stories and comments matching the query. Comment hits
// carry no title of their own, so the story title stands in; hits with a
// title but no body use the title as a synthetic body.
func (c *HackerNewsClient) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	take := clampLimit(limit, c.defaultLimit)
	c.log.WithFields(logrus.Fields{"source": SourceHackerNews, "limit": take}).Info("searching hacker news")

	params := url.Values{
		"query":       {query},
		"tags":        {"story,comment"},
		"hitsPerPage": {strconv.Itoa(take)},
	}

	body, err := getJSON(ctx, c.client, SourceHackerNews, c.BaseURL+"/api/v1/search", params, nil)
	if err != nil {
		return nil, err
	}

	var payload hnPayload
	if err := decodeTolerant(body, &payload); err != nil {
		return nil, &SourceError{Source: SourceHackerNews, Err: err}
	}

	posts := make([]Post, 0, len(payload.Hits))
	for _, hit := range payload.Hits {
		raw := hit.CommentText
		if raw == "" {
			raw = hit.StoryText
		}
		text := StripHTML(raw)

		title := Compact(hit.Title)
		if title == "" {
			title = Compact(hit.StoryTitle)
		}
		if text == "" && title != "" {
			text = title
		}

		link := hit.URL
		if link == "" {
			link = hit.StoryURL
		}
		if link == "" && hit.ObjectID != "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}

		engagement := sumEngagement(hit.Points, hit.NumComments)
		posts = append(posts, Post{
			Source:     SourceHackerNews,
			ID:         hit.ObjectID,
			Title:      title,
			Text:       Compact(text),
			URL:        link,
			Author:     hit.Author,
			Community:  "hackernews",
			CreatedAt:  hit.CreatedAt,
			Engagement: engagement,
			Counters: Counters{
				Points:   intPtr(hit.Points),
				Comments: intPtr(hit.NumComments),
			},
		})
	}

	c.log.WithFields(logrus.Fields{"source": SourceHackerNews, "count": len(posts)}).Info("hacker news search done")
	return posts, nil
}
