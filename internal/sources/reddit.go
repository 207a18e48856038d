package sources

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// RedditClient searches Reddit's public JSON search endpoint.
type RedditClient struct {
	// BaseURL can be overridden in tests.
	BaseURL string

	userAgent    string
	defaultLimit int
	client       *http.Client
	log          *logrus.Logger
}

// NewRedditClient creates a Reddit search client.
func NewRedditClient(userAgent string, defaultLimit int, timeout time.Duration, log *logrus.Logger) *RedditClient {
	return &RedditClient{
		BaseURL:      defaultRedditBaseURL,
		userAgent:    userAgent,
		defaultLimit: defaultLimit,
		client:       &http.Client{Timeout: timeout},
		log:          log,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit_name_prefixed"`
	CreatedUTC  float64 `json:"created_utc"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
}

// Search runs a top-of-year Reddit search for the query and normalizes
// the results. The endpoint sometimes returns a list of listings instead
// of a single one; both shapes are accepted, anything else degrades to
// an empty result.
func (c *RedditClient) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	take := clampLimit(limit, c.defaultLimit)
	c.log.WithFields(logrus.Fields{"source": SourceReddit, "limit": take}).Info("searching reddit")

	params := url.Values{
		"q":     {query},
		"sort":  {"top"},
		"t":     {"year"},
		"limit": {strconv.Itoa(take)},
		"type":  {"link,sr"},
	}
	headers := map[string]string{"User-Agent": c.userAgent}

	body, err := getJSON(ctx, c.client, SourceReddit, c.BaseURL+"/search.json", params, headers)
	if err != nil {
		return nil, err
	}

	children, err := c.parseListings(body)
	if err != nil {
		return nil, &SourceError{Source: SourceReddit, Err: err}
	}

	posts := make([]Post, 0, len(children))
	for _, child := range children {
		data := child.Data
		link := data.URL
		if data.Permalink != "" {
			link = "https://www.reddit.com" + data.Permalink
		}

		engagement := sumEngagement(data.Ups, data.NumComments)
		posts = append(posts, Post{
			Source:     SourceReddit,
			ID:         data.ID,
			Title:      Compact(data.Title),
			Text:       Compact(data.Title + " " + data.Selftext),
			URL:        link,
			Author:     data.Author,
			Community:  data.Subreddit,
			CreatedAt:  unixToISO(data.CreatedUTC),
			Engagement: engagement,
			Counters: Counters{
				Upvotes:  intPtr(data.Ups),
				Comments: intPtr(data.NumComments),
			},
		})
	}

	c.log.WithFields(logrus.Fields{"source": SourceReddit, "count": len(posts)}).Info("reddit search done")
	return posts, nil
}

// parseListings accepts either a single listing object or a list of them.
func (c *RedditClient) parseListings(body []byte) ([]struct {
	Data redditPost `json:"data"`
}, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var listings []redditListing
		if err := decodeTolerant(trimmed, &listings); err != nil {
			return nil, err
		}
		c.log.WithField("items", len(listings)).Warn("reddit returned a listing array")
		var children []struct {
			Data redditPost `json:"data"`
		}
		for _, l := range listings {
			children = append(children, l.Data.Children...)
		}
		return children, nil
	}

	var listing redditListing
	if err := decodeTolerant(trimmed, &listing); err != nil {
		return nil, err
	}
	return listing.Data.Children, nil
}

// unixToISO converts a Unix timestamp to an ISO-8601 UTC string. Zero or
// negative timestamps come from missing fields and yield an empty string.
func unixToISO(ts float64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
}
