package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultXBaseURL = "https://api.twitter.com"

// XClient searches recent posts on X via the v2 search API. It requires
// a bearer token; without one every search returns empty instead of
// failing, and the collector reports the source as disabled.
type XClient struct {
	// BaseURL can be overridden in tests.
	BaseURL string

	bearerToken  string
	defaultLimit int
	client       *http.Client
	log          *logrus.Logger
}

// NewXClient creates an X search client.
func NewXClient(bearerToken string, defaultLimit int, timeout time.Duration, log *logrus.Logger) *XClient {
	return &XClient{
		BaseURL:      defaultXBaseURL,
		bearerToken:  bearerToken,
		defaultLimit: defaultLimit,
		client:       &http.Client{Timeout: timeout},
		log:          log,
	}
}

// Enabled reports whether a bearer token is configured.
func (c *XClient) Enabled() bool {
	return c.bearerToken != ""
}

type xPayload struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			ReplyCount   int `json:"reply_count"`
			RetweetCount int `json:"retweet_count"`
			QuoteCount   int `json:"quote_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"users"`
	} `json:"includes"`
}

// Search runs a recent-post search for the query, excluding reposts and
// restricting to English. The API enforces a 10-result floor, so the
// effective limit is clamped to 10..100.
func (c *XClient) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	if !c.Enabled() {
		c.log.WithField("source", SourceX).Warn("x search disabled: missing bearer token")
		return nil, nil
	}

	take := clampLimit(limit, c.defaultLimit)
	if take < 10 {
		take = 10
	}
	c.log.WithFields(logrus.Fields{"source": SourceX, "limit": take}).Info("searching x")

	params := url.Values{
		"query":        {fmt.Sprintf("(%s) -is:retweet lang:en", query)},
		"max_results":  {strconv.Itoa(take)},
		"tweet.fields": {"created_at,public_metrics,lang,author_id"},
		"expansions":   {"author_id"},
		"user.fields":  {"username,name"},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.bearerToken}

	body, err := getJSON(ctx, c.client, SourceX, c.BaseURL+"/2/tweets/search/recent", params, headers)
	if err != nil {
		return nil, err
	}

	var payload xPayload
	if err := decodeTolerant(body, &payload); err != nil {
		return nil, &SourceError{Source: SourceX, Err: err}
	}

	usernames := make(map[string]string, len(payload.Includes.Users))
	names := make(map[string]string, len(payload.Includes.Users))
	for _, u := range payload.Includes.Users {
		usernames[u.ID] = u.Username
		names[u.ID] = u.Name
	}

	posts := make([]Post, 0, len(payload.Data))
	for _, item := range payload.Data {
		username := usernames[item.AuthorID]
		link := "https://x.com/i/web/status/" + item.ID
		if username != "" {
			link = fmt.Sprintf("https://x.com/%s/status/%s", username, item.ID)
		}

		author := username
		if author == "" {
			author = names[item.AuthorID]
		}
		if author == "" {
			author = item.AuthorID
		}

		m := item.PublicMetrics
		engagement := sumEngagement(m.LikeCount, m.ReplyCount, m.RetweetCount, m.QuoteCount)

		posts = append(posts, Post{
			Source:     SourceX,
			ID:         item.ID,
			Text:       Compact(item.Text),
			URL:        link,
			Author:     author,
			Community:  "x",
			CreatedAt:  item.CreatedAt,
			Engagement: engagement,
			Counters: Counters{
				Likes:   intPtr(m.LikeCount),
				Replies: intPtr(m.ReplyCount),
				Reposts: intPtr(m.RetweetCount),
				Quotes:  intPtr(m.QuoteCount),
			},
		})
	}

	if len(posts) > take {
		posts = posts[:take]
	}

	c.log.WithFields(logrus.Fields{"source": SourceX, "count": len(posts)}).Info("x search done")
	return posts, nil
}
