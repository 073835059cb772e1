package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ShareEvaluator/internal/model"
)

// DefaultNewsAPIURL is the NewsAPI "everything" endpoint.
const DefaultNewsAPIURL = "https://newsapi.org/v2/everything"

const newsWindow = 30 * 24 * time.Hour

// NewsAPIClient searches NewsAPI for company news from the last 30 days.
type NewsAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewsAPIOption configures the client.
type NewsAPIOption func(*NewsAPIClient)

// WithNewsAPIURL sets a custom endpoint.
func WithNewsAPIURL(u string) NewsAPIOption {
	return func(c *NewsAPIClient) { c.baseURL = u }
}

// WithNewsHTTPClient sets a custom HTTP client.
func WithNewsHTTPClient(hc *http.Client) NewsAPIOption {
	return func(c *NewsAPIClient) { c.httpClient = hc }
}

// WithNewsClock fixes the reference time of the search window.
func WithNewsClock(now func() time.Time) NewsAPIOption {
	return func(c *NewsAPIClient) { c.now = now }
}

// NewNewsAPIClient creates a client.
func NewNewsAPIClient(apiKey string, opts ...NewsAPIOption) *NewsAPIClient {
	c := &NewsAPIClient{
		baseURL:    DefaultNewsAPIURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NewsAPIClient) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// News searches for "{company} stock finance", or the ticker when the
// company name is unknown. Newest articles come first.
func (c *NewsAPIClient) News(ctx context.Context, company, ticker string, maxArticles int) ([]model.Article, error) {
	subject := company
	if subject == "" {
		subject = ticker
	}
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	now := c.now()
	params := url.Values{
		"q":        {subject + " stock finance"},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"from":     {now.Add(-newsWindow).Format("2006-01-02")},
		"to":       {now.Format("2006-01-02")},
		"pageSize": {strconv.Itoa(maxArticles)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	defer resp.Body.Close()

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("newsapi decode (status %d): %w", resp.StatusCode, err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s", body.Code, body.Message)
	}

	articles := make([]model.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, model.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			Description: a.Description,
			PublishedAt: a.PublishedAt,
		})
	}
	return limit(articles, maxArticles), nil
}
