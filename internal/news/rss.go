package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ShareEvaluator/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// RSSFeed reads general market news from an RSS feed. It ignores the
// company and returns the latest items.
type RSSFeed struct {
	Source     string
	URL        string
	HTTPClient *http.Client
}

// DefaultFeeds returns the Yahoo Finance and Investing.com market feeds.
func DefaultFeeds() []*RSSFeed {
	return []*RSSFeed{
		{Source: "Yahoo Finance", URL: "https://finance.yahoo.com/rss/topstories"},
		{Source: "Investing.com", URL: "https://www.investing.com/rss/news.rss"},
	}
}

func (f *RSSFeed) Name() string { return "rss:" + f.Source }

type rssDocument struct {
	Items []struct {
		Title       string `xml:"title"`
		Link        string `xml:"link"`
		Description string `xml:"description"`
		PubDate     string `xml:"pubDate"`
	} `xml:"channel>item"`
}

func (f *RSSFeed) News(ctx context.Context, _, _ string, maxArticles int) ([]model.Article, error) {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	client := f.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ShareEvaluator/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed: %w", f.Source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s feed: status %d", f.Source, resp.StatusCode)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s feed decode: %w", f.Source, err)
	}

	now := time.Now()
	articles := make([]model.Article, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		desc := cleanHTML(item.Description)
		if desc == "" {
			desc = "View this article on " + f.Source
		}
		articles = append(articles, model.Article{
			Title:       strings.TrimSpace(item.Title),
			URL:         strings.TrimSpace(item.Link),
			Source:      f.Source,
			Description: desc,
			PublishedAt: parsePubDate(item.PubDate, now),
		})
		if len(articles) == maxArticles {
			break
		}
	}
	return articles, nil
}

// cleanHTML reduces an HTML fragment to its text with collapsed whitespace.
func cleanHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func parsePubDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "Mon, 2 Jan 2006 15:04:05 -0700", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
