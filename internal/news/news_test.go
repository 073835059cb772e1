package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ShareEvaluator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Top Stories</title>
	<item>
		<title>Markets rally on rate hopes</title>
		<link>https://example.com/a</link>
		<description><![CDATA[<p>Stocks <b>rose</b> sharply.</p><script>track()</script>]]></description>
		<pubDate>Tue, 14 Oct 2025 09:30:00 +0000</pubDate>
	</item>
	<item>
		<title>No link item</title>
	</item>
	<item>
		<title>Oil slips</title>
		<link>https://example.com/b</link>
		<pubDate>not a date</pubDate>
	</item>
	<item>
		<title>Third story</title>
		<link>https://example.com/c</link>
	</item>
</channel>
</rss>`

func TestRSSFeed_News(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	feed := &RSSFeed{Source: "Test Wire", URL: srv.URL, HTTPClient: srv.Client()}
	articles, err := feed.News(context.Background(), "Apple", "AAPL", 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Markets rally on rate hopes", articles[0].Title)
	assert.Equal(t, "Stocks rose sharply.", articles[0].Description)
	assert.Equal(t, time.Date(2025, 10, 14, 9, 30, 0, 0, time.UTC), articles[0].PublishedAt.UTC())
	assert.Equal(t, "Test Wire", articles[0].Source)

	assert.Equal(t, "Oil slips", articles[1].Title)
	assert.Equal(t, "View this article on Test Wire", articles[1].Description)
	assert.False(t, articles[1].PublishedAt.IsZero())
}

func TestRSSFeed_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	feed := &RSSFeed{Source: "Test Wire", URL: srv.URL}
	_, err := feed.News(context.Background(), "", "", 5)
	assert.ErrorContains(t, err, "status 403")
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "plain text", cleanHTML("  plain \n text "))
	assert.Equal(t, "A & B", cleanHTML("A &amp; B"))
	assert.Equal(t, "", cleanHTML(""))
}

func TestNewsAPIClient_News(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Tesco PLC stock finance", q.Get("q"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "2025-09-15", q.Get("from"))
		assert.Equal(t, "2025-10-15", q.Get("to"))
		assert.Equal(t, "3", q.Get("pageSize"))
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[
			{"source":{"name":"Reuters"},"title":"Tesco profit up","description":"Grocer beats forecasts",
			 "url":"https://example.com/tesco","publishedAt":"2025-10-14T08:00:00Z"}]}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("key", WithNewsAPIURL(srv.URL), WithNewsHTTPClient(srv.Client()),
		WithNewsClock(func() time.Time { return now }))
	articles, err := c.News(context.Background(), "Tesco PLC", "TSCO.L", 3)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "Tesco profit up", articles[0].Title)
}

func TestNewsAPIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("bad", WithNewsAPIURL(srv.URL))
	_, err := c.News(context.Background(), "", "AAPL", 0)
	assert.ErrorContains(t, err, "apiKeyInvalid")
}

type stubProvider struct {
	name     string
	articles []model.Article
	err      error
	calls    int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) News(_ context.Context, _, _ string, _ int) ([]model.Article, error) {
	s.calls++
	return s.articles, s.err
}

func TestChain(t *testing.T) {
	failing := &stubProvider{name: "a", err: errors.New("down")}
	empty := &stubProvider{name: "b"}
	good := &stubProvider{name: "c", articles: []model.Article{{Title: "hit"}}}
	unused := &stubProvider{name: "d", articles: []model.Article{{Title: "never"}}}

	articles, err := Chain{failing, empty, good, unused}.News(context.Background(), "X", "X", 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "hit", articles[0].Title)
	assert.Zero(t, unused.calls)

	_, err = Chain{failing, &stubProvider{name: "e", err: errors.New("also down")}}.News(context.Background(), "X", "X", 5)
	assert.ErrorContains(t, err, "also down")

	articles, err = Chain{empty}.News(context.Background(), "X", "X", 5)
	assert.NoError(t, err)
	assert.Empty(t, articles)
}
