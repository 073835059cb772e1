package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ShareEvaluator/internal/analyzer"
	"ShareEvaluator/internal/collector"
	"ShareEvaluator/internal/model"
	"ShareEvaluator/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *model.EvaluationResult {
	params := map[string]model.Value{
		model.ParamPERatio:       model.Some(12),
		model.ParamRevenueGrowth: model.Some(25),
		model.ParamDebtEquity:    model.None(),
	}
	r := scoring.Score(params, "Technology")
	r.Ticker = "AAPL"
	r.Name = "Apple & Co"
	r.EvaluatedAt = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	return &r
}

func TestFormatEvaluation(t *testing.T) {
	data := &model.StockData{
		CurrentPrice: model.Some(180.5),
		Currency:     "USD",
		Technicals: &model.Technicals{
			MA50: model.Some(175), MA200: model.Some(170), RSI14: model.Some(55),
			High52w: model.Some(200), Low52w: model.Some(150), Position52w: model.Some(0.61),
		},
	}
	msg := FormatEvaluation(sampleResult(), data)

	assert.Contains(t, msg, "<b>Apple &amp; Co</b> (AAPL) | 2025-10-15")
	assert.Contains(t, msg, "Price: 180.50 USD")
	assert.Contains(t, msg, "P/E Ratio: 12.00")
	assert.Contains(t, msg, "Debt/Equity: N/A")
	assert.Contains(t, msg, "⚪ n/a")
	assert.Contains(t, msg, "RSI(14): 55.00")
	assert.Contains(t, msg, "(at 61%)")
	assert.Contains(t, msg, "Insights")
	assert.Contains(t, msg, "Most critical for Technology")
}

func TestFormatEvaluation_Points(t *testing.T) {
	r := scoring.NewPointsStrategy().Evaluate(scoring.Input{
		Ticker: "X", Name: "X", Sector: "Energy",
		Parameters: map[string]model.Value{model.ParamPERatio: model.Some(10)},
	})
	msg := FormatEvaluation(&r, nil)
	assert.Contains(t, msg, "points")
	assert.NotContains(t, msg, "Technicals")
}

func TestFormatCandidates(t *testing.T) {
	msg := FormatCandidates("bank", []model.CandidateMatch{
		{Symbol: "BAC", Name: "Bank Of America", Region: "United States"},
		{Symbol: "DBK.DE", Name: "Deutsche Bank"},
	})
	assert.Contains(t, msg, "1. <b>BAC</b> Bank Of America (United States)")
	assert.Contains(t, msg, "/pick DBK.DE")
}

func TestFormatNews(t *testing.T) {
	msg := FormatNews([]model.Article{{
		Title: "Q3 <results>", URL: "https://example.com/?a=1&b=2", Source: "Reuters",
		PublishedAt: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, msg, `<a href="https://example.com/?a=1&amp;b=2">Q3 &lt;results&gt;</a> - Reuters, 14 Oct`)
}

func TestFormatError(t *testing.T) {
	assert.Contains(t, FormatError(&collector.NoDataError{Ticker: "ZZZ"}), "No financial data available for <b>ZZZ</b>")
	assert.Contains(t, FormatError(&collector.RateLimitError{RetryAfter: time.Minute}), "1m0s")
	assert.Contains(t, FormatError(&collector.APIError{StatusCode: 502}), "status 502")
	assert.Contains(t, FormatError(errors.New("a < b")), "a &lt; b")
}

func TestFormatWatchlistReport(t *testing.T) {
	msg := FormatWatchlistReport([]*model.EvaluationResult{sampleResult()}, []string{"ZZZ"})
	assert.Contains(t, msg, "<b>AAPL</b>")
	assert.Contains(t, msg, "Unavailable: ZZZ")
}

type fakeAnalyst struct {
	out      *analyzer.Outcome
	err      error
	lastCall string
}

func (f *fakeAnalyst) Analyze(_ context.Context, q string) (*analyzer.Outcome, error) {
	f.lastCall = "analyze:" + q
	return f.out, f.err
}

func (f *fakeAnalyst) AnalyzeTicker(_ context.Context, t string) (*analyzer.Outcome, error) {
	f.lastCall = "pick:" + t
	return f.out, f.err
}

func (f *fakeAnalyst) Strategy() string { return "points" }

func TestCommandHandler(t *testing.T) {
	a := &fakeAnalyst{out: &analyzer.Outcome{Kind: analyzer.NotFound, Query: "nothing"}}
	handle := NewCommandHandler(a)
	ctx := context.Background()

	assert.Contains(t, handle(ctx, "/help"), "/analyze")
	assert.Contains(t, handle(ctx, "/strategy"), "<b>points</b>")
	assert.Contains(t, handle(ctx, "/analyze"), "Usage")
	assert.Contains(t, handle(ctx, "/bogus"), "Unknown command /bogus")

	assert.Contains(t, handle(ctx, "/analyze@EvalBot  tesco plc"), "No company or ticker found")
	assert.Equal(t, "analyze:tesco plc", a.lastCall)

	handle(ctx, "/pick TSCO.L")
	assert.Equal(t, "pick:TSCO.L", a.lastCall)

	handle(ctx, "vodafone")
	assert.Equal(t, "analyze:vodafone", a.lastCall)

	a.err = &collector.NoDataError{Ticker: "TSCO.L"}
	assert.Contains(t, handle(ctx, "/pick TSCO.L"), "No financial data")
}

func TestFormatOutcome(t *testing.T) {
	out := &analyzer.Outcome{
		Kind:   analyzer.Evaluated,
		Result: sampleResult(),
		News:   []model.Article{{Title: "Headline", URL: "https://example.com"}},
	}
	msg := FormatOutcome(out)
	assert.Contains(t, msg, "AAPL")
	assert.Contains(t, msg, "Recent news")

	amb := FormatOutcome(&analyzer.Outcome{Kind: analyzer.Ambiguous, Query: "bank", Candidates: []model.CandidateMatch{{Symbol: "BAC"}}})
	assert.Contains(t, amb, "/pick BAC")
}

type sentMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	return n
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got sentMessage
	n := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, n.Send(context.Background(), strings.Repeat("x", 5000)))
	assert.Equal(t, "42", got.ChatID)
	assert.Len(t, []rune(got.Text), maxMessageLen)
}

func TestTelegramNotifier_SendError(t *testing.T) {
	n := newTestTelegram(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})

	err := n.Send(context.Background(), "hi")
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegramNotifier_SendWithRetryStopsOnCancel(t *testing.T) {
	n := newTestTelegram(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := n.SendWithRetry(ctx, "hi", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTelegramNotifier_PollingRepliesToSender(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []sentMessage
		polled  int
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			polled++
			if polled == 1 {
				_, _ = w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":"/strategy","chat":{"id":99}}},
					{"update_id":8,"message":{"text":"  ","chat":{"id":99}}}]}`))
				return
			}
			assert.Equal(t, "9", r.URL.Query().Get("offset"))
			cancel()
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var m sentMessage
			_ = json.NewDecoder(r.Body).Decode(&m)
			replies = append(replies, m)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	})

	n.StartPolling(ctx, NewCommandHandler(&fakeAnalyst{}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, replies, 1)
	assert.Equal(t, "99", replies[0].ChatID)
	assert.Contains(t, replies[0].Text, "Scoring strategy")
}

func TestPlainText(t *testing.T) {
	got := PlainText("📊 <b>Tesco &amp; Co</b>\n• <a href=\"https://example.com\">Story</a>\n")
	assert.Equal(t, "📊 Tesco & Co\n• Story <https://example.com>\n", got)
}
