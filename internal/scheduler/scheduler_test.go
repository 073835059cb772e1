package scheduler

import (
	"context"
	"errors"
	"testing"

	"ShareEvaluator/internal/analyzer"
	"ShareEvaluator/internal/cache"
	"ShareEvaluator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyst struct{ calls []string }

func (f *fakeAnalyst) AnalyzeTicker(_ context.Context, ticker string) (*analyzer.Outcome, error) {
	f.calls = append(f.calls, ticker)
	if ticker == "BAD" {
		return &analyzer.Outcome{Ticker: ticker}, errors.New("no data")
	}
	return &analyzer.Outcome{
		Kind:   analyzer.Evaluated,
		Ticker: ticker,
		Result: &model.EvaluationResult{
			Ticker:         ticker,
			Percentage:     72,
			Recommendation: model.Recommendation{Label: "BUY"},
		},
	}, nil
}

type fakeSender struct{ sent []string }

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

type countingStore struct {
	cache.NoopStore
	prunes int
}

func (c *countingStore) Prune(context.Context) (int64, error) {
	c.prunes++
	return 3, nil
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeAnalyst{}, cache.NewNoopStore(), nil, []string{"AAPL"})
	require.NoError(t, s.RegisterAll("0 */30 * * * *", "0 0 8 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 2)

	s = NewScheduler(context.Background(), &fakeAnalyst{}, cache.NewNoopStore(), nil, nil)
	require.NoError(t, s.RegisterAll("0 */30 * * * *", "0 0 8 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1, "no report without a watchlist")

	assert.Error(t, s.RegisterAll("not a cron", ""))
}

func TestWatchlistReport(t *testing.T) {
	a := &fakeAnalyst{}
	sender := &fakeSender{}
	s := NewScheduler(context.Background(), a, cache.NewNoopStore(), sender, []string{"AAPL", "BAD", "VOD.L"})

	s.RunReportNow()

	assert.Equal(t, []string{"AAPL", "BAD", "VOD.L"}, a.calls)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "<b>AAPL</b>: 72.0% BUY")
	assert.Contains(t, sender.sent[0], "<b>VOD.L</b>")
	assert.Contains(t, sender.sent[0], "Unavailable: BAD")
}

func TestWatchlistReport_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeAnalyst{}
	sender := &fakeSender{}
	s := NewScheduler(ctx, a, cache.NewNoopStore(), sender, []string{"AAPL"})

	s.RunReportNow()
	assert.Empty(t, a.calls)
	assert.Empty(t, sender.sent)
}

func TestPruneCache(t *testing.T) {
	store := &countingStore{}
	s := NewScheduler(context.Background(), &fakeAnalyst{}, store, nil, nil)
	s.pruneCache()
	assert.Equal(t, 1, store.prunes)
}
