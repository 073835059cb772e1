package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ShareEvaluator/internal/calculator"
	"ShareEvaluator/internal/model"

	"github.com/phuslu/log"
)

// MockFetcher returns fixed data for development and testing.
type MockFetcher struct {
	Data  map[string]*model.StockData
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, ticker string) (*model.StockData, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	data, ok := m.Data[ticker]
	if !ok {
		return nil, &NoDataError{Ticker: ticker, Reason: "unknown to mock"}
	}
	return data.Clone(), nil
}

// GenerateMockBars returns count daily bars drifting gently around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	end := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches stock data, applies manual corrections and derives
// technical indicators from daily bars.
type Collector struct {
	Fetcher   Fetcher
	Overrides OverrideTable
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, overrides OverrideTable) *Collector {
	return &Collector{Fetcher: fetcher, Overrides: overrides}
}

// Collect fetches data for ticker. Indicator failures are logged and leave
// the indicator absent; only a fetch failure is returned.
func (c *Collector) Collect(ctx context.Context, ticker string) (*model.StockData, error) {
	data, err := c.Fetcher.Fetch(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", ticker, c.Fetcher.Name(), err)
	}
	if data.Source == "" {
		data.Source = c.Fetcher.Name()
	}
	if data.FetchedAt.IsZero() {
		data.FetchedAt = time.Now()
	}

	if applied := c.Overrides.Apply(data); len(applied) > 0 {
		log.Info().Str("ticker", ticker).Strs("params", applied).Msg("applied manual corrections")
	}

	c.computeTechnicals(data)
	return data, nil
}

func (c *Collector) computeTechnicals(data *model.StockData) {
	if data.Technicals == nil {
		data.Technicals = &model.Technicals{}
	}
	t := data.Technicals
	bars := data.DailyBars

	if len(bars) > 0 {
		if !data.CurrentPrice.Valid {
			data.CurrentPrice = model.Some(bars[len(bars)-1].Close)
		}

		if ma, err := calculator.CalculateMA50(bars); err != nil {
			indicatorFailed(data.Ticker, "MA50", err)
		} else {
			t.MA50 = model.Some(ma)
		}

		if ma, err := calculator.CalculateMA200(bars); err != nil {
			indicatorFailed(data.Ticker, "MA200", err)
		} else {
			t.MA200 = model.Some(ma)
		}

		if rsi, err := calculator.CalculateRSI(bars, 14); err != nil {
			indicatorFailed(data.Ticker, "RSI", err)
		} else {
			t.RSI14 = model.Some(rsi)
		}

		if h, l, err := calculator.Calculate52WeekRange(bars); err != nil {
			log.Warn().Err(err).Str("ticker", data.Ticker).Msg("52-week range calculation failed")
		} else {
			t.High52w, t.Low52w = model.Some(h), model.Some(l)
		}
	}

	// vendor figures win over the bar-derived range
	if data.FiftyTwoWeekHigh.Valid && data.FiftyTwoWeekLow.Valid {
		t.High52w, t.Low52w = data.FiftyTwoWeekHigh, data.FiftyTwoWeekLow
	}

	price, okPrice := data.CurrentPrice.Get()
	high, okHigh := t.High52w.Get()
	low, okLow := t.Low52w.Get()
	if !okPrice || !okHigh || !okLow {
		return
	}
	if pos, err := calculator.Calculate52WeekPosition(price, high, low); err != nil {
		log.Warn().Err(err).Str("ticker", data.Ticker).Msg("52-week position calculation failed")
	} else {
		t.Position52w = model.Some(pos)
	}
}

// indicatorFailed logs an indicator that could not be computed. A history
// shorter than the window is logged at debug only.
func indicatorFailed(ticker, indicator string, err error) {
	if errors.Is(err, calculator.ErrNotEnoughData) {
		log.Debug().Str("ticker", ticker).Str("indicator", indicator).Msg("history too short for indicator")
		return
	}
	log.Warn().Err(err).Str("ticker", ticker).Str("indicator", indicator).Msg("indicator calculation failed")
}
