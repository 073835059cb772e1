package collector

import (
	"context"
	"fmt"
	"time"

	"ShareEvaluator/internal/model"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
)

// YahooFetcher implements Fetcher with Yahoo Finance equity quotes. Yahoo
// quotes carry valuation ratios but no sector or balance sheet, so the
// remaining core parameters come back absent.
type YahooFetcher struct {
	getEquity func(symbol string) (*finance.Equity, error)
	throttle  *Throttle
}

// NewYahooFetcher creates a fetcher. A nil throttle disables spacing.
func NewYahooFetcher(throttle *Throttle) *YahooFetcher {
	if throttle == nil {
		throttle = NewThrottle(0, nil)
	}
	return &YahooFetcher{getEquity: equity.Get, throttle: throttle}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// Fetch loads the equity quote of ticker. The finance-go client has no
// context support, so cancellation is only checked before the call.
func (f *YahooFetcher) Fetch(ctx context.Context, ticker string) (*model.StockData, error) {
	if err := f.throttle.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}
	q, err := f.getEquity(ticker)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote %s: %w", ticker, err)
	}
	if q == nil || q.Symbol == "" {
		return nil, &NoDataError{Ticker: ticker, Reason: "no quote returned"}
	}
	return equityToStock(ticker, q), nil
}

func equityToStock(ticker string, q *finance.Equity) *model.StockData {
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	if name == "" {
		name = ticker
	}
	currency := q.CurrencyID
	if currency == "" {
		currency = "USD"
	}

	data := &model.StockData{
		Ticker:           ticker,
		Name:             name,
		Sector:           "Unknown",
		Currency:         currency,
		CurrentPrice:     positive(q.RegularMarketPrice),
		FiftyTwoWeekHigh: positive(q.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  positive(q.FiftyTwoWeekLow),
		Technicals: &model.Technicals{
			MA50:  positive(q.FiftyDayAverage),
			MA200: positive(q.TwoHundredDayAverage),
		},
		Source:    "yahoo",
		FetchedAt: time.Now(),
	}

	high := model.ConfidenceHigh
	data.SetParameter(model.ParamPERatio, nonZero(q.TrailingPE), high)
	data.SetParameter(model.ParamPBRatio, nonZero(q.PriceToBook), high)
	data.SetParameter(model.ParamDividendYield, model.Some(q.TrailingAnnualDividendYield*100), high)
	data.SetParameter(model.ParamMarketCap, positive(float64(q.MarketCap)/1e6), model.ConfidenceMedium)
	for _, name := range []string{
		model.ParamRevenueGrowth, model.ParamReturnOnEquity, model.ParamDebtEquity,
		model.ParamFreeCashFlowYield, model.ParamEPSGrowth, model.ParamCurrentRatio,
		model.ParamOperatingMargin,
	} {
		data.SetParameter(name, model.None(), model.ConfidenceNotAvailable)
	}
	return data
}

// nonZero treats only the zero default as missing, so loss makers keep
// their negative ratios.
func nonZero(f float64) model.Value {
	if f == 0 {
		return model.None()
	}
	return model.Some(f)
}

// positive treats zero and negative vendor defaults as missing.
func positive(f float64) model.Value {
	if f <= 0 {
		return model.None()
	}
	return model.Some(f)
}
