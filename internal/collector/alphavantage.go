package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ShareEvaluator/internal/model"

	"github.com/phuslu/log"
)

const (
	// DefaultAlphaVantageURL is the Alpha Vantage query endpoint.
	DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

	// DefaultAlphaVantageInterval keeps the free tier's five calls a minute.
	DefaultAlphaVantageInterval = 12 * time.Second

	rateLimitBackoff = time.Minute
)

// AlphaVantageClient fetches fundamentals, daily prices and symbol search
// results from Alpha Vantage.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	outputSize string
	httpClient *http.Client
	throttle   *Throttle
}

// AlphaVantageOption configures the client.
type AlphaVantageOption func(*AlphaVantageClient)

// WithBaseURL sets a custom endpoint.
func WithBaseURL(baseURL string) AlphaVantageOption {
	return func(c *AlphaVantageClient) { c.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) AlphaVantageOption {
	return func(c *AlphaVantageClient) { c.httpClient = httpClient }
}

// WithThrottle replaces the default throttle.
func WithThrottle(t *Throttle) AlphaVantageOption {
	return func(c *AlphaVantageClient) { c.throttle = t }
}

// WithFullHistory requests the full daily history instead of the last 100 days.
func WithFullHistory() AlphaVantageOption {
	return func(c *AlphaVantageClient) { c.outputSize = "full" }
}

// NewAlphaVantageClient creates a client.
func NewAlphaVantageClient(apiKey string, opts ...AlphaVantageOption) *AlphaVantageClient {
	c := &AlphaVantageClient{
		baseURL:    DefaultAlphaVantageURL,
		apiKey:     apiKey,
		outputSize: "compact",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		throttle:   NewThrottle(DefaultAlphaVantageInterval, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AlphaVantageClient) Name() string { return "alphavantage" }

func (c *AlphaVantageClient) get(ctx context.Context, params url.Values, result interface{}) error {
	if err := c.throttle.Wait(ctx); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}

	params.Set("apikey", c.apiKey)
	endpoint := params.Get("function")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	log.Debug().Str("function", endpoint).Str("symbol", params.Get("symbol")).Msg("alpha vantage request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alpha vantage %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("alpha vantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: string(body), Endpoint: endpoint}
	}

	// Vendor errors arrive as 200 with a single descriptive key.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("alpha vantage decode: %w", err)
	}
	if msg, ok := envelope["Error Message"]; ok {
		return &APIError{StatusCode: resp.StatusCode, Message: rawString(msg), Endpoint: endpoint}
	}
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := envelope[key]; ok {
			return &RateLimitError{Message: rawString(msg), RetryAfter: rateLimitBackoff}
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("alpha vantage decode %s: %w", endpoint, err)
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

// Overview returns the company overview fields. Numbers are strings in
// the vendor payload and stay that way here.
func (c *AlphaVantageClient) Overview(ctx context.Context, symbol string) (map[string]string, error) {
	var raw map[string]interface{}
	params := url.Values{"function": {"OVERVIEW"}, "symbol": {symbol}}
	if err := c.get(ctx, params, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

type avDaily struct {
	Series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// DailyBars returns daily bars, oldest first.
func (c *AlphaVantageClient) DailyBars(ctx context.Context, symbol string) ([]model.OHLCV, error) {
	var daily avDaily
	params := url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}, "outputsize": {c.outputSize}}
	if err := c.get(ctx, params, &daily); err != nil {
		return nil, err
	}
	if len(daily.Series) == 0 {
		return nil, &NoDataError{Ticker: symbol, Reason: "empty daily series"}
	}

	bars := make([]model.OHLCV, 0, len(daily.Series))
	for date, v := range daily.Series {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   parseFloat(v.Open),
			High:   parseFloat(v.High),
			Low:    parseFloat(v.Low),
			Close:  parseFloat(v.Close),
			Volume: parseFloat(v.Volume),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

type avSearch struct {
	BestMatches []struct {
		Symbol     string `json:"1. symbol"`
		Name       string `json:"2. name"`
		Region     string `json:"4. region"`
		Currency   string `json:"8. currency"`
		MatchScore string `json:"9. matchScore"`
	} `json:"bestMatches"`
}

// Search implements resolver.Searcher with the SYMBOL_SEARCH endpoint.
func (c *AlphaVantageClient) Search(ctx context.Context, query string) ([]model.CandidateMatch, error) {
	var res avSearch
	params := url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {query}}
	if err := c.get(ctx, params, &res); err != nil {
		return nil, err
	}
	out := make([]model.CandidateMatch, 0, len(res.BestMatches))
	for _, m := range res.BestMatches {
		out = append(out, model.CandidateMatch{
			Symbol:     m.Symbol,
			Name:       m.Name,
			Region:     m.Region,
			MatchScore: parseFloat(m.MatchScore),
		})
	}
	return out, nil
}

// Fetch loads the overview and daily prices of ticker. Price history is
// optional: failures there are logged and the overview is still used.
func (c *AlphaVantageClient) Fetch(ctx context.Context, ticker string) (*model.StockData, error) {
	ov, err := c.Overview(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", ticker, err)
	}
	if ov["Symbol"] == "" {
		return nil, &NoDataError{Ticker: ticker, Reason: "no company overview"}
	}

	data := overviewToStock(ticker, ov)

	bars, err := c.DailyBars(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("daily prices unavailable")
	} else {
		data.DailyBars = bars
		if n := len(bars); n > 0 {
			data.CurrentPrice = model.Some(bars[n-1].Close)
		}
	}
	return data, nil
}

// overviewToStock maps overview fields to the core parameter set.
func overviewToStock(ticker string, ov map[string]string) *model.StockData {
	data := &model.StockData{
		Ticker:           ticker,
		Name:             ov["Name"],
		Sector:           titleCase(ov["Sector"]),
		Currency:         ov["Currency"],
		FiftyTwoWeekHigh: parseValue(ov["52WeekHigh"]),
		FiftyTwoWeekLow:  parseValue(ov["52WeekLow"]),
		Source:           "alphavantage",
		FetchedAt:        time.Now(),
	}
	if data.Name == "" {
		data.Name = ticker
	}
	if data.Sector == "" {
		data.Sector = "Unknown"
	}
	if data.Currency == "" {
		data.Currency = "USD"
	}

	high := model.ConfidenceHigh
	data.SetParameter(model.ParamPERatio, parseValue(ov["PERatio"]), high)
	data.SetParameter(model.ParamRevenueGrowth, percent(ov["QuarterlyRevenueGrowthYOY"]), high)
	data.SetParameter(model.ParamReturnOnEquity, percent(ov["ReturnOnEquityTTM"]), high)
	data.SetParameter(model.ParamDebtEquity, parseValue(ov["DebtToEquityRatio"]), high)

	fcf := model.None()
	if cash, ok := parseValue(ov["OperatingCashflowTTM"]).Get(); ok {
		if mcap, ok := parseValue(ov["MarketCapitalization"]).Get(); ok && mcap > 0 {
			fcf = model.Some(cash / mcap * 100)
		}
	}
	data.SetParameter(model.ParamFreeCashFlowYield, fcf, model.ConfidenceMedium)

	// No dividend field means the company pays none.
	dy := percent(ov["DividendYield"])
	if !dy.Valid {
		dy = model.Some(0)
	}
	data.SetParameter(model.ParamDividendYield, dy, high)

	data.SetParameter(model.ParamEPSGrowth, percent(ov["QuarterlyEarningsGrowthYOY"]), high)
	data.SetParameter(model.ParamPBRatio, parseValue(ov["PriceToBookRatio"]), high)
	data.SetParameter(model.ParamCurrentRatio, parseValue(ov["CurrentRatio"]), high)
	data.SetParameter(model.ParamOperatingMargin, percent(ov["OperatingMarginTTM"]), high)
	return data
}

// parseValue reads a vendor number. "None", "-" and blanks are absent.
func parseValue(s string) model.Value {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "-", "N/A":
		return model.None()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.None()
	}
	return model.Some(f)
}

func percent(s string) model.Value {
	if f, ok := parseValue(s).Get(); ok {
		return model.Some(f * 100)
	}
	return model.None()
}

func parseFloat(s string) float64 {
	return parseValue(s).Or(0)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
