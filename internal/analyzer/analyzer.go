package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ShareEvaluator/internal/model"
	"ShareEvaluator/internal/news"
	"ShareEvaluator/internal/resolver"
	"ShareEvaluator/internal/scoring"

	"github.com/google/uuid"
	"github.com/phuslu/log"
)

// Kind is the shape of an analysis outcome.
type Kind int

const (
	// NotFound means the query matched no ticker.
	NotFound Kind = iota
	// Ambiguous means the user has to pick one of the candidates.
	Ambiguous
	// Evaluated means one ticker was fetched and scored.
	Evaluated
)

func (k Kind) String() string {
	switch k {
	case Evaluated:
		return "evaluated"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Outcome is the result of analysing one query.
type Outcome struct {
	Kind       Kind                    `json:"kind"`
	RequestID  string                  `json:"request_id"`
	Query      string                  `json:"query"`
	Ticker     string                  `json:"ticker,omitempty"`
	Candidates []model.CandidateMatch  `json:"candidates,omitempty"`
	Stock      *model.StockData        `json:"stock,omitempty"`
	Result     *model.EvaluationResult `json:"result,omitempty"`
	News       []model.Article         `json:"news,omitempty"`
}

// Resolver maps free text to tickers.
type Resolver interface {
	Resolve(ctx context.Context, query string) (resolver.Resolution, error)
}

// Collector loads stock data for one ticker.
type Collector interface {
	Collect(ctx context.Context, ticker string) (*model.StockData, error)
}

// Analyzer runs resolve, collect, score and news for one request at a time.
// It keeps no state between requests.
type Analyzer struct {
	resolver    Resolver
	collector   Collector
	strategy    scoring.Strategy
	news        news.Provider
	maxArticles int
	now         func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStrategy sets the scoring strategy.
func WithStrategy(s scoring.Strategy) Option {
	return func(a *Analyzer) { a.strategy = s }
}

// WithNews attaches a news provider. Without one no news is fetched.
func WithNews(p news.Provider, maxArticles int) Option {
	return func(a *Analyzer) {
		a.news = p
		a.maxArticles = maxArticles
	}
}

// WithClock sets the time source for EvaluatedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer using the percentage strategy by default.
func New(r Resolver, c Collector, opts ...Option) *Analyzer {
	a := &Analyzer{
		resolver:    r,
		collector:   c,
		strategy:    scoring.NewPercentageStrategy(),
		maxArticles: news.DefaultMaxArticles,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Strategy returns the name of the active scoring strategy.
func (a *Analyzer) Strategy() string { return a.strategy.Name() }

// Analyze resolves query and evaluates the ticker it names. Ticker-shaped
// queries are evaluated as given, without resolution. Ambiguous and
// unknown queries are outcomes, not errors; errors come from the symbol
// search or the data fetch.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*Outcome, error) {
	out := &Outcome{RequestID: uuid.New().String(), Query: strings.TrimSpace(query)}
	log.Info().Str("request_id", out.RequestID).Str("query", out.Query).Msg("analysis requested")

	if resolver.LooksLikeTicker(out.Query) {
		ticker := strings.ToUpper(out.Query)
		log.Info().Str("request_id", out.RequestID).Str("ticker", ticker).Msg("query is a ticker, skipping resolution")
		return out, a.evaluate(ctx, out, ticker)
	}

	res, err := a.resolver.Resolve(ctx, out.Query)
	if err != nil {
		log.Error().Err(err).Str("request_id", out.RequestID).Msg("resolution failed")
		return out, fmt.Errorf("resolve %q: %w", out.Query, err)
	}

	switch res.Kind {
	case resolver.NoMatch:
		out.Kind = NotFound
		log.Info().Str("request_id", out.RequestID).Msg("no ticker found")
		return out, nil
	case resolver.MultipleMatches:
		out.Kind = Ambiguous
		out.Candidates = res.Candidates
		log.Info().Str("request_id", out.RequestID).Int("candidates", len(res.Candidates)).Msg("query is ambiguous")
		return out, nil
	}

	log.Info().Str("request_id", out.RequestID).Str("ticker", res.Ticker).Str("source", res.Source).Msg("query resolved")
	return out, a.evaluate(ctx, out, res.Ticker)
}

// AnalyzeTicker evaluates ticker directly, as when the user picks one of
// the candidates of an ambiguous query.
func (a *Analyzer) AnalyzeTicker(ctx context.Context, ticker string) (*Outcome, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	out := &Outcome{RequestID: uuid.New().String(), Query: ticker}
	log.Info().Str("request_id", out.RequestID).Str("ticker", ticker).Msg("ticker analysis requested")
	if ticker == "" {
		out.Kind = NotFound
		return out, nil
	}
	return out, a.evaluate(ctx, out, ticker)
}

func (a *Analyzer) evaluate(ctx context.Context, out *Outcome, ticker string) error {
	out.Ticker = ticker

	start := time.Now()
	data, err := a.collector.Collect(ctx, ticker)
	if err != nil {
		log.Error().Err(err).Str("request_id", out.RequestID).Str("ticker", ticker).Msg("data collection failed")
		return err
	}
	out.Stock = data

	result := a.strategy.Evaluate(scoring.InputFromStock(data))
	result.RequestID = out.RequestID
	result.EvaluatedAt = a.now()
	out.Result = &result
	out.Kind = Evaluated

	log.Info().
		Str("request_id", out.RequestID).
		Str("ticker", ticker).
		Str("strategy", result.Strategy).
		Float64("percentage", result.Percentage).
		Str("recommendation", result.Recommendation.Label).
		Dur("elapsed", time.Since(start)).
		Msg("evaluation complete")

	if a.news != nil {
		articles, err := a.news.News(ctx, data.Name, ticker, a.maxArticles)
		if err != nil {
			log.Warn().Err(err).Str("request_id", out.RequestID).Str("ticker", ticker).Msg("news unavailable")
		}
		out.News = articles
	}
	return nil
}
