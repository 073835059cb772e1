package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ShareEvaluator/internal/analyzer"
	"ShareEvaluator/internal/cache"
	"ShareEvaluator/internal/collector"
	"ShareEvaluator/internal/config"
	"ShareEvaluator/internal/logger"
	"ShareEvaluator/internal/model"
	"ShareEvaluator/internal/news"
	"ShareEvaluator/internal/notifier"
	"ShareEvaluator/internal/resolver"
	"ShareEvaluator/internal/scheduler"
	"ShareEvaluator/internal/scoring"
	"ShareEvaluator/internal/symbols"

	"github.com/phuslu/log"
)

var (
	configPath = flag.String("config", "", "Configuration file path (default $CONFIG_PATH or configs/config.yaml)")
	asJSON     = flag.Bool("json", false, "Print the one-shot result as JSON")
	pick       = flag.Bool("ticker", false, "Treat the argument as a ticker and skip name resolution")
	runReport  = flag.Bool("report-now", false, "Run the watchlist report once at start-up")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	path := *configPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	oneShot := query != ""
	if oneShot {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateBot()
	}
	if err != nil {
		log.Error().Err(err).Msg("config validation")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openCache(cfg)
	defer store.Close()

	fetcher, searcher := buildFetcher(cfg)
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	overrides := collector.DefaultOverrides()
	if cfg.DataSource.OverridesFile != "" {
		extra, err := collector.LoadOverrides(cfg.DataSource.OverridesFile)
		if err != nil {
			log.Error().Err(err).Msg("load overrides")
			return 1
		}
		overrides = overrides.Merge(extra)
	}
	col := collector.NewCollector(collector.NewCachedFetcher(fetcher, store), overrides)

	res, closeIndex, err := buildResolver(cfg, searcher)
	if err != nil {
		log.Error().Err(err).Msg("build resolver")
		return 1
	}
	defer closeIndex()

	strategy, err := scoring.ByName(cfg.Scoring.Strategy)
	if err != nil {
		log.Error().Err(err).Msg("scoring strategy")
		return 1
	}
	opts := []analyzer.Option{analyzer.WithStrategy(strategy)}
	if np := buildNews(cfg); np != nil {
		opts = append(opts, analyzer.WithNews(np, cfg.News.MaxArticles))
	}
	a := analyzer.New(res, col, opts...)

	if oneShot {
		return runOnce(ctx, a, query)
	}
	return runBot(ctx, cfg, a, store)
}

func runOnce(ctx context.Context, a *analyzer.Analyzer, query string) int {
	var (
		out *analyzer.Outcome
		err error
	)
	if *pick {
		out, err = a.AnalyzeTicker(ctx, query)
	} else {
		out, err = a.Analyze(ctx, query)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, notifier.PlainText(notifier.FormatError(err)))
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
			return 1
		}
	} else {
		fmt.Println(notifier.PlainText(notifier.FormatOutcome(out)))
	}
	if out.Kind == analyzer.NotFound {
		return 2
	}
	return 0
}

func runBot(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer, store cache.Store) int {
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	sched := scheduler.NewScheduler(ctx, a, store, tn, cfg.Schedule.Watchlist)
	if err := sched.RegisterAll(cfg.Schedule.PruneCron, cfg.Schedule.ReportCron); err != nil {
		log.Error().Err(err).Msg("register cron tasks")
		return 1
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, notifier.NewCommandHandler(a))
	log.Info().Str("strategy", a.Strategy()).Msg("telegram polling started")

	if *runReport {
		go sched.RunReportNow()
	}

	log.Info().Msg("share evaluator is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	return 0
}

func openCache(cfg *config.Config) cache.Store {
	if cfg.Cache.Disabled {
		return cache.NewNoopStore()
	}
	if dir := dirOf(cfg.Cache.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("create cache dir failed")
		}
	}
	s, err := cache.NewSQLiteStore(cfg.Cache.Path, cache.WithTTL(cfg.Cache.TTL))
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite cache failed, using noop")
		return cache.NewNoopStore()
	}
	return s
}

func dirOf(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i > 0 {
		return path[:i]
	}
	return ""
}

// buildFetcher returns the configured fetcher and, for Alpha Vantage, the
// client again as a symbol searcher.
func buildFetcher(cfg *config.Config) (collector.Fetcher, resolver.Searcher) {
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		return collector.NewYahooFetcher(collector.NewThrottle(cfg.DataSource.Interval, nil)), nil
	case config.ProviderMock:
		return mockFetcher(), nil
	default:
		opts := []collector.AlphaVantageOption{
			collector.WithThrottle(collector.NewThrottle(cfg.DataSource.Interval, nil)),
			collector.WithHTTPClient(httpClient(cfg.Proxy, 30*time.Second)),
		}
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, collector.WithBaseURL(cfg.DataSource.BaseURL))
		}
		if cfg.DataSource.FullHistory {
			opts = append(opts, collector.WithFullHistory())
		}
		av := collector.NewAlphaVantageClient(cfg.DataSource.APIKey, opts...)
		return av, av
	}
}

func buildResolver(cfg *config.Config, remote resolver.Searcher) (*resolver.Resolver, func(), error) {
	opts := []resolver.Option{resolver.WithTickerPassthrough(cfg.Resolver.TickerPassthrough)}
	closeFn := func() {}

	if cfg.Resolver.AliasesFile != "" {
		extra, err := resolver.LoadAliases(cfg.Resolver.AliasesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load aliases: %w", err)
		}
		opts = append(opts, resolver.WithExtraAliases(extra))
	}

	var searchers resolver.MultiSearcher
	if cfg.Resolver.ListingsFile != "" {
		idx, err := openIndex(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("local symbol index unavailable")
		} else {
			searchers = append(searchers, idx)
			closeFn = func() { _ = idx.Close() }
		}
	}
	if remote != nil {
		searchers = append(searchers, remote)
	}
	switch len(searchers) {
	case 0:
	case 1:
		opts = append(opts, resolver.WithSearcher(searchers[0]))
	default:
		opts = append(opts, resolver.WithSearcher(searchers))
	}
	return resolver.New(opts...), closeFn, nil
}

func openIndex(cfg *config.Config) (*symbols.Index, error) {
	listings, err := symbols.LoadListings(cfg.Resolver.ListingsFile)
	if err != nil {
		return nil, err
	}
	if cfg.Resolver.IndexPath == "" {
		return symbols.NewMemIndex(listings)
	}
	return symbols.OpenIndex(cfg.Resolver.IndexPath, listings)
}

func buildNews(cfg *config.Config) news.Provider {
	var chain news.Chain
	client := httpClient(cfg.Proxy, 15*time.Second)
	if cfg.News.APIKey != "" {
		chain = append(chain, news.NewNewsAPIClient(cfg.News.APIKey, news.WithNewsHTTPClient(client)))
	}
	if cfg.News.RSS {
		for _, feed := range news.DefaultFeeds() {
			feed.HTTPClient = client
			chain = append(chain, feed)
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

func httpClient(proxy string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != "" {
		if u, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// mockFetcher serves a handful of fixed companies for offline runs.
func mockFetcher() *collector.MockFetcher {
	mk := func(ticker, name, sector string, price float64, params map[string]float64) *model.StockData {
		d := &model.StockData{Ticker: ticker, Name: name, Sector: sector, Currency: "USD",
			DailyBars: collector.GenerateMockBars(price, 260)}
		for k, v := range params {
			d.SetParameter(k, model.Some(v), model.ConfidenceHigh)
		}
		return d
	}
	return &collector.MockFetcher{Data: map[string]*model.StockData{
		"AAPL": mk("AAPL", "Apple Inc", "Technology", 180, map[string]float64{
			model.ParamPERatio: 29, model.ParamRevenueGrowth: 6, model.ParamReturnOnEquity: 147,
			model.ParamDebtEquity: 1.8, model.ParamFreeCashFlowYield: 3.6, model.ParamDividendYield: 0.5,
			model.ParamEPSGrowth: 11, model.ParamPBRatio: 45, model.ParamCurrentRatio: 0.9,
			model.ParamOperatingMargin: 30,
		}),
		"TSCO.L": mk("TSCO.L", "Tesco PLC", "Consumer Defensive", 3.1, map[string]float64{
			model.ParamPERatio: 13, model.ParamRevenueGrowth: 4, model.ParamReturnOnEquity: 11,
			model.ParamDebtEquity: 1.2, model.ParamFreeCashFlowYield: 8, model.ParamDividendYield: 3.9,
			model.ParamEPSGrowth: 9, model.ParamPBRatio: 2.1, model.ParamCurrentRatio: 0.7,
			model.ParamOperatingMargin: 4,
		}),
	}}
}
