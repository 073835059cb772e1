package scheduler

import (
	"context"
	"fmt"

	"ShareEvaluator/internal/analyzer"
	"ShareEvaluator/internal/cache"
	"ShareEvaluator/internal/model"
	"ShareEvaluator/internal/notifier"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

// Analyst evaluates one ticker.
type Analyst interface {
	AnalyzeTicker(ctx context.Context, ticker string) (*analyzer.Outcome, error)
}

// Sender delivers a report to the configured chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyst
	Cache     cache.Store
	Notifier  Sender
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. notifier may be nil, in which
// case reports are only logged.
func NewScheduler(ctx context.Context, a Analyst, store cache.Store, n Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  a,
		Cache:     store,
		Notifier:  n,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the cache prune task and, when there is a
// watchlist, the watchlist report.
func (s *Scheduler) RegisterAll(pruneCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneCache); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	if len(s.Watchlist) == 0 {
		return nil
	}
	if _, err := s.Cron.AddFunc(reportCron, s.watchlistReport); err != nil {
		return fmt.Errorf("register watchlist report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunReportNow runs the watchlist report immediately.
func (s *Scheduler) RunReportNow() {
	s.watchlistReport()
}

func (s *Scheduler) pruneCache() {
	n, err := s.Cache.Prune(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("cache prune failed")
		return
	}
	log.Info().Int64("removed", n).Msg("cache pruned")
}

func (s *Scheduler) watchlistReport() {
	log.Info().Strs("watchlist", s.Watchlist).Msg("running watchlist report")

	var (
		results []*model.EvaluationResult
		failed  []string
	)
	for _, ticker := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		out, err := s.Analyzer.AnalyzeTicker(s.Ctx, ticker)
		if err != nil || out.Result == nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("watchlist evaluation failed")
			failed = append(failed, ticker)
			continue
		}
		results = append(results, out.Result)
	}

	s.trySend(notifier.FormatWatchlistReport(results, failed))
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Info().Str("report", text).Msg("no notifier configured")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification failed")
	}
}
