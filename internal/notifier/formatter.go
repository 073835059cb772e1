package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"ShareEvaluator/internal/analyzer"
	"ShareEvaluator/internal/collector"
	"ShareEvaluator/internal/model"
	"ShareEvaluator/internal/scoring"
)

// FormatOutcome renders an analysis outcome as one Telegram message.
func FormatOutcome(out *analyzer.Outcome) string {
	switch out.Kind {
	case analyzer.Evaluated:
		msg := FormatEvaluation(out.Result, out.Stock)
		if len(out.News) > 0 {
			msg += "\n" + FormatNews(out.News)
		}
		return msg
	case analyzer.Ambiguous:
		return FormatCandidates(out.Query, out.Candidates)
	default:
		return fmt.Sprintf("🔍 No company or ticker found for <b>%s</b>.\nTry the full company name or a ticker such as VOD.L.", esc(out.Query))
	}
}

// FormatEvaluation formats a scored share. data may be nil.
func FormatEvaluation(r *model.EvaluationResult, data *model.StockData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>%s</b> (%s) | %s\n", esc(r.Name), esc(r.Ticker), r.EvaluatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Sector: %s\n", esc(r.Sector))
	if data != nil && data.CurrentPrice.Valid {
		fmt.Fprintf(&b, "Price: %s %s\n", data.CurrentPrice, esc(data.Currency))
	}
	b.WriteString("\n")

	if r.Strategy == scoring.StrategyPoints {
		fmt.Fprintf(&b, "🎯 <b>Score:</b> %.0f / %.0f points (%.1f%%)\n", r.WeightedSum, r.MaxPossible, r.Percentage)
	} else {
		fmt.Fprintf(&b, "🎯 <b>Score:</b> %.1f%% (%s)\n", r.Percentage, scoring.Rating(r.Percentage))
	}
	fmt.Fprintf(&b, "💡 <b>%s</b> - %s\n\n", esc(r.Recommendation.Label), esc(r.Recommendation.Detail))

	b.WriteString("📈 <b>Parameters:</b>\n")
	for _, p := range r.Parameters {
		fmt.Fprintf(&b, "  %s: %s → %.1f/10 (×%d)%s\n",
			esc(p.Name), p.Raw, p.Score, p.Weight, confidenceMark(p.Confidence))
	}
	fmt.Fprintf(&b, "  ─────────────────\n  Weighted: %.1f / %.1f\n", r.WeightedSum, r.MaxPossible)

	if data != nil && data.Technicals != nil {
		writeTechnicals(&b, data.Technicals)
	}

	if len(r.RedFlags) > 0 {
		fmt.Fprintf(&b, "\n🚩 <b>Red flags:</b> %s\n", esc(strings.Join(r.RedFlags, ", ")))
	}
	if len(r.QuartileFlags) > 0 {
		fmt.Fprintf(&b, "⚠️ Bottom quartile for %s: %s\n", esc(r.Sector), esc(strings.Join(r.QuartileFlags, ", ")))
	}

	if in, ok := scoring.Summarize(*r); ok {
		b.WriteString("\n🔎 <b>Insights:</b>\n")
		fmt.Fprintf(&b, "  Most critical for %s: %s (×%d)\n", esc(r.Sector), esc(in.MostCritical.Name), in.MostCritical.Weight)
		fmt.Fprintf(&b, "  Least critical: %s (×%d)\n", esc(in.LeastCritical.Name), in.LeastCritical.Weight)
		fmt.Fprintf(&b, "  Strongest: %s (%.1f/10)\n", esc(in.Strongest.Name), in.Strongest.Score)
		fmt.Fprintf(&b, "  Weakest: %s (%.1f/10)\n", esc(in.Weakest.Name), in.Weakest.Score)
	}
	return b.String()
}

func writeTechnicals(b *strings.Builder, t *model.Technicals) {
	if !t.MA50.Valid && !t.MA200.Valid && !t.RSI14.Valid && !t.Position52w.Valid {
		return
	}
	b.WriteString("\n📉 <b>Technicals:</b>\n")
	fmt.Fprintf(b, "  MA50: %s | MA200: %s\n", t.MA50, t.MA200)
	fmt.Fprintf(b, "  RSI(14): %s\n", t.RSI14)
	if pos, ok := t.Position52w.Get(); ok {
		fmt.Fprintf(b, "  52w range: %s - %s (at %.0f%%)\n", t.Low52w, t.High52w, pos*100)
	}
}

func confidenceMark(c model.Confidence) string {
	switch c {
	case model.ConfidenceHigh, "":
		return ""
	case model.ConfidenceNotAvailable:
		return " ⚪ n/a"
	default:
		return " (" + strings.ToLower(string(c)) + " confidence)"
	}
}

// FormatCandidates lists the possible tickers of an ambiguous query.
func FormatCandidates(query string, candidates []model.CandidateMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🤔 <b>%s</b> matches several companies:\n\n", esc(query))
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. <b>%s</b> %s", i+1, esc(c.Symbol), esc(c.Name))
		if c.Region != "" {
			fmt.Fprintf(&b, " (%s)", esc(c.Region))
		}
		fmt.Fprintf(&b, "\n   /pick %s\n", esc(c.Symbol))
	}
	return b.String()
}

// FormatNews lists articles with links.
func FormatNews(articles []model.Article) string {
	var b strings.Builder
	b.WriteString("📰 <b>Recent news:</b>\n")
	for _, a := range articles {
		fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>", esc(a.URL), esc(a.Title))
		if a.Source != "" {
			fmt.Fprintf(&b, " - %s", esc(a.Source))
		}
		if !a.PublishedAt.IsZero() {
			fmt.Fprintf(&b, ", %s", a.PublishedAt.Format("2 Jan"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatError turns an analysis error into a message for the user.
func FormatError(err error) string {
	var (
		noData    *collector.NoDataError
		rateLimit *collector.RateLimitError
		apiErr    *collector.APIError
	)
	switch {
	case errors.As(err, &noData):
		return fmt.Sprintf("❌ No financial data available for <b>%s</b>.", esc(noData.Ticker))
	case errors.As(err, &rateLimit):
		return fmt.Sprintf("⏳ The data provider is rate limiting requests. Please try again in %v.", rateLimit.RetryAfter)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("❌ The data provider returned an error (status %d). Please try again later.", apiErr.StatusCode)
	default:
		return "❌ Analysis failed: " + esc(err.Error())
	}
}

// FormatWatchlistReport combines the evaluations of a watchlist run.
func FormatWatchlistReport(results []*model.EvaluationResult, failed []string) string {
	var b strings.Builder
	b.WriteString("📅 <b>Watchlist report</b>\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%s <b>%s</b>: %.1f%% %s\n", ratingIcon(r.Percentage), esc(r.Ticker), r.Percentage, esc(r.Recommendation.Label))
	}
	if len(failed) > 0 {
		fmt.Fprintf(&b, "\nUnavailable: %s\n", esc(strings.Join(failed, ", ")))
	}
	return b.String()
}

func ratingIcon(pct float64) string {
	switch scoring.Rating(pct) {
	case scoring.RatingExcellent:
		return "🟢"
	case scoring.RatingGood:
		return "🔵"
	case scoring.RatingFair:
		return "🟡"
	default:
		return "🔴"
	}
}

func esc(s string) string { return html.EscapeString(s) }
