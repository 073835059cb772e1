package news

import (
	"context"
	"errors"

	"ShareEvaluator/internal/model"

	"github.com/phuslu/log"
)

// DefaultMaxArticles is how many articles a report shows.
const DefaultMaxArticles = 5

// Provider returns recent articles about a company. Providers without
// company search may return general market news.
type Provider interface {
	Name() string
	News(ctx context.Context, company, ticker string, maxArticles int) ([]model.Article, error)
}

// Chain tries providers in order and returns the first non-empty result.
type Chain []Provider

func (c Chain) Name() string { return "chain" }

func (c Chain) News(ctx context.Context, company, ticker string, maxArticles int) ([]model.Article, error) {
	var errs []error
	for _, p := range c {
		articles, err := p.News(ctx, company, ticker, maxArticles)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Str("ticker", ticker).Msg("news provider failed")
			errs = append(errs, err)
			continue
		}
		if len(articles) > 0 {
			return articles, nil
		}
		log.Debug().Str("provider", p.Name()).Str("ticker", ticker).Msg("no articles, trying next provider")
	}
	if len(errs) == len(c) {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

func limit(articles []model.Article, maxArticles int) []model.Article {
	if maxArticles > 0 && len(articles) > maxArticles {
		return articles[:maxArticles]
	}
	return articles
}
