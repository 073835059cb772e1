package collector

import (
	"context"
	"encoding/json"
	"fmt"

	"ShareEvaluator/internal/cache"
	"ShareEvaluator/internal/model"

	"github.com/phuslu/log"
)

// CachedFetcher serves recent results from a cache store before calling
// the wrapped fetcher. Cache failures never fail a fetch.
type CachedFetcher struct {
	inner Fetcher
	store cache.Store
}

// NewCachedFetcher wraps inner with store.
func NewCachedFetcher(inner Fetcher, store cache.Store) *CachedFetcher {
	return &CachedFetcher{inner: inner, store: store}
}

func (f *CachedFetcher) Name() string { return f.inner.Name() }

func (f *CachedFetcher) Fetch(ctx context.Context, ticker string) (*model.StockData, error) {
	key := cache.Key(ticker, f.inner.Name())
	if raw, ok, err := f.store.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("cache read failed")
	} else if ok {
		var data model.StockData
		if err := json.Unmarshal(raw, &data); err == nil {
			log.Debug().Str("ticker", ticker).Str("source", f.inner.Name()).Msg("cache hit")
			return &data, nil
		}
		log.Warn().Str("ticker", ticker).Msg("discarding unreadable cache entry")
	}

	data, err := f.inner.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s for cache: %w", ticker, err)
	}
	if err := f.store.Put(ctx, key, f.inner.Name(), raw); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("cache write failed")
	}
	return data, nil
}
