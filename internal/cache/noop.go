package cache

import "context"

// NoopStore caches nothing. Used when no cache path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Get(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil }
func (n *NoopStore) Put(_ context.Context, _, _ string, _ []byte) error    { return nil }
func (n *NoopStore) Prune(_ context.Context) (int64, error)                { return 0, nil }
func (n *NoopStore) Close() error                                          { return nil }
