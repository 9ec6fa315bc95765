package db

import (
	"context"
	"time"
)

// Engine is the search engine facade combining all sub-interfaces.
type Engine interface {
	Pinger
	Searcher
	IndexLister
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs a query-DSL body against an index selector and returns the
// raw response body.
type Searcher interface {
	Search(ctx context.Context, selector string, body []byte) ([]byte, error)
}

// IndexLister lists indexes matching a pattern (cat API, JSON format).
type IndexLister interface {
	CatIndices(ctx context.Context, pattern string) ([]byte, error)
}
