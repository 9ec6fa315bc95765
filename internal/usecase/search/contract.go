package search

import (
	"context"

	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Repository defines the engine contract for search operations.
type Repository interface {
	Search(ctx context.Context, q query.Query) (result.Raw, error)
	ShowIndexes(ctx context.Context) ([]result.IndexInfo, error)
}

// ScopeResolver resolves the workspaces a credential may read.
type ScopeResolver interface {
	Resolve(ctx context.Context, token string, mode access.Mode) (access.Scope, error)
}
