package legacy

import (
	"context"

	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/usecase/enrich"
)

// ScopeResolver resolves the workspaces a credential may read.
type ScopeResolver interface {
	Resolve(ctx context.Context, token string, mode access.Mode) (access.Scope, error)
}

// Searcher runs a compiled engine query.
type Searcher interface {
	Search(ctx context.Context, q query.Query) (result.Raw, error)
}

// Enricher builds the workspace and narrative maps for a hit set.
type Enricher interface {
	Enrich(
		ctx context.Context, token string, scope access.Scope, hits []result.Hit, opts enrich.Options,
	) (domlegacy.Enrichment, error)
}
