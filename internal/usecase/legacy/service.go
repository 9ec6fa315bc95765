// Package legacy implements the v1 methods: search_objects, search_types,
// get_objects, list_types and status.
package legacy

import (
	"context"

	"go.uber.org/zap"

	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/usecase/compiler"
	"github.com/kailas-cloud/searchapi/internal/usecase/enrich"
	"github.com/kailas-cloud/searchapi/internal/usecase/normalize"
	"github.com/kailas-cloud/searchapi/internal/version"
)

// StatusOK is the state reported by status.
const StatusOK = "OK"

// Service is the v1 contract adapter.
type Service struct {
	access    ScopeResolver
	searcher  Searcher
	enricher  Enricher
	compiler  *compiler.Legacy
	normalize *normalize.Legacy
	gitURL    string
}

// New creates the v1 adapter.
func New(
	resolver ScopeResolver, searcher Searcher, enricher Enricher,
	comp *compiler.Legacy, norm *normalize.Legacy, gitURL string,
) *Service {
	return &Service{
		access:    resolver,
		searcher:  searcher,
		enricher:  enricher,
		compiler:  comp,
		normalize: norm,
		gitURL:    gitURL,
	}
}

// SearchObjects runs search_objects.
func (s *Service) SearchObjects(
	ctx context.Context, token string, p domlegacy.SearchObjectsParams,
) (domlegacy.SearchObjectsResult, error) {
	mode, err := access.FromWith(domlegacy.BoolPtr(p.AccessFilter.WithPrivate), domlegacy.BoolPtr(p.AccessFilter.WithPublic))
	if err != nil {
		return domlegacy.SearchObjectsResult{}, err
	}
	q, err := s.compiler.SearchObjects(p)
	if err != nil {
		return domlegacy.SearchObjectsResult{}, err
	}
	scope, err := s.access.Resolve(ctx, token, mode)
	if err != nil {
		return domlegacy.SearchObjectsResult{}, err
	}

	raw, err := s.searcher.Search(ctx, compiler.Restrict(q, scope))
	if err != nil {
		return domlegacy.SearchObjectsResult{}, err
	}

	out := s.normalize.SearchObjects(p, raw)
	if pp := p.PostProcessing; pp.WantsEnrichment() {
		out.Enrichment, err = s.enricher.Enrich(ctx, token, scope, raw.Hits, enrichOptions(pp))
		if err != nil {
			return domlegacy.SearchObjectsResult{}, err
		}
	}

	logger.FromContext(ctx).Debug("search_objects done",
		zap.Int64("total", out.Total),
		zap.Int("returned", len(out.Objects)),
	)
	return out, nil
}

// SearchTypes runs search_types.
func (s *Service) SearchTypes(
	ctx context.Context, token string, p domlegacy.SearchTypesParams,
) (domlegacy.SearchTypesResult, error) {
	mode, err := access.FromWith(domlegacy.BoolPtr(p.AccessFilter.WithPrivate), domlegacy.BoolPtr(p.AccessFilter.WithPublic))
	if err != nil {
		return domlegacy.SearchTypesResult{}, err
	}
	q, err := s.compiler.SearchTypes(p)
	if err != nil {
		return domlegacy.SearchTypesResult{}, err
	}
	scope, err := s.access.Resolve(ctx, token, mode)
	if err != nil {
		return domlegacy.SearchTypesResult{}, err
	}

	raw, err := s.searcher.Search(ctx, compiler.Restrict(q, scope))
	if err != nil {
		return domlegacy.SearchTypesResult{}, err
	}
	return s.normalize.SearchTypes(raw), nil
}

// GetObjects runs get_objects. Only objects the caller may read are returned.
func (s *Service) GetObjects(
	ctx context.Context, token string, p domlegacy.GetObjectsParams,
) (domlegacy.GetObjectsResult, error) {
	q, err := s.compiler.GetObjects(p)
	if err != nil {
		return domlegacy.GetObjectsResult{}, err
	}
	scope, err := s.access.Resolve(ctx, token, access.Both)
	if err != nil {
		return domlegacy.GetObjectsResult{}, err
	}

	raw, err := s.searcher.Search(ctx, compiler.Restrict(q, scope))
	if err != nil {
		return domlegacy.GetObjectsResult{}, err
	}

	out := s.normalize.GetObjects(p, raw)
	if pp := p.PostProcessing; pp.WantsEnrichment() {
		out.Enrichment, err = s.enricher.Enrich(ctx, token, scope, raw.Hits, enrichOptions(pp))
		if err != nil {
			return domlegacy.GetObjectsResult{}, err
		}
	}
	return out, nil
}

// ListTypes is kept for compatibility and always returns an empty object.
func (s *Service) ListTypes(_ context.Context) map[string]any {
	return map[string]any{}
}

// Status reports the service build.
func (s *Service) Status(_ context.Context) domlegacy.StatusResult {
	return domlegacy.StatusResult{
		State:         StatusOK,
		Version:       version.Version,
		GitURL:        s.gitURL,
		GitCommitHash: version.Commit,
	}
}

func enrichOptions(pp domlegacy.PostProcessing) enrich.Options {
	return enrich.Options{
		Narratives: bool(pp.AddNarrativeInfo),
		Groups:     bool(pp.AddAccessGroupInfo),
	}
}
