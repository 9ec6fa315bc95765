// Package search implements the v2 methods.
package search

import (
	"context"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/usecase/compiler"
	"github.com/kailas-cloud/searchapi/internal/usecase/normalize"
)

// Service is the v2 contract adapter.
type Service struct {
	repo      Repository
	access    ScopeResolver
	compiler  *compiler.Modern
	normalize *normalize.Modern
	exposed   map[string]any
}

// New creates the v2 adapter. exposed is the show_config payload.
func New(
	repo Repository, resolver ScopeResolver,
	comp *compiler.Modern, norm *normalize.Modern, exposed map[string]any,
) *Service {
	return &Service{
		repo:      repo,
		access:    resolver,
		compiler:  comp,
		normalize: norm,
		exposed:   maps.Clone(exposed),
	}
}

// SearchObjects runs a caller query within the caller's access scope.
func (s *Service) SearchObjects(ctx context.Context, token string, p request.SearchObjects) (result.Raw, error) {
	start := time.Now()
	mode, err := access.FromOnly(p.OnlyPublic, p.OnlyPrivate)
	if err != nil {
		return result.Raw{}, err
	}
	q, err := s.compiler.SearchObjects(p)
	if err != nil {
		return result.Raw{}, err
	}
	raw, err := s.run(ctx, token, mode, q)
	if err != nil {
		return result.Raw{}, err
	}

	logger.FromContext(ctx).Debug("search_objects done",
		zap.Int64("count", raw.Count),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s.normalize.Hits(raw), nil
}

// SearchTypes counts matching documents per type.
func (s *Service) SearchTypes(ctx context.Context, token string, p request.SearchTypes) (result.TypeCounts, error) {
	mode, err := access.FromOnly(p.OnlyPublic, p.OnlyPrivate)
	if err != nil {
		return result.TypeCounts{}, err
	}
	q, err := s.compiler.SearchTypes(p)
	if err != nil {
		return result.TypeCounts{}, err
	}
	raw, err := s.run(ctx, token, mode, q)
	if err != nil {
		return result.TypeCounts{}, err
	}
	return s.normalize.SearchTypes(raw), nil
}

// GetObjects fetches documents by ID. Documents outside the caller's scope
// are not returned.
func (s *Service) GetObjects(ctx context.Context, token string, p request.GetObjects) (result.Raw, error) {
	q, err := s.compiler.GetObjects(p)
	if err != nil {
		return result.Raw{}, err
	}
	raw, err := s.run(ctx, token, access.Both, q)
	if err != nil {
		return result.Raw{}, err
	}
	return s.normalize.Hits(raw), nil
}

// SearchWorkspace runs a filter-DSL search and returns bare documents.
func (s *Service) SearchWorkspace(
	ctx context.Context, token string, p request.SearchWorkspace,
) (result.WorkspaceHits, error) {
	mode, err := access.FromOnly(p.Access.OnlyPublic, p.Access.OnlyPrivate)
	if err != nil {
		return result.WorkspaceHits{}, err
	}
	q, err := s.compiler.SearchWorkspace(p)
	if err != nil {
		return result.WorkspaceHits{}, err
	}
	raw, err := s.run(ctx, token, mode, q)
	if err != nil {
		return result.WorkspaceHits{}, err
	}
	return s.normalize.SearchWorkspace(raw), nil
}

// ShowIndexes lists the indexes under the service prefix.
func (s *Service) ShowIndexes(ctx context.Context) ([]result.IndexInfo, error) {
	return s.repo.ShowIndexes(ctx)
}

// ShowConfig returns the whitelisted configuration.
func (s *Service) ShowConfig(_ context.Context) map[string]any {
	return maps.Clone(s.exposed)
}

// run resolves the scope, restricts q to it and executes.
func (s *Service) run(ctx context.Context, token string, mode access.Mode, q query.Query) (result.Raw, error) {
	scope, err := s.access.Resolve(ctx, token, mode)
	if err != nil {
		return result.Raw{}, err
	}
	return s.repo.Search(ctx, compiler.Restrict(q, scope))
}
