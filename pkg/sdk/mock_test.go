package searchapi

import (
	"context"

	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchObjectsFn   func(ctx context.Context, token string, p request.SearchObjects) (result.Raw, error)
	searchTypesFn     func(ctx context.Context, token string, p request.SearchTypes) (result.TypeCounts, error)
	getObjectsFn      func(ctx context.Context, token string, p request.GetObjects) (result.Raw, error)
	searchWorkspaceFn func(ctx context.Context, token string, p request.SearchWorkspace) (result.WorkspaceHits, error)
	showIndexesFn     func(ctx context.Context) ([]result.IndexInfo, error)
}

func (m *mockSearchUC) SearchObjects(ctx context.Context, token string, p request.SearchObjects) (result.Raw, error) {
	return m.searchObjectsFn(ctx, token, p)
}

func (m *mockSearchUC) SearchTypes(
	ctx context.Context, token string, p request.SearchTypes,
) (result.TypeCounts, error) {
	return m.searchTypesFn(ctx, token, p)
}

func (m *mockSearchUC) GetObjects(ctx context.Context, token string, p request.GetObjects) (result.Raw, error) {
	return m.getObjectsFn(ctx, token, p)
}

func (m *mockSearchUC) SearchWorkspace(
	ctx context.Context, token string, p request.SearchWorkspace,
) (result.WorkspaceHits, error) {
	return m.searchWorkspaceFn(ctx, token, p)
}

func (m *mockSearchUC) ShowIndexes(ctx context.Context) ([]result.IndexInfo, error) {
	return m.showIndexesFn(ctx)
}

// --- legacyUseCase mock ---

type mockLegacyUC struct {
	searchObjectsFn func(
		ctx context.Context, token string, p domlegacy.SearchObjectsParams,
	) (domlegacy.SearchObjectsResult, error)
}

func (m *mockLegacyUC) SearchObjects(
	ctx context.Context, token string, p domlegacy.SearchObjectsParams,
) (domlegacy.SearchObjectsResult, error) {
	return m.searchObjectsFn(ctx, token, p)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
