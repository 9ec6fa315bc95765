package searchapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchapi/internal/config"
	"github.com/kailas-cloud/searchapi/internal/db/elastic"
	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	searchrepo "github.com/kailas-cloud/searchapi/internal/repository/search"
	"github.com/kailas-cloud/searchapi/internal/transport/kbase"
	accessuc "github.com/kailas-cloud/searchapi/internal/usecase/access"
	"github.com/kailas-cloud/searchapi/internal/usecase/compiler"
	enrichuc "github.com/kailas-cloud/searchapi/internal/usecase/enrich"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
	legacyuc "github.com/kailas-cloud/searchapi/internal/usecase/legacy"
	"github.com/kailas-cloud/searchapi/internal/usecase/normalize"
	searchuc "github.com/kailas-cloud/searchapi/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	SearchObjects(ctx context.Context, token string, p request.SearchObjects) (result.Raw, error)
	SearchTypes(ctx context.Context, token string, p request.SearchTypes) (result.TypeCounts, error)
	GetObjects(ctx context.Context, token string, p request.GetObjects) (result.Raw, error)
	SearchWorkspace(ctx context.Context, token string, p request.SearchWorkspace) (result.WorkspaceHits, error)
	ShowIndexes(ctx context.Context) ([]result.IndexInfo, error)
}

type legacyUseCase interface {
	SearchObjects(ctx context.Context, token string, p domlegacy.SearchObjectsParams) (domlegacy.SearchObjectsResult, error)
}

// Client is the searchapi SDK entry point.
type Client struct {
	searchSvc searchUseCase
	legacySvc legacyUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the engine to answer.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readiness: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	svcCfg, err := cfg.serviceConfig()
	if err != nil {
		return nil, err
	}

	engine, err := elastic.NewClient(elastic.Config{
		URL:     svcCfg.Elasticsearch.URL,
		Timeout: seconds(svcCfg.Elasticsearch.RequestTimeoutSec),
	})
	if err != nil {
		return nil, fmt.Errorf("searchapi: create engine client: %w", err)
	}
	if err := engine.WaitForReady(ctx, cfg.readiness); err != nil {
		return nil, fmt.Errorf("searchapi: engine not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(svcCfg, engine, obs), nil
}

// serviceConfig maps options onto the server configuration so defaults are
// shared with the server. Workspace and profile URLs are optional: without
// them only anonymous calls and enrichment-free searches work.
func (c *clientConfig) serviceConfig() (*config.Config, error) {
	if c.esURL == "" {
		return nil, errors.New("searchapi: engine URL required (use WithElasticsearch)")
	}
	if c.indexPrefix == "" {
		return nil, errors.New("searchapi: index prefix required (use WithIndexPrefix)")
	}

	cfg := &config.Config{
		Elasticsearch: config.ElasticsearchConfig{
			URL:             c.esURL,
			IndexPrefix:     c.indexPrefix,
			PrefixDelimiter: c.prefixDelimiter,
		},
		Workspace:      config.WorkspaceConfig{URL: c.workspaceURL},
		UserProfile:    config.UserProfileConfig{URL: c.userProfileURL},
		Types:          c.types,
		SubObjectTypes: c.subObjectTypes,
	}
	if c.timeout > 0 {
		sec := max(int(c.timeout/time.Second), 1)
		cfg.Elasticsearch.RequestTimeoutSec = sec
		cfg.Workspace.TimeoutSec = sec
		cfg.UserProfile.TimeoutSec = sec
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func wireClient(cfg *config.Config, engine *elastic.Client, obs *observer) *Client {
	es := cfg.Elasticsearch
	naming := query.Naming{Prefix: es.IndexPrefix, Delimiter: es.PrefixDelimiter}

	repo := searchrepo.New(engine, searchrepo.Options{
		Naming: naming,
		Body:   query.BodyOptions{Timeout: es.SearchTimeout, TerminateAfter: es.TerminateAfter},
	})
	workspace := kbase.NewWorkspace(kbase.Config{URL: cfg.Workspace.URL, Timeout: seconds(cfg.Workspace.TimeoutSec)})
	profiles := kbase.NewUserProfile(kbase.Config{URL: cfg.UserProfile.URL, Timeout: seconds(cfg.UserProfile.TimeoutSec)})

	resolver := accessuc.New(workspace)
	compCfg := compiler.Config{
		Naming:         naming,
		DefaultAlias:   es.DefaultAlias,
		Types:          cfg.TypeAliases(),
		SubObjectTypes: cfg.SubObjectTypes,
	}
	normCfg := normalize.Config{Naming: naming, SuffixDelimiter: es.SuffixDelimiter}
	enricher := enrichuc.New(workspace, profiles, repo, enrichuc.Config{
		Naming:         naming,
		NarrativeIndex: es.NarrativeIndex,
		Concurrency:    cfg.Enrichment.WorkspaceConcurrency,
	})

	var wsChecker healthuc.WorkspaceChecker
	if cfg.Workspace.URL != "" {
		wsChecker = workspace
	}

	return &Client{
		searchSvc: searchuc.New(repo, resolver, compiler.NewModern(compCfg), normalize.NewModern(normCfg), cfg.Exposed()),
		legacySvc: legacyuc.New(resolver, repo, enricher,
			compiler.NewLegacy(compCfg), normalize.NewLegacy(normCfg), cfg.Service.GitURL),
		healthSvc: healthuc.New(repo, wsChecker),
		obs:       obs,
	}
}

// SearchObjects runs a raw engine query within the token's access scope.
// An empty token searches public data only.
func (c *Client) SearchObjects(ctx context.Context, token string, req SearchObjectsRequest) (res Hits, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_objects", start, err) }()

	return c.searchSvc.SearchObjects(ctx, token, req)
}

// SearchTypes counts matching documents per type.
func (c *Client) SearchTypes(ctx context.Context, token string, req SearchTypesRequest) (res TypeCounts, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_types", start, err) }()

	return c.searchSvc.SearchTypes(ctx, token, req)
}

// GetObjects fetches documents by ID. Documents the token may not read are
// silently left out.
func (c *Client) GetObjects(ctx context.Context, token string, req GetObjectsRequest) (res Hits, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_objects", start, err) }()

	return c.searchSvc.GetObjects(ctx, token, req)
}

// SearchWorkspace runs a filter-tree search and returns bare documents.
func (c *Client) SearchWorkspace(
	ctx context.Context, token string, req SearchWorkspaceRequest,
) (res WorkspaceHits, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_workspace", start, err) }()

	return c.searchSvc.SearchWorkspace(ctx, token, req)
}

// ShowIndexes lists the indexes under the configured prefix with document counts.
func (c *Client) ShowIndexes(ctx context.Context) (res []IndexInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("show_indexes", start, err) }()

	return c.searchSvc.ShowIndexes(ctx)
}

// LegacySearchObjects runs a v1 search_objects call, including enrichment.
func (c *Client) LegacySearchObjects(
	ctx context.Context, token string, p LegacySearchObjectsParams,
) (res LegacySearchObjectsResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("legacy_search_objects", start, err) }()

	return c.legacySvc.SearchObjects(ctx, token, p)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
