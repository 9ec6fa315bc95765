// Package enrich resolves workspace and narrative metadata for the
// workspaces referenced by a v1 result set.
package enrich

import (
	"context"
	"slices"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/domain/workspace"
	"github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/usecase/compiler"
)

// Narrative document fields.
const (
	fieldAccessGroup = "access_group"
	fieldTitle       = "narrative_title"
	fieldObjID       = "obj_id"
)

// Config controls the resolver.
type Config struct {
	Naming         query.Naming
	NarrativeIndex string
	// Concurrency bounds the parallel workspace info fetches.
	Concurrency int
	// StrictProfiles turns a missing owner profile into ErrNoUserProfile
	// instead of falling back to the username.
	StrictProfiles bool
}

// Options selects which maps to build.
type Options struct {
	Narratives bool
	Groups     bool
}

// Service is the enrichment resolver.
type Service struct {
	workspaces WorkspaceInfoGetter
	profiles   ProfileGetter
	searcher   Searcher
	cfg        Config
}

// New creates an enrichment resolver.
func New(workspaces WorkspaceInfoGetter, profiles ProfileGetter, searcher Searcher, cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Service{workspaces: workspaces, profiles: profiles, searcher: searcher, cfg: cfg}
}

// Enrich builds the requested maps for the workspaces referenced by hits.
// Every hit must carry an access group. Workspaces the service returns no
// info for are skipped; narrative workspaces without an indexed narrative
// are logged and omitted. Owner profiles of every fetched workspace are
// looked up in one batch, concurrently with the narrative query.
func (s *Service) Enrich(
	ctx context.Context, token string, scope access.Scope, hits []result.Hit, opts Options,
) (legacy.Enrichment, error) {
	var out legacy.Enrichment
	if !opts.Narratives && !opts.Groups {
		return out, nil
	}

	ids, err := workspaceIDs(hits)
	if err != nil {
		return out, err
	}

	infos, err := s.fetchInfos(ctx, token, ids)
	if err != nil {
		return out, err
	}
	narrativeIDs, owners := partition(infos)

	var (
		realNames map[string]string
		docs      map[int64]map[string]any
	)
	g, gctx := errgroup.WithContext(ctx)
	if len(owners) > 0 {
		g.Go(func() error {
			var err error
			realNames, err = s.realNames(gctx, token, owners)
			return err
		})
	}
	if opts.Narratives && len(narrativeIDs) > 0 {
		g.Go(func() error {
			var err error
			docs, err = s.narrativeDocs(gctx, scope, narrativeIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return legacy.Enrichment{}, err
	}

	if opts.Groups {
		out.GroupsInfo = make(map[string]workspace.Info, len(infos))
		for id, info := range infos {
			out.GroupsInfo[key(id)] = info
		}
	}
	if opts.Narratives {
		out.NarrativeInfo = narratives(ctx, infos, narrativeIDs, docs, realNames)
	}
	return out, nil
}

// partition returns the narrative workspace IDs and the distinct owners of
// all workspaces, both sorted.
func partition(infos map[int64]workspace.Info) ([]int64, []string) {
	var narrativeIDs []int64
	seen := make(map[string]struct{}, len(infos))
	owners := make([]string, 0, len(infos))
	for id, info := range infos {
		if info.IsNarrative() {
			narrativeIDs = append(narrativeIDs, id)
		}
		if _, dup := seen[info.Owner()]; !dup {
			seen[info.Owner()] = struct{}{}
			owners = append(owners, info.Owner())
		}
	}
	slices.Sort(narrativeIDs)
	slices.Sort(owners)
	return narrativeIDs, owners
}

// workspaceIDs returns the distinct access groups of hits in ascending order.
func workspaceIDs(hits []result.Hit) ([]int64, error) {
	seen := make(map[int64]struct{}, len(hits))
	var ids []int64
	for _, h := range hits {
		id, ok := result.AsInt(h.Doc[fieldAccessGroup])
		if !ok {
			return nil, domain.NewError(domain.ErrNoAccessGroup, h.ID)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// fetchInfos fetches the info tuple of every workspace concurrently.
// Incomplete tuples are dropped.
func (s *Service) fetchInfos(ctx context.Context, token string, ids []int64) (map[int64]workspace.Info, error) {
	fetched := make([]workspace.Info, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			info, err := s.workspaces.GetWorkspaceInfo(gctx, token, id)
			if err != nil {
				return err
			}
			fetched[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64]workspace.Info, len(ids))
	for i, info := range fetched {
		if !info.Complete() {
			logger.FromContext(ctx).Debug("workspace info unavailable", zap.Int64("workspace_id", ids[i]))
			continue
		}
		out[ids[i]] = info
	}
	return out, nil
}

// narratives joins workspace infos, owner names and indexed narrative documents.
func narratives(
	ctx context.Context, infos map[int64]workspace.Info, ids []int64,
	docs map[int64]map[string]any, realNames map[string]string,
) map[string]workspace.NarrativeInfo {
	out := make(map[string]workspace.NarrativeInfo, len(ids))
	log := logger.FromContext(ctx)
	for _, id := range ids {
		doc, ok := docs[id]
		if !ok {
			log.Warn("narrative workspace has no indexed narrative", zap.Int64("workspace_id", id))
			continue
		}
		info := infos[id]
		title, _ := doc[fieldTitle].(string)
		objID, _ := result.AsInt(doc[fieldObjID])
		modified, err := workspace.EpochMillis(info.ModDate())
		if err != nil {
			log.Warn("workspace modification date unparseable", zap.Int64("workspace_id", id), zap.Error(err))
		}
		out[key(id)] = workspace.NarrativeInfo{
			Title:         title,
			ObjectID:      objID,
			ModifiedAt:    modified,
			Owner:         info.Owner(),
			OwnerRealName: realNames[info.Owner()],
		}
	}
	return out
}

// realNames maps each owner to a display name.
func (s *Service) realNames(ctx context.Context, token string, owners []string) (map[string]string, error) {
	profiles, err := s.profiles.GetUserProfiles(ctx, token, owners)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(owners))
	for i, owner := range owners {
		var p *workspace.UserProfile
		if i < len(profiles) {
			p = profiles[i]
		}
		if p == nil {
			if s.cfg.StrictProfiles {
				return nil, domain.NewError(domain.ErrNoUserProfile, owner)
			}
			logger.FromContext(ctx).Warn("owner has no user profile, using username", zap.String("owner", owner))
			out[owner] = owner
			continue
		}
		out[owner] = p.RealName
	}
	return out, nil
}

// narrativeDocs fetches the narrative documents of ids in one query, keyed
// by workspace ID.
func (s *Service) narrativeDocs(ctx context.Context, scope access.Scope, ids []int64) (map[int64]map[string]any, error) {
	sel, err := s.cfg.Naming.Select([]string{s.cfg.NarrativeIndex}, s.cfg.NarrativeIndex)
	if err != nil {
		return nil, err
	}
	should := make([]query.Clause, 0, len(ids))
	for _, id := range ids {
		should = append(should, query.Term(fieldAccessGroup, id))
	}
	q := compiler.Restrict(query.Query{
		Indexes: sel,
		Bool:    query.Bool{Filter: []query.Clause{query.Bool{Should: should}.Clause()}},
		Size:    len(ids),
	}, scope)

	raw, err := s.searcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]map[string]any, len(raw.Hits))
	for _, h := range raw.Hits {
		id, ok := result.AsInt(h.Doc[fieldAccessGroup])
		if !ok {
			continue
		}
		if _, dup := out[id]; !dup {
			out[id] = h.Doc
		}
	}
	return out, nil
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}
