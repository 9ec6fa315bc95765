package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/searchapi/internal/domain"
	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/domain/workspace"
	"github.com/kailas-cloud/searchapi/internal/usecase/compiler"
	"github.com/kailas-cloud/searchapi/internal/usecase/enrich"
	"github.com/kailas-cloud/searchapi/internal/usecase/normalize"
	"github.com/kailas-cloud/searchapi/internal/version"
)

// --- Mocks ---

type mockResolver struct {
	scope access.Scope
	err   error
	modes []access.Mode
}

func (m *mockResolver) Resolve(_ context.Context, _ string, mode access.Mode) (access.Scope, error) {
	m.modes = append(m.modes, mode)
	return m.scope, m.err
}

type mockSearcher struct {
	raw     result.Raw
	err     error
	queries []query.Query
}

func (m *mockSearcher) Search(_ context.Context, q query.Query) (result.Raw, error) {
	m.queries = append(m.queries, q)
	return m.raw, m.err
}

type mockEnricher struct {
	out   domlegacy.Enrichment
	err   error
	calls []enrich.Options
}

func (m *mockEnricher) Enrich(
	_ context.Context, _ string, _ access.Scope, _ []result.Hit, opts enrich.Options,
) (domlegacy.Enrichment, error) {
	m.calls = append(m.calls, opts)
	return m.out, m.err
}

// --- Helpers ---

func newService(r *mockResolver, s *mockSearcher, e *mockEnricher) *Service {
	naming := query.Naming{Prefix: "search2", Delimiter: "."}
	comp := compiler.NewLegacy(compiler.Config{
		Naming:       naming,
		DefaultAlias: "default_search",
		Types:        map[string]string{"Genome": "genome"},
	})
	norm := normalize.NewLegacy(normalize.Config{Naming: naming, SuffixDelimiter: "_"})
	return New(r, s, e, comp, norm, "https://example.org/searchapi")
}

func publicHits() result.Raw {
	return result.Raw{
		Count:      4,
		SearchTime: 12,
		Hits: []result.Hit{
			{Index: "search2.genome_1", ID: "WS::1:1", Doc: map[string]any{"access_group": json.Number("1"), "is_public": true}},
			{Index: "search2.genome_1", ID: "WS::2:1", Doc: map[string]any{"access_group": json.Number("2"), "is_public": true}},
		},
	}
}

func flag(v bool) *domlegacy.Flag {
	f := domlegacy.Flag(v)
	return &f
}

func filterJSON(t *testing.T, q query.Query) string {
	t.Helper()
	b, err := json.Marshal(q.Bool.Filter)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// --- Tests ---

func TestSearchObjects_PublicOnly(t *testing.T) {
	r := &mockResolver{scope: access.NewScope([]int64{1, 2, 3}, access.PublicOnly)}
	s := &mockSearcher{raw: publicHits()}
	e := &mockEnricher{}
	svc := newService(r, s, e)

	start, count := 0, 20
	p := domlegacy.SearchObjectsParams{
		MatchFilter:  domlegacy.MatchFilter{FullTextInAll: "coli"},
		AccessFilter: domlegacy.AccessFilter{WithPrivate: flag(false), WithPublic: flag(true)},
		Pagination:   &domlegacy.Pagination{Start: &start, Count: &count},
	}
	out, err := svc.SearchObjects(context.Background(), "tok", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.modes) != 1 || r.modes[0] != access.PublicOnly {
		t.Errorf("resolver modes = %v, want [public]", r.modes)
	}
	if out.Total != 4 || len(out.Objects) != 2 || out.SearchTime != 12 {
		t.Errorf("unexpected result: total=%d objects=%d time=%d", out.Total, len(out.Objects), out.SearchTime)
	}
	if len(s.queries) != 1 {
		t.Fatalf("expected one engine query, got %d", len(s.queries))
	}
	if got := filterJSON(t, s.queries[0]); got != `[{"term":{"is_public":true}}]` {
		t.Errorf("access filter = %s", got)
	}
	if len(e.calls) != 0 {
		t.Error("enrichment must not run unless requested")
	}
}

func TestSearchObjects_NoPublicNoPrivate(t *testing.T) {
	r := &mockResolver{}
	s := &mockSearcher{}
	svc := newService(r, s, &mockEnricher{})

	p := domlegacy.SearchObjectsParams{
		AccessFilter: domlegacy.AccessFilter{WithPrivate: flag(false), WithPublic: flag(false)},
	}
	_, err := svc.SearchObjects(context.Background(), "tok", p)
	if !errors.Is(err, domain.ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
	_, err = svc.SearchTypes(context.Background(), "tok", domlegacy.SearchTypesParams{AccessFilter: p.AccessFilter})
	if !errors.Is(err, domain.ErrInvalidParameters) {
		t.Fatalf("search_types: expected ErrInvalidParameters, got %v", err)
	}
	if len(r.modes) != 0 || len(s.queries) != 0 {
		t.Error("input errors must not reach upstream services")
	}
}

func TestSearchObjects_CompileErrorBeforeAuth(t *testing.T) {
	r := &mockResolver{}
	svc := newService(r, &mockSearcher{}, &mockEnricher{})

	_, err := svc.SearchObjects(context.Background(), "tok", domlegacy.SearchObjectsParams{ObjectTypes: []string{"Nope"}})
	if !errors.Is(err, domain.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if len(r.modes) != 0 {
		t.Error("resolver must not be called for invalid input")
	}
}

func TestSearchObjects_Enrichment(t *testing.T) {
	e := &mockEnricher{out: domlegacy.Enrichment{
		GroupsInfo: map[string]workspace.Info{"1": {json.Number("1")}},
	}}
	svc := newService(&mockResolver{scope: access.Anonymous()}, &mockSearcher{raw: publicHits()}, e)

	out, err := svc.SearchObjects(context.Background(), "", domlegacy.SearchObjectsParams{
		PostProcessing: domlegacy.PostProcessing{AddAccessGroupInfo: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.calls) != 1 || e.calls[0] != (enrich.Options{Groups: true}) {
		t.Errorf("enrich calls = %+v", e.calls)
	}
	if len(out.GroupsInfo) != 1 {
		t.Errorf("groups info not attached: %+v", out.Enrichment)
	}
}

func TestSearchObjects_UpstreamErrors(t *testing.T) {
	authErr := domain.NewError(domain.ErrAuth, "Token expired")
	_, err := newService(&mockResolver{err: authErr}, &mockSearcher{}, &mockEnricher{}).
		SearchObjects(context.Background(), "tok", domlegacy.SearchObjectsParams{})
	if !errors.Is(err, domain.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}

	engineErr := domain.NewError(domain.ErrUnknownIndex, "no such index [search2.x]")
	_, err = newService(&mockResolver{}, &mockSearcher{err: engineErr}, &mockEnricher{}).
		SearchObjects(context.Background(), "tok", domlegacy.SearchObjectsParams{})
	if !errors.Is(err, domain.ErrUnknownIndex) {
		t.Errorf("expected ErrUnknownIndex, got %v", err)
	}

	enrichErr := domain.NewError(domain.ErrNoAccessGroup, "WS::1:1")
	_, err = newService(&mockResolver{}, &mockSearcher{raw: publicHits()}, &mockEnricher{err: enrichErr}).
		SearchObjects(context.Background(), "tok", domlegacy.SearchObjectsParams{
			PostProcessing: domlegacy.PostProcessing{AddNarrativeInfo: true},
		})
	if !errors.Is(err, domain.ErrNoAccessGroup) {
		t.Errorf("expected ErrNoAccessGroup, got %v", err)
	}
}

func TestSearchTypes(t *testing.T) {
	s := &mockSearcher{raw: result.Raw{
		SearchTime: 5,
		Aggregations: map[string]result.Aggregation{
			result.TypeCountAgg: {Counts: []result.Bucket{{Key: "Genome", Count: 2}, {Key: "Genome", Count: 1}}},
		},
	}}
	svc := newService(&mockResolver{scope: access.NewScope([]int64{4}, access.Both)}, s, &mockEnricher{})

	out, err := svc.SearchTypes(context.Background(), "tok", domlegacy.SearchTypesParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TypeToCount["Genome"] != 3 || out.SearchTime != 5 {
		t.Errorf("unexpected result %+v", out)
	}
	if s.queries[0].Size != 0 {
		t.Errorf("search_types must not fetch hits, size=%d", s.queries[0].Size)
	}
}

func TestGetObjects(t *testing.T) {
	r := &mockResolver{scope: access.NewScope([]int64{1}, access.Both)}
	s := &mockSearcher{raw: publicHits()}
	svc := newService(r, s, &mockEnricher{})

	out, err := svc.GetObjects(context.Background(), "tok", domlegacy.GetObjectsParams{GUIDs: []string{"WS:1/1/1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Objects) != 2 {
		t.Errorf("objects = %d", len(out.Objects))
	}
	if len(r.modes) != 1 || r.modes[0] != access.Both {
		t.Errorf("get_objects must resolve both public and private, got %v", r.modes)
	}
	want := `[{"bool":{"should":[{"term":{"is_public":true}},{"terms":{"access_group":[1]}}]}}]`
	if got := filterJSON(t, s.queries[0]); got != want {
		t.Errorf("access filter = %s", got)
	}
}

func TestListTypesAndStatus(t *testing.T) {
	svc := newService(&mockResolver{}, &mockSearcher{}, &mockEnricher{})
	if lt := svc.ListTypes(context.Background()); lt == nil || len(lt) != 0 {
		t.Errorf("list_types = %v, want empty object", lt)
	}
	st := svc.Status(context.Background())
	if st.State != StatusOK || st.Version != version.Version || st.GitURL != "https://example.org/searchapi" {
		t.Errorf("status = %+v", st)
	}
}
