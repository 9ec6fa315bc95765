package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/filter"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
)

func testConfig() Config {
	return Config{
		Naming:       query.Naming{Prefix: "search2", Delimiter: "."},
		DefaultAlias: "default_search",
		Types: map[string]string{
			"Genome":    "genome",
			"Narrative": "narrative",
		},
		SubObjectTypes: map[string]string{"GenomeFeature": "genome_features"},
	}
}

func body(t *testing.T, q query.Query) string {
	t.Helper()
	b, err := json.Marshal(q.Body(query.BodyOptions{}))
	require.NoError(t, err)
	return string(b)
}

func queryJSON(t *testing.T, c query.Clause) string {
	t.Helper()
	b, err := json.Marshal(c)
	require.NoError(t, err)
	return string(b)
}

func ptr[T any](v T) *T { return &v }

func TestAccessClause(t *testing.T) {
	tests := []struct {
		name  string
		scope access.Scope
		want  string
	}{
		{"anonymous", access.Anonymous(), `{"term":{"is_public":true}}`},
		{"public only", access.NewScope([]int64{1}, access.PublicOnly), `{"term":{"is_public":true}}`},
		{
			"private only",
			access.NewScope([]int64{1, 2}, access.PrivateOnly),
			`{"bool":{"must":[{"term":{"is_public":false}},{"terms":{"access_group":[1,2]}}]}}`,
		},
		{
			"both",
			access.NewScope([]int64{7}, access.Both),
			`{"bool":{"should":[{"term":{"is_public":true}},{"terms":{"access_group":[7]}}]}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, queryJSON(t, AccessClause(tt.scope)))
		})
	}
}

func TestRestrict_DoesNotMutateInput(t *testing.T) {
	base := query.Query{Bool: query.Bool{Filter: make([]query.Clause, 1, 4)}}
	base.Bool.Filter[0] = query.Term("tags", "x")

	a := Restrict(base, access.Anonymous())
	b := Restrict(base, access.NewScope([]int64{1}, access.PrivateOnly))

	assert.Len(t, base.Bool.Filter, 1)
	assert.Len(t, a.Bool.Filter, 2)
	assert.NotEqual(t, queryJSON(t, a.Bool.Filter[1]), queryJSON(t, b.Bool.Filter[1]))
}

func TestLegacySearchObjects_Defaults(t *testing.T) {
	q, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{})
	require.NoError(t, err)

	assert.Equal(t, []string{"search2.default_search"}, q.Indexes.Include())
	assert.Equal(t, 0, q.From)
	assert.Equal(t, legacy.DefaultPageSize, q.Size)
	assert.True(t, q.TrackTotalHits)
	assert.Nil(t, q.Highlight)
	assert.JSONEq(t,
		`{"query":{"bool":{}},"size":20,"from":0,"sort":[{"timestamp":{"order":"asc"}}],"track_total_hits":true}`,
		body(t, q))
}

func TestLegacySearchObjects_EmptySortingRules(t *testing.T) {
	q, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		SortingRules: []legacy.SortingRule{},
	})
	require.NoError(t, err)
	assert.Empty(t, q.Sort)
}

func TestLegacySearchObjects_MatchFilter(t *testing.T) {
	p := legacy.SearchObjectsParams{
		MatchFilter: legacy.MatchFilter{
			FullTextInAll: "coli",
			ObjectName:    "genome",
			Timestamp:     &legacy.TimestampRange{MinDate: ptr(int64(10)), MaxDate: ptr(int64(20))},
			SourceTags:    []string{"refdata"},
			LookupInKeys: map[string]legacy.MatchValue{
				"size":   {MinInt: ptr(int64(5))},
				"domain": {Value: ptr("Bacteria")},
			},
		},
		ObjectTypes: []string{"KBaseGenomes.Genome"},
		Pagination:  &legacy.Pagination{Start: ptr(40), Count: ptr(5)},
	}
	q, err := NewLegacy(testConfig()).SearchObjects(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"search2.genome"}, q.Indexes.Include())
	assert.Equal(t, 40, q.From)
	assert.Equal(t, 5, q.Size)
	assert.JSONEq(t, `{"bool":{
		"must":[
			{"match":{"agg_fields":{"query":"coli","operator":"AND"}}},
			{"match":{"obj_name":"genome"}},
			{"range":{"timestamp":{"gte":10,"lte":20}}},
			{"term":{"tags":"refdata"}},
			{"match":{"domain":"Bacteria"}},
			{"range":{"size":{"gte":5}}}
		],
		"filter":[{"bool":{"should":[{"term":{"obj_type_name":"Genome"}}]}}]
	}}`, queryJSON(t, q.Bool.Clause()))
}

func TestLegacySearchObjects_TagBlacklist(t *testing.T) {
	q, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		MatchFilter: legacy.MatchFilter{SourceTags: []string{"a", "b"}, SourceTagsBlacklist: true},
	})
	require.NoError(t, err)
	assert.Empty(t, q.Bool.Must)
	assert.JSONEq(t,
		`{"bool":{"must_not":[{"term":{"tags":"a"}},{"term":{"tags":"b"}}]}}`,
		queryJSON(t, q.Bool.Clause()))
}

func TestLegacySearchObjects_InvalidTimestamp(t *testing.T) {
	for _, ts := range []*legacy.TimestampRange{
		{MinDate: ptr(int64(20)), MaxDate: ptr(int64(10))},
		{MinDate: ptr(int64(10)), MaxDate: ptr(int64(10))},
		{MinDate: ptr(int64(10))},
	} {
		_, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
			MatchFilter: legacy.MatchFilter{Timestamp: ts},
		})
		require.ErrorIs(t, err, domain.ErrInvalidParameters)
		assert.Equal(t, "Invalid timestamp range in match_filter/timestamp", domain.Detail(err))
	}
}

func TestLegacySearchObjects_UnknownType(t *testing.T) {
	_, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		ObjectTypes: []string{"KBaseFoo.Bar"},
	})
	require.ErrorIs(t, err, domain.ErrUnknownType)
	assert.Equal(t, "KBaseFoo.Bar", domain.Detail(err))
}

func TestLegacySearchObjects_SubObjectType(t *testing.T) {
	q, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		ObjectTypes: []string{"GenomeFeature", "Narrative"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"search2.genome_features", "search2.narrative"}, q.Indexes.Include())
	assert.JSONEq(t,
		`{"bool":{"filter":[{"bool":{"should":[{"term":{"obj_type_name":"Narrative"}}]}}]}}`,
		queryJSON(t, q.Bool.Clause()))
}

func TestLegacySearchObjects_ExcludeSubobjects(t *testing.T) {
	q, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		MatchFilter: legacy.MatchFilter{ExcludeSubobjects: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"search2.genome_features"}, q.Indexes.Exclude())
	assert.Equal(t, "search2.default_search,-search2.genome_features", q.Indexes.Render(true))
	assert.Equal(t, "search2.default_search", q.Indexes.Render(false))
}

func TestLegacySearchObjects_Sorting(t *testing.T) {
	no, yes := legacy.Flag(false), legacy.Flag(true)
	q, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		SortingRules: []legacy.SortingRule{
			{Property: "scientific_name", IsObjectProperty: &no, Ascending: &no},
			{Property: "size", IsObjectProperty: &yes},
		},
	})
	require.NoError(t, err)
	b, err := json.Marshal(q.Sort)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"scientific_name.raw":{"order":"desc"}},{"size":{"order":"asc"}}]`, string(b))
}

func TestLegacySearchObjects_InvalidSortProperty(t *testing.T) {
	no := legacy.Flag(false)
	_, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		SortingRules: []legacy.SortingRule{{Property: "x", IsObjectProperty: &no}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
	assert.Equal(t, "Invalid non-object sorting property 'x'", domain.Detail(err))
}

func TestLegacySearchObjects_NegativePagination(t *testing.T) {
	_, err := NewLegacy(testConfig()).SearchObjects(legacy.SearchObjectsParams{
		Pagination: &legacy.Pagination{Start: ptr(-1)},
	})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestLegacySearchObjects_Highlight(t *testing.T) {
	p := legacy.SearchObjectsParams{
		MatchFilter:    legacy.MatchFilter{FullTextInAll: "coli", SourceTags: []string{"refdata"}},
		PostProcessing: legacy.PostProcessing{IncludeHighlight: true},
	}
	q, err := NewLegacy(testConfig()).SearchObjects(p)
	require.NoError(t, err)
	require.NotNil(t, q.Highlight)

	b, err := json.Marshal(q.Highlight)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fields":{"*":{}},
		"require_field_match":false,
		"highlight_query":{"bool":{"must":[{"match":{"agg_fields":{"query":"coli","operator":"AND"}}}]}}
	}`, string(b))

	p.PostProcessing.IDsOnly = true
	q, err = NewLegacy(testConfig()).SearchObjects(p)
	require.NoError(t, err)
	assert.Nil(t, q.Highlight)
}

func TestLegacySearchObjects_Deterministic(t *testing.T) {
	p := legacy.SearchObjectsParams{
		MatchFilter: legacy.MatchFilter{
			LookupInKeys: map[string]legacy.MatchValue{
				"z": {IntValue: ptr(int64(1))},
				"a": {StringValue: ptr("x")},
				"m": {MinDouble: ptr(1.5), MaxDouble: ptr(2.5)},
			},
		},
	}
	c := NewLegacy(testConfig())
	first, err := c.SearchObjects(p)
	require.NoError(t, err)
	for range 20 {
		again, err := c.SearchObjects(p)
		require.NoError(t, err)
		assert.Equal(t, body(t, first), body(t, again))
	}
}

func TestLegacySearchTypes(t *testing.T) {
	q, err := NewLegacy(testConfig()).SearchTypes(legacy.SearchTypesParams{
		MatchFilter: legacy.MatchFilter{FullTextInAll: "coli"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Size)
	assert.JSONEq(t, `{"type_count":{"terms":{"field":"obj_type_name"}}}`, queryJSON(t, q.Aggs))
}

func TestLegacyGetObjects(t *testing.T) {
	q, err := NewLegacy(testConfig()).GetObjects(legacy.GetObjectsParams{
		IDs:   []string{"WS::1:2"},
		GUIDs: []string{"WS:3/4/5"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, q.Size)
	assert.Equal(t, []string{"search2.default_search"}, q.Indexes.Include())
	assert.JSONEq(t, `{"bool":{"must":[{"terms":{"_id":["WS::1:2","WS::3:4"]}}]}}`, queryJSON(t, q.Bool.Clause()))
}

func TestLegacyGetObjects_Errors(t *testing.T) {
	_, err := NewLegacy(testConfig()).GetObjects(legacy.GetObjectsParams{})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = NewLegacy(testConfig()).GetObjects(legacy.GetObjectsParams{GUIDs: []string{"nope"}})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestModernSearchObjects(t *testing.T) {
	p := request.SearchObjects{
		Indexes:        []string{"Genome", "genome"},
		ExcludeIndexes: []string{"genome_features"},
		Query:          map[string]any{"match": map[string]any{"obj_name": "x"}},
		Size:           ptr(3),
		From:           6,
		Sort:           []any{"_score"},
		Highlight:      map[string]any{"fields": map[string]any{"obj_name": map[string]any{}}},
		Source:         []any{"obj_name"},
	}
	q, err := NewModern(testConfig()).SearchObjects(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"search2.genome"}, q.Indexes.Include())
	assert.Equal(t, []string{"search2.genome_features"}, q.Indexes.Exclude())
	assert.JSONEq(t, `{
		"query":{"bool":{"must":[{"match":{"obj_name":"x"}}]}},
		"size":3,"from":6,
		"sort":["_score"],
		"_source":["obj_name"],
		"highlight":{"fields":{"obj_name":{}}}
	}`, body(t, q))
}

func TestModernSearchObjects_Defaults(t *testing.T) {
	q, err := NewModern(testConfig()).SearchObjects(request.SearchObjects{})
	require.NoError(t, err)
	assert.Equal(t, []string{"search2.default_search"}, q.Indexes.Include())
	assert.Equal(t, request.DefaultSize, q.Size)
	assert.Empty(t, q.Bool.Must)
	assert.Empty(t, q.Bool.Filter)
	assert.Empty(t, q.Bool.Should)
	assert.Empty(t, q.Bool.MustNot)
	assert.Nil(t, q.Highlight)
}

func TestModernSearchObjects_InvalidIndex(t *testing.T) {
	_, err := NewModern(testConfig()).SearchObjects(request.SearchObjects{Indexes: []string{"a,b"}})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestModernSearchTypes(t *testing.T) {
	q, err := NewModern(testConfig()).SearchTypes(request.SearchTypes{
		Query: map[string]any{"term": map[string]any{"tags": "x"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"query":{"bool":{"must":[{"term":{"tags":"x"}}]}},
		"size":0,"from":0,
		"aggs":{"type_count":{"terms":{"field":"obj_type_name"}}}
	}`, body(t, q))
}

func TestModernGetObjects(t *testing.T) {
	q, err := NewModern(testConfig()).GetObjects(request.GetObjects{IDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, q.Size)
	assert.JSONEq(t, `{"bool":{"must":[{"terms":{"_id":["a","b"]}}]}}`, queryJSON(t, q.Bool.Clause()))
}

func TestModernSearchWorkspace(t *testing.T) {
	p := request.SearchWorkspace{
		Types:  []string{"genome"},
		Search: &request.TextSearch{Query: "coli", Fields: []string{"agg_fields"}},
		Filters: &filter.Node{
			Operator: filter.And,
			Fields: []filter.Node{
				{Field: "is_public", Term: true},
				{Field: "size", Range: &filter.Range{Min: 1}},
			},
		},
		Sorts:         [][]string{{"timestamp", "desc"}},
		Paging:        &request.Paging{Length: ptr(5), Offset: 10},
		IncludeFields: []string{"obj_name"},
	}
	q, err := NewModern(testConfig()).SearchWorkspace(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"search2.genome"}, q.Indexes.Include())
	assert.JSONEq(t, `{
		"query":{"bool":{
			"must":[{"simple_query_string":{"query":"coli","fields":["agg_fields"]}}],
			"filter":[{"bool":{"must":[
				{"term":{"is_public":{"value":true}}},
				{"range":{"size":{"gte":1}}}
			]}}]
		}},
		"size":5,"from":10,
		"sort":[{"timestamp":{"order":"desc"}}],
		"_source":["obj_name"]
	}`, body(t, q))
}

func TestModernSearchWorkspace_BadFilter(t *testing.T) {
	_, err := NewModern(testConfig()).SearchWorkspace(request.SearchWorkspace{
		Filters: &filter.Node{Operator: "XOR", Fields: []filter.Node{{Field: "a", Term: 1}}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}
