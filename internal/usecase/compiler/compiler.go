// Package compiler turns v1 and v2 request parameters into engine queries.
// Compilation is pure: equal inputs give byte-identical query bodies.
package compiler

import (
	"maps"
	"slices"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/access"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Document fields the compilers reference.
const (
	fieldAggText   = "agg_fields"
	fieldObjName   = "obj_name"
	fieldTimestamp = "timestamp"
	fieldTags      = "tags"
	fieldObjType   = "obj_type_name"
	fieldIsPublic  = "is_public"
	fieldAccessGrp = "access_group"
	fieldID        = "_id"
)

// Config is the immutable naming and type configuration shared by both compilers.
type Config struct {
	Naming       query.Naming
	DefaultAlias string
	// Types maps a bare type name to its index alias.
	Types map[string]string
	// SubObjectTypes maps a synthetic sub-object type to its index alias.
	SubObjectTypes map[string]string
}

// subObjectAliases returns the sub-object aliases in a stable order.
func (c Config) subObjectAliases() []string {
	return slices.Sorted(maps.Values(c.SubObjectTypes))
}

// Restrict adds the access filter for scope to q:
//
//	public only:  term is_public:true
//	private only: term is_public:false AND terms access_group:ids
//	both:         term is_public:true OR terms access_group:ids
func Restrict(q query.Query, scope access.Scope) query.Query {
	q.Bool.Filter = append(slices.Clip(q.Bool.Filter), AccessClause(scope))
	return q
}

// AccessClause builds the access filter clause for scope.
func AccessClause(scope access.Scope) query.Clause {
	switch {
	case scope.OnlyPublic():
		return query.Term(fieldIsPublic, true)
	case scope.OnlyPrivate():
		return query.Bool{Must: []query.Clause{
			query.Term(fieldIsPublic, false),
			query.Terms(fieldAccessGrp, scope.IDs()),
		}}.Clause()
	default:
		return query.Bool{Should: []query.Clause{
			query.Term(fieldIsPublic, true),
			query.Terms(fieldAccessGrp, scope.IDs()),
		}}.Clause()
	}
}

// tagClauses builds one term clause per tag.
func tagClauses(tags []string) []query.Clause {
	out := make([]query.Clause, 0, len(tags))
	for _, tag := range tags {
		out = append(out, query.Term(fieldTags, tag))
	}
	return out
}

// lookupClauses builds exact or range clauses for lookup_in_keys, in key
// order. Entries with neither a term nor a bound are skipped.
func lookupClauses(lookups map[string]legacy.MatchValue) []query.Clause {
	var out []query.Clause
	for _, key := range slices.Sorted(maps.Keys(lookups)) {
		mv := lookups[key]
		if tv, ok := mv.Term(); ok {
			out = append(out, query.Match(key, tv.Value()))
			continue
		}
		var gte, lte any
		if lo, ok := mv.Min(); ok {
			gte = lo.Value()
		}
		if hi, ok := mv.Max(); ok {
			lte = hi.Value()
		}
		if gte != nil || lte != nil {
			out = append(out, query.Range(key, gte, lte))
		}
	}
	return out
}

// indexScopedSort maps v1 non-object sort properties to document fields.
var indexScopedSort = map[string]string{
	"scientific_name":        "scientific_name.raw",
	"genome_scientific_name": "genome_scientific_name.raw",
	"access_group_id":        "access_group",
	"type":                   "obj_type_name",
	"timestamp":              "timestamp",
	"guid":                   "id",
}

// sortFields resolves v1 sorting rules. Object properties are used
// literally; others go through indexScopedSort.
func sortFields(rules []legacy.SortingRule) ([]any, error) {
	out := make([]any, 0, len(rules))
	for _, r := range rules {
		if r.Property == "" {
			return nil, domain.InvalidParams("sorting rule property is required")
		}
		field := r.Property
		if !r.IsObject() {
			mapped, ok := indexScopedSort[r.Property]
			if !ok {
				return nil, domain.InvalidParams("Invalid non-object sorting property '%s'", r.Property)
			}
			field = mapped
		}
		order := query.Asc
		if !r.IsAscending() {
			order = query.Desc
		}
		out = append(out, query.SortField{Field: field, Order: order})
	}
	return out, nil
}

func typeCountAggs() map[string]any {
	return map[string]any{
		result.TypeCountAgg: map[string]any{"terms": map[string]any{"field": fieldObjType}},
	}
}
