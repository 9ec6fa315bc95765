// Package query holds the engine-native compiled query: boolean clause trees,
// paging, sort, aggregations, highlight and the prefixed index selector.
package query

import "encoding/json"

// Clause is one node of the engine query DSL, e.g. {"term": {"tags": "refdata"}}.
// Maps marshal with sorted keys, so identical clauses serialize identically.
type Clause map[string]any

// Term matches an exact value.
func Term(field string, value any) Clause {
	return Clause{"term": map[string]any{field: value}}
}

// TermValue matches an exact value using the long form {"field": {"value": v}}.
func TermValue(field string, value any) Clause {
	return Clause{"term": map[string]any{field: map[string]any{"value": value}}}
}

// Terms matches any of the values.
func Terms[T any](field string, values []T) Clause {
	if values == nil {
		values = []T{}
	}
	return Clause{"terms": map[string]any{field: values}}
}

// Match is an analyzed match on a single field.
func Match(field string, value any) Clause {
	return Clause{"match": map[string]any{field: value}}
}

// MatchAll is an analyzed match requiring every term of text.
func MatchAll(field, text string) Clause {
	return Clause{"match": map[string]any{field: map[string]any{
		"query":    text,
		"operator": "AND",
	}}}
}

// Range bounds a field inclusively. Nil bounds are omitted.
func Range(field string, gte, lte any) Clause {
	bounds := map[string]any{}
	if gte != nil {
		bounds["gte"] = gte
	}
	if lte != nil {
		bounds["lte"] = lte
	}
	return Clause{"range": map[string]any{field: bounds}}
}

// SimpleQueryString runs a simple_query_string search over fields.
func SimpleQueryString(text string, fields []string) Clause {
	body := map[string]any{"query": text}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	return Clause{"simple_query_string": body}
}

// Bool is a boolean compound clause.
type Bool struct {
	Must    []Clause
	Filter  []Clause
	Should  []Clause
	MustNot []Clause
}

// Clause renders the bool, omitting empty occurrence lists.
func (b Bool) Clause() Clause {
	body := map[string]any{}
	if len(b.Must) > 0 {
		body["must"] = b.Must
	}
	if len(b.Filter) > 0 {
		body["filter"] = b.Filter
	}
	if len(b.Should) > 0 {
		body["should"] = b.Should
	}
	if len(b.MustNot) > 0 {
		body["must_not"] = b.MustNot
	}
	return Clause{"bool": body}
}

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortField sorts on one field; it marshals as {"field": {"order": "asc"}}.
type SortField struct {
	Field string
	Order Order
}

// MarshalJSON implements json.Marshaler.
func (s SortField) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{s.Field: map[string]any{"order": s.Order}})
}
