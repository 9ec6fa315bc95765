package compiler

import (
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
)

// Modern compiles v2 requests.
type Modern struct {
	cfg Config
}

// NewModern creates a v2 compiler.
func NewModern(cfg Config) *Modern {
	return &Modern{cfg: cfg}
}

// SearchObjects compiles search_objects. The caller's query is used as the
// single must clause; paging, sort, aggs, highlight and _source pass through.
func (c *Modern) SearchObjects(p request.SearchObjects) (query.Query, error) {
	if err := p.Validate(); err != nil {
		return query.Query{}, err
	}
	sel, err := c.selector(p.Indexes, p.ExcludeIndexes)
	if err != nil {
		return query.Query{}, err
	}

	q := query.Query{
		Indexes:        sel,
		Bool:           userQuery(p.Query),
		From:           p.From,
		Size:           p.PageSize(),
		Count:          p.Count,
		Sort:           p.Sort,
		Aggs:           p.Aggs,
		Source:         p.Source,
		TrackTotalHits: p.TrackTotalHits,
	}
	if len(p.Highlight) > 0 {
		q.Highlight = p.Highlight
	}
	return q, nil
}

// SearchTypes compiles search_types: document counts per type, no hits.
func (c *Modern) SearchTypes(p request.SearchTypes) (query.Query, error) {
	sel, err := c.selector(p.Indexes, p.ExcludeIndexes)
	if err != nil {
		return query.Query{}, err
	}
	return query.Query{
		Indexes: sel,
		Bool:    userQuery(p.Query),
		Size:    0,
		Aggs:    typeCountAggs(),
	}, nil
}

// GetObjects compiles get_objects: documents by ID.
func (c *Modern) GetObjects(p request.GetObjects) (query.Query, error) {
	if err := p.Validate(); err != nil {
		return query.Query{}, err
	}
	sel, err := c.selector(p.Indexes, nil)
	if err != nil {
		return query.Query{}, err
	}
	return query.Query{
		Indexes:        sel,
		Bool:           query.Bool{Must: []query.Clause{query.Terms(fieldID, p.IDs)}},
		Size:           len(p.IDs),
		Source:         p.Source,
		TrackTotalHits: true,
	}, nil
}

// SearchWorkspace compiles search_workspace. Types name the indexes to
// search; the filter tree becomes a single filter clause.
func (c *Modern) SearchWorkspace(p request.SearchWorkspace) (query.Query, error) {
	if err := p.Validate(); err != nil {
		return query.Query{}, err
	}
	sel, err := c.selector(p.Types, nil)
	if err != nil {
		return query.Query{}, err
	}

	var b query.Bool
	if p.Search != nil {
		b.Must = append(b.Must, query.SimpleQueryString(p.Search.Query, p.Search.Fields))
	}
	if p.Filters != nil {
		fc, err := p.Filters.Clause()
		if err != nil {
			return query.Query{}, err
		}
		b.Filter = append(b.Filter, fc)
	}

	var sort []any
	for _, s := range p.Sorts {
		sort = append(sort, query.SortField{Field: s[0], Order: query.Order(s[1])})
	}

	q := query.Query{
		Indexes:        sel,
		Bool:           b,
		From:           p.Offset(),
		Size:           p.Limit(),
		Sort:           sort,
		TrackTotalHits: p.TrackTotalHits,
	}
	if len(p.IncludeFields) > 0 {
		q.Source = p.IncludeFields
	}
	return q, nil
}

func (c *Modern) selector(include, exclude []string) (query.IndexSelector, error) {
	sel, err := c.cfg.Naming.Select(include, c.cfg.DefaultAlias)
	if err != nil {
		return query.IndexSelector{}, err
	}
	if len(exclude) == 0 {
		return sel, nil
	}
	return c.cfg.Naming.Excluding(sel, exclude)
}

func userQuery(raw map[string]any) query.Bool {
	if len(raw) == 0 {
		return query.Bool{}
	}
	return query.Bool{Must: []query.Clause{query.Clause(raw)}}
}
