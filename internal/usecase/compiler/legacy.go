package compiler

import (
	"strings"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
)

// Legacy compiles v1 requests.
type Legacy struct {
	cfg Config
}

// NewLegacy creates a v1 compiler.
func NewLegacy(cfg Config) *Legacy {
	return &Legacy{cfg: cfg}
}

// SearchObjects compiles search_objects. With no sorting rules the results
// are sorted by timestamp ascending.
func (c *Legacy) SearchObjects(p legacy.SearchObjectsParams) (query.Query, error) {
	q, userText, err := c.base(p.MatchFilter, p.ObjectTypes)
	if err != nil {
		return query.Query{}, err
	}

	if q.Sort, err = sortFields(p.Sorting()); err != nil {
		return query.Query{}, err
	}

	q.From = p.Pagination.Offset()
	q.Size = p.Pagination.Limit()
	if q.From < 0 || q.Size < 0 {
		return query.Query{}, domain.InvalidParams("pagination start and count must not be negative")
	}

	if p.PostProcessing.Normalize().IncludeHighlight {
		q.Highlight = highlight(userText)
	}
	return q, nil
}

// SearchTypes compiles search_types: the search_objects query counted per type.
func (c *Legacy) SearchTypes(p legacy.SearchTypesParams) (query.Query, error) {
	q, _, err := c.base(p.MatchFilter, p.ObjectTypes)
	if err != nil {
		return query.Query{}, err
	}
	q.Aggs = typeCountAggs()
	q.Size = 0
	return q, nil
}

// GetObjects compiles get_objects. Guids are converted to document IDs and
// appended after ids.
func (c *Legacy) GetObjects(p legacy.GetObjectsParams) (query.Query, error) {
	ids := make([]string, 0, len(p.IDs)+len(p.GUIDs))
	ids = append(ids, p.IDs...)
	for _, g := range p.GUIDs {
		id, err := legacy.DocIDFromGUID(g)
		if err != nil {
			return query.Query{}, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return query.Query{}, domain.InvalidParams("ids or guids must not be empty")
	}

	sel, err := c.cfg.Naming.Select(nil, c.cfg.DefaultAlias)
	if err != nil {
		return query.Query{}, err
	}
	return query.Query{
		Indexes:        sel,
		Bool:           query.Bool{Must: []query.Clause{query.Terms(fieldID, ids)}},
		Size:           len(ids),
		TrackTotalHits: true,
	}, nil
}

// base builds the clauses shared by search_objects and search_types. It also
// returns the user-text clauses, which alone drive highlighting.
func (c *Legacy) base(mf legacy.MatchFilter, objectTypes []string) (query.Query, []query.Clause, error) {
	var b query.Bool
	var userText []query.Clause

	if mf.FullTextInAll != "" {
		userText = append(userText, query.MatchAll(fieldAggText, mf.FullTextInAll))
	}
	if mf.ObjectName != "" {
		userText = append(userText, query.Match(fieldObjName, mf.ObjectName))
	}
	b.Must = append(b.Must, userText...)

	if ts := mf.Timestamp; ts != nil {
		if ts.MinDate == nil || ts.MaxDate == nil || *ts.MinDate >= *ts.MaxDate {
			return query.Query{}, nil, domain.InvalidParams("Invalid timestamp range in match_filter/timestamp")
		}
		b.Must = append(b.Must, query.Range(fieldTimestamp, *ts.MinDate, *ts.MaxDate))
	}

	if len(mf.SourceTags) > 0 {
		if mf.SourceTagsBlacklist {
			b.MustNot = append(b.MustNot, tagClauses(mf.SourceTags)...)
		} else {
			b.Must = append(b.Must, tagClauses(mf.SourceTags)...)
		}
	}

	b.Must = append(b.Must, lookupClauses(mf.LookupInKeys)...)

	aliases, typeTerms, err := c.resolveTypes(objectTypes)
	if err != nil {
		return query.Query{}, nil, err
	}
	if len(typeTerms) > 0 {
		b.Filter = append(b.Filter, query.Bool{Should: typeTerms}.Clause())
	}

	sel, err := c.cfg.Naming.Select(aliases, c.cfg.DefaultAlias)
	if err != nil {
		return query.Query{}, nil, err
	}
	if mf.ExcludeSubobjects {
		if sel, err = c.cfg.Naming.Excluding(sel, c.cfg.subObjectAliases()); err != nil {
			return query.Query{}, nil, err
		}
	}

	return query.Query{Indexes: sel, Bool: b, TrackTotalHits: true}, userText, nil
}

// resolveTypes maps object type names to index aliases. Regular types also
// yield an obj_type_name term; sub-object types route by index only.
func (c *Legacy) resolveTypes(types []string) ([]string, []query.Clause, error) {
	var aliases []string
	var terms []query.Clause
	for _, t := range types {
		name := t
		if i := strings.LastIndex(t, "."); i >= 0 {
			name = t[i+1:]
		}
		if alias, ok := c.cfg.SubObjectTypes[name]; ok {
			aliases = append(aliases, alias)
			continue
		}
		alias, ok := c.cfg.Types[name]
		if !ok {
			return nil, nil, domain.NewError(domain.ErrUnknownType, t)
		}
		aliases = append(aliases, alias)
		terms = append(terms, query.Term(fieldObjType, name))
	}
	return aliases, terms, nil
}

// highlight requests highlighting of every field, matched only against the
// user-authored text clauses.
func highlight(userText []query.Clause) map[string]any {
	return map[string]any{
		"fields":              map[string]any{"*": map[string]any{}},
		"require_field_match": false,
		"highlight_query":     query.Bool{Must: userText}.Clause(),
	}
}
