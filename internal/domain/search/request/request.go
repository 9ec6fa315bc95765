// Package request holds the v2 method parameters as decoded from the wire,
// with their validation rules.
package request

import (
	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/filter"
)

// Request limits.
const (
	DefaultSize = 10
	// MaxWindow is the engine's default result window (from + size).
	MaxWindow   = 10000
	MaxIDs      = 10000
	MaxSortKeys = 32
)

// SearchObjects is the search_objects request: a raw engine query plus
// paging, sort, aggregation and highlight passthrough.
type SearchObjects struct {
	Indexes        []string       `json:"indexes"`
	ExcludeIndexes []string       `json:"exclude_indexes"`
	Query          map[string]any `json:"query"`
	OnlyPublic     bool           `json:"only_public"`
	OnlyPrivate    bool           `json:"only_private"`
	Size           *int           `json:"size"`
	From           int            `json:"from"`
	Sort           []any          `json:"sort"`
	Aggs           map[string]any `json:"aggs"`
	Highlight      map[string]any `json:"highlight"`
	Source         any            `json:"source"`
	TrackTotalHits bool           `json:"track_total_hits"`
	Count          bool           `json:"count"`
}

// PageSize returns size, defaulting to DefaultSize.
func (p SearchObjects) PageSize() int {
	if p.Size == nil {
		return DefaultSize
	}
	return *p.Size
}

// Validate checks paging and sort bounds.
func (p SearchObjects) Validate() error {
	if err := validatePage(p.From, p.PageSize()); err != nil {
		return err
	}
	if len(p.Sort) > MaxSortKeys {
		return domain.InvalidParams("too many sort keys (max %d)", MaxSortKeys)
	}
	return nil
}

// SearchTypes is the search_types request: counts of matching documents per type.
type SearchTypes struct {
	Indexes        []string       `json:"indexes"`
	ExcludeIndexes []string       `json:"exclude_indexes"`
	Query          map[string]any `json:"query"`
	OnlyPublic     bool           `json:"only_public"`
	OnlyPrivate    bool           `json:"only_private"`
}

// GetObjects is the get_objects request: documents by ID.
type GetObjects struct {
	IDs     []string `json:"ids"`
	Indexes []string `json:"indexes"`
	Source  any      `json:"source"`
}

// Validate requires at least one ID.
func (p GetObjects) Validate() error {
	if len(p.IDs) == 0 {
		return domain.InvalidParams("ids must not be empty")
	}
	if len(p.IDs) > MaxIDs {
		return domain.InvalidParams("too many ids (max %d)", MaxIDs)
	}
	return nil
}

// TextSearch is a simple_query_string search over fields.
type TextSearch struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

// Paging is search_workspace paging.
type Paging struct {
	Length *int `json:"length"`
	Offset int  `json:"offset"`
}

// Access narrows search_workspace to public or private data.
type Access struct {
	OnlyPublic  bool `json:"only_public"`
	OnlyPrivate bool `json:"only_private"`
}

// SearchWorkspace is the search_workspace request.
type SearchWorkspace struct {
	Types          []string     `json:"types"`
	Search         *TextSearch  `json:"search"`
	Filters        *filter.Node `json:"filters"`
	Sorts          [][]string   `json:"sorts"`
	Paging         *Paging      `json:"paging"`
	Access         Access       `json:"access"`
	TrackTotalHits bool         `json:"track_total_hits"`
	IncludeFields  []string     `json:"include_fields"`
}

// Offset returns paging.offset, defaulting to 0.
func (p SearchWorkspace) Offset() int {
	if p.Paging == nil {
		return 0
	}
	return p.Paging.Offset
}

// Limit returns paging.length, defaulting to DefaultSize.
func (p SearchWorkspace) Limit() int {
	if p.Paging == nil || p.Paging.Length == nil {
		return DefaultSize
	}
	return *p.Paging.Length
}

// Validate checks the text search, sorts and paging. The filter tree is
// validated when it is compiled.
func (p SearchWorkspace) Validate() error {
	if p.Search != nil && p.Search.Query == "" {
		return domain.InvalidParams("search.query must not be empty")
	}
	if len(p.Sorts) > MaxSortKeys {
		return domain.InvalidParams("too many sort keys (max %d)", MaxSortKeys)
	}
	for i, s := range p.Sorts {
		if len(s) != 2 || s[0] == "" {
			return domain.InvalidParams("sorts[%d] must be [field, direction]", i)
		}
		if s[1] != "asc" && s[1] != "desc" {
			return domain.InvalidParams("sorts[%d] direction must be asc or desc, got %q", i, s[1])
		}
	}
	return validatePage(p.Offset(), p.Limit())
}

func validatePage(from, size int) error {
	if from < 0 {
		return domain.InvalidParams("from must not be negative")
	}
	if size < 0 {
		return domain.InvalidParams("size must not be negative")
	}
	if from+size > MaxWindow {
		return domain.InvalidParams("from + size must not exceed %d", MaxWindow)
	}
	return nil
}
