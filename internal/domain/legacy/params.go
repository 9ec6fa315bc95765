package legacy

// DefaultPageSize is the v1 page size when pagination.count is unset.
const DefaultPageSize = 20

// TimestampRange bounds the object save date (epoch ms). Both ends are required.
type TimestampRange struct {
	MinDate *int64 `json:"min_date,omitempty"`
	MaxDate *int64 `json:"max_date,omitempty"`
}

// MatchFilter holds the user-authored search terms.
type MatchFilter struct {
	FullTextInAll       string                `json:"full_text_in_all,omitempty"`
	ObjectName          string                `json:"object_name,omitempty"`
	Timestamp           *TimestampRange       `json:"timestamp,omitempty"`
	ExcludeSubobjects   Flag                  `json:"exclude_subobjects,omitempty"`
	SourceTags          []string              `json:"source_tags,omitempty"`
	SourceTagsBlacklist Flag                  `json:"source_tags_blacklist,omitempty"`
	LookupInKeys        map[string]MatchValue `json:"lookup_in_keys,omitempty"`
}

// SortingRule orders results by a property. IsObjectProperty and Ascending
// default to true when unset.
type SortingRule struct {
	Property         string `json:"property"`
	IsObjectProperty *Flag  `json:"is_object_property,omitempty"`
	Ascending        *Flag  `json:"ascending,omitempty"`
}

// IsObject reports whether the property names a document field directly.
func (r SortingRule) IsObject() bool {
	return r.IsObjectProperty == nil || bool(*r.IsObjectProperty)
}

// IsAscending reports the sort direction.
func (r SortingRule) IsAscending() bool {
	return r.Ascending == nil || bool(*r.Ascending)
}

// Pagination is echoed back verbatim, so unset fields stay unset.
type Pagination struct {
	Start *int `json:"start,omitempty"`
	Count *int `json:"count,omitempty"`
}

// Offset returns start, defaulting to 0.
func (p *Pagination) Offset() int {
	if p == nil || p.Start == nil {
		return 0
	}
	return *p.Start
}

// Limit returns count, defaulting to DefaultPageSize.
func (p *Pagination) Limit() int {
	if p == nil || p.Count == nil {
		return DefaultPageSize
	}
	return *p.Count
}

// AccessFilter is the tri-state public/private selection. with_all_history is
// accepted and ignored.
type AccessFilter struct {
	WithPrivate    *Flag `json:"with_private,omitempty"`
	WithPublic     *Flag `json:"with_public,omitempty"`
	WithAllHistory Flag  `json:"with_all_history,omitempty"`
}

// PostProcessing shapes each returned object and the enrichment maps.
type PostProcessing struct {
	IDsOnly            Flag `json:"ids_only,omitempty"`
	SkipInfo           Flag `json:"skip_info,omitempty"`
	SkipKeys           Flag `json:"skip_keys,omitempty"`
	SkipData           Flag `json:"skip_data,omitempty"`
	IncludeHighlight   Flag `json:"include_highlight,omitempty"`
	AddNarrativeInfo   Flag `json:"add_narrative_info,omitempty"`
	AddAccessGroupInfo Flag `json:"add_access_group_info,omitempty"`
}

// Normalize expands ids_only into its three effects.
func (p PostProcessing) Normalize() PostProcessing {
	if p.IDsOnly {
		p.IncludeHighlight = false
		p.SkipInfo = true
		p.SkipData = true
	}
	return p
}

// WantsEnrichment reports whether any workspace enrichment was requested.
func (p PostProcessing) WantsEnrichment() bool {
	return bool(p.AddNarrativeInfo || p.AddAccessGroupInfo)
}

// SearchObjectsParams is the search_objects request.
type SearchObjectsParams struct {
	MatchFilter    MatchFilter    `json:"match_filter"`
	ObjectTypes    []string       `json:"object_types,omitempty"`
	SortingRules   []SortingRule  `json:"sorting_rules,omitempty"`
	Pagination     *Pagination    `json:"pagination,omitempty"`
	AccessFilter   AccessFilter   `json:"access_filter"`
	PostProcessing PostProcessing `json:"post_processing"`
}

// DefaultSortProperty orders search_objects results when no rules are sent.
const DefaultSortProperty = "timestamp"

// Sorting returns the rules that order the results: the requested ones, or
// DefaultSortProperty ascending when sorting_rules is absent.
func (p SearchObjectsParams) Sorting() []SortingRule {
	if p.SortingRules != nil {
		return p.SortingRules
	}
	notObject, asc := Flag(false), Flag(true)
	return []SortingRule{{Property: DefaultSortProperty, IsObjectProperty: &notObject, Ascending: &asc}}
}

// SearchTypesParams is the search_types request.
type SearchTypesParams struct {
	MatchFilter  MatchFilter  `json:"match_filter"`
	ObjectTypes  []string     `json:"object_types,omitempty"`
	AccessFilter AccessFilter `json:"access_filter"`
}

// GetObjectsParams is the get_objects request. Objects are addressed by
// document IDs ("WS::1:2") or guids ("WS:1/2/3").
type GetObjectsParams struct {
	IDs            []string       `json:"ids,omitempty"`
	GUIDs          []string       `json:"guids,omitempty"`
	PostProcessing PostProcessing `json:"post_processing"`
}
