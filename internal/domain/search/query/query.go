package query

// Query is a compiled, engine-native search. Compilers produce it; the
// executor renders it with Body and sends it to Indexes.
type Query struct {
	Indexes IndexSelector
	// Bool holds the user clauses and the access filter.
	Bool           Bool
	From           int
	Size           int
	Count          bool
	Sort           []any
	Aggs           map[string]any
	Highlight      any
	Source         any
	TrackTotalHits bool
}

// BodyOptions carries executor-level settings that are not part of a request.
type BodyOptions struct {
	Timeout        string
	TerminateAfter int
}

// Body is the engine request body.
type Body struct {
	Query          Clause         `json:"query"`
	Size           int            `json:"size"`
	From           int            `json:"from"`
	Timeout        string         `json:"timeout,omitempty"`
	TerminateAfter int            `json:"terminate_after,omitempty"`
	Aggs           map[string]any `json:"aggs,omitempty"`
	Sort           []any          `json:"sort,omitempty"`
	Source         any            `json:"_source,omitempty"`
	Highlight      any            `json:"highlight,omitempty"`
	TrackTotalHits bool           `json:"track_total_hits,omitempty"`
}

// Body renders the request body. The terminate_after cap is applied only when
// hits are requested and no accurate total is needed.
func (q Query) Body(opts BodyOptions) Body {
	size := q.Size
	if q.Count {
		size = 0
	}
	b := Body{
		Query:          q.Bool.Clause(),
		Size:           size,
		From:           q.From,
		Timeout:        opts.Timeout,
		Aggs:           q.Aggs,
		Sort:           q.Sort,
		Source:         q.Source,
		Highlight:      q.Highlight,
		TrackTotalHits: q.TrackTotalHits,
	}
	if !q.Count && size > 0 && !q.TrackTotalHits {
		b.TerminateAfter = opts.TerminateAfter
	}
	return b
}
