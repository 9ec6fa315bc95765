package normalize

import "github.com/kailas-cloud/searchapi/internal/domain/search/result"

// Modern builds v2 results.
type Modern struct {
	cfg Config
}

// NewModern creates a v2 normalizer.
func NewModern(cfg Config) *Modern {
	return &Modern{cfg: cfg}
}

// Hits returns raw with the service prefix stripped from every hit's index.
func (n *Modern) Hits(raw result.Raw) result.Raw {
	hits := make([]result.Hit, len(raw.Hits))
	for i, h := range raw.Hits {
		h.Index = n.cfg.Naming.Strip(h.Index)
		hits[i] = h
	}
	raw.Hits = hits
	return raw
}

// SearchTypes flattens the type aggregation.
func (n *Modern) SearchTypes(raw result.Raw) result.TypeCounts {
	return result.TypeCounts{
		TypeToCount: typeCounts(raw),
		SearchTime:  raw.SearchTime,
	}
}

// SearchWorkspace returns the bare source documents.
func (n *Modern) SearchWorkspace(raw result.Raw) result.WorkspaceHits {
	docs := make([]map[string]any, 0, len(raw.Hits))
	for _, h := range raw.Hits {
		docs = append(docs, h.Doc)
	}
	return result.WorkspaceHits{
		SearchTime: raw.SearchTime,
		Count:      raw.Count,
		Hits:       docs,
	}
}
