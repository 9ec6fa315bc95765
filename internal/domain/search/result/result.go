// Package result holds the engine's search response after decoding: hits,
// totals and aggregation buckets.
package result

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// TypeCountAgg names the per-type terms aggregation of search_types.
const TypeCountAgg = "type_count"

// Hit is one engine search hit. Index is the engine index name as returned.
type Hit struct {
	Index     string              `json:"index"`
	ID        string              `json:"id"`
	Doc       map[string]any      `json:"doc"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// Bucket is a single aggregation bucket.
type Bucket struct {
	Key   any   `json:"key"`
	Count int64 `json:"count"`
}

// Aggregation is a terms-style aggregation result.
type Aggregation struct {
	CountErrUpperBound int64    `json:"count_err_upper_bound"`
	CountOtherDocs     *int64   `json:"count_other_docs"`
	Counts             []Bucket `json:"counts"`
}

// Raw is the decoded engine response.
type Raw struct {
	Count        int64                  `json:"count"`
	Hits         []Hit                  `json:"hits"`
	SearchTime   int64                  `json:"search_time"`
	Aggregations map[string]Aggregation `json:"aggregations"`
}

// Flatten maps bucket keys to counts, summing duplicate keys.
func (a Aggregation) Flatten() map[string]int64 {
	out := make(map[string]int64, len(a.Counts))
	for _, b := range a.Counts {
		out[KeyString(b.Key)] += b.Count
	}
	return out
}

// KeyString renders a bucket key as a map key.
func KeyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case json.Number:
		return k.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(k)
	}
}

// AsInt converts a decoded JSON number (or numeric string) to int64.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// IndexInfo is one engine index under the service prefix.
type IndexInfo struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TypeCounts is the per-type document count of a search_types call.
type TypeCounts struct {
	TypeToCount map[string]int64 `json:"type_to_count"`
	SearchTime  int64            `json:"search_time"`
}

// WorkspaceHits is the search_workspace response: bare source documents.
type WorkspaceHits struct {
	SearchTime int64            `json:"search_time"`
	Count      int64            `json:"count"`
	Hits       []map[string]any `json:"hits"`
}
