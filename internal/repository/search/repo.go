package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/logger"
)

const indexNotFound = "index_not_found_exception"

// store is the consumer interface for engine operations (ISP).
type store interface {
	Search(ctx context.Context, selector string, body []byte) ([]byte, error)
	CatIndices(ctx context.Context, pattern string) ([]byte, error)
	Ping(ctx context.Context) error
}

// Options holds the executor settings shared by every request.
type Options struct {
	Naming query.Naming
	Body   query.BodyOptions
	// IndexExclusion enables "-index" terms in the selector.
	IndexExclusion bool
}

// Repo is the search executor: it renders compiled queries, runs them and
// maps engine failures into the domain error taxonomy.
type Repo struct {
	store store
	opts  Options
}

// New creates a search repository.
func New(s store, opts Options) *Repo {
	return &Repo{store: s, opts: opts}
}

// Search executes a compiled query.
func (r *Repo) Search(ctx context.Context, q query.Query) (result.Raw, error) {
	if q.Indexes.IsZero() {
		return result.Raw{}, fmt.Errorf("search: empty index selector")
	}
	selector := q.Indexes.Render(r.opts.IndexExclusion)

	body, err := json.Marshal(q.Body(r.opts.Body))
	if err != nil {
		return result.Raw{}, fmt.Errorf("marshal query: %w", err)
	}

	log := logger.FromContext(ctx)
	if !r.opts.IndexExclusion && len(q.Indexes.Exclude()) > 0 {
		log.Debug("index exclusions not sent to engine", zap.Strings("excluded", q.Indexes.Exclude()))
	}
	log.Debug("engine search",
		zap.String("selector", selector),
		zap.Strings("indexes", q.Indexes.Include()),
		zap.Int("body_bytes", len(body)),
	)

	data, err := r.store.Search(ctx, selector, body)
	if err != nil {
		return result.Raw{}, mapEngineError(err)
	}

	raw, err := parseSearchResponse(data)
	if err != nil {
		return result.Raw{}, domain.Errorf(domain.ErrSearchEngine, "decode response: %v", err)
	}
	return raw, nil
}

// ShowIndexes lists the indexes under the service prefix with their document
// counts, prefix stripped, sorted by name.
func (r *Repo) ShowIndexes(ctx context.Context) ([]result.IndexInfo, error) {
	data, err := r.store.CatIndices(ctx, r.opts.Naming.Pattern())
	if err != nil {
		return nil, mapEngineError(err)
	}

	var rows []struct {
		Index     string  `json:"index"`
		DocsCount *string `json:"docs.count"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, domain.Errorf(domain.ErrSearchEngine, "decode cat indices: %v", err)
	}

	out := make([]result.IndexInfo, 0, len(rows))
	for _, row := range rows {
		info := result.IndexInfo{Name: r.opts.Naming.Strip(row.Index)}
		if row.DocsCount != nil {
			n, ok := result.AsInt(*row.DocsCount)
			if !ok {
				return nil, domain.Errorf(domain.ErrSearchEngine, "index %s: bad docs.count %q", row.Index, *row.DocsCount)
			}
			info.Count = n
		}
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b result.IndexInfo) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Ping checks engine connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("elasticsearch: %w", err)
	}
	return nil
}

// mapEngineError maps a failed engine call: an index_not_found root cause
// becomes ErrUnknownIndex with the engine's reason; anything else becomes
// ErrSearchEngine with the reason, or the raw body when it has no error type.
func mapEngineError(err error) error {
	var se *db.StatusError
	if !errors.As(err, &se) {
		return domain.NewError(domain.ErrSearchEngine, err.Error())
	}

	var body struct {
		Error struct {
			RootCause []struct {
				Type string `json:"type"`
			} `json:"root_cause"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if json.Unmarshal(se.Body, &body) != nil ||
		len(body.Error.RootCause) == 0 || body.Error.RootCause[0].Type == "" {
		return domain.NewError(domain.ErrSearchEngine, string(se.Body))
	}
	if body.Error.RootCause[0].Type == indexNotFound {
		return domain.NewError(domain.ErrUnknownIndex, body.Error.Reason)
	}
	return domain.NewError(domain.ErrSearchEngine, body.Error.Reason)
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Index     string              `json:"_index"`
			ID        string              `json:"_id"`
			Source    map[string]any      `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		DocCountErrorUpperBound int64  `json:"doc_count_error_upper_bound"`
		SumOtherDocCount        *int64 `json:"sum_other_doc_count"`
		Buckets                 []struct {
			Key      any   `json:"key"`
			DocCount int64 `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

// parseSearchResponse decodes with UseNumber so document numbers keep their
// exact textual form.
func parseSearchResponse(data []byte) (result.Raw, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var resp searchResponse
	if err := dec.Decode(&resp); err != nil {
		return result.Raw{}, err
	}

	raw := result.Raw{
		Count:      resp.Hits.Total.Value,
		SearchTime: resp.Took,
		Hits:       make([]result.Hit, 0, len(resp.Hits.Hits)),
	}
	for _, h := range resp.Hits.Hits {
		raw.Hits = append(raw.Hits, result.Hit{
			Index:     h.Index,
			ID:        h.ID,
			Doc:       h.Source,
			Highlight: h.Highlight,
		})
	}

	if len(resp.Aggregations) > 0 {
		raw.Aggregations = make(map[string]result.Aggregation, len(resp.Aggregations))
		for name, agg := range resp.Aggregations {
			counts := make([]result.Bucket, 0, len(agg.Buckets))
			for _, b := range agg.Buckets {
				counts = append(counts, result.Bucket{Key: b.Key, Count: b.DocCount})
			}
			raw.Aggregations[name] = result.Aggregation{
				CountErrUpperBound: agg.DocCountErrorUpperBound,
				CountOtherDocs:     agg.SumOtherDocCount,
				Counts:             counts,
			}
		}
	}
	return raw, nil
}
