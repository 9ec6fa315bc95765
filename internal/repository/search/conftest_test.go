package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn     func(ctx context.Context, selector string, body []byte) ([]byte, error)
	catIndicesFn func(ctx context.Context, pattern string) ([]byte, error)
	pingFn       func(ctx context.Context) error
}

func (m *mockStore) Search(ctx context.Context, selector string, body []byte) ([]byte, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, selector, body)
	}
	return []byte(`{"took":1,"hits":{"total":{"value":0},"hits":[]}}`), nil
}

func (m *mockStore) CatIndices(ctx context.Context, pattern string) ([]byte, error) {
	if m.catIndicesFn != nil {
		return m.catIndicesFn(ctx, pattern)
	}
	return []byte(`[]`), nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

var testNaming = query.Naming{Prefix: "search2", Delimiter: "."}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Options{
		Naming: testNaming,
		Body:   query.BodyOptions{Timeout: "3m", TerminateAfter: 10000},
	})
	return repo, ms
}

func mustSelect(t *testing.T, names ...string) query.IndexSelector {
	t.Helper()
	s, err := testNaming.Select(names, "default_search")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return s
}
