package filter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

func decode(t *testing.T, raw string) Node {
	t.Helper()
	var n Node
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return n
}

func render(t *testing.T, n Node) string {
	t.Helper()
	c, err := n.Clause()
	if err != nil {
		t.Fatalf("Clause: %v", err)
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// --- Leaf tests ---

func TestLeaf_Term(t *testing.T) {
	got := render(t, decode(t, `{"field": "obj_type_name", "term": "Genome"}`))
	want := `{"term":{"obj_type_name":{"value":"Genome"}}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLeaf_NotTerm(t *testing.T) {
	got := render(t, decode(t, `{"field": "tags", "not_term": "refdata"}`))
	want := `{"bool":{"must_not":[{"term":{"tags":{"value":"refdata"}}}]}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLeaf_Range(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"field": "x", "range": {"min": 10, "max": 11}}`, `{"range":{"x":{"gte":10,"lte":11}}}`},
		{`{"field": "x", "range": {"min": 10}}`, `{"range":{"x":{"gte":10}}}`},
		{`{"field": "x", "range": {"max": 11}}`, `{"range":{"x":{"lte":11}}}`},
	}
	for _, tt := range tests {
		if got := render(t, decode(t, tt.raw)); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
	}
}

func TestLeaf_TermFalseIsKept(t *testing.T) {
	got := render(t, decode(t, `{"field": "is_public", "term": false}`))
	if got != `{"term":{"is_public":{"value":false}}}` {
		t.Errorf("got %s", got)
	}
}

// --- Group tests ---

func TestGroup_AndOr(t *testing.T) {
	n := decode(t, `{
		"operator": "AND",
		"fields": [
			{"field": "a", "term": 1},
			{"operator": "OR", "fields": [
				{"field": "b", "term": "x"},
				{"field": "c", "range": {"min": 0}}
			]}
		]
	}`)
	want := `{"bool":{"must":[{"term":{"a":{"value":1}}},` +
		`{"bool":{"should":[{"term":{"b":{"value":"x"}}},{"range":{"c":{"gte":0}}}]}}]}}`
	if got := render(t, n); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// --- Validation tests ---

func TestClause_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bad operator", `{"operator": "XOR", "fields": [{"field": "a", "term": 1}]}`, "AND or OR"},
		{"empty group", `{"operator": "AND", "fields": []}`, "no fields"},
		{"no field", `{"term": 1}`, "field is required"},
		{"no predicate", `{"field": "a"}`, "exactly one"},
		{"two predicates", `{"field": "a", "term": 1, "not_term": 2}`, "exactly one"},
		{"empty range", `{"field": "a", "range": {}}`, "min or max"},
		{"nested error", `{"operator": "OR", "fields": [{"field": "a", "term": 1}, {"field": ""}]}`, "fields[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.raw).Clause()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestClause_TooManyConditions(t *testing.T) {
	n := Node{Operator: And}
	for range MaxConditionsPerGroup + 1 {
		n.Fields = append(n.Fields, Node{Field: "a", Term: 1})
	}
	if _, err := n.Clause(); err == nil || !strings.Contains(err.Error(), "too many") {
		t.Fatalf("expected too many conditions error, got %v", err)
	}
}

func TestClause_TooDeep(t *testing.T) {
	n := Node{Field: "a", Term: 1}
	for range MaxDepth {
		n = Node{Operator: Or, Fields: []Node{n}}
	}
	if _, err := n.Clause(); err == nil || !strings.Contains(err.Error(), "too deep") {
		t.Fatalf("expected depth error, got %v", err)
	}
}
