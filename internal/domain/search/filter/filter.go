// Package filter implements the search_workspace filter language: AND/OR
// groups of term, not_term and range leaves.
package filter

import (
	"fmt"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
)

const (
	// MaxConditionsPerGroup is the maximum number of children per group.
	MaxConditionsPerGroup = 32
	// MaxDepth is the maximum group nesting depth.
	MaxDepth = 8
)

// Operator combines the children of a group.
type Operator string

// Group operators.
const (
	And Operator = "AND"
	Or  Operator = "OR"
)

// Node is either a group (Operator + Fields) or a leaf on Field with exactly
// one of Term, NotTerm or Range.
type Node struct {
	Operator Operator `json:"operator"`
	Fields   []Node   `json:"fields"`
	Field    string   `json:"field"`
	Term     any      `json:"term"`
	NotTerm  any      `json:"not_term"`
	Range    *Range   `json:"range"`
}

// Range is an inclusive range; at least one bound is required.
type Range struct {
	Min any `json:"min"`
	Max any `json:"max"`
}

// IsGroup reports whether the node combines children.
func (n Node) IsGroup() bool { return n.Operator != "" }

// Clause validates the tree and converts it to an engine clause.
func (n Node) Clause() (query.Clause, error) {
	return n.clause(1)
}

func (n Node) clause(depth int) (query.Clause, error) {
	if depth > MaxDepth {
		return nil, domain.InvalidParams("filter nesting too deep (max %d)", MaxDepth)
	}
	if n.IsGroup() {
		return n.groupClause(depth)
	}
	return n.leafClause()
}

func (n Node) groupClause(depth int) (query.Clause, error) {
	if n.Operator != And && n.Operator != Or {
		return nil, domain.InvalidParams("filter operator must be AND or OR, got %q", n.Operator)
	}
	if len(n.Fields) == 0 {
		return nil, domain.InvalidParams("filter group %s has no fields", n.Operator)
	}
	if len(n.Fields) > MaxConditionsPerGroup {
		return nil, domain.InvalidParams("too many filter conditions (max %d)", MaxConditionsPerGroup)
	}

	children := make([]query.Clause, 0, len(n.Fields))
	for i, child := range n.Fields {
		c, err := child.clause(depth + 1)
		if err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", i, err)
		}
		children = append(children, c)
	}

	if n.Operator == And {
		return query.Bool{Must: children}.Clause(), nil
	}
	return query.Bool{Should: children}.Clause(), nil
}

func (n Node) leafClause() (query.Clause, error) {
	if n.Field == "" {
		return nil, domain.InvalidParams("filter field is required")
	}

	set := 0
	for _, present := range []bool{n.Term != nil, n.NotTerm != nil, n.Range != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, domain.InvalidParams("filter on %q needs exactly one of term, not_term, range", n.Field)
	}

	switch {
	case n.Term != nil:
		return query.TermValue(n.Field, n.Term), nil
	case n.NotTerm != nil:
		return query.Bool{MustNot: []query.Clause{query.TermValue(n.Field, n.NotTerm)}}.Clause(), nil
	default:
		if n.Range.Min == nil && n.Range.Max == nil {
			return nil, domain.InvalidParams("range on %q needs min or max", n.Field)
		}
		return query.Range(n.Field, n.Range.Min, n.Range.Max), nil
	}
}
