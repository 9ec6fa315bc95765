package query

import (
	"strings"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

// Naming applies the service's fixed index prefix. Every index name that
// reaches the engine goes through Qualify, which keeps tenants sharing one
// cluster apart.
type Naming struct {
	Prefix    string
	Delimiter string
}

// forbiddenIndexChars would let a name escape the prefix in a multi-index URL segment.
const forbiddenIndexChars = ",*?/\\\"<>|#: \t\n"

// Qualify validates a logical index name and returns the prefixed, lowercased name.
func (n Naming) Qualify(name string) (string, error) {
	if name == "" {
		return "", domain.InvalidParams("index name must not be empty")
	}
	if strings.ContainsAny(name, forbiddenIndexChars) || strings.HasPrefix(name, "-") ||
		strings.HasPrefix(name, "+") || strings.HasPrefix(name, "_") {
		return "", domain.InvalidParams("invalid index name %q", name)
	}
	return n.Prefix + n.Delimiter + strings.ToLower(name), nil
}

// Strip removes the prefix from an engine index name, if present.
func (n Naming) Strip(index string) string {
	return strings.TrimPrefix(index, n.Prefix+n.Delimiter)
}

// Pattern is the wildcard selecting every index under the prefix.
func (n Naming) Pattern() string {
	return n.Prefix + "*"
}

// IndexSelector is the resolved, prefixed target of a search. It can only be
// built through Naming.
type IndexSelector struct {
	include []string
	exclude []string
}

// Select qualifies names; with no names the default alias is used.
func (n Naming) Select(names []string, defaultAlias string) (IndexSelector, error) {
	if len(names) == 0 {
		names = []string{defaultAlias}
	}
	var s IndexSelector
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		q, err := n.Qualify(name)
		if err != nil {
			return IndexSelector{}, err
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		s.include = append(s.include, q)
	}
	return s, nil
}

// Excluding returns a copy of s that also excludes the given logical names.
func (n Naming) Excluding(s IndexSelector, names []string) (IndexSelector, error) {
	out := IndexSelector{include: s.include, exclude: append([]string(nil), s.exclude...)}
	for _, name := range names {
		q, err := n.Qualify(name)
		if err != nil {
			return IndexSelector{}, err
		}
		out.exclude = append(out.exclude, q)
	}
	return out, nil
}

// Include returns the included, prefixed index names.
func (s IndexSelector) Include() []string { return s.include }

// Exclude returns the excluded, prefixed index names.
func (s IndexSelector) Exclude() []string { return s.exclude }

// IsZero reports whether the selector was never resolved.
func (s IndexSelector) IsZero() bool { return len(s.include) == 0 }

// Render builds the comma-separated URL segment. Exclusions are appended as
// "-name" only when the engine accepts that syntax.
func (s IndexSelector) Render(withExclusions bool) string {
	parts := append([]string(nil), s.include...)
	if withExclusions {
		for _, ex := range s.exclude {
			parts = append(parts, "-"+ex)
		}
	}
	return strings.Join(parts, ",")
}
