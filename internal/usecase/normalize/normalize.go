// Package normalize reshapes raw engine results into the v1 and v2
// response documents.
package normalize

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Config holds the index naming rules shared by both normalizers.
type Config struct {
	Naming query.Naming
	// SuffixDelimiter separates an index name from its version ("genome_2").
	SuffixDelimiter string
}

// splitIndex strips the prefix from an engine index name and splits off a
// numeric version suffix. Names without one have version 0.
func (c Config) splitIndex(index string) (string, int) {
	name := c.Naming.Strip(index)
	if c.SuffixDelimiter == "" {
		return name, 0
	}
	i := strings.LastIndex(name, c.SuffixDelimiter)
	if i < 0 {
		return name, 0
	}
	ver, err := strconv.Atoi(name[i+len(c.SuffixDelimiter):])
	if err != nil {
		return name, 0
	}
	return name[:i], ver
}

func typeCounts(raw result.Raw) map[string]int64 {
	agg, ok := raw.Aggregations[result.TypeCountAgg]
	if !ok {
		return map[string]int64{}
	}
	return agg.Flatten()
}
