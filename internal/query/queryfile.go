// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// QueryFile is the on-disk representation of a generated query and its
// results. A search can be saved to a file and reloaded later without
// re-querying the provider.
type QueryFile struct {
	Query   SavedQuery           `yaml:"query"`
	Filters types.SearchFilters  `yaml:"filters"`
	Results []types.SearchResult `yaml:"results"`
	Summary QuerySummary         `yaml:"summary"`
}

// SavedQuery stores the query in a serializable form.
type SavedQuery struct {
	Query      string          `yaml:"query"`
	Keywords   []string        `yaml:"keywords,omitempty"`
	Topics     []string        `yaml:"topics,omitempty"`
	Type       types.QueryType `yaml:"query_type,omitempty"`
	Confidence float64         `yaml:"confidence"`
}

// ToSearchQuery rebuilds a SearchQuery from its serialized form, so a
// reloaded query can feed CombineQueries or a fresh search.
func (s SavedQuery) ToSearchQuery() types.SearchQuery {
	return types.SearchQuery{
		Query:      s.Query,
		Keywords:   s.Keywords,
		Topics:     s.Topics,
		Type:       s.Type,
		Confidence: s.Confidence,
	}
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int       `yaml:"total"`
	DuplicatesFlagged int       `yaml:"duplicates_flagged"`
	Degraded          bool      `yaml:"degraded,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a query and its results to a YAML file.
func WriteQueryFile(path string, q types.SearchQuery, filters types.SearchFilters, results []types.SearchResult, dupes int, degraded bool) error {
	qf := QueryFile{
		Query: SavedQuery{
			Query:      q.Query,
			Keywords:   q.Keywords,
			Topics:     q.Topics,
			Type:       q.Type,
			Confidence: q.Confidence,
		},
		Filters: filters,
		Results: results,
		Summary: QuerySummary{
			Total:             len(results),
			DuplicatesFlagged: dupes,
			Degraded:          degraded,
			Timestamp:         time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
