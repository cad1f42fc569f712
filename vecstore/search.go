package vecstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/vector"
)

// Metric selects the neighbour distance.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// Neighbor is one search hit. Score is similarity for cosine (higher
// is closer) and distance for euclidean (lower is closer); results are
// always ordered closest first.
type Neighbor struct {
	Record *Record
	Score  float64
}

// Nearest returns the k closest stored vectors to the query under the
// given metric. Only rows sharing the query's schema version are
// considered; cross-version rows are never comparable.
func (s *Store) Nearest(ctx context.Context, query *vector.FeatureVector, metric Metric, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	switch metric {
	case MetricCosine, MetricEuclidean:
	default:
		return nil, fmt.Errorf("vecstore: unknown metric %q", metric)
	}
	qVals := query.Float32s()

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, url, version, embedding, raw_json, created_at
		FROM vectors WHERE version = ? ORDER BY created_at, id`, query.Version)
	if err != nil {
		return nil, fmt.Errorf("vecstore: search: %w", err)
	}
	defer rows.Close()

	var hits []Neighbor
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if len(rec.Values) != len(qVals) {
			continue // corrupt or foreign row, never a neighbour
		}
		var score float64
		if metric == MetricCosine {
			score = vector.CosineSimilarity(qVals, rec.Values)
		} else {
			score = vector.L2Distance(qVals, rec.Values)
		}
		hits = append(hits, Neighbor{Record: rec, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vecstore: search: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if metric == MetricCosine {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Score < hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
