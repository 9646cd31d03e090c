// Package aggregate combines per-perspective evaluation results into a
// single summary. Aggregation is a pure function of its input: no I/O, no
// shared state, safe to call concurrently.
package aggregate

import (
	"fmt"

	"github.com/pagecrit/pagecrit/internal/metrics"
	"github.com/pagecrit/pagecrit/internal/models"
)

// ValidationError reports a malformed input record. Aggregation rejects the
// whole batch rather than emitting a partial summary; callers fix the input
// and resubmit.
type ValidationError struct {
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("result %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Aggregate combines a batch of evaluation results into an AggregatedSummary.
//
// The average is taken over results that carry a score; results without one
// still count toward ResultCount but never bias the average toward zero.
// Issues are pooled in input order with duplicates retained. An empty batch
// is not an error: it yields a zero-count summary with no average.
func Aggregate(results []models.EvaluationResult) (*models.AggregatedSummary, error) {
	seen := make(map[string]int, len(results))
	for i := range results {
		if err := results[i].Validate(); err != nil {
			return nil, &ValidationError{Index: i, Err: err}
		}
		if prev, dup := seen[results[i].SourceID]; dup {
			return nil, &ValidationError{
				Index: i,
				Err:   fmt.Errorf("duplicate source_id %q (first seen at result %d)", results[i].SourceID, prev),
			}
		}
		seen[results[i].SourceID] = i
	}

	summary := &models.AggregatedSummary{
		AllIssues:   []string{},
		ResultCount: len(results),
	}

	var scores []float64
	for _, r := range results {
		summary.AllIssues = append(summary.AllIssues, r.Issues...)
		if r.Score != nil {
			scores = append(scores, *r.Score)
		}
	}

	summary.ScoredCount = len(scores)
	if len(scores) > 0 {
		summary.AverageScore = models.Float64Ptr(metrics.Mean(scores))
		lo, hi := metrics.MinMax(scores)
		summary.MinScore = models.Float64Ptr(lo)
		summary.MaxScore = models.Float64Ptr(hi)
		summary.StdDev = models.Float64Ptr(metrics.StdDev(scores))
	}

	return summary, nil
}
