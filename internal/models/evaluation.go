package models

import (
	"fmt"
	"math"
)

// MaxScore is the upper bound of the canonical score scale. All scores are
// normalized to 0–10 at ingestion; aggregation and reporting never see
// unit-scale (0–1) values.
const MaxScore = 10.0

// Persona is a named viewpoint used to evaluate a page, e.g. "Accessibility
// Advocate". The runtime experiences the page once per persona.
type Persona struct {
	Name        string   `json:"name" yaml:"name"`
	Perspective string   `json:"perspective" yaml:"perspective"`
	Focus       []string `json:"focus" yaml:"focus"`
	Device      string   `json:"device,omitempty" yaml:"device,omitempty"`
}

// EvaluationResult is one scored assessment of a page from a single
// perspective or persona.
//
// Score is a pointer because "no score" is a legitimate state distinct from
// zero: an evaluation may run without a configured provider, or the provider
// may decline to score. Absent scores are excluded from averaging rather than
// dragging it toward zero.
type EvaluationResult struct {
	SourceID     string   `json:"source_id"`
	Score        *float64 `json:"score,omitempty"`
	Issues       []string `json:"issues"`
	Assessment   string   `json:"assessment,omitempty"`
	Reasoning    string   `json:"reasoning,omitempty"`
	FocusAreas   []string `json:"focus_areas,omitempty"`
	Provider     string   `json:"provider,omitempty"`
	ResponseTime float64  `json:"response_time,omitempty"`
	Cached       bool     `json:"cached,omitempty"`
}

// Validate checks the boundary invariants for a single result: the source
// identifier must be present, and a score, when present, must be finite and
// non-negative.
func (r *EvaluationResult) Validate() error {
	if r.SourceID == "" {
		return fmt.Errorf("evaluation result: missing source_id")
	}
	if r.Score != nil {
		s := *r.Score
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("evaluation result %q: score is not finite", r.SourceID)
		}
		if s < 0 {
			return fmt.Errorf("evaluation result %q: score %.2f is negative", r.SourceID, s)
		}
	}
	return nil
}

// AggregatedSummary is the combined view of a batch of evaluation results.
// It is constructed once per aggregation call and never mutated afterwards.
type AggregatedSummary struct {
	// AverageScore is the mean over results that carry a score. Nil when no
	// contributing result has one.
	AverageScore *float64 `json:"average_score,omitempty"`

	// AllIssues is the concatenation of every result's issues in input
	// order. Duplicates are retained.
	AllIssues []string `json:"all_issues"`

	// ResultCount counts all contributing results, scored or not.
	ResultCount int `json:"result_count"`

	// ScoredCount counts only results with a present score.
	ScoredCount int `json:"scored_count"`

	MinScore *float64 `json:"min_score,omitempty"`
	MaxScore *float64 `json:"max_score,omitempty"`
	StdDev   *float64 `json:"std_dev,omitempty"`
}

// Float64Ptr returns a pointer to v. Convenience for building results with
// present scores in literals.
func Float64Ptr(v float64) *float64 {
	return &v
}
