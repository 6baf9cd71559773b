// Package association models target-disease association result sets and
// summarizes their overall scores.
//
// A Summarizer wraps one materialized Table. It never queries a collaborator;
// callers fetch the response and hand over anything implementing Tabler.
package association

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Stats holds the descriptive statistics of a table's overall scores.
type Stats struct {
	Max    float64
	Min    float64
	Mean   float64
	StdDev float64 // sample deviation; NaN when the table has one record
}

// Summarizer exposes statistics and the pair projection over a Table.
type Summarizer struct {
	table Table
}

// NewSummarizer materializes src and wraps the resulting table.
// Conversion errors from src are returned as-is.
func NewSummarizer(src Tabler) (*Summarizer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: got nil", ErrTypeMismatch)
	}

	table, err := src.ToTable()
	if err != nil {
		return nil, err
	}

	return &Summarizer{table: table.clone()}, nil
}

// FromValue is NewSummarizer for values whose static type is unknown.
func FromValue(v any) (*Summarizer, error) {
	src, ok := v.(Tabler)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrTypeMismatch, v)
	}
	return NewSummarizer(src)
}

// Count returns the number of records.
func (s *Summarizer) Count() int {
	return len(s.table)
}

// ScoreMean returns the arithmetic mean of the overall scores.
func (s *Summarizer) ScoreMean() (float64, error) {
	if err := s.checkNonEmpty(); err != nil {
		return 0, err
	}
	mean, err := stats.Mean(s.table.Scores())
	if err != nil {
		return 0, fmt.Errorf("failed to compute mean: %w", err)
	}
	return mean, nil
}

// ScoreMin returns the lowest overall score.
func (s *Summarizer) ScoreMin() (float64, error) {
	if err := s.checkNonEmpty(); err != nil {
		return 0, err
	}
	min, err := stats.Min(s.table.Scores())
	if err != nil {
		return 0, fmt.Errorf("failed to compute minimum: %w", err)
	}
	return min, nil
}

// ScoreMax returns the highest overall score.
func (s *Summarizer) ScoreMax() (float64, error) {
	if err := s.checkNonEmpty(); err != nil {
		return 0, err
	}
	max, err := stats.Max(s.table.Scores())
	if err != nil {
		return 0, fmt.Errorf("failed to compute maximum: %w", err)
	}
	return max, nil
}

// ScoreStdDev returns the sample (n-1) standard deviation of the overall
// scores. A single record has no sample deviation and yields NaN.
func (s *Summarizer) ScoreStdDev() (float64, error) {
	if err := s.checkNonEmpty(); err != nil {
		return 0, err
	}
	if s.Count() == 1 {
		return math.NaN(), nil
	}
	sd, err := stats.StandardDeviationSample(s.table.Scores())
	if err != nil {
		return 0, fmt.Errorf("failed to compute standard deviation: %w", err)
	}
	return sd, nil
}

// Stats computes all four statistics.
func (s *Summarizer) Stats() (Stats, error) {
	var st Stats
	var err error

	if st.Max, err = s.ScoreMax(); err != nil {
		return Stats{}, err
	}
	if st.Min, err = s.ScoreMin(); err != nil {
		return Stats{}, err
	}
	if st.Mean, err = s.ScoreMean(); err != nil {
		return Stats{}, err
	}
	if st.StdDev, err = s.ScoreStdDev(); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// TargetDiseasePairs returns the (target, disease, score) triples in source
// order. The returned table is a copy.
func (s *Summarizer) TargetDiseasePairs() Table {
	return s.table.clone()
}

func (s *Summarizer) checkNonEmpty() error {
	if len(s.table) == 0 {
		return ErrEmptyResult
	}
	return nil
}
