package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/otscore/internal/association"
)

// Run queries the associations for a single identifier and summarizes them.
// A query matching nothing is not an error: the returned Result carries only
// the query term. Errors from the querier are returned unmodified.
func (r *Runner) Run(ctx context.Context, kind association.Kind, identifier string) (*Result, error) {
	result := &Result{
		QueryTerm: identifier,
		Kind:      kind,
	}

	filter := association.Filter{Kind: kind, ID: identifier}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if r.verbose {
		r.logger.Info("querying associations", "kind", kind, "id", identifier)
	}

	resp, err := r.querier.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary, err := association.NewSummarizer(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read associations for %s: %w", filter, err)
	}

	if r.verbose {
		r.logger.Info("associations in response", "kind", kind, "id", identifier, "count", summary.Count())
	}

	if summary.Count() == 0 {
		if r.verbose {
			r.logger.Warn("result set is empty, no statistics computed", "kind", kind, "id", identifier)
		}
		return result, nil
	}

	st, err := summary.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to summarize associations for %s: %w", filter, err)
	}

	result.Pairs = summary.TargetDiseasePairs()
	result.ScoreMax = &st.Max
	result.ScoreMin = &st.Min
	result.ScoreMean = &st.Mean
	result.ScoreStdDev = &st.StdDev

	return result, nil
}

// RunAll runs one query per filter and returns the results in filter order.
// With parallel set the queries run concurrently; they share no state. The
// first error cancels the remaining queries.
func (r *Runner) RunAll(ctx context.Context, filters []association.Filter, parallel bool) ([]*Result, error) {
	results := make([]*Result, len(filters))

	if !parallel {
		for i, f := range filters {
			res, err := r.Run(ctx, f.Kind, f.ID)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range filters {
		i, f := i, f
		g.Go(func() error {
			res, err := r.Run(ctx, f.Kind, f.ID)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
