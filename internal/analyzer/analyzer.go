package analyzer

import (
	"context"
	"io"
	"log/slog"

	"github.com/blackwell-systems/otscore/internal/association"
)

// Querier fetches the associations matching a single filter. It is the
// association source the Runner summarizes (the Open Targets API client or the
// local SQLite mirror).
type Querier interface {
	Filter(ctx context.Context, f association.Filter) (association.Tabler, error)
}

// Runner runs association queries and summarizes their scores.
type Runner struct {
	querier Querier
	logger  *slog.Logger
	verbose bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for informational and warning messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithVerbose enables informational messages and the empty-result warning.
func WithVerbose(verbose bool) Option {
	return func(r *Runner) {
		r.verbose = verbose
	}
}

// New creates a Runner backed by the given querier.
func New(q Querier, opts ...Option) *Runner {
	r := &Runner{
		querier: q,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
