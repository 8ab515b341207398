package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// LookupQuery adapts a read-only fetch (organization detail, members, staff
// stats) to a Querier.
type LookupQuery[In any, Out any] struct {
	fetch func(ctx context.Context, in In) (Out, error)
}

// NewLookupQuery builds the query.
func NewLookupQuery[In any, Out any](fetch func(ctx context.Context, in In) (Out, error)) *LookupQuery[In, Out] {
	return &LookupQuery[In, Out]{fetch: fetch}
}

var _ gocommand.Querier[string, int] = (*LookupQuery[string, int])(nil)

// Query runs the fetch.
func (q *LookupQuery[In, Out]) Query(ctx context.Context, in In) (Out, error) {
	if q.fetch == nil {
		var zero Out
		return zero, errors.New("lookup query requires fetch")
	}
	return q.fetch(ctx, in)
}
