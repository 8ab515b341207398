package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// UnreadInput requests the unread notification count.
type UnreadInput struct{}

// UnreadCountQuery reads the badge count once, outside the poller.
type UnreadCountQuery struct {
	counter backoffice.UnreadCounter
}

// NewUnreadCountQuery builds the query.
func NewUnreadCountQuery(counter backoffice.UnreadCounter) *UnreadCountQuery {
	return &UnreadCountQuery{counter: counter}
}

var _ gocommand.Querier[UnreadInput, int] = (*UnreadCountQuery)(nil)

// Query returns the current count.
func (q *UnreadCountQuery) Query(ctx context.Context, _ UnreadInput) (int, error) {
	if q.counter == nil {
		return 0, errors.New("unread query requires counter")
	}
	return q.counter.UnreadCount(ctx)
}
