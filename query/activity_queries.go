package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
)

// ActivityFeedQuery renders paginated activity feeds for the dashboard.
type ActivityFeedQuery struct {
	repo types.ActivityRepository
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository) *ActivityFeedQuery {
	return &ActivityFeedQuery{repo: repo}
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of activity logs via the injected repository.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, types.ErrMissingActivityRepository
	}
	return q.repo.ListActivity(ctx, filter)
}

// ActivityStatsQuery aggregates activity counts per kind.
type ActivityStatsQuery struct {
	repo types.ActivityRepository
}

// NewActivityStatsQuery constructs the stats helper.
func NewActivityStatsQuery(repo types.ActivityRepository) *ActivityStatsQuery {
	return &ActivityStatsQuery{repo: repo}
}

var _ gocommand.Querier[types.ActivityStatsFilter, types.ActivityStats] = (*ActivityStatsQuery)(nil)

// Query returns aggregate counts for UI widgets.
func (q *ActivityStatsQuery) Query(ctx context.Context, filter types.ActivityStatsFilter) (types.ActivityStats, error) {
	if q.repo == nil {
		return types.ActivityStats{}, types.ErrMissingActivityRepository
	}
	return q.repo.ActivityStats(ctx, filter)
}
