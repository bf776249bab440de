package activity

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

var _ types.ActivityRepository = (*RemoteSink)(nil)

// ListActivity reads the feed back through the record store. The backend
// query narrows by admin when possible; kind, time range, and keyword
// filtering happen client side since the record store only matches on
// equality.
func (s *RemoteSink) ListActivity(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	rows, err := s.store.Query(ctx, types.CollectionActivityLogs, remoteEqualityFilter(filter.AdminID))
	if err != nil {
		return types.ActivityPage{}, types.WrapBackendError(err, "activity feed query failed")
	}

	records := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		record, err := decodeActivityRow(row)
		if err != nil {
			return types.ActivityPage{}, err
		}
		if matchesActivityFilter(record, filter) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	pagination := normalizePagination(filter.Pagination, 50, 200)
	total := len(records)
	start := pagination.Offset
	if start > total {
		start = total
	}
	end := start + pagination.Limit
	if end > total {
		end = total
	}
	return types.ActivityPage{
		Records:    records[start:end],
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// ActivityStats aggregates counts grouped by activity kind.
func (s *RemoteSink) ActivityStats(ctx context.Context, filter types.ActivityStatsFilter) (types.ActivityStats, error) {
	stats := types.ActivityStats{
		ByKind: make(map[types.ActivityKind]int),
	}
	rows, err := s.store.Query(ctx, types.CollectionActivityLogs, remoteEqualityFilter(filter.AdminID))
	if err != nil {
		return stats, types.WrapBackendError(err, "activity stats query failed")
	}
	for _, row := range rows {
		record, err := decodeActivityRow(row)
		if err != nil {
			return stats, err
		}
		if !matchesStatsFilter(record, filter) {
			continue
		}
		stats.ByKind[record.Kind]++
		stats.Total++
	}
	return stats, nil
}

func remoteEqualityFilter(adminID uuid.UUID) map[string]any {
	if adminID == uuid.Nil {
		return nil
	}
	return map[string]any{"admin_id": adminID.String()}
}

func matchesActivityFilter(record types.ActivityRecord, filter types.ActivityFilter) bool {
	if !matchesKinds(record.Kind, filter.Kinds) {
		return false
	}
	if !matchesRange(record.CreatedAt, filter.Since, filter.Until) {
		return false
	}
	if keyword := strings.ToLower(strings.TrimSpace(filter.Keyword)); keyword != "" {
		if !strings.Contains(strings.ToLower(record.Description), keyword) &&
			!strings.Contains(strings.ToLower(string(record.Kind)), keyword) {
			return false
		}
	}
	return true
}

func matchesStatsFilter(record types.ActivityRecord, filter types.ActivityStatsFilter) bool {
	return matchesKinds(record.Kind, filter.Kinds) &&
		matchesRange(record.CreatedAt, filter.Since, filter.Until)
}

func matchesKinds(kind types.ActivityKind, kinds []types.ActivityKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if kind == want {
			return true
		}
	}
	return false
}

func matchesRange(at time.Time, since, until *time.Time) bool {
	if since != nil && !since.IsZero() && at.Before(*since) {
		return false
	}
	if until != nil && !until.IsZero() && at.After(*until) {
		return false
	}
	return true
}

// decodeActivityRow converts a dynamic backend row into a typed record.
// activity_type is required; everything else degrades to zero values.
func decodeActivityRow(row map[string]any) (types.ActivityRecord, error) {
	kind, ok := row["activity_type"].(string)
	if !ok || kind == "" {
		return types.ActivityRecord{}, types.NewBackendError("activity row missing activity_type")
	}
	record := types.ActivityRecord{
		Kind:        types.ActivityKind(kind),
		Description: stringField(row, "description"),
		IP:          stringField(row, "ip_address"),
		UserAgent:   stringField(row, "user_agent"),
		CreatedAt:   timeField(row, "created_at"),
	}
	if raw := stringField(row, "id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			record.ID = id
		}
	}
	if raw := stringField(row, "admin_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			record.AdminID = id
		}
	}
	return record, nil
}

func stringField(row map[string]any, key string) string {
	if val, ok := row[key].(string); ok {
		return val
	}
	return ""
}

func timeField(row map[string]any, key string) time.Time {
	switch val := row[key].(type) {
	case time.Time:
		return val
	case string:
		if ts, err := time.Parse(time.RFC3339, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
