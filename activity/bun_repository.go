package activity

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed activity repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type activityStore interface {
	repository.Repository[*LogEntry]
}

// Repository persists activity logs and exposes query helpers. It implements
// both ActivitySink and ActivityRepository so dashboards can read the same
// store the workflows write to.
type Repository struct {
	activityStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("activity: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		activityStore: repo,
		db:            cfg.DB,
		clock:         clock,
		idGen:         idGen,
	}, nil
}

var (
	_ repository.Repository[*LogEntry] = (*Repository)(nil)
	_ types.ActivitySink               = (*Repository)(nil)
	_ types.ActivityRepository         = (*Repository)(nil)
)

// Log persists an activity record. Entries are append-only; nothing in this
// package mutates or deletes them.
func (r *Repository) Log(ctx context.Context, record types.ActivityRecord) error {
	entry := toLogEntry(record)
	if entry.ID == uuid.Nil {
		entry.ID = r.idGen.UUID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	_, err := r.Create(ctx, entry)
	return err
}

// ListActivity returns a paginated feed filtered by the supplied criteria.
func (r *Repository) ListActivity(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("created_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			return applyActivityFilter(q, filter)
		},
	}

	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.ActivityPage{}, err
	}
	records := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toActivityRecord(row))
	}
	return types.ActivityPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// ActivityStats aggregates counts grouped by activity kind.
func (r *Repository) ActivityStats(ctx context.Context, filter types.ActivityStatsFilter) (types.ActivityStats, error) {
	stats := types.ActivityStats{
		ByKind: make(map[types.ActivityKind]int),
	}
	if r.db == nil {
		return stats, errors.New("activity: stats requires bun DB")
	}
	query := r.db.NewSelect().
		Table("admin_activity_logs").
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("activity_type").
		Group("activity_type")
	query = applyActivityStatsFilter(query, filter)

	type row struct {
		Kind  string `bun:"activity_type"`
		Total int    `bun:"total"`
	}
	var rows []row
	if err := query.Scan(ctx, &rows); err != nil {
		return stats, err
	}
	total := 0
	for _, rec := range rows {
		stats.ByKind[types.ActivityKind(rec.Kind)] = rec.Total
		total += rec.Total
	}
	stats.Total = total
	return stats, nil
}

func applyActivityFilter(q *bun.SelectQuery, filter types.ActivityFilter) *bun.SelectQuery {
	if filter.AdminID != uuid.Nil {
		q = q.Where("admin_id = ?", filter.AdminID)
	}
	if len(filter.Kinds) > 0 {
		q = q.Where("activity_type IN (?)", bun.In(kindStrings(filter.Kinds)))
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	if strings.TrimSpace(filter.Keyword) != "" {
		keyword := "%" + strings.ToLower(strings.TrimSpace(filter.Keyword)) + "%"
		q = q.Where("LOWER(description) LIKE ? OR LOWER(activity_type) LIKE ?", keyword, keyword)
	}
	return q
}

func applyActivityStatsFilter(q *bun.SelectQuery, filter types.ActivityStatsFilter) *bun.SelectQuery {
	if filter.AdminID != uuid.Nil {
		q = q.Where("admin_id = ?", filter.AdminID)
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	if len(filter.Kinds) > 0 {
		q = q.Where("activity_type IN (?)", bun.In(kindStrings(filter.Kinds)))
	}
	return q
}

func kindStrings(kinds []types.ActivityKind) []string {
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, string(kind))
	}
	return out
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func toLogEntry(record types.ActivityRecord) *LogEntry {
	return &LogEntry{
		ID:          record.ID,
		AdminID:     record.AdminID,
		Kind:        string(record.Kind),
		Description: record.Description,
		IP:          record.IP,
		UserAgent:   record.UserAgent,
		CreatedAt:   record.CreatedAt,
	}
}

func toActivityRecord(entry *LogEntry) types.ActivityRecord {
	if entry == nil {
		return types.ActivityRecord{}
	}
	return types.ActivityRecord{
		ID:          entry.ID,
		AdminID:     entry.AdminID,
		Kind:        types.ActivityKind(entry.Kind),
		Description: entry.Description,
		IP:          entry.IP,
		UserAgent:   entry.UserAgent,
		CreatedAt:   entry.CreatedAt,
	}
}
