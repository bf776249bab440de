package activity

import (
	"context"
	"database/sql"
	"testing"

	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestRepository_LogAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	adminID := uuid.New()
	require.NoError(t, repo.Log(ctx, types.ActivityRecord{
		AdminID:     adminID,
		Kind:        types.ActivityLogin,
		Description: "Admin b@x.com logged in successfully",
		UserAgent:   "test-agent",
	}))
	require.NoError(t, repo.Log(ctx, types.ActivityRecord{
		AdminID:     adminID,
		Kind:        types.ActivityLogout,
		Description: "Admin b@x.com logged out",
	}))
	require.NoError(t, repo.Log(ctx, types.ActivityRecord{
		Kind:        types.ActivityPasswordReset,
		Description: "Password reset requested for: a@x.com",
	}))

	page, err := repo.ListActivity(ctx, types.ActivityFilter{AdminID: adminID})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	for _, record := range page.Records {
		require.Equal(t, adminID, record.AdminID)
		require.NotZero(t, record.ID)
		require.NotZero(t, record.CreatedAt)
	}

	page, err = repo.ListActivity(ctx, types.ActivityFilter{
		Kinds: []types.ActivityKind{types.ActivityPasswordReset},
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, uuid.Nil, page.Records[0].AdminID)
}

func TestRepository_KeywordFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	require.NoError(t, repo.Log(ctx, types.ActivityRecord{
		AdminID:     uuid.New(),
		Kind:        types.ActivityAction,
		Description: "New admin account created: c@x.com",
	}))

	page, err := repo.ListActivity(ctx, types.ActivityFilter{Keyword: "account created"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	page, err = repo.ListActivity(ctx, types.ActivityFilter{Keyword: "no such thing"})
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)
}

func TestRepository_Stats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	adminID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Log(ctx, types.ActivityRecord{
			AdminID: adminID,
			Kind:    types.ActivityLogin,
		}))
	}
	require.NoError(t, repo.Log(ctx, types.ActivityRecord{
		AdminID: adminID,
		Kind:    types.ActivityLogout,
	}))

	stats, err := repo.ActivityStats(ctx, types.ActivityStatsFilter{AdminID: adminID})
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 3, stats.ByKind[types.ActivityLogin])
	require.Equal(t, 1, stats.ByKind[types.ActivityLogout])
}

func newTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyDDL(t *testing.T, db *bun.DB) {
	_, err := db.Exec(`CREATE TABLE admin_activity_logs (
		id TEXT PRIMARY KEY,
		admin_id TEXT,
		activity_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP
	)`)
	require.NoError(t, err)
}
