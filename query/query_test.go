package query

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubActivityRepo struct {
	page       types.ActivityPage
	stats      types.ActivityStats
	lastFilter types.ActivityFilter
	lastStats  types.ActivityStatsFilter
}

func (s *stubActivityRepo) ListActivity(_ context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	s.lastFilter = filter
	return s.page, nil
}

func (s *stubActivityRepo) ActivityStats(_ context.Context, filter types.ActivityStatsFilter) (types.ActivityStats, error) {
	s.lastStats = filter
	return s.stats, nil
}

type stubProfileStore struct {
	byEmail map[string]*types.Profile
	byID    map[uuid.UUID]*types.Profile
}

func (s *stubProfileStore) GetByEmail(_ context.Context, email string) (*types.Profile, error) {
	return s.byEmail[strings.ToLower(email)], nil
}

func (s *stubProfileStore) GetByID(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	return s.byID[id], nil
}

func (s *stubProfileStore) Insert(_ context.Context, profile types.Profile) (*types.Profile, error) {
	return &profile, nil
}

func TestActivityFeedQueryDelegatesFilter(t *testing.T) {
	adminID := uuid.New()
	repo := &stubActivityRepo{
		page: types.ActivityPage{Total: 2},
	}
	q := NewActivityFeedQuery(repo)

	page, err := q.Query(context.Background(), types.ActivityFilter{
		AdminID: adminID,
		Kinds:   []types.ActivityKind{types.ActivityLogin},
	})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Equal(t, adminID, repo.lastFilter.AdminID)
	require.Equal(t, []types.ActivityKind{types.ActivityLogin}, repo.lastFilter.Kinds)
}

func TestActivityFeedQueryRequiresRepo(t *testing.T) {
	q := NewActivityFeedQuery(nil)
	_, err := q.Query(context.Background(), types.ActivityFilter{})
	require.ErrorIs(t, err, types.ErrMissingActivityRepository)
}

func TestActivityStatsQueryDelegates(t *testing.T) {
	repo := &stubActivityRepo{
		stats: types.ActivityStats{Total: 5},
	}
	q := NewActivityStatsQuery(repo)

	stats, err := q.Query(context.Background(), types.ActivityStatsFilter{})
	require.NoError(t, err)
	require.Equal(t, 5, stats.Total)
}

func TestProfileQueryByID(t *testing.T) {
	id := uuid.New()
	store := &stubProfileStore{
		byID: map[uuid.UUID]*types.Profile{
			id: {ID: id, Email: "a@x.com", Role: types.RoleAdmin},
		},
	}
	q := NewProfileQuery(store)

	profile, err := q.Query(context.Background(), ProfileQueryInput{UserID: id})
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "a@x.com", profile.Email)
}

func TestProfileQueryByEmail(t *testing.T) {
	store := &stubProfileStore{
		byEmail: map[string]*types.Profile{
			"a@x.com": {ID: uuid.New(), Email: "a@x.com", Role: types.RoleSuperAdmin},
		},
	}
	q := NewProfileQuery(store)

	profile, err := q.Query(context.Background(), ProfileQueryInput{Email: " A@X.com "})
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, types.RoleSuperAdmin, profile.Role)
}

func TestProfileQueryRequiresIdentifier(t *testing.T) {
	q := NewProfileQuery(&stubProfileStore{})
	_, err := q.Query(context.Background(), ProfileQueryInput{})
	require.ErrorIs(t, err, types.ErrUserIDRequired)
}
