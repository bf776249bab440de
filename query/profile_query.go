package query

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

// ProfileQueryInput scopes profile lookups. Exactly one of UserID or Email
// must be set; UserID wins when both are supplied.
type ProfileQueryInput struct {
	UserID uuid.UUID
	Email  string
}

// Type implements gocommand.Message.
func (ProfileQueryInput) Type() string {
	return "query.auth.profile"
}

// Validate implements gocommand.Message.
func (input ProfileQueryInput) Validate() error {
	if input.UserID == uuid.Nil && strings.TrimSpace(input.Email) == "" {
		return types.ErrUserIDRequired
	}
	return nil
}

// ProfileQuery fetches admin profile records.
type ProfileQuery struct {
	store types.ProfileStore
}

// NewProfileQuery constructs the profile query helper.
func NewProfileQuery(store types.ProfileStore) *ProfileQuery {
	return &ProfileQuery{store: store}
}

var _ gocommand.Querier[ProfileQueryInput, *types.Profile] = (*ProfileQuery)(nil)

// Query returns the profile for the supplied identifier, or nil when absent.
func (q *ProfileQuery) Query(ctx context.Context, input ProfileQueryInput) (*types.Profile, error) {
	if q.store == nil {
		return nil, types.ErrMissingProfileStore
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.UserID != uuid.Nil {
		return q.store.GetByID(ctx, input.UserID)
	}
	return q.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
}
