package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

// RemoteStore implements types.ProfileStore over the hosted backend's record
// store. Rows come back as dynamic maps; decoding is strict and fails fast so
// internal logic never depends on dynamic shape.
type RemoteStore struct {
	store types.RecordStore
	clock types.Clock
}

// NewRemoteStore wraps the backend record store.
func NewRemoteStore(store types.RecordStore, clock types.Clock) *RemoteStore {
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &RemoteStore{store: store, clock: clock}
}

var _ types.ProfileStore = (*RemoteStore)(nil)

// GetByEmail queries the profiles collection by email.
func (s *RemoteStore) GetByEmail(ctx context.Context, email string) (*types.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	return s.getOne(ctx, map[string]any{"email": email})
}

// GetByID queries the profiles collection by identity id.
func (s *RemoteStore) GetByID(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	if id == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	return s.getOne(ctx, map[string]any{"id": id.String()})
}

// Insert writes a new profile row through the record store.
func (s *RemoteStore) Insert(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.ID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	now := s.clock.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}
	row := map[string]any{
		"id":         profile.ID.String(),
		"email":      strings.TrimSpace(strings.ToLower(profile.Email)),
		"role":       string(profile.Role.Normalize()),
		"full_name":  profile.FullName,
		"created_at": profile.CreatedAt.Format(time.RFC3339),
		"updated_at": profile.UpdatedAt.Format(time.RFC3339),
	}
	if err := s.store.Insert(ctx, types.CollectionProfiles, row); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *RemoteStore) getOne(ctx context.Context, filter map[string]any) (*types.Profile, error) {
	rows, err := s.store.Query(ctx, types.CollectionProfiles, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return DecodeRow(rows[0])
}

// DecodeRow converts a dynamic record-store row into a Profile. Missing or
// malformed required fields yield a tagged backend error.
func DecodeRow(row map[string]any) (*types.Profile, error) {
	id, err := rowUUID(row, "id")
	if err != nil {
		return nil, err
	}
	email, err := rowString(row, "email")
	if err != nil {
		return nil, err
	}
	role, err := rowString(row, "role")
	if err != nil {
		return nil, err
	}
	profile := &types.Profile{
		ID:    id,
		Email: email,
		Role:  types.Role(role),
	}
	// Display metadata and timestamps are optional on reads; the backend may
	// project a narrower column set pre-authentication.
	if name, ok := row["full_name"].(string); ok {
		profile.FullName = name
	}
	profile.CreatedAt = rowTime(row, "created_at")
	profile.UpdatedAt = rowTime(row, "updated_at")
	return profile, nil
}

func rowString(row map[string]any, key string) (string, error) {
	value, ok := row[key]
	if !ok || value == nil {
		return "", types.NewBackendError(fmt.Sprintf("profile row missing %q", key))
	}
	str, ok := value.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return "", types.NewBackendError(fmt.Sprintf("profile row field %q malformed", key))
	}
	return str, nil
}

func rowUUID(row map[string]any, key string) (uuid.UUID, error) {
	str, err := rowString(row, key)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, types.NewBackendError(fmt.Sprintf("profile row field %q is not a uuid", key))
	}
	return id, nil
}

func rowTime(row map[string]any, key string) time.Time {
	switch value := row[key].(type) {
	case time.Time:
		return value
	case string:
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
