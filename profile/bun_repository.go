package profile

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed profile repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
}

type profileStore interface {
	repository.Repository[*Record]
}

// Repository implements types.ProfileStore using Bun. It is the server-side
// twin of the hosted record store for self-hosted installs and tests.
type Repository struct {
	profileStore
	clock types.Clock
}

// NewRepository constructs the default profile repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
			NewRecord: func() *Record { return &Record{} },
			GetID: func(rec *Record) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *Record, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}

	return &Repository{
		profileStore: repo,
		clock:        clock,
	}, nil
}

var _ types.ProfileStore = (*Repository)(nil)

// GetByEmail returns the profile registered under the email, or (nil, nil)
// when no row matches.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*types.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	rec, err := r.Get(ctx, repository.SelectBy("email", "=", email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// GetByID returns the profile keyed by the identity id, or (nil, nil) when
// no row matches.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	if id == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	rec, err := r.Get(ctx, repository.SelectBy("id", "=", id.String()))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// Insert persists a new profile row. Timestamps default to the repository
// clock when the caller left them zero.
func (r *Repository) Insert(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.ID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	rec := fromDomain(profile)
	now := r.clock.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

func fromDomain(profile types.Profile) *Record {
	return &Record{
		ID:        profile.ID,
		Email:     strings.TrimSpace(strings.ToLower(profile.Email)),
		Role:      string(profile.Role.Normalize()),
		FullName:  profile.FullName,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func toDomain(rec *Record) *types.Profile {
	if rec == nil {
		return nil
	}
	return &types.Profile{
		ID:        rec.ID,
		Email:     rec.Email,
		Role:      types.Role(rec.Role),
		FullName:  rec.FullName,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
