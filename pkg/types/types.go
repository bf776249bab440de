package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Identity is the storage-agnostic view of an authenticated principal issued
// by the hosted backend. The application never mints identities itself; it
// holds a read-only reference that stays valid until the next session change
// or an explicit sign out.
type Identity struct {
	ID          uuid.UUID
	Email       string
	AccessToken string
	Raw         any
}

// Profile is the application-level authorization record paired with an
// Identity. An Identity without a Profile is not a valid application user
// even though the backend considers it signed in.
type Profile struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityKind enumerates the audit record categories.
type ActivityKind string

const (
	ActivityLogin         ActivityKind = "login"
	ActivityLogout        ActivityKind = "logout"
	ActivityAction        ActivityKind = "action"
	ActivityPasswordReset ActivityKind = "password_reset"
)

// ActivityRecord is an append-only audit entry. AdminID is uuid.Nil when the
// actor was unauthenticated, e.g. a password reset requested before login.
type ActivityRecord struct {
	ID          uuid.UUID
	AdminID     uuid.UUID
	Kind        ActivityKind
	Description string
	IP          string
	UserAgent   string
	CreatedAt   time.Time
}

// ActivitySink is the minimal DI contract for emitting activity. Keep it
// stable and limited to Log so hosts can swap sinks without breaking changes.
type ActivitySink interface {
	Log(context.Context, ActivityRecord) error
}

// ActivityFilter narrows activity feed queries.
type ActivityFilter struct {
	AdminID    uuid.UUID
	Kinds      []ActivityKind
	Since      *time.Time
	Until      *time.Time
	Keyword    string
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (ActivityFilter) Type() string {
	return "query.activity.feed"
}

// Validate implements gocommand.Message.
func (ActivityFilter) Validate() error { return nil }

// ActivityPage represents a paginated feed response.
type ActivityPage struct {
	Records    []ActivityRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// ActivityStatsFilter scopes aggregate activity queries.
type ActivityStatsFilter struct {
	AdminID uuid.UUID
	Since   *time.Time
	Until   *time.Time
	Kinds   []ActivityKind
}

// Type implements gocommand.Message for query inputs.
func (ActivityStatsFilter) Type() string {
	return "query.activity.stats"
}

// Validate implements gocommand.Message.
func (ActivityStatsFilter) Validate() error { return nil }

// ActivityStats powers dashboard widgets summarizing kinds.
type ActivityStats struct {
	Total  int
	ByKind map[ActivityKind]int
}

// ActivityRepository exposes read-side access to activity logs.
type ActivityRepository interface {
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
	ActivityStats(ctx context.Context, filter ActivityStatsFilter) (ActivityStats, error)
}

// ProfileStore reads and writes the profiles collection. Lookups return
// (nil, nil) when no matching row exists so callers can distinguish "absent"
// from a backend failure.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Insert(ctx context.Context, profile Profile) (*Profile, error)
}

// Pagination supports query pagination across admin panels.
type Pagination struct {
	Limit  int
	Offset int
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterSignIn        func(context.Context, Identity, Profile)
	AfterSignOut       func(context.Context, Identity)
	AfterSessionChange func(context.Context, SessionEvent)
	AfterActivity      func(context.Context, ActivityRecord)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-adminauth: service not ready")
	// ErrMissingSessionClient occurs when no backend session client was supplied.
	ErrMissingSessionClient = errors.New("go-adminauth: missing session client")
	// ErrMissingProfileStore occurs when commands lack a profile store.
	ErrMissingProfileStore = errors.New("go-adminauth: missing profile store")
	// ErrMissingActivitySink occurs when no activity sink was supplied.
	ErrMissingActivitySink = errors.New("go-adminauth: missing activity sink")
	// ErrMissingActivityRepository occurs when no activity repository was supplied.
	ErrMissingActivityRepository = errors.New("go-adminauth: missing activity repository")
	// ErrMissingSessionHolder occurs when sign-in/out commands lack the session holder.
	ErrMissingSessionHolder = errors.New("go-adminauth: missing session holder")
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-adminauth: user id required")
)
