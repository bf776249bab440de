package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Collection names exposed by the hosted backend's record store.
const (
	CollectionProfiles     = "profiles"
	CollectionActivityLogs = "admin_activity_logs"
)

// SessionEvent is pushed by the backend whenever the session changes: login,
// logout, token refresh, or OAuth redirect completion. Identity is nil when
// the session ended.
type SessionEvent struct {
	Event    string
	Identity *Identity
}

// SessionClient is the credentialed surface of the hosted backend. All
// durable auth state lives behind it; this library only orchestrates calls
// and classifies failures.
type SessionClient interface {
	// CurrentSession returns the active identity, or (nil, nil) when the
	// backend has no session.
	CurrentSession(ctx context.Context) (*Identity, error)

	// OnSessionChange registers a push callback and returns an unsubscribe
	// function. The callback may fire at any time, concurrently with
	// in-flight operations.
	OnSessionChange(fn func(context.Context, SessionEvent)) (unsubscribe func())

	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Identity, error)
	SignInWithOAuth(ctx context.Context, provider, redirectURL string) error
	RequestPasswordReset(ctx context.Context, email, redirectURL string) error

	// UpdatePassword acts on the currently active session.
	UpdatePassword(ctx context.Context, newPassword string) error

	ExchangeCode(ctx context.Context, code string) error
	SetSessionFromTokens(ctx context.Context, accessToken, refreshToken string) error
	VerifyRecoveryToken(ctx context.Context, tokenType, token, email string) error

	SignOut(ctx context.Context) error
}

// RecordStore is the filtered read/write surface over the backend's two
// collections. Rows are dynamic; callers must decode them at the boundary.
type RecordStore interface {
	Query(ctx context.Context, collection string, filter map[string]any) ([]map[string]any, error)
	Insert(ctx context.Context, collection string, row map[string]any) error
}

// BackendClient is the full surface consumed from the hosted backend.
type BackendClient interface {
	SessionClient
	RecordStore
}

// Fault carries the backend's raw failure signal so workflows can classify
// it. Status follows HTTP conventions when the backend exposes one.
type Fault struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f == nil {
		return "backend fault"
	}
	if f.Status > 0 {
		return fmt.Sprintf("backend fault (%d): %s", f.Status, f.Message)
	}
	return "backend fault: " + f.Message
}

// FaultFrom extracts a *Fault from the error chain when present.
func FaultFrom(err error) (*Fault, bool) {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault, true
	}
	return nil, false
}

// IsRateLimited reports whether the backend signalled too-many-requests.
func IsRateLimited(err error) bool {
	if fault, ok := FaultFrom(err); ok {
		return fault.Status == 429
	}
	return false
}

// IsInvalidCredentials reports whether the backend rejected the password.
func IsInvalidCredentials(err error) bool {
	return faultContains(err, "invalid login credentials")
}

// IsPolicyViolation reports whether the backend rejected the call on a
// security policy, e.g. a row-level security rule.
func IsPolicyViolation(err error) bool {
	return faultContains(err, "row-level security")
}

// IsExpired reports whether the backend flagged an expired token or link.
func IsExpired(err error) bool {
	return faultContains(err, "expired")
}

func faultContains(err error, needle string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if fault, ok := FaultFrom(err); ok {
		msg = fault.Message
	}
	return strings.Contains(strings.ToLower(msg), needle)
}
