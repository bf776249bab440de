package command

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-adminauth/pkg/types"
)

// SessionWriter is the slice of the session holder the commands mutate.
type SessionWriter interface {
	CommitSignIn(ctx context.Context, identity types.Identity, profile types.Profile)
	ClearLocal(ctx context.Context)
}

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeActivitySink(sink types.ActivitySink) types.ActivitySink {
	return sink
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

// logActivity appends an audit record best-effort. Audit logging never blocks
// the primary user action; failures are logged and swallowed.
func logActivity(ctx context.Context, sink types.ActivitySink, logger types.Logger, record types.ActivityRecord) {
	if sink == nil {
		return
	}
	if err := sink.Log(ctx, record); err != nil && logger != nil {
		logger.Error("activity log append failed", err, "kind", string(record.Kind))
	}
}

func emitActivityHook(ctx context.Context, hooks types.Hooks, record types.ActivityRecord) {
	if hooks.AfterActivity == nil {
		return
	}
	hooks.AfterActivity(ctx, record)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// resolveRedirectBase prefers the actually-observed browser origin over the
// statically configured base URL; a bad static config cannot then break
// redirect links for a correctly served deployment.
func resolveRedirectBase(origin, configured string) string {
	base := strings.TrimSpace(origin)
	if base == "" {
		base = strings.TrimSpace(configured)
	}
	return strings.TrimRight(base, "/")
}
