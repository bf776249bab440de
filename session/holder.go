// Package session owns the process-wide authenticated state. The Holder is
// an observable container: writers funnel through a single stamped entry
// point that applies transitions last-write-wins by arrival order, so a slow
// profile resolution can never clobber a newer session change.
package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-adminauth/pkg/types"
)

// State enumerates the holder's lifecycle states.
type State string

const (
	// StateLoading is the initial state before the first session resolution.
	StateLoading State = "loading"
	// StateAnonymous means no valid application user is signed in.
	StateAnonymous State = "anonymous"
	// StateAuthenticated means an Identity with a matching Profile is active.
	StateAuthenticated State = "authenticated"
)

// Snapshot is an immutable view of the holder. Identity and Profile are only
// set when State is StateAuthenticated.
type Snapshot struct {
	State    State
	Identity *types.Identity
	Profile  *types.Profile
}

// Authenticated reports whether the snapshot carries a valid application user.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil && s.Profile != nil
}

// Config wires the holder's collaborators.
type Config struct {
	Client   types.SessionClient
	Profiles types.ProfileStore
	Hooks    types.Hooks
	Logger   types.Logger
}

// Holder tracks the current authenticated identity plus its authorization
// profile. It lives for the process lifetime; there is no terminal state.
type Holder struct {
	client   types.SessionClient
	profiles types.ProfileStore
	hooks    types.Hooks
	logger   types.Logger

	mu          sync.Mutex
	dispatchMu  sync.Mutex
	seq         uint64
	lastApplied uint64
	snapshot    Snapshot

	subsMu      sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSub     int

	unsubscribe func()
}

// NewHolder constructs a holder in the Loading state.
func NewHolder(cfg Config) *Holder {
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Holder{
		client:      cfg.Client,
		profiles:    cfg.Profiles,
		hooks:       cfg.Hooks,
		logger:      logger,
		snapshot:    Snapshot{State: StateLoading},
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Start resolves any existing backend session and subscribes to session
// change notifications. A resolution failure leaves the holder Anonymous
// rather than Loading so the UI never sticks on the spinner.
func (h *Holder) Start(ctx context.Context) error {
	if h.client == nil {
		return types.ErrMissingSessionClient
	}
	if h.profiles == nil {
		return types.ErrMissingProfileStore
	}

	h.unsubscribe = h.client.OnSessionChange(func(ctx context.Context, event types.SessionEvent) {
		h.applyEvent(ctx, event)
	})

	identity, err := h.client.CurrentSession(ctx)
	if err != nil {
		h.logger.Error("session: initial session lookup failed", err)
		h.applyEvent(ctx, types.SessionEvent{Event: "initial"})
		return nil
	}
	h.applyEvent(ctx, types.SessionEvent{Event: "initial", Identity: identity})
	return nil
}

// Close detaches the holder from backend notifications.
func (h *Holder) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// Snapshot returns the current state.
func (h *Holder) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot
}

// Subscribe registers a callback fired after every applied transition and
// returns an unsubscribe function. Callbacks run synchronously in applied
// order and must not start new transitions; keep them cheap.
func (h *Holder) Subscribe(fn func(Snapshot)) func() {
	h.subsMu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subscribers[id] = fn
	h.subsMu.Unlock()
	return func() {
		h.subsMu.Lock()
		delete(h.subscribers, id)
		h.subsMu.Unlock()
	}
}

// CommitSignIn records a successful sign-in. It shares the stamped entry
// point with notification handling so a concurrent session change that
// arrived later still wins.
func (h *Holder) CommitSignIn(ctx context.Context, identity types.Identity, profile types.Profile) {
	stamp := h.nextStamp()
	h.apply(ctx, stamp, Snapshot{
		State:    StateAuthenticated,
		Identity: &identity,
		Profile:  &profile,
	})
	if h.hooks.AfterSignIn != nil {
		h.hooks.AfterSignIn(ctx, identity, profile)
	}
}

// ClearLocal drops the local identity without touching the backend. Sign-out
// uses it so the UI never sticks on a session the backend may or may not
// still consider live.
func (h *Holder) ClearLocal(ctx context.Context) {
	stamp := h.nextStamp()
	h.apply(ctx, stamp, Snapshot{State: StateAnonymous})
}

// applyEvent resolves the profile for the event's identity and applies the
// resulting snapshot. The stamp is taken before the profile fetch: if a newer
// event is applied while the fetch is in flight, this one is discarded and
// the session change hook does not fire for it.
func (h *Holder) applyEvent(ctx context.Context, event types.SessionEvent) {
	stamp := h.nextStamp()

	if event.Identity == nil {
		if h.apply(ctx, stamp, Snapshot{State: StateAnonymous}) {
			h.emitSessionHook(ctx, event)
		}
		return
	}

	profile, err := h.profiles.GetByID(ctx, event.Identity.ID)
	if err != nil {
		h.logger.Error("session: profile resolution failed", err, "user_id", event.Identity.ID)
	}
	if profile == nil {
		// An identity without a profile is not a valid application user.
		if h.apply(ctx, stamp, Snapshot{State: StateAnonymous}) {
			h.emitSessionHook(ctx, event)
		}
		return
	}

	if h.apply(ctx, stamp, Snapshot{
		State:    StateAuthenticated,
		Identity: event.Identity,
		Profile:  profile,
	}) {
		h.emitSessionHook(ctx, event)
	}
}

func (h *Holder) nextStamp() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	return h.seq
}

// apply stores the snapshot when the stamp is still current and reports
// whether the transition took effect. The dispatch lock is acquired before
// the state lock is released so subscribers observe transitions in the same
// order they were applied.
func (h *Holder) apply(_ context.Context, stamp uint64, next Snapshot) bool {
	h.mu.Lock()
	if stamp < h.lastApplied {
		h.mu.Unlock()
		h.logger.Debug("session: discarding stale transition", "stamp", stamp)
		return false
	}
	h.lastApplied = stamp
	h.snapshot = next
	h.dispatchMu.Lock()
	h.mu.Unlock()

	h.notify(next)
	h.dispatchMu.Unlock()
	return true
}

func (h *Holder) notify(snapshot Snapshot) {
	h.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.subsMu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (h *Holder) emitSessionHook(ctx context.Context, event types.SessionEvent) {
	if h.hooks.AfterSessionChange != nil {
		h.hooks.AfterSessionChange(ctx, event)
	}
}
