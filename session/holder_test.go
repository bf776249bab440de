package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	identity *types.Identity
	err      error
	handler  func(context.Context, types.SessionEvent)
}

func (c *fakeClient) CurrentSession(context.Context) (*types.Identity, error) {
	return c.identity, c.err
}

func (c *fakeClient) OnSessionChange(fn func(context.Context, types.SessionEvent)) func() {
	c.handler = fn
	return func() { c.handler = nil }
}

func (c *fakeClient) emit(event types.SessionEvent) {
	if c.handler != nil {
		c.handler(context.Background(), event)
	}
}

func (c *fakeClient) SignInWithPassword(context.Context, string, string) (*types.Identity, error) {
	return nil, nil
}

func (c *fakeClient) SignUp(context.Context, string, string, map[string]any) (*types.Identity, error) {
	return nil, nil
}

func (c *fakeClient) SignInWithOAuth(context.Context, string, string) error  { return nil }
func (c *fakeClient) RequestPasswordReset(context.Context, string, string) error {
	return nil
}
func (c *fakeClient) UpdatePassword(context.Context, string) error       { return nil }
func (c *fakeClient) ExchangeCode(context.Context, string) error         { return nil }
func (c *fakeClient) SetSessionFromTokens(context.Context, string, string) error {
	return nil
}
func (c *fakeClient) VerifyRecoveryToken(context.Context, string, string, string) error {
	return nil
}
func (c *fakeClient) SignOut(context.Context) error { return nil }

type fakeProfiles struct {
	byID map[uuid.UUID]*types.Profile
	err  error
	// onGet lets tests interleave events while a fetch is in flight.
	onGet func()
}

func (s *fakeProfiles) GetByEmail(_ context.Context, email string) (*types.Profile, error) {
	for _, p := range s.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	if s.onGet != nil {
		s.onGet()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.byID[id], nil
}

func (s *fakeProfiles) Insert(_ context.Context, profile types.Profile) (*types.Profile, error) {
	if s.byID == nil {
		s.byID = make(map[uuid.UUID]*types.Profile)
	}
	s.byID[profile.ID] = &profile
	return &profile, nil
}

func TestHolder_StartWithoutSession(t *testing.T) {
	client := &fakeClient{}
	holder := NewHolder(Config{Client: client, Profiles: &fakeProfiles{}})

	require.Equal(t, StateLoading, holder.Snapshot().State)
	require.NoError(t, holder.Start(context.Background()))
	require.Equal(t, StateAnonymous, holder.Snapshot().State)
}

func TestHolder_StartWithSessionAndProfile(t *testing.T) {
	id := uuid.New()
	client := &fakeClient{identity: &types.Identity{ID: id, Email: "b@x.com"}}
	profiles := &fakeProfiles{byID: map[uuid.UUID]*types.Profile{
		id: {ID: id, Email: "b@x.com", Role: types.RoleAdmin},
	}}
	holder := NewHolder(Config{Client: client, Profiles: profiles})

	require.NoError(t, holder.Start(context.Background()))
	snap := holder.Snapshot()
	require.True(t, snap.Authenticated())
	require.Equal(t, "b@x.com", snap.Profile.Email)
}

func TestHolder_IdentityWithoutProfileIsAnonymous(t *testing.T) {
	id := uuid.New()
	client := &fakeClient{identity: &types.Identity{ID: id, Email: "b@x.com"}}
	holder := NewHolder(Config{Client: client, Profiles: &fakeProfiles{}})

	require.NoError(t, holder.Start(context.Background()))
	require.Equal(t, StateAnonymous, holder.Snapshot().State)
}

func TestHolder_SessionChangeNotification(t *testing.T) {
	client := &fakeClient{}
	id := uuid.New()
	profiles := &fakeProfiles{byID: map[uuid.UUID]*types.Profile{
		id: {ID: id, Email: "b@x.com", Role: types.RoleSuperAdmin},
	}}
	holder := NewHolder(Config{Client: client, Profiles: profiles})
	require.NoError(t, holder.Start(context.Background()))

	var seen []State
	unsubscribe := holder.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap.State)
	})
	defer unsubscribe()

	client.emit(types.SessionEvent{Event: "SIGNED_IN", Identity: &types.Identity{ID: id, Email: "b@x.com"}})
	require.True(t, holder.Snapshot().Authenticated())

	client.emit(types.SessionEvent{Event: "SIGNED_OUT"})
	require.Equal(t, StateAnonymous, holder.Snapshot().State)

	require.Equal(t, []State{StateAuthenticated, StateAnonymous}, seen)
}

func TestHolder_StaleResolutionIsDiscarded(t *testing.T) {
	slowID := uuid.New()
	client := &fakeClient{}
	profiles := &fakeProfiles{byID: map[uuid.UUID]*types.Profile{
		slowID: {ID: slowID, Email: "slow@x.com", Role: types.RoleAdmin},
	}}
	holder := NewHolder(Config{Client: client, Profiles: profiles})
	require.NoError(t, holder.Start(context.Background()))

	// While the profile fetch for the first event is in flight, a sign-out
	// notification arrives and is applied. The older fetch must not win.
	fired := false
	profiles.onGet = func() {
		if fired {
			return
		}
		fired = true
		client.emit(types.SessionEvent{Event: "SIGNED_OUT"})
	}

	client.emit(types.SessionEvent{Event: "SIGNED_IN", Identity: &types.Identity{ID: slowID, Email: "slow@x.com"}})
	require.Equal(t, StateAnonymous, holder.Snapshot().State)
}

func TestHolder_DiscardedTransitionSkipsSubscribersAndHook(t *testing.T) {
	slowID := uuid.New()
	client := &fakeClient{}
	profiles := &fakeProfiles{byID: map[uuid.UUID]*types.Profile{
		slowID: {ID: slowID, Email: "slow@x.com", Role: types.RoleAdmin},
	}}
	var hookEvents []string
	holder := NewHolder(Config{
		Client:   client,
		Profiles: profiles,
		Hooks: types.Hooks{
			AfterSessionChange: func(_ context.Context, event types.SessionEvent) {
				hookEvents = append(hookEvents, event.Event)
			},
		},
	})
	require.NoError(t, holder.Start(context.Background()))

	var seen []State
	unsubscribe := holder.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap.State)
	})
	defer unsubscribe()

	fired := false
	profiles.onGet = func() {
		if fired {
			return
		}
		fired = true
		client.emit(types.SessionEvent{Event: "SIGNED_OUT"})
	}

	// The sign-in resolution loses to the sign-out that lands mid-fetch, so
	// neither subscribers nor the change hook hear about the stale sign-in.
	client.emit(types.SessionEvent{Event: "SIGNED_IN", Identity: &types.Identity{ID: slowID, Email: "slow@x.com"}})

	require.Equal(t, []State{StateAnonymous}, seen)
	require.Equal(t, []string{"initial", "SIGNED_OUT"}, hookEvents)
}

func TestHolder_NotificationsFollowAppliedOrder(t *testing.T) {
	client := &fakeClient{}
	holder := NewHolder(Config{Client: client, Profiles: &fakeProfiles{}})
	require.NoError(t, holder.Start(context.Background()))

	var mu sync.Mutex
	var seen []Snapshot
	unsubscribe := holder.Subscribe(func(snap Snapshot) {
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})
	defer unsubscribe()

	id := uuid.New()
	identity := types.Identity{ID: id, Email: "b@x.com"}
	profile := types.Profile{ID: id, Email: "b@x.com", Role: types.RoleAdmin}

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			holder.CommitSignIn(context.Background(), identity, profile)
		}()
		go func() {
			defer wg.Done()
			holder.ClearLocal(context.Background())
		}()
	}
	wg.Wait()

	// The last delivered snapshot must match the stored one: a slower
	// goroutine may never notify a snapshot newer ones already replaced.
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	require.Equal(t, holder.Snapshot(), seen[len(seen)-1])
}

func TestHolder_ProfileFetchErrorDegradesToAnonymous(t *testing.T) {
	id := uuid.New()
	client := &fakeClient{identity: &types.Identity{ID: id}}
	holder := NewHolder(Config{
		Client:   client,
		Profiles: &fakeProfiles{err: errors.New("boom")},
	})

	require.NoError(t, holder.Start(context.Background()))
	require.Equal(t, StateAnonymous, holder.Snapshot().State)
}

func TestHolder_CommitSignInAndClear(t *testing.T) {
	client := &fakeClient{}
	holder := NewHolder(Config{Client: client, Profiles: &fakeProfiles{}})
	require.NoError(t, holder.Start(context.Background()))

	id := uuid.New()
	holder.CommitSignIn(context.Background(), types.Identity{ID: id, Email: "b@x.com"}, types.Profile{ID: id, Email: "b@x.com", Role: types.RoleAdmin})
	require.True(t, holder.Snapshot().Authenticated())

	holder.ClearLocal(context.Background())
	require.Equal(t, StateAnonymous, holder.Snapshot().State)
}
