package command

import (
	"context"
	"strings"
	"sync"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

// fakeBackend implements types.SessionClient with per-call tracking so tests
// can assert which backend operations ran and how often.
type fakeBackend struct {
	mu sync.Mutex

	current    *types.Identity
	currentErr error

	signInIdentity *types.Identity
	signInErr      error
	signInCalls    int

	signUpIdentity *types.Identity
	signUpErr      error
	signUpCalls    int

	oauthErr     error
	oauthCalls   int
	lastRedirect string

	resetErr   error
	resetCalls int

	updateErr   error
	updateCalls int

	exchangeErr   error
	exchangeCalls int
	lastCode      string

	setSessionErr   error
	setSessionCalls int
	lastAccess      string
	lastRefresh     string

	verifyErr   error
	verifyCalls int
	lastToken   string
	lastEmail   string

	signOutErrs  []error
	signOutCalls int

	handler func(context.Context, types.SessionEvent)
}

func (b *fakeBackend) CurrentSession(context.Context) (*types.Identity, error) {
	return b.current, b.currentErr
}

func (b *fakeBackend) OnSessionChange(fn func(context.Context, types.SessionEvent)) func() {
	b.handler = fn
	return func() { b.handler = nil }
}

func (b *fakeBackend) SignInWithPassword(_ context.Context, email, _ string) (*types.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signInCalls++
	if b.signInErr != nil {
		return nil, b.signInErr
	}
	if b.signInIdentity != nil {
		return b.signInIdentity, nil
	}
	return &types.Identity{ID: uuid.New(), Email: strings.ToLower(email)}, nil
}

func (b *fakeBackend) SignUp(_ context.Context, email, _ string, _ map[string]any) (*types.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signUpCalls++
	if b.signUpErr != nil {
		return nil, b.signUpErr
	}
	if b.signUpIdentity != nil {
		return b.signUpIdentity, nil
	}
	return &types.Identity{ID: uuid.New(), Email: strings.ToLower(email)}, nil
}

func (b *fakeBackend) SignInWithOAuth(_ context.Context, _, redirectURL string) error {
	b.oauthCalls++
	b.lastRedirect = redirectURL
	return b.oauthErr
}

func (b *fakeBackend) RequestPasswordReset(_ context.Context, _, redirectURL string) error {
	b.resetCalls++
	b.lastRedirect = redirectURL
	return b.resetErr
}

func (b *fakeBackend) UpdatePassword(context.Context, string) error {
	b.updateCalls++
	return b.updateErr
}

func (b *fakeBackend) ExchangeCode(_ context.Context, code string) error {
	b.exchangeCalls++
	b.lastCode = code
	return b.exchangeErr
}

func (b *fakeBackend) SetSessionFromTokens(_ context.Context, access, refresh string) error {
	b.setSessionCalls++
	b.lastAccess = access
	b.lastRefresh = refresh
	return b.setSessionErr
}

func (b *fakeBackend) VerifyRecoveryToken(_ context.Context, _, token, email string) error {
	b.verifyCalls++
	b.lastToken = token
	b.lastEmail = email
	return b.verifyErr
}

func (b *fakeBackend) SignOut(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.signOutCalls
	b.signOutCalls++
	if idx < len(b.signOutErrs) {
		return b.signOutErrs[idx]
	}
	return nil
}

// fakeProfileStore backs types.ProfileStore with in-memory rows.
type fakeProfileStore struct {
	byEmail    map[string]*types.Profile
	byID       map[uuid.UUID]*types.Profile
	emailErr   error
	idErr      error
	insertErr  error
	inserted   []types.Profile
	emailCalls int
	idCalls    int
}

func newFakeProfileStore(profiles ...types.Profile) *fakeProfileStore {
	store := &fakeProfileStore{
		byEmail: make(map[string]*types.Profile),
		byID:    make(map[uuid.UUID]*types.Profile),
	}
	for i := range profiles {
		p := profiles[i]
		store.byEmail[strings.ToLower(p.Email)] = &p
		store.byID[p.ID] = &p
	}
	return store
}

func (s *fakeProfileStore) GetByEmail(_ context.Context, email string) (*types.Profile, error) {
	s.emailCalls++
	if s.emailErr != nil {
		return nil, s.emailErr
	}
	return s.byEmail[strings.ToLower(email)], nil
}

func (s *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	s.idCalls++
	if s.idErr != nil {
		return nil, s.idErr
	}
	return s.byID[id], nil
}

func (s *fakeProfileStore) Insert(_ context.Context, profile types.Profile) (*types.Profile, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserted = append(s.inserted, profile)
	s.byEmail[strings.ToLower(profile.Email)] = &profile
	s.byID[profile.ID] = &profile
	return &profile, nil
}

// stubFeatureGate records evaluated keys and answers with a fixed result.
type stubFeatureGate struct {
	enabled   bool
	err       error
	keys      []string
	optCounts []int
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, opts ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	s.optCounts = append(s.optCounts, len(opts))
	if s.err != nil {
		return false, s.err
	}
	return s.enabled, nil
}

// recordingSink collects activity records and optionally fails.
type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

// recordingSession captures session holder writes.
type recordingSession struct {
	commits []types.Profile
	cleared int
}

func (s *recordingSession) CommitSignIn(_ context.Context, _ types.Identity, profile types.Profile) {
	s.commits = append(s.commits, profile)
}

func (s *recordingSession) ClearLocal(context.Context) {
	s.cleared++
}
