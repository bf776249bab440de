package command

import (
	"context"
	"fmt"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
)

// SignInInput carries the password sign-in form payload.
type SignInInput struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
	Result    *SignInResult
}

// Type implements gocommand.Message.
func (SignInInput) Type() string {
	return "command.auth.sign_in"
}

// Validate implements gocommand.Message.
func (input SignInInput) Validate() error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// SignInResult exposes the authenticated identity and profile.
type SignInResult struct {
	Identity *types.Identity
	Profile  *types.Profile
}

// SignInCommandConfig holds sign-in dependencies.
type SignInCommandConfig struct {
	Client   types.SessionClient
	Profiles types.ProfileStore
	Session  SessionWriter
	Activity types.ActivitySink
	Hooks    types.Hooks
	Clock    types.Clock
	Logger   types.Logger
}

// SignInCommand runs the ordered sign-in sequence: pre-auth profile lookup,
// role gate, password authentication, consistency check, authenticated
// profile re-fetch, session commit. The role gate runs before password
// verification so privilege-lacking accounts never learn whether their
// password was correct.
type SignInCommand struct {
	client   types.SessionClient
	profiles types.ProfileStore
	session  SessionWriter
	sink     types.ActivitySink
	hooks    types.Hooks
	clock    types.Clock
	logger   types.Logger
}

// NewSignInCommand constructs the sign-in handler.
func NewSignInCommand(cfg SignInCommandConfig) *SignInCommand {
	return &SignInCommand{
		client:   cfg.Client,
		profiles: cfg.Profiles,
		session:  cfg.Session,
		sink:     safeActivitySink(cfg.Activity),
		hooks:    safeHooks(cfg.Hooks),
		clock:    safeClock(cfg.Clock),
		logger:   safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[SignInInput] = (*SignInCommand)(nil)

// Execute performs the sign-in sequence, short-circuiting on the first
// failure. Any failure at or after password authentication signs out of the
// backend before returning so no authenticated-but-unauthorized session is
// left behind.
func (c *SignInCommand) Execute(ctx context.Context, input SignInInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}
	if c.profiles == nil {
		return types.ErrMissingProfileStore
	}
	if err := input.Validate(); err != nil {
		return err
	}
	email := normalizeEmail(input.Email)

	// Pre-authentication existence check. No credential ever reaches the
	// backend for an unregistered email.
	known, err := c.profiles.GetByEmail(ctx, email)
	if err != nil {
		if types.IsPolicyViolation(err) {
			return failAccessDenied()
		}
		return failBackend(err)
	}
	if known == nil {
		return failNotRegistered()
	}

	if !known.Role.IsAdmin() {
		return failInsufficientPrivilege()
	}

	identity, err := c.client.SignInWithPassword(ctx, email, input.Password)
	if err != nil {
		switch {
		case types.IsInvalidCredentials(err):
			return failInvalidPassword()
		case types.IsRateLimited(err):
			return failRateLimited()
		default:
			return failAuthFailed(err)
		}
	}
	if identity == nil {
		return c.cleanupAndFail(ctx, failAuthFailed(fmt.Errorf("no user data returned")))
	}

	// The authenticated identity must match the profile row from step one;
	// a mismatch means the profile data raced or went stale.
	if !strings.EqualFold(identity.Email, known.Email) {
		return c.cleanupAndFail(ctx, failVerificationFailed())
	}

	// Re-fetch under the authenticated session; access scope can differ from
	// the pre-auth lookup.
	profile, err := c.profiles.GetByID(ctx, identity.ID)
	if err != nil || profile == nil {
		if err != nil {
			c.logger.Error("sign-in: authenticated profile fetch failed", err, "user_id", identity.ID)
		}
		return c.cleanupAndFail(ctx, failProfileLoadFailed())
	}

	if c.session != nil {
		c.session.CommitSignIn(ctx, *identity, *profile)
	}

	record := types.ActivityRecord{
		AdminID:     identity.ID,
		Kind:        types.ActivityLogin,
		Description: fmt.Sprintf("Admin %s logged in successfully", email),
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		CreatedAt:   now(c.clock),
	}
	logActivity(ctx, c.sink, c.logger, record)
	emitActivityHook(ctx, c.hooks, record)

	if input.Result != nil {
		input.Result.Identity = identity
		input.Result.Profile = profile
	}
	return nil
}

// cleanupAndFail signs out of the backend best-effort before surfacing the
// error; a cleanup failure is logged but never changes the reported error.
func (c *SignInCommand) cleanupAndFail(ctx context.Context, failure error) error {
	if err := c.client.SignOut(ctx); err != nil {
		c.logger.Error("sign-in: session cleanup failed", err)
	}
	return failure
}
