package command

import (
	"context"
	"fmt"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

// SignUpInput carries the self-registration form payload.
type SignUpInput struct {
	Email     string
	Password  string
	FullName  string
	UserAgent string
	IP        string
	Result    *SignUpResult
}

// Type implements gocommand.Message.
func (SignUpInput) Type() string {
	return "command.auth.sign_up"
}

// Validate implements gocommand.Message.
func (input SignUpInput) Validate() error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// SignUpResult exposes the created identity and profile.
type SignUpResult struct {
	Identity *types.Identity
	Profile  *types.Profile
}

// SignUpCommandConfig holds sign-up dependencies.
type SignUpCommandConfig struct {
	Client   types.SessionClient
	Profiles types.ProfileStore
	Activity types.ActivitySink
	Gate     featuregate.FeatureGate
	Hooks    types.Hooks
	Clock    types.Clock
	Logger   types.Logger
}

// SignUpCommand creates a backend identity and its application profile. The
// profile role is always admin; sign-up never grants superadmin.
type SignUpCommand struct {
	client   types.SessionClient
	profiles types.ProfileStore
	sink     types.ActivitySink
	gate     featuregate.FeatureGate
	hooks    types.Hooks
	clock    types.Clock
	logger   types.Logger
}

// NewSignUpCommand constructs the sign-up handler.
func NewSignUpCommand(cfg SignUpCommandConfig) *SignUpCommand {
	return &SignUpCommand{
		client:   cfg.Client,
		profiles: cfg.Profiles,
		sink:     safeActivitySink(cfg.Activity),
		gate:     cfg.Gate,
		hooks:    safeHooks(cfg.Hooks),
		clock:    safeClock(cfg.Clock),
		logger:   safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[SignUpInput] = (*SignUpCommand)(nil)

// Execute creates the identity, then the profile row, then appends an audit
// entry. Profile insertion failure leaves an orphaned identity behind; the
// backend does not expose compensating deletion, so remediation stays a host
// decision and the failure is surfaced as-is.
func (c *SignUpCommand) Execute(ctx context.Context, input SignUpInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}
	if c.profiles == nil {
		return types.ErrMissingProfileStore
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if enabled, err := featureEnabled(ctx, c.gate, featureSignup, uuid.Nil); err != nil {
		return err
	} else if !enabled {
		return ErrSignupDisabled
	}
	email := normalizeEmail(input.Email)

	identity, err := c.client.SignUp(ctx, email, input.Password, map[string]any{
		"full_name": input.FullName,
	})
	if err != nil {
		return failSignUp(err)
	}
	if identity == nil {
		return failSignUp(fmt.Errorf("no user data returned"))
	}

	profile, err := c.profiles.Insert(ctx, types.Profile{
		ID:       identity.ID,
		Email:    email,
		Role:     types.RoleAdmin,
		FullName: input.FullName,
	})
	if err != nil {
		c.logger.Error("sign-up: profile creation failed", err, "user_id", identity.ID)
		return failProfileCreation(err)
	}

	record := types.ActivityRecord{
		AdminID:     identity.ID,
		Kind:        types.ActivityAction,
		Description: fmt.Sprintf("New admin account created: %s", email),
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
