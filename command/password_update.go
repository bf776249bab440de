package command

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

const (
	// MinPasswordLength is enforced locally before any backend call.
	MinPasswordLength = 6
	// SuccessRedirectDelay is how long callers should show the success
	// message before redirecting to sign-in.
	SuccessRedirectDelay = 2 * time.Second
)

// PasswordUpdateInput carries the new-password form payload.
type PasswordUpdateInput struct {
	NewPassword     string
	ConfirmPassword string
	UserAgent       string
	IP              string
	Result          *PasswordUpdateResult
}

// Type implements gocommand.Message.
func (PasswordUpdateInput) Type() string {
	return "command.auth.password_update"
}

// Validate implements gocommand.Message. Both precondition failures are part
// of the workflow taxonomy, not plain validation errors, so callers render
// them like any other form failure.
func (input PasswordUpdateInput) Validate() error {
	if input.NewPassword != input.ConfirmPassword {
		return failPasswordMismatch()
	}
	if len(input.NewPassword) < MinPasswordLength {
		return failPasswordTooShort()
	}
	return nil
}

// PasswordUpdateResult signals success and the redirect delay to honor.
type PasswordUpdateResult struct {
	RedirectDelay time.Duration
}

// PasswordUpdateCommandConfig holds password-update dependencies.
type PasswordUpdateCommandConfig struct {
	Client   types.SessionClient
	Activity types.ActivitySink
	Hooks    types.Hooks
	Clock    types.Clock
	Logger   types.Logger
}

// PasswordUpdateCommand submits the new password against the active
// (recovered) session.
type PasswordUpdateCommand struct {
	client types.SessionClient
	sink   types.ActivitySink
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
}

// NewPasswordUpdateCommand constructs the password-update handler.
func NewPasswordUpdateCommand(cfg PasswordUpdateCommandConfig) *PasswordUpdateCommand {
	return &PasswordUpdateCommand{
		client: cfg.Client,
		sink:   safeActivitySink(cfg.Activity),
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[PasswordUpdateInput] = (*PasswordUpdateCommand)(nil)

// Execute validates locally, updates through the backend, and appends a
// password_reset audit entry on success.
func (c *PasswordUpdateCommand) Execute(ctx context.Context, input PasswordUpdateInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}
	if err := input.Validate(); err != nil {
		return err
	}

	if err := c.client.UpdatePassword(ctx, input.NewPassword); err != nil {
		if types.IsExpired(err) {
			return failLinkExpired(err)
		}
		return failUpdate(err)
	}

	adminID := uuid.Nil
	if identity, err := c.client.CurrentSession(ctx); err == nil && identity != nil {
		adminID = identity.ID
	}
	record := types.ActivityRecord{
		AdminID:     adminID,
		Kind:        types.ActivityPasswordReset,
		Description: "Password updated via recovery link",
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		CreatedAt:   now(c.clock),
	}
	logActivity(ctx, c.sink, c.logger, record)
	emitActivityHook(ctx, c.hooks, record)

	if input.Result != nil {
		input.Result.RedirectDelay = SuccessRedirectDelay
	}
	return nil
}
