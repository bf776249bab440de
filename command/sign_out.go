package command

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
)

// SignOutInput carries sign-out context for the audit record.
type SignOutInput struct {
	Email     string
	UserAgent string
	IP        string
}

// Type implements gocommand.Message.
func (SignOutInput) Type() string {
	return "command.auth.sign_out"
}

// Validate implements gocommand.Message.
func (SignOutInput) Validate() error { return nil }

// SignOutCommandConfig holds sign-out dependencies.
type SignOutCommandConfig struct {
	Client   types.SessionClient
	Session  SessionWriter
	Activity types.ActivitySink
	Hooks    types.Hooks
	Clock    types.Clock
	Logger   types.Logger
}

// SignOutCommand invalidates the backend session. The local identity is
// cleared first so the UI never sticks on a session whose remote state is
// uncertain.
type SignOutCommand struct {
	client  types.SessionClient
	session SessionWriter
	sink    types.ActivitySink
	hooks   types.Hooks
	clock   types.Clock
	logger  types.Logger
}

// NewSignOutCommand constructs the sign-out handler.
func NewSignOutCommand(cfg SignOutCommandConfig) *SignOutCommand {
	return &SignOutCommand{
		client:  cfg.Client,
		session: cfg.Session,
		sink:    safeActivitySink(cfg.Activity),
		hooks:   safeHooks(cfg.Hooks),
		clock:   safeClock(cfg.Clock),
		logger:  safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[SignOutInput] = (*SignOutCommand)(nil)

// Execute appends the logout audit entry best-effort, clears the local
// session, and invalidates the backend session with a single retry.
func (c *SignOutCommand) Execute(ctx context.Context, input SignOutInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}

	identity, err := c.client.CurrentSession(ctx)
	if err != nil {
		c.logger.Error("sign-out: session lookup failed", err)
	}
	if identity != nil {
		email := input.Email
		if email == "" {
			email = identity.Email
		}
		record := types.ActivityRecord{
			AdminID:     identity.ID,
			Kind:        types.ActivityLogout,
			Description: fmt.Sprintf("Admin %s logged out", email),
			IP:          input.IP,
			UserAgent:   input.UserAgent,
			CreatedAt:   now(c.clock),
		}
		logActivity(ctx, c.sink, c.logger, record)
		emitActivityHook(ctx, c.hooks, record)
	}

	if c.session != nil {
		c.session.ClearLocal(ctx)
	}

	if err := c.client.SignOut(ctx); err != nil {
		c.logger.Error("sign-out: backend invalidation failed, retrying", err)
		if err := c.client.SignOut(ctx); err != nil {
			return failSignOut(err)
		}
	}

	if identity != nil && c.hooks.AfterSignOut != nil {
		c.hooks.AfterSignOut(ctx, *identity)
	}
	return nil
}
