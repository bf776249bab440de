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

// DefaultRecoveryPath is the application route recovery links point at.
const DefaultRecoveryPath = "/reset-password"

// PasswordResetRequestInput asks the backend to email a recovery link.
type PasswordResetRequestInput struct {
	Email string
	// Origin is the observed browser origin, preferred over the configured
	// base URL when building the redirect target.
	Origin    string
	UserAgent string
	IP        string
}

// Type implements gocommand.Message.
func (PasswordResetRequestInput) Type() string {
	return "command.auth.password_reset.request"
}

// Validate implements gocommand.Message.
func (input PasswordResetRequestInput) Validate() error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// PasswordResetRequestCommandConfig holds reset-request dependencies.
type PasswordResetRequestCommandConfig struct {
	Client       types.SessionClient
	Activity     types.ActivitySink
	Gate         featuregate.FeatureGate
	Hooks        types.Hooks
	Clock        types.Clock
	Logger       types.Logger
	BaseURL      string
	RecoveryPath string
}

// PasswordResetRequestCommand issues recovery emails through the backend.
// Success never reveals whether the email belongs to a registered account.
type PasswordResetRequestCommand struct {
	client       types.SessionClient
	sink         types.ActivitySink
	gate         featuregate.FeatureGate
	hooks        types.Hooks
	clock        types.Clock
	logger       types.Logger
	baseURL      string
	recoveryPath string
}

// NewPasswordResetRequestCommand constructs the reset-request handler.
func NewPasswordResetRequestCommand(cfg PasswordResetRequestCommandConfig) *PasswordResetRequestCommand {
	path := strings.TrimSpace(cfg.RecoveryPath)
	if path == "" {
		path = DefaultRecoveryPath
	}
	return &PasswordResetRequestCommand{
		client:       cfg.Client,
		sink:         safeActivitySink(cfg.Activity),
		gate:         cfg.Gate,
		hooks:        safeHooks(cfg.Hooks),
		clock:        safeClock(cfg.Clock),
		logger:       safeLogger(cfg.Logger),
		baseURL:      cfg.BaseURL,
		recoveryPath: path,
	}
}

var _ gocommand.Commander[PasswordResetRequestInput] = (*PasswordResetRequestCommand)(nil)

// Execute requests the recovery email and best-effort logs the request. The
// audit entry carries a nil admin id when no session exists.
func (c *PasswordResetRequestCommand) Execute(ctx context.Context, input PasswordResetRequestInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if enabled, err := featureEnabled(ctx, c.gate, featurePasswordReset, uuid.Nil); err != nil {
		return err
	} else if !enabled {
		return ErrPasswordResetDisabled
	}
	email := normalizeEmail(input.Email)

	redirect := resolveRedirectBase(input.Origin, c.baseURL) + c.recoveryPath
	if err := c.client.RequestPasswordReset(ctx, email, redirect); err != nil {
		return failResetRequest(err)
	}

	adminID := uuid.Nil
	if identity, err := c.client.CurrentSession(ctx); err == nil && identity != nil {
		adminID = identity.ID
	}
	record := types.ActivityRecord{
		AdminID:     adminID,
		Kind:        types.ActivityPasswordReset,
		Description: fmt.Sprintf("Password reset requested for: %s", email),
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		CreatedAt:   now(c.clock),
	}
	logActivity(ctx, c.sink, c.logger, record)
	emitActivityHook(ctx, c.hooks, record)
	return nil
}
