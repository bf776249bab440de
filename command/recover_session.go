package command

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/goliatone/go-adminauth/recoverylink"
)

// RecoverSessionInput carries the full recovery-page URL, query string and
// fragment included.
type RecoverSessionInput struct {
	URL    string
	Result *RecoverSessionResult
}

// Type implements gocommand.Message.
func (RecoverSessionInput) Type() string {
	return "command.auth.recover_session"
}

// Validate implements gocommand.Message.
func (input RecoverSessionInput) Validate() error {
	if strings.TrimSpace(input.URL) == "" {
		return ErrRecoveryURLRequired
	}
	return nil
}

// RecoverSessionResult reports how the session was established and the URL
// the caller should rewrite the address bar to.
type RecoverSessionResult struct {
	Kind     recoverylink.Kind
	CleanURL string
}

// RecoverSessionCommandConfig holds recovery dependencies.
type RecoverSessionCommandConfig struct {
	Client types.SessionClient
	Logger types.Logger
}

// RecoverSessionCommand establishes a temporary recovery session from a
// password-reset link. Exactly one strategy is attempted per invocation: the
// first one the link's parameters match.
type RecoverSessionCommand struct {
	client types.SessionClient
	logger types.Logger
}

// NewRecoverSessionCommand constructs the recovery handler.
func NewRecoverSessionCommand(cfg RecoverSessionCommandConfig) *RecoverSessionCommand {
	return &RecoverSessionCommand{
		client: cfg.Client,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[RecoverSessionInput] = (*RecoverSessionCommand)(nil)

// Execute parses the link, runs the matched strategy against the backend,
// and reports the cleaned URL so recovery tokens never stay navigable. The
// established session stays active.
func (c *RecoverSessionCommand) Execute(ctx context.Context, input RecoverSessionInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}
	if err := input.Validate(); err != nil {
		return err
	}

	creds, err := recoverylink.Parse(input.URL)
	if err != nil {
		if errors.Is(err, recoverylink.ErrNoRecoveryParams) {
			return failInvalidRecoveryLink()
		}
		return failExpiredRecoveryLink(err)
	}

	switch creds.Kind {
	case recoverylink.KindCode:
		err = c.client.ExchangeCode(ctx, creds.Code)
	case recoverylink.KindTokenPair:
		err = c.client.SetSessionFromTokens(ctx, creds.AccessToken, creds.RefreshToken)
	case recoverylink.KindOneTimeToken:
		err = c.client.VerifyRecoveryToken(ctx, recoverylink.TypeRecovery, creds.Token, creds.Email)
	default:
		return failInvalidRecoveryLink()
	}
	if err != nil {
		c.logger.Error("recovery: session establishment failed", err, "kind", string(creds.Kind))
		return failExpiredRecoveryLink(err)
	}

	clean, err := recoverylink.Strip(input.URL)
	if err != nil {
		// The session is live; a strip failure only affects the address bar.
		c.logger.Error("recovery: url cleanup failed", err)
		clean = ""
	}
	if input.Result != nil {
		input.Result.Kind = creds.Kind
		input.Result.CleanURL = clean
	}
	return nil
}
