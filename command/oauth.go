package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-adminauth/pkg/types"
)

// DefaultOAuthCallbackPath is appended to the redirect base for OAuth flows.
const DefaultOAuthCallbackPath = "/auth/callback"

// OAuthSignInInput starts an OAuth redirect for a provider.
type OAuthSignInInput struct {
	Provider string
	// Origin is the observed browser origin; it wins over the configured
	// base URL when building the callback target.
	Origin string
}

// Type implements gocommand.Message.
func (OAuthSignInInput) Type() string {
	return "command.auth.oauth_sign_in"
}

// Validate implements gocommand.Message.
func (input OAuthSignInInput) Validate() error {
	if strings.TrimSpace(input.Provider) == "" {
		return ErrProviderRequired
	}
	return nil
}

// OAuthSignInCommandConfig holds OAuth dependencies.
type OAuthSignInCommandConfig struct {
	Client       types.SessionClient
	BaseURL      string
	CallbackPath string
	Logger       types.Logger
}

// OAuthSignInCommand initiates the backend's external OAuth redirect. Session
// establishment completes later through the session-change notification, not
// through this command.
type OAuthSignInCommand struct {
	client       types.SessionClient
	baseURL      string
	callbackPath string
	logger       types.Logger
}

// NewOAuthSignInCommand constructs the OAuth handler.
func NewOAuthSignInCommand(cfg OAuthSignInCommandConfig) *OAuthSignInCommand {
	path := strings.TrimSpace(cfg.CallbackPath)
	if path == "" {
		path = DefaultOAuthCallbackPath
	}
	return &OAuthSignInCommand{
		client:       cfg.Client,
		baseURL:      cfg.BaseURL,
		callbackPath: path,
		logger:       safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[OAuthSignInInput] = (*OAuthSignInCommand)(nil)

// Execute asks the backend to start the provider redirect.
func (c *OAuthSignInCommand) Execute(ctx context.Context, input OAuthSignInInput) error {
	if c.client == nil {
		return types.ErrMissingSessionClient
	}
	if err := input.Validate(); err != nil {
		return err
	}
	redirect := resolveRedirectBase(input.Origin, c.baseURL) + c.callbackPath
	if err := c.client.SignInWithOAuth(ctx, input.Provider, redirect); err != nil {
		c.logger.Error("oauth: provider redirect failed", err, "provider", input.Provider)
		return failAuthFailed(err)
	}
	return nil
}
