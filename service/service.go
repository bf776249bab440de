package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-adminauth/activity"
	"github.com/goliatone/go-adminauth/command"
	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/goliatone/go-adminauth/profile"
	"github.com/goliatone/go-adminauth/query"
	"github.com/goliatone/go-adminauth/session"
)

// Service is the entry point for go-adminauth. It wires the backend client,
// stores, session holder, and command/query facades supplied by the host
// application.
type Service struct {
	cfg          Config
	commands     Commands
	queries      Queries
	holder       *session.Holder
	profiles     types.ProfileStore
	activitySink types.ActivitySink
	activityRepo types.ActivityRepository
}

// Commands exposes the auth workflow handlers.
type Commands struct {
	SignIn               *command.SignInCommand
	SignUp               *command.SignUpCommand
	SignOut              *command.SignOutCommand
	OAuthSignIn          *command.OAuthSignInCommand
	PasswordResetRequest *command.PasswordResetRequestCommand
	RecoverSession       *command.RecoverSessionCommand
	PasswordUpdate       *command.PasswordUpdateCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ActivityFeed  *query.ActivityFeedQuery
	ActivityStats *query.ActivityStatsQuery
	ProfileDetail *query.ProfileQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (backend client, bun-backed stores, hooks, etc.). Records is the
// fallback: when Profiles or Activity are nil the service derives remote
// implementations over it.
type Config struct {
	Client             types.SessionClient
	Records            types.RecordStore
	Profiles           types.ProfileStore
	Activity           types.ActivitySink
	ActivityRepository types.ActivityRepository
	Gate               featuregate.FeatureGate
	Hooks              types.Hooks
	Clock              types.Clock
	IDGenerator        types.IDGenerator
	Logger             types.Logger
	// BaseURL is the configured application origin used for redirect links
	// when no request origin is available.
	BaseURL      string
	RecoveryPath string
	CallbackPath string
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)

	profiles := norm.Profiles
	if profiles == nil && norm.Records != nil {
		profiles = profile.NewRemoteStore(norm.Records, norm.Clock)
	}
	sink := norm.Activity
	if sink == nil && norm.Records != nil {
		sink = activity.NewRemoteSink(norm.Records, norm.Clock, norm.IDGenerator)
	}
	actRepo := norm.ActivityRepository
	if actRepo == nil {
		if sinkRepo, ok := sink.(types.ActivityRepository); ok {
			actRepo = sinkRepo
		}
	}

	s := &Service{
		cfg:          norm,
		profiles:     profiles,
		activitySink: sink,
		activityRepo: actRepo,
	}
	s.holder = session.NewHolder(session.Config{
		Client:   norm.Client,
		Profiles: profiles,
		Hooks:    norm.Hooks,
		Logger:   norm.Logger,
	})
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return cfg
}

// Start subscribes to backend session notifications and resolves the initial
// session. Call once after New; Close releases the subscription.
func (s *Service) Start(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	return s.holder.Start(ctx)
}

// Close releases the session-change subscription.
func (s *Service) Close() {
	if s != nil && s.holder != nil {
		s.holder.Close()
	}
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Session returns the observable session holder.
func (s *Service) Session() *session.Holder {
	if s == nil {
		return nil
	}
	return s.holder
}

// ActivitySink returns the configured sink so hosts can emit their own
// activity records alongside the auth workflows.
func (s *Service) ActivitySink() types.ActivitySink {
	if s == nil {
		return nil
	}
	return s.activitySink
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.Client != nil &&
		s.profiles != nil
}

// HealthCheck surfaces missing configuration to upstream transports.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.cfg.Client == nil {
		return types.ErrMissingSessionClient
	}
	if s.profiles == nil {
		return types.ErrMissingProfileStore
	}
	return nil
}

func (s *Service) buildCommands() Commands {
	return Commands{
		SignIn: command.NewSignInCommand(command.SignInCommandConfig{
			Client:   s.cfg.Client,
			Profiles: s.profiles,
			Session:  s.holder,
			Activity: s.activitySink,
			Hooks:    s.cfg.Hooks,
			Clock:    s.cfg.Clock,
			Logger:   s.cfg.Logger,
		}),
		SignUp: command.NewSignUpCommand(command.SignUpCommandConfig{
			Client:   s.cfg.Client,
			Profiles: s.profiles,
			Activity: s.activitySink,
			Gate:     s.cfg.Gate,
			Hooks:    s.cfg.Hooks,
			Clock:    s.cfg.Clock,
			Logger:   s.cfg.Logger,
		}),
		SignOut: command.NewSignOutCommand(command.SignOutCommandConfig{
			Client:   s.cfg.Client,
			Session:  s.holder,
			Activity: s.activitySink,
			Hooks:    s.cfg.Hooks,
			Clock:    s.cfg.Clock,
			Logger:   s.cfg.Logger,
		}),
		OAuthSignIn: command.NewOAuthSignInCommand(command.OAuthSignInCommandConfig{
			Client:       s.cfg.Client,
			BaseURL:      s.cfg.BaseURL,
			CallbackPath: s.cfg.CallbackPath,
			Logger:       s.cfg.Logger,
		}),
		PasswordResetRequest: command.NewPasswordResetRequestCommand(command.PasswordResetRequestCommandConfig{
			Client:       s.cfg.Client,
			Activity:     s.activitySink,
			Gate:         s.cfg.Gate,
			Hooks:        s.cfg.Hooks,
			Clock:        s.cfg.Clock,
			Logger:       s.cfg.Logger,
			BaseURL:      s.cfg.BaseURL,
			RecoveryPath: s.cfg.RecoveryPath,
		}),
		RecoverSession: command.NewRecoverSessionCommand(command.RecoverSessionCommandConfig{
			Client: s.cfg.Client,
			Logger: s.cfg.Logger,
		}),
		PasswordUpdate: command.NewPasswordUpdateCommand(command.PasswordUpdateCommandConfig{
			Client:   s.cfg.Client,
			Activity: s.activitySink,
			Hooks:    s.cfg.Hooks,
			Clock:    s.cfg.Clock,
			Logger:   s.cfg.Logger,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		ActivityFeed:  query.NewActivityFeedQuery(s.activityRepo),
		ActivityStats: query.NewActivityStatsQuery(s.activityRepo),
		ProfileDetail: query.NewProfileQuery(s.profiles),
	}
}
