package command

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

const (
	featureSignup        = "adminauth.signup"
	featurePasswordReset = "adminauth.password_reset"
)

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, userID uuid.UUID) (bool, error) {
	if gate == nil {
		return true, nil
	}
	if userID == uuid.Nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeChain(featuregate.ScopeChain{
		{Kind: featuregate.ScopeSystem},
		{Kind: featuregate.ScopeUser, ID: userID.String()},
	}))
}
