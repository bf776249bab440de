package command

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-adminauth/pkg/types"
)

var (
	// ErrEmailRequired indicates an email address was not supplied.
	ErrEmailRequired = errors.New("go-adminauth: email required")
	// ErrPasswordRequired indicates a password was not supplied.
	ErrPasswordRequired = errors.New("go-adminauth: password required")
	// ErrProviderRequired indicates an OAuth provider was not supplied.
	ErrProviderRequired = errors.New("go-adminauth: oauth provider required")
	// ErrRecoveryURLRequired indicates the recovery command lacks a URL.
	ErrRecoveryURLRequired = errors.New("go-adminauth: recovery url required")
	// ErrSignupDisabled indicates self-registration is disabled via feature gate.
	ErrSignupDisabled = errors.New("go-adminauth: signup disabled")
	// ErrPasswordResetDisabled indicates password reset is disabled via feature gate.
	ErrPasswordResetDisabled = errors.New("go-adminauth: password reset disabled")
)

// The helpers below build the closed failure taxonomy. Every workflow failure
// is a *goerrors.Error tagged with a types.TextCode* constant; callers switch
// on types.FailureCode.

func failNotRegistered() error {
	return goerrors.New("User is not registered", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(types.TextCodeNotRegistered)
}

func failInsufficientPrivilege() error {
	return goerrors.New("Access denied. Admin privileges required.", goerrors.CategoryAuthz).
		WithCode(goerrors.CodeForbidden).
		WithTextCode(types.TextCodeInsufficientPrivilege)
}

func failInvalidPassword() error {
	return goerrors.New("Invalid password", goerrors.CategoryAuth).
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeInvalidPassword)
}

func failRateLimited() error {
	return goerrors.New("Too many requests. Please try again later.", goerrors.CategoryAuth).
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeRateLimited)
}

func failAuthFailed(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, "Authentication failed").
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeAuthFailed)
}

func failVerificationFailed() error {
	return goerrors.New("Authentication verification failed", goerrors.CategoryAuth).
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeVerificationFailed)
}

func failProfileLoadFailed() error {
	return goerrors.New("Profile load failed", goerrors.CategoryAuth).
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeProfileLoadFailed)
}

func failAccessDenied() error {
	return goerrors.New("Database access denied", goerrors.CategoryAuthz).
		WithCode(goerrors.CodeForbidden).
		WithTextCode(types.TextCodeAccessDenied)
}

func failSignUp(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, "Sign up failed").
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(types.TextCodeSignUpFailed)
}

func failProfileCreation(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "Failed to create user profile").
		WithCode(goerrors.CodeInternal).
		WithTextCode(types.TextCodeProfileCreationFailed)
}

func failResetRequest(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "Password reset failed").
		WithCode(goerrors.CodeInternal).
		WithTextCode(types.TextCodeResetRequestFailed)
}

func failInvalidRecoveryLink() error {
	return goerrors.New("Invalid reset link. Request a new password reset email.", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(types.TextCodeInvalidRecoveryLink)
}

func failExpiredRecoveryLink(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, "Invalid or expired reset link. Please request a new password reset.").
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeExpiredRecoveryLink)
}

func failPasswordMismatch() error {
	return goerrors.New("Passwords do not match", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(types.TextCodePasswordMismatch)
}

func failPasswordTooShort() error {
	return goerrors.New("Password must be at least 6 characters", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(types.TextCodePasswordTooShort)
}

func failLinkExpired(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, "Password reset link has expired. Please request a new one.").
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(types.TextCodeLinkExpired)
}

func failUpdate(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "Failed to update password").
		WithCode(goerrors.CodeInternal).
		WithTextCode(types.TextCodeUpdateFailed)
}

func failSignOut(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "Sign out failed").
		WithCode(goerrors.CodeInternal).
		WithTextCode(types.TextCodeSignOutFailed)
}

func failBackend(err error) error {
	return types.WrapBackendError(err, "Database error occurred")
}
