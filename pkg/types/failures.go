package types

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes forming the closed failure taxonomy surfaced by the auth
// workflows. Every workflow-level error is a *goerrors.Error tagged with one
// of these so call sites can switch exhaustively.
const (
	TextCodeNotRegistered         = "NOT_REGISTERED"
	TextCodeInsufficientPrivilege = "INSUFFICIENT_PRIVILEGE"
	TextCodeInvalidPassword       = "INVALID_PASSWORD"
	TextCodeRateLimited           = "RATE_LIMITED"
	TextCodeAuthFailed            = "AUTH_FAILED"
	TextCodeVerificationFailed    = "VERIFICATION_FAILED"
	TextCodeProfileLoadFailed     = "PROFILE_LOAD_FAILED"
	TextCodeAccessDenied          = "ACCESS_DENIED"
	TextCodeBackendError          = "BACKEND_ERROR"
	TextCodeSignUpFailed          = "SIGN_UP_FAILED"
	TextCodeProfileCreationFailed = "PROFILE_CREATION_FAILED"
	TextCodeResetRequestFailed    = "RESET_REQUEST_FAILED"
	TextCodeInvalidRecoveryLink   = "INVALID_RECOVERY_LINK"
	TextCodeExpiredRecoveryLink   = "EXPIRED_OR_INVALID_LINK"
	TextCodePasswordMismatch      = "PASSWORD_MISMATCH"
	TextCodePasswordTooShort      = "PASSWORD_TOO_SHORT"
	TextCodeLinkExpired           = "LINK_EXPIRED"
	TextCodeUpdateFailed          = "UPDATE_FAILED"
	TextCodeSignOutFailed         = "SIGN_OUT_FAILED"
)

// FailureCode returns the taxonomy tag carried by a workflow error, or an
// empty string when the error did not originate from these workflows.
func FailureCode(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// NewBackendError tags a boundary decoding or read failure. It is shared by
// the record store decoders so internal logic never observes dynamic shapes.
func NewBackendError(msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryInternal).
		WithCode(goerrors.CodeInternal).
		WithTextCode(TextCodeBackendError)
}

// WrapBackendError tags an underlying backend failure as a generic backend
// error while preserving the cause.
func WrapBackendError(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithCode(goerrors.CodeInternal).
		WithTextCode(TextCodeBackendError)
}
