package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("email and password are required")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrSecondFactorTimeout  = errors.New("timed out waiting for second factor code")
	ErrSecondFactorRejected = errors.New("second factor code rejected")
	ErrInvalidSecret        = errors.New("totp secret is not valid base32")
	ErrUnknownEnumValue     = errors.New("unknown enumeration value")
	ErrSessionExpired       = errors.New("session expired")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrSecretNotFound       = errors.New("secret not found")
)
