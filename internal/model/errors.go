package model

import "errors"

var (
	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Session errors
	ErrSessionExpired   = errors.New("session expired")
	ErrRefreshFailed    = errors.New("refresh failed")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Token errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Transport errors
	ErrNetworkFailure = errors.New("network failure")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
