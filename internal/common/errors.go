// Package common defines shared constants and sentinel errors used across
// the vault server, its transport and the operator CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorStorage       = errors.New("db error")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorMissingOwner = errors.New("missing owner id")
	ErrorValidation   = errors.New("validation error")

	// Cipher errors.
	ErrorDecode              = errors.New("malformed sealed value")
	ErrorEncryptionKeyNotSet = errors.New("encryption key not set")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
