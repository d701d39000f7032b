package domain

import (
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

var (
	// ErrEventNotFound indicates the requested audit event does not exist.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "audit event not found")

	// ErrSignatureInvalid indicates an audit event's stored signature does not
	// match its content, meaning the event was modified after it was written.
	ErrSignatureInvalid = errors.New("audit event signature invalid")

	// ErrSigningSecretInvalid indicates the configured integrity secret is
	// missing or too short to derive a signing key from.
	ErrSigningSecretInvalid = errors.Wrap(errors.ErrInvalidInput, "audit signing secret invalid")
)
