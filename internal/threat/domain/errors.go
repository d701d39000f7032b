package domain

import (
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

var (
	// ErrNotBlacklisted indicates a clear request for an actor that has no
	// blacklist entry.
	ErrNotBlacklisted = errors.Wrap(errors.ErrNotFound, "actor not blacklisted")
)
