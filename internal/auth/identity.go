// Package auth identifies the user behind a request, either from the
// session cookie set at login or from a bearer token.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for bearer tokens that fail verification
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated user as seen by request handlers
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Is reports whether the identity belongs to userID
func (i *Identity) Is(userID int64) bool {
	return i != nil && i.ID == userID
}

// IdentityLookup resolves a user id to an identity. It returns nil, nil when
// the user no longer exists.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, userID int64) (*Identity, error)
}
