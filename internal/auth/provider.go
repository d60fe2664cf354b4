package auth

import (
	"net/http"
	"strings"
)

// Provider resolves the identity behind a request
type Provider struct {
	sessions *Sessions
	tokens   *Tokens
	lookup   IdentityLookup
}

// NewProvider creates a provider reading bearer tokens first and the session cookie second
func NewProvider(sessions *Sessions, tokens *Tokens, lookup IdentityLookup) *Provider {
	return &Provider{
		sessions: sessions,
		tokens:   tokens,
		lookup:   lookup,
	}
}

// Identify returns the identity of the request's user, or nil for anonymous
// requests. A bad bearer token makes the request anonymous; it is not an error.
func (p *Provider) Identify(r *http.Request) (*Identity, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return nil, nil
		}
		userID, err := p.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			return nil, nil
		}
		return p.lookup.LookupIdentity(r.Context(), userID)
	}

	userID, ok := p.sessions.UserID(r)
	if !ok {
		return nil, nil
	}
	return p.lookup.LookupIdentity(r.Context(), userID)
}
