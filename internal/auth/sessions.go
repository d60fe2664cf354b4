package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the login session
	SessionName = "yatube_session"

	sessionUserIDKey = "user_id"
	sessionMaxAge    = 14 * 24 * 60 * 60
)

// Sessions keeps the logged in user id in a signed cookie
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions creates a cookie session store signed with secret
func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Login starts a session for userID
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionUserIDKey] = userID
	return session.Save(r, w)
}

// Logout expires the session cookie
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, sessionUserIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID returns the user id stored in the request's session
func (s *Sessions) UserID(r *http.Request) (int64, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return 0, false
	}
	userID, ok := session.Values[sessionUserIDKey].(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
