package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fkhayef/yatube/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T) (http.Handler, *MockStore, *auth.Sessions) {
	t.Helper()
	store := new(MockStore)
	sessions := auth.NewSessions(testSecret, false)
	h := NewHandler(newService(store, bcrypt.MinCost), sessions, auth.NewTokens(testSecret, time.Hour), zap.NewNop())
	return h.Routes(), store, sessions
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Login_RedirectsToNext(t *testing.T) {
	router, store, sessions := newTestHandler(t)
	store.On("GetByUsername", mock.Anything, "auth").
		Return(&User{ID: 9, Username: "auth", PasswordHash: hashed(t, "right-pass")}, nil)

	w := postForm(router, "/login/", url.Values{
		"username": {"auth"},
		"password": {"right-pass"},
		"next":     {"/create/"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create/", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	userID, ok := sessions.UserID(r)
	require.True(t, ok)
	assert.Equal(t, int64(9), userID)
}

func TestHandler_Login_IgnoresForeignNext(t *testing.T) {
	router, store, _ := newTestHandler(t)
	store.On("GetByUsername", mock.Anything, "auth").
		Return(&User{ID: 9, Username: "auth", PasswordHash: hashed(t, "right-pass")}, nil)

	w := postForm(router, "/login/", url.Values{
		"username": {"auth"},
		"password": {"right-pass"},
		"next":     {"//evil.example/"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestHandler_Login_BadCredentialsRerendersForm(t *testing.T) {
	router, store, _ := newTestHandler(t)
	store.On("GetByUsername", mock.Anything, "auth").
		Return(&User{ID: 9, Username: "auth", PasswordHash: hashed(t, "right-pass")}, nil)

	w := postForm(router, "/login/", url.Values{"username": {"auth"}, "password": {"nope"}})

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data FormResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "auth", body.Data.Form["username"])
	assert.Contains(t, body.Data.Errors, "__all__")
	assert.Empty(t, w.Result().Cookies())
}

func TestHandler_Signup(t *testing.T) {
	router, store, _ := newTestHandler(t)
	store.On("Create", mock.Anything, "newbie", "", mock.Anything).
		Return(&User{ID: 4, Username: "newbie"}, nil)

	w := postForm(router, "/signup/", url.Values{"username": {"newbie"}, "password": {"long-enough"}})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestHandler_Token(t *testing.T) {
	router, store, _ := newTestHandler(t)
	store.On("GetByUsername", mock.Anything, "auth").
		Return(&User{ID: 9, Username: "auth", PasswordHash: hashed(t, "right-pass")}, nil)

	w := postForm(router, "/token/", url.Values{"username": {"auth"}, "password": {"right-pass"}})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	userID, err := auth.NewTokens(testSecret, time.Hour).Verify(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), userID)

	w = postForm(router, "/token/", url.Values{"username": {"auth"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Logout(t *testing.T) {
	router, _, sessions := newTestHandler(t)

	login := httptest.NewRecorder()
	require.NoError(t, sessions.Login(login, httptest.NewRequest(http.MethodPost, "/", nil), 1))

	req := httptest.NewRequest(http.MethodGet, "/logout/", nil).WithContext(context.Background())
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/posts/1/edit/", SafeNext("/posts/1/edit/"))
	assert.Equal(t, "", SafeNext("https://evil.example/"))
	assert.Equal(t, "", SafeNext("//evil.example/"))
	assert.Equal(t, "", SafeNext(`/\evil.example`))
	assert.Equal(t, "", SafeNext(""))
}
