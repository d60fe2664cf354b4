package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fkhayef/yatube/internal/auth"
	"github.com/fkhayef/yatube/pkg/response"
	"github.com/fkhayef/yatube/pkg/validation"
)

// Handler handles the signup, login and logout endpoints
type Handler struct {
	service  *Service
	sessions *auth.Sessions
	tokens   *auth.Tokens
	logger   *zap.Logger
}

// NewHandler creates a new auth handler with its dependencies injected
func NewHandler(service *Service, sessions *auth.Sessions, tokens *auth.Tokens, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// Routes returns the router for auth endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/signup/", h.SignupForm)
	r.Post("/signup/", h.Signup)
	r.Get("/login/", h.LoginForm)
	r.Post("/login/", h.Login)
	r.Get("/logout/", h.Logout)
	r.Post("/logout/", h.Logout)
	r.Post("/token/", h.Token)

	return r
}

// SignupForm handles GET /auth/signup/
func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, &FormResponse{Form: map[string]string{"username": "", "email": ""}})
}

// Signup handles POST /auth/signup/
// @Summary      Sign up
// @Description  Create an account and start a session
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        email formData string false "Email"
// @Param        password formData string true "Password"
// @Success      302 {string} string "Redirect"
// @Success      200 {object} response.APIResponse{data=FormResponse}
// @Router       /auth/signup/ [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form body")
		return
	}

	req := &SignupRequest{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			response.JSON(w, http.StatusOK, &FormResponse{
				Form:   map[string]string{"username": req.Username, "email": req.Email},
				Errors: errs,
			})
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		response.InternalError(w, "Failed to create user")
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.logger.Error("failed to save session", zap.Int64("user_id", user.ID), zap.Error(err))
		response.InternalError(w, "Failed to start session")
		return
	}

	h.logger.Info("user signed up", zap.String("username", user.Username))
	response.Redirect(w, r, "/")
}

// LoginForm handles GET /auth/login/
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, &FormResponse{
		Form: map[string]string{"username": ""},
		Next: SafeNext(r.URL.Query().Get("next")),
	})
}

// Login handles POST /auth/login/
// @Summary      Log in
// @Description  Start a session and redirect to next
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Param        next formData string false "Local path to continue to"
// @Success      302 {string} string "Redirect"
// @Success      200 {object} response.APIResponse{data=FormResponse}
// @Router       /auth/login/ [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form body")
		return
	}

	req := &LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		Next:     r.Form.Get("next"),
	}
	next := SafeNext(req.Next)

	invalid := func(errs validation.Errors) {
		response.JSON(w, http.StatusOK, &FormResponse{
			Form:   map[string]string{"username": req.Username},
			Errors: errs,
			Next:   next,
		})
	}

	if errs := validation.Struct(req); errs != nil {
		invalid(errs)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			invalid(validation.Errors{"__all__": {err.Error()}})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(w, "Failed to log in")
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.logger.Error("failed to save session", zap.Int64("user_id", user.ID), zap.Error(err))
		response.InternalError(w, "Failed to start session")
		return
	}

	if next == "" {
		next = "/"
	}
	response.Redirect(w, r, next)
}

// Logout handles GET and POST /auth/logout/
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	response.Redirect(w, r, "/")
}

// Token handles POST /auth/token/
// @Summary      Issue API token
// @Description  Exchange credentials for a bearer token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Success      200 {object} response.APIResponse{data=TokenResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/token/ [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		h.logger.Error("token authentication failed", zap.Error(err))
		response.InternalError(w, "Failed to issue token")
		return
	}

	token, expiresAt, err := h.tokens.Issue(&auth.Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		response.InternalError(w, "Failed to issue token")
		return
	}

	response.JSON(w, http.StatusOK, newTokenResponse(token, expiresAt))
}

// SafeNext returns next when it is a local path and "" otherwise
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	return next
}
