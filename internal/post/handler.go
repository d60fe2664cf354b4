package post

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fkhayef/yatube/pkg/middleware"
	"github.com/fkhayef/yatube/pkg/response"
)

// Handler serves the post views over HTTP
type Handler struct {
	views  *Views
	logger *zap.Logger
}

// NewHandler creates a new post handler with its views injected
func NewHandler(views *Views, logger *zap.Logger) *Handler {
	return &Handler{views: views, logger: logger}
}

// Routes returns the router for the post pages
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Get("/group/{slug}/", h.GroupPosts)
	r.Get("/profile/{username}/", h.Profile)
	r.Get("/posts/{id}/", h.Detail)

	r.Get("/create/", h.Create)
	r.Post("/create/", h.Create)
	r.Get("/posts/{id}/edit/", h.Edit)
	r.Post("/posts/{id}/edit/", h.Edit)

	return r
}

// Index handles GET /
// @Summary      Feed
// @Description  All posts, newest first, 10 per page
// @Tags         posts
// @Produce      json
// @Param        page query int false "Page number"
// @Success      200 {object} response.APIResponse{data=IndexData}
// @Router       / [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.views.Index)
}

// GroupPosts handles GET /group/{slug}/
// @Summary      Group feed
// @Description  Posts filed under a group, newest first
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Group slug"
// @Param        page query int false "Page number"
// @Success      200 {object} response.APIResponse{data=GroupData}
// @Failure      404 {object} response.APIResponse
// @Router       /group/{slug}/ [get]
func (h *Handler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	h.serve(w, r, func(ctx context.Context, req *Request) (*Result, error) {
		return h.views.GroupPosts(ctx, req, slug)
	})
}

// Profile handles GET /profile/{username}/
// @Summary      Author profile
// @Description  Posts written by a user and their post count
// @Tags         posts
// @Produce      json
// @Param        username path string true "Username"
// @Param        page query int false "Page number"
// @Success      200 {object} response.APIResponse{data=ProfileData}
// @Failure      404 {object} response.APIResponse
// @Router       /profile/{username}/ [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	h.serve(w, r, func(ctx context.Context, req *Request) (*Result, error) {
		return h.views.Profile(ctx, req, username)
	})
}

// Detail handles GET /posts/{id}/
// @Summary      Post detail
// @Tags         posts
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200 {object} response.APIResponse{data=DetailData}
// @Failure      404 {object} response.APIResponse
// @Router       /posts/{id}/ [get]
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	h.serve(w, r, func(ctx context.Context, req *Request) (*Result, error) {
		return h.views.Detail(ctx, req, id)
	})
}

// Create handles GET and POST /create/
// @Summary      Create post
// @Description  Anonymous users are redirected to the login page
// @Tags         posts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        text formData string true "Post text"
// @Param        group formData int false "Group ID"
// @Success      302 {string} string "Redirect"
// @Success      200 {object} response.APIResponse{data=FormData}
// @Security     BearerAuth
// @Router       /create/ [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.views.Create)
}

// Edit handles GET and POST /posts/{id}/edit/
// @Summary      Edit post
// @Description  Only the author may edit; anyone else is redirected to the post
// @Tags         posts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id path int true "Post ID"
// @Param        text formData string true "Post text"
// @Param        group formData int false "Group ID"
// @Success      302 {string} string "Redirect"
// @Success      200 {object} response.APIResponse{data=FormData}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /posts/{id}/edit/ [post]
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	h.serve(w, r, func(ctx context.Context, req *Request) (*Result, error) {
		return h.views.Edit(ctx, req, id)
	})
}

type view func(ctx context.Context, req *Request) (*Result, error)

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, v view) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			response.BadRequest(w, "Invalid form body")
			return
		}
	}

	req := &Request{
		Method: r.Method,
		Path:   r.URL.RequestURI(),
		Page:   r.URL.Query().Get("page"),
		Form:   r.PostForm,
		Viewer: middleware.GetIdentity(r.Context()),
	}

	res, err := v(r.Context(), req)
	if err != nil {
		h.logger.Error("post view failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		response.InternalError(w, "Something went wrong")
		return
	}

	switch {
	case res.Redirect != "":
		response.Redirect(w, r, res.Redirect)
	case res.Status == http.StatusNotFound:
		response.NotFound(w, res.Message)
	default:
		response.JSONWithMeta(w, res.Status, res.Data, res.Meta)
	}
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.NotFound(w, "Post not found")
		return 0, false
	}
	return id, true
}
