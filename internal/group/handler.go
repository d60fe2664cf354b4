package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fkhayef/yatube/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new group handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// List handles GET /groups/
// @Summary      List groups
// @Description  All groups ordered by title
// @Tags         groups
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list groups", zap.Error(err))
		response.InternalError(w, "Failed to list groups")
		return
	}

	resp := make([]*GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, g.ToResponse())
	}

	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{Total: len(resp)})
}
