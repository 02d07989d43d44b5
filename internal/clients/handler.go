package clients

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles client HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a clients handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// ClientRequest is the body for POST /clients and PATCH /clients/:id.
type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (req *ClientRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if len(req.Name) > 255 {
		return "name must be at most 255 characters"
	}
	return ""
}

// List handles GET /clients.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), organizations.OrgID(c))
	if err != nil {
		h.logger.Error("list clients", zap.Error(err))
		response.Internal(c, "failed to load clients")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clients/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid client id")
		return
	}
	cl, err := h.repo.GetByID(c.Request.Context(), organizations.OrgID(c), id)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		h.logger.Error("get client", zap.Error(err))
		response.Internal(c, "failed to load client")
		return
	}
	response.OK(c, cl)
}

// Create handles POST /clients.
func (h *Handler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	cl, err := h.repo.Create(c.Request.Context(), organizations.OrgID(c), req.Name, req.Phone, req.Email, req.Notes)
	if err != nil {
		h.logger.Error("create client", zap.Error(err))
		response.Internal(c, "failed to create client")
		return
	}
	response.Created(c, cl)
}

// Update handles PATCH /clients/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid client id")
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	cl, err := h.repo.Update(c.Request.Context(), organizations.OrgID(c), id, req.Name, req.Phone, req.Email, req.Notes)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		h.logger.Error("update client", zap.Error(err))
		response.Internal(c, "failed to update client")
		return
	}
	response.OK(c, cl)
}

// Delete handles DELETE /clients/:id. Deleting a client also removes its
// properties; it is rejected while visit history references them.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid client id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), organizations.OrgID(c), id); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Conflict(c, "client cannot be deleted while visits reference their properties")
		return
	}
	response.NoContent(c)
}
