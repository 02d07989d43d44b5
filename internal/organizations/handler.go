package organizations

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SebastianTorreiro/jardineria-crm/internal/middleware"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateOrganizationRequest is the body for POST /organizations.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /organizations. Creates the org and adds the current
// user as owner atomically.
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	var body CreateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if len(body.Name) < 1 || len(body.Name) > 255 {
		response.BadRequest(c, "name must be 1-255 characters")
		return
	}
	org, err := h.repo.CreateWithOwner(c.Request.Context(), body.Name, userID)
	if err != nil {
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// GetMine handles GET /organizations/me. Returns the caller's organization.
func (h *Handler) GetMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	org, err := h.repo.GetForUser(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "no organization found for this account")
		return
	}
	response.OK(c, org)
}
