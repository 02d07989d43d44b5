package properties

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles property HTTP endpoints, nested under clients for create
// and list.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a properties handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// PropertyRequest is the body for POST /clients/:id/properties and
// PATCH /properties/:id.
type PropertyRequest struct {
	Address        string `json:"address" binding:"required"`
	GoogleMapsLink string `json:"google_maps_link"`
	FrequencyDays  *int   `json:"frequency_days"`
}

func (req *PropertyRequest) validate() string {
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		return "address is required"
	}
	if req.FrequencyDays != nil && *req.FrequencyDays < 1 {
		return "frequency_days must be at least 1"
	}
	return ""
}

// ListByClient handles GET /clients/:id/properties.
func (h *Handler) ListByClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid client id")
		return
	}
	list, err := h.repo.ListByClient(c.Request.Context(), organizations.OrgID(c), clientID)
	if err != nil {
		h.logger.Error("list properties", zap.Error(err))
		response.Internal(c, "failed to load properties")
		return
	}
	response.OK(c, list)
}

// Create handles POST /clients/:id/properties.
func (h *Handler) Create(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid client id")
		return
	}
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	p, err := h.repo.Create(c.Request.Context(), organizations.OrgID(c), clientID,
		req.Address, req.GoogleMapsLink, req.FrequencyDays)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		h.logger.Error("create property", zap.Error(err))
		response.Internal(c, "failed to create property")
		return
	}
	response.Created(c, p)
}

// Update handles PATCH /properties/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	p, err := h.repo.Update(c.Request.Context(), organizations.OrgID(c), id,
		req.Address, req.GoogleMapsLink, req.FrequencyDays)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(c, "property not found")
			return
		}
		h.logger.Error("update property", zap.Error(err))
		response.Internal(c, "failed to update property")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /properties/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), organizations.OrgID(c), id); err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(c, "property not found")
			return
		}
		response.Conflict(c, "property cannot be deleted while visits reference it")
		return
	}
	response.NoContent(c)
}
