package workers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles worker HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a workers handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// WorkerRequest is the body for POST /workers and PATCH /workers/:id.
// SharePoints is the persisted relative weight used by the profit split;
// it only matters for partners.
type WorkerRequest struct {
	Name        string          `json:"name" binding:"required"`
	IsPartner   bool            `json:"is_partner"`
	DailyWage   decimal.Decimal `json:"daily_wage"`
	SharePoints int             `json:"share_points"`
}

func (req *WorkerRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.DailyWage.IsNegative() {
		return "daily_wage must not be negative"
	}
	if req.SharePoints < 0 {
		return "share_points must not be negative"
	}
	return ""
}

// List handles GET /workers.
func (h *Handler) List(c *gin.Context) {
	orgID := organizations.OrgID(c)
	list, err := h.repo.List(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("list workers", zap.Error(err))
		response.Internal(c, "failed to load workers")
		return
	}
	response.OK(c, list)
}

// Create handles POST /workers.
func (h *Handler) Create(c *gin.Context) {
	orgID := organizations.OrgID(c)
	var req WorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	w, err := h.repo.Create(c.Request.Context(), orgID, req.Name, req.IsPartner, req.DailyWage, req.SharePoints)
	if err != nil {
		h.logger.Error("create worker", zap.Error(err))
		response.Internal(c, "failed to create worker")
		return
	}
	response.Created(c, w)
}

// Update handles PATCH /workers/:id.
func (h *Handler) Update(c *gin.Context) {
	orgID := organizations.OrgID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid worker id")
		return
	}
	var req WorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	w, err := h.repo.Update(c.Request.Context(), orgID, id, req.Name, req.IsPartner, req.DailyWage, req.SharePoints)
	if err != nil {
		response.NotFound(c, "worker not found")
		return
	}
	response.OK(c, w)
}

// Delete handles DELETE /workers/:id.
func (h *Handler) Delete(c *gin.Context) {
	orgID := organizations.OrgID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid worker id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), orgID, id); err != nil {
		response.Conflict(c, "worker cannot be deleted while payouts reference them")
		return
	}
	response.NoContent(c)
}
