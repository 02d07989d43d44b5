package inventory

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles tool and supply HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an inventory handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// ToolRequest is the body for POST /tools and PATCH /tools/:id. Status
// defaults to ok.
type ToolRequest struct {
	Name   string `json:"name" binding:"required"`
	Brand  string `json:"brand"`
	Status string `json:"status"`
}

func (req *ToolRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Status == "" {
		req.Status = models.ToolStatusOK
	}
	if !models.ValidToolStatus(req.Status) {
		return "status must be one of ok, service, broken"
	}
	return ""
}

// ListTools handles GET /tools.
func (h *Handler) ListTools(c *gin.Context) {
	list, err := h.repo.ListTools(c.Request.Context(), organizations.OrgID(c))
	if err != nil {
		h.logger.Error("list tools", zap.Error(err))
		response.Internal(c, "failed to load tools")
		return
	}
	if list == nil {
		list = []models.Tool{}
	}
	response.OK(c, list)
}

// CreateTool handles POST /tools.
func (h *Handler) CreateTool(c *gin.Context) {
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	t, err := h.repo.CreateTool(c.Request.Context(), organizations.OrgID(c), req.Name, req.Brand, req.Status)
	if err != nil {
		h.logger.Error("create tool", zap.Error(err))
		response.Internal(c, "failed to create tool")
		return
	}
	response.Created(c, t)
}

// UpdateTool handles PATCH /tools/:id.
func (h *Handler) UpdateTool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tool id")
		return
	}
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	t, err := h.repo.UpdateTool(c.Request.Context(), organizations.OrgID(c), id, req.Name, req.Brand, req.Status)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			response.NotFound(c, "tool not found")
			return
		}
		h.logger.Error("update tool", zap.Error(err))
		response.Internal(c, "failed to update tool")
		return
	}
	response.OK(c, t)
}

// DeleteTool handles DELETE /tools/:id.
func (h *Handler) DeleteTool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tool id")
		return
	}
	if err := h.repo.DeleteTool(c.Request.Context(), organizations.OrgID(c), id); err != nil {
		if errors.Is(err, ErrToolNotFound) {
			response.NotFound(c, "tool not found")
			return
		}
		h.logger.Error("delete tool", zap.Error(err))
		response.Internal(c, "failed to delete tool")
		return
	}
	response.NoContent(c)
}

// SupplyRequest is the body for POST /supplies and PATCH /supplies/:id.
type SupplyRequest struct {
	Name         string `json:"name" binding:"required"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	Unit         string `json:"unit" binding:"required"`
}

func (req *SupplyRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if req.Name == "" {
		return "name is required"
	}
	if req.Unit == "" {
		return "unit is required"
	}
	if req.CurrentStock < 0 || req.MinStock < 0 {
		return "stock values must not be negative"
	}
	return ""
}

// ListSupplies handles GET /supplies.
func (h *Handler) ListSupplies(c *gin.Context) {
	list, err := h.repo.ListSupplies(c.Request.Context(), organizations.OrgID(c))
	if err != nil {
		h.logger.Error("list supplies", zap.Error(err))
		response.Internal(c, "failed to load supplies")
		return
	}
	if list == nil {
		list = []models.Supply{}
	}
	response.OK(c, list)
}

// CreateSupply handles POST /supplies.
func (h *Handler) CreateSupply(c *gin.Context) {
	var req SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	s, err := h.repo.CreateSupply(c.Request.Context(), organizations.OrgID(c),
		req.Name, req.CurrentStock, req.MinStock, req.Unit)
	if err != nil {
		h.logger.Error("create supply", zap.Error(err))
		response.Internal(c, "failed to create supply")
		return
	}
	response.Created(c, s)
}

// UpdateSupply handles PATCH /supplies/:id.
func (h *Handler) UpdateSupply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supply id")
		return
	}
	var req SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	s, err := h.repo.UpdateSupply(c.Request.Context(), organizations.OrgID(c), id,
		req.Name, req.CurrentStock, req.MinStock, req.Unit)
	if err != nil {
		if errors.Is(err, ErrSupplyNotFound) {
			response.NotFound(c, "supply not found")
			return
		}
		h.logger.Error("update supply", zap.Error(err))
		response.Internal(c, "failed to update supply")
		return
	}
	response.OK(c, s)
}

// AdjustSupplyRequest is the body for POST /supplies/:id/adjust.
type AdjustSupplyRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustSupply handles POST /supplies/:id/adjust. Applies a signed stock
// delta; stock never goes below zero.
func (h *Handler) AdjustSupply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supply id")
		return
	}
	var req AdjustSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "delta is required and must not be zero")
		return
	}
	s, err := h.repo.AdjustSupplyStock(c.Request.Context(), organizations.OrgID(c), id, req.Delta)
	if err != nil {
		if errors.Is(err, ErrSupplyNotFound) {
			response.NotFound(c, "supply not found")
			return
		}
		h.logger.Error("adjust supply", zap.Error(err))
		response.Internal(c, "failed to adjust supply stock")
		return
	}
	response.OK(c, s)
}

// DeleteSupply handles DELETE /supplies/:id.
func (h *Handler) DeleteSupply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid supply id")
		return
	}
	if err := h.repo.DeleteSupply(c.Request.Context(), organizations.OrgID(c), id); err != nil {
		if errors.Is(err, ErrSupplyNotFound) {
			response.NotFound(c, "supply not found")
			return
		}
		h.logger.Error("delete supply", zap.Error(err))
		response.Internal(c, "failed to delete supply")
		return
	}
	response.NoContent(c)
}
