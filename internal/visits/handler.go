package visits

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles visit HTTP endpoints.
type Handler struct {
	repo    *Repository
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a visits handler.
func NewHandler(repo *Repository, service *Service, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, service: service, logger: logger}
}

// CreateVisitRequest is the body for POST /visits.
type CreateVisitRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Date       string    `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string    `json:"time" binding:"required"` // HH:MM
	Notes      string    `json:"notes"`
}

// CompleteVisitRequest is the body for POST /visits/:id/complete and
// /visits/:id/preview-split (notes ignored for preview).
type CompleteVisitRequest struct {
	TotalPrice     decimal.Decimal `json:"total_price"`
	DirectExpenses decimal.Decimal `json:"direct_expenses"`
	Attendees      []uuid.UUID     `json:"attendees" binding:"required"`
	Notes          string          `json:"notes"`
}

// CompletionResponse returns the persisted breakdown for confirmation
// display.
type CompletionResponse struct {
	VisitID   uuid.UUID       `json:"visit_id"`
	Breakdown []finance.Share `json:"breakdown"`
}

func parseSchedule(date, timeOfDay string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
}

// Create handles POST /visits. Creates a pending visit.
func (h *Handler) Create(c *gin.Context) {
	orgID := organizations.OrgID(c)
	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scheduled, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD and time HH:MM")
		return
	}
	v, err := h.repo.Create(c.Request.Context(), orgID, req.PropertyID, scheduled, req.Notes)
	if err != nil {
		h.logger.Error("create visit", zap.Error(err))
		response.Internal(c, "failed to create visit")
		return
	}
	response.Created(c, v)
}

// List handles GET /visits?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) List(c *gin.Context) {
	orgID := organizations.OrgID(c)
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		response.BadRequest(c, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		response.BadRequest(c, "end must be YYYY-MM-DD")
		return
	}
	end = end.Add(24*time.Hour - time.Second)

	list, err := h.repo.ListByDateRange(c.Request.Context(), orgID, start, end)
	if err != nil {
		h.logger.Error("list visits", zap.Error(err))
		response.Internal(c, "failed to load visits")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /visits/:id. Reschedules a pending visit.
func (h *Handler) Update(c *gin.Context) {
	orgID := organizations.OrgID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid visit id")
		return
	}
	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scheduled, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD and time HH:MM")
		return
	}
	v, err := h.repo.UpdateSchedule(c.Request.Context(), orgID, id, req.PropertyID, scheduled, req.Notes)
	if err != nil {
		if errors.Is(err, ErrVisitNotPending) {
			response.Conflict(c, "only pending visits can be rescheduled")
			return
		}
		h.logger.Error("update visit", zap.Error(err))
		response.Internal(c, "failed to update visit")
		return
	}
	response.OK(c, v)
}

// Cancel handles POST /visits/:id/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	orgID := organizations.OrgID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid visit id")
		return
	}
	if err := h.repo.Cancel(c.Request.Context(), orgID, id); err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			response.NotFound(c, "visit not found")
			return
		}
		if errors.Is(err, ErrVisitNotPending) {
			response.Conflict(c, "only pending visits can be canceled")
			return
		}
		h.logger.Error("cancel visit", zap.Error(err))
		response.Internal(c, "failed to cancel visit")
		return
	}
	response.NoContent(c)
}

// Complete handles POST /visits/:id/complete. Marks the visit completed
// and records partner payouts in one atomic operation.
func (h *Handler) Complete(c *gin.Context) {
	orgID := organizations.OrgID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid visit id")
		return
	}
	var req CompleteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	shares, err := h.service.CompleteVisit(c.Request.Context(), orgID, id, CompletionInput{
		TotalPrice:     req.TotalPrice,
		DirectExpenses: req.DirectExpenses,
		Attendees:      req.Attendees,
		Notes:          req.Notes,
	})
	if err != nil {
		h.renderCompletionError(c, err)
		return
	}
	response.OK(c, CompletionResponse{VisitID: id, Breakdown: shares})
}

// PreviewSplit handles POST /visits/:id/preview-split. Read-only; returns
// the same numbers Complete would persist.
func (h *Handler) PreviewSplit(c *gin.Context) {
	orgID := organizations.OrgID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid visit id")
		return
	}
	var req CompleteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	shares, err := h.service.PreviewSplit(c.Request.Context(), orgID, id, CompletionInput{
		TotalPrice:     req.TotalPrice,
		DirectExpenses: req.DirectExpenses,
		Attendees:      req.Attendees,
	})
	if err != nil {
		h.renderCompletionError(c, err)
		return
	}
	response.OK(c, CompletionResponse{VisitID: id, Breakdown: shares})
}

func (h *Handler) renderCompletionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoAttendees), errors.Is(err, ErrNegativeAmount):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrUnknownWorker):
		response.Forbidden(c, "one or more attendees are not workers of this organization")
	case errors.Is(err, ErrVisitNotFound):
		response.NotFound(c, "visit not found")
	case errors.Is(err, ErrVisitNotPending):
		response.Conflict(c, "this visit may already be completed")
	default:
		h.logger.Error("complete visit", zap.Error(err))
		response.Internal(c, "failed to secure the financial records for this visit")
	}
}
