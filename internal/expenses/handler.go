package expenses

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// Handler handles general expense HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an expenses handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// ExpenseRequest is the body for POST /expenses. Date defaults to today when
// omitted, format 2006-01-02.
type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// Create handles POST /expenses.
func (h *Handler) Create(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		response.BadRequest(c, "amount must be positive")
		return
	}
	if !models.ValidExpenseCategory(req.Category) {
		response.BadRequest(c, "category must be one of fuel, equipment, maintenance, other")
		return
	}
	date := time.Now().UTC()
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			response.BadRequest(c, "date must be formatted as 2006-01-02")
			return
		}
	}
	e, err := h.repo.Create(c.Request.Context(), organizations.OrgID(c),
		req.Amount, req.Category, date, req.Description)
	if err != nil {
		h.logger.Error("create expense", zap.Error(err))
		response.Internal(c, "failed to create expense")
		return
	}
	response.Created(c, e)
}

// List handles GET /expenses?month=&year=. Defaults to the current UTC month.
func (h *Handler) List(c *gin.Context) {
	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()
	var err error
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			response.BadRequest(c, "month must be a number")
			return
		}
	}
	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			response.BadRequest(c, "year must be a number")
			return
		}
	}
	start, end, err := finance.MonthRange(month, year)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	list, err := h.repo.ListByDateRange(c.Request.Context(), organizations.OrgID(c), start, end)
	if err != nil {
		h.logger.Error("list expenses", zap.Error(err))
		response.Internal(c, "failed to load expenses")
		return
	}
	if list == nil {
		list = []models.Expense{}
	}
	response.OK(c, list)
}

// Delete handles DELETE /expenses/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid expense id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), organizations.OrgID(c), id); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(c, "expense not found")
			return
		}
		h.logger.Error("delete expense", zap.Error(err))
		response.Internal(c, "failed to delete expense")
		return
	}
	response.NoContent(c)
}
