package finance

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/middleware"
	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/queue"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/storage"
)

// Handler serves the monthly summary and the report export endpoints.
type Handler struct {
	service *Service
	repo    *Repository
	queue   *queue.Queue
	s3      *storage.S3
	logger  *zap.Logger
}

// NewHandler creates a finance handler. Queue and s3 may be nil when the
// async export pipeline is not configured; the export endpoints then return
// 503.
func NewHandler(service *Service, repo *Repository, q *queue.Queue, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{service: service, repo: repo, queue: q, s3: s3, logger: logger}
}

// monthYearParams parses ?month=&year= with the current UTC month as default.
func monthYearParams(c *gin.Context) (month, year int, err error) {
	now := time.Now().UTC()
	month, year = int(now.Month()), now.Year()
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			return 0, 0, errors.New("month must be a number")
		}
	}
	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			return 0, 0, errors.New("year must be a number")
		}
	}
	if month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonth
	}
	if year < 2000 || year > 2100 {
		return 0, 0, errors.New("year out of range")
	}
	return month, year, nil
}

// MonthlySummary handles GET /finance/summary?month=&year=.
func (h *Handler) MonthlySummary(c *gin.Context) {
	month, year, err := monthYearParams(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.MonthlySummary(c.Request.Context(), organizations.OrgID(c), month, year)
	if err != nil {
		h.logger.Error("monthly summary failed", zap.Error(err), zap.Int("month", month), zap.Int("year", year))
		response.Internal(c, "failed to compute monthly summary")
		return
	}
	response.OK(c, result)
}

// Distribution handles GET /finance/distribution?month=&year=. Same data as
// the summary but only the per-worker payout list.
func (h *Handler) Distribution(c *gin.Context) {
	month, year, err := monthYearParams(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.MonthlySummary(c.Request.Context(), organizations.OrgID(c), month, year)
	if err != nil {
		h.logger.Error("distribution failed", zap.Error(err), zap.Int("month", month), zap.Int("year", year))
		response.Internal(c, "failed to compute distribution")
		return
	}
	response.OK(c, gin.H{"month": month, "year": year, "payouts": result.Payouts})
}

// RequestExport handles POST /finance/reports?month=&year=. Creates a pending
// export row and enqueues the job for the background worker.
func (h *Handler) RequestExport(c *gin.Context) {
	if h.queue == nil {
		response.ServiceUnavailable(c, "report exports are not configured")
		return
	}
	month, year, err := monthYearParams(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	export := &models.ReportExport{
		OrganizationID: organizations.OrgID(c),
		Month:          month,
		Year:           year,
		RequestedBy:    c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if err := h.repo.CreateExport(c.Request.Context(), export); err != nil {
		h.logger.Error("create export failed", zap.Error(err))
		response.Internal(c, "failed to create report export")
		return
	}
	err = h.queue.EnqueueReportExport(c.Request.Context(), queue.ReportExportPayload{
		ExportID:       export.ID,
		OrganizationID: export.OrganizationID,
		Month:          month,
		Year:           year,
	})
	if err != nil {
		h.logger.Error("enqueue export failed", zap.Error(err), zap.String("export_id", export.ID.String()))
		if markErr := h.repo.MarkExportFailed(c.Request.Context(), export.ID); markErr != nil {
			h.logger.Error("mark export failed errored", zap.Error(markErr))
		}
		response.Internal(c, "failed to enqueue report export")
		return
	}
	response.Created(c, export)
}

// exportResponse is the status payload for one export, with a download URL
// once the workbook is ready.
type exportResponse struct {
	*models.ReportExport
	DownloadURL string `json:"download_url,omitempty"`
}

// GetExport handles GET /finance/reports/:id. Completed exports include a
// pre-signed download URL.
func (h *Handler) GetExport(c *gin.Context) {
	exportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}
	export, err := h.repo.GetExport(c.Request.Context(), organizations.OrgID(c), exportID)
	if err != nil {
		if errors.Is(err, ErrExportNotFound) {
			response.NotFound(c, "report export not found")
			return
		}
		h.logger.Error("get export failed", zap.Error(err))
		response.Internal(c, "failed to load report export")
		return
	}
	resp := exportResponse{ReportExport: export}
	if export.Status == models.ReportStatusCompleted && export.S3Key != "" && h.s3 != nil {
		url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), export.S3Key)
		if err != nil {
			h.logger.Error("presign download failed", zap.Error(err), zap.String("export_id", export.ID.String()))
		} else {
			resp.DownloadURL = url
		}
	}
	response.OK(c, resp)
}
