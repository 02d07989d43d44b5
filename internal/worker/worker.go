package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/queue"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/storage"
)

// ReportProcessor processes monthly report export jobs: aggregate the month,
// render the workbook, upload to S3, update the export row.
type ReportProcessor struct {
	service *finance.Service
	repo    *finance.Repository
	s3      *storage.S3
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewReportProcessor creates a report export processor.
func NewReportProcessor(service *finance.Service, repo *finance.Repository, s3 *storage.S3, q *queue.Queue, logger *zap.Logger) *ReportProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportProcessor{service: service, repo: repo, s3: s3, queue: q, logger: logger}
}

// Process executes one report export job.
func (p *ReportProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeReportExport {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ReportExportPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	export, err := p.repo.GetExport(ctx, payload.OrganizationID, payload.ExportID)
	if err != nil {
		return fmt.Errorf("export not found: %s", payload.ExportID)
	}
	if export.Status == models.ReportStatusCompleted {
		p.logger.Info("export already completed", zap.String("export_id", export.ID.String()))
		return nil
	}

	result, err := p.service.MonthlySummary(ctx, payload.OrganizationID, payload.Month, payload.Year)
	if err != nil {
		return fmt.Errorf("monthly summary: %w", err)
	}
	workbook, err := finance.BuildMonthlyWorkbook(result, payload.Month, payload.Year)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}

	key := storage.ReportKey(payload.OrganizationID.String(), payload.ExportID.String())
	if err := p.s3.UploadReport(ctx, key, bytes.NewReader(workbook)); err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}

	if err := p.repo.MarkExportCompleted(ctx, payload.ExportID, key); err != nil {
		p.logger.Error("mark export completed failed", zap.Error(err), zap.String("export_id", payload.ExportID.String()))
		return fmt.Errorf("update db: %w", err)
	}

	p.logger.Info("report export completed",
		zap.String("export_id", payload.ExportID.String()), zap.String("s3_key", key))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error. Jobs that
// exhaust their retries are flagged failed on the export row and parked in
// the DLQ.
func (p *ReportProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("report worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			p.failJob(ctx, job)
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}

// failJob retries the job or, on the last attempt, marks the export failed.
func (p *ReportProcessor) failJob(ctx context.Context, job *queue.Job) {
	if job.Attempt+1 >= queue.MaxRetries {
		var payload queue.ReportExportPayload
		if err := json.Unmarshal(job.Payload, &payload); err == nil {
			if err := p.repo.MarkExportFailed(ctx, payload.ExportID); err != nil {
				p.logger.Error("mark export failed errored", zap.Error(err),
					zap.String("export_id", payload.ExportID.String()))
			}
		}
	}
	if err := p.queue.Retry(ctx, job); err != nil {
		p.logger.Error("retry enqueue failed", zap.Error(err))
	}
}
