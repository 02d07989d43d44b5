package visits

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

var (
	// ErrVisitNotFound is returned when the visit does not exist in the
	// caller's organization.
	ErrVisitNotFound = errors.New("visit not found")
	// ErrVisitNotPending is returned when the completion (or cancel)
	// precondition fails: the visit was already completed or canceled,
	// possibly by a concurrent request.
	ErrVisitNotPending = errors.New("visit is not pending")
	// ErrNoAttendees is returned when the attendee list is empty.
	ErrNoAttendees = errors.New("at least one attendee is required")
	// ErrNegativeAmount is returned for negative price or expenses.
	ErrNegativeAmount = errors.New("amounts must not be negative")
	// ErrUnknownWorker is returned when an attendee id does not resolve to
	// a worker in the caller's organization.
	ErrUnknownWorker = errors.New("unknown worker in attendees")
)

// WorkerStore loads workers for attendance resolution. Implementations must
// scope by organization and return workers in a stable order, since the
// last worker in iteration order absorbs the rounding remainder.
type WorkerStore interface {
	GetByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]models.Worker, error)
}

// VisitStore persists completion writes.
type VisitStore interface {
	Complete(ctx context.Context, p CompleteParams) error
}

// Notifier is told about completed visits. Failures must not affect the
// completion result.
type Notifier interface {
	VisitCompleted(ctx context.Context, visitID uuid.UUID, netMargin decimal.Decimal, shares []finance.Share)
}

// Service orchestrates visit completion: resolve attending partners,
// compute the profit split, commit status plus payouts atomically.
type Service struct {
	visits   VisitStore
	workers  WorkerStore
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a visit completion service. notifier may be nil.
func NewService(visits VisitStore, workers WorkerStore, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{visits: visits, workers: workers, notifier: notifier, logger: logger}
}

// CompletionInput is the operator-provided completion data.
type CompletionInput struct {
	TotalPrice     decimal.Decimal
	DirectExpenses decimal.Decimal
	Attendees      []uuid.UUID
	Notes          string
}

func (in CompletionInput) validate() error {
	if len(in.Attendees) == 0 {
		return ErrNoAttendees
	}
	if in.TotalPrice.IsNegative() || in.DirectExpenses.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// resolveShares runs the read-only part shared by preview and completion:
// load attendees, keep partners, feed their share points to the calculator.
// Preview and completion must agree to the cent, so both go through here.
func (s *Service) resolveShares(ctx context.Context, orgID uuid.UUID, in CompletionInput) ([]finance.Share, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	workers, err := s.workers.GetByIDs(ctx, orgID, in.Attendees)
	if err != nil {
		return nil, err
	}
	if len(workers) != len(dedupe(in.Attendees)) {
		return nil, ErrUnknownWorker
	}

	partners := make([]finance.PartnerWeight, 0, len(workers))
	for _, w := range workers {
		if !w.IsPartner {
			continue
		}
		partners = append(partners, finance.PartnerWeight{
			WorkerID: w.ID,
			Name:     w.Name,
			Points:   w.SharePoints,
		})
	}

	netMargin := in.TotalPrice.Sub(in.DirectExpenses)
	return finance.ComputeSplit(netMargin, partners), nil
}

// PreviewSplit computes the breakdown that CompleteVisit would persist for
// the same inputs, without writing anything.
func (s *Service) PreviewSplit(ctx context.Context, orgID, visitID uuid.UUID, in CompletionInput) ([]finance.Share, error) {
	return s.resolveShares(ctx, orgID, in)
}

// CompleteVisit marks the visit completed and records the payout breakdown
// in one atomic store operation. A visit with no eligible partners (or zero
// total share points) still completes, with an empty payout set. On any
// store failure the visit stays pending with no partial effects.
func (s *Service) CompleteVisit(ctx context.Context, orgID, visitID uuid.UUID, in CompletionInput) ([]finance.Share, error) {
	shares, err := s.resolveShares(ctx, orgID, in)
	if err != nil {
		return nil, err
	}

	err = s.visits.Complete(ctx, CompleteParams{
		OrgID:          orgID,
		VisitID:        visitID,
		TotalPrice:     in.TotalPrice,
		DirectExpenses: in.DirectExpenses,
		Notes:          in.Notes,
		Shares:         shares,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("visit completed",
		zap.String("visit_id", visitID.String()),
		zap.String("org_id", orgID.String()),
		zap.Int("payouts", len(shares)),
	)

	if s.notifier != nil {
		s.notifier.VisitCompleted(ctx, visitID, in.TotalPrice.Sub(in.DirectExpenses), shares)
	}
	return shares, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
