package finance

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidMonth is returned for a month outside 1-12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// MonthlySummary is the scalar part of the monthly report.
type MonthlySummary struct {
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalDirectExpenses  decimal.Decimal `json:"total_direct_expenses"`
	TotalGeneralExpenses decimal.Decimal `json:"total_general_expenses"`
	NetMargin            decimal.Decimal `json:"net_margin"`
}

// PartnerPayoutSummary is one worker's payout total for the month.
type PartnerPayoutSummary struct {
	WorkerID    uuid.UUID       `json:"worker_id"`
	WorkerName  string          `json:"worker_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MonthlyResult bundles the summary with the per-worker distribution.
type MonthlyResult struct {
	Summary MonthlySummary         `json:"summary"`
	Payouts []PartnerPayoutSummary `json:"payouts"`
}

// Store aggregates committed rows for the monthly summary. All queries take
// a half-open [start, end) range and are scoped by organization.
type Store interface {
	VisitTotals(ctx context.Context, orgID uuid.UUID, start, end time.Time) (revenue, direct decimal.Decimal, err error)
	GeneralExpensesTotal(ctx context.Context, orgID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
	PayoutTotalsByWorker(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]PartnerPayoutSummary, error)
}

// Service computes monthly financial summaries. Pure read path: it may be
// called arbitrarily often and never writes.
type Service struct {
	store Store
}

// NewService creates a finance service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// MonthRange returns the half-open UTC range covering the calendar month.
// Month is 1-12.
func MonthRange(month, year int) (start, end time.Time, err error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// MonthlySummary aggregates completed visits, general expenses and payouts
// for the calendar month. Each total is computed independently; payouts are
// returned sorted by descending amount, largest earner first.
func (s *Service) MonthlySummary(ctx context.Context, orgID uuid.UUID, month, year int) (*MonthlyResult, error) {
	start, end, err := MonthRange(month, year)
	if err != nil {
		return nil, err
	}

	revenue, direct, err := s.store.VisitTotals(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}
	general, err := s.store.GeneralExpensesTotal(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}
	payouts, err := s.store.PayoutTotalsByWorker(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(payouts, func(i, j int) bool {
		return payouts[i].TotalAmount.GreaterThan(payouts[j].TotalAmount)
	})
	if payouts == nil {
		payouts = []PartnerPayoutSummary{}
	}

	return &MonthlyResult{
		Summary: MonthlySummary{
			TotalRevenue:         revenue,
			TotalDirectExpenses:  direct,
			TotalGeneralExpenses: general,
			NetMargin:            revenue.Sub(direct).Sub(general),
		},
		Payouts: payouts,
	}, nil
}
