package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	revenue decimal.Decimal
	direct  decimal.Decimal
	general decimal.Decimal
	payouts []PartnerPayoutSummary

	gotStart, gotEnd time.Time
}

func (f *fakeStore) VisitTotals(_ context.Context, _ uuid.UUID, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	f.gotStart, f.gotEnd = start, end
	return f.revenue, f.direct, nil
}

func (f *fakeStore) GeneralExpensesTotal(context.Context, uuid.UUID, time.Time, time.Time) (decimal.Decimal, error) {
	return f.general, nil
}

func (f *fakeStore) PayoutTotalsByWorker(context.Context, uuid.UUID, time.Time, time.Time) ([]PartnerPayoutSummary, error) {
	return f.payouts, nil
}

func TestMonthlySummaryTotals(t *testing.T) {
	store := &fakeStore{
		revenue: dec("2500"),
		direct:  dec("300"),
		general: dec("125"),
		payouts: []PartnerPayoutSummary{
			{WorkerID: uuid.New(), WorkerName: "Ana", TotalAmount: dec("300")},
			{WorkerID: uuid.New(), WorkerName: "Beto", TotalAmount: dec("450")},
		},
	}

	result, err := NewService(store).MonthlySummary(context.Background(), uuid.New(), 3, 2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !result.Summary.NetMargin.Equal(dec("2075")) {
		t.Fatalf("got net margin %s, want 2075", result.Summary.NetMargin)
	}
	if !result.Summary.TotalRevenue.Equal(dec("2500")) ||
		!result.Summary.TotalDirectExpenses.Equal(dec("300")) ||
		!result.Summary.TotalGeneralExpenses.Equal(dec("125")) {
		t.Fatalf("unexpected totals: %+v", result.Summary)
	}
	if result.Payouts[0].WorkerName != "Beto" || result.Payouts[1].WorkerName != "Ana" {
		t.Fatalf("payouts not sorted by amount descending: %+v", result.Payouts)
	}
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	store := &fakeStore{
		revenue: decimal.Zero,
		direct:  decimal.Zero,
		general: decimal.Zero,
	}
	result, err := NewService(store).MonthlySummary(context.Background(), uuid.New(), 1, 2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !result.Summary.NetMargin.IsZero() {
		t.Fatalf("got net margin %s, want 0", result.Summary.NetMargin)
	}
	if result.Payouts == nil || len(result.Payouts) != 0 {
		t.Fatalf("got payouts %v, want empty non-nil slice", result.Payouts)
	}
}

func TestMonthlySummaryInvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := NewService(&fakeStore{}).MonthlySummary(context.Background(), uuid.New(), month, 2026)
		if !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %d: got %v, want ErrInvalidMonth", month, err)
		}
	}
}

func TestMonthRangeBoundaries(t *testing.T) {
	cases := []struct {
		month, year int
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{1, 2026, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{12, 2025, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{2, 2024, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		start, end, err := MonthRange(tc.month, tc.year)
		if err != nil {
			t.Fatalf("%d/%d: %v", tc.month, tc.year, err)
		}
		if !start.Equal(tc.wantStart) || !end.Equal(tc.wantEnd) {
			t.Fatalf("%d/%d: got [%s, %s), want [%s, %s)", tc.month, tc.year, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestMonthlySummaryUsesMonthRange(t *testing.T) {
	store := &fakeStore{revenue: decimal.Zero, direct: decimal.Zero, general: decimal.Zero}
	if _, err := NewService(store).MonthlySummary(context.Background(), uuid.New(), 7, 2026); err != nil {
		t.Fatalf("summary: %v", err)
	}
	wantStart := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !store.gotStart.Equal(wantStart) || !store.gotEnd.Equal(wantEnd) {
		t.Fatalf("store queried with [%s, %s), want [%s, %s)", store.gotStart, store.gotEnd, wantStart, wantEnd)
	}
}
