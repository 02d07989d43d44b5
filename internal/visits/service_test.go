package visits

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/models"
)

type fakeWorkerStore struct {
	workers []models.Worker
}

func (f *fakeWorkerStore) GetByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]models.Worker, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Worker
	for _, w := range f.workers {
		if want[w.ID] {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeVisitStore struct {
	mu        sync.Mutex
	err       error
	completed bool
	calls     []CompleteParams
}

func (f *fakeVisitStore) Complete(_ context.Context, p CompleteParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.completed {
		return ErrVisitNotPending
	}
	f.completed = true
	f.calls = append(f.calls, p)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) VisitCompleted(context.Context, uuid.UUID, decimal.Decimal, []finance.Share) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func testWorkers() (partnerA, partnerB, helper models.Worker) {
	partnerA = models.Worker{ID: uuid.New(), Name: "Ana", IsPartner: true, SharePoints: 60}
	partnerB = models.Worker{ID: uuid.New(), Name: "Beto", IsPartner: true, SharePoints: 40}
	helper = models.Worker{ID: uuid.New(), Name: "Carla", IsPartner: false}
	return
}

func TestPreviewMatchesCompletion(t *testing.T) {
	a, b, helper := testWorkers()
	workers := &fakeWorkerStore{workers: []models.Worker{a, b, helper}}
	orgID, visitID := uuid.New(), uuid.New()

	in := CompletionInput{
		TotalPrice:     mustDec(t, "1000.01"),
		DirectExpenses: mustDec(t, "99.99"),
		Attendees:      []uuid.UUID{a.ID, b.ID, helper.ID},
	}

	preview, err := NewService(&fakeVisitStore{}, workers, nil, nil).PreviewSplit(context.Background(), orgID, visitID, in)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	store := &fakeVisitStore{}
	committed, err := NewService(store, workers, nil, nil).CompleteVisit(context.Background(), orgID, visitID, in)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if len(preview) != len(committed) {
		t.Fatalf("preview has %d shares, completion %d", len(preview), len(committed))
	}
	for i := range preview {
		if preview[i].WorkerID != committed[i].WorkerID ||
			!preview[i].Amount.Equal(committed[i].Amount) ||
			!preview[i].Percentage.Equal(committed[i].Percentage) {
			t.Fatalf("share %d differs between preview and completion: %+v vs %+v", i, preview[i], committed[i])
		}
	}
	if len(store.calls) != 1 {
		t.Fatalf("got %d store calls, want 1", len(store.calls))
	}
	if len(store.calls[0].Shares) != 2 {
		t.Fatalf("got %d persisted payouts, want 2 (helper is not a partner)", len(store.calls[0].Shares))
	}
}

func TestCompleteVisitValidation(t *testing.T) {
	a, _, _ := testWorkers()
	workers := &fakeWorkerStore{workers: []models.Worker{a}}
	svc := NewService(&fakeVisitStore{}, workers, nil, nil)

	cases := []struct {
		name string
		in   CompletionInput
		want error
	}{
		{"no attendees", CompletionInput{TotalPrice: mustDec(t, "100")}, ErrNoAttendees},
		{"negative price", CompletionInput{TotalPrice: mustDec(t, "-1"), Attendees: []uuid.UUID{a.ID}}, ErrNegativeAmount},
		{"negative expenses", CompletionInput{TotalPrice: mustDec(t, "100"), DirectExpenses: mustDec(t, "-5"), Attendees: []uuid.UUID{a.ID}}, ErrNegativeAmount},
		{"unknown attendee", CompletionInput{TotalPrice: mustDec(t, "100"), Attendees: []uuid.UUID{uuid.New()}}, ErrUnknownWorker},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CompleteVisit(context.Background(), uuid.New(), uuid.New(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCompleteVisitNoPartnersStillCompletes(t *testing.T) {
	_, _, helper := testWorkers()
	workers := &fakeWorkerStore{workers: []models.Worker{helper}}
	store := &fakeVisitStore{}

	shares, err := NewService(store, workers, nil, nil).CompleteVisit(context.Background(), uuid.New(), uuid.New(), CompletionInput{
		TotalPrice: mustDec(t, "500"),
		Attendees:  []uuid.UUID{helper.ID},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(shares) != 0 {
		t.Fatalf("got %d shares, want 0", len(shares))
	}
	if !store.completed {
		t.Fatal("visit was not completed")
	}
}

func TestCompleteVisitStoreFailure(t *testing.T) {
	a, b, _ := testWorkers()
	workers := &fakeWorkerStore{workers: []models.Worker{a, b}}
	store := &fakeVisitStore{err: errors.New("connection reset")}
	notifier := &fakeNotifier{}

	_, err := NewService(store, workers, notifier, nil).CompleteVisit(context.Background(), uuid.New(), uuid.New(), CompletionInput{
		TotalPrice: mustDec(t, "800"),
		Attendees:  []uuid.UUID{a.ID, b.ID},
	})
	if err == nil {
		t.Fatal("expected error from store failure")
	}
	if len(store.calls) != 0 {
		t.Fatalf("got %d recorded completions, want 0", len(store.calls))
	}
	if notifier.calls != 0 {
		t.Fatalf("notifier called %d times on failure, want 0", notifier.calls)
	}
}

func TestCompleteVisitConcurrent(t *testing.T) {
	a, b, _ := testWorkers()
	workers := &fakeWorkerStore{workers: []models.Worker{a, b}}
	store := &fakeVisitStore{}
	svc := NewService(store, workers, nil, nil)
	orgID, visitID := uuid.New(), uuid.New()

	in := CompletionInput{
		TotalPrice: mustDec(t, "1000"),
		Attendees:  []uuid.UUID{a.ID, b.ID},
	}

	const n = 16
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CompleteVisit(context.Background(), orgID, visitID, in)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrVisitNotPending):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("got %d successful completions, want exactly 1", successes)
	}
	if conflicts != n-1 {
		t.Fatalf("got %d conflicts, want %d", conflicts, n-1)
	}
	if len(store.calls) != 1 {
		t.Fatalf("got %d persisted completions, want 1", len(store.calls))
	}
}

func TestCompleteVisitNotifies(t *testing.T) {
	a, b, _ := testWorkers()
	workers := &fakeWorkerStore{workers: []models.Worker{a, b}}
	notifier := &fakeNotifier{}

	_, err := NewService(&fakeVisitStore{}, workers, notifier, nil).CompleteVisit(context.Background(), uuid.New(), uuid.New(), CompletionInput{
		TotalPrice: mustDec(t, "300"),
		Attendees:  []uuid.UUID{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.calls)
	}
}
