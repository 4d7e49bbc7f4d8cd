package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"migrascore/internal/domain"
)

// mockConsultationRepo implementa el contrato del storage con la misma
// semantica compare-and-swap que la implementacion postgres.
type mockConsultationRepo struct {
	mu            sync.Mutex
	consultations map[string]domain.Consultation
	createErr     error
}

func newMockConsultationRepo() *mockConsultationRepo {
	return &mockConsultationRepo{consultations: make(map[string]domain.Consultation)}
}

func (m *mockConsultationRepo) Create(_ context.Context, c domain.Consultation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consultations[c.ID] = c
	return nil
}

func (m *mockConsultationRepo) GetByID(_ context.Context, id string) (domain.Consultation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.consultations[id]
	if !ok {
		return domain.Consultation{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockConsultationRepo) UpdateStatusIf(_ context.Context, id string, expected, next domain.ConsultationStatus, completedAt *time.Time, paymentRef, cancelReason string) (domain.Consultation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.consultations[id]
	if !ok || c.Status != expected {
		return domain.Consultation{}, pgx.ErrNoRows
	}
	c.Status = next
	if completedAt != nil {
		c.CompletedAt = completedAt
	}
	if paymentRef != "" {
		c.PaymentRef = paymentRef
	}
	if cancelReason != "" {
		c.CancelReason = cancelReason
	}
	m.consultations[id] = c
	return c, nil
}

func newTestService(repo *mockConsultationRepo) *ConsultationService {
	return NewConsultationService(zap.NewNop(), repo, nil, nil, nil)
}

func rawCanadaProfile() domain.RawProfile {
	return domain.RawProfile{
		Age:                 30,
		EducationLevel:      "bachelor",
		YearsOfExperience:   6,
		LanguageProficiency: map[string]any{"en": 9},
		AvailableFunds:      20000,
		TargetCountry:       "Canada",
		VisaType:            "express-entry",
	}
}

func TestCreateReturnsLockedTeaser(t *testing.T) {
	repo := newMockConsultationRepo()
	svc := newTestService(repo)

	teaser, err := svc.Create(context.Background(), "client-1", rawCanadaProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if teaser.Status != domain.StatusLocked {
		t.Fatalf("status = %q; want LOCKED", teaser.Status)
	}
	if teaser.ScoreTier != domain.TierHigh {
		t.Fatalf("score tier = %q; want high", teaser.ScoreTier)
	}

	stored, err := repo.GetByID(context.Background(), teaser.ID)
	if err != nil {
		t.Fatalf("stored record missing: %v", err)
	}
	if stored.CompletedAt != nil {
		t.Fatalf("completed_at must be nil at creation")
	}
	if stored.Breakdown.TotalScore != 95 {
		t.Fatalf("breakdown total = %d; want 95", stored.Breakdown.TotalScore)
	}
	if stored.RecommendationText == "" || len(stored.NextSteps) == 0 {
		t.Fatalf("recommendation must be composed at creation")
	}
}

func TestCreateStorageFailure(t *testing.T) {
	repo := newMockConsultationRepo()
	repo.createErr = errors.New("db down")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "client-1", rawCanadaProfile())
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestReadForClientGating(t *testing.T) {
	repo := newMockConsultationRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	teaser, err := svc.Create(ctx, "client-1", rawCanadaProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("locked exposes only the teaser", func(t *testing.T) {
		view, err := svc.ReadForClient(ctx, teaser.ID, "client-1")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got, ok := view.(domain.TeaserView)
		if !ok {
			t.Fatalf("locked view = %T; want TeaserView", view)
		}
		if got.ScoreTier == "" || got.Status != domain.StatusLocked {
			t.Fatalf("unexpected teaser %+v", got)
		}
	})

	t.Run("other client denied", func(t *testing.T) {
		_, err := svc.ReadForClient(ctx, teaser.ID, "client-2")
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("unknown id not found", func(t *testing.T) {
		_, err := svc.ReadForClient(ctx, "missing", "client-1")
		if !errors.Is(err, ErrConsultationNotFound) {
			t.Fatalf("expected ErrConsultationNotFound, got %v", err)
		}
	})

	t.Run("completed exposes the full record", func(t *testing.T) {
		if _, err := svc.Unlock(ctx, teaser.ID, "pay-1", "idem-1"); err != nil {
			t.Fatalf("unlock: %v", err)
		}
		view, err := svc.ReadForClient(ctx, teaser.ID, "client-1")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		full, ok := view.(domain.FullView)
		if !ok {
			t.Fatalf("completed view = %T; want FullView", view)
		}
		if full.Score != 95 || full.CompletedAt == nil || full.RecommendationText == "" {
			t.Fatalf("incomplete full view %+v", full)
		}
	})
}

func TestUnlockIdempotent(t *testing.T) {
	repo := newMockConsultationRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	teaser, err := svc.Create(ctx, "client-1", rawCanadaProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Unlock(ctx, teaser.ID, "pay-1", "idem-1")
	if err != nil {
		t.Fatalf("first unlock: %v", err)
	}
	if first.Status != domain.StatusCompleted || first.CompletedAt == nil {
		t.Fatalf("unexpected record after unlock %+v", first)
	}

	second, err := svc.Unlock(ctx, teaser.ID, "pay-1", "idem-1")
	if err != nil {
		t.Fatalf("repeat unlock must not fail: %v", err)
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("completed_at changed on repeat unlock: %v vs %v", second.CompletedAt, first.CompletedAt)
	}
	if second.PaymentRef != first.PaymentRef {
		t.Fatalf("payment_ref changed on repeat unlock")
	}
}

func TestUnlockTerminalStates(t *testing.T) {
	repo := newMockConsultationRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	t.Run("cancelled record fails with terminal error", func(t *testing.T) {
		teaser, _ := svc.Create(ctx, "client-1", rawCanadaProfile())
		if _, err := svc.Cancel(ctx, teaser.ID, "client-1", "changed my mind"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		_, err := svc.Unlock(ctx, teaser.ID, "pay-1", "")
		if !errors.Is(err, ErrTerminalState) {
			t.Fatalf("expected ErrTerminalState, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Unlock(ctx, "missing", "pay-1", "")
		if !errors.Is(err, ErrConsultationNotFound) {
			t.Fatalf("expected ErrConsultationNotFound, got %v", err)
		}
	})
}

func TestCancelTransitions(t *testing.T) {
	repo := newMockConsultationRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	t.Run("cancel after unlock fails", func(t *testing.T) {
		teaser, _ := svc.Create(ctx, "client-1", rawCanadaProfile())
		if _, err := svc.Unlock(ctx, teaser.ID, "pay-1", ""); err != nil {
			t.Fatalf("unlock: %v", err)
		}
		_, err := svc.Cancel(ctx, teaser.ID, "client-1", "late regret")
		if !errors.Is(err, ErrTerminalState) {
			t.Fatalf("expected ErrTerminalState, got %v", err)
		}
	})

	t.Run("repeat cancel is a no-op", func(t *testing.T) {
		teaser, _ := svc.Create(ctx, "client-1", rawCanadaProfile())
		first, err := svc.Cancel(ctx, teaser.ID, "client-1", "reason one")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		second, err := svc.Cancel(ctx, teaser.ID, "client-1", "reason two")
		if err != nil {
			t.Fatalf("repeat cancel must not fail: %v", err)
		}
		if second.CancelReason != first.CancelReason {
			t.Fatalf("cancel reason rewritten on repeat: %q vs %q", second.CancelReason, first.CancelReason)
		}
	})

	t.Run("other client cannot cancel", func(t *testing.T) {
		teaser, _ := svc.Create(ctx, "client-1", rawCanadaProfile())
		_, err := svc.Cancel(ctx, teaser.ID, "client-2", "not yours")
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
	})
}

func TestUnlockConcurrentRace(t *testing.T) {
	repo := newMockConsultationRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	teaser, err := svc.Create(ctx, "client-1", rawCanadaProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 8
	results := make([]domain.Consultation, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Unlock(ctx, teaser.ID, "pay-race", "")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i].Status != domain.StatusCompleted || results[i].CompletedAt == nil {
			t.Fatalf("worker %d: record not completed %+v", i, results[i])
		}
		if !results[i].CompletedAt.Equal(*results[0].CompletedAt) {
			t.Fatalf("completed_at differs between workers: %v vs %v", results[i].CompletedAt, results[0].CompletedAt)
		}
	}
}

func TestCreateRateLimited(t *testing.T) {
	repo := newMockConsultationRepo()
	limiter := NewCreateRateLimiter(time.Minute, 2)
	svc := NewConsultationService(zap.NewNop(), repo, nil, nil, limiter)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, "client-1", rawCanadaProfile()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	_, err := svc.Create(ctx, "client-1", rawCanadaProfile())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if _, err := svc.Create(ctx, "client-2", rawCanadaProfile()); err != nil {
		t.Fatalf("other client must not be limited: %v", err)
	}
}
