package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"migrascore/internal/domain"
	"migrascore/internal/repository"
	"migrascore/internal/scoring"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrTerminalState        = errors.New("consultation in terminal state")
	ErrAccessDenied         = errors.New("access denied")
	ErrRateLimited          = errors.New("rate limited")
	ErrStorage              = errors.New("storage failure")
)

// ConsultationService es la maquina de estados del artefacto pago: crea el
// registro bloqueado, expone solo el teaser mientras no haya pago y aplica el
// desbloqueo idempotente via transicion condicional en el storage.
type ConsultationService struct {
	logger        *zap.Logger
	repo          repository.ConsultationRepository
	registry      *scoring.Registry
	idempotency   IdempotencyStore
	createLimiter CreateRateLimiter
}

func NewConsultationService(
	logger *zap.Logger,
	repo repository.ConsultationRepository,
	registry *scoring.Registry,
	idempotency IdempotencyStore,
	createLimiter CreateRateLimiter,
) *ConsultationService {
	if registry == nil {
		registry = scoring.NewRegistry()
	}
	return &ConsultationService{
		logger:        logger,
		repo:          repo,
		registry:      registry,
		idempotency:   idempotency,
		createLimiter: createLimiter,
	}
}

// Create normaliza, puntua, compone la recomendacion y persiste el registro
// en estado LOCKED. Es el unico lugar donde se construye una Consultation;
// devuelve solo el teaser.
func (s *ConsultationService) Create(ctx context.Context, clientID string, raw domain.RawProfile) (domain.TeaserView, error) {
	if clientID == "" {
		return domain.TeaserView{}, ErrAccessDenied
	}
	if s.createLimiter != nil && !s.createLimiter.Allow(clientID) {
		return domain.TeaserView{}, ErrRateLimited
	}

	profile := scoring.Normalize(raw)
	strategy := s.registry.Resolve(profile.TargetCountry, profile.VisaType)
	breakdown := strategy.Score(profile)
	recommendation := scoring.Compose(breakdown)

	consultation := domain.Consultation{
		ID:                 uuid.NewString(),
		ClientID:           clientID,
		TargetCountry:      profile.TargetCountry,
		VisaType:           profile.VisaType,
		Breakdown:          breakdown,
		RecommendationText: recommendation.Text,
		TimelineEstimate:   recommendation.TimelineEstimate,
		NextSteps:          recommendation.NextSteps,
		Status:             domain.StatusLocked,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, consultation); err != nil {
		s.logger.Error("create consultation failed", zap.Error(err), zap.String("client_id", clientID))
		return domain.TeaserView{}, storageError("create consultation", err)
	}

	s.logger.Info("consultation created",
		zap.String("consultation_id", consultation.ID),
		zap.String("strategy", breakdown.Strategy),
		zap.String("score_tier", domain.TierForScore(breakdown.TotalScore)),
	)
	return consultation.Teaser(), nil
}

// ReadForClient devuelve la vista permitida por el estado actual. El gating
// de campos vive aca, no en los callers: un registro LOCKED jamas expone
// puntaje exacto, breakdown ni textos pagos.
func (s *ConsultationService) ReadForClient(ctx context.Context, id, clientID string) (domain.ConsultationView, error) {
	consultation, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if consultation.ClientID != clientID {
		return nil, ErrAccessDenied
	}

	switch consultation.Status {
	case domain.StatusCompleted:
		return consultation.Full(), nil
	case domain.StatusCancelled:
		return domain.CancelledNotice{
			ID:     consultation.ID,
			Status: consultation.Status,
			Reason: consultation.CancelReason,
		}, nil
	default:
		return consultation.Teaser(), nil
	}
}

// Unlock aplica LOCKED -> COMPLETED de forma condicional e idempotente.
// Un webhook repetido sobre un registro ya COMPLETED devuelve el registro
// existente sin efectos; sobre CANCELLED falla con ErrTerminalState.
func (s *ConsultationService) Unlock(ctx context.Context, id, paymentRef, idempotencyKey string) (domain.Consultation, error) {
	if s.idempotency != nil && idempotencyKey != "" {
		if !s.idempotency.FirstSeen(ctx, idempotencyKey, id) {
			s.logger.Info("payment webhook replay detected",
				zap.String("consultation_id", id),
				zap.String("idempotency_key", idempotencyKey),
			)
		}
	}

	now := time.Now().UTC()
	updated, err := s.repo.UpdateStatusIf(ctx, id, domain.StatusLocked, domain.StatusCompleted, &now, paymentRef, "")
	if err == nil {
		s.logger.Info("consultation unlocked",
			zap.String("consultation_id", id),
			zap.String("payment_ref", paymentRef),
		)
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Consultation{}, storageError("unlock consultation", err)
	}

	// El CAS no encontro fila LOCKED: releer para distinguir los casos.
	// Ambos estados terminales son finales, asi que la relectura no corre
	// contra ninguna otra transicion.
	consultation, err := s.getByID(ctx, id)
	if err != nil {
		return domain.Consultation{}, err
	}
	switch consultation.Status {
	case domain.StatusCompleted:
		return consultation, nil
	case domain.StatusCancelled:
		return domain.Consultation{}, fmt.Errorf("%w: consultation %s is cancelled", ErrTerminalState, id)
	default:
		// Solo alcanzable si el storage viola el contrato del CAS.
		return domain.Consultation{}, storageError("unlock consultation", fmt.Errorf("conditional update missed locked record %s", id))
	}
}

// Cancel aplica LOCKED -> CANCELLED. No-op si ya esta cancelado; falla con
// ErrTerminalState si ya esta completado.
func (s *ConsultationService) Cancel(ctx context.Context, id, clientID, reason string) (domain.Consultation, error) {
	current, err := s.getByID(ctx, id)
	if err != nil {
		return domain.Consultation{}, err
	}
	if current.ClientID != clientID {
		return domain.Consultation{}, ErrAccessDenied
	}

	updated, err := s.repo.UpdateStatusIf(ctx, id, domain.StatusLocked, domain.StatusCancelled, nil, "", reason)
	if err == nil {
		s.logger.Info("consultation cancelled", zap.String("consultation_id", id), zap.String("reason", reason))
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Consultation{}, storageError("cancel consultation", err)
	}

	consultation, err := s.getByID(ctx, id)
	if err != nil {
		return domain.Consultation{}, err
	}
	switch consultation.Status {
	case domain.StatusCancelled:
		return consultation, nil
	case domain.StatusCompleted:
		return domain.Consultation{}, fmt.Errorf("%w: consultation %s is completed", ErrTerminalState, id)
	default:
		return domain.Consultation{}, storageError("cancel consultation", fmt.Errorf("conditional update missed locked record %s", id))
	}
}

func (s *ConsultationService) getByID(ctx context.Context, id string) (domain.Consultation, error) {
	consultation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Consultation{}, ErrConsultationNotFound
		}
		return domain.Consultation{}, storageError("get consultation", err)
	}
	return consultation, nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
