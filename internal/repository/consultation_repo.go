package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"migrascore/internal/domain"
)

// ConsultationRepository es el contrato minimo que el core exige al storage:
// alta atomica, lectura y transicion condicional de estado.
type ConsultationRepository interface {
	Create(ctx context.Context, c domain.Consultation) error
	GetByID(ctx context.Context, id string) (domain.Consultation, error)
	// UpdateStatusIf aplica la transicion solo si el estado actual coincide
	// con expected (compare-and-swap). Devuelve pgx.ErrNoRows cuando ninguna
	// fila cumple la precondicion.
	UpdateStatusIf(ctx context.Context, id string, expected, next domain.ConsultationStatus, completedAt *time.Time, paymentRef, cancelReason string) (domain.Consultation, error)
}

type PgConsultationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConsultationRepository(pool *pgxpool.Pool) *PgConsultationRepository {
	return &PgConsultationRepository{pool: pool}
}

const consultationColumns = `
	id, client_id, target_country, visa_type, breakdown, recommendation_text,
	timeline_estimate, next_steps, status, payment_ref, cancel_reason,
	created_at, completed_at
`

func (r *PgConsultationRepository) Create(ctx context.Context, c domain.Consultation) error {
	const query = `
		INSERT INTO consultations (
			id, client_id, target_country, visa_type, breakdown,
			recommendation_text, timeline_estimate, next_steps, status,
			payment_ref, cancel_reason, created_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	breakdown, err := json.Marshal(c.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	nextSteps, err := json.Marshal(c.NextSteps)
	if err != nil {
		return fmt.Errorf("marshal next steps: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.ClientID,
		c.TargetCountry,
		c.VisaType,
		breakdown,
		c.RecommendationText,
		c.TimelineEstimate,
		nextSteps,
		c.Status,
		c.PaymentRef,
		c.CancelReason,
		c.CreatedAt,
		c.CompletedAt,
	)
	return err
}

func (r *PgConsultationRepository) GetByID(ctx context.Context, id string) (domain.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1`
	return scanConsultation(r.pool.QueryRow(ctx, query, id))
}

func (r *PgConsultationRepository) UpdateStatusIf(ctx context.Context, id string, expected, next domain.ConsultationStatus, completedAt *time.Time, paymentRef, cancelReason string) (domain.Consultation, error) {
	query := `
		UPDATE consultations
		SET status = $3,
		    completed_at = COALESCE($4, completed_at),
		    payment_ref = CASE WHEN $5 = '' THEN payment_ref ELSE $5 END,
		    cancel_reason = CASE WHEN $6 = '' THEN cancel_reason ELSE $6 END
		WHERE id = $1 AND status = $2
		RETURNING ` + consultationColumns
	return scanConsultation(r.pool.QueryRow(ctx, query, id, expected, next, completedAt, paymentRef, cancelReason))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row rowScanner) (domain.Consultation, error) {
	var (
		c             domain.Consultation
		breakdownJSON []byte
		nextStepsJSON []byte
	)
	err := row.Scan(
		&c.ID,
		&c.ClientID,
		&c.TargetCountry,
		&c.VisaType,
		&breakdownJSON,
		&c.RecommendationText,
		&c.TimelineEstimate,
		&nextStepsJSON,
		&c.Status,
		&c.PaymentRef,
		&c.CancelReason,
		&c.CreatedAt,
		&c.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Consultation{}, err
	}
	if err != nil {
		return domain.Consultation{}, err
	}
	if err := json.Unmarshal(breakdownJSON, &c.Breakdown); err != nil {
		return domain.Consultation{}, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	if len(nextStepsJSON) > 0 {
		if err := json.Unmarshal(nextStepsJSON, &c.NextSteps); err != nil {
			return domain.Consultation{}, fmt.Errorf("unmarshal next steps: %w", err)
		}
	}
	return c, nil
}
