package domain

import "time"

// ConsultationStatus es el estado del artefacto pago. Las unicas transiciones
// validas son LOCKED -> COMPLETED y LOCKED -> CANCELLED.
type ConsultationStatus string

const (
	StatusLocked    ConsultationStatus = "LOCKED"
	StatusCompleted ConsultationStatus = "COMPLETED"
	StatusCancelled ConsultationStatus = "CANCELLED"
)

// Terminal indica si el estado ya no admite transiciones.
func (s ConsultationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// FactorScore es el aporte de un factor individual al puntaje crudo.
type FactorScore struct {
	Factor string  `json:"factor"`
	Points float64 `json:"points"`
}

// ScoreBreakdown es el resultado puro de una estrategia de puntaje.
// El set de factores varia por estrategia.
type ScoreBreakdown struct {
	Strategy   string        `json:"strategy"`
	Factors    []FactorScore `json:"factors"`
	RawScore   float64       `json:"raw_score"`
	TotalScore int           `json:"total_score"`
	Blockers   []string      `json:"blockers"`
	Feedback   []string      `json:"feedback"`
	Eligible   bool          `json:"eligible"`
}

// FactorPoints busca el aporte de un factor por nombre.
func (b ScoreBreakdown) FactorPoints(name string) (float64, bool) {
	for _, f := range b.Factors {
		if f.Factor == name {
			return f.Points, true
		}
	}
	return 0, false
}

// Consultation es el registro persistido del pre-analisis. El breakdown y los
// textos derivados se calculan una sola vez al crear; despues solo cambian
// status, payment_ref, cancel_reason y completed_at.
type Consultation struct {
	ID                 string             `json:"id"`
	ClientID           string             `json:"client_id"`
	TargetCountry      string             `json:"target_country"`
	VisaType           string             `json:"visa_type"`
	Breakdown          ScoreBreakdown     `json:"breakdown"`
	RecommendationText string             `json:"recommendation_text"`
	TimelineEstimate   string             `json:"timeline_estimate"`
	NextSteps          []string           `json:"next_steps"`
	Status             ConsultationStatus `json:"status"`
	PaymentRef         string             `json:"payment_ref,omitempty"`
	CancelReason       string             `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
}

const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// TierForScore colapsa el puntaje exacto en un bucket grueso para el teaser.
// Los cortes no coinciden con los umbrales de recomendacion a proposito.
func TierForScore(total int) string {
	switch {
	case total >= 70:
		return TierHigh
	case total >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

// ConsultationView es lo que el cliente puede leer segun el estado del registro.
type ConsultationView interface {
	ViewStatus() ConsultationStatus
}

// TeaserView es la unica lectura permitida mientras el registro esta LOCKED:
// nunca incluye puntaje exacto, breakdown ni textos pagos.
type TeaserView struct {
	ID        string             `json:"id"`
	Status    ConsultationStatus `json:"status"`
	ScoreTier string             `json:"score_tier"`
}

func (v TeaserView) ViewStatus() ConsultationStatus { return v.Status }

// FullView es la lectura completa, disponible solo con status COMPLETED.
type FullView struct {
	ID                 string             `json:"id"`
	Status             ConsultationStatus `json:"status"`
	Score              int                `json:"score"`
	Breakdown          ScoreBreakdown     `json:"breakdown"`
	RecommendationText string             `json:"recommendation_text"`
	TimelineEstimate   string             `json:"timeline_estimate"`
	NextSteps          []string           `json:"next_steps"`
	CompletedAt        *time.Time         `json:"completed_at"`
}

func (v FullView) ViewStatus() ConsultationStatus { return v.Status }

// CancelledNotice es la lectura de un registro cancelado.
type CancelledNotice struct {
	ID     string             `json:"id"`
	Status ConsultationStatus `json:"status"`
	Reason string             `json:"reason,omitempty"`
}

func (v CancelledNotice) ViewStatus() ConsultationStatus { return v.Status }

// Teaser construye la vista restringida del registro.
func (c Consultation) Teaser() TeaserView {
	return TeaserView{
		ID:        c.ID,
		Status:    c.Status,
		ScoreTier: TierForScore(c.Breakdown.TotalScore),
	}
}

// Full construye la vista completa del registro.
func (c Consultation) Full() FullView {
	return FullView{
		ID:                 c.ID,
		Status:             c.Status,
		Score:              c.Breakdown.TotalScore,
		Breakdown:          c.Breakdown,
		RecommendationText: c.RecommendationText,
		TimelineEstimate:   c.TimelineEstimate,
		NextSteps:          c.NextSteps,
		CompletedAt:        c.CompletedAt,
	}
}
