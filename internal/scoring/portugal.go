package scoring

import (
	"fmt"

	"migrascore/internal/domain"
)

// Regimen por ingresos (perfil D7): parte de 100 y descuenta.
const (
	portugalMinimumMonthlyIncome = 820.0
	portugalIncomePenalty        = 40.0
	portugalAgePenalty           = 10.0
	portugalAgeSoftLimit         = 65
)

const BlockerInsufficientIncome = "insufficient funds for minimum monthly income"

// PortugalStrategy puntua contra el requisito de ingreso pasivo mensual.
type PortugalStrategy struct{}

func (PortugalStrategy) Name() string { return "portugal" }

func (PortugalStrategy) Score(p domain.ApplicantProfile) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{Strategy: "portugal"}
	score := 100.0
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "base", Points: 100})

	monthly := p.AvailableFunds / 12
	if monthly < portugalMinimumMonthlyIncome {
		score -= portugalIncomePenalty
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "income", Points: -portugalIncomePenalty})
		b.Blockers = append(b.Blockers, BlockerInsufficientIncome)
		b.Feedback = append(b.Feedback, fmt.Sprintf("monthly income %.0f is below the required %.0f", monthly, portugalMinimumMonthlyIncome))
	} else {
		b.Feedback = append(b.Feedback, fmt.Sprintf("monthly income %.0f meets the required %.0f", monthly, portugalMinimumMonthlyIncome))
	}

	// Penalidad blanda, no bloquea.
	if p.Age > portugalAgeSoftLimit {
		score -= portugalAgePenalty
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "age", Points: -portugalAgePenalty})
		b.Feedback = append(b.Feedback, fmt.Sprintf("age %d above %d applies a soft penalty", p.Age, portugalAgeSoftLimit))
	}

	b.RawScore = score
	b.TotalScore = clampTotal(score)
	b.Eligible = len(b.Blockers) == 0
	return b
}
