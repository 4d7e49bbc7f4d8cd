package scoring

import (
	"fmt"

	"migrascore/internal/domain"
)

// Fallback para paises sin estrategia propia: heuristica conservadora sobre
// una base de 70 puntos.
const (
	genericBase             = 70.0
	genericPassMark         = 60.0
	genericComfortableFunds = 15000.0
)

type GenericStrategy struct{}

func (GenericStrategy) Name() string { return "generic" }

func (GenericStrategy) Score(p domain.ApplicantProfile) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{Strategy: "generic"}
	score := genericBase
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "base", Points: genericBase})

	if p.Age > 50 {
		score -= 10
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "age", Points: -10})
		b.Feedback = append(b.Feedback, fmt.Sprintf("age %d above 50 subtracts 10 points", p.Age))
	}

	if p.YearsOfExperience >= 3 {
		score += 15
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "experience", Points: 15})
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience add 15 points", p.YearsOfExperience))
	} else {
		score -= 20
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "experience", Points: -20})
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience subtract 20 points", p.YearsOfExperience))
	}

	if p.EducationLevel.Rank() >= domain.EducationBachelor.Rank() {
		score += 10
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "education", Points: 10})
		b.Feedback = append(b.Feedback, fmt.Sprintf("degree %s adds 10 points", p.EducationLevel))
	}

	if p.AvailableFunds > genericComfortableFunds {
		score += 10
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "funds", Points: 10})
		b.Feedback = append(b.Feedback, "comfortable available funds add 10 points")
	}

	b.RawScore = score
	b.TotalScore = clampTotal(score)
	b.Eligible = b.RawScore >= genericPassMark
	return b
}
