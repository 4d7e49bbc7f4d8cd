package scoring

import (
	"fmt"

	"migrascore/internal/domain"
)

// Perfil estilo habilidad extraordinaria: la experiencia manda, los grados
// avanzados suman bonus y no hay chequeo duro de fondos.
const (
	usaPassMark       = 70.0
	usaDoctorateBonus = 15.0
	usaMasterBonus    = 10.0
)

const BlockerInsufficientEvidence = "insufficient extraordinary-ability evidence"

type USAStrategy struct{}

func (USAStrategy) Name() string { return "usa" }

func (USAStrategy) Score(p domain.ApplicantProfile) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{Strategy: "usa"}

	var expPts float64
	switch {
	case p.YearsOfExperience < 5:
		expPts = 20
		b.Blockers = append(b.Blockers, BlockerInsufficientEvidence)
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience do not evidence an extraordinary track record", p.YearsOfExperience))
	case p.YearsOfExperience >= 10:
		expPts = 80
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience evidence a strong track record", p.YearsOfExperience))
	default:
		expPts = 60
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience evidence a developing track record", p.YearsOfExperience))
	}
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "experience", Points: expPts})

	var eduBonus float64
	switch p.EducationLevel {
	case domain.EducationDoctorate:
		eduBonus = usaDoctorateBonus
	case domain.EducationMaster:
		eduBonus = usaMasterBonus
	}
	if eduBonus > 0 {
		b.Factors = append(b.Factors, domain.FactorScore{Factor: "education", Points: eduBonus})
		b.Feedback = append(b.Feedback, fmt.Sprintf("advanced degree %s adds %.0f bonus points", p.EducationLevel, eduBonus))
	}

	b.RawScore = expPts + eduBonus
	b.TotalScore = clampTotal(b.RawScore)
	b.Eligible = len(b.Blockers) == 0 && b.RawScore >= usaPassMark
	return b
}
