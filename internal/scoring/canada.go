package scoring

import (
	"fmt"

	"migrascore/internal/domain"
)

// Tabla federal estilo Express Entry. Los valores son reglas de programa
// publicadas y no deben aproximarse.
const (
	canadaMaxRaw       = 470.0
	canadaPassMark     = 67.0
	canadaMinimumFunds = 13310.0
)

const (
	BlockerInsufficientLanguage   = "insufficient language level"
	BlockerInsufficientExperience = "insufficient experience"
	BlockerInsufficientFunds      = "insufficient settlement funds"
)

// CanadaStrategy puntua perfiles contra el sistema de puntos canadiense.
type CanadaStrategy struct{}

func (CanadaStrategy) Name() string { return "canada" }

func (CanadaStrategy) Score(p domain.ApplicantProfile) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{Strategy: "canada"}

	agePts := canadaAgePoints(p.Age)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "age", Points: agePts})
	b.Feedback = append(b.Feedback, fmt.Sprintf("age %d grants %.0f points", p.Age, agePts))

	eduPts := canadaEducationPoints(p.EducationLevel)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "education", Points: eduPts})
	b.Feedback = append(b.Feedback, fmt.Sprintf("education level %s grants %.0f points", p.EducationLevel, eduPts))

	lang := p.BestLanguageScore()
	langPts := canadaLanguagePoints(lang)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "language", Points: langPts})
	if langPts == 0 {
		b.Blockers = append(b.Blockers, BlockerInsufficientLanguage)
		b.Feedback = append(b.Feedback, fmt.Sprintf("language proficiency %.1f is below the CLB minimum", lang))
	} else {
		b.Feedback = append(b.Feedback, fmt.Sprintf("language proficiency %.1f grants %.0f points", lang, langPts))
	}

	expPts := canadaExperiencePoints(p.YearsOfExperience)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "experience", Points: expPts})
	if expPts == 0 {
		b.Blockers = append(b.Blockers, BlockerInsufficientExperience)
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience is below the minimum", p.YearsOfExperience))
	} else {
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience grant %.0f points", p.YearsOfExperience, expPts))
	}

	if p.AvailableFunds < canadaMinimumFunds {
		b.Blockers = append(b.Blockers, BlockerInsufficientFunds)
		b.Feedback = append(b.Feedback, fmt.Sprintf("available funds %.0f are below the required %.0f", p.AvailableFunds, canadaMinimumFunds))
	} else {
		b.Feedback = append(b.Feedback, "settlement funds requirement met")
	}

	b.RawScore = agePts + eduPts + langPts + expPts
	b.TotalScore = clampTotal(b.RawScore / canadaMaxRaw * 100)
	b.Eligible = len(b.Blockers) == 0 && b.RawScore >= canadaPassMark
	return b
}

func canadaAgePoints(age int) float64 {
	switch {
	case age < 18:
		return 0
	case age <= 35:
		return 110
	case age <= 39:
		return 105
	default:
		pts := 95 - float64(age-39)*5
		if pts < 0 {
			return 0
		}
		return pts
	}
}

func canadaEducationPoints(level domain.EducationLevel) float64 {
	switch level {
	case domain.EducationDoctorate:
		return 150
	case domain.EducationMaster:
		return 135
	case domain.EducationBachelor:
		return 120
	case domain.EducationTechnical:
		return 98
	default:
		return 28
	}
}

// Proficiencia 0-10 interpretada como equivalente CLB.
func canadaLanguagePoints(level float64) float64 {
	switch {
	case level >= 9:
		return 136
	case level >= 8:
		return 124
	case level >= 7:
		return 110
	case level >= 6:
		return 74
	default:
		return 0
	}
}

func canadaExperiencePoints(years float64) float64 {
	switch {
	case years >= 6:
		return 80
	case years >= 4:
		return 70
	case years >= 2:
		return 53
	case years >= 1:
		return 40
	default:
		return 0
	}
}
