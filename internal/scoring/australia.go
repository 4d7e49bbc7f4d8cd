package scoring

import (
	"fmt"

	"migrascore/internal/domain"
)

const australiaPassMark = 65.0

const BlockerAgeAboveLimit = "age above limit"

// AustraliaStrategy puntua contra el test de puntos de visa skilled.
type AustraliaStrategy struct{}

func (AustraliaStrategy) Name() string { return "australia" }

func (AustraliaStrategy) Score(p domain.ApplicantProfile) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{Strategy: "australia"}

	agePts, ageOK := australiaAgePoints(p.Age)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "age", Points: agePts})
	if !ageOK {
		b.Blockers = append(b.Blockers, BlockerAgeAboveLimit)
		b.Feedback = append(b.Feedback, fmt.Sprintf("age %d is outside the eligible range", p.Age))
	} else {
		b.Feedback = append(b.Feedback, fmt.Sprintf("age %d grants %.0f points", p.Age, agePts))
	}

	lang := p.BestLanguageScore()
	langPts, langOK := australiaLanguagePoints(lang)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "language", Points: langPts})
	if !langOK {
		b.Blockers = append(b.Blockers, BlockerInsufficientLanguage)
		b.Feedback = append(b.Feedback, fmt.Sprintf("language proficiency %.1f is below competent level", lang))
	} else {
		b.Feedback = append(b.Feedback, fmt.Sprintf("language proficiency %.1f grants %.0f points", lang, langPts))
	}

	expPts, expOK := australiaExperiencePoints(p.YearsOfExperience)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "experience", Points: expPts})
	if !expOK {
		b.Blockers = append(b.Blockers, BlockerInsufficientExperience)
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience is below the minimum", p.YearsOfExperience))
	} else {
		b.Feedback = append(b.Feedback, fmt.Sprintf("%.1f years of experience grant %.0f points", p.YearsOfExperience, expPts))
	}

	eduPts := australiaEducationPoints(p.EducationLevel)
	b.Factors = append(b.Factors, domain.FactorScore{Factor: "education", Points: eduPts})
	b.Feedback = append(b.Feedback, fmt.Sprintf("education level %s grants %.0f points", p.EducationLevel, eduPts))

	b.RawScore = agePts + langPts + expPts + eduPts
	b.TotalScore = clampTotal(b.RawScore)
	b.Eligible = len(b.Blockers) == 0 && b.RawScore >= australiaPassMark
	return b
}

func australiaAgePoints(age int) (float64, bool) {
	switch {
	case age >= 25 && age <= 32:
		return 30, true
	case age >= 33 && age <= 39:
		return 25, true
	case age >= 40 && age <= 44:
		return 15, true
	default:
		return 0, false
	}
}

func australiaLanguagePoints(level float64) (float64, bool) {
	switch {
	case level >= 8:
		return 20, true
	case level >= 7:
		return 10, true
	case level >= 6:
		return 0, true
	default:
		return 0, false
	}
}

func australiaExperiencePoints(years float64) (float64, bool) {
	switch {
	case years >= 8:
		return 20, true
	case years >= 5:
		return 15, true
	case years >= 3:
		return 10, true
	default:
		return 0, false
	}
}

func australiaEducationPoints(level domain.EducationLevel) float64 {
	switch level {
	case domain.EducationDoctorate, domain.EducationMaster:
		return 20
	case domain.EducationBachelor:
		return 15
	default:
		return 10
	}
}
