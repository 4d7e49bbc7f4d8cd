package scoring

import (
	"strings"

	"migrascore/internal/domain"
)

// Recommendation es el texto derivado del breakdown: nunca se recalcula
// despues de la creacion de la consulta.
type Recommendation struct {
	Text             string   `json:"recommendation_text"`
	TimelineEstimate string   `json:"timeline_estimate"`
	NextSteps        []string `json:"next_steps"`
}

// Compose deriva recomendacion, estimacion de plazo y proximos pasos a partir
// del breakdown. Funcion pura del (puntaje, blockers, estrategia).
func Compose(breakdown domain.ScoreBreakdown) Recommendation {
	return Recommendation{
		Text:             tierText(breakdown.TotalScore),
		TimelineEstimate: timelineFor(breakdown.Strategy, breakdown.TotalScore),
		NextSteps:        nextSteps(breakdown),
	}
}

func tierText(score int) string {
	switch {
	case score >= 85:
		return "Excellent profile: proceed with the application now."
	case score >= 70:
		return "Good profile: minor optimization recommended before applying."
	case score >= 50:
		return "Developing profile: needs preparation before applying."
	default:
		return "Not yet qualified: consider an alternative strategy."
	}
}

func timelineFor(strategy string, score int) string {
	switch strategy {
	case "portugal":
		return "2-4 months"
	case "canada":
		if score >= 80 {
			return "6-8 months"
		}
		return "8-12 months"
	case "australia":
		return "8-12 months"
	case "usa":
		return "12-24 months"
	default:
		return "6-12 months"
	}
}

// Remediaciones por palabra clave encontrada en el texto de los blockers.
var remediationSteps = []struct {
	keyword string
	step    string
}{
	{"language", "Invest in language certification to raise your proficiency score."},
	{"experience", "Accumulate additional documented work experience."},
	{"funds", "Increase available funds to meet the minimum requirement."},
}

func nextSteps(breakdown domain.ScoreBreakdown) []string {
	var steps []string
	for _, remedy := range remediationSteps {
		for _, blocker := range breakdown.Blockers {
			if strings.Contains(blocker, remedy.keyword) {
				steps = append(steps, remedy.step)
				break
			}
		}
	}
	if breakdown.TotalScore >= 70 {
		steps = append(steps, "Schedule a specialist consultation to plan the application.")
	} else {
		steps = append(steps, "Focus on strengthening the weakest factors before moving forward.")
	}
	return steps
}
