package scoring

import (
	"strconv"
	"strings"

	"migrascore/internal/domain"
)

const defaultAge = 25

// Normalize convierte el perfil crudo del intake en un ApplicantProfile
// canonico con todos los campos poblados. Nunca falla: un valor ilegible
// degrada el puntaje en lugar de cortar el flujo, asi las estrategias no
// cargan codigo defensivo.
func Normalize(raw domain.RawProfile) domain.ApplicantProfile {
	profile := domain.ApplicantProfile{
		Age:                 int(parseNumber(raw.Age, defaultAge)),
		EducationLevel:      parseEducation(raw.EducationLevel),
		YearsOfExperience:   nonNegative(parseNumber(raw.YearsOfExperience, 0)),
		LanguageProficiency: parseLanguages(raw.LanguageProficiency),
		MaritalStatus:       parseMarital(raw.MaritalStatus),
		AvailableFunds:      nonNegative(parseNumber(raw.AvailableFunds, 0)),
		CurrentCountry:      strings.TrimSpace(raw.CurrentCountry),
		TargetCountry:       strings.TrimSpace(raw.TargetCountry),
		VisaType:            strings.TrimSpace(raw.VisaType),
	}
	if profile.Age <= 0 {
		profile.Age = defaultAge
	}
	return profile
}

// parseNumber acepta numeros JSON o strings numericos con fallback.
func parseNumber(v any, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func parseLanguages(raw map[string]any) map[string]float64 {
	langs := make(map[string]float64, len(raw))
	for code, v := range raw {
		code = foldKey(code)
		if code == "" {
			continue
		}
		score := parseNumber(v, 0)
		if score < 0 {
			score = 0
		}
		if score > 10 {
			score = 10
		}
		langs[code] = score
	}
	return langs
}

// educationSynonyms mapea denominaciones locales (pt/es/en) al nivel canonico.
// Las claves ya estan plegadas con foldKey.
var educationSynonyms = map[string]domain.EducationLevel{
	"none":               domain.EducationNone,
	"nenhum":             domain.EducationNone,
	"ninguno":            domain.EducationNone,
	"secondary":          domain.EducationSecondary,
	"high school":        domain.EducationSecondary,
	"secundaria":         domain.EducationSecondary,
	"secundario":         domain.EducationSecondary,
	"ensino medio":       domain.EducationSecondary,
	"medio completo":     domain.EducationSecondary,
	"technical":          domain.EducationTechnical,
	"tecnico":            domain.EducationTechnical,
	"tecnologo":          domain.EducationTechnical,
	"curso tecnico":      domain.EducationTechnical,
	"bachelor":           domain.EducationBachelor,
	"bacharel":           domain.EducationBachelor,
	"licenciatura":       domain.EducationBachelor,
	"graduacao":          domain.EducationBachelor,
	"universitario":      domain.EducationBachelor,
	"superior":           domain.EducationBachelor,
	"superior completo":  domain.EducationBachelor,
	"master":             domain.EducationMaster,
	"mestrado":           domain.EducationMaster,
	"maestria":           domain.EducationMaster,
	"msc":                domain.EducationMaster,
	"doctorate":          domain.EducationDoctorate,
	"doutorado":          domain.EducationDoctorate,
	"doctorado":          domain.EducationDoctorate,
	"phd":                domain.EducationDoctorate,
}

func parseEducation(raw string) domain.EducationLevel {
	key := foldKey(raw)
	if key == "" {
		return domain.EducationNone
	}
	if level, ok := educationSynonyms[key]; ok {
		return level
	}
	// Sin match exacto: busca la pista mas fuerte dentro del texto libre.
	switch {
	case strings.Contains(key, "phd"), strings.Contains(key, "doutor"), strings.Contains(key, "doctor"):
		return domain.EducationDoctorate
	case strings.Contains(key, "mestr"), strings.Contains(key, "maestr"), strings.Contains(key, "master"):
		return domain.EducationMaster
	case strings.Contains(key, "superior"), strings.Contains(key, "bachar"), strings.Contains(key, "bachelor"), strings.Contains(key, "licenciat"):
		return domain.EducationBachelor
	case strings.Contains(key, "tecn"):
		return domain.EducationTechnical
	case strings.Contains(key, "medio"), strings.Contains(key, "secund"), strings.Contains(key, "high school"):
		return domain.EducationSecondary
	default:
		return domain.EducationNone
	}
}

func parseMarital(raw string) string {
	switch foldKey(raw) {
	case "married", "casado", "casada", "casado(a)":
		return domain.MaritalMarried
	case "divorced", "divorciado", "divorciada":
		return domain.MaritalDivorced
	case "widowed", "viuvo", "viuva", "viudo", "viuda":
		return domain.MaritalWidowed
	default:
		return domain.MaritalSingle
	}
}
