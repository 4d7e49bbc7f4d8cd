package domain

// EducationLevel es el nivel educativo canonico del solicitante.
type EducationLevel string

const (
	EducationNone      EducationLevel = "none"
	EducationSecondary EducationLevel = "secondary"
	EducationTechnical EducationLevel = "technical"
	EducationBachelor  EducationLevel = "bachelor"
	EducationMaster    EducationLevel = "master"
	EducationDoctorate EducationLevel = "doctorate"
)

// Rank devuelve un orden creciente para comparar niveles educativos.
func (e EducationLevel) Rank() int {
	switch e {
	case EducationSecondary:
		return 1
	case EducationTechnical:
		return 2
	case EducationBachelor:
		return 3
	case EducationMaster:
		return 4
	case EducationDoctorate:
		return 5
	default:
		return 0
	}
}

const (
	MaritalSingle   = "single"
	MaritalMarried  = "married"
	MaritalDivorced = "divorced"
	MaritalWidowed  = "widowed"
)

// RawProfile es el perfil tal como llega del intake externo: campos sueltos,
// numeros que pueden venir como strings y textos en el idioma del cliente
// (ej: "Superior completo"). Nunca se persiste ni se usa directo para puntuar.
type RawProfile struct {
	Age                 any            `json:"age"`
	EducationLevel      string         `json:"education_level"`
	YearsOfExperience   any            `json:"years_of_experience"`
	LanguageProficiency map[string]any `json:"language_proficiency"`
	MaritalStatus       string         `json:"marital_status"`
	AvailableFunds      any            `json:"available_funds"`
	CurrentCountry      string         `json:"current_country"`
	TargetCountry       string         `json:"target_country"`
	VisaType            string         `json:"visa_type"`
}

// ApplicantProfile es el perfil canonico ya normalizado. Se construye una vez
// por solicitud de puntaje y no se muta despues.
type ApplicantProfile struct {
	Age                 int                `json:"age"`
	EducationLevel      EducationLevel     `json:"education_level"`
	YearsOfExperience   float64            `json:"years_of_experience"`
	LanguageProficiency map[string]float64 `json:"language_proficiency"`
	MaritalStatus       string             `json:"marital_status"`
	AvailableFunds      float64            `json:"available_funds"`
	CurrentCountry      string             `json:"current_country"`
	TargetCountry       string             `json:"target_country"`
	VisaType            string             `json:"visa_type"`
}

// BestLanguageScore devuelve la mejor puntuacion de idioma (escala 0-10).
// Las estrategias puntuan sobre el idioma mas fuerte del solicitante.
func (p ApplicantProfile) BestLanguageScore() float64 {
	best := 0.0
	for _, score := range p.LanguageProficiency {
		if score > best {
			best = score
		}
	}
	return best
}
