package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Registry resuelve (pais, visa) hacia una estrategia registrada. El match es
// case-insensitive, ignora diacriticos y acepta sinonimos de nombre de pais.
// Agregar un pais nuevo es registrar una estrategia, no tocar el dispatch.
type Registry struct {
	byCountryVisa map[string]Strategy
	byCountry     map[string]Strategy
	fallback      Strategy
	synonyms      map[string]string
}

// NewRegistry construye el registro con las estrategias soportadas y el
// fallback generico para combinaciones desconocidas.
func NewRegistry() *Registry {
	r := &Registry{
		byCountryVisa: make(map[string]Strategy),
		byCountry:     make(map[string]Strategy),
		fallback:      GenericStrategy{},
		synonyms: map[string]string{
			"ca":                        "canada",
			"au":                        "australia",
			"pt":                        "portugal",
			"us":                        "usa",
			"eua":                       "usa",
			"eeuu":                      "usa",
			"estados unidos":            "usa",
			"united states":             "usa",
			"united states of america":  "usa",
			"estados unidos da america": "usa",
		},
	}
	r.Register("canada", "", CanadaStrategy{})
	r.Register("australia", "", AustraliaStrategy{})
	r.Register("portugal", "", PortugalStrategy{})
	r.Register("usa", "", USAStrategy{})
	return r
}

// Register asocia una estrategia a un pais y, opcionalmente, a una visa
// especifica. Con visaType vacio la estrategia cubre cualquier visa del pais.
func (r *Registry) Register(country, visaType string, s Strategy) {
	countryKey := r.canonical(country)
	if visaType == "" {
		r.byCountry[countryKey] = s
		return
	}
	r.byCountryVisa[countryKey+"|"+foldKey(visaType)] = s
}

// Resolve devuelve la estrategia para la combinacion pedida, o el fallback
// generico si no hay match. Nunca falla.
func (r *Registry) Resolve(country, visaType string) Strategy {
	countryKey := r.canonical(country)
	if s, ok := r.byCountryVisa[countryKey+"|"+foldKey(visaType)]; ok {
		return s
	}
	if s, ok := r.byCountry[countryKey]; ok {
		return s
	}
	return r.fallback
}

func (r *Registry) canonical(country string) string {
	key := foldKey(country)
	if canon, ok := r.synonyms[key]; ok {
		return canon
	}
	return key
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey normaliza una clave de lookup: trim, minusculas y sin diacriticos.
func foldKey(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(diacriticStripper, lowered)
	if err != nil {
		return lowered
	}
	return folded
}
