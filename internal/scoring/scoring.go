// Package scoring contiene el motor de elegibilidad: normalizacion del
// perfil, registro de estrategias por pais y las tablas de puntos de cada
// programa migratorio. Todo es puro y deterministico; nada aqui toca I/O.
package scoring

import (
	"math"

	"migrascore/internal/domain"
)

// Strategy es una funcion pura de puntaje para un pais/visa concreto.
type Strategy interface {
	Name() string
	Score(profile domain.ApplicantProfile) domain.ScoreBreakdown
}

// clampTotal redondea y acota el puntaje final al rango 0-100.
func clampTotal(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return int(math.Round(v))
}
