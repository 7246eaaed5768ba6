package domain

import "sort"

// Nombres canonicos de los cinco rasgos del modelo Big Five.
const (
	TraitOpenness          = "openness"
	TraitConscientiousness = "conscientiousness"
	TraitExtraversion      = "extraversion"
	TraitAgreeableness     = "agreeableness"
	TraitNeuroticism       = "neuroticism"
)

// TraitScores agrupa los cinco puntajes normalizados (0-100) de un cuestionario.
type TraitScores struct {
	Openness          int `json:"openness"`          // Creatividad vs. Pragmatismo
	Conscientiousness int `json:"conscientiousness"` // Orden vs. Caos
	Extraversion      int `json:"extraversion"`      // Energia social
	Agreeableness     int `json:"agreeableness"`     // Amabilidad
	Neuroticism       int `json:"neuroticism"`       // Estabilidad emocional (inversa)
}

// TraitScore es un rasgo individual con su puntaje.
type TraitScore struct {
	Trait string
	Value int
}

// Ordered devuelve los rasgos en el orden fijo O, C, E, A, N.
func (s TraitScores) Ordered() []TraitScore {
	return []TraitScore{
		{Trait: TraitOpenness, Value: s.Openness},
		{Trait: TraitConscientiousness, Value: s.Conscientiousness},
		{Trait: TraitExtraversion, Value: s.Extraversion},
		{Trait: TraitAgreeableness, Value: s.Agreeableness},
		{Trait: TraitNeuroticism, Value: s.Neuroticism},
	}
}

// Ranked ordena los rasgos de mayor a menor puntaje.
// Los empates conservan el orden O, C, E, A, N para que el prompt sea estable.
func (s TraitScores) Ranked() []TraitScore {
	ranked := s.Ordered()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked
}
