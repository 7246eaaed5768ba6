package domain

import "time"

// Result es el resultado persistido e inmutable de un analisis de personalidad.
// AIAnalysis y DetailScores se completan una unica vez durante la creacion.
type Result struct {
	ID                string    `json:"id"`
	Nickname          string    `json:"nickname"`
	Openness          int       `json:"openness"`
	Conscientiousness int       `json:"conscientiousness"`
	Extraversion      int       `json:"extraversion"`
	Agreeableness     int       `json:"agreeableness"`
	Neuroticism       int       `json:"neuroticism"`
	AIAnalysis        string    `json:"ai_analysis"`
	DetailScores      *string   `json:"detail_scores"` // JSON canonico faceta -> puntaje, nil si no hubo facetas
	CreatedAt         time.Time `json:"created_at"`
}

// Traits proyecta los cinco puntajes del resultado.
func (r Result) Traits() TraitScores {
	return TraitScores{
		Openness:          r.Openness,
		Conscientiousness: r.Conscientiousness,
		Extraversion:      r.Extraversion,
		Agreeableness:     r.Agreeableness,
		Neuroticism:       r.Neuroticism,
	}
}

// ResultView es lo que consume la vista de resultado: el registro mas el mapa de facetas ya decodificado.
type ResultView struct {
	Result    Result         `json:"result"`
	DetailMap map[string]int `json:"detail_map"`
}
