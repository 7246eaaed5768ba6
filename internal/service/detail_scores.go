package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDetailScoresEncode    = errors.New("detail scores encode failed")
	ErrDetailScoresMalformed = errors.New("detail scores malformed")
)

// EncodeDetailScores serializa el mapa de facetas a un objeto JSON canonico.
// Un mapa nil o vacio no produce payload.
func EncodeDetailScores(scores map[string]int) (*string, error) {
	if len(scores) == 0 {
		return nil, nil
	}
	// encoding/json ordena las claves de un map, asi que la salida es estable.
	b, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetailScoresEncode, err)
	}
	s := string(b)
	return &s, nil
}

// DecodeDetailScores nunca devuelve un mapa nil. Ante un payload corrupto devuelve
// un mapa vacio junto con ErrDetailScoresMalformed para que el caller lo loguee.
func DecodeDetailScores(payload *string) (map[string]int, error) {
	out := map[string]int{}
	if payload == nil || strings.TrimSpace(*payload) == "" {
		return out, nil
	}
	var parsed map[string]int
	if err := json.Unmarshal([]byte(*payload), &parsed); err != nil {
		return out, fmt.Errorf("%w: %w", ErrDetailScoresMalformed, err)
	}
	for k, v := range parsed {
		out[k] = v
	}
	return out, nil
}
