package llm

import (
	"context"
	"errors"
)

// LLMClient define la interfaz para generar texto con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Clasificacion de fallas de un proveedor remoto. Toda implementacion de LLMClient
// envuelve sus errores en uno de estos tres.
var (
	ErrTransport         = errors.New("llm transport failure")
	ErrMalformedResponse = errors.New("llm malformed response")
	ErrEmptyGeneration   = errors.New("llm empty generation")
)

// Failure kinds usados en logs.
const (
	FailureTransport = "transport"
	FailureMalformed = "malformed_response"
	FailureEmpty     = "empty_generation"
)

// ClassifyFailure reduce cualquier error de Generate a uno de los tres tipos.
// Lo que no este clasificado (timeouts de contexto incluidos) cuenta como transporte.
func ClassifyFailure(err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformed
	case errors.Is(err, ErrEmptyGeneration):
		return FailureEmpty
	default:
		return FailureTransport
	}
}
