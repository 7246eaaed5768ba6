package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier define la interfaz para avisos a un canal de operadores.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type disabledNotifier struct {
	logger *zap.Logger
}

// NewDisabledNotifier se usa cuando no hay webhook configurado: descarta el mensaje sin error.
func NewDisabledNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &disabledNotifier{logger: logger}
}

func (n *disabledNotifier) Notify(_ context.Context, _ string) error {
	n.logger.Debug("webhook url not configured, notification skipped")
	return nil
}
