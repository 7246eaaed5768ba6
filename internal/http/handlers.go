package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deepmirror/internal/service"
)

func internalErrorBody() gin.H {
	return gin.H{"error": "internal server error", "details": "please contact the administrator"}
}

// invalidRequestBody arma el 400 con el campo y la regla violada.
func invalidRequestBody(field, rule string) gin.H {
	return gin.H{"error": "invalid request", "field": field, "rule": rule}
}

// bindErrorBody describe un body que ni siquiera pudo decodificarse.
func bindErrorBody(err error) gin.H {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return invalidRequestBody(typeErr.Field, "type")
	}
	return invalidRequestBody("body", "json")
}

// writeServiceError mapea errores de servicio: validacion -> 400, todo lo demas -> 500 sin detalle interno.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		logger.Warn("invalid "+op+" request", zap.String("field", ve.Field), zap.String("rule", ve.Rule))
		c.JSON(http.StatusBadRequest, invalidRequestBody(ve.Field, ve.Rule))
		return
	}
	logger.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, internalErrorBody())
}

// HealthHandler expone el estado del proceso y del almacenamiento.
type HealthHandler struct {
	logger *zap.Logger
	check  func(ctx context.Context) error
}

// NewHealthHandler recibe el chequeo del store (ping a Postgres o SQLite).
func NewHealthHandler(logger *zap.Logger, check func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{logger: logger, check: check}
}

// Index maneja GET /.
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "deepmirror"})
}

// Health maneja GET /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
