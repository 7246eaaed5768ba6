package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	resultH *ResultHandler,
	feedbackH *FeedbackHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging y recovery. c.JSON pone su propio Content-Type.
	r.Use(zapLoggerMiddleware(logger), recoveryMiddleware(logger))

	api := r.Group("/api")
	results := api.Group("/v1/results")
	results.POST("", resultH.CreateResult)
	results.GET("/:id", resultH.GetResult)

	api.POST("/feedback", feedbackH.SubmitFeedback)

	// Vista de resultado para el front.
	r.GET("/results/:id", resultH.ViewResult)
	r.GET("/", healthH.Index)
	r.GET("/healthz", healthH.Health)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// recoveryMiddleware convierte un panic en el 500 generico y lo loguea con zap.
func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorBody())
	})
}
