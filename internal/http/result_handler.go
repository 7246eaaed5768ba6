package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deepmirror/internal/service"
)

// ResultHandler mantiene dependencias para endpoints de resultados.
type ResultHandler struct {
	logger     *zap.Logger
	resultServ *service.ResultService
}

func NewResultHandler(logger *zap.Logger, resultServ *service.ResultService) *ResultHandler {
	return &ResultHandler{
		logger:     logger,
		resultServ: resultServ,
	}
}

// CreateResult maneja POST /api/v1/results.
func (h *ResultHandler) CreateResult(c *gin.Context) {
	var req service.CreateResultInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create result request", zap.Error(err))
		c.JSON(http.StatusBadRequest, bindErrorBody(err))
		return
	}

	res, err := h.resultServ.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, "create result", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetResult maneja GET /api/v1/results/:id.
func (h *ResultHandler) GetResult(c *gin.Context) {
	res, found, err := h.resultServ.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get result", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ViewResult maneja GET /results/:id. Un id inexistente vuelve al inicio.
func (h *ResultHandler) ViewResult(c *gin.Context) {
	view, found, err := h.resultServ.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "view result", err)
		return
	}
	if !found {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, view)
}
