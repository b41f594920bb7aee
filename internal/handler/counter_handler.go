package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/response"
)

type counterIncrementer interface {
	Increment(ctx context.Context, rawTag string) (*models.IncrementCounterResponse, error)
}

// CounterHandler reserves sale codes ahead of a sale.
type CounterHandler struct {
	counters counterIncrementer
}

func NewCounterHandler(counters counterIncrementer) *CounterHandler {
	return &CounterHandler{counters: counters}
}

// Increment godoc
// @Summary Reserve the next sale code
// @Tags Contador
// @Produce json
// @Param tipo path string true "curso or matricula"
// @Success 200 {object} response.Envelope
// @Router /contador/{tipo}/incrementar [patch]
func (h *CounterHandler) Increment(c *gin.Context) {
	res, err := h.counters.Increment(c.Request.Context(), c.Param("tipo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
