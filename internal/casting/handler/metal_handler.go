package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
)

// MetalHandler serves the metal catalog.
type MetalHandler struct {
	svc *service.MetalService
}

func NewMetalHandler(svc *service.MetalService) *MetalHandler {
	return &MetalHandler{svc: svc}
}

// List returns the active metals.
// GET /metals
func (h *MetalHandler) List(c *gin.Context) {
	metals, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, metals)
}
