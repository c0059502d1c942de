package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
)

// ReserveHandler serves the scrap reserve dashboard and manual adjustments.
type ReserveHandler struct {
	svc *service.ReserveService
}

func NewReserveHandler(svc *service.ReserveService) *ReserveHandler {
	return &ReserveHandler{svc: svc}
}

// List returns every reserve sorted by metal.
// GET /scrap/reserves
func (h *ReserveHandler) List(c *gin.Context) {
	reserves, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, reserves)
}

// Movements returns the recent journal for one metal.
// GET /scrap/movements?metal_id=1&limit=50
func (h *ReserveHandler) Movements(c *gin.Context) {
	metalID := QueryUint(c, "metal_id")
	if metalID == 0 {
		BadRequest(c, "metal_id is required")
		return
	}

	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}

	movements, err := h.svc.Movements(c.Request.Context(), metalID, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, movements)
}

// Adjust applies a manual add or remove.
// POST /scrap/adjust
func (h *ReserveHandler) Adjust(c *gin.Context) {
	var req service.AdjustReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	reserve, err := h.svc.Adjust(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, reserve)
}
