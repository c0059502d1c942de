package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/rules"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
)

// WorkflowHandler serves every stage queue and stage transition.
type WorkflowHandler struct {
	svc *service.WorkflowService
}

func NewWorkflowHandler(svc *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

// PostFlask posts a tree into a flask, target metal_prep or supply.
// POST /flasks
func (h *WorkflowHandler) PostFlask(c *gin.Context) {
	var req service.PostFlaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	flask, err := h.svc.PostTreeToStage(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, flask)
}

// CheckFlaskUnique probes whether a flask number is free for a date.
// GET /flasks/check-unique?date=YYYY-MM-DD&flask_no=F12
func (h *WorkflowHandler) CheckFlaskUnique(c *gin.Context) {
	date := c.Query("date")
	flaskNo := c.Query("flask_no")
	if date == "" || flaskNo == "" {
		BadRequest(c, "date and flask_no are required")
		return
	}

	flasks, err := h.svc.SearchFlasks(c.Request.Context(), repository.SearchParams{
		FlaskNo:  flaskNo,
		DateFrom: date,
		DateTo:   date,
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	unique := true
	for _, f := range flasks {
		if f.FlaskNo == flaskNo && f.Date == date {
			unique = false
			break
		}
	}
	Success(c, gin.H{"unique": unique})
}

// SearchFlasks finds flasks across all stages.
// GET /search/flasks?flask_no=&stage=&metal_id=&date_from=&date_to=
func (h *WorkflowHandler) SearchFlasks(c *gin.Context) {
	params := repository.SearchParams{
		FlaskNo:  c.Query("flask_no"),
		Stage:    c.Query("stage"),
		MetalID:  QueryUint(c, "metal_id"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	flasks, err := h.svc.SearchFlasks(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, flasks)
}

func (h *WorkflowHandler) stageQueue(c *gin.Context, stage string) {
	flasks, err := h.svc.StageQueue(c.Request.Context(), stage, c.Query("flask_no"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, flasks)
}

// MetalPrepQueue GET /queue/metal-prep
func (h *WorkflowHandler) MetalPrepQueue(c *gin.Context) {
	h.stageQueue(c, entity.StageMetalPrep)
}

// SupplyQueue GET /queue/supply
func (h *WorkflowHandler) SupplyQueue(c *gin.Context) {
	h.stageQueue(c, entity.StageSupply)
}

// CastingQueue GET /queue/casting
func (h *WorkflowHandler) CastingQueue(c *gin.Context) {
	h.stageQueue(c, entity.StageCasting)
}

// CuttingQueue GET /queue/cutting
func (h *WorkflowHandler) CuttingQueue(c *gin.Context) {
	h.stageQueue(c, entity.StageCutting)
}

// ReconciliationQueue GET /queue/reconciliation
func (h *WorkflowHandler) ReconciliationQueue(c *gin.Context) {
	h.stageQueue(c, entity.StageReconciliation)
}

// QuenchingQueue includes ready_at and minutes_left per flask.
// GET /queue/quenching
func (h *WorkflowHandler) QuenchingQueue(c *gin.Context) {
	items, err := h.svc.QuenchingQueue(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, items)
}

// queryOverrides reads the optional fine_24k and alloy query parameters into
// splitter overrides. Absent means auto.
func queryOverrides(c *gin.Context) (rules.Overrides, error) {
	var ov rules.Overrides
	if raw := c.Query("fine_24k"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return ov, fmt.Errorf("invalid fine_24k override %q", raw)
		}
		ov.Fine = &v
	}
	if raw := c.Query("alloy"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return ov, fmt.Errorf("invalid alloy override %q", raw)
		}
		ov.Alloy = &v
	}
	return ov, nil
}

// PrepPreset returns the suggested composition for a flask. The operator can
// pin fine or alloy via query overrides; unset fields recompute as usual.
// GET /metal-prep/preset/:flaskId?fine_24k=&alloy=
func (h *WorkflowHandler) PrepPreset(c *gin.Context) {
	flaskID := ParamUint(c, "flaskId")
	if flaskID == 0 {
		BadRequest(c, "invalid flask id")
		return
	}
	ov, err := queryOverrides(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	preset, err := h.svc.GetPrepPreset(c.Request.Context(), flaskID, ov)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, preset)
}

// SubmitMetalPrep POST /metal-prep
func (h *WorkflowHandler) SubmitMetalPrep(c *gin.Context) {
	var req service.SubmitPrepReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	flask, err := h.svc.SubmitMetalPrep(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, flask)
}

// SubmitSupply POST /supply
func (h *WorkflowHandler) SubmitSupply(c *gin.Context) {
	var req service.SubmitSupplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	flask, err := h.svc.SubmitSupply(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, flask)
}

type postedByReq struct {
	PostedBy string `json:"posted_by"`
}

// CompleteCasting POST /casting/:flaskId/complete
func (h *WorkflowHandler) CompleteCasting(c *gin.Context) {
	flaskID := ParamUint(c, "flaskId")
	if flaskID == 0 {
		BadRequest(c, "invalid flask id")
		return
	}

	var req postedByReq
	c.ShouldBindJSON(&req)
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	flask, err := h.svc.CompleteCasting(c.Request.Context(), flaskID, req.PostedBy)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"flask": flask, "completed_at": flask.CastingCompletedAt})
}

// AdvanceQuenching POST /quenching/:flaskId/advance
func (h *WorkflowHandler) AdvanceQuenching(c *gin.Context) {
	flaskID := ParamUint(c, "flaskId")
	if flaskID == 0 {
		BadRequest(c, "invalid flask id")
		return
	}

	var req postedByReq
	c.ShouldBindJSON(&req)
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	flask, err := h.svc.AdvanceQuenching(c.Request.Context(), flaskID, req.PostedBy)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, flask)
}

// SubmitCutting POST /cutting
func (h *WorkflowHandler) SubmitCutting(c *gin.Context) {
	var req service.SubmitCuttingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	flask, err := h.svc.SubmitCutting(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, flask)
}

// ReconciliationDetail GET /reconciliation/:flaskId
func (h *WorkflowHandler) ReconciliationDetail(c *gin.Context) {
	flaskID := ParamUint(c, "flaskId")
	if flaskID == 0 {
		BadRequest(c, "invalid flask id")
		return
	}

	detail, err := h.svc.GetReconciliationDetail(c.Request.Context(), flaskID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, detail)
}

// ConfirmReconciliation POST /reconciliation/confirm
func (h *WorkflowHandler) ConfirmReconciliation(c *gin.Context) {
	var req service.ConfirmReconReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	rec, err := h.svc.ConfirmReconciliation(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rec)
}
