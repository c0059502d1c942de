package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/rules"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
	"github.com/minio/minio-go/v7"
)

// Handlers is the casting handler set.
type Handlers struct {
	Metal    *MetalHandler
	Tree     *TreeHandler
	Workflow *WorkflowHandler
	Reserve  *ReserveHandler
	Report   *ReportHandler
}

// NewHandlers creates the casting handler set. minioClient and photoBucket may
// be empty; photo uploads then land on local disk.
func NewHandlers(services *service.Services, minioClient *minio.Client, photoBucket string) *Handlers {
	return &Handlers{
		Metal:    NewMetalHandler(services.Metal),
		Tree:     NewTreeHandler(services.Tree, minioClient, photoBucket),
		Workflow: NewWorkflowHandler(services.Workflow),
		Reserve:  NewReserveHandler(services.Reserve),
		Report:   NewReportHandler(services.Report),
	}
}

// RegisterRoutes mounts every casting route on the given group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/metals", h.Metal.List)

	api.POST("/trees", h.Tree.Create)
	api.GET("/trees/next-number", h.Tree.NextNumber)
	api.POST("/trees/:treeId/photo", h.Tree.UploadPhoto)
	api.GET("/queue/transit", h.Tree.TransitQueue)

	api.POST("/flasks", h.Workflow.PostFlask)
	api.GET("/flasks/check-unique", h.Workflow.CheckFlaskUnique)
	api.GET("/search/flasks", h.Workflow.SearchFlasks)

	api.GET("/queue/metal-prep", h.Workflow.MetalPrepQueue)
	api.GET("/metal-prep/preset/:flaskId", h.Workflow.PrepPreset)
	api.POST("/metal-prep", h.Workflow.SubmitMetalPrep)

	api.GET("/queue/supply", h.Workflow.SupplyQueue)
	api.POST("/supply", h.Workflow.SubmitSupply)

	api.GET("/queue/casting", h.Workflow.CastingQueue)
	api.POST("/casting/:flaskId/complete", h.Workflow.CompleteCasting)

	api.GET("/queue/quenching", h.Workflow.QuenchingQueue)
	api.POST("/quenching/:flaskId/advance", h.Workflow.AdvanceQuenching)

	api.GET("/queue/cutting", h.Workflow.CuttingQueue)
	api.POST("/cutting", h.Workflow.SubmitCutting)

	api.GET("/queue/reconciliation", h.Workflow.ReconciliationQueue)
	api.GET("/reconciliation/:flaskId", h.Workflow.ReconciliationDetail)
	api.POST("/reconciliation/confirm", h.Workflow.ConfirmReconciliation)

	api.GET("/scrap/reserves", h.Reserve.List)
	api.GET("/scrap/movements", h.Reserve.Movements)
	api.POST("/scrap/adjust", h.Reserve.Adjust)

	api.GET("/reports/transit", h.Report.Transit)
	api.GET("/reports/transit/trees", h.Report.TransitTrees)
	api.GET("/reports/scrap-loss", h.Report.ScrapLoss)
	api.GET("/reports/scrap-loss/export", h.Report.ScrapLossExport)
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// Fail maps domain errors onto the response codes: duplicates conflict,
// missing records 404, everything the operator can fix is a 400.
func Fail(c *gin.Context, err error) {
	var dup *service.DuplicateError
	if errors.As(err, &dup) {
		Conflict(c, err.Error())
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, err.Error())
		return
	}
	var (
		stageErr *service.StageError
		tolErr   *rules.ToleranceError
		resErr   *service.ReserveError
	)
	if errors.As(err, &stageErr) || errors.As(err, &tolErr) || errors.As(err, &resErr) {
		BadRequest(c, err.Error())
		return
	}
	BadRequest(c, err.Error())
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// ParamUint parses a numeric path parameter, 0 when malformed.
func ParamUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// QueryUint parses a numeric query parameter, 0 when absent or malformed.
func QueryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
