package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
)

// ReportHandler serves the transit and scrap-loss reports.
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Transit summarizes transit trees per date and metal.
// GET /reports/transit?date_from=&date_to=
func (h *ReportHandler) Transit(c *gin.Context) {
	rows, err := h.svc.TransitReport(c.Request.Context(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, rows)
}

// TransitTrees lists aged transit trees.
// GET /reports/transit/trees?date_from=&date_to=
func (h *ReportHandler) TransitTrees(c *gin.Context) {
	rows, err := h.svc.TransitTrees(c.Request.Context(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, rows)
}

// ScrapLoss returns per-flask losses with totals.
// GET /reports/scrap-loss?date_from=&date_to=&metal_id=
func (h *ReportHandler) ScrapLoss(c *gin.Context) {
	report, err := h.svc.ScrapLoss(c.Request.Context(), c.Query("date_from"), c.Query("date_to"), QueryUint(c, "metal_id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, report)
}

// ScrapLossExport streams the loss report as an XLSX download.
// GET /reports/scrap-loss/export?date_from=&date_to=&metal_id=
func (h *ReportHandler) ScrapLossExport(c *gin.Context) {
	wb, err := h.svc.ScrapLossWorkbook(c.Request.Context(), c.Query("date_from"), c.Query("date_to"), QueryUint(c, "metal_id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer wb.Close()

	filename := fmt.Sprintf("scrap-loss-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
