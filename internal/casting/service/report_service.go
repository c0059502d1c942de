package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/rules"
	"github.com/xuri/excelize/v2"
)

// ReportService builds the transit and scrap-loss reports.
type ReportService struct {
	treeRepo  *repository.TreeRepository
	reconRepo *repository.ReconciliationRepository
}

func NewReportService(treeRepo *repository.TreeRepository, reconRepo *repository.ReconciliationRepository) *ReportService {
	return &ReportService{treeRepo: treeRepo, reconRepo: reconRepo}
}

// TransitSummary aggregates transit trees per date and metal.
type TransitSummary struct {
	Date        string  `json:"date"`
	MetalName   string  `json:"metal_name"`
	TreeCount   int     `json:"tree_count"`
	MetalWeight float64 `json:"metal_weight"`
}

// TransitReport groups the trees still in transit by date and metal.
func (s *ReportService) TransitReport(ctx context.Context, from, to string) ([]TransitSummary, error) {
	trees, err := s.treeRepo.ListTransitBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("transit report: %w", err)
	}

	type key struct {
		date  string
		metal string
	}
	agg := map[key]*TransitSummary{}
	order := []key{}
	for _, t := range trees {
		k := key{t.Date, t.MetalName}
		row, ok := agg[k]
		if !ok {
			row = &TransitSummary{Date: t.Date, MetalName: t.MetalName}
			agg[k] = row
			order = append(order, k)
		}
		row.TreeCount++
		row.MetalWeight = rules.Round3(row.MetalWeight + t.MetalWeight)
	}

	out := make([]TransitSummary, 0, len(order))
	for _, k := range order {
		out = append(out, *agg[k])
	}
	return out, nil
}

// TransitTreeRow is one aged tree in the transit detail report.
type TransitTreeRow struct {
	entity.Tree
	AgeDays int `json:"age_days"`
}

// TransitTrees lists the transit trees with their age in days.
func (s *ReportService) TransitTrees(ctx context.Context, from, to string) ([]TransitTreeRow, error) {
	trees, err := s.treeRepo.ListTransitBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("transit trees report: %w", err)
	}

	today := time.Now()
	rows := make([]TransitTreeRow, 0, len(trees))
	for _, t := range trees {
		row := TransitTreeRow{Tree: t}
		if d, err := time.Parse("2006-01-02", t.Date); err == nil {
			row.AgeDays = int(today.Sub(d).Hours() / 24)
			if row.AgeDays < 0 {
				row.AgeDays = 0
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ScrapLossReport lists confirmed reconciliations with running totals.
type ScrapLossReport struct {
	Rows               []entity.Reconciliation `json:"rows"`
	TotalSupplied      float64                 `json:"total_supplied"`
	TotalLossInCasting float64                 `json:"total_loss_in_casting"`
	TotalLossInCutting float64                 `json:"total_loss_in_cutting"`
	TotalLoss          float64                 `json:"total_loss"`
}

// ScrapLoss builds the loss report for a date range, optionally one metal.
func (s *ReportService) ScrapLoss(ctx context.Context, from, to string, metalID uint) (*ScrapLossReport, error) {
	recs, err := s.reconRepo.ListBetween(ctx, from, to, metalID)
	if err != nil {
		return nil, fmt.Errorf("scrap loss report: %w", err)
	}

	report := &ScrapLossReport{Rows: recs}
	for _, r := range recs {
		report.TotalSupplied = rules.Round3(report.TotalSupplied + r.SuppliedWeight)
		report.TotalLossInCasting = rules.Round3(report.TotalLossInCasting + r.LossInCasting)
		report.TotalLossInCutting = rules.Round3(report.TotalLossInCutting + r.LossInCutting)
		report.TotalLoss = rules.Round3(report.TotalLoss + r.LossTotal)
	}
	return report, nil
}

// ScrapLossWorkbook renders the loss report as an XLSX workbook for the
// office. One sheet, header row plus one row per flask, totals at the bottom.
func (s *ReportService) ScrapLossWorkbook(ctx context.Context, from, to string, metalID uint) (*excelize.File, error) {
	report, err := s.ScrapLoss(ctx, from, to, metalID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Scrap Loss"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Flask No", "Metal", "Supplied", "Before Cut", "After Cast", "After Scrap", "Loss Casting", "Loss Cutting", "Loss Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range report.Rows {
		values := []interface{}{
			r.Date, r.FlaskNo, r.MetalName,
			r.SuppliedWeight, r.BeforeCutWeight, r.AfterCastWeight, r.AfterScrapWeight,
			r.LossInCasting, r.LossInCutting, r.LossTotal,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalRow := len(report.Rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), report.TotalSupplied)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), report.TotalLossInCasting)
	f.SetCellValue(sheet, fmt.Sprintf("I%d", totalRow), report.TotalLossInCutting)
	f.SetCellValue(sheet, fmt.Sprintf("J%d", totalRow), report.TotalLoss)

	return f, nil
}
