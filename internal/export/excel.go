package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

const (
	planSheet    = "Plan"
	summarySheet = "Summary"
)

// ExportExcel writes the plan to an .xlsx workbook: the plan table on the
// first sheet and the plan summary on a second one.
func ExportExcel(path string, plan model.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		return fmt.Errorf("failed to name plan sheet: %w", err)
	}

	header := make([]interface{}, len(PlanHeader))
	for i, h := range PlanHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(planSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range plan.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.PatternIndex, r.ProductType.String(), r.Length, r.Width, r.Height,
			r.RowsPerUnitWidth, r.RowCount, r.MoldCount, r.Quantity, nil, nil,
		}
		if r.ByProductDims != nil {
			values[9] = *r.ByProductDims
		}
		if r.ByProductQuantity != nil {
			values[10] = *r.ByProductQuantity
		}
		if err := f.SetSheetRow(planSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write pattern %d: %w", r.PatternIndex, err)
		}
	}

	if err := writeSummarySheet(f, plan); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, plan model.Plan) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	s := plan.Summary()
	rows := [][]interface{}{
		{"plan_id", plan.ID},
		{"created_at", plan.CreatedAt.Format("2006-01-02 15:04:05")},
		{"unit_length", plan.Settings.UnitLength},
		{"unit_width", plan.Settings.UnitWidth},
		{"fixed_height", plan.Settings.FixedHeight},
		{"patterns", s.PatternCount},
		{"molds", s.TotalMolds},
		{"quantity", s.TotalQuantity},
		{"by_product_quantity", s.ByProductQuantity},
		{"utilization_percent", fmt.Sprintf("%.1f", s.Utilization)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}
