package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// segmentColor represents an RGB fill for one length in a pattern diagram.
type segmentColor struct {
	R, G, B int
}

var segmentColors = []segmentColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	barHeight   = 14.0 // One raw unit, drawn to scale along its length
	patternSlot = 34.0 // Vertical space per pattern diagram
)

// ExportPDF generates a PDF report of the plan: a summary page with the
// pattern table, followed by pages of to-scale raw-unit diagrams, one bar
// per pattern.
func ExportPDF(path string, plan model.Plan) error {
	if len(plan.Patterns) == 0 {
		return fmt.Errorf("no patterns to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderSummaryPage(pdf, plan)

	perPage := patternsPerPage()
	for i, p := range plan.Patterns {
		if i%perPage == 0 {
			pdf.AddPage()
			renderPageHeader(pdf, plan, i/perPage+1, (len(plan.Patterns)+perPage-1)/perPage)
		}
		y := drawAreaTop + float64(i%perPage)*patternSlot
		renderPattern(pdf, p, plan.Settings, y)
	}

	return pdf.OutputFileAndClose(path)
}

// patternsPerPage returns how many pattern diagrams fit below the page header.
func patternsPerPage() int {
	avail := pageHeight - drawAreaTop - marginBottom
	return int(math.Floor(avail / patternSlot))
}

func renderPageHeader(pdf *fpdf.Fpdf, plan model.Plan, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting Patterns %d/%d  (plan %s, unit %d x %d mm)",
		page, pages, plan.ID, plan.Settings.UnitLength, plan.Settings.UnitWidth)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")
}

// renderPattern draws one pattern as a bar scaled to the raw-unit length,
// split into one segment per row of each cut, with the waste hatched.
func renderPattern(pdf *fpdf.Fpdf, p model.Pattern, s model.PlanSettings, y float64) {
	drawWidth := pageWidth - marginLeft - marginRight
	scale := drawWidth / float64(s.UnitLength)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	caption := fmt.Sprintf("Pattern %d  |  width %d mm  |  %d molds  |  waste %d mm",
		p.Index, p.Width, p.MoldCount, p.Waste(s.UnitLength))
	pdf.CellFormat(drawWidth, 6, caption, "", 0, "L", false, 0, "")

	barY := y + 7
	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, barY, drawWidth, barHeight, "FD")

	x := marginLeft
	for i, c := range p.Cuts {
		col := segmentColors[i%len(segmentColors)]
		w := float64(c.Length) * scale
		for r := 0; r < c.Rows; r++ {
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(x, barY, w, barHeight, "FD")

			label := fmt.Sprintf("%d", c.Length)
			pdf.SetFont("Helvetica", "", 8)
			if lw := pdf.GetStringWidth(label); lw < w-2 {
				pdf.SetXY(x+(w-lw)/2, barY+barHeight/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
			x += w
		}
	}

	if waste := marginLeft + drawWidth - x; waste > 0.5 {
		drawHatchPattern(pdf, x, barY, waste, barHeight)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, barY+barHeight+1)
	pdf.CellFormat(drawWidth, 4, describeCuts(p), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark waste.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + max(0, d-h)
		y1 := y + min(h, d)
		x2 := x + min(w, d)
		y2 := y + max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// describeCuts formats a pattern's cuts as "2720 x1 + 1500 x2".
func describeCuts(p model.Pattern) string {
	parts := make([]string, len(p.Cuts))
	for i, c := range p.Cuts {
		parts[i] = fmt.Sprintf("%d x%d", c.Length, c.Rows)
	}
	return strings.Join(parts, " + ")
}

// renderSummaryPage draws the plan statistics and the pattern table.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.Plan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Production Plan "+plan.ID, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	s := plan.Summary()

	summaryItems := []struct {
		label string
		value string
	}{
		{"Created", plan.CreatedAt.Format("2006-01-02 15:04 MST")},
		{"Patterns", fmt.Sprintf("%d", s.PatternCount)},
		{"Total Molds", fmt.Sprintf("%d", s.TotalMolds)},
		{"Total Quantity", fmt.Sprintf("%d", s.TotalQuantity)},
		{"By-product Quantity", fmt.Sprintf("%d", s.ByProductQuantity)},
		{"Length Utilization", fmt.Sprintf("%.1f%%", s.Utilization)},
		{"Raw Unit", fmt.Sprintf("%d x %d x %d mm", plan.Settings.UnitLength, plan.Settings.UnitWidth, plan.Settings.FixedHeight)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	colWidths := []float64{20, 20, 120, 25, 40, 40}
	headers := []string{"Pattern", "Width", "Cuts", "Molds", "Used Length", "Waste"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, p := range plan.Patterns {
		if y+6 > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		rowData := []string{
			fmt.Sprintf("%d", p.Index),
			fmt.Sprintf("%d", p.Width),
			describeCuts(p),
			fmt.Sprintf("%d", p.MoldCount),
			fmt.Sprintf("%d mm", p.UsedLength()),
			fmt.Sprintf("%d mm", p.Waste(plan.Settings.UnitLength)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
}
