package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// TicketInfo holds the data encoded into each mold ticket's QR code.
type TicketInfo struct {
	PlanID    string      `json:"plan"`
	Pattern   int         `json:"pattern"`
	Width     int         `json:"width_mm"`
	Height    int         `json:"height_mm"`
	Cuts      []model.Cut `json:"cuts"`
	MoldCount int         `json:"molds"`
	Products  []string    `json:"products"` // "Panel 2720", "Block 200", one per plan row
}

// A4 ticket sheet, 2 x 7 cells of 99.1 x 38.1 mm (L7163 layout).
const (
	sheetTop      = 15.1
	sheetLeft     = 4.65
	sheetColGap   = 2.5
	ticketW       = 99.1
	ticketH       = 38.1
	ticketCols    = 2
	ticketRows    = 7
	ticketsPerPg  = ticketCols * ticketRows
	ticketQR      = 30.0
	ticketPad     = 3.0
	ticketBandH   = 7.0
	ticketLineH   = 3.6
	ticketMaxCuts = 4
)

// ticketOrigin returns the top-left corner of the n-th ticket on its page.
func ticketOrigin(n int) (x, y float64) {
	pos := n % ticketsPerPg
	col, row := pos%ticketCols, pos/ticketCols
	return sheetLeft + float64(col)*(ticketW+sheetColGap), sheetTop + float64(row)*ticketH
}

// CollectTickets builds one ticket per pattern, in pattern order.
func CollectTickets(plan model.Plan) []TicketInfo {
	products := make(map[int][]string)
	for _, r := range plan.Rows {
		products[r.PatternIndex] = append(products[r.PatternIndex], fmt.Sprintf("%s %d", r.ProductType, r.Length))
	}

	tickets := make([]TicketInfo, 0, len(plan.Patterns))
	for _, p := range plan.Patterns {
		tickets = append(tickets, TicketInfo{
			PlanID:    plan.ID,
			Pattern:   p.Index,
			Width:     p.Width,
			Height:    plan.Settings.FixedHeight,
			Cuts:      p.Cuts,
			MoldCount: p.MoldCount,
			Products:  products[p.Index],
		})
	}
	return tickets
}

// ExportTickets writes an A4 sheet of mold tickets, one per pattern. The QR
// code on each ticket encodes the TicketInfo as JSON so the cutting line can
// scan it instead of keying in lengths.
func ExportTickets(path string, plan model.Plan) error {
	tickets := CollectTickets(plan)
	if len(tickets) == 0 {
		return fmt.Errorf("no patterns to generate tickets for")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Mold tickets %s", plan.ID), false)

	for i, ticket := range tickets {
		if i%ticketsPerPg == 0 {
			pdf.AddPage()
		}
		x, y := ticketOrigin(i)
		if err := renderTicket(pdf, x, y, ticket); err != nil {
			return fmt.Errorf("failed to render ticket for pattern %d: %w", ticket.Pattern, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderTicket(pdf *fpdf.Fpdf, x, y float64, info TicketInfo) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 320)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Header band: pattern number left, mold count right.
	pdf.SetFillColor(45, 62, 80)
	pdf.Rect(x, y, ticketW, ticketBandH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(x+ticketPad, y)
	pdf.CellFormat(ticketW/2, ticketBandH, fmt.Sprintf("PATTERN %d", info.Pattern), "", 0, "L", false, 0, "")
	pdf.SetXY(x+ticketW/2, y)
	pdf.CellFormat(ticketW/2-ticketPad, ticketBandH, fmt.Sprintf("%d MOLDS", info.MoldCount), "", 0, "R", false, 0, "")

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, ticketW, ticketH, "D")

	img := fmt.Sprintf("ticket_%s_%d", info.PlanID, info.Pattern)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(img, opts, bytes.NewReader(png))
	qrTop := y + ticketBandH + (ticketH-ticketBandH-ticketQR)/2
	pdf.ImageOptions(img, x+ticketW-ticketQR-1, qrTop, ticketQR, ticketQR, false, opts, 0, "")

	textW := ticketW - ticketQR - ticketPad - 1
	lineY := y + ticketBandH + 1.5
	line := func(style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetXY(x+ticketPad, lineY)
		pdf.CellFormat(textW, ticketLineH, fitText(pdf, text, textW), "", 0, "L", false, 0, "")
		lineY += ticketLineH
	}

	pdf.SetTextColor(0, 0, 0)
	for i, c := range info.Cuts {
		if i == ticketMaxCuts {
			line("", 8, fmt.Sprintf("+%d more lengths", len(info.Cuts)-ticketMaxCuts))
			break
		}
		line("B", 9, fmt.Sprintf("%d mm  x%d rows", c.Length, c.Rows))
	}

	pdf.SetTextColor(90, 90, 90)
	line("", 7, strings.Join(info.Products, ", "))
	line("", 7, fmt.Sprintf("Thickness %d mm, height %d mm", info.Width, info.Height))
	line("", 6, "Plan "+info.PlanID)

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// fitText truncates s with an ellipsis so that it fits width w in the current font.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
