package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

func TestCollectTickets(t *testing.T) {
	tickets := CollectTickets(buildTestPlan())

	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(tickets))
	}

	first := tickets[0]
	if first.PlanID != "3f2a9c1e" || first.Pattern != 1 {
		t.Errorf("unexpected ticket header %+v", first)
	}
	if first.Height != 600 || first.Width != 250 {
		t.Errorf("expected 250 x 600, got %d x %d", first.Width, first.Height)
	}
	if len(first.Products) != 2 || first.Products[1] != "Block 400" {
		t.Errorf("unexpected products %v", first.Products)
	}
	if tickets[1].MoldCount != 3 {
		t.Errorf("expected 3 molds, got %d", tickets[1].MoldCount)
	}
}

func TestTicketInfo_JSON(t *testing.T) {
	data, err := json.Marshal(CollectTickets(buildTestPlan())[1])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"plan", "pattern", "width_mm", "height_mm", "cuts", "molds", "products"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}

func TestExportTickets_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.pdf")

	if err := ExportTickets(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportTickets returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("tickets file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("tickets file is empty")
	}
}

func TestExportTickets_MultiplePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets_multi.pdf")

	plan := buildTestPlan()
	for i := 4; i <= 35; i++ {
		plan.Patterns = append(plan.Patterns, model.Pattern{
			Index: i, Width: 100, Cuts: []model.Cut{{Length: 1200, Rows: 4}}, MoldCount: 1,
		})
	}

	if err := ExportTickets(path, plan); err != nil {
		t.Fatalf("ExportTickets returned error: %v", err)
	}
}

func TestExportTickets_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportTickets(path, model.NewPlan(model.DefaultSettings())); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
}

func TestTicketOrigin(t *testing.T) {
	x0, y0 := ticketOrigin(0)
	x1, y1 := ticketOrigin(1)
	x2, y2 := ticketOrigin(2)
	if x0 != sheetLeft || y0 != sheetTop {
		t.Errorf("first ticket at %.2f,%.2f", x0, y0)
	}
	if y1 != y0 || x1 <= x0 {
		t.Errorf("second ticket should sit right of the first, got %.2f,%.2f", x1, y1)
	}
	if x2 != x0 || y2 != y0+ticketH {
		t.Errorf("third ticket should start the next row, got %.2f,%.2f", x2, y2)
	}
	if xn, yn := ticketOrigin(ticketsPerPg); xn != x0 || yn != y0 {
		t.Errorf("ticket %d should wrap to the page origin, got %.2f,%.2f", ticketsPerPg, xn, yn)
	}
	if right := x1 + ticketW; right > 210 {
		t.Errorf("tickets overflow A4 width: %.2f", right)
	}
	if _, last := ticketOrigin(ticketsPerPg - 1); last+ticketH > 297 {
		t.Errorf("tickets overflow A4 height: %.2f", last+ticketH)
	}
}
