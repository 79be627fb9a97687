package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("type,standards,size1,size2,size3,num\nPanel,B06,2720,100,600,30\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("type;standards;size1;size2;size3;num\nPanel;B06;2720;100;600;30\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("type\tstandards\tsize1\tsize2\tsize3\tnum\nPanel\tB06\t2720\t100\t600\t30\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("type|standards|size1|size2|size3|num\nPanel|B06|2720|100|600|30\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"type", "standards", "size1", "size2", "size3", "num"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Type: 0, Standards: 1, Size1: 2, Size2: 3, Size3: 4, Num: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_ChineseAndReordered(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"数量", "规格", "类型", "尺寸1", "尺寸2", "尺寸3"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Type: 2, Standards: 1, Size1: 3, Size2: 4, Size3: 5, Num: 0}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_CaseInsensitive(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"TYPE", "Spec", "Size1", "SIZE2", "size3", "Qty"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Standards != 1 || mapping.Num != 5 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Panel", "B06", "2720", "100", "600", "30"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Type != 0 || mapping.Num != 5 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	input := "type,standards,size1,size2,size3,num\n" +
		"Panel,B06,2720,100,600,30\n" +
		"Block,A35,600,200,100,100\n"

	result, err := ImportCSVFromReader(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result.Orders))
	}

	want := model.OrderLine{Type: model.ProductPanel, Standards: "B06", Size1: 2720, Size2: 100, Size3: 600, Quantity: 30}
	if result.Orders[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Orders[0])
	}
	if result.Orders[1].Type != model.ProductBlock {
		t.Errorf("expected block, got %v", result.Orders[1].Type)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	input := "Panel,B06,2720,100,600,30\nALC,B07,3000,150,600,12\n"

	result, err := ImportCSVFromReader(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result.Orders))
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a positional-columns warning")
	}
}

func TestImportCSVFromReader_ChineseProductTypes(t *testing.T) {
	input := "类型,规格,尺寸1,尺寸2,尺寸3,数量\n板材,B06,2720,100,600,30\n砌块,A35,600,200,100,100\n"

	result, err := ImportCSVFromReader(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Orders[0].Type != model.ProductPanel || result.Orders[1].Type != model.ProductBlock {
		t.Errorf("unexpected types %v, %v", result.Orders[0].Type, result.Orders[1].Type)
	}
}

func TestImportCSVFromReader_DecimalCells(t *testing.T) {
	input := "type,standards,size1,size2,size3,num\nPanel,B06,2720.0,100,600.0,30\n"

	result, err := ImportCSVFromReader(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Orders[0].Size1 != 2720 || result.Orders[0].Size3 != 600 {
		t.Errorf("unexpected sizes %+v", result.Orders[0])
	}
}

func TestImportCSVFromReader_SchemaErrors(t *testing.T) {
	tests := map[string]string{
		"missing column":    "type,standards,size1,size2,num\nPanel,B06,2720,100,30\n",
		"unknown type":      "type,standards,size1,size2,size3,num\nSlab,B06,2720,100,600,30\n",
		"fractional size":   "type,standards,size1,size2,size3,num\nPanel,B06,2720.5,100,600,30\n",
		"invalid quantity":  "type,standards,size1,size2,size3,num\nPanel,B06,2720,100,600,abc\n",
		"zero quantity":     "type,standards,size1,size2,size3,num\nPanel,B06,2720,100,600,0\n",
		"negative size":     "type,standards,size1,size2,size3,num\nPanel,B06,-2720,100,600,3\n",
		"empty cell":        "type,standards,size1,size2,size3,num\nPanel,B06,2720,,600,3\n",
		"only headers":      "type,standards,size1,size2,size3,num\n",
		"empty input":       "",
		"short positional":  "Panel,B06,2720,100,600\n",
		"one bad row fails": "type,standards,size1,size2,size3,num\nPanel,B06,2720,100,600,3\nPanel,B06,x,100,600,3\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := ImportCSVFromReader(strings.NewReader(input), ',')
			if err == nil {
				t.Fatalf("expected error, got %d orders", len(result.Orders))
			}
			if !model.IsCode(err, model.CodeSchema) {
				t.Errorf("expected schema error, got %v", err)
			}
			if len(result.Orders) != 0 {
				t.Errorf("expected no partial orders, got %d", len(result.Orders))
			}
		})
	}
}

func TestImportCSVFromReader_EmptyRowsSkipped(t *testing.T) {
	input := "type,standards,size1,size2,size3,num\n\nPanel,B06,2720,100,600,30\n,,,,,\n"

	result, err := ImportCSVFromReader(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(result.Orders))
	}
}

// ─── ImportCSV File Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "type;standards;size1;size2;size3;num\nPanel;B06;2720;100;600;30\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := ImportCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(result.Orders))
	}
	if !containsWarning(result.Warnings, "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_GBKFile(t *testing.T) {
	content := "类型,规格,尺寸1,尺寸2,尺寸3,数量\n板材,蒸压B06,2720,100,600,30\n"
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(content)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "orders_gbk.csv")
	if err := os.WriteFile(path, []byte(encoded), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := ImportCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(result.Orders))
	}
	if result.Orders[0].Standards != "蒸压B06" {
		t.Errorf("expected decoded standards, got %q", result.Orders[0].Standards)
	}
	if !containsWarning(result.Warnings, "GBK") {
		t.Errorf("expected GBK warning, got %v", result.Warnings)
	}
}

func TestImportCSV_BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders_bom.csv")
	content := "\xef\xbb\xbftype,standards,size1,size2,size3,num\nPanel,B06,2720,100,600,30\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := ImportCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(result.Orders))
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	_, err := ImportCSV("/nonexistent/orders.csv")
	if !model.IsCode(err, model.CodeSchema) {
		t.Errorf("expected SCHEMA error for missing file, got %v", err)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ImportCSV(path)
	if !model.IsCode(err, model.CodeSchema) {
		t.Errorf("expected schema error, got %v", err)
	}
}

// ─── ImportExcel Tests ─────────────────────────────────────

func writeExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, val); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := writeExcel(t, [][]interface{}{
		{"type", "standards", "size1", "size2", "size3", "num"},
		{"Panel", "B06", 2720, 100, 600, 30},
		{"Block", "A35", 600, 200, 100, 100},
	})

	result, err := ImportExcel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result.Orders))
	}
	if result.Orders[1].Quantity != 100 || result.Orders[1].Type != model.ProductBlock {
		t.Errorf("unexpected order %+v", result.Orders[1])
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := writeExcel(t, [][]interface{}{
		{"type", "standards", "size1", "size2", "size3", "num"},
		{"Panel", "B06", "abc", 100, 600, 30},
	})

	_, err := ImportExcel(path)
	if !model.IsCode(err, model.CodeSchema) {
		t.Errorf("expected schema error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "Row 2") {
		t.Errorf("expected row reference in %q", err.Error())
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	_, err := ImportExcel("/nonexistent/orders.xlsx")
	if !model.IsCode(err, model.CodeSchema) {
		t.Errorf("expected SCHEMA error for missing file, got %v", err)
	}
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
