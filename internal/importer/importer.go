// Package importer reads order books from CSV and Excel files.
// It supports automatic delimiter detection, GBK-encoded legacy exports, and
// case-insensitive header recognition in English and Chinese.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// ImportResult holds the orders read from a table and any non-fatal notes.
type ImportResult struct {
	Orders   []model.OrderLine
	Warnings []string
}

// ColumnMapping maps the order table's columns to their indices in the data.
type ColumnMapping struct {
	Type      int
	Standards int
	Size1     int
	Size2     int
	Size3     int
	Num       int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"type":      {"type", "product type", "product", "类型", "产品类型", "品种"},
	"standards": {"standards", "standard", "spec", "spec code", "规格", "标准", "规格型号"},
	"size1":     {"size1", "size 1", "dim1", "尺寸1", "长"},
	"size2":     {"size2", "size 2", "dim2", "尺寸2", "宽"},
	"size3":     {"size3", "size 3", "dim3", "尺寸3", "高"},
	"num":       {"num", "quantity", "qty", "count", "amount", "数量", "块数"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DecodeText returns data as UTF-8. Input that is not valid UTF-8 is taken to
// be GBK, the encoding of the plant's legacy spreadsheet exports. A UTF-8
// byte order mark is stripped. The boolean reports whether GBK was decoded.
func DecodeText(data []byte) ([]byte, bool, error) {
	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), false, nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return nil, false, err
	}
	return decoded, true, nil
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (type, standards, size1, size2, size3, num) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Type: -1, Standards: -1, Size1: -1, Size2: -1, Size3: -1, Num: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				slot := mapping.slot(role)
				if *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Type: 0, Standards: 1, Size1: 2, Size2: 3, Size3: 4, Num: 5}, false
	}
	return mapping, true
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case "type":
		return &m.Type
	case "standards":
		return &m.Standards
	case "size1":
		return &m.Size1
	case "size2":
		return &m.Size2
	case "size3":
		return &m.Size3
	default:
		return &m.Num
	}
}

// missing lists the required columns a header did not name.
func (m ColumnMapping) missing() []string {
	var out []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{"type", m.Type}, {"standards", m.Standards}, {"size1", m.Size1},
		{"size2", m.Size2}, {"size3", m.Size3}, {"num", m.Num},
	} {
		if c.idx == -1 {
			out = append(out, c.name)
		}
	}
	return out
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseInt accepts plain integers and integral decimals such as "2720.0",
// which spreadsheet exports produce for numeric cells.
func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// parseRow extracts an OrderLine from a row using the given column mapping.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.OrderLine, error) {
	typeStr := getCell(row, mapping.Type)
	typ, ok := model.ParseProductType(typeStr)
	if !ok {
		return model.OrderLine{}, model.NewSchemaError("invalid product type '%s'", typeStr).WithDetail(rowLabel)
	}

	fields := []struct {
		name string
		idx  int
	}{
		{"size1", mapping.Size1}, {"size2", mapping.Size2}, {"size3", mapping.Size3}, {"num", mapping.Num},
	}
	values := make([]int, len(fields))
	for i, f := range fields {
		raw := getCell(row, f.idx)
		if raw == "" {
			return model.OrderLine{}, model.NewSchemaError("missing %s value", f.name).WithDetail(rowLabel)
		}
		n, ok := parseInt(raw)
		if !ok {
			return model.OrderLine{}, model.NewSchemaError("invalid %s '%s'", f.name, raw).WithDetail(rowLabel)
		}
		if n <= 0 {
			return model.OrderLine{}, model.NewSchemaError("%s must be positive, got %d", f.name, n).WithDetail(rowLabel)
		}
		values[i] = n
	}

	return model.OrderLine{
		Type:      typ,
		Standards: getCell(row, mapping.Standards),
		Size1:     values[0],
		Size2:     values[1],
		Size3:     values[2],
		Quantity:  values[3],
	}, nil
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports orders from a CSV file.
// It decodes GBK input, detects the delimiter and maps columns by header names.
func ImportCSV(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, model.NewSchemaError("cannot open file").WithDetail(path).WithCause(err)
	}

	data, gbk, err := DecodeText(data)
	if err != nil {
		return ImportResult{}, model.NewSchemaError("cannot decode file").WithCause(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{}, model.NewSchemaError("file is empty").WithDetail(path)
	}

	var warnings []string
	if gbk {
		warnings = append(warnings, "Decoded GBK input")
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		return ImportResult{}, err
	}
	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports orders from a UTF-8 CSV reader with a specific
// delimiter. This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) (ImportResult, error) {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{}, err
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, model.NewSchemaError("cannot read CSV").WithCause(err)
	}
	return records, nil
}

// ImportExcel imports orders from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) (ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{}, model.NewSchemaError("cannot open Excel file").WithDetail(path).WithCause(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, model.NewSchemaError("Excel file has no sheets").WithDetail(path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, model.NewSchemaError("cannot read Excel data").WithCause(err)
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// The first malformed row rejects the whole table.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) (ImportResult, error) {
	result := ImportResult{Warnings: warnings}

	if len(rows) == 0 {
		return result, model.NewSchemaError("no data rows found")
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		if missing := mapping.missing(); len(missing) > 0 {
			return result, model.NewSchemaError("required columns not found in header: %s", strings.Join(missing, ", "))
		}
	} else if len(rows[0]) < 6 {
		return result, model.NewSchemaError("expected 6 columns without a header, got %d", len(rows[0]))
	} else {
		result.Warnings = append(result.Warnings, "No header row, using positional columns")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		order, err := parseRow(row, mapping, fmt.Sprintf("%s %d", rowPrefix, i+1))
		if err != nil {
			return ImportResult{Warnings: result.Warnings}, err
		}
		result.Orders = append(result.Orders, order)
	}

	if len(result.Orders) == 0 {
		return result, model.NewSchemaError("no data rows found")
	}
	return result, nil
}
