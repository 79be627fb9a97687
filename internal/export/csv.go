// Package export writes production plans to delimited, spreadsheet, JSON and
// PDF files, and prints QR-coded mold tickets for the shop floor.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// Supported text encodings for delimited output.
const (
	EncodingUTF8 = "utf-8"
	EncodingGBK  = "gbk"
)

// PlanHeader is the plan table's column order.
var PlanHeader = []string{
	"pattern_index",
	"product_type",
	"length",
	"width",
	"height",
	"rows_per_unit_width",
	"row_count",
	"mold_count",
	"quantity",
	"by_product_dimensions",
	"by_product_quantity",
}

// PlanRecord renders one plan row as table cells. Absent by-product fields
// become empty cells.
func PlanRecord(r model.PlanRow) []string {
	byDims, byQty := "", ""
	if r.ByProductDims != nil {
		byDims = *r.ByProductDims
	}
	if r.ByProductQuantity != nil {
		byQty = strconv.Itoa(*r.ByProductQuantity)
	}
	return []string{
		strconv.Itoa(r.PatternIndex),
		r.ProductType.String(),
		strconv.Itoa(r.Length),
		strconv.Itoa(r.Width),
		strconv.Itoa(r.Height),
		strconv.Itoa(r.RowsPerUnitWidth),
		strconv.Itoa(r.RowCount),
		strconv.Itoa(r.MoldCount),
		strconv.Itoa(r.Quantity),
		byDims,
		byQty,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// encodingWriter wraps w so that text written to it is produced in encoding.
// The returned closer flushes any buffered encoder state.
func encodingWriter(w io.Writer, encoding string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return w, nopCloser{}, nil
	case EncodingGBK:
		tw := transform.NewWriter(w, simplifiedchinese.GBK.NewEncoder())
		return tw, tw, nil
	default:
		return nil, nil, model.NewConfigError("unsupported output encoding %q", encoding)
	}
}

// WriteCSV writes the plan table to w in the given text encoding.
func WriteCSV(w io.Writer, plan model.Plan, encoding string) error {
	out, closer, err := encodingWriter(w, encoding)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(PlanHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range plan.Rows {
		if err := cw.Write(PlanRecord(r)); err != nil {
			return fmt.Errorf("failed to write pattern %d: %w", r.PatternIndex, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return closer.Close()
}

// ExportCSV writes the plan table to a CSV file at path.
func ExportCSV(path string, plan model.Plan, encoding string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, plan, encoding); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
