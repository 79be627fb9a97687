package model

import (
	"fmt"
	"strings"
)

// ProductType distinguishes wall panels from blocks.
type ProductType int

const (
	ProductPanel ProductType = iota // Panel: cut lengthwise from the raw unit
	ProductBlock                    // Block: tiles the raw unit's cross width
)

func (t ProductType) String() string {
	switch t {
	case ProductBlock:
		return "Block"
	default:
		return "Panel"
	}
}

// MarshalText writes the product type by name so plan tables stay readable.
func (t ProductType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText as well as the
// legacy plant vocabulary (ALC panels, AAC blocks).
func (t *ProductType) UnmarshalText(text []byte) error {
	pt, ok := ParseProductType(string(text))
	if !ok {
		return fmt.Errorf("unknown product type %q", string(text))
	}
	*t = pt
	return nil
}

// ParseProductType converts a product type cell into a ProductType.
// It returns false when the value is not recognized.
func ParseProductType(s string) (ProductType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "panel", "alc", "板材", "板":
		return ProductPanel, true
	case "block", "aac", "砌块":
		return ProductBlock, true
	default:
		return ProductPanel, false
	}
}

// OrderLine is one row of the order book as handed over by the importer.
type OrderLine struct {
	Type      ProductType `json:"type"`
	Standards string      `json:"standards"` // Spec code printed on the paperwork
	Size1     int         `json:"size1"`     // Raw dimensions in mm, in no particular order
	Size2     int         `json:"size2"`
	Size3     int         `json:"size3"`
	Quantity  int         `json:"num"`
}

// Sizes returns the three raw dimensions in input order.
func (o OrderLine) Sizes() [3]int {
	return [3]int{o.Size1, o.Size2, o.Size3}
}

// NormalizedProduct is an order line with canonical geometry.
// For folded blocks Length is the raw unit's cross width and Quantity counts
// folded units rather than blocks.
type NormalizedProduct struct {
	Type      ProductType `json:"type"`
	Standards string      `json:"standards"`
	Length    int         `json:"length"`
	Width     int         `json:"width"` // Thickness; packing never mixes two widths
	Height    int         `json:"height"`
	Quantity  int         `json:"quantity"`
}

// DemandRecord is the aggregated demand for one (standards, length, width).
type DemandRecord struct {
	Type             ProductType `json:"type"`
	Standards        string      `json:"standards"`
	Length           int         `json:"length"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	TotalQuantity    int         `json:"total_quantity"`
	RowsPerUnitWidth int         `json:"rows_per_unit_width"`
	TotalRows        int         `json:"total_rows"`
}

// WidthGroup holds every demand record of one width.
type WidthGroup struct {
	Width   int            `json:"width"`
	Records []DemandRecord `json:"records"`
}

// RowsByLength collapses the group's records into the length→rows mapping
// the packer works on. Records sharing a length add their rows.
func (g WidthGroup) RowsByLength() map[int]int {
	demand := make(map[int]int, len(g.Records))
	for _, r := range g.Records {
		demand[r.Length] += r.TotalRows
	}
	return demand
}

// BlockEntry is one block demand waiting to be drawn from a folded slot.
type BlockEntry struct {
	Standards string `json:"standards"`
	Length    int    `json:"length"` // True block length; divides the unit width
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Remaining int    `json:"remaining"`
}

// PlanSettings holds the raw-unit geometry the planner packs against.
type PlanSettings struct {
	FixedHeight   int  `json:"fixed_height"`    // Cross dimension shared by every product, mm
	UnitWidth     int  `json:"unit_width"`      // Raw unit cross width, mm
	UnitLength    int  `json:"unit_length"`     // Raw unit length (packing capacity), mm
	ByProductStep int  `json:"by_product_step"` // By-product thickness is rounded down to this
	Parallel      bool `json:"parallel"`        // Pack width groups concurrently
}

func DefaultSettings() PlanSettings {
	return PlanSettings{
		FixedHeight:   600,
		UnitWidth:     1200,
		UnitLength:    6000,
		ByProductStep: 100,
		Parallel:      false,
	}
}

// Validate reports the first unusable setting.
func (s PlanSettings) Validate() error {
	switch {
	case s.FixedHeight <= 0:
		return NewConfigError("fixed height must be positive")
	case s.UnitWidth <= 0:
		return NewConfigError("unit width must be positive")
	case s.UnitLength <= 0:
		return NewConfigError("unit length must be positive")
	case s.ByProductStep < 1:
		return NewConfigError("by-product step must be at least 1")
	}
	return nil
}
