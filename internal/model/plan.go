package model

import (
	"time"

	"github.com/google/uuid"
)

// Cut is one length in a pattern together with the rows it takes per mold.
type Cut struct {
	Length int `json:"length"`
	Rows   int `json:"rows"`
}

// Pattern is one realized cutting pattern: the distinct lengths cut together
// from a raw unit and how many molds repeat it.
type Pattern struct {
	Index     int   `json:"pattern_index"` // 1-based, in discovery order across the plan
	Width     int   `json:"width"`
	Cuts      []Cut `json:"cuts"` // Descending length, as selected
	MoldCount int   `json:"mold_count"`
}

// Lengths returns the pattern's lengths in selection order.
func (p Pattern) Lengths() []int {
	lengths := make([]int, len(p.Cuts))
	for i, c := range p.Cuts {
		lengths[i] = c.Length
	}
	return lengths
}

// RowsFor returns the rows allocated to length per mold, 0 if absent.
func (p Pattern) RowsFor(length int) int {
	for _, c := range p.Cuts {
		if c.Length == length {
			return c.Rows
		}
	}
	return 0
}

// UsedLength returns the raw-unit length consumed by one mold.
func (p Pattern) UsedLength() int {
	used := 0
	for _, c := range p.Cuts {
		used += c.Length * c.Rows
	}
	return used
}

// Waste returns the raw-unit length left over per mold.
func (p Pattern) Waste(capacity int) int {
	return capacity - p.UsedLength()
}

// PlanRow is one output line: one (pattern, length) pair.
type PlanRow struct {
	PatternIndex      int         `json:"pattern_index"`
	ProductType       ProductType `json:"product_type"`
	Length            int         `json:"length"`
	Width             int         `json:"width"`
	Height            int         `json:"height"`
	RowsPerUnitWidth  int         `json:"rows_per_unit_width"`
	RowCount          int         `json:"row_count"`
	MoldCount         int         `json:"mold_count"`
	Quantity          int         `json:"quantity"`
	ByProductDims     *string     `json:"by_product_dimensions"`
	ByProductQuantity *int        `json:"by_product_quantity"`
}

// HasByProduct reports whether the row carries a by-product descriptor.
func (r PlanRow) HasByProduct() bool {
	return r.ByProductDims != nil
}

// Plan is the full production plan for one order book.
type Plan struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Settings  PlanSettings `json:"settings"`
	Patterns  []Pattern    `json:"patterns"`
	Rows      []PlanRow    `json:"rows"`
}

func NewPlan(settings PlanSettings) Plan {
	return Plan{
		ID:        uuid.New().String()[:8],
		CreatedAt: time.Now().UTC(),
		Settings:  settings,
		Patterns:  []Pattern{},
		Rows:      []PlanRow{},
	}
}

// PlanSummary aggregates a plan for reports and scenario comparison.
type PlanSummary struct {
	PatternCount      int     `json:"pattern_count"`
	TotalMolds        int     `json:"total_molds"`
	TotalQuantity     int     `json:"total_quantity"`
	ByProductQuantity int     `json:"by_product_quantity"`
	Utilization       float64 `json:"utilization"` // Percent of raw-unit length used across all molds
}

// Summary computes the plan's totals.
func (p Plan) Summary() PlanSummary {
	s := PlanSummary{PatternCount: len(p.Patterns)}
	var used, total int
	for _, pat := range p.Patterns {
		s.TotalMolds += pat.MoldCount
		used += pat.UsedLength() * pat.MoldCount
		total += p.Settings.UnitLength * pat.MoldCount
	}
	for _, r := range p.Rows {
		s.TotalQuantity += r.Quantity
		if r.ByProductQuantity != nil {
			s.ByProductQuantity += *r.ByProductQuantity
		}
	}
	if total > 0 {
		s.Utilization = float64(used) / float64(total) * 100.0
	}
	return s
}
