package engine

import (
	"fmt"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// byProductThickness returns the leftover cross-section thickness for width,
// rounded down to the settings' step. Zero means no by-product: either the
// width tiles the unit exactly or the remnant is thinner than one step.
func byProductThickness(width int, s model.PlanSettings) int {
	if s.UnitWidth%width == 0 {
		return 0
	}
	leftover := s.UnitWidth - (s.UnitWidth/width)*width
	return leftover / s.ByProductStep * s.ByProductStep
}

// attachByProduct sets the by-product descriptor on a row when its width
// leaves usable remnant material. The remnant runs the row's full length.
func attachByProduct(row *model.PlanRow, s model.PlanSettings) {
	thickness := byProductThickness(row.Width, s)
	if thickness == 0 {
		return
	}
	dims := fmt.Sprintf("%d*%d*%d", row.Length, thickness, row.Height)
	qty := row.RowCount * row.MoldCount
	row.ByProductDims = &dims
	row.ByProductQuantity = &qty
}
