package engine

import (
	"fmt"
	"sort"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// normalizeGeometry canonicalizes an order's raw dimensions into
// (length, width, fixed height).
//
// Panels must have exactly one side equal to the fixed height; the larger of
// the other two is the length. Blocks drop one fixed-height side and then
// take whichever remaining side divides the unit width as the length.
func normalizeGeometry(o model.OrderLine, s model.PlanSettings) (model.NormalizedProduct, error) {
	sizes := o.Sizes()
	for _, v := range sizes {
		if v <= 0 {
			return model.NormalizedProduct{}, model.NewSchemaError("dimensions must be positive").
				WithDetail(describeOrder(o))
		}
	}
	if o.Quantity <= 0 {
		return model.NormalizedProduct{}, model.NewSchemaError("quantity must be positive").
			WithDetail(describeOrder(o))
	}

	fixed := 0
	for _, v := range sizes {
		if v == s.FixedHeight {
			fixed++
		}
	}

	var others []int
	switch o.Type {
	case model.ProductBlock:
		if fixed == 0 {
			return model.NormalizedProduct{}, model.NewGeometryError("block has no side equal to the fixed height %d", s.FixedHeight).
				WithDetail(describeOrder(o))
		}
		others = dropFirst(sizes, s.FixedHeight)
	default:
		if fixed != 1 {
			return model.NormalizedProduct{}, model.NewGeometryError("panel orientation is ambiguous: %d sides equal the fixed height %d", fixed, s.FixedHeight).
				WithDetail(describeOrder(o))
		}
		others = dropFirst(sizes, s.FixedHeight)
	}

	length, width := others[0], others[1]
	if width > length {
		length, width = width, length
	}

	if o.Type == model.ProductBlock {
		if s.UnitWidth%length != 0 {
			length, width = width, length
		}
		if s.UnitWidth%length != 0 {
			return model.NormalizedProduct{}, model.NewGeometryError("block has no side dividing the unit width %d", s.UnitWidth).
				WithDetail(describeOrder(o))
		}
		if s.UnitWidth > s.UnitLength {
			return model.NormalizedProduct{}, model.NewGeometryError("unit width %d exceeds unit length %d, blocks cannot be folded", s.UnitWidth, s.UnitLength).
				WithDetail(describeOrder(o))
		}
	} else if length > s.UnitLength {
		return model.NormalizedProduct{}, model.NewGeometryError("panel length %d exceeds unit length %d", length, s.UnitLength).
			WithDetail(describeOrder(o))
	}

	if width > s.UnitWidth {
		return model.NormalizedProduct{}, model.NewGeometryError("width %d exceeds unit width %d", width, s.UnitWidth).
			WithDetail(describeOrder(o))
	}

	return model.NormalizedProduct{
		Type:      o.Type,
		Standards: o.Standards,
		Length:    length,
		Width:     width,
		Height:    s.FixedHeight,
		Quantity:  o.Quantity,
	}, nil
}

// dropFirst returns sizes with the first occurrence of v removed.
func dropFirst(sizes [3]int, v int) []int {
	out := make([]int, 0, 2)
	dropped := false
	for _, x := range sizes {
		if !dropped && x == v {
			dropped = true
			continue
		}
		out = append(out, x)
	}
	return out
}

// normalizeOrders canonicalizes every order and merges lines that describe the
// same product. Any malformed line rejects the whole batch.
func normalizeOrders(orders []model.OrderLine, s model.PlanSettings) ([]model.NormalizedProduct, error) {
	type productKey struct {
		typ       model.ProductType
		standards string
		length    int
		width     int
	}

	index := make(map[productKey]int)
	var products []model.NormalizedProduct
	for _, o := range orders {
		p, err := normalizeGeometry(o, s)
		if err != nil {
			return nil, err
		}
		key := productKey{p.Type, p.Standards, p.Length, p.Width}
		if i, ok := index[key]; ok {
			products[i].Quantity += p.Quantity
			continue
		}
		index[key] = len(products)
		products = append(products, p)
	}

	// Canonical order keeps the plan independent of input row order.
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Standards < b.Standards
	})
	return products, nil
}

// foldBlocks rewrites block products as opaque unit-width slots so they can be
// packed alongside panels. The true block demand is kept per width, in
// canonical order, for reinjection after packing.
func foldBlocks(products []model.NormalizedProduct, s model.PlanSettings) ([]model.NormalizedProduct, map[int][]model.BlockEntry) {
	queues := make(map[int][]model.BlockEntry)
	folded := make([]model.NormalizedProduct, 0, len(products))
	for _, p := range products {
		if p.Type != model.ProductBlock {
			folded = append(folded, p)
			continue
		}
		segments := s.UnitWidth / p.Length
		queues[p.Width] = append(queues[p.Width], model.BlockEntry{
			Standards: p.Standards,
			Length:    p.Length,
			Width:     p.Width,
			Height:    p.Height,
			Remaining: p.Quantity,
		})
		fp := p
		fp.Length = s.UnitWidth
		fp.Quantity = ceilDiv(p.Quantity, segments)
		folded = append(folded, fp)
	}
	return folded, queues
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func describeOrder(o model.OrderLine) string {
	return fmt.Sprintf("%s %s %dx%dx%d qty %d", o.Type, o.Standards, o.Size1, o.Size2, o.Size3, o.Quantity)
}
