package engine

import (
	"sort"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// aggregateDemand merges products sharing (type, standards, length, width)
// and derives rows per unit width and total rows. Records come back sorted by
// width then length, both descending; the packer's greedy choice depends on it.
func aggregateDemand(products []model.NormalizedProduct, s model.PlanSettings) []model.DemandRecord {
	type demandKey struct {
		typ       model.ProductType
		standards string
		length    int
		width     int
	}

	index := make(map[demandKey]int)
	var records []model.DemandRecord
	for _, p := range products {
		key := demandKey{p.Type, p.Standards, p.Length, p.Width}
		if i, ok := index[key]; ok {
			records[i].TotalQuantity += p.Quantity
			continue
		}
		index[key] = len(records)
		records = append(records, model.DemandRecord{
			Type:          p.Type,
			Standards:     p.Standards,
			Length:        p.Length,
			Width:         p.Width,
			Height:        p.Height,
			TotalQuantity: p.Quantity,
		})
	}

	kept := records[:0]
	for _, r := range records {
		r.RowsPerUnitWidth = s.UnitWidth / r.Width
		r.TotalRows = ceilDiv(r.TotalQuantity, r.RowsPerUnitWidth)
		if r.TotalRows <= 0 {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
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
	return kept
}

// partitionByWidth splits sorted demand into independent width groups,
// preserving the record order. Packing never mixes two widths.
func partitionByWidth(records []model.DemandRecord) []model.WidthGroup {
	var groups []model.WidthGroup
	for _, r := range records {
		if n := len(groups); n > 0 && groups[n-1].Width == r.Width {
			groups[n-1].Records = append(groups[n-1].Records, r)
			continue
		}
		groups = append(groups, model.WidthGroup{Width: r.Width, Records: []model.DemandRecord{r}})
	}
	return groups
}
