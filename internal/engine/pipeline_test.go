package engine

import (
	"testing"

	"github.com/amyrzhang/productionSchedule/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(typ model.ProductType, standards string, a, b, c, qty int) model.OrderLine {
	return model.OrderLine{Type: typ, Standards: standards, Size1: a, Size2: b, Size3: c, Quantity: qty}
}

func TestNormalizeGeometry(t *testing.T) {
	s := model.DefaultSettings()

	tests := []struct {
		name          string
		in            model.OrderLine
		length, width int
		wantErrCode   model.ErrorCode
	}{
		{name: "panel", in: order(model.ProductPanel, "B06", 2720, 100, 600, 1), length: 2720, width: 100},
		{name: "panel any axis order", in: order(model.ProductPanel, "B06", 600, 150, 3000, 1), length: 3000, width: 150},
		{name: "block keeps dividing side", in: order(model.ProductBlock, "A35", 600, 100, 200, 1), length: 200, width: 100},
		{name: "block swaps to dividing side", in: order(model.ProductBlock, "A35", 600, 300, 700, 1), length: 300, width: 700},
		{name: "block with two fixed sides", in: order(model.ProductBlock, "A35", 600, 600, 240, 1), length: 600, width: 240},
		{name: "panel with two fixed sides", in: order(model.ProductPanel, "B06", 600, 600, 100, 1), wantErrCode: model.CodeGeometry},
		{name: "panel without fixed side", in: order(model.ProductPanel, "B06", 100, 200, 300, 1), wantErrCode: model.CodeGeometry},
		{name: "block without fixed side", in: order(model.ProductBlock, "A35", 100, 200, 300, 1), wantErrCode: model.CodeGeometry},
		{name: "block without dividing side", in: order(model.ProductBlock, "A35", 600, 700, 500, 1), wantErrCode: model.CodeGeometry},
		{name: "panel longer than unit", in: order(model.ProductPanel, "B06", 7000, 100, 600, 1), wantErrCode: model.CodeGeometry},
		{name: "panel wider than unit", in: order(model.ProductPanel, "B06", 2720, 1300, 600, 1), wantErrCode: model.CodeGeometry},
		{name: "zero dimension", in: order(model.ProductPanel, "B06", 2720, 0, 600, 1), wantErrCode: model.CodeSchema},
		{name: "zero quantity", in: order(model.ProductPanel, "B06", 2720, 100, 600, 0), wantErrCode: model.CodeSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := normalizeGeometry(tt.in, s)
			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.True(t, model.IsCode(err, tt.wantErrCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.length, p.Length)
			assert.Equal(t, tt.width, p.Width)
			assert.Equal(t, s.FixedHeight, p.Height)
			assert.Equal(t, tt.in.Quantity, p.Quantity)
		})
	}
}

func TestNormalizeOrders_MergesAndSorts(t *testing.T) {
	s := model.DefaultSettings()
	orders := []model.OrderLine{
		order(model.ProductPanel, "B06", 1500, 100, 600, 10),
		order(model.ProductPanel, "B06", 600, 2720, 150, 5),
		order(model.ProductPanel, "B06", 100, 600, 1500, 7),
		order(model.ProductPanel, "B06", 2720, 100, 600, 3),
	}

	products, err := normalizeOrders(orders, s)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, 150, products[0].Width)
	assert.Equal(t, 2720, products[1].Length)
	assert.Equal(t, 100, products[1].Width)
	assert.Equal(t, 1500, products[2].Length)
	assert.Equal(t, 17, products[2].Quantity)
}

func TestNormalizeOrders_RejectsWholeBatch(t *testing.T) {
	orders := []model.OrderLine{
		order(model.ProductPanel, "B06", 2720, 100, 600, 3),
		order(model.ProductPanel, "B06", 600, 600, 100, 3),
	}
	products, err := normalizeOrders(orders, model.DefaultSettings())
	require.Error(t, err)
	assert.Nil(t, products)
}

func TestFoldBlocks_Block200(t *testing.T) {
	s := model.DefaultSettings()
	products := []model.NormalizedProduct{
		{Type: model.ProductBlock, Standards: "A35", Length: 200, Width: 100, Height: 600, Quantity: 100},
		{Type: model.ProductPanel, Standards: "B06", Length: 2720, Width: 100, Height: 600, Quantity: 30},
	}

	folded, queues := foldBlocks(products, s)
	require.Len(t, folded, 2)

	assert.Equal(t, 1200, folded[0].Length)
	assert.Equal(t, 17, folded[0].Quantity)
	assert.Equal(t, model.ProductBlock, folded[0].Type)
	assert.Equal(t, products[1], folded[1])

	require.Len(t, queues[100], 1)
	assert.Equal(t, model.BlockEntry{Standards: "A35", Length: 200, Width: 100, Height: 600, Remaining: 100}, queues[100][0])
}

func TestAggregateDemand_SinglePanel(t *testing.T) {
	records := aggregateDemand([]model.NormalizedProduct{
		{Type: model.ProductPanel, Standards: "B06", Length: 2720, Width: 100, Height: 600, Quantity: 30},
	}, model.DefaultSettings())

	require.Len(t, records, 1)
	assert.Equal(t, 12, records[0].RowsPerUnitWidth)
	assert.Equal(t, 3, records[0].TotalRows)
	assert.Equal(t, 30, records[0].TotalQuantity)
}

func TestAggregateDemand_SortAndPartition(t *testing.T) {
	products := []model.NormalizedProduct{
		{Type: model.ProductPanel, Standards: "B06", Length: 1500, Width: 100, Height: 600, Quantity: 12},
		{Type: model.ProductPanel, Standards: "B06", Length: 3000, Width: 200, Height: 600, Quantity: 6},
		{Type: model.ProductPanel, Standards: "B06", Length: 2720, Width: 100, Height: 600, Quantity: 12},
		{Type: model.ProductPanel, Standards: "B07", Length: 1500, Width: 100, Height: 600, Quantity: 1},
	}

	groups := partitionByWidth(aggregateDemand(products, model.DefaultSettings()))
	require.Len(t, groups, 2)

	assert.Equal(t, 200, groups[0].Width)
	assert.Len(t, groups[0].Records, 1)

	assert.Equal(t, 100, groups[1].Width)
	require.Len(t, groups[1].Records, 3)
	assert.Equal(t, 2720, groups[1].Records[0].Length)
	assert.Equal(t, "B06", groups[1].Records[1].Standards)
	assert.Equal(t, "B07", groups[1].Records[2].Standards)

	// Records sharing a length add their rows.
	assert.Equal(t, map[int]int{2720: 1, 1500: 2}, groups[1].RowsByLength())
}

func TestBlockQueue_DrawsTrueQuantity(t *testing.T) {
	entries := []model.BlockEntry{{Standards: "A35", Length: 200, Width: 100, Height: 600, Remaining: 100}}
	q := newBlockQueue(entries, 1200)

	draws, left := q.draw(24)
	require.Len(t, draws, 1)
	assert.Equal(t, blockDraw{Length: 200, Height: 600, Quantity: 100}, draws[0])
	assert.Equal(t, 24-17, left)
	assert.True(t, q.empty())

	// The caller's entries are untouched.
	assert.Equal(t, 100, entries[0].Remaining)
}

func TestBlockQueue_SpillsIntoNextEntry(t *testing.T) {
	q := newBlockQueue([]model.BlockEntry{
		{Length: 300, Height: 600, Remaining: 10},
		{Length: 200, Height: 600, Remaining: 5},
	}, 1200)

	draws, left := q.draw(4)
	assert.Equal(t, []blockDraw{
		{Length: 300, Height: 600, Quantity: 10},
		{Length: 200, Height: 600, Quantity: 5},
	}, draws)
	assert.Equal(t, 0, left)
	assert.True(t, q.empty())
}

func TestBlockQueue_PartialDraw(t *testing.T) {
	q := newBlockQueue([]model.BlockEntry{{Length: 200, Height: 600, Remaining: 100}}, 1200)

	draws, left := q.draw(10)
	assert.Equal(t, []blockDraw{{Length: 200, Height: 600, Quantity: 60}}, draws)
	assert.Equal(t, 0, left)
	assert.False(t, q.empty())
	assert.Equal(t, 40, q.remaining())
}

func TestByProductThickness(t *testing.T) {
	s := model.DefaultSettings()

	assert.Equal(t, 0, byProductThickness(100, s), "exact tiling")
	assert.Equal(t, 0, byProductThickness(130, s), "30mm remnant rounds to zero")
	assert.Equal(t, 200, byProductThickness(250, s))
	assert.Equal(t, 100, byProductThickness(350, s))
}

func TestAttachByProduct(t *testing.T) {
	s := model.DefaultSettings()

	row := model.PlanRow{Length: 2000, Width: 250, Height: 600, RowCount: 2, MoldCount: 3}
	attachByProduct(&row, s)
	require.True(t, row.HasByProduct())
	assert.Equal(t, "2000*200*600", *row.ByProductDims)
	assert.Equal(t, 6, *row.ByProductQuantity)

	exact := model.PlanRow{Length: 2000, Width: 120, Height: 600, RowCount: 2, MoldCount: 3}
	attachByProduct(&exact, s)
	assert.False(t, exact.HasByProduct())
	assert.Nil(t, exact.ByProductQuantity)
}
