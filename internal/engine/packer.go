package engine

import (
	"sort"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// maximizeCutting picks the lengths to cut together from one raw unit.
// Candidates are tried largest first and each distinct length is taken at
// most once; a length is accepted when it fits the remaining capacity.
// Selection stops as soon as the unit is filled exactly.
func maximizeCutting(demand map[int]int, capacity int) []int {
	candidates := sortedLengths(demand)

	var chosen []int
	remaining := capacity
	for _, l := range candidates {
		if l > remaining {
			continue
		}
		chosen = append(chosen, l)
		remaining -= l
		if remaining == 0 {
			break
		}
	}
	return chosen
}

// sortedLengths returns the demand's lengths, descending.
func sortedLengths(demand map[int]int) []int {
	lengths := make([]int, 0, len(demand))
	for l := range demand {
		lengths = append(lengths, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	return lengths
}

// Pack runs the greedy mold packing loop over one width group's length→rows
// demand. Patterns are returned in discovery order with Index and Width unset.
//
// Each iteration exhausts at least one length, so the loop runs at most once
// per distinct length. Every pattern's used length stays within capacity and
// each length's production exceeds its demand by less than one mold's rows.
func Pack(demand map[int]int, capacity int) ([]model.Pattern, error) {
	state := make(map[int]int, len(demand))
	for l, rows := range demand {
		if rows <= 0 {
			return nil, model.NewDemandExhaustionError("length %d entered packing with %d rows", l, rows)
		}
		if l <= 0 || l > capacity {
			return nil, model.NewDemandExhaustionError("length %d cannot be cut from a unit of %d", l, capacity)
		}
		state[l] = rows
	}

	var patterns []model.Pattern
	for len(state) > 0 {
		before := totalRows(state)

		lengths := maximizeCutting(state, capacity)
		if len(lengths) == 0 {
			return nil, model.NewDemandExhaustionError("no length fits a unit of %d", capacity)
		}

		cuts, molds := allocateRows(lengths, state, capacity)
		for _, c := range cuts {
			state[c.Length] -= c.Rows * molds
			if state[c.Length] <= 0 {
				delete(state, c.Length)
			}
		}
		patterns = append(patterns, model.Pattern{Cuts: cuts, MoldCount: molds})

		if totalRows(state) >= before {
			return nil, model.NewDemandExhaustionError("packing made no progress with %d rows remaining", before)
		}
	}
	return patterns, nil
}

// allocateRows decides the rows per length and the mold count for one pattern.
//
//   - one length: as many rows as fit, capped by demand
//   - two lengths whose leftover still fits the smaller one: one row each,
//     then extra rows of the larger length, then of the smaller
//   - otherwise: one row per length, molds = smallest demand
func allocateRows(lengths []int, demand map[int]int, capacity int) ([]model.Cut, int) {
	switch {
	case len(lengths) == 1:
		l := lengths[0]
		rows := min(capacity/l, demand[l])
		return []model.Cut{{Length: l, Rows: rows}}, ceilDiv(demand[l], rows)

	case len(lengths) == 2 && capacity-lengths[0]-lengths[1] >= lengths[1]:
		l0, l1 := lengths[0], lengths[1]
		leftover := capacity - l0 - l1
		rows0, rows1 := 1, 1

		extra := leftover / l0
		rows0 += extra
		leftover -= extra * l0

		extra = leftover / l1
		rows1 += extra

		molds := min(ceilDiv(demand[l0], rows0), ceilDiv(demand[l1], rows1))
		return []model.Cut{{Length: l0, Rows: rows0}, {Length: l1, Rows: rows1}}, molds

	default:
		cuts := make([]model.Cut, len(lengths))
		molds := demand[lengths[0]]
		for i, l := range lengths {
			cuts[i] = model.Cut{Length: l, Rows: 1}
			molds = min(molds, demand[l])
		}
		return cuts, molds
	}
}

func totalRows(demand map[int]int) int {
	total := 0
	for _, rows := range demand {
		total += rows
	}
	return total
}
