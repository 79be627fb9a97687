package engine

import (
	"github.com/amyrzhang/productionSchedule/internal/model"
)

// blockQueue holds one width's true block demand, drawn down in order as
// folded unit-width slots are realized.
type blockQueue struct {
	unitWidth int
	entries   []model.BlockEntry
}

func newBlockQueue(entries []model.BlockEntry, unitWidth int) *blockQueue {
	// Private copy: the caller's entries are never mutated.
	q := &blockQueue{unitWidth: unitWidth, entries: make([]model.BlockEntry, len(entries))}
	copy(q.entries, entries)
	return q
}

func (q *blockQueue) empty() bool {
	return len(q.entries) == 0
}

// blockDraw is the quantity of one block length drawn from a slot.
type blockDraw struct {
	Length   int
	Height   int
	Quantity int
}

// draw consumes up to units folded slots from the queue head onward. Each
// slot holds unitWidth/length blocks of the head's length. It returns the
// draws merged per block length, in first-drawn order, and the slots left
// unused once the queue is empty.
func (q *blockQueue) draw(units int) ([]blockDraw, int) {
	var draws []blockDraw
	pos := make(map[int]int)

	for units > 0 && !q.empty() {
		head := &q.entries[0]
		segments := q.unitWidth / head.Length

		take := min(head.Remaining, units*segments)
		head.Remaining -= take
		units -= ceilDiv(take, segments)

		if i, ok := pos[head.Length]; ok {
			draws[i].Quantity += take
		} else {
			pos[head.Length] = len(draws)
			draws = append(draws, blockDraw{Length: head.Length, Height: head.Height, Quantity: take})
		}

		if head.Remaining == 0 {
			q.entries = q.entries[1:]
		}
	}
	return draws, units
}

// remaining returns the blocks still owed by the queue.
func (q *blockQueue) remaining() int {
	total := 0
	for _, e := range q.entries {
		total += e.Remaining
	}
	return total
}
