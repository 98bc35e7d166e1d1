package engine

import (
	"math"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

// Move-ordering scores. The expected PV move sorts above everything,
// captures sort by most-valuable-victim/least-valuable-attacker, quiet moves
// sort last.
const (
	pvMoveScore    = math.MaxInt32
	quietMoveScore = math.MinInt32
)

func captureScore(pos *board.Position, m board.Move) int {
	if m.IsQuiet() {
		return quietMoveScore
	}
	return m.Captured.Value() - pos.PieceAt(m.From).Value()
}

// sortMoves orders the list for a node expecting pvDepth further moves from
// the previous iteration's line. When that line still has a move queued for
// this level it is consumed and pinned to the front; consuming from the
// reversed line means the priority applies exactly along the leftmost (PV)
// path.
func sortMoves(pos *board.Position, list *board.MoveList, pvDepth int, reversedPV *[]board.Move) {
	var scores [board.MaxMoves]int
	moves := list.Slice()

	if n := len(*reversedPV); pvDepth > 0 && n >= pvDepth {
		pvMove := (*reversedPV)[n-1]
		*reversedPV = (*reversedPV)[:n-1]
		for i, m := range moves {
			if m.SameAs(pvMove) {
				scores[i] = pvMoveScore
			} else {
				scores[i] = captureScore(pos, m)
			}
		}
	} else {
		for i, m := range moves {
			scores[i] = captureScore(pos, m)
		}
	}

	insertionSort(scores[:len(moves)], moves)
}

// sortCaptures orders a captures-only list by the capture key.
func sortCaptures(pos *board.Position, list *board.MoveList) {
	var scores [board.MaxMoves]int
	moves := list.Slice()
	for i, m := range moves {
		scores[i] = captureScore(pos, m)
	}
	insertionSort(scores[:len(moves)], moves)
}

// insertionSort sorts both slices by descending key. Stable, and cheap at
// the list sizes move generation produces.
func insertionSort(keys []int, values []board.Move) {
	for i := 1; i < len(keys); i++ {
		key := keys[i]
		value := values[i]
		j := i
		for j > 0 && keys[j-1] < key {
			keys[j] = keys[j-1]
			values[j] = values[j-1]
			j--
		}
		keys[j] = key
		values[j] = value
	}
}
