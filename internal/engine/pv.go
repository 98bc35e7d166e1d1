package engine

import "github.com/wsandst/magnificence-oxidized-chess/internal/board"

// PrincipalVariation is a flat maxDepth x maxDepth move table. Row r holds
// the best line found from the nodes searched with maxDepth-r remaining
// plies. Recording a best move at a depth copies the deeper row's sub-line
// to its right, so when the iteration completes the top row is the full
// principal variation from the root.
type PrincipalVariation struct {
	table    []board.Move
	maxDepth int
}

// NewPrincipalVariation returns an empty PV table; call SetMaxDepth before
// recording moves.
func NewPrincipalVariation() *PrincipalVariation {
	return &PrincipalVariation{}
}

// SetMaxDepth resizes the table for an iteration searching the given depth
// and clears any previous line.
func (pv *PrincipalVariation) SetMaxDepth(depth int) {
	pv.table = make([]board.Move, depth*depth)
	pv.maxDepth = depth
}

// SetBestMove records a new best move found with the given remaining depth
// and pulls the continuation up from the deeper row.
func (pv *PrincipalVariation) SetBestMove(depth int, m board.Move) {
	index := (pv.maxDepth - depth) * pv.maxDepth
	pv.table[index] = m
	if depth == 1 {
		return
	}
	deeper := index + pv.maxDepth
	for i := 0; i < depth-1; i++ {
		pv.table[index+1+i] = pv.table[deeper+i]
	}
}

// PV returns a copy of the principal variation, trimmed at the first empty
// slot (lines end early when they run into mate).
func (pv *PrincipalVariation) PV() []board.Move {
	line := make([]board.Move, 0, pv.maxDepth)
	for _, m := range pv.table[:pv.maxDepth] {
		if m == (board.Move{}) {
			break
		}
		line = append(line, m)
	}
	return line
}
