package engine

import (
	"fmt"
	"time"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

const (
	// infinity bounds the alpha-beta window; no reachable score approaches it.
	infinity = 1 << 30

	// mateThreshold classifies scores as forced mates.
	mateThreshold = board.KingValue * 4

	// abortCheckInterval is how many visited nodes pass between reads of the
	// abort predicate and the clock. Polling keeps atomic fences out of the
	// per-node hot path.
	abortCheckInterval = 1_000_000
)

// AlphaBeta is the full-strength engine: iterative deepening over a
// fail-hard negamax with alpha-beta pruning, a quiescence extension for
// captures and promotions, PV-first move ordering and cooperative abort.
type AlphaBeta struct {
	metadata    MetadataCallback
	info        LogCallback
	shouldAbort AbortCallback
	clock       ClockCallback

	pos  *board.Position
	pool *board.MoveListPool
	pv   *PrincipalVariation

	// reversedPV holds the previous iteration's line, root move last, and is
	// consumed by the move sorter along the leftmost path.
	reversedPV []board.Move

	nodes     uint64
	nextCheck uint64
	nodeLimit uint64
	budget    time.Duration
	started   time.Duration
	aborted   bool
}

func newAlphaBeta(metadata MetadataCallback, info LogCallback, shouldAbort AbortCallback, clock ClockCallback) *AlphaBeta {
	return &AlphaBeta{
		metadata:    metadata,
		info:        info,
		shouldAbort: shouldAbort,
		clock:       clock,
		pool:        board.NewMoveListPool(32),
		pv:          NewPrincipalVariation(),
	}
}

// Name returns the engine's registry name.
func (e *AlphaBeta) Name() string {
	return AlphaBetaName
}

// Nodes returns the node count of the last search.
func (e *AlphaBeta) Nodes() uint64 {
	return e.nodes
}

// Search runs iterative deepening from depth 1 within the given limits and
// returns the best line from the last fully completed iteration. Partial
// results of an aborted iteration are discarded.
func (e *AlphaBeta) Search(pos *board.Position, limits Limits) []board.Move {
	e.pos = pos.Clone()
	e.nodes = 0
	e.nextCheck = abortCheckInterval
	e.nodeLimit = limits.Nodes
	e.budget = limits.TimeBudget
	e.started = e.clock()
	e.aborted = false
	e.reversedPV = e.reversedPV[:0]

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = InfiniteDepth
	}

	var best []board.Move
	for depth := 1; depth <= maxDepth; depth++ {
		e.pv.SetMaxDepth(depth)
		score := e.alphaBeta(depth, -infinity+1, infinity)
		if e.aborted {
			break
		}

		best = e.pv.PV()
		e.metadata(SearchMetadata{Depth: depth, Eval: score, PV: best})

		if score >= mateThreshold || score <= -mateThreshold {
			e.info(fmt.Sprintf("mate found at depth %d", depth))
			break
		}

		e.reversedPV = e.reversedPV[:0]
		for i := len(best) - 1; i >= 0; i-- {
			e.reversedPV = append(e.reversedPV, best[i])
		}
	}
	return best
}

// QuiescenceEval runs a standalone quiescence search on the position,
// resolving pending captures before evaluating. Exposed for the host's
// evaluation command.
func (e *AlphaBeta) QuiescenceEval(pos *board.Position) int {
	e.pos = pos.Clone()
	e.nodes = 0
	e.nextCheck = abortCheckInterval
	e.nodeLimit = 0
	e.budget = 0
	e.started = e.clock()
	e.aborted = false
	return e.quiescence(-infinity+1, infinity)
}

// visitNode counts a node visit and re-reads the abort predicate and the
// clock at the polling interval; the node limit is checked on every visit.
// Returns true once the search should unwind.
func (e *AlphaBeta) visitNode() bool {
	e.nodes++
	if e.nodes >= e.nextCheck {
		e.nextCheck += abortCheckInterval
		if e.shouldAbort() {
			e.aborted = true
		}
		if e.budget > 0 && e.clock()-e.started >= e.budget {
			e.aborted = true
		}
	}
	if e.nodeLimit > 0 && e.nodes >= e.nodeLimit {
		e.aborted = true
	}
	return e.aborted
}

// alphaBeta is the fail-hard negamax. Scores are from the side to move's
// perspective; the recursion swaps and negates the window. On abort it
// returns the running alpha, which the driver discards.
func (e *AlphaBeta) alphaBeta(depth, alpha, beta int) int {
	if e.visitNode() {
		return alpha
	}
	if depth == 0 {
		return e.quiescence(alpha, beta)
	}

	list := e.pool.Get()
	e.pos.GenerateMoves(list)
	switch list.Result() {
	case board.Loss:
		e.pool.Put(list)
		// Deeper mates score lower, so the search prefers the short one.
		return -(board.KingValue*8 + depth)
	case board.Stalemate:
		e.pool.Put(list)
		return 0
	}

	// The previous iteration's line contributes depth-1 moves below a node
	// with this much depth remaining.
	sortMoves(e.pos, list, depth-1, &e.reversedPV)

	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		e.pos.MakeMove(&m)
		score := -e.alphaBeta(depth-1, -beta, -alpha)
		e.pos.UnmakeMove(&m)

		if e.aborted {
			break
		}
		if score > alpha {
			alpha = score
			e.pv.SetBestMove(depth, m)
			if alpha >= beta {
				break
			}
		}
	}

	e.pool.Put(list)
	return alpha
}

// quiescence resolves the tactical noise at the horizon by extending on
// captures and promotions only. The static evaluation stands pat as the
// initial lower bound; exhaustion of the capture chain terminates the
// recursion.
func (e *AlphaBeta) quiescence(alpha, beta int) int {
	if e.visitNode() {
		return alpha
	}

	standPat := e.pos.Evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	list := e.pool.Get()
	e.pos.GenerateCaptures(list)
	sortCaptures(e.pos, list)

	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		e.pos.MakeMove(&m)
		score := -e.quiescence(-beta, -alpha)
		e.pos.UnmakeMove(&m)

		if e.aborted {
			break
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}

	e.pool.Put(list)
	return alpha
}
