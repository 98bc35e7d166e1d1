package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

func newTestEngine(t *testing.T, metadata MetadataCallback) *AlphaBeta {
	t.Helper()
	eng, err := New(AlphaBetaName, metadata, nil, nil, nil)
	require.NoError(t, err)
	return eng.(*AlphaBeta)
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := board.FromFEN("6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1")
	require.NoError(t, err)

	var lastEval int
	eng := newTestEngine(t, func(md SearchMetadata) { lastEval = md.Eval })
	pv := eng.Search(pos, Limits{Depth: 3})

	require.NotEmpty(t, pv)
	assert.Equal(t, "e1e8", pv[0].String())
	assert.GreaterOrEqual(t, lastEval, mateThreshold, "mate scores dominate material")
}

func TestSearchAvoidsMateInOne(t *testing.T) {
	// Black to move with the back rank hanging: anything but creating
	// luft or defending loses; the search must at least not hang mate.
	pos, err := board.FromFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 b - - 0 1")
	require.NoError(t, err)

	eng := newTestEngine(t, nil)
	pv := eng.Search(pos, Limits{Depth: 4})
	require.NotEmpty(t, pv)

	// Make black's chosen move, then let white search for the mate; it
	// must not exist.
	m := pv[0]
	pos.MakeMove(&m)
	reply := newTestEngine(t, nil)
	replyPV := reply.Search(pos, Limits{Depth: 2})
	require.NotEmpty(t, replyPV)
	wm := replyPV[0]
	pos.MakeMove(&wm)
	assert.Equal(t, board.GameInProgress, pos.GameStatus())
}

func TestSearchWinsHangingQueen(t *testing.T) {
	// The rook takes the undefended queen; quiescence keeps the capture
	// from being horizon noise.
	pos, err := board.FromFEN("k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")
	require.NoError(t, err)

	eng := newTestEngine(t, nil)
	pv := eng.Search(pos, Limits{Depth: 4})
	require.NotEmpty(t, pv)
	assert.Equal(t, "d2d5", pv[0].String())
}

func TestSearchReportsIncreasingDepths(t *testing.T) {
	pos := board.NewPosition()
	var depths []int
	eng := newTestEngine(t, func(md SearchMetadata) { depths = append(depths, md.Depth) })
	eng.Search(pos, Limits{Depth: 4})

	require.Len(t, depths, 4)
	for i, d := range depths {
		assert.Equal(t, i+1, d, "iterations report strictly increasing depths")
	}
}

func TestSearchPVLengthMatchesDepth(t *testing.T) {
	pos := board.NewPosition()
	eng := newTestEngine(t, nil)
	pv := eng.Search(pos, Limits{Depth: 4})
	assert.Len(t, pv, 4, "a quiet middlegame line reaches full depth")

	// The PV must be a playable line.
	walk := pos.Clone()
	for _, m := range pv {
		var list board.MoveList
		walk.GenerateMoves(&list)
		require.True(t, list.Contains(m), "PV move %s is not legal", m)
		mm := m
		walk.MakeMove(&mm)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	pos, err := board.FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	eng := newTestEngine(t, nil)
	assert.Empty(t, eng.Search(pos, Limits{Depth: 3}))
}

func TestSearchAbortKeepsLastCompletedIteration(t *testing.T) {
	pos := board.NewPosition()

	aborted := false
	eng, err := New(AlphaBetaName, nil, nil, func() bool { return aborted }, nil)
	require.NoError(t, err)
	ab := eng.(*AlphaBeta)

	// A tiny node limit stops the deepening early but the last finished
	// iteration's move survives.
	pv := ab.Search(pos, Limits{Depth: 50, Nodes: 50_000})
	assert.NotEmpty(t, pv)
	assert.Less(t, ab.Nodes(), uint64(60_000))
}

func TestSearchHonorsTimeBudget(t *testing.T) {
	pos := board.NewPosition()

	// A synthetic clock that jumps far past the budget after the first
	// read makes the test independent of machine speed.
	calls := 0
	clock := func() time.Duration {
		calls++
		if calls == 1 {
			return 0
		}
		return time.Hour
	}
	eng, err := New(AlphaBetaName, nil, nil, nil, clock)
	require.NoError(t, err)

	pv := eng.Search(pos, Limits{Depth: 50, TimeBudget: time.Second})
	// Depth 50 is unreachable; the search must have stopped early yet kept
	// a completed iteration if one finished before the first poll.
	assert.True(t, len(pv) <= 50)
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	pos := board.NewPosition()
	before := pos.Clone()
	eng := newTestEngine(t, nil)
	eng.Search(pos, Limits{Depth: 3})
	assert.True(t, pos.Equal(before))
}

func TestQuiescenceEvalResolvesCaptures(t *testing.T) {
	// White to move with a hanging queen on offer: static eval is behind,
	// quiescence sees the capture and turns the score around.
	pos, err := board.FromFEN("k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")
	require.NoError(t, err)

	eng := newTestEngine(t, nil)
	static := pos.Evaluate()
	quiesced := eng.QuiescenceEval(pos)
	assert.Greater(t, quiesced, static, "resolving the capture improves white's score")
	assert.Greater(t, quiesced, 0)
}
