package board

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateAlgebraic(t *testing.T, fen string) []string {
	t.Helper()
	pos, err := FromFEN(fen)
	require.NoError(t, err)
	var list MoveList
	pos.GenerateMoves(&list)
	moves := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		moves = append(moves, list.Get(i).String())
	}
	sort.Strings(moves)
	return moves
}

func assertMoves(t *testing.T, fen string, expected []string) {
	t.Helper()
	sort.Strings(expected)
	assert.Equal(t, expected, generateAlgebraic(t, fen), "moves for %s", fen)
}

func TestStartingPositionMoves(t *testing.T) {
	moves := generateAlgebraic(t, StartFEN)
	assert.Len(t, moves, 20)
	for _, want := range []string{"e2e4", "d2d4", "g1f3", "b1c3", "a2a3", "h2h4"} {
		assert.Contains(t, moves, want)
	}
}

func TestPinnedKnightCannotMove(t *testing.T) {
	moves := generateAlgebraic(t, "4r2k/8/8/8/8/4N3/8/4K3 w - - 0 1")
	for _, m := range moves {
		assert.False(t, strings.HasPrefix(m, "e3"), "pinned knight moved: %s", m)
	}
}

func TestPinnedRookSlidesAlongPin(t *testing.T) {
	assertMoves(t, "4r2k/8/8/8/8/4R3/8/4K3 w - - 0 1", []string{
		"e3e2", "e3e4", "e3e5", "e3e6", "e3e7", "e3e8",
		"e1d1", "e1d2", "e1e2", "e1f1", "e1f2",
	})
}

func TestDiagonallyPinnedBishop(t *testing.T) {
	assertMoves(t, "k7/8/8/8/7b/8/5B2/4K3 w - - 0 1", []string{
		"f2g3", "f2h4",
		"e1d1", "e1d2", "e1e2", "e1f1",
	})
}

func TestVerticallyPinnedPawnMayPush(t *testing.T) {
	assertMoves(t, "4r2k/8/8/8/3p1p2/4P3/8/4K3 w - - 0 1", []string{
		"e3e4",
		"e1d1", "e1d2", "e1e2", "e1f1", "e1f2",
	})
}

func TestHorizontallyPinnedPawnCannotMove(t *testing.T) {
	assertMoves(t, "7k/8/8/8/r3P2K/8/8/8 w - - 0 1", []string{
		"h4g3", "h4g4", "h4g5", "h4h3", "h4h5",
	})
}

func TestDiagonallyPinnedPawnCapturesPinner(t *testing.T) {
	assertMoves(t, "7k/8/8/8/2b5/3P4/8/5K2 w - - 0 1", []string{
		"d3c4",
		"f1e1", "f1e2", "f1f2", "f1g1", "f1g2",
	})
}

func TestCheckEvasions(t *testing.T) {
	// Single rook check: block with the bishop or step the king off the
	// file (e2 stays attacked, d2 holds our own bishop).
	assertMoves(t, "4r2k/8/8/8/8/8/3B4/4K3 w - - 0 1", []string{
		"d2e3",
		"e1d1", "e1f1", "e1f2",
	})
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	moves := generateAlgebraic(t, "4r2k/8/8/8/7b/8/8/4K3 w - - 0 1")
	require.NotEmpty(t, moves)
	for _, m := range moves {
		assert.True(t, strings.HasPrefix(m, "e1"), "non-king move in double check: %s", m)
	}
}

func TestCastlingLegality(t *testing.T) {
	moves := generateAlgebraic(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	assert.Contains(t, moves, "e1g1")
	assert.Contains(t, moves, "e1c1")

	moves = generateAlgebraic(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	assert.Contains(t, moves, "e8g8")
	assert.Contains(t, moves, "e8c8")

	// No rights, no castling.
	moves = generateAlgebraic(t, "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	assert.NotContains(t, moves, "e1g1")
	assert.NotContains(t, moves, "e1c1")

	// An occupied lane bars that side only.
	moves = generateAlgebraic(t, "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1")
	assert.Contains(t, moves, "e1g1")
	assert.NotContains(t, moves, "e1c1")

	// A rook eyeing f2-f1 bars the kingside (the king would pass through
	// check) but not the queenside.
	moves = generateAlgebraic(t, "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1")
	assert.NotContains(t, moves, "e1g1")
	assert.Contains(t, moves, "e1c1")

	// In check: no castling at all.
	moves = generateAlgebraic(t, "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1")
	assert.NotContains(t, moves, "e1g1")
	assert.NotContains(t, moves, "e1c1")

	// The b1 square may be attacked: the king never crosses it.
	moves = generateAlgebraic(t, "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1")
	assert.Contains(t, moves, "e1c1")
}

func TestEnPassantDiscoveredCheck(t *testing.T) {
	// Capturing en passant would empty the rank between the rook and the
	// king: the capture must not be generated.
	moves := generateAlgebraic(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	assert.NotContains(t, moves, "e4d3")
	assert.Len(t, moves, 6)
}

func TestEnPassantResolvesCheck(t *testing.T) {
	// The double-pushed pawn itself gives check; taking it en passant
	// resolves the check, so the capture must be generated.
	moves := generateAlgebraic(t, "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1")
	assert.Contains(t, moves, "e4d3")
}

func TestPromotionMoves(t *testing.T) {
	moves := generateAlgebraic(t, "3n4/4P3/8/8/8/8/8/k3K3 w - - 0 1")
	for _, want := range []string{
		"e7e8q", "e7e8r", "e7e8b", "e7e8n",
		"e7d8q", "e7d8r", "e7d8b", "e7d8n",
	} {
		assert.Contains(t, moves, want)
	}
}

func TestGenerateCaptures(t *testing.T) {
	// No capture available: the pawn attacks empty squares only.
	pos, err := FromFEN("k7/4p3/8/5Q2/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)
	var list MoveList
	pos.GenerateCaptures(&list)
	assert.Zero(t, list.Len())

	// Pawn takes queen, which also happens to resolve the diagonal check.
	pos, err = FromFEN("k7/8/4p3/3Q4/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)
	list.Clear()
	pos.GenerateCaptures(&list)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, "e6d5", list.Get(0).String())
	assert.Equal(t, WhiteQueen, list.Get(0).Captured)
}

func TestCapturesIncludePromotions(t *testing.T) {
	pos, err := FromFEN("8/4P3/8/8/8/8/8/k3K3 w - - 0 1")
	require.NoError(t, err)
	var list MoveList
	pos.GenerateCaptures(&list)
	moves := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		moves = append(moves, list.Get(i).String())
	}
	for _, want := range []string{"e7e8q", "e7e8r", "e7e8b", "e7e8n"} {
		assert.Contains(t, moves, want)
	}
}

func TestResultTagging(t *testing.T) {
	pos, err := FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	var list MoveList
	pos.GenerateMoves(&list)
	assert.Zero(t, list.Len())
	assert.Equal(t, Loss, list.Result())

	pos, err = FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	list.Clear()
	pos.GenerateMoves(&list)
	assert.Zero(t, list.Len())
	assert.Equal(t, Stalemate, list.Result())

	list.Clear()
	NewPosition().GenerateMoves(&list)
	assert.Equal(t, InProgress, list.Result())
}

// TestGeneratorLegality makes every generated move to depth 2 in the
// reference positions and verifies the mover's king is never left attacked;
// completeness against the independent community counts is covered by the
// perft tests.
func TestGeneratorLegality(t *testing.T) {
	fens := []string{StartFEN, kiwipeteFEN, position3FEN, position4FEN, position5FEN, position6FEN}
	pool := NewMoveListPool(8)

	for _, fen := range fens {
		pos, err := FromFEN(fen)
		require.NoError(t, err)
		verifyLegality(t, pos, 2, pool)
	}
}

func verifyLegality(t *testing.T, pos *Position, depth int, pool *MoveListPool) {
	t.Helper()
	list := pool.Get()
	defer pool.Put(list)
	pos.GenerateMoves(list)

	us := pos.SideToMove()
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		pos.MakeMove(&m)
		white, black := pos.Occupancy()
		attacked := pos.attackersOf(pos.KingSquare(us), us.Other(), white|black)
		require.Zero(t, attacked, "move %s leaves the king in check in %s", m, pos.ToFEN())
		if depth > 1 {
			verifyLegality(t, pos, depth-1, pool)
		}
		pos.UnmakeMove(&m)
	}
}
