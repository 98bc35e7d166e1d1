package board

import "testing"

// The reference tables below are the standard community perft results; they
// exercise every move-generation edge case: castling legality, en-passant
// discovered checks, promotions, pins and double checks. The multi-hundred-
// million node depths live in the Deep variants and are skipped in -short
// runs.

func runPerft(t *testing.T, fen string, expected []uint64) {
	t.Helper()
	pos, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("failed to parse FEN %q: %v", fen, err)
	}
	pool := NewMoveListPool(16)

	before := pos.Clone()
	for depth, want := range expected {
		got := Perft(pos, depth+1, pool)
		if got != want {
			t.Errorf("perft(%d) = %d, want %d", depth+1, got, want)
		}
	}
	if !pos.Equal(before) {
		t.Error("perft mutated the position")
	}
	pos.Validate()
}

func runDeepPerft(t *testing.T, fen string, depth int, want uint64) {
	t.Helper()
	if testing.Short() {
		t.Skipf("perft(%d) is slow", depth)
	}
	pos, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("failed to parse FEN %q: %v", fen, err)
	}
	if got := Perft(pos, depth, NewMoveListPool(16)); got != want {
		t.Errorf("perft(%d) = %d, want %d", depth, got, want)
	}
}

func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []uint64{20, 400, 8902, 197281})
}

func TestPerftStartingPositionDeep(t *testing.T) {
	runDeepPerft(t, StartFEN, 5, 4865609)
}

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftKiwipete(t *testing.T) {
	runPerft(t, kiwipeteFEN, []uint64{48, 2039, 97862})
}

func TestPerftKiwipeteDeep(t *testing.T) {
	runDeepPerft(t, kiwipeteFEN, 4, 4085603)
	runDeepPerft(t, kiwipeteFEN, 5, 193690690)
}

const position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"

func TestPerftPosition3(t *testing.T) {
	runPerft(t, position3FEN, []uint64{14, 191, 2812, 43238, 674624})
}

func TestPerftPosition3Deep(t *testing.T) {
	runDeepPerft(t, position3FEN, 6, 11030083)
}

const position4FEN = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"

func TestPerftPosition4(t *testing.T) {
	runPerft(t, position4FEN, []uint64{6, 264, 9467, 422333})
}

func TestPerftPosition4Deep(t *testing.T) {
	runDeepPerft(t, position4FEN, 5, 15833292)
}

const position5FEN = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"

func TestPerftPosition5(t *testing.T) {
	runPerft(t, position5FEN, []uint64{44, 1486, 62379, 2103487})
}

func TestPerftPosition5Deep(t *testing.T) {
	runDeepPerft(t, position5FEN, 5, 89941194)
}

const position6FEN = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"

func TestPerftPosition6(t *testing.T) {
	runPerft(t, position6FEN, []uint64{46, 2079, 89890})
}

func TestPerftPosition6Deep(t *testing.T) {
	runDeepPerft(t, position6FEN, 4, 3894594)
	runDeepPerft(t, position6FEN, 5, 164075551)
}

func TestDivideMatchesPerft(t *testing.T) {
	pos, err := FromFEN(kiwipeteFEN)
	if err != nil {
		t.Fatal(err)
	}
	pool := NewMoveListPool(16)
	entries, total := Divide(pos, 3, pool)
	if len(entries) != 48 {
		t.Errorf("expected 48 root moves, got %d", len(entries))
	}
	if want := Perft(pos, 3, pool); total != want {
		t.Errorf("divide total %d does not match perft %d", total, want)
	}
}

func BenchmarkPerftStartpos(b *testing.B) {
	pos := NewPosition()
	pool := NewMoveListPool(16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Perft(pos, 4, pool)
	}
}
