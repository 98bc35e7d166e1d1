package engine

import (
	"math/rand"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

// Random is the weakest playing strategy: it picks a uniformly random legal
// move. Useful as a sparring baseline and for exercising the host surfaces
// without search latency.
type Random struct {
	info LogCallback
	rng  *rand.Rand
	pool *board.MoveListPool
}

func newRandom(info LogCallback) *Random {
	return &Random{
		info: info,
		rng:  rand.New(rand.NewSource(0x6D61676E69)),
		pool: board.NewMoveListPool(1),
	}
}

// Name returns the engine's registry name.
func (e *Random) Name() string {
	return RandomName
}

// Search returns a single-move line chosen uniformly from the legal moves.
func (e *Random) Search(pos *board.Position, _ Limits) []board.Move {
	list := e.pool.Get()
	defer e.pool.Put(list)

	pos.GenerateMoves(list)
	if list.Len() == 0 {
		return nil
	}
	return []board.Move{list.Get(e.rng.Intn(list.Len()))}
}
