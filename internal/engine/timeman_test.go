package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

func TestAllocateTimeSuddenDeath(t *testing.T) {
	alloc := AllocateTime(3*time.Minute, 3*time.Minute, 0, 0, 0, board.White)
	assert.Greater(t, alloc, 1*time.Second)
	assert.Less(t, alloc, 1*time.Minute, "never burns the whole clock on one move")
}

func TestAllocateTimeUsesOwnClock(t *testing.T) {
	white := AllocateTime(10*time.Minute, 10*time.Second, 0, 0, 0, board.White)
	black := AllocateTime(10*time.Minute, 10*time.Second, 0, 0, 0, board.Black)
	assert.Greater(t, white, black)
}

func TestAllocateTimeMovesToGo(t *testing.T) {
	alloc := AllocateTime(time.Minute, time.Minute, 0, 0, 10, board.White)
	// A tenth of the clock, less the latency buffer.
	assert.InDelta(t, float64(6*time.Second-emergencyBuffer), float64(alloc), float64(50*time.Millisecond))
}

func TestAllocateTimeNeverNegative(t *testing.T) {
	alloc := AllocateTime(100*time.Millisecond, 100*time.Millisecond, 0, 0, 0, board.White)
	assert.GreaterOrEqual(t, alloc, 50*time.Millisecond)
}

func TestAllocateTimeIncludesIncrement(t *testing.T) {
	without := AllocateTime(time.Minute, time.Minute, 0, 0, 0, board.White)
	with := AllocateTime(time.Minute, time.Minute, 5*time.Second, 0, 0, board.White)
	assert.Greater(t, with, without)
}
