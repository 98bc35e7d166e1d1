package engine

import (
	"time"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

// emergencyBuffer absorbs protocol and transport latency so the engine does
// not flag on time.
const emergencyBuffer = 200 * time.Millisecond

// AllocateTime turns the clock state of a timed game into a per-move search
// budget. Times and increments are what the host reported for both sides;
// movesToGo is the number of moves to the next time control, 0 for sudden
// death.
func AllocateTime(whiteTime, blackTime, whiteInc, blackInc time.Duration, movesToGo int, us board.Color) time.Duration {
	myTime, myInc := whiteTime, whiteInc
	if us == board.Black {
		myTime, myInc = blackTime, blackInc
	}

	var allocated time.Duration
	if movesToGo > 0 {
		allocated = myTime/time.Duration(movesToGo) + myInc*3/4
	} else {
		// Sudden death: assume roughly thirty moves remain.
		allocated = myTime/30 + myInc*3/4
		if allocated < 100*time.Millisecond {
			allocated = 100 * time.Millisecond
		}
		if allocated > myTime/3 {
			allocated = myTime / 3
		}
	}

	allocated -= emergencyBuffer
	if allocated < 50*time.Millisecond {
		allocated = 50 * time.Millisecond
	}
	return allocated
}
