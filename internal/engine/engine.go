// Package engine implements the playing strategies on top of the board
// package: the iterative-deepening alpha-beta searcher and the random mover,
// both behind a common interface selected by name.
package engine

import (
	"fmt"
	"time"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

// SearchMetadata is reported once per completed iterative-deepening
// iteration, in strictly increasing depth order.
type SearchMetadata struct {
	Depth int
	Eval  int
	PV    []board.Move
}

// MetadataCallback receives per-iteration search metadata.
type MetadataCallback func(SearchMetadata)

// LogCallback receives free-form informational lines.
type LogCallback func(string)

// AbortCallback is polled cooperatively by the search; returning true ends
// the current iteration cleanly.
type AbortCallback func() bool

// ClockCallback supplies monotonic elapsed time. Injecting it keeps the
// search usable from hosts without a real clock and from tests that want
// deterministic timing.
type ClockCallback func() time.Duration

// Limits bounds a single search invocation. Zero values mean unconstrained;
// an unconstrained depth maps to InfiniteDepth and relies on the abort
// callback or the time budget to terminate.
type Limits struct {
	Depth      int
	Nodes      uint64
	TimeBudget time.Duration
}

// InfiniteDepth is the iteration bound used for "infinite" searches; in
// practice only the stop command or the clock ends them.
const InfiniteDepth = 1000

// Engine is a playing strategy: it searches a position and returns the
// principal variation, best move first. An empty result means the position
// has no legal moves, or that the search was stopped before its first
// iteration completed.
type Engine interface {
	Name() string
	Search(pos *board.Position, limits Limits) []board.Move
}

// Engine names accepted by New.
const (
	AlphaBetaName = "magnificence"
	RandomName    = "random"
)

// New builds the engine registered under the given name. Nil callbacks are
// replaced with no-ops (the clock defaults to wall time).
func New(name string, metadata MetadataCallback, info LogCallback, shouldAbort AbortCallback, clock ClockCallback) (Engine, error) {
	metadata, info, shouldAbort, clock = fillDefaults(metadata, info, shouldAbort, clock)
	switch name {
	case AlphaBetaName, "":
		return newAlphaBeta(metadata, info, shouldAbort, clock), nil
	case RandomName:
		return newRandom(info), nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

func fillDefaults(metadata MetadataCallback, info LogCallback, shouldAbort AbortCallback, clock ClockCallback) (MetadataCallback, LogCallback, AbortCallback, ClockCallback) {
	if metadata == nil {
		metadata = func(SearchMetadata) {}
	}
	if info == nil {
		info = func(string) {}
	}
	if shouldAbort == nil {
		shouldAbort = func() bool { return false }
	}
	if clock == nil {
		start := time.Now()
		clock = func() time.Duration { return time.Since(start) }
	}
	return metadata, info, shouldAbort, clock
}
