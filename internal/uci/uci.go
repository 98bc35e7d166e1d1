// Package uci implements the UCI-like text protocol of the engine.
//
// Besides the standard UCI command set it offers interactive conveniences:
// perft, divide, perfttests, single-move apply with undo, board display,
// evaluation and a legal-move listing. See
// http://wbec-ridderkerk.nl/html/UCIProtocol.html for the protocol.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
	"github.com/wsandst/magnificence-oxidized-chess/internal/config"
	"github.com/wsandst/magnificence-oxidized-chess/internal/engine"
	"github.com/wsandst/magnificence-oxidized-chess/internal/storage"
)

const (
	engineName    = "Magnificence Oxidized"
	engineAuthors = "William Sandstrom and Harald Bjurulf"
)

// Handler runs the protocol: it reads commands, keeps the current position
// and drives the engine on a worker goroutine so that stop stays responsive
// during a search.
type Handler struct {
	cfg   config.Config
	store *storage.Storage
	out   io.Writer

	eng  engine.Engine
	pos  *board.Position
	pool *board.MoveListPool

	// moveHistory backs the undo command.
	moveHistory []board.Move

	stopRequested atomic.Bool
	searchDone    chan struct{}
	searchStart   time.Time
	strictUCI     bool
}

// nodeCounter is implemented by engines that count visited nodes.
type nodeCounter interface {
	Nodes() uint64
}

// New builds a protocol handler around the configured engine. The storage
// handle may be nil; statistics recording is then skipped.
func New(cfg config.Config, store *storage.Storage, out io.Writer) (*Handler, error) {
	h := &Handler{
		cfg:   cfg,
		store: store,
		out:   out,
		pos:   board.NewPosition(),
		pool:  board.NewMoveListPool(16),
	}

	eng, err := engine.New(
		cfg.Engine.Name,
		h.reportMetadata,
		func(s string) { fmt.Fprintf(h.out, "info string %s\n", s) },
		h.stopRequested.Load,
		nil,
	)
	if err != nil {
		return nil, err
	}
	h.eng = eng
	return h, nil
}

// Run reads commands until quit or EOF.
func (h *Handler) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if h.Execute(line) {
			break
		}
	}
	h.waitSearch()
}

// Execute runs a single command line and reports whether the handler should
// quit.
func (h *Handler) Execute(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		h.strictUCI = true
		fmt.Fprintf(h.out, "id name %s\n", engineName)
		fmt.Fprintf(h.out, "id author %s\n", engineAuthors)
		fmt.Fprintf(h.out, "uciok\n")
	case "isready":
		fmt.Fprintf(h.out, "readyok\n")
	case "ucinewgame":
		h.waitSearch()
		h.pos = board.NewPosition()
		h.moveHistory = h.moveHistory[:0]
	case "position":
		h.waitSearch()
		h.handlePosition(args)
	case "go":
		h.handleGo(args)
	case "stop":
		h.stopRequested.Store(true)
		h.waitSearch()
	case "quit", "exit":
		h.stopRequested.Store(true)
		h.waitSearch()
		if !h.strictUCI {
			fmt.Fprintf(h.out, "Exiting...\n")
		}
		return true
	case "perft":
		h.waitSearch()
		h.handlePerft(args)
	case "divide":
		h.waitSearch()
		h.handleDivide(args)
	case "perfttests":
		h.waitSearch()
		h.handlePerftTests()
	case "move":
		h.waitSearch()
		h.handleMove(args)
	case "undo":
		h.waitSearch()
		h.handleUndo()
	case "display", "d":
		fmt.Fprintf(h.out, "%s\n", h.pos)
	case "eval":
		fmt.Fprintf(h.out, "static %d cp, quiescence %d cp\n",
			h.pos.Evaluate(), h.quiescenceEval())
	case "legalmoves":
		h.handleLegalMoves()
	case "help":
		h.printHelp()
	default:
		if !h.strictUCI {
			fmt.Fprintf(h.out, "Unknown command %q, type 'help' for help\n", cmd)
		}
	}
	return false
}

func (h *Handler) searching() bool {
	if h.searchDone == nil {
		return false
	}
	select {
	case <-h.searchDone:
		return false
	default:
		return true
	}
}

func (h *Handler) waitSearch() {
	if h.searchDone != nil {
		<-h.searchDone
		h.searchDone = nil
	}
}

// reportMetadata prints one info line per completed deepening iteration.
func (h *Handler) reportMetadata(md engine.SearchMetadata) {
	if !h.cfg.Engine.LogSearchInfo {
		return
	}
	var nodes uint64
	if counter, ok := h.eng.(nodeCounter); ok {
		nodes = counter.Nodes()
	}
	elapsed := time.Since(h.searchStart).Milliseconds()
	if elapsed == 0 {
		elapsed = 1
	}
	nps := int64(nodes) * 1000 / elapsed

	pv := make([]string, len(md.PV))
	for i, m := range md.PV {
		pv[i] = m.String()
	}
	fmt.Fprintf(h.out, "info depth %d score cp %d nodes %d time %d nps %d pv %s\n",
		md.Depth, md.Eval, nodes, elapsed, nps, strings.Join(pv, " "))
}

func (h *Handler) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, a := range args {
		if a == "moves" {
			movesAt = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		h.pos = board.NewPosition()
	case "fen":
		pos, err := board.FromFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			fmt.Fprintf(h.out, "info string %v\n", err)
			return
		}
		h.pos = pos
	default:
		// Bare FEN without the keyword also works outside strict mode.
		pos, err := board.FromFEN(strings.Join(args[:movesAt], " "))
		if err != nil {
			fmt.Fprintf(h.out, "info string %v\n", err)
			return
		}
		h.pos = pos
	}
	h.moveHistory = h.moveHistory[:0]

	for _, text := range args[min(movesAt+1, len(args)):] {
		if !h.applyMove(text) {
			fmt.Fprintf(h.out, "info string illegal move %s ignored\n", text)
			return
		}
	}
}

// applyMove parses and applies one long-algebraic move, refusing moves that
// are not in the legal move list. The position is untouched on rejection.
func (h *Handler) applyMove(text string) bool {
	m, err := h.pos.ParseMove(text)
	if err != nil {
		return false
	}
	list := h.pool.Get()
	defer h.pool.Put(list)
	h.pos.GenerateMoves(list)
	if !list.Contains(m) {
		return false
	}
	h.pos.MakeMove(&m)
	h.moveHistory = append(h.moveHistory, m)
	return true
}

func (h *Handler) handleMove(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(h.out, "usage: move <from><to>[promotion]\n")
		return
	}
	if !h.applyMove(args[0]) {
		fmt.Fprintf(h.out, "Illegal move %q\n", args[0])
	}
}

func (h *Handler) handleUndo() {
	if len(h.moveHistory) == 0 {
		fmt.Fprintf(h.out, "No moves have been made, cannot undo.\n")
		return
	}
	m := h.moveHistory[len(h.moveHistory)-1]
	h.moveHistory = h.moveHistory[:len(h.moveHistory)-1]
	h.pos.UnmakeMove(&m)
	fmt.Fprintf(h.out, "Move %s was undone\n", m)
}

func (h *Handler) handleLegalMoves() {
	list := h.pool.Get()
	defer h.pool.Put(list)
	h.pos.GenerateMoves(list)

	moves := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		moves = append(moves, list.Get(i).String())
	}
	sort.Strings(moves)
	fmt.Fprintf(h.out, "Legal moves (%c): %s\n", h.pos.SideToMove().Char(), strings.Join(moves, " "))
}

func (h *Handler) handleGo(args []string) {
	if h.searching() {
		fmt.Fprintf(h.out, "info string search already running\n")
		return
	}

	limits, err := h.parseGo(args)
	if err != nil {
		fmt.Fprintf(h.out, "info string %v\n", err)
		return
	}

	h.stopRequested.Store(false)
	h.searchStart = time.Now()
	h.searchDone = make(chan struct{})
	pos := h.pos.Clone()

	go func() {
		defer close(h.searchDone)

		pv := h.eng.Search(pos, limits)
		if len(pv) == 0 {
			fmt.Fprintf(h.out, "bestmove 0000\n")
			return
		}
		fmt.Fprintf(h.out, "bestmove %s\n", pv[0])

		if h.store != nil {
			var nodes uint64
			if counter, ok := h.eng.(nodeCounter); ok {
				nodes = counter.Nodes()
			}
			if err := h.store.RecordSearch(len(pv), nodes, time.Since(h.searchStart)); err != nil {
				log.Printf("failed to record search stats: %v", err)
			}
		}
	}()
}

// parseGo extracts the search limits from a go command. With no constraints
// at all the configured defaults apply; "infinite" clears the time budget,
// leaving stop (or a node limit) to end the search.
func (h *Handler) parseGo(args []string) (engine.Limits, error) {
	var limits engine.Limits
	var wtime, btime, winc, binc time.Duration
	movesToGo := 0
	infinite := false
	timed := false

	intArg := func(i int) (int, error) {
		if i+1 >= len(args) {
			return 0, fmt.Errorf("go: %s needs a value", args[i])
		}
		return strconv.Atoi(args[i+1])
	}

	for i := 0; i < len(args); i++ {
		var err error
		var v int
		switch args[i] {
		case "infinite":
			infinite = true
			continue
		case "depth":
			if v, err = intArg(i); err == nil {
				if v < 0 {
					err = fmt.Errorf("go: negative depth")
				}
				limits.Depth = v
			}
		case "nodes":
			if v, err = intArg(i); err == nil {
				limits.Nodes = uint64(v)
			}
		case "movetime":
			if v, err = intArg(i); err == nil {
				limits.TimeBudget = time.Duration(v) * time.Millisecond
			}
		case "wtime":
			if v, err = intArg(i); err == nil {
				wtime, timed = time.Duration(v)*time.Millisecond, true
			}
		case "btime":
			if v, err = intArg(i); err == nil {
				btime, timed = time.Duration(v)*time.Millisecond, true
			}
		case "winc":
			if v, err = intArg(i); err == nil {
				winc = time.Duration(v) * time.Millisecond
			}
		case "binc":
			if v, err = intArg(i); err == nil {
				binc = time.Duration(v) * time.Millisecond
			}
		case "movestogo":
			if v, err = intArg(i); err == nil {
				movesToGo = v
			}
		default:
			continue
		}
		if err != nil {
			return limits, err
		}
		i++
	}

	if infinite {
		limits.Depth = engine.InfiniteDepth
		limits.TimeBudget = 0
		return limits, nil
	}
	if timed && limits.TimeBudget == 0 {
		limits.TimeBudget = engine.AllocateTime(wtime, btime, winc, binc, movesToGo, h.pos.SideToMove())
	}
	if limits.Depth == 0 && limits.TimeBudget == 0 && limits.Nodes == 0 {
		limits.Depth = h.cfg.Engine.DefaultDepth
		limits.TimeBudget = time.Duration(h.cfg.Engine.DefaultMoveTimeMs) * time.Millisecond
	}
	return limits, nil
}

func (h *Handler) quiescenceEval() int {
	if q, ok := h.eng.(*engine.AlphaBeta); ok {
		return q.QuiescenceEval(h.pos)
	}
	return h.pos.Evaluate()
}

func (h *Handler) handlePerft(args []string) {
	depth, ok := h.parseDepth(args)
	if !ok {
		return
	}
	fmt.Fprintf(h.out, "Performing perft of depth %d\n", depth)

	start := time.Now()
	nodes := board.Perft(h.pos, depth, h.pool)
	elapsed := time.Since(start)

	mnps := float64(nodes) / 1e6 / elapsed.Seconds()
	fmt.Fprintf(h.out, "Perft completed in %.3f seconds (%.2fM moves per second)\n", elapsed.Seconds(), mnps)
	fmt.Fprintf(h.out, "Result: %d\n", nodes)

	if h.store != nil {
		if err := h.store.RecordPerft(nodes); err != nil {
			log.Printf("failed to record perft stats: %v", err)
		}
	}
}

func (h *Handler) handleDivide(args []string) {
	depth, ok := h.parseDepth(args)
	if !ok {
		return
	}
	entries, total := board.Divide(h.pos, depth, h.pool)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	for _, e := range entries {
		fmt.Fprintf(h.out, "%s: %d\n", e.Move, e.Nodes)
	}
	fmt.Fprintf(h.out, "Total: %d\n", total)
}

func (h *Handler) parseDepth(args []string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintf(h.out, "usage: perft/divide <depth>\n")
		return 0, false
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		fmt.Fprintf(h.out, "Error: depth must be a positive integer\n")
		return 0, false
	}
	return depth, true
}

// perftReference holds the standard community perft tables used by the
// perfttests command.
var perftReference = []struct {
	name     string
	fen      string
	expected []uint64
}{
	{"startpos", board.StartFEN,
		[]uint64{20, 400, 8902, 197281, 4865609}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		[]uint64{48, 2039, 97862, 4085603}},
	{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		[]uint64{14, 191, 2812, 43238, 674624}},
	{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]uint64{6, 264, 9467, 422333}},
	{"position 5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		[]uint64{44, 1486, 62379, 2103487}},
	{"position 6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		[]uint64{46, 2079, 89890, 3894594}},
}

func (h *Handler) handlePerftTests() {
	failures := 0
	start := time.Now()
	for _, ref := range perftReference {
		pos, err := board.FromFEN(ref.fen)
		if err != nil {
			fmt.Fprintf(h.out, "%s: bad reference FEN: %v\n", ref.name, err)
			failures++
			continue
		}
		for depth, expected := range ref.expected {
			got := board.Perft(pos, depth+1, h.pool)
			if got != expected {
				fmt.Fprintf(h.out, "FAIL %s depth %d: got %d, expected %d\n",
					ref.name, depth+1, got, expected)
				failures++
			}
		}
		fmt.Fprintf(h.out, "%s ok\n", ref.name)
	}
	fmt.Fprintf(h.out, "Perft tests completed in %.3f seconds, %d failures\n",
		time.Since(start).Seconds(), failures)
}

func (h *Handler) printHelp() {
	fmt.Fprint(h.out, `Commands:
  uci, isready, ucinewgame          UCI handshake
  position [fen <fen>|startpos] [moves ...]
  go [depth D] [nodes N] [movetime MS] [wtime/btime/winc/binc MS] [movestogo M] [infinite]
  stop                              stop the running search
  move <lan>                        apply a single move (e.g. e2e4, e7e8q)
  undo                              undo the last applied move
  perft <depth> | divide <depth>    move generator node counts
  perfttests                        run the reference perft suite
  display                           print the current board
  eval                              static and quiescence evaluation
  legalmoves                        list the legal moves
  quit
`)
}
