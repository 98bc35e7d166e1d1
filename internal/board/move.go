package board

import (
	"fmt"
	"strings"
)

// Move is a compact move record. Besides the squares, the promotion piece and
// the captured piece, it carries the irreversible board state at the moment
// the move was created (en-passant file, castling rights, quiet counter) so
// that UnmakeMove restores them directly instead of searching history.
type Move struct {
	From      Square
	To        Square
	Promotion Piece
	Captured  Piece
	EP        uint8
	Castling  uint8
	Quiet     uint8
}

// NewMove creates a move on the given position, capturing the position's
// undoable state. Captured must be the piece on the destination square
// (or the en-passant victim).
func NewMove(p *Position, from, to Square, promotion, captured Piece) Move {
	return Move{
		From:      from,
		To:        to,
		Promotion: promotion,
		Captured:  captured,
		EP:        p.epFile,
		Castling:  p.castling,
		Quiet:     p.quiet,
	}
}

// IsQuiet returns true when the move captures nothing.
func (m Move) IsQuiet() bool {
	return m.Captured == Empty
}

// SameAs reports whether two moves describe the same from/to/promotion
// triple, ignoring the recorded undo state.
func (m Move) SameAs(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns the move in long algebraic notation (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != Empty {
		s += strings.ToLower(string(m.Promotion.Char()))
	}
	return s
}

// ParseMove parses a long algebraic move string against the given position.
// The promotion letter is case-insensitive; the promotion piece takes the
// color of the moving side. The captured piece and undo state are filled in
// from the position.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}

	promotion := Empty
	if len(s) == 5 {
		p2, ok := PieceFromChar(s[4] | 0x20)
		if !ok || p2.IsPawn() || p2 == BlackKing {
			return Move{}, fmt.Errorf("invalid promotion piece %q", s[4])
		}
		promotion = p2.OfColor(p.mailbox[from].Color())
	}

	captured := p.mailbox[to]
	if p.mailbox[from].IsPawn() && from.File() != to.File() && captured == Empty {
		// En-passant capture: the victim is not on the destination square.
		captured = WhitePawn.OfColor(p.sideToMove.Other())
	}
	return NewMove(p, from, to, promotion, captured), nil
}

// Result tags a generated move list with the state of the game for the side
// to move.
type Result uint8

const (
	// InProgress means legal moves exist.
	InProgress Result = iota
	// Stalemate means no legal moves and the king is not in check.
	Stalemate
	// Loss means no legal moves and the king is in check: the side to move
	// is checkmated.
	Loss
)

// MaxMoves bounds a move list; no position the generator can meet comes
// near it.
const MaxMoves = 210

// MoveList is a bounded move container with a game-state tag. Order is
// generation order until sorted.
type MoveList struct {
	moves  [MaxMoves]Move
	count  int
	result Result
}

// Push appends a move to the list.
func (l *MoveList) Push(m Move) {
	l.moves[l.count] = m
	l.count++
}

// Len returns the number of moves in the list.
func (l *MoveList) Len() int {
	return l.count
}

// Get returns the move at index i.
func (l *MoveList) Get(i int) Move {
	return l.moves[i]
}

// Slice returns the live moves as a slice backed by the list.
func (l *MoveList) Slice() []Move {
	return l.moves[:l.count]
}

// Result returns the game-state tag set by the generator.
func (l *MoveList) Result() Result {
	return l.result
}

// Clear empties the list and resets the result tag.
func (l *MoveList) Clear() {
	l.count = 0
	l.result = InProgress
}

// Contains reports whether a move with the same from/to/promotion is in the
// list.
func (l *MoveList) Contains(m Move) bool {
	for i := 0; i < l.count; i++ {
		if l.moves[i].SameAs(m) {
			return true
		}
	}
	return false
}

// MoveListPool is a stack of reusable move lists. The search and perft loops
// run hot enough that per-node allocation matters; Get pops a cleared list or
// allocates one, Put clears and pushes it back. The pool is not safe for
// concurrent use: keep one per goroutine.
type MoveListPool struct {
	stack []*MoveList
}

// NewMoveListPool creates a pool pre-filled with the given number of lists.
func NewMoveListPool(size int) *MoveListPool {
	p := &MoveListPool{stack: make([]*MoveList, 0, size)}
	for i := 0; i < size; i++ {
		p.stack = append(p.stack, &MoveList{})
	}
	return p
}

// Get pops a cleared move list from the pool, allocating when empty.
func (p *MoveListPool) Get() *MoveList {
	if n := len(p.stack); n > 0 {
		l := p.stack[n-1]
		p.stack = p.stack[:n-1]
		return l
	}
	return &MoveList{}
}

// Put clears the list and returns it to the pool.
func (p *MoveListPool) Put(l *MoveList) {
	l.Clear()
	p.stack = append(p.stack, l)
}
