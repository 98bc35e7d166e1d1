// Package board implements the chess board representation: a hybrid of
// per-piece bitboards and a mailbox array, with incremental Zobrist hashing.
//
// Squares are indexed 0-63 from white's perspective top-left: bit 0 is a8,
// bit 7 is h8, bit 56 is a1 and bit 63 is h1, so index = row*8 + file where
// row 0 is the eighth rank.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
type Square uint8

// Square constants for all 64 squares, top rank first.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// File returns the file of the square (0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Row returns the row of the square counted from the top of the board
// (0 = eighth rank, 7 = first rank).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Rank returns the conventional rank number of the square (1-8).
func (sq Square) Rank() int {
	return 8 - sq.Row()
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g. "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank())
}

// NewSquare creates a square from file (0-7) and row from the top (0-7).
func NewSquare(file, row int) Square {
	return Square(row*8 + file)
}

// ParseSquare parses algebraic notation (e.g. "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return NewSquare(file, 7-rank), nil
}

// Mirror returns the square mirrored vertically. Used to flip piece-square
// tables between white and black.
func (sq Square) Mirror() Square {
	return sq ^ 56
}
