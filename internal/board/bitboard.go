package board

import (
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square,
// bit 0 = a8 through bit 63 = h1.
type Bitboard uint64

// Universe is the bitboard with every square set.
const Universe Bitboard = 0xFFFFFFFFFFFFFFFF

// Columns holds bit-filled files: Columns[0] is the a-file. Initialized as a
// variable so it is ready before any init function runs.
var Columns = func() (c [8]Bitboard) {
	for i := range c {
		c[i] = 0x0101010101010101 << i
	}
	return
}()

// Rows holds bit-filled rows counted from the top: Rows[0] is the eighth
// rank, Rows[7] the first.
var Rows = func() (r [8]Bitboard) {
	for i := range r {
		r[i] = 0xFF << (i * 8)
	}
	return
}()

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// Set returns the bitboard with the bit at the given square set.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | (1 << sq)
}

// Clear returns the bitboard with the bit at the given square cleared.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest set square index. Only valid for non-empty boards.
func (b Bitboard) LSB() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest set square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// String returns a visual representation of the bitboard for debugging.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, row)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// directionalShift shifts left for positive amounts and right for negative.
func directionalShift(b Bitboard, step int) Bitboard {
	if step > 0 {
		return b << step
	}
	return b >> (-step)
}

// bitStep walks a sliding ray in the given step direction from every set bit
// of position, stopping each ray at the first occupied square (which is
// included in the result).
//
// Valid steps: ±1 (along the row), ±8 (along the file), ±7 and ±9 (along the
// diagonals).
func bitStep(step int, position, occupancy Bitboard) Bitboard {
	var stop Bitboard
	switch step {
	case -1, -9, 7:
		stop = Columns[7]
	case 1, -7, 9:
		stop = Columns[0]
	}
	keep := ^stop
	free := ^occupancy
	var result Bitboard
	for position != 0 {
		position = directionalShift(position, step) & keep
		result |= position
		position &= free
	}
	return result
}

// slowBishopAttacks computes bishop attacks by ray walking. Used to build the
// sliding-attack lookup tables and as the reference oracle in tests.
func slowBishopAttacks(position, occupancy Bitboard) Bitboard {
	result := bitStep(-7, position, occupancy)
	result |= bitStep(-9, position, occupancy)
	result |= bitStep(7, position, occupancy)
	result |= bitStep(9, position, occupancy)
	return result
}

// slowRookAttacks computes rook attacks by ray walking.
func slowRookAttacks(position, occupancy Bitboard) Bitboard {
	result := bitStep(-1, position, occupancy)
	result |= bitStep(1, position, occupancy)
	result |= bitStep(8, position, occupancy)
	result |= bitStep(-8, position, occupancy)
	return result
}
