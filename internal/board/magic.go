package board

// Sliding-attack lookup tables. Both lookup paths are built once at process
// start from the same ray-walking oracle:
//
//   - a bit-extraction path indexed by packing the relevant occupancy bits
//     (the portable equivalent of a hardware parallel-extract instruction),
//   - a magic-multiplier path whose per-square multipliers are found at
//     startup by randomized search.
//
// The magic path is the default; the extract path doubles as a cross-check.
var (
	bishopMasks [64]Bitboard
	rookMasks   [64]Bitboard

	bishopExtract [64][]Bitboard
	rookExtract   [64][]Bitboard

	bishopMagics [64]magicEntry
	rookMagics   [64]magicEntry

	// useBitExtract selects the bit-extraction lookup path. Go exposes no
	// parallel-extract intrinsic, so the software extraction is slower than
	// the magic multiply and stays off by default.
	useBitExtract = false
)

type magicEntry struct {
	magic uint64
	bits  uint8
	table []Bitboard
}

// How hard the randomized magic search tries before settling for a larger
// table: candidates per table size, and the slack above the theoretical
// minimum size at which the search starts.
const (
	magicAttemptBudget = 20000
	magicSizeSlack     = 2
)

func initSliderTables() {
	edge := Columns[0] | Columns[7] | Rows[0] | Rows[7]
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)
		bishopMasks[sq] = slowBishopAttacks(bb, 0) &^ edge

		side := (bitStep(-1, bb, 0) | bitStep(1, bb, 0)) &^ (Columns[0] | Columns[7])
		height := (bitStep(-8, bb, 0) | bitStep(8, bb, 0)) &^ (Rows[0] | Rows[7])
		rookMasks[sq] = side | height
	}

	rng := newPRNG(0xCAFEF00DD15EA5E5)
	for sq := A8; sq <= H1; sq++ {
		bishopExtract[sq] = buildExtractTable(sq, bishopMasks[sq], slowBishopAttacks)
		rookExtract[sq] = buildExtractTable(sq, rookMasks[sq], slowRookAttacks)
		bishopMagics[sq] = findMagic(sq, bishopMasks[sq], slowBishopAttacks, rng)
		rookMagics[sq] = findMagic(sq, rookMasks[sq], slowRookAttacks, rng)
	}
}

// extractBits packs the bits of x selected by mask into the low bits of the
// result, in mask bit order. Portable stand-in for the pext instruction.
func extractBits(x, mask uint64) uint64 {
	var result uint64
	bit := 0
	for mask != 0 {
		low := mask & -mask
		if x&low != 0 {
			result |= 1 << bit
		}
		mask &= mask - 1
		bit++
	}
	return result
}

// occupancySubsets enumerates every subset of the given mask, the empty set
// included.
func occupancySubsets(mask Bitboard) []Bitboard {
	n := mask.PopCount()
	subsets := make([]Bitboard, 0, 1<<n)
	// Carry-Rippler subset traversal.
	sub := Bitboard(0)
	for {
		subsets = append(subsets, sub)
		sub = (sub - mask) & mask
		if sub == 0 {
			break
		}
	}
	return subsets
}

func buildExtractTable(sq Square, mask Bitboard, gen func(Bitboard, Bitboard) Bitboard) []Bitboard {
	table := make([]Bitboard, 1<<mask.PopCount())
	for _, occ := range occupancySubsets(mask) {
		table[extractBits(uint64(occ), uint64(mask))] = gen(SquareBB(sq), occ)
	}
	return table
}

// findMagic searches for a multiplier that maps every relevant occupancy of
// the square injectively into a table of 2^bits entries. Candidates are the
// AND of three random words, which biases toward the sparse multipliers that
// tend to work. The search starts at popcount(mask)+magicSizeSlack bits and
// shrinks the table while candidates keep working; if no candidate fits
// within the attempt budget the size is widened instead.
func findMagic(sq Square, mask Bitboard, gen func(Bitboard, Bitboard) Bitboard, rng *prng) magicEntry {
	occupancies := occupancySubsets(mask)
	expected := make([]Bitboard, len(occupancies))
	for i, occ := range occupancies {
		expected[i] = gen(SquareBB(sq), occ)
	}

	minBits := mask.PopCount()
	for slack := magicSizeSlack; ; slack++ {
		startBits := minBits + slack
		scratch := make([]Bitboard, 1<<startBits)

		bestMagic, bestBits := uint64(0), 0
		for attempt := 0; attempt < magicAttemptBudget; attempt++ {
			magic := rng.next() & rng.next() & rng.next()
			tryBits := startBits
			if bestBits != 0 {
				tryBits = bestBits - 1
			}
			for tryBits >= minBits && magicWorks(magic, tryBits, occupancies, expected, scratch) {
				bestMagic, bestBits = magic, tryBits
				tryBits--
			}
			if bestBits == minBits {
				break
			}
		}
		if bestBits == 0 {
			continue
		}

		table := make([]Bitboard, 1<<bestBits)
		for i, occ := range occupancies {
			table[magicIndex(bestMagic, uint8(bestBits), occ)] = expected[i]
		}
		return magicEntry{magic: bestMagic, bits: uint8(bestBits), table: table}
	}
}

func magicIndex(magic uint64, bits uint8, occ Bitboard) uint64 {
	return (magic * uint64(occ)) >> (64 - bits)
}

func magicWorks(magic uint64, bitCount int, occupancies, expected, scratch []Bitboard) bool {
	size := 1 << bitCount
	for i := 0; i < size; i++ {
		scratch[i] = 0
	}
	for i, occ := range occupancies {
		idx := (magic * uint64(occ)) >> (64 - bitCount)
		switch scratch[idx] {
		case 0:
			scratch[idx] = expected[i]
		case expected[i]:
			// Constructive collision.
		default:
			return false
		}
	}
	return true
}

// BishopAttacks returns the bishop attack set from sq under the given
// occupancy, friendly blockers included.
func BishopAttacks(sq Square, occupancy Bitboard) Bitboard {
	mask := bishopMasks[sq]
	if useBitExtract {
		return bishopExtract[sq][extractBits(uint64(occupancy), uint64(mask))]
	}
	m := &bishopMagics[sq]
	return m.table[magicIndex(m.magic, m.bits, occupancy&mask)]
}

// RookAttacks returns the rook attack set from sq under the given occupancy.
func RookAttacks(sq Square, occupancy Bitboard) Bitboard {
	mask := rookMasks[sq]
	if useBitExtract {
		return rookExtract[sq][extractBits(uint64(occupancy), uint64(mask))]
	}
	m := &rookMagics[sq]
	return m.table[magicIndex(m.magic, m.bits, occupancy&mask)]
}

// QueenAttacks returns the queen attack set from sq under the given occupancy.
func QueenAttacks(sq Square, occupancy Bitboard) Bitboard {
	return BishopAttacks(sq, occupancy) | RookAttacks(sq, occupancy)
}

// prng is a xorshift64* generator with a fixed seed so that the derived
// tables and hashes are reproducible across runs.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}
