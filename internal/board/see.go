package board

// StaticExchangeEvaluation plays out every capture on the destination square
// in least-valuable-attacker-first order and returns the centipawn balance of
// the exchange for the side to move, assuming best defense. Sliders hidden
// behind the first attacker are re-discovered by re-shooting the rays after
// each capture.
func (p *Position) StaticExchangeEvaluation(from, to Square) int {
	white, black := p.Occupancy()
	occupancy := white | black
	attacks := p.allAttackersOf(to, occupancy)

	// Pieces whose removal can uncover a slider behind them: everything
	// that moves along a ray, plus pawns.
	xrayRevealers := Universe &^
		(p.pieceSets[WhiteKnight] | p.pieceSets[BlackKnight])

	var gain [32]int
	gain[0] = p.mailbox[to].Value()
	attacker := p.mailbox[from]
	fromBB := SquareBB(from)
	toMove := p.sideToMove
	depth := 1

	for {
		gain[depth] = attacker.Value() - gain[depth-1]
		attacks &^= fromBB
		occupancy &^= fromBB
		if fromBB&xrayRevealers != 0 {
			attacks |= p.bishopLikeAttackersOf(to, occupancy)
			attacks |= p.rookLikeAttackersOf(to, occupancy)
		}
		toMove = toMove.Other()
		fromBB, attacker = p.leastValuableAttacker(attacks&occupancy, toMove)
		if fromBB == 0 {
			break
		}
		depth++
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// allAttackersOf returns every piece of either color attacking sq.
func (p *Position) allAttackersOf(sq Square, occupancy Bitboard) Bitboard {
	attackers := pawnCaptureMasks[Black][sq] & p.pieceSets[WhitePawn]
	attackers |= pawnCaptureMasks[White][sq] & p.pieceSets[BlackPawn]
	attackers |= knightMasks[sq] & (p.pieceSets[WhiteKnight] | p.pieceSets[BlackKnight])
	attackers |= kingMasks[sq] & (p.pieceSets[WhiteKing] | p.pieceSets[BlackKing])
	attackers |= p.bishopLikeAttackersOf(sq, occupancy)
	attackers |= p.rookLikeAttackersOf(sq, occupancy)
	return attackers
}

func (p *Position) bishopLikeAttackersOf(sq Square, occupancy Bitboard) Bitboard {
	bishopLike := p.pieceSets[WhiteBishop] | p.pieceSets[BlackBishop] |
		p.pieceSets[WhiteQueen] | p.pieceSets[BlackQueen]
	return BishopAttacks(sq, occupancy) & bishopLike & occupancy
}

func (p *Position) rookLikeAttackersOf(sq Square, occupancy Bitboard) Bitboard {
	rookLike := p.pieceSets[WhiteRook] | p.pieceSets[BlackRook] |
		p.pieceSets[WhiteQueen] | p.pieceSets[BlackQueen]
	return RookAttacks(sq, occupancy) & rookLike & occupancy
}

// leastValuableAttacker extracts the cheapest attacker of the given color
// from the attack set, returning its single-bit board and its piece kind.
func (p *Position) leastValuableAttacker(attacks Bitboard, c Color) (Bitboard, Piece) {
	for _, piece := range PiecesFor(c) {
		set := attacks & p.pieceSets[piece]
		if set != 0 {
			return set & -set, piece
		}
	}
	return 0, Empty
}
