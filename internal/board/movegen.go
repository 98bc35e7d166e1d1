package board

// The generator emits legal moves directly; there is no pseudo-legal list
// followed by a filtering pass. Per call it derives a genState: occupancies,
// the squares the opponent attacks (with our king lifted off the board so
// sliders see through it), the number of checkers, the mask of squares that
// resolve every check, and the orthogonal and diagonal pin masks.

type genState struct {
	occupancy Bitboard
	ownOcc    Bitboard
	enemyOcc  Bitboard
	// threatened holds every square attacked by the side not to move,
	// computed with the moving side's king removed from the occupancy.
	threatened Bitboard
	checks     int
	// legalTargets is the set of squares non-king pieces may land on: the
	// whole board with no checker, the checker and its ray with one, and
	// empty with two.
	legalTargets Bitboard
	rookPins     Bitboard
	bishopPins   Bitboard
	kingSq       Square
}

func (p *Position) newGenState() genState {
	us := p.sideToMove
	them := us.Other()
	white, black := p.Occupancy()

	var s genState
	if us == White {
		s.ownOcc, s.enemyOcc = white, black
	} else {
		s.ownOcc, s.enemyOcc = black, white
	}
	s.occupancy = white | black
	s.kingSq = p.KingSquare(us)

	kingBB := SquareBB(s.kingSq)
	s.threatened = p.attacksBy(them, s.occupancy&^kingBB)

	checkers := p.attackersOf(s.kingSq, them, s.occupancy)
	s.checks = checkers.PopCount()
	switch s.checks {
	case 0:
		s.legalTargets = Universe
	case 1:
		checker := checkers.LSB()
		s.legalTargets = checkers | Between(s.kingSq, checker)
	default:
		s.legalTargets = 0
	}

	s.rookPins, s.bishopPins = p.pinMasks(us, s.kingSq, s.occupancy)
	return s
}

// attacksBy returns every square the given color attacks under the given
// occupancy.
func (p *Position) attacksBy(c Color, occupancy Bitboard) Bitboard {
	pieces := PiecesFor(c)
	pawns := p.pieceSets[pieces[0]]

	var attacks Bitboard
	if c == White {
		attacks = ((pawns >> 9) &^ Columns[7]) | ((pawns >> 7) &^ Columns[0])
	} else {
		attacks = ((pawns << 7) &^ Columns[7]) | ((pawns << 9) &^ Columns[0])
	}

	for knights := p.pieceSets[pieces[2]]; knights != 0; {
		attacks |= knightMasks[knights.PopLSB()]
	}
	bishopLike := p.pieceSets[pieces[1]] | p.pieceSets[pieces[4]]
	for b := bishopLike; b != 0; {
		attacks |= BishopAttacks(b.PopLSB(), occupancy)
	}
	rookLike := p.pieceSets[pieces[3]] | p.pieceSets[pieces[4]]
	for r := rookLike; r != 0; {
		attacks |= RookAttacks(r.PopLSB(), occupancy)
	}
	if kings := p.pieceSets[pieces[5]]; kings != 0 {
		attacks |= kingMasks[kings.LSB()]
	}
	return attacks
}

// attackersOf returns the pieces of the given color attacking sq.
func (p *Position) attackersOf(sq Square, c Color, occupancy Bitboard) Bitboard {
	pieces := PiecesFor(c)
	attackers := pawnCaptureMasks[c.Other()][sq] & p.pieceSets[pieces[0]]
	attackers |= knightMasks[sq] & p.pieceSets[pieces[2]]
	attackers |= kingMasks[sq] & p.pieceSets[pieces[5]]
	queens := p.pieceSets[pieces[4]]
	attackers |= BishopAttacks(sq, occupancy) & (p.pieceSets[pieces[1]] | queens)
	attackers |= RookAttacks(sq, occupancy) & (p.pieceSets[pieces[3]] | queens)
	return attackers
}

// pinMasks returns the orthogonal and diagonal pin rays for the given side.
// A ray runs from the king to the pinning slider inclusive; since the pinned
// piece is the only occupant between them, membership in the ray identifies
// the pinned piece and bounds its legal destinations at once.
func (p *Position) pinMasks(us Color, kingSq Square, occupancy Bitboard) (rookPins, bishopPins Bitboard) {
	them := us.Other()
	pieces := PiecesFor(them)
	queens := p.pieceSets[pieces[4]]
	ownOcc := occupancy &^ p.enemyOccFor(them)

	snipers := RookAttacks(kingSq, 0) & (p.pieceSets[pieces[3]] | queens)
	for snipers != 0 {
		sniper := snipers.PopLSB()
		between := Between(kingSq, sniper) & occupancy
		if between.PopCount() == 1 && between&ownOcc != 0 {
			rookPins |= Between(kingSq, sniper) | SquareBB(sniper)
		}
	}

	snipers = BishopAttacks(kingSq, 0) & (p.pieceSets[pieces[1]] | queens)
	for snipers != 0 {
		sniper := snipers.PopLSB()
		between := Between(kingSq, sniper) & occupancy
		if between.PopCount() == 1 && between&ownOcc != 0 {
			bishopPins |= Between(kingSq, sniper) | SquareBB(sniper)
		}
	}
	return
}

// enemyOccFor returns the occupancy of the given color.
func (p *Position) enemyOccFor(c Color) Bitboard {
	white, black := p.Occupancy()
	if c == White {
		return white
	}
	return black
}

// GenerateMoves fills the list with every legal move for the side to move
// and tags the list with the game state: Loss when checkmated, Stalemate
// when out of moves without check.
func (p *Position) GenerateMoves(list *MoveList) {
	s := p.generate(list, false)
	if list.Len() == 0 {
		if s.checks > 0 {
			list.result = Loss
		} else {
			list.result = Stalemate
		}
	}
}

// GenerateCaptures fills the list with the legal captures and promotions for
// the side to move, the move set quiescence search extends on. The result
// tag is not populated: an empty capture list says nothing about mate.
func (p *Position) GenerateCaptures(list *MoveList) {
	p.generate(list, true)
}

func (p *Position) generate(list *MoveList, capturesOnly bool) genState {
	s := p.newGenState()
	us := p.sideToMove

	p.genKingMoves(list, &s, capturesOnly)
	if s.checks > 1 {
		// Double check: only the king moves.
		return s
	}

	p.genPawnMoves(list, &s, us, capturesOnly)
	p.genKnightMoves(list, &s, capturesOnly)
	p.genSliderMoves(list, &s, capturesOnly)
	if !capturesOnly && s.checks == 0 {
		p.genCastlingMoves(list, &s, us)
	}
	return s
}

func (p *Position) pushTargets(list *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		list.Push(NewMove(p, from, to, Empty, p.mailbox[to]))
	}
}

func (p *Position) genKingMoves(list *MoveList, s *genState, capturesOnly bool) {
	targets := kingMasks[s.kingSq] &^ s.ownOcc &^ s.threatened
	if capturesOnly {
		targets &= s.enemyOcc
	}
	p.pushTargets(list, s.kingSq, targets)
}

func (p *Position) genKnightMoves(list *MoveList, s *genState, capturesOnly bool) {
	allowed := s.legalTargets &^ s.ownOcc
	if capturesOnly {
		allowed &= s.enemyOcc
	}
	// A knight pinned in either sense has no legal moves at all.
	knights := p.pieceSets[WhiteKnight.OfColor(p.sideToMove)] &^ (s.rookPins | s.bishopPins)
	for knights != 0 {
		from := knights.PopLSB()
		p.pushTargets(list, from, knightMasks[from]&allowed)
	}
}

func (p *Position) genSliderMoves(list *MoveList, s *genState, capturesOnly bool) {
	us := p.sideToMove
	allowed := s.legalTargets &^ s.ownOcc
	if capturesOnly {
		allowed &= s.enemyOcc
	}

	// Bishops and queens along the diagonals. A piece pinned on an
	// orthogonal ray cannot move diagonally at all; one pinned on a
	// diagonal stays within the pin ray.
	bishopLike := (p.pieceSets[WhiteBishop.OfColor(us)] | p.pieceSets[WhiteQueen.OfColor(us)]) &^ s.rookPins
	for b := bishopLike &^ s.bishopPins; b != 0; {
		from := b.PopLSB()
		p.pushTargets(list, from, BishopAttacks(from, s.occupancy)&allowed)
	}
	for b := bishopLike & s.bishopPins; b != 0; {
		from := b.PopLSB()
		p.pushTargets(list, from, BishopAttacks(from, s.occupancy)&allowed&s.bishopPins)
	}

	// Rooks and queens along the rows and columns.
	rookLike := (p.pieceSets[WhiteRook.OfColor(us)] | p.pieceSets[WhiteQueen.OfColor(us)]) &^ s.bishopPins
	for r := rookLike &^ s.rookPins; r != 0; {
		from := r.PopLSB()
		p.pushTargets(list, from, RookAttacks(from, s.occupancy)&allowed)
	}
	for r := rookLike & s.rookPins; r != 0; {
		from := r.PopLSB()
		p.pushTargets(list, from, RookAttacks(from, s.occupancy)&allowed&s.rookPins)
	}
}

// pushPawnMoves emits the moves encoded in a target mask with a fixed
// from-offset, expanding promotions into the four underpromotion variants.
func (p *Position) pushPawnMoves(list *MoveList, us Color, targets Bitboard, fromOffset int, captures bool) {
	promoRow := Rows[0]
	promotions := [4]Piece{WhiteQueen, WhiteRook, WhiteBishop, WhiteKnight}
	if us == Black {
		promoRow = Rows[7]
		promotions = [4]Piece{BlackQueen, BlackRook, BlackBishop, BlackKnight}
	}
	for targets != 0 {
		to := targets.PopLSB()
		from := Square(int(to) + fromOffset)
		captured := Empty
		if captures {
			captured = p.mailbox[to]
		}
		if SquareBB(to)&promoRow != 0 {
			for _, promo := range promotions {
				list.Push(NewMove(p, from, to, promo, captured))
			}
		} else {
			list.Push(NewMove(p, from, to, Empty, captured))
		}
	}
}

func (p *Position) genPawnMoves(list *MoveList, s *genState, us Color, capturesOnly bool) {
	pawns := p.pieceSets[WhitePawn.OfColor(us)]
	if pawns == 0 {
		return
	}

	horizontalPins := s.rookPins & Rows[s.kingSq.Row()]
	pinsNWSE := s.bishopPins & diagonalsNWSE[s.kingSq]
	pinsNESW := s.bishopPins & diagonalsNESW[s.kingSq]
	free := ^s.occupancy

	if us == White {
		// Pushes: a diagonally pinned pawn cannot advance, a horizontally
		// pinned one neither; a vertical pin keeps the push on its ray.
		forward := ((pawns &^ s.bishopPins &^ horizontalPins) >> 8) & free
		if !capturesOnly {
			p.pushPawnMoves(list, us, forward&s.legalTargets, 8, false)
			double := ((forward & Rows[5]) >> 8) & free
			p.pushPawnMoves(list, us, double&s.legalTargets, 16, false)
		} else {
			// Quiescence still wants the push promotions.
			p.pushPawnMoves(list, us, forward&s.legalTargets&Rows[0], 8, false)
		}

		captureTargets := s.enemyOcc & s.legalTargets
		west := ((pawns &^ s.rookPins &^ pinsNESW) >> 9) &^ Columns[7] & captureTargets
		p.pushPawnMoves(list, us, west, 9, true)
		east := ((pawns &^ s.rookPins &^ pinsNWSE) >> 7) &^ Columns[0] & captureTargets
		p.pushPawnMoves(list, us, east, 7, true)
	} else {
		forward := ((pawns &^ s.bishopPins &^ horizontalPins) << 8) & free
		if !capturesOnly {
			p.pushPawnMoves(list, us, forward&s.legalTargets, -8, false)
			double := ((forward & Rows[2]) << 8) & free
			p.pushPawnMoves(list, us, double&s.legalTargets, -16, false)
		} else {
			p.pushPawnMoves(list, us, forward&s.legalTargets&Rows[7], -8, false)
		}

		captureTargets := s.enemyOcc & s.legalTargets
		westTargets := ((pawns &^ s.rookPins &^ pinsNWSE) << 7) &^ Columns[7] & captureTargets
		p.pushPawnMoves(list, us, westTargets, -7, true)
		eastTargets := ((pawns &^ s.rookPins &^ pinsNESW) << 9) &^ Columns[0] & captureTargets
		p.pushPawnMoves(list, us, eastTargets, -9, true)
	}

	p.genEnPassant(list, s, us, pawns)
}

func (p *Position) genEnPassant(list *MoveList, s *genState, us Color, pawns Bitboard) {
	if p.epFile == 0 || s.checks > 1 {
		return
	}
	target := epCaptureSquare(us, p.epFile)
	attackers := pawnCaptureMasks[us.Other()][target] & pawns
	for attackers != 0 {
		from := attackers.PopLSB()
		if p.epLegal(us, from, target) {
			victim := WhitePawn.OfColor(us.Other())
			list.Push(NewMove(p, from, target, Empty, victim))
		}
	}
}

// epLegal verifies an en-passant capture by applying the pawn exchange to the
// occupancy and re-shooting every attack at the king. This covers the
// horizontal discovered check that pin masks cannot express (both pawns
// leave the rank at once) as well as ordinary pins of the capturing pawn.
func (p *Position) epLegal(us Color, from, to Square) bool {
	them := us.Other()
	victimSq := to + 8
	if us == Black {
		victimSq = to - 8
	}

	white, black := p.Occupancy()
	occ := (white | black) &^ SquareBB(from) &^ SquareBB(victimSq) | SquareBB(to)
	kingSq := p.KingSquare(us)
	pieces := PiecesFor(them)

	if pawnCaptureMasks[us][kingSq]&(p.pieceSets[pieces[0]]&^SquareBB(victimSq)) != 0 {
		return false
	}
	if knightMasks[kingSq]&p.pieceSets[pieces[2]] != 0 {
		return false
	}
	queens := p.pieceSets[pieces[4]]
	if BishopAttacks(kingSq, occ)&(p.pieceSets[pieces[1]]|queens) != 0 {
		return false
	}
	if RookAttacks(kingSq, occ)&(p.pieceSets[pieces[3]]|queens) != 0 {
		return false
	}
	return true
}

// Castling lane masks: the squares that must be empty and the squares the
// king traverses, which must not be threatened. The king's own square is
// covered by the zero-checks requirement.
const (
	blackQueensideFreeMask   Bitboard = 0b01110
	blackKingsideFreeMask    Bitboard = 0b0110 << 4
	blackQueensideThreatMask Bitboard = 0b1100
	blackKingsideThreatMask  Bitboard = 0b1100000

	whiteQueensideFreeMask   = blackQueensideFreeMask << 56
	whiteKingsideFreeMask    = blackKingsideFreeMask << 56
	whiteQueensideThreatMask = blackQueensideThreatMask << 56
	whiteKingsideThreatMask  = blackKingsideThreatMask << 56
)

func (p *Position) genCastlingMoves(list *MoveList, s *genState, us Color) {
	type lane struct {
		right  uint8
		free   Bitboard
		threat Bitboard
		kingTo Square
	}
	var lanes [2]lane
	var kingFrom Square
	if us == White {
		kingFrom = E1
		lanes = [2]lane{
			{CastleWhiteKingSide, whiteKingsideFreeMask, whiteKingsideThreatMask, G1},
			{CastleWhiteQueenSide, whiteQueensideFreeMask, whiteQueensideThreatMask, C1},
		}
	} else {
		kingFrom = E8
		lanes = [2]lane{
			{CastleBlackKingSide, blackKingsideFreeMask, blackKingsideThreatMask, G8},
			{CastleBlackQueenSide, blackQueensideFreeMask, blackQueensideThreatMask, C8},
		}
	}
	them := us.Other()
	for _, l := range lanes {
		if p.castling&l.right == 0 {
			continue
		}
		if s.occupancy&l.free != 0 {
			continue
		}
		// The traversal squares are tested with the king still on its home
		// square: a rank attacker blocked by the king does not bar castling,
		// it only keeps barring the squares it actually reaches.
		traversalAttacked := false
		for threat := l.threat; threat != 0; {
			if p.attackersOf(threat.PopLSB(), them, s.occupancy) != 0 {
				traversalAttacked = true
				break
			}
		}
		if traversalAttacked {
			continue
		}
		list.Push(NewMove(p, kingFrom, l.kingTo, Empty, Empty))
	}
}
