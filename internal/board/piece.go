package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Char returns the FEN side-to-move character for the color.
func (c Color) Char() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// ColorFromChar converts a FEN side-to-move character to a Color.
func ColorFromChar(ch byte) (Color, bool) {
	switch ch {
	case 'w':
		return White, true
	case 'b':
		return Black, true
	}
	return White, false
}

// Piece is a tagged value over the twelve colored piece kinds plus Empty.
// The integer ordinal is stable: it indexes the piece-set array and the
// Zobrist key table, with Empty in the last slot.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteBishop
	WhiteKnight
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackBishop
	BlackKnight
	BlackRook
	BlackQueen
	BlackKing
	Empty

	// NumPieces is the number of piece-set slots, including Empty.
	NumPieces = 13
)

var whitePieces = [6]Piece{WhitePawn, WhiteBishop, WhiteKnight, WhiteRook, WhiteQueen, WhiteKing}
var blackPieces = [6]Piece{BlackPawn, BlackBishop, BlackKnight, BlackRook, BlackQueen, BlackKing}

// WhitePieces returns the white piece kinds in value order
// (pawn, bishop, knight, rook, queen, king).
func WhitePieces() [6]Piece {
	return whitePieces
}

// BlackPieces returns the black piece kinds in value order.
func BlackPieces() [6]Piece {
	return blackPieces
}

// PiecesFor returns the piece kinds of the given color in value order.
func PiecesFor(c Color) [6]Piece {
	if c == White {
		return whitePieces
	}
	return blackPieces
}

// IsWhite returns true for white pieces.
func (p Piece) IsWhite() bool {
	return p < BlackPawn
}

// IsBlack returns true for black pieces.
func (p Piece) IsBlack() bool {
	return p >= BlackPawn && p < Empty
}

// Color returns the color of the piece. Only valid for non-Empty pieces.
func (p Piece) Color() Color {
	if p.IsWhite() {
		return White
	}
	return Black
}

// IsPawn returns true for pawns of either color.
func (p Piece) IsPawn() bool {
	return p == WhitePawn || p == BlackPawn
}

// OfColor returns the piece of the same kind belonging to the given color.
func (p Piece) OfColor(c Color) Piece {
	if p == Empty {
		return Empty
	}
	kind := p
	if kind >= BlackPawn {
		kind -= 6
	}
	if c == Black {
		kind += 6
	}
	return kind
}

const pieceChars = "PBNRQKpbnrqk."

// Char returns the FEN character for the piece. '.' for Empty.
func (p Piece) Char() byte {
	return pieceChars[p]
}

// String returns the FEN character for the piece as a string.
func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar converts a FEN character to a Piece. Returns Empty, false
// for characters that do not name a piece.
func PieceFromChar(ch byte) (Piece, bool) {
	switch ch {
	case 'P':
		return WhitePawn, true
	case 'B':
		return WhiteBishop, true
	case 'N':
		return WhiteKnight, true
	case 'R':
		return WhiteRook, true
	case 'Q':
		return WhiteQueen, true
	case 'K':
		return WhiteKing, true
	case 'p':
		return BlackPawn, true
	case 'b':
		return BlackBishop, true
	case 'n':
		return BlackKnight, true
	case 'r':
		return BlackRook, true
	case 'q':
		return BlackQueen, true
	case 'k':
		return BlackKing, true
	}
	return Empty, false
}

// Material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	// KingValue dwarfs any plausible material total so that losing the king
	// dominates every evaluation.
	KingValue = 100000
)

var pieceValues = [NumPieces]int{
	PawnValue, BishopValue, KnightValue, RookValue, QueenValue, KingValue,
	PawnValue, BishopValue, KnightValue, RookValue, QueenValue, KingValue,
	0,
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return pieceValues[p]
}
