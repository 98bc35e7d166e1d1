package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN wraps every FEN parse failure.
var ErrInvalidFEN = errors.New("invalid FEN")

// FromFEN parses a Forsyth-Edwards position descriptor. Only the piece
// layout is mandatory; missing trailing fields default to white to move, no
// castling, no en passant and zeroed counters. The input is trimmed first.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidFEN)
	}

	p := EmptyPosition()
	if err := parsePlacement(p, fields[0]); err != nil {
		return nil, err
	}

	if len(fields) > 1 {
		c, ok := ColorFromChar(fields[1][0])
		if !ok || len(fields[1]) != 1 {
			return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
		}
		if c == Black {
			p.switchSide()
		}
	}

	if len(fields) > 2 && fields[2] != "-" {
		rights := uint8(0)
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				rights |= CastleWhiteKingSide
			case 'Q':
				rights |= CastleWhiteQueenSide
			case 'k':
				rights |= CastleBlackKingSide
			case 'q':
				rights |= CastleBlackQueenSide
			default:
				return nil, fmt.Errorf("%w: bad castling flag %q", ErrInvalidFEN, fields[2][i])
			}
		}
		p.setCastling(rights)
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en-passant square %q", ErrInvalidFEN, fields[3])
		}
		p.setEPFile(uint8(sq.File()) + 1)
	}

	if len(fields) > 4 {
		quiet, err := strconv.ParseUint(fields[4], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: bad half-move clock %q", ErrInvalidFEN, fields[4])
		}
		p.quiet = uint8(quiet)
	}

	if len(fields) > 5 {
		fullMove, err := strconv.ParseUint(fields[5], 10, 16)
		if err != nil || fullMove == 0 {
			return nil, fmt.Errorf("%w: bad full-move number %q", ErrInvalidFEN, fields[5])
		}
		p.halfMoves = uint16(fullMove-1) * 2
		if p.sideToMove == Black {
			p.halfMoves++
		}
	}

	return p, nil
}

func parsePlacement(p *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for row, rank := range ranks {
		file := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece, ok := PieceFromChar(ch)
			if !ok {
				return fmt.Errorf("%w: bad piece character %q", ErrInvalidFEN, ch)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, 8-row)
			}
			p.SetPiece(NewSquare(file, row), piece)
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d holds %d squares", ErrInvalidFEN, 8-row, file)
		}
	}
	return nil
}

// ToFEN renders the position back into FEN. FromFEN(p.ToFEN()) reproduces p
// exactly for any legal position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		run := 0
		for file := 0; file < 8; file++ {
			piece := p.mailbox[NewSquare(file, row)]
			if piece == Empty {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			sb.WriteByte(piece.Char())
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
	}

	sb.WriteByte(' ')
	sb.WriteByte(p.sideToMove.Char())

	sb.WriteByte(' ')
	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling&CastleWhiteKingSide != 0 {
			sb.WriteByte('K')
		}
		if p.castling&CastleWhiteQueenSide != 0 {
			sb.WriteByte('Q')
		}
		if p.castling&CastleBlackKingSide != 0 {
			sb.WriteByte('k')
		}
		if p.castling&CastleBlackQueenSide != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if p.epFile == 0 {
		sb.WriteByte('-')
	} else {
		sb.WriteString(epCaptureSquare(p.sideToMove, p.epFile).String())
	}

	fmt.Fprintf(&sb, " %d %d", p.quiet, p.halfMoves/2+1)
	return sb.String()
}
