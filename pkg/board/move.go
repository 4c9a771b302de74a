package board

import (
	"fmt"
	"strings"
)

// MoveType indicates the type of move. The no-progress counter is reset with any non-Normal move.
type MoveType uint8

const (
	Normal    MoveType = iota
	Push               // Pawn move
	Jump               // Pawn 2-square move
	EnPassant          // Implicitly a pawn capture
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

func (t MoveType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Push:
		return "push"
	case Jump:
		return "jump"
	case EnPassant:
		return "enpassant"
	case QueenSideCastle:
		return "O-O-O"
	case KingSideCastle:
		return "O-O"
	case Capture:
		return "capture"
	case Promotion:
		return "promotion"
	case CapturePromotion:
		return "capture-promotion"
	default:
		return "?"
	}
}

// Move represents a not-necessarily legal move along with contextual metadata.
type Move struct {
	Type      MoveType
	From, To  Square
	Piece     Piece // moving piece
	Promotion Piece // desired piece for promotion, if any.
	Capture   Piece // captured piece, if any.
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move does not contain contextual information like castling or en passant: use
// Position.Resolve to recover it from a legal-move context.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

// Equals compares the moves by From, To and Promotion -- the minimal information needed to
// disambiguate a move in a given legal position.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// IsCapture returns true iff the move removes an enemy piece from the board.
func (m Move) IsCapture() bool {
	return m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant
}

// IsQuiet returns true iff the move is neither a capture nor a promotion. Used by move
// ordering and late move reduction to identify "uninteresting" moves.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && m.Type != Promotion && m.Type != CapturePromotion
}

// EnPassantCapture returns the square of the captured pawn for an EnPassant move.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return ZeroSquare, false
	}
	if m.To.Rank() == Rank6 {
		// White captured a black pawn that jumped to Rank5.
		return NewSquare(m.To.File(), Rank5), true
	}
	return NewSquare(m.To.File(), Rank4), true
}

// EnPassantTarget returns the new en passant target square created by this move, if it is a Jump.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return ZeroSquare, false
	}
	if m.To.Rank() == Rank4 {
		return NewSquare(m.To.File(), Rank3), true
	}
	return NewSquare(m.To.File(), Rank6), true
}

// CastlingRightsLost returns the castling rights that this move revokes, notably from moving a
// King or Rook, or capturing a Rook on its home square.
func (m Move) CastlingRightsLost() Castling {
	var ret Castling

	switch m.From {
	case E1:
		ret |= WhiteKingSideCastle | WhiteQueenSideCastle
	case E8:
		ret |= BlackKingSideCastle | BlackQueenSideCastle
	case H1:
		ret |= WhiteKingSideCastle
	case A1:
		ret |= WhiteQueenSideCastle
	case H8:
		ret |= BlackKingSideCastle
	case A8:
		ret |= BlackQueenSideCastle
	}

	switch m.To {
	case H1:
		ret |= WhiteKingSideCastle
	case A1:
		ret |= WhiteQueenSideCastle
	case H8:
		ret |= BlackKingSideCastle
	case A8:
		ret |= BlackQueenSideCastle
	}

	return ret
}

// CastlingRookMove returns the rook move implied by a castling move.
func (m Move) CastlingRookMove() (from, to Square, ok bool) {
	switch m.Type {
	case KingSideCastle:
		if m.From == E1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.From == E1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return ZeroSquare, ZeroSquare, false
	}
}

// String renders the move in UCI long algebraic notation, such as "e2e4" or "a7a8q".
func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", lowerSquare(m.From), lowerSquare(m.To), m.Promotion)
	}
	return fmt.Sprintf("%v%v", lowerSquare(m.From), lowerSquare(m.To))
}

func lowerSquare(sq Square) string {
	return strings.ToLower(sq.String())
}

// PrintMoves renders a move list as a space-separated string.
func PrintMoves(moves []Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
