// Package eval contains static position evaluation logic consumed by search: material and
// piece-square scoring, plus a noise generator for randomized move selection in self-play.
package eval

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// Evaluator is a static position evaluator. It returns the position score in centipawns,
// relative to the side to move: positive favors the side to move, negative favors the
// opponent. Implementations must be total: they must never panic.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) Score
}

// Material is a material-only evaluator: the nominal value balance for the side to move.
type Material struct{}

func (Material) Evaluate(_ context.Context, b *board.Board) Score {
	pos := b.Position()
	turn := b.Turn()

	var score Score
	for p := board.ZeroPiece; p < board.NumPieces; p++ {
		score += Score(pos.Piece(turn, p).PopCount()-pos.Piece(turn.Opponent(), p).PopCount()) * NominalValue(p)
	}
	return score
}

// Standard combines Material with piece-square tables. cmd/morlock selects it unless
// another evaluator is requested.
type Standard struct{}

func (Standard) Evaluate(_ context.Context, b *board.Board) Score {
	pos := b.Position()
	turn := b.Turn()
	return materialAndPST(pos, turn) - materialAndPST(pos, turn.Opponent())
}

func materialAndPST(pos *board.Position, c board.Color) Score {
	var score Score
	for p := board.Pawn; p <= board.King; p++ {
		bb := pos.Piece(c, p)
		for bb != 0 {
			sq := bb.LastPopSquare()
			bb ^= board.BitMask(sq)

			score += NominalValue(p)
			score += pieceSquareValue(c, p, sq)
		}
	}
	return score
}

// NominalValue is the absolute nominal centipawn value of a piece. The King has an
// arbitrary large value so it is never offered up in an exchange. These values double as
// the static-exchange-evaluation piece values in the search package.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain of a move, used to order opening-book
// moves.
func NominalValueGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}

func pieceSquareValue(c board.Color, p board.Piece, sq board.Square) Score {
	r, f := int(sq.Rank()), int(sq.File())
	if c == board.Black {
		r = 7 - r
	}
	return Score(pieceSquareTable[p][r][f])
}

// pieceSquareTable holds the classic "simplified evaluation function" piece-square values
// (Michniewski), indexed [piece][rank: Rank1=0..Rank8=7][file: FileH=0..FileA=7]. Every row
// here is left-right symmetric, so the FileH..FileA indexing used by board.Square matches
// the conventional FileA..FileH indexing without needing to mirror columns.
var pieceSquareTable = [board.NumPieces][8][8]int{
	board.NoPiece: {},
	board.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Knight: {
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	},
	board.Bishop: {
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	},
	board.Rook: {
		{0, 0, 0, 5, 5, 0, 0, 0},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Queen: {
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 5, 0, -10},
		{-10, 0, 5, 5, 5, 5, 5, -10},
		{-5, 0, 5, 5, 5, 5, 0, 0},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	},
	board.King: {
		{20, 30, 10, 0, 0, 10, 30, 20},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
	},
}
