package search

import (
	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// leastValuableAttackerOrder is the order in which attackers are considered: the cheapest
// piece able to recapture is always used first, since that minimizes material risked.
var leastValuableAttackerOrder = [6]board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

// SEE performs a static exchange evaluation of the capture move m: it estimates, in
// centipawns, the net material result of playing out the full capture sequence on m.To,
// assuming both sides always recapture with their least valuable attacker. A negative
// result means the initiating side loses material overall, even though the move itself
// captures a piece. Non-captures return zero. Pins are not modeled: an attacker behind a
// pinned piece is still considered "available", matching common engine practice since a
// full legality check for every intermediate exchange is prohibitively expensive.
func SEE(pos *board.Position, side board.Color, m board.Move) eval.Score {
	if !m.IsCapture() {
		return 0
	}

	sq := m.To
	rot := pos.Rotated()

	var occ [board.NumColors][board.NumPieces]board.Bitboard
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for p := board.ZeroPiece; p < board.NumPieces; p++ {
			occ[c][p] = pos.Piece(c, p)
		}
	}

	var gain [32]eval.Score
	d := 0
	gain[0] = eval.NominalValue(m.Capture)

	attacker := m.Piece
	from := m.From
	color := side

	for {
		rot = rot.Xor(from)
		occ[color][attacker] ^= board.BitMask(from)

		d++
		gain[d] = eval.NominalValue(attacker) - gain[d-1]
		if eval.Max(-gain[d-1], gain[d]) < 0 {
			break // pruning: this capture can no longer change the outcome either way
		}
		if d == len(gain)-1 {
			break // defensive: exchange sequences this long do not occur on a real board
		}

		color = color.Opponent()

		next, piece, ok := leastValuableAttacker(rot, &occ, color, sq)
		if !ok {
			break
		}
		attacker, from = piece, next
	}

	for i := d - 1; i > 0; i-- {
		gain[i-1] = -eval.Max(-gain[i-1], gain[i])
	}
	return gain[0]
}

func leastValuableAttacker(rot board.RotatedBitboard, occ *[board.NumColors][board.NumPieces]board.Bitboard, side board.Color, sq board.Square) (board.Square, board.Piece, bool) {
	if bb := board.PawnCaptureboard(side.Opponent(), board.BitMask(sq)) & occ[side][board.Pawn]; bb != 0 {
		return bb.LastPopSquare(), board.Pawn, true
	}
	for _, p := range leastValuableAttackerOrder[1:] {
		if bb := board.Attackboard(rot, sq, p) & occ[side][p]; bb != 0 {
			return bb.LastPopSquare(), p, true
		}
	}
	return board.ZeroSquare, board.NoPiece, false
}
