package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// quiesce extends the search horizon through captures (and, while in check, all legal
// evasions) until the position is "quiet", to avoid the horizon effect of cutting off a
// search mid-exchange. ply continues the parent negamax's ply count; mate distance is carried
// by negateChild, not by ply.
func (r *run) quiesce(ctx context.Context, ply int, alpha, beta eval.Score) eval.Score {
	r.nodes++
	if r.halted(ctx) {
		return eval.Crop(r.s.eval.Evaluate(ctx, r.b))
	}
	if r.b.Result().Outcome == board.Draw {
		return eval.DrawScore
	}

	turn := r.b.Turn()
	inCheck := r.b.Position().IsChecked(turn)

	if !inCheck {
		standPat := eval.Crop(r.s.eval.Evaluate(ctx, r.b) + r.s.noise.Evaluate(ctx, r.b))
		if !standPat.Less(beta) {
			return beta
		}
		if alpha.Less(standPat) {
			alpha = standPat
		}
	}

	all := r.b.Position().PseudoLegalMoves(turn)

	var candidates []board.Move
	if inCheck {
		candidates = all // no stand-pat while in check: every evasion must be examined
	} else {
		for _, m := range all {
			if m.IsCapture() {
				candidates = append(candidates, m)
			}
		}
	}

	candidates = orderMoves(candidates, mvvlvaPriority)

	hasLegalMove := false
	for _, m := range candidates {
		if !inCheck && SEE(r.b.Position(), turn, m) < 0 {
			continue // prune clearly losing captures
		}
		if !r.b.PushMove(m) {
			continue
		}
		hasLegalMove = true

		score := negateChild(r.quiesce(ctx, ply+1, beta.Negate(), alpha.Negate()))
		r.b.PopMove()

		if alpha.Less(score) {
			alpha = score
		}
		if !alpha.Less(beta) {
			break
		}
	}

	if inCheck && !hasLegalMove {
		return eval.MinScore // checkmate
	}
	return alpha
}

// mvvlvaPriority orders quiescence candidates (all captures, or all evasions while in
// check) by MVV-LVA; non-captures fall through to the zero priority band.
func mvvlvaPriority(m board.Move) board.MovePriority {
	if !m.IsCapture() {
		return 0
	}
	return captureBase + mvvlvaScore(m)
}
