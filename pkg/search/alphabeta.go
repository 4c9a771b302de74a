package search

import (
	"context"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// noDeadline marks a run with no wall-clock budget.
var noDeadline = time.Time{}

// run carries the mutable, single-thread state of one negamax invocation: node counter,
// budgets, killer/history tables and the board being searched. A fresh run is created per
// root-parallel worker, so none of this needs synchronization.
type run struct {
	s        *Searcher
	b        *board.Board
	nodes    uint64
	maxNodes uint64
	deadline time.Time

	killers *killerTable
	history *historyTable
}

func newRun(s *Searcher, b *board.Board, maxNodes uint64, deadline time.Time) *run {
	return &run{
		s:        s,
		b:        b,
		maxNodes: maxNodes,
		deadline: deadline,
		killers:  newKillerTable(MaxPly),
		history:  newHistoryTable(),
	}
}

// halted reports whether the run should stop immediately: external cancellation, node
// budget exhaustion, or deadline. Checked at the top of every recursive call and again
// immediately before any TT write, per the "stop flag precedes tt_put" discipline.
func (r *run) halted(ctx context.Context) bool {
	if contextx.IsCancelled(ctx) {
		return true
	}
	if r.maxNodes > 0 && r.nodes >= r.maxNodes {
		return true
	}
	if !r.deadline.IsZero() && !time.Now().Before(r.deadline) {
		return true
	}
	return false
}

// negateChild converts a child's returned score to this node's perspective: negamax sign
// flip, plus widening the mate distance by one ply. Scores are node-relative throughout:
// a mate score always means "mate in k from the position at hand", so transposition table
// entries need no ply adjustment on store or probe.
func negateChild(score eval.Score) eval.Score {
	return eval.IncrementMateDistance(score).Negate()
}

// nullMoveReduction is R in "search at reduced depth d - 1 - R" for null-move pruning.
func nullMoveReduction(depth int) int {
	return 2 + depth/6
}

// lmrReduction is R in late move reduction, per move index i (0-based) and remaining depth.
func lmrReduction(i, depth int) int {
	if i >= 6 && depth >= 6 {
		return 2
	}
	return 1
}

// negamax searches the current position to depth, returning the score (from the side to
// move's perspective) and the best move found, if any. ply is the distance from this run's
// root, used for killer-table indexing, the check-extension ceiling and the TT entry; mate
// distance is carried by negateChild, not by ply.
func (r *run) negamax(ctx context.Context, depth, ply int, alpha, beta eval.Score) (eval.Score, board.Move) {
	r.nodes++
	if r.halted(ctx) {
		return eval.Crop(r.s.eval.Evaluate(ctx, r.b)), board.Move{}
	}
	if r.b.Result().Outcome == board.Draw {
		return eval.DrawScore, board.Move{}
	}

	p := r.s.params
	turn := r.b.Turn()
	inCheck := r.b.Position().IsChecked(turn)

	if inCheck && ply < MaxPly-1 {
		depth++ // check extension: avoid missing forced sequences at the horizon
	}
	if depth <= 0 {
		return r.quiesce(ctx, ply, alpha, beta), board.Move{}
	}

	hash := r.b.Hash()
	origAlpha := alpha

	var ttMove board.Move
	if p.UseTT {
		if bound, d, score, move, ok := r.s.tt.Read(hash); ok {
			ttMove = move
			if d >= depth {
				switch bound {
				case ExactBound:
					return score, move
				case LowerBound:
					if !score.Less(beta) {
						return score, move
					}
				case UpperBound:
					if !alpha.Less(score) {
						return score, move
					}
				}
			}
		}
	}

	if p.UseNullMove && ply > 0 && !inCheck && depth >= p.NullMinDepth && r.b.Position().HasNonPawnMaterial(turn) {
		if static := r.s.eval.Evaluate(ctx, r.b); !static.Less(beta) {
			R := nullMoveReduction(depth)
			r.b.PushNullMove()
			score, _ := r.negamax(ctx, depth-1-R, ply+1, beta.Negate(), beta.Negate()+1)
			score = negateChild(score)
			r.b.PopNullMove()

			if !score.Less(beta) {
				return beta, board.Move{}
			}
		}
	}

	fn := r.s.ordererFor(p, r.killers, r.history, turn, ttMove, ply)
	moves := orderMoves(r.b.Position().PseudoLegalMoves(turn), fn)

	k1, k2 := r.killers.Get(ply)
	hasLegalMove := false
	best := eval.MinScore
	var bestMove board.Move

	for i, m := range moves {
		if !r.b.PushMove(m) {
			continue
		}
		hasLegalMove = true

		// PushMove already flipped the side to move, so IsChecked(r.b.Turn()) reports
		// whether m itself gives check.
		givesCheck := r.b.Position().IsChecked(r.b.Turn())

		var score eval.Score
		reduced := false
		if p.UseLMR && depth >= 3 && i >= 3 && m.IsQuiet() && !inCheck && !givesCheck && !m.Equals(k1) && !m.Equals(k2) {
			R := lmrReduction(i, depth)
			s, _ := r.negamax(ctx, depth-1-R, ply+1, alpha.Negate()-1, alpha.Negate())
			score = negateChild(s)
			reduced = true
		}
		if !reduced || alpha.Less(score) {
			s, _ := r.negamax(ctx, depth-1, ply+1, beta.Negate(), alpha.Negate())
			score = negateChild(s)
		}

		r.b.PopMove()

		if best.Less(score) {
			best = score
			bestMove = m
		}
		if alpha.Less(best) {
			alpha = best
		}
		if !alpha.Less(beta) {
			if m.IsQuiet() {
				r.killers.Add(ply, m)
				r.history.Add(turn, m, depth)
			}
			break // beta cutoff
		}
	}

	if !hasLegalMove {
		if inCheck {
			return eval.MinScore, board.Move{}
		}
		return eval.DrawScore, board.Move{}
	}

	bound := ExactBound
	switch {
	case !best.Less(beta):
		bound = LowerBound
	case !origAlpha.Less(best):
		bound = UpperBound
	}

	if p.UseTT && !r.halted(ctx) {
		r.s.tt.Write(hash, bound, ply, depth, best, bestMove)
	}
	return best, bestMove
}
