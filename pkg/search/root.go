package search

import (
	"context"
	"sync"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// negamaxRoot searches the root position to depth, dispatching to root-parallel search when
// the configured thread count calls for it. r's own board and tables are used for the
// (possibly only) first thread.
func negamaxRoot(ctx context.Context, r *run, depth int, alpha, beta eval.Score) (eval.Score, board.Move) {
	threads := r.s.params.effectiveThreads()
	if threads <= 1 {
		return r.negamax(ctx, depth, 0, alpha, beta)
	}
	return parallelRoot(ctx, r, depth, alpha, beta, threads)
}

// parallelRoot implements root-splitting search under the Young Brothers Wait discipline:
// the first root move is searched alone to establish an initial bound, then the remaining
// moves are distributed to worker goroutines that share the transposition table. Any thread
// observing a beta cutoff cancels its siblings.
func parallelRoot(ctx context.Context, r *run, depth int, alpha, beta eval.Score, threads int) (eval.Score, board.Move) {
	turn := r.b.Turn()
	fn := r.s.ordererFor(r.s.params, r.killers, r.history, turn, board.Move{}, 0)
	moves := orderMoves(r.b.Position().PseudoLegalMoves(turn), fn)

	best := eval.MinScore
	var bestMove board.Move
	hasMove := false

	i := 0
	for ; i < len(moves); i++ {
		m := moves[i]
		if !r.b.PushMove(m) {
			continue
		}
		s, _ := r.negamax(ctx, depth-1, 1, beta.Negate(), alpha.Negate())
		score := negateChild(s)
		r.b.PopMove()

		best, bestMove, hasMove = score, m, true
		if alpha.Less(best) {
			alpha = best
		}
		i++
		break
	}
	if !hasMove || !alpha.Less(beta) {
		return best, bestMove // no further moves, or already cut off
	}

	remaining := moves[i:]
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, threads-1)

	for _, m := range remaining {
		m := m
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			wb := r.b.Fork()
			if !wb.PushMove(m) {
				return
			}

			mu.Lock()
			localAlpha := alpha
			budget := uint64(0)
			if r.maxNodes > 0 {
				if r.nodes >= r.maxNodes {
					mu.Unlock()
					return
				}
				budget = r.maxNodes - r.nodes // remaining at spawn; workers may overshoot slightly
			}
			cutoff := !localAlpha.Less(beta)
			mu.Unlock()
			if cutoff {
				return
			}

			wr := newRun(r.s, wb, budget, r.deadline)
			s, _ := wr.negamax(cctx, depth-1, 1, beta.Negate(), localAlpha.Negate())
			score := negateChild(s)

			mu.Lock()
			r.nodes += wr.nodes
			if best.Less(score) {
				best, bestMove = score, m
				if alpha.Less(best) {
					alpha = best
				}
			}
			betaReached := !alpha.Less(beta)
			mu.Unlock()

			if betaReached {
				cancel() // signal siblings: further search cannot improve the result
			}
		}()
	}
	wg.Wait()

	return best, bestMove
}
