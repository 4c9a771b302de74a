// Package search implements the search core of the engine: iterative-deepening negamax
// with a transposition table, move ordering, quiescence, null-move pruning, late move
// reductions, aspiration windows and static exchange evaluation.
package search

import (
	"context"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// MaxPly bounds killer-table indexing and the check-extension ceiling. Chess search rarely
// exceeds a few dozen plies of extensions even at high depth, so a generous fixed bound
// avoids the cost and complexity of dynamic growth.
const MaxPly = 128

// Result is the outcome of a completed (or aborted) search.
type Result struct {
	BestMove board.Move
	HasMove  bool
	ScoreCP  eval.Score
	Nodes    uint64
	Depth    int
}

// Searcher runs negamax search against a static Evaluator, with an optionally shared
// transposition table. The zero value is not usable; construct with NewSearcher.
type Searcher struct {
	eval   eval.Evaluator
	tt     TranspositionTable
	noise  eval.Random
	params Params
}

// NewSearcher constructs a Searcher using ev for static evaluation and tt for
// transposition caching (use NoTranspositionTable{} to disable).
func NewSearcher(ev eval.Evaluator, tt TranspositionTable) *Searcher {
	return &Searcher{
		eval:   ev,
		tt:     tt,
		params: NewParams(),
	}
}

// SetNoise configures the noise generator added to leaf evaluations. The zero Random is
// silent, so searches are noise-free unless explicitly configured otherwise.
func (s *Searcher) SetNoise(n eval.Random) {
	s.noise = n
}

func (s *Searcher) Params() Params {
	return s.params
}

func (s *Searcher) SetParams(p Params) {
	s.params = p
}

func (s *Searcher) SetTTCapacityMB(ctx context.Context, mb uint64) {
	s.tt = NewTranspositionTable(ctx, mb<<20)
}

// DisableTT discards the current transposition table and searches without one.
func (s *Searcher) DisableTT() {
	s.tt = NoTranspositionTable{}
}

func (s *Searcher) SetThreads(n int) { s.params.Threads = n }
func (s *Searcher) SetOrderCaptures(v bool) { s.params.OrderCaptures = v }
func (s *Searcher) SetUseHistory(v bool) { s.params.UseHistory = v }
func (s *Searcher) SetUseKillers(v bool) { s.params.UseKillers = v }
func (s *Searcher) SetUseLMR(v bool) { s.params.UseLMR = v }
func (s *Searcher) SetUseNullMove(v bool) { s.params.UseNullMove = v }
func (s *Searcher) SetNullMinDepth(d int) { s.params.NullMinDepth = d }
func (s *Searcher) SetUseAspiration(v bool) { s.params.UseAspiration = v }
func (s *Searcher) SetDeterministic(v bool) { s.params.Deterministic = v }

// SearchDepth searches b to a fixed depth, with no time budget. Convenience wrapper
// around SearchWithParams.
func (s *Searcher) SearchDepth(ctx context.Context, b *board.Board, depth int) Result {
	p := s.params
	return s.SearchWithParams(ctx, b, p, depth, 0)
}

// SearchMovetime searches b under a wall-clock budget (milliseconds), optionally also
// capped by depth (0 == unbounded).
func (s *Searcher) SearchMovetime(ctx context.Context, b *board.Board, millis int64, depth int) Result {
	p := s.params
	p.MoveTime = millis
	return s.SearchWithParams(ctx, b, p, depth, millis)
}

// SearchWithParams runs iterative deepening from ply 1 up to depth (0 == unbounded, stop
// on budget only), honoring p's feature toggles and budgets.
func (s *Searcher) SearchWithParams(ctx context.Context, b *board.Board, p Params, depth int, movetimeMillis int64) Result {
	if p.Threads < 1 {
		p.Threads = 1
	}
	if movetimeMillis <= 0 {
		movetimeMillis = p.MoveTime
	}
	s.params = p

	wctx := ctx
	var cancel context.CancelFunc
	if movetimeMillis > 0 {
		wctx, cancel = context.WithTimeout(ctx, time.Duration(movetimeMillis)*time.Millisecond)
		defer cancel()
	}

	run := &iterativeRun{searcher: s, b: b.Fork()}
	return run.run(wctx, depth, p.MaxNodes)
}

// QSearchEvalCP is a test hook: it returns the quiescence-stabilized evaluation of the
// current position from the side-to-move's perspective.
func (s *Searcher) QSearchEvalCP(ctx context.Context, b *board.Board) eval.Score {
	run := newRun(s, b.Fork(), 0, noDeadline)
	return run.quiesce(ctx, 0, eval.NegInfScore, eval.InfScore)
}

// TTProbe is a test hook exposing the raw transposition table state for the position.
func (s *Searcher) TTProbe(b *board.Board) (depth int, bound Bound, ok bool) {
	bnd, d, _, _, found := s.tt.Read(b.Hash())
	return d, bnd, found
}

// DebugOrderForParent is a test hook exposing the move orderer's output for the current
// position, up to limit moves (0 == all).
func (s *Searcher) DebugOrderForParent(b *board.Board, limit int) []board.Move {
	best := board.Move{}
	if _, _, _, m, ok := s.tt.Read(b.Hash()); ok {
		best = m
	}

	moves := b.Position().PseudoLegalMoves(b.Turn())
	moves = orderMoves(moves, s.ordererFor(s.params, newKillerTable(MaxPly), newHistoryTable(), b.Turn(), best, 0))
	if limit > 0 && limit < len(moves) {
		moves = moves[:limit]
	}
	return moves
}
