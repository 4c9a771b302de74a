package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/logw"
)

// PV represents the principal variation found at the end of one completed iterative
// deepening iteration.
type PV struct {
	Depth int
	Move  board.Move
	Has   bool
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // TT utilization [0;1]
}

func (p PV) String() string {
	move := "none"
	if p.Has {
		move = p.Move.String()
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% move=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), move)
}

// iterativeRun drives iterative deepening with aspiration windows for a single
// SearchWithParams invocation.
type iterativeRun struct {
	searcher *Searcher
	b        *board.Board
}

func (ir *iterativeRun) run(ctx context.Context, maxDepth int, maxNodes uint64) Result {
	s := ir.searcher
	p := s.params

	var last Result
	var lastScore eval.Score
	haveCompleted := false
	var totalNodes uint64

	for depth := 1; maxDepth == 0 || depth <= maxDepth; depth++ {
		if p.UseTT {
			s.tt.NewGeneration()
		}

		score, move, nodes, aborted := ir.searchOneDepth(ctx, depth, maxNodes, totalNodes, lastScore, haveCompleted)
		totalNodes = nodes

		if aborted {
			if !haveCompleted {
				last = ir.fallbackResult(ctx, totalNodes)
			}
			break
		}

		last = Result{BestMove: move, HasMove: move.From != move.To, ScoreCP: eval.Crop(score), Nodes: totalNodes, Depth: depth}
		lastScore = score
		haveCompleted = true

		logw.Debugf(ctx, "Searched %v: %v", ir.b.Position(), last)

		if score.IsMate() {
			break // forced mate found inside the search window; no deeper search needed
		}
	}

	return last
}

// searchOneDepth performs one iterative-deepening iteration, including aspiration-window
// widening, and reports whether the iteration was aborted before producing a trustworthy
// result. startNodes is the node count already consumed by earlier iterations, so that
// maxNodes bounds the entire search rather than each iteration; the returned node count is
// likewise cumulative.
func (ir *iterativeRun) searchOneDepth(ctx context.Context, depth int, maxNodes, startNodes uint64, priorScore eval.Score, havePrior bool) (eval.Score, board.Move, uint64, bool) {
	s := ir.searcher
	p := s.params

	alpha, beta := eval.NegInfScore, eval.InfScore
	window := eval.Score(p.AspirationWindowCP)
	if window <= 0 {
		window = 25
	}
	if p.UseAspiration && havePrior && !priorScore.IsMate() {
		alpha, beta = priorScore-window, priorScore+window
	}

	nodes := startNodes
	for {
		r := newRun(s, ir.b, maxNodes, noDeadline)
		r.nodes = nodes
		score, move := negamaxRoot(ctx, r, depth, alpha, beta)
		nodes = r.nodes

		if r.halted(ctx) {
			return score, move, nodes, true
		}
		if alpha.Less(score) && score.Less(beta) {
			return score, move, nodes, false // inside window: trustworthy
		}

		// Fail-low or fail-high: widen exponentially and retry. Once alpha/beta reach the
		// full [-MATE_SCORE-1;+MATE_SCORE+1] sentinel range, every real score satisfies the
		// "inside window" check above, so this loop always terminates.
		if !alpha.Less(score) {
			alpha = eval.Max(eval.NegInfScore, alpha-window)
		} else {
			beta = eval.Min(eval.InfScore, beta+window)
		}
		window *= 2
	}
}

// fallbackResult implements the "budget exhausted before depth 1 finishes" contract: the
// first legal move in generator order, scored by static evaluation.
func (ir *iterativeRun) fallbackResult(ctx context.Context, nodes uint64) Result {
	if m, ok := firstLegalMove(ir.b); ok {
		return Result{BestMove: m, HasMove: true, ScoreCP: eval.Crop(ir.searcher.eval.Evaluate(ctx, ir.b)), Nodes: nodes}
	}

	result := ir.b.AdjudicateNoLegalMoves()
	score := eval.DrawScore
	if result.Reason == board.Checkmate {
		score = eval.MinScore
	}
	return Result{HasMove: false, ScoreCP: score, Nodes: nodes}
}

func firstLegalMove(b *board.Board) (board.Move, bool) {
	for _, m := range b.Position().PseudoLegalMoves(b.Turn()) {
		if b.PushMove(m) {
			b.PopMove()
			return m, true
		}
	}
	return board.Move{}, false
}

// Handle manages a running background search. The engine is expected to spin off searches
// with forked boards and Halt them when no longer needed.
type Handle interface {
	// Halt stops the search, if running, and returns the last completed PV. Idempotent.
	Halt() PV
}

// Launcher launches a background iterative-deepening search, streaming a PV per completed
// depth until the search is halted or exhausts its depth/time budget.
type Launcher interface {
	Launch(ctx context.Context, b *board.Board, depthLimit int, tc *TimeControl) (Handle, <-chan PV)
}

// NewLauncher returns a Launcher backed by s.
func NewLauncher(s *Searcher) Launcher {
	return &launcher{s: s}
}

type launcher struct {
	s *Searcher
}

func (l *launcher) Launch(ctx context.Context, b *board.Board, depthLimit int, tc *TimeControl) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{quit: make(chan struct{}), init: make(chan struct{})}
	go h.process(ctx, l.s, b.Fork(), depthLimit, tc, out)
	return h, out
}

type handle struct {
	quit, init chan struct{}
	closeQuit  sync.Once
	closeInit  sync.Once

	mu sync.Mutex
	pv PV
}

func (h *handle) process(ctx context.Context, s *Searcher, b *board.Board, depthLimit int, tc *TimeControl, out chan PV) {
	defer h.markInitialized()
	defer close(out)

	var soft, hard time.Duration
	useSoft := false
	if tc != nil {
		soft, hard = tc.Limits(b.Turn())
		useSoft = true
	}

	var wctx context.Context
	var cancel context.CancelFunc
	if useSoft {
		wctx, cancel = context.WithTimeout(ctx, hard)
	} else {
		wctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	go func() {
		select {
		case <-h.quit:
			cancel()
		case <-wctx.Done():
		}
	}()

	ir := &iterativeRun{searcher: s, b: b}
	var total uint64
	for depth := 1; depthLimit == 0 || depth <= depthLimit; depth++ {
		start := time.Now()

		if s.params.UseTT {
			s.tt.NewGeneration()
		}

		score, move, nodes, aborted := ir.searchOneDepth(wctx, depth, s.params.MaxNodes, total, h.lastScore(), h.hasPV())
		total = nodes
		if aborted && h.hasPV() {
			return
		}

		pv := PV{Depth: depth, Move: move, Has: move.From != move.To, Score: eval.Crop(score), Nodes: total, Time: time.Since(start), Hash: s.tt.Used()}
		h.setPV(pv)

		select {
		case <-out:
		default:
		}
		out <- pv
		h.markInitialized()

		if aborted || score.IsMate() {
			return
		}
		if useSoft && time.Since(start) > soft {
			return
		}
		select {
		case <-wctx.Done():
			return
		default:
		}
	}
}

func (h *handle) Halt() PV {
	<-h.init
	h.closeQuit.Do(func() { close(h.quit) })

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

func (h *handle) markInitialized() {
	h.closeInit.Do(func() { close(h.init) })
}

func (h *handle) setPV(pv PV) {
	h.mu.Lock()
	h.pv = pv
	h.mu.Unlock()
}

func (h *handle) hasPV() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv.Has
}

func (h *handle) lastScore() eval.Score {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv.Score
}
