package search

import (
	"context"
	"math/rand"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// ChooseNoisyMove implements the noise-filtered move selector used by self-play: it draws
// uniformly, via rng, from the first topK entries of ordered (an already move-ordered
// candidate list, e.g. from DebugOrderForParent), rejecting any capture whose SEE is below
// seeThreshold and any candidate after which the one-ply safety probe finds an opponent
// reply gaining at least -seeThreshold centipawns. It keeps drawing
// (without replacement) until a survivor is found or the window is exhausted, in which case
// it falls back to ordered[0]. Returns ok=false only if ordered is empty.
func (s *Searcher) ChooseNoisyMove(ctx context.Context, b *board.Board, ordered []board.Move, topK int, rng *rand.Rand, seeThreshold eval.Score) (board.Move, bool) {
	if len(ordered) == 0 {
		return board.Move{}, false
	}
	if topK <= 0 || topK > len(ordered) {
		topK = len(ordered)
	}

	window := append([]board.Move(nil), ordered[:topK]...)
	for len(window) > 0 {
		i := rng.Intn(len(window))
		m := window[i]

		if s.isSafeCandidate(ctx, b, m, seeThreshold) {
			return m, true
		}
		window = append(window[:i], window[i+1:]...)
	}
	return ordered[0], true
}

func (s *Searcher) isSafeCandidate(ctx context.Context, b *board.Board, m board.Move, seeThreshold eval.Score) bool {
	if m.IsCapture() && SEE(b.Position(), b.Turn(), m).Less(seeThreshold) {
		return false
	}
	return !s.ExposesHeavyLoss(ctx, b, m, seeThreshold.Negate())
}

// ExposesHeavyLoss plays m and then, over every legal opponent reply, computes the larger
// of that reply's SEE (if it is a capture) and the material swing of a one-ply static
// evaluation. It returns true iff the opponent's best reply gains at least thresholdCP.
func (s *Searcher) ExposesHeavyLoss(ctx context.Context, b *board.Board, m board.Move, thresholdCP eval.Score) bool {
	if !b.PushMove(m) {
		return false // illegal: caller is responsible for only proposing legal moves
	}
	defer b.PopMove()

	opponent := b.Turn()
	before := s.eval.Evaluate(ctx, b)

	best := eval.MinScore
	for _, reply := range b.Position().PseudoLegalMoves(opponent) {
		gain := eval.ZeroScore
		if reply.IsCapture() {
			gain = SEE(b.Position(), opponent, reply)
		}

		if !b.PushMove(reply) {
			continue
		}
		after := s.eval.Evaluate(ctx, b).Negate() // back to opponent's perspective
		swing := after - before
		b.PopMove()

		if swing.Less(gain) {
			// gain already the larger
		} else {
			gain = swing
		}
		if best.Less(gain) {
			best = gain
		}
	}
	return !best.Less(thresholdCP)
}
