package search

import (
	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// killerTable holds up to two killer moves per ply: quiet moves that recently caused a
// beta cutoff at that ply, in some other branch of the tree. Replayed first among quiets
// since they are likely to be strong again.
type killerTable struct {
	moves [][2]board.Move
}

func newKillerTable(maxPly int) *killerTable {
	return &killerTable{moves: make([][2]board.Move, maxPly+2)}
}

// Add records m as a killer at ply, bumping the existing primary killer to secondary.
func (k *killerTable) Add(ply int, m board.Move) {
	if ply < 0 || ply >= len(k.moves) || m.Equals(k.moves[ply][0]) {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// Get returns the primary and secondary killer moves at ply.
func (k *killerTable) Get(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= len(k.moves) {
		return board.Move{}, board.Move{}
	}
	return k.moves[ply][0], k.moves[ply][1]
}

// historyTable scores quiet moves, by color and (from, to), that have caused cutoffs in
// the past. Moves gain depth^2 on every cutoff, so moves found deep in the tree -- more
// expensive to discover -- count for more.
type historyTable struct {
	score [board.NumColors][board.NumSquares][board.NumSquares]int32
}

func newHistoryTable() *historyTable {
	return &historyTable{}
}

func (h *historyTable) Add(c board.Color, m board.Move, depth int) {
	h.score[c][m.From][m.To] += int32(depth * depth)
}

func (h *historyTable) Get(c board.Color, m board.Move) int32 {
	return h.score[c][m.From][m.To]
}

// Move-ordering priority bands. A higher MovePriority is searched first. Bands do not
// overlap, so ordering degrades gracefully as features (killers, history) are disabled; the
// one exception is captures by the King, whose MVV-LVA score (victim*10 minus 20000) places
// them below the killer band.
const (
	ttPriority      board.MovePriority = 30000
	captureBase     board.MovePriority = 20000
	killerPrimary   board.MovePriority = 15000
	killerSecondary board.MovePriority = 14999
)

// ordererFor builds the move-priority function for one search node, per Params: TT move
// first, then captures by MVV-LVA, then killer moves, then quiet moves by history score,
// with ties broken by the deterministic order PseudoLegalMoves already produces (preserved
// by board.SortByPriority's stable sort).
func (s *Searcher) ordererFor(p Params, killers *killerTable, history *historyTable, turn board.Color, best board.Move, ply int) board.MovePriorityFn {
	var k1, k2 board.Move
	if p.UseKillers {
		k1, k2 = killers.Get(ply)
	}

	return func(m board.Move) board.MovePriority {
		switch {
		case best.From != best.To && m.Equals(best):
			return ttPriority
		case p.OrderCaptures && m.IsCapture():
			return captureBase + mvvlvaScore(m)
		case p.UseKillers && m.Equals(k1):
			return killerPrimary
		case p.UseKillers && m.Equals(k2):
			return killerSecondary
		case p.UseHistory:
			// Cap below the killer band: history counters grow without bound, and a hot
			// quiet move must still not outrank killers or captures.
			if h := history.Get(turn, m); h < int32(killerSecondary) {
				return board.MovePriority(h)
			}
			return killerSecondary - 1
		default:
			return 0
		}
	}
}

// mvvlvaScore is the standard MVV-LVA ordering score: ten times the victim's nominal value
// minus the attacker's, so that among captures of equal victim, the cheapest attacker sorts
// first. Fits comfortably in a MovePriority (int16): 10*NominalValue(Queen) is 9000.
func mvvlvaScore(m board.Move) board.MovePriority {
	return board.MovePriority(10*eval.NominalValue(m.Capture) - eval.NominalValue(m.Piece))
}

// orderMoves returns moves sorted by priority, highest first, with a deterministic tiebreak
// (the original, already-deterministic generation order is preserved by the stable sort).
func orderMoves(moves []board.Move, fn board.MovePriorityFn) []board.Move {
	board.SortByPriority(moves, fn)
	return moves
}
