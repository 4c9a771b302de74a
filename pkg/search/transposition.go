package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score, relative to the
// window the score was obtained in.
type Bound uint8

const (
	// ExactBound is a precise score: alpha < score < beta.
	ExactBound Bound = iota
	// LowerBound is a fail-high score: the true score is score or higher (score >= beta).
	LowerBound
	// UpperBound is a fail-low score: the true score is score or lower (score <= alpha).
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash, to avoid re-searching
// transposed positions and to seed move ordering with the previous best move. Must be
// thread-safe: concurrent Read/Write from root-parallel searches is expected.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move for the given position hash, if present.
	Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool)
	// Write stores the entry into the table, subject to table semantics and replacement policy.
	// Returns false if the write was skipped (e.g., a more valuable entry already occupies the slot).
	Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

	// NewGeneration advances the table's generation counter. Entries from older generations
	// are preferred for replacement over entries from the current generation.
	NewGeneration()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// metadata captures node metadata: bound, best move and replacement priority. 10 bytes.
type metadata struct {
	bound      Bound        // 1
	from, to   board.Square // bestmove
	promotion  board.Piece  // bestmove
	generation uint16
	ply, depth uint16
}

// node represents a cached search result. Stored behind an atomic pointer so reads never
// tear, even without a lock: a reader either observes the old or the new node in full.
type node struct {
	hash  board.ZobristHash
	score eval.Score
	md    metadata
}

// table is a fixed-capacity, lossy transposition table addressed by hash & mask.
type table struct {
	entries    []unsafe.Pointer // *node
	mask       uint64
	used       uint64
	generation uint32
}

// NewTranspositionTable allocates a table of at most size bytes, rounded down to the
// nearest power-of-two entry count.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	const entrySize = 40
	n := uint64(1)
	if entries := size / entrySize; entries > 0 {
		n = uint64(1) << (63 - bits.LeadingZeros64(entries))
	}

	logw.Infof(ctx, "Allocating %vMB TT with %v entries", size>>20, n)

	return &table{
		entries: make([]unsafe.Pointer, n),
		mask:    n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.entries)) * 40
}

func (t *table) Used() float64 {
	return float64(atomic.LoadUint64(&t.used)) / float64(len(t.entries))
}

func (t *table) NewGeneration() {
	atomic.AddUint32(&t.generation, 1)
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	key := uint64(hash) & t.mask
	ptr := (*node)(atomic.LoadPointer(&t.entries[key]))
	if ptr != nil && ptr.hash == hash {
		bestmove := board.Move{From: ptr.md.from, To: ptr.md.to, Promotion: ptr.md.promotion}
		return ptr.md.bound, int(ptr.md.depth), ptr.score, bestmove, true
	}
	return 0, 0, eval.InvalidScore, board.Move{}, false
}

func (t *table) Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	key := uint64(hash) & t.mask
	addr := &t.entries[key]

	fresh := &node{
		hash:  hash,
		score: score,
		md: metadata{
			bound:      bound,
			from:       move.From,
			to:         move.To,
			promotion:  move.Promotion,
			generation: uint16(atomic.LoadUint32(&t.generation)),
			ply:        uint16(ply),
			depth:      uint16(depth),
		},
	}

	for {
		old := (*node)(atomic.LoadPointer(addr))
		if old != nil && old.hash != hash && !replace(old, fresh) {
			return false // keep: existing entry is more valuable and from a different position
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(old), unsafe.Pointer(fresh)) {
			if old == nil {
				atomic.AddUint64(&t.used, 1)
			}
			return true
		}
	}
}

// replace reports whether fresh should replace old: entries from an older generation are
// always replaced; within the same generation, greater search depth wins.
func replace(old, fresh *node) bool {
	if old.md.generation != fresh.md.generation {
		return true
	}
	return fresh.md.depth >= old.md.depth
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// WriteFilter is a predicate on the Write operation: returning true skips the write.
type WriteFilter func(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

// WriteLimited wraps a TranspositionTable and ignores writes the Filter rejects. Useful to
// suppress writes below a minimum depth.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return w.TT.Read(hash)
}

func (w WriteLimited) Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	if w.Filter(hash, bound, ply, depth, score, move) {
		return false
	}
	return w.TT.Write(hash, bound, ply, depth, score, move)
}

func (w WriteLimited) NewGeneration() { w.TT.NewGeneration() }
func (w WriteLimited) Size() uint64   { return w.TT.Size() }
func (w WriteLimited) Used() float64  { return w.TT.Used() }

// NewMinDepthTranspositionTable creates a TranspositionTableFactory that ignores writes
// below a minimum depth.
func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
				return depth < min
			},
			TT: NewTranspositionTable(ctx, size),
		}
	}
}

// NoTranspositionTable is a Nop implementation, used when use_tt is disabled.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return 0, 0, eval.InvalidScore, board.Move{}, false
}

func (NoTranspositionTable) Write(board.ZobristHash, Bound, int, int, eval.Score, board.Move) bool {
	return false
}

func (NoTranspositionTable) NewGeneration() {}
func (NoTranspositionTable) Size() uint64   { return 0 }
func (NoTranspositionTable) Used() float64  { return 0 }
