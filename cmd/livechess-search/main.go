// livechess-search drives a physical DGT EBoard, connected via LiveChess, using the morlock
// search core: whenever it is the engine's turn, it runs an analysis and plays the suggested
// move; opponent moves are read back off the board itself.
package main

import (
	"context"
	"flag"
	"strings"
	"sync/atomic"

	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

var (
	serial    = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip      = flag.Bool("flip", false, "Flip board")
	depth     = flag.Int("depth", 6, "Search depth limit for the engine's own moves")
	colorFlag = flag.String("color", "black", "Color the engine plays: white or black")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	id := livechess.EBoardSerial(*serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			logw.Exitf(ctx, "Watch failed to autodetect board: %v", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		logw.Exitf(ctx, "Feed for %v failed: %v", id, err)
	}
	if *flip {
		if err := client.Flip(ctx, true); err != nil {
			logw.Exitf(ctx, "Flip board %v failed: %v", id, err)
		}
	}
	if err := client.Setup(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Setup board %v failed: %v", id, err)
	}

	engineColor := board.White
	if strings.EqualFold(*colorFlag, "black") {
		engineColor = board.Black
	}

	e := engine.New(ctx, "livechess-search", "herohde", eval.Standard{}, engine.WithOptions(engine.Options{
		Depth: uint(*depth),
		Hash:  32,
	}))

	w := newWatcher(ctx, client, events)

	logw.Infof(ctx, "livechess-search watching board %v, playing %v", id, engineColor)

	for {
		turn := e.Board().Turn()
		if turn != engineColor {
			m, ok := w.awaitOpponentMove(ctx, e.Board())
			if !ok {
				return // context cancelled
			}
			if err := e.Move(ctx, m.String()); err != nil {
				logw.Errorf(ctx, "Opponent move %v rejected: %v", m, err)
				return
			}
			continue
		}

		pv, err := analyzeOnce(ctx, e, *depth)
		if err != nil {
			logw.Errorf(ctx, "Analyze failed: %v", err)
			return
		}
		if !pv.Has {
			logw.Infof(ctx, "No legal move: game over")
			return
		}

		if err := e.Move(ctx, pv.Move.String()); err != nil {
			logw.Errorf(ctx, "Engine move %v rejected: %v", pv.Move, err)
			return
		}
		if err := client.Move(ctx, pv.Move.String()); err != nil {
			logw.Errorf(ctx, "Playing %v on board failed: %v", pv.Move, err)
			return
		}
	}
}

func analyzeOnce(ctx context.Context, e *engine.Engine, depth int) (search.PV, error) {
	out, err := e.Analyze(ctx, engine.AnalyzeOptions{DepthLimit: lang.Some(uint(depth))})
	if err != nil {
		return search.PV{}, err
	}

	var last search.PV
	for pv := range out {
		last = pv
	}
	return last, nil
}

// watcher tracks the EBoard's reported position and recovers the single legal move that
// explains the transition from the engine's last-known board to the board's reported FEN.
type watcher struct {
	client livechess.FeedClient

	last  atomic.Pointer[livechess.EBoardEventResponse]
	pulse *iox.Pulse
}

func newWatcher(ctx context.Context, client livechess.FeedClient, events <-chan livechess.EBoardEventResponse) *watcher {
	w := &watcher{client: client, pulse: iox.NewPulse()}
	go w.process(ctx, events)
	return w
}

func (w *watcher) process(ctx context.Context, events <-chan livechess.EBoardEventResponse) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if len(event.San) > 0 {
				w.last.Store(&event)
				w.pulse.Emit()
			}

		case <-ctx.Done():
			return
		}
	}
}

// awaitOpponentMove blocks until the EBoard reports a position matching one of the legal
// moves available from b, and returns that move.
func (w *watcher) awaitOpponentMove(ctx context.Context, b *board.Board) (board.Move, bool) {
	candidates := map[string]board.Move{}
	for _, m := range b.Position().LegalMoves(b.Turn()) {
		if !b.PushMove(m) {
			continue
		}
		key := strings.Split(fen.Encode(b.Position(), b.Turn(), 0, 0), " ")[0]
		candidates[key] = m
		b.PopMove()
	}

	for {
		if last := w.last.Load(); last != nil {
			if m, ok := candidates[last.Board]; ok {
				return m, true
			}
		}

		select {
		case <-w.pulse.Chan():
			// board changed: retry match
		case <-ctx.Done():
			return board.Move{}, false
		}
	}
}
