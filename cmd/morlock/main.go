package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/engine/console"
	"github.com/herohde/morlock/pkg/engine/uci"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 0, "Search depth limit (zero for no limit)")
	hash     = flag.Int("hash", 64, "Transposition table size in MB (zero disables it)")
	noise    = flag.Int("noise", 10, "Evaluation noise in centipawns (zero if deterministic)")
	threads  = flag.Int("threads", 1, "Number of root-parallel search threads")
	evalMode = flag.String("eval", "pst", "Static evaluation: 'material' or 'pst' (material + piece-square tables)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlock [options]

MORLOCK is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var ev eval.Evaluator
	switch *evalMode {
	case "material":
		ev = eval.Material{}
	case "pst":
		ev = eval.Standard{}
	default:
		flag.Usage()
		logw.Exitf(ctx, "Invalid eval mode: %v", *evalMode)
	}

	e := engine.New(ctx, "morlock", "herohde", ev, engine.WithOptions(engine.Options{
		Depth:   uint(*depth),
		Hash:    uint(*hash),
		Noise:   uint(*noise),
		Threads: uint(*threads),
	}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
