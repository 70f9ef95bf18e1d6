package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	sc "github.com/daniroblesc/scottcpu"
	"github.com/daniroblesc/scottcpu/nodelib"
)

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "measure tick latency across a range of buffer counts",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "iters", Value: 500, Usage: "ticks to measure per buffer count"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runBench(int(cmd.Int("iters")))
		},
	}
}

func runBench(iters int) error {
	bufferCounts := []int{0, 1, 2, 4, 8}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetTitle(fmt.Sprintf("scottcpu tick latency (%d iterations)", iters))
	tbl.AppendHeader(table.Row{"buffer count", "mode", "avg", "min", "p75", "p99", "max"})

	for _, mode := range []sc.TickMode{sc.Series, sc.Parallel} {
		for _, bc := range bufferCounts {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			c := buildBenchCircuit(bc)
			for i := 0; i < iters; i++ {
				start := time.Now()
				c.Tick(mode)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				bc, modeName(mode), calc.Time.Avg, calc.Time.Min, calc.Time.P75, calc.Time.P99, calc.Time.Max,
			})
		}
	}

	tbl.Render()
	return nil
}

func buildBenchCircuit(bufferCount int) *sc.Circuit {
	c := sc.NewCircuit()
	src := nodelib.NewSource()
	and := nodelib.And()
	not := nodelib.Not()
	sink := nodelib.NewSink()

	and.ConnectInput(0, src.Node, 0)
	and.ConnectInput(1, src.Node, 0)
	not.ConnectInput(0, and, 0)
	sink.ConnectInput(0, not, 0)

	c.AddComponent(src.Node)
	c.AddComponent(and)
	c.AddComponent(not)
	c.AddComponent(sink.Node)
	if bufferCount > 0 {
		c.SetBufferCount(bufferCount)
	}
	src.Set(true)
	return c
}

func modeName(mode sc.TickMode) string {
	if mode == sc.Series {
		return "Series"
	}
	return "Parallel"
}
