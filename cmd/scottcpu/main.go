// Command scottcpu is a small CLI front end over the scottcpu dataflow
// engine: it can run canned demo circuits, benchmark tick latency across
// buffer configurations, and inspect a TickRecorder database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "scottcpu",
		Usage: "inspect and exercise the scottcpu dataflow engine",
		Commands: []*cli.Command{
			demoCommand(),
			benchCommand(),
			historyCommand(),
			watchCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "scottcpu:", err)
		os.Exit(1)
	}
}
