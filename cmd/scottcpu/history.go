package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	sc "github.com/daniroblesc/scottcpu"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "inspect a TickRecorder database",
		ArgsUsage: "<db-path>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 20, Usage: "number of most recent ticks to show"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("history: a database path is required")
			}
			return runHistory(path, int(cmd.Int("n")))
		},
	}
}

func runHistory(path string, n int) error {
	rec, err := sc.OpenTickRecorder(path)
	if err != nil {
		return err
	}
	defer rec.Close()

	count, err := rec.Count()
	if err != nil {
		return err
	}

	recent, err := rec.Recent(n)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetTitle(fmt.Sprintf("%d recorded ticks total, showing %d most recent", count, len(recent)))
	tbl.AppendHeader(table.Row{"slot", "duration", "observed at"})
	for _, r := range recent {
		tbl.AppendRow(table.Row{r.Slot, r.Duration, r.Timestamp.Format("2006-01-02 15:04:05.000")})
	}
	tbl.Render()
	return nil
}
