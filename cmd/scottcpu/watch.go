package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	sc "github.com/daniroblesc/scottcpu"
	"github.com/daniroblesc/scottcpu/nodelib"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "hot-reload a circuit config file and print the live fingerprint on every change",
		ArgsUsage: "<config-path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("watch: a config path is required")
			}
			return runWatch(ctx, path)
		},
	}
}

var reloadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("42"))

// passthroughProcessor is a config-driven node built via reflection instead
// of a hand-written nodelib constructor: MakeNode takes its port count
// and names from the `scottcpu:"in"`/`scottcpu:"out"` tags below.
// BuildCircuit then resizes it, like every node, to the inputs/outputs
// counts given in the config; the tag names stay on the ports kept.
type passthroughProcessor struct {
	In  struct{} `scottcpu:"in"`
	Out struct{} `scottcpu:"out"`
}

func (p *passthroughProcessor) Process(in, out *sc.SignalBus) {
	v, _ := in.Value(0)
	out.SetValue(0, v)
}

func runWatch(ctx context.Context, path string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	registry := sc.NodeRegistry{
		"and":  func(order sc.ProcessOrder) *sc.Node { return nodelib.And() },
		"or":   func(order sc.ProcessOrder) *sc.Node { return nodelib.Or() },
		"not":  func(order sc.ProcessOrder) *sc.Node { return nodelib.Not() },
		"xor":  func(order sc.ProcessOrder) *sc.Node { return nodelib.Xor() },
		"id":   func(order sc.ProcessOrder) *sc.Node { return nodelib.Identity() },
		"pass": func(order sc.ProcessOrder) *sc.Node {
			n, _ := nodelib.MakeNode(&passthroughProcessor{}, order)
			return n
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg, err := sc.DecodeCircuitConfig(data)
	if err != nil {
		return err
	}
	c, err := sc.BuildCircuit(cfg, registry)
	if err != nil {
		return err
	}
	fmt.Println(reloadStyle.Render(fmt.Sprintf("loaded: fingerprint=%x, components=%d", c.Fingerprint(), c.GetComponentCount())))

	err = sc.WatchCircuitConfig(ctx, path, os.ReadFile, func(cfg *sc.CircuitConfig) {
		next, err := sc.BuildCircuit(cfg, registry)
		if err != nil {
			fmt.Fprintln(os.Stderr, "watch: reload failed:", err)
			return
		}
		c = next
		fmt.Println(reloadStyle.Render(fmt.Sprintf("reloaded: fingerprint=%x, components=%d", c.Fingerprint(), c.GetComponentCount())))
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
