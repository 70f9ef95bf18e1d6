package scottcpu

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"

	"github.com/daniroblesc/scottcpu/internal/diag"
)

// NodeConfig describes one node to be constructed when building a
// Circuit from configuration.
type NodeConfig struct {
	ID      string `json:"id" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Inputs  int    `json:"inputs" validate:"min=0"`
	Outputs int    `json:"outputs" validate:"min=0"`
	Order   string `json:"order,omitempty" validate:"omitempty,oneof=InOrder OutOfOrder"`
}

// WireConfig describes one wire to be connected when building a Circuit
// from configuration.
type WireConfig struct {
	FromID     string `json:"from_id" validate:"required"`
	FromOutput int    `json:"from_output" validate:"min=0"`
	ToID       string `json:"to_id" validate:"required"`
	ToInput    int    `json:"to_input" validate:"min=0"`
}

// CircuitConfig is the JSON schema for a whole Circuit: its nodes, their
// wiring, and its buffer/tick-mode settings.
type CircuitConfig struct {
	BufferCount int          `json:"buffer_count" validate:"min=0"`
	TickMode    string       `json:"tick_mode,omitempty" validate:"omitempty,oneof=Series Parallel"`
	Nodes       []NodeConfig `json:"nodes" validate:"dive"`
	Wires       []WireConfig `json:"wires" validate:"dive"`
}

var configValidator = validator.New()

// DecodeCircuitConfig parses and validates a CircuitConfig from JSON.
func DecodeCircuitConfig(data []byte) (*CircuitConfig, error) {
	var cfg CircuitConfig
	if err := sonnet.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "scottcpu: decode circuit config")
	}
	if err := configValidator.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "scottcpu: validate circuit config")
	}
	return &cfg, nil
}

// ParseTickMode maps a config string to a TickMode, defaulting to
// Parallel for anything other than "Series".
func ParseTickMode(s string) TickMode {
	if s == "Series" {
		return Series
	}
	return Parallel
}

func parseProcessOrder(s string) ProcessOrder {
	if s == "InOrder" {
		return InOrder
	}
	return OutOfOrder
}

// NodeFactory constructs a fresh Node of a registered type, given the
// process order the configuration requested for it.
type NodeFactory func(order ProcessOrder) *Node

// NodeRegistry maps configuration type names to NodeFactories, used by
// BuildCircuit to instantiate the nodes a CircuitConfig names.
type NodeRegistry map[string]NodeFactory

// BuildCircuit constructs a live Circuit from cfg, instantiating each
// node via registry and wiring them exactly as configured. It returns an
// error naming the first unknown node type, unknown wire endpoint, or
// failed connection.
func BuildCircuit(cfg *CircuitConfig, registry NodeRegistry) (*Circuit, error) {
	c := NewCircuit()
	byID := make(map[string]*Node, len(cfg.Nodes))

	for _, nc := range cfg.Nodes {
		factory, ok := registry[nc.Type]
		if !ok {
			return nil, errors.Errorf("scottcpu: unknown node type %q for node %q", nc.Type, nc.ID)
		}
		n := factory(parseProcessOrder(nc.Order))
		n.SetInputCount(nc.Inputs)
		n.SetOutputCount(nc.Outputs)
		if c.AddComponent(n) < 0 {
			return nil, errors.Errorf("scottcpu: failed to register node %q", nc.ID)
		}
		byID[nc.ID] = n
	}

	for _, wc := range cfg.Wires {
		from, ok := byID[wc.FromID]
		if !ok {
			return nil, errors.Errorf("scottcpu: wire references unknown source node %q", wc.FromID)
		}
		to, ok := byID[wc.ToID]
		if !ok {
			return nil, errors.Errorf("scottcpu: wire references unknown target node %q", wc.ToID)
		}
		if !c.ConnectOutToIn(from, wc.FromOutput, to, wc.ToInput) {
			return nil, errors.Errorf("scottcpu: failed to connect %q:%d -> %q:%d",
				wc.FromID, wc.FromOutput, wc.ToID, wc.ToInput)
		}
	}

	if cfg.BufferCount > 0 {
		c.SetBufferCount(cfg.BufferCount)
	}
	return c, nil
}

// WatchCircuitConfig watches path for writes and invokes onReload with
// every successfully decoded and validated CircuitConfig found there,
// until ctx is cancelled. Decode/validation failures are logged and
// skipped rather than propagated, since a transient partial write to the
// file should not kill the watcher.
func WatchCircuitConfig(ctx context.Context, path string, readFile func(string) ([]byte, error), onReload func(*CircuitConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "scottcpu: create config watcher")
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "scottcpu: watch %s", path)
	}

	log := diag.Logger("config-watcher")
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := readFile(path)
				if err != nil {
					log.Warn("config reload: read failed", "error", err)
					continue
				}
				cfg, err := DecodeCircuitConfig(data)
				if err != nil {
					log.Warn("config reload: decode failed", "error", err)
					continue
				}
				onReload(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", "error", err)
			}
		}
	}()
	return nil
}
