package scottcpu_test

import (
	"testing"

	sc "github.com/daniroblesc/scottcpu"
	"github.com/daniroblesc/scottcpu/nodelib"
)

func testRegistry() sc.NodeRegistry {
	return sc.NodeRegistry{
		"and": func(order sc.ProcessOrder) *sc.Node { return nodelib.And() },
		"id":  func(order sc.ProcessOrder) *sc.Node { return nodelib.Identity() },
	}
}

func TestDecodeCircuitConfigValid(t *testing.T) {
	data := []byte(`{
		"buffer_count": 0,
		"tick_mode": "Series",
		"nodes": [
			{"id": "a", "type": "and", "inputs": 2, "outputs": 1},
			{"id": "b", "type": "id", "inputs": 1, "outputs": 1}
		],
		"wires": [
			{"from_id": "a", "from_output": 0, "to_id": "b", "to_input": 0}
		]
	}`)

	cfg, err := sc.DecodeCircuitConfig(data)
	if err != nil {
		t.Fatalf("DecodeCircuitConfig: %v", err)
	}
	if len(cfg.Nodes) != 2 || len(cfg.Wires) != 1 {
		t.Fatalf("unexpected config shape: %+v", cfg)
	}
}

func TestDecodeCircuitConfigRejectsMissingFields(t *testing.T) {
	data := []byte(`{"nodes": [{"type": "and"}]}`)
	if _, err := sc.DecodeCircuitConfig(data); err == nil {
		t.Fatal("expected validation error for a node missing its id")
	}
}

func TestBuildCircuitFromConfig(t *testing.T) {
	cfg := &sc.CircuitConfig{
		Nodes: []sc.NodeConfig{
			{ID: "a", Type: "and", Inputs: 2, Outputs: 1},
			{ID: "b", Type: "id", Inputs: 1, Outputs: 1},
		},
		Wires: []sc.WireConfig{
			{FromID: "a", ToID: "b"},
		},
	}

	c, err := sc.BuildCircuit(cfg, testRegistry())
	if err != nil {
		t.Fatalf("BuildCircuit: %v", err)
	}
	if c.GetComponentCount() != 2 {
		t.Fatalf("expected 2 components, got %d", c.GetComponentCount())
	}
}

func TestBuildCircuitUnknownNodeType(t *testing.T) {
	cfg := &sc.CircuitConfig{
		Nodes: []sc.NodeConfig{{ID: "a", Type: "nonexistent"}},
	}
	if _, err := sc.BuildCircuit(cfg, testRegistry()); err == nil {
		t.Fatal("expected an error for an unregistered node type")
	}
}
