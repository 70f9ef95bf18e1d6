package nodelib

import (
	"reflect"

	sc "github.com/daniroblesc/scottcpu"
)

// Processor is implemented by a user-defined struct whose fields describe
// a node's ports via `scottcpu:"in"`/`scottcpu:"out"` tags, and whose
// Process method is the node's compute function.
type Processor interface {
	Process(in, out *sc.SignalBus)
}

// MakeNode builds a Node from a Processor by reflecting over v's struct
// fields: every field tagged `scottcpu:"in"` becomes a named input port in
// declaration order, every field tagged `scottcpu:"out"` becomes a named
// output port, and v.Process becomes the node's compute function. v must
// be a pointer to a struct.
func MakeNode(v Processor, order sc.ProcessOrder) (*sc.Node, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, errNotAPointerToStruct
	}
	rt := rv.Elem().Type()

	var inNames, outNames []string
	for i := 0; i < rt.NumField(); i++ {
		switch rt.Field(i).Tag.Get("scottcpu") {
		case "in":
			inNames = append(inNames, rt.Field(i).Name)
		case "out":
			outNames = append(outNames, rt.Field(i).Name)
		}
	}

	n := sc.NewNode(len(inNames), len(outNames), order, v.Process)
	n.SetInputCount(len(inNames), inNames...)
	n.SetOutputCount(len(outNames), outNames...)
	return n, nil
}

type makeNodeError string

func (e makeNodeError) Error() string { return string(e) }

const errNotAPointerToStruct = makeNodeError("nodelib: MakeNode requires a pointer to a struct")
