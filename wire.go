// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scottcpu

// A Wire is a directed connection from (FromNode, FromOutput) to a
// specific input index on the node that owns it. Wires are immutable once
// created and are owned by the target Node's inbound wire list; fan-in
// per input is exactly one (a new wire to an occupied input replaces the
// old one), fan-out per output is unbounded.
type Wire struct {
	FromNode   *Node
	FromOutput int
	ToInput    int
}
