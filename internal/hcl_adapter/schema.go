package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all top-level blocks from a graph file.
type fileRoot struct {
	Nodes  []*Node  `hcl:"node,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Node is the HCL schema of a `node "<task>" "<id>"` block.
type Node struct {
	Task        string   `hcl:"task,label"`
	ID          string   `hcl:"id,label"`
	Description *string  `hcl:"description,optional"`
	Inputs      []*Input `hcl:"input,block"`
}

// Input is the HCL schema of an `input "<handle>"` block inside a node.
type Input struct {
	Handle string         `hcl:"handle,label"`
	Value  hcl.Expression `hcl:"value,optional"`
	From   hcl.Expression `hcl:"from,optional"`
}
