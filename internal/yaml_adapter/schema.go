package yaml_adapter

import "gopkg.in/yaml.v3"

// document is the top-level shape of a flow document.
type document struct {
	Nodes []yaml.Node `yaml:"nodes"`
}

// nodeDoc is one entry of `nodes`.
type nodeDoc struct {
	Task        string     `yaml:"task"`
	NodeID      string     `yaml:"node_id"`
	Description string     `yaml:"description"`
	InputsFrom  []inputDoc `yaml:"inputs_from"`
}

// inputDoc is one binding in `inputs_from`.
type inputDoc struct {
	Handle   string      `yaml:"handle"`
	Value    yaml.Node   `yaml:"value"`
	FromNode []sourceDoc `yaml:"from_node"`
}

// sourceDoc names one upstream output.
type sourceDoc struct {
	NodeID       string `yaml:"node_id"`
	OutputHandle string `yaml:"output_handle"`
}
