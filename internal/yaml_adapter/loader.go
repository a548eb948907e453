package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/fsutil"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load parses every YAML flow document under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	def := &config.Definition{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		nodes, err := l.decode(ctx, file, data)
		if err != nil {
			return nil, err
		}
		def.Nodes = append(def.Nodes, nodes...)
	}

	logger.Debug("YAML loading complete.", "files", len(files), "nodes", len(def.Nodes))
	return def, nil
}

// decode parses one file, which may contain several YAML documents.
func (l *Loader) decode(ctx context.Context, file string, data []byte) ([]*config.NodeSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var out []*config.NodeSpec
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}

		for i := range doc.Nodes {
			raw := &doc.Nodes[i]
			if err := checkNodeKeys(raw); err != nil {
				return nil, fmt.Errorf("invalid node in %s:%d: %w", file, raw.Line, err)
			}
			var nd nodeDoc
			if err := raw.Decode(&nd); err != nil {
				return nil, fmt.Errorf("failed to decode node in %s:%d: %w", file, raw.Line, err)
			}
			origin := fmt.Sprintf("%s:%d", file, raw.Line)
			spec, err := translateNode(ctx, &nd, origin)
			if err != nil {
				return nil, err
			}
			out = append(out, spec)
		}
	}
}

// translateNode converts the YAML schema into the agnostic model.
func translateNode(ctx context.Context, nd *nodeDoc, origin string) (*config.NodeSpec, error) {
	ctxlog.FromContext(ctx).Debug("Translating YAML node to internal config model.", "task", nd.Task, "node_id", nd.NodeID)

	if nd.NodeID == "" {
		return nil, fmt.Errorf("%s: node is missing node_id", origin)
	}
	if nd.Task == "" {
		return nil, fmt.Errorf("%s: node '%s' is missing task", origin, nd.NodeID)
	}

	spec := &config.NodeSpec{
		ID:          nd.NodeID,
		Task:        nd.Task,
		Description: nd.Description,
		Origin:      origin,
	}

	for _, in := range nd.InputsFrom {
		if in.Handle == "" {
			return nil, fmt.Errorf("%s: node '%s' has an input without a handle", origin, nd.NodeID)
		}
		b := &config.Binding{Handle: in.Handle}

		if in.Value.Kind != 0 {
			v, err := toCty(&in.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: node '%s', input '%s': %w", origin, nd.NodeID, in.Handle, err)
			}
			b.Value = &v
		}

		for _, src := range in.FromNode {
			if src.NodeID == "" || src.OutputHandle == "" {
				return nil, fmt.Errorf("%s: node '%s', input '%s': from_node entries need node_id and output_handle", origin, nd.NodeID, in.Handle)
			}
			b.From = append(b.From, nodeid.NewRef(src.NodeID, src.OutputHandle))
		}
		spec.Inputs = append(spec.Inputs, b)
	}
	return spec, nil
}

// checkNodeKeys rejects unknown keys on a node and on its bindings, since
// yaml.Node.Decode cannot run in strict mode.
func checkNodeKeys(n *yaml.Node) error {
	if err := checkKeys(n, "task", "node_id", "description", "inputs_from"); err != nil {
		return err
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != "inputs_from" || n.Content[i+1].Kind != yaml.SequenceNode {
			continue
		}
		for _, item := range n.Content[i+1].Content {
			if err := checkKeys(item, "handle", "value", "from_node"); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkKeys(n *yaml.Node, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return nil
}
