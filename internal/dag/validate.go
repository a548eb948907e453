package dag

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty/convert"
)

// Validate checks a definition against the registry and builds the Graph.
// Phases run in order and the first phase that finds problems stops
// validation, so later checks never run against a broken structure.
func Validate(ctx context.Context, def *config.Definition, reg *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	if def == nil || len(def.Nodes) == 0 {
		return nil, ValidationErrors{{Kind: ErrUnknownReference, Detail: "graph has no nodes"}}
	}

	v := &validator{def: def, reg: reg, specs: make(map[string]*config.NodeSpec), contracts: make(map[string]handle.Contract)}
	phases := []struct {
		name string
		run  func()
	}{
		{"references", v.checkReferences},
		{"cycles", v.checkCycles},
		{"coverage", v.checkCoverage},
		{"types", v.checkTypes},
	}
	for _, p := range phases {
		p.run()
		if len(v.errs) > 0 {
			logger.Debug("Graph validation failed.", "phase", p.name, "errors", len(v.errs))
			return nil, v.errs
		}
	}

	g := v.build()
	logger.Debug("Graph validated.", "nodes", g.Len())
	return g, nil
}

type validator struct {
	def       *config.Definition
	reg       *registry.Registry
	specs     map[string]*config.NodeSpec
	contracts map[string]handle.Contract
	errs      ValidationErrors
}

func (v *validator) fail(kind error, spec *config.NodeSpec, h string, ref nodeid.Ref, format string, args ...any) {
	e := &ValidationError{Kind: kind, Handle: h, Ref: ref, Detail: fmt.Sprintf(format, args...)}
	if spec != nil {
		e.NodeID, e.Origin = spec.ID, spec.Origin
	}
	v.errs = append(v.errs, e)
}

func (v *validator) checkReferences() {
	for _, spec := range v.def.Nodes {
		if err := nodeid.ValidateName(spec.ID); err != nil {
			v.fail(ErrUnknownReference, spec, "", nodeid.Ref{}, "%v", err)
			continue
		}
		if prev, dup := v.specs[spec.ID]; dup {
			v.fail(ErrDuplicateNode, spec, "", nodeid.Ref{}, "first declared at %s", prev.Origin)
			continue
		}
		v.specs[spec.ID] = spec

		capability, ok := v.reg.Lookup(spec.Task)
		if !ok {
			v.fail(ErrUnknownReference, spec, "", nodeid.Ref{}, "task kind '%s' is not registered", spec.Task)
			continue
		}
		v.contracts[spec.ID] = capability.Contract()
	}

	for _, spec := range v.def.Nodes {
		contract, ok := v.contracts[spec.ID]
		if !ok || v.specs[spec.ID] != spec {
			continue
		}
		bound := make(map[string]bool)
		for _, b := range spec.Inputs {
			if _, ok := contract.Input(b.Handle); !ok {
				v.fail(ErrUnknownReference, spec, b.Handle, nodeid.Ref{}, "task '%s' declares no such input", spec.Task)
			}
			if bound[b.Handle] {
				v.fail(ErrUnknownReference, spec, b.Handle, nodeid.Ref{}, "input is bound more than once")
			}
			bound[b.Handle] = true

			for _, ref := range b.From {
				src, ok := v.specs[ref.Node]
				if !ok {
					v.fail(ErrUnknownReference, spec, b.Handle, ref, "node '%s' does not exist", ref.Node)
					continue
				}
				srcContract, ok := v.contracts[ref.Node]
				if !ok {
					continue // unknown task already reported
				}
				if _, ok := srcContract.Output(ref.Handle); !ok {
					v.fail(ErrUnknownReference, spec, b.Handle, ref, "task '%s' declares no output '%s'", src.Task, ref.Handle)
				}
			}
		}
	}
}

func (v *validator) checkCycles() {
	cycle := findCycle(v.def.Nodes)
	if cycle == nil {
		return
	}
	closing := v.specs[cycle[len(cycle)-1]]
	v.errs = append(v.errs, &ValidationError{
		Kind:   ErrCyclicGraph,
		NodeID: closing.ID,
		Origin: closing.Origin,
		Ref:    cycleRef(v.specs, cycle),
		Cycle:  cycle,
		Detail: strings.Join(cycle, " -> "),
	})
}

func (v *validator) checkCoverage() {
	for _, spec := range v.def.Nodes {
		for _, h := range v.contracts[spec.ID].Inputs {
			if !h.Required() || h.HasDefault() {
				continue
			}
			b := spec.Binding(h.Name)
			if b != nil && (len(b.From) > 0 || (b.HasLiteral() && !handle.IsEmpty(*b.Value))) {
				continue
			}
			v.fail(ErrUnsatisfiedInput, spec, h.Name, nodeid.Ref{}, "required %s input has no value, edge or default", h.Type)
		}
	}
}

func (v *validator) checkTypes() {
	for _, spec := range v.def.Nodes {
		contract := v.contracts[spec.ID]
		for _, b := range spec.Inputs {
			h, _ := contract.Input(b.Handle)

			if b.HasLiteral() && !handle.IsEmpty(*b.Value) {
				if _, err := convert.Convert(*b.Value, h.Type.Cty()); err != nil {
					v.fail(ErrTypeMismatch, spec, b.Handle, nodeid.Ref{}, "literal is not a valid %s: %v", h.Type, err)
				}
			}

			for _, ref := range b.From {
				out, _ := v.contracts[ref.Node].Output(ref.Handle)
				if !out.Type.AssignableTo(h.Type) {
					v.fail(ErrTypeMismatch, spec, b.Handle, ref, "%s output cannot feed a %s input", out.Type, h.Type)
				}
			}
		}
	}
}

// build creates the immutable graph. Only called once every phase passed.
func (v *validator) build() *Graph {
	g := &Graph{byID: make(map[string]*node.Node, len(v.def.Nodes))}
	for i, spec := range v.def.Nodes {
		n := &node.Node{ID: spec.ID, Kind: spec.Task, Index: i, Spec: spec, Contract: v.contracts[spec.ID]}
		g.nodes = append(g.nodes, n)
		g.byID[n.ID] = n
	}
	for _, n := range g.nodes {
		seen := make(map[string]bool)
		for _, b := range n.Spec.Inputs {
			for _, ref := range b.From {
				if seen[ref.Node] {
					continue
				}
				seen[ref.Node] = true
				up := g.byID[ref.Node]
				n.Deps = append(n.Deps, up)
				up.Dependents = append(up.Dependents, n)
			}
		}
	}
	return g
}
