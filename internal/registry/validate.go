package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty/convert"
)

// ValidateRegistry checks every registered contract: handle names must be
// valid and unique per direction, every handle must be typed, defaults must
// convert to the handle's type, and outputs cannot declare defaults.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range r.Kinds() {
		c, _ := r.Lookup(kind)
		contract := c.Contract()

		if len(contract.Outputs) == 0 {
			logger.Debug("Capability declares no outputs.", "kind", kind)
		}
		errs = append(errs, checkHandles(kind, handle.Input, contract.Inputs)...)
		errs = append(errs, checkHandles(kind, handle.Output, contract.Outputs)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func checkHandles(kind string, dir handle.Direction, hs []handle.Handle) []string {
	var errs []string
	seen := make(map[string]struct{}, len(hs))

	for _, h := range hs {
		if err := nodeid.ValidateName(h.Name); err != nil {
			errs = append(errs, fmt.Sprintf("task '%s': %s handle: %v", kind, dir, err))
			continue
		}
		if _, dup := seen[h.Name]; dup {
			errs = append(errs, fmt.Sprintf("task '%s': %s handle '%s' is declared more than once", kind, dir, h.Name))
		}
		seen[h.Name] = struct{}{}

		if h.Direction != dir {
			errs = append(errs, fmt.Sprintf("task '%s': handle '%s' is listed as %s but declared as %s", kind, h.Name, dir, h.Direction))
		}
		if h.Type == nil {
			errs = append(errs, fmt.Sprintf("task '%s': %s handle '%s' has no type", kind, dir, h.Name))
			continue
		}
		if !h.HasDefault() {
			continue
		}
		if dir == handle.Output {
			errs = append(errs, fmt.Sprintf("task '%s': output handle '%s' cannot declare a default", kind, h.Name))
			continue
		}
		if _, err := convert.Convert(*h.Default, h.Type.Cty()); err != nil {
			errs = append(errs, fmt.Sprintf("task '%s': default of input '%s' is not a valid %s: %v", kind, h.Name, h.Type, err))
		}
	}
	return errs
}
