package integration_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/mediagrid/internal/app"
	"github.com/specialistvlad/mediagrid/internal/executor"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/specialistvlad/mediagrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const chainGraph = `
node "step" "a" {}
node "step" "b" {
  input "after" { from = [a.out] }
}
node "step" "c" {
  input "after" { from = [b.out] }
}
node "step" "d" {}
node "step" "e" {
  input "after" { from = [d.out] }
}
`

// stepModule registers "step", which fails for the node ids in failOn.
func stepModule(failOn ...string) (registry.Module, *testutil.StubCapability) {
	stub := &testutil.StubCapability{
		Spec: handle.Contract{
			Inputs:  []handle.Handle{handle.In("after", handle.String).AsOptional()},
			Outputs: []handle.Handle{handle.Out("out", handle.String)},
		},
		Fn: func(_ context.Context, inv *registry.Invocation) (handle.Outputs, error) {
			for _, id := range failOn {
				if inv.NodeID == id {
					return nil, errors.New("encoder exploded")
				}
			}
			return handle.Outputs{"out": cty.StringVal(inv.NodeID)}, nil
		},
	}
	return testutil.ModuleFunc(func(r *registry.Registry) { r.Register("step", stub) }), stub
}

// Test for: a failing node skips only its dependents.
func TestErrorHandling_FailureIsolation(t *testing.T) {
	// --- Arrange ---
	mod, stub := stepModule("b")
	testApp, logs := app.SetupAppTest(t, map[string]string{"main.hcl": chainGraph}, app.WithModules(mod))

	// --- Act ---
	report, err := testApp.Run(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution failed for b")

	want := map[string]node.Status{
		"a": node.Succeeded,
		"b": node.Failed,
		"c": node.Skipped,
		"d": node.Succeeded,
		"e": node.Succeeded,
	}
	if diff := cmp.Diff(want, report.Statuses()); diff != "" {
		t.Errorf("status map mismatch (-want +got):\n%s", diff)
	}
	assert.ErrorIs(t, report.Results["c"].Err, executor.ErrUpstream)
	assert.NotContains(t, stub.Invoked(), "c")
	assert.Contains(t, logs.String(), "encoder exploded")
}

// Test for: running the same graph twice yields the same statuses.
func TestErrorHandling_RepeatedRunsAgree(t *testing.T) {
	mod, _ := stepModule("d")
	testApp, _ := app.SetupAppTest(t, map[string]string{"main.hcl": chainGraph}, app.WithModules(mod))

	first, err := testApp.Run(context.Background())
	require.Error(t, err)
	second, err := testApp.Run(context.Background())
	require.Error(t, err)

	if diff := cmp.Diff(first.Statuses(), second.Statuses()); diff != "" {
		t.Errorf("runs disagree (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}
