package inmemorystore

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/specialistvlad/mediagrid/internal/nodestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestStore_RecordAndRead(t *testing.T) {
	s := New()

	_, ok := s.Result("extract")
	assert.False(t, ok)

	err := s.Record("extract", node.Result{
		Status:  node.Succeeded,
		Outputs: handle.Outputs{"audio_file": cty.StringVal("/w/a.mp3")},
	})
	require.NoError(t, err)

	res, ok := s.Result("extract")
	require.True(t, ok)
	assert.Equal(t, node.Succeeded, res.Status)

	v, ok := s.Output(nodeid.NewRef("extract", "audio_file"))
	require.True(t, ok)
	assert.Equal(t, "/w/a.mp3", v.AsString())

	_, ok = s.Output(nodeid.NewRef("extract", "missing"))
	assert.False(t, ok)
	_, ok = s.Output(nodeid.NewRef("other", "audio_file"))
	assert.False(t, ok)
}

func TestStore_RecordOnce(t *testing.T) {
	s := New()
	require.NoError(t, s.Record("a", node.Result{Status: node.Failed}))

	err := s.Record("a", node.Result{Status: node.Succeeded})
	require.ErrorIs(t, err, nodestore.ErrAlreadyRecorded)

	res, _ := s.Result("a")
	assert.Equal(t, node.Failed, res.Status, "first write wins")
}

func TestStore_ConcurrentRecord(t *testing.T) {
	s := New()
	const nodes, writers = 50, 8

	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < nodes; i++ {
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if s.Record(fmt.Sprintf("n%d", i), node.Result{Status: node.Succeeded}) == nil {
					wins.Add(1)
				}
			}(i)
		}
	}
	wg.Wait()

	assert.Equal(t, int32(nodes), wins.Load(), "exactly one writer per node succeeds")
	assert.Len(t, s.Snapshot(), nodes)
}
