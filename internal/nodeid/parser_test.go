// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expectErr   bool
		expectedRef Ref
	}{
		{
			name:        "simple reference",
			raw:         "extract.audio_file",
			expectedRef: Ref{Node: "extract", Handle: "audio_file"},
		},
		{
			name:        "hyphenated node id",
			raw:         "merge-1.merged_audio",
			expectedRef: Ref{Node: "merge-1", Handle: "merged_audio"},
		},
		{
			name:      "error - empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - missing handle",
			raw:       "extract",
			expectErr: true,
		},
		{
			name:      "error - too many segments",
			raw:       "a.b.c",
			expectErr: true,
		},
		{
			name:      "error - empty handle",
			raw:       "extract.",
			expectErr: true,
		},
		{
			name:      "error - leading digit",
			raw:       "1node.out",
			expectErr: true,
		},
		{
			name:      "error - index syntax is not supported",
			raw:       "node[0].out",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseRef(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedRef, ref)
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("_private"))
	assert.NoError(t, ValidateName("Node-2"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("with.dot"))
	assert.Error(t, ValidateName("with space"))
}

func TestMustParseRef_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseRef("broken") })
	assert.NotPanics(t, func() { MustParseRef("ok.out") })
}
