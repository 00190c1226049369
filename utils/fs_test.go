package utils

import (
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFs_WriteJSON(t *testing.T) {
	testCases := []struct {
		name          string
		memfs         Fs
		inputData     interface{}
		expected      string
		expectedError string
	}{
		{
			name:      "happy path",
			memfs:     NewFs(afero.NewMemMapFs()),
			inputData: map[string][]string{"product_ids": {"p1", "p2"}},
			expected: `{
  "product_ids": [
    "p1",
    "p2"
  ]
}`,
		},
		{
			name:          "sad path: read only filesystem",
			memfs:         NewFs(afero.NewReadOnlyFs(afero.NewMemMapFs())),
			inputData:     `{}`,
			expectedError: "unable to create a directory",
		},
		{
			name:          "sad path: bad json input data",
			memfs:         NewFs(afero.NewMemMapFs()),
			inputData:     math.NaN(),
			expectedError: "failed to marshal JSON: json: unsupported value: NaN",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.memfs.WriteJSON("/out/2024", "foo.json", tc.inputData)
			if tc.expectedError != "" {
				assert.ErrorContains(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)

			actual, err := afero.ReadFile(tc.memfs.AppFs, "/out/2024/foo.json")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(actual))
		})
	}
}
