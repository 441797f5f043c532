package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"entity_filters", "relation_filters", "name_search"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass)
		})
	}
}

func TestMarshalSnapshot(t *testing.T) {
	result := NewResult()
	result.Cases = append(result.Cases,
		CaseResult{Name: "a", IDs: []string{"E1"}},
		CaseResult{Name: "b", IDs: []string{}, Error: ErrorInput},
	)

	data, err := MarshalSnapshot("demo", result)
	require.NoError(t, err)
	assert.Equal(t, `{
  "scenario": "demo",
  "cases": [
    {
      "name": "a",
      "ids": [
        "E1"
      ]
    },
    {
      "name": "b",
      "ids": [],
      "error": "input"
    }
  ]
}
`, string(data))
}
