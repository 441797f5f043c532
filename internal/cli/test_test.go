package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `name: tags
description: "Entities carrying a tag"
fixture: ../testdata/graph.yaml
cases:
  - name: any tag
    filter: {value: {property: P_TAG}}
    expect: [E5]
  - name: typed relation
    query: relations
    relation: {typeId: T1}
    expect: [R1, R2]
`

// scenarioDir writes one scenario into a temp directory laid out like a
// scenarios tree and returns the directory.
func scenarioDir(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()

	fixture, err := os.ReadFile(filepath.Join("testdata", "graph.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "testdata"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "testdata", "graph.yaml"), fixture, 0644))

	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags.yaml"), []byte(body), 0644))
	return dir
}

func TestTestCommand_GoldenLifecycle(t *testing.T) {
	dir := scenarioDir(t, scenarioYAML)
	golden := filepath.Join(dir, "golden", "tags.golden")

	// Without a golden file the expectations alone decide.
	out, _, err := run(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ tags (2 cases)\n")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")

	_, _, err = run(t, "test", dir, "--update")
	require.NoError(t, err)
	require.FileExists(t, golden)

	out, _, err = run(t, "test", dir, "--format", "json")
	require.NoError(t, err)
	result := decodeData[TestResult](t, out)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Scenarios, 1)
	assert.Equal(t, 2, result.Scenarios[0].Cases)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0644))
	out, _, err = run(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "golden file mismatch")
}

func TestTestCommand_FailingExpectation(t *testing.T) {
	dir := scenarioDir(t, `name: tags
description: "Wrong expectation"
fixture: ../testdata/graph.yaml
cases:
  - name: any tag
    filter: {value: {property: P_TAG}}
    expect: [E1]
`)

	out, _, err := run(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := scenarioDir(t, scenarioYAML)

	out, _, err := run(t, "test", dir, "--filter", "other-*")
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_MissingDirectory(t *testing.T) {
	_, _, err := run(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFindScenarioFiles_SkipsSupportDirs(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a.yaml", "b.yml", "notes.txt", "golden/a.golden", "fixtures/graph.yaml", "nested/c.yaml"} {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, nil, 0644))
	}

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}
