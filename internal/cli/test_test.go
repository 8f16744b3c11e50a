package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommand_AllScenarios(t *testing.T) {
	out, err := execute(t, "test", scenarioDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ forward_rates")
	assert.Contains(t, out, "✓ remove_grandchild")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_FilterJSON(t *testing.T) {
	out, err := execute(t, "test", scenarioDir, "--filter", "supply_*", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, "supply_ratio", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_NoScenarios(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_MissingPath(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// copyScenario places one repository scenario in a temp dir with its catalog
// path made absolute.
func copyScenario(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(scenarioDir, name))
	require.NoError(t, err)

	abs, err := filepath.Abs(filepath.Join(scenarioDir, "chain"))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	body := []byte(strings.Replace(string(data), "catalog: chain", "catalog: "+abs, 1))
	require.NoError(t, os.WriteFile(path, body, 0644))
	return path
}

func TestTestCommand_GoldenUpdateAndCompare(t *testing.T) {
	path := copyScenario(t, "forward_rates.yaml")
	golden := filepath.Join(filepath.Dir(path), "golden", "forward_rates.golden")

	out, err := execute(t, "test", path, "--update")
	require.NoError(t, err, out)
	require.FileExists(t, golden)

	_, err = execute(t, "test", path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}"), 0644))
	out, err = execute(t, "test", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "report does not match golden file")
}

func TestTestCommand_Failure(t *testing.T) {
	path := copyScenario(t, "forward_rates.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = append(data, []byte("  - node: o1/missing\n")...)
	require.NoError(t, os.WriteFile(path, data, 0644))

	out, err := execute(t, "test", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ forward_rates")
	assert.Contains(t, out, "o1/missing: node: expected a live node, got none")
	assert.Contains(t, out, "1 failed")
}
