package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGolden_GearsReport(t *testing.T) {
	s, err := LoadScenario(filepath.Join(scenarioDir, "gears_report.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)
}
