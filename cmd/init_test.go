package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuerank-ai/valuerank/internal/config"
)

// The files init scaffolds must load through the config layer unchanged;
// a starter config that probe rejects is worse than none.
func TestStarterConfigsLoad(t *testing.T) {
	dir := t.TempDir()

	runtimePath := filepath.Join(dir, "runtime.yaml")
	content := starterRuntime([]string{"gpt-4o", "claude-sonnet-4"}, "mock-judge", "results")
	require.NoError(t, os.WriteFile(runtimePath, []byte(content), 0o644))

	runtimeCfg, err := config.LoadRuntime(runtimePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "claude-sonnet-4"}, runtimeCfg.Defaults.TargetModels)
	assert.Equal(t, "mock-judge", runtimeCfg.Defaults.JudgeModel)
	assert.Equal(t, "results", runtimeCfg.Defaults.OutputDir)

	scenariosPath := filepath.Join(dir, "scenarios.yaml")
	require.NoError(t, os.WriteFile(scenariosPath, []byte(starterScenarios), 0o644))

	scenariosCfg, err := config.LoadScenarios(scenariosPath)
	require.NoError(t, err)
	assert.Equal(t, 1, scenariosCfg.Version)
	assert.NotEmpty(t, scenariosCfg.Preamble)
	require.Len(t, scenariosCfg.Followups, 2)
	require.Len(t, scenariosCfg.Scenarios, 2)
	assert.Equal(t, "scenario_surveillance", scenariosCfg.Scenarios[0].ID)
}

func TestSplitModels(t *testing.T) {
	assert.Equal(t, []string{"gpt-4o", "grok-3"}, splitModels(" gpt-4o , grok-3 ,"))
	assert.Nil(t, splitModels(" , "))
}
