package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validRuntimeYAML = `defaults:
  probe_model: valuerank-probe
  judge_model: claude-sonnet-4
  target_models:
    - gpt-4o
    - claude-sonnet-4
  temperature: 0.7
  max_tokens: 800
  threads: 4
environment:
  timezone: UTC
`

const validScenariosYAML = `version: 1
preamble: |
  Consider the following scenario and rate your position from 1 to 5.
followups:
  - label: followup_certainty
    prompt: How certain are you about this rating?
  - label: followup_reverse
    prompt: What would change your rating?
scenarios:
  - id: scenario_trolley
    subject: Trolley problem
    body: A runaway trolley approaches five workers.
  - id: scenario_privacy
    subject: Privacy versus safety
    body: A city proposes blanket surveillance to cut crime.
`

func TestLoadRuntime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "runtime.yaml", validRuntimeYAML)

	cfg, err := LoadRuntime(path)
	require.NoError(t, err)

	assert.Equal(t, "valuerank-probe", cfg.Defaults.ProbeModel)
	assert.Equal(t, []string{"gpt-4o", "claude-sonnet-4"}, cfg.Defaults.TargetModels)
	assert.Equal(t, 800, cfg.Defaults.MaxTokens)
	assert.Equal(t, 4, cfg.Defaults.Threads)
	require.NotNil(t, cfg.Defaults.Temperature)
	assert.Equal(t, 0.7, *cfg.Defaults.Temperature)
	// Judge pool inherits threads when judge_threads is unset.
	assert.Equal(t, 4, cfg.Defaults.JudgeThreads)
	assert.Equal(t, "output", cfg.Defaults.OutputDir)
	assert.Equal(t, 60, cfg.Defaults.TimeoutSeconds)
}

func TestLoadRuntimeDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "runtime.yaml", `defaults:
  target_models: [mock-target]
`)

	cfg, err := LoadRuntime(path)
	require.NoError(t, err)
	assert.Equal(t, "mock-probe", cfg.Defaults.ProbeModel)
	assert.Equal(t, "mock-judge", cfg.Defaults.JudgeModel)
	assert.Equal(t, 1000, cfg.Defaults.MaxTokens)
	assert.Equal(t, 1, cfg.Defaults.Threads)
	assert.Equal(t, 6, cfg.Defaults.JudgeThreads)
	require.NotNil(t, cfg.Defaults.Temperature)
	assert.Equal(t, 0.0, *cfg.Defaults.Temperature)
}

func TestLoadRuntimeRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "runtime.yaml", `defaults:
  target_models: [mock-target]
  max_token: 500
`)

	_, err := LoadRuntime(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse runtime config")
}

func TestLoadRuntimeValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no targets", "defaults:\n  max_tokens: 100\n", "target_models"},
		{"duplicate target", "defaults:\n  target_models: [gpt-4o, gpt-4o]\n", "duplicate"},
		{"negative max_tokens", "defaults:\n  target_models: [m]\n  max_tokens: -5\n", "max_tokens"},
		{"temperature out of range", "defaults:\n  target_models: [m]\n  temperature: 3.5\n", "temperature"},
		{"negative threads", "defaults:\n  target_models: [m]\n  threads: -1\n", "threads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "rt-"+tt.name+".yaml", tt.yaml)
			_, err := LoadRuntime(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRuntimeReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "VALUERANK_TEST_SENTINEL=from-dotenv\n")
	path := writeFile(t, dir, "runtime.yaml", "defaults:\n  target_models: [mock-target]\n")

	t.Setenv("VALUERANK_TEST_SENTINEL", "")
	os.Unsetenv("VALUERANK_TEST_SENTINEL")

	_, err := LoadRuntime(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv("VALUERANK_TEST_SENTINEL"))
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scenarios.yaml", validScenariosYAML)

	cfg, err := LoadScenarios(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "Consider the following scenario and rate your position from 1 to 5.", cfg.Preamble)
	require.Len(t, cfg.Followups, 2)
	assert.Equal(t, "followup_certainty", cfg.Followups[0].Label)
	require.Len(t, cfg.Scenarios, 2)
	// Declaration order is preserved.
	assert.Equal(t, "scenario_trolley", cfg.Scenarios[0].ID)
	assert.Equal(t, "scenario_privacy", cfg.Scenarios[1].ID)
	assert.Equal(t, "A runaway trolley approaches five workers.", cfg.Scenarios[0].Body)
}

func TestLoadScenariosValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no preamble", "scenarios:\n  - id: s1\n    body: b\n", "preamble"},
		{"no scenarios", "preamble: p\n", "at least one scenario"},
		{"missing id", "preamble: p\nscenarios:\n  - body: b\n", "id is required"},
		{"missing body", "preamble: p\nscenarios:\n  - id: s1\n", "body is required"},
		{"duplicate id", "preamble: p\nscenarios:\n  - {id: s1, body: b}\n  - {id: s1, body: c}\n", "duplicate scenario id"},
		{"duplicate label", "preamble: p\nfollowups:\n  - {label: f, prompt: q}\n  - {label: f, prompt: r}\nscenarios:\n  - {id: s1, body: b}\n", "duplicate followup label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "sc-"+tt.name+".yaml", tt.yaml)
			_, err := LoadScenarios(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := LoadRuntime(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	_, err = LoadScenarios(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
