package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valuerank-ai/valuerank/internal/config"
	"github.com/valuerank-ai/valuerank/internal/providers"
	"github.com/valuerank-ai/valuerank/internal/util"
)

// ManifestFilename is the fixed name of the run manifest inside a run
// directory.
const ManifestFilename = "run_manifest.yaml"

// Manifest records everything needed to audit or reproduce a run:
// which models ran under which anonymized IDs, the prompt template
// hashes, and the runtime settings in effect.
type Manifest struct {
	RunID           string                   `yaml:"run_id"`
	CreatedAt       string                   `yaml:"created_at"`
	ProbeModel      string                   `yaml:"probe_model"`
	JudgeModel      string                   `yaml:"judge_model"`
	PromptTemplates PromptTemplateHashes     `yaml:"prompt_templates"`
	ScenarioList    []string                 `yaml:"scenario_list"`
	RuntimeConfig   ManifestRuntime          `yaml:"runtime_config"`
	VersionHashes   VersionHashes            `yaml:"version_hashes"`
	Models          map[string]ManifestModel `yaml:"models"`
}

type PromptTemplateHashes struct {
	Preamble  string `yaml:"preamble"`
	Followups string `yaml:"followups"`
}

type ManifestRuntime struct {
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	Threads     int      `yaml:"threads"`
}

type VersionHashes struct {
	ScenariosHash string `yaml:"scenarios_hash"`
}

// ManifestModel maps an anonymized ID back to the true model.
type ManifestModel struct {
	TrueModel string `yaml:"true_model"`
	Provider  string `yaml:"provider"`
}

// BuildManifest assembles the manifest for a completed probe run.
// modelMapping is anon ID to true model name.
func BuildManifest(
	runID, createdAt string,
	runtimeCfg *config.RuntimeConfig,
	scenariosCfg *config.ScenariosConfig,
	scenariosRaw string,
	modelMapping map[string]string,
) Manifest {
	followupPrompts := make([]string, 0, len(scenariosCfg.Followups))
	scenarioIDs := make([]string, 0, len(scenariosCfg.Scenarios))
	for _, f := range scenariosCfg.Followups {
		followupPrompts = append(followupPrompts, f.Prompt)
	}
	for _, s := range scenariosCfg.Scenarios {
		scenarioIDs = append(scenarioIDs, s.ID)
	}

	m := Manifest{
		RunID:      runID,
		CreatedAt:  createdAt,
		ProbeModel: runtimeCfg.Defaults.ProbeModel,
		JudgeModel: runtimeCfg.Defaults.JudgeModel,
		PromptTemplates: PromptTemplateHashes{
			Preamble:  util.HashString(scenariosCfg.Preamble),
			Followups: util.HashString(strings.Join(followupPrompts, "||")),
		},
		ScenarioList: scenarioIDs,
		RuntimeConfig: ManifestRuntime{
			Temperature: runtimeCfg.Defaults.Temperature,
			MaxTokens:   runtimeCfg.Defaults.MaxTokens,
			Threads:     runtimeCfg.Defaults.Threads,
		},
		VersionHashes: VersionHashes{
			ScenariosHash: util.HashString(scenariosRaw),
		},
		Models: map[string]ManifestModel{},
	}
	for anonID, trueModel := range modelMapping {
		m.Models[anonID] = ManifestModel{
			TrueModel: trueModel,
			Provider:  providers.InferProvider(trueModel),
		}
	}
	return m
}

// SaveManifest writes the manifest into runDir.
func SaveManifest(runDir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(runDir, ManifestFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads the manifest from runDir. A missing manifest is not
// an error; the judge can fall back to directory-derived identifiers.
func LoadManifest(runDir string) (Manifest, bool, error) {
	path := filepath.Join(runDir, ManifestFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, false, fmt.Errorf("parse manifest: %w", err)
	}
	return m, true, nil
}

// DiscoverAggregated lists the aggregated transcripts of a run in anon-ID
// order. The run manifest names the anonymized models; without one,
// discovery falls back to the aggregated filename pattern.
func DiscoverAggregated(runDir string) ([]string, error) {
	m, found, err := LoadManifest(runDir)
	if err != nil {
		return nil, err
	}
	if found {
		anonIDs := make([]string, 0, len(m.Models))
		for anonID := range m.Models {
			anonIDs = append(anonIDs, anonID)
		}
		SortAnonIDs(anonIDs)
		paths := make([]string, 0, len(anonIDs))
		for _, anonID := range anonIDs {
			paths = append(paths, filepath.Join(runDir, AggregatedFilename(anonID)))
		}
		return paths, nil
	}

	paths, err := filepath.Glob(filepath.Join(runDir, "aggregated_transcript.anon_model_*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob aggregated transcripts: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
