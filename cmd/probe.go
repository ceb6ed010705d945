package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valuerank-ai/valuerank/internal/config"
	"github.com/valuerank-ai/valuerank/internal/probe"
	"github.com/valuerank-ai/valuerank/internal/providers"
	"github.com/valuerank-ai/valuerank/internal/transcript"
	"github.com/valuerank-ai/valuerank/internal/util"
)

var (
	probeRuntimePath   string
	probeScenariosPath string
	probeOutputDir     string
	probeDryRun        bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run scenarios against the configured target models",
	Long: `Run every scenario against every target model and record transcripts.

Each target model gets an anonymized ID (anon_model_001, ...) in
declaration order. The run directory contains one transcript per
scenario, one aggregated transcript per model, and a run manifest
mapping anonymized IDs back to true model names.

Examples:
  valuerank probe
  valuerank probe --dry-run
  valuerank probe --runtime config/runtime.yaml --output-dir results`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&probeRuntimePath, "runtime", "", "Path to runtime config (default: config/runtime.yaml)")
	probeCmd.Flags().StringVar(&probeScenariosPath, "scenarios", "", "Path to scenarios config (default: config/scenarios.yaml)")
	probeCmd.Flags().StringVarP(&probeOutputDir, "output-dir", "o", "", "Run output root (default: from runtime config)")
	probeCmd.Flags().BoolVar(&probeDryRun, "dry-run", false, "Echo prompts instead of calling providers")
}

func runProbe(cmd *cobra.Command, args []string) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	logger, err := newLogger()
	if err != nil {
		return ExitError{Code: 1, Err: err}
	}
	defer logger.Sync()

	runtimeCfg, err := config.LoadRuntime(probeRuntimePath)
	if err != nil {
		return ExitError{Code: 3, Err: err}
	}
	scenariosPath := probeScenariosPath
	if scenariosPath == "" {
		scenariosPath = config.DefaultScenariosPath
	}
	scenariosCfg, err := config.LoadScenarios(scenariosPath)
	if err != nil {
		return ExitError{Code: 3, Err: err}
	}
	scenariosRaw, err := os.ReadFile(scenariosPath)
	if err != nil {
		return ExitError{Code: 3, Err: err}
	}

	outputDir := probeOutputDir
	if outputDir == "" {
		outputDir = runtimeCfg.Defaults.OutputDir
	}

	runID := util.GenerateRunID(time.Now())
	runDir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return ExitError{Code: 1, Err: fmt.Errorf("create run directory: %w", err)}
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Valuerank Probe"))
	fmt.Println(dimStyle.Render("Run ID: " + runID))
	if probeDryRun {
		fmt.Println(dimStyle.Render("Dry run: no provider calls will be made"))
	}
	fmt.Println()

	registry := providers.NewRegistry(
		time.Duration(runtimeCfg.Defaults.TimeoutSeconds)*time.Second, logger)
	orchestrator, err := probe.New(registry, runID, runtimeCfg, probeDryRun, logger)
	if err != nil {
		return ExitError{Code: 1, Err: err}
	}

	anonOrder, mapping := probe.AnonymizeModels(runtimeCfg.Defaults.TargetModels)
	probeModel := runtimeCfg.Defaults.ProbeModel

	for i, targetModel := range runtimeCfg.Defaults.TargetModels {
		anonID := anonOrder[i]
		fmt.Printf("[%d/%d] Probing model: %s (%s)\n",
			i+1, len(runtimeCfg.Defaults.TargetModels), targetModel, anonID)

		results, err := orchestrator.RunModel(cmd.Context(), targetModel, anonID, scenariosCfg)
		if err != nil {
			return ExitError{Code: 5, Err: err}
		}

		modelSlug := util.Slugify(targetModel)
		for _, result := range results {
			content := transcript.RenderScenario(runID, result, targetModel, probeModel)
			path := filepath.Join(runDir, transcript.ScenarioFilename(result.ScenarioID, modelSlug, probeModel, runID))
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return ExitError{Code: 1, Err: fmt.Errorf("write transcript: %w", err)}
			}
		}

		aggregated := transcript.RenderAggregated(runID, anonID, results)
		aggregatedPath := filepath.Join(runDir, transcript.AggregatedFilename(anonID))
		if err := os.WriteFile(aggregatedPath, []byte(aggregated), 0o644); err != nil {
			return ExitError{Code: 1, Err: fmt.Errorf("write aggregated transcript: %w", err)}
		}

		fmt.Printf("      %s %d scenarios recorded\n", successStyle.Render("✓"), len(results))
	}

	manifest := transcript.BuildManifest(
		runID, time.Now().UTC().Format(time.RFC3339),
		runtimeCfg, scenariosCfg, string(scenariosRaw), mapping)
	if err := transcript.SaveManifest(runDir, manifest); err != nil {
		return ExitError{Code: 1, Err: err}
	}

	fmt.Println()
	fmt.Printf("%s Probe run complete: %s\n", successStyle.Render("✓"), runDir)
	fmt.Println(dimStyle.Render("Next: valuerank judge"))
	fmt.Println()
	return nil
}
