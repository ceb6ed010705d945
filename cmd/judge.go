package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/valuerank-ai/valuerank/internal/config"
	"github.com/valuerank-ai/valuerank/internal/decision"
	"github.com/valuerank-ai/valuerank/internal/model"
	"github.com/valuerank-ai/valuerank/internal/providers"
	"github.com/valuerank-ai/valuerank/internal/report"
	"github.com/valuerank-ai/valuerank/internal/transcript"
)

var (
	judgeRuntimePath string
	judgeRunDir      string
	judgeOutputRoot  string
	judgeModelName   string
	judgeThreads     int
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Extract decision codes from a finished probe run",
	Long: `Read the aggregated transcripts of a probe run and extract each
model's final decision per scenario.

Extraction is deterministic first; transcripts it cannot resolve go to
the configured judge model. One YAML and one CSV summary is written per
anonymized model into the run directory.

Examples:
  valuerank judge
  valuerank judge --run-dir output/2026-08-31T10-15-abc123
  valuerank judge --judge-model claude-sonnet-4 --threads 4`,
	RunE: runJudge,
}

func init() {
	rootCmd.AddCommand(judgeCmd)

	judgeCmd.Flags().StringVar(&judgeRuntimePath, "runtime", "", "Path to runtime config (default: config/runtime.yaml)")
	judgeCmd.Flags().StringVar(&judgeRunDir, "run-dir", "", "Run directory to judge (default: newest under the output root)")
	judgeCmd.Flags().StringVar(&judgeOutputRoot, "output-root", "", "Run output root (default: from runtime config)")
	judgeCmd.Flags().StringVar(&judgeModelName, "judge-model", "", "Judge model override")
	judgeCmd.Flags().IntVar(&judgeThreads, "threads", 0, "Concurrent scenario judgments (default: from runtime config)")
}

func runJudge(cmd *cobra.Command, args []string) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	logger, err := newLogger()
	if err != nil {
		return ExitError{Code: 1, Err: err}
	}
	defer logger.Sync()

	runtimeCfg, err := config.LoadRuntime(judgeRuntimePath)
	if err != nil {
		return ExitError{Code: 3, Err: err}
	}

	runDir := judgeRunDir
	if runDir == "" {
		outputRoot := judgeOutputRoot
		if outputRoot == "" {
			outputRoot = runtimeCfg.Defaults.OutputDir
		}
		runDir, err = newestRunDir(outputRoot)
		if err != nil {
			return ExitError{Code: 3, Err: err}
		}
	}

	files, err := transcript.DiscoverAggregated(runDir)
	if err != nil {
		return ExitError{Code: 1, Err: err}
	}
	if len(files) == 0 {
		return ExitError{Code: 3, Err: fmt.Errorf("no aggregated transcripts in %s", runDir)}
	}

	judgeModel := judgeModelName
	if judgeModel == "" {
		judgeModel = runtimeCfg.Defaults.JudgeModel
	}
	threads := judgeThreads
	if threads <= 0 {
		threads = runtimeCfg.Defaults.JudgeThreads
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Valuerank Judge"))
	fmt.Println(dimStyle.Render("Run directory: " + runDir))
	fmt.Println(dimStyle.Render("Judge model: " + judgeModel))
	fmt.Println()

	registry := providers.NewRegistry(
		time.Duration(runtimeCfg.Defaults.TimeoutSeconds)*time.Second, logger)
	classifier := decision.NewClassifier(registry, judgeModel, logger)

	for i, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return ExitError{Code: 1, Err: err}
		}
		meta, results, err := transcript.ParseAggregated(string(content))
		if err != nil {
			return ExitError{Code: 4, Err: fmt.Errorf("%s: %w", filepath.Base(file), err)}
		}

		fmt.Printf("[%d/%d] Judging %s (%d scenarios)\n",
			i+1, len(files), meta.AnonModelID, len(results))

		outcomes := make([]model.DecisionOutcome, len(results))

		// Scenario judgments are independent; results land in scenario
		// order regardless of completion order.
		var g errgroup.Group
		g.SetLimit(threads)
		for j, result := range results {
			j, result := j, result
			g.Go(func() error {
				outcomes[j] = classifier.Resolve(cmd.Context(), result)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return ExitError{Code: 5, Err: err}
		}

		summary := report.BuildModelSummary(meta.RunID, meta.AnonModelID, judgeModel, outcomes)
		if err := report.Save(runDir, summary); err != nil {
			return ExitError{Code: 1, Err: err}
		}

		fmt.Printf("      %s %d numeric, %d refusals, %d other\n",
			successStyle.Render("✓"),
			summary.Counts.Numeric, summary.Counts.Refusals, summary.Counts.Other)
	}

	fmt.Println()
	fmt.Printf("%s Summaries written to %s\n", successStyle.Render("✓"), runDir)
	fmt.Println()
	return nil
}

// newestRunDir picks the most recently modified run directory under root.
func newestRunDir(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("read output root: %w", err)
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newestTime) {
			newestTime = info.ModTime()
			newest = entry.Name()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no run directories under %s", root)
	}
	return filepath.Join(root, newest), nil
}
