// Package report builds and writes the per-model decision summaries
// produced by the judge stage.
package report

import (
	"fmt"

	"github.com/valuerank-ai/valuerank/internal/model"
)

// ScenarioDecision is one scenario's judged outcome inside a summary.
type ScenarioDecision struct {
	ScenarioID string `yaml:"scenario_id"`
	Code       string `yaml:"decision_code"`
	Source     string `yaml:"decision_source"`
}

// DecisionCounts tallies outcomes by category.
type DecisionCounts struct {
	Numeric  int `yaml:"numeric"`
	Refusals int `yaml:"refusals"`
	Other    int `yaml:"other"`
}

// ModelSummary is the judged result set for one anonymized model.
type ModelSummary struct {
	RunID       string             `yaml:"run_id"`
	AnonModelID string             `yaml:"anon_model_id"`
	JudgeModel  string             `yaml:"judge_model"`
	Decisions   []ScenarioDecision `yaml:"decisions"`
	Counts      DecisionCounts     `yaml:"counts"`
}

// BuildModelSummary assembles the summary for one anonymized model from
// judged outcomes, preserving scenario order.
func BuildModelSummary(runID, anonModelID, judgeModel string, outcomes []model.DecisionOutcome) ModelSummary {
	summary := ModelSummary{
		RunID:       runID,
		AnonModelID: anonModelID,
		JudgeModel:  judgeModel,
	}
	for _, outcome := range outcomes {
		switch outcome.Code {
		case model.DecisionRefusal:
			summary.Counts.Refusals++
		case model.DecisionOther:
			summary.Counts.Other++
		default:
			summary.Counts.Numeric++
		}
		summary.Decisions = append(summary.Decisions, ScenarioDecision{
			ScenarioID: outcome.ScenarioID,
			Code:       outcome.Code,
			Source:     outcome.Source,
		})
	}
	return summary
}

// YAMLFilename names the YAML summary for one anonymized model.
func YAMLFilename(anonModelID, runID string) string {
	return fmt.Sprintf("summary.%s.%s.yaml", anonModelID, runID)
}

// CSVFilename names the CSV summary for one anonymized model.
func CSVFilename(anonModelID, runID string) string {
	return fmt.Sprintf("summary.%s.%s.csv", anonModelID, runID)
}
