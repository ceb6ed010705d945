// Package transcript renders run artifacts (per-scenario and aggregated
// markdown transcripts, the run manifest) and parses aggregated
// transcripts back for the judge stage.
package transcript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valuerank-ai/valuerank/internal/model"
)

const fileVersion = "v0.1"

// frontmatter renders a small YAML header block. Keys are written in the
// given order.
func frontmatter(pairs [][2]string) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	for _, pair := range pairs {
		sb.WriteString(pair[0])
		sb.WriteString(": ")
		sb.WriteString(pair[1])
		sb.WriteByte('\n')
	}
	sb.WriteString("---")
	return sb.String()
}

// turnsToMarkdown renders a dialogue as one section per turn. The format
// is stable because ParseAggregated reads it back.
func turnsToMarkdown(turns []model.TranscriptTurn) string {
	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("### Turn %d (%s)", turn.TurnNumber, turn.PromptLabel))
		if turn.Degraded {
			sb.WriteString(" [degraded]")
		}
		sb.WriteString("\n\n**Probe prompt:**\n\n")
		sb.WriteString(turn.ProbePrompt)
		sb.WriteString("\n\n**Target response:**\n\n")
		sb.WriteString(turn.TargetResponse)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderScenario produces the per-scenario transcript file content.
func RenderScenario(runID string, scenario model.ScenarioResult, targetModel, probeModel string) string {
	header := frontmatter([][2]string{
		{"file_version", fileVersion},
		{"run_id", runID},
		{"scenario_id", scenario.ScenarioID},
		{"target_model", targetModel},
		{"probe_model", probeModel},
		{"context_pairs", fmt.Sprintf("%d", len(scenario.Turns))},
	})
	parts := []string{
		header,
		fmt.Sprintf("# Scenario %s: %s", scenario.ScenarioID, scenario.Subject),
		"",
		"## Dialogue",
		turnsToMarkdown(scenario.Turns),
	}
	return strings.TrimSpace(strings.Join(parts, "\n")) + "\n"
}

// RenderAggregated produces one markdown document covering every scenario
// for a single anonymized model, in the order given.
func RenderAggregated(runID, anonModelID string, results []model.ScenarioResult) string {
	var sb strings.Builder
	sb.WriteString(frontmatter([][2]string{
		{"run_id", runID},
		{"anon_model_id", anonModelID},
	}))
	sb.WriteString("\n")
	for _, scenario := range results {
		sb.WriteString(fmt.Sprintf("\n## Scenario: %s | %s\n\n", scenario.ScenarioID, scenario.Subject))
		sb.WriteString("### Dialogue\n")
		sb.WriteString(turnsToMarkdown(scenario.Turns))
	}
	sb.WriteString(fmt.Sprintf("\nEnd of aggregated transcript for %s\n", anonModelID))
	return sb.String()
}

// AggregatedFilename names the aggregated transcript for one anon model.
func AggregatedFilename(anonModelID string) string {
	return fmt.Sprintf("aggregated_transcript.%s.md", anonModelID)
}

// ScenarioFilename names a per-scenario transcript.
func ScenarioFilename(scenarioID, modelSlug, probeModel, runID string) string {
	return fmt.Sprintf("transcript.%s.%s.%s.%s.md", scenarioID, modelSlug, probeModel, runID)
}

// SortAnonIDs orders anonymized model IDs ("anon_model_001", ...) in
// their numeric order. The zero-padded format makes this a plain sort.
func SortAnonIDs(ids []string) {
	sort.Strings(ids)
}
