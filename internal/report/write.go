package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RenderYAML serializes a summary for the YAML artifact.
func RenderYAML(summary ModelSummary) ([]byte, error) {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary for %s: %w", summary.AnonModelID, err)
	}
	return data, nil
}

// RenderCSV serializes the per-scenario rows for the CSV artifact.
func RenderCSV(summary ModelSummary) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	rows := [][]string{{"scenario_id", "decision_code", "decision_source"}}
	for _, d := range summary.Decisions {
		rows = append(rows, []string{d.ScenarioID, d.Code, d.Source})
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv rows for %s: %w", summary.AnonModelID, err)
	}
	return sb.String(), nil
}

// Save writes both summary artifacts into runDir.
func Save(runDir string, summary ModelSummary) error {
	yamlData, err := RenderYAML(summary)
	if err != nil {
		return err
	}
	yamlPath := filepath.Join(runDir, YAMLFilename(summary.AnonModelID, summary.RunID))
	if err := os.WriteFile(yamlPath, yamlData, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", yamlPath, err)
	}

	csvData, err := RenderCSV(summary)
	if err != nil {
		return err
	}
	csvPath := filepath.Join(runDir, CSVFilename(summary.AnonModelID, summary.RunID))
	if err := os.WriteFile(csvPath, []byte(csvData), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}
	return nil
}
