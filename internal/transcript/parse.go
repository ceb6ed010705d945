package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/valuerank-ai/valuerank/internal/model"
)

// Metadata is the aggregated transcript frontmatter.
type Metadata struct {
	RunID       string
	AnonModelID string
}

var turnHeaderPattern = regexp.MustCompile(`^(\d+) \(([^)]*)\)( \[degraded\])?\s*$`)

// ParseAggregated reads back a document produced by RenderAggregated.
// The judge stage runs on these files, so parsing failures are loud
// errors rather than silent skips.
func ParseAggregated(content string) (Metadata, []model.ScenarioResult, error) {
	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return Metadata{}, nil, err
	}

	md := Metadata{
		RunID:       meta["run_id"],
		AnonModelID: meta["anon_model_id"],
	}

	// Drop the trailing end marker.
	if idx := strings.LastIndex(body, "\nEnd of aggregated transcript for "); idx >= 0 {
		body = body[:idx]
	}

	var results []model.ScenarioResult
	sections := strings.Split(body, "\n## Scenario: ")
	for _, section := range sections[1:] {
		result, err := parseScenarioSection(section)
		if err != nil {
			return Metadata{}, nil, err
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		return Metadata{}, nil, fmt.Errorf("aggregated transcript for %s contains no scenarios", md.AnonModelID)
	}
	return md, results, nil
}

func splitFrontmatter(content string) (map[string]string, string, error) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, "", fmt.Errorf("missing frontmatter header")
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated frontmatter")
	}

	meta := map[string]string{}
	for _, line := range strings.Split(rest[:end], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta, rest[end+len("\n---"):], nil
}

func parseScenarioSection(section string) (model.ScenarioResult, error) {
	heading, rest, _ := strings.Cut(section, "\n")
	id, subject, _ := strings.Cut(heading, " | ")

	result := model.ScenarioResult{
		ScenarioID: strings.TrimSpace(id),
		Subject:    strings.TrimSpace(subject),
	}
	if result.ScenarioID == "" {
		return model.ScenarioResult{}, fmt.Errorf("scenario section with empty id")
	}

	chunks := strings.Split(rest, "### Turn ")
	for _, chunk := range chunks[1:] {
		turn, err := parseTurn(chunk)
		if err != nil {
			return model.ScenarioResult{}, fmt.Errorf("scenario %s: %w", result.ScenarioID, err)
		}
		result.Turns = append(result.Turns, turn)
	}
	if len(result.Turns) == 0 {
		return model.ScenarioResult{}, fmt.Errorf("scenario %s has no turns", result.ScenarioID)
	}
	return result, nil
}

func parseTurn(chunk string) (model.TranscriptTurn, error) {
	header, body, _ := strings.Cut(chunk, "\n")
	m := turnHeaderPattern.FindStringSubmatch(header)
	if m == nil {
		return model.TranscriptTurn{}, fmt.Errorf("malformed turn header %q", header)
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return model.TranscriptTurn{}, fmt.Errorf("turn number in %q: %w", header, err)
	}

	prompt, response, ok := splitTurnBody(body)
	if !ok {
		return model.TranscriptTurn{}, fmt.Errorf("turn %d is missing prompt or response markers", number)
	}
	return model.TranscriptTurn{
		TurnNumber:     number,
		PromptLabel:    m[2],
		ProbePrompt:    prompt,
		TargetResponse: response,
		Degraded:       m[3] != "",
	}, nil
}

func splitTurnBody(body string) (prompt, response string, ok bool) {
	const (
		promptMarker   = "**Probe prompt:**"
		responseMarker = "**Target response:**"
	)
	_, afterPrompt, found := strings.Cut(body, promptMarker)
	if !found {
		return "", "", false
	}
	prompt, response, found = strings.Cut(afterPrompt, responseMarker)
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(prompt), strings.TrimSpace(response), true
}
