package model

// Message is a single entry in a chat conversation sent to a target model.
// Conversations are append-only: each turn builds a new slice rather than
// mutating recorded history.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Role constants for the Message.Role field.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AppendMessage returns a new conversation with msg appended. The input
// slice is never modified, so earlier turns stay stable once recorded.
func AppendMessage(conversation []Message, msg Message) []Message {
	out := make([]Message, 0, len(conversation)+1)
	out = append(out, conversation...)
	return append(out, msg)
}

// TranscriptTurn records one probe prompt and the target model's answer.
// TurnNumber is contiguous and starts at 1.
type TranscriptTurn struct {
	TurnNumber     int    `json:"turn_number" yaml:"turn_number"`
	PromptLabel    string `json:"prompt_label" yaml:"prompt_label"`
	ProbePrompt    string `json:"probe_prompt" yaml:"probe_prompt"`
	TargetResponse string `json:"target_response" yaml:"target_response"`
	// Degraded marks a turn whose response came from the mock adapter
	// after a real provider call failed.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// ScenarioResult is the full transcript of one scenario against one target
// model. It is owned by a single orchestrator task and never mutated after
// its last turn completes.
type ScenarioResult struct {
	ScenarioID string           `json:"scenario_id" yaml:"scenario_id"`
	Subject    string           `json:"subject" yaml:"subject"`
	Body       string           `json:"body" yaml:"body"`
	Turns      []TranscriptTurn `json:"turns" yaml:"turns"`
}

// Decision source values.
const (
	DecisionSourceDeterministic = "deterministic"
	DecisionSourceLLM           = "llm"
)

// Decision code sentinels. Any other code is a positive integer rendered
// as a string.
const (
	DecisionRefusal = "refusal"
	DecisionOther   = "other"
)

// DecisionOutcome is the canonical extracted decision for one
// (model, scenario) transcript. Source is "llm" only when the LLM fallback
// moved the result away from "other".
type DecisionOutcome struct {
	ScenarioID string `json:"scenario_id" yaml:"scenario_id"`
	Code       string `json:"decision_code" yaml:"decision_code"`
	Source     string `json:"decision_source" yaml:"decision_source"`
}
