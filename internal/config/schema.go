package config

// RuntimeConfig is the top-level runtime.yaml document. It carries the
// run-wide knobs: which models to probe, sampling settings, and worker
// pool sizes.
type RuntimeConfig struct {
	Defaults    RuntimeDefaults `yaml:"defaults"`
	Environment Environment     `yaml:"environment,omitempty"`
	Metadata    map[string]any  `yaml:"metadata,omitempty"`
}

type RuntimeDefaults struct {
	ProbeModel   string   `yaml:"probe_model,omitempty"`
	JudgeModel   string   `yaml:"judge_model,omitempty"`
	TargetModels []string `yaml:"target_models,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	MaxTokens    int      `yaml:"max_tokens,omitempty"`
	Threads      int      `yaml:"threads,omitempty"`
	JudgeThreads int      `yaml:"judge_threads,omitempty"`
	OutputDir    string   `yaml:"output_dir,omitempty"`
	// TimeoutSeconds bounds each provider HTTP call.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

type Environment struct {
	Timezone string `yaml:"timezone,omitempty"`
}

// ScenariosConfig is the scenarios.yaml document: the shared preamble,
// the follow-up prompt sequence, and the scenario list. Scenarios and
// followups keep their declaration order.
type ScenariosConfig struct {
	Version   int        `yaml:"version,omitempty"`
	Preamble  string     `yaml:"preamble"`
	Followups []Followup `yaml:"followups,omitempty"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Followup is one configured probe turn after the scenario prompt.
type Followup struct {
	Label  string `yaml:"label"`
	Prompt string `yaml:"prompt"`
}

// Scenario is a single moral-tradeoff vignette presented to each target
// model.
type Scenario struct {
	ID      string `yaml:"id"`
	Subject string `yaml:"subject,omitempty"`
	Body    string `yaml:"body"`
}
