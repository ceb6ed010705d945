package config

import (
	"errors"
	"fmt"
)

func validateRuntime(cfg *RuntimeConfig) error {
	validators := []func(*RuntimeConfig) error{
		validateTargetModels,
		validateSampling,
		validateWorkers,
	}
	for _, validator := range validators {
		if err := validator(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateTargetModels(cfg *RuntimeConfig) error {
	if len(cfg.Defaults.TargetModels) == 0 {
		return errors.New("defaults.target_models must list at least one model")
	}
	seen := map[string]bool{}
	for i, m := range cfg.Defaults.TargetModels {
		if m == "" {
			return fmt.Errorf("defaults.target_models[%d] must not be empty", i)
		}
		if seen[m] {
			return fmt.Errorf("defaults.target_models contains duplicate %q", m)
		}
		seen[m] = true
	}
	return nil
}

func validateSampling(cfg *RuntimeConfig) error {
	if cfg.Defaults.MaxTokens <= 0 {
		return fmt.Errorf("defaults.max_tokens must be positive, got %d", cfg.Defaults.MaxTokens)
	}
	if t := cfg.Defaults.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("defaults.temperature must be between 0 and 2, got %g", *t)
	}
	if cfg.Defaults.TimeoutSeconds <= 0 {
		return fmt.Errorf("defaults.timeout_seconds must be positive, got %d", cfg.Defaults.TimeoutSeconds)
	}
	return nil
}

func validateWorkers(cfg *RuntimeConfig) error {
	if cfg.Defaults.Threads < 1 {
		return fmt.Errorf("defaults.threads must be at least 1, got %d", cfg.Defaults.Threads)
	}
	if cfg.Defaults.JudgeThreads < 1 {
		return fmt.Errorf("defaults.judge_threads must be at least 1, got %d", cfg.Defaults.JudgeThreads)
	}
	return nil
}

func validateScenarios(cfg *ScenariosConfig) error {
	if cfg.Preamble == "" {
		return errors.New("scenarios config must include a preamble")
	}
	if len(cfg.Scenarios) == 0 {
		return errors.New("scenarios config must include at least one scenario")
	}

	seenIDs := map[string]bool{}
	for i, scenario := range cfg.Scenarios {
		if scenario.ID == "" {
			return fmt.Errorf("scenarios[%d].id is required", i)
		}
		if scenario.Body == "" {
			return fmt.Errorf("scenarios[%d] (%s): body is required", i, scenario.ID)
		}
		if seenIDs[scenario.ID] {
			return fmt.Errorf("duplicate scenario id %q", scenario.ID)
		}
		seenIDs[scenario.ID] = true
	}

	seenLabels := map[string]bool{}
	for i, followup := range cfg.Followups {
		if followup.Label == "" {
			return fmt.Errorf("followups[%d].label is required", i)
		}
		if followup.Prompt == "" {
			return fmt.Errorf("followups[%d] (%s): prompt is required", i, followup.Label)
		}
		if seenLabels[followup.Label] {
			return fmt.Errorf("duplicate followup label %q", followup.Label)
		}
		seenLabels[followup.Label] = true
	}
	return nil
}
