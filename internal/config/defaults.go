package config

const (
	defaultProbeModel     = "mock-probe"
	defaultJudgeModel     = "mock-judge"
	defaultMaxTokens      = 1000
	defaultThreads        = 1
	defaultJudgeThreads   = 6
	defaultOutputDir      = "output"
	defaultTimeoutSeconds = 60
)

// applyRuntimeDefaults fills unset runtime fields.
func applyRuntimeDefaults(cfg *RuntimeConfig) {
	setDefaultString(&cfg.Defaults.ProbeModel, defaultProbeModel)
	setDefaultString(&cfg.Defaults.JudgeModel, defaultJudgeModel)
	setDefaultString(&cfg.Defaults.OutputDir, defaultOutputDir)
	setDefaultString(&cfg.Environment.Timezone, "UTC")

	setDefaultInt(&cfg.Defaults.MaxTokens, defaultMaxTokens)
	setDefaultInt(&cfg.Defaults.Threads, defaultThreads)
	setDefaultInt(&cfg.Defaults.TimeoutSeconds, defaultTimeoutSeconds)

	// Judge workers inherit the probe pool size when only threads is set.
	if cfg.Defaults.JudgeThreads == 0 {
		if cfg.Defaults.Threads != defaultThreads {
			cfg.Defaults.JudgeThreads = cfg.Defaults.Threads
		} else {
			cfg.Defaults.JudgeThreads = defaultJudgeThreads
		}
	}

	setDefaultFloat64Ptr(&cfg.Defaults.Temperature, 0)
}

func setDefaultString(field *string, defaultValue string) {
	if *field == "" {
		*field = defaultValue
	}
}

func setDefaultInt(field *int, defaultValue int) {
	if *field == 0 {
		*field = defaultValue
	}
}

func setDefaultFloat64Ptr(field **float64, defaultValue float64) {
	if *field == nil {
		v := defaultValue
		*field = &v
	}
}
