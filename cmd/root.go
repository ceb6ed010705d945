package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

var rootVerbose bool

var rootCmd = &cobra.Command{
	Use:   "valuerank",
	Short: "Valuerank - moral tradeoff evaluation for AI models",
	Long: `Valuerank probes AI models with moral tradeoff scenarios, records
anonymized transcripts, and extracts each model's final decision.

Key commands:
  valuerank init      Initialize a project (config/runtime.yaml + scenarios)
  valuerank probe     Run scenarios against the configured target models
  valuerank judge     Extract decision codes from a finished probe run`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := 1
		if exitErr, ok := err.(ExitError); ok {
			code = exitErr.Code
			err = exitErr.Err
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
}

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

// newLogger builds the process logger. Debug output goes to stderr so
// command output stays clean for piping.
func newLogger() (*zap.Logger, error) {
	if rootVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
