package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eventwire/internal/config"
	"github.com/sells-group/eventwire/internal/parser"
	"github.com/sells-group/eventwire/internal/refine"
	"github.com/sells-group/eventwire/pkg/anthropic"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "eventwire",
	Short: "Crypto news event classification service",
	Long:  "Parses crypto market news into structured, schema-versioned event records, deterministically, with an optional LLM refinement pass.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newParser builds the configured parser, wiring the refinement provider
// when one is configured.
func newParser() (*parser.Parser, error) {
	opts := []parser.Option{}
	if cfg.Parser.ModelVersion != "" {
		opts = append(opts, parser.WithModelVersion(cfg.Parser.ModelVersion))
	}
	if cfg.Refine.Provider == "anthropic" && cfg.Refine.APIKey != "" {
		client := anthropic.NewClient(cfg.Refine.APIKey)
		opts = append(opts, parser.WithRefiner(refine.NewAnthropicRefiner(client, cfg.Refine.Model)))
	}
	return parser.New(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
