// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the patent-copilot CLI.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/internal/secrets"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the patent-copilot CLI.
var rootCmd = &cobra.Command{
	Use:   "patent-copilot",
	Short: "Find patents similar to an invention description",
	Long: `patent-copilot turns a free-text invention description into several
independent patent search strategies, runs them concurrently against a patent
search provider, merges and ranks the hits, and asks an AI model for a novelty
assessment of the strongest candidates.

API keys are read from .secrets/ (one file per key, e.g. .secrets/serpapi-api-key)
or from SERPAPI_API_KEY, PATENTSVIEW_API_KEY, GEMINI_API_KEY, and ANTHROPIC_API_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(viper.GetString("log.level"), os.Stderr)
		logging.SetDefault(logger)

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./patent-copilot.yaml or ~/.config/patent-copilot/patent-copilot.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, or error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every configuration key with its default so that
// environment variables and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("search.provider", string(d.Search.Provider))
	v.SetDefault("search.results_per_strategy", d.Search.ResultsPerStrategy)
	v.SetDefault("search.max_concurrency", d.Search.MaxConcurrency)
	v.SetDefault("search.budget", d.Search.Budget)
	v.SetDefault("search.retries", d.Search.Retries)
	v.SetDefault("search.call_timeout", d.Search.CallTimeout)
	v.SetDefault("search.rate_limit_per_minute", d.Search.RateLimitPerMinute)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("ai.backend", string(d.AI.Backend))
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.max_candidates", d.AI.MaxCandidates)
	v.SetDefault("ai.max_attempts", d.AI.MaxAttempts)
	v.SetDefault("log.level", d.Log.Level)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("patent-copilot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "patent-copilot"))
		}
	}

	viper.SetEnvPrefix("PATENT_COPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logging.Default().Info("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, environment, file, and default
// settings.
func loadConfig() (types.CopilotConfig, error) {
	var cfg types.CopilotConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
