// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-agent CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Set

	// logger is built from the log.* settings before any command runs.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "research-agent",
	Short: "Answer research questions from the web and your own documents",
	Long: `research-agent classifies a free-form research question, gathers web content
through the configured search strategy, picks relevant stored documents,
extracts the entities worth comparing, analyzes each with a category-specific
schema and writes a recommendation.

Stored documents are managed with the documents subcommands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, skipped, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		l, err := logging.New(logConfig(viper.GetViper()))
		if err != nil {
			return err
		}
		logger = l
		if names := s.Names(); len(names) > 0 {
			logger.Info("loaded secrets", zap.Strings("keys", names))
		}
		for _, name := range skipped {
			logger.Warn("unreadable secret file", zap.String("file", name))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-agent.yaml or ~/.config/research-agent/research-agent.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this rotated file")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-agent"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
