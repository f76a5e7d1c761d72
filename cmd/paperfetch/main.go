// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperfetch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperfetch/internal/logger"
	"github.com/pdiddy/paperfetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and log are populated by the root command's PersistentPreRunE.
var (
	cfg types.Config
	log *zap.Logger
)

// rootCmd is the base command for the paperfetch CLI.
var rootCmd = &cobra.Command{
	Use:   "paperfetch",
	Short: "Fetch arXiv papers and their metadata for downstream pipeline stages",
	Long: `paperfetch resolves an arXiv identifier, downloads the paper's PDF, and
normalizes its metadata (title, canonical id, authors, DOI, abstract) into a
record that later pipeline stages consume.

One identifier is processed per invocation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New(cfg.Logging)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperfetch.yaml or ~/.config/paperfetch/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperfetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperfetch"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key of the default configuration so that
// environment variables and unset flags resolve through viper.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	v.SetDefault("fetch.pdf_dir", d.Fetch.PDFDir)
	v.SetDefault("fetch.metadata_dir", d.Fetch.MetadataDir)
	v.SetDefault("fetch.metadata_format", string(d.Fetch.MetadataFormat))
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// loadConfig resolves defaults, config file, PAPERFETCH_* environment
// variables, and bound flags into a Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("PAPERFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	switch c.Fetch.MetadataFormat {
	case types.MetadataNone, types.MetadataYAML, types.MetadataSQLite:
	default:
		return types.Config{}, fmt.Errorf("invalid metadata_format %q (want none, yaml, or sqlite)", c.Fetch.MetadataFormat)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
