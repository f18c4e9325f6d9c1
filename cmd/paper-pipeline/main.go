// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-pipeline CLI, which collects
// recent papers from a list of journals on PubMed and writes them to an
// Excel report with per-keyword sheets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/paper-pipeline/internal/secrets"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// pipelineCfg is the resolved configuration, built before every command runs.
	pipelineCfg types.PipelineConfig

	// logger writes structured diagnostics to stderr; progress goes to stdout.
	logger = zap.NewNop()
)

// rootCmd is the base command for the paper-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-pipeline",
	Short: "Collect recent journal papers from PubMed into Excel reports",
	Long: `paper-pipeline searches PubMed for papers published in a fixed list of
journals within a date range, extracts title, journal, date, authors and
abstract, and writes an Excel workbook with a summary sheet, a sheet of all
papers and one sheet per keyword with the matches highlighted.

Runs are archived in a local SQLite database so reports can be regenerated
or exported later. Reports can optionally be published to S3.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		s.Apply(&cfg)

		pipelineCfg = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paper-pipeline.yaml or ~/.config/paper-pipeline/config.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of secret files (ncbi-api-key, ncbi-email, s3-access-key, s3-secret-key)")

	pf.String("output-dir", "output", "directory for Excel reports")
	pf.String("archive", "archive/papers.db", "path of the SQLite run archive")
	pf.String("journals", "", "YAML file with the journal list (default: built-in list)")
	pf.Duration("delay", 0, "pause between journals (default 1s)")
	pf.String("email", "", "contact e-mail sent to NCBI")
	pf.String("api-key", "", "NCBI API key")

	bindFlags(pf, map[string]string{
		"report.output_dir":     "output-dir",
		"archive.path":          "archive",
		"collect.journals_file": "journals",
		"collect.delay":         "delay",
		"pubmed.email":          "email",
		"pubmed.api_key":        "api-key",
	})
}

// bindFlags binds config keys to flags so a flag set on the command line
// overrides environment and config file values.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// setDefaults registers every config key so AutomaticEnv can override it
// during Unmarshal.
func setDefaults() {
	viper.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	viper.SetDefault("pubmed.tool", "PaperPipeline")
	viper.SetDefault("pubmed.email", "")
	viper.SetDefault("pubmed.api_key", "")
	viper.SetDefault("pubmed.retmax", 1000)
	viper.SetDefault("pubmed.timeout", "60s")
	viper.SetDefault("pubmed.user_agent", "paper-pipeline/"+version)
	viper.SetDefault("pubmed.max_retries", 5)

	viper.SetDefault("collect.delay", "1s")
	viper.SetDefault("collect.journals_file", "")

	viper.SetDefault("report.output_dir", "output")
	viper.SetDefault("report.highlight_color", "FF0000")

	viper.SetDefault("archive.path", "archive/papers.db")
	viper.SetDefault("archive.disabled", false)

	viper.SetDefault("publish.bucket", "")
	viper.SetDefault("publish.prefix", "")
	viper.SetDefault("publish.region", "")
	viper.SetDefault("publish.endpoint", "")
	viper.SetDefault("publish.access_key", "")
	viper.SetDefault("publish.secret_key", "")

	viper.SetDefault("schedule.cron", "0 6 * * 1")
	viper.SetDefault("schedule.days", 7)
}

func initConfig() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-pipeline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-pipeline"))
		}
	}

	viper.SetEnvPrefix("PAPER_PIPELINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flags, environment and config file.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds a console logger on stderr at info level, debug when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
