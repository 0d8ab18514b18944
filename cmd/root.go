package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "rfm-segmentation/pkg/config"
	"rfm-segmentation/pkg/logging"
)

var (
	// Global flags
	cfgFile       string
	flagLogLevel  string
	flagLogFormat string
	flagVerbose   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "rfm",
	Short: "RFM customer segmentation from a retail transaction log",
	Long: `rfm cleans a retail transaction log, scores every customer on recency,
frequency and monetary value (quintiles 1..5) and assigns one of ten
marketing segments from the recency/frequency grid.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rfm/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "trace, debug, info, warn, error or disabled (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "json or console (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show stage progress")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: grid and config set work without it
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		logging.Init(logging.Config{Level: flagLogLevel, Format: flagLogFormat})
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if f.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
}

func requireConfig() error {
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}
	return nil
}
