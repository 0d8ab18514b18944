package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "rfm-segmentation/pkg/config"
	"rfm-segmentation/pkg/database"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set rfm configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		showConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func showConfig(w io.Writer, c *cfgpkg.Global) {
	if c.DSN != "" {
		fmt.Fprintf(w, "dsn: %s\n", database.Redact(c.DSN))
	}
	fmt.Fprintf(w, "table: %s\n", c.Table)
	if c.SourcePath != "" {
		fmt.Fprintf(w, "source_path: %s\n", c.SourcePath)
	}
	if c.SheetName != "" {
		fmt.Fprintf(w, "sheet_name: %s\n", c.SheetName)
	}
	if c.Delimiter != "" {
		fmt.Fprintf(w, "delimiter: %q\n", c.Delimiter)
	}
	if c.AsOfDate != "" {
		fmt.Fprintf(w, "as_of_date: %s\n", c.AsOfDate)
	}
	fmt.Fprintf(w, "as_of_offset_days: %d\n", c.AsOfOffsetDays)
	fmt.Fprintf(w, "lower_percentile: %.3f\n", c.LowerPercentile)
	fmt.Fprintf(w, "upper_percentile: %.3f\n", c.UpperPercentile)
	fmt.Fprintf(w, "iqr_multiplier: %.3f\n", c.IQRMultiplier)
	fmt.Fprintf(w, "cancel_marker: %s\n", c.CancelMarker)
	for _, kv := range [][2]string{
		{"output_path", c.OutputPath},
		{"xlsx_output_path", c.XLSXOutputPath},
		{"output_table", c.OutputTable},
		{"metrics_file", c.MetricsFile},
	} {
		if kv[1] != "" {
			fmt.Fprintf(w, "%s: %s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
	fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
	fmt.Fprintf(w, "verbose: %t\n", c.Verbose)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	parseFloat := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %w", key, err)
		}
		return f, nil
	}
	var err error
	switch key {
	case "dsn":
		c.DSN = val
	case "table":
		c.Table = val
	case "source_path":
		c.SourcePath = val
	case "sheet_name":
		c.SheetName = val
	case "delimiter":
		c.Delimiter = val
	case "as_of_date":
		c.AsOfDate = val
	case "as_of_offset_days":
		i, convErr := strconv.Atoi(val)
		if convErr != nil {
			return fmt.Errorf("invalid int for as_of_offset_days: %w", convErr)
		}
		c.AsOfOffsetDays = i
	case "lower_percentile":
		c.LowerPercentile, err = parseFloat()
	case "upper_percentile":
		c.UpperPercentile, err = parseFloat()
	case "iqr_multiplier":
		c.IQRMultiplier, err = parseFloat()
	case "cancel_marker":
		c.CancelMarker = val
	case "output_path":
		c.OutputPath = val
	case "xlsx_output_path":
		c.XLSXOutputPath = val
	case "output_table":
		c.OutputTable = val
	case "metrics_file":
		c.MetricsFile = val
	case "log_level":
		c.LogLevel = val
	case "log_format":
		c.LogFormat = val
	case "verbose":
		b, convErr := strconv.ParseBool(val)
		if convErr != nil {
			return fmt.Errorf("invalid bool for verbose: %w", convErr)
		}
		c.Verbose = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
