package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"rfm-segmentation/pkg/models"
)

// DateLayout is the format of as_of_date.
const DateLayout = "2006-01-02"

// Global configuration structure.
type Global struct {
	// Source
	DSN        string `mapstructure:"dsn" yaml:"dsn"`
	Table      string `mapstructure:"table" yaml:"table" validate:"omitempty,sqlident"`
	SourcePath string `mapstructure:"source_path" yaml:"source_path"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`

	// Computation
	AsOfDate        string  `mapstructure:"as_of_date" yaml:"as_of_date" validate:"omitempty,datetime=2006-01-02"`
	AsOfOffsetDays  int     `mapstructure:"as_of_offset_days" yaml:"as_of_offset_days" validate:"gte=0"`
	LowerPercentile float64 `mapstructure:"lower_percentile" yaml:"lower_percentile" validate:"gte=0,lt=1"`
	UpperPercentile float64 `mapstructure:"upper_percentile" yaml:"upper_percentile" validate:"gt=0,lte=1,gtfield=LowerPercentile"`
	IQRMultiplier   float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier" validate:"gte=0"`
	CancelMarker    string  `mapstructure:"cancel_marker" yaml:"cancel_marker"`

	// Outputs
	OutputPath     string `mapstructure:"output_path" yaml:"output_path"`
	XLSXOutputPath string `mapstructure:"xlsx_output_path" yaml:"xlsx_output_path"`
	OutputTable    string `mapstructure:"output_table" yaml:"output_table" validate:"omitempty,sqlident"`
	MetricsFile    string `mapstructure:"metrics_file" yaml:"metrics_file"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"omitempty,oneof=json console"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose"`
}

var (
	identRe  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return identRe.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks ranges and formats.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ToModel converts the file/env configuration into pipeline parameters.
func (c *Global) ToModel() (models.Config, error) {
	if err := c.Validate(); err != nil {
		return models.Config{}, err
	}
	out := models.Config{
		AsOfOffsetDays: c.AsOfOffsetDays,
		Percentiles: models.Percentiles{
			Lower:         c.LowerPercentile,
			Upper:         c.UpperPercentile,
			IQRMultiplier: c.IQRMultiplier,
		},
		CancelMarker: c.CancelMarker,
		Verbose:      c.Verbose,
	}
	if s := strings.TrimSpace(c.AsOfDate); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return models.Config{}, fmt.Errorf("as_of_date: %w", err)
		}
		out.AsOf = t
	}
	return out, nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".rfm"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.rfm/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (RFM_*) > config file > defaults; flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RFM")
	v.AutomaticEnv()

	v.SetDefault("dsn", "")
	v.SetDefault("table", "online_retail")
	v.SetDefault("source_path", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("as_of_date", "")
	v.SetDefault("as_of_offset_days", 2)
	v.SetDefault("lower_percentile", 0.01)
	v.SetDefault("upper_percentile", 0.99)
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("cancel_marker", "C")
	v.SetDefault("output_path", "")
	v.SetDefault("xlsx_output_path", "")
	v.SetDefault("output_table", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("verbose", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
