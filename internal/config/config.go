// =============================================================================
// Daily Sales Report - Configuration Module
// =============================================================================
//
// This module resolves the settings of a report run from several layers.
//
// PRECEDENCE (lowest to highest):
//   1. Built-in defaults
//   2. YAML config file (--config), flat keys as listed below
//   3. .env file (--env-file), loaded into the process environment without
//      replacing variables that are already set
//   4. Process environment
//   5. Overrides passed by the caller (command-line flags)
//
// SETTINGS:
//
//   | Key               | Environment            | Default              |
//   |-------------------|------------------------|----------------------|
//   | sales_data_file   | SALES_DATA_FILE        | (required)           |
//   | output_report_dir | OUTPUT_REPORT_DIR      | (required)           |
//   | log_file          | LOG_FILE               | logs/automation.log  |
//   | log_level         | LOG_LEVEL              | info                 |
//   | metrics_file      | METRICS_FILE           | (disabled)           |
//   | report_retention  | REPORT_RETENTION       | 0 (keep all)         |
//   | s3_bucket         | REPORT_S3_BUCKET       | (publishing off)     |
//   | s3_region         | REPORT_S3_REGION       | us-east-1            |
//   | s3_endpoint       | REPORT_S3_ENDPOINT     |                      |
//   | s3_prefix         | REPORT_S3_PREFIX       |                      |
//   | s3_path_style     | REPORT_S3_PATH_STYLE   | false                |
//   | publish_timeout   | REPORT_PUBLISH_TIMEOUT | 2m                   |
//
// S3 credentials come from the default AWS chain unless s3_access_key_id
// (REPORT_S3_ACCESS_KEY_ID) is set, in which case s3_secret_access_key
// (REPORT_S3_SECRET_ACCESS_KEY) and the optional s3_session_token
// (REPORT_S3_SESSION_TOKEN) are used with it.
//
// Durations use Go syntax ("2m", "720h").
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrMissingSetting is returned by Validate when a required setting is empty.
var ErrMissingSetting = errors.New("missing required setting")

// DefaultEnvFile is loaded when no .env path is given.
const DefaultEnvFile = ".env"

// Setting keys.
const (
	KeySalesDataFile   = "sales_data_file"
	KeyOutputReportDir = "output_report_dir"
	KeyLogFile         = "log_file"
	KeyLogLevel        = "log_level"
	KeyMetricsFile     = "metrics_file"
	KeyReportRetention = "report_retention"
	KeyS3Bucket        = "s3_bucket"
	KeyS3Region        = "s3_region"
	KeyS3Endpoint      = "s3_endpoint"
	KeyS3Prefix        = "s3_prefix"
	KeyS3PathStyle     = "s3_path_style"
	KeyPublishTimeout  = "publish_timeout"

	KeyS3AccessKeyID     = "s3_access_key_id"
	KeyS3SecretAccessKey = "s3_secret_access_key"
	KeyS3SessionToken    = "s3_session_token"
)

// envNames maps each key to its environment variable.
var envNames = map[string]string{
	KeySalesDataFile:   "SALES_DATA_FILE",
	KeyOutputReportDir: "OUTPUT_REPORT_DIR",
	KeyLogFile:         "LOG_FILE",
	KeyLogLevel:        "LOG_LEVEL",
	KeyMetricsFile:     "METRICS_FILE",
	KeyReportRetention: "REPORT_RETENTION",
	KeyS3Bucket:        "REPORT_S3_BUCKET",
	KeyS3Region:        "REPORT_S3_REGION",
	KeyS3Endpoint:      "REPORT_S3_ENDPOINT",
	KeyS3Prefix:        "REPORT_S3_PREFIX",
	KeyS3PathStyle:     "REPORT_S3_PATH_STYLE",
	KeyPublishTimeout:  "REPORT_PUBLISH_TIMEOUT",

	KeyS3AccessKeyID:     "REPORT_S3_ACCESS_KEY_ID",
	KeyS3SecretAccessKey: "REPORT_S3_SECRET_ACCESS_KEY",
	KeyS3SessionToken:    "REPORT_S3_SESSION_TOKEN",
}

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the resolved settings of a run.
type Config struct {
	Report  Report  `mapstructure:",squash"`
	Logging Logging `mapstructure:",squash"`
	Metrics Metrics `mapstructure:",squash"`
	S3      S3      `mapstructure:",squash"`
}

// Report holds the pipeline inputs and outputs.
type Report struct {
	// SalesDataFile is the CSV file to load.
	SalesDataFile string `mapstructure:"sales_data_file"`

	// OutputReportDir is where the workbook is written.
	OutputReportDir string `mapstructure:"output_report_dir"`

	// Retention removes older reports from OutputReportDir. Zero keeps all.
	Retention time.Duration `mapstructure:"report_retention"`
}

// Logging controls the process logger.
type Logging struct {
	File  string `mapstructure:"log_file"`
	Level string `mapstructure:"log_level"`
}

// Metrics controls the Prometheus textfile.
type Metrics struct {
	// File is the textfile path. Empty disables metrics output.
	File string `mapstructure:"metrics_file"`
}

// S3 controls report publishing.
type S3 struct {
	// Bucket enables publishing when set.
	Bucket         string        `mapstructure:"s3_bucket"`
	Region         string        `mapstructure:"s3_region"`
	Endpoint       string        `mapstructure:"s3_endpoint"`
	Prefix         string        `mapstructure:"s3_prefix"`
	PathStyle      bool          `mapstructure:"s3_path_style"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`

	// Static credentials. Empty AccessKeyID uses the default AWS chain.
	AccessKeyID     string `mapstructure:"s3_access_key_id"`
	SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	SessionToken    string `mapstructure:"s3_session_token"`
}

// Enabled reports whether reports should be published.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// =============================================================================
// LOADING
// =============================================================================

// Options selects the configuration sources.
type Options struct {
	// ConfigFile is an optional YAML file. A missing file is not an error.
	ConfigFile string

	// EnvFile is an optional .env file. Empty means DefaultEnvFile. A
	// missing file is not an error.
	EnvFile string

	// Overrides take precedence over every other source. Keys are the
	// setting keys above.
	Overrides map[string]interface{}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySalesDataFile, "")
	v.SetDefault(KeyOutputReportDir, "")
	v.SetDefault(KeyLogFile, "logs/automation.log")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyReportRetention, time.Duration(0))
	v.SetDefault(KeyS3Bucket, "")
	v.SetDefault(KeyS3Region, "us-east-1")
	v.SetDefault(KeyS3Endpoint, "")
	v.SetDefault(KeyS3Prefix, "")
	v.SetDefault(KeyS3PathStyle, false)
	v.SetDefault(KeyPublishTimeout, 2*time.Minute)
	v.SetDefault(KeyS3AccessKeyID, "")
	v.SetDefault(KeyS3SecretAccessKey, "")
	v.SetDefault(KeyS3SessionToken, "")
}

// Load resolves the configuration. It does not validate it.
//
// PARAMETERS:
//   - opts: The configuration sources.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if a source exists but cannot be read or decoded.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		if err := mergeYAMLFile(v, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var config Config
	err := v.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return &config, nil
}

// mergeYAMLFile reads a flat YAML mapping into v.
func mergeYAMLFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	settings := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge config file: %w", err)
	}
	return nil
}

// loadEnvFile loads a .env file into the process environment. Variables that
// are already set keep their values.
func loadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that the required settings are present.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Report.SalesDataFile) == "" {
		missing = append(missing, envNames[KeySalesDataFile])
	}
	if strings.TrimSpace(c.Report.OutputReportDir) == "" {
		missing = append(missing, envNames[KeyOutputReportDir])
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}
