// Package config loads the service configuration: built-in defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/platform/envutil"
)

const DefaultPath = "config/config.yaml"

type Config struct {
	LogMode   string          `yaml:"log_mode"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Generator GeneratorConfig `yaml:"generator"`
	Theme     ThemeConfig     `yaml:"theme"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
}

type StorageConfig struct {
	Driver      string      `yaml:"driver"`
	SQLitePath  string      `yaml:"sqlite_path"`
	PostgresDSN string      `yaml:"postgres_dsn"`
	FSDir       string      `yaml:"fs_dir"`
	Timeout     Duration    `yaml:"timeout"`
	Redis       RedisConfig `yaml:"redis"`
	GCS         GCSConfig   `yaml:"gcs"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	EmulatorHost    string `yaml:"emulator_host"`
	CredentialsFile string `yaml:"credentials_file"`
}

type GeneratorConfig struct {
	DefaultRule      string   `yaml:"default_rule"`
	DefaultSeparator string   `yaml:"default_separator"`
	RuleLength       int      `yaml:"rule_length"`
	Sizes            []string `yaml:"sizes"`
}

type ThemeConfig struct {
	Default string `yaml:"default"`
}

type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name"`
	Environment    string `yaml:"environment"`
	Version        string `yaml:"version"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LogMode: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration(5 * time.Second),
			ShutdownTimeout:   Duration(10 * time.Second),
			MaxRequestBytes:   1 << 20,
			AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			Driver:     string(blob.DriverSQLite),
			SQLitePath: "data/skugen.db",
			FSDir:      "data/blobs",
			Timeout:    Duration(10 * time.Second),
			Redis:      RedisConfig{Prefix: "skugen"},
			GCS:        GCSConfig{Prefix: "skugen"},
		},
		Generator: GeneratorConfig{
			DefaultRule:      string(sku.RuleFirstLetters),
			DefaultSeparator: string(sku.SeparatorDash),
			RuleLength:       sku.DefaultRuleLength,
			Sizes:            append([]string(nil), sku.DefaultSizes...),
		},
		Theme: ThemeConfig{Default: string(sku.ThemeLight)},
		Telemetry: TelemetryConfig{
			ServiceName:    "skugen",
			Environment:    "local",
			MetricsEnabled: true,
		},
	}
}

// Load reads path (or SKUGEN_CONFIG_PATH, or DefaultPath) over the defaults and
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, string, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		path = envutil.String("SKUGEN_CONFIG_PATH", DefaultPath)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		path = ""
	case err != nil:
		return Config{}, path, fmt.Errorf("read config file: %w", err)
	case len(bytes.TrimSpace(data)) > 0:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, path, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.HTTP.Addr = envutil.String("SKUGEN_HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Storage.Driver = envutil.String("SKUGEN_STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.SQLitePath = envutil.String("SKUGEN_SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.PostgresDSN = envutil.String("SKUGEN_POSTGRES_DSN", cfg.Storage.PostgresDSN)
	cfg.Storage.FSDir = envutil.String("SKUGEN_FS_DIR", cfg.Storage.FSDir)
	cfg.Storage.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Storage.Redis.Addr)
	cfg.Storage.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Storage.Redis.Password)
	cfg.Storage.Redis.DB = envutil.Int("REDIS_DB", cfg.Storage.Redis.DB)
	cfg.Storage.Redis.Prefix = envutil.String("SKUGEN_REDIS_PREFIX", cfg.Storage.Redis.Prefix)
	cfg.Storage.GCS.Bucket = envutil.String("SKUGEN_GCS_BUCKET", cfg.Storage.GCS.Bucket)
	cfg.Storage.GCS.Prefix = envutil.String("SKUGEN_GCS_PREFIX", cfg.Storage.GCS.Prefix)
	cfg.Storage.GCS.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Storage.GCS.EmulatorHost)
	cfg.Storage.GCS.CredentialsFile = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", cfg.Storage.GCS.CredentialsFile)

	cfg.Theme.Default = envutil.String("SKUGEN_DEFAULT_THEME", cfg.Theme.Default)
	cfg.Telemetry.Environment = envutil.String("SKUGEN_ENV", cfg.Telemetry.Environment)
	cfg.Telemetry.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.Telemetry.MetricsEnabled)
}

// Validate normalises enumerated values in place and rejects unusable settings.
func (c *Config) Validate() error {
	driver, ok := blob.ParseDriver(c.Storage.Driver)
	if !ok {
		return fmt.Errorf("storage.driver %q: want one of %v", c.Storage.Driver, blob.Drivers)
	}
	c.Storage.Driver = string(driver)

	rule, err := sku.ParseRule(c.Generator.DefaultRule)
	if err != nil {
		return fmt.Errorf("generator.default_rule: %w", err)
	}
	c.Generator.DefaultRule = string(rule)

	if _, err := sku.ParseSeparator(c.Generator.DefaultSeparator); err != nil {
		return fmt.Errorf("generator.default_separator: %w", err)
	}
	if c.Generator.RuleLength <= 0 {
		return fmt.Errorf("generator.rule_length must be positive, got %d", c.Generator.RuleLength)
	}

	sizes := make([]string, 0, len(c.Generator.Sizes))
	seen := map[string]bool{}
	for _, s := range c.Generator.Sizes {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		sizes = append(sizes, s)
	}
	if len(sizes) == 0 {
		return fmt.Errorf("generator.sizes must list at least one size")
	}
	c.Generator.Sizes = sizes

	theme, err := sku.ParseTheme(c.Theme.Default)
	if err != nil {
		return fmt.Errorf("theme.default: %w", err)
	}
	c.Theme.Default = string(theme)

	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = 1 << 20
	}
	return nil
}

// Duration accepts "5s"-style strings or integer nanoseconds.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
