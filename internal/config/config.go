package config

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/reconcile/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reconcile.json"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reconcile"

	// DefaultTracer is the default OpenTelemetry tracer name.
	DefaultTracer = "reconcile"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7357"

	// DefaultInspectPath is the default URL prefix of the inspector.
	DefaultInspectPath = "/_reconcile"

	// DefaultFixturesDir is the default fixture directory.
	DefaultFixturesDir = "fixtures"
)

// Config represents the complete reconcile.json configuration.
type Config struct {
	// Log configures the slog handler.
	Log LogConfig `json:"log,omitempty"`

	// Metrics configures Prometheus instruments.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Inspect configures the inspector server.
	Inspect InspectConfig `json:"inspect,omitempty"`

	// Fixtures configures where fixtures are read from.
	Fixtures FixturesConfig `json:"fixtures,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the reconciler instruments.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metric namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled creates spans for diff and commit.
	Enabled bool `json:"enabled,omitempty"`

	// Tracer is the tracer name.
	Tracer string `json:"tracer,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// Path is the URL prefix the inspector is mounted under.
	Path string `json:"path,omitempty"`
}

// FixturesConfig contains fixture source settings.
type FixturesConfig struct {
	// Dir is the local fixture directory.
	Dir string `json:"dir,omitempty"`

	// S3 reads fixtures from a bucket when Bucket is set.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 fixture source settings.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO or LocalStack.
	Endpoint string `json:"endpoint,omitempty"`

	// Prefix is prepended to fixture names to form object keys.
	Prefix string `json:"prefix,omitempty"`

	// UsePathStyle forces path-style addressing.
	UsePathStyle bool `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			Tracer: DefaultTracer,
		},
		Inspect: InspectConfig{
			Addr: DefaultInspectAddr,
			Path: DefaultInspectPath,
		},
		Fixtures: FixturesConfig{
			Dir: DefaultFixturesDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for reconcile.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrConfigRead).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New(errors.ErrConfigRead).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New(errors.ErrConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		var syntax *json.SyntaxError
		if stderrors.As(err, &syntax) {
			e = e.WithOffset(path, data, syntax.Offset)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.ErrConfigInvalid).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.ErrConfigRead).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.Tracer == "" {
		c.Tracing.Tracer = DefaultTracer
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Inspect.Path == "" {
		c.Inspect.Path = DefaultInspectPath
	}
	if c.Fixtures.Dir == "" {
		c.Fixtures.Dir = DefaultFixturesDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrConfigInvalid).
			WithDetail("log.level must be debug, info, warn or error, got " + c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.ErrConfigInvalid).
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	if !strings.HasPrefix(c.Inspect.Path, "/") {
		return errors.New(errors.ErrConfigInvalid).
			WithDetail("inspect.path must start with /").
			WithSuggestion(`Use "` + DefaultInspectPath + `"`)
	}
	if c.Fixtures.S3.Bucket != "" && c.Fixtures.S3.Region == "" {
		return errors.New(errors.ErrConfigInvalid).
			WithDetail("fixtures.s3.region is required when a bucket is set")
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FixturesPath returns the absolute path to the fixture directory.
func (c *Config) FixturesPath() string {
	if filepath.IsAbs(c.Fixtures.Dir) {
		return c.Fixtures.Dir
	}
	return filepath.Join(c.Dir(), c.Fixtures.Dir)
}

// HasS3 returns true if fixtures are read from S3.
func (c *Config) HasS3() bool {
	return c.Fixtures.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing reconcile.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.ErrConfigRead).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory,
// falling back to defaults when no file exists.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.HasCode(err, errors.ErrConfigRead) {
			return New(), nil
		}
		return nil, err
	}

	return Load(root)
}
