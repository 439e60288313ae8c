package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/reconcile/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Inspect.Addr != DefaultInspectAddr {
		t.Errorf("Inspect.Addr = %q, want %q", cfg.Inspect.Addr, DefaultInspectAddr)
	}
	if cfg.Inspect.Path != DefaultInspectPath {
		t.Errorf("Inspect.Path = %q, want %q", cfg.Inspect.Path, DefaultInspectPath)
	}
	if cfg.Fixtures.Dir != DefaultFixturesDir {
		t.Errorf("Fixtures.Dir = %q, want %q", cfg.Fixtures.Dir, DefaultFixturesDir)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, errors.ErrConfigRead) {
		t.Errorf("Load() error = %v, want C001", err)
	}

	configJSON := `{
  "log": {"level": "debug", "format": "json"},
  "metrics": {"enabled": true},
  "inspect": {"addr": ":9000"},
  "fixtures": {
    "s3": {"bucket": "ui", "region": "eu-west-1", "prefix": "fx/"}
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"log level", cfg.Log.Level, "debug"},
		{"log format", cfg.Log.Format, "json"},
		{"metrics enabled", cfg.Metrics.Enabled, true},
		{"metrics namespace default", cfg.Metrics.Namespace, DefaultNamespace},
		{"inspect addr", cfg.Inspect.Addr, ":9000"},
		{"inspect path default", cfg.Inspect.Path, DefaultInspectPath},
		{"s3 bucket", cfg.Fixtures.S3.Bucket, "ui"},
		{"s3 prefix", cfg.Fixtures.S3.Prefix, "fx/"},
		{"has s3", cfg.HasS3(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("{\n  \"log\": {,\n}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "C002") {
		t.Errorf("Expected C002 error, got: %v", err)
	}
	e := errors.FromError(err, errors.ErrConfigParse)
	if e.Location == nil || e.Location.Line != 2 {
		t.Errorf("Location = %+v, want line 2", e.Location)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Log.Level = "warn"

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", loaded.Log.Level, "warn")
	}

	loaded.Inspect.Path = "/debug"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	reloaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if reloaded.Inspect.Path != "/debug" {
		t.Errorf("Inspect.Path = %q, want %q", reloaded.Inspect.Path, "/debug")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"relative inspect path", func(c *Config) { c.Inspect.Path = "inspect" }, true},
		{"bucket without region", func(c *Config) { c.Fixtures.S3.Bucket = "b" }, true},
		{"bucket with region", func(c *Config) {
			c.Fixtures.S3.Bucket = "b"
			c.Fixtures.S3.Region = "us-east-1"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.HasCode(err, errors.ErrConfigInvalid) {
				t.Errorf("error = %v, want C003", err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := New()
		cfg.Log.Level = tt.level
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	cfg.NewLogger(&buf).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json log = %q", buf.String())
	}

	buf.Reset()
	cfg.Log.Format = "text"
	logger := cfg.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("text log = %q", buf.String())
	}
}

func TestFixturesPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatal(err)
	}
	if got := cfg.FixturesPath(); got != filepath.Join(tmpDir, "fixtures") {
		t.Errorf("FixturesPath = %q", got)
	}
	cfg.Fixtures.Dir = "/abs/fx"
	if got := cfg.FixturesPath(); got != "/abs/fx" {
		t.Errorf("FixturesPath absolute = %q", got)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should be false for empty directory")
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists should be true after creating config")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nestedDir); err == nil {
		t.Error("FindProjectRoot should fail when no config exists")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nestedDir)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Tracing.Tracer != DefaultTracer {
		t.Errorf("Tracing.Tracer = %q, want %q", cfg.Tracing.Tracer, DefaultTracer)
	}
	if cfg.Inspect.Path != DefaultInspectPath {
		t.Errorf("Inspect.Path = %q, want %q", cfg.Inspect.Path, DefaultInspectPath)
	}
}
