package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ppifix/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("PPIFIX_LOCK_DIR", "")
	t.Setenv("PPIFIX_LOG_LEVEL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "ppifix", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLock := filepath.Join(tempHome, ".local", "state", "ppifix", "locks")
	if cfg.Paths.LockDir != wantLock {
		t.Fatalf("unexpected lock dir: got %q want %q", cfg.Paths.LockDir, wantLock)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Rewrite.DefaultPPI != 144 {
		t.Fatalf("expected default ppi 144, got %d", cfg.Rewrite.DefaultPPI)
	}
	if cfg.Rewrite.DefaultMode != config.ModeLinear {
		t.Fatalf("expected linear default mode, got %q", cfg.Rewrite.DefaultMode)
	}
	if cfg.Rewrite.ConvertToPNG {
		t.Fatal("expected PNG conversion disabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LockDir)
	if err != nil {
		t.Fatalf("expected lock dir to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.LockDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ppifix.toml")

	type payload struct {
		Paths struct {
			LockDir string `toml:"lock_dir"`
		} `toml:"paths"`
		Rewrite struct {
			DefaultPPI   int    `toml:"default_ppi"`
			DefaultMode  string `toml:"default_mode"`
			ConvertToPNG bool   `toml:"convert_to_png"`
		} `toml:"rewrite"`
		Encoding struct {
			JPEGQuality int `toml:"jpeg_quality"`
		} `toml:"encoding"`
	}
	custom := payload{}
	custom.Paths.LockDir = filepath.Join(tempDir, "locks")
	custom.Rewrite.DefaultPPI = 300
	custom.Rewrite.DefaultMode = "No-Change"
	custom.Rewrite.ConvertToPNG = true
	custom.Encoding.JPEGQuality = 80
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("PPIFIX_LOCK_DIR", "")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.LockDir != custom.Paths.LockDir {
		t.Fatalf("expected lock dir from file, got %q", cfg.Paths.LockDir)
	}
	if cfg.Rewrite.DefaultPPI != 300 {
		t.Fatalf("expected ppi 300, got %d", cfg.Rewrite.DefaultPPI)
	}
	if cfg.Rewrite.DefaultMode != config.ModeNone {
		t.Fatalf("expected no-change alias to normalize to none, got %q", cfg.Rewrite.DefaultMode)
	}
	if !cfg.Rewrite.ConvertToPNG {
		t.Fatal("expected convert_to_png from file")
	}
	if cfg.Encoding.JPEGQuality != 80 {
		t.Fatalf("expected jpeg quality 80, got %d", cfg.Encoding.JPEGQuality)
	}
	if cfg.Encoding.PNGCompression != "default" {
		t.Fatalf("expected default png compression, got %q", cfg.Encoding.PNGCompression)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ppifix.toml")
	if err := os.WriteFile(configPath, []byte("[rewrite]\nppi = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvOverridesLogLevelAndLockDir(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "env-locks")
	t.Setenv("PPIFIX_LOG_LEVEL", "DEBUG")
	t.Setenv("PPIFIX_LOCK_DIR", lockDir)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
	if cfg.Paths.LockDir != lockDir {
		t.Fatalf("expected env lock dir, got %q", cfg.Paths.LockDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "default_ppi") {
		t.Fatalf("sample config missing default_ppi: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Rewrite.DefaultPPI != 144 {
		t.Fatalf("expected sample ppi 144, got %d", cfg.Rewrite.DefaultPPI)
	}
	if !strings.Contains(cfg.Paths.LockDir, "ppifix") {
		t.Fatalf("expected lock dir to contain ppifix, got %q", cfg.Paths.LockDir)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Rewrite.DefaultPPI = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive ppi")
	}

	cfg = config.Default()
	cfg.Rewrite.DefaultMode = "diagonal"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown mode")
	}

	cfg = config.Default()
	cfg.Encoding.JPEGQuality = 101
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for jpeg quality above 100")
	}

	cfg = config.Default()
	cfg.Encoding.PNGCompression = "maximum"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown png compression")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	cfg.Paths.LockDir = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank lock dir")
	}
}
