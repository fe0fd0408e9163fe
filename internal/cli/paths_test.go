package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/orchestrator"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", appName)
	if dir != expected {
		t.Errorf("configDir() = %q, want %q", dir, expected)
	}
}

func TestConfigDirXDG(t *testing.T) {
	customConfig := "/tmp/custom-config"
	t.Setenv("XDG_CONFIG_HOME", customConfig)

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	expected := filepath.Join(customConfig, appName)
	if dir != expected {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join(appName, configFile)) {
		t.Errorf("configPath() = %q, should end with %s/%s", path, appName, configFile)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg != orchestrator.DefaultConfig() {
		t.Error("missing config file should yield defaults")
	}
}

func TestLoadConfigFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("output_size = 256\nrng = \"pcg\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.OutputSize != 256 || cfg.RNG != "pcg" {
		t.Errorf("cfg = %+v, want output_size 256 and rng pcg", cfg)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("quick_size = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	c.configPath = path
	if _, err := c.loadConfig(); !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("loadConfig() error = %v, want INVALID_CONFIG", err)
	}
}
