package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults should be intentional, so each one is pinned here.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Origin is haxtheweb.org", func(t *testing.T) {
		t.Parallel()
		if cfg.Origin != "https://haxtheweb.org" {
			t.Errorf("expected default origin, got %q", cfg.Origin)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("history is off by default", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be the XDG data dir, got %q", cfg.DBDir)
		}
	})

	t.Run("default TorStartupTimeout is 3 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.TorStartupTimeout != 3*time.Minute {
			t.Errorf("expected TorStartupTimeout to be 3m, got %v", cfg.TorStartupTimeout)
		}
	})

	t.Run("default user agent names the tool", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cfg.UserAgent, "SiteScope/") {
			t.Errorf("unexpected user agent %q", cfg.UserAgent)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"example.org"}
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty string target is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = []string{""}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("ValidateSettings ignores targets", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		if err := cfg.ValidateSettings(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		cfg.Timeout = -time.Second
		if err := cfg.ValidateSettings(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero timeout is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"no targets", func(c *Config) { c.Targets = nil }, ErrNoTarget},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"json and raw", func(c *Config) { c.JSONReport, c.RawReport = true, true }, ErrConflictingReportFormats},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"tor and proxy", func(c *Config) { c.UseTor, c.ProxyAddress = true, "127.0.0.1:9050" }, ErrConflictingTransports},
		{"relative origin", func(c *Config) { c.Origin = "haxtheweb.org" }, ErrInvalidOrigin},
		{"ftp origin", func(c *Config) { c.Origin = "ftp://example.org" }, ErrInvalidOrigin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestSiteKey tests reduction of targets to config file keys.
func TestSiteKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"example.org", "example.org"},
		{"  Example.ORG/docs/site.json ", "example.org"},
		{"https://example.org/site.json", "example.org"},
		{"http://user:pw@example.org:8080/x?y#z", "example.org:8080"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := SiteKey(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestForTarget tests per-site overrides.
func TestForTarget(t *testing.T) {
	t.Parallel()

	zero := Duration(0)
	long := Duration(90 * time.Second)

	cfg := NewConfig()
	cfg.SiteConfigs = &File{
		Defaults: SiteConfig{Timeout: &long},
		Sites: map[string]SiteConfig{
			"docs.example.org": {Origin: "https://docs.example.org"},
			"slow.example.org": {Timeout: &zero},
		},
	}

	t.Run("defaults apply to unknown sites", func(t *testing.T) {
		t.Parallel()
		origin, timeout := cfg.ForTarget("other.org")
		if origin != DefaultOrigin {
			t.Errorf("expected default origin, got %q", origin)
		}
		if timeout != 90*time.Second {
			t.Errorf("expected 90s, got %v", timeout)
		}
	})

	t.Run("site origin overrides", func(t *testing.T) {
		t.Parallel()
		origin, timeout := cfg.ForTarget("https://docs.example.org/site.json")
		if origin != "https://docs.example.org" {
			t.Errorf("unexpected origin %q", origin)
		}
		if timeout != 90*time.Second {
			t.Errorf("expected default timeout, got %v", timeout)
		}
	})

	t.Run("explicit zero timeout overrides", func(t *testing.T) {
		t.Parallel()
		_, timeout := cfg.ForTarget("slow.example.org")
		if timeout != 0 {
			t.Errorf("expected no timeout, got %v", timeout)
		}
	})

	t.Run("no config file", func(t *testing.T) {
		t.Parallel()
		plain := NewConfig()
		origin, timeout := plain.ForTarget("docs.example.org")
		if origin != DefaultOrigin || timeout != DefaultTimeout {
			t.Errorf("unexpected %q %v", origin, timeout)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), ".sitescope")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		return path
	}

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfigFile("/nonexistent/path/.sitescope")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		path := write(t, `defaults:
  origin: "https://haxtheweb.org"
  timeout: 45s
sites:
  docs.example.org:
    origin: "https://docs.example.org"
    timeout: 10
`)
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Defaults.Timeout == nil || time.Duration(*cf.Defaults.Timeout) != 45*time.Second {
			t.Errorf("expected default timeout 45s, got %v", cf.Defaults.Timeout)
		}
		site, ok := cf.Sites["docs.example.org"]
		if !ok {
			t.Fatal("expected docs.example.org in sites")
		}
		if site.Origin != "https://docs.example.org" {
			t.Errorf("unexpected origin %q", site.Origin)
		}
		if site.Timeout == nil || time.Duration(*site.Timeout) != 10*time.Second {
			t.Errorf("expected integer timeout to be seconds, got %v", site.Timeout)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadConfigFile(write(t, `invalid: yaml: content: [}`)); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for bad duration", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(write(t, "defaults:\n  timeout: soon\n"))
		if !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("expected ErrInvalidDuration, got %v", err)
		}
	})

	t.Run("returns error for bad origin", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(write(t, "sites:\n  a.org:\n    origin: a.org\n"))
		if !errors.Is(err, ErrInvalidOrigin) {
			t.Errorf("expected ErrInvalidOrigin, got %v", err)
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()
		cf, err := LoadConfigFile(write(t, "defaults:\n  timeout: 5s\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("expected data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}
