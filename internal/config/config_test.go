package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// validConfig returns a Config that passes validation.
func validConfig() *Config {
	cfg := NewConfig()
	cfg.Endpoint = "https://api.example.net"
	cfg.Operators = []string{"1234"}
	cfg.KPIs = []string{"requests"}
	return cfg
}

// TestNewConfigDefaults tests the constructor defaults.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("sets default timeout", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("got %v, expected %v", cfg.Timeout, DefaultTimeout)
		}
	})

	t.Run("sets default granularity", func(t *testing.T) {
		t.Parallel()
		if cfg.GranularitySeconds != DefaultGranularitySeconds {
			t.Errorf("got %d, expected %d", cfg.GranularitySeconds, DefaultGranularitySeconds)
		}
	})

	t.Run("defaults to the most recent day", func(t *testing.T) {
		t.Parallel()
		if got := cfg.End.Sub(cfg.Start); got != DefaultWindow {
			t.Errorf("got window %v, expected %v", got, DefaultWindow)
		}
	})

	t.Run("saves history by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveHistory {
			t.Error("expected SaveHistory to default to true")
		}
		if cfg.DBDir == "" {
			t.Error("expected DBDir to be set")
		}
	})
}

// TestConfigValidate tests validation rules and their sentinel errors.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }, ErrNoEndpoint},
		{"missing operators", func(c *Config) { c.Operators = nil }, ErrNoOperator},
		{"missing kpis", func(c *Config) { c.KPIs = nil }, ErrNoKPIs},
		{"end before start", func(c *Config) { c.End = c.Start.Add(-time.Hour) }, ErrInvalidTimeRange},
		{"end equals start", func(c *Config) { c.End = c.Start }, ErrInvalidTimeRange},
		{"zero granularity", func(c *Config) { c.GranularitySeconds = 0 }, ErrInvalidGranularity},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"json and markdown together", func(c *Config) { c.JSONOutput, c.MarkdownOutput = true, true }, ErrConflictingOutputFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML loading and the not-found path.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads endpoint and operator defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `endpoint: https://api.example.net
defaults:
  kpis: [requests, bytes]
  granularitySeconds: 300
operators:
  "1234":
    groupId: g-7
    kpis: [requests]
    ungroupedDimensions: [network]
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Endpoint != "https://api.example.net" {
			t.Errorf("got endpoint %q", cf.Endpoint)
		}

		od := cf.GetOperatorDefaults("1234")
		if od.GroupID != "g-7" {
			t.Errorf("got groupId %q, expected g-7", od.GroupID)
		}
		// Operator-specific KPI list replaces the default list.
		if !reflect.DeepEqual(od.KPIs, []string{"requests"}) {
			t.Errorf("got kpis %v, expected [requests]", od.KPIs)
		}
		// Unset fields inherit the file defaults.
		if od.GranularitySeconds != 300 {
			t.Errorf("got granularity %d, expected 300", od.GranularitySeconds)
		}
	})

	t.Run("unknown operator gets file defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: OperatorDefaults{KPIs: []string{"requests"}},
		}
		od := cf.GetOperatorDefaults("9999")
		if !reflect.DeepEqual(od.KPIs, []string{"requests"}) {
			t.Errorf("got kpis %v, expected [requests]", od.KPIs)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("endpoint: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: chdir affects the whole process.

	t.Run("explicit existing path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("endpoint: x"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/config.yaml"); got != "" {
			t.Errorf("got %q, expected empty", got)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("endpoint: x"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Chdir(dir)

		got := FindConfigFile("")
		// Resolve symlinks: t.TempDir may sit behind one on some systems.
		if got == "" {
			t.Fatal("expected config file to be found")
		}
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("got %q, expected a %s path", got, DefaultConfigFile)
		}
	})
}

// TestLoadEnv tests NETREPORT_* environment overrides.
func TestLoadEnv(t *testing.T) {
	// Not parallel: setenv affects the whole process.

	t.Setenv("NETREPORT_ENDPOINT", "https://env.example.net")
	t.Setenv("NETREPORT_TIMEOUT", "90s")
	t.Setenv("NETREPORT_DB_DIR", "/tmp/netreport-test")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Endpoint != "https://env.example.net" {
		t.Errorf("got endpoint %q", env.Endpoint)
	}
	if env.Timeout != 90*time.Second {
		t.Errorf("got timeout %v, expected 90s", env.Timeout)
	}
	if env.DBDir != "/tmp/netreport-test" {
		t.Errorf("got db dir %q", env.DBDir)
	}
}

// TestLoadEnvEmptyTimeout tests that a variable exported empty counts as
// unset rather than failing duration parsing.
func TestLoadEnvEmptyTimeout(t *testing.T) {
	// Not parallel: setenv affects the whole process.

	t.Setenv("NETREPORT_TIMEOUT", "")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Timeout != 0 {
		t.Errorf("got timeout %v, expected zero for empty variable", env.Timeout)
	}
}

// TestLoadEnvInvalidTimeout tests that a malformed duration still fails.
func TestLoadEnvInvalidTimeout(t *testing.T) {
	// Not parallel: setenv affects the whole process.

	t.Setenv("NETREPORT_TIMEOUT", "ninety seconds")

	if _, err := LoadEnv(); err == nil {
		t.Error("expected error for malformed NETREPORT_TIMEOUT")
	}
}
