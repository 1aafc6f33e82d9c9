package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvLineChannelAccessToken, "test_token")
	t.Setenv(EnvLineChannelSecret, "test_secret")
	t.Setenv(EnvDeveloperUserID, "U0000000000000000000000000000000")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check required fields
	if cfg.LineChannelToken != "test_token" {
		t.Errorf("Expected token 'test_token', got '%s'", cfg.LineChannelToken)
	}

	if cfg.LineChannelSecret != "test_secret" {
		t.Errorf("Expected secret 'test_secret', got '%s'", cfg.LineChannelSecret)
	}

	// Check defaults
	if cfg.Port != "10000" {
		t.Errorf("Expected default port '10000', got '%s'", cfg.Port)
	}

	if cfg.DeviceBackend != BackendSQLite {
		t.Errorf("Expected default backend '%s', got '%s'", BackendSQLite, cfg.DeviceBackend)
	}

	if cfg.ShutdownTimeout != GracefulShutdown {
		t.Errorf("Expected default shutdown timeout %v, got %v", GracefulShutdown, cfg.ShutdownTimeout)
	}

	if cfg.APITimeout != PlatformAPIRequest {
		t.Errorf("Expected default API timeout %v, got %v", PlatformAPIRequest, cfg.APITimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		unset       string
		errContains string
	}{
		{"missing channel token", EnvLineChannelAccessToken, EnvLineChannelAccessToken},
		{"missing channel secret", EnvLineChannelSecret, EnvLineChannelSecret},
		{"missing developer user ID", EnvDeveloperUserID, EnvDeveloperUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error to mention %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}

func TestLoadAPIBackend(t *testing.T) {
	t.Run("valid api backend", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(EnvDeviceBackend, BackendAPI)
		t.Setenv(EnvPlatformAPIURL, "https://platform.example.com")
		t.Setenv(EnvPlatformID, "equiptrack")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.PlatformAPIURL != "https://platform.example.com" {
			t.Errorf("unexpected platform API URL: %s", cfg.PlatformAPIURL)
		}
	})

	t.Run("api backend requires base URL", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(EnvDeviceBackend, BackendAPI)
		t.Setenv(EnvPlatformID, "equiptrack")
		t.Setenv(EnvPlatformAPIURL, "")

		if _, err := Load(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(EnvDeviceBackend, "postgres")

		if _, err := Load(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestLoadAdminUserIDs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvAdminUserIDs, "Uaaa, Ubbb ,,Uccc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"Uaaa", "Ubbb", "Uccc"}
	if len(cfg.AdminUserIDs) != len(want) {
		t.Fatalf("expected %d admin IDs, got %d", len(want), len(cfg.AdminUserIDs))
	}
	for i, id := range want {
		if cfg.AdminUserIDs[i] != id {
			t.Errorf("admin[%d]: expected %q, got %q", i, id, cfg.AdminUserIDs[i])
		}
	}
}

func TestLoadDurationOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvShutdownTimeout, "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	got := cfg.SQLitePath()
	if !strings.HasSuffix(got, "devices.db") {
		t.Errorf("expected path ending in devices.db, got %s", got)
	}
}
