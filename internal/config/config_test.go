package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hureg", "config.json")

	want := &Config{
		Environment: EnvTest,
		Registrar:   "acme",
		RegistrarID: "1234",
		KeyID:       "ABCDEF0123456789",
		KeyStore:    "/home/acme/.gnupg",
		Timeout:     "45s",
		Proxy:       "proxy.local:3128",
		Nameserver:  "ns1.example.hu",
		CacheSize:   "128",
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{Registrar: "acme"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestSave_DefaultPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	SetPath(path)
	t.Cleanup(ResetPath)

	if err := (&Config{Registrar: "acme"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Registrar != "acme" {
		t.Errorf("Registrar = %q, want %q", got.Registrar, "acme")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := (&Config{Environment: EnvLive}).SaveTo(path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := (&Config{Environment: EnvTest}).SaveTo(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Environment != EnvTest {
		t.Errorf("expected Environment %q, got %q", EnvTest, got.Environment)
	}
}

func TestSave_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	err := (&Config{Environment: "staging"}).SaveTo(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "environment") {
		t.Errorf("expected error to name the json key, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no file to be written, stat err = %v", statErr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "live", cfg: Config{Environment: "live"}},
		{name: "bad environment", cfg: Config{Environment: "prod"}, wantErr: "environment"},
		{name: "url", cfg: Config{URL: "https://huregx.nic.hu:444/servlet/api"}},
		{name: "relative url", cfg: Config{URL: "servlet/api"}, wantErr: "url"},
		{name: "registrar id", cfg: Config{RegistrarID: "42"}},
		{name: "registrar id letters", cfg: Config{RegistrarID: "4x2"}, wantErr: "registrar_id"},
		{name: "timeout seconds", cfg: Config{Timeout: "10"}},
		{name: "timeout duration", cfg: Config{Timeout: "1m30s"}},
		{name: "timeout garbage", cfg: Config{Timeout: "soon"}, wantErr: "timeout"},
		{name: "timeout zero", cfg: Config{Timeout: "0"}, wantErr: "timeout"},
		{name: "nameserver", cfg: Config{Nameserver: "ns.example.hu"}},
		{name: "nameserver bare", cfg: Config{Nameserver: "not a host"}, wantErr: "nameserver"},
		{name: "cache size", cfg: Config{CacheSize: "-1"}, wantErr: "cache_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"20", 20 * time.Second},
		{"2m", 2 * time.Minute},
	}
	for _, tt := range tests {
		got, err := (&Config{Timeout: tt.raw}).RequestTimeout()
		if err != nil {
			t.Fatalf("RequestTimeout(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("RequestTimeout(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, err := (&Config{Timeout: "-5s"}).RequestTimeout(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestCacheCapacity(t *testing.T) {
	if got := (&Config{}).CacheCapacity(); got != 0 {
		t.Errorf("unset CacheCapacity = %d, want 0", got)
	}
	if got := (&Config{CacheSize: "64"}).CacheCapacity(); got != 64 {
		t.Errorf("CacheCapacity = %d, want 64", got)
	}
	if got := (&Config{CacheSize: "lots"}).CacheCapacity(); got != 0 {
		t.Errorf("invalid CacheCapacity = %d, want 0", got)
	}
}
