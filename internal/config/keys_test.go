package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("registrar-id")
	if spec == nil {
		t.Fatal("expected to find key 'registrar-id', got nil")
	}
	if spec.Name != "registrar-id" {
		t.Errorf("expected Name %q, got %q", "registrar-id", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("  KEY-ID ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "key-id" {
		t.Errorf("expected Name %q, got %q", "key-id", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_GetSetRoundtrip(t *testing.T) {
	for _, k := range Keys {
		cfg := &Config{}
		k.Set(cfg, "test-value")
		got := k.Get(cfg)
		if got != "test-value" {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, "test-value")
		}
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}

func TestKeys_CoverEveryField(t *testing.T) {
	cfg := &Config{}
	for _, k := range Keys {
		k.Set(cfg, k.Name)
	}
	want := &Config{
		Environment: "environment",
		URL:         "url",
		Registrar:   "registrar",
		RegistrarID: "registrar-id",
		KeyID:       "key-id",
		KeyStore:    "keystore",
		Timeout:     "timeout",
		Proxy:       "proxy",
		Nameserver:  "nameserver",
		CacheSize:   "cache-size",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("keys do not map one-to-one onto fields (-want +got):\n%s", diff)
	}
}
