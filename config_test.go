package brainsurgeon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.AutoRefreshMS != DefaultAutoRefreshMS {
		t.Errorf("AutoRefreshMS = %d", cfg.AutoRefreshMS)
	}
	if cfg.GatewayBinary != "openclaw" {
		t.Errorf("GatewayBinary = %q", cfg.GatewayBinary)
	}
	if cfg.Root == "" || cfg.Root[0] == '~' {
		t.Errorf("Root should be expanded, got %q", cfg.Root)
	}
	if cfg.ReadOnly || len(cfg.APIKeys) != 0 {
		t.Errorf("auth should be open by default: %+v", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
root: /var/lib/openclaw
listen_addr: ":9000"
readonly: true
api_keys:
  - key-one
  - key-two
auto_refresh_ms: 5000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Root != "/var/lib/openclaw" || cfg.ListenAddr != ":9000" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.ReadOnly || len(cfg.APIKeys) != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AutoRefreshMS != 5000 {
		t.Errorf("AutoRefreshMS = %d", cfg.AutoRefreshMS)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  bad yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid yaml should fail")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OPENCLAW_ROOT", "/srv/openclaw")
	t.Setenv("BRAINSURGEON_API_KEYS", "alpha, beta,,")
	t.Setenv("BRAINSURGEON_READONLY", "TRUE")
	t.Setenv("BRAINSURGEON_CORS_ORIGINS", "https://ops.example.com")
	t.Setenv("BRAINSURGEON_AUTO_REFRESH_MS", "2500")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Root != "/srv/openclaw" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if len(cfg.APIKeys) != 2 || cfg.APIKeys[0] != "alpha" || cfg.APIKeys[1] != "beta" {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if !cfg.ReadOnly {
		t.Error("ReadOnly should parse case-insensitively")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://ops.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.AutoRefreshMS != 2500 {
		t.Errorf("AutoRefreshMS = %d", cfg.AutoRefreshMS)
	}
}
