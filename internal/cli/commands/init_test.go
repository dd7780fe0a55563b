package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/homeserv-dev/homeserv/internal/cli/config"
)

// TestInitCommand_NewConfig tests creating a brand new config file
func TestInitCommand_NewConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	var out bytes.Buffer
	err := runInitWithOptions([]string{"http://localhost:5000/api/"}, &initOptions{out: &out})
	if err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	configPath := filepath.Join(tempDir, "homeserv.json")
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("failed to load created config: %v", err)
	}

	if len(cfg.Servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(cfg.Servers))
	}
	if cfg.Servers[0].URL != "http://localhost:5000/api/" {
		t.Errorf("expected URL 'http://localhost:5000/api/', got '%s'", cfg.Servers[0].URL)
	}
	if cfg.Servers[0].Alias != "server-1" {
		t.Errorf("expected alias 'server-1', got '%s'", cfg.Servers[0].Alias)
	}
	if !strings.Contains(out.String(), "Created ./homeserv.json") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

// TestInitCommand_YAML tests that --yaml writes homeserv.yaml
func TestInitCommand_YAML(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	err := runInitWithOptions([]string{"https://api.example.com/api/"}, &initOptions{yaml: true, out: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "homeserv.yaml")); err != nil {
		t.Fatalf("homeserv.yaml was not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "homeserv.json")); !os.IsNotExist(err) {
		t.Error("homeserv.json should not have been created")
	}
}

// TestInitCommand_AddSecondServer tests adding a second server to existing config
func TestInitCommand_AddSecondServer(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	configPath := filepath.Join(tempDir, "homeserv.yaml")
	initial := &config.Config{Servers: []config.Server{{URL: "http://localhost:5000/api/", Alias: "local"}}}
	if err := config.Save(configPath, initial); err != nil {
		t.Fatalf("failed to save initial config: %v", err)
	}

	err := runInitWithOptions([]string{"https://api.example.com/api/"}, &initOptions{out: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Servers[1].Alias != "server-2" {
		t.Errorf("expected alias 'server-2', got '%s'", cfg.Servers[1].Alias)
	}
}

// TestInitCommand_DuplicateServer tests that re-adding a server is a no-op
func TestInitCommand_DuplicateServer(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	for i := 0; i < 2; i++ {
		if err := runInitWithOptions([]string{"http://localhost:5000/api/"}, &initOptions{out: &bytes.Buffer{}}); err != nil {
			t.Fatalf("init command failed: %v", err)
		}
	}

	cfg, err := config.Load(filepath.Join(tempDir, "homeserv.json"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Servers) != 1 {
		t.Errorf("expected 1 server, got %d", len(cfg.Servers))
	}
}

// TestInitCommand_InvalidURL tests that bare hosts are rejected
func TestInitCommand_InvalidURL(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := runInitWithOptions([]string{"192.168.1.100"}, &initOptions{out: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}

// TestSelectServer_ByAlias tests selecting a server without the prompt
func TestSelectServer_ByAlias(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	cfg := &config.Config{Servers: []config.Server{
		{URL: "http://localhost:5000/api/", Alias: "local"},
		{URL: "https://api.example.com/api/", Alias: "production"},
	}}
	if err := config.Save(filepath.Join(tempDir, "homeserv.json"), cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	server, err := runSelectServer("production")
	if err != nil {
		t.Fatalf("select-server failed: %v", err)
	}
	if server.URL != "https://api.example.com/api/" {
		t.Errorf("unexpected server %+v", server)
	}

	if _, err := runSelectServer("staging"); err == nil {
		t.Error("expected error for unknown alias")
	}
}
