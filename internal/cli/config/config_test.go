package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `{"servers": [{"url": "http://localhost:5000/api/", "alias": "local"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(cfg.Servers))
	}
	if cfg.Servers[0].URL != "http://localhost:5000/api/" {
		t.Errorf("unexpected url %q", cfg.Servers[0].URL)
	}
	if cfg.Servers[0].Alias != "local" {
		t.Errorf("unexpected alias %q", cfg.Servers[0].Alias)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, YAMLConfigFileName)
	content := `servers:
  - url: https://api.homeserv.example/api/
    alias: production
  - url: http://localhost:5000/api/
    alias: local
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Servers[1].Alias != "local" {
		t.Errorf("unexpected alias %q", cfg.Servers[1].Alias)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", ConfigFileName, `{"servers": [`},
		{"missing scheme", ConfigFileName, `{"servers": [{"url": "localhost:5000", "alias": "a"}]}`},
		{"ftp scheme", ConfigFileName, `{"servers": [{"url": "ftp://example.com", "alias": "a"}]}`},
		{"duplicate alias", YAMLConfigFileName, "servers:\n  - url: http://a\n    alias: x\n  - url: http://b\n    alias: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSave_RoundTripBothFormats(t *testing.T) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := &Config{Servers: []Server{{URL: "http://localhost:5000/api/", Alias: "local"}}}

			if err := Save(path, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got.Servers) != 1 || got.Servers[0] != want.Servers[0] {
				t.Errorf("round trip mismatch: %+v", got.Servers)
			}
		})
	}
}

func TestFindConfigFile_SearchesParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	if err := Save(filepath.Join(root, YAMLConfigFileName), &Config{}); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	t.Chdir(nested)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if filepath.Base(path) != YAMLConfigFileName {
		t.Errorf("expected %s, got %s", YAMLConfigFileName, path)
	}
}

func TestFindConfigFile_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := FindConfigFile()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddServer(t *testing.T) {
	cfg := &Config{}

	server, added := cfg.AddServer("http://localhost:5000/api/")
	if !added || server.Alias != "server-1" {
		t.Errorf("expected server-1 to be added, got %+v added=%v", server, added)
	}

	server, added = cfg.AddServer("http://localhost:5000/api")
	if added {
		t.Error("expected duplicate url to be ignored")
	}
	if server.Alias != "server-1" {
		t.Errorf("expected existing entry, got %+v", server)
	}

	server, added = cfg.AddServer("https://api.example.com/api/")
	if !added || server.Alias != "server-2" {
		t.Errorf("expected server-2 to be added, got %+v added=%v", server, added)
	}
}

func TestGetServer(t *testing.T) {
	cfg := &Config{Servers: []Server{
		{URL: "http://a/api/", Alias: "a"},
		{URL: "http://b/api/", Alias: "b"},
	}}

	if s, err := cfg.GetServerByAlias("b"); err != nil || s.URL != "http://b/api/" {
		t.Errorf("GetServerByAlias: %+v, %v", s, err)
	}
	if _, err := cfg.GetServerByAlias("c"); err == nil {
		t.Error("expected error for unknown alias")
	}
	if s, err := cfg.GetServerByURL("http://a/api"); err != nil || s.Alias != "a" {
		t.Errorf("GetServerByURL: %+v, %v", s, err)
	}
	if s, err := cfg.GetDefaultServer(); err != nil || s.Alias != "a" {
		t.Errorf("GetDefaultServer: %+v, %v", s, err)
	}
	if _, err := (&Config{}).GetDefaultServer(); err == nil {
		t.Error("expected error for empty config")
	}
}
