package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName     = "homeserv.json"
	YAMLConfigFileName = "homeserv.yaml"
)

// ErrNotFound is returned when no project file exists in the working
// directory or any parent
var ErrNotFound = errors.New("project config not found")

// Server is a homeserv API endpoint
type Server struct {
	URL   string `json:"url" yaml:"url"`
	Alias string `json:"alias" yaml:"alias"`
}

// Config represents the project configuration file
type Config struct {
	Servers []Server `json:"servers" yaml:"servers"`
}

// FindConfigFile searches for homeserv.json or homeserv.yaml in the current
// directory and its parents. JSON wins when both exist in one directory.
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: %s in %s or any parent directory", ErrNotFound, ConfigFileName, currentDir)
}

// Load reads the configuration file. The format follows the file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every server has a usable http(s) URL and aliases are unique
func (c *Config) Validate() error {
	aliases := make(map[string]bool, len(c.Servers))
	for i, server := range c.Servers {
		if err := ValidateURL(server.URL); err != nil {
			return fmt.Errorf("server %d: %w", i+1, err)
		}
		if server.Alias == "" {
			continue
		}
		if aliases[server.Alias] {
			return fmt.Errorf("duplicate server alias '%s'", server.Alias)
		}
		aliases[server.Alias] = true
	}
	return nil
}

// ValidateURL reports whether raw is an absolute http or https URL
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url '%s': scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url '%s': missing host", raw)
	}
	return nil
}

// AddServer appends a server unless one with the same URL exists. It returns
// the stored entry and whether it was added.
func (c *Config) AddServer(rawURL string) (*Server, bool) {
	if server, err := c.GetServerByURL(rawURL); err == nil {
		return server, false
	}

	alias := fmt.Sprintf("server-%d", len(c.Servers)+1)
	c.Servers = append(c.Servers, Server{URL: rawURL, Alias: alias})
	return &c.Servers[len(c.Servers)-1], true
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetServerByURL returns a server by its URL, ignoring a trailing slash
func (c *Config) GetServerByURL(rawURL string) (*Server, error) {
	want := strings.TrimRight(rawURL, "/")
	for i := range c.Servers {
		if strings.TrimRight(c.Servers[i].URL, "/") == want {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with url '%s' not found", rawURL)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
