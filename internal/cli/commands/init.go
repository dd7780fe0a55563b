package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/config"
)

type initOptions struct {
	yaml bool
	out  io.Writer
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Add a homeserv API server to the project config",
		Long: `Add a homeserv API server to ./homeserv.json (or ./homeserv.yaml).

Examples:
  $ homeserv init http://localhost:5000/api/
  $ homeserv init https://api.example.com/api/ --yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = cmd.OutOrStdout()
			return runInitWithOptions(args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.yaml, "yaml", false, "Write homeserv.yaml instead of homeserv.json")

	return cmd
}

func runInitWithOptions(args []string, opts *initOptions) error {
	apiURL := args[0]
	if err := config.ValidateURL(apiURL); err != nil {
		return err
	}

	out := opts.out
	if out == nil {
		out = os.Stdout
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath, err := existingConfigPath(currentDir)
	if err != nil {
		return err
	}

	var cfg *config.Config
	isNewConfig := configPath == ""

	if isNewConfig {
		name := config.ConfigFileName
		if opts.yaml {
			name = config.YAMLConfigFileName
		}
		configPath = filepath.Join(currentDir, name)
		cfg = &config.Config{Servers: []config.Server{}}
	} else {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(out, "Found existing %s\n", filepath.Base(configPath))
	}

	server, added := cfg.AddServer(apiURL)
	if !added {
		fmt.Fprintf(out, "Server %s already exists in %s as '%s'\n", apiURL, filepath.Base(configPath), server.Alias)
		return nil
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(out, "✓ Created ./%s with server %s (%s)\n", filepath.Base(configPath), server.URL, server.Alias)
	} else {
		fmt.Fprintf(out, "✓ Added server %s (%s) to ./%s\n", server.URL, server.Alias, filepath.Base(configPath))
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run 'homeserv register' to create an account")
	fmt.Fprintln(out, "  2. Run 'homeserv login' to sign in")

	return nil
}

// existingConfigPath returns the project file in dir, or "" if there is none
func existingConfigPath(dir string) (string, error) {
	for _, name := range []string{config.ConfigFileName, config.YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check %s: %w", name, err)
		}
	}
	return "", nil
}
