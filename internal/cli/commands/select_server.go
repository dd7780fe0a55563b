package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/config"
	"github.com/homeserv-dev/homeserv/internal/cli/serverselect"
	"github.com/homeserv-dev/homeserv/internal/cli/userconfig"
)

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [url-or-alias]",
		Short: "Select the API server to use for commands",
		Long: `Select the API server to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ homeserv select-server                             # Interactive selection
  $ homeserv select-server http://localhost:5000/api/  # Select by URL
  $ homeserv select-server production                  # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}

			server, err := runSelectServer(urlOrAlias)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Selected server: %s (%s)\n", server.Alias, server.URL)
			return nil
		},
	}

	return cmd
}

func runSelectServer(urlOrAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'homeserv init <api-url>' to create a configuration file", err)
	}

	var server *config.Server
	if urlOrAlias != "" {
		server, err = serverselect.GetServerByURLOrAlias(cfg, urlOrAlias)
	} else {
		server, err = serverselect.PromptServerSelection(cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := userconfig.SetSelectedServer(server.URL); err != nil {
		return nil, fmt.Errorf("failed to save selected server: %w", err)
	}

	return server, nil
}
