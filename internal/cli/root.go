package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/commands"
	"github.com/homeserv-dev/homeserv/internal/config"
	"github.com/homeserv-dev/homeserv/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree. Every command sharing rt shares one
// session store, API client and router.
func NewRootCmd(rt *commands.Runtime) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "homeserv",
		Short: "homeserv - household services marketplace client",
		Long: `homeserv CLI - Book household services, manage the requests you work on,
and administer the marketplace from your terminal.

Every command renders one route of the web client and is subject to the same
access rules: sign in for protected routes, and each role sees its own
dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				format := "console"
				if rt.Env != nil {
					format = rt.Env.Logging.Format
				}
				logger.Init(logLevel, format)
				rt.Logger = logger.GetLogger()
			}

			return rt.EnforceRoute(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&rt.ServerAlias, "server", "", "Server alias from homeserv.json (uses the selected server if not specified)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "homeserv version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewLoginCmd(rt))
	rootCmd.AddCommand(commands.NewLogoutCmd(rt))
	rootCmd.AddCommand(commands.NewRegisterCmd(rt))
	rootCmd.AddCommand(commands.NewRegisterProfessionalCmd(rt))
	rootCmd.AddCommand(commands.NewWhoamiCmd(rt))
	rootCmd.AddCommand(commands.NewPasswordCmd(rt))
	rootCmd.AddCommand(commands.NewOpenCmd(rt))
	rootCmd.AddCommand(commands.NewRoutesCmd(rt))
	rootCmd.AddCommand(commands.NewDashCmd(rt))
	rootCmd.AddCommand(commands.NewServicesCmd(rt))
	rootCmd.AddCommand(commands.NewRequestsCmd(rt))
	rootCmd.AddCommand(commands.NewReviewsCmd(rt))
	rootCmd.AddCommand(commands.NewAdminCmd(rt))
	rootCmd.AddCommand(commands.NewProfessionalCmd(rt))
	rootCmd.AddCommand(commands.NewCustomerCmd(rt))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	rt := &commands.Runtime{
		Env:           cfg,
		Logger:        logger.GetLogger(),
		RememberRoute: true,
	}
	defer func() {
		if err := rt.Close(); err != nil {
			rt.Logger.Warn().Err(err).Msg("Failed to close session storage")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(rt).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, client.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run 'homeserv login' to sign in again.")
		}
		return err
	}
	return nil
}
