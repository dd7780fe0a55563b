package commands

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/homeserv-dev/homeserv/internal/cli/auth"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
)

// readPassword prompts on the terminal without echo; swapped in tests
var readPassword = func(out io.Writer, prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or HOMESERV_PASSWORD env var)")
	}

	fmt.Fprint(out, prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// NewLoginCmd creates the login command
func NewLoginCmd(rt *Runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to homeserv",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, rt, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set HOMESERV_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set HOMESERV_PASSWORD, will prompt if not provided)")

	return withRoute(cmd, router.PathLogin)
}

func runLogin(cmd *cobra.Command, rt *Runtime, email, password string) error {
	out := cmd.OutOrStdout()

	// Environment variables are useful for CI
	if email == "" {
		email = os.Getenv("HOMESERV_EMAIL")
	}
	if password == "" {
		password = os.Getenv("HOMESERV_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or HOMESERV_EMAIL env var)")
	}

	a, err := rt.App()
	if err != nil {
		return err
	}

	if password == "" {
		password, err = readPassword(out, "Password: ")
		if err != nil {
			return err
		}
	}

	if server := rt.Server(); server != nil {
		fmt.Fprintf(out, "Signing in to %s (%s)...\n", server.Alias, server.URL)
	}

	user, err := a.State.Login(cmd.Context(), auth.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s\n", user.DisplayName())
	fmt.Fprintf(out, "  Role: %s\n", user.Role)

	route, err := a.Router.Navigate(router.HomePath(user.Role, router.PathHome))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Dashboard: %s (run 'homeserv %s')\n", route.Path, route.View)

	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			wasSignedIn := a.State.IsAuthenticated()
			if err := a.State.Logout(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			if _, err := a.Router.Navigate(router.PathLogin); err != nil {
				return err
			}

			if wasSignedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			}
			return nil
		},
	}
}
