package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			user := a.State.User()
			if user == nil {
				fmt.Fprintln(out, "Not signed in")
				return nil
			}

			fmt.Fprintf(out, "User:      %s\n", user.DisplayName())
			if user.UserID != 0 {
				fmt.Fprintf(out, "User ID:   %d\n", user.UserID)
			}
			fmt.Fprintf(out, "Role:      %s\n", user.Role)
			fmt.Fprintf(out, "Dashboard: %s\n", router.HomePath(user.Role, router.PathHome))
			if server := rt.Server(); server != nil {
				fmt.Fprintf(out, "Server:    %s (%s)\n", server.Alias, server.URL)
			}

			printTokenExpiry(cmd, user)
			return nil
		},
	}
}

// printTokenExpiry is informational; the server decides whether a token is valid
func printTokenExpiry(cmd *cobra.Command, user *session.Session) {
	out := cmd.OutOrStdout()

	exp := user.ExpiresAt()
	if exp.IsZero() {
		return
	}

	remaining := time.Until(exp).Round(time.Second)
	if remaining <= 0 {
		fmt.Fprintf(out, "Token:     expired at %s\n", exp.Local().Format(time.RFC1123))
		return
	}
	fmt.Fprintf(out, "Token:     expires at %s (in %s)\n", exp.Local().Format(time.RFC1123), remaining)
}

// NewPasswordCmd creates the password command
func NewPasswordCmd(rt *Runtime) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}
			if !a.State.IsAuthenticated() {
				return errNoSession
			}

			out := cmd.OutOrStdout()
			if current == "" {
				if current, err = readPassword(out, "Current password: "); err != nil {
					return err
				}
			}
			if next == "" {
				if next, err = readPassword(out, "New password: "); err != nil {
					return err
				}
			}
			if len(next) < 6 {
				return fmt.Errorf("new password must be at least 6 characters")
			}

			msg, err := a.API.ChangePassword(cmd.Context(), client.PasswordChange{
				CurrentPassword: current,
				NewPassword:     next,
			})
			if err != nil {
				return err
			}

			printMessage(out, "Password changed", msg.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password (will prompt if not provided)")
	cmd.Flags().StringVar(&next, "new", "", "New password (will prompt if not provided)")

	return cmd
}
