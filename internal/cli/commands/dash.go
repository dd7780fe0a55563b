package commands

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/router"
)

// openBrowser is swapped in tests
var openBrowser = func(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// NewOpenCmd creates the open command
func NewOpenCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a route, applying access rules",
		Long: `Navigate to a route such as /customer/profile.

Access rules are applied exactly as the web client applies them: routes that
need a session send you to /login, routes for another role send you to your
own dashboard, and signed-in users are sent away from the login pages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			route, err := a.Router.Navigate(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if route.Path != router.Normalize(args[0]) {
				fmt.Fprintf(out, "%s → %s\n", args[0], route.Path)
			} else {
				fmt.Fprintln(out, route.Path)
			}
			fmt.Fprintf(out, "  %s: run 'homeserv %s'\n", route.Name, route.View)
			return nil
		},
	}
}

// NewRoutesCmd creates the routes command
func NewRoutesCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List routes and whether you can open them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout(), "PATH", "NAME", "ACCESS", "COMMAND")
			for _, r := range router.Routes() {
				_, decision := a.Router.Check(r.Path)
				access := "open"
				if !decision.Allow {
					access = "→ " + decision.RedirectTo
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, r.Name, access, "homeserv "+r.View)
			}
			return w.Flush()
		},
	}
}

// NewDashCmd creates the dash command
func NewDashCmd(rt *Runtime) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open your dashboard in the web client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			home := router.PathLogin
			if user := a.State.User(); user != nil {
				home = router.HomePath(user.Role, router.PathHome)
			}
			route, err := a.Router.Navigate(home)
			if err != nil {
				return err
			}

			dashboardURL, err := webURL(a.API.BaseURL(), route.Path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "URL: %s\n", dashboardURL)
			if printOnly {
				return nil
			}

			if err := openBrowser(dashboardURL); err != nil {
				return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, dashboardURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the URL instead of opening a browser")

	return cmd
}

// webURL maps an API base such as http://host:5000/api/ to the web client
// route on the same origin
func webURL(apiBase, path string) (string, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "", fmt.Errorf("invalid api url %s: %w", apiBase, err)
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/api") + path
	u.RawQuery = ""
	return u.String(), nil
}
