package commands

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/app"
	cliconfig "github.com/homeserv-dev/homeserv/internal/cli/config"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
	"github.com/homeserv-dev/homeserv/internal/cli/serverselect"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
	"github.com/homeserv-dev/homeserv/internal/cli/userconfig"
	"github.com/homeserv-dev/homeserv/internal/config"
)

// RouteAnnotation names the route(s) a command renders. Several paths are
// comma separated; the one matching the signed-in role is guarded.
const RouteAnnotation = "route"

// Runtime carries what every command shares within one process
type Runtime struct {
	Env         *config.Config
	ServerAlias string
	Logger      zerolog.Logger

	// SessionBackend replaces the configured backend when set
	SessionBackend session.Backend
	HTTPClient     *http.Client

	// RememberRoute persists the last navigated route to the user config
	RememberRoute bool

	app    *app.App
	server *cliconfig.Server
}

// App builds the application on first use, resolving which server to talk to
func (rt *Runtime) App() (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}

	if rt.Env == nil {
		env, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		rt.Env = env
	}

	server, err := serverselect.Resolve(rt.ServerAlias, rt.Env.API.URL, rt.Logger)
	if err != nil {
		return nil, err
	}
	if err := cliconfig.ValidateURL(server.URL); err != nil {
		return nil, fmt.Errorf("server %s: %w", server.Alias, err)
	}

	a, err := app.New(app.Options{
		APIURL:         server.URL,
		Backend:        rt.Env.Session.Backend,
		SessionDir:     rt.Env.Session.Dir,
		Timeout:        rt.Env.API.Timeout,
		HTTPClient:     rt.HTTPClient,
		Logger:         rt.Logger,
		SessionBackend: rt.SessionBackend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session storage: %w", err)
	}

	if rt.RememberRoute {
		if last, err := userconfig.GetLastRoute(); err == nil && last != "" {
			a.Router.SetCurrent(last)
		}
		a.Router.OnNavigate(func(nav router.Navigation) {
			if err := userconfig.SetLastRoute(nav.To.Path); err != nil {
				rt.Logger.Warn().Err(err).Msg("Failed to save last route")
			}
		})
	}

	rt.app = a
	rt.server = server
	return a, nil
}

// Server returns the resolved server, or nil before App has been called
func (rt *Runtime) Server() *cliconfig.Server {
	return rt.server
}

// Close releases the application, if one was built
func (rt *Runtime) Close() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

// EnforceRoute runs the navigation guard for the route cmd renders and
// records the navigation. Commands without a route are not guarded.
func (rt *Runtime) EnforceRoute(cmd *cobra.Command) error {
	paths := routePaths(cmd)
	if len(paths) == 0 {
		return nil
	}

	a, err := rt.App()
	if err != nil {
		return err
	}

	current := a.Store.Current()
	path := pickRoute(paths, current)

	route, decision := a.Router.Check(path)
	if !decision.Allow {
		return deniedError(route, decision, current)
	}

	_, err = a.Router.Navigate(path)
	return err
}

func routePaths(cmd *cobra.Command) []string {
	raw := cmd.Annotations[RouteAnnotation]
	if raw == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// pickRoute prefers the route under the signed-in role's home
func pickRoute(paths []string, current *session.Session) string {
	if current != nil {
		home := router.HomePath(current.Role, "")
		for _, p := range paths {
			if home != "" && (p == home || strings.HasPrefix(p, home+"/")) {
				return p
			}
		}
	}
	return paths[0]
}

func deniedError(route router.Route, decision router.Decision, current *session.Session) error {
	switch {
	case current == nil:
		return fmt.Errorf("%w: %s requires you to sign in\nRun 'homeserv login' first", router.ErrAccessDenied, route.Path)
	case isAuthPage(route.Path):
		return fmt.Errorf("%w: already signed in as %s\nRun 'homeserv logout' first", router.ErrAccessDenied, current.DisplayName())
	case decision.RedirectTo == router.PathLogin:
		return fmt.Errorf("%w: %s is not available to %s accounts", router.ErrAccessDenied, route.Path, current.Role)
	default:
		return fmt.Errorf("%w: %s is not available to %s accounts (your dashboard is %s)",
			router.ErrAccessDenied, route.Path, current.Role, decision.RedirectTo)
	}
}

func isAuthPage(path string) bool {
	return path == router.PathLogin || path == router.PathRegister || path == router.PathRegisterProfessional
}

// withRoute annotates cmd with the route(s) it renders
func withRoute(cmd *cobra.Command, paths ...string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[RouteAnnotation] = strings.Join(paths, ",")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id '%s': must be a positive integer", arg)
	}
	return id, nil
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	rules := make([]string, len(headers))
	for i, h := range headers {
		rules[i] = strings.Repeat("─", len([]rune(h)))
	}
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
	return tw
}

// printDocument prints a loosely-typed object as sorted key/value lines
func printDocument(w io.Writer, doc map[string]any) {
	if len(doc) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range slices.Sorted(maps.Keys(doc)) {
		fmt.Fprintf(tw, "%s:\t%v\n", k, formatValue(doc[k]))
	}
	tw.Flush()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		return fmt.Sprint(val)
	}
}

func printMessage(w io.Writer, fallback, message string) {
	if message == "" {
		message = fallback
	}
	fmt.Fprintf(w, "✓ %s\n", message)
}

// errNoSession is returned by commands that need a session but have no route
var errNoSession = errors.New("not signed in\nRun 'homeserv login' first")
