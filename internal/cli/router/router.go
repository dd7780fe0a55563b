// Package router holds the client's route table and the guard that decides,
// before every navigation, whether the signed-in user may see a route.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

// maxRedirects bounds redirect chains; the built-in table needs at most two
const maxRedirects = 10

var (
	ErrRedirectLoop = errors.New("too many redirects")
	ErrAccessDenied = errors.New("access denied")
)

// SessionSource is read on every navigation
type SessionSource interface {
	Current() *session.Session
}

// Navigation describes a completed navigation
type Navigation struct {
	From       string
	Requested  string
	To         Route
	Redirected bool
}

// NavigateFunc observes completed navigations
type NavigateFunc func(Navigation)

// Router resolves paths against the route table and applies the guard
type Router struct {
	routes   map[string]Route
	sessions SessionSource
	log      zerolog.Logger

	mu        sync.Mutex
	current   string
	listeners []NavigateFunc
}

// New creates a router over routes. It panics if the table is invalid,
// since the table is static and fixed at build time.
func New(routes []Route, sessions SessionSource, log zerolog.Logger) *Router {
	if err := Validate(routes); err != nil {
		panic(err)
	}

	byPath := make(map[string]Route, len(routes))
	for _, r := range routes {
		byPath[r.Path] = r
	}

	return &Router{
		routes:   byPath,
		sessions: sessions,
		log:      log.With().Str("component", "router").Logger(),
		current:  PathHome,
	}
}

// Resolve finds the route for path. Unknown paths fall through to the
// catch-all, which redirects to home.
func (r *Router) Resolve(path string) (Route, bool) {
	route, ok := r.routes[Normalize(path)]
	if !ok {
		return r.routes[PathHome], false
	}
	return route, true
}

// Lookup returns the route registered at path
func (r *Router) Lookup(path string) (Route, bool) {
	route, ok := r.routes[Normalize(path)]
	return route, ok
}

// Check runs the guard for path against the current session without
// navigating. Unknown paths are checked as home.
func (r *Router) Check(path string) (Route, Decision) {
	route, _ := r.Resolve(path)
	return route, Guard(route, r.sessions.Current())
}

// Navigate moves to path, following guard redirects. Each redirect is a
// fresh navigation and is guarded again.
func (r *Router) Navigate(path string) (Route, error) {
	requested := Normalize(path)
	target := requested
	redirected := false

	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return Route{}, fmt.Errorf("%w: navigating to %s", ErrRedirectLoop, requested)
		}

		route, known := r.Resolve(target)
		if !known {
			r.log.Debug().Str("path", target).Msg("Unknown path, redirecting home")
			redirected = true
		}

		decision := Guard(route, r.sessions.Current())
		if decision.Allow {
			r.commit(Navigation{Requested: requested, To: route, Redirected: redirected})
			return route, nil
		}

		r.log.Debug().Str("from", route.Path).Str("to", decision.RedirectTo).Msg("Guard redirected navigation")
		target = decision.RedirectTo
		redirected = true
	}
}

// Current returns the path of the last completed navigation
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetCurrent restores a previously persisted location without guarding it
func (r *Router) SetCurrent(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Normalize(path)
}

// OnNavigate registers fn to observe completed navigations
func (r *Router) OnNavigate(fn NavigateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Router) commit(nav Navigation) {
	r.mu.Lock()
	nav.From = r.current
	r.current = nav.To.Path
	listeners := append([]NavigateFunc(nil), r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(nav)
	}
}

// Normalize strips query and fragment and trailing slashes from path
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
