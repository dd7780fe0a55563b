// Package app wires the session store, API client, auth client, auth state
// and router into one object and reacts to server-side session expiry.
package app

import (
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/homeserv-dev/homeserv/internal/cli/auth"
	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
	"github.com/homeserv-dev/homeserv/internal/cli/state"
)

// Options configures New
type Options struct {
	APIURL     string
	Backend    string // session backend kind, see session.OpenBackend
	SessionDir string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger

	// SessionBackend overrides Backend/SessionDir when set
	SessionBackend session.Backend
}

// App owns the client-side components for one process
type App struct {
	Store  *session.Store
	API    *client.Client
	Auth   *auth.Client
	State  *state.AuthState
	Router *router.Router

	log         zerolog.Logger
	backend     session.Backend
	unsubscribe func()

	expiryMu sync.Mutex
	expired  atomic.Bool
}

// New builds an App. The session backend is opened here and released by Close.
func New(opts Options) (*App, error) {
	log := opts.Logger

	backend := opts.SessionBackend
	if backend == nil {
		var err error
		backend, err = session.OpenBackend(opts.Backend, opts.SessionDir, log)
		if err != nil {
			return nil, err
		}
	}

	store := session.NewStore(backend, log)

	clientOpts := []client.Option{client.WithLogger(log)}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(opts.Timeout))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(opts.HTTPClient))
	}
	api := client.New(opts.APIURL, store, clientOpts...)

	authClient := auth.NewClient(api, store, log)

	a := &App{
		Store:   store,
		API:     api,
		Auth:    authClient,
		State:   state.New(store, authClient),
		Router:  router.New(router.Routes(), store, log),
		log:     log.With().Str("component", "app").Logger(),
		backend: backend,
	}
	a.unsubscribe = api.OnSessionExpired(a.handleSessionExpired)

	return a, nil
}

// SessionExpired reports whether the server rejected the session during
// this process's lifetime
func (a *App) SessionExpired() bool {
	return a.expired.Load()
}

// handleSessionExpired clears the local session and sends the user to the
// login route. Repeated or concurrent expiries converge on the same result.
func (a *App) handleSessionExpired(apiErr *client.APIError) {
	a.expiryMu.Lock()
	defer a.expiryMu.Unlock()

	a.expired.Store(true)
	a.log.Warn().
		Str("method", apiErr.Method).
		Str("path", apiErr.Path).
		Str("request_id", apiErr.RequestID).
		Msg("Server rejected session, signing out")

	if a.State.IsAuthenticated() || a.Store.Token() != "" {
		if err := a.State.Logout(); err != nil {
			a.log.Error().Err(err).Msg("Failed to clear session")
		}
	}
	a.State.Refresh()

	if a.Router.Current() == router.PathLogin {
		return
	}
	if _, err := a.Router.Navigate(router.PathLogin); err != nil {
		a.log.Error().Err(err).Msg("Failed to navigate to login")
	}
}

// Close detaches listeners and releases the session backend
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if c, ok := a.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
