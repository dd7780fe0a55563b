package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeserv-dev/homeserv/internal/cli/auth"
	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
	"github.com/homeserv-dev/homeserv/internal/cli/state"
	"github.com/homeserv-dev/homeserv/internal/testutil/fakeapi"
)

func newTestApp(t *testing.T, api *fakeapi.Server) *App {
	t.Helper()

	a, err := New(Options{
		APIURL:         api.APIURL(),
		SessionBackend: session.NewMemoryBackend(),
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_LoginThenNavigate(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser("cust@example.com", "secret1", "customer", "Cust")
	a := newTestApp(t, api)

	_, err := a.State.Login(context.Background(), auth.Credentials{Email: "cust@example.com", Password: "secret1"})
	require.NoError(t, err)

	route, err := a.Router.Navigate("/customer/profile")
	require.NoError(t, err)
	assert.Equal(t, "/customer/profile", route.Path)

	_, err = a.API.CustomerProfile(context.Background())
	require.NoError(t, err)
	assert.False(t, a.SessionExpired())
}

func TestApp_RevokedTokenSignsOut(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser("pro@example.com", "secret1", "professional", "Pro")
	a := newTestApp(t, api)

	_, err := a.State.Login(context.Background(), auth.Credentials{Email: "pro@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = a.Router.Navigate("/professional")
	require.NoError(t, err)

	var snaps []state.Snapshot
	a.State.Subscribe(func(s state.Snapshot) { snaps = append(snaps, s) })

	api.RevokeTokens()

	_, err = a.API.ProfessionalDashboardStats(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrSessionExpired))
	assert.Equal(t, 401, client.StatusCode(err))

	assert.True(t, a.SessionExpired())
	assert.Nil(t, a.Store.Current(), "session removed from storage")
	assert.False(t, a.State.IsAuthenticated())
	assert.Equal(t, router.PathLogin, a.Router.Current())
	require.NotEmpty(t, snaps)
	assert.False(t, snaps[len(snaps)-1].Authenticated)
}

func TestApp_ConcurrentExpiriesConverge(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser("admin@example.com", "secret1", "admin", "Admin")
	a := newTestApp(t, api)

	_, err := a.State.Login(context.Background(), auth.Credentials{Email: "admin@example.com", Password: "secret1"})
	require.NoError(t, err)
	api.RevokeTokens()

	var navs int
	var mu sync.Mutex
	a.Router.OnNavigate(func(router.Navigation) {
		mu.Lock()
		navs++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = a.API.AdminDashboardStats(context.Background())
		}()
	}
	wg.Wait()

	assert.Nil(t, a.Store.Current())
	assert.False(t, a.State.IsAuthenticated())
	assert.Equal(t, router.PathLogin, a.Router.Current())

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, navs, 1, "already on login after the first expiry")
}

func TestApp_ForbiddenDoesNotSignOut(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser("cust@example.com", "secret1", "customer", "Cust")
	a := newTestApp(t, api)

	_, err := a.State.Login(context.Background(), auth.Credentials{Email: "cust@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = a.API.AdminDashboardStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, 403, client.StatusCode(err))
	assert.False(t, errors.Is(err, client.ErrSessionExpired))
	assert.True(t, a.State.IsAuthenticated())
	assert.False(t, a.SessionExpired())
}

func TestApp_FailedLoginIsNotExpiry(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser("cust@example.com", "secret1", "customer", "Cust")
	a := newTestApp(t, api)

	_, err := a.State.Login(context.Background(), auth.Credentials{Email: "cust@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, 401, client.StatusCode(err))
	assert.False(t, a.SessionExpired())
	assert.Equal(t, router.PathHome, a.Router.Current())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Options{APIURL: "http://localhost/api/", Backend: "floppy", Logger: zerolog.Nop()})
	assert.Error(t, err)
}
