package router

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

func zeroLogger() zerolog.Logger { return zerolog.Nop() }

// fakeSessions is a mutable SessionSource
type fakeSessions struct {
	current *session.Session
}

func (f *fakeSessions) Current() *session.Session { return f.current }

func TestRoutes_TableIsValid(t *testing.T) {
	require.NoError(t, Validate(Routes()))

	for _, r := range Routes() {
		if r.Role != "" {
			assert.True(t, r.RequiresAuth, "route %s", r.Path)
		}
	}

	// Every role home must exist so mismatch redirects land somewhere real
	for _, role := range allRoles {
		_, ok := New(Routes(), nil, zeroLogger()).Lookup(HomePath(role, ""))
		assert.True(t, ok, "home for %s", role)
	}
}

func TestValidate_RejectsBadTables(t *testing.T) {
	assert.Error(t, Validate([]Route{{Path: "/x", Role: session.RoleAdmin}}))
	assert.Error(t, Validate([]Route{{Path: "/x"}, {Path: "/x"}}))
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	rs := Routes()
	rs[0].Path = "/mutated"
	assert.Equal(t, PathHome, Routes()[0].Path)
}

func TestNew_PanicsOnInvalidTable(t *testing.T) {
	assert.Panics(t, func() {
		New([]Route{{Path: "/x", Role: session.RoleAdmin}}, &fakeSessions{}, zeroLogger())
	})
}

func TestNavigate_FollowsRedirects(t *testing.T) {
	tests := []struct {
		name    string
		current *session.Session
		path    string
		want    string
	}{
		{"anonymous to admin lands on login", nil, "/admin", "/login"},
		{"professional to admin services lands on dashboard", sessionFor(session.RoleProfessional), "/admin/services", "/professional"},
		{"admin to login lands on admin", sessionFor(session.RoleAdmin), "/login", "/admin"},
		{"customer to professional lands on customer", sessionFor(session.RoleCustomer), "/professional/profile", "/customer"},
		{"customer to own profile", sessionFor(session.RoleCustomer), "/customer/profile", "/customer/profile"},
		{"unknown path goes home", nil, "/no/such/page", "/"},
		{"unknown role to admin ends at home", sessionFor("guest"), "/admin", "/"},
		{"query and trailing slash ignored", sessionFor(session.RoleAdmin), "/admin/services/?page=2", "/admin/services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Routes(), &fakeSessions{current: tt.current}, zeroLogger())

			route, err := r.Navigate(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, route.Path)
			assert.Equal(t, tt.want, r.Current())
		})
	}
}

func TestNavigate_ReadsSessionEveryTime(t *testing.T) {
	sessions := &fakeSessions{}
	r := New(Routes(), sessions, zeroLogger())

	route, err := r.Navigate("/customer/profile")
	require.NoError(t, err)
	assert.Equal(t, PathLogin, route.Path)

	sessions.current = sessionFor(session.RoleCustomer)
	route, err = r.Navigate("/customer/profile")
	require.NoError(t, err)
	assert.Equal(t, "/customer/profile", route.Path)
}

func TestNavigate_NotifiesListeners(t *testing.T) {
	r := New(Routes(), &fakeSessions{}, zeroLogger())

	var navs []Navigation
	r.OnNavigate(func(n Navigation) { navs = append(navs, n) })

	_, err := r.Navigate("/search")
	require.NoError(t, err)
	_, err = r.Navigate("/register")
	require.NoError(t, err)

	require.Len(t, navs, 2)
	assert.Equal(t, Navigation{From: "/", Requested: "/search", To: mustLookup(t, r, PathLogin), Redirected: true}, navs[0])
	assert.Equal(t, Navigation{From: "/login", Requested: "/register", To: mustLookup(t, r, PathRegister)}, navs[1])
}

func TestNavigate_RedirectLoop(t *testing.T) {
	// A self-referencing table: "/" requires a role nobody has
	routes := []Route{
		{Path: PathHome, RequiresAuth: true, Role: session.RoleAdmin},
		{Path: PathLogin, RequiresAuth: true, Role: session.RoleAdmin},
	}
	r := New(routes, &fakeSessions{current: sessionFor("guest")}, zeroLogger())

	_, err := r.Navigate("/")
	assert.ErrorIs(t, err, ErrRedirectLoop)
	assert.Equal(t, PathHome, r.Current(), "failed navigation leaves location unchanged")
}

func TestCheck(t *testing.T) {
	r := New(Routes(), &fakeSessions{current: sessionFor(session.RoleProfessional)}, zeroLogger())

	route, d := r.Check("/admin/customers")
	assert.Equal(t, "admin-customers", route.Name)
	assert.Equal(t, Decision{RedirectTo: PathProfessional}, d)
	assert.Equal(t, PathHome, r.Current(), "check does not navigate")
}

func TestSetCurrent(t *testing.T) {
	r := New(Routes(), &fakeSessions{}, zeroLogger())
	r.SetCurrent("admin/reports/")
	assert.Equal(t, "/admin/reports", r.Current())
}

func mustLookup(t *testing.T, r *Router, path string) Route {
	t.Helper()
	route, ok := r.Lookup(path)
	require.True(t, ok)
	return route
}
