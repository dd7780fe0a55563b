package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

var allRoles = []session.Role{session.RoleCustomer, session.RoleProfessional, session.RoleAdmin}

func sessionFor(role session.Role) *session.Session {
	return &session.Session{AccessToken: "T", Role: role}
}

func TestGuard_PublicRoutesAlwaysAllowedWithoutSession(t *testing.T) {
	for _, r := range Routes() {
		if r.RequiresAuth {
			continue
		}
		assert.True(t, Guard(r, nil).Allow, "route %s", r.Path)
	}
}

func TestGuard_PublicNonAuthPagesAllowedForEveryRole(t *testing.T) {
	for _, r := range Routes() {
		if r.RequiresAuth || authPages[r.Path] {
			continue
		}
		for _, role := range allRoles {
			assert.True(t, Guard(r, sessionFor(role)).Allow, "route %s role %s", r.Path, role)
		}
	}
}

func TestGuard_ProtectedRoutesRedirectToLoginWithoutSession(t *testing.T) {
	for _, r := range Routes() {
		if !r.RequiresAuth {
			continue
		}
		assert.Equal(t, Decision{RedirectTo: PathLogin}, Guard(r, nil), "route %s", r.Path)
	}
}

func TestGuard_RoleMismatchRedirectsToOwnHome(t *testing.T) {
	for _, r := range Routes() {
		if r.Role == "" {
			continue
		}
		for _, role := range allRoles {
			d := Guard(r, sessionFor(role))
			if role == r.Role {
				assert.True(t, d.Allow, "route %s role %s", r.Path, role)
				continue
			}
			assert.Equal(t, HomePath(role, ""), d.RedirectTo, "route %s role %s", r.Path, role)
			assert.NotEqual(t, PathLogin, d.RedirectTo)
		}
	}
}

func TestGuard_SignedInUsersNeverSeeAuthPages(t *testing.T) {
	for path := range authPages {
		r, _ := New(Routes(), nil, zeroLogger()).Lookup(path)
		for _, role := range allRoles {
			d := Guard(r, sessionFor(role))
			assert.False(t, d.Allow, "path %s role %s", path, role)
			assert.Equal(t, HomePath(role, PathHome), d.RedirectTo)
		}
	}
}

func TestGuard_UnknownRole(t *testing.T) {
	admin := Route{Path: PathAdmin, RequiresAuth: true, Role: session.RoleAdmin}
	login := Route{Path: PathLogin}
	search := Route{Path: PathSearch, RequiresAuth: true}
	guest := sessionFor("guest")

	assert.Equal(t, PathLogin, Guard(admin, guest).RedirectTo)
	assert.Equal(t, PathHome, Guard(login, guest).RedirectTo)
	assert.True(t, Guard(search, guest).Allow)
}

func TestGuard_RuleOrder(t *testing.T) {
	// An auth page that also demanded a role must hit rule 2 before rule 3
	odd := Route{Path: PathLogin, RequiresAuth: true, Role: session.RoleAdmin}

	assert.Equal(t, PathLogin, Guard(odd, nil).RedirectTo)
	assert.Equal(t, PathProfessional, Guard(odd, sessionFor(session.RoleProfessional)).RedirectTo)
	assert.Equal(t, PathAdmin, Guard(odd, sessionFor(session.RoleAdmin)).RedirectTo)
}

func TestGuard_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		current *session.Session
		want    Decision
	}{
		{"customer opens own profile", "/customer/profile", sessionFor(session.RoleCustomer), Decision{Allow: true}},
		{"anonymous opens admin", "/admin", nil, Decision{RedirectTo: "/login"}},
		{"professional opens admin services", "/admin/services", sessionFor(session.RoleProfessional), Decision{RedirectTo: "/professional"}},
		{"admin opens login", "/login", sessionFor(session.RoleAdmin), Decision{RedirectTo: "/admin"}},
		{"customer opens professional registration", "/register-professional", sessionFor(session.RoleCustomer), Decision{RedirectTo: "/customer"}},
		{"anonymous opens search", "/search", nil, Decision{RedirectTo: "/login"}},
		{"professional opens search", "/search", sessionFor(session.RoleProfessional), Decision{Allow: true}},
	}

	r := New(Routes(), nil, zeroLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, ok := r.Lookup(tt.path)
			assert.True(t, ok)
			assert.Equal(t, tt.want, Guard(route, tt.current))
		})
	}
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, "/admin", HomePath(session.RoleAdmin, "/login"))
	assert.Equal(t, "/professional", HomePath(session.RoleProfessional, "/login"))
	assert.Equal(t, "/customer", HomePath(session.RoleCustomer, "/login"))
	assert.Equal(t, "/login", HomePath("", "/login"))
	assert.Equal(t, "/", HomePath("janitor", "/"))
}
