package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

func TestWithRoute_RoutePaths(t *testing.T) {
	cmd := withRoute(&cobra.Command{Use: "x"}, "/customer/requests", "/admin/service-requests")
	assert.Equal(t, []string{"/customer/requests", "/admin/service-requests"}, routePaths(cmd))

	assert.Nil(t, routePaths(&cobra.Command{Use: "y"}))
}

func TestPickRoute(t *testing.T) {
	paths := []string{"/customer/requests", "/professional/service-requests", "/admin/service-requests"}

	tests := []struct {
		name    string
		current *session.Session
		want    string
	}{
		{"anonymous gets first", nil, "/customer/requests"},
		{"professional", &session.Session{Role: session.RoleProfessional}, "/professional/service-requests"},
		{"admin", &session.Session{Role: session.RoleAdmin}, "/admin/service-requests"},
		{"unknown role gets first", &session.Session{Role: "guest"}, "/customer/requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickRoute(paths, tt.current))
		})
	}
}

func TestDeniedError(t *testing.T) {
	adminRoute := router.Route{Path: "/admin", RequiresAuth: true, Role: session.RoleAdmin}
	loginRoute := router.Route{Path: "/login"}
	customer := &session.Session{Email: "c@example.com", Role: session.RoleCustomer}

	err := deniedError(adminRoute, router.Decision{RedirectTo: "/login"}, nil)
	assert.True(t, errors.Is(err, router.ErrAccessDenied))
	assert.Contains(t, err.Error(), "homeserv login")

	err = deniedError(adminRoute, router.Decision{RedirectTo: "/customer"}, customer)
	assert.Contains(t, err.Error(), "not available to customer accounts")
	assert.Contains(t, err.Error(), "/customer")

	err = deniedError(loginRoute, router.Decision{RedirectTo: "/customer"}, customer)
	assert.Contains(t, err.Error(), "already signed in as c@example.com")

	err = deniedError(adminRoute, router.Decision{RedirectTo: "/login"}, &session.Session{Role: "guest"})
	assert.NotContains(t, err.Error(), "dashboard")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseAssignments(t *testing.T) {
	doc, err := parseAssignments([]string{"is_approved=true", "pin=560001", "address=12 High St", "note="})
	require.NoError(t, err)

	assert.Equal(t, true, doc["is_approved"])
	assert.Equal(t, int64(560001), doc["pin"])
	assert.Equal(t, "12 High St", doc["address"])
	assert.Equal(t, "", doc["note"])

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}

func TestWebURL(t *testing.T) {
	tests := []struct {
		api, path, want string
	}{
		{"http://localhost:5000/api/", "/customer", "http://localhost:5000/customer"},
		{"https://homeserv.example/api", "/admin", "https://homeserv.example/admin"},
		{"https://homeserv.example/v2/api/", "/login", "https://homeserv.example/v2/login"},
	}

	for _, tt := range tests {
		got, err := webURL(tt.api, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrintDocument(t *testing.T) {
	var out bytes.Buffer
	printDocument(&out, map[string]any{"total": float64(3), "rating": 4.5, "name": "Pat", "pin": nil})

	got := out.String()
	assert.Contains(t, got, "name:")
	assert.Contains(t, got, "total:   3\n")
	assert.Contains(t, got, "4.50")
	assert.Contains(t, got, "pin:     -")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("name")), bytes.Index(out.Bytes(), []byte("total")), "keys are sorted")

	out.Reset()
	printDocument(&out, nil)
	assert.Equal(t, "(empty)\n", out.String())
}

func TestPrintServices(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printServices(&out, nil))
	assert.Contains(t, out.String(), "No services found.")

	out.Reset()
	require.NoError(t, printServices(&out, []client.Service{
		{ID: 1, Name: "Leak repair", ServiceType: "plumbing", Price: 500, TimeRequired: 60, HasProfessionals: true},
	}))
	assert.Contains(t, out.String(), "Leak repair")
	assert.Contains(t, out.String(), "500.00")
	assert.Contains(t, out.String(), "60 min")
}
