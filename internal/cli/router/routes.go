package router

import (
	"fmt"

	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

// Well-known paths
const (
	PathHome                 = "/"
	PathLogin                = "/login"
	PathRegister             = "/register"
	PathRegisterProfessional = "/register-professional"
	PathSearch               = "/search"
	PathCustomer             = "/customer"
	PathProfessional         = "/professional"
	PathAdmin                = "/admin"
)

// Route describes one screen of the client. View names the command or
// renderer that presents it; routing never depends on it.
type Route struct {
	Path         string
	Name         string
	View         string
	RequiresAuth bool
	Role         session.Role
}

var routeTable = []Route{
	{Path: PathHome, Name: "home", View: "services popular"},
	{Path: PathLogin, Name: "login", View: "login"},
	{Path: PathRegister, Name: "register", View: "register"},
	{Path: PathRegisterProfessional, Name: "register-professional", View: "register-professional"},
	{Path: PathSearch, Name: "search", View: "services search", RequiresAuth: true},

	{Path: PathCustomer, Name: "customer-dashboard", View: "customer stats", RequiresAuth: true, Role: session.RoleCustomer},
	{Path: "/customer/services", Name: "customer-services", View: "services ls", RequiresAuth: true, Role: session.RoleCustomer},
	{Path: "/customer/service-requests", Name: "customer-service-requests", View: "requests ls", RequiresAuth: true, Role: session.RoleCustomer},
	{Path: "/customer/requests", Name: "customer-requests", View: "requests ls", RequiresAuth: true, Role: session.RoleCustomer},
	{Path: "/customer/request-service", Name: "customer-request-service", View: "requests create", RequiresAuth: true, Role: session.RoleCustomer},
	{Path: "/customer/profile", Name: "customer-profile", View: "customer profile", RequiresAuth: true, Role: session.RoleCustomer},

	{Path: PathProfessional, Name: "professional-dashboard", View: "professional stats", RequiresAuth: true, Role: session.RoleProfessional},
	{Path: "/professional/service-requests", Name: "professional-service-requests", View: "professional requests", RequiresAuth: true, Role: session.RoleProfessional},
	{Path: "/professional/profile", Name: "professional-profile", View: "professional profile", RequiresAuth: true, Role: session.RoleProfessional},

	{Path: PathAdmin, Name: "admin-dashboard", View: "admin stats", RequiresAuth: true, Role: session.RoleAdmin},
	{Path: "/admin/services", Name: "admin-services", View: "services ls", RequiresAuth: true, Role: session.RoleAdmin},
	{Path: "/admin/service-requests", Name: "admin-service-requests", View: "admin requests", RequiresAuth: true, Role: session.RoleAdmin},
	{Path: "/admin/professionals", Name: "admin-professionals", View: "admin professionals ls", RequiresAuth: true, Role: session.RoleAdmin},
	{Path: "/admin/customers", Name: "admin-customers", View: "admin customers ls", RequiresAuth: true, Role: session.RoleAdmin},
	{Path: "/admin/reports", Name: "admin-reports", View: "admin stats", RequiresAuth: true, Role: session.RoleAdmin},
}

// Routes returns a copy of the static route table
func Routes() []Route {
	return append([]Route(nil), routeTable...)
}

// Validate checks table invariants: unique paths, and a role implies auth
func Validate(routes []Route) error {
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if seen[r.Path] {
			return fmt.Errorf("duplicate route path %s", r.Path)
		}
		seen[r.Path] = true

		if r.Role != "" && !r.RequiresAuth {
			return fmt.Errorf("route %s requires role %s but not authentication", r.Path, r.Role)
		}
	}
	return nil
}

// HomePath returns the landing path for role, or fallback for unknown roles
func HomePath(role session.Role, fallback string) string {
	switch role {
	case session.RoleAdmin:
		return PathAdmin
	case session.RoleProfessional:
		return PathProfessional
	case session.RoleCustomer:
		return PathCustomer
	default:
		return fallback
	}
}
