package router

import "github.com/homeserv-dev/homeserv/internal/cli/session"

// Decision is the outcome of the navigation guard: allow, or redirect
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(path string) Decision { return Decision{RedirectTo: path} }

var authPages = map[string]bool{
	PathLogin:                true,
	PathRegister:             true,
	PathRegisterProfessional: true,
}

// Guard decides whether current may enter to. The rules are evaluated in
// order and the first match wins:
//  1. auth required, no session            -> /login
//  2. auth required, role set and differs  -> the session role's home
//  3. signed in, visiting login/register   -> the session role's home
//  4. otherwise                            -> allow
func Guard(to Route, current *session.Session) Decision {
	if to.RequiresAuth && current == nil {
		return redirect(PathLogin)
	}

	if to.RequiresAuth && to.Role != "" && current.Role != to.Role {
		return redirect(HomePath(current.Role, PathLogin))
	}

	if current != nil && authPages[to.Path] {
		return redirect(HomePath(current.Role, PathHome))
	}

	return allow()
}
