// Package guard classifies request paths and decides, before any page
// renders, whether to let the request through or redirect it.
package guard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Routes are static path-prefix tables. Matching precedence is auth, then
// admin, then customer; anything else is public.
type Routes struct {
	Auth     []string `yaml:"auth"`
	Admin    []string `yaml:"admin"`
	Customer []string `yaml:"customer"`
}

// Targets are the redirect destinations of the decision table.
type Targets struct {
	Home       string `yaml:"home"`
	AdminHome  string `yaml:"adminHome"`
	Login      string `yaml:"login"`
	AdminLogin string `yaml:"adminLogin"`
}

type Guard struct {
	routes  Routes
	targets Targets
}

func New(routes Routes, targets Targets) (*Guard, error) {
	for _, target := range []string{targets.Home, targets.AdminHome, targets.Login, targets.AdminLogin} {
		if target == "" {
			return nil, fmt.Errorf("redirect target is empty: %+v", targets)
		}
	}

	return &Guard{routes: routes, targets: targets}, nil
}

type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Decide applies the decision table. A nil session means no (valid) token.
//
//	route class | no token            | customer token   | admin token
//	auth        | allow               | role home        | role home
//	admin       | admin login         | public home      | allow
//	customer    | login + callbackUrl | allow            | admin home
//	public      | allow               | allow            | allow
func (g *Guard) Decide(path string, session *domain.Session) Decision {
	switch {
	case matchPrefix(g.routes.Auth, path):
		if session == nil {
			return allow()
		}
		return redirect(g.roleHome(session.Role))

	case matchPrefix(g.routes.Admin, path):
		if session == nil {
			return redirect(g.targets.AdminLogin)
		}
		if !session.IsAdmin() {
			return redirect(g.targets.Home)
		}
		return allow()

	case matchPrefix(g.routes.Customer, path):
		if session == nil {
			// canonical login path, original destination preserved
			return redirect(g.targets.Login + "?callbackUrl=" + url.QueryEscape(path))
		}
		if session.IsAdmin() {
			return redirect(g.targets.AdminHome)
		}
		return allow()
	}

	return allow()
}

func (g *Guard) roleHome(role domain.Role) string {
	if role == domain.RoleAdmin {
		return g.targets.AdminHome
	}
	return g.targets.Home
}

func matchPrefix(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
