package auth

import (
	"context"
	"slices"
	"strings"

	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/users"
)

// Route is a navigation target. Roles restricts it to the listed roles.
type Route struct {
	Name  string
	Path  string
	Roles []users.RoleType
}

// Decision is the outcome of a navigation check. When Allowed is false the
// user is sent to Redirect.
type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision { return Decision{Allowed: true} }
func redirect(path string) Decision { return Decision{Redirect: path} }

// RouteRecorder persists the last visited route.
type RouteRecorder interface {
	SetLastVisitedRoute(name string) error
}

// Guard decides whether the current session may open a route.
type Guard struct {
	auth   *Service
	routes RouteRecorder
}

func NewGuard(auth *Service, routes RouteRecorder) *Guard {
	return &Guard{auth: auth, routes: routes}
}

// Resolve checks route against the session: without a token only /auth
// routes are open, a role outside route.Roles leads to the not found page
// and anything outside the dashboard goes to the dashboard.
func (g *Guard) Resolve(ctx context.Context, route Route) Decision {
	if route.Path == notify.ServerErrorPath {
		return allow()
	}
	if !g.auth.CheckAuth() {
		if strings.Contains(route.Path, "auth") {
			return allow()
		}
		return redirect(notify.LoginPath)
	}

	role := g.auth.Role()
	if role == "" {
		u, err := g.auth.Me(ctx)
		if err != nil {
			return redirect(notify.LoginPath)
		}
		role = u.Role
	}

	if len(route.Roles) > 0 && !slices.Contains(route.Roles, role) {
		return redirect(notify.NotFoundPath)
	}
	if strings.Contains(route.Path, "dashboard") {
		if g.routes != nil && route.Name != "" {
			_ = g.routes.SetLastVisitedRoute(route.Name)
		}
		return allow()
	}
	return redirect(notify.DashboardPath)
}
