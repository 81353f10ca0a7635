// Package session turns a login into a navigation decision.
package session

import (
	"context"
	"strings"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Route is where the app goes after a login attempt.
type Route int

const (
	// RouteNone keeps the login screen.
	RouteNone Route = iota
	// RouteDashboard opens the teacher dashboard.
	RouteDashboard
	// RouteNotImplemented shows the placeholder for roles without a screen.
	RouteNotImplemented
)

func (r Route) String() string {
	switch r {
	case RouteDashboard:
		return "dashboard"
	case RouteNotImplemented:
		return "not_implemented"
	default:
		return "none"
	}
}

// RouteFor maps an account role to its landing screen.
func RouteFor(role domain.Role) Route {
	if role == domain.RoleTeacher {
		return RouteDashboard
	}
	return RouteNotImplemented
}

// Authenticator is the login half of domain.LessonService.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

// Flow performs logins. No token or credential is kept.
type Flow struct {
	auth Authenticator
	log  *logger.Logger
}

// NewFlow creates a login flow.
func NewFlow(auth Authenticator, log *logger.Logger) *Flow {
	return &Flow{auth: auth, log: log}
}

// Login sends one login request. On failure the route is RouteNone and the
// error says why; empty credentials fail without a request.
func (f *Flow) Login(ctx context.Context, username, password string) (Route, *domain.LoginResult, error) {
	var missing []string
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return RouteNone, nil, &domain.ValidationError{Fields: missing}
	}

	res, err := f.auth.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		f.log.Warn("login failed for %q: %v", username, err)
		return RouteNone, nil, err
	}

	route := RouteFor(res.Role)
	f.log.Info("logged in as %s, routing to %s", res.Role, route)
	return route, res, nil
}
