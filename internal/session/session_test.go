package session

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

type mockAuth struct {
	calls int
	res   *domain.LoginResult
	err   error
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	m.calls++
	return m.res, m.err
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		role domain.Role
		want Route
	}{
		{domain.RoleTeacher, RouteDashboard},
		{domain.RoleStudent, RouteNotImplemented},
		{domain.Role(7), RouteNotImplemented},
	}
	for _, tt := range tests {
		if got := RouteFor(tt.role); got != tt.want {
			t.Fatalf("RouteFor(%s) = %s, want %s", tt.role, got, tt.want)
		}
	}
}

func TestLoginRoutesByRole(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	for _, tt := range []struct {
		role domain.Role
		want Route
	}{
		{domain.RoleTeacher, RouteDashboard},
		{domain.RoleStudent, RouteNotImplemented},
	} {
		auth := &mockAuth{res: &domain.LoginResult{Role: tt.role}}
		route, res, err := NewFlow(auth, log).Login(context.Background(), "a@b.c", "pw")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if route != tt.want || res.Role != tt.role {
			t.Fatalf("expected %s, got %s", tt.want, route)
		}
		if auth.calls != 1 {
			t.Fatalf("expected one request, got %d", auth.calls)
		}
	}
}

func TestLoginFailureStays(t *testing.T) {
	auth := &mockAuth{err: domain.ErrInvalidCredentials}
	route, res, err := NewFlow(auth, logger.New(logger.LevelOff, nil)).Login(context.Background(), "a@b.c", "bad")

	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if route != RouteNone || res != nil {
		t.Fatalf("expected no navigation, got %s", route)
	}
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	auth := &mockAuth{res: &domain.LoginResult{Role: domain.RoleTeacher}}
	flow := NewFlow(auth, logger.New(logger.LevelOff, nil))

	route, _, err := flow.Login(context.Background(), "  ", "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected both fields missing, got %v", err)
	}
	if route != RouteNone || auth.calls != 0 {
		t.Fatalf("expected no request, got %d calls", auth.calls)
	}
}
