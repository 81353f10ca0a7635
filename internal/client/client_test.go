package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hammamikhairi/railroad/internal/api"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", logger.New(logger.LevelOff, nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != api.PathLogin {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req api.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Username == "teacher@school.edu" && req.Password == "teacher" {
			writeJSON(w, http.StatusOK, api.LoginResponse{Success: true, Role: 1, Name: "Ms. Frizzle"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, api.LoginResponse{Message: "Invalid credentials"})
	})

	res, err := c.Login(context.Background(), "teacher@school.edu", "teacher")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Role != domain.RoleTeacher || res.Name != "Ms. Frizzle" {
		t.Fatalf("unexpected result %+v", res)
	}

	_, err = c.Login(context.Background(), "teacher@school.edu", "wrong")
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if appErr.Message != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", appErr.Message)
	}
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("expected 401 to match ErrInvalidCredentials")
	}
}

func TestGetLessons(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != api.PathGetLessons {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"lessons":[{"lesson_id":"1","lesson_name":"Algebra","steps":[{"step_number":1,"step_description":"Step 1. x","image_path":"/images/a.png"}]}]}`))
	})

	lessons, err := c.GetLessons(context.Background())
	if err != nil {
		t.Fatalf("get lessons: %v", err)
	}
	if len(lessons) != 1 || lessons[0].ID != "1" || lessons[0].Name != "Algebra" {
		t.Fatalf("unexpected lessons %+v", lessons)
	}
	if s := lessons[0].Steps[0]; s.Number != 1 || s.ImagePath != "/images/a.png" {
		t.Fatalf("unexpected step %+v", s)
	}
}

func TestCreateLesson(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantID  string
		wantApp bool
		wantMsg string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   api.CreateLessonResponse{Success: true, Lesson: &domain.Lesson{ID: "99", Name: "Fractions"}},
			wantID: "99",
		},
		{
			name:    "refused",
			status:  http.StatusOK,
			body:    api.CreateLessonResponse{Success: false, Message: "model unavailable"},
			wantApp: true,
			wantMsg: "model unavailable",
		},
		{
			name:    "validation",
			status:  http.StatusBadRequest,
			body:    api.CreateLessonResponse{Message: "please fill out all fields"},
			wantApp: true,
			wantMsg: "please fill out all fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var req domain.CreateLessonRequest
				json.NewDecoder(r.Body).Decode(&req)
				if req.Title != "Fractions" || req.Topic != "Math" {
					t.Errorf("unexpected body %+v", req)
				}
				writeJSON(w, tt.status, tt.body)
			})

			lesson, err := c.CreateLesson(context.Background(), domain.CreateLessonRequest{
				Title: "Fractions", Topic: "Math", Level: "5", Description: "parts",
			})
			if tt.wantApp {
				var appErr *ApplicationError
				if !errors.As(err, &appErr) {
					t.Fatalf("expected ApplicationError, got %v", err)
				}
				if appErr.Message != tt.wantMsg {
					t.Fatalf("expected %q, got %q", tt.wantMsg, appErr.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if lesson.ID != tt.wantID {
				t.Fatalf("expected id %s, got %s", tt.wantID, lesson.ID)
			}
		})
	}
}

func TestTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, logger.New(logger.LevelOff, nil))
	_, err := c.GetLessons(context.Background())
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestNonJSONBodies(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := c.GetLessons(context.Background())
		var appErr *ApplicationError
		if !errors.As(err, &appErr) || appErr.Status != http.StatusInternalServerError {
			t.Fatalf("expected 500 ApplicationError, got %v", err)
		}
	})

	t.Run("garbled ok", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		})
		_, err := c.GetLessons(context.Background())
		var tErr *TransportError
		if !errors.As(err, &tErr) {
			t.Fatalf("expected TransportError, got %v", err)
		}
	})
}

func TestCancelledRequest(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-block
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CreateLesson(ctx, domain.CreateLessonRequest{Title: "a", Topic: "b", Level: "c", Description: "d"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
