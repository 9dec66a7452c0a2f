package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/ports"
)

type stubAuthService struct {
	hasAdmin  bool
	lastCall  string
	lastUser  string
	result    *ports.AuthResult
	err       error
	users     []domain.PublicUser
	listErr   error
	promoteID string
}

func (s *stubAuthService) HasAdmin(context.Context) (bool, error) {
	s.lastCall = "HasAdmin"
	return s.hasAdmin, s.err
}

func (s *stubAuthService) BootstrapAdmin(_ context.Context, username, _ string) (*ports.AuthResult, error) {
	s.lastCall, s.lastUser = "BootstrapAdmin", username
	return s.result, s.err
}

func (s *stubAuthService) Register(_ context.Context, username, _ string) (*ports.AuthResult, error) {
	s.lastCall, s.lastUser = "Register", username
	return s.result, s.err
}

func (s *stubAuthService) Login(_ context.Context, username, _ string) (*ports.AuthResult, error) {
	s.lastCall, s.lastUser = "Login", username
	return s.result, s.err
}

func (s *stubAuthService) Promote(_ context.Context, userID string) error {
	s.lastCall, s.promoteID = "Promote", userID
	return s.err
}

func (s *stubAuthService) ListUsers(context.Context) ([]domain.PublicUser, error) {
	s.lastCall = "ListUsers"
	return s.users, s.listErr
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_HasAdmin(t *testing.T) {
	svc := &stubAuthService{hasAdmin: true}
	h := NewAuthHandler(svc)
	c, rec := newJSONContext(t, http.MethodGet, "/api/auth/has-admin", "")

	if err := h.HasAdmin(c); err != nil {
		t.Fatalf("HasAdmin: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp hasAdminResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.HasAdmin {
		t.Fatalf("expected hasAdmin=true")
	}
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{result: &ports.AuthResult{
		Token: "tok",
		User:  domain.PublicUser{ID: "u-1", Username: "carol", Role: domain.RoleStaff},
	}}
	h := NewAuthHandler(svc)
	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/register", `{"username":"carol","password":"pw"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastUser != "carol" {
		t.Fatalf("service not called with username, got %q", svc.lastUser)
	}
	var res ports.AuthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Token != "tok" || res.User.Role != domain.RoleStaff {
		t.Fatalf("unexpected body: %+v", res)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	for _, body := range []string{`{}`, `{"username":"x"}`, `{"password":"x"}`, `not json`} {
		c, _ := newJSONContext(t, http.MethodPost, "/api/auth/register", body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_PropagatesServiceError(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc)
	c, _ := newJSONContext(t, http.MethodPost, "/api/auth/login", `{"username":"x","password":"y"}`)

	// The handler passes domain errors through untouched; the central error
	// handler owns the status mapping.
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ListUsers(t *testing.T) {
	svc := &stubAuthService{users: []domain.PublicUser{
		{ID: "u-1", Username: "a", Role: domain.RoleAdmin},
		{ID: "u-2", Username: "b", Role: domain.RoleStaff},
	}}
	h := NewAuthHandler(svc)
	c, rec := newJSONContext(t, http.MethodGet, "/api/auth/users", "")

	if err := h.ListUsers(c); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password fields: %s", rec.Body.String())
	}
}

func TestUserHandler_Promote(t *testing.T) {
	svc := &stubAuthService{}
	h := NewUserHandler(svc)
	c, rec := newJSONContext(t, http.MethodPut, "/api/users/u-9/promote", "")
	c.SetParamNames("id")
	c.SetParamValues("u-9")

	if err := h.Promote(c); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.promoteID != "u-9" {
		t.Fatalf("expected promote of u-9, got %q", svc.promoteID)
	}
}
