package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrTokenMalformed, http.StatusUnauthorized},
		{domain.ErrTokenSignatureInvalid, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrEmployeeNotFound, http.StatusNotFound},
		{domain.ErrDocumentNotFound, http.StatusNotFound},
		{domain.ErrSelfManager, http.StatusBadRequest},
		{domain.ErrInvalidManager, http.StatusBadRequest},
		{domain.ErrInvalidUserID, http.StatusBadRequest},
		{domain.ErrAdminExists, http.StatusBadRequest},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrLoginThrottled, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		code, msg := renderError(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if msg == "" {
			t.Fatalf("%v: empty message", tc.err)
		}
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot || msg != "short and stout" {
		t.Fatalf("expected 418/short and stout, got %d/%q", code, msg)
	}
}

func TestHTTPErrorHandler_UnknownErrorsStayGeneric(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: socket was unexpectedly closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

// Wrapped domain errors still map, callers are free to annotate.
func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	code, _ := renderError(t, errors.Join(errors.New("assigning manager"), domain.ErrSelfManager))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrapped ErrSelfManager, got %d", code)
	}
}
