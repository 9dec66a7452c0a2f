package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/token"
)

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func runAuthenticated(t *testing.T, codec *token.Codec, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := Authenticate(codec)(next)(c)
	return rec, err
}

func TestAuthenticate_ValidToken(t *testing.T) {
	codec := newCodec(t)
	tok, err := codec.Issue("u-1", "alice", domain.RoleManager)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got Identity
	_, err = runAuthenticated(t, codec, "Bearer "+tok, func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not attached")
		}
		got = id
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SubjectID != "u-1" || got.Username != "alice" || got.Role != domain.RoleManager {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestAuthenticate_CaseInsensitiveScheme(t *testing.T) {
	codec := newCodec(t)
	tok, _ := codec.Issue("u-1", "alice", domain.RoleStaff)

	if _, err := runAuthenticated(t, codec, "bearer "+tok, okHandler); err != nil {
		t.Fatalf("lowercase scheme rejected: %v", err)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	codec := newCodec(t)
	other := newOtherCodec(t)
	foreign, _ := other.Issue("u-1", "alice", domain.RoleStaff)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic dXNlcjpwdw=="},
		{"garbage token", "Bearer not.a.token"},
		{"wrong signature", "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runAuthenticated(t, codec, tc.header, func(c echo.Context) error {
				t.Fatalf("handler must not run")
				return nil
			})
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func newOtherCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}
