package token

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

func TestCodec_IssueVerify_Roundtrip(t *testing.T) {
	codec, err := NewCodec("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	raw, err := codec.Issue("user-1", "alice", domain.RoleManager)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(raw, ".") != 2 {
		t.Fatalf("expected three-part token, got %q", raw)
	}
	if strings.Contains(raw, "=") {
		t.Fatalf("token must not contain padding: %q", raw)
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Username != "alice" || claims.Role != domain.RoleManager {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected iat and exp to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestCodec_EmptySecret(t *testing.T) {
	if _, err := NewCodec("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestCodec_Verify_Malformed(t *testing.T) {
	codec, _ := NewCodec("secret", time.Hour)

	for _, raw := range []string{"", "just-one-part", "two.parts", "a.b.c.d"} {
		if _, err := codec.Verify(raw); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	codec, _ := NewCodec("secret", time.Hour)
	raw, err := codec.Issue("user-1", "alice", domain.RoleStaff)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(raw, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	tampered := strings.Replace(string(payload), `"role":"staff"`, `"role":"admin"`, 1)
	if tampered == string(payload) {
		t.Fatalf("tampering had no effect on payload %s", payload)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	if _, err := codec.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	issuer, _ := NewCodec("secret-a", time.Hour)
	verifier, _ := NewCodec("secret-b", time.Hour)

	raw, err := issuer.Issue("user-1", "alice", domain.RoleStaff)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(raw); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	codec, _ := NewCodec("secret", time.Hour)

	// Correctly signed token whose expiry is already in the past.
	now := time.Now().UTC()
	claims := Claims{
		Username: "alice",
		Role:     domain.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestCodec_Verify_RejectsUnsignedAlg(t *testing.T) {
	codec, _ := NewCodec("secret", time.Hour)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Username: "mallory",
		Role:     domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := codec.Verify(unsigned); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}
