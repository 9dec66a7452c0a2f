// Package token issues and verifies the self-contained credentials used by
// the API: HS256-signed three-part tokens carrying subject id, username and
// role. Validity is recomputed from the token's own signed content on every
// use; there is no server-side session state and no revocation list, so a
// leaked token stays valid until it expires or the secret is rotated.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

// DefaultTTL is the token lifetime when none is configured. Role changes
// made after issuance take effect only on re-login, so the TTL bounds the
// staleness window of the role carried in outstanding tokens.
const DefaultTTL = 12 * time.Hour

// Claims is the signed token payload.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide secret, fixed for the
// process lifetime.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec. An empty secret is a configuration fault and must
// abort startup; it is never a per-request condition.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given subject. The role is snapshotted at
// issuance time.
func (c *Codec) Issue(subjectID, username string, role domain.Role) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token, returning its claims. Failures map to
// domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid or
// domain.ErrTokenExpired. Signature comparison is constant-time inside the
// JWT library.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, classify(err)
	}
	if !tok.Valid {
		return nil, domain.ErrTokenSignatureInvalid
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	default:
		// Signature mismatches and undecodable payloads land here.
		return domain.ErrTokenSignatureInvalid
	}
}
