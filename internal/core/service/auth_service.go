package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/peoplehub/hr-records/internal/api/metrics"
	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/ports"
	"github.com/peoplehub/hr-records/internal/core/token"
)

// AuthService implements registration, login, admin bootstrap and promotion.
type AuthService struct {
	users   ports.UserRepository
	codec   *token.Codec
	limiter ports.LoginLimiter
	audit   ports.AuditSink
	logger  zerolog.Logger
}

func NewAuthService(users ports.UserRepository, codec *token.Codec, limiter ports.LoginLimiter, audit ports.AuditSink, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, limiter: limiter, audit: audit, logger: logger}
}

// HasAdmin reports whether an admin account exists.
func (s *AuthService) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BootstrapAdmin creates the first admin. The single-admin invariant is
// checked against the store; once an admin exists every call fails with
// ErrAdminExists regardless of credentials.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	has, err := s.HasAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, domain.ErrAdminExists
	}

	res, err := s.createUser(ctx, username, password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.emit(res.User.ID, "auth.bootstrap_admin", res.User.ID, username)
	s.logger.Info().Str("username", username).Msg("admin account bootstrapped")
	return res, nil
}

// Register creates a staff account. New users always start as staff; the
// role is never settable at creation.
func (s *AuthService) Register(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	res, err := s.createUser(ctx, username, password, domain.RoleStaff)
	if err != nil {
		return nil, err
	}
	s.emit(res.User.ID, "auth.register", res.User.ID, username)
	return res, nil
}

// Login verifies credentials and issues a token carrying the user's current
// stored role. Unknown usernames and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, username); err != nil {
			if errors.Is(err, domain.ErrLoginThrottled) {
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				return nil, err
			}
			// Limiter outages must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	tok, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.emit(user.ID, "auth.login", user.ID, "")
	return &ports.AuthResult{Token: tok, User: user.Public()}, nil
}

// Promote overwrites the user's role to manager. Promoting a user who is
// already a manager is a no-op; promoting an admin demotes them — preserved
// reference behavior, see the quirk test.
func (s *AuthService) Promote(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, user.ID, domain.RoleManager); err != nil {
		return err
	}
	s.emit("", "auth.promote", user.ID, string(domain.RoleManager))
	s.logger.Info().Str("user_id", user.ID).Str("from", string(user.Role)).Msg("user promoted to manager")
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role domain.Role) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	tok, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: tok, User: user.Public()}, nil
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	tok, err := s.codec.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(user.Role)).Inc()
	return tok, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("login limiter record failed")
	}
}

func (s *AuthService) emit(actor, action, subject, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEvent{
		Actor:   actor,
		Action:  action,
		Subject: subject,
		Detail:  detail,
		At:      time.Now().UTC(),
	})
}
