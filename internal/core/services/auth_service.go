package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceConfig struct {
	UserRepo    ports.UserRepository
	SessionRepo ports.SessionRepository
	Logger      *logger.Logger
	SessionTTL  time.Duration
	BcryptCost  int
}

type authService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	logger     *logger.Logger
	sessionTTL time.Duration
	bcryptCost int
}

func NewAuthService(cfg AuthServiceConfig) ports.AuthService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		users:      cfg.UserRepo,
		sessions:   cfg.SessionRepo,
		logger:     cfg.Logger,
		sessionTTL: ttl,
		bcryptCost: cost,
	}
}

func (s *authService) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrPasswordRequired
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		s.logger.Errorw("auth_hash_failed", "error", err)
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	role := domain.UserRoleMember
	if input.IsAdmin {
		role = domain.UserRoleAdmin
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Errorw("auth_signup_failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Infow("auth_signup_ok", "id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Warnw("auth_signin_unknown_email", "email", email)
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnw("auth_signin_bad_password", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:     uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Errorw("auth_session_create_failed", "user_id", user.ID, "error", err)
		return nil, nil, err
	}

	s.logger.Infow("auth_signin_ok", "user_id", user.ID)
	return user, session, nil
}

func (s *authService) SignOut(ctx context.Context, token uuid.UUID) error {
	return s.sessions.Delete(ctx, token)
}

func (s *authService) CurrentUser(ctx context.Context, token uuid.UUID) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		// Best effort cleanup, the lookup already failed for the caller.
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAll(ctx)
}

// Bootstrapped reports whether any user exists yet. While false, open
// sign-up is allowed and the first account becomes admin.
func (s *authService) Bootstrapped(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
