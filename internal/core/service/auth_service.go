package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

const minPasswordLength = 6

// AuthService implements registration, login and profile edits.
type AuthService struct {
	creds     ports.CredentialRepository
	users     ports.UserRepository
	limiter   *LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(
	creds ports.CredentialRepository,
	users ports.UserRepository,
	limiter *LoginLimiter,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		creds:     creds,
		users:     users,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    logger,
	}
}

// Register creates the credential and a profile with the plain user role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !domain.ValidEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Avatar:    domain.AvatarURL(email),
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.creds.Create(ctx, &domain.Credential{
		UserID:       user.ID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", email).Msg("user registered")
	return user, nil
}

// Login verifies the password and returns a signed bearer token. A missing
// profile is recreated from the credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, domain.ErrInvalidEmail
	}
	if s.limiter != nil && !s.limiter.Allow(email) {
		metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		return "", nil, domain.ErrTooManyRequests
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("wrong_password").Inc()
		return "", nil, domain.ErrWrongPassword
	}

	user, err := s.profile(ctx, cred)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	return token, user, nil
}

func (s *AuthService) profile(ctx context.Context, cred *domain.Credential) (*domain.User, error) {
	user, err := s.users.Get(ctx, cred.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	user = &domain.User{
		ID:        cred.UserID,
		Name:      strings.SplitN(cred.Email, "@", 2)[0],
		Email:     cred.Email,
		Avatar:    domain.AvatarURL(cred.Email),
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("recreate profile: %w", err)
	}
	s.logger.Warn().Str("user_id", user.ID).Msg("profile missing at login, recreated")
	return user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *AuthService) UpdateDisplayName(ctx context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if err := s.users.Update(ctx, userID, map[string]any{
		"name":      name,
		"updatedAt": s.now().UTC(),
	}); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.EffectiveRole(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
