package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// UserService covers back-office account management. Role changes require
// an admin actor.
type UserService struct {
	users  ports.UserRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, now: time.Now, logger: logger}
}

// List returns every profile, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) Promote(ctx context.Context, actor *domain.User, userID string) error {
	return s.setRole(ctx, actor, userID, domain.RoleAdmin)
}

func (s *UserService) Demote(ctx context.Context, actor *domain.User, userID string) error {
	return s.setRole(ctx, actor, userID, domain.RoleUser)
}

func (s *UserService) setRole(ctx context.Context, actor *domain.User, userID, role string) error {
	if err := s.authorizeAdmin(ctx, actor); err != nil {
		return err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Update(ctx, userID, map[string]any{
		"role":      role,
		"updatedAt": s.now().UTC(),
	}); err != nil {
		return err
	}
	s.logger.Info().Str("actor", actor.ID).Str("user_id", userID).Str("role", role).Msg("role changed")
	return nil
}

// authorizeAdmin checks the actor's stored role rather than the role it was
// issued with, so a demoted admin loses access before its token expires.
// SystemActor has no profile and is always allowed.
func (s *UserService) authorizeAdmin(ctx context.Context, actor *domain.User) error {
	if actor == nil {
		return domain.ErrForbidden
	}
	if actor == domain.SystemActor {
		return nil
	}
	stored, err := s.users.Get(ctx, actor.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("load actor %s: %w", actor.ID, err)
	}
	if !domain.IsAdmin(stored) {
		return domain.ErrForbidden
	}
	return nil
}

// Stats counts accounts by role. Profiles without a role count as regular.
func (s *UserService) Stats(ctx context.Context) (domain.UserStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return domain.UserStats{}, err
	}
	stats := domain.UserStats{TotalUsers: len(users)}
	for i := range users {
		if domain.IsAdmin(&users[i]) {
			stats.Admins++
		} else {
			stats.RegularUsers++
		}
	}
	return stats, nil
}
