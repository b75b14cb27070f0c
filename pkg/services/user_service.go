package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

type userService struct {
	api    ports.UserAPI
	repo   ports.UserRepository
	logger zerolog.Logger

	mu    sync.RWMutex
	users []domain.User
	byID  map[int64]int
}

// NewUserService crea una nueva instancia de UserService. repo puede ser nil.
func NewUserService(api ports.UserAPI, repo ports.UserRepository, opts ...Option) ports.UserService {
	o := newOptions(opts)
	return &userService{
		api:    api,
		repo:   repo,
		logger: o.logger.With().Str("service", "users").Logger(),
		byID:   map[int64]int{},
	}
}

// FetchUsers implementa ports.UserService.
func (s *userService) FetchUsers(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch users")
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	s.set(users)

	if s.repo != nil {
		for i := range users {
			if err := s.repo.Save(ctx, &users[i]); err != nil {
				s.logger.Warn().Err(err).Int64("user_id", users[i].ID).Msg("failed to mirror user")
			}
		}
	}
	return nil
}

// Hydrate implementa ports.UserService.
func (s *userService) Hydrate(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load mirrored users: %w", err)
	}

	s.mu.RLock()
	loaded := len(s.users) > 0
	s.mu.RUnlock()
	if !loaded {
		s.set(users)
	}
	return nil
}

func (s *userService) set(users []domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.byID = make(map[int64]int, len(users))
	for i, u := range users {
		s.byID[u.ID] = i
	}
}

// Users implementa ports.UserService.
func (s *userService) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...)
}

// UserByID implementa ports.UserLookup.
func (s *userService) UserByID(id int64) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.User{}, false
	}
	return s.users[i], true
}

// Asegurarse de que userService implementa ports.UserService
var _ ports.UserService = (*userService)(nil)
