package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

var _ domain.UserService = (*UserService)(nil)

func validateEmail(email string) error {
	if err := requireText("email", email); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("malformed email %q: %w", email, domain.ErrInvalidRequest)
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := requireText("name", req.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	user := &models.User{Name: req.Name, Email: strings.TrimSpace(req.Email)}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("User created")
	return dto.ToUserResponse(user), nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*dto.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousEmail := user.Email
	patch.Apply(user)
	if !strings.EqualFold(user.Email, previousEmail) {
		user.Email = strings.TrimSpace(user.Email)
		if err := validateEmail(user.Email); err != nil {
			return nil, err
		}
		existing, err := s.repo.GetUserByEmail(ctx, user.Email)
		switch {
		case err == nil && existing.ID != id:
			return nil, fmt.Errorf("email %s already registered: %w", user.Email, domain.ErrConflict)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}
