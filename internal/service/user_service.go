package service

import (
	"context"
	"errors"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/repository"
	"github.com/google/uuid"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.MsgUserNotFound)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, domain.MsgUserNotFound)
	}
	return nil
}

// UpdateRole checks the role before looking the user up.
func (s *UserService) UpdateRole(ctx context.Context, id string, role string) (*domain.User, error) {
	newRole := domain.Role(role)
	if !newRole.Valid() {
		return nil, domain.NewValidationError(domain.MsgInvalidRole, nil)
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewValidationError("Invalid user id", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, domain.MsgUserNotFound)
	}

	user.Role = newRole
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// notFound maps a missing record to a NotFoundError and passes anything
// else through.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFoundError(msg)
	}
	return err
}
