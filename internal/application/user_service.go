package application

import (
	"context"
	"fmt"

	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
	"go.uber.org/zap"
)

// CreateUserRequest holds registration data.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest is a partial profile update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserService orchestrates user management.
type UserService struct {
	repo   userDomain.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// CreateUser registers a user. A taken email fails with DuplicateEmail.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByEmail(ctx, u.Email(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, userDomain.ErrDuplicateEmail.Withf("email %s is already registered", u.Email())
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// UpdateUser applies a partial profile update. Moving to another user's email fails with
// DuplicateEmail.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email() {
		taken, err := s.repo.ExistsByEmail(ctx, *req.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, userDomain.ErrDuplicateEmail.Withf("email %s is already registered", *req.Email)
		}
	}

	if err := u.Update(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.Int64("user_id", userID))
	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}
