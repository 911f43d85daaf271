package service

import (
	"context"
	"strings"

	"studydeck/internal/models"
	"studydeck/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns account registration, credential checks and profile
// edits.
type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfileInput carries a profile edit. Empty fields are left
// untouched.
type UpdateProfileInput struct {
	Bio        string
	Department string
}

// NewUserService creates a UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if len(username) > 150 {
		return nil, models.NewValidationError("Username too long (max 150 characters)")
	}
	if strings.ContainsAny(username, " @") {
		return nil, models.NewValidationError("Username may not contain spaces or '@'")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the account on success.
// A missing account and a bad password are indistinguishable to the
// caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// GetUserByID fetches an account.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial profile edit to the actor's account.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Department != "" {
		user.Department = in.Department
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's role. Admin only.
func (s *UserService) SetRole(ctx context.Context, actor Actor, targetID uint, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.NewForbiddenError("Only admins can change roles")
	}
	switch role {
	case models.RoleStudent, models.RoleModerator, models.RoleAdmin:
	default:
		return nil, models.NewValidationError("Invalid role")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
