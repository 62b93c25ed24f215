package services

import (
	"context"
	"errors"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and credential checks
type AuthService struct {
	users    repositories.UserRepository
	hashCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users, hashCost: bcrypt.DefaultCost}
}

// SetHashCost overrides the bcrypt cost, mainly so tests run quickly.
func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

// Register validates the form and stores a new user with a salted password hash.
// A taken email yields ErrEmailTaken and no new row.
func (s *AuthService) Register(ctx context.Context, form *models.RegisterForm) (*models.User, error) {
	if errs := models.ValidateForm(form); errs != nil {
		return nil, errs
	}

	_, err := s.users.GetByEmail(ctx, form.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    form.Email,
		Password: string(hash),
		Name:     form.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login returns the user whose email and password match the form.
func (s *AuthService) Login(ctx context.Context, form *models.LoginForm) (*models.User, error) {
	if errs := models.ValidateForm(form); errs != nil {
		return nil, errs
	}

	user, err := s.users.GetByEmail(ctx, form.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnknownEmail
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

// User retrieves a user by ID
func (s *AuthService) User(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
