package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	autherrors "staywise/internal/auth/errors"
	"staywise/internal/auth/repository"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/sanitizer"
	"staywise/pkg/token"
	"staywise/pkg/validation"
)

// AuthResult is what a successful signup or login hands back to the caller.
type AuthResult struct {
	Token string            `json:"token"`
	User  *model.PublicUser `json:"user"`
}

type AuthService interface {
	Signup(ctx context.Context, creds *model.Credentials) (*AuthResult, error)
	AdminSignup(ctx context.Context, creds *model.Credentials) (*AuthResult, error)
	Login(ctx context.Context, creds *model.Credentials) (*AuthResult, error)
}

type authService struct {
	repo      repository.UserRepository
	codec     *token.Codec
	validator *validation.Validator
	cfg       *config.Config
}

func NewAuthService(
	repo repository.UserRepository,
	codec *token.Codec,
	validator *validation.Validator,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:      repo,
		codec:     codec,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *authService) Signup(ctx context.Context, creds *model.Credentials) (*AuthResult, error) {
	return s.register(ctx, creds, model.RoleUser)
}

func (s *authService) AdminSignup(ctx context.Context, creds *model.Credentials) (*AuthResult, error) {
	if !s.cfg.AdminSignupOpen {
		return nil, apperrors.Forbidden("Admin signup is disabled")
	}
	return s.register(ctx, creds, model.RoleAdmin)
}

func (s *authService) register(ctx context.Context, creds *model.Credentials, role model.Role) (*AuthResult, error) {
	s.normalize(creds)
	if err := s.validate(creds); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:        creds.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", creds.Email, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return result, nil
}

func (s *authService) Login(ctx context.Context, creds *model.Credentials) (*AuthResult, error) {
	s.normalize(creds)
	if err := s.validate(creds); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			// Same response as a wrong password so the endpoint does not
			// reveal which emails exist.
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return result, nil
}

func (s *authService) issueToken(user *model.User) (*AuthResult, error) {
	signed, err := s.codec.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		s.cfg.Log.Error("Failed to sign token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &AuthResult{Token: signed, User: user.Public()}, nil
}

func (s *authService) normalize(creds *model.Credentials) {
	creds.Email = strings.ToLower(sanitizer.TrimAndNormalize(creds.Email))
}

func (s *authService) validate(creds *model.Credentials) error {
	if err := s.validator.Struct(creds); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			return apperrors.Validation("Invalid credentials payload", fieldErrs.Details())
		}
		return apperrors.Internal("Credential validation failed", err)
	}
	return nil
}
