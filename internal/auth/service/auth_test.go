package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	autherrors "staywise/internal/auth/errors"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/logger"
	"staywise/pkg/model"
	"staywise/pkg/token"
	"staywise/pkg/validation"
)

// Mock repository for testing
type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByIDsFunc   func(ctx context.Context, ids []string) (map[string]*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, autherrors.ErrNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, autherrors.ErrNotFound
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return map[string]*model.User{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		BcryptCost:      bcrypt.MinCost,
		AdminSignupOpen: true,
	}
}

func newTestService(repo *mockUserRepository, cfg *config.Config) *authService {
	return &authService{
		repo:      repo,
		codec:     token.NewCodec("test-secret", time.Hour),
		validator: validation.New(),
		cfg:       cfg,
	}
}

func TestSignup_IssuesTokenAndNormalizesEmail(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "507f1f77bcf86cd799439011"
			created = user
			return nil
		},
	}
	svc := newTestService(repo, testConfig())

	result, err := svc.Signup(context.Background(), &model.Credentials{
		Email:    "  Guest@Example.COM ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Email != "guest@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.Role != model.RoleUser {
		t.Errorf("expected role user, got %q", created.Role)
	}
	if created.PasswordHash == "secret1" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if result.Token == "" {
		t.Error("expected a signed token")
	}
	if result.User.Email != "guest@example.com" {
		t.Errorf("unexpected user email in result: %q", result.User.Email)
	}
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return autherrors.ErrDuplicateEmail
		},
	}
	svc := newTestService(repo, testConfig())

	_, err := svc.Signup(context.Background(), &model.Credentials{
		Email:    "guest@example.com",
		Password: "secret1",
	})

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Errorf("expected 409, got %d", appErr.StatusCode())
	}
}

func TestSignup_RejectsInvalidPayload(t *testing.T) {
	svc := newTestService(&mockUserRepository{}, testConfig())

	cases := []struct {
		name  string
		creds model.Credentials
	}{
		{"missing email", model.Credentials{Password: "secret1"}},
		{"bad email", model.Credentials{Email: "not-an-email", Password: "secret1"}},
		{"short password", model.Credentials{Email: "guest@example.com", Password: "abc"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), &tc.creds)
			appErr := apperrors.AsAppError(err)
			if appErr.StatusCode() != 400 {
				t.Errorf("expected 400, got %d", appErr.StatusCode())
			}
		})
	}
}

func TestAdminSignup(t *testing.T) {
	t.Run("creates admin role", func(t *testing.T) {
		var created *model.User
		repo := &mockUserRepository{
			createFunc: func(ctx context.Context, user *model.User) error {
				user.ID = "507f1f77bcf86cd799439012"
				created = user
				return nil
			},
		}
		svc := newTestService(repo, testConfig())

		_, err := svc.AdminSignup(context.Background(), &model.Credentials{
			Email:    "owner@example.com",
			Password: "secret1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Role != model.RoleAdmin {
			t.Errorf("expected role admin, got %q", created.Role)
		}
	})

	t.Run("forbidden when closed", func(t *testing.T) {
		cfg := testConfig()
		cfg.AdminSignupOpen = false
		svc := newTestService(&mockUserRepository{}, cfg)

		_, err := svc.AdminSignup(context.Background(), &model.Credentials{
			Email:    "owner@example.com",
			Password: "secret1",
		})
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != 403 {
			t.Errorf("expected 403, got %d", appErr.StatusCode())
		}
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	stored := &model.User{
		ID:           "507f1f77bcf86cd799439011",
		Email:        "guest@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}

	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, autherrors.ErrNotFound
		},
	}
	svc := newTestService(repo, testConfig())

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), &model.Credentials{
			Email:    "Guest@Example.com",
			Password: "secret1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.User.ID != stored.ID {
			t.Errorf("unexpected user ID: %q", result.User.ID)
		}

		claims, err := token.NewCodec("test-secret", time.Hour).Parse(result.Token)
		if err != nil {
			t.Fatalf("token does not parse: %v", err)
		}
		if claims.UserID() != stored.ID || claims.Role != model.RoleUser {
			t.Errorf("unexpected claims: sub=%q role=%q", claims.UserID(), claims.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.Credentials{
			Email:    "guest@example.com",
			Password: "wrong-password",
		})
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != 401 {
			t.Errorf("expected 401, got %d", appErr.StatusCode())
		}
	})

	t.Run("unknown email matches wrong password response", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.Credentials{
			Email:    "nobody@example.com",
			Password: "secret1",
		})
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != 401 {
			t.Errorf("expected 401, got %d", appErr.StatusCode())
		}
		if appErr.Message != "Invalid credentials" {
			t.Errorf("unknown email must not be distinguishable, got %q", appErr.Message)
		}
	})
}
