package service

import (
	"context"
	"testing"

	propertyerrors "staywise/internal/properties/errors"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/logger"
	"staywise/pkg/model"
	"staywise/pkg/validation"
)

// Mock repository for testing
type mockPropertyRepository struct {
	createFunc      func(ctx context.Context, property *model.Property) error
	findAllFunc     func(ctx context.Context) ([]*model.Property, error)
	findByOwnerFunc func(ctx context.Context, ownerID string) ([]*model.Property, error)
	findByIDFunc    func(ctx context.Context, id string) (*model.Property, error)
	findByIDsFunc   func(ctx context.Context, ids []string) (map[string]*model.Property, error)
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, property)
	}
	property.ID = "507f191e810c19729de860ea"
	return nil
}

func (m *mockPropertyRepository) FindAll(ctx context.Context) ([]*model.Property, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Property{}, nil
}

func (m *mockPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return []*model.Property{}, nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, propertyerrors.ErrNotFound
}

func (m *mockPropertyRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Property, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return map[string]*model.Property{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func newTestService(repo *mockPropertyRepository) *propertyService {
	return &propertyService{
		repo:      repo,
		validator: validation.New(),
		cfg:       testConfig(),
	}
}

func TestCreate_SanitizesAndDefaultsImages(t *testing.T) {
	var created *model.Property
	repo := &mockPropertyRepository{
		createFunc: func(ctx context.Context, property *model.Property) error {
			property.ID = "507f191e810c19729de860ea"
			created = property
			return nil
		},
	}
	svc := newTestService(repo)

	property, err := svc.Create(context.Background(), "507f1f77bcf86cd799439011", &model.PropertyRequest{
		Title:         "  Seaside   Loft ",
		Description:   " Quiet place near the  beach ",
		Location:      "  Lisbon ",
		PricePerNight: 180,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Title != "Seaside Loft" {
		t.Errorf("title not sanitized: %q", created.Title)
	}
	if created.Location != "Lisbon" {
		t.Errorf("location not sanitized: %q", created.Location)
	}
	if created.OwnerID != "507f1f77bcf86cd799439011" {
		t.Errorf("owner not recorded: %q", created.OwnerID)
	}
	if property.Images == nil || len(property.Images) != 0 {
		t.Errorf("expected empty image list, got %#v", property.Images)
	}
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	svc := newTestService(&mockPropertyRepository{})

	_, err := svc.Create(context.Background(), "507f1f77bcf86cd799439011", &model.PropertyRequest{
		Title:         "Seaside Loft",
		Description:   "Quiet place",
		Location:      "Lisbon",
		PricePerNight: -5,
	})

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 400 {
		t.Errorf("expected 400, got %d", appErr.StatusCode())
	}
}

func TestGetByID(t *testing.T) {
	stored := &model.Property{
		ID:            "507f191e810c19729de860ea",
		Title:         "Seaside Loft",
		Description:   "Quiet place",
		Location:      "Lisbon",
		PricePerNight: 180,
	}
	repo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, propertyerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	t.Run("found", func(t *testing.T) {
		property, err := svc.GetByID(context.Background(), stored.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if property.Title != stored.Title {
			t.Errorf("unexpected property: %+v", property)
		}
	})

	t.Run("missing is 404", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), "507f191e810c19729de860eb")
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != 404 {
			t.Errorf("expected 404, got %d", appErr.StatusCode())
		}
	})
}

func TestGetAll_NeverReturnsNilSlice(t *testing.T) {
	repo := &mockPropertyRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Property, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo)

	properties, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if properties == nil {
		t.Error("expected empty slice, got nil")
	}
}
