package service

import (
	"context"
	"errors"

	propertyerrors "staywise/internal/properties/errors"
	"staywise/internal/properties/repository"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/sanitizer"
	"staywise/pkg/validation"
)

type PropertyService interface {
	Create(ctx context.Context, ownerID string, req *model.PropertyRequest) (*model.Property, error)
	GetAll(ctx context.Context) ([]*model.Property, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validation.Validator
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	validator *validation.Validator,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, ownerID string, req *model.PropertyRequest) (*model.Property, error) {
	s.sanitize(req)
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			s.cfg.Log.Warn("Property validation failed", "owner_id", ownerID, "error", err)
			return nil, apperrors.Validation("Invalid property payload", fieldErrs.Details())
		}
		return nil, apperrors.Internal("Property validation failed", err)
	}

	property := &model.Property{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Images:        sanitizer.NormalizeImages(req.Images),
		OwnerID:       ownerID,
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created",
		"id", property.ID,
		"owner_id", ownerID,
		"title", property.Title,
	)
	return property, nil
}

func (s *propertyService) GetAll(ctx context.Context) ([]*model.Property, error) {
	properties, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties", "error", err)
		return nil, apperrors.Internal("Failed to retrieve properties", err)
	}
	if properties == nil {
		properties = []*model.Property{}
	}
	return properties, nil
}

func (s *propertyService) GetByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	properties, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties by owner", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve properties", err)
	}
	if properties == nil {
		properties = []*model.Property{}
	}
	return properties, nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertyerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}

	return property, nil
}

func (s *propertyService) sanitize(req *model.PropertyRequest) {
	req.Title = sanitizer.NormalizeTitle(req.Title)
	req.Location = sanitizer.NormalizeLocation(req.Location)
	req.Description = sanitizer.NormalizeDescription(req.Description)
}
