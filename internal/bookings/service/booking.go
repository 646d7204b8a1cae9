package service

import (
	"context"
	"errors"
	"time"

	userrepo "staywise/internal/auth/repository"
	bookingerrors "staywise/internal/bookings/errors"
	"staywise/internal/bookings/repository"
	"staywise/internal/events"
	propertyerrors "staywise/internal/properties/errors"
	propertyrepo "staywise/internal/properties/repository"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/validation"
)

type BookingService interface {
	Create(ctx context.Context, userID, userEmail string, req *model.BookingRequest) (*model.Booking, error)
	ListMine(ctx context.Context, userID string) ([]*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ListForOwner(ctx context.Context, adminID string) ([]*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	propertyRepo propertyrepo.PropertyRepository
	userRepo     userrepo.UserRepository
	publisher    events.Publisher
	validator    *validation.Validator
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	propertyRepo propertyrepo.PropertyRepository,
	userRepo userrepo.UserRepository,
	publisher events.Publisher,
	validator *validation.Validator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		validator:    validator,
		cfg:          cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, userID, userEmail string, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, apperrors.Validation("Invalid booking payload", fieldErrs.Details())
		}
		return nil, apperrors.Internal("Booking validation failed", err)
	}

	startDate, endDate, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", req.PropertyID)
		}
		if errors.Is(err, propertyerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		s.cfg.Log.Error("Failed to load property for booking", "property_id", req.PropertyID, "error", err)
		return nil, apperrors.Internal("Failed to load property", err)
	}

	nights := model.Nights(startDate, endDate)

	// Snapshot the owner, the title and the booker's display name now.
	// Later property or account edits must not rewrite booking history.
	booking := &model.Booking{
		UserID:          userID,
		UserDisplayName: userEmail,
		PropertyID:      property.ID,
		HotelName:       property.Title,
		AdminID:         property.OwnerID,
		Status:          model.BookingStatusActive,
		StartDate:       startDate,
		EndDate:         endDate,
		TotalPrice:      float64(nights) * property.PricePerNight,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "user_id", userID, "property_id", property.ID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publish(events.BookingEvent{
		Type:       events.TypeBookingCreated,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		PropertyID: booking.PropertyID,
		AdminID:    booking.AdminID,
		TotalPrice: booking.TotalPrice,
	})

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"user_id", userID,
		"property_id", property.ID,
		"nights", nights,
		"total_price", booking.TotalPrice,
	)
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	if err := s.joinProperties(ctx, bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list all bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	if err := s.joinProperties(ctx, bookings); err != nil {
		return nil, err
	}
	if err := s.joinUsers(ctx, bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

// ListForOwner reads the denormalized admin_id, so a property changing hands
// later does not move its past bookings to the new owner.
func (s *bookingService) ListForOwner(ctx context.Context, adminID string) ([]*model.Booking, error) {
	if adminID == "" {
		return nil, apperrors.InvalidInput("Admin ID cannot be empty")
	}

	bookings, err := s.repo.FindByAdmin(ctx, adminID)
	if err != nil {
		s.cfg.Log.Error("Failed to list owner bookings", "admin_id", adminID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	if err := s.joinProperties(ctx, bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to load booking", err)
	}

	if booking.UserID != userID {
		return nil, apperrors.Forbidden("Booking belongs to another user")
	}

	// Cancelling twice is a no-op, not an error.
	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.BookingStatusCancelled
	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	s.publish(events.BookingEvent{
		Type:       events.TypeBookingCancelled,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		PropertyID: booking.PropertyID,
		AdminID:    booking.AdminID,
		TotalPrice: booking.TotalPrice,
	})

	s.cfg.Log.Info("Booking cancelled", "id", bookingID, "user_id", userID)
	return booking, nil
}

// --- Helpers ---

func parseStay(startStr, endStr string) (time.Time, time.Time, error) {
	startDate, err := model.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("Invalid start date", map[string]any{"start_date": err.Error()})
	}
	endDate, err := model.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("Invalid end date", map[string]any{"end_date": err.Error()})
	}
	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, apperrors.Validation("Start date must be before end date", nil)
	}
	return startDate, endDate, nil
}

func (s *bookingService) joinProperties(ctx context.Context, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.PropertyID)
	}

	properties, err := s.propertyRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to join properties into bookings", "error", err)
		return apperrors.Internal("Failed to retrieve booking properties", err)
	}

	for _, b := range bookings {
		b.Property = properties[b.PropertyID]
	}
	return nil
}

func (s *bookingService) joinUsers(ctx context.Context, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.UserID)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to join users into bookings", "error", err)
		return apperrors.Internal("Failed to retrieve booking users", err)
	}

	for _, b := range bookings {
		if u, ok := users[b.UserID]; ok {
			b.User = u.Public()
		}
	}
	return nil
}

// publish emits the event without blocking the request and without failing it.
func (s *bookingService) publish(event events.BookingEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"type", event.Type,
				"booking_id", event.BookingID,
				"error", err,
			)
		}
	}()
}
