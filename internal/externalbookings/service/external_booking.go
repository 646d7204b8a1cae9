package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userrepo "staywise/internal/auth/repository"
	"staywise/internal/events"
	externalerrors "staywise/internal/externalbookings/errors"
	"staywise/internal/externalbookings/repository"
	propertyerrors "staywise/internal/properties/errors"
	propertyrepo "staywise/internal/properties/repository"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/sanitizer"
	"staywise/pkg/validation"
)

type ExternalBookingService interface {
	Create(ctx context.Context, userID string, req *model.ExternalBookingRequest) (*model.ExternalBooking, error)
	ListMine(ctx context.Context, userID string) ([]*model.ExternalBooking, error)
	ListForAdmin(ctx context.Context, adminID string) ([]*model.ExternalBooking, error)
	Cancel(ctx context.Context, userID, bookingID string) (*model.ExternalBooking, error)
}

type externalBookingService struct {
	repo         repository.ExternalBookingRepository
	propertyRepo propertyrepo.PropertyRepository
	userRepo     userrepo.UserRepository
	publisher    events.Publisher
	validator    *validation.Validator
	cfg          *config.Config
}

func NewExternalBookingService(
	repo repository.ExternalBookingRepository,
	propertyRepo propertyrepo.PropertyRepository,
	userRepo userrepo.UserRepository,
	publisher events.Publisher,
	validator *validation.Validator,
	cfg *config.Config,
) ExternalBookingService {
	return &externalBookingService{
		repo:         repo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		validator:    validator,
		cfg:          cfg,
	}
}

func (s *externalBookingService) Create(ctx context.Context, userID string, req *model.ExternalBookingRequest) (*model.ExternalBooking, error) {
	req.Name = sanitizer.TrimAndNormalize(req.Name)
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, apperrors.Validation("Invalid external booking payload", fieldErrs.Details())
		}
		return nil, apperrors.Internal("External booking validation failed", err)
	}

	startDate, endDate, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	booking := &model.ExternalBooking{
		UserID:     userID,
		Provider:   req.Provider,
		ExternalID: req.ExternalID,
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		Status:     model.BookingStatusActive,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalPrice: req.TotalPrice,
	}

	s.resolveOwnership(ctx, booking, req)

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create external booking", "user_id", userID, "external_id", req.ExternalID, "error", err)
		return nil, apperrors.Internal("Failed to create external booking", err)
	}

	s.publish(events.BookingEvent{
		Type:       events.TypeExternalBookingCreated,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		PropertyID: booking.PropertyID,
		AdminID:    booking.AdminID,
		Provider:   booking.Provider,
		TotalPrice: booking.TotalPrice,
	})

	s.cfg.Log.Info("External booking created",
		"id", booking.ID,
		"user_id", userID,
		"provider", booking.Provider,
		"resolved_admin", booking.AdminID != "",
	)
	return booking, nil
}

// resolveOwnership links the booking to a local property when one can be
// found, and only then records an owning admin. Ownership asserted by the
// client is ignored: the admin always comes from the property record itself.
func (s *externalBookingService) resolveOwnership(ctx context.Context, booking *model.ExternalBooking, req *model.ExternalBookingRequest) {
	candidateID := req.PropertyID
	if candidateID == "" {
		// Some clients put a local property id in external_id when booking
		// one of our own listings through the search results.
		if _, err := primitive.ObjectIDFromHex(req.ExternalID); err == nil {
			candidateID = req.ExternalID
		}
	}
	if candidateID == "" {
		return
	}

	property, err := s.propertyRepo.FindByID(ctx, candidateID)
	if err != nil {
		if !errors.Is(err, propertyerrors.ErrNotFound) && !errors.Is(err, propertyerrors.ErrInvalidID) {
			s.cfg.Log.Warn("Ownership resolution lookup failed", "property_id", candidateID, "error", err)
		}
		return
	}

	booking.PropertyID = property.ID
	booking.AdminID = property.OwnerID
	booking.HotelName = property.Title
}

func (s *externalBookingService) ListMine(ctx context.Context, userID string) ([]*model.ExternalBooking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list external bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve external bookings", err)
	}
	if bookings == nil {
		bookings = []*model.ExternalBooking{}
	}
	return bookings, nil
}

func (s *externalBookingService) ListForAdmin(ctx context.Context, adminID string) ([]*model.ExternalBooking, error) {
	if adminID == "" {
		return nil, apperrors.InvalidInput("Admin ID cannot be empty")
	}

	bookings, err := s.repo.FindByAdmin(ctx, adminID)
	if err != nil {
		s.cfg.Log.Error("Failed to list external bookings for admin", "admin_id", adminID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve external bookings", err)
	}

	if err := s.joinUserEmails(ctx, bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*model.ExternalBooking{}
	}
	return bookings, nil
}

func (s *externalBookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.ExternalBooking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, externalerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("External booking", bookingID)
		}
		if errors.Is(err, externalerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid external booking ID format")
		}
		return nil, apperrors.Internal("Failed to load external booking", err)
	}

	if booking.UserID != userID {
		return nil, apperrors.Forbidden("External booking belongs to another user")
	}

	// Cancelling twice is a no-op, not an error.
	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel external booking", "id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to cancel external booking", err)
	}
	booking.Status = model.BookingStatusCancelled
	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	s.publish(events.BookingEvent{
		Type:       events.TypeExternalBookingCancelled,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		PropertyID: booking.PropertyID,
		AdminID:    booking.AdminID,
		Provider:   booking.Provider,
		TotalPrice: booking.TotalPrice,
	})

	s.cfg.Log.Info("External booking cancelled", "id", bookingID, "user_id", userID)
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

func (s *externalBookingService) joinUserEmails(ctx context.Context, bookings []*model.ExternalBooking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.UserID)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to join user emails into external bookings", "error", err)
		return apperrors.Internal("Failed to retrieve booking users", err)
	}

	for _, b := range bookings {
		if u, ok := users[b.UserID]; ok {
			b.UserEmail = u.Email
		}
	}
	return nil
}

// publish emits the event without blocking the request and without failing it.
func (s *externalBookingService) publish(event events.BookingEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.cfg.Log.Warn("Failed to publish external booking event",
				"type", event.Type,
				"booking_id", event.BookingID,
				"error", err,
			)
		}
	}()
}
