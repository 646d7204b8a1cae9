package service

import (
	"context"
	"testing"
	"time"

	userrepo "staywise/internal/auth/repository"
	bookingerrors "staywise/internal/bookings/errors"
	"staywise/internal/events"
	propertyerrors "staywise/internal/properties/errors"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/logger"
	"staywise/pkg/model"
	"staywise/pkg/validation"
)

const (
	testUserID     = "507f1f77bcf86cd799439011"
	testAdminID    = "507f1f77bcf86cd799439012"
	testPropertyID = "507f191e810c19729de860ea"
	testBookingID  = "65f1c0ffee0ddf00aa11bb22"
)

// Mock repositories for testing
type mockBookingRepository struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	findByUserFunc   func(ctx context.Context, userID string) ([]*model.Booking, error)
	findByAdminFunc  func(ctx context.Context, adminID string) ([]*model.Booking, error)
	findAllFunc      func(ctx context.Context) ([]*model.Booking, error)
	updateStatusFunc func(ctx context.Context, id string, status string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = testBookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByAdmin(ctx context.Context, adminID string) ([]*model.Booking, error) {
	if m.findByAdminFunc != nil {
		return m.findByAdminFunc(ctx, adminID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockPropertyRepository struct {
	findByIDFunc  func(ctx context.Context, id string) (*model.Property, error)
	findByIDsFunc func(ctx context.Context, ids []string) (map[string]*model.Property, error)
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) FindAll(ctx context.Context) ([]*model.Property, error) {
	return []*model.Property{}, nil
}

func (m *mockPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
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

type mockUserRepository struct {
	findByIDsFunc func(ctx context.Context, ids []string) (map[string]*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return map[string]*model.User{}, nil
}

// channelPublisher captures published events for assertion. Publishing runs
// on a goroutine, so tests receive with a timeout.
type channelPublisher struct {
	events chan events.BookingEvent
}

func newChannelPublisher() *channelPublisher {
	return &channelPublisher{events: make(chan events.BookingEvent, 8)}
}

func (p *channelPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	p.events <- event
	return nil
}

func (p *channelPublisher) Close() error { return nil }

func (p *channelPublisher) wait(t *testing.T) events.BookingEvent {
	t.Helper()
	select {
	case event := <-p.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
		return events.BookingEvent{}
	}
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

func testProperty() *model.Property {
	return &model.Property{
		ID:            testPropertyID,
		Title:         "Seaside Loft",
		Description:   "Quiet place",
		Location:      "Lisbon",
		PricePerNight: 180,
		OwnerID:       testAdminID,
	}
}

func newTestService(
	repo *mockBookingRepository,
	propertyRepo *mockPropertyRepository,
	userRepo userrepo.UserRepository,
	publisher events.Publisher,
) *bookingService {
	if userRepo == nil {
		userRepo = &mockUserRepository{}
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &bookingService{
		repo:         repo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		validator:    validation.New(),
		cfg:          testConfig(),
	}
}

func TestCreate_ComputesPriceAndSnapshots(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = testBookingID
			created = booking
			return nil
		},
	}
	propertyRepo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return testProperty(), nil
		},
	}
	publisher := newChannelPublisher()
	svc := newTestService(repo, propertyRepo, nil, publisher)

	booking, err := svc.Create(context.Background(), testUserID, "guest@example.com", &model.BookingRequest{
		PropertyID: testPropertyID,
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-04",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 nights at 180
	if booking.TotalPrice != 540 {
		t.Errorf("expected total price 540, got %v", booking.TotalPrice)
	}
	if created.AdminID != testAdminID {
		t.Errorf("admin snapshot missing: %q", created.AdminID)
	}
	if created.HotelName != "Seaside Loft" {
		t.Errorf("hotel name snapshot missing: %q", created.HotelName)
	}
	if created.UserDisplayName != "guest@example.com" {
		t.Errorf("display name snapshot missing: %q", created.UserDisplayName)
	}
	if created.Status != model.BookingStatusActive {
		t.Errorf("expected active status, got %q", created.Status)
	}

	event := publisher.wait(t)
	if event.Type != events.TypeBookingCreated {
		t.Errorf("expected booking.created event, got %q", event.Type)
	}
	if event.BookingID != testBookingID {
		t.Errorf("unexpected event booking ID: %q", event.BookingID)
	}
}

func TestCreate_PartialNightRoundsUp(t *testing.T) {
	repo := &mockBookingRepository{}
	propertyRepo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return testProperty(), nil
		},
	}
	svc := newTestService(repo, propertyRepo, nil, nil)

	booking, err := svc.Create(context.Background(), testUserID, "guest@example.com", &model.BookingRequest{
		PropertyID: testPropertyID,
		StartDate:  "2026-03-01T15:00:00Z",
		EndDate:    "2026-03-02T11:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.TotalPrice != 180 {
		t.Errorf("expected one billable night (180), got %v", booking.TotalPrice)
	}
}

func TestCreate_DateValidation(t *testing.T) {
	repo := &mockBookingRepository{}
	propertyRepo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return testProperty(), nil
		},
	}
	svc := newTestService(repo, propertyRepo, nil, nil)

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"start after end", "2026-03-04", "2026-03-01"},
		{"start equals end", "2026-03-01", "2026-03-01"},
		{"garbage start", "not-a-date", "2026-03-04"},
		{"garbage end", "2026-03-01", "03/04/2026"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), testUserID, "guest@example.com", &model.BookingRequest{
				PropertyID: testPropertyID,
				StartDate:  tc.start,
				EndDate:    tc.end,
			})
			appErr := apperrors.AsAppError(err)
			if appErr.StatusCode() != 400 {
				t.Errorf("expected 400, got %d", appErr.StatusCode())
			}
		})
	}
}

func TestCreate_MissingPropertyIs404(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockPropertyRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), testUserID, "guest@example.com", &model.BookingRequest{
		PropertyID: testPropertyID,
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-04",
	})
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 404 {
		t.Errorf("expected 404, got %d", appErr.StatusCode())
	}
}

func TestCancel(t *testing.T) {
	activeBooking := func() *model.Booking {
		return &model.Booking{
			ID:         testBookingID,
			UserID:     testUserID,
			PropertyID: testPropertyID,
			Status:     model.BookingStatusActive,
		}
	}

	t.Run("owner cancels", func(t *testing.T) {
		var updatedStatus string
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return activeBooking(), nil
			},
			updateStatusFunc: func(ctx context.Context, id string, status string) error {
				updatedStatus = status
				return nil
			},
		}
		publisher := newChannelPublisher()
		svc := newTestService(repo, &mockPropertyRepository{}, nil, publisher)

		booking, err := svc.Cancel(context.Background(), testUserID, testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.BookingStatusCancelled {
			t.Errorf("expected cancelled, got %q", booking.Status)
		}
		if updatedStatus != model.BookingStatusCancelled {
			t.Errorf("repository not updated, status %q", updatedStatus)
		}

		event := publisher.wait(t)
		if event.Type != events.TypeBookingCancelled {
			t.Errorf("expected booking.cancelled event, got %q", event.Type)
		}
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		updateCalled := false
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				b := activeBooking()
				b.Status = model.BookingStatusCancelled
				return b, nil
			},
			updateStatusFunc: func(ctx context.Context, id string, status string) error {
				updateCalled = true
				return nil
			},
		}
		svc := newTestService(repo, &mockPropertyRepository{}, nil, nil)

		booking, err := svc.Cancel(context.Background(), testUserID, testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.BookingStatusCancelled {
			t.Errorf("expected cancelled, got %q", booking.Status)
		}
		if updateCalled {
			t.Error("cancelling twice must not touch the repository")
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return activeBooking(), nil
			},
		}
		svc := newTestService(repo, &mockPropertyRepository{}, nil, nil)

		_, err := svc.Cancel(context.Background(), "507f1f77bcf86cd799439099", testBookingID)
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != 403 {
			t.Errorf("expected 403, got %d", appErr.StatusCode())
		}
	})

	t.Run("missing is 404", func(t *testing.T) {
		svc := newTestService(&mockBookingRepository{}, &mockPropertyRepository{}, nil, nil)

		_, err := svc.Cancel(context.Background(), testUserID, testBookingID)
		appErr := apperrors.AsAppError(err)
		if appErr.StatusCode() != 404 {
			t.Errorf("expected 404, got %d", appErr.StatusCode())
		}
	})
}

func TestListMine_JoinsProperties(t *testing.T) {
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: testBookingID, UserID: userID, PropertyID: testPropertyID},
			}, nil
		},
	}
	propertyRepo := &mockPropertyRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.Property, error) {
			return map[string]*model.Property{testPropertyID: testProperty()}, nil
		},
	}
	svc := newTestService(repo, propertyRepo, nil, nil)

	bookings, err := svc.ListMine(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if bookings[0].Property == nil || bookings[0].Property.Title != "Seaside Loft" {
		t.Errorf("property not joined: %+v", bookings[0].Property)
	}
}

func TestListAll_JoinsUsers(t *testing.T) {
	repo := &mockBookingRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: testBookingID, UserID: testUserID, PropertyID: testPropertyID},
			}, nil
		},
	}
	userRepo := &mockUserRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.User, error) {
			return map[string]*model.User{
				testUserID: {ID: testUserID, Email: "guest@example.com", Role: model.RoleUser},
			}, nil
		},
	}
	svc := newTestService(repo, &mockPropertyRepository{}, userRepo, nil)

	bookings, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookings[0].User == nil || bookings[0].User.Email != "guest@example.com" {
		t.Errorf("user not joined: %+v", bookings[0].User)
	}
}

func TestListForOwner_UsesDenormalizedOwner(t *testing.T) {
	var queriedAdmin string
	repo := &mockBookingRepository{
		findByAdminFunc: func(ctx context.Context, adminID string) ([]*model.Booking, error) {
			queriedAdmin = adminID
			return []*model.Booking{}, nil
		},
	}
	svc := newTestService(repo, &mockPropertyRepository{}, nil, nil)

	if _, err := svc.ListForOwner(context.Background(), testAdminID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if queriedAdmin != testAdminID {
		t.Errorf("expected query on admin %q, got %q", testAdminID, queriedAdmin)
	}
}
