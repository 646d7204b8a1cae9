package model

import "time"

const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// Booking snapshots the property owner, the property title and the booker's
// display name at creation time. The copies are never refreshed when the
// source records change; owner- and user-scoped listings read them directly
// instead of joining collections.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	UserDisplayName string    `json:"user_display_name" bson:"user_display_name"`
	PropertyID      string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	HotelName       string    `json:"hotel_name" bson:"hotel_name"`
	AdminID         string    `json:"admin_id,omitempty" bson:"admin_id,omitempty"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=active cancelled"`
	StartDate       time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	TotalPrice      float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`

	// Joined in by list queries for display, not persisted.
	Property *Property   `json:"property,omitempty" bson:"-"`
	User     *PublicUser `json:"user,omitempty" bson:"-"`
}

type BookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,mongodb"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
}
