package model

import "time"

const ProviderGoogle = "google"

// ExternalBooking records a stay booked against a listing that came from the
// hotel search provider. When the listing maps back to a local property the
// owning admin is resolved server-side; a client-asserted owner is never
// trusted. TotalPrice is supplied by the caller and not re-quoted.
type ExternalBooking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Provider   string    `json:"provider" bson:"provider" validate:"required,oneof=google"`
	ExternalID string    `json:"external_id" bson:"external_id" validate:"required"`
	Name       string    `json:"name" bson:"name" validate:"required"`
	ImageURL   string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	AdminID    string    `json:"admin_id,omitempty" bson:"admin_id,omitempty"`
	HotelName  string    `json:"hotel_name,omitempty" bson:"hotel_name,omitempty"`
	PropertyID string    `json:"property_id,omitempty" bson:"property_id,omitempty"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=active cancelled"`
	StartDate  time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	TotalPrice float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`

	// Joined in for the admin-side view, not persisted.
	UserEmail string `json:"user_email,omitempty" bson:"-"`
}

type ExternalBookingRequest struct {
	Provider   string  `json:"provider" validate:"required,oneof=google"`
	ExternalID string  `json:"external_id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	ImageURL   string  `json:"image_url" validate:"omitempty,url"`
	PropertyID string  `json:"property_id" validate:"omitempty,mongodb"`
	StartDate  string  `json:"start_date" validate:"required"`
	EndDate    string  `json:"end_date" validate:"required"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
}
