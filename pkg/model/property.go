package model

import "time"

type Property struct {
	ID            string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title         string   `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description   string   `json:"description" bson:"description" validate:"required"`
	Location      string   `json:"location" bson:"location" validate:"required,min=2,max=200"`
	PricePerNight float64  `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	Images        []string `json:"images" bson:"images"`
	// OwnerID is empty on rows created before ownership tracking existed.
	OwnerID   string    `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type PropertyRequest struct {
	Title         string   `json:"title" validate:"required,min=2,max=200"`
	Description   string   `json:"description" validate:"required"`
	Location      string   `json:"location" validate:"required,min=2,max=200"`
	PricePerNight float64  `json:"price_per_night" validate:"gte=0"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
}
