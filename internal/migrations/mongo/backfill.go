package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"staywise/pkg/model"
)

// legacyDisplayName is written when the booking's user record no longer
// resolves; the owner dashboard needs something to show.
const legacyDisplayName = "StayWise guest"

// BackfillLegacyBookings rewrites bookings created before the snapshot
// fields existed: rows without an admin_id get admin_id, hotel_name and
// user_display_name filled in from their referenced property and user.
// It runs offline, never as a request handler.
func BackfillLegacyBookings(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	bookings := db.Collection("bookings")
	properties := db.Collection("properties")
	users := db.Collection("users")

	cursor, err := bookings.Find(ctx, bson.M{"admin_id": bson.M{"$exists": false}})
	if err != nil {
		return fmt.Errorf("failed to find legacy bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var scanned, updated, skipped int
	for cursor.Next(ctx) {
		var booking model.Booking
		if err := cursor.Decode(&booking); err != nil {
			return fmt.Errorf("failed to decode legacy booking: %w", err)
		}
		scanned++

		set := bson.M{}

		property, err := findPropertyByHex(ctx, properties, booking.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			// Property gone, nothing to snapshot from.
			skipped++
			fmt.Printf("⚠️ Skipping booking %s: property %s not found\n", booking.ID, booking.PropertyID)
			continue
		}

		if property.OwnerID != "" {
			set["admin_id"] = property.OwnerID
		}
		if booking.HotelName == "" {
			set["hotel_name"] = property.Title
		}
		if booking.UserDisplayName == "" {
			set["user_display_name"] = displayNameForUser(ctx, users, booking.UserID)
		}

		if len(set) == 0 {
			skipped++
			continue
		}

		objectID, err := primitive.ObjectIDFromHex(booking.ID)
		if err != nil {
			return fmt.Errorf("legacy booking has malformed id %q: %w", booking.ID, err)
		}
		if _, err := bookings.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}); err != nil {
			return fmt.Errorf("failed to backfill booking %s: %w", booking.ID, err)
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("legacy booking scan failed: %w", err)
	}

	fmt.Printf("✅ Backfill complete: %d scanned, %d updated, %d skipped\n", scanned, updated, skipped)
	return nil
}

func findPropertyByHex(ctx context.Context, properties *mongo.Collection, id string) (*model.Property, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var property model.Property
	err = properties.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load property %s: %w", id, err)
	}
	return &property, nil
}

func displayNameForUser(ctx context.Context, users *mongo.Collection, id string) string {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return legacyDisplayName
	}

	var user model.User
	if err := users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return legacyDisplayName
	}
	return user.Email
}
