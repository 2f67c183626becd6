package db

import (
	"context"
	"time"

	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking, assigning its ID and timestamps.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	now := time.Now()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	_, err := c.Collection.InsertOne(ctx, booking)
	return err
}

// FindBookings lists all bookings, newest first.
func (c *MongoBookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	return c.find(ctx, bson.M{})
}

// FindBookingByID finds a booking by its ID.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	if err := decodeOne(c.Collection.FindOne(ctx, bson.M{"_id": objectID}), &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// byCarFilter matches the bookings of one car, optionally restricted to statuses.
func byCarFilter(carID primitive.ObjectID, statuses []models.BookingStatus) bson.M {
	filter := bson.M{"car": carID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return filter
}

// rangeFilter matches bookings whose rental period touches [start, end].
func rangeFilter(start, end time.Time) bson.M {
	return bson.M{
		"rentalDetails.startDate": bson.M{"$lte": end},
		"rentalDetails.endDate":   bson.M{"$gte": start},
	}
}

// overdueFilter matches active bookings whose end date is before now.
func overdueFilter(now time.Time) bson.M {
	return bson.M{
		"status":                models.BookingActive,
		"rentalDetails.endDate": bson.M{"$lt": now},
	}
}

// FindBookingsByCar lists the bookings of a car.
func (c *MongoBookingCollection) FindBookingsByCar(ctx context.Context, carID primitive.ObjectID, statuses ...models.BookingStatus) ([]models.Booking, error) {
	return c.find(ctx, byCarFilter(carID, statuses))
}

// FindBookingsInRange lists bookings overlapping [start, end].
func (c *MongoBookingCollection) FindBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return c.find(ctx, rangeFilter(start, end))
}

// FindOverdueBookings lists active bookings that should have ended by now.
func (c *MongoBookingCollection) FindOverdueBookings(ctx context.Context, now time.Time) ([]models.Booking, error) {
	return c.find(ctx, overdueFilter(now))
}

func (c *MongoBookingCollection) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingIf replaces booking only if its stored status and payment
// status still equal the given values. It returns ErrWriteConflict when
// they do not.
func (c *MongoBookingCollection) UpdateBookingIf(ctx context.Context, booking models.Booking, status models.BookingStatus, payment models.PaymentStatus) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	booking.UpdatedAt = time.Now()
	filter := bson.M{"_id": booking.ID, "status": status, "paymentStatus": payment}
	result, err := c.Collection.ReplaceOne(ctx, filter, booking)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrWriteConflict
	}
	return nil
}

// DeleteBooking deletes a booking by its ID.
func (c *MongoBookingCollection) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
