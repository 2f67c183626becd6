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

// MongoCarCollection implements CarCollection for MongoDB.
type MongoCarCollection struct {
	Collection *mongo.Collection
}

// InsertCar inserts a car, assigning its ID and timestamps.
func (c *MongoCarCollection) InsertCar(ctx context.Context, car *models.Car) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	now := time.Now()
	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	car.CreatedAt = now
	car.UpdatedAt = now
	if car.Features == nil {
		car.Features = []string{}
	}
	_, err := c.Collection.InsertOne(ctx, car)
	return err
}

// carFilterDoc builds the query document for a car listing.
func carFilterDoc(filter models.CarFilter) bson.M {
	doc := bson.M{}
	if filter.Type != nil {
		doc["type"] = *filter.Type
	}
	if filter.FuelType != nil {
		doc["fuelType"] = *filter.FuelType
	}
	if filter.IsAvailable != nil {
		doc["isAvailable"] = *filter.IsAvailable
	}
	return doc
}

// FindCars lists cars matching filter, newest first.
func (c *MongoCarCollection) FindCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	return c.find(ctx, carFilterDoc(filter))
}

// FindCarsByIDs loads the cars with the given IDs.
func (c *MongoCarCollection) FindCarsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Car, error) {
	if len(ids) == 0 {
		return []models.Car{}, nil
	}
	return c.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (c *MongoCarCollection) find(ctx context.Context, filter bson.M) ([]models.Car, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// FindCarByID finds a car by its ID.
func (c *MongoCarCollection) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var car models.Car
	if err := decodeOne(c.Collection.FindOne(ctx, bson.M{"_id": objectID}), &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// carUpdateDoc sets the staff-editable fields and the derived daily rate.
// Availability is left alone; it only changes through the booking flow and
// SetCarAvailability.
func carUpdateDoc(car models.Car, now time.Time) bson.M {
	features := car.Features
	if features == nil {
		features = []string{}
	}
	return bson.M{"$set": bson.M{
		"brand":           car.Brand,
		"model":           car.Model,
		"type":            car.Type,
		"fuelType":        car.FuelType,
		"transmission":    car.Transmission,
		"seats":           car.Seats,
		"luggageCapacity": car.LuggageCapacity,
		"mileage":         car.Mileage,
		"pricePerDay":     car.PricePerDay,
		"lastMaintenance": car.LastMaintenance,
		"features":        features,
		"imageUrl":        car.ImageURL,
		"description":     car.Description,
		"updatedAt":       now,
	}}
}

// UpdateCar writes the editable fields of car.
func (c *MongoCarCollection) UpdateCar(ctx context.Context, car models.Car) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": car.ID}, carUpdateDoc(car, time.Now()))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCarAvailability sets the availability flag of a car.
func (c *MongoCarCollection) SetCarAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return c.updateAvailability(ctx, bson.M{"_id": id}, available, ErrNotFound)
}

// ReserveCar marks an available car unavailable. It fails with
// ErrWriteConflict if the car is not available any more.
func (c *MongoCarCollection) ReserveCar(ctx context.Context, id primitive.ObjectID) error {
	return c.updateAvailability(ctx, bson.M{"_id": id, "isAvailable": true}, false, ErrWriteConflict)
}

func (c *MongoCarCollection) updateAvailability(ctx context.Context, filter bson.M, available bool, missErr error) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"isAvailable": available, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return missErr
	}
	return nil
}

// DeleteCar deletes a car by its ID.
func (c *MongoCarCollection) DeleteCar(ctx context.Context, id primitive.ObjectID) error {
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
