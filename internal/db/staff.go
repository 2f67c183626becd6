package db

import (
	"context"
	"time"

	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StaffCollection defines the interface for staff account operations
type StaffCollection interface {
	InsertStaff(ctx context.Context, staff models.Staff) error
	FindStaffByID(ctx context.Context, id string) (*models.Staff, error)
	FindStaffByUsername(ctx context.Context, username string) (*models.Staff, error)
	FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	UpdateStaff(ctx context.Context, id string, staff models.Staff) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// MongoStaffCollection implements StaffCollection for MongoDB
type MongoStaffCollection struct {
	Collection *mongo.Collection
}

// InsertStaff inserts a new staff account
func (c *MongoStaffCollection) InsertStaff(ctx context.Context, staff models.Staff) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	staff.IsActive = true

	_, err := c.Collection.InsertOne(ctx, staff)
	return err
}

// FindStaffByID finds a staff account by its ID
func (c *MongoStaffCollection) FindStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, bson.M{"_id": objectID})
}

// FindStaffByUsername finds a staff account by username
func (c *MongoStaffCollection) FindStaffByUsername(ctx context.Context, username string) (*models.Staff, error) {
	return c.findOne(ctx, bson.M{"username": username})
}

// FindStaffByEmail finds a staff account by email
func (c *MongoStaffCollection) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return c.findOne(ctx, bson.M{"email": email})
}

func (c *MongoStaffCollection) findOne(ctx context.Context, filter bson.M) (*models.Staff, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var staff models.Staff
	if err := decodeOne(c.Collection.FindOne(ctx, filter), &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

// UpdateStaff replaces a staff account
func (c *MongoStaffCollection) UpdateStaff(ctx context.Context, id string, staff models.Staff) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	staff.UpdatedAt = time.Now()
	staff.ID = objectID

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, staff)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastLogin updates the last login time for a staff account
func (c *MongoStaffCollection) UpdateLastLogin(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"lastLogin": now, "updatedAt": now}},
	)
	return err
}
