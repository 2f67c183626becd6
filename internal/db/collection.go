package db

import (
	"context"
	"time"

	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarCollection defines the interface for car data operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car *models.Car) error
	FindCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error)
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	FindCarsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Car, error)
	UpdateCar(ctx context.Context, car models.Car) error
	SetCarAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
	ReserveCar(ctx context.Context, id primitive.ObjectID) error
	DeleteCar(ctx context.Context, id primitive.ObjectID) error
}

// BookingCollection defines the interface for booking data operations.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking *models.Booking) error
	FindBookings(ctx context.Context) ([]models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	FindBookingsByCar(ctx context.Context, carID primitive.ObjectID, statuses ...models.BookingStatus) ([]models.Booking, error)
	FindBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	FindOverdueBookings(ctx context.Context, now time.Time) ([]models.Booking, error)
	UpdateBookingIf(ctx context.Context, booking models.Booking, status models.BookingStatus, payment models.PaymentStatus) error
	DeleteBooking(ctx context.Context, id primitive.ObjectID) error
}

// Transactor runs fn so that all writes made through ctx commit together
// or not at all.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
