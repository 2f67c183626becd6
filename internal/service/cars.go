package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/db"
	"github.com/ukydev/car-rental-portal/internal/events"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/pricing"
	"github.com/ukydev/car-rental-portal/internal/rental"
)

const carNotFound = "Car not found"

// CarService manages the fleet.
type CarService struct {
	cars      db.CarCollection
	bookings  db.BookingCollection
	tx        db.Transactor
	publisher events.Publisher
}

// NewCarService creates a car service
func NewCarService(cars db.CarCollection, bookings db.BookingCollection, tx db.Transactor, publisher events.Publisher) *CarService {
	return &CarService{cars: cars, bookings: bookings, tx: tx, publisher: publisher}
}

// List returns the cars matching filter, newest first.
func (s *CarService) List(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	if filter.Type != nil && !models.IsValidCarType(*filter.Type) {
		return nil, rental.Validation("type", fmt.Sprintf("unknown car type %q", *filter.Type))
	}
	if filter.FuelType != nil && !models.IsValidFuelType(*filter.FuelType) {
		return nil, rental.Validation("fuelType", fmt.Sprintf("unknown fuel type %q", *filter.FuelType))
	}
	cars, err := s.cars.FindCars(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

// Get returns one car.
func (s *CarService) Get(ctx context.Context, id string) (*models.Car, error) {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "car", carNotFound)
	}
	return car, nil
}

// Create adds a car to the fleet. Its daily rate is derived from its type
// and fuel type, and it starts out available.
func (s *CarService) Create(ctx context.Context, in models.CarInput) (*models.Car, error) {
	in, err := rental.ValidateCarInput(in)
	if err != nil {
		return nil, err
	}
	rate, err := pricing.ComputeCarDailyRate(in.Type, in.FuelType)
	if err != nil {
		return nil, err
	}

	car := applyCarInput(models.Car{}, in)
	car.PricePerDay = rate.InexactFloat64()
	car.IsAvailable = true
	if err := s.cars.InsertCar(ctx, &car); err != nil {
		return nil, fmt.Errorf("insert car: %w", err)
	}

	log.WithFields(log.Fields{"carId": car.ID.Hex(), "brand": car.Brand, "model": car.Model, "pricePerDay": car.PricePerDay}).Info("Car created")
	events.Emit(ctx, s.publisher, events.New(events.CarCreated, "", car.ID.Hex(), map[string]interface{}{
		"type":        car.Type,
		"fuelType":    car.FuelType,
		"pricePerDay": car.PricePerDay,
	}))
	return &car, nil
}

// Update replaces the editable fields of a car and recomputes its daily rate.
func (s *CarService) Update(ctx context.Context, id string, in models.CarInput) (*models.Car, error) {
	in, err := rental.ValidateCarInput(in)
	if err != nil {
		return nil, err
	}
	rate, err := pricing.ComputeCarDailyRate(in.Type, in.FuelType)
	if err != nil {
		return nil, err
	}

	var updated models.Car
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.cars.FindCarByID(ctx, id)
		if err != nil {
			return lookupError(err, "car", carNotFound)
		}
		updated = applyCarInput(*existing, in)
		updated.PricePerDay = rate.InexactFloat64()
		if err := s.cars.UpdateCar(ctx, updated); err != nil {
			return lookupError(err, "car", carNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	events.Emit(ctx, s.publisher, events.New(events.CarUpdated, "", updated.ID.Hex(), map[string]interface{}{
		"pricePerDay": updated.PricePerDay,
	}))
	return &updated, nil
}

// Delete removes a car unless an active or pending booking still holds it.
func (s *CarService) Delete(ctx context.Context, id string) error {
	var carID string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		car, err := s.cars.FindCarByID(ctx, id)
		if err != nil {
			return lookupError(err, "car", carNotFound)
		}
		related, err := s.bookings.FindBookingsByCar(ctx, car.ID, rental.DeleteBlockingStatuses...)
		if err != nil {
			return fmt.Errorf("find bookings of car: %w", err)
		}
		if err := rental.CheckDeletable(*car, related); err != nil {
			return err
		}
		if err := s.cars.DeleteCar(ctx, car.ID); err != nil {
			return lookupError(err, "car", carNotFound)
		}
		carID = car.ID.Hex()
		return nil
	})
	if err != nil {
		return err
	}

	log.WithField("carId", carID).Info("Car deleted")
	events.Emit(ctx, s.publisher, events.New(events.CarDeleted, "", carID, nil))
	return nil
}

// SetAvailability toggles whether a car can be booked, subject to the
// availability gatekeeper.
func (s *CarService) SetAvailability(ctx context.Context, id string, available bool) (*models.Car, error) {
	var result models.Car
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		car, err := s.cars.FindCarByID(ctx, id)
		if err != nil {
			return lookupError(err, "car", carNotFound)
		}
		related, err := s.bookings.FindBookingsByCar(ctx, car.ID, rental.BlockingStatuses()...)
		if err != nil {
			return fmt.Errorf("find bookings of car: %w", err)
		}
		if err := rental.CheckAvailabilityToggle(*car, related, available); err != nil {
			return err
		}
		if err := s.cars.SetCarAvailability(ctx, car.ID, available); err != nil {
			return lookupError(err, "car", carNotFound)
		}
		result = *car
		result.IsAvailable = available
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, events.New(events.CarAvailabilityChanged, "", result.ID.Hex(), map[string]interface{}{
		"isAvailable": available,
	}))
	return &result, nil
}

// AvailabilityQuery narrows an availability search. The date range only
// applies when both ends are set.
type AvailabilityQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	CarType   *models.CarType
	FuelType  *models.FuelType
}

// CheckAvailability lists available cars, dropping those with a pending,
// confirmed or active booking that overlaps the requested dates.
func (s *CarService) CheckAvailability(ctx context.Context, q AvailabilityQuery) ([]models.Car, error) {
	available := true
	cars, err := s.List(ctx, models.CarFilter{Type: q.CarType, FuelType: q.FuelType, IsAvailable: &available})
	if err != nil {
		return nil, err
	}
	if q.StartDate == nil || q.EndDate == nil {
		return cars, nil
	}
	if q.EndDate.Before(*q.StartDate) {
		return nil, rental.Validation("endDate", "end date must not be before start date")
	}

	bookings, err := s.bookings.FindBookingsInRange(ctx, *q.StartDate, *q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("find bookings in range: %w", err)
	}
	return rental.FilterFreeCars(cars, bookings, *q.StartDate, *q.EndDate), nil
}

// RentalHistory returns the bookings of one car and its total rented days.
func (s *CarService) RentalHistory(ctx context.Context, id string) (*models.RentalHistory, error) {
	car, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindBookingsByCar(ctx, car.ID)
	if err != nil {
		return nil, fmt.Errorf("find bookings of car: %w", err)
	}
	return &models.RentalHistory{
		Car:             car.Summary(),
		Bookings:        bookings,
		TotalRentalDays: rental.TotalRentalDays(bookings),
	}, nil
}

func applyCarInput(car models.Car, in models.CarInput) models.Car {
	car.Brand = in.Brand
	car.Model = in.Model
	car.Type = in.Type
	car.FuelType = in.FuelType
	car.Transmission = in.Transmission
	car.Seats = in.Seats
	car.LuggageCapacity = in.LuggageCapacity
	car.Mileage = in.Mileage
	car.LastMaintenance = in.LastMaintenance
	car.Features = in.Features
	car.ImageURL = in.ImageURL
	car.Description = in.Description
	return car
}
