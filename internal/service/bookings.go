package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/db"
	"github.com/ukydev/car-rental-portal/internal/events"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/pricing"
	"github.com/ukydev/car-rental-portal/internal/rental"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const bookingNotFound = "Booking not found. Please check the booking ID and try again."

// BookingService runs the booking lifecycle. Every state change is a
// read-decide-write inside one transaction.
type BookingService struct {
	cars      db.CarCollection
	bookings  db.BookingCollection
	tx        db.Transactor
	publisher events.Publisher
	now       func() time.Time
}

// NewBookingService creates a booking service
func NewBookingService(cars db.CarCollection, bookings db.BookingCollection, tx db.Transactor, publisher events.Publisher) *BookingService {
	return &BookingService{cars: cars, bookings: bookings, tx: tx, publisher: publisher, now: time.Now}
}

// Create books an available car. The booking is priced once here and the
// car becomes unavailable in the same transaction.
func (s *BookingService) Create(ctx context.Context, in models.BookingInput) (*models.Booking, pricing.Breakdown, error) {
	in, err := rental.ValidateBookingInput(in)
	if err != nil {
		return nil, pricing.Breakdown{}, err
	}

	var (
		booking   models.Booking
		breakdown pricing.Breakdown
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		car, err := s.cars.FindCarByID(ctx, in.CarID)
		if err != nil {
			return lookupError(err, "car", "Selected car not found. Please choose a different car.")
		}
		if !car.IsAvailable {
			return carUnavailable()
		}

		breakdown, err = pricing.ComputeBookingPricing(car.Type, car.FuelType, in.RentalDetails.NumberOfDays, in.RentalDetails.Extras)
		if err != nil {
			return err
		}
		booking = models.Booking{
			Customer:      in.Customer,
			CarID:         car.ID,
			RentalDetails: in.RentalDetails,
			Pricing:       breakdown.Model(),
			Status:        models.BookingPending,
			PaymentStatus: models.PaymentPending,
			Notes:         in.Notes,
		}

		if err := s.cars.ReserveCar(ctx, car.ID); err != nil {
			if errors.Is(err, db.ErrWriteConflict) {
				return carUnavailable()
			}
			return fmt.Errorf("reserve car: %w", err)
		}
		if err := s.bookings.InsertBooking(ctx, &booking); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pricing.Breakdown{}, err
	}

	log.WithFields(log.Fields{
		"bookingId":  booking.ID.Hex(),
		"carId":      booking.CarID.Hex(),
		"days":       booking.RentalDetails.NumberOfDays,
		"totalPrice": booking.Pricing.TotalPrice,
	}).Info("Booking created")
	events.Emit(ctx, s.publisher, events.New(events.BookingCreated, booking.ID.Hex(), booking.CarID.Hex(), map[string]interface{}{
		"totalPrice": booking.Pricing.TotalPrice,
		"deposit":    booking.Pricing.Deposit,
		"startDate":  booking.RentalDetails.StartDate,
		"endDate":    booking.RentalDetails.EndDate,
	}))
	return &booking, breakdown, nil
}

func carUnavailable() error {
	return rental.Validation("car", "Selected car is not available for booking.")
}

// QuoteRequest asks for a price without booking. CarID, when set, takes
// the car type and fuel type from that car.
type QuoteRequest struct {
	CarID        string          `json:"car"`
	CarType      models.CarType  `json:"type"`
	FuelType     models.FuelType `json:"fuelType"`
	NumberOfDays int             `json:"numberOfDays"`
	Extras       models.Extras   `json:"extras"`
}

// Quote prices a rental without persisting anything.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (pricing.Breakdown, error) {
	carType, fuelType := req.CarType, req.FuelType
	if req.CarID != "" {
		car, err := s.cars.FindCarByID(ctx, req.CarID)
		if err != nil {
			return pricing.Breakdown{}, lookupError(err, "car", carNotFound)
		}
		carType, fuelType = car.Type, car.FuelType
	}
	return pricing.ComputeBookingPricing(carType, fuelType, req.NumberOfDays, req.Extras)
}

// List returns every booking, newest first, with its car summary.
func (s *BookingService) List(ctx context.Context) ([]models.BookingView, error) {
	bookings, err := s.bookings.FindBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	cars, err := s.carsOf(ctx, bookings)
	if err != nil {
		return nil, err
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, viewOf(b, cars))
	}
	return views, nil
}

// Get returns one booking with its car summary.
func (s *BookingService) Get(ctx context.Context, id string) (*models.BookingView, error) {
	booking, err := s.bookings.FindBookingByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "booking", bookingNotFound)
	}
	cars, err := s.carsOf(ctx, []models.Booking{*booking})
	if err != nil {
		return nil, err
	}
	view := viewOf(*booking, cars)
	return &view, nil
}

// Delete removes a booking that is not active. If no other booking still
// holds the car, the car becomes available again.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	var deleted models.Booking
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.FindBookingByID(ctx, id)
		if err != nil {
			return lookupError(err, "booking", bookingNotFound)
		}
		if err := rental.CheckBookingDeletable(*booking); err != nil {
			return err
		}
		if err := s.bookings.DeleteBooking(ctx, booking.ID); err != nil {
			return lookupError(err, "booking", bookingNotFound)
		}

		holding, err := s.bookings.FindBookingsByCar(ctx, booking.CarID, rental.OccupyingStatuses...)
		if err != nil {
			return fmt.Errorf("find bookings of car: %w", err)
		}
		if len(holding) == 0 {
			err := s.cars.SetCarAvailability(ctx, booking.CarID, true)
			if err != nil && !errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("release car: %w", err)
			}
		}
		deleted = *booking
		return nil
	})
	if err != nil {
		return err
	}

	log.WithField("bookingId", deleted.ID.Hex()).Info("Booking deleted")
	events.Emit(ctx, s.publisher, events.New(events.BookingDeleted, deleted.ID.Hex(), deleted.CarID.Hex(), map[string]interface{}{
		"status": deleted.Status,
	}))
	return nil
}

// UpdateStatus moves a booking to a new lifecycle status.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	prev, next, err := s.transition(ctx, id, func(booking models.Booking, car *models.Car) (models.Booking, *models.Car, error) {
		return rental.ApplyStatusTransition(booking, car, status, s.now())
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"bookingId": next.ID.Hex(), "from": prev.Status, "to": next.Status}).Info("Booking status changed")
	events.Emit(ctx, s.publisher, events.New(events.BookingStatusChanged, next.ID.Hex(), next.CarID.Hex(), map[string]interface{}{
		"from":          prev.Status,
		"to":            next.Status,
		"paymentStatus": next.PaymentStatus,
	}))
	return &next, nil
}

// UpdatePaymentStatus moves a booking to a new payment status.
func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id string, payment models.PaymentStatus) (*models.Booking, error) {
	prev, next, err := s.transition(ctx, id, func(booking models.Booking, car *models.Car) (models.Booking, *models.Car, error) {
		return rental.ApplyPaymentTransition(booking, car, payment)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"bookingId": next.ID.Hex(), "from": prev.PaymentStatus, "to": next.PaymentStatus}).Info("Booking payment status changed")
	events.Emit(ctx, s.publisher, events.New(events.BookingPaymentChanged, next.ID.Hex(), next.CarID.Hex(), map[string]interface{}{
		"from":   prev.PaymentStatus,
		"to":     next.PaymentStatus,
		"status": next.Status,
	}))
	return &next, nil
}

type transitionFunc func(booking models.Booking, car *models.Car) (models.Booking, *models.Car, error)

// transition loads a booking and its car, applies apply, and writes both
// back. The booking write only succeeds if the stored status and payment
// status are still the ones apply saw.
func (s *BookingService) transition(ctx context.Context, id string, apply transitionFunc) (models.Booking, models.Booking, error) {
	var prev, next models.Booking
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.FindBookingByID(ctx, id)
		if err != nil {
			return lookupError(err, "booking", bookingNotFound)
		}
		car, err := s.cars.FindCarByID(ctx, booking.CarID.Hex())
		if errors.Is(err, db.ErrNotFound) {
			car = nil
		} else if err != nil {
			return fmt.Errorf("find booked car: %w", err)
		}

		updated, updatedCar, err := apply(*booking, car)
		if err != nil {
			return err
		}
		if err := s.bookings.UpdateBookingIf(ctx, updated, booking.Status, booking.PaymentStatus); err != nil {
			return writeConflict(err)
		}
		if car != nil && updatedCar != nil && updatedCar.IsAvailable != car.IsAvailable {
			if err := s.cars.SetCarAvailability(ctx, car.ID, updatedCar.IsAvailable); err != nil {
				return fmt.Errorf("set car availability: %w", err)
			}
		}
		prev, next = *booking, updated
		return nil
	})
	return prev, next, err
}

// Stats aggregates all bookings for the dashboard.
func (s *BookingService) Stats(ctx context.Context) (models.BookingStats, error) {
	bookings, err := s.bookings.FindBookings(ctx)
	if err != nil {
		return models.BookingStats{}, fmt.Errorf("list bookings: %w", err)
	}
	cars, err := s.carsOf(ctx, bookings)
	if err != nil {
		return models.BookingStats{}, err
	}
	return rental.ComputeStats(bookings, cars), nil
}

// carsOf loads the cars referenced by bookings, keyed by id. Deleted cars
// are simply absent.
func (s *BookingService) carsOf(ctx context.Context, bookings []models.Booking) (map[primitive.ObjectID]models.Car, error) {
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		if !seen[b.CarID] {
			seen[b.CarID] = true
			ids = append(ids, b.CarID)
		}
	}
	cars, err := s.cars.FindCarsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find booked cars: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Car, len(cars))
	for _, c := range cars {
		byID[c.ID] = c
	}
	return byID, nil
}

func viewOf(b models.Booking, cars map[primitive.ObjectID]models.Car) models.BookingView {
	view := models.BookingView{Booking: b}
	if car, ok := cars[b.CarID]; ok {
		summary := car.Summary()
		view.Car = &summary
	}
	return view
}
