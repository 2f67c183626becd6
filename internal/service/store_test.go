package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ukydev/car-rental-portal/internal/db"
	"github.com/ukydev/car-rental-portal/internal/events"
	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore is an in-memory CarCollection and BookingCollection with the
// same conditional-write semantics as the Mongo implementation.
type memoryStore struct {
	cars     map[primitive.ObjectID]models.Car
	bookings map[primitive.ObjectID]models.Booking
	seq      int

	// staleBookingWrite makes the next UpdateBookingIf lose its race.
	staleBookingWrite bool
	// carWriteErr fails every SetCarAvailability call.
	carWriteErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		cars:     make(map[primitive.ObjectID]models.Car),
		bookings: make(map[primitive.ObjectID]models.Booking),
	}
}

func (m *memoryStore) tick() time.Time {
	m.seq++
	return time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func (m *memoryStore) InsertCar(ctx context.Context, car *models.Car) error {
	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	car.CreatedAt = m.tick()
	car.UpdatedAt = car.CreatedAt
	m.cars[car.ID] = *car
	return nil
}

func (m *memoryStore) FindCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	cars := []models.Car{}
	for _, c := range m.cars {
		if filter.Type != nil && c.Type != *filter.Type {
			continue
		}
		if filter.FuelType != nil && c.FuelType != *filter.FuelType {
			continue
		}
		if filter.IsAvailable != nil && c.IsAvailable != *filter.IsAvailable {
			continue
		}
		cars = append(cars, c)
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].CreatedAt.After(cars[j].CreatedAt) })
	return cars, nil
}

func (m *memoryStore) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, db.ErrInvalidID
	}
	car, ok := m.cars[objectID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &car, nil
}

func (m *memoryStore) FindCarsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Car, error) {
	cars := []models.Car{}
	for _, id := range ids {
		if c, ok := m.cars[id]; ok {
			cars = append(cars, c)
		}
	}
	return cars, nil
}

func (m *memoryStore) UpdateCar(ctx context.Context, car models.Car) error {
	existing, ok := m.cars[car.ID]
	if !ok {
		return db.ErrNotFound
	}
	car.IsAvailable = existing.IsAvailable
	car.CreatedAt = existing.CreatedAt
	m.cars[car.ID] = car
	return nil
}

func (m *memoryStore) SetCarAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	if m.carWriteErr != nil {
		return m.carWriteErr
	}
	car, ok := m.cars[id]
	if !ok {
		return db.ErrNotFound
	}
	car.IsAvailable = available
	m.cars[id] = car
	return nil
}

func (m *memoryStore) ReserveCar(ctx context.Context, id primitive.ObjectID) error {
	car, ok := m.cars[id]
	if !ok || !car.IsAvailable {
		return db.ErrWriteConflict
	}
	car.IsAvailable = false
	m.cars[id] = car
	return nil
}

func (m *memoryStore) DeleteCar(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.cars[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.cars, id)
	return nil
}

func (m *memoryStore) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = m.tick()
	booking.UpdatedAt = booking.CreatedAt
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *memoryStore) sortedBookings(keep func(models.Booking) bool) []models.Booking {
	bookings := []models.Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings
}

func (m *memoryStore) FindBookings(ctx context.Context) ([]models.Booking, error) {
	return m.sortedBookings(func(models.Booking) bool { return true }), nil
}

func (m *memoryStore) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, db.ErrInvalidID
	}
	booking, ok := m.bookings[objectID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &booking, nil
}

func (m *memoryStore) FindBookingsByCar(ctx context.Context, carID primitive.ObjectID, statuses ...models.BookingStatus) ([]models.Booking, error) {
	return m.sortedBookings(func(b models.Booking) bool {
		if b.CarID != carID {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if b.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (m *memoryStore) FindBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return m.sortedBookings(func(b models.Booking) bool {
		return !b.RentalDetails.StartDate.After(end) && !b.RentalDetails.EndDate.Before(start)
	}), nil
}

func (m *memoryStore) FindOverdueBookings(ctx context.Context, now time.Time) ([]models.Booking, error) {
	return m.sortedBookings(func(b models.Booking) bool {
		return b.Status == models.BookingActive && b.RentalDetails.EndDate.Before(now)
	}), nil
}

func (m *memoryStore) UpdateBookingIf(ctx context.Context, booking models.Booking, status models.BookingStatus, payment models.PaymentStatus) error {
	stored, ok := m.bookings[booking.ID]
	if !ok || stored.Status != status || stored.PaymentStatus != payment || m.staleBookingWrite {
		m.staleBookingWrite = false
		return db.ErrWriteConflict
	}
	m.bookings[booking.ID] = booking
	return nil
}

func (m *memoryStore) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.bookings[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

// snapshotTx rolls the store back when fn fails, like a real transaction.
type snapshotTx struct {
	store *memoryStore
}

func (t snapshotTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	cars := make(map[primitive.ObjectID]models.Car, len(t.store.cars))
	for k, v := range t.store.cars {
		cars[k] = v
	}
	bookings := make(map[primitive.ObjectID]models.Booking, len(t.store.bookings))
	for k, v := range t.store.bookings {
		bookings[k] = v
	}
	if err := fn(ctx); err != nil {
		t.store.cars, t.store.bookings = cars, bookings
		return err
	}
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
