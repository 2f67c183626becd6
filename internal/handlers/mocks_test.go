package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/pricing"
	"github.com/ukydev/car-rental-portal/internal/service"
)

// MockCarService is a mock implementation of CarService
type MockCarService struct {
	mock.Mock
}

func (m *MockCarService) List(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockCarService) Get(ctx context.Context, id string) (*models.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarService) Create(ctx context.Context, in models.CarInput) (*models.Car, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarService) Update(ctx context.Context, id string, in models.CarInput) (*models.Car, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCarService) SetAvailability(ctx context.Context, id string, available bool) (*models.Car, error) {
	args := m.Called(ctx, id, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarService) CheckAvailability(ctx context.Context, q service.AvailabilityQuery) ([]models.Car, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockCarService) RentalHistory(ctx context.Context, id string) (*models.RentalHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalHistory), args.Error(1)
}

// MockBookingService is a mock implementation of BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, in models.BookingInput) (*models.Booking, pricing.Breakdown, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, pricing.Breakdown{}, args.Error(2)
	}
	return args.Get(0).(*models.Booking), args.Get(1).(pricing.Breakdown), args.Error(2)
}

func (m *MockBookingService) Quote(ctx context.Context, req service.QuoteRequest) (pricing.Breakdown, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(pricing.Breakdown), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context) ([]models.BookingView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingView), args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, id string) (*models.BookingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingView), args.Error(1)
}

func (m *MockBookingService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) UpdatePaymentStatus(ctx context.Context, id string, payment models.PaymentStatus) (*models.Booking, error) {
	args := m.Called(ctx, id, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) Stats(ctx context.Context) (models.BookingStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.BookingStats), args.Error(1)
}
