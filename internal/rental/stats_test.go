package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeStats(t *testing.T) {
	city := testCar(true)
	suv := testCar(true)
	suv.Type = models.CarTypeSUV
	cars := map[primitive.ObjectID]models.Car{city.ID: *city, suv.ID: *suv}

	b1 := testBooking(city, models.BookingCompleted, models.PaymentPaid)
	b1.Pricing.TotalPrice = 75
	b1.RentalDetails.NumberOfDays = 3
	b2 := testBooking(suv, models.BookingActive, models.PaymentPaid)
	b2.Pricing.TotalPrice = 300
	b2.RentalDetails.NumberOfDays = 5
	b3 := testBooking(city, models.BookingCompleted, models.PaymentPaid)
	b3.Pricing.TotalPrice = 50
	b3.RentalDetails.NumberOfDays = 2

	stats := ComputeStats([]models.Booking{b1, b2, b3}, cars)

	assert.Equal(t, 3, stats.TotalBookings)
	assert.Equal(t, 425.0, stats.TotalRevenue)
	assert.Equal(t, 3.3, stats.AverageBookingDuration)
	assert.Equal(t, []models.CarTypeStat{
		{CarType: models.CarTypeCity, Count: 2, Revenue: 125},
		{CarType: models.CarTypeSUV, Count: 1, Revenue: 300},
	}, stats.CarTypeStats)
	assert.Equal(t, []models.StatusStat{
		{Status: models.BookingCompleted, Count: 2},
		{Status: models.BookingActive, Count: 1},
	}, stats.StatusStats)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil)
	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.AverageBookingDuration)
	assert.NotNil(t, stats.CarTypeStats)
	assert.NotNil(t, stats.StatusStats)
}

func TestFilterFreeCars(t *testing.T) {
	free := testCar(true)
	overlapping := testCar(true)
	cancelledOnly := testCar(true)
	later := testCar(true)

	bookings := []models.Booking{
		testBooking(overlapping, models.BookingConfirmed, models.PaymentPending),
		testBooking(cancelledOnly, models.BookingCancelled, models.PaymentRefunded),
		func() models.Booking {
			b := testBooking(later, models.BookingPending, models.PaymentPending)
			b.RentalDetails.StartDate = rentalEnd.Add(48 * time.Hour)
			b.RentalDetails.EndDate = rentalEnd.Add(96 * time.Hour)
			return b
		}(),
	}

	got := FilterFreeCars([]models.Car{*free, *overlapping, *cancelledOnly, *later}, bookings, rentalStart.Add(24*time.Hour), rentalEnd)

	ids := make([]primitive.ObjectID, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []primitive.ObjectID{free.ID, cancelledOnly.ID, later.ID}, ids)
}

func TestOverlaps_Boundaries(t *testing.T) {
	car := testCar(true)
	b := testBooking(car, models.BookingActive, models.PaymentPaid)

	assert.True(t, Overlaps(b, rentalEnd, rentalEnd.Add(time.Hour)), "touching end counts")
	assert.True(t, Overlaps(b, rentalStart.Add(-time.Hour), rentalStart), "touching start counts")
	assert.False(t, Overlaps(b, rentalEnd.Add(time.Minute), rentalEnd.Add(time.Hour)))
}

func TestTotalRentalDays(t *testing.T) {
	car := testCar(true)
	completed := testBooking(car, models.BookingCompleted, models.PaymentPaid)
	active := testBooking(car, models.BookingActive, models.PaymentPaid)
	active.RentalDetails.NumberOfDays = 7
	cancelled := testBooking(car, models.BookingCancelled, models.PaymentRefunded)

	assert.Equal(t, 10, TotalRentalDays([]models.Booking{completed, active, cancelled}))
}
