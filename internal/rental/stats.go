package rental

import (
	"math"
	"time"

	"github.com/ukydev/car-rental-portal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComputeStats aggregates bookings for the dashboard. Bookings whose car is
// missing from cars are counted under an empty car type.
func ComputeStats(bookings []models.Booking, cars map[primitive.ObjectID]models.Car) models.BookingStats {
	stats := models.BookingStats{
		CarTypeStats: []models.CarTypeStat{},
		StatusStats:  []models.StatusStat{},
	}
	if len(bookings) == 0 {
		return stats
	}

	typeIdx := make(map[models.CarType]int)
	statusIdx := make(map[models.BookingStatus]int)
	totalDays := 0
	for _, b := range bookings {
		stats.TotalBookings++
		stats.TotalRevenue += b.Pricing.TotalPrice
		totalDays += b.RentalDetails.NumberOfDays

		carType := cars[b.CarID].Type
		i, ok := typeIdx[carType]
		if !ok {
			i = len(stats.CarTypeStats)
			typeIdx[carType] = i
			stats.CarTypeStats = append(stats.CarTypeStats, models.CarTypeStat{CarType: carType})
		}
		stats.CarTypeStats[i].Count++
		stats.CarTypeStats[i].Revenue += b.Pricing.TotalPrice

		j, ok := statusIdx[b.Status]
		if !ok {
			j = len(stats.StatusStats)
			statusIdx[b.Status] = j
			stats.StatusStats = append(stats.StatusStats, models.StatusStat{Status: b.Status})
		}
		stats.StatusStats[j].Count++
	}

	avg := float64(totalDays) / float64(stats.TotalBookings)
	stats.AverageBookingDuration = math.Round(avg*10) / 10
	return stats
}

// OccupyingStatuses are the booking statuses that hold a car for their dates.
var OccupyingStatuses = []models.BookingStatus{models.BookingPending, models.BookingConfirmed, models.BookingActive}

// Overlaps reports whether booking occupies any part of [start, end].
func Overlaps(b models.Booking, start, end time.Time) bool {
	occupying := false
	for _, s := range OccupyingStatuses {
		if b.Status == s {
			occupying = true
			break
		}
	}
	return occupying && !b.RentalDetails.StartDate.After(end) && !b.RentalDetails.EndDate.Before(start)
}

// FilterFreeCars drops cars that have an occupying booking overlapping [start, end].
func FilterFreeCars(cars []models.Car, bookings []models.Booking, start, end time.Time) []models.Car {
	booked := make(map[primitive.ObjectID]bool)
	for _, b := range bookings {
		if Overlaps(b, start, end) {
			booked[b.CarID] = true
		}
	}
	free := make([]models.Car, 0, len(cars))
	for _, c := range cars {
		if !booked[c.ID] {
			free = append(free, c)
		}
	}
	return free
}

// TotalRentalDays sums the days of completed and active bookings.
func TotalRentalDays(bookings []models.Booking) int {
	days := 0
	for _, b := range bookings {
		if b.Status == models.BookingCompleted || b.Status == models.BookingActive {
			days += b.RentalDetails.NumberOfDays
		}
	}
	return days
}
