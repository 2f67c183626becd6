package rental

import (
	"fmt"
	"strings"

	"github.com/ukydev/car-rental-portal/internal/models"
)

// Booking statuses that block each car operation. Re-enabling a car is
// blocked by a different set than disabling or deleting it; both sets are
// kept as observed in the running system until product decides on one.
var (
	DeleteBlockingStatuses          = []models.BookingStatus{models.BookingActive, models.BookingPending}
	MarkUnavailableBlockingStatuses = []models.BookingStatus{models.BookingActive, models.BookingPending}
	MarkAvailableBlockingStatuses   = []models.BookingStatus{models.BookingActive, models.BookingConfirmed}
)

// CheckDeletable fails if any booking of car is active or pending.
func CheckDeletable(car models.Car, related []models.Booking) error {
	if blocking := blockingBookings(car, related, DeleteBlockingStatuses); len(blocking) > 0 {
		return ConflictingBooking("delete-car",
			"cannot delete car with active or pending bookings: "+strings.Join(blocking, ", "))
	}
	return nil
}

// CheckAvailabilityToggle fails if bookings of car forbid setting its
// availability to desired.
func CheckAvailabilityToggle(car models.Car, related []models.Booking, desired bool) error {
	statuses := MarkUnavailableBlockingStatuses
	rule := "mark-unavailable"
	if desired {
		statuses = MarkAvailableBlockingStatuses
		rule = "mark-available"
	}
	if blocking := blockingBookings(car, related, statuses); len(blocking) > 0 {
		return ConflictingBooking(rule, fmt.Sprintf("cannot mark car %s with %s bookings: %s",
			availabilityWord(desired), joinStatuses(statuses), strings.Join(blocking, ", ")))
	}
	return nil
}

// BlockingStatuses returns the union of statuses the gatekeeper may query,
// so callers can load related bookings with one filter.
func BlockingStatuses() []models.BookingStatus {
	seen := make(map[models.BookingStatus]bool)
	var out []models.BookingStatus
	for _, set := range [][]models.BookingStatus{DeleteBlockingStatuses, MarkUnavailableBlockingStatuses, MarkAvailableBlockingStatuses} {
		for _, s := range set {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func blockingBookings(car models.Car, related []models.Booking, statuses []models.BookingStatus) []string {
	var ids []string
	for _, b := range related {
		if b.CarID != car.ID {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				ids = append(ids, b.ID.Hex())
				break
			}
		}
	}
	return ids
}

func availabilityWord(available bool) string {
	if available {
		return "available"
	}
	return "unavailable"
}

func joinStatuses(statuses []models.BookingStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}
