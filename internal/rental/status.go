package rental

import (
	"fmt"
	"time"

	"github.com/ukydev/car-rental-portal/internal/models"
)

const (
	MinRentalDays = 1
	MaxRentalDays = 28
)

var statusTransitions = map[models.BookingStatus]map[models.BookingStatus]bool{
	models.BookingPending:   {models.BookingConfirmed: true, models.BookingCancelled: true},
	models.BookingConfirmed: {models.BookingActive: true, models.BookingCancelled: true},
	models.BookingActive:    {models.BookingCompleted: true, models.BookingCancelled: true},
	models.BookingCompleted: {},
	models.BookingCancelled: {},
}

var paymentTransitions = map[models.PaymentStatus]map[models.PaymentStatus]bool{
	models.PaymentPending:  {models.PaymentPaid: true},
	models.PaymentPaid:     {models.PaymentRefunded: true},
	models.PaymentRefunded: {},
}

// CanTransition reports whether the status graph has an edge from -> to.
func CanTransition(from, to models.BookingStatus) bool {
	return statusTransitions[from][to]
}

// CanTransitionPayment reports whether the payment graph has an edge from -> to.
func CanTransitionPayment(from, to models.PaymentStatus) bool {
	return paymentTransitions[from][to]
}

// ApplyStatusTransition moves booking to the requested status and returns
// the updated booking and car. The inputs are never modified; on error the
// returned values are zero. car may be nil when the booked car no longer
// exists, in which case no availability change is made.
func ApplyStatusTransition(booking models.Booking, car *models.Car, requested models.BookingStatus, now time.Time) (models.Booking, *models.Car, error) {
	if !models.IsValidBookingStatus(requested) {
		return models.Booking{}, nil, Validation("status", fmt.Sprintf("unknown booking status %q", requested))
	}
	if booking.Status.IsTerminal() {
		return models.Booking{}, nil, InvalidTransition("terminal-status",
			fmt.Sprintf("booking is %s and cannot change status", booking.Status))
	}
	if !CanTransition(booking.Status, requested) {
		return models.Booking{}, nil, InvalidTransition("status-edge",
			fmt.Sprintf("cannot change booking status from %s to %s", booking.Status, requested))
	}

	next := booking
	nextCar := copyCar(car)

	switch requested {
	case models.BookingActive:
		if booking.PaymentStatus != models.PaymentPaid {
			return models.Booking{}, nil, InvalidTransition("active-requires-payment",
				"booking can only become active once payment is marked as paid")
		}
		setAvailability(nextCar, false)
	case models.BookingCompleted:
		if now.Before(booking.RentalDetails.EndDate) {
			return models.Booking{}, nil, InvalidTransition("complete-before-end-date",
				fmt.Sprintf("booking cannot be completed before its end date %s", booking.RentalDetails.EndDate.Format("2006-01-02")))
		}
		setAvailability(nextCar, true)
	case models.BookingCancelled:
		if booking.PaymentStatus == models.PaymentPaid {
			next.PaymentStatus = models.PaymentRefunded
		}
		setAvailability(nextCar, true)
	}

	next.Status = requested
	return next, nextCar, nil
}

// ApplyPaymentTransition moves booking to the requested payment status and
// returns the updated booking and car, with the same contract as
// ApplyStatusTransition. Marking a booking paid also makes it active.
func ApplyPaymentTransition(booking models.Booking, car *models.Car, requested models.PaymentStatus) (models.Booking, *models.Car, error) {
	if !models.IsValidPaymentStatus(requested) {
		return models.Booking{}, nil, Validation("paymentStatus", fmt.Sprintf("unknown payment status %q", requested))
	}
	if booking.PaymentStatus.IsTerminal() {
		return models.Booking{}, nil, InvalidTransition("terminal-payment-status",
			fmt.Sprintf("payment is %s and cannot change", booking.PaymentStatus))
	}

	next := booking
	nextCar := copyCar(car)

	switch requested {
	case models.PaymentPaid:
		if booking.PaymentStatus != models.PaymentPending {
			return models.Booking{}, nil, InvalidTransition("paid-requires-pending",
				"payment can only be marked as paid for pending payments")
		}
		if booking.Status.IsTerminal() {
			return models.Booking{}, nil, InvalidTransition("paid-requires-open-booking",
				fmt.Sprintf("cannot take payment for a %s booking", booking.Status))
		}
		next.Status = models.BookingActive
		setAvailability(nextCar, false)
	case models.PaymentRefunded:
		if booking.Status != models.BookingCancelled {
			return models.Booking{}, nil, InvalidTransition("refund-requires-cancelled",
				"cannot refund payment for a booking that is not cancelled")
		}
		if !CanTransitionPayment(booking.PaymentStatus, requested) {
			return models.Booking{}, nil, InvalidTransition("payment-edge",
				fmt.Sprintf("cannot change payment status from %s to %s", booking.PaymentStatus, requested))
		}
	default:
		return models.Booking{}, nil, InvalidTransition("payment-edge",
			fmt.Sprintf("cannot change payment status from %s to %s", booking.PaymentStatus, requested))
	}

	next.PaymentStatus = requested
	return next, nextCar, nil
}

// CheckBookingDeletable refuses deletion of a booking that is in progress.
func CheckBookingDeletable(booking models.Booking) error {
	if booking.Status == models.BookingActive {
		return InvalidTransition("delete-active-booking",
			"cannot delete an active booking, cancel the booking first")
	}
	return nil
}

func copyCar(car *models.Car) *models.Car {
	if car == nil {
		return nil
	}
	cp := *car
	cp.Features = append([]string(nil), car.Features...)
	return &cp
}

func setAvailability(car *models.Car, available bool) {
	if car != nil {
		car.IsAvailable = available
	}
}
