package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every booking status in lifecycle order.
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled}

// IsValidBookingStatus checks if a booking status is known
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further status change is accepted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// PaymentStatus is the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValidPaymentStatus checks if a payment status is known
func IsValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentRefunded
}

// IsTerminal reports whether no further payment change is accepted.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentRefunded
}

// Customer is the renter on a booking.
type Customer struct {
	FirstName      string `bson:"firstName" json:"firstName"`
	Surname        string `bson:"surname" json:"surname"`
	Address        string `bson:"address" json:"address"`
	Age            int    `bson:"age" json:"age"`
	DrivingLicense string `bson:"drivingLicense" json:"drivingLicense"`
}

// Extras are the optional per-day add-ons of a rental.
type Extras struct {
	UnlimitedMileage bool `bson:"unlimitedMileage" json:"unlimitedMileage"`
	BreakdownCover   bool `bson:"breakdownCover" json:"breakdownCover"`
}

// RentalDetails describes the rental period and logistics.
type RentalDetails struct {
	StartDate       time.Time `bson:"startDate" json:"startDate"`
	EndDate         time.Time `bson:"endDate" json:"endDate"`
	NumberOfDays    int       `bson:"numberOfDays" json:"numberOfDays"`
	PickupLocation  string    `bson:"pickupLocation" json:"pickupLocation"`
	DropoffLocation string    `bson:"dropoffLocation" json:"dropoffLocation"`
	Extras          Extras    `bson:"extras" json:"extras"`
}

// Pricing is the stored price breakdown of a booking, in GBP.
type Pricing struct {
	BasePrice     float64 `bson:"basePrice" json:"basePrice"`
	CarTypeExtra  float64 `bson:"carTypeExtra" json:"carTypeExtra"`
	FuelTypeExtra float64 `bson:"fuelTypeExtra" json:"fuelTypeExtra"`
	ExtrasPrice   float64 `bson:"extrasPrice" json:"extrasPrice"`
	TotalPrice    float64 `bson:"totalPrice" json:"totalPrice"`
	Deposit       float64 `bson:"deposit" json:"deposit"`
}

// Booking represents a customer booking of one car.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Customer      Customer           `bson:"customer" json:"customer"`
	CarID         primitive.ObjectID `bson:"car" json:"car"`
	RentalDetails RentalDetails      `bson:"rentalDetails" json:"rentalDetails"`
	Pricing       Pricing            `bson:"pricing" json:"pricing"`
	Status        BookingStatus      `bson:"status" json:"status"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookingInput is a booking creation request.
type BookingInput struct {
	Customer      Customer      `json:"customer"`
	CarID         string        `json:"car"`
	RentalDetails RentalDetails `json:"rentalDetails"`
	Notes         string        `json:"notes"`
}

// BookingView is a booking with its car summary attached for listings.
type BookingView struct {
	Booking
	Car *CarSummary `json:"carDetails,omitempty"`
}

// CarTypeStat aggregates bookings per car type.
type CarTypeStat struct {
	CarType CarType `json:"carType"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// StatusStat aggregates bookings per status.
type StatusStat struct {
	Status BookingStatus `json:"status"`
	Count  int           `json:"count"`
}

// BookingStats summarises all bookings for the dashboard.
type BookingStats struct {
	TotalBookings          int           `json:"totalBookings"`
	TotalRevenue           float64       `json:"totalRevenue"`
	AverageBookingDuration float64       `json:"averageBookingDuration"`
	CarTypeStats           []CarTypeStat `json:"carTypeStats"`
	StatusStats            []StatusStat  `json:"statusStats"`
}
