package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarType is the rental category of a car.
type CarType string

const (
	CarTypeCity   CarType = "City car"
	CarTypeFamily CarType = "Family car"
	CarTypeSports CarType = "Sports car"
	CarTypeSUV    CarType = "SUV"
)

// FuelType is the powertrain of a car.
type FuelType string

const (
	FuelPetrol       FuelType = "Petrol"
	FuelDiesel       FuelType = "Diesel"
	FuelHybrid       FuelType = "Hybrid"
	FuelFullElectric FuelType = "Full electric"
)

// Transmission is the gearbox of a car.
type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

// CarTypes lists every car type in display order.
var CarTypes = []CarType{CarTypeCity, CarTypeFamily, CarTypeSports, CarTypeSUV}

// FuelTypes lists every fuel type in display order.
var FuelTypes = []FuelType{FuelPetrol, FuelDiesel, FuelHybrid, FuelFullElectric}

// IsValidCarType checks if a car type is known
func IsValidCarType(t CarType) bool {
	switch t {
	case CarTypeCity, CarTypeFamily, CarTypeSports, CarTypeSUV:
		return true
	default:
		return false
	}
}

// IsValidFuelType checks if a fuel type is known
func IsValidFuelType(f FuelType) bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelHybrid, FuelFullElectric:
		return true
	default:
		return false
	}
}

// IsValidTransmission checks if a transmission is known
func IsValidTransmission(t Transmission) bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

// Car represents a rental car in the fleet.
type Car struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Brand           string             `bson:"brand" json:"brand"`
	Model           string             `bson:"model" json:"model"`
	Type            CarType            `bson:"type" json:"type"`
	FuelType        FuelType           `bson:"fuelType" json:"fuelType"`
	Transmission    Transmission       `bson:"transmission" json:"transmission"`
	Seats           int                `bson:"seats" json:"seats"`
	LuggageCapacity int                `bson:"luggageCapacity" json:"luggageCapacity"`
	Mileage         int                `bson:"mileage" json:"mileage"`
	PricePerDay     float64            `bson:"pricePerDay" json:"pricePerDay"` // derived from type and fuel type
	IsAvailable     bool               `bson:"isAvailable" json:"isAvailable"`
	LastMaintenance time.Time          `bson:"lastMaintenance" json:"lastMaintenance"`
	Features        []string           `bson:"features" json:"features"`
	ImageURL        string             `bson:"imageUrl" json:"imageUrl"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CarInput is the staff-editable part of a car, as submitted on create and update.
type CarInput struct {
	Brand           string       `json:"brand"`
	Model           string       `json:"model"`
	Type            CarType      `json:"type"`
	FuelType        FuelType     `json:"fuelType"`
	Transmission    Transmission `json:"transmission"`
	Seats           int          `json:"seats"`
	LuggageCapacity int          `json:"luggageCapacity"`
	Mileage         int          `json:"mileage"`
	LastMaintenance time.Time    `json:"lastMaintenance"`
	Features        []string     `json:"features"`
	ImageURL        string       `json:"imageUrl"`
	Description     string       `json:"description"`
}

// CarFilter narrows car listings. Nil fields are not filtered on.
type CarFilter struct {
	Type        *CarType
	FuelType    *FuelType
	IsAvailable *bool
}

// RentalHistory is the booking history of one car.
type RentalHistory struct {
	Car             CarSummary `json:"car"`
	Bookings        []Booking  `json:"rentalHistory"`
	TotalRentalDays int        `json:"totalRentalDays"`
}

// CarSummary is the short form of a car used in nested responses.
type CarSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	Brand       string             `json:"brand"`
	Model       string             `json:"model"`
	Type        CarType            `json:"type"`
	FuelType    FuelType           `json:"fuelType"`
	PricePerDay float64            `json:"pricePerDay"`
}

// Summary returns the short form of the car.
func (c *Car) Summary() CarSummary {
	return CarSummary{
		ID:          c.ID,
		Brand:       c.Brand,
		Model:       c.Model,
		Type:        c.Type,
		FuelType:    c.FuelType,
		PricePerDay: c.PricePerDay,
	}
}
