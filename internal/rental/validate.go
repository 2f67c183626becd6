package rental

import (
	"fmt"
	"strings"

	"github.com/ukydev/car-rental-portal/internal/models"
)

const (
	MinCustomerAge = 18
	MinSeats       = 1
	MaxSeats       = 8
)

// ValidateCarInput trims and validates a car create or update request.
func ValidateCarInput(in models.CarInput) (models.CarInput, error) {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Description = strings.TrimSpace(in.Description)

	features := make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	in.Features = features

	switch {
	case in.Brand == "":
		return in, Validation("brand", "brand is required")
	case in.Model == "":
		return in, Validation("model", "model is required")
	case !models.IsValidCarType(in.Type):
		return in, Validation("type", "invalid car type, must be one of: City car, Family car, Sports car, SUV")
	case !models.IsValidFuelType(in.FuelType):
		return in, Validation("fuelType", "invalid fuel type, must be one of: Petrol, Diesel, Hybrid, Full electric")
	case !models.IsValidTransmission(in.Transmission):
		return in, Validation("transmission", "invalid transmission, must be Manual or Automatic")
	case in.Seats < MinSeats:
		return in, Validation("seats", fmt.Sprintf("car must have at least %d seat", MinSeats))
	case in.Seats > MaxSeats:
		return in, Validation("seats", fmt.Sprintf("car cannot have more than %d seats", MaxSeats))
	case in.LuggageCapacity < 0:
		return in, Validation("luggageCapacity", "luggage capacity cannot be negative")
	case in.Mileage < 0:
		return in, Validation("mileage", "mileage cannot be negative")
	case in.LastMaintenance.IsZero():
		return in, Validation("lastMaintenance", "last maintenance date is required")
	}
	return in, nil
}

// ValidateBookingInput trims and validates a booking creation request.
// Car existence and availability are checked by the caller.
func ValidateBookingInput(in models.BookingInput) (models.BookingInput, error) {
	c := &in.Customer
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.Surname = strings.TrimSpace(c.Surname)
	c.Address = strings.TrimSpace(c.Address)
	c.DrivingLicense = strings.TrimSpace(c.DrivingLicense)

	rd := &in.RentalDetails
	rd.PickupLocation = strings.TrimSpace(rd.PickupLocation)
	rd.DropoffLocation = strings.TrimSpace(rd.DropoffLocation)
	in.CarID = strings.TrimSpace(in.CarID)
	in.Notes = strings.TrimSpace(in.Notes)

	switch {
	case c.FirstName == "":
		return in, Validation("customer.firstName", "first name is required")
	case c.Surname == "":
		return in, Validation("customer.surname", "surname is required")
	case c.Address == "":
		return in, Validation("customer.address", "address is required")
	case c.Age < MinCustomerAge:
		return in, Validation("customer.age", fmt.Sprintf("customer must be at least %d years old", MinCustomerAge))
	case c.DrivingLicense == "":
		return in, Validation("customer.drivingLicense", "driving license is required")
	case in.CarID == "":
		return in, Validation("car", "a car must be selected")
	case rd.StartDate.IsZero():
		return in, Validation("rentalDetails.startDate", "start date is required")
	case rd.EndDate.IsZero():
		return in, Validation("rentalDetails.endDate", "end date is required")
	case rd.EndDate.Before(rd.StartDate):
		return in, Validation("rentalDetails.endDate", "end date cannot be before start date")
	case rd.NumberOfDays < MinRentalDays:
		return in, Validation("rentalDetails.numberOfDays", fmt.Sprintf("minimum rental period is %d day", MinRentalDays))
	case rd.NumberOfDays > MaxRentalDays:
		return in, Validation("rentalDetails.numberOfDays", fmt.Sprintf("maximum rental period is %d days", MaxRentalDays))
	case rd.PickupLocation == "":
		return in, Validation("rentalDetails.pickupLocation", "pickup location is required")
	case rd.DropoffLocation == "":
		return in, Validation("rentalDetails.dropoffLocation", "dropoff location is required")
	}
	return in, nil
}
