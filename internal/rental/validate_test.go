package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-rental-portal/internal/models"
)

func validCarInput() models.CarInput {
	return models.CarInput{
		Brand:           "  Volkswagen ",
		Model:           "Golf",
		Type:            models.CarTypeFamily,
		FuelType:        models.FuelDiesel,
		Transmission:    models.TransmissionManual,
		Seats:           5,
		LuggageCapacity: 380,
		Mileage:         42000,
		LastMaintenance: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Features:        []string{" Air conditioning ", "", "Cruise control"},
	}
}

func validBookingInput() models.BookingInput {
	return models.BookingInput{
		Customer: models.Customer{
			FirstName:      " Ada ",
			Surname:        "Lovelace",
			Address:        "12 St James's Square, London",
			Age:            36,
			DrivingLicense: "LOVEL812105AA9IJ",
		},
		CarID: "65f1c0a2b4d3e2f1a0b9c8d7",
		RentalDetails: models.RentalDetails{
			StartDate:       rentalStart,
			EndDate:         rentalEnd,
			NumberOfDays:    3,
			PickupLocation:  "Heathrow T5",
			DropoffLocation: "Heathrow T5",
		},
	}
}

func TestValidateCarInput(t *testing.T) {
	got, err := ValidateCarInput(validCarInput())
	require.NoError(t, err)
	assert.Equal(t, "Volkswagen", got.Brand)
	assert.Equal(t, []string{"Air conditioning", "Cruise control"}, got.Features)

	tests := []struct {
		name   string
		mutate func(*models.CarInput)
		field  string
	}{
		{"missing brand", func(c *models.CarInput) { c.Brand = "   " }, "brand"},
		{"missing model", func(c *models.CarInput) { c.Model = "" }, "model"},
		{"bad type", func(c *models.CarInput) { c.Type = "Van" }, "type"},
		{"bad fuel", func(c *models.CarInput) { c.FuelType = "LPG" }, "fuelType"},
		{"bad transmission", func(c *models.CarInput) { c.Transmission = "CVT" }, "transmission"},
		{"no seats", func(c *models.CarInput) { c.Seats = 0 }, "seats"},
		{"too many seats", func(c *models.CarInput) { c.Seats = 9 }, "seats"},
		{"negative luggage", func(c *models.CarInput) { c.LuggageCapacity = -1 }, "luggageCapacity"},
		{"negative mileage", func(c *models.CarInput) { c.Mileage = -10 }, "mileage"},
		{"no maintenance date", func(c *models.CarInput) { c.LastMaintenance = time.Time{} }, "lastMaintenance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCarInput()
			tt.mutate(&in)
			_, err := ValidateCarInput(in)
			require.ErrorIs(t, err, ErrValidation)
			re, _ := AsRuleError(err)
			assert.Equal(t, tt.field, re.Rule)
		})
	}
}

func TestValidateBookingInput(t *testing.T) {
	got, err := ValidateBookingInput(validBookingInput())
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Customer.FirstName)

	tests := []struct {
		name   string
		mutate func(*models.BookingInput)
		field  string
	}{
		{"missing first name", func(b *models.BookingInput) { b.Customer.FirstName = " " }, "customer.firstName"},
		{"missing surname", func(b *models.BookingInput) { b.Customer.Surname = "" }, "customer.surname"},
		{"missing address", func(b *models.BookingInput) { b.Customer.Address = "" }, "customer.address"},
		{"under age", func(b *models.BookingInput) { b.Customer.Age = 17 }, "customer.age"},
		{"missing licence", func(b *models.BookingInput) { b.Customer.DrivingLicense = "" }, "customer.drivingLicense"},
		{"missing car", func(b *models.BookingInput) { b.CarID = "" }, "car"},
		{"missing start", func(b *models.BookingInput) { b.RentalDetails.StartDate = time.Time{} }, "rentalDetails.startDate"},
		{"end before start", func(b *models.BookingInput) { b.RentalDetails.EndDate = rentalStart.Add(-time.Hour) }, "rentalDetails.endDate"},
		{"zero days", func(b *models.BookingInput) { b.RentalDetails.NumberOfDays = 0 }, "rentalDetails.numberOfDays"},
		{"too many days", func(b *models.BookingInput) { b.RentalDetails.NumberOfDays = 29 }, "rentalDetails.numberOfDays"},
		{"missing pickup", func(b *models.BookingInput) { b.RentalDetails.PickupLocation = "" }, "rentalDetails.pickupLocation"},
		{"missing dropoff", func(b *models.BookingInput) { b.RentalDetails.DropoffLocation = "" }, "rentalDetails.dropoffLocation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validBookingInput()
			tt.mutate(&in)
			_, err := ValidateBookingInput(in)
			require.ErrorIs(t, err, ErrValidation)
			re, _ := AsRuleError(err)
			assert.Equal(t, tt.field, re.Rule)
		})
	}
}
