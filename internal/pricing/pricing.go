// Package pricing computes car daily rates and booking price breakdowns.
// Both entry points read the same surcharge tables.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/rental"
)

var (
	baseRatePerDay = decimal.NewFromInt(25)

	unlimitedMileagePerDay = decimal.NewFromInt(10)
	breakdownCoverPerDay   = decimal.NewFromInt(2)

	depositRate = decimal.RequireFromString("0.20")
)

// Flat surcharges, applied once per booking and once to the daily rate.
var carTypeSurcharge = map[models.CarType]decimal.Decimal{
	models.CarTypeCity:   decimal.Zero,
	models.CarTypeFamily: decimal.NewFromInt(50),
	models.CarTypeSports: decimal.NewFromInt(75),
	models.CarTypeSUV:    decimal.NewFromInt(65),
}

var fuelTypeSurcharge = map[models.FuelType]decimal.Decimal{
	models.FuelPetrol:       decimal.Zero,
	models.FuelDiesel:       decimal.Zero,
	models.FuelHybrid:       decimal.NewFromInt(30),
	models.FuelFullElectric: decimal.NewFromInt(50),
}

// Breakdown is the price of one booking.
type Breakdown struct {
	BasePrice     decimal.Decimal
	CarTypeExtra  decimal.Decimal
	FuelTypeExtra decimal.Decimal
	ExtrasPrice   decimal.Decimal
	TotalPrice    decimal.Decimal
	Deposit       decimal.Decimal
}

// DepositDisplay returns the deposit rounded to pence, e.g. "15.00".
func (b Breakdown) DepositDisplay() string {
	return b.Deposit.StringFixed(2)
}

// Model converts the breakdown to the stored booking form.
func (b Breakdown) Model() models.Pricing {
	return models.Pricing{
		BasePrice:     b.BasePrice.InexactFloat64(),
		CarTypeExtra:  b.CarTypeExtra.InexactFloat64(),
		FuelTypeExtra: b.FuelTypeExtra.InexactFloat64(),
		ExtrasPrice:   b.ExtrasPrice.InexactFloat64(),
		TotalPrice:    b.TotalPrice.InexactFloat64(),
		Deposit:       b.Deposit.InexactFloat64(),
	}
}

// Surcharges returns the flat car type and fuel type surcharges.
func Surcharges(carType models.CarType, fuelType models.FuelType) (decimal.Decimal, decimal.Decimal, error) {
	typeExtra, ok := carTypeSurcharge[carType]
	if !ok {
		return decimal.Zero, decimal.Zero, rental.Validation("type",
			fmt.Sprintf("invalid car type %q, must be one of: City car, Family car, Sports car, SUV", carType))
	}
	fuelExtra, ok := fuelTypeSurcharge[fuelType]
	if !ok {
		return decimal.Zero, decimal.Zero, rental.Validation("fuelType",
			fmt.Sprintf("invalid fuel type %q, must be one of: Petrol, Diesel, Hybrid, Full electric", fuelType))
	}
	return typeExtra, fuelExtra, nil
}

// ComputeCarDailyRate returns the listed per-day rate of a car.
func ComputeCarDailyRate(carType models.CarType, fuelType models.FuelType) (decimal.Decimal, error) {
	typeExtra, fuelExtra, err := Surcharges(carType, fuelType)
	if err != nil {
		return decimal.Zero, err
	}
	return baseRatePerDay.Add(typeExtra).Add(fuelExtra), nil
}

// ComputeBookingPricing prices a stay of numberOfDays days.
func ComputeBookingPricing(carType models.CarType, fuelType models.FuelType, numberOfDays int, extras models.Extras) (Breakdown, error) {
	if numberOfDays < rental.MinRentalDays || numberOfDays > rental.MaxRentalDays {
		return Breakdown{}, rental.Validation("rentalDetails.numberOfDays",
			fmt.Sprintf("rental period must be between %d and %d days, got %d", rental.MinRentalDays, rental.MaxRentalDays, numberOfDays))
	}
	typeExtra, fuelExtra, err := Surcharges(carType, fuelType)
	if err != nil {
		return Breakdown{}, err
	}

	days := decimal.NewFromInt(int64(numberOfDays))
	base := baseRatePerDay.Mul(days)
	extrasPrice := decimal.Zero
	if extras.UnlimitedMileage {
		extrasPrice = extrasPrice.Add(unlimitedMileagePerDay.Mul(days))
	}
	if extras.BreakdownCover {
		extrasPrice = extrasPrice.Add(breakdownCoverPerDay.Mul(days))
	}

	total := base.Add(typeExtra).Add(fuelExtra).Add(extrasPrice)
	return Breakdown{
		BasePrice:     base,
		CarTypeExtra:  typeExtra,
		FuelTypeExtra: fuelExtra,
		ExtrasPrice:   extrasPrice,
		TotalPrice:    total,
		Deposit:       total.Mul(depositRate),
	}, nil
}
