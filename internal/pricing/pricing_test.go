package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/rental"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestComputeBookingPricing_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		carType  models.CarType
		fuelType models.FuelType
		days     int
		extras   models.Extras
		want     Breakdown
		deposit  string
	}{
		{
			name:     "city petrol three days",
			carType:  models.CarTypeCity,
			fuelType: models.FuelPetrol,
			days:     3,
			want:     Breakdown{BasePrice: dec(75), CarTypeExtra: dec(0), FuelTypeExtra: dec(0), ExtrasPrice: dec(0), TotalPrice: dec(75), Deposit: dec(15)},
			deposit:  "15.00",
		},
		{
			name:     "suv electric five days all extras",
			carType:  models.CarTypeSUV,
			fuelType: models.FuelFullElectric,
			days:     5,
			extras:   models.Extras{UnlimitedMileage: true, BreakdownCover: true},
			want:     Breakdown{BasePrice: dec(125), CarTypeExtra: dec(65), FuelTypeExtra: dec(50), ExtrasPrice: dec(60), TotalPrice: dec(300), Deposit: dec(60)},
			deposit:  "60.00",
		},
		{
			name:     "family hybrid one day breakdown cover",
			carType:  models.CarTypeFamily,
			fuelType: models.FuelHybrid,
			days:     1,
			extras:   models.Extras{BreakdownCover: true},
			want:     Breakdown{BasePrice: dec(25), CarTypeExtra: dec(50), FuelTypeExtra: dec(30), ExtrasPrice: dec(2), TotalPrice: dec(107), Deposit: decimal.RequireFromString("21.4")},
			deposit:  "21.40",
		},
		{
			name:     "sports diesel max days unlimited mileage",
			carType:  models.CarTypeSports,
			fuelType: models.FuelDiesel,
			days:     28,
			extras:   models.Extras{UnlimitedMileage: true},
			want:     Breakdown{BasePrice: dec(700), CarTypeExtra: dec(75), FuelTypeExtra: dec(0), ExtrasPrice: dec(280), TotalPrice: dec(1055), Deposit: dec(211)},
			deposit:  "211.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBookingPricing(tt.carType, tt.fuelType, tt.days, tt.extras)
			require.NoError(t, err)
			assertDecimal(t, tt.want.BasePrice, got.BasePrice, "basePrice")
			assertDecimal(t, tt.want.CarTypeExtra, got.CarTypeExtra, "carTypeExtra")
			assertDecimal(t, tt.want.FuelTypeExtra, got.FuelTypeExtra, "fuelTypeExtra")
			assertDecimal(t, tt.want.ExtrasPrice, got.ExtrasPrice, "extrasPrice")
			assertDecimal(t, tt.want.TotalPrice, got.TotalPrice, "totalPrice")
			assertDecimal(t, tt.want.Deposit, got.Deposit, "deposit")
			assert.Equal(t, tt.deposit, got.DepositDisplay())
		})
	}
}

func TestComputeBookingPricing_Invariants(t *testing.T) {
	fifth := decimal.RequireFromString("0.2")
	for _, ct := range models.CarTypes {
		for _, ft := range models.FuelTypes {
			for days := rental.MinRentalDays; days <= rental.MaxRentalDays; days++ {
				for _, extras := range []models.Extras{{}, {UnlimitedMileage: true}, {BreakdownCover: true}, {UnlimitedMileage: true, BreakdownCover: true}} {
					b, err := ComputeBookingPricing(ct, ft, days, extras)
					require.NoError(t, err)
					sum := b.BasePrice.Add(b.CarTypeExtra).Add(b.FuelTypeExtra).Add(b.ExtrasPrice)
					if !sum.Equal(b.TotalPrice) {
						t.Fatalf("%s/%s/%d: total %s != components %s", ct, ft, days, b.TotalPrice, sum)
					}
					if !b.TotalPrice.Mul(fifth).Equal(b.Deposit) {
						t.Fatalf("%s/%s/%d: deposit %s is not 20%% of %s", ct, ft, days, b.Deposit, b.TotalPrice)
					}
				}
			}
		}
	}
}

func TestComputeCarDailyRate_AgreesWithBookingSurcharges(t *testing.T) {
	for _, ct := range models.CarTypes {
		for _, ft := range models.FuelTypes {
			rate, err := ComputeCarDailyRate(ct, ft)
			require.NoError(t, err)

			oneDay, err := ComputeBookingPricing(ct, ft, 1, models.Extras{})
			require.NoError(t, err)
			assertDecimal(t, oneDay.TotalPrice, rate, string(ct)+"/"+string(ft))

			perDay := rate.Sub(dec(25))
			assertDecimal(t, oneDay.CarTypeExtra.Add(oneDay.FuelTypeExtra), perDay, "surcharges")
		}
	}
}

func TestComputeCarDailyRate_KnownRates(t *testing.T) {
	tests := []struct {
		carType  models.CarType
		fuelType models.FuelType
		want     int64
	}{
		{models.CarTypeCity, models.FuelPetrol, 25},
		{models.CarTypeFamily, models.FuelDiesel, 75},
		{models.CarTypeSports, models.FuelPetrol, 100},
		{models.CarTypeSUV, models.FuelPetrol, 90},
		{models.CarTypeSUV, models.FuelHybrid, 120},
		{models.CarTypeSports, models.FuelFullElectric, 150},
	}
	for _, tt := range tests {
		rate, err := ComputeCarDailyRate(tt.carType, tt.fuelType)
		require.NoError(t, err)
		assertDecimal(t, dec(tt.want), rate, string(tt.carType)+"/"+string(tt.fuelType))
	}
}

func TestComputeBookingPricing_RejectsOutOfRangeDays(t *testing.T) {
	for _, days := range []int{-1, 0, 29, 100} {
		_, err := ComputeBookingPricing(models.CarTypeCity, models.FuelPetrol, days, models.Extras{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, rental.ErrValidation), "days=%d", days)

		re, ok := rental.AsRuleError(err)
		require.True(t, ok)
		assert.Equal(t, "rentalDetails.numberOfDays", re.Rule)
	}
}

func TestPricing_RejectsUnknownEnums(t *testing.T) {
	_, err := ComputeBookingPricing("Van", models.FuelPetrol, 3, models.Extras{})
	assert.ErrorIs(t, err, rental.ErrValidation)

	_, err = ComputeCarDailyRate(models.CarTypeCity, "LPG")
	assert.ErrorIs(t, err, rental.ErrValidation)
}

func TestBreakdown_Model(t *testing.T) {
	b, err := ComputeBookingPricing(models.CarTypeFamily, models.FuelHybrid, 1, models.Extras{BreakdownCover: true})
	require.NoError(t, err)

	p := b.Model()
	assert.Equal(t, 25.0, p.BasePrice)
	assert.Equal(t, 50.0, p.CarTypeExtra)
	assert.Equal(t, 30.0, p.FuelTypeExtra)
	assert.Equal(t, 2.0, p.ExtrasPrice)
	assert.Equal(t, 107.0, p.TotalPrice)
	assert.InDelta(t, 21.4, p.Deposit, 1e-9)
}
