package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/rental"
	"github.com/ukydev/car-rental-portal/internal/service"
)

// CarService is the fleet behaviour the car handlers need.
type CarService interface {
	List(ctx context.Context, filter models.CarFilter) ([]models.Car, error)
	Get(ctx context.Context, id string) (*models.Car, error)
	Create(ctx context.Context, in models.CarInput) (*models.Car, error)
	Update(ctx context.Context, id string, in models.CarInput) (*models.Car, error)
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) (*models.Car, error)
	CheckAvailability(ctx context.Context, q service.AvailabilityQuery) ([]models.Car, error)
	RentalHistory(ctx context.Context, id string) (*models.RentalHistory, error)
}

// CarHandler serves the /api/cars routes
type CarHandler struct {
	cars CarService
}

// NewCarHandler creates a new car handler
func NewCarHandler(cars CarService) *CarHandler {
	return &CarHandler{cars: cars}
}

// ListCars returns the fleet, optionally filtered by type, fuelType and isAvailable
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter models.CarFilter
	if v := q.Get("type"); v != "" {
		ct := models.CarType(v)
		filter.Type = &ct
	}
	if v := q.Get("fuelType"); v != "" {
		ft := models.FuelType(v)
		filter.FuelType = &ft
	}
	if v := q.Get("isAvailable"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, r, rental.Validation("isAvailable", "isAvailable must be true or false"), "Error fetching cars")
			return
		}
		filter.IsAvailable = &available
	}

	cars, err := h.cars.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, "Error fetching cars")
		return
	}
	respondList(w, cars, len(cars))
}

// GetCar returns one car
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.cars.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err, "Error fetching car")
		return
	}
	respond(w, http.StatusOK, "", car)
}

// CreateCar adds a car to the fleet
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var in models.CarInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err, "Error creating car")
		return
	}
	car, err := h.cars.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err, "Error creating car")
		return
	}
	respond(w, http.StatusCreated, "Car created successfully", car)
}

// UpdateCar replaces a car's editable fields
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	var in models.CarInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err, "Error updating car")
		return
	}
	car, err := h.cars.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		respondError(w, r, err, "Error updating car")
		return
	}
	respond(w, http.StatusOK, "Car updated successfully", car)
}

// DeleteCar removes a car without active or pending bookings
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	if err := h.cars.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err, "Failed to delete car")
		return
	}
	respondMessage(w, http.StatusOK, "Car deleted successfully")
}

// SetAvailability toggles a car's availability flag
func (h *CarHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsAvailable *bool `json:"isAvailable"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, err, "Failed to update car availability")
		return
	}
	if body.IsAvailable == nil {
		respondError(w, r, rental.Validation("isAvailable", "isAvailable is required"), "Failed to update car availability")
		return
	}

	car, err := h.cars.SetAvailability(r.Context(), mux.Vars(r)["id"], *body.IsAvailable)
	if err != nil {
		respondError(w, r, err, "Failed to update car availability")
		return
	}
	message := "Car marked as unavailable"
	if car.IsAvailable {
		message = "Car marked as available"
	}
	respond(w, http.StatusOK, message, car)
}

// CheckAvailability lists cars free for an optional date range
func (h *CarHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query service.AvailabilityQuery

	for param, dst := range map[string]**time.Time{"startDate": &query.StartDate, "endDate": &query.EndDate} {
		v := q.Get(param)
		if v == "" {
			continue
		}
		t, err := models.ParseDate(v)
		if err != nil {
			respondError(w, r, rental.Validation(param, fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", param)), "Error checking car availability")
			return
		}
		*dst = &t
	}
	if v := q.Get("carType"); v != "" {
		ct := models.CarType(v)
		query.CarType = &ct
	}
	if v := q.Get("fuelType"); v != "" {
		ft := models.FuelType(v)
		query.FuelType = &ft
	}

	cars, err := h.cars.CheckAvailability(r.Context(), query)
	if err != nil {
		respondError(w, r, err, "Error checking car availability")
		return
	}
	respondList(w, cars, len(cars))
}

// RentalHistory returns every booking made for a car
func (h *CarHandler) RentalHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.cars.RentalHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err, "Error fetching car rental history")
		return
	}
	respond(w, http.StatusOK, "", history)
}
