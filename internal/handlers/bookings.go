package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/pricing"
	"github.com/ukydev/car-rental-portal/internal/rental"
	"github.com/ukydev/car-rental-portal/internal/service"
)

// BookingService is the booking behaviour the booking handlers need.
type BookingService interface {
	Create(ctx context.Context, in models.BookingInput) (*models.Booking, pricing.Breakdown, error)
	Quote(ctx context.Context, req service.QuoteRequest) (pricing.Breakdown, error)
	List(ctx context.Context) ([]models.BookingView, error)
	Get(ctx context.Context, id string) (*models.BookingView, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, payment models.PaymentStatus) (*models.Booking, error)
	Stats(ctx context.Context) (models.BookingStats, error)
}

// BookingHandler serves the /api/bookings routes
type BookingHandler struct {
	bookings BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// quoteResponse is a price preview.
type quoteResponse struct {
	models.Pricing
	DepositDisplay string `json:"depositDisplay"`
}

// ListBookings returns all bookings with their car summaries
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Error fetching bookings")
		return
	}
	respondList(w, views, len(views))
}

// GetBooking returns one booking
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookings.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err, "Error fetching booking")
		return
	}
	respond(w, http.StatusOK, "", view)
}

// CreateBooking books an available car
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in models.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err, "Failed to create booking. Please check your input and try again.")
		return
	}
	booking, breakdown, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err, "Failed to create booking. Please check your input and try again.")
		return
	}
	respond(w, http.StatusCreated,
		fmt.Sprintf("Booking created successfully. A deposit of £%s is required.", breakdown.DepositDisplay()),
		booking)
}

// QuoteBooking prices a rental without booking it
func (h *BookingHandler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "Failed to price booking")
		return
	}
	breakdown, err := h.bookings.Quote(r.Context(), req)
	if err != nil {
		respondError(w, r, err, "Failed to price booking")
		return
	}
	respond(w, http.StatusOK, "", quoteResponse{Pricing: breakdown.Model(), DepositDisplay: breakdown.DepositDisplay()})
}

// DeleteBooking removes a booking that is not active
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err, "Failed to delete booking. Please try again later.")
		return
	}
	respondMessage(w, http.StatusOK, "Booking deleted successfully. Car has been marked as available.")
}

// UpdateStatus moves a booking through its lifecycle
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, err, "Failed to update booking status. Please try again later.")
		return
	}
	if body.Status == "" {
		respondError(w, r, rental.Validation("status", "status is required"), "Failed to update booking status. Please try again later.")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondError(w, r, err, "Failed to update booking status. Please try again later.")
		return
	}
	message := fmt.Sprintf("Booking status updated to %s successfully.", booking.Status)
	if booking.Status == models.BookingCancelled && booking.PaymentStatus == models.PaymentRefunded {
		message += " Payment has been marked as refunded."
	}
	respond(w, http.StatusOK, message, booking)
}

// UpdatePaymentStatus records a payment or refund
func (h *BookingHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, err, "Failed to update payment status. Please try again later.")
		return
	}
	if body.PaymentStatus == "" {
		respondError(w, r, rental.Validation("paymentStatus", "paymentStatus is required"), "Failed to update payment status. Please try again later.")
		return
	}

	booking, err := h.bookings.UpdatePaymentStatus(r.Context(), mux.Vars(r)["id"], body.PaymentStatus)
	if err != nil {
		respondError(w, r, err, "Failed to update payment status. Please try again later.")
		return
	}
	message := fmt.Sprintf("Payment status updated to %s successfully.", booking.PaymentStatus)
	if booking.PaymentStatus == models.PaymentPaid {
		message += " Booking status has been set to active."
	}
	respond(w, http.StatusOK, message, booking)
}

// Stats returns booking statistics for the dashboard
func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookings.Stats(r.Context())
	if err != nil {
		respondError(w, r, err, "Error fetching booking statistics")
		return
	}
	respond(w, http.StatusOK, "", stats)
}
