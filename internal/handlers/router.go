package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukydev/car-rental-portal/internal/middleware"
	"github.com/ukydev/car-rental-portal/internal/models"
)

// Login and register attempts allowed per client IP per window.
const (
	authAttempts = 10
	authWindow   = time.Minute
	slowRequest  = 2 * time.Second
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth           *AuthHandler
	Cars           *CarHandler
	Bookings       *BookingHandler
	Tokens         middleware.TokenValidator
	RequestTimeout time.Duration
	// TrustProxy makes the login rate limit key on forwarded client IPs.
	TrustProxy bool
}

// NewRouter creates a new mux router and all the routes
func NewRouter(cfg RouterConfig) *mux.Router {
	authMiddleware := middleware.NewAuthMiddleware(cfg.Tokens)
	limiter := middleware.NewRateLimitMiddleware(cfg.TrustProxy).RateLimit(authAttempts, authWindow)
	deleteCar := authMiddleware.RequirePermission(models.ActionDeleteCar)
	deleteBooking := authMiddleware.RequirePermission(models.ActionDeleteBooking)
	staffOnly := authMiddleware.RequireRole(models.RoleStaff)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(slowRequest), middleware.Timeout(cfg.RequestTimeout))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.Handle("/staff/register", limiter(http.HandlerFunc(cfg.Auth.Register))).Methods("POST")
	api.Handle("/staff/login", limiter(http.HandlerFunc(cfg.Auth.Login))).Methods("POST")
	api.Handle("/staff/profile", staffOnly(http.HandlerFunc(cfg.Auth.GetProfile))).Methods("GET")
	api.HandleFunc("/staff/profile", cfg.Auth.UpdateProfile).Methods("PUT")
	api.HandleFunc("/staff/password", cfg.Auth.ChangePassword).Methods("POST")

	api.HandleFunc("/cars", cfg.Cars.ListCars).Methods("GET")
	api.HandleFunc("/cars", cfg.Cars.CreateCar).Methods("POST")
	api.HandleFunc("/cars/check-availability", cfg.Cars.CheckAvailability).Methods("GET")
	api.HandleFunc("/cars/{id}", cfg.Cars.GetCar).Methods("GET")
	api.HandleFunc("/cars/{id}", cfg.Cars.UpdateCar).Methods("PUT")
	api.Handle("/cars/{id}", deleteCar(http.HandlerFunc(cfg.Cars.DeleteCar))).Methods("DELETE")
	api.HandleFunc("/cars/{id}/rental-history", cfg.Cars.RentalHistory).Methods("GET")
	api.HandleFunc("/cars/{id}/availability", cfg.Cars.SetAvailability).Methods("PUT")

	api.HandleFunc("/bookings", cfg.Bookings.ListBookings).Methods("GET")
	api.HandleFunc("/bookings", cfg.Bookings.CreateBooking).Methods("POST")
	api.HandleFunc("/bookings/stats", cfg.Bookings.Stats).Methods("GET")
	api.HandleFunc("/bookings/quote", cfg.Bookings.QuoteBooking).Methods("POST")
	api.HandleFunc("/bookings/{id}", cfg.Bookings.GetBooking).Methods("GET")
	api.Handle("/bookings/{id}", deleteBooking(http.HandlerFunc(cfg.Bookings.DeleteBooking))).Methods("DELETE")
	api.HandleFunc("/bookings/{id}/status", cfg.Bookings.UpdateStatus).Methods("PUT")
	api.HandleFunc("/bookings/{id}/payment-status", cfg.Bookings.UpdatePaymentStatus).Methods("PUT")

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Car rental portal API is running", map[string]bool{"alive": true})
}
