package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/events"
	"github.com/ukydev/car-rental-portal/internal/models"
)

// OverdueFinder lists active bookings whose end date has passed.
type OverdueFinder interface {
	FindOverdueBookings(ctx context.Context, now time.Time) ([]models.Booking, error)
}

// Scheduler runs periodic background jobs for the portal
type Scheduler struct {
	cron      *cron.Cron
	bookings  OverdueFinder
	publisher events.Publisher
	sweepSpec string
	now       func() time.Time
}

// NewScheduler creates a scheduler that sweeps overdue bookings on sweepSpec
func NewScheduler(bookings OverdueFinder, publisher events.Publisher, sweepSpec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		bookings:  bookings,
		publisher: publisher,
		sweepSpec: sweepSpec,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.sweepSpec, s.runOverdueSweep); err != nil {
		return fmt.Errorf("register overdue sweep %q: %w", s.sweepSpec, err)
	}
	s.cron.Start()
	log.WithField("spec", s.sweepSpec).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}

func (s *Scheduler) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.SweepOverdue(ctx); err != nil {
		log.WithError(err).Error("Overdue sweep failed")
	}
}

// SweepOverdue reports every active booking past its end date. It never
// changes booking state; completing a rental stays a staff action.
func (s *Scheduler) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now()
	overdue, err := s.bookings.FindOverdueBookings(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find overdue bookings: %w", err)
	}

	for _, booking := range overdue {
		hoursLate := now.Sub(booking.RentalDetails.EndDate).Hours()
		log.WithFields(log.Fields{
			"bookingId": booking.ID.Hex(),
			"carId":     booking.CarID.Hex(),
			"customer":  booking.Customer.FirstName + " " + booking.Customer.Surname,
			"endDate":   booking.RentalDetails.EndDate,
			"hoursLate": int(hoursLate),
		}).Warn("Booking overdue")

		events.Emit(ctx, s.publisher, events.New(events.BookingOverdue, booking.ID.Hex(), booking.CarID.Hex(), map[string]interface{}{
			"endDate":   booking.RentalDetails.EndDate,
			"hoursLate": hoursLate,
		}))
	}

	log.WithField("count", len(overdue)).Debug("Overdue sweep finished")
	return len(overdue), nil
}
