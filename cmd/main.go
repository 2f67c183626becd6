package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/auth"
	"github.com/ukydev/car-rental-portal/internal/config"
	"github.com/ukydev/car-rental-portal/internal/db"
	"github.com/ukydev/car-rental-portal/internal/events"
	"github.com/ukydev/car-rental-portal/internal/handlers"
	"github.com/ukydev/car-rental-portal/internal/scheduler"
	"github.com/ukydev/car-rental-portal/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 15 * time.Second

// publisherFor connects to the MQTT broker when one is configured.
func publisherFor(cfg config.MQTTConfig) (events.Publisher, func(), error) {
	if cfg.Broker == "" {
		log.Info("MQTT_BROKER not set, domain events are not published")
		return events.NopPublisher{}, func() {}, nil
	}
	client, err := events.ConnectMQTT(cfg)
	if err != nil {
		return nil, nil, err
	}
	publisher := events.NewMQTTPublisher(client, cfg.TopicPrefix)
	log.WithFields(log.Fields{"broker": cfg.Broker, "prefix": cfg.TopicPrefix}).Info("Publishing domain events over MQTT")
	return publisher, publisher.Close, nil
}

// transactorFor picks multi-document transactions unless they are disabled
// for a standalone server.
func transactorFor(cfg config.MongoConfig, client *mongo.Client) db.Transactor {
	if !cfg.Transactions {
		log.Warn("MongoDB transactions disabled, relying on conditional writes only")
		return db.DirectTransactor{}
	}
	return &db.MongoTransactor{Client: client}
}

type app struct {
	router    http.Handler
	scheduler *scheduler.Scheduler
}

func newApp(cfg config.Config, database *mongo.Database, tx db.Transactor, publisher events.Publisher) *app {
	cars := &db.MongoCarCollection{Collection: database.Collection(db.CarsCollectionName)}
	bookings := &db.MongoBookingCollection{Collection: database.Collection(db.BookingsCollectionName)}
	staff := &db.MongoStaffCollection{Collection: database.Collection(db.StaffCollectionName)}

	authService := auth.NewService(cfg.JWT)
	carService := service.NewCarService(cars, bookings, tx, publisher)
	bookingService := service.NewBookingService(cars, bookings, tx, publisher)

	return &app{
		router: handlers.NewRouter(handlers.RouterConfig{
			Auth:           handlers.NewAuthHandler(authService, staff),
			Cars:           handlers.NewCarHandler(carService),
			Bookings:       handlers.NewBookingHandler(bookingService),
			Tokens:         authService,
			RequestTimeout: cfg.RequestTimeout,
			TrustProxy:     cfg.TrustProxy,
		}),
		scheduler: scheduler.NewScheduler(bookings, publisher, cfg.OverdueSweepSpec),
	}
}

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	client, err := db.ConnectMongo(cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("MongoDB disconnect failed")
		}
	}()
	log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB successfully")

	database := client.Database(cfg.Mongo.Database)
	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx, database); err != nil {
		log.WithError(err).Warn("Failed to ensure indexes")
	}
	cancel()

	publisher, closePublisher, err := publisherFor(cfg.MQTT)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer closePublisher()

	a := newApp(cfg, database, transactorFor(cfg.Mongo, client), publisher)
	if err := a.scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}
	defer a.scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.WithField("signal", sig.String()).Info("Shutting down")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
