package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/config"
)

// Type names a lifecycle event.
type Type string

const (
	BookingCreated        Type = "booking.created"
	BookingStatusChanged  Type = "booking.status_changed"
	BookingPaymentChanged Type = "booking.payment_changed"
	BookingDeleted        Type = "booking.deleted"
	BookingOverdue        Type = "booking.overdue"

	CarCreated             Type = "car.created"
	CarUpdated             Type = "car.updated"
	CarAvailabilityChanged Type = "car.availability_changed"
	CarDeleted             Type = "car.deleted"
)

// Event is a committed change to a booking or car.
type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	BookingID  string                 `json:"bookingId,omitempty"`
	CarID      string                 `json:"carId,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// New returns an event of type t with a fresh id.
func New(t Type, bookingID, carID string, data map[string]interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		BookingID:  bookingID,
		CarID:      carID,
		Data:       data,
	}
}

// Publisher delivers events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	log.WithFields(log.Fields{"type": event.Type, "id": event.ID}).Debug("Event dropped, no broker configured")
	return nil
}

const publishTimeout = 5 * time.Second

// MQTTPublisher publishes events as JSON to <prefix>/<type> with QoS 1.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
}

// NewMQTTPublisher wraps a connected MQTT client.
func NewMQTTPublisher(client mqtt.Client, prefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix}
}

// ConnectMQTT connects to the configured broker.
func ConnectMQTT(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}
	return client, nil
}

// Topic returns the topic an event type is published on.
func (p *MQTTPublisher) Topic(t Type) string {
	return p.prefix + "/" + string(t)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	token := p.client.Publish(p.Topic(event.Type), 1, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish %s timed out", event.Type)
	}
	return token.Error()
}

// Close disconnects from the broker, waiting briefly for in-flight messages.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// Emit publishes event and logs any failure. Events are emitted after the
// change has committed, so a failed publish never fails the caller.
func Emit(ctx context.Context, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"type":      event.Type,
			"bookingId": event.BookingID,
			"carId":     event.CarID,
		}).Warn("Failed to publish event")
	}
}
